package service

import (
	"context"

	"events-backend/internal/domains/event/model"
	"events-backend/internal/domains/event/repository"
)

// CreatedListener is notified after an event row was persisted. lang is the
// target language carried in the creation context, empty when none was.
type CreatedListener func(ctx context.Context, event *model.Event, lang string)

// DeletedListener is notified after an event row was removed.
type DeletedListener func(ctx context.Context, id int64)

type Service interface {
	// Create persists a new event. Missing slug is derived from the title,
	// missing author defaults to the calling actor.
	Create(ctx context.Context, params model.CreateEventParams, lang string) (*model.Event, error)

	// CreateDemo persists a randomly generated event, the "Add" button of the
	// admin screen.
	CreateDemo(ctx context.Context, lang string) (*model.Event, error)

	// Get returns the event for id or model.ErrEventNotFound.
	Get(ctx context.Context, id int64) (*model.Event, error)

	// Delete removes the row and returns the number of rows removed.
	// Deleting a nonexistent id is not an error and returns 0.
	Delete(ctx context.Context, id int64) (int64, error)

	// List returns one page of events ordered by date_start descending, plus
	// the total row count ignoring pagination.
	List(ctx context.Context, page, perPage int, clauses []repository.Clause) ([]*model.Event, int, error)

	// OnCreated and OnDeleted register notification listeners. Registration
	// happens during container build and is not safe for concurrent use with
	// Create/Delete.
	OnCreated(fn CreatedListener)
	OnDeleted(fn DeletedListener)
}
