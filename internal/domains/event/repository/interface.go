package repository

import (
	"context"

	"events-backend/internal/domains/event/model"
)

// Clause is a join/where fragment a collaborator contributes to the listing
// query. Where fragments use `?` placeholders; the repository rebinds them.
type Clause struct {
	Join  string
	Where string
	Args  []any
}

// ListOptions controls the listing page.
type ListOptions struct {
	Page    int // 1-based
	PerPage int
	Clauses []Clause
}

// Repository is the events table access contract. SelectByID returns
// (nil, nil) on a miss so the caller can distinguish absence from failure.
type Repository interface {
	Insert(ctx context.Context, event *model.Event) (int64, error)
	SelectByID(ctx context.Context, id int64) (*model.Event, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
	List(ctx context.Context, opts ListOptions) ([]*model.Event, error)
	Count(ctx context.Context, clauses []Clause) (int, error)
}
