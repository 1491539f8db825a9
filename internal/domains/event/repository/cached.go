package repository

import (
	"context"
	"fmt"

	"events-backend/internal/domains/event/model"
	"events-backend/pkg/cache"

	"github.com/rs/zerolog/log"
)

// cachedRepository decorates a Repository with a read-through row cache.
//
// Entries are keyed by id and carry no TTL: create and delete invalidate them
// as part of the same logical operation. A backing-store miss is cached as an
// explicit negative marker (a nil Event), distinct from "never queried", so
// repeated lookups for nonexistent ids stop hitting the database.
type cachedRepository struct {
	inner Repository
	cache cache.Cache
}

func NewCachedRepository(inner Repository, c cache.Cache) Repository {
	return &cachedRepository{inner: inner, cache: c}
}

// cacheEntry wraps the row so a negative result survives the JSON round-trip:
// {"event":null} is a hit that means "known absent".
type cacheEntry struct {
	Event *model.Event `json:"event"`
}

func cacheKey(id int64) string {
	return fmt.Sprintf("event:get:%d", id)
}

func (r *cachedRepository) SelectByID(ctx context.Context, id int64) (*model.Event, error) {
	key := cacheKey(id)

	var entry cacheEntry
	found, err := r.cache.Get(ctx, key, &entry)
	if err != nil {
		// A broken cache degrades to a database read.
		log.Warn().Err(err).Int64("event_id", id).Msg("event cache read failed")
	} else if found {
		return entry.Event, nil
	}

	event, err := r.inner.SelectByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, key, cacheEntry{Event: event}, 0); err != nil {
		log.Warn().Err(err).Int64("event_id", id).Msg("event cache write failed")
	}

	return event, nil
}

func (r *cachedRepository) Insert(ctx context.Context, event *model.Event) (int64, error) {
	id, err := r.inner.Insert(ctx, event)
	if err != nil {
		return 0, err
	}

	// Drop any stale marker so the follow-up read repopulates from the row.
	if err := r.cache.Delete(ctx, cacheKey(id)); err != nil {
		log.Warn().Err(err).Int64("event_id", id).Msg("event cache invalidation failed")
	}

	return id, nil
}

func (r *cachedRepository) DeleteByID(ctx context.Context, id int64) (int64, error) {
	count, err := r.inner.DeleteByID(ctx, id)
	if err != nil {
		return 0, err
	}

	if err := r.cache.Delete(ctx, cacheKey(id)); err != nil {
		log.Warn().Err(err).Int64("event_id", id).Msg("event cache invalidation failed")
	}

	return count, nil
}

func (r *cachedRepository) List(ctx context.Context, opts ListOptions) ([]*model.Event, error) {
	return r.inner.List(ctx, opts)
}

func (r *cachedRepository) Count(ctx context.Context, clauses []Clause) (int, error) {
	return r.inner.Count(ctx, clauses)
}
