package repository

import (
	"context"
	"errors"
	"testing"

	"events-backend/internal/domains/event/model"
	"events-backend/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepository is an in-memory backing store that counts reads, so tests
// can assert the cache actually short-circuits them.
type fakeRepository struct {
	byID      map[int64]*model.Event
	nextID    int64
	selects   map[int64]int
	insertErr error
	deleteErr error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		byID:    make(map[int64]*model.Event),
		nextID:  1,
		selects: make(map[int64]int),
	}
}

func (f *fakeRepository) Insert(ctx context.Context, e *model.Event) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	stored := *e
	stored.ID = f.nextID
	f.nextID++
	f.byID[stored.ID] = &stored
	return stored.ID, nil
}

func (f *fakeRepository) SelectByID(ctx context.Context, id int64) (*model.Event, error) {
	f.selects[id]++
	if e, ok := f.byID[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeRepository) DeleteByID(ctx context.Context, id int64) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	if _, ok := f.byID[id]; !ok {
		return 0, nil
	}
	delete(f.byID, id)
	return 1, nil
}

func (f *fakeRepository) List(ctx context.Context, opts ListOptions) ([]*model.Event, error) {
	return nil, nil
}

func (f *fakeRepository) Count(ctx context.Context, clauses []Clause) (int, error) {
	return len(f.byID), nil
}

func seedEvent(t *testing.T, repo Repository) int64 {
	t.Helper()
	id, err := repo.Insert(context.Background(), &model.Event{
		Title:     "Conf A",
		DateStart: model.ZeroDate,
		DateEnd:   model.ZeroDate,
		Type:      "conference",
		Status:    model.StatusPublish,
		Slug:      "conf-a",
	})
	require.NoError(t, err)
	return id
}

func TestSelectByIDHitPopulatesCache(t *testing.T) {
	inner := newFakeRepository()
	repo := NewCachedRepository(inner, cache.NewMemory())
	ctx := context.Background()

	id := seedEvent(t, repo)

	first, err := repo.SelectByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "Conf A", first.Title)

	second, err := repo.SelectByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, first, second)

	assert.Equal(t, 1, inner.selects[id], "second read must come from the cache")
}

func TestSelectByIDNegativeCache(t *testing.T) {
	inner := newFakeRepository()
	repo := NewCachedRepository(inner, cache.NewMemory())
	ctx := context.Background()

	// Miss before and after the first lookup, deterministically.
	for i := 0; i < 3; i++ {
		event, err := repo.SelectByID(ctx, 42)
		require.NoError(t, err)
		assert.Nil(t, event)
	}

	assert.Equal(t, 1, inner.selects[42], "known-absent ids must be queried once")
}

func TestInsertDropsStaleNegativeMarker(t *testing.T) {
	inner := newFakeRepository()
	repo := NewCachedRepository(inner, cache.NewMemory())
	ctx := context.Background()

	// Cache a negative marker for the id the next insert will take.
	missing, err := repo.SelectByID(ctx, 1)
	require.NoError(t, err)
	require.Nil(t, missing)

	id := seedEvent(t, repo)
	require.Equal(t, int64(1), id)

	event, err := repo.SelectByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, event, "insert must invalidate the negative marker")
	assert.Equal(t, "Conf A", event.Title)
}

func TestDeleteInvalidatesCache(t *testing.T) {
	inner := newFakeRepository()
	repo := NewCachedRepository(inner, cache.NewMemory())
	ctx := context.Background()

	id := seedEvent(t, repo)

	// Warm the cache.
	event, err := repo.SelectByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, event)

	count, err := repo.DeleteByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	event, err = repo.SelectByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, event, "delete then get must miss regardless of prior cache state")
}

func TestDeleteNonexistentIsZeroCount(t *testing.T) {
	inner := newFakeRepository()
	repo := NewCachedRepository(inner, cache.NewMemory())

	count, err := repo.DeleteByID(context.Background(), 999)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestDeleteErrorPropagates(t *testing.T) {
	inner := newFakeRepository()
	inner.deleteErr = errors.New("connection reset")
	repo := NewCachedRepository(inner, cache.NewMemory())

	_, err := repo.DeleteByID(context.Background(), 1)
	assert.Error(t, err)
}
