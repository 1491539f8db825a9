package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"events-backend/internal/domains/event/model"
	"events-backend/internal/domains/event/repository"
	"events-backend/internal/shared/actor"
	"events-backend/internal/shared/utils"
)

type eventService struct {
	repo           repository.Repository
	perPageDefault int
	perPageMax     int

	createdListeners []CreatedListener
	deletedListeners []DeletedListener
}

func NewEventService(repo repository.Repository, perPageDefault, perPageMax int) Service {
	return &eventService{
		repo:           repo,
		perPageDefault: perPageDefault,
		perPageMax:     perPageMax,
	}
}

func (s *eventService) OnCreated(fn CreatedListener) {
	s.createdListeners = append(s.createdListeners, fn)
}

func (s *eventService) OnDeleted(fn DeletedListener) {
	s.deletedListeners = append(s.deletedListeners, fn)
}

func (s *eventService) Create(ctx context.Context, params model.CreateEventParams, lang string) (*model.Event, error) {
	params.ApplyDefaults()

	if params.Slug == "" {
		params.Slug = utils.GenerateSlug(params.Title)
	}
	if params.Author == 0 {
		params.Author = actor.FromContext(ctx).ID
	}

	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}

	id, err := s.repo.Insert(ctx, &model.Event{
		Title:       params.Title,
		Description: params.Description,
		DateStart:   params.DateStart,
		DateEnd:     params.DateEnd,
		Type:        params.Type,
		Status:      params.Status,
		Slug:        params.Slug,
		Author:      params.Author,
	})
	if err != nil {
		return nil, model.NewPersistenceError("event insertion failure", err)
	}

	// Re-read through the store so the row cache is populated and the caller
	// gets exactly what was persisted. A failure here is as fatal as the
	// insert failing.
	event, err := s.repo.SelectByID(ctx, id)
	if err != nil {
		return nil, model.NewPersistenceError("event request failure", err)
	}
	if event == nil {
		return nil, model.NewPersistenceError("event request failure",
			fmt.Errorf("failed to fetch the created event %d", id))
	}

	for _, fn := range s.createdListeners {
		fn(ctx, event, lang)
	}

	return event, nil
}

const demoTitleSuffixLength = 7

var demoSuffixAlphabet = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

func randomInt(max int64) (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		return 0, err
	}
	return n.Int64(), nil
}

// CreateDemo builds a random event the way the admin "Add" button does:
// a random title, a start within the next few weeks, an end 1-3 days later,
// and a type drawn from the built-in set.
func (s *eventService) CreateDemo(ctx context.Context, lang string) (*model.Event, error) {
	suffix := make([]rune, demoTitleSuffixLength)
	for i := range suffix {
		n, err := randomInt(int64(len(demoSuffixAlphabet)))
		if err != nil {
			return nil, fmt.Errorf("generate demo title: %w", err)
		}
		suffix[i] = demoSuffixAlphabet[n]
	}

	days, err := randomInt(24)
	if err != nil {
		return nil, fmt.Errorf("generate demo start: %w", err)
	}
	hours, err := randomInt(31)
	if err != nil {
		return nil, fmt.Errorf("generate demo start: %w", err)
	}
	duration, err := randomInt(3)
	if err != nil {
		return nil, fmt.Errorf("generate demo end: %w", err)
	}
	typeIdx, err := randomInt(int64(len(model.DefaultTypes)))
	if err != nil {
		return nil, fmt.Errorf("generate demo type: %w", err)
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := midnight.AddDate(0, 0, int(days)).Add(time.Duration(hours) * time.Hour)
	end := start.AddDate(0, 0, int(duration)+1)

	const layout = "2006-01-02 15:04:05"

	return s.Create(ctx, model.CreateEventParams{
		Title:       "Some event #" + string(suffix),
		Description: "Some description",
		DateStart:   start.Format(layout),
		DateEnd:     end.Format(layout),
		Type:        model.DefaultTypes[typeIdx],
	}, lang)
}

func (s *eventService) Get(ctx context.Context, id int64) (*model.Event, error) {
	if id <= 0 {
		return nil, model.ErrInvalidInput
	}

	event, err := s.repo.SelectByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return nil, model.ErrEventNotFound
	}

	return event, nil
}

func (s *eventService) Delete(ctx context.Context, id int64) (int64, error) {
	if id <= 0 {
		return 0, model.ErrInvalidInput
	}

	count, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return 0, model.NewPersistenceError("event deletion failure", err)
	}

	for _, fn := range s.deletedListeners {
		fn(ctx, id)
	}

	return count, nil
}

func (s *eventService) List(ctx context.Context, page, perPage int, clauses []repository.Clause) ([]*model.Event, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = s.perPageDefault
	}
	if perPage > s.perPageMax {
		perPage = s.perPageMax
	}

	total, err := s.repo.Count(ctx, clauses)
	if err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	events, err := s.repo.List(ctx, repository.ListOptions{
		Page:    page,
		PerPage: perPage,
		Clauses: clauses,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}

	return events, total, nil
}
