package service

import (
	"context"
	"fmt"

	eventmodel "events-backend/internal/domains/event/model"
	eventrepo "events-backend/internal/domains/event/repository"
	eventservice "events-backend/internal/domains/event/service"
	"events-backend/internal/domains/translation/model"
	"events-backend/internal/domains/translation/repository"

	"github.com/rs/zerolog/log"
)

// Cell is the content of one language column for one listed event row.
type Cell struct {
	// Kind is "current" (the row's own language), "translation" (a linked
	// row exists), or "add" (no translation yet).
	Kind string `json:"kind"`

	// Flag is set for "current" cells.
	Flag string `json:"flag,omitempty"`

	// TranslationID is set for "translation" cells.
	TranslationID int64 `json:"translation_id,omitempty"`
}

const (
	CellCurrent     = "current"
	CellTranslation = "translation"
	CellAdd         = "add"
)

// Service bridges event rows to the language framework: language assignment
// on create, translation cloning, and the per-language listing columns.
type Service struct {
	events    eventservice.Service
	langStore repository.LanguageStore
	languages repository.LanguageRepository
	types     *TypeRegistry
}

func NewService(
	events eventservice.Service,
	langStore repository.LanguageStore,
	languages repository.LanguageRepository,
	types *TypeRegistry,
) *Service {
	return &Service{
		events:    events,
		langStore: langStore,
		languages: languages,
		types:     types,
	}
}

// Types exposes the registry so extensions can hook into it.
func (s *Service) Types() *TypeRegistry {
	return s.types
}

// HandleEventCreated assigns a language to a newly created event. It is
// registered as a created-listener on the event service. An invalid, missing,
// or wildcard code is silently ignored: the event simply gets no language.
func (s *Service) HandleEventCreated(ctx context.Context, event *eventmodel.Event, lang string) {
	if !s.types.IsTranslated(ctx, event.Type) {
		return
	}

	if err := model.ValidateCode(lang); err != nil {
		return
	}

	if err := s.langStore.SetLanguage(ctx, event.ID, lang); err != nil {
		log.Error().Err(err).Int64("event_id", event.ID).Str("lang", lang).
			Msg("failed to assign language to created event")
	}
}

// HandleEventDeleted drops the deleted event's language assignment and
// removes it from its translation group. Registered as a deleted-listener on
// the event service.
func (s *Service) HandleEventDeleted(ctx context.Context, id int64) {
	if err := s.langStore.DeleteLanguage(ctx, id); err != nil {
		log.Error().Err(err).Int64("event_id", id).
			Msg("failed to clean up language data for deleted event")
	}
}

// AddTranslation clones the source event into the target language and records
// the two rows as mutual translations. The clone carries a language marker in
// its title, description, and slug.
func (s *Service) AddTranslation(ctx context.Context, sourceID int64, targetLang string) (*eventmodel.Event, error) {
	if err := model.ValidateCode(targetLang); err != nil {
		return nil, err
	}

	language, err := s.languages.GetBySlug(ctx, targetLang)
	if err != nil {
		return nil, fmt.Errorf("look up target language: %w", err)
	}
	if language == nil {
		return nil, model.ErrInvalidLanguage
	}

	source, err := s.events.Get(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	sourceLang, err := s.langStore.GetLanguage(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("get source language: %w", err)
	}
	if sourceLang == targetLang {
		return nil, model.ErrDuplicateTranslation
	}

	existing, err := s.langStore.GetTranslation(ctx, sourceID, targetLang)
	if err != nil {
		return nil, fmt.Errorf("check existing translation: %w", err)
	}
	if existing != 0 {
		return nil, model.ErrDuplicateTranslation
	}

	// The clone is a new independent row, not a version of the source.
	translation, err := s.events.Create(ctx, eventmodel.CreateEventParams{
		Title:       fmt.Sprintf("%s (%s)", source.Title, targetLang),
		Description: fmt.Sprintf("%s (translated into %s)", source.Description, targetLang),
		DateStart:   source.DateStart,
		DateEnd:     source.DateEnd,
		Type:        source.Type,
		Status:      source.Status,
		Slug:        fmt.Sprintf("%s-%s", source.Slug, targetLang),
		Author:      source.Author,
	}, "")
	if err != nil {
		return nil, err
	}

	if err := s.langStore.SetLanguage(ctx, translation.ID, targetLang); err != nil {
		return nil, fmt.Errorf("assign language to translation: %w", err)
	}

	translations, err := s.langStore.GetTranslations(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("get source translation group: %w", err)
	}
	if sourceLang != "" {
		translations[sourceLang] = sourceID
	}
	translations[targetLang] = translation.ID

	if err := s.langStore.SaveTranslations(ctx, sourceID, translations); err != nil {
		return nil, fmt.Errorf("save translation group: %w", err)
	}

	return translation, nil
}

// Columns returns the known languages, one listing column each.
func (s *Service) Columns(ctx context.Context) ([]model.Language, error) {
	return s.languages.ListLanguages(ctx)
}

// Cells computes the language-column content for one listed event row.
// Events whose type is not translated get no cells at all.
func (s *Service) Cells(ctx context.Context, event *eventmodel.Event, columns []model.Language) (map[string]Cell, error) {
	if !s.types.IsTranslated(ctx, event.Type) {
		return nil, nil
	}

	eventLang, err := s.langStore.GetLanguage(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("get event language: %w", err)
	}
	if eventLang == "" {
		return nil, nil
	}

	translations, err := s.langStore.GetTranslations(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("get event translations: %w", err)
	}

	cells := make(map[string]Cell, len(columns))
	for _, column := range columns {
		if column.Slug == eventLang {
			cells[column.Slug] = Cell{Kind: CellCurrent, Flag: column.Flag}
			continue
		}
		if id, ok := translations[column.Slug]; ok && id != event.ID {
			cells[column.Slug] = Cell{Kind: CellTranslation, TranslationID: id}
			continue
		}
		cells[column.Slug] = Cell{Kind: CellAdd}
	}

	return cells, nil
}

// FilterClause contributes the language filter to the events listing query.
func FilterClause(lang string) eventrepo.Clause {
	return eventrepo.Clause{
		Join:  "JOIN event_languages ON event_languages.object_id = events.id",
		Where: "event_languages.language = ?",
		Args:  []any{lang},
	}
}
