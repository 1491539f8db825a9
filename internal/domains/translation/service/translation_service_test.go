package service

import (
	"context"
	"sort"
	"testing"

	eventmodel "events-backend/internal/domains/event/model"
	eventrepo "events-backend/internal/domains/event/repository"
	eventservice "events-backend/internal/domains/event/service"
	"events-backend/internal/domains/translation/model"
	"events-backend/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEventRepo backs a real event service so translation tests exercise the
// whole create path (defaults, slug derivation, notifications).
type fakeEventRepo struct {
	byID   map[int64]*eventmodel.Event
	nextID int64
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: make(map[int64]*eventmodel.Event), nextID: 1}
}

func (f *fakeEventRepo) Insert(ctx context.Context, e *eventmodel.Event) (int64, error) {
	stored := *e
	stored.ID = f.nextID
	f.nextID++
	f.byID[stored.ID] = &stored
	return stored.ID, nil
}

func (f *fakeEventRepo) SelectByID(ctx context.Context, id int64) (*eventmodel.Event, error) {
	if e, ok := f.byID[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeEventRepo) DeleteByID(ctx context.Context, id int64) (int64, error) {
	if _, ok := f.byID[id]; !ok {
		return 0, nil
	}
	delete(f.byID, id)
	return 1, nil
}

func (f *fakeEventRepo) List(ctx context.Context, opts eventrepo.ListOptions) ([]*eventmodel.Event, error) {
	return nil, nil
}

func (f *fakeEventRepo) Count(ctx context.Context, clauses []eventrepo.Clause) (int, error) {
	return len(f.byID), nil
}

// fakeLanguageStore keeps languages and translation groups in memory.
type fakeLanguageStore struct {
	langs  map[int64]string
	groups map[int64]map[string]int64
}

func newFakeLanguageStore() *fakeLanguageStore {
	return &fakeLanguageStore{
		langs:  make(map[int64]string),
		groups: make(map[int64]map[string]int64),
	}
}

func (f *fakeLanguageStore) SetLanguage(ctx context.Context, objectID int64, lang string) error {
	f.langs[objectID] = lang
	return nil
}

func (f *fakeLanguageStore) GetLanguage(ctx context.Context, objectID int64) (string, error) {
	return f.langs[objectID], nil
}

func (f *fakeLanguageStore) GetTranslation(ctx context.Context, objectID int64, lang string) (int64, error) {
	if group, ok := f.groups[objectID]; ok {
		return group[lang], nil
	}
	return 0, nil
}

func (f *fakeLanguageStore) GetTranslations(ctx context.Context, objectID int64) (map[string]int64, error) {
	out := make(map[string]int64)
	for lang, id := range f.groups[objectID] {
		out[lang] = id
	}
	return out, nil
}

func (f *fakeLanguageStore) SaveTranslations(ctx context.Context, objectID int64, translations map[string]int64) error {
	group := make(map[string]int64, len(translations))
	for lang, id := range translations {
		group[lang] = id
	}
	// Every member of the group shares it.
	for _, id := range group {
		f.groups[id] = group
	}
	f.groups[objectID] = group
	return nil
}

func (f *fakeLanguageStore) DeleteLanguage(ctx context.Context, objectID int64) error {
	delete(f.langs, objectID)
	if group, ok := f.groups[objectID]; ok {
		for lang, id := range group {
			if id == objectID {
				delete(group, lang)
			}
		}
		delete(f.groups, objectID)
	}
	return nil
}

// fakeLanguageRepo is a fixed registry of known languages.
type fakeLanguageRepo struct {
	languages []model.Language
}

func newFakeLanguageRepo() *fakeLanguageRepo {
	return &fakeLanguageRepo{languages: []model.Language{
		{Slug: "de", Name: "Deutsch", Flag: "de-flag"},
		{Slug: "en", Name: "English", Flag: "en-flag"},
		{Slug: "fr", Name: "Français", Flag: "fr-flag"},
	}}
}

func (f *fakeLanguageRepo) ListLanguages(ctx context.Context) ([]model.Language, error) {
	return f.languages, nil
}

func (f *fakeLanguageRepo) GetBySlug(ctx context.Context, slug string) (*model.Language, error) {
	for _, lang := range f.languages {
		if lang.Slug == slug {
			copied := lang
			return &copied, nil
		}
	}
	return nil, nil
}

type fixture struct {
	events    eventservice.Service
	langStore *fakeLanguageStore
	svc       *Service
}

func newFixture() *fixture {
	events := eventservice.NewEventService(newFakeEventRepo(), 20, 100)
	langStore := newFakeLanguageStore()
	types := NewTypeRegistry(cache.NewMemory())
	types.Seal()

	svc := NewService(events, langStore, newFakeLanguageRepo(), types)
	events.OnCreated(svc.HandleEventCreated)
	events.OnDeleted(svc.HandleEventDeleted)

	return &fixture{events: events, langStore: langStore, svc: svc}
}

func (fx *fixture) createSource(t *testing.T, lang string) *eventmodel.Event {
	t.Helper()
	source, err := fx.events.Create(context.Background(), eventmodel.CreateEventParams{
		Title: "Conf A",
		Type:  "conference",
	}, lang)
	require.NoError(t, err)
	return source
}

func TestAddTranslationClonesWithLanguageMarkers(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	source := fx.createSource(t, "en")
	require.Equal(t, eventmodel.StatusPublish, source.Status)
	require.Equal(t, "conf-a", source.Slug)
	require.Equal(t, eventmodel.ZeroDate, source.DateStart)
	require.Equal(t, eventmodel.ZeroDate, source.DateEnd)

	translation, err := fx.svc.AddTranslation(ctx, source.ID, "fr")
	require.NoError(t, err)

	assert.Equal(t, "Conf A (fr)", translation.Title)
	assert.Equal(t, "conf-a-fr", translation.Slug)
	assert.Equal(t, source.Type, translation.Type)
	assert.Equal(t, source.Status, translation.Status)
	assert.NotEqual(t, source.ID, translation.ID)

	lang, err := fx.langStore.GetLanguage(ctx, translation.ID)
	require.NoError(t, err)
	assert.Equal(t, "fr", lang)

	// The two rows are mutual translations.
	id, err := fx.langStore.GetTranslation(ctx, source.ID, "fr")
	require.NoError(t, err)
	assert.Equal(t, translation.ID, id)

	id, err = fx.langStore.GetTranslation(ctx, translation.ID, "en")
	require.NoError(t, err)
	assert.Equal(t, source.ID, id)
}

func TestAddTranslationRejectsDuplicate(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	source := fx.createSource(t, "en")

	_, err := fx.svc.AddTranslation(ctx, source.ID, "fr")
	require.NoError(t, err)

	_, err = fx.svc.AddTranslation(ctx, source.ID, "fr")
	assert.ErrorIs(t, err, model.ErrDuplicateTranslation)

	// The source's own language counts as taken too.
	_, err = fx.svc.AddTranslation(ctx, source.ID, "en")
	assert.ErrorIs(t, err, model.ErrDuplicateTranslation)

	// A second target language is still fine.
	_, err = fx.svc.AddTranslation(ctx, source.ID, "de")
	assert.NoError(t, err)
}

func TestAddTranslationValidatesLanguageCode(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	source := fx.createSource(t, "en")

	for _, code := range []string{"", "all", "FR", "f r", "fr1", "héb"} {
		_, err := fx.svc.AddTranslation(ctx, source.ID, code)
		assert.ErrorIs(t, err, model.ErrInvalidLanguage, "code %q", code)
	}

	// Well-formed but unknown to the registry.
	_, err := fx.svc.AddTranslation(ctx, source.ID, "xx")
	assert.ErrorIs(t, err, model.ErrInvalidLanguage)
}

func TestAddTranslationMissingSource(t *testing.T) {
	fx := newFixture()

	_, err := fx.svc.AddTranslation(context.Background(), 999, "fr")
	assert.ErrorIs(t, err, eventmodel.ErrEventNotFound)
}

func TestCreatedListenerAssignsLanguage(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	source := fx.createSource(t, "fr")

	lang, err := fx.langStore.GetLanguage(ctx, source.ID)
	require.NoError(t, err)
	assert.Equal(t, "fr", lang)
}

func TestCreatedListenerIgnoresInvalidCodes(t *testing.T) {
	for _, code := range []string{"", "all", "FR", "12"} {
		fx := newFixture()
		source := fx.createSource(t, code)

		lang, err := fx.langStore.GetLanguage(context.Background(), source.ID)
		require.NoError(t, err)
		assert.Empty(t, lang, "code %q must not be assigned", code)
	}
}

func TestCreatedListenerSkipsUntranslatedTypes(t *testing.T) {
	fx := newFixture()

	source, err := fx.events.Create(context.Background(), eventmodel.CreateEventParams{
		Title: "Misc",
		Type:  "other",
	}, "fr")
	require.NoError(t, err)

	lang, err := fx.langStore.GetLanguage(context.Background(), source.ID)
	require.NoError(t, err)
	assert.Empty(t, lang, "type 'other' is not translated")
}

func TestDeletedListenerCleansUpLanguageData(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	source := fx.createSource(t, "en")
	translation, err := fx.svc.AddTranslation(ctx, source.ID, "fr")
	require.NoError(t, err)

	_, err = fx.events.Delete(ctx, translation.ID)
	require.NoError(t, err)

	lang, err := fx.langStore.GetLanguage(ctx, translation.ID)
	require.NoError(t, err)
	assert.Empty(t, lang)

	// The source no longer links to the removed row, so the language is free
	// for a new translation.
	id, err := fx.langStore.GetTranslation(ctx, source.ID, "fr")
	require.NoError(t, err)
	assert.Zero(t, id)

	_, err = fx.svc.AddTranslation(ctx, source.ID, "fr")
	assert.NoError(t, err)
}

func TestCellsPerLanguageColumn(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	source := fx.createSource(t, "en")
	translation, err := fx.svc.AddTranslation(ctx, source.ID, "fr")
	require.NoError(t, err)

	columns, err := fx.svc.Columns(ctx)
	require.NoError(t, err)

	var slugs []string
	for _, col := range columns {
		slugs = append(slugs, col.Slug)
	}
	sort.Strings(slugs)
	assert.Equal(t, []string{"de", "en", "fr"}, slugs)

	cells, err := fx.svc.Cells(ctx, source, columns)
	require.NoError(t, err)
	require.Len(t, cells, 3)

	assert.Equal(t, Cell{Kind: CellCurrent, Flag: "en-flag"}, cells["en"])
	assert.Equal(t, Cell{Kind: CellTranslation, TranslationID: translation.ID}, cells["fr"])
	assert.Equal(t, Cell{Kind: CellAdd}, cells["de"])
}

func TestCellsEmptyForLanguagelessEvent(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	source := fx.createSource(t, "") // no language assigned

	columns, err := fx.svc.Columns(ctx)
	require.NoError(t, err)

	cells, err := fx.svc.Cells(ctx, source, columns)
	require.NoError(t, err)
	assert.Empty(t, cells)
}

func TestFilterClause(t *testing.T) {
	clause := FilterClause("fr")

	assert.Contains(t, clause.Join, "event_languages")
	assert.Equal(t, "event_languages.language = ?", clause.Where)
	assert.Equal(t, []any{"fr"}, clause.Args)
}
