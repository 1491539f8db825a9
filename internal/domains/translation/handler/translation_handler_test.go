package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	eventmodel "events-backend/internal/domains/event/model"
	"events-backend/internal/domains/event/repository"
	eventservice "events-backend/internal/domains/event/service"
	"events-backend/internal/domains/translation/model"
	"events-backend/internal/domains/translation/service"
	"events-backend/internal/shared/actor"
	"events-backend/internal/shared/nonce"
	"events-backend/pkg/cache"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func (f *fakeEventRepo) List(ctx context.Context, opts repository.ListOptions) ([]*eventmodel.Event, error) {
	return nil, nil
}

func (f *fakeEventRepo) Count(ctx context.Context, clauses []repository.Clause) (int, error) {
	return len(f.byID), nil
}

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

type fakeLanguageRepo struct{}

func (fakeLanguageRepo) ListLanguages(ctx context.Context) ([]model.Language, error) {
	return []model.Language{
		{Slug: "en", Name: "English", Flag: "en-flag"},
		{Slug: "fr", Name: "Français", Flag: "fr-flag"},
	}, nil
}

func (fakeLanguageRepo) GetBySlug(ctx context.Context, slug string) (*model.Language, error) {
	for _, lang := range []string{"en", "fr"} {
		if lang == slug {
			return &model.Language{Slug: slug}, nil
		}
	}
	return nil, nil
}

type testEnv struct {
	router *gin.Engine
	nonces *nonce.Service
	events eventservice.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	events := eventservice.NewEventService(newFakeEventRepo(), 20, 100)
	types := service.NewTypeRegistry(cache.NewMemory())
	types.Seal()
	translations := service.NewService(events, newFakeLanguageStore(), fakeLanguageRepo{}, types)
	events.OnCreated(translations.HandleEventCreated)

	nonces := nonce.NewService(cache.NewMemory())
	h := NewHandler(translations, nonces)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		current := actor.Actor{ID: 7, Capabilities: []string{actor.CapPublishEvents}}
		c.Request = c.Request.WithContext(actor.WithActor(c.Request.Context(), current))
		c.Next()
	})
	router.POST("/events/:id/translations", h.AddTranslation)
	router.GET("/languages", h.ListLanguages)

	return &testEnv{router: router, nonces: nonces, events: events}
}

func (env *testEnv) post(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()

	token, err := env.nonces.Issue(context.Background(), nonce.ActionAddTranslation, 7)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, target, nil)
	req.Header.Set("X-Action-Token", token)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func noticeCode(t *testing.T, body map[string]any) string {
	t.Helper()
	notices, ok := body["notices"].([]any)
	require.True(t, ok, "response carries no notices")
	require.Len(t, notices, 1)
	return notices[0].(map[string]any)["code"].(string)
}

func (env *testEnv) createSource(t *testing.T) *eventmodel.Event {
	t.Helper()
	source, err := env.events.Create(context.Background(), eventmodel.CreateEventParams{
		Title: "Conf A",
		Type:  "conference",
	}, "en")
	require.NoError(t, err)
	return source
}

func TestAddTranslationRequiresToken(t *testing.T) {
	env := newTestEnv(t)
	env.createSource(t)

	req := httptest.NewRequest(http.MethodPost, "/events/1/translations?lang=fr", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAddTranslation(t *testing.T) {
	env := newTestEnv(t)
	env.createSource(t)

	w := env.post(t, "/events/1/translations?lang=fr")
	require.Equal(t, http.StatusCreated, w.Code)

	body := decode(t, w)
	assert.Equal(t, "translation_created", noticeCode(t, body))

	data := body["data"].(map[string]any)
	assert.Equal(t, "Conf A (fr)", data["title"])
	assert.Equal(t, "conf-a-fr", data["slug"])
}

func TestAddTranslationDuplicate(t *testing.T) {
	env := newTestEnv(t)
	env.createSource(t)

	w := env.post(t, "/events/1/translations?lang=fr")
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.post(t, "/events/1/translations?lang=fr")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "translation_not_created", noticeCode(t, decode(t, w)))
}

func TestAddTranslationInvalidLanguage(t *testing.T) {
	env := newTestEnv(t)
	env.createSource(t)

	for _, lang := range []string{"", "all", "FR", "xx"} {
		w := env.post(t, "/events/1/translations?lang="+lang)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "lang %q", lang)
		assert.Equal(t, "translation_not_created", noticeCode(t, decode(t, w)))
	}
}

func TestAddTranslationMissingEvent(t *testing.T) {
	env := newTestEnv(t)

	w := env.post(t, "/events/42/translations?lang=fr")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "translation_not_created", noticeCode(t, decode(t, w)))
}

func TestAddTranslationInvalidID(t *testing.T) {
	env := newTestEnv(t)

	w := env.post(t, "/events/abc/translations?lang=fr")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListLanguages(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/languages", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].([]any)
	require.Len(t, data, 2)
	assert.Equal(t, "en", data[0].(map[string]any)["slug"])
}
