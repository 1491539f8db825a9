package repository

import (
	"context"

	"events-backend/internal/domains/translation/model"
)

// LanguageStore is the narrow contract over the language/translation
// framework: attach a language to an object id, and record or query a
// translation group. The core system depends on nothing else of it.
type LanguageStore interface {
	// SetLanguage assigns lang to the object, replacing any previous one.
	SetLanguage(ctx context.Context, objectID int64, lang string) error

	// GetLanguage returns the object's language, or "" when none is assigned.
	GetLanguage(ctx context.Context, objectID int64) (string, error)

	// GetTranslation returns the id of the object's translation in lang, or 0
	// when the group has none.
	GetTranslation(ctx context.Context, objectID int64, lang string) (int64, error)

	// GetTranslations returns the object's translation group as lang -> id.
	// The map is empty when the object belongs to no group.
	GetTranslations(ctx context.Context, objectID int64) (map[string]int64, error)

	// SaveTranslations records translations as the object's group, creating
	// the group when the object has none yet.
	SaveTranslations(ctx context.Context, objectID int64, translations map[string]int64) error

	// DeleteLanguage removes the object's language assignment and drops it
	// from its translation group. Unknown objects are a no-op.
	DeleteLanguage(ctx context.Context, objectID int64) error
}

// LanguageRepository reads the registry of known languages.
type LanguageRepository interface {
	ListLanguages(ctx context.Context) ([]model.Language, error)
	GetBySlug(ctx context.Context, slug string) (*model.Language, error)
}
