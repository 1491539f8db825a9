package repository

import (
	"context"
	"errors"
	"fmt"

	"events-backend/internal/domains/translation/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements LanguageStore and LanguageRepository over the
// event_languages, translation_groups, and event_translations tables.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (r *PostgresStore) SetLanguage(ctx context.Context, objectID int64, lang string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO event_languages (object_id, language) VALUES ($1, $2)
		ON CONFLICT (object_id) DO UPDATE SET language = EXCLUDED.language
	`, objectID, lang)
	if err != nil {
		return fmt.Errorf("failed to set language for object %d: %w", objectID, err)
	}
	return nil
}

func (r *PostgresStore) GetLanguage(ctx context.Context, objectID int64) (string, error) {
	var lang string
	err := r.pool.QueryRow(ctx,
		`SELECT language FROM event_languages WHERE object_id = $1`, objectID).Scan(&lang)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get language for object %d: %w", objectID, err)
	}
	return lang, nil
}

func (r *PostgresStore) GetTranslation(ctx context.Context, objectID int64, lang string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		SELECT t.object_id
		FROM event_translations t
		JOIN event_translations s ON s.group_id = t.group_id
		WHERE s.object_id = $1 AND t.language = $2
	`, objectID, lang).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get translation for object %d: %w", objectID, err)
	}
	return id, nil
}

func (r *PostgresStore) GetTranslations(ctx context.Context, objectID int64) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT t.language, t.object_id
		FROM event_translations t
		JOIN event_translations s ON s.group_id = t.group_id
		WHERE s.object_id = $1
	`, objectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get translations for object %d: %w", objectID, err)
	}
	defer rows.Close()

	translations := make(map[string]int64)
	for rows.Next() {
		var lang string
		var id int64
		if err := rows.Scan(&lang, &id); err != nil {
			return nil, fmt.Errorf("failed to scan translation row: %w", err)
		}
		translations[lang] = id
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating translation rows: %w", err)
	}

	return translations, nil
}

func (r *PostgresStore) SaveTranslations(ctx context.Context, objectID int64, translations map[string]int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var groupID int64
	err = tx.QueryRow(ctx,
		`SELECT group_id FROM event_translations WHERE object_id = $1`, objectID).Scan(&groupID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to find translation group: %w", err)
		}
		if err := tx.QueryRow(ctx,
			`INSERT INTO translation_groups DEFAULT VALUES RETURNING id`).Scan(&groupID); err != nil {
			return fmt.Errorf("failed to create translation group: %w", err)
		}
	}

	for lang, id := range translations {
		if _, err := tx.Exec(ctx, `
			INSERT INTO event_translations (group_id, language, object_id) VALUES ($1, $2, $3)
			ON CONFLICT (group_id, language) DO UPDATE SET object_id = EXCLUDED.object_id
		`, groupID, lang, id); err != nil {
			return fmt.Errorf("failed to save translation %s -> %d: %w", lang, id, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit translations: %w", err)
	}
	return nil
}

func (r *PostgresStore) DeleteLanguage(ctx context.Context, objectID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM event_languages WHERE object_id = $1`, objectID); err != nil {
		return fmt.Errorf("failed to delete language for object %d: %w", objectID, err)
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM event_translations WHERE object_id = $1`, objectID); err != nil {
		return fmt.Errorf("failed to unlink translations for object %d: %w", objectID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit language deletion: %w", err)
	}
	return nil
}

func (r *PostgresStore) ListLanguages(ctx context.Context) ([]model.Language, error) {
	rows, err := r.pool.Query(ctx, `SELECT slug, name, flag FROM languages ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("failed to list languages: %w", err)
	}
	defer rows.Close()

	var languages []model.Language
	for rows.Next() {
		var lang model.Language
		if err := rows.Scan(&lang.Slug, &lang.Name, &lang.Flag); err != nil {
			return nil, fmt.Errorf("failed to scan language row: %w", err)
		}
		languages = append(languages, lang)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating language rows: %w", err)
	}

	return languages, nil
}

func (r *PostgresStore) GetBySlug(ctx context.Context, slug string) (*model.Language, error) {
	var lang model.Language
	err := r.pool.QueryRow(ctx,
		`SELECT slug, name, flag FROM languages WHERE slug = $1`, slug).
		Scan(&lang.Slug, &lang.Name, &lang.Flag)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get language %q: %w", slug, err)
	}
	return &lang, nil
}
