package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
)

// SchemaVersion is bumped whenever the events schema changes. On mismatch the
// table creation statements are (re)run; on match they are skipped entirely.
const SchemaVersion = 100

const schemaComponent = "events"

// Queryer is the slice of the pgx pool the migrator needs. Narrowing it keeps
// the version logic testable without a live database.
type Queryer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id bigint GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		title text NOT NULL DEFAULT '',
		description text NOT NULL DEFAULT '',
		date_start varchar(19) NOT NULL DEFAULT '0000-00-00 00:00:00',
		date_end varchar(19) NOT NULL DEFAULT '0000-00-00 00:00:00',
		type varchar(100) NOT NULL DEFAULT 'event',
		status varchar(20) NOT NULL DEFAULT 'publish',
		slug varchar(200) NOT NULL DEFAULT '',
		author bigint NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS events_type_status_date_start ON events (type, status, date_start, id)`,
	`CREATE INDEX IF NOT EXISTS events_type_status_date_end ON events (type, status, date_end, id)`,
	`CREATE TABLE IF NOT EXISTS event_languages (
		object_id bigint PRIMARY KEY,
		language varchar(20) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS event_languages_language ON event_languages (language)`,
	`CREATE TABLE IF NOT EXISTS translation_groups (
		id bigint GENERATED ALWAYS AS IDENTITY PRIMARY KEY
	)`,
	`CREATE TABLE IF NOT EXISTS event_translations (
		group_id bigint NOT NULL REFERENCES translation_groups (id) ON DELETE CASCADE,
		language varchar(20) NOT NULL,
		object_id bigint NOT NULL UNIQUE,
		PRIMARY KEY (group_id, language)
	)`,
	`CREATE TABLE IF NOT EXISTS languages (
		slug varchar(20) PRIMARY KEY,
		name varchar(100) NOT NULL,
		flag varchar(16) NOT NULL DEFAULT ''
	)`,
	`INSERT INTO languages (slug, name, flag) VALUES
		('en', 'English', U&'\+01F1FA\+01F1F8'),
		('fr', 'Français', U&'\+01F1EB\+01F1F7'),
		('de', 'Deutsch', U&'\+01F1E9\+01F1EA')
	ON CONFLICT (slug) DO NOTHING`,
}

// Migrate brings the events schema up to SchemaVersion. When the persisted
// version already matches, nothing is touched.
func Migrate(ctx context.Context, db Queryer) error {
	if _, err := db.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_info (
		component varchar(50) PRIMARY KEY,
		version integer NOT NULL
	)`); err != nil {
		return fmt.Errorf("create schema_info table: %w", err)
	}

	version, err := currentVersion(ctx, db)
	if err != nil {
		return err
	}

	if version == SchemaVersion {
		log.Info().Int("version", version).Msg("events schema up to date")
		return nil
	}

	log.Info().Int("from", version).Int("to", SchemaVersion).Msg("migrating events schema")

	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("run schema statement: %w", err)
		}
	}

	if _, err := db.Exec(ctx, `INSERT INTO schema_info (component, version) VALUES ($1, $2)
		ON CONFLICT (component) DO UPDATE SET version = EXCLUDED.version`,
		schemaComponent, SchemaVersion); err != nil {
		return fmt.Errorf("persist schema version: %w", err)
	}

	return nil
}

func currentVersion(ctx context.Context, db Queryer) (int, error) {
	var version int
	err := db.QueryRow(ctx, `SELECT version FROM schema_info WHERE component = $1`, schemaComponent).Scan(&version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}
