package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"events-backend/internal/domains/event/model"
	"events-backend/internal/shared/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// postgresRepository implements Repository on the pgx pool.
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const eventColumns = `id, title, description, date_start, date_end, type, status, slug, author`

func scanEvent(row pgx.Row) (*model.Event, error) {
	var e model.Event
	err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Description,
		&e.DateStart,
		&e.DateEnd,
		&e.Type,
		&e.Status,
		&e.Slug,
		&e.Author,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *postgresRepository) Insert(ctx context.Context, event *model.Event) (int64, error) {
	query := `
		INSERT INTO events (title, description, date_start, date_end, type, status, slug, author)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		event.Title,
		event.Description,
		event.DateStart,
		event.DateEnd,
		event.Type,
		event.Status,
		event.Slug,
		event.Author,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert event: %w", err)
	}

	return id, nil
}

func (r *postgresRepository) SelectByID(ctx context.Context, id int64) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get event by id: %w", err)
	}

	return event, nil
}

func (r *postgresRepository) DeleteByID(ctx context.Context, id int64) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete event: %w", err)
	}

	return result.RowsAffected(), nil
}

// buildClauses assembles the contributed join and where fragments. Where
// fragments are rebound from `?` to positional placeholders starting at next.
func buildClauses(clauses []Clause, next int) (join string, where string, args []any, n int) {
	var wheres []string
	n = next

	for _, clause := range clauses {
		if clause.Join != "" {
			join += " " + strings.TrimSpace(clause.Join)
		}
		if clause.Where != "" {
			rebound, after := utils.Rebind(clause.Where, n)
			wheres = append(wheres, rebound)
			n = after
			args = append(args, clause.Args...)
		}
	}

	if len(wheres) > 0 {
		where = " WHERE 1=1 AND " + utils.JoinWithAnd(wheres)
	}

	return join, where, args, n
}

func (r *postgresRepository) List(ctx context.Context, opts ListOptions) ([]*model.Event, error) {
	join, where, args, next := buildClauses(opts.Clauses, 1)

	query := fmt.Sprintf(
		`SELECT %s FROM events%s%s ORDER BY date_start DESC, id DESC LIMIT $%d OFFSET $%d`,
		qualify(eventColumns), join, where, next, next+1,
	)
	args = append(args, opts.PerPage, (opts.Page-1)*opts.PerPage)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*model.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}

	return events, nil
}

func (r *postgresRepository) Count(ctx context.Context, clauses []Clause) (int, error) {
	join, where, args, _ := buildClauses(clauses, 1)

	query := fmt.Sprintf(`SELECT COUNT(*) FROM events%s%s`, join, where)

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}

	return count, nil
}

// qualify prefixes the shared column list with the events table name so
// contributed joins can't make the select ambiguous.
func qualify(columns string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		parts[i] = "events." + p
	}
	return strings.Join(parts, ", ")
}
