// Copyright (c) 2026 Taskora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// PostgreSQL implementation of the project storage contract.
package project

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/taskora/internal/platform/dberr"
)

// PostgresRepository implements the [Repository] interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the project Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// orderClause maps a validated sort option onto a SQL ORDER BY expression.
//
// The input is restricted to the Sort* constants by the handler, so the
// returned fragment is never user-controlled text.
func orderClause(sortBy string) string {
	switch sortBy {
	case SortAlphaAsc:
		return "title ASC"
	case SortAlphaDesc:
		return "title DESC"
	case SortUpdate:
		return "updatedat DESC"
	default: // SortCreate and empty
		return "createdat DESC"
	}
}

// visibilityClause maps the closed-project filter flags onto a WHERE fragment.
func visibilityClause(f Filter) string {
	switch {
	case f.OnlyClosed:
		return "AND status = 'closed'"
	case f.WithClosed:
		return "" // Both open and closed.
	default:
		return "AND status = 'open'"
	}
}

// List returns a filtered, paginated page of projects plus the total count.
func (repository *PostgresRepository) List(ctx context.Context, f Filter, limit, offset int) ([]*Project, int, error) {
	query := fmt.Sprintf(`
		SELECT id, slug, title, description, status, createdat, updatedat, COUNT(*) OVER() AS total
		FROM core.project
		WHERE deletedat IS NULL %s
		ORDER BY %s
		LIMIT $1 OFFSET $2`,
		visibilityClause(f), orderClause(f.SortBy))

	rows, err := repository.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_project_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var (
		projects []*Project
		total    int
	)

	for rows.Next() {
		p := &Project{}
		if err := rows.Scan(
			&p.ID,
			&p.Slug,
			&p.Title,
			&p.Description,
			&p.Status,
			&p.CreatedAt,
			&p.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_project_repo_scan_failed: %w", err)
		}
		projects = append(projects, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_project_repo_rows_failed: %w", err)
	}

	return projects, total, nil
}

// FindByID retrieves an active project by its unique ID.
//
// # Returns
//
// Returns [*Project] if found, or [apperr.NotFound] if the project does not
// exist or has been soft-deleted.
func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Project, error) {
	const query = `
		SELECT id, slug, title, description, status, createdat, updatedat
		FROM core.project
		WHERE id = $1 AND deletedat IS NULL`

	p := &Project{}
	err := repository.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Slug,
		&p.Title,
		&p.Description,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "project")
	}

	return p, nil
}

// Create persists a new project record into the core.project table.
func (repository *PostgresRepository) Create(ctx context.Context, p *Project) error {
	const query = `
		INSERT INTO core.project (
			id, slug, title, description, status, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		p.ID,
		p.Slug,
		p.Title,
		p.Description,
		p.Status,
		p.CreatedAt,
		p.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_project_repo_create_failed: %w", dberr.Wrap(err, "project"))
	}

	return nil
}

// Update persists changes to a project's mutable fields.
func (repository *PostgresRepository) Update(ctx context.Context, p *Project) error {
	const query = `
		UPDATE core.project
		SET slug = $2, title = $3, description = $4, status = $5, updatedat = $6
		WHERE id = $1 AND deletedat IS NULL`

	p.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(ctx, query,
		p.ID,
		p.Slug,
		p.Title,
		p.Description,
		p.Status,
		p.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_project_repo_update_failed: %w", dberr.Wrap(err, "project"))
	}

	return nil
}

// SoftDelete marks a project as deleted. Its tasks keep their rows but become
// unreachable through the nested routes.
func (repository *PostgresRepository) SoftDelete(ctx context.Context, id string) error {
	const query = "UPDATE core.project SET deletedat = $2 WHERE id = $1 AND deletedat IS NULL"
	_, err := repository.pool.Exec(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_project_repo_soft_delete_failed: %w", err)
	}
	return nil
}

// HardDelete permanently removes the project row. Task rows are removed by
// the ON DELETE CASCADE constraint on core.task.projectid.
func (repository *PostgresRepository) HardDelete(ctx context.Context, id string) error {
	const query = "DELETE FROM core.project WHERE id = $1"
	_, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("postgres_project_repo_hard_delete_failed: %w", err)
	}
	return nil
}

// CountTasks computes the task count pair for a project straight from SQL.
//
// This is the authoritative source behind the Redis cache.
func (repository *PostgresRepository) CountTasks(ctx context.Context, projectID string) (TaskCounts, error) {
	const query = `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'closed')
		FROM core.task
		WHERE projectid = $1 AND deletedat IS NULL`

	var counts TaskCounts
	err := repository.pool.QueryRow(ctx, query, projectID).Scan(&counts.Total, &counts.Completed)
	if err != nil {
		return TaskCounts{}, fmt.Errorf("postgres_project_repo_count_tasks_failed: %w", err)
	}

	return counts, nil
}

// CountOpenTasks counts tasks in the open state only.
//
// Blocked tasks are excluded on purpose; see [Decide].
func (repository *PostgresRepository) CountOpenTasks(ctx context.Context, projectID string) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM core.task
		WHERE projectid = $1 AND status = 'open' AND deletedat IS NULL`

	var count int
	if err := repository.pool.QueryRow(ctx, query, projectID).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_project_repo_count_open_tasks_failed: %w", err)
	}

	return count, nil
}
