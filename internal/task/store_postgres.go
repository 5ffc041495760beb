// Copyright (c) 2026 Taskora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// PostgreSQL implementation of the task storage contract.
package task

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

// NewRepository creates a new PostgreSQL implementation of the task Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// ListByProject returns a filtered, paginated page of a project's tasks plus
// the total count.
func (repository *PostgresRepository) ListByProject(ctx context.Context, projectID string, f Filter, limit, offset int) ([]*Task, int, error) {
	query := `
		SELECT id, projectid, slug, title, description, status, priority, difficulty,
		       assigneeid, createdat, updatedat, COUNT(*) OVER() AS total
		FROM core.task
		WHERE projectid = $1 AND deletedat IS NULL`
	args := []any{projectID, limit, offset}

	if f.Status != nil {
		query += " AND status = $4"
		args = append(args, *f.Status)
	}

	query += `
		ORDER BY createdat DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_task_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var (
		tasks []*Task
		total int
	)

	for rows.Next() {
		t := &Task{}
		if err := rows.Scan(
			&t.ID,
			&t.ProjectID,
			&t.Slug,
			&t.Title,
			&t.Description,
			&t.Status,
			&t.Priority,
			&t.Difficulty,
			&t.AssigneeID,
			&t.CreatedAt,
			&t.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_task_repo_scan_failed: %w", err)
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_task_repo_rows_failed: %w", err)
	}

	return tasks, total, nil
}

// FindByID retrieves an active task by its ID, scoped to a project.
//
// # Returns
//
// Returns [*Task] if found, or [apperr.NotFound] if the task does not exist
// under this project or has been soft-deleted.
func (repository *PostgresRepository) FindByID(ctx context.Context, projectID, taskID string) (*Task, error) {
	const query = `
		SELECT id, projectid, slug, title, description, status, priority, difficulty,
		       assigneeid, createdat, updatedat
		FROM core.task
		WHERE id = $1 AND projectid = $2 AND deletedat IS NULL`

	t := &Task{}
	err := repository.pool.QueryRow(ctx, query, taskID, projectID).Scan(
		&t.ID,
		&t.ProjectID,
		&t.Slug,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Priority,
		&t.Difficulty,
		&t.AssigneeID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "task")
	}

	return t, nil
}

// Create persists a new task record into the core.task table.
func (repository *PostgresRepository) Create(ctx context.Context, t *Task) error {
	const query = `
		INSERT INTO core.task (
			id, projectid, slug, title, description, status, priority, difficulty,
			assigneeid, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		t.ID,
		t.ProjectID,
		t.Slug,
		t.Title,
		t.Description,
		t.Status,
		t.Priority,
		t.Difficulty,
		t.AssigneeID,
		t.CreatedAt,
		t.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_task_repo_create_failed: %w", dberr.Wrap(err, "task"))
	}

	return nil
}

// Update persists changes to a task's mutable fields.
func (repository *PostgresRepository) Update(ctx context.Context, t *Task) error {
	const query = `
		UPDATE core.task
		SET slug = $3, title = $4, description = $5, status = $6, priority = $7,
		    difficulty = $8, assigneeid = $9, updatedat = $10
		WHERE id = $1 AND projectid = $2 AND deletedat IS NULL`

	t.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(ctx, query,
		t.ID,
		t.ProjectID,
		t.Slug,
		t.Title,
		t.Description,
		t.Status,
		t.Priority,
		t.Difficulty,
		t.AssigneeID,
		t.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_task_repo_update_failed: %w", dberr.Wrap(err, "task"))
	}

	return nil
}

// SoftDelete marks a task as deleted without removing the row.
func (repository *PostgresRepository) SoftDelete(ctx context.Context, projectID, taskID string) error {
	const query = `
		UPDATE core.task SET deletedat = $3
		WHERE id = $1 AND projectid = $2 AND deletedat IS NULL`

	_, err := repository.pool.Exec(ctx, query, taskID, projectID, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_task_repo_soft_delete_failed: %w", err)
	}
	return nil
}

// HardDelete permanently removes a task row.
func (repository *PostgresRepository) HardDelete(ctx context.Context, projectID, taskID string) error {
	const query = "DELETE FROM core.task WHERE id = $1 AND projectid = $2"
	_, err := repository.pool.Exec(ctx, query, taskID, projectID)
	if err != nil {
		return fmt.Errorf("postgres_task_repo_hard_delete_failed: %w", err)
	}
	return nil
}
