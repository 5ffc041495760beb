// Copyright (c) 2026 Taskora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package task

import "context"

// Repository defines the data access contract for the task domain.
//
// # Architecture
//
// The implementation lives in store_postgres.go; this interface lives in
// the domain package because the service layer (the consumer) defines what
// it needs.
type Repository interface {
	// ListByProject returns a filtered, paginated slice of a project's tasks
	// and the total count.
	ListByProject(ctx context.Context, projectID string, f Filter, limit, offset int) ([]*Task, int, error)

	// FindByID returns the task with the given ID scoped to a project.
	//
	// The projectID scope makes the nested route authoritative: a valid task
	// id under the wrong project yields [apperr.NotFound].
	FindByID(ctx context.Context, projectID, taskID string) (*Task, error)

	// Create persists a new task to the store.
	//
	// The caller is responsible for generating and setting the ID and Slug
	// before calling this method.
	Create(ctx context.Context, t *Task) error

	// Update persists changes to an existing task's mutable fields.
	Update(ctx context.Context, t *Task) error

	// SoftDelete marks a task as deleted without removing the row.
	SoftDelete(ctx context.Context, projectID, taskID string) error

	// HardDelete permanently removes a task row.
	HardDelete(ctx context.Context, projectID, taskID string) error
}
