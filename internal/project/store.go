// Copyright (c) 2026 Taskora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package project

import "context"

// Repository defines the data access contract for the project domain.
//
// # Architecture
//
// The implementation lives in store_postgres.go; this interface lives in
// the domain package because the service layer (the consumer) defines what
// it needs.
type Repository interface {
	// List returns a filtered, paginated slice of projects and the total count.
	//
	// Returns:
	//   - []*Project: The list of projects matching the filter, without
	//     task counts (the service hydrates those separately).
	//   - int: Total count for pagination.
	//   - error: Database or connection errors.
	List(ctx context.Context, f Filter, limit, offset int) ([]*Project, int, error)

	// FindByID returns the project with the given ID.
	//
	// It returns [apperr.NotFound] if the project is absent or soft-deleted.
	FindByID(ctx context.Context, id string) (*Project, error)

	// Create persists a new project to the store.
	//
	// The caller is responsible for generating and setting the ID and Slug
	// before calling this method.
	Create(ctx context.Context, p *Project) error

	// Update persists changes to an existing project's mutable fields
	// (Title, Description, Slug, Status).
	Update(ctx context.Context, p *Project) error

	// SoftDelete marks a project as deleted without removing the row.
	SoftDelete(ctx context.Context, id string) error

	// HardDelete permanently removes a project row and cascades to its tasks.
	HardDelete(ctx context.Context, id string) error

	// CountTasks returns the total and completed task counts for a project.
	//
	// Soft-deleted tasks are excluded from both counts.
	CountTasks(ctx context.Context, projectID string) (TaskCounts, error)

	// CountOpenTasks returns the number of tasks whose status is exactly
	// "open". This is the gate input for closing a project; blocked tasks
	// are deliberately not counted.
	CountOpenTasks(ctx context.Context, projectID string) (int, error)
}

// CountCache defines the Redis-backed cache contract for task counts.
//
// # Consistency
//
// Entries are invalidated by the task service on every task write. A cache
// miss or any Redis failure falls back to [Repository.CountTasks]; the cache
// is an optimization, never a source of truth.
type CountCache interface {
	// Get returns the cached counts for projectID.
	// The second return value is false on a miss.
	Get(ctx context.Context, projectID string) (TaskCounts, bool)

	// Set stores the counts for projectID.
	Set(ctx context.Context, projectID string, counts TaskCounts)

	// Invalidate drops the cached counts for projectID.
	Invalidate(ctx context.Context, projectID string)
}
