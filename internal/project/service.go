// Copyright (c) 2026 Taskora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package project implements the project lifecycle use cases.
//
// # Architecture
//
// Services in this package orchestrate domain entities and interact with
// repositories through interfaces. They are technology-agnostic and do not
// know about HTTP or SQL.
package project

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/taskora/internal/platform/apperr"
	"github.com/taibuivan/taskora/internal/platform/metrics"
	"github.com/taibuivan/taskora/pkg/pagination"
	"github.com/taibuivan/taskora/pkg/slug"
	"github.com/taibuivan/taskora/pkg/uuidv7"
)

// Service orchestrates business logic for the project domain.
type Service struct {
	repository Repository
	countCache CountCache
	recorder   metrics.Recorder
	logger     *slog.Logger
}

// NewService constructs a new project [Service] with its dependencies.
func NewService(repo Repository, cache CountCache, recorder metrics.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repository: repo,
		countCache: cache,
		recorder:   recorder,
		logger:     logger,
	}
}

// taskCounts fetches the count pair for a project, preferring the Redis
// cache and falling back to SQL on a miss. The fresh value is written back
// to the cache after the fallback.
func (service *Service) taskCounts(ctx context.Context, projectID string) (TaskCounts, error) {
	if counts, ok := service.countCache.Get(ctx, projectID); ok {
		return counts, nil
	}

	counts, err := service.repository.CountTasks(ctx, projectID)
	if err != nil {
		return TaskCounts{}, err
	}

	service.countCache.Set(ctx, projectID, counts)
	return counts, nil
}

// hydrateCounts fills in the computed metric fields on a project.
func (service *Service) hydrateCounts(ctx context.Context, p *Project) error {
	counts, err := service.taskCounts(ctx, p.ID)
	if err != nil {
		return err
	}

	p.TasksCount = counts.Total
	p.CompletedTasksCount = counts.Completed
	return nil
}

// List returns a filtered, sorted page of projects with hydrated task counts.
func (service *Service) List(ctx context.Context, filter Filter, page pagination.Params) ([]*Project, int, error) {
	projects, total, err := service.repository.List(ctx, filter, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("project_service_list_failed: %w", err)
	}

	for _, p := range projects {
		if err := service.hydrateCounts(ctx, p); err != nil {
			return nil, 0, fmt.Errorf("project_service_count_failed: %w", err)
		}
	}

	return projects, total, nil
}

// Get returns a single project with hydrated task counts.
func (service *Service) Get(ctx context.Context, id string) (*Project, error) {
	p, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := service.hydrateCounts(ctx, p); err != nil {
		return nil, fmt.Errorf("project_service_count_failed: %w", err)
	}

	return p, nil
}

// CreateInput holds the data required to create a project.
type CreateInput struct {
	Title       string
	Description string
}

// Create persists a new project.
//
// # Business Rules
//   - New projects always start in the open state.
//   - The slug is derived once at creation ("<id>-<title-slug>") and is
//     regenerated if the title later changes.
func (service *Service) Create(ctx context.Context, input CreateInput) (*Project, error) {
	p := &Project{
		ID:          uuidv7.New(), // Time-sortable ID to prevent PG index fragmentation.
		Title:       input.Title,
		Description: input.Description,
		Status:      StatusOpen,
	}
	p.Slug = slug.WithID(p.ID, p.Title)

	if err := service.repository.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("project_service_create_failed: %w", err)
	}

	service.logger.Info("project_created", slog.String("project_id", p.ID))

	return p, nil
}

// UpdateInput defines the mutable subset of project fields.
//
// Nil pointers mean "leave untouched".
type UpdateInput struct {
	Title       *string
	Description *string
}

// Update applies a partial set of changes to a project's metadata.
//
// # Business Rules
//   - A closed project is frozen; metadata updates are rejected with a 400.
//   - A title change regenerates the slug.
func (service *Service) Update(ctx context.Context, id string, input UpdateInput) (*Project, error) {
	p, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Status == StatusClosed {
		return nil, apperr.BadRequest("A closed project cannot be modified")
	}

	if input.Title != nil {
		p.Title = *input.Title
		p.Slug = slug.WithID(p.ID, p.Title)
	}

	if input.Description != nil {
		p.Description = *input.Description
	}

	if err := service.repository.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("project_service_update_failed: %w", err)
	}

	if err := service.hydrateCounts(ctx, p); err != nil {
		return nil, fmt.Errorf("project_service_count_failed: %w", err)
	}

	return p, nil
}

// Transition applies a lifecycle action ({open, close}) to a project.
//
// # Flow
//  1. Load current state (404 if absent).
//  2. For close actions, count tasks still in the open state.
//  3. Run the [Decide] state machine.
//  4. Persist the resulting status. No-op outcomes are persisted anyway,
//     refreshing updatedat, matching the machine's documented semantics.
//
// Every attempt is recorded in the status-transition metric with its outcome.
func (service *Service) Transition(ctx context.Context, id string, action Action) (*Project, error) {
	p, err := service.repository.FindByID(ctx, id)
	if err != nil {
		service.recorder.RecordStatusTransition("project", string(action), "not_found")
		return nil, err
	}

	openTasks := 0
	if action == ActionClose {
		openTasks, err = service.repository.CountOpenTasks(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("project_service_open_count_failed: %w", err)
		}
	}

	next, err := Decide(p.Status, action, openTasks)
	if err != nil {
		service.recorder.RecordStatusTransition("project", string(action), rejectionOutcome(err))
		return nil, err
	}

	p.Status = next
	if err := service.repository.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("project_service_transition_failed: %w", err)
	}

	service.recorder.RecordStatusTransition("project", string(action), "accepted")
	service.logger.Info("project_status_changed",
		slog.String("project_id", p.ID),
		slog.String("status", string(p.Status)),
	)

	if err := service.hydrateCounts(ctx, p); err != nil {
		return nil, fmt.Errorf("project_service_count_failed: %w", err)
	}

	return p, nil
}

// Delete removes a project either logically or physically.
//
// Hard deletion cascades to the project's tasks at the database level.
// Both modes drop the task-count cache entry.
func (service *Service) Delete(ctx context.Context, id string, mode DeleteMode) error {
	// Existence check first so a delete of an unknown id yields 404,
	// not a silent no-op.
	if _, err := service.repository.FindByID(ctx, id); err != nil {
		return err
	}

	switch mode {
	case DeleteModeHard:
		if err := service.repository.HardDelete(ctx, id); err != nil {
			return fmt.Errorf("project_service_hard_delete_failed: %w", err)
		}
	default:
		if err := service.repository.SoftDelete(ctx, id); err != nil {
			return fmt.Errorf("project_service_soft_delete_failed: %w", err)
		}
	}

	service.countCache.Invalidate(ctx, id)
	service.logger.Info("project_deleted",
		slog.String("project_id", id),
		slog.String("mode", string(mode)),
	)

	return nil
}

// rejectionOutcome labels a state-machine rejection for the metrics counter.
func rejectionOutcome(err error) string {
	switch err {
	case ErrCannotReopenClosed:
		return "cannot_reopen_closed"
	case ErrOpenTasksRemain:
		return "open_tasks_remain"
	default:
		return "rejected"
	}
}
