// Copyright (c) 2026 Taskora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package task implements the task lifecycle use cases.
package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/taskora/internal/auth"
	"github.com/taibuivan/taskora/internal/platform/metrics"
	"github.com/taibuivan/taskora/internal/project"
	"github.com/taibuivan/taskora/pkg/pagination"
	"github.com/taibuivan/taskora/pkg/slug"
	"github.com/taibuivan/taskora/pkg/uuidv7"
)

// ProjectStore resolves the parent project for the gate check.
//
// Satisfied by [project.PostgresRepository]. Returning [apperr.NotFound]
// (404) here is an earlier-stage failure than any task-level rejection.
type ProjectStore interface {
	FindByID(ctx context.Context, id string) (*project.Project, error)
}

// UserFinder resolves assignees during task creation and reassignment.
//
// Satisfied by [auth.PostgresUserRepository].
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*auth.User, error)
}

// CountInvalidator drops a project's cached task counts after task writes.
//
// Satisfied by [project.RedisCountCache].
type CountInvalidator interface {
	Invalidate(ctx context.Context, projectID string)
}

// Service orchestrates business logic for the task domain.
//
// # The Parent-Project Gate
//
// Every operation resolves the parent project first and rejects with
// [ErrParentProjectClosed] if it is closed. This runs before anything else,
// so a closed project freezes creation, updates, transitions, and deletes
// of its tasks uniformly.
type Service struct {
	repository   Repository
	projectStore ProjectStore
	userFinder   UserFinder
	invalidator  CountInvalidator
	recorder     metrics.Recorder
	logger       *slog.Logger
}

// NewService constructs a new task [Service] with its dependencies.
func NewService(
	repo Repository,
	projectStore ProjectStore,
	userFinder UserFinder,
	invalidator CountInvalidator,
	recorder metrics.Recorder,
	logger *slog.Logger,
) *Service {
	return &Service{
		repository:   repo,
		projectStore: projectStore,
		userFinder:   userFinder,
		invalidator:  invalidator,
		recorder:     recorder,
		logger:       logger,
	}
}

// requireParent resolves the parent project and enforces the closed gate.
//
// # Returns
//   - [apperr.NotFound] (404) when the project does not exist.
//   - [ErrParentProjectClosed] (400) when it exists but is closed.
func (service *Service) requireParent(ctx context.Context, projectID string) (*project.Project, error) {
	parent, err := service.projectStore.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if parent.Status == project.StatusClosed {
		return nil, ErrParentProjectClosed
	}

	return parent, nil
}

// requireAssignee validates that a non-nil assignee resolves to a known user.
func (service *Service) requireAssignee(ctx context.Context, assigneeID *string) error {
	if assigneeID == nil {
		return nil
	}

	if _, err := service.userFinder.FindByID(ctx, *assigneeID); err != nil {
		return ErrAssigneeNotFound
	}

	return nil
}

// List returns a page of a project's tasks.
//
// Listing is a read and is allowed on closed projects; only mutations are
// gated.
func (service *Service) List(ctx context.Context, projectID string, filter Filter, page pagination.Params) ([]*Task, int, error) {
	if _, err := service.projectStore.FindByID(ctx, projectID); err != nil {
		return nil, 0, err
	}

	tasks, total, err := service.repository.ListByProject(ctx, projectID, filter, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("task_service_list_failed: %w", err)
	}

	return tasks, total, nil
}

// Get returns a single task scoped to its project.
func (service *Service) Get(ctx context.Context, projectID, taskID string) (*Task, error) {
	if _, err := service.projectStore.FindByID(ctx, projectID); err != nil {
		return nil, err
	}

	return service.repository.FindByID(ctx, projectID, taskID)
}

// CreateInput holds the data required to create a task.
type CreateInput struct {
	Title       string
	Description string
	Priority    Priority   // Empty defaults to medium.
	Difficulty  Difficulty // Empty defaults to 5.
	AssigneeID  *string
}

// Create persists a new task under an open project.
//
// # Business Rules
//   - The parent project must exist (404) and be open (400).
//   - A named assignee must resolve to a known user (400).
//   - New tasks always start in the open state.
//   - Priority defaults to medium, difficulty to 5.
func (service *Service) Create(ctx context.Context, projectID string, input CreateInput) (*Task, error) {
	if _, err := service.requireParent(ctx, projectID); err != nil {
		return nil, err
	}

	if err := service.requireAssignee(ctx, input.AssigneeID); err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	difficulty := input.Difficulty
	if difficulty == "" {
		difficulty = Difficulty5
	}

	t := &Task{
		ID:          uuidv7.New(),
		ProjectID:   projectID,
		Title:       input.Title,
		Description: input.Description,
		Status:      StatusOpen,
		Priority:    priority,
		Difficulty:  difficulty,
		AssigneeID:  input.AssigneeID,
	}
	t.Slug = slug.WithID(t.ID, t.Title)

	if err := service.repository.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("task_service_create_failed: %w", err)
	}

	service.invalidator.Invalidate(ctx, projectID)
	service.logger.Info("task_created",
		slog.String("task_id", t.ID),
		slog.String("project_id", projectID),
	)

	return t, nil
}

// UpdateInput defines the mutable subset of task fields.
//
// Nil pointers mean "leave untouched". AssigneeSet distinguishes "clear the
// assignee" (true with nil AssigneeID) from "leave it alone" (false).
type UpdateInput struct {
	Title       *string
	Description *string
	Priority    *Priority
	Difficulty  *Difficulty
	AssigneeID  *string
	AssigneeSet bool
}

// Update applies a partial set of changes to a task.
//
// The same parent-project gate and assignee validation as [Create] apply.
func (service *Service) Update(ctx context.Context, projectID, taskID string, input UpdateInput) (*Task, error) {
	if _, err := service.requireParent(ctx, projectID); err != nil {
		return nil, err
	}

	t, err := service.repository.FindByID(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		t.Title = *input.Title
		t.Slug = slug.WithID(t.ID, t.Title)
	}

	if input.Description != nil {
		t.Description = *input.Description
	}

	if input.Priority != nil {
		t.Priority = *input.Priority
	}

	if input.Difficulty != nil {
		t.Difficulty = *input.Difficulty
	}

	if input.AssigneeSet {
		if err := service.requireAssignee(ctx, input.AssigneeID); err != nil {
			return nil, err
		}
		t.AssigneeID = input.AssigneeID
	}

	if err := service.repository.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("task_service_update_failed: %w", err)
	}

	service.invalidator.Invalidate(ctx, projectID)

	return t, nil
}

// Transition applies a lifecycle action ({open, block, close}) to a task.
//
// # Flow
//  1. Parent-project gate (404 if absent, 400 if closed).
//  2. Load the task (404 if absent).
//  3. Map the action straight to its target state; no further guards.
//  4. Persist and invalidate the parent's count cache.
func (service *Service) Transition(ctx context.Context, projectID, taskID string, action Action) (*Task, error) {
	if _, err := service.requireParent(ctx, projectID); err != nil {
		service.recorder.RecordStatusTransition("task", string(action), "parent_closed_or_missing")
		return nil, err
	}

	t, err := service.repository.FindByID(ctx, projectID, taskID)
	if err != nil {
		service.recorder.RecordStatusTransition("task", string(action), "not_found")
		return nil, err
	}

	t.Status = action.Target()
	if err := service.repository.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("task_service_transition_failed: %w", err)
	}

	service.recorder.RecordStatusTransition("task", string(action), "accepted")
	service.invalidator.Invalidate(ctx, projectID)
	service.logger.Info("task_status_changed",
		slog.String("task_id", t.ID),
		slog.String("status", string(t.Status)),
	)

	return t, nil
}

// Delete removes a task either logically or physically.
//
// Deletion counts as a mutation and is blocked under a closed parent.
func (service *Service) Delete(ctx context.Context, projectID, taskID string, mode DeleteMode) error {
	if _, err := service.requireParent(ctx, projectID); err != nil {
		return err
	}

	// Existence check first so a delete of an unknown id yields 404.
	if _, err := service.repository.FindByID(ctx, projectID, taskID); err != nil {
		return err
	}

	switch mode {
	case DeleteModeHard:
		if err := service.repository.HardDelete(ctx, projectID, taskID); err != nil {
			return fmt.Errorf("task_service_hard_delete_failed: %w", err)
		}
	default:
		if err := service.repository.SoftDelete(ctx, projectID, taskID); err != nil {
			return fmt.Errorf("task_service_soft_delete_failed: %w", err)
		}
	}

	service.invalidator.Invalidate(ctx, projectID)
	service.logger.Info("task_deleted",
		slog.String("task_id", taskID),
		slog.String("mode", string(mode)),
	)

	return nil
}
