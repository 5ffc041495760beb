// Copyright (c) 2026 Taskora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package project defines the project aggregate and its lifecycle rules.
//
// # Architecture
//
// Entities in this package represent the "Truth" of the system.
// They have no dependencies on outer layers (like databases, APIs, or libraries).
// This makes the core logic highly testable and resilient to technology changes.
package project

import (
	"time"

	"github.com/taibuivan/taskora/internal/platform/apperr"
)

// Status represents the lifecycle state of a project.
//
// Projects only know "open" and "closed". Unlike tasks, a project can never
// be "blocked"; blockage is a property of individual work items.
type Status string

const (
	// StatusOpen indicates the project accepts new work.
	StatusOpen Status = "open"
	// StatusClosed indicates the project is finished and frozen.
	// A closed project rejects every mutation of itself and of its tasks.
	StatusClosed Status = "closed"
)

// IsValid reports whether s is a recognised [Status] value.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusClosed:
		return true
	}
	return false
}

// Action is a lifecycle operation requested on a project via the URL
// (PATCH /projects/{id}/{action}).
type Action string

const (
	// ActionOpen requests the project be (re)marked as open.
	ActionOpen Action = "open"
	// ActionClose requests the project be marked as closed.
	ActionClose Action = "close"
)

// ParseAction converts a raw URL segment into an [Action].
//
// Returns [apperr.BadRequest] for anything other than "open" or "close",
// so typos like "cloose" fail loudly at the boundary instead of silently
// doing nothing.
func ParseAction(raw string) (Action, error) {
	switch Action(raw) {
	case ActionOpen:
		return ActionOpen, nil
	case ActionClose:
		return ActionClose, nil
	default:
		return "", apperr.BadRequest("Unknown project action: " + raw)
	}
}

// DeleteMode selects between logical and physical removal
// (DELETE /projects/{id}/{type}).
type DeleteMode string

const (
	// DeleteModeSoft marks the row as deleted but keeps it recoverable.
	DeleteModeSoft DeleteMode = "soft"
	// DeleteModeHard removes the row and all dependent tasks permanently.
	DeleteModeHard DeleteMode = "hard"
)

// ParseDeleteMode converts a raw URL segment into a [DeleteMode].
func ParseDeleteMode(raw string) (DeleteMode, error) {
	switch DeleteMode(raw) {
	case DeleteModeSoft:
		return DeleteModeSoft, nil
	case DeleteModeHard:
		return DeleteModeHard, nil
	default:
		return "", apperr.BadRequest("Unknown delete type: " + raw)
	}
}

// # Lifecycle Rules

var (
	// ErrCannotReopenClosed rejects reopening a closed project.
	// Closure is final; finished work stays finished.
	ErrCannotReopenClosed = apperr.BadRequest("A closed project cannot be reopened")

	// ErrOpenTasksRemain rejects closing a project that still has
	// tasks in the open state.
	ErrOpenTasksRemain = apperr.BadRequest("Project still has open tasks")
)

// Decide computes the status that results from applying action to the
// current status.
//
// # Rules
//   - open  -> open  : no-op, allowed (idempotent).
//   - closed -> open : rejected with [ErrCannotReopenClosed].
//   - closed -> closed : no-op, allowed (idempotent).
//   - open -> closed : allowed only when openTasks is zero,
//     otherwise rejected with [ErrOpenTasksRemain].
//
// The openTasks count covers tasks whose status is exactly "open".
// Blocked tasks do not prevent closure; they are parked, not pending.
func Decide(current Status, action Action, openTasks int) (Status, error) {
	switch action {
	case ActionOpen:
		if current == StatusClosed {
			return "", ErrCannotReopenClosed
		}
		return StatusOpen, nil

	case ActionClose:
		if current == StatusClosed {
			return StatusClosed, nil
		}
		if openTasks > 0 {
			return "", ErrOpenTasksRemain
		}
		return StatusClosed, nil

	default:
		return "", apperr.BadRequest("Unknown project action: " + string(action))
	}
}

// # Aggregate

// Project is the central aggregate of the Taskora domain.
//
// # Overview
//
// It groups tasks under a single unit of work. Task counts are computed
// fields served from the Redis cache where possible, falling back to a
// direct SQL count.
type Project struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"` // "<id>-<title-slug>", set on create.
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`

	// # Computed Metrics

	TasksCount          int `json:"tasks_count"`
	CompletedTasksCount int `json:"completed_tasks_count"`
}

// TaskCounts is the computed tasks_count / completed_tasks_count pair.
// It is the unit cached in Redis per project.
type TaskCounts struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// # List Queries

// Sort options accepted by the list endpoint's sortBy query parameter.
const (
	SortAlphaAsc  = "alpha_asc"  // Title A→Z
	SortAlphaDesc = "alpha_desc" // Title Z→A
	SortCreate    = "create"     // Newest created first
	SortUpdate    = "update"     // Most recently updated first
)

// IsValidSort reports whether sortBy is a recognised sort option.
func IsValidSort(sortBy string) bool {
	switch sortBy {
	case SortAlphaAsc, SortAlphaDesc, SortCreate, SortUpdate:
		return true
	}
	return false
}

// Filter holds the parameters for a filtered project list query.
//
// # Visibility
//
// By default only open projects are listed. WithClosed adds closed projects
// to the result; OnlyClosed restricts the result to closed projects and
// takes precedence over WithClosed.
type Filter struct {
	WithClosed bool
	OnlyClosed bool
	SortBy     string // One of the Sort* constants; empty means SortCreate.
}
