// Copyright (c) 2026 Taskora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package task defines the task entity and its lifecycle rules.
//
// # Architecture
//
// Tasks are leaf nodes of the Taskora domain: they belong to exactly one
// project and nothing depends on them. Their own transitions are therefore
// unconditional; the only gate is the parent project's state, which freezes
// every task operation once the project is closed.
package task

import (
	"time"

	"github.com/taibuivan/taskora/internal/platform/apperr"
)

// Status represents the lifecycle state of a task.
//
// Unlike projects, tasks have a third "blocked" state for work that is
// parked on an external dependency.
type Status string

const (
	// StatusOpen indicates the task is pending or in progress.
	StatusOpen Status = "open"
	// StatusBlocked indicates the task is parked on an external dependency.
	// Blocked tasks do not prevent the parent project from closing.
	StatusBlocked Status = "blocked"
	// StatusClosed indicates the task is done.
	StatusClosed Status = "closed"
)

// IsValid reports whether s is a recognised [Status] value.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusBlocked, StatusClosed:
		return true
	}
	return false
}

// Action is a lifecycle operation requested on a task via the URL
// (PATCH /projects/{projectId}/tasks/{taskId}/{action}).
type Action string

const (
	ActionOpen  Action = "open"
	ActionBlock Action = "block"
	ActionClose Action = "close"
)

// ParseAction converts a raw URL segment into an [Action].
//
// Returns [apperr.BadRequest] for unknown segments.
func ParseAction(raw string) (Action, error) {
	switch Action(raw) {
	case ActionOpen:
		return ActionOpen, nil
	case ActionBlock:
		return ActionBlock, nil
	case ActionClose:
		return ActionClose, nil
	default:
		return "", apperr.BadRequest("Unknown task action: " + raw)
	}
}

// Target returns the status an action maps to.
//
// Task transitions carry no guards of their own: once the parent-project
// gate passes, any action from any state is accepted.
func (a Action) Target() Status {
	switch a {
	case ActionBlock:
		return StatusBlocked
	case ActionClose:
		return StatusClosed
	default:
		return StatusOpen
	}
}

// DeleteMode selects between logical and physical removal
// (DELETE /projects/{projectId}/tasks/{taskId}/{type}).
type DeleteMode string

const (
	DeleteModeSoft DeleteMode = "soft"
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

// # Classification

// Priority expresses how urgent a task is.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium" // Default for new tasks.
	PriorityHigh     Priority = "high"
	PriorityVeryHigh Priority = "very high"
)

// IsValid reports whether p is a recognised [Priority] value.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityVeryHigh:
		return true
	}
	return false
}

// Difficulty is a planning-poker style estimate of a task's effort.
//
// The scale is the shortened Fibonacci sequence plus two special cards:
// "D" (needs discussion) and "T" (too big, must be split).
type Difficulty string

const (
	Difficulty1       Difficulty = "1"
	Difficulty2       Difficulty = "2"
	Difficulty3       Difficulty = "3"
	Difficulty5       Difficulty = "5" // Default for new tasks.
	Difficulty8       Difficulty = "8"
	DifficultyDiscuss Difficulty = "D"
	DifficultyTooBig  Difficulty = "T"
)

// IsValid reports whether d is a recognised [Difficulty] value.
func (d Difficulty) IsValid() bool {
	switch d {
	case Difficulty1, Difficulty2, Difficulty3, Difficulty5,
		Difficulty8, DifficultyDiscuss, DifficultyTooBig:
		return true
	}
	return false
}

// # Lifecycle Rules

var (
	// ErrParentProjectClosed rejects every task operation (create, update,
	// transition, delete) under a closed project. Closed projects are frozen
	// in their entirety.
	ErrParentProjectClosed = apperr.BadRequest("Parent project is closed")

	// ErrAssigneeNotFound rejects a task whose assignee does not resolve to
	// a known user. This is a business-rule rejection (400), deliberately
	// distinct from the parent project being absent (404).
	ErrAssigneeNotFound = apperr.BadRequest("Assignee does not exist")
)

// # Entity

// Task represents a single unit of work inside a project.
type Task struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	Slug        string     `json:"slug"` // "<id>-<title-slug>", set on create.
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	Difficulty  Difficulty `json:"difficulty"`
	AssigneeID  *string    `json:"assignee_id,omitempty"` // nil = unassigned.
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// Filter holds the parameters for a filtered task list query.
type Filter struct {
	Status *Status // nil = all statuses.
}
