// Copyright (c) 2026 Taskora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package task_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/taskora/internal/auth"
	"github.com/taibuivan/taskora/internal/platform/apperr"
	"github.com/taibuivan/taskora/internal/platform/metrics"
	"github.com/taibuivan/taskora/internal/project"
	"github.com/taibuivan/taskora/internal/task"
	"github.com/taibuivan/taskora/pkg/pagination"
	"github.com/taibuivan/taskora/pkg/pointer"
)

// fakeTaskRepository is an in-memory Repository keyed by task ID.
type fakeTaskRepository struct {
	tasks map[string]*task.Task
}

func newFakeTaskRepository() *fakeTaskRepository {
	return &fakeTaskRepository{tasks: make(map[string]*task.Task)}
}

func (f *fakeTaskRepository) ListByProject(_ context.Context, projectID string, filter task.Filter, _, _ int) ([]*task.Task, int, error) {
	out := make([]*task.Task, 0)
	for _, t := range f.tasks {
		if t.ProjectID != projectID {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		clone := *t
		out = append(out, &clone)
	}
	return out, len(out), nil
}

func (f *fakeTaskRepository) FindByID(_ context.Context, projectID, taskID string) (*task.Task, error) {
	t, ok := f.tasks[taskID]
	if !ok || t.ProjectID != projectID {
		return nil, apperr.NotFound("Task")
	}
	clone := *t
	return &clone, nil
}

func (f *fakeTaskRepository) Create(_ context.Context, t *task.Task) error {
	clone := *t
	f.tasks[t.ID] = &clone
	return nil
}

func (f *fakeTaskRepository) Update(_ context.Context, t *task.Task) error {
	if _, ok := f.tasks[t.ID]; !ok {
		return apperr.NotFound("Task")
	}
	clone := *t
	f.tasks[t.ID] = &clone
	return nil
}

func (f *fakeTaskRepository) SoftDelete(_ context.Context, _, taskID string) error {
	delete(f.tasks, taskID)
	return nil
}

func (f *fakeTaskRepository) HardDelete(_ context.Context, _, taskID string) error {
	delete(f.tasks, taskID)
	return nil
}

// fakeProjectStore serves parent lookups for the gate check.
type fakeProjectStore struct {
	projects map[string]*project.Project
}

func (f *fakeProjectStore) FindByID(_ context.Context, id string) (*project.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, apperr.NotFound("Project")
	}
	return p, nil
}

// fakeUserFinder resolves assignees from a fixed set of user IDs.
type fakeUserFinder struct {
	users map[string]*auth.User
}

func (f *fakeUserFinder) FindByID(_ context.Context, id string) (*auth.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return u, nil
}

// fakeInvalidator records which project caches were dropped.
type fakeInvalidator struct {
	invalidated []string
}

func (f *fakeInvalidator) Invalidate(_ context.Context, projectID string) {
	f.invalidated = append(f.invalidated, projectID)
}

type taskFixture struct {
	service     *task.Service
	repo        *fakeTaskRepository
	projects    *fakeProjectStore
	users       *fakeUserFinder
	invalidator *fakeInvalidator
}

func newTaskFixture() *taskFixture {
	repo := newFakeTaskRepository()
	projects := &fakeProjectStore{projects: map[string]*project.Project{
		"proj-open":   {ID: "proj-open", Title: "Open Project", Status: project.StatusOpen},
		"proj-closed": {ID: "proj-closed", Title: "Closed Project", Status: project.StatusClosed},
	}}
	users := &fakeUserFinder{users: map[string]*auth.User{
		"user-1": {ID: "user-1", Email: "one@taskora.app"},
	}}
	invalidator := &fakeInvalidator{}

	return &taskFixture{
		service:     task.NewService(repo, projects, users, invalidator, metrics.Noop{}, slog.Default()),
		repo:        repo,
		projects:    projects,
		users:       users,
		invalidator: invalidator,
	}
}

/*
TestTaskService_Create covers defaults, the parent gate, and assignee
validation.
*/
func TestTaskService_Create(t *testing.T) {
	t.Run("defaults_applied", func(t *testing.T) {
		fx := newTaskFixture()

		created, err := fx.service.Create(context.Background(), "proj-open", task.CreateInput{
			Title: "Write Docs",
		})
		require.NoError(t, err)

		assert.Equal(t, task.StatusOpen, created.Status)
		assert.Equal(t, task.PriorityMedium, created.Priority)
		assert.Equal(t, task.Difficulty5, created.Difficulty)
		assert.Nil(t, created.AssigneeID)
		assert.Equal(t, created.ID+"-write-docs", created.Slug)
		assert.Contains(t, fx.invalidator.invalidated, "proj-open")
	})

	t.Run("closed_parent_rejected", func(t *testing.T) {
		fx := newTaskFixture()

		_, err := fx.service.Create(context.Background(), "proj-closed", task.CreateInput{Title: "Nope"})
		assert.ErrorIs(t, err, task.ErrParentProjectClosed)
	})

	t.Run("missing_parent_404", func(t *testing.T) {
		fx := newTaskFixture()

		_, err := fx.service.Create(context.Background(), "proj-missing", task.CreateInput{Title: "Lost"})
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 404, ae.HTTPStatus)
	})

	t.Run("unknown_assignee_rejected", func(t *testing.T) {
		fx := newTaskFixture()

		_, err := fx.service.Create(context.Background(), "proj-open", task.CreateInput{
			Title:      "Assigned Work",
			AssigneeID: pointer.To("user-ghost"),
		})
		assert.ErrorIs(t, err, task.ErrAssigneeNotFound)
	})

	t.Run("known_assignee_accepted", func(t *testing.T) {
		fx := newTaskFixture()

		created, err := fx.service.Create(context.Background(), "proj-open", task.CreateInput{
			Title:      "Assigned Work",
			AssigneeID: pointer.To("user-1"),
		})
		require.NoError(t, err)
		require.NotNil(t, created.AssigneeID)
		assert.Equal(t, "user-1", *created.AssigneeID)
	})
}

/*
TestTaskService_Update covers partial updates, slug regeneration, and the
tri-state assignee semantics.
*/
func TestTaskService_Update(t *testing.T) {
	t.Run("title_change_regenerates_slug", func(t *testing.T) {
		fx := newTaskFixture()
		created, err := fx.service.Create(context.Background(), "proj-open", task.CreateInput{Title: "Before"})
		require.NoError(t, err)

		updated, err := fx.service.Update(context.Background(), "proj-open", created.ID, task.UpdateInput{
			Title: pointer.To("After"),
		})
		require.NoError(t, err)
		assert.Equal(t, "After", updated.Title)
		assert.Equal(t, created.ID+"-after", updated.Slug)
	})

	t.Run("clear_assignee", func(t *testing.T) {
		fx := newTaskFixture()
		created, err := fx.service.Create(context.Background(), "proj-open", task.CreateInput{
			Title:      "Handover",
			AssigneeID: pointer.To("user-1"),
		})
		require.NoError(t, err)

		updated, err := fx.service.Update(context.Background(), "proj-open", created.ID, task.UpdateInput{
			AssigneeID:  nil,
			AssigneeSet: true,
		})
		require.NoError(t, err)
		assert.Nil(t, updated.AssigneeID)
	})

	t.Run("absent_assignee_field_leaves_it_alone", func(t *testing.T) {
		fx := newTaskFixture()
		created, err := fx.service.Create(context.Background(), "proj-open", task.CreateInput{
			Title:      "Stays Mine",
			AssigneeID: pointer.To("user-1"),
		})
		require.NoError(t, err)

		updated, err := fx.service.Update(context.Background(), "proj-open", created.ID, task.UpdateInput{
			Description: pointer.To("new text"),
		})
		require.NoError(t, err)
		require.NotNil(t, updated.AssigneeID)
		assert.Equal(t, "user-1", *updated.AssigneeID)
	})

	t.Run("closed_parent_rejected", func(t *testing.T) {
		fx := newTaskFixture()
		created, err := fx.service.Create(context.Background(), "proj-open", task.CreateInput{Title: "Frozen"})
		require.NoError(t, err)

		// Close the parent afterwards; the existing task becomes untouchable.
		fx.projects.projects["proj-open"].Status = project.StatusClosed

		_, err = fx.service.Update(context.Background(), "proj-open", created.ID, task.UpdateInput{
			Title: pointer.To("Thaw"),
		})
		assert.ErrorIs(t, err, task.ErrParentProjectClosed)
	})
}

/*
TestTaskService_Transition checks the unconditional mapping and the parent
gate on status changes.
*/
func TestTaskService_Transition(t *testing.T) {
	t.Run("any_action_from_any_state", func(t *testing.T) {
		fx := newTaskFixture()
		created, err := fx.service.Create(context.Background(), "proj-open", task.CreateInput{Title: "Shifty"})
		require.NoError(t, err)

		for _, step := range []struct {
			action task.Action
			want   task.Status
		}{
			{task.ActionBlock, task.StatusBlocked},
			{task.ActionClose, task.StatusClosed},
			{task.ActionOpen, task.StatusOpen},
			{task.ActionClose, task.StatusClosed},
		} {
			got, err := fx.service.Transition(context.Background(), "proj-open", created.ID, step.action)
			require.NoError(t, err)
			assert.Equal(t, step.want, got.Status)
		}
	})

	t.Run("closed_parent_rejected", func(t *testing.T) {
		fx := newTaskFixture()
		created, err := fx.service.Create(context.Background(), "proj-open", task.CreateInput{Title: "Stuck"})
		require.NoError(t, err)
		fx.projects.projects["proj-open"].Status = project.StatusClosed

		_, err = fx.service.Transition(context.Background(), "proj-open", created.ID, task.ActionClose)
		assert.ErrorIs(t, err, task.ErrParentProjectClosed)
	})

	t.Run("unknown_task_404", func(t *testing.T) {
		fx := newTaskFixture()

		_, err := fx.service.Transition(context.Background(), "proj-open", "task-missing", task.ActionOpen)
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 404, ae.HTTPStatus)
	})
}

/*
TestTaskService_List verifies reads stay available on closed projects and
respect the status filter.
*/
func TestTaskService_List(t *testing.T) {
	fx := newTaskFixture()

	first, err := fx.service.Create(context.Background(), "proj-open", task.CreateInput{Title: "One"})
	require.NoError(t, err)
	_, err = fx.service.Create(context.Background(), "proj-open", task.CreateInput{Title: "Two"})
	require.NoError(t, err)

	_, err = fx.service.Transition(context.Background(), "proj-open", first.ID, task.ActionClose)
	require.NoError(t, err)

	// Closing the parent must not block reads
	fx.projects.projects["proj-open"].Status = project.StatusClosed

	all, total, err := fx.service.List(context.Background(), "proj-open", task.Filter{}, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, all, 2)

	closedOnly, total, err := fx.service.List(context.Background(), "proj-open", task.Filter{
		Status: pointer.To(task.StatusClosed),
	}, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, closedOnly, 1)
	assert.Equal(t, first.ID, closedOnly[0].ID)

	_, _, err = fx.service.List(context.Background(), "proj-missing", task.Filter{}, pagination.Params{Page: 1, Limit: 20})
	require.Error(t, err)
}

/*
TestTaskService_Delete covers the gate, the existence check, and cache
invalidation.
*/
func TestTaskService_Delete(t *testing.T) {
	t.Run("soft_delete", func(t *testing.T) {
		fx := newTaskFixture()
		created, err := fx.service.Create(context.Background(), "proj-open", task.CreateInput{Title: "Gone Soon"})
		require.NoError(t, err)

		require.NoError(t, fx.service.Delete(context.Background(), "proj-open", created.ID, task.DeleteModeSoft))
		assert.NotContains(t, fx.repo.tasks, created.ID)
	})

	t.Run("unknown_task_404", func(t *testing.T) {
		fx := newTaskFixture()

		err := fx.service.Delete(context.Background(), "proj-open", "task-missing", task.DeleteModeHard)
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 404, ae.HTTPStatus)
	})

	t.Run("closed_parent_rejected", func(t *testing.T) {
		fx := newTaskFixture()
		created, err := fx.service.Create(context.Background(), "proj-open", task.CreateInput{Title: "Protected"})
		require.NoError(t, err)
		fx.projects.projects["proj-open"].Status = project.StatusClosed

		err = fx.service.Delete(context.Background(), "proj-open", created.ID, task.DeleteModeSoft)
		assert.ErrorIs(t, err, task.ErrParentProjectClosed)
	})
}
