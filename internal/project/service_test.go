// Copyright (c) 2026 Taskora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package project_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/taskora/internal/platform/apperr"
	"github.com/taibuivan/taskora/internal/platform/metrics"
	"github.com/taibuivan/taskora/internal/project"
	"github.com/taibuivan/taskora/pkg/pagination"
)

// fakeRepository is an in-memory Repository backed by a map.
type fakeRepository struct {
	projects  map[string]*project.Project
	counts    map[string]project.TaskCounts
	openTasks map[string]int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		projects:  make(map[string]*project.Project),
		counts:    make(map[string]project.TaskCounts),
		openTasks: make(map[string]int),
	}
}

func (f *fakeRepository) List(_ context.Context, _ project.Filter, _, _ int) ([]*project.Project, int, error) {
	out := make([]*project.Project, 0, len(f.projects))
	for _, p := range f.projects {
		clone := *p
		out = append(out, &clone)
	}
	return out, len(out), nil
}

func (f *fakeRepository) FindByID(_ context.Context, id string) (*project.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, apperr.NotFound("Project")
	}
	clone := *p
	return &clone, nil
}

func (f *fakeRepository) Create(_ context.Context, p *project.Project) error {
	clone := *p
	f.projects[p.ID] = &clone
	return nil
}

func (f *fakeRepository) Update(_ context.Context, p *project.Project) error {
	if _, ok := f.projects[p.ID]; !ok {
		return apperr.NotFound("Project")
	}
	clone := *p
	f.projects[p.ID] = &clone
	return nil
}

func (f *fakeRepository) SoftDelete(_ context.Context, id string) error {
	delete(f.projects, id)
	return nil
}

func (f *fakeRepository) HardDelete(_ context.Context, id string) error {
	delete(f.projects, id)
	return nil
}

func (f *fakeRepository) CountTasks(_ context.Context, projectID string) (project.TaskCounts, error) {
	return f.counts[projectID], nil
}

func (f *fakeRepository) CountOpenTasks(_ context.Context, projectID string) (int, error) {
	return f.openTasks[projectID], nil
}

func newProjectService(repo *fakeRepository) *project.Service {
	return project.NewService(repo, project.NoopCountCache{}, metrics.Noop{}, slog.Default())
}

/*
TestService_Create checks that new projects start open with a derived slug.
*/
func TestService_Create(t *testing.T) {
	repo := newFakeRepository()
	service := newProjectService(repo)

	p, err := service.Create(context.Background(), project.CreateInput{
		Title:       "Launch Checklist",
		Description: "Everything before go-live",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, project.StatusOpen, p.Status)
	assert.Equal(t, p.ID+"-launch-checklist", p.Slug)
	assert.Contains(t, repo.projects, p.ID)
}

/*
TestService_Update_TitleRegeneratesSlug verifies that renaming a project
refreshes its slug while keeping the ID prefix stable.
*/
func TestService_Update_TitleRegeneratesSlug(t *testing.T) {
	repo := newFakeRepository()
	service := newProjectService(repo)

	p, err := service.Create(context.Background(), project.CreateInput{Title: "Old Name"})
	require.NoError(t, err)

	newTitle := "New Name"
	updated, err := service.Update(context.Background(), p.ID, project.UpdateInput{Title: &newTitle})
	require.NoError(t, err)

	assert.Equal(t, "New Name", updated.Title)
	assert.Equal(t, p.ID+"-new-name", updated.Slug)
}

/*
TestService_Update_ClosedProjectRejected asserts that a closed project's own
metadata is frozen.
*/
func TestService_Update_ClosedProjectRejected(t *testing.T) {
	repo := newFakeRepository()
	service := newProjectService(repo)

	p, err := service.Create(context.Background(), project.CreateInput{Title: "Done"})
	require.NoError(t, err)
	repo.projects[p.ID].Status = project.StatusClosed

	newTitle := "Renamed"
	_, err = service.Update(context.Background(), p.ID, project.UpdateInput{Title: &newTitle})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 400, ae.HTTPStatus)
}

/*
TestService_Transition covers the close gate, the reopen rejection, and the
persisted idempotent no-op.
*/
func TestService_Transition(t *testing.T) {
	t.Run("close_with_open_tasks_rejected", func(t *testing.T) {
		repo := newFakeRepository()
		service := newProjectService(repo)

		p, err := service.Create(context.Background(), project.CreateInput{Title: "Busy"})
		require.NoError(t, err)
		repo.openTasks[p.ID] = 2

		_, err = service.Transition(context.Background(), p.ID, project.ActionClose)
		assert.ErrorIs(t, err, project.ErrOpenTasksRemain)
		assert.Equal(t, project.StatusOpen, repo.projects[p.ID].Status)
	})

	t.Run("close_with_only_blocked_tasks_allowed", func(t *testing.T) {
		repo := newFakeRepository()
		service := newProjectService(repo)

		p, err := service.Create(context.Background(), project.CreateInput{Title: "Parked"})
		require.NoError(t, err)

		// Tasks exist but none are open; blocked work does not hold a
		// project hostage.
		repo.counts[p.ID] = project.TaskCounts{Total: 3, Completed: 1}
		repo.openTasks[p.ID] = 0

		closed, err := service.Transition(context.Background(), p.ID, project.ActionClose)
		require.NoError(t, err)
		assert.Equal(t, project.StatusClosed, closed.Status)
	})

	t.Run("reopen_closed_rejected", func(t *testing.T) {
		repo := newFakeRepository()
		service := newProjectService(repo)

		p, err := service.Create(context.Background(), project.CreateInput{Title: "Finished"})
		require.NoError(t, err)
		repo.projects[p.ID].Status = project.StatusClosed

		_, err = service.Transition(context.Background(), p.ID, project.ActionOpen)
		assert.ErrorIs(t, err, project.ErrCannotReopenClosed)
	})

	t.Run("open_on_open_is_persisted_noop", func(t *testing.T) {
		repo := newFakeRepository()
		service := newProjectService(repo)

		p, err := service.Create(context.Background(), project.CreateInput{Title: "Steady"})
		require.NoError(t, err)

		result, err := service.Transition(context.Background(), p.ID, project.ActionOpen)
		require.NoError(t, err)
		assert.Equal(t, project.StatusOpen, result.Status)
	})

	t.Run("unknown_project_404", func(t *testing.T) {
		service := newProjectService(newFakeRepository())

		_, err := service.Transition(context.Background(), "missing-id", project.ActionClose)
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 404, ae.HTTPStatus)
	})
}

/*
TestService_List returns hydrated projects with the total count.
*/
func TestService_List(t *testing.T) {
	repo := newFakeRepository()
	service := newProjectService(repo)

	p, err := service.Create(context.Background(), project.CreateInput{Title: "Alpha"})
	require.NoError(t, err)
	_, err = service.Create(context.Background(), project.CreateInput{Title: "Beta"})
	require.NoError(t, err)
	repo.counts[p.ID] = project.TaskCounts{Total: 2, Completed: 2}

	projects, total, err := service.List(context.Background(), project.Filter{}, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, projects, 2)

	for _, got := range projects {
		if got.ID == p.ID {
			assert.Equal(t, 2, got.TasksCount)
			assert.Equal(t, 2, got.CompletedTasksCount)
		}
	}
}

/*
TestService_Get_HydratesCounts checks the computed metric fields are filled
from the count source.
*/
func TestService_Get_HydratesCounts(t *testing.T) {
	repo := newFakeRepository()
	service := newProjectService(repo)

	p, err := service.Create(context.Background(), project.CreateInput{Title: "Metrics"})
	require.NoError(t, err)
	repo.counts[p.ID] = project.TaskCounts{Total: 7, Completed: 4}

	got, err := service.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.TasksCount)
	assert.Equal(t, 4, got.CompletedTasksCount)
}

/*
TestService_Delete covers both removal modes and the 404 on unknown IDs.
*/
func TestService_Delete(t *testing.T) {
	repo := newFakeRepository()
	service := newProjectService(repo)

	p, err := service.Create(context.Background(), project.CreateInput{Title: "Ephemeral"})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), p.ID, project.DeleteModeSoft))
	assert.NotContains(t, repo.projects, p.ID)

	err = service.Delete(context.Background(), "missing-id", project.DeleteModeHard)
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 404, ae.HTTPStatus)
}
