// Copyright (c) 2026 Taskora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package project_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/taskora/internal/platform/apperr"
	"github.com/taibuivan/taskora/internal/project"
)

/*
TestDecide exercises the full project lifecycle rule table, including the
idempotent no-op transitions and both rejection cases.
*/
func TestDecide(t *testing.T) {
	tests := []struct {
		name      string
		current   project.Status
		action    project.Action
		openTasks int
		want      project.Status
		wantErr   error
	}{
		{"open_on_open_is_noop", project.StatusOpen, project.ActionOpen, 0, project.StatusOpen, nil},
		{"open_on_closed_rejected", project.StatusClosed, project.ActionOpen, 0, "", project.ErrCannotReopenClosed},
		{"close_on_closed_is_noop", project.StatusClosed, project.ActionClose, 0, project.StatusClosed, nil},
		{"close_without_open_tasks", project.StatusOpen, project.ActionClose, 0, project.StatusClosed, nil},
		{"close_with_open_tasks_rejected", project.StatusOpen, project.ActionClose, 3, "", project.ErrOpenTasksRemain},
		{"close_on_closed_ignores_open_tasks", project.StatusClosed, project.ActionClose, 5, project.StatusClosed, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := project.Decide(tt.current, tt.action, tt.openTasks)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

/*
TestParseAction rejects unknown lifecycle actions with a bad-request error.
*/
func TestParseAction(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    project.Action
		invalid bool
	}{
		{"open", "open", project.ActionOpen, false},
		{"close", "close", project.ActionClose, false},
		{"typo", "cloose", "", true},
		{"empty", "", "", true},
		{"uppercase", "OPEN", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := project.ParseAction(tt.raw)

			if tt.invalid {
				require.Error(t, err)
				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, 400, ae.HTTPStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

/*
TestParseDeleteMode accepts only the two documented removal modes.
*/
func TestParseDeleteMode(t *testing.T) {
	mode, err := project.ParseDeleteMode("soft")
	require.NoError(t, err)
	assert.Equal(t, project.DeleteModeSoft, mode)

	mode, err = project.ParseDeleteMode("hard")
	require.NoError(t, err)
	assert.Equal(t, project.DeleteModeHard, mode)

	_, err = project.ParseDeleteMode("purge")
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 400, ae.HTTPStatus)
}

/*
TestStatusIsValid checks the recognised project states.
*/
func TestStatusIsValid(t *testing.T) {
	assert.True(t, project.StatusOpen.IsValid())
	assert.True(t, project.StatusClosed.IsValid())
	assert.False(t, project.Status("blocked").IsValid())
	assert.False(t, project.Status("").IsValid())
}

/*
TestIsValidSort checks the accepted sortBy query values.
*/
func TestIsValidSort(t *testing.T) {
	for _, valid := range []string{project.SortAlphaAsc, project.SortAlphaDesc, project.SortCreate, project.SortUpdate} {
		assert.True(t, project.IsValidSort(valid), valid)
	}
	assert.False(t, project.IsValidSort("title"))
	assert.False(t, project.IsValidSort(""))
}
