// Copyright (c) 2026 Taskora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/taskora/internal/account"
	"github.com/taibuivan/taskora/internal/auth"
	"github.com/taibuivan/taskora/internal/platform/apperr"
	"github.com/taibuivan/taskora/internal/platform/sec"
	"github.com/taibuivan/taskora/pkg/pointer"
)

// fakeAccountRepository is an in-memory AccountRepository.
type fakeAccountRepository struct {
	users map[string]*auth.User
}

func newFakeAccountRepository(users ...*auth.User) *fakeAccountRepository {
	f := &fakeAccountRepository{users: make(map[string]*auth.User)}
	for _, u := range users {
		clone := *u
		f.users[u.ID] = &clone
	}
	return f
}

func (f *fakeAccountRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	clone := *u
	return &clone, nil
}

func (f *fakeAccountRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeAccountRepository) Update(_ context.Context, user *auth.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeAccountRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	u, ok := f.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	u.PasswordHash = newHash
	return nil
}

func (f *fakeAccountRepository) SoftDelete(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(f.users, id)
	return nil
}

func newAccountService(repo *fakeAccountRepository) *account.Service {
	return account.NewService(repo, slog.Default())
}

/*
TestUpdateProfile covers the ownership gate, partial updates, and the email
conflict rule.
*/
func TestUpdateProfile(t *testing.T) {
	t.Run("owner_can_update", func(t *testing.T) {
		repo := newFakeAccountRepository(&auth.User{ID: "user-1", FirstName: "Old", Email: "one@taskora.app"})
		service := newAccountService(repo)

		updated, err := service.UpdateProfile(context.Background(), "user-1", "user-1", account.UpdateProfileInput{
			FirstName: pointer.To("New"),
		})
		require.NoError(t, err)
		assert.Equal(t, "New", updated.FirstName)
		assert.Equal(t, "one@taskora.app", updated.Email)
	})

	t.Run("cross_user_forbidden", func(t *testing.T) {
		repo := newFakeAccountRepository(
			&auth.User{ID: "user-1", Email: "one@taskora.app"},
			&auth.User{ID: "user-2", Email: "two@taskora.app"},
		)
		service := newAccountService(repo)

		_, err := service.UpdateProfile(context.Background(), "user-1", "user-2", account.UpdateProfileInput{
			FirstName: pointer.To("Hacked"),
		})
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 403, ae.HTTPStatus)
	})

	t.Run("forbidden_even_for_missing_target", func(t *testing.T) {
		// A 403 for unknown ids keeps the endpoint useless as an
		// account-id oracle.
		service := newAccountService(newFakeAccountRepository(&auth.User{ID: "user-1"}))

		_, err := service.UpdateProfile(context.Background(), "user-1", "user-ghost", account.UpdateProfileInput{})
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 403, ae.HTTPStatus)
	})

	t.Run("email_collision_conflict", func(t *testing.T) {
		repo := newFakeAccountRepository(
			&auth.User{ID: "user-1", Email: "one@taskora.app"},
			&auth.User{ID: "user-2", Email: "two@taskora.app"},
		)
		service := newAccountService(repo)

		_, err := service.UpdateProfile(context.Background(), "user-1", "user-1", account.UpdateProfileInput{
			Email: pointer.To("two@taskora.app"),
		})
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 409, ae.HTTPStatus)
	})

	t.Run("password_change_rehashes", func(t *testing.T) {
		repo := newFakeAccountRepository(&auth.User{ID: "user-1", Email: "one@taskora.app", PasswordHash: "old-hash"})
		service := newAccountService(repo)

		_, err := service.UpdateProfile(context.Background(), "user-1", "user-1", account.UpdateProfileInput{
			Password: pointer.To("new-secret-pass"),
		})
		require.NoError(t, err)

		stored := repo.users["user-1"]
		assert.NotEqual(t, "old-hash", stored.PasswordHash)
		assert.NotEqual(t, "new-secret-pass", stored.PasswordHash)
		assert.True(t, sec.CheckPasswordHash("new-secret-pass", stored.PasswordHash))
	})

	t.Run("same_email_is_not_a_conflict", func(t *testing.T) {
		repo := newFakeAccountRepository(&auth.User{ID: "user-1", Email: "one@taskora.app"})
		service := newAccountService(repo)

		updated, err := service.UpdateProfile(context.Background(), "user-1", "user-1", account.UpdateProfileInput{
			Email: pointer.To("one@taskora.app"),
		})
		require.NoError(t, err)
		assert.Equal(t, "one@taskora.app", updated.Email)
	})
}

/*
TestDeleteAccount covers the ownership gate on account removal.
*/
func TestDeleteAccount(t *testing.T) {
	t.Run("owner_can_delete", func(t *testing.T) {
		repo := newFakeAccountRepository(&auth.User{ID: "user-1"})
		service := newAccountService(repo)

		require.NoError(t, service.DeleteAccount(context.Background(), "user-1", "user-1"))
		assert.NotContains(t, repo.users, "user-1")
	})

	t.Run("cross_user_forbidden", func(t *testing.T) {
		repo := newFakeAccountRepository(
			&auth.User{ID: "user-1"},
			&auth.User{ID: "user-2"},
		)
		service := newAccountService(repo)

		err := service.DeleteAccount(context.Background(), "user-1", "user-2")
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 403, ae.HTTPStatus)
		assert.Contains(t, repo.users, "user-2")
	})
}

/*
TestGetProfile returns the stored account by id.
*/
func TestGetProfile(t *testing.T) {
	repo := newFakeAccountRepository(&auth.User{ID: "user-1", FirstName: "Tai", LastName: "Bui"})
	service := newAccountService(repo)

	user, err := service.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Tai Bui", user.FullName())

	_, err = service.GetProfile(context.Background(), "user-ghost")
	require.Error(t, err)
}
