// Copyright (c) 2026 Taskora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/taskora/internal/auth"
	"github.com/taibuivan/taskora/internal/platform/apperr"
	"github.com/taibuivan/taskora/internal/platform/sec"
)

// fakeUserRepository is an in-memory UserRepository keyed by ID, with an
// email index for lookup.
type fakeUserRepository struct {
	byID    map[string]*auth.User
	byEmail map[string]*auth.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		byID:    make(map[string]*auth.User),
		byEmail: make(map[string]*auth.User),
	}
}

func (f *fakeUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return u, nil
}

func (f *fakeUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return u, nil
}

func (f *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepository) Update(_ context.Context, user *auth.User) error {
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	u, ok := f.byID[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	u.PasswordHash = newHash
	return nil
}

func (f *fakeUserRepository) SoftDelete(_ context.Context, id string) error {
	u, ok := f.byID[id]
	if !ok {
		return apperr.NotFound("User")
	}
	delete(f.byID, id)
	delete(f.byEmail, u.Email)
	return nil
}

// fakeTokenIssuer returns deterministic token strings and can simulate an
// expired refresh token.
type fakeTokenIssuer struct {
	refreshErr error
}

func (f *fakeTokenIssuer) IssueTokenPair(userID string) (string, string, error) {
	return "access-" + userID, "refresh-" + userID, nil
}

func (f *fakeTokenIssuer) RefreshAccessToken(refreshToken string) (string, error) {
	if f.refreshErr != nil {
		return "", f.refreshErr
	}
	return "refreshed-access", nil
}

/*
TestAuthService_Register covers enrollment: hashing, token issuance, and the
email uniqueness conflict.
*/
func TestAuthService_Register(t *testing.T) {
	t.Run("success_issues_token_pair", func(t *testing.T) {
		repo := newFakeUserRepository()
		service := auth.NewService(repo, &fakeTokenIssuer{})

		session, err := service.Register(context.Background(), auth.RegisterInput{
			FirstName: "Tai",
			LastName:  "Bui",
			Email:     "tai@taskora.app",
			Password:  "s3cret-pass",
		})
		require.NoError(t, err)

		assert.Equal(t, "access-"+session.User.ID, session.AccessToken)
		assert.Equal(t, "refresh-"+session.User.ID, session.RefreshToken)
		assert.NotEmpty(t, session.User.ID)

		// Stored hash must verify against the original password and must
		// not be the plain text itself.
		stored := repo.byEmail["tai@taskora.app"]
		require.NotNil(t, stored)
		assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)
		assert.True(t, sec.CheckPasswordHash("s3cret-pass", stored.PasswordHash))
	})

	t.Run("duplicate_email_conflict", func(t *testing.T) {
		repo := newFakeUserRepository()
		service := auth.NewService(repo, &fakeTokenIssuer{})

		_, err := service.Register(context.Background(), auth.RegisterInput{
			Email: "dup@taskora.app", Password: "password1",
		})
		require.NoError(t, err)

		_, err = service.Register(context.Background(), auth.RegisterInput{
			Email: "dup@taskora.app", Password: "password2",
		})
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "CONFLICT", ae.Code)
		assert.Equal(t, 409, ae.HTTPStatus)
	})
}

/*
TestAuthService_Login verifies credential checking and the deliberately
generic failure message for both unknown emails and wrong passwords.
*/
func TestAuthService_Login(t *testing.T) {
	repo := newFakeUserRepository()
	service := auth.NewService(repo, &fakeTokenIssuer{})

	_, err := service.Register(context.Background(), auth.RegisterInput{
		Email: "member@taskora.app", Password: "correct-horse",
	})
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		session, err := service.Login(context.Background(), auth.LoginInput{
			Email: "member@taskora.app", Password: "correct-horse",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, session.AccessToken)
		assert.NotEmpty(t, session.RefreshToken)
		assert.Equal(t, "member@taskora.app", session.User.Email)
	})

	t.Run("wrong_password", func(t *testing.T) {
		_, err := service.Login(context.Background(), auth.LoginInput{
			Email: "member@taskora.app", Password: "wrong",
		})
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "UNAUTHORIZED", ae.Code)
	})

	t.Run("unknown_email_same_error_shape", func(t *testing.T) {
		_, err := service.Login(context.Background(), auth.LoginInput{
			Email: "ghost@taskora.app", Password: "whatever",
		})
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "UNAUTHORIZED", ae.Code)
		assert.Equal(t, "Invalid login credentials", ae.Message)
	})
}

/*
TestAuthService_Refresh checks the mapping of verification failures onto the
API error taxonomy. An expired refresh token gets its own code so clients
know to fully re-login.
*/
func TestAuthService_Refresh(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service := auth.NewService(newFakeUserRepository(), &fakeTokenIssuer{})

		accessToken, err := service.Refresh("some-refresh-token")
		require.NoError(t, err)
		assert.Equal(t, "refreshed-access", accessToken)
	})

	t.Run("expired_refresh_token", func(t *testing.T) {
		service := auth.NewService(newFakeUserRepository(), &fakeTokenIssuer{refreshErr: sec.ErrRefreshExpired})

		_, err := service.Refresh("stale-refresh-token")
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "REFRESH_EXPIRED", ae.Code)
		assert.Equal(t, 401, ae.HTTPStatus)
	})

	t.Run("forged_refresh_token", func(t *testing.T) {
		service := auth.NewService(newFakeUserRepository(), &fakeTokenIssuer{refreshErr: errors.New("bad signature")})

		_, err := service.Refresh("garbage")
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "UNAUTHORIZED", ae.Code)
	})
}
