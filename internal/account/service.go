// Copyright (c) 2026 Taskora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles user profile management.

It provides functionalities for users to view and update their own identity
data. Authorization is enforced here: a user may only ever modify their own
account, no matter what id the URL names.

# Architecture

  - Entities: This package depends on the auth package for the User entity.
  - Security: Ownership checks go through [sec.CanModifyUser].
*/
package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/taskora/internal/auth"
	"github.com/taibuivan/taskora/internal/platform/apperr"
	"github.com/taibuivan/taskora/internal/platform/sec"
)

// AccountRepository defines the persistence contract for user accounts.
//
// It is a narrowed view of [auth.UserRepository]; the auth package's
// PostgreSQL repository satisfies it directly.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - ctx: context.Context
		  - id: string (UUID)

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(ctx context.Context, id string) (*auth.User, error)

	/*
		FindByEmail retrieves a user record by their unique email.

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByEmail(ctx context.Context, email string) (*auth.User, error)

	/*
		Update modifies the mutable profile fields of an existing user.

		Parameters:
		  - ctx: context.Context
		  - user: *auth.User (Hydrated entity with changes)

		Returns:
		  - error: Storage or constraint failures
	*/
	Update(ctx context.Context, user *auth.User) error

	/*
		UpdatePassword replaces only the password hash of an account.
	*/
	UpdatePassword(ctx context.Context, userID, newHash string) error

	/*
		SoftDelete flags an account as logically deleted.
	*/
	SoftDelete(ctx context.Context, id string) error
}

// # Service Layer

// Service orchestrates business logic for user account management.
type Service struct {
	accountRepository AccountRepository
	logger            *slog.Logger
}

// NewService constructs a new account [Service].
func NewService(accountRepo AccountRepository, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		logger:            logger,
	}
}

/*
GetProfile retrieves the full private identity of a user.

Parameters:
  - ctx: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(ctx context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return user, nil
}

// UpdateProfileInput defines the mutable subset of user profile fields.
//
// Nil pointers mean "leave untouched".
type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
}

/*
UpdateProfile applies a partial set of changes to a user account.

Description: Enforces the ownership gate, fetches the existing user state,
overrides provided fields, and synchronizes the change to persistent storage.

Parameters:
  - ctx: context.Context
  - actingUserID: string (from the verified access token)
  - targetUserID: string (from the URL)
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated user profile
  - error: [apperr.Forbidden] when actingUserID does not own targetUserID,
    [apperr.Conflict] on a duplicate email, or storage failures

# Business Rules
  - The ownership decision is exact id equality; there are no admin
    overrides or role escalations.
  - A 403 is returned even when the target account does not exist, so the
    endpoint cannot be used to probe for valid account ids.
*/
func (service *Service) UpdateProfile(ctx context.Context, actingUserID, targetUserID string, input UpdateProfileInput) (*auth.User, error) {

	// ── 1. Ownership Gate ─────────────────────────────────────────────────

	if !sec.CanModifyUser(actingUserID, targetUserID) {
		return nil, apperr.Forbidden("You can only modify your own account")
	}

	// ── 2. Fetch Current State ────────────────────────────────────────────

	user, err := service.accountRepository.FindByID(ctx, targetUserID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	// ── 3. Apply Delta Updates ────────────────────────────────────────────

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}

	if input.LastName != nil {
		user.LastName = *input.LastName
	}

	if input.Email != nil && *input.Email != user.Email {
		// Email change must not collide with another account.
		if _, lookupErr := service.accountRepository.FindByEmail(ctx, *input.Email); lookupErr == nil {
			return nil, apperr.Conflict("Email is already registered")
		}
		user.Email = *input.Email
	}

	// ── 4. Persistence ────────────────────────────────────────────────────

	if err := service.accountRepository.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	// Password changes go through the dedicated repository method so the
	// profile update above can never overwrite the hash with stale data.
	if input.Password != nil {
		newHash, err := sec.HashPassword(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("account_service_hash_failed: %w", err)
		}
		if err := service.accountRepository.UpdatePassword(ctx, targetUserID, newHash); err != nil {
			return nil, fmt.Errorf("account_service_password_update_failed: %w", err)
		}
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", targetUserID))

	return user, nil
}

/*
DeleteAccount performs a soft-deletion of a user account.

The same ownership gate applies as for [UpdateProfile].
*/
func (service *Service) DeleteAccount(ctx context.Context, actingUserID, targetUserID string) error {
	if !sec.CanModifyUser(actingUserID, targetUserID) {
		return apperr.Forbidden("You can only modify your own account")
	}

	if err := service.accountRepository.SoftDelete(ctx, targetUserID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	service.logger.Info("user_account_deleted", slog.String("user_id", targetUserID))

	return nil
}
