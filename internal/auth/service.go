// Copyright (c) 2026 Taskora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package auth implements the account lifecycle use cases for the Taskora platform.
//
// # Architecture
//
// Services in this package orchestrate domain entities and interact with
// repositories through interfaces. They are technology-agnostic and do not
// know about HTTP or SQL.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/taibuivan/taskora/internal/platform/apperr"
	"github.com/taibuivan/taskora/internal/platform/sec"
	"github.com/taibuivan/taskora/pkg/uuidv7"
)

// TokenIssuer defines the contract for issuing and refreshing security tokens.
//
// It is implemented by [sec.TokenService]. The interface exists so service
// tests can substitute a deterministic issuer.
type TokenIssuer interface {
	// IssueTokenPair creates a signed access/refresh JWT pair for the user.
	IssueTokenPair(userID string) (accessToken, refreshToken string, err error)

	// RefreshAccessToken verifies a refresh token and mints a new access token.
	// The refresh token itself is not rotated.
	RefreshAccessToken(refreshToken string) (string, error)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	tokenIssuer    TokenIssuer
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(userRepo UserRepository, issuer TokenIssuer) *Service {
	return &Service{
		userRepository: userRepo,
		tokenIssuer:    issuer,
	}
}

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// AuthSession represents a successfully established login or registration.
type AuthSession struct {
	AccessToken  string
	RefreshToken string
	User         *User
}

// Register validates, hashes, and persists a brand new user account, then
// logs the account in by issuing a token pair.
//
// # Parameters
//   - ctx: Context for the database operation.
//   - input: The user-provided registration details.
//
// # Returns
//   - A pointer to [AuthSession] with the new [*User] and both tokens.
//   - Returns [apperr.Conflict] if the email already exists.
//
// # Business Rules
//   - Emails must be unique.
//   - Registration implies login; the response carries a usable token pair.
func (service *Service) Register(ctx context.Context, input RegisterInput) (*AuthSession, error) {
	// ── 1. Uniqueness Check ───────────────────────────────────────────────

	// Verify email uniqueness. Return a client-safe Conflict error.
	_, err := service.userRepository.FindByEmail(ctx, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// ── 2. Security ───────────────────────────────────────────────────────

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// ── 3. Entity Construction ────────────────────────────────────────────

	user := &User{
		ID:           uuidv7.New(), // Time-sortable ID to prevent PG index fragmentation.
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hashedPassword,
	}

	// ── 4. Persistence ────────────────────────────────────────────────────

	if err := service.userRepository.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	// ── 5. Token Issuance ─────────────────────────────────────────────────

	accessToken, refreshToken, err := service.tokenIssuer.IssueTokenPair(user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return &AuthSession{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// Login validates user credentials and issues security tokens.
//
// # Parameters
//   - ctx: Context for the database operation.
//   - input: Contains Email and plain-text Password.
//
// # Returns
//   - A pointer to [AuthSession] containing both tokens and the user profile.
//   - Returns [apperr.Unauthorized] if credentials do not match.
//
// # Flow
//  1. Lookup user by email.
//  2. Verify password hash using Bcrypt.
//  3. Issue the access/refresh JWT pair.
func (service *Service) Login(ctx context.Context, input LoginInput) (*AuthSession, error) {
	// ── 1. Fetch User Profile ─────────────────────────────────────────────

	// Return generic unauthorized error to prevent account enumeration attacks.
	user, err := service.userRepository.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// ── 2. Security Verification ──────────────────────────────────────────

	// Prevent timing attacks by always using constant-time comparison in bcrypt.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// ── 3. Token Issuance ─────────────────────────────────────────────────

	accessToken, refreshToken, err := service.tokenIssuer.IssueTokenPair(user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return &AuthSession{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token.
//
// The refresh token is stateless and is NOT rotated; the client keeps using
// it until it expires, at which point a full login is required.
//
// # Returns
//   - The new access token string.
//   - [apperr.RefreshExpired] (HTTP 401, code REFRESH_EXPIRED) when the
//     refresh token's lifetime is over. Clients treat this as "log in again".
//   - [apperr.Unauthorized] for any other verification failure.
func (service *Service) Refresh(refreshToken string) (string, error) {
	accessToken, err := service.tokenIssuer.RefreshAccessToken(refreshToken)
	if err != nil {
		if errors.Is(err, sec.ErrRefreshExpired) {
			return "", apperr.RefreshExpired("Refresh token has expired, please log in again")
		}
		return "", apperr.Unauthorized("Invalid refresh token")
	}

	return accessToken, nil
}
