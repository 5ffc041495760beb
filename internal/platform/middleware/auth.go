// Copyright (c) 2026 Taskora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package middleware provides the HTTP middleware chain for the Taskora API server.
//
// # Architecture
//
// Middleware intercepts incoming HTTP requests to apply global policies
// before they reach the domain handlers. This includes cross-cutting concerns
// like Logging, AuthN, Rate Limiting, and CORS.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/taibuivan/taskora/internal/platform/apperr"
	"github.com/taibuivan/taskora/internal/platform/constants"
	"github.com/taibuivan/taskora/internal/platform/ctxutil"
	"github.com/taibuivan/taskora/internal/platform/metrics"
	"github.com/taibuivan/taskora/internal/platform/respond"
	"github.com/taibuivan/taskora/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify access tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the token service
// implementation, allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	ValidateBearer(tokenStr string) (*sec.Claims, error)
}

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// Every route mounted behind this middleware requires authentication. A
// request without an Authorization header is rejected outright with a
// MISSING_BEARER error, which is deliberately distinct from the UNAUTHORIZED
// error returned for tokens that are present but fail verification.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header. Absent -> 401 MISSING_BEARER.
//  2. Malformed header -> 401 UNAUTHORIZED.
//  3. Parse and verify the JWT via [TokenVerifier]. Expired -> 401 TOKEN_EXPIRED,
//     any other failure -> 401 UNAUTHORIZED.
//  4. Inject [*sec.Claims] into the request context for downstream use.
func Authenticate(verifier TokenVerifier, recorder metrics.Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// ── 1. Missing Credentials ────────────────────────────────────────
			if authHeader == "" {
				recorder.RecordAuthFailure("missing_bearer")
				respond.Error(writer, request, apperr.MissingBearer())
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				recorder.RecordAuthFailure("unauthorized")
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			tokenStr := parts[1]
			claims, err := verifier.ValidateBearer(tokenStr)
			if err != nil {
				if errors.Is(err, sec.ErrTokenExpired) {
					recorder.RecordAuthFailure("token_expired")
					respond.Error(writer, request, apperr.TokenExpired("Access token has expired"))
					return
				}
				recorder.RecordAuthFailure("unauthorized")
				respond.Error(writer, request, apperr.Unauthorized("Invalid token"))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}
