// Copyright (c) 2026 Taskora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via small interfaces such as [middleware.TokenVerifier].
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// # Token Failure Taxonomy
//
// Callers must be able to tell "expired" apart from "garbage/forged" to decide
// whether a client should refresh or fully re-login. The sentinels below are
// the complete set of verification outcomes; the HTTP boundary maps each one
// to a status code exactly once.
var (
	// ErrMalformedToken signals a token string that is not parseable at all.
	ErrMalformedToken = errors.New("sec: token is malformed")

	// ErrBadSignature signals a parseable token whose signature does not
	// verify against the configured secret.
	ErrBadSignature = errors.New("sec: token signature is invalid")

	// ErrTokenInvalid signals any other verification failure (wrong issuer,
	// wrong audience, unexpected algorithm).
	ErrTokenInvalid = errors.New("sec: token is invalid")

	// ErrTokenExpired signals a well-formed, correctly signed token whose
	// lifetime has elapsed. The client should call the refresh endpoint.
	ErrTokenExpired = errors.New("sec: token is expired")

	// ErrRefreshExpired signals an expired refresh token. The client must
	// fully re-authenticate; refreshing is no longer possible.
	ErrRefreshExpired = errors.New("sec: refresh token is expired")
)

// Claims represents the payload embedded inside a Taskora JWT.
//
// The user ID is carried both in the registered "sub" claim and in a custom
// "userId" claim kept for compatibility with existing API clients.
type Claims struct {
	jwt.RegisteredClaims

	UserID string `json:"userId"`
}

// TokenService handles generation and verification of JWT tokens using HS256.
//
// # Review Process
//
// This service is critical for security. Any changes to signing, validation
// ordering, or expiry semantics must be reviewed by the security team.
type TokenService struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration

	// now is the injected clock. Expiry decisions are a pure function of
	// this clock, which makes them deterministically testable.
	now func() time.Time
}

// NewTokenService creates a new TokenService signing with the given symmetric
// secret. The issuer string doubles as the audience and is checked on every
// verification as an anti-cross-service-replay guard.
//
// A nil clock defaults to [time.Now].
func NewTokenService(secret, issuer string, accessTTL, refreshTTL time.Duration, clock func() time.Time) *TokenService {
	if clock == nil {
		clock = time.Now
	}

	return &TokenService{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        clock,
	}
}

// # Issuance

// IssueTokenPair creates a short-lived access token and a long-lived refresh
// token for the given user. Both carry the same subject, issuer, and audience;
// the kind is implied purely by the expiry used at issuance.
func (service *TokenService) IssueTokenPair(userID string) (accessToken, refreshToken string, err error) {
	currentTime := service.now()

	accessToken, err = service.generateToken(userID, currentTime, currentTime.Add(service.accessTTL))
	if err != nil {
		return "", "", err
	}

	refreshToken, err = service.generateToken(userID, currentTime, currentTime.Add(service.refreshTTL))
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// generateToken builds and signs a single JWT with the given time bounds.
func (service *TokenService) generateToken(userID string, issuedAt, expiresAt time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			Audience:  jwt.ClaimStrings{service.issuer},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// # Verification

/*
ValidateBearer checks a bearer token and returns its claims.

Description: Performs the full validation pipeline in a fixed order:
signature first, then issuer/audience constraints, then expiry. The ordering
matters: a forged token must never be reported as merely expired.

Parameters:
  - tokenString: string (Raw JWT from the Authorization header)

Returns:
  - *Claims: Verified claims carrying the subject user ID
  - error: ErrMalformedToken, ErrBadSignature, ErrTokenInvalid, or ErrTokenExpired
*/
func (service *TokenService) ValidateBearer(tokenString string) (*Claims, error) {

	// 1. Decode and verify the signature
	claims, err := service.decode(tokenString)
	if err != nil {
		return nil, err
	}

	// 2. Issuer/audience integrity check against configuration
	if claims.Issuer != service.issuer {
		return nil, ErrTokenInvalid
	}
	if len(claims.Audience) == 0 || claims.Audience[0] != service.issuer {
		return nil, ErrTokenInvalid
	}

	// 3. Expiry check against the injected clock. A token without an exp
	// claim is structurally invalid, not expired: reporting it as expired
	// would invite a refresh attempt that can never succeed.
	if claims.ExpiresAt == nil {
		return nil, ErrTokenInvalid
	}

	// The boundary is inclusive: a token whose expiry equals "now" is
	// already expired.
	if !service.now().Before(claims.ExpiresAt.Time) {
		return nil, ErrTokenExpired
	}

	return claims, nil
}

/*
RefreshAccessToken issues a new access token from a valid refresh token.

Description: Validates the refresh token and, on success, signs a fresh
access token for the same subject. The refresh token itself is NOT rotated;
clients keep presenting it until its own expiry forces a full re-login.

Parameters:
  - refreshToken: string

Returns:
  - string: New signed access token
  - error: ErrRefreshExpired if the refresh token's lifetime has elapsed,
    otherwise the underlying verification failure
*/
func (service *TokenService) RefreshAccessToken(refreshToken string) (string, error) {
	claims, err := service.ValidateBearer(refreshToken)
	if err != nil {
		// An expired refresh token is its own failure kind: the client can
		// no longer refresh and must fully re-authenticate.
		if errors.Is(err, ErrTokenExpired) {
			return "", ErrRefreshExpired
		}
		return "", err
	}

	currentTime := service.now()
	return service.generateToken(claims.UserID, currentTime, currentTime.Add(service.accessTTL))
}

// decode parses the token and verifies its signature only. Claim validation
// (issuer, audience, expiry) is done by [ValidateBearer] against the injected
// clock, so the parser's own time-based checks are disabled.
func (service *TokenService) decode(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	}, jwt.WithoutClaimsValidation())

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformedToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		default:
			return nil, ErrTokenInvalid
		}
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
