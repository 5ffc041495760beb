// Copyright (c) 2026 Taskora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/taskora/internal/platform/ctxutil"
	"github.com/taibuivan/taskora/internal/platform/metrics"
	"github.com/taibuivan/taskora/internal/platform/middleware"
	"github.com/taibuivan/taskora/internal/platform/sec"
)

// fakeVerifier maps token strings to canned outcomes.
type fakeVerifier struct {
	claims map[string]*sec.Claims
	errs   map[string]error
}

func (f *fakeVerifier) ValidateBearer(tokenStr string) (*sec.Claims, error) {
	if err, ok := f.errs[tokenStr]; ok {
		return nil, err
	}
	if claims, ok := f.claims[tokenStr]; ok {
		return claims, nil
	}
	return nil, sec.ErrBadSignature
}

/*
TestAuthenticate covers the authentication middleware's error taxonomy and
the claim injection on success.
*/
func TestAuthenticate(t *testing.T) {
	verifier := &fakeVerifier{
		claims: map[string]*sec.Claims{
			"good-token": {UserID: "user-123"},
		},
		errs: map[string]error{
			"stale-token": sec.ErrTokenExpired,
		},
	}

	var seenUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims := ctxutil.GetAuthUser(r.Context()); claims != nil {
			seenUserID = claims.UserID
		}
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware.Authenticate(verifier, metrics.Noop{})(next)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{"no_header", "", http.StatusUnauthorized, "MISSING_BEARER"},
		{"not_bearer", "Basic abc123", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"missing_token_part", "Bearer", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"expired_token", "Bearer stale-token", http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{"forged_token", "Bearer forged-token", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"valid_token", "Bearer good-token", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seenUserID = ""

			r := httptest.NewRequest("GET", "/api/v1/projects", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantCode != "" {
				var body struct {
					Code string `json:"code"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.wantCode, body.Code)
				assert.Empty(t, seenUserID)
				return
			}

			assert.Equal(t, "user-123", seenUserID)
		})
	}
}
