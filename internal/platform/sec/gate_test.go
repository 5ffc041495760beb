// Copyright (c) 2026 Taskora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/taskora/internal/platform/sec"
)

/*
TestCanModifyUser covers the ownership gate used by the user account
endpoints. The comparison is exact string equality on opaque IDs.
*/
func TestCanModifyUser(t *testing.T) {
	tests := []struct {
		name    string
		acting  string
		target  string
		allowed bool
	}{
		{"same_user", "user-1", "user-1", true},
		{"different_user", "user-1", "user-2", false},
		{"empty_acting", "", "user-1", false},
		{"empty_target", "user-1", "", false},
		{"both_empty", "", "", false},
		{"case_sensitive", "User-1", "user-1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, sec.CanModifyUser(tt.acting, tt.target))
		})
	}
}
