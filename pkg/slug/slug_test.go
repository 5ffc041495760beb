// Copyright (c) 2026 Taskora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/taskora/pkg/slug"
)

/*
TestFrom covers the slugification pipeline: accent folding, lowercasing,
and hyphen normalization.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Website Redesign", "website-redesign"},
		{"accents", "Café à Gö", "cafe-a-go"},
		{"special_chars", "Q3 / OKRs & Goals!", "q3-okrs-goals"},
		{"multiple_spaces", "a   b", "a-b"},
		{"leading_trailing", " -padded- ", "padded"},
		{"only_symbols", "!!!", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}

/*
TestWithID checks the canonical "<id>-<title-slug>" form and the bare-id
fallback for unslugifiable titles.
*/
func TestWithID(t *testing.T) {
	assert.Equal(t, "abc123-website-redesign", slug.WithID("abc123", "Website Redesign"))
	assert.Equal(t, "abc123", slug.WithID("abc123", "!!!"))
	assert.Equal(t, "abc123", slug.WithID("abc123", ""))
}
