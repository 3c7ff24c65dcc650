// Copyright (c) 2026 CropSight. All rights reserved.
// Author: binh.phamq@gmail.com

package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phambinh/cropsight/pkg/normalize"
)

/*
TestEmail verifies trimming, case folding, and Unicode normalization so that
visually identical addresses collapse to one deduplication key.
*/
func TestEmail(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"already_canonical", "binh@example.com", "binh@example.com"},
		{"mixed_case", "Binh.Pham@Example.COM", "binh.pham@example.com"},
		{"surrounding_space", "  binh@example.com \t", "binh@example.com"},
		{"fullwidth_compatibility", "ｂinh@example.com", "binh@example.com"},
		{"empty", "", ""},
		{"whitespace_only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalize.Email(tt.input))
		})
	}
}

/*
TestPhone verifies trimming and interior whitespace collapsing while leaving
digits and punctuation verbatim.
*/
func TestPhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "+84901234567", "+84901234567"},
		{"surrounding_space", "  +84901234567  ", "+84901234567"},
		{"interior_runs_collapse", "+84  901   234 567", "+84 901 234 567"},
		{"tabs_become_spaces", "+84\t901\t234", "+84 901 234"},
		{"punctuation_kept", "(084) 901-234", "(084) 901-234"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalize.Phone(tt.input))
		})
	}
}

/*
TestName verifies surrounding whitespace is removed and nothing else changes.
*/
func TestName(t *testing.T) {
	assert.Equal(t, "Binh Pham", normalize.Name("  Binh Pham "))
	assert.Equal(t, "BINH", normalize.Name("BINH"))
	assert.Equal(t, "", normalize.Name(" \t "))
}
