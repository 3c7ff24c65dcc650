// Copyright (c) 2026 CropSight. All rights reserved.
// Author: binh.phamq@gmail.com

package dberr_test

import (
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phambinh/cropsight/internal/platform/apperr"
	"github.com/phambinh/cropsight/internal/platform/dberr"
)

/*
TestWrap_Taxonomy verifies the three storage outcomes map to distinct
application error codes.
*/
func TestWrap_Taxonomy(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode string
	}{
		{"no_rows", pgx.ErrNoRows, "NOT_FOUND"},
		{"wrapped_no_rows", fmt.Errorf("query failed: %w", pgx.ErrNoRows), "NOT_FOUND"},
		{"unique_violation", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, "CONFLICT"},
		{"connection_failure", fmt.Errorf("dial tcp: refused"), "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := dberr.Wrap(tt.err)
			require.Error(t, wrapped)

			ae := apperr.As(wrapped)
			require.NotNil(t, ae)
			assert.Equal(t, tt.expectedCode, ae.Code)
		})
	}

	assert.NoError(t, dberr.Wrap(nil))
}

/*
TestIsUniqueViolation detects SQLSTATE 23505 through wrapping layers.
*/
func TestIsUniqueViolation(t *testing.T) {
	violation := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "identity_email_key"}

	assert.True(t, dberr.IsUniqueViolation(violation))
	assert.True(t, dberr.IsUniqueViolation(fmt.Errorf("insert: %w", violation)))
	assert.False(t, dberr.IsUniqueViolation(pgx.ErrNoRows))
	assert.False(t, dberr.IsUniqueViolation(nil))

	assert.Equal(t, "identity_email_key", dberr.ConstraintName(violation))
	assert.Empty(t, dberr.ConstraintName(pgx.ErrNoRows))
}
