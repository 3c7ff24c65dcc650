// Copyright (c) 2026 CropSight. All rights reserved.
// Author: binh.phamq@gmail.com

package report

import "context"

// # Repository Contracts

// ReportRepository defines the persistence contract for report records.
//
// Failure semantics matter here: a missing report must surface as a NotFound
// condition distinguishable from a store outage, and a failed Create must
// leave no partial row.
type ReportRepository interface {
	/*
		Create appends one immutable report row.

		Description: A single-statement insert, so the write is atomic: the row
		is either fully visible or absent.

		Parameters:
		  - context: context.Context
		  - report: *Report (Entity to persist)

		Returns:
		  - error: Storage failures
	*/
	Create(context context.Context, report *Report) error

	/*
		ListByOwner returns all reports owned by the identity, ordered by
		creation time ascending. Zero reports yields an empty slice, not an error.

		Parameters:
		  - context: context.Context
		  - ownerIdentityID: string

		Returns:
		  - []ReportSummary: Listing projections, oldest first
		  - error: Retrieval failures
	*/
	ListByOwner(context context.Context, ownerIdentityID string) ([]ReportSummary, error)

	/*
		FindByID retrieves the exact frozen snapshot, scoped to the owner.

		Description: A report belonging to a different identity is reported as
		NotFound, not Forbidden, so existence is never disclosed.

		Parameters:
		  - context: context.Context
		  - id: string
		  - ownerIdentityID: string

		Returns:
		  - *Report: Frozen snapshot as recorded at creation
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id, ownerIdentityID string) (*Report, error)

	/*
		Delete removes a report, scoped to the owner.

		Parameters:
		  - context: context.Context
		  - id: string
		  - ownerIdentityID: string

		Returns:
		  - error: apperr.NotFound if absent or foreign, or storage failures
	*/
	Delete(context context.Context, id, ownerIdentityID string) error
}
