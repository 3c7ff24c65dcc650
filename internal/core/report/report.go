// Copyright (c) 2026 CropSight. All rights reserved.
// Author: binh.phamq@gmail.com

/*
Package report manages the lifecycle of diagnosis reports.

A report is a durable, user-visible record of one accepted diagnosis: a frozen
snapshot of the PredictionResult at the moment the user chose to save it. It
is created exactly once, never mutated, and always returned exactly as
recorded — even if re-running the prediction would now produce a different
answer.

# Architecture

  - Entities: Report, ReportSummary (DTO).
  - Ownership: Every report belongs to the identity whose session created it;
    listing and fetching are scoped to the owner.
  - Artifacts: Optional annotated images live in the object store, referenced
    by key from the report row.
*/
package report

import "time"

// # Constraints

const (
	// DefaultFilename is recorded when the upload carried no usable name.
	DefaultFilename = "upload.jpg"
)

// # Field Identifiers

const (
	FieldFilename   = "filename"
	FieldDisease    = "disease"
	FieldConfidence = "confidence"
	FieldReportID   = "id"
)

// # Domain Entities

// Report is the frozen snapshot of one accepted diagnosis.
type Report struct {
	ID              string    `json:"id"`
	OwnerIdentityID string    `json:"owner_identity_id"`
	Filename        string    `json:"filename"`
	Disease         string    `json:"disease"`
	Confidence      float64   `json:"confidence"`
	Severity        string    `json:"severity"`
	Recommendations []string  `json:"recommendations"`
	Treatment       []string  `json:"treatment"`
	AnnotatedKey    *string   `json:"annotated_key,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ReportSummary is the listing projection of a report.
type ReportSummary struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Disease    string    `json:"disease"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}
