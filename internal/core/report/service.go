// Copyright (c) 2026 CropSight. All rights reserved.
// Author: binh.phamq@gmail.com

package report

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phambinh/cropsight/internal/platform/apperr"
	"github.com/phambinh/cropsight/internal/platform/constants"
	"github.com/phambinh/cropsight/internal/platform/ctxutil"
	"github.com/phambinh/cropsight/pkg/uuid"
)

// # Contracts & Types

// ObjectStore defines the artifact storage contract for annotated images.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// Service implements the report lifecycle use cases.
type Service struct {
	reportRepository ReportRepository
	objects          ObjectStore // nil when annotated persistence is disabled
}

// NewService constructs a new report [Service] with necessary dependencies.
func NewService(reportRepo ReportRepository, objects ObjectStore) *Service {
	return &Service{
		reportRepository: reportRepo,
		objects:          objects,
	}
}

// # Report Creation

// CreateInput holds the accepted diagnosis to freeze into a report.
type CreateInput struct {
	Filename        string
	Disease         string
	Confidence      float64
	Severity        string
	Recommendations []string
	Treatment       []string
	AnnotatedImage  string // optional data URL
}

/*
Create freezes one accepted diagnosis into an immutable report row.

Description: The snapshot copies disease, confidence, severity and the
recommendation/treatment sequences verbatim; nothing is ever recomputed after
this point. An annotated image, when provided as a data URL, is decoded and
stored in the object store before the row is written; if the row write then
fails, the orphaned object is removed best-effort so a failed create leaves
no partial report.

Parameters:
  - context: context.Context
  - ownerIdentityID: string (The session's identity; owns the new report)
  - input: CreateInput

Returns:
  - *Report: The created snapshot, id assigned
  - error: ValidationError or storage failures
*/
func (service *Service) Create(context context.Context, ownerIdentityID string, input CreateInput) (*Report, error) {

	// Validation precedes any mutation.
	if strings.TrimSpace(input.Disease) == "" {
		return nil, apperr.ValidationError("Disease is required")
	}
	if input.Confidence < 0 || input.Confidence > 1 {
		return nil, apperr.ValidationError("Confidence must be between 0 and 1")
	}

	filename := strings.TrimSpace(input.Filename)
	if filename == "" {
		filename = DefaultFilename
	}

	recommendations := input.Recommendations
	if recommendations == nil {
		recommendations = []string{}
	}
	treatment := input.Treatment
	if treatment == nil {
		treatment = []string{}
	}

	report := &Report{
		ID:              uuid.New(),
		OwnerIdentityID: ownerIdentityID,
		Filename:        filename,
		Disease:         input.Disease,
		Confidence:      input.Confidence,
		Severity:        input.Severity,
		Recommendations: recommendations,
		Treatment:       treatment,
	}

	// Persist the annotated image first so the row only ever references an
	// object that exists.
	if input.AnnotatedImage != "" && service.objects != nil {
		key, err := service.storeAnnotated(context, report.ID, input.AnnotatedImage)
		if err != nil {
			return nil, err
		}
		report.AnnotatedKey = &key
	}

	if err := service.reportRepository.Create(context, report); err != nil {
		// Clean up the now-orphaned artifact; the report itself is absent.
		if report.AnnotatedKey != nil {
			_ = service.objects.Delete(context, *report.AnnotatedKey)
		}
		return nil, fmt.Errorf("report_service_create_failed: %w", err)
	}

	return report, nil
}

// storeAnnotated decodes a base64 data URL and uploads it under the report's key.
func (service *Service) storeAnnotated(context context.Context, reportID, dataURL string) (string, error) {

	contentType, data, err := decodeDataURL(dataURL)
	if err != nil {
		return "", apperr.ValidationError("Annotated image is not a valid data URL")
	}

	if len(data) > constants.MaxAnnotatedImageBytes {
		return "", apperr.ValidationError("Annotated image exceeds the size limit")
	}

	key := fmt.Sprintf("reports/%s/annotated", reportID)
	if err := service.objects.Put(context, key, data, contentType); err != nil {
		return "", fmt.Errorf("report_service_annotated_store_failed: %w", err)
	}

	return key, nil
}

// decodeDataURL splits a "data:<mime>;base64,<payload>" string into its parts.
func decodeDataURL(dataURL string) (contentType string, data []byte, err error) {
	const scheme = "data:"
	const marker = ";base64,"

	if !strings.HasPrefix(dataURL, scheme) {
		return "", nil, fmt.Errorf("report: missing data URL scheme")
	}

	markerIndex := strings.Index(dataURL, marker)
	if markerIndex < 0 {
		return "", nil, fmt.Errorf("report: data URL is not base64 encoded")
	}

	contentType = dataURL[len(scheme):markerIndex]
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	data, err = base64.StdEncoding.DecodeString(dataURL[markerIndex+len(marker):])
	if err != nil {
		return "", nil, fmt.Errorf("report: invalid base64 payload: %w", err)
	}

	return contentType, data, nil
}

// # Report Retrieval

/*
List returns all reports owned by the identity, oldest first.

Description: Zero reports is an empty sequence, not an error.

Parameters:
  - context: context.Context
  - ownerIdentityID: string

Returns:
  - []ReportSummary: Listing projections
  - error: Store availability failures
*/
func (service *Service) List(context context.Context, ownerIdentityID string) ([]ReportSummary, error) {
	summaries, err := service.reportRepository.ListByOwner(context, ownerIdentityID)
	if err != nil {
		return nil, fmt.Errorf("report_service_list_failed: %w", err)
	}
	return summaries, nil
}

/*
Fetch returns the exact frozen snapshot recorded at creation time.

Parameters:
  - context: context.Context
  - id: string
  - ownerIdentityID: string

Returns:
  - *Report: Frozen snapshot
  - error: apperr.NotFound, or storage failures distinguishable from it
*/
func (service *Service) Fetch(context context.Context, id, ownerIdentityID string) (*Report, error) {
	report, err := service.reportRepository.FindByID(context, id, ownerIdentityID)
	if err != nil {
		return nil, err
	}
	return report, nil
}

// # Report Download

// Bundle is a downloadable archive of one report.
type Bundle struct {
	Filename string
	Data     []byte
}

/*
Download packages the frozen report as a zip bundle.

Description: The archive always contains report.json (the snapshot verbatim);
when an annotated image was stored it is included alongside. A missing or
foreign report surfaces as NotFound before any archive work happens.

Parameters:
  - context: context.Context
  - id: string
  - ownerIdentityID: string

Returns:
  - *Bundle: Attachment-ready archive
  - error: apperr.NotFound or packaging failures
*/
func (service *Service) Download(context context.Context, id, ownerIdentityID string) (*Bundle, error) {

	report, err := service.reportRepository.FindByID(context, id, ownerIdentityID)
	if err != nil {
		return nil, err
	}

	var buffer bytes.Buffer
	archive := zip.NewWriter(&buffer)

	snapshot, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("report_service_download_marshal_failed: %w", err)
	}

	entry, err := archive.Create("report.json")
	if err != nil {
		return nil, fmt.Errorf("report_service_download_archive_failed: %w", err)
	}
	if _, err := entry.Write(snapshot); err != nil {
		return nil, fmt.Errorf("report_service_download_write_failed: %w", err)
	}

	// The annotated image is best-effort: a lost artifact degrades the bundle
	// but never hides the snapshot itself.
	if report.AnnotatedKey != nil && service.objects != nil {
		imageData, err := service.objects.Get(context, *report.AnnotatedKey)
		if err != nil {
			ctxutil.GetLogger(context).WarnContext(context, "report_annotated_fetch_failed",
				slog.String("report_id", report.ID),
				slog.Any("error", err),
			)
		} else {
			imageEntry, err := archive.Create("annotated" + imageExtension(report.Filename))
			if err != nil {
				return nil, fmt.Errorf("report_service_download_archive_failed: %w", err)
			}
			if _, err := imageEntry.Write(imageData); err != nil {
				return nil, fmt.Errorf("report_service_download_write_failed: %w", err)
			}
		}
	}

	if err := archive.Close(); err != nil {
		return nil, fmt.Errorf("report_service_download_close_failed: %w", err)
	}

	return &Bundle{
		Filename: fmt.Sprintf("report-%s.zip", report.ID),
		Data:     buffer.Bytes(),
	}, nil
}

// imageExtension mirrors the original upload's extension, defaulting to .png.
func imageExtension(filename string) string {
	if dot := strings.LastIndex(filename, "."); dot >= 0 && dot < len(filename)-1 {
		return filename[dot:]
	}
	return ".png"
}

// # Report Removal

/*
Delete removes a report and its annotated artifact, scoped to the owner.

Parameters:
  - context: context.Context
  - id: string
  - ownerIdentityID: string

Returns:
  - error: apperr.NotFound or storage failures
*/
func (service *Service) Delete(context context.Context, id, ownerIdentityID string) error {

	report, err := service.reportRepository.FindByID(context, id, ownerIdentityID)
	if err != nil {
		return err
	}

	if err := service.reportRepository.Delete(context, id, ownerIdentityID); err != nil {
		return err
	}

	// Artifact cleanup after the row is gone; an orphan object is harmless.
	if report.AnnotatedKey != nil && service.objects != nil {
		_ = service.objects.Delete(context, *report.AnnotatedKey)
	}

	return nil
}
