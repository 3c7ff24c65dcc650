// Copyright (c) 2026 CropSight. All rights reserved.
// Author: binh.phamq@gmail.com

package report_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phambinh/cropsight/internal/core/report"
	"github.com/phambinh/cropsight/internal/platform/apperr"
)

// # Fakes

// fakeReportRepository is an insertion-ordered in-memory ReportRepository.
type fakeReportRepository struct {
	rows      []*report.Report
	createErr error
}

func (repo *fakeReportRepository) Create(_ context.Context, row *report.Report) error {
	if repo.createErr != nil {
		return repo.createErr
	}
	clone := *row
	repo.rows = append(repo.rows, &clone)
	return nil
}

func (repo *fakeReportRepository) ListByOwner(_ context.Context, ownerIdentityID string) ([]report.ReportSummary, error) {
	summaries := make([]report.ReportSummary, 0)
	for _, row := range repo.rows {
		if row.OwnerIdentityID == ownerIdentityID {
			summaries = append(summaries, report.ReportSummary{
				ID:         row.ID,
				Filename:   row.Filename,
				Disease:    row.Disease,
				Confidence: row.Confidence,
				CreatedAt:  row.CreatedAt,
			})
		}
	}
	return summaries, nil
}

func (repo *fakeReportRepository) FindByID(_ context.Context, id, ownerIdentityID string) (*report.Report, error) {
	for _, row := range repo.rows {
		if row.ID == id && row.OwnerIdentityID == ownerIdentityID {
			clone := *row
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("No such report")
}

func (repo *fakeReportRepository) Delete(_ context.Context, id, ownerIdentityID string) error {
	for index, row := range repo.rows {
		if row.ID == id && row.OwnerIdentityID == ownerIdentityID {
			repo.rows = append(repo.rows[:index], repo.rows[index+1:]...)
			return nil
		}
	}
	return apperr.NotFound("No such report")
}

// fakeObjectStore records stored artifacts by key.
type fakeObjectStore struct {
	objects map[string][]byte
	types   map[string]string
	deleted []string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (store *fakeObjectStore) Put(_ context.Context, key string, data []byte, contentType string) error {
	store.objects[key] = data
	store.types[key] = contentType
	return nil
}

func (store *fakeObjectStore) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := store.objects[key]
	if !ok {
		return nil, fmt.Errorf("no such object: %s", key)
	}
	return data, nil
}

func (store *fakeObjectStore) Delete(_ context.Context, key string) error {
	delete(store.objects, key)
	store.deleted = append(store.deleted, key)
	return nil
}

func dataURL(contentType string, payload []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(payload)
}

// # Creation

/*
TestService_Create_FreezesSnapshot verifies the snapshot is stored verbatim
with defaults applied for missing filename and nil sequences.
*/
func TestService_Create_FreezesSnapshot(t *testing.T) {
	repo := &fakeReportRepository{}
	service := report.NewService(repo, nil)

	created, err := service.Create(context.Background(), "owner-1", report.CreateInput{
		Disease:         "Late Blight",
		Confidence:      0.91,
		Severity:        "High",
		Recommendations: []string{"Apply fungicides effective against late blight."},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "owner-1", created.OwnerIdentityID)
	assert.Equal(t, report.DefaultFilename, created.Filename)
	assert.Equal(t, "Late Blight", created.Disease)
	assert.Equal(t, 0.91, created.Confidence)
	assert.Equal(t, []string{"Apply fungicides effective against late blight."}, created.Recommendations)

	// Nil treatment arrives as an empty sequence, never null.
	assert.NotNil(t, created.Treatment)
	assert.Empty(t, created.Treatment)

	require.Len(t, repo.rows, 1)
}

/*
TestService_Create_Validation rejects bad snapshots before any write.
*/
func TestService_Create_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input report.CreateInput
	}{
		{"missing_disease", report.CreateInput{Confidence: 0.5}},
		{"confidence_above_one", report.CreateInput{Disease: "Rust", Confidence: 1.2}},
		{"confidence_negative", report.CreateInput{Disease: "Rust", Confidence: -0.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeReportRepository{}
			service := report.NewService(repo, nil)

			_, err := service.Create(context.Background(), "owner-1", tt.input)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
			assert.Empty(t, repo.rows)
		})
	}
}

/*
TestService_Create_StoresAnnotatedImage verifies the data URL is decoded and
uploaded under the report's object key before the row insert.
*/
func TestService_Create_StoresAnnotatedImage(t *testing.T) {
	repo := &fakeReportRepository{}
	store := newFakeObjectStore()
	service := report.NewService(repo, store)

	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	created, err := service.Create(context.Background(), "owner-1", report.CreateInput{
		Disease:        "Rust",
		Confidence:     0.8,
		AnnotatedImage: dataURL("image/png", payload),
	})
	require.NoError(t, err)
	require.NotNil(t, created.AnnotatedKey)

	key := fmt.Sprintf("reports/%s/annotated", created.ID)
	assert.Equal(t, key, *created.AnnotatedKey)
	assert.Equal(t, payload, store.objects[key])
	assert.Equal(t, "image/png", store.types[key])
}

/*
TestService_Create_RejectsMalformedDataURL verifies bad annotated payloads are
a validation failure, not a stored report.
*/
func TestService_Create_RejectsMalformedDataURL(t *testing.T) {
	repo := &fakeReportRepository{}
	service := report.NewService(repo, newFakeObjectStore())

	_, err := service.Create(context.Background(), "owner-1", report.CreateInput{
		Disease:        "Rust",
		Confidence:     0.8,
		AnnotatedImage: "not-a-data-url",
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	assert.Empty(t, repo.rows)
}

/*
TestService_Create_CleansUpOrphanOnRowFailure verifies a failed row insert
removes the already-stored annotated object.
*/
func TestService_Create_CleansUpOrphanOnRowFailure(t *testing.T) {
	repo := &fakeReportRepository{createErr: fmt.Errorf("store down")}
	store := newFakeObjectStore()
	service := report.NewService(repo, store)

	_, err := service.Create(context.Background(), "owner-1", report.CreateInput{
		Disease:        "Rust",
		Confidence:     0.8,
		AnnotatedImage: dataURL("image/png", []byte("img")),
	})
	require.Error(t, err)
	assert.Empty(t, store.objects)
	require.Len(t, store.deleted, 1)
}

// # Retrieval

/*
TestService_List_ScopedToOwner verifies listing is owner-scoped and an empty
result is a sequence, not an error.
*/
func TestService_List_ScopedToOwner(t *testing.T) {
	repo := &fakeReportRepository{}
	service := report.NewService(repo, nil)

	first, err := service.Create(context.Background(), "owner-1", report.CreateInput{Disease: "Rust", Confidence: 0.8})
	require.NoError(t, err)
	second, err := service.Create(context.Background(), "owner-1", report.CreateInput{Disease: "Scab", Confidence: 0.7})
	require.NoError(t, err)
	_, err = service.Create(context.Background(), "owner-2", report.CreateInput{Disease: "Canker", Confidence: 0.6})
	require.NoError(t, err)

	listed, err := service.List(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, listed, 2)

	// Creation order is preserved.
	assert.Equal(t, first.ID, listed[0].ID)
	assert.Equal(t, second.ID, listed[1].ID)

	empty, err := service.List(context.Background(), "owner-3")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

/*
TestService_Fetch_OwnershipBoundary verifies a foreign report id behaves
exactly like a missing one.
*/
func TestService_Fetch_OwnershipBoundary(t *testing.T) {
	repo := &fakeReportRepository{}
	service := report.NewService(repo, nil)

	created, err := service.Create(context.Background(), "owner-1", report.CreateInput{Disease: "Rust", Confidence: 0.8})
	require.NoError(t, err)

	found, err := service.Fetch(context.Background(), created.ID, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = service.Fetch(context.Background(), created.ID, "owner-2")
	assert.True(t, apperr.IsNotFound(err))

	_, err = service.Fetch(context.Background(), "missing", "owner-1")
	assert.True(t, apperr.IsNotFound(err))
}

// # Download

/*
TestService_Download_BundlesSnapshotAndImage verifies the zip contains the
frozen report.json plus the annotated image when one was stored.
*/
func TestService_Download_BundlesSnapshotAndImage(t *testing.T) {
	repo := &fakeReportRepository{}
	store := newFakeObjectStore()
	service := report.NewService(repo, store)

	payload := []byte("annotated-bytes")
	created, err := service.Create(context.Background(), "owner-1", report.CreateInput{
		Filename:       "leaf.jpg",
		Disease:        "Rust",
		Confidence:     0.8,
		AnnotatedImage: dataURL("image/jpeg", payload),
	})
	require.NoError(t, err)

	bundle, err := service.Download(context.Background(), created.ID, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("report-%s.zip", created.ID), bundle.Filename)

	archive, err := zip.NewReader(bytes.NewReader(bundle.Data), int64(len(bundle.Data)))
	require.NoError(t, err)

	entries := make(map[string][]byte, len(archive.File))
	for _, file := range archive.File {
		reader, oerr := file.Open()
		require.NoError(t, oerr)
		content, rerr := io.ReadAll(reader)
		require.NoError(t, rerr)
		require.NoError(t, reader.Close())
		entries[file.Name] = content
	}

	require.Contains(t, entries, "report.json")
	require.Contains(t, entries, "annotated.jpg")
	assert.Equal(t, payload, entries["annotated.jpg"])

	var snapshot report.Report
	require.NoError(t, json.Unmarshal(entries["report.json"], &snapshot))
	assert.Equal(t, created.ID, snapshot.ID)
	assert.Equal(t, "Rust", snapshot.Disease)
}

/*
TestService_Download_SnapshotOnlyWithoutImage verifies the bundle degrades to
the snapshot alone when no annotated image exists.
*/
func TestService_Download_SnapshotOnlyWithoutImage(t *testing.T) {
	repo := &fakeReportRepository{}
	service := report.NewService(repo, nil)

	created, err := service.Create(context.Background(), "owner-1", report.CreateInput{Disease: "Rust", Confidence: 0.8})
	require.NoError(t, err)

	bundle, err := service.Download(context.Background(), created.ID, "owner-1")
	require.NoError(t, err)

	archive, err := zip.NewReader(bytes.NewReader(bundle.Data), int64(len(bundle.Data)))
	require.NoError(t, err)
	require.Len(t, archive.File, 1)
	assert.Equal(t, "report.json", archive.File[0].Name)
}

// # Removal

/*
TestService_Delete verifies owner-scoped removal and artifact cleanup.
*/
func TestService_Delete(t *testing.T) {
	repo := &fakeReportRepository{}
	store := newFakeObjectStore()
	service := report.NewService(repo, store)

	created, err := service.Create(context.Background(), "owner-1", report.CreateInput{
		Disease:        "Rust",
		Confidence:     0.8,
		AnnotatedImage: dataURL("image/png", []byte("img")),
	})
	require.NoError(t, err)

	// Foreign owner cannot delete.
	err = service.Delete(context.Background(), created.ID, "owner-2")
	assert.True(t, apperr.IsNotFound(err))
	require.Len(t, repo.rows, 1)

	require.NoError(t, service.Delete(context.Background(), created.ID, "owner-1"))
	assert.Empty(t, repo.rows)
	assert.Empty(t, store.objects)

	// Deleting again is NotFound, not an internal failure.
	err = service.Delete(context.Background(), created.ID, "owner-1")
	assert.True(t, apperr.IsNotFound(err))
}
