// Copyright (c) 2026 CropSight. All rights reserved.
// Author: binh.phamq@gmail.com

/*
Package objstore provides S3-compatible object storage for diagnosis artifacts.

Annotated diagnosis images are too large for the relational row and too cold
for Redis, so they live in a bucket keyed by report ID. The report row keeps
only the object key; fetch and download resolve the bytes on demand.

Core Responsibilities:

  - Durability: Annotated images survive independent of the API process.
  - Addressing: One object per report, derived from the report ID.
  - Portability: Works against AWS S3 and path-style compatibles (MinIO, R2).
*/
package objstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Store wraps an S3 client scoped to a single bucket.
type Store struct {
	client *s3.Client
	bucket string
	logger *slog.Logger
}

// New builds a bucket-scoped store from the ambient AWS configuration.
//
// # Parameters
//   - ctx: Context for credential resolution.
//   - bucket: Target bucket name.
//   - region: AWS region, or "auto" for endpoint-derived regions.
//   - endpoint: Optional custom endpoint for S3-compatible providers.
//   - logger: Structured logger for storage events.
func New(ctx context.Context, bucket, region, endpoint string, logger *slog.Logger) (*Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("objstore: failed to load AWS config: %w", err)
	}

	options := s3.Options{
		Region:       cfg.Region,
		Credentials:  cfg.Credentials,
		HTTPClient:   cfg.HTTPClient,
		BaseEndpoint: cfg.BaseEndpoint,
		// Path-style addressing keeps compat with MinIO and Cloudflare R2.
		UsePathStyle: true,
	}

	if region != "" && region != "auto" {
		options.Region = region
	}
	if endpoint != "" {
		options.BaseEndpoint = aws.String(endpoint)
	}

	store := &Store{
		client: s3.New(options),
		bucket: bucket,
		logger: logger,
	}

	logger.Info("object store configured",
		slog.String("bucket", bucket),
		slog.String("region", options.Region),
	)

	return store, nil
}

// Put uploads an object under the given key, overwriting any previous version.
func (store *Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := store.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(store.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("objstore: failed to put object %q: %w", key, err)
	}

	store.logger.Debug("object_stored",
		slog.String("key", key),
		slog.Int("bytes", len(data)),
	)
	return nil
}

// Get downloads the object stored under the given key.
func (store *Store) Get(ctx context.Context, key string) ([]byte, error) {
	resp, err := store.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("objstore: failed to get object %q: %w", key, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("objstore: failed to read object body %q: %w", key, err)
	}

	return data, nil
}

// Delete removes the object stored under the given key. Missing objects are
// not an error.
func (store *Store) Delete(ctx context.Context, key string) error {
	_, err := store.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("objstore: failed to delete object %q: %w", key, err)
	}
	return nil
}
