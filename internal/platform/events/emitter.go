// Copyright (c) 2026 CropSight. All rights reserved.
// Author: binh.phamq@gmail.com

/*
Package events publishes identity audit events to Kafka.

Identity resolution can reveal conflicting records: an email matching one
identity while the phone matches another. Those resolutions are flagged and
emitted here so downstream auditing can review them without blocking the
request path.

Core Responsibilities:

  - Fire-and-forget: A slow or absent broker never fails the caller's request.
  - Nil-safety: A nil emitter is a valid no-op, so wiring stays unconditional.
*/
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// emitTimeout bounds a single publish so slow Kafka does not block callers.
const emitTimeout = 5 * time.Second

// IdentityAnomaly describes a conflicting identity resolution.
type IdentityAnomaly struct {
	IdentityID      string    `json:"identity_id"`
	ConflictingID   string    `json:"conflicting_id"`
	NormalizedEmail string    `json:"normalized_email"`
	NormalizedPhone string    `json:"normalized_phone"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// Emitter publishes identity anomaly events to a Kafka topic.
type Emitter struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewEmitter builds a Kafka-backed emitter.
//
// Returns (nil, nil) when brokers or topic are unset; a nil *Emitter is a
// safe no-op, so callers wire it without a conditional. Call Close when
// shutting down.
func NewEmitter(brokers []string, topic string, logger *slog.Logger) (*Emitter, error) {
	if len(brokers) == 0 || topic == "" {
		return nil, nil
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}

	logger.Info("anomaly emitter configured",
		slog.String("topic", topic),
		slog.Int("brokers", len(brokers)),
	)

	return &Emitter{writer: writer, logger: logger}, nil
}

// EmitAnomaly serializes the anomaly as JSON and writes it to the Kafka topic.
// Keyed by identity ID so anomalies for one identity stay ordered.
func (emitter *Emitter) EmitAnomaly(ctx context.Context, anomaly *IdentityAnomaly) error {
	if emitter == nil || emitter.writer == nil || anomaly == nil {
		return nil
	}

	payload, err := json.Marshal(anomaly)
	if err != nil {
		return fmt.Errorf("events: failed to marshal anomaly: %w", err)
	}

	writeCtx, cancel := context.WithTimeout(ctx, emitTimeout)
	defer cancel()

	err = emitter.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(anomaly.IdentityID),
		Value: payload,
	})
	if err != nil {
		emitter.logger.ErrorContext(ctx, "anomaly_emit_failed", slog.Any("error", err))
		return fmt.Errorf("events: failed to emit anomaly: %w", err)
	}

	return nil
}

// Close flushes pending messages and releases the writer.
func (emitter *Emitter) Close() error {
	if emitter == nil || emitter.writer == nil {
		return nil
	}
	return emitter.writer.Close()
}
