// Copyright (c) 2026 CropSight. All rights reserved.
// Author: binh.phamq@gmail.com

/*
Package diagnosis turns a leaf image into a structured disease diagnosis.

Two gateway implementations exist behind one interface:

  - Engine: the built-in deterministic rule-based classifier. Scores a catalog
    of disease rules using image-content-derived jitter and filename keyword
    boosts; no external ML dependency.
  - HTTPGateway: delegates to an external prediction service when one is
    configured.

The rest of the system consumes the [Gateway] interface only; a prediction is
a value object and is never persisted until the user saves it as a report.
*/
package diagnosis

import "context"

// # Severity Bands

const (
	SeverityHigh     = "High"
	SeverityModerate = "Moderate"
	SeverityLow      = "Low"
)

// Reserved labels with fixed behavior: never escalated above Low severity.
const (
	DiseaseHealthy = "Healthy"
	DiseaseUnknown = "Unknown"
)

// # Value Objects

// Prediction is the structured result of one diagnosis. Immutable once
// produced; saving it as a report copies these fields verbatim.
type Prediction struct {
	Disease         string   `json:"disease"`
	Confidence      float64  `json:"confidence"`
	Severity        string   `json:"severity"`
	Recommendations []string `json:"recommendations"`
	Treatment       []string `json:"treatment"`
}

// # Gateway Contract

// Gateway accepts raw image bytes and returns a structured diagnosis.
type Gateway interface {
	/*
		Predict diagnoses a leaf image.

		Parameters:
		  - context: context.Context
		  - filename: string (Original upload name; informs keyword matching)
		  - image: []byte (Raw image bytes)

		Returns:
		  - *Prediction: Structured diagnosis
		  - error: apperr.Upstream for external-service failures
	*/
	Predict(context context.Context, filename string, image []byte) (*Prediction, error)
}
