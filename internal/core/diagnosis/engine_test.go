// Copyright (c) 2026 CropSight. All rights reserved.
// Author: binh.phamq@gmail.com

package diagnosis

import (
	"context"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestEngine_Predict_IsDeterministic verifies the same bytes and filename always
yield byte-identical predictions.
*/
func TestEngine_Predict_IsDeterministic(t *testing.T) {
	engine := NewEngine(nil)
	image := []byte("leaf pixels")

	first, err := engine.Predict(context.Background(), "rust leaf.jpg", image)
	require.NoError(t, err)

	second, err := engine.Predict(context.Background(), "rust leaf.jpg", image)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

/*
TestEngine_Predict_WellFormedResult checks the structural invariants that hold
for every prediction regardless of which rule wins.
*/
func TestEngine_Predict_WellFormedResult(t *testing.T) {
	engine := NewEngine(nil)

	tests := []struct {
		name     string
		filename string
		image    []byte
	}{
		{"plain_upload", "photo.jpg", []byte("pixels")},
		{"empty_filename", "", []byte("pixels")},
		{"empty_image", "leaf.png", nil},
		{"keyword_filename", "late blight tomato.jpg", []byte("other pixels")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prediction, err := engine.Predict(context.Background(), tt.filename, tt.image)
			require.NoError(t, err)
			require.NotNil(t, prediction)

			assert.NotEmpty(t, prediction.Disease)
			assert.GreaterOrEqual(t, prediction.Confidence, 0.0)
			assert.LessOrEqual(t, prediction.Confidence, 1.0)
			assert.Contains(t, []string{SeverityHigh, SeverityModerate, SeverityLow}, prediction.Severity)
			assert.NotEmpty(t, prediction.Recommendations)
			assert.NotEmpty(t, prediction.Treatment)
		})
	}
}

/*
TestEngine_Predict_TreatmentMatchesSeverity verifies the severity-specific
monitoring guidance is present in the treatment plan.
*/
func TestEngine_Predict_TreatmentMatchesSeverity(t *testing.T) {
	engine := NewEngine(nil)

	prediction, err := engine.Predict(context.Background(), "scouting photo.jpg", []byte("field sample"))
	require.NoError(t, err)

	last := prediction.Treatment[len(prediction.Treatment)-1]
	switch prediction.Severity {
	case SeverityHigh:
		assert.Equal(t, "Urgent: Act within 24–48 hours.", prediction.Treatment[0])
		assert.Equal(t, "Increase scouting frequency (daily) until stabilized.", last)
	case SeverityModerate:
		assert.Equal(t, "Monitor twice per week and reassess in 7 days.", last)
	default:
		assert.Equal(t, "Monitor weekly; no drastic actions needed.", last)
	}
}

/*
TestScoreRule_KeywordBoost verifies a symptom keyword in the filename raises
the matching rule's score by exactly the boost, capped at the unit interval.
*/
func TestScoreRule_KeywordBoost(t *testing.T) {
	digest := sha256.Sum256([]byte("image bytes"))
	rule := diseaseRule{patterns: []string{"rust"}, label: "Rust", baseConfidence: 0.60}

	plain := scoreRule(rule, "photo.jpg", digest)
	boosted := scoreRule(rule, "rust leaf.jpg", digest)

	assert.InDelta(t, plain+keywordBoost, boosted, 1e-12)

	// Matching more than one pattern boosts once.
	rule.patterns = []string{"rust", "leaf"}
	assert.InDelta(t, plain+keywordBoost, scoreRule(rule, "rust leaf.jpg", digest), 1e-12)
}

/*
TestSeverityFromConfidence covers the banding rules, including the floor for
Healthy and Unknown classifications.
*/
func TestSeverityFromConfidence(t *testing.T) {
	tests := []struct {
		name       string
		disease    string
		confidence float64
		expected   string
	}{
		{"high_band", "Rust", 0.85, SeverityHigh},
		{"high_boundary", "Rust", 0.80, SeverityHigh},
		{"moderate_band", "Rust", 0.65, SeverityModerate},
		{"moderate_boundary", "Rust", 0.50, SeverityModerate},
		{"low_band", "Rust", 0.30, SeverityLow},
		{"healthy_never_escalates", DiseaseHealthy, 0.99, SeverityLow},
		{"unknown_never_escalates", DiseaseUnknown, 0.95, SeverityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, severityFromConfidence(tt.disease, tt.confidence))
		})
	}
}

/*
TestAdjustTreatment verifies the prefix/suffix rules per severity band.
*/
func TestAdjustTreatment(t *testing.T) {
	base := []string{"step one", "step two"}

	high := adjustTreatment(base, SeverityHigh)
	require.Len(t, high, 4)
	assert.Equal(t, "Urgent: Act within 24–48 hours.", high[0])
	assert.Equal(t, "Increase scouting frequency (daily) until stabilized.", high[3])

	moderate := adjustTreatment(base, SeverityModerate)
	require.Len(t, moderate, 3)
	assert.Equal(t, "Monitor twice per week and reassess in 7 days.", moderate[2])

	low := adjustTreatment(base, SeverityLow)
	require.Len(t, low, 3)
	assert.Equal(t, "Monitor weekly; no drastic actions needed.", low[2])

	// The shared base slice is never mutated.
	assert.Equal(t, []string{"step one", "step two"}, base)
}

/*
TestJitterFor verifies the perturbation is bounded, stable, and varies across
rule labels.
*/
func TestJitterFor(t *testing.T) {
	digest := sha256.Sum256([]byte("image bytes"))

	first := jitterFor(digest, "Rust")
	second := jitterFor(digest, "Rust")
	assert.Equal(t, first, second)

	assert.GreaterOrEqual(t, first, -jitterSpread)
	assert.LessOrEqual(t, first, jitterSpread)

	other := jitterFor(digest, "Late Blight")
	assert.NotEqual(t, first, other)
}

/*
TestTreatmentFor falls back to the Unknown guidance for unlisted diseases.
*/
func TestTreatmentFor(t *testing.T) {
	assert.NotEmpty(t, treatmentFor("Rust"))
	assert.Equal(t, treatmentCatalog[normalizeLabel(DiseaseUnknown)], treatmentFor("Something Never Catalogued"))
}

/*
TestClampUnit bounds scores to the unit interval.
*/
func TestClampUnit(t *testing.T) {
	assert.Equal(t, 0.0, clampUnit(-0.2))
	assert.Equal(t, 1.0, clampUnit(1.7))
	assert.Equal(t, 0.42, clampUnit(0.42))
}
