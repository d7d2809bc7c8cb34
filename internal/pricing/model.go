package pricing

import (
	"github.com/shelfscout/appraise-cli/internal/feature"
)

// minPrice floors model output; a regression extrapolating below zero is
// clamped rather than surfaced.
const minPrice = 0.01

// LinearModel predicts a price from a standardized linear artifact.
type LinearModel struct {
	art *Artifact
}

// NewLinearModel wraps a validated artifact.
func NewLinearModel(art *Artifact) *LinearModel {
	return &LinearModel{art: art}
}

// ModelID identifies the underlying artifact.
func (m *LinearModel) ModelID() string { return m.art.ModelID }

// Predict computes the price estimate for a feature vector. The vector
// must match the artifact's schema version and feature count exactly.
func (m *LinearModel) Predict(vec feature.Vector) (float64, error) {
	if vec.SchemaVersion != m.art.SchemaVersion || len(vec.Values) != len(m.art.Features) {
		return 0, &SchemaMismatchError{
			ModelID:     m.art.ModelID,
			WantVersion: m.art.SchemaVersion,
			GotVersion:  vec.SchemaVersion,
			WantLen:     len(m.art.Features),
			GotLen:      len(vec.Values),
		}
	}

	price := m.art.Intercept
	for i, v := range vec.Values {
		scaled := (v - m.art.Means[i]) / m.art.Stds[i]
		price += scaled * m.art.Weights[i]
	}
	if price < minPrice {
		price = minPrice
	}
	return price, nil
}
