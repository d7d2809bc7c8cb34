// Package pricing routes book price predictions to pre-fitted regression
// models: one specialist per platform, consuming that platform's feature
// subset, with a unified model over the full schema as the fallback.
package pricing

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/shelfscout/appraise-cli/internal/feature"
	"github.com/shelfscout/appraise-cli/internal/model"
)

// Artifact is a pre-fitted standardized linear model as produced by the
// training pipeline: weights over a declared feature list, plus the
// per-feature means and standard deviations used to scale inputs. The
// engine treats artifacts as opaque, versioned inputs.
type Artifact struct {
	ModelID       string         `yaml:"model_id"`
	SchemaVersion string         `yaml:"schema_version"`
	Platform      model.Platform `yaml:"platform,omitempty"` // empty for the unified model
	Features      []string       `yaml:"features"`
	Means         []float64      `yaml:"means"`
	Stds          []float64      `yaml:"stds"`
	Weights       []float64      `yaml:"weights"`
	Intercept     float64        `yaml:"intercept"`
}

// LoadArtifact reads and validates a model artifact file.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "pricing: read artifact %s", path)
	}
	var a Artifact
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, eris.Wrapf(err, "pricing: parse artifact %s", path)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// Validate checks internal consistency and compatibility with the live
// feature schema.
func (a *Artifact) Validate() error {
	if a.ModelID == "" {
		return eris.New("pricing: artifact has no model_id")
	}
	n := len(a.Features)
	if n == 0 {
		return eris.Errorf("pricing: artifact %s declares no features", a.ModelID)
	}
	if len(a.Weights) != n || len(a.Means) != n || len(a.Stds) != n {
		return eris.Errorf("pricing: artifact %s has inconsistent lengths (features %d, weights %d, means %d, stds %d)",
			a.ModelID, n, len(a.Weights), len(a.Means), len(a.Stds))
	}
	for i, s := range a.Stds {
		if s <= 0 {
			return eris.Errorf("pricing: artifact %s: std for %s must be positive", a.ModelID, a.Features[i])
		}
	}
	if a.SchemaVersion != feature.SchemaVersion {
		return &SchemaMismatchError{
			ModelID:     a.ModelID,
			WantVersion: a.SchemaVersion,
			GotVersion:  feature.SchemaVersion,
			WantLen:     n,
			GotLen:      feature.Count(),
		}
	}
	// Specialist artifacts must match their platform's declared subset
	// exactly -- same names, same order -- or columns would silently
	// misalign at prediction time.
	if a.Platform != "" {
		names, ok := feature.SubsetNames(a.Platform)
		if !ok {
			return eris.Errorf("pricing: artifact %s targets unknown platform %q", a.ModelID, a.Platform)
		}
		if len(names) != n {
			return &SchemaMismatchError{
				ModelID:     a.ModelID,
				WantVersion: a.SchemaVersion,
				GotVersion:  feature.SchemaVersion,
				WantLen:     n,
				GotLen:      len(names),
			}
		}
		for i, name := range names {
			if a.Features[i] != name {
				return eris.Errorf("pricing: artifact %s feature %d is %q, subset declares %q",
					a.ModelID, i, a.Features[i], name)
			}
		}
	} else if n != feature.Count() {
		return &SchemaMismatchError{
			ModelID:     a.ModelID,
			WantVersion: a.SchemaVersion,
			GotVersion:  feature.SchemaVersion,
			WantLen:     n,
			GotLen:      feature.Count(),
		}
	}
	return nil
}
