// Package decision turns a price estimate, confidence score, and
// liquidity signal into a Buy / Skip / NeedsReview recommendation with a
// reproducible rationale.
package decision

import (
	"fmt"
	"strings"
)

// InvalidProfileError reports an inconsistent threshold profile. Rejected
// before any model call and surfaced directly to the caller.
type InvalidProfileError struct {
	Field  string
	Reason string
}

func (e *InvalidProfileError) Error() string {
	return fmt.Sprintf("decision: invalid profile: %s %s", e.Field, e.Reason)
}

// Profile is the only externally tunable knob at inference time: the
// risk-tolerance thresholds controlling the Buy/Skip/NeedsReview
// boundary. Supplied per decision call, never persisted.
type Profile struct {
	Name string `yaml:"name" json:"name" mapstructure:"name"`

	// Auto-buy gates.
	MinProfitAutoBuy     float64 `yaml:"min_profit_auto_buy" json:"min_profit_auto_buy" mapstructure:"min_profit_auto_buy"`
	MinConfidenceAutoBuy float64 `yaml:"min_confidence_auto_buy" json:"min_confidence_auto_buy" mapstructure:"min_confidence_auto_buy"`

	// Review triggers.
	MinProfitSlowMoving    float64 `yaml:"min_profit_slow_moving" json:"min_profit_slow_moving" mapstructure:"min_profit_slow_moving"`
	MinProfitUncertainty   float64 `yaml:"min_profit_uncertainty" json:"min_profit_uncertainty" mapstructure:"min_profit_uncertainty"`
	LowConfidenceThreshold float64 `yaml:"low_confidence_threshold" json:"low_confidence_threshold" mapstructure:"low_confidence_threshold"`
	MinCompsRequired       int     `yaml:"min_comps_required" json:"min_comps_required" mapstructure:"min_comps_required"`
	MaxSlowMovingTTS       int     `yaml:"max_slow_moving_tts" json:"max_slow_moving_tts" mapstructure:"max_slow_moving_tts"`
	RequireProfitData      bool    `yaml:"require_profit_data" json:"require_profit_data" mapstructure:"require_profit_data"`
}

// Balanced is the default risk posture.
func Balanced() Profile {
	return Profile{
		Name:                   "balanced",
		MinProfitAutoBuy:       5.0,
		MinProfitSlowMoving:    8.0,
		MinProfitUncertainty:   3.0,
		MinConfidenceAutoBuy:   50,
		LowConfidenceThreshold: 30,
		MinCompsRequired:       3,
		MaxSlowMovingTTS:       180,
		RequireProfitData:      true,
	}
}

// Conservative buys less and reviews more.
func Conservative() Profile {
	return Profile{
		Name:                   "conservative",
		MinProfitAutoBuy:       8.0,
		MinProfitSlowMoving:    10.0,
		MinProfitUncertainty:   5.0,
		MinConfidenceAutoBuy:   60,
		LowConfidenceThreshold: 40,
		MinCompsRequired:       5,
		MaxSlowMovingTTS:       120,
		RequireProfitData:      true,
	}
}

// Aggressive accepts thinner margins and weaker evidence.
func Aggressive() Profile {
	return Profile{
		Name:                   "aggressive",
		MinProfitAutoBuy:       3.0,
		MinProfitSlowMoving:    5.0,
		MinProfitUncertainty:   2.0,
		MinConfidenceAutoBuy:   40,
		LowConfidenceThreshold: 20,
		MinCompsRequired:       2,
		MaxSlowMovingTTS:       240,
		RequireProfitData:      true,
	}
}

// ByName resolves a named preset.
func ByName(name string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "balanced":
		return Balanced(), nil
	case "conservative":
		return Conservative(), nil
	case "aggressive":
		return Aggressive(), nil
	default:
		return Profile{}, &InvalidProfileError{Field: "name", Reason: fmt.Sprintf("unknown preset %q", name)}
	}
}

// Validate rejects inconsistent profiles before any model call.
func (p Profile) Validate() error {
	switch {
	case p.MinProfitAutoBuy < 0:
		return &InvalidProfileError{Field: "min_profit_auto_buy", Reason: "must not be negative"}
	case p.MinProfitSlowMoving < 0:
		return &InvalidProfileError{Field: "min_profit_slow_moving", Reason: "must not be negative"}
	case p.MinProfitUncertainty < 0:
		return &InvalidProfileError{Field: "min_profit_uncertainty", Reason: "must not be negative"}
	case p.MinConfidenceAutoBuy < 0 || p.MinConfidenceAutoBuy > 100:
		return &InvalidProfileError{Field: "min_confidence_auto_buy", Reason: "must be within 0-100"}
	case p.LowConfidenceThreshold < 0 || p.LowConfidenceThreshold > 100:
		return &InvalidProfileError{Field: "low_confidence_threshold", Reason: "must be within 0-100"}
	case p.LowConfidenceThreshold > p.MinConfidenceAutoBuy:
		return &InvalidProfileError{Field: "low_confidence_threshold", Reason: "must not exceed min_confidence_auto_buy"}
	case p.MinCompsRequired < 0:
		return &InvalidProfileError{Field: "min_comps_required", Reason: "must not be negative"}
	case p.MaxSlowMovingTTS <= 0:
		return &InvalidProfileError{Field: "max_slow_moving_tts", Reason: "must be positive"}
	}
	return nil
}
