package model

// OverrideType records which collectible override rule repriced a book.
type OverrideType string

const (
	OverrideNone              OverrideType = "none"
	OverrideSignedFamous      OverrideType = "signed_famous"
	OverrideFirstEditionFamous OverrideType = "first_edition_famous"
)

// PredictionResult is the output of the pricing stage for one book.
// Pure value; never mutated after creation.
type PredictionResult struct {
	Price              float64      `json:"price"`
	Confidence         float64      `json:"confidence"` // 0-100
	ModelID            string       `json:"model_id"`
	Override           OverrideType `json:"override"`
	OverrideMultiplier float64      `json:"override_multiplier,omitempty"`
	FamousCreator      string       `json:"famous_creator,omitempty"`
	FameTier           string       `json:"fame_tier,omitempty"`
	// SuppressVelocityPenalty is set by a high-value collectible override:
	// niche collectible markets do not show mainstream velocity signals,
	// and penalizing them for it is a known source of severe mispricing.
	SuppressVelocityPenalty bool    `json:"suppress_velocity_penalty,omitempty"`
	CompCount               int     `json:"comp_count"`
	Rarity                  float64 `json:"rarity,omitempty"`
}

// Decision is the terminal purchase recommendation for a book.
type Decision string

const (
	DecisionBuy         Decision = "buy"
	DecisionSkip        Decision = "skip"
	DecisionNeedsReview Decision = "needs_review"
)

// DecisionInputs echoes the values the policy engine evaluated, so a
// decision can be reproduced and audited independent of the final state.
type DecisionInputs struct {
	Price          float64  `json:"price"`
	Confidence     float64  `json:"confidence"`
	Cost           *float64 `json:"cost,omitempty"`
	BuybackPrice   *float64 `json:"buyback_price,omitempty"`
	CompCount      int      `json:"comp_count"`
	TimeToSellDays *int     `json:"time_to_sell_days,omitempty"`
	Profile        string   `json:"profile"`
}

// DecisionResult is the policy engine's output: a state plus the ordered
// names of every rule that fired on the way to it.
type DecisionResult struct {
	Decision Decision       `json:"decision"`
	Rules    []string       `json:"rules"`
	Margin   *float64       `json:"margin,omitempty"`
	Inputs   DecisionInputs `json:"inputs"`
}
