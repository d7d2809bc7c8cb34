package collectible

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfscout/appraise-cli/internal/model"
	"github.com/shelfscout/appraise-cli/internal/registry"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.New([]registry.Entry{
		{Name: "Frank Herbert", Tier: registry.TierLiteraryIcon, SignedMultiplier: 100},
		{Name: "Stephen King", Tier: registry.TierBestsellingAuthor, SignedMultiplier: 25},
		{Name: "Maya Angelou", Tier: registry.TierLiteraryIcon, SignedMultiplier: 4},
	})
	require.NoError(t, err)
	return reg
}

func basePred(price float64) model.PredictionResult {
	return model.PredictionResult{
		Price:      price,
		Confidence: 60,
		ModelID:    "ebay_specialist_v3",
		Override:   model.OverrideNone,
		CompCount:  12,
	}
}

func TestOverride_SignedFamous(t *testing.T) {
	eng := New(testRegistry(t), 0)
	book := &model.BookRecord{
		ISBN:     "9780441172719",
		Title:    "Dune",
		Creators: []string{"Herbert, Frank"},
		Signed:   true,
	}

	out := eng.Override(book, basePred(11.20))
	assert.Equal(t, model.OverrideSignedFamous, out.Override)
	assert.Equal(t, 1120.00, out.Price)
	assert.Equal(t, 100.0, out.OverrideMultiplier)
	assert.Equal(t, "Frank Herbert", out.FamousCreator)
	assert.Equal(t, registry.TierLiteraryIcon, out.FameTier)

	// 100x is well past the high-value boundary.
	assert.Equal(t, 85.0, out.Confidence)
	assert.True(t, out.SuppressVelocityPenalty)
}

func TestOverride_SignedWinsOverFirstEdition(t *testing.T) {
	eng := New(testRegistry(t), 0)
	book := &model.BookRecord{
		ISBN:         "9780441172719",
		Creators:     []string{"Frank Herbert"},
		Signed:       true,
		FirstEdition: true,
	}

	out := eng.Override(book, basePred(10))
	assert.Equal(t, model.OverrideSignedFamous, out.Override)
	assert.Equal(t, 100.0, out.OverrideMultiplier)
}

func TestOverride_FirstEditionFamous(t *testing.T) {
	eng := New(testRegistry(t), 0)
	book := &model.BookRecord{
		ISBN:         "9780441172719",
		Creators:     []string{"Frank Herbert"},
		FirstEdition: true,
	}

	out := eng.Override(book, basePred(10))
	assert.Equal(t, model.OverrideFirstEditionFamous, out.Override)
	assert.Equal(t, 25.0, out.OverrideMultiplier)
	assert.Equal(t, 250.0, out.Price)
}

func TestOverride_FirstEditionFloor(t *testing.T) {
	// 4x signed -> quarter would be 1x, floored at 2x.
	eng := New(testRegistry(t), 0)
	book := &model.BookRecord{
		ISBN:         "9780394759074",
		Creators:     []string{"Maya Angelou"},
		FirstEdition: true,
	}

	out := eng.Override(book, basePred(10))
	assert.Equal(t, 2.0, out.OverrideMultiplier)
	assert.Equal(t, 20.0, out.Price)

	// Below the high-value boundary: no confidence floor, no suppression.
	assert.Equal(t, 60.0, out.Confidence)
	assert.False(t, out.SuppressVelocityPenalty)
}

func TestOverride_NotCollectible(t *testing.T) {
	eng := New(testRegistry(t), 0)

	// Famous creator, ordinary copy.
	plain := &model.BookRecord{ISBN: "x", Creators: []string{"Frank Herbert"}}
	out := eng.Override(plain, basePred(10))
	assert.Equal(t, model.OverrideNone, out.Override)
	assert.Equal(t, 10.0, out.Price)

	// Signed copy, unregistered creator.
	signed := &model.BookRecord{ISBN: "x", Creators: []string{"Unknown Writer"}, Signed: true}
	out = eng.Override(signed, basePred(10))
	assert.Equal(t, model.OverrideNone, out.Override)
	assert.Equal(t, 10.0, out.Price)
}

func TestOverride_FirstMatchingCreator(t *testing.T) {
	eng := New(testRegistry(t), 0)
	book := &model.BookRecord{
		ISBN:     "x",
		Creators: []string{"Nobody Special", "Stephen King", "Frank Herbert"},
		Signed:   true,
	}

	out := eng.Override(book, basePred(10))
	assert.Equal(t, "Stephen King", out.FamousCreator)
	assert.Equal(t, 25.0, out.OverrideMultiplier)
}

func TestOverride_ConfigurableHighValueBoundary(t *testing.T) {
	// Boundary raised above 25x: King's signed override is no longer
	// high-value.
	eng := New(testRegistry(t), 30)
	book := &model.BookRecord{ISBN: "x", Creators: []string{"Stephen King"}, Signed: true}

	out := eng.Override(book, basePred(10))
	assert.Equal(t, model.OverrideSignedFamous, out.Override)
	assert.Equal(t, 60.0, out.Confidence)
	assert.False(t, out.SuppressVelocityPenalty)

	// Boundary lowered to 20x: now it is.
	eng = New(testRegistry(t), 20)
	out = eng.Override(book, basePred(10))
	assert.Equal(t, 85.0, out.Confidence)
	assert.True(t, out.SuppressVelocityPenalty)
}

func TestOverride_ConfidenceNeverLowered(t *testing.T) {
	eng := New(testRegistry(t), 0)
	book := &model.BookRecord{ISBN: "x", Creators: []string{"Frank Herbert"}, Signed: true}

	pred := basePred(10)
	pred.Confidence = 92
	out := eng.Override(book, pred)
	assert.Equal(t, 92.0, out.Confidence)
}
