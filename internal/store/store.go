// Package store persists appraisal history so past recommendations can
// be audited and listed. Persistence is optional: the inference pipeline
// never depends on it.
package store

import (
	"context"
	"time"

	"github.com/shelfscout/appraise-cli/internal/appraise"
	"github.com/shelfscout/appraise-cli/internal/model"
)

// AppraisalRecord is one persisted appraisal: the flattened columns used
// for filtering plus the full result for audit.
type AppraisalRecord struct {
	ID         string               `json:"id"`
	ISBN       string               `json:"isbn"`
	Title      string               `json:"title"`
	Decision   model.Decision       `json:"decision"`
	Price      float64              `json:"price"`
	Confidence float64              `json:"confidence"`
	ModelID    string               `json:"model_id"`
	Override   model.OverrideType   `json:"override"`
	Profile    string               `json:"profile"`
	Result     *appraise.Result     `json:"result,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
}

// Filter specifies criteria for listing appraisals.
type Filter struct {
	ISBN     string         `json:"isbn,omitempty"`
	Decision model.Decision `json:"decision,omitempty"`
	Limit    int            `json:"limit,omitempty"`
	Offset   int            `json:"offset,omitempty"`
}

// Store defines the persistence interface for appraisal history.
type Store interface {
	SaveAppraisal(ctx context.Context, isbn, title string, result *appraise.Result) (*AppraisalRecord, error)
	GetAppraisal(ctx context.Context, id string) (*AppraisalRecord, error)
	ListAppraisals(ctx context.Context, filter Filter) ([]AppraisalRecord, error)

	Migrate(ctx context.Context) error
	Close() error
}
