// Package store persists evaluation history. The workflow platform tracks
// submissions on its side; recording locally gives operators the same
// visibility when running evaluations by hand. Recording is optional and
// never fails an evaluation.
package store

import (
	"context"

	"github.com/challenge-workflows/eval-cli/internal/model"
)

// Filter specifies criteria for listing evaluations.
type Filter struct {
	Kind  model.EvaluationKind `json:"kind,omitempty"`
	Limit int                  `json:"limit,omitempty"`
}

// Store defines the persistence interface for evaluation history.
type Store interface {
	RecordEvaluation(ctx context.Context, ev *model.Evaluation) error
	ListEvaluations(ctx context.Context, filter Filter) ([]model.Evaluation, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
