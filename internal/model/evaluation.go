// Package model defines the records shared between the evaluation commands
// and the history store.
package model

import "time"

// EvaluationKind distinguishes the two evaluation steps.
type EvaluationKind string

const (
	KindValidate EvaluationKind = "validate"
	KindScore    EvaluationKind = "score"
)

// Evaluation is one recorded validate or score invocation.
type Evaluation struct {
	ID              string             `json:"id"`
	Kind            EvaluationKind     `json:"kind"`
	PredictionsFile string             `json:"predictions_file"`
	Status          string             `json:"status"`
	Errors          string             `json:"errors,omitempty"`
	Scores          map[string]float64 `json:"scores,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}
