package evaluate

import (
	"errors"
	"math"

	"github.com/rotisserie/eris"

	"github.com/challenge-workflows/eval-cli/internal/dataset"
	"github.com/challenge-workflows/eval-cli/internal/metrics"
	"github.com/challenge-workflows/eval-cli/internal/schema"
)

// ScoringError marks a failure the submission is responsible for: bad file
// contents, predictions that cannot be aligned with the goldstandard, or
// inputs the metrics reject. The workflow reports these as INVALID and
// moves on; anything else aborts the run.
type ScoringError struct {
	Cause error
}

func (e *ScoringError) Error() string { return e.Cause.Error() }
func (e *ScoringError) Unwrap() error { return e.Cause }

// Score aligns predictions with the goldstandard on the key column and
// computes AUROC and AUPRC. The goldstandard row order drives the merge.
func Score(goldFile, predFile string, s *schema.Schema) (map[string]float64, error) {
	gold, err := loadForScoring(goldFile, &s.Goldstandard)
	if err != nil {
		return nil, err
	}
	pred, err := loadForScoring(predFile, &s.Predictions)
	if err != nil {
		return nil, err
	}

	predValues := make(map[string]float64, pred.Len())
	predKeys := pred.Strings(s.Predictions.Key)
	values := pred.Floats(s.Value)
	for i, k := range predKeys {
		predValues[k] = values[i]
	}

	goldKeys := gold.Strings(s.Goldstandard.Key)
	goldLabels := gold.Ints(s.Label)

	labels := make([]bool, 0, gold.Len())
	scores := make([]float64, 0, gold.Len())
	unmatched := 0
	for i, k := range goldKeys {
		v, ok := predValues[k]
		if !ok || math.IsNaN(v) {
			unmatched++
			continue
		}
		labels = append(labels, goldLabels[i] != 0)
		scores = append(scores, v)
	}
	if unmatched > 0 {
		return nil, &ScoringError{Cause: eris.Errorf(
			"%d goldstandard ID(s) have no usable prediction", unmatched,
		)}
	}

	roc, err := metrics.AUROC(labels, scores)
	if err != nil {
		return nil, &ScoringError{Cause: err}
	}
	prc, err := metrics.AUPRC(labels, scores)
	if err != nil {
		return nil, &ScoringError{Cause: err}
	}

	return map[string]float64{"auc_roc": roc, "auprc": prc}, nil
}

// loadForScoring converts content-level load failures into ScoringErrors
// and passes I/O failures through untouched.
func loadForScoring(path string, fs *schema.FileSchema) (*dataset.Table, error) {
	t, err := dataset.Load(path, fs)
	if err != nil {
		var cerr *dataset.ContentError
		if errors.As(err, &cerr) {
			return nil, &ScoringError{Cause: err}
		}
		return nil, eris.Wrapf(err, "evaluate: load %s", path)
	}
	return t, nil
}
