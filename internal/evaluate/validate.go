// Package evaluate orchestrates the validation checks and metric scoring of
// a predictions file against a goldstandard.
package evaluate

import (
	"errors"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/challenge-workflows/eval-cli/internal/checks"
	"github.com/challenge-workflows/eval-cli/internal/dataset"
	"github.com/challenge-workflows/eval-cli/internal/schema"
)

// Validate runs the full check sequence on a predictions file and returns
// the list of failure messages. An empty list means the file is valid.
// Goldstandard problems and unreadable predictions paths are hard errors:
// the submission is not at fault for those.
func Validate(goldFile, predFile string, s *schema.Schema) ([]string, error) {
	gold, err := dataset.Load(goldFile, &s.Goldstandard)
	if err != nil {
		return nil, eris.Wrap(err, "evaluate: load goldstandard")
	}

	pred, err := dataset.Load(predFile, &s.Predictions)
	if err != nil {
		var cerr *dataset.ContentError
		if errors.As(err, &cerr) {
			return []string{fmt.Sprintf(
				"Invalid column names and/or types: %s. Expecting: %s.",
				cerr.Msg, s.Predictions.String(),
			)}, nil
		}
		return nil, eris.Wrap(err, "evaluate: load predictions")
	}

	goldKeys := gold.Strings(s.Goldstandard.Key)
	predKeys := pred.Strings(s.Predictions.Key)
	values := pred.Floats(s.Value)

	var errs []string
	for _, msg := range []string{
		checks.DuplicateKeys(predKeys),
		checks.MissingKeys(goldKeys, predKeys),
		checks.UnknownKeys(goldKeys, predKeys),
		checks.NaNValues(s.Value, values),
		checks.ValuesRange(s.Value, values, s.Range.Min, s.Range.Max),
	} {
		if msg != "" {
			errs = append(errs, msg)
		}
	}

	return errs, nil
}
