// Package results reads and writes the flat JSON results file shared by the
// validate and score steps of the orchestration workflow.
package results

import (
	"encoding/json"
	"os"
	"unicode/utf8"

	"github.com/rotisserie/eris"
)

// Workflow status values printed to stdout and recorded in the results file.
const (
	StatusValidated = "VALIDATED"
	StatusScored    = "SCORED"
	StatusInvalid   = "INVALID"
)

// Results file keys.
const (
	KeyValidationStatus = "validation_status"
	KeyValidationErrors = "validation_errors"
	KeyScoreStatus      = "score_status"
	KeyScoreErrors      = "score_errors"
)

// MaxErrorChars caps the validation error string. The orchestrator forwards
// it in a Synapse email, which limits the message size.
const MaxErrorChars = 500

// Load reads an existing results file. A missing or malformed file is not an
// error: scoring may legitimately run without a prior validation step, so the
// caller gets an empty base record and a false second return.
func Load(path string) (map[string]any, bool) {
	base := map[string]any{
		KeyValidationStatus: "",
		KeyValidationErrors: "",
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return base, false
	}
	var res map[string]any
	if err := json.Unmarshal(data, &res); err != nil || res == nil {
		// JSON null unmarshals into a nil map without error.
		return base, false
	}
	return res, true
}

// Write serializes the results object to path, replacing any existing file.
func Write(path string, res map[string]any) error {
	data, err := json.Marshal(res)
	if err != nil {
		return eris.Wrap(err, "results: marshal")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "results: write %s", path)
	}
	return nil
}

// ValidationStatus returns the recorded validation status, or "".
func ValidationStatus(res map[string]any) string {
	s, _ := res[KeyValidationStatus].(string)
	return s
}

// Truncate shortens an error string to MaxErrorChars, marking the cut
// with an ellipsis. The cut never splits a multibyte character.
func Truncate(s string) string {
	if len(s) <= MaxErrorChars {
		return s
	}
	cut := MaxErrorChars - 4
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
