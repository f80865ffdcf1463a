// Package checks implements the row-level validation toolkit for predictions
// files: duplicate, missing, and unknown keys, null values, and range checks.
// Each check returns a human-readable message, or "" when the check passes;
// callers collect the non-empty messages into the validation report.
package checks

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// maxListed caps how many offending IDs a message spells out.
const maxListed = 5

// DuplicateKeys reports prediction keys that appear more than once.
func DuplicateKeys(keys []string) string {
	seen := make(map[string]int, len(keys))
	for _, k := range keys {
		seen[k]++
	}

	var dups []string
	for k, n := range seen {
		if n > 1 {
			dups = append(dups, k)
		}
	}
	if len(dups) == 0 {
		return ""
	}
	sort.Strings(dups)
	return fmt.Sprintf("Found %d duplicate ID(s): %s", len(dups), listKeys(dups))
}

// MissingKeys reports goldstandard keys with no prediction.
func MissingKeys(gold, pred []string) string {
	predSet := toSet(pred)
	var missing []string
	for _, k := range gold {
		if !predSet[k] {
			missing = append(missing, k)
		}
	}
	if len(missing) == 0 {
		return ""
	}
	sort.Strings(missing)
	return fmt.Sprintf("Found %d missing ID(s): %s", len(missing), listKeys(missing))
}

// UnknownKeys reports prediction keys absent from the goldstandard.
func UnknownKeys(gold, pred []string) string {
	goldSet := toSet(gold)
	seen := make(map[string]bool, len(pred))
	var unknown []string
	for _, k := range pred {
		if !goldSet[k] && !seen[k] {
			seen[k] = true
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return ""
	}
	sort.Strings(unknown)
	return fmt.Sprintf("Found %d unknown ID(s): %s", len(unknown), listKeys(unknown))
}

// NaNValues reports null (NaN) prediction values.
func NaNValues(column string, values []float64) string {
	count := 0
	for _, v := range values {
		if math.IsNaN(v) {
			count++
		}
	}
	if count == 0 {
		return ""
	}
	return fmt.Sprintf("Found %d NaN value(s) in column %q", count, column)
}

// ValuesRange reports values outside the inclusive [min, max] range.
// NaN values are skipped; NaNValues owns those.
func ValuesRange(column string, values []float64, min, max float64) string {
	count := 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if v < min || v > max {
			count++
		}
	}
	if count == 0 {
		return ""
	}
	return fmt.Sprintf("Found %d value(s) in column %q outside range [%g, %g]", count, column, min, max)
}

func toSet(keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

func listKeys(keys []string) string {
	quoted := make([]string, 0, maxListed)
	for i, k := range keys {
		if i == maxListed {
			quoted = append(quoted, "...")
			break
		}
		quoted = append(quoted, fmt.Sprintf("%q", k))
	}
	return strings.Join(quoted, ", ")
}
