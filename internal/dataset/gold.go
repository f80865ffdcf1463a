package dataset

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// GoldstandardFile resolves the single goldstandard file inside a folder.
// The orchestrator mounts the folder with exactly one entry in it; anything
// else, a stray subdirectory included, is a setup error, not a submission
// error.
func GoldstandardFile(folder string) (string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return "", eris.Wrapf(err, "dataset: read goldstandard folder %s", folder)
	}
	if len(entries) != 1 {
		return "", eris.Errorf("dataset: expected exactly one goldstandard file in folder, got %d", len(entries))
	}
	return filepath.Join(folder, entries[0].Name()), nil
}
