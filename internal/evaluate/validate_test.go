package evaluate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/challenge-workflows/eval-cli/internal/schema"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const goldContent = "id,disease\nA,1\nB,0\nC,1\nD,0\n"

func TestValidate_WellFormed(t *testing.T) {
	dir := t.TempDir()
	gold := writeFile(t, dir, "gold.csv", goldContent)
	pred := writeFile(t, dir, "pred.csv", "id,probability\nA,0.9\nB,0.1\nC,0.8\nD,0.2\n")

	errs, err := Validate(gold, pred, schema.Default())
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestValidate_DuplicateID(t *testing.T) {
	dir := t.TempDir()
	gold := writeFile(t, dir, "gold.csv", goldContent)
	pred := writeFile(t, dir, "pred.csv", "id,probability\nA,0.9\nA,0.8\nB,0.1\nC,0.8\nD,0.2\n")

	errs, err := Validate(gold, pred, schema.Default())
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `duplicate ID(s): "A"`)
}

func TestValidate_MissingID(t *testing.T) {
	dir := t.TempDir()
	gold := writeFile(t, dir, "gold.csv", goldContent)
	pred := writeFile(t, dir, "pred.csv", "id,probability\nA,0.9\nB,0.1\nC,0.8\n")

	errs, err := Validate(gold, pred, schema.Default())
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `missing ID(s): "D"`)
}

func TestValidate_UnknownID(t *testing.T) {
	dir := t.TempDir()
	gold := writeFile(t, dir, "gold.csv", goldContent)
	pred := writeFile(t, dir, "pred.csv", "id,probability\nA,0.9\nB,0.1\nC,0.8\nD,0.2\nZ,0.5\n")

	errs, err := Validate(gold, pred, schema.Default())
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `unknown ID(s): "Z"`)
}

func TestValidate_NullProbability(t *testing.T) {
	dir := t.TempDir()
	gold := writeFile(t, dir, "gold.csv", goldContent)
	pred := writeFile(t, dir, "pred.csv", "id,probability\nA,\nB,0.1\nC,0.8\nD,0.2\n")

	errs, err := Validate(gold, pred, schema.Default())
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "NaN value(s)")
}

func TestValidate_OutOfRange(t *testing.T) {
	dir := t.TempDir()
	gold := writeFile(t, dir, "gold.csv", goldContent)
	pred := writeFile(t, dir, "pred.csv", "id,probability\nA,1.5\nB,0.1\nC,0.8\nD,-0.2\n")

	errs, err := Validate(gold, pred, schema.Default())
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "outside range [0, 1]")
}

func TestValidate_MultipleFailures(t *testing.T) {
	dir := t.TempDir()
	gold := writeFile(t, dir, "gold.csv", goldContent)
	pred := writeFile(t, dir, "pred.csv", "id,probability\nA,0.9\nA,0.9\nB,7\nZ,0.5\n")

	errs, err := Validate(gold, pred, schema.Default())
	require.NoError(t, err)
	// duplicate A, missing C and D, unknown Z, out-of-range 7.
	assert.Len(t, errs, 4)
}

func TestValidate_BadColumns(t *testing.T) {
	dir := t.TempDir()
	gold := writeFile(t, dir, "gold.csv", goldContent)
	pred := writeFile(t, dir, "pred.csv", "patient,score\nA,0.9\n")

	errs, err := Validate(gold, pred, schema.Default())
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Invalid column names and/or types")
	assert.Contains(t, errs[0], "Expecting: {id: string, probability: float}")
}

func TestValidate_BadType(t *testing.T) {
	dir := t.TempDir()
	gold := writeFile(t, dir, "gold.csv", goldContent)
	pred := writeFile(t, dir, "pred.csv", "id,probability\nA,high\n")

	errs, err := Validate(gold, pred, schema.Default())
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Invalid column names and/or types")
	assert.Contains(t, errs[0], `cannot convert "high" to float`)
}

func TestValidate_GoldstandardUnreadable(t *testing.T) {
	dir := t.TempDir()
	pred := writeFile(t, dir, "pred.csv", "id,probability\nA,0.9\n")

	_, err := Validate(filepath.Join(dir, "absent.csv"), pred, schema.Default())
	require.Error(t, err)
}

func TestValidate_PredictionsUnreadable(t *testing.T) {
	dir := t.TempDir()
	gold := writeFile(t, dir, "gold.csv", goldContent)

	_, err := Validate(gold, filepath.Join(dir, "absent.csv"), schema.Default())
	require.Error(t, err)
}
