package dataset

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/challenge-workflows/eval-cli/internal/schema"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Predictions(t *testing.T) {
	path := writeCSV(t, "predictions.csv", "id,probability\nA,0.1\nB,0.9\nC,0.5\n")

	tab, err := Load(path, &schema.Default().Predictions)
	require.NoError(t, err)

	assert.Equal(t, 3, tab.Len())
	assert.Equal(t, []string{"A", "B", "C"}, tab.Strings("id"))
	assert.Equal(t, []float64{0.1, 0.9, 0.5}, tab.Floats("probability"))
}

func TestLoad_Goldstandard(t *testing.T) {
	path := writeCSV(t, "gold.csv", "id,disease\nA,0\nB,1\n")

	tab, err := Load(path, &schema.Default().Goldstandard)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, tab.Strings("id"))
	assert.Equal(t, []int64{0, 1}, tab.Ints("disease"))
}

func TestLoad_ExtraColumnsIgnored(t *testing.T) {
	path := writeCSV(t, "predictions.csv", "rank,id,probability,notes\n1,A,0.3,ok\n")

	tab, err := Load(path, &schema.Default().Predictions)
	require.NoError(t, err)
	assert.Equal(t, 1, tab.Len())
	assert.Equal(t, []string{"A"}, tab.Strings("id"))
	assert.Nil(t, tab.Strings("notes"))
}

func TestLoad_MissingColumn(t *testing.T) {
	path := writeCSV(t, "predictions.csv", "id,score\nA,0.3\n")

	_, err := Load(path, &schema.Default().Predictions)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column(s): probability")
}

func TestLoad_EmptyFloatBecomesNaN(t *testing.T) {
	path := writeCSV(t, "predictions.csv", "id,probability\nA,\nB,0.2\n")

	tab, err := Load(path, &schema.Default().Predictions)
	require.NoError(t, err)

	probs := tab.Floats("probability")
	require.Len(t, probs, 2)
	assert.True(t, math.IsNaN(probs[0]))
	assert.Equal(t, 0.2, probs[1])
}

func TestLoad_LiteralNaNParses(t *testing.T) {
	path := writeCSV(t, "predictions.csv", "id,probability\nA,NaN\n")

	tab, err := Load(path, &schema.Default().Predictions)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(tab.Floats("probability")[0]))
}

func TestLoad_BadFloat(t *testing.T) {
	path := writeCSV(t, "predictions.csv", "id,probability\nA,high\n")

	_, err := Load(path, &schema.Default().Predictions)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `cannot convert "high" to float`)
}

func TestLoad_BadInt(t *testing.T) {
	path := writeCSV(t, "gold.csv", "id,disease\nA,positive\n")

	_, err := Load(path, &schema.Default().Goldstandard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `cannot convert "positive" to int`)
}

func TestLoad_UTF8BOM(t *testing.T) {
	path := writeCSV(t, "predictions.csv", "\xef\xbb\xbfid,probability\nA,0.4\n")

	tab, err := Load(path, &schema.Default().Predictions)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, tab.Strings("id"))
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeCSV(t, "predictions.csv", "")

	_, err := Load(path, &schema.Default().Predictions)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.csv"), &schema.Default().Predictions)
	require.Error(t, err)
}

func TestLoad_XLSX(t *testing.T) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	require.NoError(t, err)

	for _, rec := range [][]string{{"id", "probability"}, {"A", "0.7"}, {"B", "0.2"}} {
		row := sheet.AddRow()
		for _, v := range rec {
			row.AddCell().SetString(v)
		}
	}

	path := filepath.Join(t.TempDir(), "predictions.xlsx")
	require.NoError(t, f.Save(path))

	tab, err := Load(path, &schema.Default().Predictions)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, tab.Strings("id"))
	assert.Equal(t, []float64{0.7, 0.2}, tab.Floats("probability"))
}

func TestGoldstandardFile_ExactlyOne(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gold.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,disease\n"), 0o644))

	got, err := GoldstandardFile(dir)
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestGoldstandardFile_Empty(t *testing.T) {
	_, err := GoldstandardFile(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got 0")
}

func TestGoldstandardFile_TooMany(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.csv"), []byte("y"), 0o644))

	_, err := GoldstandardFile(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got 2")
}

func TestGoldstandardFile_StraySubdirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gold.csv"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))

	_, err := GoldstandardFile(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got 2")
}

func TestGoldstandardFile_BadFolder(t *testing.T) {
	_, err := GoldstandardFile(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
