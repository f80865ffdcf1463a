package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/challenge-workflows/eval-cli/internal/schema"
)

// ContentError reports a problem with what is inside a file: missing
// columns, unparsable cells, malformed CSV. Callers treat these as
// submission faults; anything else (unreadable path, I/O failure) is a
// hard error.
type ContentError struct {
	Msg string
}

func (e *ContentError) Error() string { return e.Msg }

func contentErrorf(format string, args ...any) error {
	return &ContentError{Msg: fmt.Sprintf(format, args...)}
}

// Load reads a tabular file into a Table, keeping only the columns the
// schema declares. The first row is the header.
func Load(path string, fs *schema.FileSchema) (*Table, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, contentErrorf("%s is empty", filepath.Base(path))
	}

	header := rows[0]
	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, c := range fs.Columns {
		if _, ok := colIdx[c.Name]; !ok {
			missing = append(missing, c.Name)
		}
	}
	if len(missing) > 0 {
		return nil, contentErrorf("missing column(s): %s", strings.Join(missing, ", "))
	}

	t := newTable()
	for rowNum, record := range rows[1:] {
		for _, c := range fs.Columns {
			raw := ""
			if idx := colIdx[c.Name]; idx < len(record) {
				raw = record[idx]
			}
			if err := t.appendCell(c, raw); err != nil {
				return nil, contentErrorf("column %q, row %d: %s", c.Name, rowNum+2, err)
			}
		}
		t.n++
	}

	return t, nil
}

func readRows(path string) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readXLSX(path)
	}
	return readCSV(path)
}

// readCSV reads all CSV records. A UTF-8 BOM, common in files exported from
// Excel, is stripped before parsing.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(transform.NewReader(f, unicode.UTF8BOM.NewDecoder()))
	reader.FieldsPerRecord = -1 // allow variable fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, contentErrorf("malformed CSV in %s: %s", filepath.Base(path), err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func parseInt(raw string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot convert %q to int", raw)
	}
	return v, nil
}

func parseFloat(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("cannot convert %q to float", raw)
	}
	return v, nil
}
