package dataset

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// readXLSX reads the first sheet of an XLSX workbook as string rows.
func readXLSX(path string) ([][]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, eris.Wrapf(err, "dataset: stat %s", path)
	}

	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, contentErrorf("cannot read %s as XLSX: %s", path, err)
	}
	if len(f.Sheets) == 0 {
		return nil, contentErrorf("%s has no sheets", path)
	}

	sheet := f.Sheets[0]
	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return rows, nil
}
