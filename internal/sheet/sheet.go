package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/nconklindev/roster/internal/types"

	"github.com/xuri/excelize/v2"
)

// Parse decodes a payload into a table using its first row as the header.
// Every failure is returned as *types.ParseError.
func Parse(p *types.Payload) (*types.Table, error) {
	var (
		rows [][]string
		err  error
	)

	switch p.Format {
	case types.FormatCSV:
		rows, err = readCSVRows(p.Data)
	case types.FormatXLSX, "":
		rows, err = readXLSXRows(p.Data)
	default:
		err = fmt.Errorf("unsupported file type: %s", p.Format)
	}
	if err != nil {
		return nil, &types.ParseError{Err: err}
	}

	rows = dropEmptyRows(rows)
	if len(rows) == 0 {
		return nil, &types.ParseError{Err: fmt.Errorf("empty sheet")}
	}

	headers := NormalizeHeaders(rows[0])
	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		data = append(data, fitRow(row, len(headers)))
	}

	return &types.Table{
		Columns: headers,
		Rows:    data,
	}, nil
}

// utf8BOM is written by Excel's "CSV UTF-8" export.
var utf8BOM = []byte("\xef\xbb\xbf")

func readCSVRows(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	reader := csv.NewReader(bytes.NewReader(data))
	// Ragged rows are padded later instead of rejected.
	reader.FieldsPerRecord = -1

	return reader.ReadAll()
}

func readXLSXRows(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	// General format renders numbers past 15 digits in scientific
	// notation; those cells fall back to their stored value.
	var raw [][]string
	for i, row := range rows {
		for j, cell := range row {
			if !isScientific(cell) {
				continue
			}
			if raw == nil {
				raw, err = f.GetRows(sheetName, excelize.Options{RawCellValue: true})
				if err != nil {
					return nil, err
				}
			}
			// Text that merely looks numeric reads back unchanged.
			if i < len(raw) && j < len(raw[i]) && raw[i][j] != cell {
				rows[i][j] = plainNumber(raw[i][j])
			}
		}
	}

	return rows, nil
}

func isScientific(cell string) bool {
	i := strings.IndexAny(cell, "eE")
	if i <= 0 || i == len(cell)-1 {
		return false
	}
	_, err := strconv.ParseFloat(cell, 64)
	return err == nil
}

// plainNumber writes an integral stored value without an exponent.
func plainNumber(v string) string {
	if !strings.ContainsAny(v, "eE") {
		return v
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return v
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// NormalizeHeaders names blank header cells "Unnamed: <index>" and
// suffixes repeated names with ".1", ".2" and so on. Other names are kept
// verbatim.
func NormalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	dupes := make(map[string]int)

	for i, h := range raw {
		base := h
		if strings.TrimSpace(base) == "" {
			base = "Unnamed: " + strconv.Itoa(i)
		}
		name := base
		for used[name] {
			dupes[base]++
			name = base + "." + strconv.Itoa(dupes[base])
		}
		used[name] = true
		headers[i] = name
	}

	return headers
}

// fitRow pads or truncates row to width cells.
func fitRow(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}

// dropEmptyRows removes blank rows anywhere in the sheet, so the header
// is the first row with content.
func dropEmptyRows(rows [][]string) [][]string {
	out := rows[:0]
	for _, row := range rows {
		if !isEmptyRow(row) {
			out = append(out, row)
		}
	}
	return out
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
