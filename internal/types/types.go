package types

// Format identifies how a payload should be decoded.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// Payload is the raw content of a resolved source.
type Payload struct {
	Name   string
	Format Format
	Data   []byte
}

// Table is a decoded sheet. Every row has exactly len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Column returns the index of the named column, or -1.
// Names are matched exactly.
func (t *Table) Column(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Preview is the display projection of a validated table.
type Preview struct {
	Source    string
	Columns   []string
	Rows      [][]string
	TotalRows int
}
