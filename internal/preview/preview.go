package preview

import "github.com/nconklindev/roster/internal/types"

// DefaultRows is the number of data rows shown under the header.
const DefaultRows = 2

// Project copies the header and the first min(limit, rows) rows of t.
// The result shares no slices with t.
func Project(t *types.Table, limit int) *types.Preview {
	n := len(t.Rows)
	if limit < n {
		n = limit
	}
	if n < 0 {
		n = 0
	}

	rows := make([][]string, n)
	for i := range rows {
		rows[i] = append([]string(nil), t.Rows[i]...)
	}

	return &types.Preview{
		Columns:   append([]string(nil), t.Columns...),
		Rows:      rows,
		TotalRows: len(t.Rows),
	}
}
