package validate

import (
	"testing"

	"github.com/nconklindev/roster/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var header = []string{"name", "gender", "phone number", "date of birth"}

func table(rows ...[]string) *types.Table {
	return &types.Table{Columns: header, Rows: rows}
}

func TestValidGender(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"male", true},
		{"female", true},
		{"Male", true},
		{"FEMALE", true},
		{"fEmAlE", true},
		{"", false},
		{"m", false},
		{"other", false},
		{" male", false},
		{"males", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidGender(tt.input))
		})
	}
}

func TestValidPhone(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"+1 234-5678", true},
		{"+44 7911 123456", true},
		{"0123456789", true},
		{"123456789", true},
		{"12345", false},
		{"abcdefg", false},
		{"12345678", false},
		{"+1 234-567-", false},
		{"-1234567890", false},
		{"++1234567890", false},
		{"(555) 123-4567", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidPhone(tt.input))
		})
	}
}

func TestValidDate(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"15/06/1990", true},
		{"01/01/2000", true},
		// Format only: impossible dates pass.
		{"31/13/9999", true},
		{"00/00/0000", true},
		{"1990-06-15", false},
		{"1/6/1990", false},
		{"15/06/90", false},
		{"15/06/1990 00:00:00", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidDate(tt.input))
		})
	}
}

func TestValidate_Valid(t *testing.T) {
	tbl := &types.Table{
		Columns: []string{"extra", "date of birth", "phone number", "gender", "name"},
		Rows: [][]string{
			{"x", "01/01/2000", "+44 7911 123456", "Female", "Ann"},
			{"y", "31/13/9999", "+1 234-5678", "MALE", "Bob"},
		},
	}
	assert.NoError(t, New().Validate(tbl))
}

func TestValidate_NoRows(t *testing.T) {
	assert.NoError(t, New().Validate(table()))
}

func TestValidate_MissingColumns(t *testing.T) {
	tests := []struct {
		name     string
		columns  []string
		expected []string
	}{
		{"All missing", []string{"extra"}, RequiredColumns},
		{"Two missing", []string{"name", "phone number"}, []string{"gender", "date of birth"}},
		{"Case sensitive", []string{"Name", "gender", "phone number", "Date Of Birth"}, []string{"name", "date of birth"}},
		{"Single missing", []string{"name", "gender", "phone number"}, []string{"date of birth"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New().Validate(&types.Table{Columns: tt.columns})
			var schemaErr *types.SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, tt.expected, schemaErr.Missing)
		})
	}
}

func TestValidate_MissingColumnsBeforeRows(t *testing.T) {
	tbl := &types.Table{
		Columns: []string{"name", "gender"},
		Rows:    [][]string{{"Ann", "robot"}},
	}
	var schemaErr *types.SchemaError
	require.ErrorAs(t, New().Validate(tbl), &schemaErr)
}

func TestValidate_FieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		rows   [][]string
		column string
		row    int
		value  string
	}{
		{
			name:   "Bad gender",
			rows:   [][]string{{"Ann", "robot", "+1 234-5678", "01/01/2000"}},
			column: "gender", row: 1, value: "robot",
		},
		{
			name:   "Short phone",
			rows:   [][]string{{"Ann", "female", "12345", "01/01/2000"}},
			column: "phone number", row: 1, value: "12345",
		},
		{
			name:   "Letters phone",
			rows:   [][]string{{"Ann", "female", "abcdefg", "01/01/2000"}},
			column: "phone number", row: 1, value: "abcdefg",
		},
		{
			name:   "ISO date",
			rows:   [][]string{{"Ann", "female", "+1 234-5678", "1990-06-15"}},
			column: "date of birth", row: 1, value: "1990-06-15",
		},
		{
			name:   "Gender checked before phone",
			rows:   [][]string{{"Ann", "x", "1", "bad"}},
			column: "gender", row: 1, value: "x",
		},
		{
			name: "Second row",
			rows: [][]string{
				{"Ann", "female", "+1 234-5678", "01/01/2000"},
				{"Bob", "male", "+1 234-5678", "2000/01/01"},
			},
			column: "date of birth", row: 2, value: "2000/01/01",
		},
		{
			name: "Stops at first failing row",
			rows: [][]string{
				{"Ann", "female", "bad phone", "01/01/2000"},
				{"Bob", "robot", "+1 234-5678", "01/01/2000"},
			},
			column: "phone number", row: 1, value: "bad phone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New().Validate(table(tt.rows...))
			var fieldErr *types.FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.column, fieldErr.Column)
			assert.Equal(t, tt.row, fieldErr.Row)
			assert.Equal(t, tt.value, fieldErr.Value)
		})
	}
}

func TestValidate_NoRowCheckedAfterFailure(t *testing.T) {
	var seen []string
	v := &Validator{
		required: RequiredColumns,
		rules: []Rule{{
			Column: "gender",
			Valid: func(value string) bool {
				seen = append(seen, value)
				return ValidGender(value)
			},
		}},
	}

	err := v.Validate(table(
		[]string{"A", "male", "", ""},
		[]string{"B", "unknown", "", ""},
		[]string{"C", "female", "", ""},
		[]string{"D", "nope", "", ""},
	))

	var fieldErr *types.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, 2, fieldErr.Row)
	assert.Equal(t, []string{"male", "unknown"}, seen)
}
