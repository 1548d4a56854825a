// Package validate checks a decoded table against the roster schema.
//
// Validation happens at two levels:
//  1. Header validation: every required column must be present. All
//     missing names are reported together.
//  2. Row validation: rows are checked in order and the first invalid
//     value stops validation.
package validate

import (
	"regexp"
	"strings"

	"github.com/nconklindev/roster/internal/types"
)

// RequiredColumns are matched case-sensitively against the header.
var RequiredColumns = []string{"name", "gender", "phone number", "date of birth"}

var (
	phonePattern = regexp.MustCompile(`^\+?\d[\d\s-]{7,}\d$`)
	// Format only; 31/13/9999 passes.
	datePattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
)

// Rule checks the values of a single column.
type Rule struct {
	Column string
	Valid  func(value string) bool
}

// Validator holds the required columns and the row rules, applied in order.
type Validator struct {
	required []string
	rules    []Rule
}

// New returns a validator for the roster schema.
func New() *Validator {
	return &Validator{
		required: RequiredColumns,
		rules: []Rule{
			{Column: "gender", Valid: ValidGender},
			{Column: "phone number", Valid: ValidPhone},
			{Column: "date of birth", Valid: ValidDate},
		},
	}
}

// Validate returns nil when the table conforms, a *types.SchemaError when
// required columns are missing, or a *types.FieldError for the first
// invalid value.
func (v *Validator) Validate(t *types.Table) error {
	idx, err := v.ValidateHeaders(t.Columns)
	if err != nil {
		return err
	}

	for i, row := range t.Rows {
		if err := v.validateRow(row, i+1, idx); err != nil {
			return err
		}
	}
	return nil
}

// ValidateHeaders maps each rule column to its index, or reports every
// missing required column.
func (v *Validator) ValidateHeaders(columns []string) ([]int, error) {
	present := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, ok := present[c]; !ok {
			present[c] = i
		}
	}

	var missing []string
	for _, name := range v.required {
		if _, ok := present[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &types.SchemaError{Missing: missing}
	}

	idx := make([]int, len(v.rules))
	for i, rule := range v.rules {
		pos, ok := present[rule.Column]
		if !ok {
			pos = -1
		}
		idx[i] = pos
	}
	return idx, nil
}

func (v *Validator) validateRow(row []string, rowNum int, idx []int) error {
	for i, rule := range v.rules {
		pos := idx[i]
		if pos < 0 {
			continue
		}

		var value string
		if pos < len(row) {
			value = row[pos]
		}
		if !rule.Valid(value) {
			return &types.FieldError{Column: rule.Column, Row: rowNum, Value: value}
		}
	}
	return nil
}

// ValidGender accepts "male" or "female" in any case.
func ValidGender(value string) bool {
	return strings.EqualFold(value, "male") || strings.EqualFold(value, "female")
}

// ValidPhone accepts an optional leading '+', then a digit, at least seven
// digits, spaces or hyphens, and a final digit.
func ValidPhone(value string) bool {
	return phonePattern.MatchString(value)
}

// ValidDate accepts DD/MM/YYYY shaped text without checking the calendar.
func ValidDate(value string) bool {
	return datePattern.MatchString(value)
}
