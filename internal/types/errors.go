package types

import (
	"errors"
	"fmt"
	"strings"
)

// InputError is returned when no source was supplied.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string {
	if e.Msg == "" {
		return "Please select an Excel file"
	}
	return e.Msg
}

// SizeLimitError is returned when a source exceeds the byte ceiling.
// Size is the observed size, or Limit+1 when the body was cut short.
type SizeLimitError struct {
	Size  int64
	Limit int64
}

func (e *SizeLimitError) Error() string {
	return fmt.Sprintf("File size exceeds %s limit.", humanLimit(e.Limit))
}

// IOError wraps a filesystem or transport failure.
type IOError struct {
	Source string
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("Failed to read Excel file: %v", e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ParseError wraps a decoding failure. No partial table accompanies it.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Failed to read Excel file: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError lists every required column absent from the table.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "Missing fields: " + strings.Join(e.Missing, ", ")
}

// FieldError reports the first invalid value found. Row is 1-based over
// data rows, not counting the header.
type FieldError struct {
	Column string
	Row    int
	Value  string
}

func (e *FieldError) Error() string {
	switch e.Column {
	case "gender":
		return "Invalid gender value. Must be 'male' or 'female'."
	case "phone number":
		return "Invalid phone number format."
	case "date of birth":
		return "Invalid date of birth format. Must be 'day/month/year'."
	}
	return fmt.Sprintf("Invalid %s value.", e.Column)
}

// Title returns the heading shown above an error message.
func Title(err error) string {
	var inputErr *InputError
	if errors.As(err, &inputErr) {
		return "Input Error"
	}
	return "Error"
}

func humanLimit(n int64) string {
	switch {
	case n >= 1_000_000 && n%1_000_000 == 0:
		return fmt.Sprintf("%dMB", n/1_000_000)
	case n >= 1_000 && n%1_000 == 0:
		return fmt.Sprintf("%dKB", n/1_000)
	}
	return fmt.Sprintf("%d byte", n)
}
