package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMode   = errors.New("invalid aggregation mode")
	ErrInvalidMetric = errors.New("invalid metric")

	errShortDate = errors.New("shorter than YYYY-MM-DD")
)

// LoadError reports a snapshot that could not be read or decoded.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load snapshot from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// DateParseError reports a record timestamp or a range bound that is not a
// valid date. Subject is the record id or the bound name.
type DateParseError struct {
	Subject string
	Input   string
	Err     error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("parse date %q of %s: %v", e.Input, e.Subject, e.Err)
}

func (e *DateParseError) Unwrap() error { return e.Err }

// MissingColumnError reports a comfort derivation for a sensor whose source
// column is absent.
type MissingColumnError struct {
	Sensor string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("sensor %s: missing column %s", e.Sensor, e.Column)
}

// NonNumericError reports a text cell where a comfort derivation needs a
// number.
type NonNumericError struct {
	Column string
	Row    int
	Text   string
}

func (e *NonNumericError) Error() string {
	return fmt.Sprintf("column %s row %d: non-numeric value %q", e.Column, e.Row, e.Text)
}

