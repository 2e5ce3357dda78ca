// Package errs defines the error kinds raised by the heightmap pipeline.
package errs

import (
	"errors"
	"fmt"
)

// Error kinds. Every pipeline error matches exactly one of these with errors.Is.
var (
	ErrLoad       = errors.New("load error")
	ErrSchema     = errors.New("schema error")
	ErrData       = errors.New("data error")
	ErrGeometry   = errors.New("geometry error")
	ErrValue      = errors.New("value error")
	ErrProjection = errors.New("projection error")
)

// NoRow marks an Error that is not tied to a particular feature.
const NoRow = -1

// Error carries the kind of a pipeline failure together with the offending
// column and feature row, when known.
type Error struct {
	Kind   error
	Column string
	Row    int
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	s := e.Kind.Error()
	if e.Row != NoRow {
		s += fmt.Sprintf(": row %d", e.Row)
	}
	if e.Column != "" {
		s += fmt.Sprintf(": column `%s`", e.Column)
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap exposes both the kind and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Load reports an unreadable or malformed geometry source.
func Load(msg string, err error) error {
	return &Error{Kind: ErrLoad, Row: NoRow, Msg: msg, Err: err}
}

// Schema reports a required attribute missing from a dataset.
func Schema(column string) error {
	return &Error{Kind: ErrSchema, Column: column, Row: NoRow, Msg: "missing required column"}
}

// Data reports a missing value in column at the given feature row.
func Data(column string, row int) error {
	return &Error{Kind: ErrData, Column: column, Row: row, Msg: "missing value"}
}

// Geometry reports a feature whose geometry is not a closed ring.
func Geometry(row int, msg string) error {
	return &Error{Kind: ErrGeometry, Column: "geometry", Row: row, Msg: msg}
}

// Value reports an invalid parameter.
func Value(format string, args ...any) error {
	return &Error{Kind: ErrValue, Row: NoRow, Msg: fmt.Sprintf(format, args...)}
}

// Projection reports a failed coordinate transform. row is NoRow for
// standalone points.
func Projection(row int, err error) error {
	return &Error{Kind: ErrProjection, Row: row, Err: err}
}

// KindOf returns the kind of err, or nil if err did not come from the pipeline.
func KindOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return nil
}
