package errs

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestKinds(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		kind     error
		expected string
	}{
		{
			name:     "schema",
			err:      Schema("elevation"),
			kind:     ErrSchema,
			expected: "schema error: column `elevation`: missing required column",
		},
		{
			name:     "data",
			err:      Data("geometry", 3),
			kind:     ErrData,
			expected: "data error: row 3: column `geometry`: missing value",
		},
		{
			name:     "geometry",
			err:      Geometry(0, "ring is not closed"),
			kind:     ErrGeometry,
			expected: "geometry error: row 0: column `geometry`: ring is not closed",
		},
		{
			name:     "value",
			err:      Value("stepSize should be greater than 0"),
			kind:     ErrValue,
			expected: "value error: stepSize should be greater than 0",
		},
		{
			name:     "load",
			err:      Load("reading contours.geojson", io.ErrUnexpectedEOF),
			kind:     ErrLoad,
			expected: "load error: reading contours.geojson: unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.kind) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.kind)
			}
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, expected %q", got, tt.expected)
			}
			if KindOf(tt.err) != tt.kind {
				t.Errorf("KindOf = %v, expected %v", KindOf(tt.err), tt.kind)
			}
		})
	}
}

func TestWrappedCause(t *testing.T) {
	err := fmt.Errorf("projecting dataset: %w", Projection(7, io.EOF))
	if !errors.Is(err, ErrProjection) {
		t.Error("wrapped error lost its kind")
	}
	if !errors.Is(err, io.EOF) {
		t.Error("wrapped error lost its cause")
	}
	if errors.Is(err, ErrLoad) {
		t.Error("projection error matched load kind")
	}
	if KindOf(io.EOF) != nil {
		t.Error("KindOf on a foreign error should be nil")
	}
}
