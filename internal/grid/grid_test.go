package grid

import (
	"errors"
	"testing"

	"github.com/chrissnell/heightgrid/internal/errs"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestGenerateCountAndIndices(t *testing.T) {
	tests := []struct {
		step, columns, rows int
	}{
		{1, 1, 1},
		{1, 3, 2},
		{200, 130, 101},
		{7, 1, 9},
		{50, 9, 1},
	}

	for _, tt := range tests {
		g, err := Generate(r2.Vec{X: 100, Y: 500}, tt.step, tt.columns, tt.rows, "")
		if err != nil {
			t.Fatalf("Generate(%d, %d, %d): %v", tt.step, tt.columns, tt.rows, err)
		}
		if len(g.Points) != tt.columns*tt.rows {
			t.Errorf("Generate(%d, %d, %d) made %d points, expected %d", tt.step, tt.columns, tt.rows, len(g.Points), tt.columns*tt.rows)
		}
		for i, p := range g.Points {
			if p.Index != i {
				t.Fatalf("point %d has index %d", i, p.Index)
			}
			if p.Resolved {
				t.Fatalf("point %d is resolved before resolution", i)
			}
		}
	}
}

func TestGeneratePlacement(t *testing.T) {
	g, err := Generate(r2.Vec{X: 1000, Y: 2000}, 10, 3, 2, "crs")
	if err != nil {
		t.Fatal(err)
	}

	expected := []r2.Vec{
		{X: 1005, Y: 1995}, {X: 1015, Y: 1995}, {X: 1025, Y: 1995},
		{X: 1005, Y: 1985}, {X: 1015, Y: 1985}, {X: 1025, Y: 1985},
	}
	for i, want := range expected {
		if g.Points[i].Location != want {
			t.Errorf("point %d at %v, expected %v", i, g.Points[i].Location, want)
		}
	}
	if g.CRS != "crs" {
		t.Errorf("CRS = %q", g.CRS)
	}
	if ll := g.LowerLeft(); ll != (r2.Vec{X: 1000, Y: 1980}) {
		t.Errorf("LowerLeft = %v", ll)
	}
}

func TestGenerateOddStep(t *testing.T) {
	g, err := Generate(r2.Vec{}, 3, 1, 1, "")
	if err != nil {
		t.Fatal(err)
	}
	if want := (r2.Vec{X: 1.5, Y: -1.5}); g.Points[0].Location != want {
		t.Errorf("cell center at %v, expected %v", g.Points[0].Location, want)
	}
}

func TestGenerateInvalid(t *testing.T) {
	tests := []struct {
		name                string
		step, columns, rows int
	}{
		{"zero step", 0, 10, 10},
		{"zero columns", 10, 0, 10},
		{"zero rows", 10, 10, 0},
		{"negative step", -5, 10, 10},
		{"all zero", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Generate(r2.Vec{}, tt.step, tt.columns, tt.rows, "")
			if !errors.Is(err, errs.ErrValue) {
				t.Errorf("expected value error, got %v", err)
			}
			if g != nil {
				t.Error("expected no grid on error")
			}
		})
	}
}

func TestDimensions(t *testing.T) {
	tests := []struct {
		name          string
		lb, rt        r2.Vec
		step          int
		columns, rows int
		wantErr       bool
	}{
		{name: "exact multiple", lb: r2.Vec{X: 0, Y: 0}, rt: r2.Vec{X: 1000, Y: 400}, step: 200, columns: 6, rows: 3},
		{name: "partial cell", lb: r2.Vec{X: 0, Y: 0}, rt: r2.Vec{X: 1050, Y: 399}, step: 200, columns: 6, rows: 2},
		{name: "single point", lb: r2.Vec{X: 5, Y: 5}, rt: r2.Vec{X: 5, Y: 5}, step: 10, columns: 1, rows: 1},
		{name: "inverted", lb: r2.Vec{X: 10, Y: 0}, rt: r2.Vec{X: 0, Y: 10}, step: 1, wantErr: true},
		{name: "zero step", rt: r2.Vec{X: 1, Y: 1}, step: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			columns, rows, err := Dimensions(tt.lb, tt.rt, tt.step)
			if tt.wantErr {
				if !errors.Is(err, errs.ErrValue) {
					t.Errorf("expected value error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if columns != tt.columns || rows != tt.rows {
				t.Errorf("Dimensions = %d x %d, expected %d x %d", columns, rows, tt.columns, tt.rows)
			}
		})
	}
}

func TestTopLeft(t *testing.T) {
	got := TopLeft(r2.Vec{X: 1309876.7, Y: 401234.9}, 200, 101)
	if want := (r2.Vec{X: 1309876, Y: 401234 + 20200}); got != want {
		t.Errorf("TopLeft = %v, expected %v", got, want)
	}
}
