package grid

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCellSizeFor(t *testing.T) {
	tests := []struct {
		name    string
		width   float64
		columns int
		spacing float64
		want    float64
	}{
		{"even split", 310, 3, 5, 100},
		{"no spacing", 300, 3, 0, 100},
		{"single column", 120, 1, 8, 120},
		{"too tight", 10, 4, 10, 0},
		{"zero columns", 100, 0, 0, 0},
	}

	for _, tt := range tests {
		if got := CellSizeFor(tt.width, tt.columns, tt.spacing); !almostEqual(got, tt.want) {
			t.Fatalf("%s: CellSizeFor(%v,%d,%v) = %v, want %v", tt.name, tt.width, tt.columns, tt.spacing, got, tt.want)
		}
	}
}

func TestMetrics_OriginAndSpan(t *testing.T) {
	m := Metrics{Columns: 4, CellSize: 50, SpacingX: 10, SpacingY: 6}

	x, y := m.CellOrigin(Cell{Row: 2, Col: 3})
	if !almostEqual(x, 180) || !almostEqual(y, 112) {
		t.Fatalf("CellOrigin = (%v, %v), want (180, 112)", x, y)
	}

	// n*cell + (n-1)*spacing
	if got := m.SpanWidth(2); !almostEqual(got, 110) {
		t.Fatalf("SpanWidth(2) = %v, want 110", got)
	}
	if got := m.SpanHeight(3); !almostEqual(got, 162) {
		t.Fatalf("SpanHeight(3) = %v, want 162", got)
	}
	if got := m.SpanWidth(0); !almostEqual(got, 0) {
		t.Fatalf("SpanWidth(0) = %v, want 0", got)
	}
}

func TestMetrics_RectFor(t *testing.T) {
	m := Metrics{Columns: 3, CellSize: 100, SpacingX: 10, SpacingY: 10}

	r := m.RectFor(Cell{Row: 1, Col: 2}, 1, 2)
	want := Rect{X: 220, Y: 110, Width: 100, Height: 210}
	if r != want {
		t.Fatalf("RectFor = %+v, want %+v", r, want)
	}
}

func TestMetrics_GridHeight(t *testing.T) {
	m := Metrics{Columns: 3, CellSize: 40, SpacingY: 4}

	if got := m.GridHeight(3); !almostEqual(got, 128) {
		t.Fatalf("GridHeight(3) = %v, want 128", got)
	}
	if got := m.GridHeight(0); !almostEqual(got, 0) {
		t.Fatalf("GridHeight(0) = %v, want 0", got)
	}
}

func TestMetrics_CellAt(t *testing.T) {
	m := Metrics{Columns: 3, CellSize: 100, SpacingX: 10, SpacingY: 10}

	tests := []struct {
		name     string
		x, y     float64
		rowCount int
		want     Cell
	}{
		{"origin", 0, 0, 2, Cell{0, 0}},
		{"inside second cell", 115, 5, 2, Cell{0, 1}},
		{"second row", 5, 111, 2, Cell{1, 0}},
		{"clamp right", 1000, 0, 2, Cell{0, 2}},
		{"clamp left", -50, 0, 2, Cell{0, 0}},
		{"clamp bottom", 0, 5000, 2, Cell{1, 0}},
		{"clamp top", 0, -20, 2, Cell{0, 0}},
		{"zero rows still yields row 0", 0, 500, 0, Cell{0, 0}},
	}

	for _, tt := range tests {
		got, ok := m.CellAt(tt.x, tt.y, tt.rowCount)
		if !ok {
			t.Fatalf("%s: CellAt reported no geometry", tt.name)
		}
		if got != tt.want {
			t.Fatalf("%s: CellAt(%v,%v) = %v, want %v", tt.name, tt.x, tt.y, got, tt.want)
		}
	}
}

func TestMetrics_CellAtWithoutGeometry(t *testing.T) {
	var m Metrics

	if _, ok := m.CellAt(10, 10, 1); ok {
		t.Fatal("expected CellAt to fail before geometry is measured")
	}
}
