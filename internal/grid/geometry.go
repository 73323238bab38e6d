package grid

import "math"

// Rect is a pixel-space rectangle produced by layout.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether the point (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Metrics holds the pixel parameters of a grid: column count, square cell
// edge, and inter-cell spacing. A zero CellSize means pixel geometry has not
// been measured yet; cell math that needs it is skipped by callers.
type Metrics struct {
	Columns  int
	CellSize float64
	SpacingX float64
	SpacingY float64
}

// CellSizeFor derives the square cell edge from the host's available width:
// (width - (columns-1)*spacing) / columns. Returns 0 when the width cannot
// accommodate the spacing.
func CellSizeFor(availableWidth float64, columns int, spacingX float64) float64 {
	if columns < 1 {
		return 0
	}
	size := (availableWidth - float64(columns-1)*spacingX) / float64(columns)
	if size <= 0 {
		return 0
	}
	return size
}

// Valid reports whether pixel geometry has been measured.
func (m Metrics) Valid() bool {
	return m.Columns > 0 && m.CellSize > 0
}

func span(n int, cell, spacing float64) float64 {
	if n < 1 {
		return 0
	}
	return float64(n)*cell + float64(n-1)*spacing
}

// CellOrigin returns the top-left pixel coordinate of a cell.
func (m Metrics) CellOrigin(cell Cell) (x, y float64) {
	x = float64(cell.Col) * (m.CellSize + m.SpacingX)
	y = float64(cell.Row) * (m.CellSize + m.SpacingY)
	return x, y
}

// SpanWidth returns the pixel width of n columns including inner spacing.
func (m Metrics) SpanWidth(n int) float64 {
	return span(n, m.CellSize, m.SpacingX)
}

// SpanHeight returns the pixel height of n rows including inner spacing.
func (m Metrics) SpanHeight(n int) float64 {
	return span(n, m.CellSize, m.SpacingY)
}

// RectFor returns the pixel rectangle of a w x h span anchored at cell.
func (m Metrics) RectFor(cell Cell, w, h int) Rect {
	x, y := m.CellOrigin(cell)
	return Rect{X: x, Y: y, Width: m.SpanWidth(w), Height: m.SpanHeight(h)}
}

// GridHeight returns the total pixel height of a grid with the given number
// of rows.
func (m Metrics) GridHeight(rows int) float64 {
	return span(rows, m.CellSize, m.SpacingY)
}

// CellAt maps a pointer position to the cell under it. Points outside the
// grid clamp to the nearest edge cell rather than failing: pointer positions
// during a drag routinely land slightly past the last rendered cell, and
// clamping keeps the drag preview responsive at the edges. ok is false until
// pixel geometry has been measured.
func (m Metrics) CellAt(x, y float64, rowCount int) (Cell, bool) {
	if !m.Valid() {
		return Cell{}, false
	}
	col := int(math.Floor(x / (m.CellSize + m.SpacingX)))
	row := int(math.Floor(y / (m.CellSize + m.SpacingY)))
	if col < 0 {
		col = 0
	}
	if col > m.Columns-1 {
		col = m.Columns - 1
	}
	maxRow := rowCount - 1
	if maxRow < 0 {
		maxRow = 0
	}
	if row < 0 {
		row = 0
	}
	if row > maxRow {
		row = maxRow
	}
	return Cell{Row: row, Col: col}, true
}
