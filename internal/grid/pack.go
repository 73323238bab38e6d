package grid

import "errors"

// Packing failure modes. All of them mean "no placement": the caller keeps
// its previous layout and no partial result is ever returned.
var (
	ErrColumns     = errors.New("column count out of range")
	ErrTooNarrow   = errors.New("grid narrower than the widest tile")
	ErrPinConflict = errors.New("pinned tile does not fit at its cell")
	ErrNoFit       = errors.New("no free cell found for tile")
)

// Cell identifies a grid position. Cells order row-major: by row first,
// then by column.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Before reports whether c precedes other in row-major order.
func (c Cell) Before(other Cell) bool {
	if c.Row != other.Row {
		return c.Row < other.Row
	}
	return c.Col < other.Col
}

// Item is a packable tile: a stable identity plus its span in cells.
type Item struct {
	ID string
	W  int
	H  int
}

// Placement maps every packed tile's ID to the cell holding its top-left
// corner.
type Placement map[string]Cell

// Clone returns an independent copy of the placement.
func (p Placement) Clone() Placement {
	out := make(Placement, len(p))
	for id, cell := range p {
		out[id] = cell
	}
	return out
}

// Pack computes a dense first-fit placement of items over a columns-wide
// grid. Pinned items are placed first, in input order, at exactly their
// requested cells; the remaining items are placed in input order at the
// first free cell that fits, scanning row-major. The search is bounded by
// ceil(totalArea/columns)+len(items) rows, which is loose but guarantees
// termination; a pin whose span ends past that bound fails with
// ErrPinConflict.
//
// Pack either places every item or fails; it never returns a partial
// placement.
func Pack(items []Item, columns int, pinned map[string]Cell) (Placement, error) {
	if columns < 1 || columns > MaxColumns {
		return nil, ErrColumns
	}

	area := 0
	widest := 0
	for _, it := range items {
		area += it.W * it.H
		if it.W > widest {
			widest = it.W
		}
	}
	if widest > columns {
		return nil, ErrTooNarrow
	}

	bound := (area+columns-1)/columns + len(items)
	occ := NewOccupancy(columns)
	out := make(Placement, len(items))

	for _, it := range items {
		cell, ok := pinned[it.ID]
		if !ok {
			continue
		}
		// A pin past the search bound would force the occupancy table to
		// grow one row mask per row up to it; rows are caller-supplied, so
		// treat it like any other out-of-bounds pin.
		if cell.Row+it.H > bound {
			return nil, ErrPinConflict
		}
		if !occ.Fits(cell.Row, cell.Col, it.W, it.H) {
			return nil, ErrPinConflict
		}
		occ.Place(cell.Row, cell.Col, it.W, it.H)
		out[it.ID] = cell
	}

	for _, it := range items {
		if _, ok := pinned[it.ID]; ok {
			continue
		}
		placed := false
		for r, c := range occ.Free(bound) {
			if occ.Fits(r, c, it.W, it.H) {
				occ.Place(r, c, it.W, it.H)
				out[it.ID] = Cell{Row: r, Col: c}
				placed = true
				break
			}
		}
		if !placed {
			return nil, ErrNoFit
		}
	}

	return out, nil
}
