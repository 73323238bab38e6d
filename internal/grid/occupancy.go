package grid

import "iter"

// MaxColumns bounds the grid width so a full row's occupancy fits in a
// single uint64 bitmask.
const MaxColumns = 62

// Occupancy tracks which cells of a fixed-width grid are covered by placed
// tiles. Each row is a bitmask; rows grow lazily and a row index beyond the
// current table is implicitly empty. An Occupancy is built fresh for every
// packing attempt and discarded afterwards.
type Occupancy struct {
	cols   int
	rows   []uint64
	maxRow int
}

// NewOccupancy creates an empty occupancy table with the given column count.
// The caller is responsible for keeping cols within [1, MaxColumns].
func NewOccupancy(cols int) *Occupancy {
	return &Occupancy{cols: cols}
}

// Rows returns the number of rows touched by at least one placement.
func (o *Occupancy) Rows() int {
	return o.maxRow
}

func spanMask(col, w int) uint64 {
	return ((uint64(1) << w) - 1) << col
}

// Fits reports whether a w x h span with its top-left corner at (row, col)
// stays within the column bounds and covers no occupied cell.
func (o *Occupancy) Fits(row, col, w, h int) bool {
	if row < 0 || col < 0 || col+w > o.cols {
		return false
	}
	mask := spanMask(col, w)
	for r := row; r < row+h; r++ {
		if r >= len(o.rows) {
			// Rows past the table are empty.
			break
		}
		if o.rows[r]&mask != 0 {
			return false
		}
	}
	return true
}

// Place marks the span's cells occupied, growing the row table as needed.
// The caller must have checked Fits first; Place performs no validation.
func (o *Occupancy) Place(row, col, w, h int) {
	for len(o.rows) < row+h {
		o.rows = append(o.rows, 0)
	}
	mask := spanMask(col, w)
	for r := row; r < row+h; r++ {
		o.rows[r] |= mask
	}
	if row+h > o.maxRow {
		o.maxRow = row + h
	}
}

// Free yields every unoccupied cell in row-major order from row 0 through
// rowLimit inclusive. A fully occupied row is skipped with a single mask
// comparison. Each call produces a fresh scan over the current state.
func (o *Occupancy) Free(rowLimit int) iter.Seq2[int, int] {
	full := spanMask(0, o.cols)
	return func(yield func(int, int) bool) {
		for r := 0; r <= rowLimit; r++ {
			var bits uint64
			if r < len(o.rows) {
				bits = o.rows[r]
			}
			if bits == full {
				continue
			}
			for c := 0; c < o.cols; c++ {
				if bits&(1<<c) != 0 {
					continue
				}
				if !yield(r, c) {
					return
				}
			}
		}
	}
}
