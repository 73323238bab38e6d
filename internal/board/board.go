// Package board holds the mutable tile set behind the grid: the caller's
// tile order, the current placement, and the pixel geometry derived from the
// host's measured width. It is not safe for concurrent use; callers
// serialize access (the drag controller and the IPC server each own a lock).
package board

import (
	"errors"
	"fmt"
	"sort"

	"github.com/1broseidon/tilegrid/internal/grid"
)

// ErrTileNotFound reports a tile identifier that is no longer present.
var ErrTileNotFound = errors.New("tile not found")

// Tile is one rectangular unit of the grid. SpanW/SpanH are inputs; the
// pixel rect is an output of layout and only valid once HasRect is set.
// A tile whose identifier or span changes is treated as a new entity.
type Tile struct {
	ID      string
	SpanW   int
	SpanH   int
	Payload any

	Rect    grid.Rect
	HasRect bool

	// JustDropped marks the tile for one scheduling turn after a successful
	// drop so the host can suppress its fade-in exactly once.
	JustDropped bool
}

// Spec describes a tile as supplied by the host. Payload is opaque and
// passed through untouched.
type Spec struct {
	ID      string
	SpanW   int
	SpanH   int
	Payload any
}

// Board owns the ordered tile list and the placement currently applied to it.
type Board struct {
	tiles     []*Tile
	columns   int
	metrics   grid.Metrics
	placement grid.Placement
}

// New creates an empty board. Spacing is fixed at construction; the cell
// size stays zero until the host reports its available width.
func New(columns int, spacingX, spacingY float64) *Board {
	return &Board{
		columns: columns,
		metrics: grid.Metrics{Columns: columns, SpacingX: spacingX, SpacingY: spacingY},
	}
}

// Columns returns the current column count.
func (b *Board) Columns() int {
	return b.columns
}

// Metrics returns the current pixel geometry.
func (b *Board) Metrics() grid.Metrics {
	return b.metrics
}

// SetColumns changes the column count and reflows. On packing failure the
// previous column count and layout are kept.
func (b *Board) SetColumns(columns int) error {
	if columns == b.columns {
		return nil
	}
	placement, err := grid.Pack(b.items(), columns, nil)
	if err != nil {
		return err
	}
	b.columns = columns
	b.metrics.Columns = columns
	b.Apply(placement)
	return nil
}

// SetAvailableWidth derives the square cell size from the host's measured
// width and reapplies pixel rects to the current placement.
func (b *Board) SetAvailableWidth(width float64) {
	b.metrics.CellSize = grid.CellSizeFor(width, b.columns, b.metrics.SpacingX)
	if b.placement != nil {
		b.applyRects()
	}
}

// SetTiles reconciles the host's new tile list against the existing tiles:
// a matching identifier with an unchanged span keeps its pixel position (so
// the host can animate it from where it was) and swaps only the payload;
// anything else is a fresh entity with no prior position. It then reflows.
// On packing failure the tile list is updated but no positions change.
func (b *Board) SetTiles(specs []Spec) error {
	existing := make(map[string]*Tile, len(b.tiles))
	for _, t := range b.tiles {
		existing[t.ID] = t
	}

	tiles := make([]*Tile, 0, len(specs))
	for _, s := range specs {
		if old, ok := existing[s.ID]; ok && old.SpanW == s.SpanW && old.SpanH == s.SpanH {
			old.Payload = s.Payload
			tiles = append(tiles, old)
			continue
		}
		tiles = append(tiles, &Tile{ID: s.ID, SpanW: s.SpanW, SpanH: s.SpanH, Payload: s.Payload})
	}
	b.tiles = tiles

	return b.Reflow()
}

// AddTile appends a tile and reflows. A duplicate identifier or a span that
// cannot fit leaves the board unchanged.
func (b *Board) AddTile(s Spec) error {
	if b.Tile(s.ID) != nil {
		return fmt.Errorf("tile %s already exists", s.ID)
	}
	b.tiles = append(b.tiles, &Tile{ID: s.ID, SpanW: s.SpanW, SpanH: s.SpanH, Payload: s.Payload})
	if err := b.Reflow(); err != nil {
		b.tiles = b.tiles[:len(b.tiles)-1]
		return err
	}
	return nil
}

// RemoveTile removes the tile with the given identifier and reflows.
func (b *Board) RemoveTile(id string) error {
	i := b.IndexOf(id)
	if i < 0 {
		return ErrTileNotFound
	}
	b.tiles = append(b.tiles[:i], b.tiles[i+1:]...)
	delete(b.placement, id)
	return b.Reflow()
}

// Tiles returns the tiles in their current order. The slice is a copy; the
// tiles themselves are shared.
func (b *Board) Tiles() []*Tile {
	out := make([]*Tile, len(b.tiles))
	copy(out, b.tiles)
	return out
}

// Tile returns the tile with the given identifier, or nil.
func (b *Board) Tile(id string) *Tile {
	for _, t := range b.tiles {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// IndexOf returns the tile's position in the current order, or -1.
func (b *Board) IndexOf(id string) int {
	for i, t := range b.tiles {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (b *Board) items() []grid.Item {
	items := make([]grid.Item, len(b.tiles))
	for i, t := range b.tiles {
		items[i] = grid.Item{ID: t.ID, W: t.SpanW, H: t.SpanH}
	}
	return items
}

// Reflow packs the tiles with no pins and applies the result. On failure
// the current layout is left untouched.
func (b *Board) Reflow() error {
	placement, err := grid.Pack(b.items(), b.columns, nil)
	if err != nil {
		return err
	}
	b.Apply(placement)
	return nil
}

// PackPinned packs the current tiles with one tile pinned at cell, without
// applying the result.
func (b *Board) PackPinned(id string, cell grid.Cell) (grid.Placement, error) {
	return grid.Pack(b.items(), b.columns, map[string]grid.Cell{id: cell})
}

// Apply installs a placement and updates pixel rects when geometry is known.
// Placements apply atomically: callers never pass partial results.
func (b *Board) Apply(placement grid.Placement) {
	b.placement = placement
	b.applyRects()
}

func (b *Board) applyRects() {
	if !b.metrics.Valid() {
		return
	}
	for _, t := range b.tiles {
		cell, ok := b.placement[t.ID]
		if !ok {
			continue
		}
		t.Rect = b.metrics.RectFor(cell, t.SpanW, t.SpanH)
		t.HasRect = true
	}
}

// Placement returns the currently applied placement (nil before the first
// successful pack).
func (b *Board) Placement() grid.Placement {
	return b.placement
}

// Snapshot returns a copy of the current placement for later Restore.
func (b *Board) Snapshot() grid.Placement {
	return b.placement.Clone()
}

// Restore reapplies a snapshot taken earlier.
func (b *Board) Restore(snapshot grid.Placement) {
	b.Apply(snapshot)
}

// CellOf returns the placed cell of a tile.
func (b *Board) CellOf(id string) (grid.Cell, bool) {
	cell, ok := b.placement[id]
	return cell, ok
}

// Rows returns the number of rows spanned by the current placement.
func (b *Board) Rows() int {
	rows := 0
	for _, t := range b.tiles {
		cell, ok := b.placement[t.ID]
		if !ok {
			continue
		}
		if bottom := cell.Row + t.SpanH; bottom > rows {
			rows = bottom
		}
	}
	return rows
}

// Height returns the total pixel height of the grid for the host container.
func (b *Board) Height() float64 {
	return b.metrics.GridHeight(b.Rows())
}

// CellAt maps a pointer position to the cell under it, clamped to the grid.
func (b *Board) CellAt(x, y float64) (grid.Cell, bool) {
	return b.metrics.CellAt(x, y, b.Rows())
}

// ClampCell clamps a target cell so the tile's full span stays in bounds:
// the column to [0, columns-span] and the row to [0, rows]. Row equal to the
// current row count targets the first empty row, so an oversized row from a
// caller means "move to the bottom" rather than a far-away pin.
func (b *Board) ClampCell(t *Tile, cell grid.Cell) grid.Cell {
	maxCol := b.columns - t.SpanW
	if cell.Col > maxCol {
		cell.Col = maxCol
	}
	if cell.Col < 0 {
		cell.Col = 0
	}
	if maxRow := b.Rows(); cell.Row > maxRow {
		cell.Row = maxRow
	}
	if cell.Row < 0 {
		cell.Row = 0
	}
	return cell
}

// RankIn returns the tile's rank in the placement's row-major order.
func (b *Board) RankIn(placement grid.Placement, id string) int {
	target, ok := placement[id]
	if !ok {
		return -1
	}
	rank := 0
	for other, cell := range placement {
		if other != id && cell.Before(target) {
			rank++
		}
	}
	return rank
}

// Resequence reorders the tile list to match the placement's row-major
// order, keeping the caller-visible linear order consistent with what is on
// screen. Tiles missing from the placement keep their relative position at
// the end.
func (b *Board) Resequence(placement grid.Placement) {
	sort.SliceStable(b.tiles, func(i, j int) bool {
		ci, iok := placement[b.tiles[i].ID]
		cj, jok := placement[b.tiles[j].ID]
		if iok != jok {
			return iok
		}
		if !iok {
			return false
		}
		return ci.Before(cj)
	})
}

// MoveTile pins the tile at the given cell and repacks, re-sequencing the
// order on success. It returns the tile's old and new linear indexes. This
// is the non-interactive counterpart of a drag drop, used by the IPC and
// MCP surfaces.
func (b *Board) MoveTile(id string, cell grid.Cell) (oldIndex, newIndex int, err error) {
	t := b.Tile(id)
	if t == nil {
		return -1, -1, ErrTileNotFound
	}
	oldIndex = b.IndexOf(id)

	placement, err := b.PackPinned(id, b.ClampCell(t, cell))
	if err != nil {
		return oldIndex, oldIndex, err
	}
	newIndex = b.RankIn(placement, id)
	b.Resequence(placement)
	b.Apply(placement)
	return oldIndex, newIndex, nil
}
