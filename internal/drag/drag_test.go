package drag

import (
	"testing"
	"time"

	"github.com/1broseidon/tilegrid/internal/board"
	"github.com/1broseidon/tilegrid/internal/grid"
)

// fakeScheduler queues deferred functions so tests control when the
// next-turn cleanup runs relative to drop notifications.
type fakeScheduler struct {
	fns []func()
}

func (f *fakeScheduler) schedule(fn func()) {
	f.fns = append(f.fns, fn)
}

func (f *fakeScheduler) run() {
	fns := f.fns
	f.fns = nil
	for _, fn := range fns {
		fn()
	}
}

// newTestController builds a 4-column board with tiles a..d laid out on one
// row, cell size 100 and spacing 10, and a controller with a short debounce.
func newTestController(t *testing.T) (*Controller, *board.Board, *fakeScheduler) {
	t.Helper()
	b := board.New(4, 10, 10)
	b.SetAvailableWidth(4*100 + 3*10)
	specs := []board.Spec{
		{ID: "a", SpanW: 1, SpanH: 1},
		{ID: "b", SpanW: 1, SpanH: 1},
		{ID: "c", SpanW: 1, SpanH: 1},
		{ID: "d", SpanW: 1, SpanH: 1},
	}
	if err := b.SetTiles(specs); err != nil {
		t.Fatalf("SetTiles: %v", err)
	}
	c := NewController(b)
	c.SetDebounce(25 * time.Millisecond)
	sched := &fakeScheduler{}
	c.schedule = sched.schedule
	return c, b, sched
}

// pixelAt returns a pointer position inside the given cell.
func pixelAt(cell grid.Cell) (float64, float64) {
	return float64(cell.Col)*110 + 50, float64(cell.Row)*110 + 50
}

func cellOf(t *testing.T, b *board.Board, id string) grid.Cell {
	t.Helper()
	cell, ok := b.CellOf(id)
	if !ok {
		t.Fatalf("tile %s has no cell", id)
	}
	return cell
}

func waitDebounce(c *Controller) {
	time.Sleep(c.debounce*2 + 20*time.Millisecond)
}

func TestController_CancelRevertsPreview(t *testing.T) {
	c, b, sched := newTestController(t)

	c.StartDrag("a")
	c.Move(pixelAt(grid.Cell{Row: 0, Col: 3}))
	waitDebounce(c)

	if got := cellOf(t, b, "a"); got != (grid.Cell{Row: 0, Col: 3}) {
		t.Fatalf("preview not applied, a at %v", got)
	}

	c.EndDrag()
	sched.run()

	if got := cellOf(t, b, "a"); got != (grid.Cell{Row: 0, Col: 0}) {
		t.Fatalf("cancel did not revert, a at %v", got)
	}
	if c.Dragging() {
		t.Fatal("session still active after cancel")
	}
}

func TestController_DebounceCoalescesHovers(t *testing.T) {
	c, b, _ := newTestController(t)

	ticks := 0
	c.OnFeedback = func(f Feedback) {
		if f == FeedbackTick {
			ticks++
		}
	}

	c.StartDrag("a")
	cells := []grid.Cell{
		{Row: 0, Col: 1}, {Row: 0, Col: 2}, {Row: 0, Col: 3},
		{Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 2},
		{Row: 1, Col: 3}, {Row: 0, Col: 2}, {Row: 0, Col: 1},
		{Row: 1, Col: 0},
	}
	for _, cell := range cells {
		c.Move(pixelAt(cell))
	}
	waitDebounce(c)

	if ticks != 1 {
		t.Fatalf("expected a single preview tick, got %d", ticks)
	}
	if got := cellOf(t, b, "a"); got != (grid.Cell{Row: 1, Col: 0}) {
		t.Fatalf("preview should target the last hover cell, a at %v", got)
	}
}

func TestController_DropReorders(t *testing.T) {
	c, b, sched := newTestController(t)

	var oldIdx, newIdx = -1, -1
	c.OnReorder = func(o, n int) { oldIdx, newIdx = o, n }

	c.StartDrag("a")
	x, y := pixelAt(grid.Cell{Row: 0, Col: 3})
	c.Move(x, y)
	c.Drop("a", x, y)
	c.EndDrag()

	if oldIdx != 0 || newIdx != 3 {
		t.Fatalf("reorder indexes = (%d, %d), want (0, 3)", oldIdx, newIdx)
	}
	var ids []string
	for _, tile := range b.Tiles() {
		ids = append(ids, tile.ID)
	}
	want := []string{"b", "c", "d", "a"}
	for i, id := range want {
		if ids[i] != id {
			t.Fatalf("order after drop = %v, want %v", ids, want)
		}
	}

	if tile := b.Tile("a"); !tile.JustDropped {
		t.Fatal("JustDropped not set on drop")
	}
	sched.run()
	if tile := b.Tile("a"); tile.JustDropped {
		t.Fatal("JustDropped not cleared after the deferred turn")
	}
	if got := cellOf(t, b, "a"); got != (grid.Cell{Row: 0, Col: 3}) {
		t.Fatalf("drop target lost, a at %v", got)
	}
}

func TestController_DropWinsOverDragEnd(t *testing.T) {
	c, b, sched := newTestController(t)

	c.StartDrag("a")
	x, y := pixelAt(grid.Cell{Row: 0, Col: 3})
	c.Move(x, y)

	// Platforms may report the end of the gesture before the drop target
	// delivers its notification.
	c.EndDrag()
	c.Drop("a", x, y)
	sched.run()

	if got := cellOf(t, b, "a"); got != (grid.Cell{Row: 0, Col: 3}) {
		t.Fatalf("drag-end cleanup reverted a handled drop, a at %v", got)
	}
	if ids := b.Tiles(); ids[3].ID != "a" {
		t.Fatalf("drop order lost, last tile is %s", ids[3].ID)
	}
	if c.Dragging() {
		t.Fatal("session not cleared")
	}
}

func TestController_StaleDebounceCannotOverrideDrop(t *testing.T) {
	c, b, sched := newTestController(t)

	c.StartDrag("a")
	x, y := pixelAt(grid.Cell{Row: 0, Col: 1})
	c.Drop("a", x, y)

	if got := cellOf(t, b, "a"); got != (grid.Cell{Row: 0, Col: 1}) {
		t.Fatalf("drop not applied, a at %v", got)
	}

	// A debounce callback that fired just before the drop cancelled its
	// timer can still be waiting on the lock; once it runs, the session is
	// alive until the deferred drag-end cleanup. It must not repack.
	c.previewAt("a", grid.Cell{Row: 0, Col: 3})

	if got := cellOf(t, b, "a"); got != (grid.Cell{Row: 0, Col: 1}) {
		t.Fatalf("stale preview overrode the drop, a at %v", got)
	}

	c.EndDrag()
	sched.run()
	if got := cellOf(t, b, "a"); got != (grid.Cell{Row: 0, Col: 1}) {
		t.Fatalf("drop target lost after cleanup, a at %v", got)
	}
}

func TestController_LeaveBoundsReverts(t *testing.T) {
	c, b, _ := newTestController(t)

	c.StartDrag("a")
	c.Move(pixelAt(grid.Cell{Row: 1, Col: 0}))
	waitDebounce(c)

	if got := cellOf(t, b, "a"); got != (grid.Cell{Row: 1, Col: 0}) {
		t.Fatalf("preview not applied, a at %v", got)
	}

	c.LeaveBounds()

	if got := cellOf(t, b, "a"); got != (grid.Cell{Row: 0, Col: 0}) {
		t.Fatalf("leave-bounds did not revert, a at %v", got)
	}
	if !c.Dragging() {
		t.Fatal("leaving bounds must not end the session")
	}
}

func TestController_IgnoresUnknownAndStaleIDs(t *testing.T) {
	c, b, _ := newTestController(t)

	c.StartDrag("nope")
	if c.Dragging() {
		t.Fatal("unknown tile started a session")
	}

	c.StartDrag("a")
	x, y := pixelAt(grid.Cell{Row: 0, Col: 3})
	c.Drop("b", x, y)

	if got := cellOf(t, b, "b"); got != (grid.Cell{Row: 0, Col: 1}) {
		t.Fatalf("stale drop moved b to %v", got)
	}
	if !c.Dragging() {
		t.Fatal("stale drop ended the session")
	}
}

func TestController_NoGeometryIgnoresPointer(t *testing.T) {
	b := board.New(4, 10, 10)
	specs := []board.Spec{
		{ID: "a", SpanW: 1, SpanH: 1},
		{ID: "b", SpanW: 1, SpanH: 1},
	}
	if err := b.SetTiles(specs); err != nil {
		t.Fatalf("SetTiles: %v", err)
	}
	c := NewController(b)
	sched := &fakeScheduler{}
	c.schedule = sched.schedule

	c.StartDrag("a")
	c.Move(150, 50)
	c.Drop("a", 150, 50)
	c.EndDrag()
	sched.run()

	if got := cellOf(t, b, "a"); got != (grid.Cell{Row: 0, Col: 0}) {
		t.Fatalf("pointer handled without geometry, a at %v", got)
	}
}
