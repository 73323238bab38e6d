// Package drag drives the interactive reorder session: it owns the tile
// being dragged, debounces hover targets, previews packings with the tile
// pinned under the pointer, and resolves the drop/cancel race at the end of
// the gesture.
package drag

import (
	"log"
	"sync"
	"time"

	"github.com/1broseidon/tilegrid/internal/board"
	"github.com/1broseidon/tilegrid/internal/grid"
)

// DefaultDebounce is how long the pointer must rest on a new cell before a
// preview repack runs.
const DefaultDebounce = 150 * time.Millisecond

// Feedback identifies the tactile cue the host should play.
type Feedback int

const (
	// FeedbackImpact fires when a tile is picked up.
	FeedbackImpact Feedback = iota
	// FeedbackTick fires when a hover preview is applied.
	FeedbackTick
)

// Controller owns the drag session state and drives the packer against the
// board. All handlers are safe to call from the host's event context; the
// debounce timer and deferred cleanup re-enter through the same lock.
type Controller struct {
	mu       sync.Mutex
	board    *board.Board
	debounce time.Duration
	session  *session

	// schedule defers a function one scheduling turn. Drag-end cleanup runs
	// through it so a drop notification arriving after drag-end still wins.
	schedule func(func())

	// OnReorder is called after a successful, order-changing drop with the
	// tile's old and new linear indexes.
	OnReorder func(oldIndex, newIndex int)
	// OnFeedback signals tactile cues to the host.
	OnFeedback func(Feedback)
	// OnChange is called whenever tile positions were applied or reverted.
	OnChange func()
}

// session is the transient state between drag-start and drag-end/drop.
type session struct {
	tileID         string
	hover          *grid.Cell // latest live (clamped) hover target
	preview        *grid.Cell // last debounce-confirmed preview target
	snapshot       grid.Placement
	previewApplied bool
	dropHandled    bool
	timer          *time.Timer
}

// NewController creates a controller over the board with the default
// debounce interval.
func NewController(b *board.Board) *Controller {
	return &Controller{
		board:    b,
		debounce: DefaultDebounce,
		schedule: func(fn func()) { time.AfterFunc(0, fn) },
	}
}

// SetDebounce overrides the hover debounce interval.
func (c *Controller) SetDebounce(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d > 0 {
		c.debounce = d
	}
}

// Dragging reports whether a drag session is active.
func (c *Controller) Dragging() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

// StartDrag begins a session for the tile. Unknown identifiers are ignored.
// A still-pending previous session is discarded, cancelling its debounce.
func (c *Controller) StartDrag(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.board.Tile(id) == nil {
		return
	}
	c.cancelTimerLocked()

	c.session = &session{
		tileID:   id,
		snapshot: c.board.Snapshot(),
	}
	log.Printf("Drag: started %s", id)
	c.feedbackLocked(FeedbackImpact)
}

// Move handles a pointer move at pixel position (x, y) while dragging. The
// position maps to a target cell, clamped so the tile's full span stays in
// bounds. Moves before geometry has been measured are ignored.
func (c *Controller) Move(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.session
	if s == nil {
		return
	}
	t := c.board.Tile(s.tileID)
	if t == nil {
		return
	}
	cell, ok := c.board.CellAt(x, y)
	if !ok {
		return
	}
	c.hoverLocked(s, t, cell)
}

func (c *Controller) hoverLocked(s *session, t *board.Tile, raw grid.Cell) {
	cell := c.board.ClampCell(t, raw)

	// Remember the target immediately: a drop can race ahead of the debounce
	// timer and still needs the latest hover cell.
	target := cell
	s.hover = &target

	// Pointer jitter resolving to the already-previewed cell needs no
	// repack, only cancelling any debounce pending for an intermediate cell.
	if s.preview != nil && *s.preview == cell {
		if s.timer != nil {
			s.timer.Stop()
			s.timer = nil
		}
		return
	}

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(c.debounce, func() {
		c.previewAt(s.tileID, target)
	})
}

// previewAt runs when the hover debounce fires: repack with the tile pinned
// at the debounced cell and apply the result. A failed pack leaves the
// current layout untouched.
func (c *Controller) previewAt(id string, cell grid.Cell) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.session
	if s == nil || s.tileID != id {
		return
	}
	// Stop cannot recall a callback already fired and waiting on the lock;
	// a committed drop must not be overwritten by its stale hover preview.
	if s.dropHandled {
		return
	}
	if c.board.Tile(id) == nil {
		return
	}

	placement, err := c.board.PackPinned(id, cell)
	if err != nil {
		log.Printf("Drag: preview at %v infeasible: %v", cell, err)
		return
	}
	c.board.Apply(placement)
	target := cell
	s.preview = &target
	s.previewApplied = true
	c.feedbackLocked(FeedbackTick)
	c.changedLocked()
}

// Drop resolves the drop target, repacks with the tile pinned there, and on
// success re-sequences the tile order and reports the index change. A drop
// whose pack fails is a no-op: the grid stays as last applied.
func (c *Controller) Drop(id string, x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.session
	if s == nil || s.tileID != id {
		return
	}
	c.cancelTimerLocked()

	t := c.board.Tile(id)
	if t == nil {
		return
	}

	// Target priority: live hover cell, then the debounce-confirmed preview
	// cell, then the cell under the pointer itself.
	var cell grid.Cell
	switch {
	case s.hover != nil:
		cell = *s.hover
	case s.preview != nil:
		cell = *s.preview
	default:
		at, ok := c.board.CellAt(x, y)
		if !ok {
			return
		}
		cell = at
	}
	cell = c.board.ClampCell(t, cell)

	oldIndex := c.board.IndexOf(id)
	placement, err := c.board.PackPinned(id, cell)
	if err != nil {
		log.Printf("Drag: drop of %s at %v infeasible: %v", id, cell, err)
		return
	}

	newIndex := c.board.RankIn(placement, id)
	c.board.Resequence(placement)
	c.board.Apply(placement)
	s.dropHandled = true

	t.JustDropped = true
	c.schedule(func() { c.clearJustDropped(id) })

	log.Printf("Drag: dropped %s at %v (%d -> %d)", id, cell, oldIndex, newIndex)
	if oldIndex != newIndex && c.OnReorder != nil {
		c.OnReorder(oldIndex, newIndex)
	}
	c.changedLocked()
}

func (c *Controller) clearJustDropped(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t := c.board.Tile(id); t != nil {
		t.JustDropped = false
	}
}

// EndDrag handles the end of the pointer gesture. The platform may deliver
// it before the drop is processed, so the destructive cleanup is deferred
// one scheduling turn: if a drop marked the session handled in the
// meantime, nothing is reverted; otherwise the drag was cancelled and the
// pre-drag snapshot is restored.
func (c *Controller) EndDrag() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return
	}
	c.cancelTimerLocked()
	c.schedule(c.finishDrag)
}

func (c *Controller) finishDrag() {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.session
	if s == nil {
		return
	}
	c.session = nil

	if s.dropHandled {
		return
	}

	log.Printf("Drag: cancelled %s", s.tileID)
	if s.previewApplied {
		c.board.Restore(s.snapshot)
		c.changedLocked()
	}
}

// LeaveBounds reverts the live preview as soon as the pointer leaves the
// grid, without waiting for drag-end. The session stays active so dragging
// back in resumes previewing.
func (c *Controller) LeaveBounds() {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.session
	if s == nil {
		return
	}
	c.cancelTimerLocked()
	s.hover = nil
	s.preview = nil

	if s.previewApplied {
		s.previewApplied = false
		c.board.Restore(s.snapshot)
		c.changedLocked()
	}
}

// Close cancels any pending debounce; call on host teardown so a stale
// timer cannot repack against discarded state.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelTimerLocked()
	c.session = nil
}

func (c *Controller) cancelTimerLocked() {
	if c.session != nil && c.session.timer != nil {
		c.session.timer.Stop()
		c.session.timer = nil
	}
}

func (c *Controller) feedbackLocked(f Feedback) {
	if c.OnFeedback != nil {
		c.OnFeedback(f)
	}
}

func (c *Controller) changedLocked() {
	if c.OnChange != nil {
		c.OnChange()
	}
}
