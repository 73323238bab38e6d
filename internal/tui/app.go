// Package tui is an interactive demo of the grid engine: tiles are drawn as
// boxes in the terminal and can be dragged with the mouse to reorder them.
package tui

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/tilegrid/internal/board"
	"github.com/1broseidon/tilegrid/internal/config"
	"github.com/1broseidon/tilegrid/internal/drag"
)

// Terminal cells are roughly twice as tall as wide; the board works in a
// square pixel space and the view maps one grid unit to one column and
// yScale rows of it to one terminal row.
const yScale = 2.0

const gridTop = 2 // rows used by the status bar above the grid

type tickMsg time.Time

// model is the root bubbletea model for the demo.
type model struct {
	cfg        *config.Config
	board      *board.Board
	controller *drag.Controller

	presets      []string
	activePreset string
	nextTileNum  int
	dragging     string
	lastErr      string

	width  int
	height int
}

func newModel(cfg *config.Config, preset string) (*model, error) {
	tiles, ok := cfg.Presets[preset]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q", preset)
	}

	b := board.New(cfg.Columns, 1, 1)
	specs := make([]board.Spec, len(tiles))
	for i, t := range tiles {
		specs[i] = board.Spec{ID: t.ID, SpanW: t.SpanW, SpanH: t.SpanH, Payload: t.Label}
	}
	if err := b.SetTiles(specs); err != nil {
		return nil, fmt.Errorf("failed to lay out preset %q: %w", preset, err)
	}

	presets := make([]string, 0, len(cfg.Presets))
	for name := range cfg.Presets {
		presets = append(presets, name)
	}
	sort.Strings(presets)

	m := &model{
		cfg:          cfg,
		board:        b,
		presets:      presets,
		activePreset: preset,
		nextTileNum:  len(tiles) + 1,
	}

	c := drag.NewController(b)
	if cfg.DebounceMs > 0 {
		c.SetDebounce(time.Duration(cfg.DebounceMs) * time.Millisecond)
	}
	m.controller = c

	return m, nil
}

func tick() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init implements tea.Model.
func (m *model) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		// The drag controller mutates the board from timer goroutines;
		// the periodic tick keeps the view in sync with it.
		return m, tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.board.SetAvailableWidth(float64(msg.Width - 2))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	}

	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.lastErr = ""
	switch msg.String() {
	case "q", "ctrl+c":
		m.controller.Close()
		return m, tea.Quit
	case "a":
		id := fmt.Sprintf("tile%d", m.nextTileNum)
		if err := m.board.AddTile(board.Spec{ID: id, SpanW: 1, SpanH: 1}); err != nil {
			m.lastErr = err.Error()
		} else {
			m.nextTileNum++
		}
	case "x":
		tiles := m.board.Tiles()
		if len(tiles) > 0 {
			last := tiles[len(tiles)-1]
			if err := m.board.RemoveTile(last.ID); err != nil {
				m.lastErr = err.Error()
			}
		}
	case "+", "=":
		if err := m.board.SetColumns(m.board.Columns() + 1); err != nil {
			m.lastErr = err.Error()
		}
	case "-":
		if err := m.board.SetColumns(m.board.Columns() - 1); err != nil {
			m.lastErr = err.Error()
		}
	case "r":
		m.applyPreset(m.activePreset)
	case "tab":
		m.applyPreset(m.nextPreset())
	}
	return m, nil
}

func (m *model) nextPreset() string {
	for i, name := range m.presets {
		if name == m.activePreset {
			return m.presets[(i+1)%len(m.presets)]
		}
	}
	return m.activePreset
}

func (m *model) applyPreset(name string) {
	tiles, ok := m.cfg.Presets[name]
	if !ok {
		return
	}
	specs := make([]board.Spec, len(tiles))
	for i, t := range tiles {
		specs[i] = board.Spec{ID: t.ID, SpanW: t.SpanW, SpanH: t.SpanH, Payload: t.Label}
	}
	if err := m.board.SetTiles(specs); err != nil {
		m.lastErr = err.Error()
		return
	}
	m.activePreset = name
	m.nextTileNum = len(tiles) + 1
}

// pixelAt maps a terminal position to the board's pixel space.
func (m *model) pixelAt(msg tea.MouseMsg) (float64, float64) {
	return float64(msg.X - 1), float64(msg.Y-gridTop) * yScale
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	if msg.Button != tea.MouseButtonLeft && msg.Button != tea.MouseButtonNone {
		return
	}
	x, y := m.pixelAt(msg)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		if t := m.tileAt(x, y); t != nil {
			m.dragging = t.ID
			m.controller.StartDrag(t.ID)
		}

	case tea.MouseActionMotion:
		if m.dragging == "" {
			return
		}
		if y < 0 || y >= m.board.Height() {
			m.controller.LeaveBounds()
			return
		}
		m.controller.Move(x, y)

	case tea.MouseActionRelease:
		if m.dragging == "" {
			return
		}
		if y >= 0 && y < m.board.Height() {
			m.controller.Drop(m.dragging, x, y)
		}
		m.controller.EndDrag()
		m.dragging = ""
	}
}

func (m *model) tileAt(x, y float64) *board.Tile {
	for _, t := range m.board.Tiles() {
		if t.HasRect && t.Rect.Contains(x, y) {
			return t
		}
	}
	return nil
}

// Run starts the interactive demo.
func Run(cfg *config.Config, preset string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("demo requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	if preset == "" {
		preset = cfg.DefaultPreset
	}
	m, err := newModel(cfg, preset)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err = p.Run()
	return err
}
