package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

type border struct {
	tl, tr, bl, br, h, v rune
}

var (
	tileBorder = border{tl: '╭', tr: '╮', bl: '╰', br: '╯', h: '─', v: '│'}
	dragBorder = border{tl: '╔', tr: '╗', bl: '╚', br: '╝', h: '═', v: '║'}
)

// View implements tea.Model.
func (m *model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	title := titleStyle.Render("tilegrid")
	status := statusStyle.Render(fmt.Sprintf(" preset:%s  columns:%d  tiles:%d",
		m.activePreset, m.board.Columns(), len(m.board.Tiles())))
	bar := title + status
	if m.lastErr != "" {
		bar += errStyle.Render("  " + m.lastErr)
	}

	rows := int(math.Ceil(m.board.Height()/yScale)) + 1
	maxRows := m.height - gridTop - 1
	if rows > maxRows {
		rows = maxRows
	}
	if rows < 0 {
		rows = 0
	}
	canvas := m.renderCanvas(rows)

	help := helpStyle.Render(" drag tiles with the mouse • a add • x remove • +/- columns • tab preset • r reset • q quit")

	var sb strings.Builder
	sb.WriteString(bar)
	sb.WriteString("\n\n")
	for _, line := range canvas {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString(help)
	return sb.String()
}

// renderCanvas draws every placed tile as a box on a rune canvas. The
// dragged tile is drawn last (on top) with a double border.
func (m *model) renderCanvas(rows int) []string {
	cols := m.width
	canvas := make([][]rune, rows)
	for i := range canvas {
		canvas[i] = make([]rune, cols)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	tiles := m.board.Tiles()
	for _, t := range tiles {
		if t.ID != m.dragging {
			m.drawTile(canvas, t.ID, tileBorder)
		}
	}
	if m.dragging != "" {
		m.drawTile(canvas, m.dragging, dragBorder)
	}

	lines := make([]string, rows)
	for i, row := range canvas {
		lines[i] = strings.TrimRight(string(row), " ")
	}
	return lines
}

func (m *model) drawTile(canvas [][]rune, id string, b border) {
	t := m.board.Tile(id)
	if t == nil || !t.HasRect {
		return
	}

	x := 1 + int(math.Round(t.Rect.X))
	y := int(math.Round(t.Rect.Y / yScale))
	w := int(math.Round(t.Rect.Width))
	h := int(math.Round(t.Rect.Height / yScale))
	if h < 2 {
		h = 2
	}
	if w < 2 || y >= len(canvas) {
		return
	}

	set := func(row, col int, r rune) {
		if row >= 0 && row < len(canvas) && col >= 0 && col < len(canvas[row]) {
			canvas[row][col] = r
		}
	}

	for c := x + 1; c < x+w-1; c++ {
		set(y, c, b.h)
		set(y+h-1, c, b.h)
	}
	for r := y + 1; r < y+h-1; r++ {
		set(r, x, b.v)
		set(r, x+w-1, b.v)
	}
	set(y, x, b.tl)
	set(y, x+w-1, b.tr)
	set(y+h-1, x, b.bl)
	set(y+h-1, x+w-1, b.br)

	label := t.ID
	if s, ok := t.Payload.(string); ok && s != "" {
		label = s
	}
	if len(label) > w-4 {
		if w <= 4 {
			return
		}
		label = label[:w-4]
	}
	lr := y + h/2
	lc := x + (w-len(label))/2
	for i, r := range label {
		set(lr, lc+i, r)
	}
}
