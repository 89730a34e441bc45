package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// cell is one character of the canvas surface with its styling.
type cell struct {
	ch      rune
	color   string // hex color, "" for the terminal default
	bold    bool
	inverse bool
}

// cellBuffer is a paintable character grid. Cards are painted back to front;
// later paints overwrite earlier ones, which is what gives overlapping cards
// their z-order.
type cellBuffer struct {
	width  int
	height int
	cells  [][]cell
}

func newCellBuffer(width, height int) *cellBuffer {
	cells := make([][]cell, height)
	for y := range cells {
		cells[y] = make([]cell, width)
		for x := range cells[y] {
			cells[y][x] = cell{ch: ' '}
		}
	}
	return &cellBuffer{width: width, height: height, cells: cells}
}

func (b *cellBuffer) set(x, y int, c cell) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return
	}
	b.cells[y][x] = c
}

// drawBox paints a bordered rectangle, clearing its interior.
func (b *cellBuffer) drawBox(x, y, w, h int, color string, bold bool) {
	if w < 2 || h < 2 {
		return
	}
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			var ch rune
			switch {
			case dy == 0 && dx == 0:
				ch = '┌'
			case dy == 0 && dx == w-1:
				ch = '┐'
			case dy == h-1 && dx == 0:
				ch = '└'
			case dy == h-1 && dx == w-1:
				ch = '┘'
			case dy == 0 || dy == h-1:
				ch = '─'
			case dx == 0 || dx == w-1:
				ch = '│'
			default:
				ch = ' '
			}
			b.set(x+dx, y+dy, cell{ch: ch, color: color, bold: bold})
		}
	}
}

// drawText paints a string starting at (x,y), truncated at maxW characters.
func (b *cellBuffer) drawText(x, y int, text, color string, bold bool, maxW int) {
	i := 0
	for _, r := range text {
		if i >= maxW {
			break
		}
		b.set(x+i, y, cell{ch: r, color: color, bold: bold})
		i++
	}
}

// String renders the buffer, grouping runs of identically styled cells so
// each line carries a handful of escape sequences rather than one per cell.
func (b *cellBuffer) String() string {
	var out strings.Builder
	for y := 0; y < b.height; y++ {
		x := 0
		for x < b.width {
			run := b.cells[y][x]
			var text strings.Builder
			for x < b.width && sameStyle(b.cells[y][x], run) {
				text.WriteRune(b.cells[y][x].ch)
				x++
			}
			out.WriteString(styleRun(run, text.String()))
		}
		if y < b.height-1 {
			out.WriteString("\n")
		}
	}
	return out.String()
}

func sameStyle(a, b cell) bool {
	return a.color == b.color && a.bold == b.bold && a.inverse == b.inverse
}

func styleRun(c cell, text string) string {
	if c.color == "" && !c.bold && !c.inverse {
		return text
	}
	style := lipgloss.NewStyle()
	if c.color != "" {
		style = style.Foreground(lipgloss.Color(c.color))
	}
	if c.bold {
		style = style.Bold(true)
	}
	if c.inverse {
		style = style.Reverse(true)
	}
	return style.Render(text)
}
