package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/csheth/recipebox/internal/recipe"
)

// pageLayout tracks the terminal size and the gallery grid derived from it.
type pageLayout struct {
	windowWidth   int
	windowHeight  int
	contentWidth  int
	contentHeight int
	columns       int
	cardWidth     int
}

func newPageLayout() pageLayout {
	l := pageLayout{}
	l.Update(80, 24)
	return l
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	innerWidth := width - viewportHorizontalPadding
	if innerWidth < minViewportWidth {
		innerWidth = minViewportWidth
	}
	l.contentWidth = innerWidth
	l.columns = innerWidth / minCardWidth
	if l.columns < 1 {
		l.columns = 1
	}
	l.cardWidth = innerWidth / l.columns

	// hero, status bar, info line and help footer
	const chrome = 10
	l.contentHeight = height - chrome
	if l.contentHeight < cardHeight+2 {
		l.contentHeight = cardHeight + 2
	}
}

// rowOf returns the grid row holding the card at index.
func (l pageLayout) rowOf(index int) int {
	if index < 0 {
		return 0
	}
	return index / l.columns
}

func renderCard(r recipe.Recipe, width int, selected bool) string {
	inner := width - 4
	if inner < 8 {
		inner = 8
	}
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = "Untitled recipe"
	}
	meta := r.Tag
	if meta == "" {
		meta = "untagged"
	}
	if r.ImageRef != "" {
		meta += " · picture"
	}
	title := cardTitleStyle.Render(truncate.StringWithTail(name, uint(inner), "…"))
	sub := cardMetaStyle.Render(truncate.StringWithTail(meta, uint(inner), "…"))

	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	return style.Width(width - 2).Render(title + "\n" + sub)
}

func (m *model) renderGrid() string {
	if len(m.visible) == 0 {
		return ""
	}
	cols := m.layout.columns
	rows := make([]string, 0, len(m.visible)/cols+1)
	for start := 0; start < len(m.visible); start += cols {
		end := min(start+cols, len(m.visible))
		cells := make([]string, 0, cols)
		for i := start; i < end; i++ {
			cells = append(cells, renderCard(m.visible[i], m.layout.cardWidth, i == m.cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	grid := lipgloss.JoinVertical(lipgloss.Left, rows...)
	top := m.layout.rowOf(m.cursor) * cardHeight
	return windowLines(grid, top, top+cardHeight, m.layout.contentHeight)
}

// windowLines cuts content to height lines, scrolled just enough to keep
// the span [focusStart, focusEnd) on screen.
func windowLines(content string, focusStart, focusEnd, height int) string {
	lines := strings.Split(content, "\n")
	if height <= 0 || len(lines) <= height {
		return content
	}
	offset := 0
	if focusEnd > height {
		offset = focusEnd - height
	}
	if focusStart < offset {
		offset = focusStart
	}
	if offset+height > len(lines) {
		offset = len(lines) - height
	}
	return strings.Join(lines[offset:offset+height], "\n")
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

func (m *model) wrapWidth(padding int) int {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	if padding < 0 {
		padding = 0
	}
	available := width - padding
	if available < 20 {
		available = 20
	}
	return available
}
