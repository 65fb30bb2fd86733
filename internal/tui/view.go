package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"go.uber.org/zap"

	"github.com/csheth/recipebox/internal/browse"
)

func (m *model) View() string {
	switch m.stage {
	case stageLoading:
		return m.frame(m.loadingView())
	case stageError:
		return m.frame(m.errorView())
	case stageGallery, stageSearch:
		return m.frame(m.galleryView())
	case stageTagMenu:
		return m.frame(m.tagMenuView())
	case stageDetail:
		return m.frame(m.detailView())
	default:
		return ""
	}
}

func (m *model) frame(body string) string {
	parts := []string{m.heroView(), m.statusBarView(), body}
	if m.errorMessage != "" && m.stage != stageError {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		parts = append(parts, helperStyle.Render(m.infoMessage))
	}
	parts = append(parts, m.help.View(m.keys))
	return joinNonEmpty(parts)
}

func (m *model) heroView() string {
	return lipgloss.JoinVertical(lipgloss.Left, renderLogo(), taglineStyle.Render(heroTagline))
}

func (m *model) statusBarView() string {
	stats := []string{fmt.Sprintf("Mode %s", strings.ToUpper(m.stage.String()))}
	if m.manager.State() != browse.StateLoading && m.manager.State() != browse.StateError {
		info := m.pageInfo
		filter := m.manager.Filter()
		stats = append(stats,
			fmt.Sprintf("Page %d/%d", info.CurrentPage, info.TotalPages),
			fmt.Sprintf("%d of %d recipes", info.FilteredCount, info.TotalCount),
			fmt.Sprintf("Tag %s", filter.SelectedTag),
		)
		if filter.SearchText != "" {
			stats = append(stats, fmt.Sprintf("Search %q", filter.SearchText))
		}
	}
	stats = append(stats, m.jobStatusBadges()...)
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

func (m *model) jobStatusBadges() []string {
	if len(m.activeJobs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(m.activeJobs))
	for id := range m.activeJobs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	badges := make([]string, 0, len(ids))
	for _, id := range ids {
		badges = append(badges, fmt.Sprintf("%s %s", m.activeJobs[id].Kind, m.activeJobs[id].Status))
	}
	return badges
}

func (m *model) loadingView() string {
	source := m.config.SourceLabel
	if source == "" {
		source = "the recipe sheet"
	}
	return fmt.Sprintf("%s Fetching recipes from %s…", m.spinner.View(), source)
}

func (m *model) errorView() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("Recipes could not be loaded"))
	b.WriteRune('\n')
	msg := m.errorMessage
	if err := m.manager.Err(); err != nil {
		msg = err.Error()
	}
	if msg != "" {
		b.WriteString(errorStyle.Render(wordwrap.String(msg, m.wrapWidth(6))))
		b.WriteRune('\n')
	}
	b.WriteString(helperStyle.Render("Check the sheet is published as CSV, then press r to retry."))
	return errorBoxStyle.Render(b.String())
}

func (m *model) galleryView() string {
	parts := []string{}
	if m.stage == stageSearch {
		parts = append(parts, m.searchInput.View())
	}
	if m.manager.State() == browse.StateEmpty {
		parts = append(parts, m.emptyView())
	} else {
		parts = append(parts, m.renderGrid())
	}
	return joinNonEmpty(parts)
}

func (m *model) emptyView() string {
	filter := m.manager.Filter()
	if len(m.manager.Collection()) == 0 {
		return emptyBoxStyle.Render("The recipe sheet is empty.")
	}
	lines := []string{sectionHeaderStyle.Render("No recipes match")}
	if filter.SelectedTag != browse.AllTags {
		lines = append(lines, helperStyle.Render(fmt.Sprintf("Tag: %s", filter.SelectedTag)))
	}
	if filter.SearchText != "" {
		lines = append(lines, helperStyle.Render(fmt.Sprintf("Search: %q", filter.SearchText)))
	}
	lines = append(lines, helperStyle.Render("Press esc to clear the search or t to pick another tag."))
	return emptyBoxStyle.Render(strings.Join(lines, "\n"))
}

func (m *model) tagMenuView() string {
	rows := []string{sectionHeaderStyle.Render("Filter by tag")}
	selected := m.manager.Filter().SelectedTag
	for i, tag := range m.tagOptions {
		label := tagLabel(tag)
		if tag == selected {
			label += " ✓"
		}
		if i == m.tagCursor {
			rows = append(rows, currentLineStyle.Render("▸ "+label))
			continue
		}
		rows = append(rows, "  "+label)
	}
	rows = append(rows, helperStyle.Render("Enter to apply, Esc to cancel."))
	return legendBoxStyle.Render(strings.Join(rows, "\n"))
}

func (m *model) detailView() string {
	footer := helperStyle.Render(fmt.Sprintf("%3.f%%  •  c copies the recipe, esc returns to the gallery", m.viewport.ScrollPercent()*100))
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

// renderDetail renders the open recipe with glamour, falling back to the raw
// markdown when the renderer cannot be built.
func (m *model) renderDetail() string {
	markdown := m.detail.Markdown()
	width := m.wrapWidth(2)
	renderer, err := newMarkdownRenderer(m.config.GlamourStyle, width)
	if err != nil {
		m.logger.Debug("glamour unavailable", zap.Error(err))
		return wordwrap.String(markdown, width)
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		m.logger.Debug("glamour render failed", zap.Error(err))
		return wordwrap.String(markdown, width)
	}
	return strings.TrimRight(out, "\n")
}

func newMarkdownRenderer(style string, width int) (*glamour.TermRenderer, error) {
	styleOption := glamour.WithStandardStyle(style)
	switch style {
	case "":
		styleOption = glamour.WithStandardStyle("dark")
	case "auto":
		styleOption = glamour.WithAutoStyle()
	}
	return glamour.NewTermRenderer(styleOption, glamour.WithWordWrap(width))
}

func renderLogo() string {
	if len(logoArtLines) == 0 {
		return ""
	}
	width := 0
	lineRunes := make([][]rune, len(logoArtLines))
	for i, line := range logoArtLines {
		runes := []rune(line)
		lineRunes[i] = runes
		if len(runes) > width {
			width = len(runes)
		}
	}
	width++
	height := len(logoArtLines) + 1

	type cell struct {
		r     rune
		style lipgloss.Style
	}

	grid := make([][]cell, height)
	for i := range grid {
		grid[i] = make([]cell, width)
	}
	// shadow first, then the face on top of it
	for y, runes := range lineRunes {
		for x, r := range runes {
			if r != ' ' {
				grid[y+1][x+1] = cell{r: r, style: logoShadowStyle}
			}
		}
	}
	for y, runes := range lineRunes {
		for x, r := range runes {
			if r != ' ' {
				grid[y][x] = cell{r: r, style: logoFaceStyle}
			}
		}
	}

	lines := make([]string, height)
	for y, row := range grid {
		var b strings.Builder
		for _, c := range row {
			if c.r == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteString(c.style.Render(string(c.r)))
		}
		lines[y] = b.String()
	}
	return logoContainerStyle.Render(strings.Join(lines, "\n"))
}
