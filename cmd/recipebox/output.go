package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"go.uber.org/zap"

	"github.com/csheth/recipebox/internal/browse"
	"github.com/csheth/recipebox/internal/recipe"
)

const nameColumnWidth = 40

// logRenderer records manager events for the plain-output commands, which
// print from the manager directly.
type logRenderer struct {
	browse.NopRenderer
	logger *zap.Logger
}

func (r logRenderer) OnLoadSuccess(c recipe.Collection, tags []string) {
	r.logger.Info("sheet ready", zap.Int("recipes", len(c)), zap.Int("tags", len(tags)))
}

func (r logRenderer) OnLoadFailure(err error) {
	r.logger.Error("sheet unavailable", zap.Error(err))
}

// printer styles output for its own writer, so pipes and files get plain text.
type printer struct {
	w      io.Writer
	header lipgloss.Style
	tag    lipgloss.Style
	muted  lipgloss.Style
}

func newPrinter(w io.Writer) printer {
	r := lipgloss.NewRenderer(w)
	return printer{
		w:      w,
		header: r.NewStyle().Bold(true).Foreground(lipgloss.Color("81")),
		tag:    r.NewStyle().Foreground(lipgloss.Color("#f4a261")),
		muted:  r.NewStyle().Foreground(lipgloss.Color("244")),
	}
}

func (p printer) page(visible []recipe.Recipe, info browse.PageInfo, filter browse.FilterState) error {
	summary := fmt.Sprintf("Page %d/%d · %d of %d recipes · tag %s",
		info.CurrentPage, info.TotalPages, info.FilteredCount, info.TotalCount, filter.SelectedTag)
	if filter.SearchText != "" {
		summary += fmt.Sprintf(" · search %q", filter.SearchText)
	}
	var b strings.Builder
	b.WriteString(p.header.Render(summary))
	b.WriteString("\n")
	if len(visible) == 0 {
		b.WriteString(p.muted.Render("No recipes match."))
		b.WriteString("\n")
	}
	for i, r := range visible {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			name = "Untitled recipe"
		}
		name = truncate.StringWithTail(name, nameColumnWidth, "…")
		fmt.Fprintf(&b, "%3d. %s", info.Start+i+1, name)
		if r.Tag != "" {
			b.WriteString(strings.Repeat(" ", nameColumnWidth-lipgloss.Width(name)+2))
			b.WriteString(p.tag.Render(r.Tag))
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}

func (p printer) tags(c recipe.Collection, tags []string) error {
	counts := make(map[string]int, len(tags))
	for _, r := range c {
		counts[r.Tag]++
	}
	var b strings.Builder
	for _, tag := range tags {
		fmt.Fprintf(&b, "%s %s\n", tag, p.muted.Render(fmt.Sprintf("(%d)", counts[tag])))
	}
	if untagged := counts[""]; untagged > 0 {
		b.WriteString(p.muted.Render(fmt.Sprintf("%d untagged", untagged)))
		b.WriteString("\n")
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}
