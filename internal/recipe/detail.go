package recipe

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Line is one ingredient entry. Section headers stay inline with the items they group.
type Line struct {
	Text     string
	IsHeader bool
}

// Detail is the display form of a single recipe.
type Detail struct {
	Name        string
	ImageRef    string
	Tag         string
	Ingredients []Line
	Preparation string
}

// FormatDetail splits the ingredients block into classified lines and passes
// the preparation text through untouched.
func FormatDetail(r Recipe) Detail {
	return Detail{
		Name:        r.Name,
		ImageRef:    r.ImageRef,
		Tag:         r.Tag,
		Ingredients: SplitIngredients(r.Ingredients),
		Preparation: r.Preparation,
	}
}

// SplitIngredients returns the non-empty trimmed lines of block in order.
func SplitIngredients(block string) []Line {
	raw := strings.Split(block, "\n")
	lines := make([]Line, 0, len(raw))
	for _, line := range raw {
		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		lines = append(lines, Line{Text: text, IsHeader: IsSectionHeader(text)})
	}
	return lines
}

// IsSectionHeader reports whether line is written in capitals. The comparison
// uses root-locale upper casing so accented letters classify the same on every
// platform; a line without any letter never counts as a header.
func IsSectionHeader(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || !hasLetter(line) {
		return false
	}
	// Casers carry state, so each call gets its own.
	return cases.Upper(language.Und).String(line) == line
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// Markdown renders the detail for glamour.
func (d Detail) Markdown() string {
	var b strings.Builder
	name := strings.TrimSpace(d.Name)
	if name == "" {
		name = "Untitled recipe"
	}
	fmt.Fprintf(&b, "# %s\n\n", name)
	if d.Tag != "" {
		fmt.Fprintf(&b, "*%s*\n\n", d.Tag)
	}
	if d.ImageRef != "" {
		fmt.Fprintf(&b, "Picture: %s\n\n", d.ImageRef)
	}
	b.WriteString("## Ingredients\n\n")
	if len(d.Ingredients) == 0 {
		b.WriteString("_No ingredients listed._\n\n")
	}
	for i, line := range d.Ingredients {
		if line.IsHeader {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "**%s**\n\n", line.Text)
			continue
		}
		fmt.Fprintf(&b, "- %s\n", line.Text)
	}
	b.WriteString("\n## Preparation\n\n")
	if strings.TrimSpace(d.Preparation) == "" {
		b.WriteString("_No preparation steps listed._\n")
	} else {
		// Hard line breaks keep step-per-line sheets readable.
		b.WriteString(strings.ReplaceAll(strings.TrimSpace(d.Preparation), "\n", "  \n"))
		b.WriteString("\n")
	}
	return b.String()
}

// PlainText is the clipboard form of the detail.
func (d Detail) PlainText() string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(d.Name))
	b.WriteString("\n\nIngredients:\n")
	for _, line := range d.Ingredients {
		if line.IsHeader {
			b.WriteString("\n" + line.Text + "\n")
			continue
		}
		b.WriteString("- " + line.Text + "\n")
	}
	b.WriteString("\nPreparation:\n")
	b.WriteString(strings.TrimSpace(d.Preparation))
	b.WriteString("\n")
	return b.String()
}
