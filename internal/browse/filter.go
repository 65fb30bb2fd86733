package browse

import (
	"strings"

	"github.com/csheth/recipebox/internal/recipe"
)

// AllTags is the reserved tag value that disables tag filtering.
const AllTags = "all"

// DefaultPageSize is the number of recipes shown per page unless configured otherwise.
const DefaultPageSize = 24

// FilterState holds the user's current tag and search selections.
type FilterState struct {
	SelectedTag string
	SearchText  string
}

// DefaultFilter matches every recipe.
func DefaultFilter() FilterState {
	return FilterState{SelectedTag: AllTags}
}

// Matches reports whether r passes both the tag and the search predicate.
func (f FilterState) Matches(r recipe.Recipe) bool {
	if f.SelectedTag != AllTags && r.Tag != f.SelectedTag {
		return false
	}
	if f.SearchText == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Name), strings.ToLower(f.SearchText))
}

// Filter returns the recipes of c matching f, preserving collection order.
func Filter(c recipe.Collection, f FilterState) []recipe.Recipe {
	out := make([]recipe.Recipe, 0, len(c))
	for _, r := range c {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// PageInfo describes where the visible slice sits in the filtered sequence.
type PageInfo struct {
	CurrentPage   int
	TotalPages    int
	PageSize      int
	FilteredCount int
	TotalCount    int
	// Start and End bound the visible slice within the filtered sequence.
	Start int
	End   int
}

// HasNext reports whether NextPage would move.
func (p PageInfo) HasNext() bool { return p.CurrentPage < p.TotalPages }

// HasPrev reports whether PrevPage would move.
func (p PageInfo) HasPrev() bool { return p.CurrentPage > 1 }

// TotalPages is max(1, ceil(count/pageSize)).
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 || count <= 0 {
		return 1
	}
	return (count + pageSize - 1) / pageSize
}

// ClampPage keeps page within [1, TotalPages(count, pageSize)].
func ClampPage(page, count, pageSize int) int {
	if page < 1 {
		return 1
	}
	if total := TotalPages(count, pageSize); page > total {
		return total
	}
	return page
}

// Paginate returns the window of filtered shown on page. The page is clamped first.
func Paginate(filtered []recipe.Recipe, page, pageSize int) ([]recipe.Recipe, PageInfo) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	page = ClampPage(page, len(filtered), pageSize)
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}
	info := PageInfo{
		CurrentPage:   page,
		TotalPages:    TotalPages(len(filtered), pageSize),
		PageSize:      pageSize,
		FilteredCount: len(filtered),
		Start:         start,
		End:           end,
	}
	return filtered[start:end:end], info
}
