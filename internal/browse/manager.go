// Package browse owns the recipe view state: the loaded collection, the
// tag/search filter, the current page, and the derived visible slice.
//
// A Manager is not safe for concurrent use. Every transition is expected to
// run inside a single event handler turn (a bubbletea Update, or sequential
// CLI code); asynchronous loads report back through CompleteLoad/FailLoad.
package browse

import (
	"context"
	"errors"
	"fmt"

	"github.com/csheth/recipebox/internal/recipe"
)

var (
	// ErrLoadFailure marks a failed fetch or decode of the recipe sheet.
	ErrLoadFailure = errors.New("recipes could not be loaded")
	// ErrLoadInFlight is returned by BeginLoad while another load is running.
	ErrLoadInFlight = errors.New("a recipe load is already in progress")
	// ErrUnknownTag is returned when selecting a tag the collection does not carry.
	ErrUnknownTag = errors.New("unknown tag")
	// ErrNoRecipe is returned when a selection index is outside the visible slice.
	ErrNoRecipe = errors.New("no recipe at that position")
)

// ViewState is the mutually exclusive presentation state of the gallery.
type ViewState int

const (
	StateLoading ViewState = iota
	StateError
	StateEmpty
	StatePopulated
)

func (s ViewState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateEmpty:
		return "empty"
	case StatePopulated:
		return "populated"
	default:
		return fmt.Sprintf("ViewState(%d)", int(s))
	}
}

// Loader produces a fresh collection from the configured source.
type Loader interface {
	Load(ctx context.Context) (recipe.Collection, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context) (recipe.Collection, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context) (recipe.Collection, error) { return f(ctx) }

// Manager is the recipe view-state manager.
type Manager struct {
	renderer Renderer
	pageSize int

	collection recipe.Collection
	tags       []string
	filter     FilterState
	page       int

	// filtered caches Filter(collection, filter); it is rebuilt on every
	// collection or filter change.
	filtered []recipe.Recipe

	loading    bool
	loaded     bool
	generation uint64
	loadErr    error
}

// Option configures a Manager.
type Option func(*Manager)

// WithRenderer attaches the callback surface notified on every transition.
func WithRenderer(r Renderer) Option {
	return func(m *Manager) {
		if r != nil {
			m.renderer = r
		}
	}
}

// WithPageSize overrides DefaultPageSize. Non-positive sizes are ignored.
func WithPageSize(size int) Option {
	return func(m *Manager) {
		if size > 0 {
			m.pageSize = size
		}
	}
}

// NewManager returns a manager in the Loading state with an empty collection.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		renderer: NopRenderer{},
		pageSize: DefaultPageSize,
		filter:   DefaultFilter(),
		page:     1,
		loading:  true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// BeginLoad enters the Loading state and returns the generation that the
// matching CompleteLoad or FailLoad must carry. It refuses to start while a
// previous load is still in flight.
func (m *Manager) BeginLoad() (uint64, error) {
	if m.loading && m.generation > 0 {
		return 0, ErrLoadInFlight
	}
	m.generation++
	m.loading = true
	m.loadErr = nil
	m.renderer.OnLoadStart()
	return m.generation, nil
}

// CompleteLoad replaces the collection and resets filter and page. Results
// for a generation other than the one in flight are dropped and false is returned.
func (m *Manager) CompleteLoad(generation uint64, c recipe.Collection) bool {
	if !m.accepts(generation) {
		return false
	}
	m.loading = false
	m.loaded = true
	m.loadErr = nil
	m.collection = append(recipe.Collection(nil), c...)
	m.tags = menuTags(m.collection.Tags())
	m.filter = DefaultFilter()
	m.page = 1
	m.refilter()

	m.renderer.OnLoadSuccess(m.collection, m.Tags())
	m.renderer.OnTagSetReady(m.Tags())
	m.notifyVisible()
	return true
}

// FailLoad enters the Error state and clears the collection.
func (m *Manager) FailLoad(generation uint64, err error) bool {
	if !m.accepts(generation) {
		return false
	}
	if err == nil {
		err = errors.New("unknown error")
	}
	if !errors.Is(err, ErrLoadFailure) {
		err = fmt.Errorf("%w: %w", ErrLoadFailure, err)
	}
	m.loading = false
	m.loaded = false
	m.loadErr = err
	m.collection = nil
	m.tags = nil
	m.filter = DefaultFilter()
	m.page = 1
	m.filtered = nil
	m.renderer.OnLoadFailure(err)
	return true
}

// CancelLoad abandons the in-flight load, if any, so a later BeginLoad can
// proceed. Late results for the abandoned generation are ignored.
func (m *Manager) CancelLoad() {
	if !m.loading {
		return
	}
	m.generation++
	m.loading = false
	if !m.loaded && m.loadErr == nil {
		m.loadErr = fmt.Errorf("%w: %w", ErrLoadFailure, context.Canceled)
	}
}

// Load runs a complete load synchronously.
func (m *Manager) Load(ctx context.Context, loader Loader) error {
	generation, err := m.BeginLoad()
	if err != nil {
		return err
	}
	c, err := loader.Load(ctx)
	if err != nil {
		m.FailLoad(generation, err)
		return m.loadErr
	}
	m.CompleteLoad(generation, c)
	return nil
}

func (m *Manager) accepts(generation uint64) bool {
	return m.loading && generation > 0 && generation == m.generation
}

// SelectTag filters by tag, or clears the tag filter with AllTags. The page
// resets to 1 even when the tag is unchanged.
func (m *Manager) SelectTag(tag string) error {
	if tag != AllTags && !m.collection.HasTag(tag) {
		return fmt.Errorf("%w: %q", ErrUnknownTag, tag)
	}
	m.filter.SelectedTag = tag
	m.page = 1
	m.refilter()
	m.notifyVisible()
	return nil
}

// SetSearchText filters by a case-insensitive substring of the recipe name.
// The page resets to 1 on every call.
func (m *Manager) SetSearchText(text string) {
	m.filter.SearchText = text
	m.page = 1
	m.refilter()
	m.notifyVisible()
}

// NextPage moves forward one page. It reports false on the last page.
func (m *Manager) NextPage() bool {
	if !m.PageInfo().HasNext() {
		return false
	}
	m.page++
	m.notifyVisible()
	return true
}

// PrevPage moves back one page. It reports false on the first page.
func (m *Manager) PrevPage() bool {
	if !m.PageInfo().HasPrev() {
		return false
	}
	m.page--
	m.notifyVisible()
	return true
}

// GoToPage jumps to page, clamped into the valid range.
func (m *Manager) GoToPage(page int) {
	m.page = ClampPage(page, len(m.filtered), m.pageSize)
	m.notifyVisible()
}

// SelectRecipe formats the recipe at index i of the visible slice.
func (m *Manager) SelectRecipe(i int) (recipe.Detail, error) {
	visible, _ := m.Visible()
	if i < 0 || i >= len(visible) {
		return recipe.Detail{}, fmt.Errorf("%w: %d", ErrNoRecipe, i)
	}
	return recipe.FormatDetail(visible[i]), nil
}

// State derives the current presentation state.
func (m *Manager) State() ViewState {
	switch {
	case m.loading:
		return StateLoading
	case m.loadErr != nil:
		return StateError
	case len(m.filtered) == 0:
		return StateEmpty
	default:
		return StatePopulated
	}
}

// Err returns the last load failure, or nil.
func (m *Manager) Err() error { return m.loadErr }

// Visible returns the current page of filtered recipes.
func (m *Manager) Visible() ([]recipe.Recipe, PageInfo) {
	visible, info := Paginate(m.filtered, m.page, m.pageSize)
	info.TotalCount = len(m.collection)
	return visible, info
}

// PageInfo describes the current page.
func (m *Manager) PageInfo() PageInfo {
	_, info := m.Visible()
	return info
}

// TotalPages is the page count of the filtered sequence.
func (m *Manager) TotalPages() int { return TotalPages(len(m.filtered), m.pageSize) }

// CurrentPage is the 1-based current page.
func (m *Manager) CurrentPage() int { return m.page }

// Filter returns the current filter selections.
func (m *Manager) Filter() FilterState { return m.filter }

// Tags returns a copy of the tag set in first-seen order.
func (m *Manager) Tags() []string { return append([]string(nil), m.tags...) }

// Collection returns the loaded recipes.
func (m *Manager) Collection() recipe.Collection { return m.collection }

// Loading reports whether a load is in flight.
func (m *Manager) Loading() bool { return m.loading }

// menuTags drops a sheet tag spelled like the reserved AllTags value, which
// could never be selected on its own.
func menuTags(tags []string) []string {
	out := tags[:0]
	for _, t := range tags {
		if t != AllTags {
			out = append(out, t)
		}
	}
	return out
}

func (m *Manager) refilter() {
	m.filtered = Filter(m.collection, m.filter)
	m.page = ClampPage(m.page, len(m.filtered), m.pageSize)
}

func (m *Manager) notifyVisible() {
	if m.loading || m.loadErr != nil {
		return
	}
	visible, info := m.Visible()
	m.renderer.OnFilterChanged(visible, info)
}
