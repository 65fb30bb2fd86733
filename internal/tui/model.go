package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/csheth/recipebox/internal/browse"
	"github.com/csheth/recipebox/internal/recipe"
)

// Config wires runtime options into the TUI program.
type Config struct {
	// Loader fetches the recipe collection. Required.
	Loader browse.Loader
	// PageSize is the number of cards per gallery page.
	PageSize int
	// SourceLabel is shown while loading, usually the sheet URL.
	SourceLabel string
	// GlamourStyle names the glamour style used for the detail view.
	GlamourStyle string
	Logger       *zap.Logger
	// Context is the parent of every background job. Quitting cancels it.
	Context context.Context
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	parent := config.Context
	if parent == nil {
		parent = context.Background()
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(parent)

	searchInput := textinput.New()
	searchInput.Placeholder = "Search recipes by name…"
	searchInput.Prompt = "/ "
	searchInput.CharLimit = 80
	searchInput.Width = 40

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	m := &model{
		config:      config,
		stage:       stageLoading,
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger.Named("tui"),
		jobs:        newJobBus(ctx, logger),
		keys:        newKeyMap(),
		help:        help.New(),
		layout:      newPageLayout(),
		searchInput: searchInput,
		spinner:     spin,
		viewport:    vp,
		tagOptions:  []string{browse.AllTags},
		activeJobs:  map[string]jobSnapshot{},
	}
	m.manager = browse.NewManager(
		browse.WithRenderer(viewRenderer{m: m}),
		browse.WithPageSize(config.PageSize),
	)
	return m
}

type model struct {
	config  Config
	stage   stage
	manager *browse.Manager

	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger
	jobs   *jobBus

	keys        keyMap
	help        help.Model
	layout      pageLayout
	searchInput textinput.Model
	spinner     spinner.Model
	viewport    viewport.Model

	loadGeneration uint64
	visible        []recipe.Recipe
	pageInfo       browse.PageInfo
	cursor         int
	tagOptions     []string
	tagCursor      int
	detail         recipe.Detail
	activeJobs     map[string]jobSnapshot

	infoMessage  string
	errorMessage string
	helpVisible  bool
}

func (m *model) Init() tea.Cmd {
	return m.startLoad()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.stage == stageLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.help.Width = msg.Width
		m.viewport.Width = m.layout.contentWidth
		m.viewport.Height = m.layout.contentHeight
		if m.stage == stageDetail {
			m.viewport.SetContent(m.renderDetail())
		}
		return m, nil
	case jobSignalMsg:
		m.activeJobs[msg.Snapshot.ID] = msg.Snapshot
		return m, nil
	case jobResultEnvelope:
		delete(m.activeJobs, msg.Snapshot.ID)
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case loadResultMsg:
		m.handleLoadResult(msg)
		return m, nil
	case copyResultMsg:
		if msg.err != nil {
			m.errorMessage = fmt.Sprintf("copy failed: %v", msg.err)
			return m, nil
		}
		m.errorMessage = ""
		m.infoMessage = fmt.Sprintf("Copied %s to the clipboard.", displayName(msg.name))
		return m, nil
	case tea.MouseMsg:
		if m.stage == stageDetail {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, m.quit()
		}
		return m.handleKey(msg)
	}
	return m, nil
}

// startLoad begins a fetch unless one is already running.
func (m *model) startLoad() tea.Cmd {
	if m.config.Loader == nil {
		m.errorMessage = "no recipe source configured"
		m.stage = stageError
		return nil
	}
	generation, err := m.manager.BeginLoad()
	if err != nil {
		if errors.Is(err, browse.ErrLoadInFlight) {
			m.infoMessage = "Still fetching recipes…"
		}
		return nil
	}
	m.loadGeneration = generation
	m.stage = stageLoading
	m.searchInput.SetValue("")
	m.searchInput.Blur()
	return tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindLoad, loadRecipesJob(m.config.Loader, generation)))
}

func (m *model) handleLoadResult(msg loadResultMsg) {
	if msg.err != nil {
		if !m.manager.FailLoad(msg.generation, msg.err) {
			m.logger.Debug("dropped stale load failure", zap.Uint64("generation", msg.generation))
			return
		}
		m.logger.Warn("recipe load failed", zap.Error(msg.err))
		m.stage = stageError
		return
	}
	if !m.manager.CompleteLoad(msg.generation, msg.collection) {
		m.logger.Debug("dropped stale load result", zap.Uint64("generation", msg.generation))
		return
	}
	m.stage = stageGallery
}

func (m *model) quit() tea.Cmd {
	m.manager.CancelLoad()
	m.cancel()
	return tea.Quit
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.stage {
	case stageLoading:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, m.quit()
		case key.Matches(msg, m.keys.Help):
			m.toggleHelp()
		}
		return m, nil
	case stageError:
		switch {
		case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Back):
			return m, m.quit()
		case key.Matches(msg, m.keys.Reload):
			return m, m.startLoad()
		case key.Matches(msg, m.keys.Help):
			m.toggleHelp()
		}
		return m, nil
	case stageGallery:
		return m.handleGalleryKey(msg)
	case stageSearch:
		return m.handleSearchKey(msg)
	case stageTagMenu:
		return m.handleTagMenuKey(msg)
	case stageDetail:
		return m.handleDetailKey(msg)
	default:
		return m, nil
	}
}

func (m *model) handleGalleryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()
	case key.Matches(msg, m.keys.NextPage):
		if !m.manager.NextPage() {
			m.infoMessage = "Already on the last page."
		}
	case key.Matches(msg, m.keys.PrevPage):
		if !m.manager.PrevPage() {
			m.infoMessage = "Already on the first page."
		}
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-m.layout.columns)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(m.layout.columns)
	case key.Matches(msg, m.keys.Cycle):
		if len(m.visible) > 0 {
			m.cursor = (m.cursor + 1) % len(m.visible)
		}
	case key.Matches(msg, m.keys.Open):
		m.openDetail()
	case key.Matches(msg, m.keys.Search):
		m.stage = stageSearch
		m.searchInput.SetValue(m.manager.Filter().SearchText)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()
	case key.Matches(msg, m.keys.Tags):
		m.openTagMenu()
	case key.Matches(msg, m.keys.Reload):
		return m, m.startLoad()
	case key.Matches(msg, m.keys.Back):
		if m.manager.Filter().SearchText != "" {
			m.manager.SetSearchText("")
			m.searchInput.SetValue("")
			m.infoMessage = "Search cleared."
		}
	case key.Matches(msg, m.keys.Help):
		m.toggleHelp()
	}
	return m, nil
}

// handleSearchKey applies every edit to the filter as it is typed.
func (m *model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searchInput.SetValue("")
		m.searchInput.Blur()
		m.manager.SetSearchText("")
		m.stage = stageGallery
		return m, nil
	case tea.KeyEnter:
		m.searchInput.Blur()
		m.stage = stageGallery
		return m, nil
	}
	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if value := m.searchInput.Value(); value != before {
		m.manager.SetSearchText(value)
	}
	return m, cmd
}

func (m *model) handleTagMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.stage = stageGallery
	case key.Matches(msg, m.keys.Up):
		if m.tagCursor > 0 {
			m.tagCursor--
		}
	case key.Matches(msg, m.keys.Down), key.Matches(msg, m.keys.Cycle):
		if m.tagCursor < len(m.tagOptions)-1 {
			m.tagCursor++
		}
	case key.Matches(msg, m.keys.Open):
		tag := m.tagOptions[m.tagCursor]
		if err := m.manager.SelectTag(tag); err != nil {
			m.errorMessage = err.Error()
			return m, nil
		}
		m.errorMessage = ""
		m.infoMessage = fmt.Sprintf("Showing %s.", tagLabel(tag))
		m.stage = stageGallery
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()
	}
	return m, nil
}

func (m *model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.stage = stageGallery
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		m.infoMessage = "Copying recipe…"
		return m, m.jobs.Start(jobKindCopy, copyRecipeJob(m.detail))
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()
	case key.Matches(msg, m.keys.Help):
		m.toggleHelp()
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *model) moveCursor(delta int) {
	if len(m.visible) == 0 {
		return
	}
	next := m.cursor + delta
	if next < 0 || next >= len(m.visible) {
		return
	}
	m.cursor = next
}

func (m *model) openDetail() {
	detail, err := m.manager.SelectRecipe(m.cursor)
	if err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.detail = detail
	m.errorMessage = ""
	m.stage = stageDetail
	m.viewport.SetContent(m.renderDetail())
	m.viewport.GotoTop()
}

func (m *model) openTagMenu() {
	selected := m.manager.Filter().SelectedTag
	m.tagCursor = 0
	for i, tag := range m.tagOptions {
		if tag == selected {
			m.tagCursor = i
			break
		}
	}
	m.stage = stageTagMenu
}

func (m *model) toggleHelp() {
	m.helpVisible = !m.helpVisible
	m.help.ShowAll = m.helpVisible
}

func tagLabel(tag string) string {
	if tag == browse.AllTags {
		return "all recipes"
	}
	return strings.TrimSpace(tag)
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Untitled recipe"
	}
	return name
}
