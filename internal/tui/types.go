package tui

import (
	"github.com/csheth/recipebox/internal/recipe"
)

type stage int

const (
	stageLoading stage = iota
	stageError
	stageGallery
	stageSearch
	stageTagMenu
	stageDetail
)

func (s stage) String() string {
	switch s {
	case stageLoading:
		return "loading"
	case stageError:
		return "error"
	case stageGallery:
		return "gallery"
	case stageSearch:
		return "search"
	case stageTagMenu:
		return "tags"
	case stageDetail:
		return "detail"
	default:
		return "unknown"
	}
}

const heroTagline = "Browse the family recipe sheet."

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
	minCardWidth              = 26
	cardHeight                = 4
)

// loadResultMsg carries the outcome of one fetch. Generation ties it to the
// BeginLoad that started it.
type loadResultMsg struct {
	generation uint64
	collection recipe.Collection
	err        error
}

type copyResultMsg struct {
	name string
	err  error
}
