package tui

import (
	"fmt"

	"github.com/csheth/recipebox/internal/browse"
	"github.com/csheth/recipebox/internal/recipe"
)

// viewRenderer mirrors manager events into model fields read by View.
type viewRenderer struct {
	m *model
}

var _ browse.Renderer = viewRenderer{}

func (r viewRenderer) OnLoadStart() {
	r.m.errorMessage = ""
	r.m.infoMessage = "Fetching recipes…"
}

func (r viewRenderer) OnLoadSuccess(c recipe.Collection, tags []string) {
	r.m.errorMessage = ""
	r.m.infoMessage = fmt.Sprintf("Loaded %d recipes in %d categories.", len(c), len(tags))
}

func (r viewRenderer) OnLoadFailure(err error) {
	r.m.visible = nil
	r.m.pageInfo = browse.PageInfo{}
	r.m.tagOptions = []string{browse.AllTags}
	r.m.errorMessage = err.Error()
	r.m.infoMessage = "Press r to retry."
}

func (r viewRenderer) OnFilterChanged(visible []recipe.Recipe, info browse.PageInfo) {
	r.m.visible = visible
	r.m.pageInfo = info
	r.m.cursor = 0
}

func (r viewRenderer) OnTagSetReady(tags []string) {
	r.m.tagOptions = append([]string{browse.AllTags}, tags...)
	r.m.tagCursor = 0
}
