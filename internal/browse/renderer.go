package browse

import "github.com/csheth/recipebox/internal/recipe"

// Renderer receives manager transitions. Implementations must not call back
// into the Manager from inside a callback.
type Renderer interface {
	OnLoadStart()
	OnLoadSuccess(c recipe.Collection, tags []string)
	OnLoadFailure(err error)
	OnFilterChanged(visible []recipe.Recipe, info PageInfo)
	OnTagSetReady(tags []string)
}

// NopRenderer ignores every callback. Embed it to implement only some of them.
type NopRenderer struct{}

func (NopRenderer) OnLoadStart() {}
func (NopRenderer) OnLoadSuccess(recipe.Collection, []string) {}
func (NopRenderer) OnLoadFailure(error) {}
func (NopRenderer) OnFilterChanged([]recipe.Recipe, PageInfo) {}
func (NopRenderer) OnTagSetReady([]string) {}
