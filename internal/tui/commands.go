package tui

import (
	"context"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/recipebox/internal/browse"
	"github.com/csheth/recipebox/internal/recipe"
)

// clipboardWriteAll is swapped out in tests.
var clipboardWriteAll = clipboard.WriteAll

func loadRecipesJob(loader browse.Loader, generation uint64) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		collection, err := loader.Load(ctx)
		return loadResultMsg{generation: generation, collection: collection, err: err}, err
	}
}

func copyRecipeJob(detail recipe.Detail) jobRunner {
	text := detail.PlainText()
	name := detail.Name
	return func(context.Context) (tea.Msg, error) {
		err := clipboardWriteAll(text)
		return copyResultMsg{name: name, err: err}, err
	}
}
