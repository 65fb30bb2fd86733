package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/csheth/recipebox/internal/browse"
	"github.com/csheth/recipebox/internal/recipe"
)

func newListCmd(a *app) *cobra.Command {
	var (
		tag    string
		search string
		page   int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of recipes",
		Long: `Print one page of the recipe gallery. --tag and --search narrow the
list the same way the interactive browser does; --page is clamped to the
available pages.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := a.loadManager(cmd.Context())
			if err != nil {
				return err
			}
			if tag != "" {
				if err := manager.SelectTag(tag); err != nil {
					return fmt.Errorf("%w (known tags: %s)", err, strings.Join(manager.Tags(), ", "))
				}
			}
			if search != "" {
				manager.SetSearchText(search)
			}
			manager.GoToPage(page)
			visible, info := manager.Visible()
			return newPrinter(cmd.OutOrStdout()).page(visible, info, manager.Filter())
		},
	}
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "only show recipes with this tag")
	cmd.Flags().StringVarP(&search, "search", "s", "", "only show recipes whose name contains this text")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page to print")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Print a single recipe",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := a.loadManager(cmd.Context())
			if err != nil {
				return err
			}
			name := strings.Join(args, " ")
			found, ok := manager.Collection().Find(name)
			if !ok {
				return fmt.Errorf("%w: %q", browse.ErrNoRecipe, name)
			}
			detail := recipe.FormatDetail(found)
			out := cmd.OutOrStdout()
			if plain {
				_, err := fmt.Fprint(out, detail.PlainText())
				return err
			}
			renderer, err := glamour.NewTermRenderer(
				glamour.WithStandardStyle(a.cfg.UI.GlamourStyle),
				glamour.WithWordWrap(80),
			)
			if err != nil {
				return fmt.Errorf("create markdown renderer: %w", err)
			}
			rendered, err := renderer.Render(detail.Markdown())
			if err != nil {
				return fmt.Errorf("render recipe: %w", err)
			}
			_, err = fmt.Fprint(out, rendered)
			return err
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print plain text instead of styled markdown")
	return cmd
}

func newTagsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "Print the recipe tags in sheet order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := a.loadManager(cmd.Context())
			if err != nil {
				return err
			}
			return newPrinter(cmd.OutOrStdout()).tags(manager.Collection(), manager.Tags())
		},
	}
}
