package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/csheth/recipebox/internal/browse"
	"github.com/csheth/recipebox/internal/config"
	"github.com/csheth/recipebox/internal/logging"
	"github.com/csheth/recipebox/internal/sheet"
	"github.com/csheth/recipebox/internal/tui"
)

// flagKeys maps persistent flags onto their config keys.
var flagKeys = map[string]string{
	"source":    "source.url",
	"page-size": "browse.page_size",
	"log-file":  "log.file",
	"log-level": "log.level",
}

// app holds what every command needs once flags and config are resolved.
type app struct {
	configFile string
	cfg        *config.Config
	logger     *zap.Logger
	client     *sheet.Client
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "recipebox",
		Short: "Browse a published recipe sheet in the terminal",
		Long: `recipebox fetches a recipe spreadsheet published as CSV and shows it as a
searchable, filterable, paginated gallery. Run it without a subcommand for
the interactive browser, or use list, show and tags for plain output.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTUI(cmd.Context())
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&a.configFile, "config", "c", "", "config file (default is $XDG_CONFIG_HOME/recipebox/config.yaml)")
	pf.String("source", "", "CSV URL of the recipe sheet")
	pf.Int("page-size", 0, "recipes per page")
	pf.Bool("no-cache", false, "always fetch the sheet from the network")
	pf.String("log-file", "", "write JSON logs to this file")
	pf.String("log-level", "", "log level: debug, info, warn or error")
	pf.Bool("no-alt-screen", false, "disable the alternate screen buffer")

	cmd.AddCommand(newListCmd(a), newShowCmd(a), newTagsCmd(a))
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	v := config.New(a.configFile)
	if err := bindFlags(v, cmd); err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	client, err := sheet.New(sheet.Config{
		URL:          cfg.Source.URL,
		Timeout:      cfg.Source.Timeout,
		CacheEnabled: cfg.Cache.Enabled,
		CacheDir:     cfg.Cache.Dir,
		CacheTTL:     cfg.Cache.TTL,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	a.client = client
	logger.Debug("configured",
		zap.String("command", cmd.Name()),
		zap.String("source", cfg.Source.URL),
		zap.Bool("cache", cfg.Cache.Enabled),
		zap.Int("page_size", cfg.Browse.PageSize))
	return nil
}

// bindFlags layers explicitly set flags over env, file and defaults. The
// negated booleans only ever switch a feature off.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	flags := cmd.Flags()
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("bind --%s: %w", name, err)
		}
	}
	if off, _ := flags.GetBool("no-cache"); off {
		v.Set("cache.enabled", false)
	}
	if off, _ := flags.GetBool("no-alt-screen"); off {
		v.Set("ui.alt_screen", false)
	}
	return nil
}

func (a *app) runTUI(ctx context.Context) error {
	model := tui.New(tui.Config{
		Loader:       a.client,
		PageSize:     a.cfg.Browse.PageSize,
		SourceLabel:  a.client.URL(),
		GlamourStyle: a.cfg.UI.GlamourStyle,
		Logger:       a.logger,
		Context:      ctx,
	})
	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if a.cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

// loadManager runs a blocking load for the plain-output commands.
func (a *app) loadManager(ctx context.Context) (*browse.Manager, error) {
	manager := browse.NewManager(
		browse.WithRenderer(logRenderer{logger: a.logger}),
		browse.WithPageSize(a.cfg.Browse.PageSize),
	)
	if err := manager.Load(ctx, a.client); err != nil {
		return nil, err
	}
	return manager, nil
}
