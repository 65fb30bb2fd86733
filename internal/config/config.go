package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultSourceURL is the published CSV export of the recipe sheet.
const DefaultSourceURL = "https://docs.google.com/spreadsheets/d/e/2PACX-1vQTca2swSKK_jHvAzJxR8YyPIo_rLJBfKPEsxsje26LRxmyTIrFd-cnnPMU9gUXBF2lddbCsBp9U9Ze/pub?gid=0&single=true&output=csv"

const envPrefix = "RECIPEBOX"

// Config represents the complete recipebox configuration
type Config struct {
	Source SourceConfig `mapstructure:"source"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Browse BrowseConfig `mapstructure:"browse"`
	Log    LogConfig    `mapstructure:"log"`
	UI     UIConfig     `mapstructure:"ui"`
}

// SourceConfig controls where recipes are fetched from
type SourceConfig struct {
	// URL serves comma-separated text with a header row
	URL string `mapstructure:"url"`
	// Timeout bounds a single fetch
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig controls the on-disk copy of the last fetched sheet
type CacheConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Dir defaults to $XDG_CACHE_HOME/recipebox
	Dir string `mapstructure:"dir"`
	// TTL is how long a cached sheet is served without asking the server
	TTL time.Duration `mapstructure:"ttl"`
}

// BrowseConfig controls the gallery
type BrowseConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// LogConfig controls the debug log
type LogConfig struct {
	// File is where JSON log lines go; empty disables logging
	File string `mapstructure:"file"`
	// Level is one of debug, info, warn, error
	Level string `mapstructure:"level"`
}

// UIConfig controls the terminal UI
type UIConfig struct {
	AltScreen bool `mapstructure:"alt_screen"`
	// GlamourStyle names a glamour standard style (dark, light, notty, ...)
	GlamourStyle string `mapstructure:"glamour_style"`
}

// Default returns a Config populated with default values
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			URL:     DefaultSourceURL,
			Timeout: 15 * time.Second,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     defaultCacheDir(),
			TTL:     10 * time.Minute,
		},
		Browse: BrowseConfig{
			PageSize: 24,
		},
		Log: LogConfig{
			File:  defaultLogFile(),
			Level: "info",
		},
		UI: UIConfig{
			AltScreen:    true,
			GlamourStyle: "dark",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("source.url", d.Source.URL)
	v.SetDefault("source.timeout", d.Source.Timeout)
	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("browse.page_size", d.Browse.PageSize)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("ui.alt_screen", d.UI.AltScreen)
	v.SetDefault("ui.glamour_style", d.UI.GlamourStyle)
}

// New returns a viper instance wired with defaults, the RECIPEBOX_ env
// prefix, and the config file search path.
func New(configFile string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
	}
	return v
}

// Load reads the config file if one exists and decodes the merged settings.
// A missing default config file is not an error; a missing explicit one is.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Source.URL) == "" {
		errs = append(errs, errors.New("source.url must not be empty"))
	}
	if c.Source.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("source.timeout must be positive, got %s", c.Source.Timeout))
	}
	if c.Browse.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("browse.page_size must be positive, got %d", c.Browse.PageSize))
	}
	if c.Cache.Enabled && c.Cache.TTL < 0 {
		errs = append(errs, fmt.Errorf("cache.ttl must not be negative, got %s", c.Cache.TTL))
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, warning, error", c.Log.Level))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// ConfigDir returns $XDG_CONFIG_HOME/recipebox, falling back to ~/.config/recipebox
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "recipebox")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".recipebox")
	}
	return filepath.Join(home, ".config", "recipebox")
}

func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(os.TempDir(), "recipebox-cache")
	}
	return filepath.Join(base, "recipebox")
}

func defaultLogFile() string {
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "recipebox.log")
		}
		base = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(base, "recipebox", "recipebox.log")
}
