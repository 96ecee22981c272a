// Package config loads brewdesk's settings from
// ~/.config/brewdesk/config.yaml and BREWDESK_* environment variables.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. BREWDESK_UI_LOCALE.
const EnvPrefix = "BREWDESK"

// Config is the complete brewdesk configuration.
type Config struct {
	Brew    BrewConfig    `mapstructure:"brew"`
	UI      UIConfig      `mapstructure:"ui"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Watch   WatchConfig   `mapstructure:"watch"`
	Paths   PathsConfig   `mapstructure:"paths"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// BrewConfig controls how the brew binary is invoked.
type BrewConfig struct {
	// Path is the brew executable; a bare name is looked up on PATH.
	Path string `mapstructure:"path"`
	// Timeout bounds each brew invocation. Zero means no limit.
	Timeout time.Duration `mapstructure:"timeout"`
}

// UIConfig controls the interactive doctor screen.
type UIConfig struct {
	// Locale overrides the language taken from the environment.
	Locale string `mapstructure:"locale"`
	// Mouse enables click support.
	Mouse bool `mapstructure:"mouse"`
}

// CacheConfig sizes the package detail cache.
type CacheConfig struct {
	Size int `mapstructure:"size"`
}

// WatchConfig controls the Cellar watcher.
type WatchConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// PathsConfig locates brewdesk's own files.
type PathsConfig struct {
	// DataDir holds the history database and debug log. Empty means DataDir().
	DataDir string `mapstructure:"data_dir"`
	// DB overrides the history database path.
	DB string `mapstructure:"db"`
}

// LoggingConfig controls the debug log.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Brew: BrewConfig{
			Path:    "brew",
			Timeout: 5 * time.Minute, // brew doctor can be slow on large installs
		},
		UI: UIConfig{
			Mouse: true,
		},
		Cache: CacheConfig{
			Size: 128,
		},
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: 500 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// SetDefaults registers the defaults with v.
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("brew.path", d.Brew.Path)
	v.SetDefault("brew.timeout", d.Brew.Timeout)

	v.SetDefault("ui.locale", d.UI.Locale)
	v.SetDefault("ui.mouse", d.UI.Mouse)

	v.SetDefault("cache.size", d.Cache.Size)

	v.SetDefault("watch.enabled", d.Watch.Enabled)
	v.SetDefault("watch.debounce", d.Watch.Debounce)

	v.SetDefault("paths.data_dir", d.Paths.DataDir)
	v.SetDefault("paths.db", d.Paths.DB)

	v.SetDefault("logging.level", d.Logging.Level)
}

// Init prepares v: defaults, the config file and environment overrides.
// A missing default config file is not an error; a missing file passed
// explicitly is.
func Init(v *viper.Viper, configFile string) error {
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	// BREWDESK_WATCH_DEBOUNCE for watch.debounce
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// Dir returns the brewdesk config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/brewdesk.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "brewdesk"), nil
}

// DataDir returns the default data directory, respecting XDG_DATA_HOME.
// Defaults to ~/.local/share/brewdesk.
func DataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "brewdesk"), nil
}

// ResolveDataDir returns the configured data directory or the default.
func (c *Config) ResolveDataDir() (string, error) {
	if c.Paths.DataDir != "" {
		return expandHome(c.Paths.DataDir)
	}
	return DataDir()
}

// ResolveDBPath returns the history database path.
func (c *Config) ResolveDBPath() (string, error) {
	if c.Paths.DB != "" {
		return expandHome(c.Paths.DB)
	}
	dir, err := c.ResolveDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// ResolveLocale returns the configured locale, falling back to the POSIX
// locale variables in their usual precedence.
func (c *Config) ResolveLocale() string {
	if c.UI.Locale != "" {
		return c.UI.Locale
	}
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	return ""
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
