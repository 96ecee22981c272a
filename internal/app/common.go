package app

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/blackwell-systems/brewdesk/internal/brew"
	"github.com/blackwell-systems/brewdesk/internal/config"
	"github.com/blackwell-systems/brewdesk/internal/i18n"
	"github.com/blackwell-systems/brewdesk/internal/logging"
	"github.com/blackwell-systems/brewdesk/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// env is everything a command needs, built from config and flags.
type env struct {
	cfg    *config.Config
	log    *logging.Logger
	client *brew.Client
	tr     i18n.Translator
}

// loadEnv reads configuration, applies the persistent flags on top and
// builds the brew client, translator and logger.
func loadEnv(cmd *cobra.Command) (*env, error) {
	v := viper.New()
	flags := cmd.Root().PersistentFlags()
	if err := v.BindPFlag("paths.db", flags.Lookup("db")); err != nil {
		return nil, err
	}
	if err := v.BindPFlag("ui.locale", flags.Lookup("locale")); err != nil {
		return nil, err
	}
	if err := config.Init(v, configFile); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory: %w", err)
	}
	log, err := logging.NewLogger(dataDir, cfg.Logging.Level)
	if err != nil {
		return nil, err
	}

	client, err := brew.NewClient(brew.ExecRunner{Path: cfg.Brew.Path}, brew.ClientConfig{
		CacheSize: cfg.Cache.Size,
		Timeout:   cfg.Brew.Timeout,
	})
	if err != nil {
		log.Close()
		return nil, err
	}

	bundle, err := i18n.Load()
	if err != nil {
		log.Close()
		return nil, err
	}

	log.Debug("command started", "command", cmd.Name(), "brew", cfg.Brew.Path, "data_dir", dataDir)
	return &env{
		cfg:    cfg,
		log:    log,
		client: client,
		tr:     bundle.Translator(cfg.ResolveLocale()),
	}, nil
}

// openStore opens the history database, creating it on first use.
func (e *env) openStore() (*store.Store, error) {
	path, err := e.cfg.ResolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path: %w", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return st, nil
}

func (e *env) close() {
	e.log.Close()
}

// brewError adds a hint when brew itself could not be run.
func brewError(err error) error {
	if errors.Is(err, brew.ErrBrewMissing) {
		return fmt.Errorf("%w (is Homebrew installed? set brew.path in %s)", err, configPathHint())
	}
	return err
}

func configPathHint() string {
	if configFile != "" {
		return configFile
	}
	dir, err := config.Dir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "config.yaml")
}

func nameParam(name string) i18n.Param {
	return i18n.P("name", name)
}
