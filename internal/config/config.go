// Package config loads vaulttasks' runtime settings from, in ascending
// precedence, built-in defaults, ~/.config/vaulttasks/config.yaml,
// VAULTTASKS_* environment variables, and CLI flags bound through cobra.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vaulttasks/vaulttasks/internal/core"
)

// Config is the full set of knobs vaulttasks understands: core.Config plus
// the daemon/CLI-only settings that sit outside the parser's domain.
type Config struct {
	Core          core.Config
	LogLevel      string
	HistoryDBPath string
}

// Defaults mirrors core.DefaultConfig, extended with this package's own
// daemon-only defaults.
func Defaults() Config {
	return Config{
		Core:          core.DefaultConfig(),
		LogLevel:      "info",
		HistoryDBPath: defaultHistoryDBPath(),
	}
}

func defaultHistoryDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "vaulttasks-history.db"
	}
	return filepath.Join(home, ".config", "vaulttasks", "history.db")
}

// RegisterFlags adds every setting this package understands to fs; Load
// binds them to viper with BindPFlags.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringSlice("vault-paths", nil, "vault root directories to scan")
	fs.Bool("parse-dot-files", false, "parse dotfiles inside vaults")
	fs.StringSlice("ignored", nil, "paths to ignore during scanning")
	fs.Int("indent-length", 2, "spaces per indent level")
	fs.Bool("use-american-format", false, "read and write dates year-first (YYYY/MM/DD) instead of DD/MM/YYYY")
	fs.Bool("file-tags-propagation", true, "propagate file-level tags onto tasks")
	fs.Int("tracker-extra-blanks", 3, "trailing blank rows to keep when writing trackers")
	fs.String("log-level", "info", "debug|info|warn|error")
	fs.String("history-db-path", "", "sqlite file for the edit history log")
}

// Load builds a viper instance, reads the YAML config file if present, and
// returns the resolved Config plus the viper.Viper (for WatchAndReload).
func Load(fs *pflag.FlagSet) (Config, *viper.Viper, error) {
	cfg := Defaults()

	v := viper.New()
	v.SetEnvPrefix("VAULTTASKS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "vaulttasks"))
	}
	v.AddConfigPath(".")

	setDefaults(v, cfg)

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return cfg, v, fmt.Errorf("binding flags: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, v, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg.Core.VaultPaths = v.GetStringSlice("vault-paths")
	cfg.Core.ParseDotFiles = v.GetBool("parse-dot-files")
	cfg.Core.Ignored = v.GetStringSlice("ignored")
	cfg.Core.IndentLength = v.GetInt("indent-length")
	cfg.Core.UseAmericanFormat = v.GetBool("use-american-format")
	cfg.Core.FileTagsPropagation = v.GetBool("file-tags-propagation")
	cfg.Core.TrackerExtraBlanks = v.GetInt("tracker-extra-blanks")
	cfg.LogLevel = v.GetString("log-level")
	if dbPath := v.GetString("history-db-path"); dbPath != "" {
		cfg.HistoryDBPath = dbPath
	}
	if markers := v.GetStringMapString("task-state-markers"); len(markers) > 0 {
		cfg.Core.TaskStateMarkers = markersFromStrings(markers, cfg.Core.TaskStateMarkers)
	}

	return cfg, v, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("vault-paths", cfg.Core.VaultPaths)
	v.SetDefault("parse-dot-files", cfg.Core.ParseDotFiles)
	v.SetDefault("ignored", cfg.Core.Ignored)
	v.SetDefault("indent-length", cfg.Core.IndentLength)
	v.SetDefault("use-american-format", cfg.Core.UseAmericanFormat)
	v.SetDefault("file-tags-propagation", cfg.Core.FileTagsPropagation)
	v.SetDefault("tracker-extra-blanks", cfg.Core.TrackerExtraBlanks)
	v.SetDefault("log-level", cfg.LogLevel)
	v.SetDefault("history-db-path", cfg.HistoryDBPath)
}

// markersFromStrings overlays a "todo"/"done"/"incomplete"/"canceled" map
// (as loaded from the task-state-markers key) onto fallback, one rune per key.
func markersFromStrings(m map[string]string, fallback core.TaskStateMarkers) core.TaskStateMarkers {
	out := fallback
	assign := func(s string, dst *rune) {
		if s == "" {
			return
		}
		r := []rune(s)
		*dst = r[0]
	}
	assign(m["todo"], &out.ToDo)
	assign(m["done"], &out.Done)
	assign(m["incomplete"], &out.Incomplete)
	assign(m["canceled"], &out.Canceled)
	return out
}

// WatchAndReload re-invokes onChange whenever the config file backing v
// changes on disk, via viper's fsnotify integration.
func WatchAndReload(v *viper.Viper, onChange func(fsnotify.Event)) {
	v.OnConfigChange(onChange)
	v.WatchConfig()
}
