package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"

	"github.com/zephyrtronium/quill"
)

// config is the contents of a configuration file.
type config struct {
	// Paths are module search paths, tried after the importing file's
	// directory.
	Paths []string `yaml:"paths"`
	// LogLevel is the minimum level of logged diagnostics.
	LogLevel string `yaml:"log_level"`
	// Prelude is a list of files run before the program. Their top-level
	// bindings are visible to the program.
	Prelude []string `yaml:"prelude"`
	// Locale is the default locale for Number.format.
	Locale string `yaml:"locale"`
	// History is the REPL history file. The default is .quill_history in the
	// user's home directory; "none" disables history.
	History string `yaml:"history"`
}

// historyFile returns the path of the REPL history file, or the empty string
// if there is none.
func (cfg *config) historyFile() string {
	switch cfg.History {
	case "none":
		return ""
	case "":
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		return filepath.Join(home, ".quill_history")
	}
	return cfg.History
}

// loadConfig reads a configuration file. An empty path gives the zero config.
func loadConfig(path string) (*config, error) {
	var cfg config
	if path == "" {
		return &cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't read config: %w", err)
	}
	if err := yaml.UnmarshalStrict(b, &cfg); err != nil {
		return nil, fmt.Errorf("couldn't parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// level parses the configured log level. The default is warn.
func (cfg *config) level() (slog.Level, error) {
	var l slog.Level
	if cfg.LogLevel == "" {
		return slog.LevelWarn, nil
	}
	if err := l.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return 0, fmt.Errorf("bad log level %q: %w", cfg.LogLevel, err)
	}
	return l, nil
}

// options converts the config to interpreter options.
func (cfg *config) options() ([]quill.Option, error) {
	l, err := cfg.level()
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
	opts := []quill.Option{quill.WithLogger(logger), quill.WithPaths(cfg.Paths...)}
	if cfg.Locale != "" {
		tag, err := language.Parse(cfg.Locale)
		if err != nil {
			return nil, fmt.Errorf("bad locale %q: %w", cfg.Locale, err)
		}
		opts = append(opts, quill.WithLocale(tag))
	}
	return opts, nil
}
