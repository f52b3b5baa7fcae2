// Package config loads taskweave settings. Precedence is defaults, then the
// user config file, then environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds every tunable.
type Config struct {
	// DefaultView is the view opened at startup: board, queue, graph or
	// outline.
	DefaultView string `toml:"default_view"`

	// DragGraceMs is how long a drop target must stay hovered before a
	// release links it, in milliseconds.
	DragGraceMs int `toml:"drag_grace_ms"`

	// EventLog enables the sqlite change log next to the document.
	EventLog bool `toml:"event_log"`

	// HideCompleted drops completed tasks from the graph view.
	HideCompleted bool `toml:"hide_completed"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DefaultView: "board",
		DragGraceMs: 1000,
	}
}

// DragGrace returns the grace period as a duration.
func (c Config) DragGrace() time.Duration {
	return time.Duration(c.DragGraceMs) * time.Millisecond
}

// Validate rejects settings no view can honor. Callers that override fields
// after Load must re-validate.
func (c Config) Validate() error {
	switch c.DefaultView {
	case "board", "queue", "graph", "outline":
	default:
		return fmt.Errorf("unknown default_view %q", c.DefaultView)
	}
	if c.DragGraceMs < 0 {
		return fmt.Errorf("drag_grace_ms must not be negative")
	}
	return nil
}

// Path returns the user config file location. TASKWEAVE_CONFIG overrides it.
func Path() (string, error) {
	if p := os.Getenv("TASKWEAVE_CONFIG"); p != "" {
		return p, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "taskweave", "taskweave.toml"), nil
}

// Load assembles the effective configuration. A missing config file is fine;
// a malformed one is an error.
func Load() (Config, error) {
	cfg := Default()
	p, err := Path()
	if err != nil {
		return cfg, err
	}
	if _, err := toml.DecodeFile(p, &cfg); err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("config %s: %w", p, err)
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TASKWEAVE_VIEW"); v != "" {
		cfg.DefaultView = v
	}
	if v := os.Getenv("TASKWEAVE_DRAG_GRACE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			cfg.DragGraceMs = ms
		}
	}
	if v := os.Getenv("TASKWEAVE_EVENT_LOG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.EventLog = b
		}
	}
	if v := os.Getenv("TASKWEAVE_HIDE_COMPLETED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.HideCompleted = b
		}
	}
}
