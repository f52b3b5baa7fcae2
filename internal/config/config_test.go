package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	t.Setenv("TASKWEAVE_CONFIG", filepath.Join(t.TempDir(), "absent.toml"))
	t.Setenv("TASKWEAVE_VIEW", "")
	t.Setenv("TASKWEAVE_DRAG_GRACE_MS", "")
	t.Setenv("TASKWEAVE_EVENT_LOG", "")
	t.Setenv("TASKWEAVE_HIDE_COMPLETED", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultView != "board" {
		t.Fatalf("default view = %q", cfg.DefaultView)
	}
	if cfg.DragGrace() != time.Second {
		t.Fatalf("default grace = %v", cfg.DragGrace())
	}
	if cfg.EventLog || cfg.HideCompleted {
		t.Fatalf("boolean defaults flipped: %+v", cfg)
	}
}

func TestFileOverridesDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "taskweave.toml")
	body := "default_view = \"queue\"\ndrag_grace_ms = 250\nevent_log = true\n"
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("TASKWEAVE_CONFIG", p)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultView != "queue" || cfg.DragGrace() != 250*time.Millisecond || !cfg.EventLog {
		t.Fatalf("file not applied: %+v", cfg)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "taskweave.toml")
	if err := os.WriteFile(p, []byte("default_view = \"queue\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("TASKWEAVE_CONFIG", p)
	t.Setenv("TASKWEAVE_VIEW", "graph")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultView != "graph" {
		t.Fatalf("env did not win: %q", cfg.DefaultView)
	}
}

func TestRejectsUnknownView(t *testing.T) {
	t.Setenv("TASKWEAVE_CONFIG", filepath.Join(t.TempDir(), "absent.toml"))
	t.Setenv("TASKWEAVE_VIEW", "kanban3d")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown view")
	}
}

func TestRejectsMalformedFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "taskweave.toml")
	if err := os.WriteFile(p, []byte("default_view = [broken"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("TASKWEAVE_CONFIG", p)
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for malformed toml")
	}
}
