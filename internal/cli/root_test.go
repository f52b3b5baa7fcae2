package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"taskweave/internal/graph"
	"taskweave/internal/store"
)

func writeSample(t *testing.T) string {
	t.Helper()
	g := graph.New()
	a := &graph.Create{Title: "ship release"}
	if _, err := a.Apply(g); err != nil {
		t.Fatalf("create: %v", err)
	}
	p := a.ID()
	b := &graph.Create{Parent: &p, Title: "announce"}
	if _, err := b.Apply(g); err != nil {
		t.Fatalf("create: %v", err)
	}
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := store.Save(path, g.Export()); err != nil {
		t.Fatalf("save: %v", err)
	}
	return path
}

func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestQueueCommand(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := writeSample(t)

	out := runCmd(t, "queue", path)
	if !strings.Contains(out, "ship release") {
		t.Fatalf("unblocked task missing from queue:\n%s", out)
	}
	if strings.Contains(out, "announce") {
		t.Fatalf("blocked task listed in queue:\n%s", out)
	}
}

func TestDotCommand(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := writeSample(t)

	out := runCmd(t, "dot", path)
	for _, want := range []string{"digraph tasks", "n0 -> n1;"} {
		if !strings.Contains(out, want) {
			t.Fatalf("dot output missing %q:\n%s", want, out)
		}
	}
}

func TestQueueCommandMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"queue", filepath.Join(t.TempDir(), "nope.json")})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestCategoryCommands(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := writeSample(t)

	runCmd(t, "category", "set", path, "infra", "--color", "#5f87ff", "--inherit")
	out := runCmd(t, "category", "list", path)
	if !strings.Contains(out, "infra") || !strings.Contains(out, "#5f87ff") {
		t.Fatalf("category missing from list:\n%s", out)
	}
	g, err := store.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cat, ok := g.Category("infra"); !ok || !cat.InheritToChildren {
		t.Fatalf("category not persisted: %+v", cat)
	}

	runCmd(t, "category", "rm", path, "infra")
	if out := runCmd(t, "category", "list", path); strings.Contains(out, "infra") {
		t.Fatalf("removed category still listed:\n%s", out)
	}
}

func TestPriorityCommands(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := writeSample(t)

	runCmd(t, "priority", "set", path, "Urgent", "--rank", "20")
	out := runCmd(t, "priority", "list", path)
	if !strings.HasPrefix(out, "Urgent\t20") {
		t.Fatalf("highest rank not listed first:\n%s", out)
	}

	runCmd(t, "priority", "rm", path, "Urgent")
	if out := runCmd(t, "priority", "list", path); strings.Contains(out, "Urgent") {
		t.Fatalf("removed priority still listed:\n%s", out)
	}
}

func TestViewFlagValidated(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("TASKWEAVE_CONFIG", "")
	t.Setenv("TASKWEAVE_VIEW", "")

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--view", "bogus"})
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "default_view") {
		t.Fatalf("expected view validation error; got %v", err)
	}
}

func TestOpenDocumentNewFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "fresh.json")

	d, err := openDocument(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if d.Snapshot().Len() != 0 {
		t.Fatalf("new document not empty")
	}
	if d.Path() == "" {
		t.Fatalf("document not bound to the requested path")
	}

	recents := store.Recents()
	if len(recents) != 1 || !strings.HasSuffix(recents[0], "fresh.json") {
		t.Fatalf("recents not updated: %v", recents)
	}
}

func TestOpenDocumentExisting(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := writeSample(t)

	d, err := openDocument(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if d.Snapshot().Len() != 2 {
		t.Fatalf("loaded document has %d tasks", d.Snapshot().Len())
	}
}
