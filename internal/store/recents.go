package store

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const maxRecents = 10

// ConfigDir returns the per-user taskweave config directory, creating it if
// needed.
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "taskweave")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func recentsPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "recents.json"), nil
}

// Recents returns recently opened document paths, most recent first. A
// missing or unreadable list is just empty.
func Recents() []string {
	p, err := recentsPath()
	if err != nil {
		return nil
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil
	}
	var paths []string
	if err := json.Unmarshal(b, &paths); err != nil {
		return nil
	}
	return paths
}

// TouchRecent moves path to the front of the recents list, dropping
// duplicates and anything past the cap. Failures are swallowed; the list is
// a convenience, not state.
func TouchRecent(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	paths := []string{abs}
	for _, p := range Recents() {
		if p == abs {
			continue
		}
		paths = append(paths, p)
		if len(paths) == maxRecents {
			break
		}
	}
	p, err := recentsPath()
	if err != nil {
		return
	}
	b, err := json.Marshal(paths)
	if err != nil {
		return
	}
	_ = os.WriteFile(p, b, 0o644)
}
