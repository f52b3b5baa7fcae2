// Package store persists documents: a JSON file per document written
// atomically, a recents list in the user config dir, and an optional sqlite
// change log.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"taskweave/internal/graph"
)

// formatVersion is bumped when the envelope layout changes incompatibly.
const formatVersion = 1

type envelope struct {
	Version int            `json:"version"`
	Graph   graph.Snapshot `json:"graph"`
}

// Save writes the snapshot to path. The write goes to a temp file in the
// same directory, is synced, then renamed over the target, so a crash
// mid-write never leaves a half-written document behind.
func Save(path string, s graph.Snapshot) error {
	b, err := json.MarshalIndent(envelope{Version: formatVersion, Graph: s}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	b = append(b, '\n')

	dir := filepath.Dir(filepath.Clean(path))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	tmp, err := os.CreateTemp(dir, ".taskweave-*.json")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// Load reads and validates a document file. I/O failures come back wrapped
// in ErrPersistence; anything wrong with the contents, from bad JSON to a
// cyclic edge set, comes back wrapped in ErrCorrupt.
func Load(path string) (*graph.Graph, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if env.Version > formatVersion {
		return nil, fmt.Errorf("%w: format version %d is newer than this build understands", ErrCorrupt, env.Version)
	}
	g, err := graph.FromSnapshot(env.Graph)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return g, nil
}
