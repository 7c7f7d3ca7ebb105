package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

var errNothingToRestore = errors.New("nothing to restore")

// undoStore keeps the last deleted record of each list so that a later run
// can create it again.
type undoStore struct {
	dir string
}

func (undo undoStore) path(kind string) string {
	return filepath.Join(undo.dir, "deleted-"+kind+".json")
}

func remember[T any](undo undoStore, kind string, record T) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding deleted %s: %w", kind, err)
	}
	if err := os.MkdirAll(undo.dir, 0o700); err != nil {
		return fmt.Errorf("creating undo directory: %w", err)
	}
	if err := os.WriteFile(undo.path(kind), data, 0o600); err != nil {
		return fmt.Errorf("writing deleted %s: %w", kind, err)
	}
	return nil
}

func recall[T any](undo undoStore, kind string) (T, error) {
	var record T
	data, err := os.ReadFile(undo.path(kind))
	if errors.Is(err, fs.ErrNotExist) {
		return record, errNothingToRestore
	}
	if err != nil {
		return record, fmt.Errorf("reading deleted %s: %w", kind, err)
	}
	if err := json.Unmarshal(data, &record); err != nil {
		return record, fmt.Errorf("decoding deleted %s: %w", kind, err)
	}
	return record, nil
}

func (undo undoStore) forget(kind string) error {
	if err := os.Remove(undo.path(kind)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing deleted %s: %w", kind, err)
	}
	return nil
}
