package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoSession is returned by Load when nothing was saved.
var ErrNoSession = errors.New("no saved session")

// FileStore keeps the session in a JSON file readable only by the owner.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (store *FileStore) Load() (State, error) {
	data, err := os.ReadFile(store.path)
	if errors.Is(err, os.ErrNotExist) {
		return State{}, ErrNoSession
	}
	if err != nil {
		return State{}, fmt.Errorf("reading session file: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("decoding session file: %w", err)
	}
	if state.Token == "" {
		return State{}, ErrNoSession
	}
	return state, nil
}

func (store *FileStore) Save(state State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(store.path), 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	temp := store.path + ".tmp"
	if err := os.WriteFile(temp, data, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := os.Rename(temp, store.path); err != nil {
		os.Remove(temp)
		return fmt.Errorf("replacing session file: %w", err)
	}
	return nil
}

func (store *FileStore) Clear() error {
	if err := os.Remove(store.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}
