package authguard

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

type fileState struct {
	Flags   map[string]string `json:"flags"`
	Cookies string            `json:"cookies,omitempty"`
}

// FileStore keeps the flags and the session cookie in a JSON file so they
// survive between CLI runs
type FileStore struct {
	mu   sync.Mutex
	path string
	data fileState
}

// OpenFileStore loads path; a missing file is an empty store
func OpenFileStore(path string) (*FileStore, error) {
	f := &FileStore{path: path, data: fileState{Flags: map[string]string{}}}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	if err := json.Unmarshal(raw, &f.data); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", path, err)
	}
	if f.data.Flags == nil {
		f.data.Flags = map[string]string{}
	}
	return f, nil
}

func (f *FileStore) Get(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data.Flags[key]
}

func (f *FileStore) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data.Flags[key] = value
	return f.save()
}

func (f *FileStore) CookieText() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data.Cookies
}

func (f *FileStore) SetCookieText(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data.Cookies = text
	return f.save()
}

// Clear forgets the login on this device
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data = fileState{Flags: map[string]string{}}
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove state file: %w", err)
	}
	return nil
}

// save writes a temp file and renames it over the state file
func (f *FileStore) save() error {
	raw, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}
