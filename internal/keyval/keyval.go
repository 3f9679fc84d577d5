// Package keyval is the durable key/value slot the rest of the application
// persists into. It mirrors the layout of browser localStorage: a flat map of
// string keys, rewritten as a whole on every set, last writer wins.
package keyval

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

type File struct {
	mu    sync.Mutex
	path  string
	slots map[string]json.RawMessage
}

func Open(path string) (*File, error) {
	f := &File{path: path, slots: make(map[string]json.RawMessage)}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read slot file: %w", err)
	}
	if err := json.Unmarshal(raw, &f.slots); err != nil {
		return nil, fmt.Errorf("decode slot file: %w", err)
	}
	return f, nil
}

// Get returns the raw JSON stored under key.
func (f *File) Get(key string) (json.RawMessage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.slots[key]
	return v, ok
}

// GetInto decodes the value under key into dst.
func (f *File) GetInto(key string, dst any) (bool, error) {
	raw, ok := f.Get(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("decode slot %q: %w", key, err)
	}
	return true, nil
}

// Set stores v under key and synchronously rewrites the backing file.
func (f *File) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode slot %q: %w", key, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.slots[key] = raw
	return f.flush()
}

func (f *File) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.slots[key]; !ok {
		return nil
	}
	delete(f.slots, key)
	return f.flush()
}

func (f *File) flush() error {
	raw, err := json.Marshal(f.slots)
	if err != nil {
		return fmt.Errorf("encode slot file: %w", err)
	}
	if err := os.WriteFile(f.path, raw, 0o600); err != nil {
		return fmt.Errorf("write slot file: %w", err)
	}
	return nil
}
