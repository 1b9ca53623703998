// Package settings is the persisted key/value store for overlay options
// and the clamped Config snapshot derived from it.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Better-Minimap/internal/logger"
)

// ErrNotSet is returned by typed getters that have no default when the key
// is absent.
var ErrNotSet = errors.New("settings: key not set")

// Store is a flat key/value map persisted as a JSON object. Values are kept
// raw so each key is decoded with the type its reader expects; a value of
// the wrong type reads as its default.
type Store struct {
	path   string
	values map[string]json.RawMessage
	log    *logrus.Entry
}

// NewStore returns an empty store that saves to path. An empty path keeps
// the store in memory only.
func NewStore(path string) *Store {
	return &Store{
		path:   path,
		values: make(map[string]json.RawMessage),
		log:    logger.For("settings"),
	}
}

// Load reads the store at path. A missing file yields an empty store. A
// corrupt file is reported and also yields an empty store, so callers can
// log and carry on with defaults.
func Load(path string) (*Store, error) {
	s := NewStore(path)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("read settings %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		s.values = make(map[string]json.RawMessage)
		return s, fmt.Errorf("decode settings %s: %w", path, err)
	}
	if s.values == nil {
		s.values = make(map[string]json.RawMessage)
	}
	return s, nil
}

// Save writes the store to its path through a temp file and rename. It is a
// no-op for in-memory stores.
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings dir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}

// Path is the file the store saves to.
func (s *Store) Path() string { return s.path }

// Has reports whether key is present.
func (s *Store) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Remove deletes key.
func (s *Store) Remove(key string) {
	delete(s.values, key)
}

// Keys returns all keys, sorted.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Bool returns the boolean at key, or def when absent or not a boolean.
func (s *Store) Bool(key string, def bool) bool {
	var v bool
	if !s.decode(key, &v) {
		return def
	}
	return v
}

// Int returns the integer at key, or def when absent or not an integer.
func (s *Store) Int(key string, def int) int {
	var v int
	if !s.decode(key, &v) {
		return def
	}
	return v
}

// StringSet returns the string list stored at key, in stored order.
func (s *Store) StringSet(key string) ([]string, error) {
	raw, ok := s.values[key]
	if !ok {
		return nil, ErrNotSet
	}
	var v []string
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return v, nil
}

// PutBool stores a boolean.
func (s *Store) PutBool(key string, v bool) { s.put(key, v) }

// PutInt stores an integer.
func (s *Store) PutInt(key string, v int) { s.put(key, v) }

// PutStringSet stores a string list. A nil list is stored as empty.
func (s *Store) PutStringSet(key string, v []string) {
	if v == nil {
		v = []string{}
	}
	s.put(key, v)
}

// Export returns the store as indented JSON.
func (s *Store) Export() (string, error) {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode settings: %w", err)
	}
	return string(data), nil
}

func (s *Store) put(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		// Only primitives and []string reach here.
		s.log.WithError(err).WithField("key", key).Error("Failed to encode setting.")
		return
	}
	s.values[key] = data
}

func (s *Store) decode(key string, dst any) bool {
	raw, ok := s.values[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}
