package pattern

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Library is the on-disk YAML form of a pattern collection.
type Library struct {
	Patterns []*PromptPattern `yaml:"patterns"`
}

// LoadFromFile loads a pattern library from a YAML file.
func LoadFromFile(path string) (*Library, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pattern: read %q: %w", path, err)
	}

	var lib Library
	if err := yaml.Unmarshal(b, &lib); err != nil {
		return nil, fmt.Errorf("pattern: parse %q: %w", path, err)
	}
	return &lib, nil
}

// LoadFromDir loads every pattern library file in a directory into a new
// store. Files load in name order so insertion order is stable.
func LoadFromDir(dir string) (*Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("pattern: read dir %q: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	store := NewStore()
	for _, path := range paths {
		lib, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		for _, p := range lib.Patterns {
			if err := store.Add(p); err != nil {
				return nil, fmt.Errorf("pattern: load %q: %w", path, err)
			}
		}
	}
	return store, nil
}

// SaveToFile writes a store's patterns to a YAML library file.
func SaveToFile(s *Store, path string) error {
	if s == nil {
		return fmt.Errorf("pattern: nil store")
	}

	b, err := yaml.Marshal(&Library{Patterns: s.All()})
	if err != nil {
		return fmt.Errorf("pattern: marshal library: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("pattern: create dir %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("pattern: write %q: %w", path, err)
	}
	return nil
}
