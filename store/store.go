// Package store keeps nested, path-addressed state. Paths are sequences of
// map keys (strings) and slice indices (ints), e.g.
// Path{"app", "wizard", "config", "SharedStorage", 0, "Name"}.
package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

var ErrInvalidPath = errors.New("path must start with a key")

type Path []interface{}

func (p Path) String() string {
	parts := make([]string, 0, len(p))
	for _, key := range p {
		parts = append(parts, fmt.Sprint(key))
	}
	return strings.Join(parts, ".")
}

// Append returns a new path, the receiver is never modified.
func (p Path) Append(keys ...interface{}) Path {
	out := make(Path, 0, len(p)+len(keys))
	out = append(out, p...)
	return append(out, keys...)
}

// ParsePath turns "app.wizard.queues.0.Name" into a Path, numeric segments
// become indices.
func ParsePath(s string) Path {
	if s == "" {
		return Path{}
	}
	path := Path{}
	for _, segment := range strings.Split(s, ".") {
		if idx, err := strconv.Atoi(segment); err == nil && idx >= 0 {
			path = append(path, idx)
			continue
		}
		path = append(path, segment)
	}
	return path
}

type Store struct {
	mu   sync.RWMutex
	root map[string]interface{}
}

func New() *Store {
	return &Store{root: map[string]interface{}{}}
}

// Get returns a copy of the value at path, nil when absent.
func (s *Store) Get(path Path) interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return deepCopy(lookup(s.root, path))
}

func (s *Store) GetString(path Path) string {
	if v, ok := s.Get(path).(string); ok {
		return v
	}
	return ""
}

func (s *Store) GetBool(path Path) bool {
	v, _ := s.Get(path).(bool)
	return v
}

func checkPath(path Path) error {
	if len(path) == 0 {
		return fmt.Errorf("empty path")
	}
	if _, ok := path[0].(string); !ok {
		return ErrInvalidPath
	}
	return nil
}

// Set stores a copy of value at path, creating intermediate maps and
// slices as needed.
func (s *Store) Set(path Path, value interface{}) error {
	if err := checkPath(path); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replace(path, deepCopy(value))
}

func (s *Store) replace(path Path, value interface{}) error {
	root, err := assign(s.root, path, value)
	if err != nil {
		return err
	}
	tree, ok := root.(map[string]interface{})
	if !ok {
		return ErrInvalidPath
	}
	s.root = tree
	return nil
}

// Clear removes the value at path. Removing a slice element shifts the
// following elements down.
func (s *Store) Clear(path Path) {
	if checkPath(path) != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	parentPath, last := path[:len(path)-1], path[len(path)-1]
	parent := lookup(s.root, parentPath)
	switch container := parent.(type) {
	case map[string]interface{}:
		if key, ok := last.(string); ok {
			delete(container, key)
		}
	case []interface{}:
		idx, ok := last.(int)
		if !ok || idx < 0 || idx >= len(container) {
			return
		}
		shrunk := append(container[:idx:idx], container[idx+1:]...)
		if len(parentPath) == 0 {
			return
		}
		_ = s.replace(parentPath, shrunk)
	}
}

// Update replaces the value at path with fn(current) atomically.
func (s *Store) Update(path Path, fn func(current interface{}) interface{}) error {
	if err := checkPath(path); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replace(path, deepCopy(fn(deepCopy(lookup(s.root, path)))))
}

// Snapshot returns a deep copy of the whole tree.
func (s *Store) Snapshot() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return deepCopy(s.root).(map[string]interface{})
}

func lookup(node interface{}, path Path) interface{} {
	current := node
	for _, key := range path {
		switch container := current.(type) {
		case map[string]interface{}:
			k, ok := key.(string)
			if !ok {
				return nil
			}
			current = container[k]
		case []interface{}:
			idx, ok := key.(int)
			if !ok || idx < 0 || idx >= len(container) {
				return nil
			}
			current = container[idx]
		default:
			return nil
		}
	}
	return current
}

func assign(node interface{}, path Path, value interface{}) (interface{}, error) {
	if len(path) == 0 {
		return value, nil
	}
	switch key := path[0].(type) {
	case string:
		container, ok := node.(map[string]interface{})
		if !ok {
			container = map[string]interface{}{}
		}
		child, err := assign(container[key], path[1:], value)
		if err != nil {
			return nil, err
		}
		container[key] = child
		return container, nil
	case int:
		if key < 0 {
			return nil, fmt.Errorf("negative index %d", key)
		}
		container, ok := node.([]interface{})
		if !ok {
			container = []interface{}{}
		}
		for len(container) <= key {
			container = append(container, nil)
		}
		child, err := assign(container[key], path[1:], value)
		if err != nil {
			return nil, err
		}
		container[key] = child
		return container, nil
	default:
		return nil, fmt.Errorf("unsupported path key %v (%T)", key, key)
	}
}

func deepCopy(node interface{}) interface{} {
	switch v := node.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, child := range v {
			out[k] = deepCopy(child)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, child := range v {
			out[i] = deepCopy(child)
		}
		return out
	default:
		return v
	}
}
