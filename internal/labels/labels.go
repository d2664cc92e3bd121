// Package labels persists user-assigned labels for programs in a single JSON
// document mapping program name to an ordered list of labels.
package labels

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrMissingStore is returned when the label file does not exist. The store
// is never created implicitly; see Store.Init.
var ErrMissingStore = errors.New("label store does not exist")

// Map is the in-memory label document. Key order follows the file.
type Map = orderedmap.OrderedMap[string, []string]

// NewMap returns an empty Map.
func NewMap() *Map {
	return orderedmap.New[string, []string]()
}

// RemoveResult describes the outcome of Store.Remove.
type RemoveResult int

const (
	// Removed means the label was removed and the store rewritten.
	Removed RemoveResult = iota
	// RemoveNoLabels means the program had no entry; nothing was written.
	RemoveNoLabels
	// RemoveLabelMissing means the program had no such label; nothing was written.
	RemoveLabelMissing
)

// Store reads and writes the label file at Path.
type Store struct {
	Path string
}

// New returns a Store backed by the file at path.
func New(path string) *Store {
	return &Store{Path: path}
}

// ---------------------------------------------------------------------------
// Load / Save
// ---------------------------------------------------------------------------

// Load reads the whole label file. Comments and trailing commas are tolerated.
func (s *Store) Load() (*Map, error) {
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("labels.Load: %s: %w", s.Path, ErrMissingStore)
	}
	if err != nil {
		return nil, fmt.Errorf("labels.Load: %w", err)
	}

	m := NewMap()
	if err := json.Unmarshal(jsonc.ToJSON(data), m); err != nil {
		return nil, fmt.Errorf("labels.Load: parse %s: %w", s.Path, err)
	}
	return m, nil
}

// Save rewrites the whole label file in the single-line `{"k": ["v"]}` form
// (see Encode). The new content is written to a temporary file in the same
// directory and renamed over the old one, so a reader never sees a partial
// document. Concurrent writers are not coordinated: the last rename wins.
func (s *Store) Save(m *Map) error {
	b, err := Encode(m)
	if err != nil {
		return fmt.Errorf("labels.Save: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.Path), ".eglabels-*.json")
	if err != nil {
		return fmt.Errorf("labels.Save: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("labels.Save: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("labels.Save: close: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil { // #nosec G302 -- labels are not secret
		return fmt.Errorf("labels.Save: chmod: %w", err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		return fmt.Errorf("labels.Save: rename: %w", err)
	}
	return nil
}

// Encode renders m on one line with ", " and ": " separators and no trailing
// newline, keeping key order. Loading and re-encoding a file in this form
// reproduces it byte for byte.
func Encode(m *Map) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		if pair != m.Oldest() {
			buf.WriteString(", ")
		}
		if err := writeString(&buf, pair.Key); err != nil {
			return nil, err
		}
		buf.WriteString(": [")
		for i, label := range pair.Value {
			if i > 0 {
				buf.WriteString(", ")
			}
			if err := writeString(&buf, label); err != nil {
				return nil, err
			}
		}
		buf.WriteByte(']')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

// Init creates an empty store when none exists. It reports whether a file
// was created.
func (s *Store) Init() (bool, error) {
	if _, err := os.Stat(s.Path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("labels.Init: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return false, fmt.Errorf("labels.Init: %w", err)
	}
	if err := s.Save(NewMap()); err != nil {
		return false, err
	}
	return true, nil
}

// ---------------------------------------------------------------------------
// Operations
// ---------------------------------------------------------------------------

// List returns the labels of program in insertion order, or an empty slice.
func (s *Store) List(program string) ([]string, error) {
	m, err := s.Load()
	if err != nil {
		return nil, err
	}
	labels, _ := m.Get(program)
	if labels == nil {
		return make([]string, 0), nil
	}
	return labels, nil
}

// Add appends label to program's list, creating the entry if needed. A label
// the program already carries is not duplicated and the file is left
// untouched; the returned bool reports whether anything was added.
func (s *Store) Add(program, label string) (bool, error) {
	m, err := s.Load()
	if err != nil {
		return false, err
	}
	labels, _ := m.Get(program)
	if indexOf(labels, label) >= 0 {
		return false, nil
	}
	m.Set(program, append(labels, label))
	if err := s.Save(m); err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes the first occurrence of label from program's list. The file
// is only rewritten when something was removed. A program whose last label is
// removed keeps its key with an empty list.
func (s *Store) Remove(program, label string) (RemoveResult, error) {
	m, err := s.Load()
	if err != nil {
		return 0, err
	}
	labels, ok := m.Get(program)
	if !ok {
		return RemoveNoLabels, nil
	}
	i := indexOf(labels, label)
	if i < 0 {
		return RemoveLabelMissing, nil
	}

	m.Set(program, append(labels[:i:i], labels[i+1:]...))
	if err := s.Save(m); err != nil {
		return 0, err
	}
	return Removed, nil
}

// Find returns every program carrying label, in map order.
func (s *Store) Find(label string) ([]string, error) {
	m, err := s.Load()
	if err != nil {
		return nil, err
	}
	programs := make([]string, 0)
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		if indexOf(pair.Value, label) >= 0 {
			programs = append(programs, pair.Key)
		}
	}
	return programs, nil
}

func indexOf(ss []string, s string) int {
	for i, v := range ss {
		if v == s {
			return i
		}
	}
	return -1
}
