// Package examples resolves program names to example files across the custom
// and default example trees.
//
// Custom examples live flat in the custom directory as <program>.md. Default
// examples are sharded by the lower-cased first letter of the program name:
// <examples-dir>/t/tar.md. Names starting with anything other than an ASCII
// letter go to the "_" shard.
package examples

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-ports/eg/internal/config"
)

// Extension is the file extension of example files.
const Extension = ".md"

var (
	// ErrNotFound is returned when neither tree has an entry for a program.
	ErrNotFound = errors.New("no entry found")
	// ErrInvalidProgram is returned for names that could escape the example trees.
	ErrInvalidProgram = errors.New("invalid program name")
)

// ---------------------------------------------------------------------------
// Marker
// ---------------------------------------------------------------------------

// Marker tells which trees hold examples for a program.
type Marker int

const (
	// MarkerNone covers default-only programs (and, for completeness, neither).
	MarkerNone Marker = iota
	// MarkerCustomOnly means only a custom file exists.
	MarkerCustomOnly
	// MarkerCustomAndDefault means both a custom and a default file exist.
	MarkerCustomAndDefault
)

// Legend symbols shown next to program names.
const (
	SymbolCustomOnly       = "+"
	SymbolCustomAndDefault = "*"
)

// MarkerFor derives the marker from which files are present.
func MarkerFor(hasCustom, hasDefault bool) Marker {
	switch {
	case hasCustom && hasDefault:
		return MarkerCustomAndDefault
	case hasCustom:
		return MarkerCustomOnly
	default:
		return MarkerNone
	}
}

// Symbol returns the legend symbol, "" for MarkerNone.
func (m Marker) Symbol() string {
	switch m {
	case MarkerCustomOnly:
		return SymbolCustomOnly
	case MarkerCustomAndDefault:
		return SymbolCustomAndDefault
	default:
		return ""
	}
}

func (m Marker) String() string {
	switch m {
	case MarkerCustomOnly:
		return "custom-only"
	case MarkerCustomAndDefault:
		return "custom-and-default"
	default:
		return "none"
	}
}

// Legend is the explanation printed above program listings.
const Legend = "Legend: \n" +
	"    " + SymbolCustomOnly + " only custom files\n" +
	"    " + SymbolCustomAndDefault + " custom and default files\n" +
	"      only default files (no symbol)\n"

// ---------------------------------------------------------------------------
// Lookup
// ---------------------------------------------------------------------------

// Resolution is the outcome of looking up one program.
type Resolution struct {
	Program     string
	CustomPath  string // "" when absent
	DefaultPath string // "" when absent
	Marker      Marker
}

// Path returns the file to display: the custom file when present, otherwise
// the default one.
func (r Resolution) Path() string {
	if r.CustomPath != "" {
		return r.CustomPath
	}
	return r.DefaultPath
}

// Content reads the file returned by Path.
func (r Resolution) Content() (string, error) {
	data, err := os.ReadFile(r.Path())
	if err != nil {
		return "", fmt.Errorf("examples.Content: %w", err)
	}
	return string(data), nil
}

// CustomFile returns the custom example path for program, or "" when no
// custom directory is configured.
func CustomFile(cfg config.Resolved, program string) string {
	if cfg.CustomDir == "" {
		return ""
	}
	return filepath.Join(cfg.CustomDir, program+Extension)
}

// DefaultFile returns the default example path for program.
func DefaultFile(cfg config.Resolved, program string) string {
	return filepath.Join(cfg.ExamplesDir, Shard(program), program+Extension)
}

// Shard returns the default-tree subdirectory for program.
func Shard(program string) string {
	if program == "" {
		return "_"
	}
	ch := program[0]
	switch {
	case ch >= 'a' && ch <= 'z':
		return string(ch)
	case ch >= 'A' && ch <= 'Z':
		return string(ch + ('a' - 'A'))
	default:
		return "_"
	}
}

// ValidateProgram rejects names that are empty or could traverse directories.
func ValidateProgram(program string) error {
	if program == "" || program == "." || program == ".." ||
		strings.ContainsAny(program, `/\`) || strings.ContainsRune(program, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidProgram, program)
	}
	return nil
}

// Locate checks both trees for program. Each candidate is stat'ed
// independently. When neither exists the error wraps ErrNotFound.
func Locate(program string, cfg config.Resolved) (Resolution, error) {
	if err := ValidateProgram(program); err != nil {
		return Resolution{}, err
	}

	res := Resolution{Program: program}
	if p := CustomFile(cfg, program); p != "" && isFile(p) {
		res.CustomPath = p
	}
	if p := DefaultFile(cfg, program); isFile(p) {
		res.DefaultPath = p
	}
	res.Marker = MarkerFor(res.CustomPath != "", res.DefaultPath != "")

	if res.CustomPath == "" && res.DefaultPath == "" {
		return res, fmt.Errorf("%w for %s", ErrNotFound, program)
	}
	return res, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// ---------------------------------------------------------------------------
// Listing
// ---------------------------------------------------------------------------

// Entry is one program in a listing.
type Entry struct {
	Program string
	Marker  Marker
}

// String renders the entry as "<program>" or "<program> <symbol>".
func (e Entry) String() string {
	if s := e.Marker.Symbol(); s != "" {
		return e.Program + " " + s
	}
	return e.Program
}

// List returns every program with at least one example file, sorted by name,
// each name once. Missing directories contribute nothing.
func List(cfg config.Resolved) ([]Entry, error) {
	custom := make(map[string]bool)
	if cfg.CustomDir != "" {
		if err := collect(cfg.CustomDir, custom); err != nil {
			return nil, err
		}
	}

	defaults := make(map[string]bool)
	shards, err := os.ReadDir(cfg.ExamplesDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("examples.List: %w", err)
	}
	for _, shard := range shards {
		if !shard.IsDir() {
			continue
		}
		if err := collect(filepath.Join(cfg.ExamplesDir, shard.Name()), defaults); err != nil {
			return nil, err
		}
	}

	names := make([]string, 0, len(custom)+len(defaults))
	for name := range custom {
		names = append(names, name)
	}
	for name := range defaults {
		if !custom[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, Entry{Program: name, Marker: MarkerFor(custom[name], defaults[name])})
	}
	return entries, nil
}

// collect adds the program names of the example files directly inside dir.
func collect(dir string, into map[string]bool) error {
	files, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("examples.List: %w", err)
	}
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || !strings.HasSuffix(name, Extension) || strings.HasPrefix(name, ".") {
			continue
		}
		into[strings.TrimSuffix(name, Extension)] = true
	}
	return nil
}
