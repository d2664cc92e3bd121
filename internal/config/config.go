// Package config resolves the eg configuration from flags, the config file,
// the environment and built-in defaults.
package config

import (
	"bufio"
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/go-ports/eg/internal/buildinfo"
)

// Recognized config-file keys.
const (
	KeyExamplesDir = "examples-dir"
	KeyCustomDir   = "custom-dir"
	KeyEditorCmd   = "editor-cmd"
	KeyPagerCmd    = "pager-cmd"
	KeyColor       = "color"
	KeySqueeze     = "squeeze"
)

// Keys lists the recognized keys in display order.
var Keys = []string{KeyExamplesDir, KeyCustomDir, KeyEditorCmd, KeyPagerCmd, KeyColor, KeySqueeze}

// Source records where a resolved value came from.
type Source string

const (
	SourceFlag    Source = "flag"
	SourceConfig  Source = "config"
	SourceEnv     Source = "env"
	SourceDefault Source = "default"
)

// ---------------------------------------------------------------------------
// Config types
// ---------------------------------------------------------------------------

// Overrides carries values supplied explicitly on the command line.
// A nil field means the caller did not supply that value.
type Overrides struct {
	ExamplesDir *string
	CustomDir   *string
	EditorCmd   *string
	PagerCmd    *string
	UseColor    *bool
	Squeeze     *bool
}

// Resolved is the final configuration for one invocation. It is returned by
// value and has no mutators.
type Resolved struct {
	ExamplesDir string
	CustomDir   string // "" disables custom lookup
	EditorCmd   string // "" disables --edit
	PagerCmd    string // "" defers to the system pager
	UseColor    bool
	Squeeze     bool

	// ConfigPath is the config file that was consulted, whether or not it existed.
	ConfigPath string

	sources map[string]Source
}

// Source reports where the value for key was resolved from.
func (r Resolved) Source(key string) Source {
	if s, ok := r.sources[key]; ok {
		return s
	}
	return SourceDefault
}

// Value returns the resolved value for key, or nil for an unknown key.
func (r Resolved) Value(key string) any {
	switch key {
	case KeyExamplesDir:
		return r.ExamplesDir
	case KeyCustomDir:
		return r.CustomDir
	case KeyEditorCmd:
		return r.EditorCmd
	case KeyPagerCmd:
		return r.PagerCmd
	case KeyColor:
		return r.UseColor
	case KeySqueeze:
		return r.Squeeze
	default:
		return nil
	}
}

// Default returns the built-in configuration.
func Default() Resolved {
	return Resolved{
		ExamplesDir: DefaultExamplesDir(),
		sources:     make(map[string]Source, len(Keys)),
	}
}

// ---------------------------------------------------------------------------
// Resolution
// ---------------------------------------------------------------------------

// Resolve merges overrides, the config file at configPath (~/.egrc when
// empty), the VISUAL/EDITOR environment variables and the defaults. Per field,
// an override beats the config file, which beats the environment, which beats
// the default. Config file problems are logged and otherwise ignored.
func Resolve(overrides Overrides, configPath string) Resolved {
	explicitPath := configPath != ""
	if !explicitPath {
		configPath = DefaultConfigPath()
	}

	cfg := Default()
	cfg.ConfigPath = configPath

	fileVals := loadFile(configPath, explicitPath)

	if v, ok := fileVals[KeyEditorCmd]; !ok || v == "" {
		if editor := editorFromEnv(); editor != "" {
			cfg.EditorCmd = editor
			cfg.sources[KeyEditorCmd] = SourceEnv
		}
	}

	for _, key := range Keys {
		raw, ok := fileVals[key]
		if !ok || (key == KeyEditorCmd && raw == "") {
			continue
		}
		if err := cfg.set(key, raw); err != nil {
			slog.Warn("config: ignoring value", "path", configPath, "key", key, "err", err)
			continue
		}
		cfg.sources[key] = SourceConfig
	}

	cfg.applyOverrides(overrides)
	return cfg
}

func (r *Resolved) set(key, raw string) error {
	switch key {
	case KeyExamplesDir:
		p, err := normalizePath(raw)
		if err != nil {
			return err
		}
		r.ExamplesDir = p
	case KeyCustomDir:
		if raw == "" {
			r.CustomDir = ""
			return nil
		}
		p, err := normalizePath(raw)
		if err != nil {
			return err
		}
		r.CustomDir = p
	case KeyEditorCmd:
		r.EditorCmd = raw
	case KeyPagerCmd:
		r.PagerCmd = raw
	case KeyColor:
		b, err := ParseBool(raw)
		if err != nil {
			return err
		}
		r.UseColor = b
	case KeySqueeze:
		b, err := ParseBool(raw)
		if err != nil {
			return err
		}
		r.Squeeze = b
	}
	return nil
}

func (r *Resolved) applyOverrides(o Overrides) {
	if o.ExamplesDir != nil && *o.ExamplesDir != "" {
		r.ExamplesDir = overridePath(*o.ExamplesDir)
		r.sources[KeyExamplesDir] = SourceFlag
	}
	if o.CustomDir != nil && *o.CustomDir != "" {
		r.CustomDir = overridePath(*o.CustomDir)
		r.sources[KeyCustomDir] = SourceFlag
	}
	if o.EditorCmd != nil && *o.EditorCmd != "" {
		r.EditorCmd = *o.EditorCmd
		r.sources[KeyEditorCmd] = SourceFlag
	}
	if o.PagerCmd != nil && *o.PagerCmd != "" {
		r.PagerCmd = *o.PagerCmd
		r.sources[KeyPagerCmd] = SourceFlag
	}
	if o.UseColor != nil {
		r.UseColor = *o.UseColor
		r.sources[KeyColor] = SourceFlag
	}
	if o.Squeeze != nil {
		r.Squeeze = *o.Squeeze
		r.sources[KeySqueeze] = SourceFlag
	}
}

func overridePath(p string) string {
	if abs, err := normalizePath(p); err == nil {
		return abs
	}
	return p
}

// editorFromEnv returns $VISUAL, then $EDITOR, whichever is first non-empty.
func editorFromEnv() string {
	for _, name := range []string{"VISUAL", "EDITOR"} {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	return ""
}

// ---------------------------------------------------------------------------
// Config file loading
// ---------------------------------------------------------------------------

// loadFile returns the raw key/value pairs found in the config file. Any
// failure yields an empty map.
func loadFile(path string, explicit bool) map[string]string {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if explicit {
			slog.Warn("config: file not found, using defaults", "path", path)
		}
		return map[string]string{}
	}
	if err != nil {
		slog.Warn("config: unreadable file, using defaults", "path", path, "err", err)
		return map[string]string{}
	}

	vals, err := Parse(path, data)
	if err != nil {
		slog.Warn("config: unparseable file, using defaults", "path", path, "err", err)
		return map[string]string{}
	}
	slog.Debug("config: loaded", "path", path, "keys", len(vals))
	return vals
}

// Parse decodes config file content. The format is picked from the file
// extension: .yaml/.yml and .toml are decoded as flat tables, anything else
// as key=value lines. Only recognized keys are returned.
func Parse(path string, data []byte) (map[string]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("config.Parse: yaml: %w", err)
		}
		return flatten(raw), nil
	case ".toml":
		var raw map[string]any
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("config.Parse: toml: %w", err)
		}
		return flatten(raw), nil
	default:
		return parseKeyValue(data)
	}
}

// parseKeyValue reads `key = value` lines. Blank lines, comments starting
// with # or ;, [section] headers, lines without '=' and unknown keys are
// skipped.
func parseKeyValue(data []byte) (map[string]string, error) {
	out := make(map[string]string)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' || line[0] == ';' || line[0] == '[' {
			continue
		}
		key, val, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if !isKey(key) {
			continue
		}
		out[key] = unquote(strings.TrimSpace(val))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("config.Parse: %w", err)
	}
	return out, nil
}

func flatten(raw map[string]any) map[string]string {
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		key := strings.ToLower(k)
		if !isKey(key) || v == nil {
			continue
		}
		switch val := v.(type) {
		case string:
			out[key] = strings.TrimSpace(val)
		default:
			out[key] = fmt.Sprint(val)
		}
	}
	return out
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func isKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// ParseBool accepts true/false, yes/no, on/off and 1/0, case-insensitively.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}

// ---------------------------------------------------------------------------
// Paths
// ---------------------------------------------------------------------------

// DefaultConfigPath returns ~/.egrc.
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".egrc")
}

// DefaultLabelsPath returns ~/.eglabels.json.
func DefaultLabelsPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".eglabels.json")
}

// DefaultExamplesDir returns the bundled examples directory: the link-time
// value when set, otherwise examples/ next to the executable or
// ../share/eg/examples relative to it.
func DefaultExamplesDir() string {
	if buildinfo.ExamplesDir != "" {
		return buildinfo.ExamplesDir
	}
	exe, err := os.Executable()
	if err != nil {
		return "examples"
	}
	dir := filepath.Dir(exe)
	local := filepath.Join(dir, "examples")
	if info, err := os.Stat(local); err == nil && info.IsDir() {
		return local
	}
	return filepath.Join(dir, "..", "share", "eg", "examples")
}

// normalizePath expands ~ and environment variables and makes the path absolute.
func normalizePath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return filepath.Abs(os.ExpandEnv(path))
}
