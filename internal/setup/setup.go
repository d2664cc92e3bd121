// Package setup installs and uninstalls the eg MCP server in the
// configuration of supported coding agents (Claude Code, Cursor, Codex).
package setup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
)

// ServerName is the key eg registers itself under in agent configs.
const ServerName = "eg"

// Result is the return value from all Setup/Uninstall functions.
type Result struct {
	Status  string // "ok" or "error"
	Message string
}

func ok(msg string) Result          { return Result{Status: "ok", Message: msg} }
func okf(f string, a ...any) Result { return ok(fmt.Sprintf(f, a...)) }
func fail(err error) Result         { return Result{Status: "error", Message: err.Error()} }

var mcpConfig = map[string]any{
	"command": "eg",
	"args":    []any{"mcp"},
	"type":    "stdio",
}

// ---------------------------------------------------------------------------
// Default path helpers
// ---------------------------------------------------------------------------

// DefaultClaudeHome returns the default ~/.claude directory.
func DefaultClaudeHome() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".claude")
}

// DefaultCursorHome returns the default ~/.cursor directory.
func DefaultCursorHome() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cursor")
}

// DefaultCodexHome returns the default ~/.codex directory.
func DefaultCodexHome() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".codex")
}

// ---------------------------------------------------------------------------
// JSON helpers
// ---------------------------------------------------------------------------

// readJSON loads an agent config. A missing file is an empty object; comments
// and trailing commas are accepted. Anything else unparseable is an error so
// the caller never overwrites a file it could not read.
func readJSON(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return make(map[string]any), nil
	}
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(data), &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if m == nil {
		m = make(map[string]any)
	}
	return m, nil
}

func writeJSON(path string, data map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return os.WriteFile(path, b, 0o644) // #nosec G306 -- agent MCP entries do not contain secrets
}

// installMCPServers adds the eg entry under "mcpServers". Reports whether the
// file changed.
func installMCPServers(path string) (bool, error) {
	data, err := readJSON(path)
	if err != nil {
		return false, err
	}
	servers, _ := data["mcpServers"].(map[string]any)
	if servers == nil {
		servers = make(map[string]any)
		data["mcpServers"] = servers
	}
	if _, exists := servers[ServerName]; exists {
		return false, nil
	}
	servers[ServerName] = mcpConfig
	return true, writeJSON(path, data)
}

// uninstallMCPServers removes the eg entry, deleting the file if nothing
// else is left in it.
func uninstallMCPServers(path string) (bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}
	data, err := readJSON(path)
	if err != nil {
		return false, err
	}
	servers, _ := data["mcpServers"].(map[string]any)
	if _, exists := servers[ServerName]; !exists {
		return false, nil
	}
	delete(servers, ServerName)
	if len(servers) == 0 {
		delete(data, "mcpServers")
	}
	if len(data) == 0 {
		return true, os.Remove(path)
	}
	return true, writeJSON(path, data)
}

// ---------------------------------------------------------------------------
// TOML helpers (Codex). The section is appended and removed as text so the
// rest of the user's file keeps its formatting; decoding is only used to
// detect an existing entry.
// ---------------------------------------------------------------------------

const tomlHeader = "[mcp_servers." + ServerName + "]"

const tomlMCPSection = "\n" + tomlHeader + "\ncommand = \"eg\"\nargs = [\"mcp\"]\n"

func hasTOMLMCPSection(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	var doc struct {
		MCPServers map[string]toml.Primitive `toml:"mcp_servers"`
	}
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	_, found := doc.MCPServers[ServerName]
	return found, nil
}

func appendTOMLMCPSection(path string) (bool, error) {
	found, err := hasTOMLMCPSection(path)
	if err != nil || found {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) // #nosec G302 -- agent config is not a credential file
	if err != nil {
		return false, err
	}
	defer f.Close()
	_, err = f.WriteString(tomlMCPSection)
	return err == nil, err
}

func removeTOMLMCPSection(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	// Skip the header and its key-value pairs up to the next table header.
	lines := strings.Split(string(data), "\n")
	result := make([]string, 0, len(lines))
	inSection, removed := false, false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == tomlHeader {
			inSection, removed = true, true
			continue
		}
		if inSection && strings.HasPrefix(trimmed, "[") {
			inSection = false
		}
		if !inSection {
			result = append(result, line)
		}
	}
	if !removed {
		return false, nil
	}
	cleaned := strings.TrimRight(strings.Join(result, "\n"), "\n")
	if strings.TrimSpace(cleaned) == "" {
		return true, os.Remove(path)
	}
	return true, os.WriteFile(path, []byte(cleaned+"\n"), 0o644) // #nosec G306 -- agent config is not a credential file
}

// ---------------------------------------------------------------------------
// Claude Code
// ---------------------------------------------------------------------------

// claudeMCPPath returns the project .mcp.json next to claudeHome, or the
// user-wide ~/.claude.json.
//
//revive:disable:flag-parameter
func claudeMCPPath(claudeHome string, project bool) string {
	if project {
		return filepath.Join(filepath.Dir(claudeHome), ".mcp.json")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".claude.json")
}

// SetupClaudeCode registers eg with Claude Code.
// claudeHome defaults to ~/.claude when empty.
func SetupClaudeCode(claudeHome string, project bool) Result {
	if claudeHome == "" {
		claudeHome = DefaultClaudeHome()
	}
	path := claudeMCPPath(claudeHome, project)
	added, err := installMCPServers(path)
	if err != nil {
		return fail(err)
	}
	if !added {
		return ok("Already installed")
	}
	return okf("Installed: mcpServers in %s", path)
}

// UninstallClaudeCode removes eg from Claude Code.
func UninstallClaudeCode(claudeHome string, project bool) Result {
	if claudeHome == "" {
		claudeHome = DefaultClaudeHome()
	}
	path := claudeMCPPath(claudeHome, project)
	removed, err := uninstallMCPServers(path)
	if err != nil {
		return fail(err)
	}
	if !removed {
		return ok("Nothing to remove")
	}
	return okf("Removed: mcpServers in %s", path)
}

//revive:enable:flag-parameter

// ---------------------------------------------------------------------------
// Cursor
// ---------------------------------------------------------------------------

// SetupCursor registers eg with Cursor.
// cursorHome defaults to ~/.cursor when empty.
func SetupCursor(cursorHome string) Result {
	if cursorHome == "" {
		cursorHome = DefaultCursorHome()
	}
	path := filepath.Join(cursorHome, "mcp.json")
	added, err := installMCPServers(path)
	if err != nil {
		return fail(err)
	}
	if !added {
		return ok("Already installed")
	}
	return okf("Installed: mcpServers in %s", path)
}

// UninstallCursor removes eg from Cursor.
func UninstallCursor(cursorHome string) Result {
	if cursorHome == "" {
		cursorHome = DefaultCursorHome()
	}
	path := filepath.Join(cursorHome, "mcp.json")
	removed, err := uninstallMCPServers(path)
	if err != nil {
		return fail(err)
	}
	if !removed {
		return ok("Nothing to remove")
	}
	return okf("Removed: mcpServers in %s", path)
}

// ---------------------------------------------------------------------------
// Codex
// ---------------------------------------------------------------------------

// SetupCodex registers eg with Codex.
// codexHome defaults to ~/.codex when empty.
func SetupCodex(codexHome string) Result {
	if codexHome == "" {
		codexHome = DefaultCodexHome()
	}
	path := filepath.Join(codexHome, "config.toml")
	added, err := appendTOMLMCPSection(path)
	if err != nil {
		return fail(err)
	}
	if !added {
		return ok("Already installed")
	}
	return okf("Installed: %s in %s", tomlHeader, path)
}

// UninstallCodex removes eg from Codex.
func UninstallCodex(codexHome string) Result {
	if codexHome == "" {
		codexHome = DefaultCodexHome()
	}
	path := filepath.Join(codexHome, "config.toml")
	removed, err := removeTOMLMCPSection(path)
	if err != nil {
		return fail(err)
	}
	if !removed {
		return ok("Nothing to remove")
	}
	return okf("Removed: %s from %s", tomlHeader, path)
}
