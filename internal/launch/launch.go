// Package launch runs the external programs eg hands off to: the pager that
// displays rendered examples and the editor that opens custom example files.
// Both block until the child process exits.
package launch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"golang.org/x/term"
)

// Pager displays text to the user.
type Pager interface {
	Page(ctx context.Context, content string) error
}

// Editor opens a file for editing.
type Editor interface {
	Edit(ctx context.Context, path string) error
}

// ---------------------------------------------------------------------------
// Pager
// ---------------------------------------------------------------------------

// CommandPager pipes content into a shell command.
//
// With an explicit Cmd the command is always used. Without one, output that
// is not a terminal is written directly; otherwise $PAGER is used, then
// `less -R` when available, then a direct write.
type CommandPager struct {
	Cmd    string
	Out    io.Writer
	ErrOut io.Writer
}

// NewPager returns a CommandPager writing to out.
func NewPager(cmd string, out io.Writer) *CommandPager {
	return &CommandPager{Cmd: cmd, Out: out, ErrOut: os.Stderr}
}

// Page displays content, blocking until the pager exits.
func (p *CommandPager) Page(ctx context.Context, content string) error {
	cmdline := p.Cmd
	if cmdline == "" {
		if !isTerminal(p.Out) {
			return p.write(content)
		}
		cmdline = systemPager()
		if cmdline == "" {
			return p.write(content)
		}
	}

	slog.Debug("launch: paging", "cmd", cmdline)
	cmd := shellCommand(ctx, cmdline)
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = p.Out
	cmd.Stderr = p.ErrOut
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("launch.Page: %s: %w", cmdline, err)
	}
	return nil
}

func (p *CommandPager) write(content string) error {
	_, err := io.WriteString(p.Out, content)
	return err
}

func systemPager() string {
	if env := strings.TrimSpace(os.Getenv("PAGER")); env != "" {
		return env
	}
	if _, err := exec.LookPath("less"); err == nil {
		return "less -R"
	}
	return ""
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// ---------------------------------------------------------------------------
// Editor
// ---------------------------------------------------------------------------

// CommandEditor runs Cmd with the file path appended as its last argument.
// Cmd may carry its own arguments, e.g. "code --wait".
type CommandEditor struct {
	Cmd    string
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// NewEditor returns a CommandEditor attached to the process's standard streams.
func NewEditor(cmd string) *CommandEditor {
	return &CommandEditor{Cmd: cmd, In: os.Stdin, Out: os.Stdout, ErrOut: os.Stderr}
}

// Edit opens path, blocking until the editor exits.
func (e *CommandEditor) Edit(ctx context.Context, path string) error {
	cmdline := e.Cmd + " " + shellQuote(path)
	slog.Debug("launch: editing", "cmd", cmdline)
	cmd := shellCommand(ctx, cmdline)
	cmd.Stdin = e.In
	cmd.Stdout = e.Out
	cmd.Stderr = e.ErrOut
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("launch.Edit: %s: %w", e.Cmd, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func shellCommand(ctx context.Context, cmdline string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd", "/C", cmdline) // #nosec G204 -- the command comes from the user's own configuration
	}
	return exec.CommandContext(ctx, "sh", "-c", cmdline) // #nosec G204 -- the command comes from the user's own configuration
}

// shellQuote wraps s in single quotes for POSIX shells.
func shellQuote(s string) string {
	if runtime.GOOS == "windows" {
		return `"` + s + `"`
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
