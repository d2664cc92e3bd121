package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-ports/eg/internal/buildinfo"
	"github.com/go-ports/eg/internal/config"
	"github.com/go-ports/eg/internal/examples"
	"github.com/go-ports/eg/internal/labels"
	"github.com/go-ports/eg/internal/launch"
	"github.com/go-ports/eg/internal/render"
)

// User-facing messages.
const (
	MsgNoEditor    = "could not find editor: set $VISUAL, $EDITOR, or specify in .egrc"
	MsgNoCustomDir = "could not find a custom directory: set custom-dir in .egrc or pass --custom-dir"
	MsgNoLabels    = "Program does not have any labels."
)

// Dispatcher executes commands against a resolved configuration. Pager and
// Editor are the only ways it reaches outside the process.
type Dispatcher struct {
	Config config.Resolved
	Labels *labels.Store
	Pager  launch.Pager
	Editor launch.Editor
	Out    io.Writer

	// Help prints usage for ShowHelp.
	Help func() error
}

// Run executes cmd.
func (d *Dispatcher) Run(ctx context.Context, cmd Command) error {
	switch c := cmd.(type) {
	case ShowHelp:
		if d.Help == nil {
			return nil
		}
		return d.Help()
	case ShowList:
		return d.showList(ctx)
	case ShowVersion:
		fmt.Fprintln(d.Out, buildinfo.Version)
		return nil
	case InitLabels:
		return d.initLabels()
	case Edit:
		return d.edit(ctx, c.Program)
	case ShowLabels:
		return d.showLabels(c.Program)
	case AddLabel:
		return d.addLabel(c.Program, c.Label)
	case FindFile:
		return d.findFile(c.Label)
	case RemoveLabel:
		return d.removeLabel(c.Program, c.Label)
	case ShowExamples:
		return d.showExamples(ctx, c.Program)
	default:
		panic(fmt.Sprintf("command: unhandled command %T", cmd))
	}
}

// ---------------------------------------------------------------------------
// Examples
// ---------------------------------------------------------------------------

func (d *Dispatcher) showExamples(ctx context.Context, program string) error {
	res, err := examples.Locate(program, d.Config)
	if errors.Is(err, examples.ErrNotFound) {
		return fmt.Errorf("%w. Run 'eg --list' to see all available entries", err)
	}
	if err != nil {
		return err
	}
	slog.Debug("examples: resolved", "program", program, "marker", res.Marker, "path", res.Path())

	content, err := res.Content()
	if err != nil {
		return err
	}

	var sb strings.Builder
	if b := Banner(res); b != "" {
		sb.WriteString(render.Note(b, d.Config.UseColor))
		sb.WriteString("\n\n")
	}
	sb.WriteString(render.Render(content, render.Options{
		Color:   d.Config.UseColor,
		Squeeze: d.Config.Squeeze,
	}))
	return d.Pager.Page(ctx, sb.String())
}

// Banner is the legend line shown above examples that come from the custom
// directory; default-only examples get none.
func Banner(res examples.Resolution) string {
	switch res.Marker {
	case examples.MarkerCustomOnly:
		return fmt.Sprintf("%s custom examples for %s", examples.SymbolCustomOnly, res.Program)
	case examples.MarkerCustomAndDefault:
		return fmt.Sprintf("%s custom examples for %s (default examples also available)",
			examples.SymbolCustomAndDefault, res.Program)
	default:
		return ""
	}
}

func (d *Dispatcher) showList(ctx context.Context) error {
	entries, err := examples.List(d.Config)
	if err != nil {
		return err
	}
	var sb strings.Builder
	sb.WriteString(examples.Legend)
	sb.WriteString("\nPrograms supported by eg: \n")
	for _, e := range entries {
		sb.WriteString(e.String())
		sb.WriteString("\n")
	}
	return d.Pager.Page(ctx, sb.String())
}

func (d *Dispatcher) edit(ctx context.Context, program string) error {
	if d.Config.EditorCmd == "" || d.Editor == nil {
		fmt.Fprintln(d.Out, MsgNoEditor)
		return nil
	}
	if err := examples.ValidateProgram(program); err != nil {
		return err
	}
	path := examples.CustomFile(d.Config, program)
	if path == "" {
		fmt.Fprintln(d.Out, MsgNoCustomDir)
		return nil
	}
	if err := os.MkdirAll(d.Config.CustomDir, 0o755); err != nil {
		return fmt.Errorf("edit: create custom dir: %w", err)
	}
	return d.Editor.Edit(ctx, path)
}

// ---------------------------------------------------------------------------
// Labels
// ---------------------------------------------------------------------------

func (d *Dispatcher) initLabels() error {
	created, err := d.Labels.Init()
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(d.Out, "Created label file %s\n", d.Labels.Path)
	} else {
		fmt.Fprintf(d.Out, "Label file %s already exists\n", d.Labels.Path)
	}
	return nil
}

func (d *Dispatcher) showLabels(program string) error {
	got, err := d.Labels.List(program)
	if err != nil {
		return d.storeErr(err)
	}
	if len(got) > 0 {
		fmt.Fprintln(d.Out, strings.Join(got, ", "))
	}
	return nil
}

func (d *Dispatcher) addLabel(program, label string) error {
	added, err := d.Labels.Add(program, label)
	if err != nil {
		return d.storeErr(err)
	}
	if !added {
		fmt.Fprintf(d.Out, "%s already has label %s.\n", program, label)
	}
	return nil
}

func (d *Dispatcher) findFile(label string) error {
	programs, err := d.Labels.Find(label)
	if err != nil {
		return d.storeErr(err)
	}
	fmt.Fprintln(d.Out, strings.Join(programs, ", "))
	return nil
}

func (d *Dispatcher) removeLabel(program, label string) error {
	res, err := d.Labels.Remove(program, label)
	if err != nil {
		return d.storeErr(err)
	}
	switch res {
	case labels.RemoveNoLabels:
		fmt.Fprintln(d.Out, MsgNoLabels)
	case labels.RemoveLabelMissing:
		fmt.Fprintf(d.Out, "%s does not have label %s.\n", program, label)
	case labels.Removed:
	}
	return nil
}

// storeErr adds a hint for creating a missing label store.
func (d *Dispatcher) storeErr(err error) error {
	if errors.Is(err, labels.ErrMissingStore) {
		return fmt.Errorf("label file %s does not exist, create it with 'eg --init-labels': %w",
			d.Labels.Path, labels.ErrMissingStore)
	}
	return err
}
