// Package rootcmd wires the root cobra.Command for the eg CLI binary.
package rootcmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	configcmd "github.com/go-ports/eg/cmd/eg/config"
	mcpcmd "github.com/go-ports/eg/cmd/eg/mcp"
	setupcmd "github.com/go-ports/eg/cmd/eg/setup"
	"github.com/go-ports/eg/cmd/eg/shared"
	uninstallcmd "github.com/go-ports/eg/cmd/eg/uninstall"
	"github.com/go-ports/eg/internal/clilog"
	"github.com/go-ports/eg/internal/command"
	"github.com/go-ports/eg/internal/config"
	"github.com/go-ports/eg/internal/launch"
)

// flags holds the root-only flags; persistent ones live in shared.Context.
type flags struct {
	version     bool
	edit        bool
	list        bool
	labels      bool
	initLabels  bool
	color       bool
	noColor     bool
	squeeze     bool
	pagerCmd    string
	addLabel    string
	removeLabel string
	findFile    string
}

// New creates and returns the root cobra.Command for the eg CLI.
func New() *cobra.Command {
	ctx := &shared.Context{}
	f := &flags{}

	root := &cobra.Command{
		Use:           "eg [program]",
		Short:         "eg: useful examples at the command line",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			slog.SetDefault(clilog.New(cmd.ErrOrStderr(), ctx.Debug))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, ctx, f)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&ctx.ConfigFile, "config-file", "f", "", "Path to the .egrc file, if it is not in the default location (~/.egrc)")
	pf.StringVar(&ctx.ExamplesDir, "examples-dir", "", "The location of the default examples directory")
	pf.StringVarP(&ctx.CustomDir, "custom-dir", "c", "", "Path to a directory containing user-defined examples")
	pf.StringVar(&ctx.LabelsFile, "labels-file", "", "Path to the label file (default ~/.eglabels.json)")
	pf.BoolVar(&ctx.Debug, "debug", false, "Log at debug level")

	fl := root.Flags()
	fl.BoolVarP(&f.version, "version", "v", false, "Display version information about eg")
	fl.BoolVarP(&f.edit, "edit", "e", false, "Edit the custom examples for the given program")
	fl.StringVarP(&f.pagerCmd, "pager-cmd", "p", "", "String literal that will be invoked to page output")
	fl.BoolVarP(&f.list, "list", "l", false, "Show all the programs with eg entries")
	fl.BoolVar(&f.color, "color", false, "Colorize output")
	fl.BoolVar(&f.noColor, "no-color", false, "Do not colorize output")
	fl.BoolVarP(&f.squeeze, "squeeze", "s", false, "Show fewer blank lines in output")
	fl.BoolVar(&f.labels, "labels", false, "Show the labels of the given program")
	fl.StringVar(&f.addLabel, "add-label", "", "Add a label to the given program")
	fl.StringVar(&f.removeLabel, "remove-label", "", "Remove a label from the given program")
	fl.StringVar(&f.findFile, "find-file", "", "Show the programs that carry a label")
	fl.BoolVar(&f.initLabels, "init-labels", false, "Create an empty label file")
	root.MarkFlagsMutuallyExclusive("color", "no-color")

	root.AddCommand(
		configcmd.New(ctx).Cmd(),
		setupcmd.New(ctx).Cmd(),
		uninstallcmd.New(ctx).Cmd(),
		mcpcmd.New(ctx).Cmd(),
	)

	return root
}

func run(cmd *cobra.Command, args []string, ctx *shared.Context, f *flags) error {
	opts := command.Options{
		NoArgs:      len(args) == 0 && cmd.Flags().NFlag() == 0,
		Version:     f.version,
		List:        f.list,
		Edit:        f.edit,
		Labels:      f.labels,
		InitLabels:  f.initLabels,
		AddLabel:    f.addLabel,
		RemoveLabel: f.removeLabel,
		FindFile:    f.findFile,
	}
	if len(args) == 1 {
		opts.Program = args[0]
	}

	c, err := command.FromOptions(opts)
	if command.IsUsage(err) {
		fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
		return err
	}
	if err != nil {
		return err
	}

	cfg := config.Resolve(overrides(cmd, ctx, f), ctx.ConfigFile)
	d := &command.Dispatcher{
		Config: cfg,
		Labels: ctx.LabelStore(),
		Pager:  launch.NewPager(cfg.PagerCmd, cmd.OutOrStdout()),
		Editor: launch.NewEditor(cfg.EditorCmd),
		Out:    cmd.OutOrStdout(),
		Help:   cmd.Help,
	}
	return d.Run(cmd.Context(), c)
}

// overrides layers the root-only flags over the persistent ones. Boolean
// flags only count when given explicitly so config-file values survive.
func overrides(cmd *cobra.Command, ctx *shared.Context, f *flags) config.Overrides {
	o := ctx.Overrides()
	if f.pagerCmd != "" {
		o.PagerCmd = &f.pagerCmd
	}
	switch {
	case cmd.Flags().Changed("color"):
		o.UseColor = &f.color
	case cmd.Flags().Changed("no-color"):
		useColor := !f.noColor
		o.UseColor = &useColor
	}
	if cmd.Flags().Changed("squeeze") {
		o.Squeeze = &f.squeeze
	}
	return o
}
