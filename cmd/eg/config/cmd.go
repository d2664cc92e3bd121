// Package configcmd implements the `eg config` command group.
package configcmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/go-ports/eg/cmd/eg/shared"
	"github.com/go-ports/eg/internal/buildinfo"
	"github.com/go-ports/eg/internal/config"
)

const configTemplate = `# eg configuration
# Lines are key = value. Unset keys fall back to the built-in defaults.

# Directory holding your own examples, one <program>.md per file.
# custom-dir = ~/.eg/custom

# Editor used by eg --edit. Defaults to $VISUAL, then $EDITOR.
# editor-cmd = vim

# Pager used to show examples. Defaults to $PAGER, then less -R.
# pager-cmd = less -R

color = false
squeeze = false
`

// Command implements `eg config`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the config command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration and where each value came from",
		Args:  cobra.NoArgs,
		RunE:  c.runShow,
	}
	c.cmd.AddCommand(newConfigInit(ctx))
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

type entry struct {
	Value  any           `yaml:"value"`
	Source config.Source `yaml:"source"`
}

func (c *Command) runShow(cmd *cobra.Command, _ []string) error {
	cfg := c.ctx.Resolve()

	// A mapping node keeps the keys in config.Keys order.
	values := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range config.Keys {
		var v yaml.Node
		if err := v.Encode(entry{Value: cfg.Value(key), Source: cfg.Source(key)}); err != nil {
			return err
		}
		values.Content = append(values.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, &v)
	}

	doc := struct {
		Version    string            `yaml:"version"`
		Build      map[string]string `yaml:"build"`
		ConfigFile string            `yaml:"config_file"`
		LabelsFile string            `yaml:"labels_file"`
		Values     *yaml.Node        `yaml:"values"`
	}{
		Version: buildinfo.Version,
		Build: map[string]string{
			"date":   buildinfo.BuildDate,
			"commit": buildinfo.GitCommit,
			"branch": buildinfo.GitBranch,
		},
		ConfigFile: cfg.ConfigPath,
		LabelsFile: c.ctx.LabelStore().Path,
		Values:     values,
	}
	b, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(b))
	return nil
}

// ---------------------------------------------------------------------------
// config init
// ---------------------------------------------------------------------------

func newConfigInit(ctx *shared.Context) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a starter ~/.egrc",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath := ctx.ConfigFile
			if cfgPath == "" {
				cfgPath = config.DefaultConfigPath()
			}
			out := cmd.OutOrStdout()
			if _, err := os.Stat(cfgPath); err == nil && !force {
				fmt.Fprintf(out, "Config already exists at %s\n", cfgPath)
				fmt.Fprintln(out, "Use --force to overwrite.")
				return nil
			}
			if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(cfgPath, []byte(configTemplate), 0o600); err != nil {
				return err
			}
			fmt.Fprintf(out, "Created %s\n", cfgPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing config")
	return cmd
}
