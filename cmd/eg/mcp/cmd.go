// Package mcpcmd implements the `eg mcp` command.
package mcpcmd

import (
	"github.com/spf13/cobra"

	"github.com/go-ports/eg/cmd/eg/shared"
	internalmcp "github.com/go-ports/eg/internal/mcp"
)

// Command implements `eg mcp`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the mcp command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "mcp",
		Short: "Start the eg MCP server (stdio transport)",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	return internalmcp.Serve(cmd.Context(), c.ctx.Resolve(), c.ctx.LabelStore())
}
