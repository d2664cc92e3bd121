// Package uninstallcmd implements the `eg uninstall` command group.
package uninstallcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	setupcmd "github.com/go-ports/eg/cmd/eg/setup"
	"github.com/go-ports/eg/cmd/eg/shared"
	"github.com/go-ports/eg/internal/setup"
)

// Command implements `eg uninstall`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the uninstall command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the eg MCP server from a coding agent",
		RunE:  func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}
	c.cmd.AddCommand(
		newUninstallClaudeCode(ctx),
		newUninstallCursor(ctx),
		newUninstallCodex(ctx),
	)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func newUninstallClaudeCode(_ *shared.Context) *cobra.Command {
	var configDir string
	var project bool
	cmd := &cobra.Command{
		Use:   "claude-code",
		Short: "Remove eg from Claude Code",
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := setupcmd.ResolveConfigDir(".claude", configDir, project)
			return report(cmd, setup.UninstallClaudeCode(target, project))
		},
	}
	cmd.Flags().StringVar(&configDir, "config-dir", "", "Path to .claude directory")
	cmd.Flags().BoolVar(&project, "project", false, "Uninstall from current project instead of globally")
	return cmd
}

func newUninstallCursor(_ *shared.Context) *cobra.Command {
	var configDir string
	var project bool
	cmd := &cobra.Command{
		Use:   "cursor",
		Short: "Remove eg from Cursor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := setupcmd.ResolveConfigDir(".cursor", configDir, project)
			return report(cmd, setup.UninstallCursor(target))
		},
	}
	cmd.Flags().StringVar(&configDir, "config-dir", "", "Path to .cursor directory")
	cmd.Flags().BoolVar(&project, "project", false, "Uninstall from current project instead of globally")
	return cmd
}

func newUninstallCodex(_ *shared.Context) *cobra.Command {
	var configDir string
	var project bool
	cmd := &cobra.Command{
		Use:   "codex",
		Short: "Remove eg from Codex",
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := setupcmd.ResolveConfigDir(".codex", configDir, project)
			return report(cmd, setup.UninstallCodex(target))
		},
	}
	cmd.Flags().StringVar(&configDir, "config-dir", "", "Path to .codex directory")
	cmd.Flags().BoolVar(&project, "project", false, "Uninstall from current project instead of globally")
	return cmd
}

func report(cmd *cobra.Command, r setup.Result) error {
	if r.Status != "ok" {
		return fmt.Errorf("uninstall: %s", r.Message)
	}
	fmt.Fprintln(cmd.OutOrStdout(), r.Message)
	return nil
}
