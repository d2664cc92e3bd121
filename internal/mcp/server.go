// Package mcp provides the stdio MCP server exposing eg lookups to coding agents.
package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/go-ports/eg/internal/buildinfo"
	"github.com/go-ports/eg/internal/config"
	"github.com/go-ports/eg/internal/examples"
	"github.com/go-ports/eg/internal/labels"
	"github.com/go-ports/eg/internal/render"
)

const showDescription = `Show concise usage examples for a command-line program (for example "tar", "find" or "git"). Prefer this over guessing flags. Returns the example markdown plus a marker telling whether the text comes from the user's custom examples.`

const listDescription = `List every program eg has examples for. marker is "custom-only", "custom-and-default" or "none" (bundled examples only).`

const labelsDescription = `List the labels the user has attached to a program.`

const findLabelDescription = `Find the programs the user has tagged with a label.`

// NewServer creates and registers all eg tools on a new MCP server.
// It is separate from Serve so tests can obtain a configured server without
// the stdio transport.
func NewServer(cfg config.Resolved, store *labels.Store) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer("eg", buildinfo.Version)
	registerTools(s, cfg, store)
	return s
}

// Serve starts the stdio MCP server, blocking until stdin closes.
func Serve(_ context.Context, cfg config.Resolved, store *labels.Store) error {
	return mcpserver.ServeStdio(NewServer(cfg, store))
}

func registerTools(s *mcpserver.MCPServer, cfg config.Resolved, store *labels.Store) {
	s.AddTool(mcp.NewTool("eg_show",
		mcp.WithDescription(showDescription),
		mcp.WithString("program",
			mcp.Description("Program name, e.g. tar."),
			mcp.Required(),
		),
		mcp.WithBoolean("squeeze",
			mcp.Description("Drop redundant blank lines."),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleShow(ctx, cfg, req)
	})

	s.AddTool(mcp.NewTool("eg_list",
		mcp.WithDescription(listDescription),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleList(ctx, cfg, req)
	})

	s.AddTool(mcp.NewTool("eg_labels",
		mcp.WithDescription(labelsDescription),
		mcp.WithString("program",
			mcp.Description("Program name."),
			mcp.Required(),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleLabels(ctx, store, req)
	})

	s.AddTool(mcp.NewTool("eg_find_label",
		mcp.WithDescription(findLabelDescription),
		mcp.WithString("label",
			mcp.Description("Label to look for."),
			mcp.Required(),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleFindLabel(ctx, store, req)
	})
}

// ---------------------------------------------------------------------------
// Tool handlers
// ---------------------------------------------------------------------------

func handleShow(_ context.Context, cfg config.Resolved, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	program := req.GetString("program", "")
	res, err := examples.Locate(program, cfg)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := res.Content()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	squeeze := req.GetBool("squeeze", cfg.Squeeze)

	return jsonResult(map[string]any{
		"program": res.Program,
		"marker":  res.Marker.String(),
		"symbol":  res.Marker.Symbol(),
		"path":    res.Path(),
		"content": render.Render(content, render.Options{Squeeze: squeeze}),
	})
}

func handleList(_ context.Context, cfg config.Resolved, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := examples.List(cfg)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		out = append(out, map[string]any{
			"program": e.Program,
			"marker":  e.Marker.String(),
		})
	}
	return jsonResult(out)
}

func handleLabels(_ context.Context, store *labels.Store, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	program := req.GetString("program", "")
	got, err := store.List(program)
	if err != nil {
		return storeError(err), nil
	}
	return jsonResult(map[string]any{
		"program": program,
		"labels":  got,
	})
}

func handleFindLabel(_ context.Context, store *labels.Store, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label := req.GetString("label", "")
	programs, err := store.Find(label)
	if err != nil {
		return storeError(err), nil
	}
	return jsonResult(map[string]any{
		"label":    label,
		"programs": programs,
	})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func storeError(err error) *mcp.CallToolResult {
	if errors.Is(err, labels.ErrMissingStore) {
		return mcp.NewToolResultError("no labels yet: the user has not created a label file (eg --init-labels)")
	}
	return mcp.NewToolResultError(err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
