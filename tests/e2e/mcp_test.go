// Package e2e_test: MCP server end-to-end tests.
//
// Each test wires the real MCP server in-process via the mcp-go
// InProcessTransport, backed by the same temporary example trees as the CLI
// tests. The full stack (config → examples/labels → mcp handler → mcp-go
// server → in-process client) runs within a single test process.
package e2e_test

import (
	"context"
	"testing"

	qt "github.com/frankban/quicktest"
	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/go-ports/eg/internal/checkers"
	"github.com/go-ports/eg/internal/config"
	"github.com/go-ports/eg/internal/labels"
	internalmcp "github.com/go-ports/eg/internal/mcp"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// newMCPClient creates an in-process MCP client over tr. The client is
// started and initialized before it is returned; cleanup is registered on c.
func newMCPClient(c *qt.C, tr tree) *mcpclient.Client {
	c.TB.Helper()

	cfg := config.Resolve(config.Overrides{
		ExamplesDir: &tr.examplesDir,
		CustomDir:   &tr.customDir,
	}, "")
	store := labels.New(tr.labelsFile)

	cl, err := mcpclient.NewInProcessClient(internalmcp.NewServer(cfg, store))
	c.Assert(err, qt.IsNil)
	c.TB.Cleanup(func() { _ = cl.Close() })

	c.Assert(cl.Start(context.Background()), qt.IsNil)

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "e2e-test", Version: "0.0.1"}
	_, err = cl.Initialize(context.Background(), initReq)
	c.Assert(err, qt.IsNil)

	return cl
}

// callTool invokes the named MCP tool and returns the text of the single
// content item together with the tool-level error flag.
func callTool(c *qt.C, cl *mcpclient.Client, name string, args map[string]any) (string, bool) {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := cl.CallTool(context.Background(), req)
	c.Assert(err, qt.IsNil)
	c.Assert(result.Content, qt.HasLen, 1)

	tc, ok := mcp.AsTextContent(result.Content[0])
	c.Assert(ok, qt.IsTrue)

	return tc.Text, result.IsError
}

// ---------------------------------------------------------------------------
// ListTools
// ---------------------------------------------------------------------------

func TestMCPListTools_HappyPath(t *testing.T) {
	c := qt.New(t)
	cl := newMCPClient(c, newTree(c))

	result, err := cl.ListTools(context.Background(), mcp.ListToolsRequest{})
	c.Assert(err, qt.IsNil)
	c.Assert(result.Tools, qt.HasLen, 4)

	names := make([]string, len(result.Tools))
	for i, tool := range result.Tools {
		names[i] = tool.Name
	}
	c.Assert(names, qt.Contains, "eg_show")
	c.Assert(names, qt.Contains, "eg_list")
	c.Assert(names, qt.Contains, "eg_labels")
	c.Assert(names, qt.Contains, "eg_find_label")
}

// ---------------------------------------------------------------------------
// eg_show
// ---------------------------------------------------------------------------

func TestMCPShow_HappyPath(t *testing.T) {
	c := qt.New(t)
	cl := newMCPClient(c, newTree(c))

	cases := []struct {
		name    string
		args    map[string]any
		marker  string
		symbol  string
		content string
	}{
		{
			name:    "default only",
			args:    map[string]any{"program": "tar"},
			marker:  "none",
			symbol:  "",
			content: tarDefault,
		},
		{
			name:    "custom and default prefers custom",
			args:    map[string]any{"program": "grep"},
			marker:  "custom-and-default",
			symbol:  "*",
			content: grepCustom,
		},
		{
			name:    "squeeze applies",
			args:    map[string]any{"program": "tar", "squeeze": true},
			marker:  "none",
			symbol:  "",
			content: "# tar\n\nextract an archive\n    tar -xzf archive.tar.gz\n",
		},
	}

	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			text, isErr := callTool(c, cl, "eg_show", tc.args)
			c.Assert(isErr, qt.IsFalse)
			c.Assert(text, checkers.JSONPathEquals("$.program"), tc.args["program"])
			c.Assert(text, checkers.JSONPathEquals("$.marker"), tc.marker)
			c.Assert(text, checkers.JSONPathEquals("$.symbol"), tc.symbol)
			c.Assert(text, checkers.JSONPathEquals("$.content"), tc.content)
		})
	}
}

func TestMCPShow_FailurePath(t *testing.T) {
	c := qt.New(t)
	cl := newMCPClient(c, newTree(c))

	text, isErr := callTool(c, cl, "eg_show", map[string]any{"program": "ghost"})
	c.Assert(isErr, qt.IsTrue)
	c.Assert(text, qt.Equals, "no entry found for ghost")
}

// ---------------------------------------------------------------------------
// eg_list
// ---------------------------------------------------------------------------

func TestMCPList_HappyPath(t *testing.T) {
	c := qt.New(t)
	cl := newMCPClient(c, newTree(c))

	text, isErr := callTool(c, cl, "eg_list", map[string]any{})
	c.Assert(isErr, qt.IsFalse)
	c.Assert(text, checkers.JSONPathEquals("$[0].program"), "awk")
	c.Assert(text, checkers.JSONPathEquals("$[1].program"), "grep")
	c.Assert(text, checkers.JSONPathEquals("$[2].program"), "tar")
	c.Assert(text, checkers.JSONPathEquals("$[0].marker"), "custom-only")
	c.Assert(text, checkers.JSONPathEquals("$[1].marker"), "custom-and-default")
	c.Assert(text, checkers.JSONPathEquals("$[2].marker"), "none")
}

// ---------------------------------------------------------------------------
// eg_labels / eg_find_label
// ---------------------------------------------------------------------------

func TestMCPLabels_HappyPath(t *testing.T) {
	c := qt.New(t)
	tr := newTree(c)
	store := labels.New(tr.labelsFile)
	_, err := store.Init()
	c.Assert(err, qt.IsNil)
	for _, l := range [][2]string{{"tar", "archive"}, {"zip", "archive"}, {"tar", "compress"}} {
		_, err := store.Add(l[0], l[1])
		c.Assert(err, qt.IsNil)
	}
	cl := newMCPClient(c, tr)

	text, isErr := callTool(c, cl, "eg_labels", map[string]any{"program": "tar"})
	c.Assert(isErr, qt.IsFalse)
	c.Assert(text, checkers.JSONPathEquals("$.labels"), []string{"archive", "compress"})

	text, isErr = callTool(c, cl, "eg_find_label", map[string]any{"label": "archive"})
	c.Assert(isErr, qt.IsFalse)
	c.Assert(text, checkers.JSONPathEquals("$.programs"), []string{"tar", "zip"})
}

func TestMCPLabels_FailurePath(t *testing.T) {
	c := qt.New(t)
	cl := newMCPClient(c, newTree(c))

	text, isErr := callTool(c, cl, "eg_labels", map[string]any{"program": "tar"})
	c.Assert(isErr, qt.IsTrue)
	c.Assert(text, qt.Contains, "eg --init-labels")

	c.Run("unknown tool name returns error", func(c *qt.C) {
		req := mcp.CallToolRequest{}
		req.Params.Name = "nonexistent_tool"
		req.Params.Arguments = make(map[string]any)

		_, err := cl.CallTool(context.Background(), req)
		c.Assert(err, qt.IsNotNil)
	})
}
