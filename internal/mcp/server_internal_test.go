package mcp

// White-box testing required: storeError and jsonResult shape every tool
// response but are not reachable through NewServer without a full client
// round trip; the e2e suite covers that path.

import (
	"errors"
	"fmt"
	"math"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/go-ports/eg/internal/checkers"
	"github.com/go-ports/eg/internal/labels"
)

func resultText(c *qt.C, r *mcp.CallToolResult) string {
	c.Assert(r.Content, qt.HasLen, 1)
	tc, ok := mcp.AsTextContent(r.Content[0])
	c.Assert(ok, qt.IsTrue)
	return tc.Text
}

func TestJSONResult_HappyPath(t *testing.T) {
	c := qt.New(t)

	r, err := jsonResult(map[string]any{"program": "tar", "labels": []string{"archive"}})
	c.Assert(err, qt.IsNil)
	c.Assert(r.IsError, qt.IsFalse)
	text := resultText(c, r)
	c.Assert(text, checkers.JSONPathEquals("$.program"), "tar")
	c.Assert(text, checkers.JSONPathEquals("$.labels"), []string{"archive"})
}

func TestJSONResult_FailurePath(t *testing.T) {
	c := qt.New(t)

	r, err := jsonResult(math.Inf(1))
	c.Assert(err, qt.IsNil)
	c.Assert(r.IsError, qt.IsTrue)
}

func TestStoreError(t *testing.T) {
	c := qt.New(t)

	c.Run("missing store gets a friendly hint", func(c *qt.C) {
		r := storeError(fmt.Errorf("labels.Load: x: %w", labels.ErrMissingStore))
		c.Assert(r.IsError, qt.IsTrue)
		c.Assert(resultText(c, r), qt.Contains, "eg --init-labels")
	})

	c.Run("other errors pass through", func(c *qt.C) {
		r := storeError(errors.New("boom"))
		c.Assert(r.IsError, qt.IsTrue)
		c.Assert(resultText(c, r), qt.Equals, "boom")
	})
}
