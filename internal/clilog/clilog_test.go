package clilog_test

import (
	"bytes"
	"encoding/json"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/eg/internal/clilog"
)

func TestNew_LevelAndFormat(t *testing.T) {
	c := qt.New(t)

	c.Run("non-terminal writer gets JSON and hides info", func(c *qt.C) {
		var buf bytes.Buffer
		logger := clilog.New(&buf, false)
		logger.Info("hidden")
		logger.Warn("shown", "key", "value")

		var rec map[string]any
		c.Assert(json.Unmarshal(buf.Bytes(), &rec), qt.IsNil)
		c.Assert(rec["msg"], qt.Equals, "shown")
		c.Assert(rec["key"], qt.Equals, "value")
	})

	c.Run("debug enables debug records", func(c *qt.C) {
		var buf bytes.Buffer
		logger := clilog.New(&buf, true)
		logger.Debug("trace")
		c.Assert(buf.String(), qt.Contains, `"msg":"trace"`)
	})
}
