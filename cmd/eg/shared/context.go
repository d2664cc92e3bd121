// Package shared holds the context passed to all CLI commands.
package shared

import (
	"github.com/go-ports/eg/internal/config"
	"github.com/go-ports/eg/internal/labels"
)

// Context carries global CLI state (persistent flags set on the root command).
type Context struct {
	// ConfigFile overrides the config file path (default ~/.egrc).
	ConfigFile string
	// ExamplesDir and CustomDir override the example trees.
	ExamplesDir string
	CustomDir   string
	// LabelsFile overrides the label store path (default ~/.eglabels.json).
	LabelsFile string
	// Debug lowers the log level to debug.
	Debug bool
}

// Overrides returns the config overrides carried by the persistent flags.
// Callers add their own command-local overrides on top.
func (c *Context) Overrides() config.Overrides {
	var o config.Overrides
	if c.ExamplesDir != "" {
		o.ExamplesDir = &c.ExamplesDir
	}
	if c.CustomDir != "" {
		o.CustomDir = &c.CustomDir
	}
	return o
}

// Resolve resolves the configuration for commands that take no other overrides.
func (c *Context) Resolve() config.Resolved {
	return config.Resolve(c.Overrides(), c.ConfigFile)
}

// LabelStore opens the label store named by --labels-file or the default path.
func (c *Context) LabelStore() *labels.Store {
	path := c.LabelsFile
	if path == "" {
		path = config.DefaultLabelsPath()
	}
	return labels.New(path)
}
