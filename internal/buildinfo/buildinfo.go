// Package buildinfo holds build-time variables injected via ldflags.
package buildinfo

// Populated by -ldflags at build time; defaults used for local dev.
var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"

	// ExamplesDir is the bundled examples directory baked in by packagers.
	// When empty the directory is located relative to the executable.
	ExamplesDir = ""
)
