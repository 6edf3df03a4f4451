package build

import (
	"github.com/avocadolinux/avocado/internal/config"
	"github.com/avocadolinux/avocado/internal/container"
)

// Immutable per-invocation state shared by every pipeline.
//
// Constructed exactly once per CLI invocation, after configuration loading
// and target resolution, and passed explicitly to every operation. Nothing
// here changes during a build.
type Context struct {
	Config     *config.Config    // Parsed project configuration.
	Runner     *container.Runner // Container orchestrator for this invocation.
	Target     string            // Resolved build target.
	ConfigPath string            // Path to the loaded configuration file.
	Image      string            // SDK container image.
	Verbose    bool              // Whether to echo scripts and invocations.
	ExtraArgs  []string          // Extra arguments for every container invocation.
}

// Returns default run options with repository overrides from the
// configuration applied.
func (bc *Context) RunOptions() container.RunOptions {
	opts := container.DefaultRunOptions()
	opts.RepoURL = bc.Config.SDK.RepoURL
	opts.RepoRelease = bc.Config.SDK.RepoRelease
	opts.ExtraArgs = bc.ExtraArgs
	return opts
}
