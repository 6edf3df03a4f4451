package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/avocadolinux/avocado/internal/console"
	"github.com/avocadolinux/avocado/internal/paths"
)

const (

	// In-container mount point for the project directory (read-only).
	SourceMount = "/opt/_avocado/src"

	// In-container mount point for the build-state directory (read-write).
	StateMount = "/opt/_avocado"

	// Environment variable carrying the build target into the container.
	TargetEnvVar = "AVOCADO_SDK_TARGET"

	// Environment variables carrying repository overrides into the
	// container, consumed by the bootstrap preamble.
	repoURLEnvVar     = "AVOCADO_SDK_REPO_URL"
	repoReleaseEnvVar = "AVOCADO_SDK_REPO_RELEASE"
)

// Executes payloads inside SDK containers via a container tool binary.
type Runner struct {
	tool    string // Container tool binary (docker or podman).
	cwd     string // Project root; mounted into every container.
	verbose bool   // Whether to echo composed invocations.
}

// Controls a single container invocation.
type RunOptions struct {
	Name              string            // Optional container name.
	Detach            bool              // Start the container and return immediately.
	AutoRemove        bool              // Remove the container when it exits.
	Interactive       bool              // Allocate an interactive terminal.
	Bootstrap         bool              // Prepend the idempotent bootstrap preamble.
	SourceEnvironment bool              // Source the SDK environment file before the payload.
	RepoURL           string            // Optional package repository URL override.
	RepoRelease       string            // Optional repository release override.
	Env               map[string]string // Extra environment variables.
	ExtraArgs         []string          // Extra arguments for the container tool.
}

// Returns the options used by most pipeline invocations: bootstrap enabled
// and the container removed on exit.
func DefaultRunOptions() RunOptions {
	return RunOptions{
		Bootstrap:  true,
		AutoRemove: true,
	}
}

// Creates a runner for the given container tool.
func NewRunner(tool string, verbose bool) (*Runner, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStateDir, err)
	}
	return &Runner{tool: tool, cwd: cwd, verbose: verbose}, nil
}

// Runs a payload script inside a fresh SDK container and blocks until it
// exits (or, in detached mode, until the container has been spawned).
//
// The build-state directory is created on the host if absent. The payload
// runs under `bash -c`, prefixed with the bootstrap preamble unless
// disabled. A non-zero exit status, a missing container tool, and an
// interrupt during the wait all reduce to an error; the caller cannot and
// need not distinguish a bootstrap failure from a payload failure.
//
// On interruption the spawned container is left alone: it may keep running
// independently. This is an accepted limitation, not a retry point.
func (r *Runner) Run(ctx context.Context, image, target, payload string, opts RunOptions) error {
	if err := os.MkdirAll(paths.StateDir(r.cwd), paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: %v", ErrStateDir, err)
	}

	script := payload
	if opts.Bootstrap {
		script = entrypointScript(opts.SourceEnvironment) + "\n" + payload
	}

	argv := r.invocation(image, target, script, opts)

	slog.Debug("container invocation", "tool", r.tool, "image", image, "target", target, "detach", opts.Detach)
	if r.verbose {
		console.Debug("Container command: %s", strings.Join(argv, " "))
	}

	if opts.Detach {
		return r.spawn(argv)
	}
	return r.await(ctx, argv)
}

// Composes the full container tool argv for one invocation.
func (r *Runner) invocation(image, target, script string, opts RunOptions) []string {
	argv := []string{r.tool, "run"}

	if opts.AutoRemove {
		argv = append(argv, "--rm")
	}
	if opts.Name != "" {
		argv = append(argv, "--name", opts.Name)
	}
	if opts.Detach {
		argv = append(argv, "-d")
	}
	if opts.Interactive {
		argv = append(argv, "-i", "-t")
	}

	argv = append(argv,
		"-v", fmt.Sprintf("%s:%s:ro", r.cwd, SourceMount),
		"-v", fmt.Sprintf("%s:%s:rw", paths.StateDir(r.cwd), StateMount),
	)

	if target != "" {
		argv = append(argv, "-e", TargetEnvVar+"="+target)
	}
	for _, kv := range environ(opts) {
		argv = append(argv, "-e", kv)
	}

	argv = append(argv, opts.ExtraArgs...)
	argv = append(argv, image, "bash", "-c", script)

	return argv
}

// Collects the extra environment as sorted "key=value" pairs so composed
// invocations are reproducible.
func environ(opts RunOptions) []string {
	env := make(map[string]string, len(opts.Env)+2)
	for k, v := range opts.Env {
		env[k] = v
	}
	if opts.RepoURL != "" {
		env[repoURLEnvVar] = opts.RepoURL
	}
	if opts.RepoRelease != "" {
		env[repoReleaseEnvVar] = opts.RepoRelease
	}

	pairs := make([]string, 0, len(env))
	for k, v := range env {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return pairs
}

// Starts a detached container, reports its identifier, and returns without
// waiting.
func (r *Runner) spawn(argv []string) error {
	out, err := exec.Command(argv[0], argv[1:]...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			console.Error("Container launch failed: %s", strings.TrimSpace(string(exitErr.Stderr)))
			return fmt.Errorf("%w: detached launch exited %d", ErrCommandFailed, exitErr.ExitCode())
		}
		if errors.Is(err, exec.ErrNotFound) {
			return fmt.Errorf("%w: %s is not installed or not in PATH", ErrToolNotFound, r.tool)
		}
		return fmt.Errorf("%w: %v", ErrCommandFailed, err)
	}

	console.Info("Container started in detached mode with ID: %s", strings.TrimSpace(string(out)))
	return nil
}

// Runs a foreground container with inherited standard streams and blocks
// until it exits or the context is cancelled.
//
// Cancellation does not signal the child: the container tool owns the
// process and the container may outlive the wait.
func (r *Runner) await(ctx context.Context, argv []string) error {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return fmt.Errorf("%w: %s is not installed or not in PATH", ErrToolNotFound, r.tool)
		}
		return fmt.Errorf("%w: %v", ErrCommandFailed, err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-ctx.Done():
		console.Info("Interrupt received. The container process may still be running.")
		return ErrInterrupted
	case err := <-done:
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				return fmt.Errorf("%w: exit status %d", ErrCommandFailed, exitErr.ExitCode())
			}
			return fmt.Errorf("%w: %v", ErrCommandFailed, err)
		}
		return nil
	}
}
