package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/avocadolinux/avocado/internal"
	"github.com/avocadolinux/avocado/internal/build"
	"github.com/avocadolinux/avocado/internal/config"
	"github.com/avocadolinux/avocado/internal/console"
	"github.com/avocadolinux/avocado/internal/container"
	"github.com/avocadolinux/avocado/internal/paths"
	"github.com/avocadolinux/avocado/internal/target"
)

// Returned when no build target can be resolved from flags, the
// environment, or the configuration.
var ErrNoTarget = errors.New("no build target: pass --target, set " + target.EnvVar + ", or declare a single runtime target")

// Represents the root command for the avocado CLI.
var RootCmd struct {
	Quiet         bool     `short:"q" help:"Suppress informational output."`
	Verbose       bool     `short:"v" help:"Enable verbose output."`
	Debug         bool     `short:"d" help:"Enable debug output."`
	Target        string   `short:"t" help:"Override the build target." placeholder:"TARGET"`
	Config        string   `short:"C" default:"${config_file}" help:"Path to the project configuration file." placeholder:"PATH"`
	ContainerTool string   `help:"Container tool binary (docker or podman)." placeholder:"TOOL"`
	ContainerArg  []string `help:"Extra argument passed to every container invocation. May be repeated." placeholder:"ARG"`

	Init    InitCmd    `cmd:"" help:"Write a starter configuration file."`
	Clean   CleanCmd   `cmd:"" help:"Remove the build-state directory."`
	SDK     SDKCmd     `cmd:"" name:"sdk" help:"Manage the SDK sysroot."`
	Ext     ExtCmd     `cmd:"" help:"Manage extensions."`
	Runtime RuntimeCmd `cmd:"" help:"Manage runtimes."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("The Avocado Linux build tool.\n\nProvisions SDK sysroots and builds extension and runtime images inside containers."),
		kong.UsageOnError(),
		kong.Vars{
			"version":     internal.VersionString(),
			"config_file": paths.ConfigFileName,
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	return kongCtx.Run()
}

// Configures console verbosity and the global logger based on CLI flags.
//
// The most talkative flag wins when several are given.
func configureLogger() {
	switch {
	case RootCmd.Debug:
		console.SetLevel(console.LevelDebug)
	case RootCmd.Verbose:
		console.SetLevel(console.LevelVerbose)
	case RootCmd.Quiet:
		console.SetLevel(console.LevelQuiet)
	}

	level := slog.LevelInfo
	switch {
	case RootCmd.Debug:
		level = slog.LevelDebug
	case RootCmd.Quiet:
		level = slog.LevelWarn
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// Builds the per-invocation state every container-backed command shares.
//
// Loads the project configuration and the optional user defaults file,
// resolves the build target and the container tool, and constructs the
// runner. Fails when no target can be resolved.
func buildContext() (*build.Context, error) {
	cfg, err := config.Load(RootCmd.Config)
	if err != nil {
		return nil, err
	}

	defaults, err := config.LoadDefaults(paths.UserDefaults())
	if err != nil {
		return nil, err
	}

	resolved := target.Resolve(RootCmd.Target, target.FromEnvironment(), cfg.RuntimeTarget())
	if resolved == "" {
		return nil, ErrNoTarget
	}

	image, err := cfg.Image()
	if err != nil {
		return nil, err
	}

	if cfg.SDK.RepoURL == "" {
		cfg.SDK.RepoURL = defaults.SDK.RepoURL
	}
	if cfg.SDK.RepoRelease == "" {
		cfg.SDK.RepoRelease = defaults.SDK.RepoRelease
	}

	verbose := console.Verbosity() >= console.LevelVerbose

	runner, err := container.NewRunner(containerTool(cfg, defaults), verbose)
	if err != nil {
		return nil, err
	}

	slog.Debug("build context",
		"config", RootCmd.Config,
		"target", resolved,
		"image", image,
	)

	return &build.Context{
		Config:     cfg,
		Runner:     runner,
		Target:     resolved,
		ConfigPath: RootCmd.Config,
		Image:      image,
		Verbose:    verbose,
		ExtraArgs:  RootCmd.ContainerArg,
	}, nil
}

// Resolves the container tool: CLI flag, then project configuration, then
// user defaults, then docker.
func containerTool(cfg *config.Config, defaults config.Defaults) string {
	for _, tool := range []string{RootCmd.ContainerTool, cfg.Container.Tool, defaults.Container.Tool} {
		if tool != "" {
			return tool
		}
	}
	return "docker"
}

// Formats a one-line header for dependency listings.
func depsHeader(kind, name string, count int) string {
	return fmt.Sprintf("%d dependencies for %s '%s':", count, kind, name)
}
