package main

import (
	"log/slog"
	"os"

	"github.com/avocadolinux/avocado/internal"
	"github.com/avocadolinux/avocado/internal/cli"
	"github.com/avocadolinux/avocado/internal/console"
)

// The entry point for the avocado CLI.
//
// Initializes logging and executes the root command. If any error occurs
// during execution, it exits with a non-zero code.
func main() {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	slog.SetDefault(slog.New(handler))

	slog.Debug("build", "version", internal.VersionString())

	slog.Debug("avocado is running",
		"pid", os.Getpid(),
		"cwd", cwd(),
		"args", os.Args,
	)

	if err := cli.Execute(); err != nil {
		console.Error("%s", err)
		os.Exit(1)
	}
}

// Returns the current working directory or "(unknown)".
func cwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "(unknown)"
	}
	return cwd
}
