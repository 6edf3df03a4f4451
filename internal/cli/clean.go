package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/avocadolinux/avocado/internal/console"
	"github.com/avocadolinux/avocado/internal/paths"
)

// Represents the 'avocado clean' command.
type CleanCmd struct {
	Directory string `arg:"" optional:"" default:"." help:"Project directory to clean."`
}

// Executes the clean command.
//
// Removes the build-state directory on the host. All sysroots, compiled
// artifacts, and images under it are lost; nothing inside a container is
// touched.
func (c *CleanCmd) Run(ctx context.Context) error {
	stateDir := paths.StateDir(c.Directory)

	if _, err := os.Stat(stateDir); os.IsNotExist(err) {
		console.Info("Nothing to clean.")
		return nil
	}

	if err := os.RemoveAll(stateDir); err != nil {
		return fmt.Errorf("removing %s: %w", stateDir, err)
	}

	console.Success("Removed %s.", stateDir)
	return nil
}
