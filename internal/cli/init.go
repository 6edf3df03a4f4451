package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/avocadolinux/avocado/internal/console"
	"github.com/avocadolinux/avocado/internal/paths"
	"github.com/avocadolinux/avocado/internal/target"
)

// Target assumed by 'avocado init' when none is resolvable. Initialization
// has no configuration to consult yet, so it falls back instead of failing.
const initDefaultTarget = "qemux86-64"

// Starter configuration written by 'avocado init'.
const configTemplate = `[runtime.default]
target = "%s"

[runtime.default.dependencies]
nativesdk-avocado-images = "*"

[sdk]
image = "avocadolinux/sdk:apollo-edge"
`

// Represents the 'avocado init' command.
type InitCmd struct {
	Directory string `arg:"" optional:"" default:"." help:"Directory to initialize."`
}

// Executes the init command.
//
// Writes a starter configuration file into the directory, creating it if
// needed. Refuses to overwrite an existing configuration.
func (c *InitCmd) Run(ctx context.Context) error {
	resolved := target.Resolve(RootCmd.Target, target.FromEnvironment(), "")
	if resolved == "" {
		resolved = initDefaultTarget
	}

	if err := os.MkdirAll(c.Directory, paths.DefaultDirMode); err != nil {
		return fmt.Errorf("creating directory %s: %w", c.Directory, err)
	}

	path := filepath.Join(c.Directory, paths.ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration file %q already exists", path)
	}

	content := fmt.Sprintf(configTemplate, resolved)
	if err := os.WriteFile(path, []byte(content), paths.DefaultFileMode); err != nil {
		return fmt.Errorf("creating %s: %w", paths.ConfigFileName, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	console.Success("Created config at %s.", abs)
	return nil
}
