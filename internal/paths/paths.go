package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/avocadolinux/avocado/internal"
)

const (

	// Name of the build-state directory created in the project root and
	// mounted read-write into every SDK container.
	StateDirName = "_avocado"

	// Default name of the project configuration file.
	ConfigFileName = "avocado.toml"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Path to the build-state directory under the given project root.
func StateDir(root string) string {
	return filepath.Join(root, StateDirName)
}

// Path to the user-level defaults file.
//
//	Linux:   $XDG_CONFIG_HOME/avocado/config.toml or ~/.config/avocado/config.toml
//	macOS:   ~/Library/Application Support/avocado/config.toml
//
// The file is optional; callers must tolerate its absence.
func UserDefaults() string {
	return filepath.Join(xdg.ConfigHome, internal.Name, "config.toml")
}
