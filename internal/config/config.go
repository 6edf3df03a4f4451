package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
)

// Version assumed for extensions that do not declare one.
const DefaultExtensionVersion = "0.1.0"

// Scope list assumed for extensions that do not declare any.
var defaultScopes = []string{"system"}

// The parsed project configuration.
type Config struct {
	SDK       SDK                  `toml:"sdk"`
	Container Container            `toml:"container"`
	Ext       map[string]Extension `toml:"ext"`
	Runtimes  map[string]Runtime   `toml:"runtime"`
}

// The optional [container] section.
type Container struct {
	Tool string `toml:"tool"` // Container tool binary (docker or podman).
}

// The [sdk] section: container image, repo overrides, SDK-level
// dependencies, and named compile units.
type SDK struct {
	Image        string                 `toml:"image"`
	RepoURL      string                 `toml:"repo_url"`
	RepoRelease  string                 `toml:"repo_release"`
	Compile      map[string]CompileUnit `toml:"compile"`
	Dependencies map[string]DepSpec     `toml:"dependencies"`
}

// An [ext.<name>] section.
type Extension struct {
	Sysext        bool               `toml:"sysext"`
	Confext       bool               `toml:"confext"`
	Version       string             `toml:"version"`
	Scopes        []string           `toml:"scopes"`
	SysextScopes  []string           `toml:"sysext_scopes"`
	ConfextScopes []string           `toml:"confext_scopes"`
	Dependencies  map[string]DepSpec `toml:"dependencies"`
}

// A [runtime.<name>] section.
type Runtime struct {
	Target       string             `toml:"target"`
	Dependencies map[string]DepSpec `toml:"dependencies"`
}

// A [sdk.compile.<name>] section: a compile script plus the dependency set
// installed into the target-dev sysroot on its behalf.
type CompileUnit struct {
	Compile      string             `toml:"compile"`
	Dependencies map[string]DepSpec `toml:"dependencies"`
}

// Loads and parses the configuration file at the given path.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	return &cfg, nil
}

// User-level defaults, read from the XDG configuration path. Every field
// is an optional fallback for a value the project configuration and CLI
// flags leave unset.
type Defaults struct {
	Container Container    `toml:"container"`
	SDK       RepoDefaults `toml:"sdk"`
}

// Repository fallbacks in the user-level defaults file.
type RepoDefaults struct {
	RepoURL     string `toml:"repo_url"`
	RepoRelease string `toml:"repo_release"`
}

// Loads the user-level defaults file. A missing file is not an error; the
// zero value is returned.
func LoadDefaults(path string) (Defaults, error) {
	var d Defaults
	if _, err := os.Stat(path); err != nil {
		return d, nil
	}
	if _, err := toml.DecodeFile(path, &d); err != nil {
		return d, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return d, nil
}

// Returns the SDK container image, or an error if none is configured.
func (c *Config) Image() (string, error) {
	if c.SDK.Image == "" {
		return "", ErrNoImage
	}
	return c.SDK.Image, nil
}

// Looks up an extension section by name.
func (c *Config) Extension(name string) (Extension, bool) {
	ext, ok := c.Ext[name]
	return ext, ok
}

// Looks up a runtime section by name.
func (c *Config) Runtime(name string) (Runtime, bool) {
	rt, ok := c.Runtimes[name]
	return rt, ok
}

// Looks up a compile unit by name.
func (c *Config) CompileUnit(name string) (CompileUnit, bool) {
	cu, ok := c.SDK.Compile[name]
	return cu, ok
}

// Returns the target declared by the single runtime section, or "" when no
// runtime declares one or more than one runtime exists. With multiple
// runtimes the choice is ambiguous and the caller must supply the target
// explicitly.
func (c *Config) RuntimeTarget() string {
	if len(c.Runtimes) != 1 {
		return ""
	}
	for _, rt := range c.Runtimes {
		return rt.Target
	}
	return ""
}

// Returns the declared version, or the default when unset.
func (e Extension) EffectiveVersion() string {
	if e.Version == "" {
		return DefaultExtensionVersion
	}
	return e.Version
}

// Returns the enabled extension types in build order.
func (e Extension) Types() []string {
	var types []string
	if e.Sysext {
		types = append(types, "sysext")
	}
	if e.Confext {
		types = append(types, "confext")
	}
	return types
}

// Returns the scope list for sysext release files, falling back to the
// shared scope list and finally to the default.
func (e Extension) EffectiveSysextScopes() []string {
	return firstScopes(e.SysextScopes, e.Scopes)
}

// Returns the scope list for confext release files, falling back to the
// shared scope list and finally to the default.
func (e Extension) EffectiveConfextScopes() []string {
	return firstScopes(e.ConfextScopes, e.Scopes)
}

func firstScopes(lists ...[]string) []string {
	for _, l := range lists {
		if len(l) > 0 {
			return l
		}
	}
	return defaultScopes
}

// Checks that the declared version parses as semantic versioning. The
// wildcard "*" is accepted as-is.
func (e Extension) ValidateVersion() error {
	v := e.EffectiveVersion()
	if v == "*" {
		return nil
	}
	if _, err := semver.NewVersion(v); err != nil {
		return fmt.Errorf("invalid extension version %q: %w", v, err)
	}
	return nil
}

// Returns the names of extensions referenced by the runtime's dependency
// set. Only extensions in this set participate in the runtime's var image.
func (r Runtime) RequiredExtensions() map[string]bool {
	required := make(map[string]bool)
	for _, spec := range r.Dependencies {
		if spec.Ext != "" {
			required[spec.Ext] = true
		}
	}
	return required
}
