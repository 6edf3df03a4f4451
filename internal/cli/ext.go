package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/avocadolinux/avocado/internal/build"
	"github.com/avocadolinux/avocado/internal/config"
	"github.com/avocadolinux/avocado/internal/deps"
)

// Represents the 'avocado ext' command group.
type ExtCmd struct {
	List    ExtListCmd    `cmd:"" help:"List configured extensions."`
	Deps    ExtDepsCmd    `cmd:"" help:"List resolved extension dependencies."`
	DNF     ExtDNFCmd     `cmd:"" name:"dnf" help:"Run a dnf command against an extension's sysroot."`
	Install ExtInstallCmd `cmd:"" help:"Install extension dependencies into extension sysroots."`
	Build   ExtBuildCmd   `cmd:"" help:"Write extension release files."`
	Image   ExtImageCmd   `cmd:"" help:"Build extension image artifacts."`
	Clean   ExtCleanCmd   `cmd:"" help:"Remove an extension sysroot."`
}

// Represents the 'avocado ext list' command.
type ExtListCmd struct{}

// Executes the ext list command.
func (c *ExtListCmd) Run(ctx context.Context) error {
	cfg, err := config.Load(RootCmd.Config)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(cfg.Ext))
	for name := range cfg.Ext {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ext := cfg.Ext[name]
		types := ext.Types()
		if len(types) == 0 {
			types = []string{"none"}
		}
		fmt.Printf("%s (%s) [%s]\n", name, ext.EffectiveVersion(), strings.Join(types, ", "))
	}
	return nil
}

// Represents the 'avocado ext deps' command.
type ExtDepsCmd struct {
	Name string `arg:"" help:"Extension name."`
}

// Executes the ext deps command.
func (c *ExtDepsCmd) Run(ctx context.Context) error {
	cfg, err := config.Load(RootCmd.Config)
	if err != nil {
		return err
	}

	ext, ok := cfg.Extension(c.Name)
	if !ok {
		return fmt.Errorf("%w: %q", build.ErrUnknownExtension, c.Name)
	}

	list := deps.ResolveAll(cfg, ext.Dependencies)
	fmt.Println(depsHeader("extension", c.Name, len(list)))
	for _, dep := range list {
		fmt.Println(" ", dep)
	}
	return nil
}

// Returned when 'ext dnf' is given no dnf arguments.
var ErrNoDNFArgs = errors.New("no dnf command specified; use -- to separate dnf arguments")

// Represents the 'avocado ext dnf' command.
type ExtDNFCmd struct {
	Name string   `arg:"" help:"Extension name."`
	Args []string `arg:"" optional:"" passthrough:"" help:"Arguments passed to dnf."`
}

// Executes the ext dnf command.
//
// Passes the arguments through to dnf inside a bootstrapped container,
// rooted in the extension's sysroot and resolving against the target
// repositories.
func (c *ExtDNFCmd) Run(ctx context.Context) error {
	if len(c.Args) == 0 {
		return ErrNoDNFArgs
	}

	bc, err := buildContext()
	if err != nil {
		return err
	}
	return build.ExtensionDNF(ctx, bc, c.Name, c.Args)
}

// Represents the 'avocado ext install' command.
type ExtInstallCmd struct {
	Name  string `arg:"" optional:"" help:"Extension name (defaults to all)."`
	Force bool   `short:"f" help:"Skip confirmation prompts."`
}

// Executes the ext install command.
//
// Installs package dependencies into the named extension's sysroot, or
// into every configured extension's sysroot when no name is given.
func (c *ExtInstallCmd) Run(ctx context.Context) error {
	bc, err := buildContext()
	if err != nil {
		return err
	}

	names := []string{c.Name}
	if c.Name == "" {
		names = names[:0]
		for name := range bc.Config.Ext {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	return build.InstallExtensions(ctx, bc, names, c.Force)
}

// Represents the 'avocado ext build' command.
type ExtBuildCmd struct {
	Name string `arg:"" help:"Extension name."`
}

// Executes the ext build command.
func (c *ExtBuildCmd) Run(ctx context.Context) error {
	bc, err := buildContext()
	if err != nil {
		return err
	}
	return build.Extension(ctx, bc, c.Name)
}

// Represents the 'avocado ext image' command.
type ExtImageCmd struct {
	Name string `arg:"" help:"Extension name."`
}

// Executes the ext image command.
func (c *ExtImageCmd) Run(ctx context.Context) error {
	bc, err := buildContext()
	if err != nil {
		return err
	}
	return build.ExtensionImage(ctx, bc, c.Name)
}

// Represents the 'avocado ext clean' command.
type ExtCleanCmd struct {
	Name string `arg:"" help:"Extension name."`
}

// Executes the ext clean command.
func (c *ExtCleanCmd) Run(ctx context.Context) error {
	bc, err := buildContext()
	if err != nil {
		return err
	}
	return build.CleanExtension(ctx, bc, c.Name)
}
