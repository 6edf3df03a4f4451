package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/avocadolinux/avocado/internal/build"
	"github.com/avocadolinux/avocado/internal/config"
	"github.com/avocadolinux/avocado/internal/container"
	"github.com/avocadolinux/avocado/internal/deps"
)

// Represents the 'avocado sdk' command group.
type SDKCmd struct {
	Install SDKInstallCmd `cmd:"" help:"Install SDK dependencies into the SDK sysroot."`
	Deps    SDKDepsCmd    `cmd:"" help:"List resolved SDK dependencies."`
	Run     SDKRunCmd     `cmd:"" help:"Run a command inside an SDK container."`
	DNF     SDKDNFCmd     `cmd:"" name:"dnf" help:"Run a dnf command against the SDK repositories."`
	Compile SDKCompileCmd `cmd:"" help:"Run configured compile scripts."`
	Clean   SDKCleanCmd   `cmd:"" help:"Remove the SDK sysroot inside the container."`
}

// Represents the 'avocado sdk install' command.
type SDKInstallCmd struct {
	Force bool `short:"f" help:"Skip confirmation prompts."`
}

// Executes the sdk install command.
func (c *SDKInstallCmd) Run(ctx context.Context) error {
	bc, err := buildContext()
	if err != nil {
		return err
	}
	return build.InstallSDK(ctx, bc, c.Force)
}

// Represents the 'avocado sdk deps' command.
type SDKDepsCmd struct{}

// Executes the sdk deps command.
//
// Lists the resolved SDK-level dependencies together with the dependencies
// of every compile unit, deduplicated and in display order.
func (c *SDKDepsCmd) Run(ctx context.Context) error {
	cfg, err := config.Load(RootCmd.Config)
	if err != nil {
		return err
	}

	list := deps.ResolveAll(cfg, cfg.SDK.Dependencies)
	for _, unit := range cfg.SDK.Compile {
		list = append(list, deps.ResolveAll(cfg, unit.Dependencies)...)
	}
	list = deps.Sorted(list)

	fmt.Printf("%d dependencies for the SDK:\n", len(list))
	for _, dep := range list {
		fmt.Println(" ", dep)
	}
	return nil
}

// Returned when 'sdk run' combines an interactive terminal with detach.
var ErrInteractiveDetach = errors.New("cannot combine --interactive with --detach")

// Returned when 'sdk run' is given neither a command nor --interactive.
var ErrNoCommand = errors.New("provide a command or use --interactive")

// Represents the 'avocado sdk run' command.
type SDKRunCmd struct {
	Name        string   `help:"Assign a name to the container." placeholder:"NAME"`
	Detach      bool     `short:"d" help:"Start the container and return immediately."`
	Rm          bool     `help:"Remove the container when it exits."`
	Interactive bool     `short:"i" help:"Allocate an interactive terminal."`
	Command     []string `arg:"" optional:"" passthrough:"" help:"Command to run."`
}

// Checks the flag and argument combination before anything is loaded or
// spawned. An interactive terminal cannot be detached, and without a
// terminal there must be a command to run.
func (c *SDKRunCmd) validate() error {
	if c.Interactive && c.Detach {
		return ErrInteractiveDetach
	}
	if len(c.Command) == 0 && !c.Interactive {
		return ErrNoCommand
	}
	return nil
}

// Executes the sdk run command.
//
// Runs an ad-hoc command in a bootstrapped SDK container. The bootstrap
// preamble exports the package-manager environment; the SDK environment
// file is not sourced.
func (c *SDKRunCmd) Run(ctx context.Context) error {
	if err := c.validate(); err != nil {
		return err
	}

	bc, err := buildContext()
	if err != nil {
		return err
	}

	payload := strings.Join(c.Command, " ")
	if payload == "" {
		payload = "bash"
	}

	return bc.Runner.Run(ctx, bc.Image, bc.Target, payload, c.options(bc))
}

// Maps the command's flags onto container run options. The SDK environment
// file stays unsourced: ad-hoc commands get the bootstrap exports only.
func (c *SDKRunCmd) options(bc *build.Context) container.RunOptions {
	opts := bc.RunOptions()
	opts.Name = c.Name
	opts.Detach = c.Detach
	opts.AutoRemove = c.Rm
	opts.Interactive = c.Interactive
	return opts
}

// Represents the 'avocado sdk dnf' command.
type SDKDNFCmd struct {
	Args []string `arg:"" passthrough:"" help:"Arguments passed to dnf."`
}

// Executes the sdk dnf command.
//
// Passes the arguments through to dnf inside a bootstrapped container,
// resolving against the SDK repositories.
func (c *SDKDNFCmd) Run(ctx context.Context) error {
	bc, err := buildContext()
	if err != nil {
		return err
	}

	cmd := container.DNFCommand{
		Root: container.SDKRepo,
		Args: c.Args,
	}

	opts := bc.RunOptions()
	opts.Interactive = true

	return bc.Runner.Run(ctx, bc.Image, bc.Target, cmd.Script(), opts)
}

// Represents the 'avocado sdk compile' command.
type SDKCompileCmd struct {
	Sections []string `arg:"" optional:"" help:"Compile sections to run (defaults to all)."`
}

// Executes the sdk compile command.
func (c *SDKCompileCmd) Run(ctx context.Context) error {
	bc, err := buildContext()
	if err != nil {
		return err
	}
	return build.Compile(ctx, bc, c.Sections)
}

// Represents the 'avocado sdk clean' command.
type SDKCleanCmd struct{}

// Executes the sdk clean command.
func (c *SDKCleanCmd) Run(ctx context.Context) error {
	bc, err := buildContext()
	if err != nil {
		return err
	}
	return build.CleanSDK(ctx, bc)
}
