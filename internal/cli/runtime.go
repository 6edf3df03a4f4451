package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/avocadolinux/avocado/internal/build"
	"github.com/avocadolinux/avocado/internal/config"
	"github.com/avocadolinux/avocado/internal/deps"
)

// Represents the 'avocado runtime' command group.
type RuntimeCmd struct {
	List  RuntimeListCmd  `cmd:"" help:"List configured runtimes."`
	Deps  RuntimeDepsCmd  `cmd:"" help:"List resolved runtime dependencies."`
	Build RuntimeBuildCmd `cmd:"" help:"Build runtime images."`
}

// Represents the 'avocado runtime list' command.
type RuntimeListCmd struct{}

// Executes the runtime list command.
func (c *RuntimeListCmd) Run(ctx context.Context) error {
	cfg, err := config.Load(RootCmd.Config)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(cfg.Runtimes))
	for name := range cfg.Runtimes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rt := cfg.Runtimes[name]
		if rt.Target != "" {
			fmt.Printf("%s (target: %s)\n", name, rt.Target)
		} else {
			fmt.Println(name)
		}
	}
	return nil
}

// Represents the 'avocado runtime deps' command.
type RuntimeDepsCmd struct {
	Name string `arg:"" help:"Runtime name."`
}

// Executes the runtime deps command.
func (c *RuntimeDepsCmd) Run(ctx context.Context) error {
	cfg, err := config.Load(RootCmd.Config)
	if err != nil {
		return err
	}

	rt, ok := cfg.Runtime(c.Name)
	if !ok {
		return fmt.Errorf("%w: %q", build.ErrUnknownRuntime, c.Name)
	}

	list := deps.ResolveAll(cfg, rt.Dependencies)
	fmt.Println(depsHeader("runtime", c.Name, len(list)))
	for _, dep := range list {
		fmt.Println(" ", dep)
	}
	return nil
}

// Represents the 'avocado runtime build' command.
type RuntimeBuildCmd struct {
	Name  string `arg:"" help:"Runtime name."`
	Force bool   `short:"f" help:"Skip confirmation prompts."`
}

// Executes the runtime build command.
func (c *RuntimeBuildCmd) Run(ctx context.Context) error {
	bc, err := buildContext()
	if err != nil {
		return err
	}
	return build.Runtime(ctx, bc, c.Name, c.Force)
}
