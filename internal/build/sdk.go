package build

import (
	"context"
	"fmt"
	"sort"

	"github.com/avocadolinux/avocado/internal/console"
	"github.com/avocadolinux/avocado/internal/container"
	"github.com/avocadolinux/avocado/internal/deps"
)

// Shell expression for the target-dev sysroot compile dependencies are
// installed into.
const targetSysroot = "${AVOCADO_SDK_PREFIX}/target-sysroot"

// Installs the SDK's own dependencies, then every compile section's
// dependencies into the target-dev sysroot.
//
// SDK dependencies root under the SDK prefix; compile dependencies never
// do. Sections are processed in name order and the pipeline stops at the
// first failure.
func InstallSDK(ctx context.Context, bc *Context, force bool) error {
	pins := deps.PackageArgs(deps.PackagePins(bc.Config.SDK.Dependencies))
	if len(pins) == 0 {
		console.Success("No dependencies configured.")
	} else {
		cmd := container.InstallCommand(container.SDKRepo, "", force, pins)

		opts := bc.RunOptions()
		opts.Interactive = !force

		if err := bc.Runner.Run(ctx, bc.Image, bc.Target, cmd.Script(), opts); err != nil {
			console.Error("Failed to install SDK package(s).")
			return fmt.Errorf("%w: sdk install", ErrStep)
		}
		console.Success("Installed SDK dependencies.")
	}

	return installCompileDependencies(ctx, bc, force)
}

func installCompileDependencies(ctx context.Context, bc *Context, force bool) error {
	if len(bc.Config.SDK.Compile) == 0 {
		return nil
	}

	console.Info("Installing SDK compile dependencies.")

	names := make([]string, 0, len(bc.Config.SDK.Compile))
	for name := range bc.Config.SDK.Compile {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		unit := bc.Config.SDK.Compile[name]
		pins := deps.PackageArgs(deps.PackagePins(unit.Dependencies))
		if len(pins) == 0 {
			console.Info("(%d/%d) [sdk.compile.%s.dependencies] no dependencies.", i+1, len(names), name)
			continue
		}

		console.Info("Installing (%d/%d) %s.", i+1, len(names), name)

		cmd := container.InstallCommand(container.TargetRepo, targetSysroot, force, pins)

		opts := bc.RunOptions()
		opts.Interactive = !force

		if err := bc.Runner.Run(ctx, bc.Image, bc.Target, cmd.Script(), opts); err != nil {
			console.Error("Failed to install dependencies for compile section '%s'.", name)
			return fmt.Errorf("%w: compile section %q", ErrStep, name)
		}
	}

	console.Success("Installed SDK compile dependencies.")
	return nil
}

// Runs the compile script of each requested section inside the container
// with the SDK environment sourced. An empty section list compiles
// everything in name order.
func Compile(ctx context.Context, bc *Context, sections []string) error {
	available := bc.Config.SDK.Compile

	if len(sections) == 0 {
		for name := range available {
			sections = append(sections, name)
		}
		sort.Strings(sections)
	} else {
		for _, name := range sections {
			if _, ok := available[name]; !ok {
				return fmt.Errorf("%w: %q", ErrUnknownCompileUnit, name)
			}
		}
	}

	if len(sections) == 0 {
		console.Success("No compile sections configured.")
		return nil
	}

	failed := false
	for _, name := range sections {
		unit := available[name]
		console.Info("Compiling section '%s' with script '%s'.", name, unit.Compile)

		opts := bc.RunOptions()
		opts.SourceEnvironment = true

		if err := bc.Runner.Run(ctx, bc.Image, bc.Target, compileScript(unit.Compile), opts); err != nil {
			console.Error("Failed to compile section '%s'.", name)
			failed = true
			continue
		}
		console.Success("Compiled section '%s'.", name)
	}

	if failed {
		return fmt.Errorf("%w: compile", ErrStep)
	}
	return nil
}

// Removes the SDK sysroot inside the container.
func CleanSDK(ctx context.Context, bc *Context) error {
	opts := bc.RunOptions()

	if err := bc.Runner.Run(ctx, bc.Image, bc.Target, "rm -rf $AVOCADO_SDK_PREFIX", opts); err != nil {
		console.Error("Failed to remove SDK directory.")
		return fmt.Errorf("%w: sdk clean", ErrStep)
	}

	console.Success("Removed SDK directory.")
	return nil
}

// Renders the guarded invocation of a compile script.
func compileScript(script string) string {
	return fmt.Sprintf(
		"if [ -f '%[1]s' ]; then echo 'Running compile script: %[1]s'; bash '%[1]s'; else echo 'Compile script %[1]s not found.'; exit 1; fi",
		script,
	)
}
