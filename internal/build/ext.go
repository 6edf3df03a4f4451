package build

import (
	"context"
	"fmt"
	"strings"

	"github.com/avocadolinux/avocado/internal/console"
	"github.com/avocadolinux/avocado/internal/container"
	"github.com/avocadolinux/avocado/internal/deps"
)

// Stamps release files for every type an extension enables.
//
// One container call per enabled type. Type failures are reported
// independently; the overall result is the logical AND across requested
// types. An extension with neither type enabled fails before any container
// is spawned.
func Extension(ctx context.Context, bc *Context, name string) error {
	ext, ok := bc.Config.Extension(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownExtension, name)
	}

	types := ext.Types()
	if len(types) == 0 {
		return fmt.Errorf("%w: %q", ErrNoExtensionType, name)
	}

	if err := ext.ValidateVersion(); err != nil {
		return fmt.Errorf("extension %q: %w", name, err)
	}

	failed := false
	for _, extType := range types {
		console.Info("Building %s extension '%s'.", extType, name)

		scopes := ext.EffectiveSysextScopes()
		if extType == "confext" {
			scopes = ext.EffectiveConfextScopes()
		}

		opts := bc.RunOptions()
		opts.SourceEnvironment = true

		err := bc.Runner.Run(ctx, bc.Image, bc.Target, releaseScript(name, extType, scopes), opts)
		if err != nil {
			console.Error("Failed to build %s extension '%s'.", extType, name)
			failed = true
			continue
		}
		console.Success("Built %s extension '%s'.", extType, name)
	}

	if failed {
		return fmt.Errorf("%w: extension %q", ErrStep, name)
	}
	return nil
}

// Produces a squashfs artifact for every type an extension enables.
//
// Each artifact lands at output/<type>/<name>.raw under the target prefix.
// The container call verifies the extension sysroot exists, removes any
// stale artifact, and rebuilds it with reproducibility flags.
func ExtensionImage(ctx context.Context, bc *Context, name string) error {
	ext, ok := bc.Config.Extension(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownExtension, name)
	}

	types := ext.Types()
	if len(types) == 0 {
		return fmt.Errorf("%w: %q", ErrNoExtensionType, name)
	}

	failed := false
	for _, extType := range types {
		console.Info("Creating %s image for extension '%s'.", extType, name)

		opts := bc.RunOptions()
		opts.SourceEnvironment = true

		if err := bc.Runner.Run(ctx, bc.Image, bc.Target, imageScript(name, extType), opts); err != nil {
			console.Error("Failed to create %s image for extension '%s'.", extType, name)
			failed = true
			continue
		}
		console.Success("Created %s image for extension '%s'.", extType, name)
	}

	if failed {
		return fmt.Errorf("%w: extension image %q", ErrStep, name)
	}
	return nil
}

// Installs the package dependencies of the named extensions into their
// sysroots, creating each sysroot on first use.
//
// Extension and compile references in the dependency map are skipped:
// extension references are realized as built artifacts at runtime-build
// time, and compile dependencies belong to the target-dev sysroot.
func InstallExtensions(ctx context.Context, bc *Context, names []string, force bool) error {
	for i, name := range names {
		if bc.Verbose {
			console.Debug("Installing (%d/%d) %s.", i+1, len(names), name)
		}
		if err := installExtension(ctx, bc, name, force); err != nil {
			return err
		}
	}
	return nil
}

func installExtension(ctx context.Context, bc *Context, name string, force bool) error {
	ext, ok := bc.Config.Extension(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownExtension, name)
	}

	if err := ensureExtensionSysroot(ctx, bc, name); err != nil {
		return err
	}

	packages := deps.PackageArgs(deps.PackagePins(ext.Dependencies))
	if len(packages) == 0 {
		if bc.Verbose {
			console.Debug("No package dependencies to install for extension '%s'.", name)
		}
		return nil
	}

	cmd := container.InstallCommand(container.TargetRepo, extSysroot(name), force, packages)

	opts := bc.RunOptions()
	opts.Interactive = !force

	if err := bc.Runner.Run(ctx, bc.Image, bc.Target, cmd.Script(), opts); err != nil {
		console.Error("Failed to install dependencies for extension '%s'.", name)
		return fmt.Errorf("%w: install extension %q", ErrStep, name)
	}
	return nil
}

// Removes an extension's sysroot inside the container. Cleaning a sysroot
// that does not exist is a success.
func CleanExtension(ctx context.Context, bc *Context, name string) error {
	opts := bc.RunOptions()

	check := fmt.Sprintf("[ -d %s ]", extSysroot(name))
	if err := bc.Runner.Run(ctx, bc.Image, bc.Target, check, opts); err != nil {
		console.Success("Sysroot for extension '%s' does not exist.", name)
		return nil
	}

	console.Info("Cleaning sysroot for extension '%s'.", name)
	remove := fmt.Sprintf("rm -rf %s", extSysroot(name))
	if err := bc.Runner.Run(ctx, bc.Image, bc.Target, remove, opts); err != nil {
		console.Error("Failed to clean sysroot for extension '%s'.", name)
		return fmt.Errorf("%w: clean extension %q", ErrStep, name)
	}

	console.Success("Cleaned sysroot for extension '%s'.", name)
	return nil
}

// Runs an arbitrary dnf command against an extension's sysroot, creating
// the sysroot on first use. Arguments pass through unmodified.
func ExtensionDNF(ctx context.Context, bc *Context, name string, args []string) error {
	if _, ok := bc.Config.Extension(name); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownExtension, name)
	}

	if err := ensureExtensionSysroot(ctx, bc, name); err != nil {
		return err
	}

	opts := bc.RunOptions()
	opts.Interactive = true

	cmd := extensionDNFCommand(name, args)
	return bc.Runner.Run(ctx, bc.Image, bc.Target, cmd.Script(), opts)
}

// Builds a passthrough dnf invocation rooted in an extension's sysroot,
// resolving against the target repositories like extension installs do.
func extensionDNFCommand(name string, args []string) container.DNFCommand {
	return container.DNFCommand{
		Root:        container.TargetRepo,
		Installroot: extSysroot(name),
		Args:        args,
	}
}

// Shell expression for an extension's sysroot path.
func extSysroot(name string) string {
	return "$AVOCADO_EXT_SYSROOTS/" + name
}

// Creates the extension sysroot if it does not exist yet.
//
// The existence check and the creation are separate container calls so the
// creation (which seeds the RPM database from the rootfs installroot) runs
// only on first use. Safe to call before every install.
func ensureExtensionSysroot(ctx context.Context, bc *Context, name string) error {
	opts := bc.RunOptions()

	check := fmt.Sprintf("[ -d %s ]", extSysroot(name))
	if err := bc.Runner.Run(ctx, bc.Image, bc.Target, check, opts); err == nil {
		return nil
	}

	setup := fmt.Sprintf(
		"mkdir -p %s/var/lib && cp -rf ${AVOCADO_PREFIX}/rootfs/var/lib/rpm %s/var/lib",
		extSysroot(name), extSysroot(name),
	)
	if err := bc.Runner.Run(ctx, bc.Image, bc.Target, setup, opts); err != nil {
		console.Error("Failed to create sysroot for extension '%s'.", name)
		return fmt.Errorf("%w: create sysroot %q", ErrStep, name)
	}

	console.Success("Created sysroot for extension '%s'.", name)
	return nil
}

// Renders the release-file script for one extension type.
//
// The release file carries the sysext/confext marker consumed by the
// target's extension manager: an opaque ID, the reload flag, and the scope
// list. Parent directories are created first.
func releaseScript(name, extType string, scopes []string) string {
	layer := "usr/lib"
	scopeKey := "SYSEXT_SCOPE"
	if extType == "confext" {
		layer = "etc"
		scopeKey = "CONFEXT_SCOPE"
	}

	return fmt.Sprintf(`
set -e

release_dir="$AVOCADO_EXT_SYSROOTS/%[1]s/%[2]s/extension-release.d"
release_file="$release_dir/extension-release.%[1]s"

mkdir -p "$release_dir"
echo "ID=_any" > "$release_file"
echo "EXTENSION_RELOAD_MANAGER=1" >> "$release_file"
echo "%[3]s=%[4]s" >> "$release_file"
`, name, layer, scopeKey, strings.Join(scopes, " "))
}

// Renders the squashfs image script for one extension type.
func imageScript(name, extType string) string {
	return fmt.Sprintf(`
set -e

EXT_NAME="%s"
OUTPUT_DIR="$AVOCADO_PREFIX/output/%s"
OUTPUT_FILE="$OUTPUT_DIR/$EXT_NAME.raw"

mkdir -p $OUTPUT_DIR

rm -f "$OUTPUT_FILE"

if [ ! -d "$AVOCADO_EXT_SYSROOTS/$EXT_NAME" ]; then
    echo "Extension sysroot does not exist: $AVOCADO_EXT_SYSROOTS/$EXT_NAME."
    exit 1
fi

mksquashfs \
  "$AVOCADO_EXT_SYSROOTS/$EXT_NAME" \
  "$OUTPUT_FILE" \
  -noappend \
  -no-xattrs
`, name, extType)
}
