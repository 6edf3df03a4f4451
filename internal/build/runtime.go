package build

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/avocadolinux/avocado/internal/config"
	"github.com/avocadolinux/avocado/internal/console"
	"github.com/avocadolinux/avocado/internal/container"
)

// Support package providing image-assembly tooling and the genimage
// template inside a runtime's installroot.
const imagesPackage = "avocado-pkg-images"

// Builds a runtime's var image and final composed image.
//
// The pipeline is a fixed sequence of container calls: verify (and if
// needed install) the images support package in the runtime's installroot,
// then run the assembly script that stages the runtime's required
// extensions, creates the btrfs var image with read-write subvolumes,
// composes the final image via genimage, and runs the target lifecycle
// hook when present. The sequence stops at the first failure; completed
// steps are left in place.
func Runtime(ctx context.Context, bc *Context, name string, force bool) error {
	rt, ok := bc.Config.Runtime(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRuntime, name)
	}

	console.Info("Building runtime images for '%s'.", name)

	if err := ensureImagesPackage(ctx, bc, name, force); err != nil {
		return err
	}

	opts := bc.RunOptions()
	opts.SourceEnvironment = true

	script := varImageScript(bc.Config, rt, name, bc.Target)
	if err := bc.Runner.Run(ctx, bc.Image, bc.Target, script, opts); err != nil {
		console.Error("Failed to build complete image.")
		return fmt.Errorf("%w: runtime %q", ErrStep, name)
	}

	console.Success("Built runtime '%s'.", name)
	return nil
}

// Verifies the images support package is installed in the runtime's
// installroot, installing it when the silent existence check fails.
func ensureImagesPackage(ctx context.Context, bc *Context, name string, force bool) error {
	installroot := runtimeInstallroot(name)

	check := container.ListInstalledCommand(container.TargetRepo, installroot, imagesPackage)
	if err := bc.Runner.Run(ctx, bc.Image, bc.Target, check.Script(), bc.RunOptions()); err == nil {
		console.Info("%s already installed.", imagesPackage)
		return nil
	}

	console.Info("Installing %s package.", imagesPackage)

	install := container.InstallCommand(container.TargetRepo, installroot, force, []string{imagesPackage})

	opts := bc.RunOptions()
	opts.Interactive = !force

	if err := bc.Runner.Run(ctx, bc.Image, bc.Target, install.Script(), opts); err != nil {
		console.Error("Failed to install %s package.", imagesPackage)
		return fmt.Errorf("%w: install %s", ErrStep, imagesPackage)
	}

	console.Success("Installed %s package.", imagesPackage)
	return nil
}

// Shell expression for a runtime's installroot.
func runtimeInstallroot(name string) string {
	return "$AVOCADO_PREFIX/runtimes/" + name
}

// Renders the runtime assembly script.
//
// Staging covers only extensions referenced by the runtime's dependency
// set; an extension merely declared in configuration does not enter the
// var image. Artifacts are hard-linked into the staging area only when
// missing or changed, so unchanged builds do not churn btrfs extents, and
// a missing artifact degrades to a warning rather than aborting. The
// extensions are staged in name order to keep the script deterministic.
func varImageScript(cfg *config.Config, rt config.Runtime, name, target string) string {
	var staged []string
	required := rt.RequiredExtensions()
	for extName := range required {
		if _, ok := cfg.Extension(extName); ok {
			staged = append(staged, extName)
		}
	}
	sort.Strings(staged)

	var sections []string
	for _, extName := range staged {
		sections = append(sections, stageExtensionSection(cfg.Ext[extName], extName))
	}

	staging := "# No extensions configured for symlinking"
	if len(sections) > 0 {
		staging = strings.Join(sections, "\n")
	}

	return fmt.Sprintf(`
VAR_DIR=$AVOCADO_PREFIX/runtimes/%[1]s/var-staging
mkdir -p "$VAR_DIR/lib/extensions"
mkdir -p "$VAR_DIR/lib/confexts"
mkdir -p "$VAR_DIR/lib/avocado/extensions"

DEPLOY_DIR="$AVOCADO_PREFIX/runtimes/%[1]s/deploy"
mkdir -p $DEPLOY_DIR

%[2]s

VAR_IMAGE="$DEPLOY_DIR/avocado-image-var-%[1]s-%[3]s.var.img"
IMAGE_NAME="avocado-image-%[1]s-%[3]s.img"

mkfs.btrfs -r "$VAR_DIR" \
    --subvol rw:lib/extensions \
    --subvol rw:lib/confexts \
    -f "$VAR_IMAGE"

GENIMAGE_TMPL="$AVOCADO_PREFIX/runtimes/%[1]s/usr/share/avocado/genimage.cfg.in"
if [ -f "$GENIMAGE_TMPL" ]; then
    GENIMAGE_CFG="$DEPLOY_DIR/genimage.cfg"
    sed -e "s|@AVOCADO_VAR_IMAGE@|$VAR_IMAGE|g" \
        -e "s|@AVOCADO_IMAGE_NAME@|$IMAGE_NAME|g" \
        "$GENIMAGE_TMPL" > "$GENIMAGE_CFG"
    genimage \
        --config "$GENIMAGE_CFG" \
        --rootpath "$(mktemp -d)" \
        --inputpath "$DEPLOY_DIR" \
        --outputpath "$DEPLOY_DIR"
fi

if command -v avocado-build-%[3]s >/dev/null 2>&1; then
    echo "[INFO] Running SDK lifecycle hook 'avocado-build' for '%[3]s'."
    avocado-build-%[3]s %[1]s
fi
`, name, staging, target)
}

// Renders the staging block for one required extension.
//
// The canonical copy lives under lib/avocado/extensions; the per-type
// entries in lib/extensions and lib/confexts are symlinks into it as seen
// from the booted system. When both types are enabled the sysext artifact
// is the canonical copy (both artifacts are produced from the same
// sysroot).
func stageExtensionSection(ext config.Extension, name string) string {
	types := ext.Types()
	if len(types) == 0 {
		return fmt.Sprintf("# Extension %s enables no type; nothing to stage", name)
	}

	section := fmt.Sprintf(`
OUTPUT_EXT=$AVOCADO_PREFIX/output/%[2]s/%[1]s.raw
RUNTIMES_EXT=$VAR_DIR/lib/avocado/extensions/%[1]s.raw
SYSEXT=$VAR_DIR/lib/extensions/%[1]s.raw
CONFEXT=$VAR_DIR/lib/confexts/%[1]s.raw

if [ -f "$OUTPUT_EXT" ]; then
    if ! cmp -s "$OUTPUT_EXT" "$RUNTIMES_EXT" 2>/dev/null; then
        ln -f $OUTPUT_EXT $RUNTIMES_EXT
    fi
else
    echo "[WARNING] Missing image for extension %[1]s."
fi`, name, types[0])

	if ext.Sysext {
		section += fmt.Sprintf("\nln -sf /var/lib/avocado/extensions/%s.raw $SYSEXT", name)
	}
	if ext.Confext {
		section += fmt.Sprintf("\nln -sf /var/lib/avocado/extensions/%s.raw $CONFEXT", name)
	}

	return section
}
