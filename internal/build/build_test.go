package build

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/avocadolinux/avocado/internal/config"
)

func TestReleaseScript(t *testing.T) {
	tests := []struct {
		name    string
		extType string
		scopes  []string
		want    []string
		exclude []string
	}{
		{
			name:    "sysext",
			extType: "sysext",
			scopes:  []string{"system", "initrd"},
			want: []string{
				`release_dir="$AVOCADO_EXT_SYSROOTS/media/usr/lib/extension-release.d"`,
				`release_file="$release_dir/extension-release.media"`,
				`echo "ID=_any" > "$release_file"`,
				`echo "EXTENSION_RELOAD_MANAGER=1" >> "$release_file"`,
				`echo "SYSEXT_SCOPE=system initrd" >> "$release_file"`,
			},
			exclude: []string{"CONFEXT_SCOPE", "/etc/"},
		},
		{
			name:    "confext",
			extType: "confext",
			scopes:  []string{"system"},
			want: []string{
				`release_dir="$AVOCADO_EXT_SYSROOTS/media/etc/extension-release.d"`,
				`echo "CONFEXT_SCOPE=system" >> "$release_file"`,
			},
			exclude: []string{"SYSEXT_SCOPE", "usr/lib"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			script := releaseScript("media", tc.extType, tc.scopes)

			for _, want := range tc.want {
				if !strings.Contains(script, want) {
					t.Errorf("script missing %q:\n%s", want, script)
				}
			}
			for _, exclude := range tc.exclude {
				if strings.Contains(script, exclude) {
					t.Errorf("script unexpectedly contains %q:\n%s", exclude, script)
				}
			}
		})
	}
}

func TestImageScript(t *testing.T) {
	script := imageScript("media", "sysext")

	for _, want := range []string{
		`OUTPUT_DIR="$AVOCADO_PREFIX/output/sysext"`,
		`rm -f "$OUTPUT_FILE"`,
		`if [ ! -d "$AVOCADO_EXT_SYSROOTS/$EXT_NAME" ]`,
		"mksquashfs",
		"-noappend",
		"-no-xattrs",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("script missing %q:\n%s", want, script)
		}
	}
}

func TestCompileScript(t *testing.T) {
	script := compileScript("build.sh")

	if !strings.Contains(script, `if [ -f 'build.sh' ]`) {
		t.Errorf("script missing existence guard:\n%s", script)
	}
	if !strings.Contains(script, `bash 'build.sh'`) {
		t.Errorf("script missing invocation:\n%s", script)
	}
	if !strings.Contains(script, "exit 1") {
		t.Errorf("script missing failure exit:\n%s", script)
	}
}

func TestExtensionFailsFastWithoutType(t *testing.T) {
	cfg := &config.Config{
		Ext: map[string]config.Extension{"empty": {}},
	}

	// A nil runner panics on any container call; reaching one is the bug.
	bc := &Context{Config: cfg}

	if err := Extension(context.Background(), bc, "empty"); !errors.Is(err, ErrNoExtensionType) {
		t.Errorf("Extension() err = %v, want ErrNoExtensionType", err)
	}
	if err := ExtensionImage(context.Background(), bc, "empty"); !errors.Is(err, ErrNoExtensionType) {
		t.Errorf("ExtensionImage() err = %v, want ErrNoExtensionType", err)
	}
	if err := Extension(context.Background(), bc, "ghost"); !errors.Is(err, ErrUnknownExtension) {
		t.Errorf("Extension() err = %v, want ErrUnknownExtension", err)
	}
}

func TestExtensionDNFCommand(t *testing.T) {
	script := extensionDNFCommand("media", []string{"list", "installed", "ffmpeg"}).Script()

	for _, want := range []string{
		"--installroot=$AVOCADO_EXT_SYSROOTS/media",
		"$DNF_SDK_TARGET_REPO_CONF",
		"list",
		"ffmpeg",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("script missing %q:\n%s", want, script)
		}
	}

	// Passthrough commands never assume yes on the user's behalf.
	for _, token := range strings.Fields(script) {
		if token == "-y" {
			t.Errorf("unexpected -y in passthrough script:\n%s", script)
		}
	}
}

func runtimeTestConfig() *config.Config {
	return &config.Config{
		Ext: map[string]config.Extension{
			"media": {
				Sysext:  true,
				Confext: true,
				Version: "1.0.0",
			},
			"debugtools": {
				Sysext:  true,
				Version: "0.2.0",
			},
			"unreferenced": {
				Sysext:  true,
				Version: "9.9.9",
			},
		},
		Runtimes: map[string]config.Runtime{
			"prod": {
				Target: "qemux86-64",
				Dependencies: map[string]config.DepSpec{
					"media":      {Ext: "media"},
					"debugtools": {Ext: "debugtools"},
					"avocado-os": {Version: "*"},
				},
			},
		},
	}
}

func TestVarImageScript(t *testing.T) {
	cfg := runtimeTestConfig()
	rt, _ := cfg.Runtime("prod")

	script := varImageScript(cfg, rt, "prod", "qemux86-64")

	for _, want := range []string{
		`VAR_DIR=$AVOCADO_PREFIX/runtimes/prod/var-staging`,
		`mkdir -p "$VAR_DIR/lib/extensions"`,
		`mkdir -p "$VAR_DIR/lib/confexts"`,
		`mkdir -p "$VAR_DIR/lib/avocado/extensions"`,
		`OUTPUT_EXT=$AVOCADO_PREFIX/output/sysext/media.raw`,
		`OUTPUT_EXT=$AVOCADO_PREFIX/output/sysext/debugtools.raw`,
		"mkfs.btrfs",
		"--subvol rw:lib/extensions",
		"--subvol rw:lib/confexts",
		`avocado-image-var-prod-qemux86-64.var.img`,
		`s|@AVOCADO_VAR_IMAGE@|$VAR_IMAGE|g`,
		`s|@AVOCADO_IMAGE_NAME@|$IMAGE_NAME|g`,
		"genimage",
		"avocado-build-qemux86-64 prod",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("script missing %q", want)
		}
	}

	// Only extensions the runtime depends on are staged.
	if strings.Contains(script, "unreferenced") {
		t.Errorf("script stages extension the runtime does not reference:\n%s", script)
	}

	// Staging is deterministic: debugtools sorts before media.
	di := strings.Index(script, "debugtools.raw")
	mi := strings.Index(script, "media.raw")
	if di == -1 || mi == -1 || di > mi {
		t.Errorf("extensions not staged in name order (debugtools=%d media=%d)", di, mi)
	}
}

func TestStageExtensionSection(t *testing.T) {
	cfg := runtimeTestConfig()

	both := stageExtensionSection(cfg.Ext["media"], "media")
	if !strings.Contains(both, "ln -sf /var/lib/avocado/extensions/media.raw $SYSEXT") {
		t.Errorf("missing sysext symlink:\n%s", both)
	}
	if !strings.Contains(both, "ln -sf /var/lib/avocado/extensions/media.raw $CONFEXT") {
		t.Errorf("missing confext symlink:\n%s", both)
	}
	if !strings.Contains(both, `cmp -s "$OUTPUT_EXT" "$RUNTIMES_EXT"`) {
		t.Errorf("missing content comparison:\n%s", both)
	}
	if !strings.Contains(both, "[WARNING] Missing image for extension media.") {
		t.Errorf("missing artifact warning:\n%s", both)
	}

	sysextOnly := stageExtensionSection(cfg.Ext["debugtools"], "debugtools")
	if strings.Contains(sysextOnly, "ln -sf /var/lib/avocado/extensions/debugtools.raw $CONFEXT") {
		t.Errorf("sysext-only extension staged into confexts:\n%s", sysextOnly)
	}

	none := stageExtensionSection(config.Extension{}, "empty")
	if !strings.Contains(none, "nothing to stage") {
		t.Errorf("typeless extension not a no-op:\n%s", none)
	}
}
