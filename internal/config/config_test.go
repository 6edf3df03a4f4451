package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const sampleConfig = `
[sdk]
image = "avocadolinux/sdk:apollo-edge"
repo_url = "https://repo.example.com"
repo_release = "edge"

[sdk.dependencies]
cmake = "3.27"
ninja = { version = "1.11" }

[sdk.compile.app]
compile = "build.sh"

[sdk.compile.app.dependencies]
gcc = "13.2"

[ext.media]
sysext = true
confext = true
version = "1.2.3"
scopes = ["system", "initrd"]

[ext.media.dependencies]
ffmpeg = "6.0"
net = { ext = "net" }

[ext.net]
sysext = true

[runtime.default]
target = "qemux86-64"

[runtime.default.dependencies]
avocado-img-bootfiles = "*"
media = { ext = "media" }
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "avocado.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	image, err := cfg.Image()
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if image != "avocadolinux/sdk:apollo-edge" {
		t.Errorf("image = %q", image)
	}

	if got := cfg.SDK.Dependencies["cmake"].Version; got != "3.27" {
		t.Errorf("string pin = %q, want 3.27", got)
	}
	if got := cfg.SDK.Dependencies["ninja"].Version; got != "1.11" {
		t.Errorf("versioned object = %q, want 1.11", got)
	}

	ext, ok := cfg.Extension("media")
	if !ok {
		t.Fatal("extension media not found")
	}
	if got := ext.Dependencies["net"].Ext; got != "net" {
		t.Errorf("ext ref = %q, want net", got)
	}

	unit, ok := cfg.CompileUnit("app")
	if !ok {
		t.Fatal("compile unit app not found")
	}
	if unit.Compile != "build.sh" {
		t.Errorf("compile script = %q", unit.Compile)
	}

	rt, ok := cfg.Runtime("default")
	if !ok {
		t.Fatal("runtime default not found")
	}
	if !rt.RequiredExtensions()["media"] {
		t.Error("runtime does not require media")
	}
	if rt.RequiredExtensions()["net"] {
		t.Error("runtime requires net without referencing it")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing file: err = %v, want ErrNotFound", err)
	}

	if _, err := Load(writeConfig(t, "[sdk\n")); !errors.Is(err, ErrParse) {
		t.Errorf("malformed file: err = %v, want ErrParse", err)
	}

	bad := writeConfig(t, "[sdk.dependencies]\ncurl = { flavor = \"mild\" }\n")
	if _, err := Load(bad); !errors.Is(err, ErrParse) {
		t.Errorf("bad dep spec: err = %v, want ErrParse", err)
	}
}

func TestImageMissing(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[runtime.default]\ntarget = \"qemux86-64\"\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := cfg.Image(); !errors.Is(err, ErrNoImage) {
		t.Errorf("err = %v, want ErrNoImage", err)
	}
}

func TestRuntimeTarget(t *testing.T) {
	tests := []struct {
		name     string
		runtimes map[string]Runtime
		want     string
	}{
		{"none", nil, ""},
		{"single", map[string]Runtime{"dev": {Target: "qemux86-64"}}, "qemux86-64"},
		{"single without target", map[string]Runtime{"dev": {}}, ""},
		{
			"ambiguous",
			map[string]Runtime{"dev": {Target: "qemux86-64"}, "prod": {Target: "raspberrypi4-64"}},
			"",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{Runtimes: tc.runtimes}
			if got := cfg.RuntimeTarget(); got != tc.want {
				t.Errorf("RuntimeTarget() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExtensionDefaults(t *testing.T) {
	blank := Extension{}
	if got := blank.EffectiveVersion(); got != DefaultExtensionVersion {
		t.Errorf("EffectiveVersion() = %q, want %q", got, DefaultExtensionVersion)
	}
	if got := blank.Types(); len(got) != 0 {
		t.Errorf("Types() = %v, want none", got)
	}

	both := Extension{Sysext: true, Confext: true}
	if got := both.Types(); !reflect.DeepEqual(got, []string{"sysext", "confext"}) {
		t.Errorf("Types() = %v", got)
	}
}

func TestScopeFallbacks(t *testing.T) {
	tests := []struct {
		name        string
		ext         Extension
		wantSysext  []string
		wantConfext []string
	}{
		{
			name:        "nothing declared",
			ext:         Extension{},
			wantSysext:  []string{"system"},
			wantConfext: []string{"system"},
		},
		{
			name:        "shared scopes",
			ext:         Extension{Scopes: []string{"system", "initrd"}},
			wantSysext:  []string{"system", "initrd"},
			wantConfext: []string{"system", "initrd"},
		},
		{
			name: "per-type overrides shared",
			ext: Extension{
				Scopes:       []string{"system"},
				SysextScopes: []string{"initrd"},
			},
			wantSysext:  []string{"initrd"},
			wantConfext: []string{"system"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.ext.EffectiveSysextScopes(); !reflect.DeepEqual(got, tc.wantSysext) {
				t.Errorf("sysext scopes = %v, want %v", got, tc.wantSysext)
			}
			if got := tc.ext.EffectiveConfextScopes(); !reflect.DeepEqual(got, tc.wantConfext) {
				t.Errorf("confext scopes = %v, want %v", got, tc.wantConfext)
			}
		})
	}
}

func TestValidateVersion(t *testing.T) {
	tests := []struct {
		version string
		wantErr bool
	}{
		{"1.2.3", false},
		{"0.1.0", false},
		{"*", false},
		{"", false}, // Defaults to a valid version.
		{"not-a-version", true},
		{"1.2.3.4", true},
	}

	for _, tc := range tests {
		err := Extension{Version: tc.version}.ValidateVersion()
		if (err != nil) != tc.wantErr {
			t.Errorf("ValidateVersion(%q) err = %v, wantErr %v", tc.version, err, tc.wantErr)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	d, err := LoadDefaults(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("absent file: %v", err)
	}
	if d.Container.Tool != "" {
		t.Errorf("absent file yielded tool %q", d.Container.Tool)
	}

	path := writeConfig(t, "[container]\ntool = \"podman\"\n\n[sdk]\nrepo_url = \"https://mirror.example.com\"\n")
	d, err = LoadDefaults(path)
	if err != nil {
		t.Fatalf("LoadDefaults: %v", err)
	}
	if d.Container.Tool != "podman" {
		t.Errorf("tool = %q, want podman", d.Container.Tool)
	}
	if d.SDK.RepoURL != "https://mirror.example.com" {
		t.Errorf("repo_url = %q", d.SDK.RepoURL)
	}
}
