package container

import (
	"slices"
	"strings"
	"testing"
)

func testRunner(t *testing.T) *Runner {
	t.Helper()
	r, err := NewRunner("docker", false)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	return r
}

func TestInvocationShape(t *testing.T) {
	r := testRunner(t)

	opts := DefaultRunOptions()
	opts.Name = "builder"
	opts.Env = map[string]string{"FOO": "bar"}
	opts.ExtraArgs = []string{"--privileged"}

	argv := r.invocation("sdk:latest", "qemux86-64", "true", opts)

	if argv[0] != "docker" || argv[1] != "run" {
		t.Fatalf("argv prefix = %v", argv[:2])
	}
	if !slices.Contains(argv, "--rm") {
		t.Error("missing --rm for AutoRemove")
	}
	if i := slices.Index(argv, "--name"); i < 0 || argv[i+1] != "builder" {
		t.Error("missing --name builder")
	}
	if !slices.Contains(argv, "-e") || !slices.Contains(argv, TargetEnvVar+"=qemux86-64") {
		t.Error("missing target environment variable")
	}
	if !slices.Contains(argv, "FOO=bar") {
		t.Error("missing extra environment variable")
	}
	if !slices.Contains(argv, "--privileged") {
		t.Error("missing extra container argument")
	}

	// The image, shell, and script close out the argv.
	n := len(argv)
	if argv[n-4] != "sdk:latest" || argv[n-3] != "bash" || argv[n-2] != "-c" || argv[n-1] != "true" {
		t.Errorf("argv tail = %v", argv[n-4:])
	}
}

func TestInvocationMounts(t *testing.T) {
	r := testRunner(t)

	argv := r.invocation("sdk:latest", "qemux86-64", "true", RunOptions{})
	joined := strings.Join(argv, " ")

	if !strings.Contains(joined, ":"+SourceMount+":ro") {
		t.Error("project directory is not mounted read-only")
	}
	if !strings.Contains(joined, ":"+StateMount+":rw") {
		t.Error("state directory is not mounted read-write")
	}
}

func TestInvocationFlags(t *testing.T) {
	r := testRunner(t)

	tests := []struct {
		name    string
		opts    RunOptions
		want    []string
		exclude []string
	}{
		{
			name:    "detach",
			opts:    RunOptions{Detach: true},
			want:    []string{"-d"},
			exclude: []string{"--rm", "-i", "-t"},
		},
		{
			name: "interactive",
			opts: RunOptions{Interactive: true},
			want: []string{"-i", "-t"},
		},
		{
			name:    "plain",
			opts:    RunOptions{},
			exclude: []string{"--rm", "-d", "-i", "-t", "--name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			argv := r.invocation("img", "tgt", "true", tt.opts)
			for _, flag := range tt.want {
				if !slices.Contains(argv, flag) {
					t.Errorf("missing %s in %v", flag, argv)
				}
			}
			for _, flag := range tt.exclude {
				if slices.Contains(argv, flag) {
					t.Errorf("unexpected %s in %v", flag, argv)
				}
			}
		})
	}
}

func TestEnvironDeterministic(t *testing.T) {
	opts := RunOptions{
		Env:         map[string]string{"B": "2", "A": "1", "C": "3"},
		RepoURL:     "https://repo.example.org",
		RepoRelease: "apollo",
	}

	want := []string{
		"A=1",
		"AVOCADO_SDK_REPO_RELEASE=apollo",
		"AVOCADO_SDK_REPO_URL=https://repo.example.org",
		"B=2",
		"C=3",
	}

	for range 10 {
		if got := environ(opts); !slices.Equal(got, want) {
			t.Fatalf("environ() = %v, want %v", got, want)
		}
	}
}

func TestEntrypointScript(t *testing.T) {
	plain := entrypointScript(false)

	for _, marker := range []string{
		"set -e",
		"environment-setup",
		"AVOCADO_SDK_PREFIX",
		"avocado-sdk-$AVOCADO_SDK_TARGET",
		"avocado-sdk-toolchain",
		"avocado-pkg-rootfs",
		"packagegroup-core-standalone-sdk-target",
		"VERSION_CODENAME",
	} {
		if !strings.Contains(plain, marker) {
			t.Errorf("bootstrap script missing %q", marker)
		}
	}

	if strings.Contains(plain, "source \"${AVOCADO_SDK_PREFIX}/environment-setup\"") {
		t.Error("plain script must not source the environment file")
	}

	sourced := entrypointScript(true)
	if !strings.HasPrefix(sourced, plain) {
		t.Error("sourcing variant must extend the plain script, not replace it")
	}
	if !strings.Contains(sourced, "source \"${AVOCADO_SDK_PREFIX}/environment-setup\"") {
		t.Error("sourcing variant missing the environment epilogue")
	}

	// The rendered script is stable: two invocations differ only in the
	// sentinel-gated branch at runtime, never in the text itself.
	if entrypointScript(false) != plain {
		t.Error("bootstrap script is not stable across invocations")
	}
}

func TestDNFScript(t *testing.T) {
	install := InstallCommand(TargetRepo, "$AVOCADO_EXT_SYSROOTS/net", true, []string{"curl-7.88", "jq"})
	script := install.Script()

	for _, marker := range []string{
		"$DNF_SDK_TARGET_REPO_CONF",
		"--installroot=$AVOCADO_EXT_SYSROOTS/net",
		"install",
		"-y",
		"curl-7.88",
		"jq",
	} {
		if !strings.Contains(script, marker) {
			t.Errorf("install script missing %q:\n%s", marker, script)
		}
	}
	if strings.Contains(script, ">/dev/null") {
		t.Error("install script must not be silenced")
	}

	check := ListInstalledCommand(TargetRepo, "$AVOCADO_PREFIX/runtimes/dev", "avocado-pkg-images")
	script = check.Script()
	if !strings.Contains(script, "list") || !strings.Contains(script, "installed") {
		t.Errorf("check script missing subcommand:\n%s", script)
	}
	if !strings.Contains(script, ">/dev/null 2>&1") {
		t.Error("check script must be silenced")
	}

	sdk := InstallCommand(SDKRepo, "", false, []string{"nativesdk-cmake"})
	script = sdk.Script()
	if strings.Contains(script, "--installroot") {
		t.Error("SDK install must not set an installroot")
	}
	if !strings.Contains(script, "$DNF_SDK_REPO_CONF") {
		t.Error("SDK install must resolve against the SDK repo configuration")
	}
	if strings.Contains(script, "-y") {
		t.Error("unforced install must not assume yes")
	}
}
