package container

import "strings"

// Selects the repo-configuration and RPM config-dir combination a dnf
// invocation runs against.
type RepoRoot int

const (
	// The SDK's own package set, rooted under the SDK prefix.
	SDKRepo RepoRoot = iota

	// Target packages resolved against the target repo configuration
	// (extension sysroots, runtime installroots, the target-dev sysroot).
	TargetRepo
)

// A package-manager invocation in typed form.
//
// Resolution and pipeline code builds these instead of shell strings; the
// shell rendering happens here, at the orchestration boundary, via
// [DNFCommand.Script].
type DNFCommand struct {
	Root        RepoRoot // Repo configuration to resolve against.
	Installroot string   // Optional --installroot, a shell expression.
	AssumeYes   bool     // Pass -y to skip confirmation prompts.
	Quiet       bool     // Discard all output (existence checks).
	Args        []string // Subcommand and arguments (e.g. "install", packages).
}

// Builds an install command for a package set.
func InstallCommand(root RepoRoot, installroot string, assumeYes bool, packages []string) DNFCommand {
	return DNFCommand{
		Root:        root,
		Installroot: installroot,
		AssumeYes:   assumeYes,
		Args:        append([]string{"install"}, packages...),
	}
}

// Builds a silent installed-package existence check.
func ListInstalledCommand(root RepoRoot, installroot, pkg string) DNFCommand {
	return DNFCommand{
		Root:        root,
		Installroot: installroot,
		Quiet:       true,
		Args:        []string{"list", "installed", pkg},
	}
}

// Renders the invocation as shell text against the environment exported by
// the bootstrap preamble.
func (c DNFCommand) Script() string {
	var b strings.Builder

	b.WriteString(`RPM_CONFIGDIR="$AVOCADO_SDK_PREFIX/usr/lib/rpm" \
`)
	switch c.Root {
	case TargetRepo:
		b.WriteString(`RPM_ETCCONFIGDIR="$DNF_SDK_TARGET_PREFIX" \
$DNF_SDK_HOST \
    $DNF_SDK_HOST_OPTS \
    $DNF_SDK_TARGET_REPO_CONF`)
	default:
		b.WriteString(`RPM_ETCCONFIGDIR="$AVOCADO_SDK_PREFIX" \
$DNF_SDK_HOST \
    $DNF_SDK_HOST_OPTS \
    $DNF_SDK_REPO_CONF`)
	}

	if c.Installroot != "" {
		b.WriteString(" \\\n    --installroot=" + c.Installroot)
	}

	for i, arg := range c.Args {
		b.WriteString(" \\\n    " + arg)
		if i == 0 && c.AssumeYes {
			b.WriteString(" \\\n    -y")
		}
	}

	if c.Quiet {
		b.WriteString(" >/dev/null 2>&1")
	}

	return b.String()
}
