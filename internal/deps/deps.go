package deps

import (
	"fmt"
	"slices"

	"github.com/avocadolinux/avocado/internal/config"
)

// Classifies a resolved dependency.
type Kind string

const (
	// A plain package installed via the package manager.
	KindPackage Kind = "pkg"

	// A reference to an extension declared elsewhere in the configuration.
	KindExtension Kind = "ext"
)

// A single resolved dependency triple.
type Dep struct {
	Kind    Kind
	Name    string
	Version string
}

// Formats the triple the way listing subcommands print it.
func (d Dep) String() string {
	return fmt.Sprintf("(%s) %s (%s)", d.Kind, d.Name, d.Version)
}

// Returns the dnf package argument for a package-kind dependency: the bare
// name for a wildcard version, "name-version" otherwise.
func (d Dep) PackageArg() string {
	if d.Version == "*" || d.Version == "" {
		return d.Name
	}
	return d.Name + "-" + d.Version
}

// Expands a single dependency declaration into zero or more resolved
// triples.
//
// A version pin or versioned object yields one package triple. An extension
// reference yields one extension triple carrying the referenced extension's
// declared version, or "*" when it declares none. A compile reference
// yields the referenced compile unit's own package pins; compile
// dependencies are expanded exactly one level deep, so a compile reference
// nested inside a compile unit is not followed.
func ResolveSpec(cfg *config.Config, name string, spec config.DepSpec) []Dep {
	switch {
	case spec.Version != "":
		return []Dep{{Kind: KindPackage, Name: name, Version: spec.Version}}

	case spec.Ext != "":
		version := "*"
		if ext, ok := cfg.Extension(spec.Ext); ok && ext.Version != "" {
			version = ext.Version
		}
		return []Dep{{Kind: KindExtension, Name: spec.Ext, Version: version}}

	case spec.Compile != "":
		unit, ok := cfg.CompileUnit(spec.Compile)
		if !ok {
			return nil
		}
		var resolved []Dep
		for depName, depSpec := range unit.Dependencies {
			if depSpec.Version == "" {
				continue // depth-1: nested ext and compile refs are unsupported
			}
			resolved = append(resolved, Dep{Kind: KindPackage, Name: depName, Version: depSpec.Version})
		}
		return resolved
	}

	return nil
}

// Expands a whole dependency map into a flat, deduplicated, deterministic
// list.
//
// Every entry is resolved via [ResolveSpec], duplicates are removed by full
// triple identity, and the result is sorted with extension entries first,
// then packages, alphabetically by name within each kind. The ordering is a
// contract: listing and install subcommands must produce identical lists
// for identical configuration regardless of map iteration order.
func ResolveAll(cfg *config.Config, depMap map[string]config.DepSpec) []Dep {
	var all []Dep
	for name, spec := range depMap {
		all = append(all, ResolveSpec(cfg, name, spec)...)
	}
	return Sorted(all)
}

// Resolves only the direct package pins of a dependency map, ignoring
// extension and compile references. Used at install time, where extension
// references are realized as built artifacts rather than packages and
// compile dependencies belong to the target-dev sysroot.
func PackagePins(depMap map[string]config.DepSpec) []Dep {
	var pins []Dep
	for name, spec := range depMap {
		if spec.Version == "" {
			continue
		}
		pins = append(pins, Dep{Kind: KindPackage, Name: name, Version: spec.Version})
	}
	return Sorted(pins)
}

// Returns dnf package arguments for the package-kind entries of a resolved
// list, preserving its order.
func PackageArgs(list []Dep) []string {
	var args []string
	for _, d := range list {
		if d.Kind == KindPackage {
			args = append(args, d.PackageArg())
		}
	}
	return args
}

// Deduplicates by full triple identity and applies the canonical ordering:
// extensions before packages, each kind alphabetical by name, version as
// the final tiebreak.
func Sorted(list []Dep) []Dep {
	seen := make(map[Dep]bool, len(list))
	unique := make([]Dep, 0, len(list))
	for _, d := range list {
		if seen[d] {
			continue
		}
		seen[d] = true
		unique = append(unique, d)
	}

	slices.SortFunc(unique, func(a, b Dep) int {
		if a.Kind != b.Kind {
			if a.Kind == KindExtension {
				return -1
			}
			return 1
		}
		if a.Name != b.Name {
			if a.Name < b.Name {
				return -1
			}
			return 1
		}
		if a.Version < b.Version {
			return -1
		}
		if a.Version > b.Version {
			return 1
		}
		return 0
	})

	return unique
}
