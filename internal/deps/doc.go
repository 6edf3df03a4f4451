// Package deps resolves dependency maps into flat install lists.
//
// A dependency map associates package names with declarations that may be
// plain version pins, extension back-references, or compile-unit
// references. Resolution flattens every declaration into (kind, name,
// version) triples, deduplicates them, and orders them deterministically:
// extension entries first, then packages, alphabetically within each kind.
//
// Compile references expand to the referenced compile unit's own package
// pins and no further; a compile reference nested inside a compile unit's
// dependencies is not followed. Deeper expansion is a non-goal, not an
// error.
//
// Example usage:
//
//	list := deps.ResolveAll(cfg, rt.Dependencies)
//	for _, d := range list {
//	    fmt.Println(d)
//	}
package deps
