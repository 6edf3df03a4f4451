// Package build realizes extension and runtime artifacts as fixed
// sequences of container invocations.
//
// Each pipeline entry point takes the shared immutable [Context] and
// issues its container calls strictly in order, stopping at the first
// failure. Completed side effects are left in place for inspection or an
// explicit clean; there is no rollback. Shell text is produced by small
// script builders that are testable without spawning anything, and
// package-manager steps go through the typed command builder in the
// container package.
//
// Extension pipelines stamp release files and produce squashfs artifacts
// per enabled type. The runtime pipeline verifies the images support
// package, stages the runtime's required extensions into a var directory,
// creates a btrfs image with read-write subvolumes, composes the final
// image via genimage, and runs the target's lifecycle hook when present.
//
// Example usage:
//
//	bc := &build.Context{Config: cfg, Runner: runner, Target: target, Image: image}
//	if err := build.Extension(ctx, bc, "net"); err != nil {
//	    return err
//	}
package build
