// Package container assembles and executes SDK container invocations.
//
// A [Runner] wraps one container tool (docker or podman) and composes a
// complete `run` invocation for each call: the project directory mounted
// read-only, the build-state directory mounted read-write, the build
// target exported into the environment, and the caller's payload script
// concatenated behind the idempotent bootstrap preamble. The composed
// command executes as a child process; the runner reduces every outcome
// to a single error.
//
// The bootstrap preamble re-derives the package-manager environment on
// every run and performs one-time SDK initialization gated on a sentinel
// file, so prepending it to every invocation is safe and cheap.
//
// Shell text for package-manager operations is never assembled at call
// sites; the typed [DNFCommand] renders it at this boundary only.
//
// Concurrent invocations against the same build-state directory are not
// synchronized. Overlapping runs can race on the shared sysroots; the
// package manager surfaces the conflict inside the container.
//
// Example usage:
//
//	runner, err := container.NewRunner("docker", false)
//	if err != nil {
//	    return err
//	}
//
//	opts := container.DefaultRunOptions()
//	opts.SourceEnvironment = true
//	err = runner.Run(ctx, "avocadolinux/sdk:apollo-edge", "qemux86-64", script, opts)
package container
