// Package target resolves the active build target.
//
// A target names the architecture/board a sysroot is built for (e.g.
// "qemux86-64"). It is never stored; every invocation recomputes it from
// three candidate sources with strict precedence: an explicit value (CLI
// flag), the process environment, and the project configuration. Absence
// is a hard precondition failure for any operation that touches a sysroot;
// callers that apply a fallback default instead (currently only `init`)
// must document it as a deliberate exception.
package target

import "os"

// Environment variable consulted as the second-precedence target source.
const EnvVar = "AVOCADO_TARGET"

// Resolves the target from its three candidate sources.
//
// Precedence is explicit, then environment, then configuration. Returns ""
// when no source provides a value; no default is synthesized here.
func Resolve(explicit, env, configTarget string) string {
	if explicit != "" {
		return explicit
	}
	if env != "" {
		return env
	}
	return configTarget
}

// Reads the target from the process environment.
func FromEnvironment() string {
	return os.Getenv(EnvVar)
}
