// Package config loads and models the project configuration file.
//
// The configuration is a TOML document with three top-level sections: the
// [sdk] table describing the SDK container image and its dependencies, one
// [ext.<name>] table per extension, and one [runtime.<name>] table per
// runtime. Dependency values are a tagged union (see [DepSpec]) covering
// plain version pins, versioned objects, extension back-references, and
// compile-unit references.
//
// The configuration is immutable once loaded: it is parsed exactly once per
// invocation and passed by pointer to every component that needs it.
//
// Example usage:
//
//	cfg, err := config.Load("avocado.toml")
//	if err != nil {
//	    return err
//	}
//
//	ext, ok := cfg.Extension("net")
//	if !ok {
//	    return fmt.Errorf("extension %q not found", "net")
//	}
package config
