package build

import "errors"

var (
	ErrUnknownExtension   = errors.New("extension not found in configuration")
	ErrUnknownRuntime     = errors.New("runtime not found in configuration")
	ErrUnknownCompileUnit = errors.New("compile section not found in configuration")
	ErrNoExtensionType    = errors.New("extension enables neither sysext nor confext")
	ErrStep               = errors.New("build step failed")
)
