package config

import "errors"

var (
	ErrNotFound       = errors.New("configuration file not found")
	ErrParse          = errors.New("configuration parse failed")
	ErrInvalidDepSpec = errors.New("invalid dependency spec")
	ErrNoImage        = errors.New("no SDK container image configured")
)
