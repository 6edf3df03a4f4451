package container

import "errors"

var (
	ErrToolNotFound  = errors.New("container tool not found")
	ErrCommandFailed = errors.New("container command failed")
	ErrInterrupted   = errors.New("interrupted while waiting for container")
	ErrStateDir      = errors.New("state directory setup failed")
)
