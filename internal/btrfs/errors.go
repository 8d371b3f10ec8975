package btrfs

import "errors"

var (
	// ErrCommandFailed is returned when a btrfs command exits unsuccessfully.
	ErrCommandFailed = errors.New("btrfs command failed")

	// ErrNotFound is returned when the btrfs binary cannot be located.
	ErrNotFound = errors.New("btrfs binary not found")
)
