// Package system holds host-level primitives: privilege checks and reboot.
package system

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"
)

// ErrNotRoot is returned when the process lacks root privileges.
var ErrNotRoot = errors.New("btrbk-restore must be run as root")

// euid is replaceable in tests.
var euid = unix.Geteuid

// RequireRoot returns ErrNotRoot unless the effective user is root.
func RequireRoot() error {
	if id := euid(); id != 0 {
		return fmt.Errorf("%w (effective uid %d)", ErrNotRoot, id)
	}
	return nil
}

// Rebooter restarts the machine.
type Rebooter interface {
	Reboot(ctx context.Context) error
}

// CommandRebooter reboots by running an external command, "reboot" by default.
type CommandRebooter struct {
	Binary string
	Args   []string
}

// NewRebooter returns a CommandRebooter running "reboot".
func NewRebooter() *CommandRebooter {
	return &CommandRebooter{Binary: "reboot"}
}

// Reboot runs the reboot command. On success the call usually does not return
// before the system goes down.
func (r *CommandRebooter) Reboot(ctx context.Context) error {
	binary := r.Binary
	if binary == "" {
		binary = "reboot"
	}
	cmd := exec.CommandContext(ctx, binary, r.Args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("reboot failed: %s: %w", msg, err)
		}
		return fmt.Errorf("reboot failed: %w", err)
	}
	return nil
}
