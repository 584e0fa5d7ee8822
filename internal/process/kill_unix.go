//go:build !windows

package process

import (
	"errors"
	"fmt"
	"syscall"
)

// KillGroup sends SIGKILL to the process group led by pid, taking the
// engine's renderer and GPU children with it. A group that already exited
// is not an error.
func KillGroup(pid int) error {
	if pid <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}
	err := syscall.Kill(-pid, syscall.SIGKILL)
	if errors.Is(err, syscall.ESRCH) {
		return nil
	}
	return err
}
