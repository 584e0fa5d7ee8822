package process

// Notes:
// - Real kill behavior is covered by the render integration tests. Unit tests
//   cannot safely signal live process groups.

import (
	"errors"
	"testing"
)

func TestKillGroup_InvalidPID(t *testing.T) {
	t.Parallel()

	for _, pid := range []int{0, -1} {
		if err := KillGroup(pid); !errors.Is(err, ErrInvalidPID) {
			t.Errorf("KillGroup(%d) = %v, want ErrInvalidPID", pid, err)
		}
	}
}

func TestKillGroup_ExitedProcess(t *testing.T) {
	t.Parallel()

	// No such group: treated as already cleaned up.
	if err := KillGroup(999999999); err != nil {
		t.Errorf("KillGroup(missing) = %v, want nil", err)
	}
}
