package launch

import (
	"os/exec"

	"github.com/rs/zerolog/log"

	"github.com/cetteup/le-launcher/pkg/elevation"
)

// ProcessStarter starts games as detached child processes
type ProcessStarter struct{}

func (ProcessStarter) Start(exe string, args []string, dir string) (int, error) {
	cmd := exec.Command(exe, args...)
	cmd.Dir = dir
	if err := cmd.Start(); err != nil {
		return 0, err
	}

	pid := cmd.Process.Pid
	// The game outlives the launcher, nothing will ever wait for it
	if err := cmd.Process.Release(); err != nil {
		log.Debug().Err(err).Int("pid", pid).Msg("Failed to release game process handle")
	}

	return pid, nil
}

func (ProcessStarter) StartElevated(exe string, args []string, dir string) error {
	return elevation.ShellExecuteElevated(exe, args, dir)
}
