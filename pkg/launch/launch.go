package launch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mitchellh/go-ps"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/cetteup/le-launcher/pkg/game"
)

const (
	settleDelay = 500 * time.Millisecond
	// Elevated starts wait for the user to confirm the UAC prompt, so the process may take a while to show up
	elevatedAttempts = 5
	elevatedInterval = time.Second
)

var (
	ErrInvalidInstallation = errors.New("installation is not valid")
	ErrExecutableMissing   = errors.New("game executable not found")
	ErrAlreadyRunning      = errors.New("game is already running")
	ErrExitedImmediately   = errors.New("game process exited immediately")
)

// Starter starts game processes. Start returns the id of the started process, elevated starts are not
// tracked.
type Starter interface {
	Start(exe string, args []string, dir string) (int, error)
	StartElevated(exe string, args []string, dir string) error
}

type introPlayer interface {
	Play(ctx context.Context, root string) error
}

type Launcher struct {
	fs      afero.Fs
	starter Starter
	intro   introPlayer
	clock   clockwork.Clock

	findProcess func(pid int) (ps.Process, error)
	processes   func() ([]ps.Process, error)
}

func New(fs afero.Fs, starter Starter, intro introPlayer) *Launcher {
	return &Launcher{
		fs:          fs,
		starter:     starter,
		intro:       intro,
		clock:       clockwork.NewRealClock(),
		findProcess: ps.FindProcess,
		processes:   ps.Processes,
	}
}

// Launch starts the installation's game. It returns once the game process has been found running after
// a short delay, or with an error describing why the game could not be started.
func (l *Launcher) Launch(ctx context.Context, inst game.Installation, opts Options) error {
	if !inst.Valid {
		return fmt.Errorf("%w: %s at %q", ErrInvalidInstallation, inst.Name(), inst.Path)
	}

	exe := inst.ExecutablePath
	if exe == "" || !l.isFile(exe) {
		return fmt.Errorf("%w: %q", ErrExecutableMissing, exe)
	}

	running, err := l.isRunning(filepath.Base(exe))
	if err != nil {
		log.Warn().Err(err).Msg("Failed to check for running game processes")
	} else if running {
		return fmt.Errorf("%w: %s", ErrAlreadyRunning, inst.Name())
	}

	if l.shouldPlayIntro(inst, opts) {
		if err = l.intro.Play(ctx, inst.Path); err != nil {
			log.Warn().Err(err).Msg("Failed to play intro video")
		}
	}

	if err = ctx.Err(); err != nil {
		return err
	}

	args := BuildArguments(inst, opts)
	dir := filepath.Dir(exe)
	log.Debug().
		Str("executable", exe).
		Strs("args", args).
		Str("dir", dir).
		Bool("elevated", inst.RequiresElevation).
		Msg("Starting game")

	if inst.RequiresElevation {
		if err = l.starter.StartElevated(exe, args, dir); err != nil {
			return fmt.Errorf("failed to start %s: %w", inst.Name(), err)
		}
		return l.awaitElevated(ctx, inst, filepath.Base(exe))
	}

	pid, err := l.starter.Start(exe, args, dir)
	if err != nil {
		return fmt.Errorf("failed to start %s: %w", inst.Name(), err)
	}

	if err = l.sleep(ctx, settleDelay); err != nil {
		return err
	}

	proc, err := l.findProcess(pid)
	if err != nil {
		// Not being able to look at the process does not mean it is not running
		log.Warn().Err(err).Int("pid", pid).Msg("Failed to check whether game process is running")
		return nil
	}
	if proc == nil {
		return fmt.Errorf("%w: %s", ErrExitedImmediately, inst.Name())
	}

	log.Info().Str("game", inst.Name()).Int("pid", pid).Msg("Game started")
	return nil
}

func (l *Launcher) shouldPlayIntro(inst game.Installation, opts Options) bool {
	return l.intro != nil && inst.Edition == game.EditionLegendary && !opts.Silent && !opts.SkipIntro
}

// awaitElevated looks for the elevated process by executable name, since no handle to it is available
func (l *Launcher) awaitElevated(ctx context.Context, inst game.Installation, name string) error {
	for i := 0; i < elevatedAttempts; i++ {
		if err := l.sleep(ctx, elevatedInterval); err != nil {
			return err
		}

		running, err := l.isRunning(name)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to check whether elevated game process is running")
			return nil
		}
		if running {
			log.Info().Str("game", inst.Name()).Msg("Game started elevated")
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrExitedImmediately, inst.Name())
}

func (l *Launcher) isRunning(name string) (bool, error) {
	processes, err := l.processes()
	if err != nil {
		return false, err
	}

	for _, proc := range processes {
		if strings.EqualFold(proc.Executable(), name) {
			return true, nil
		}
	}

	return false, nil
}

func (l *Launcher) sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.clock.After(d):
		return nil
	}
}

func (l *Launcher) isFile(path string) bool {
	stats, err := l.fs.Stat(path)
	return err == nil && !stats.IsDir()
}
