package launch

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mitchellh/go-ps"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cetteup/le-launcher/pkg/game"
)

type fakeStarter struct {
	pid         int
	err         error
	started     []string
	elevated    []string
	lastArgs    []string
	lastWorkDir string
}

func (s *fakeStarter) Start(exe string, args []string, dir string) (int, error) {
	s.started = append(s.started, exe)
	s.lastArgs = args
	s.lastWorkDir = dir
	return s.pid, s.err
}

func (s *fakeStarter) StartElevated(exe string, args []string, dir string) error {
	s.elevated = append(s.elevated, exe)
	s.lastArgs = args
	s.lastWorkDir = dir
	return s.err
}

type fakeIntro struct {
	played []string
	err    error
}

func (i *fakeIntro) Play(_ context.Context, root string) error {
	i.played = append(i.played, root)
	return i.err
}

type fakeProcess struct {
	pid        int
	executable string
}

func (p fakeProcess) Pid() int           { return p.pid }
func (p fakeProcess) PPid() int          { return 0 }
func (p fakeProcess) Executable() string { return p.executable }

type fixture struct {
	launcher *Launcher
	starter  *fakeStarter
	intro    *fakeIntro
	clock    *clockwork.FakeClock
	// processes listed by ps, pid lookups use the same list
	running []ps.Process
}

func newFixture(t *testing.T) (*fixture, game.Installation) {
	t.Helper()

	fs := afero.NewMemMapFs()
	root := filepath.Join("/games", "Mass Effect Legendary Edition")
	exe := game.ExecutablePath(root, game.TitleME2, game.EditionLegendary)
	require.NoError(t, fs.MkdirAll(filepath.Dir(exe), 0o755))
	require.NoError(t, afero.WriteFile(fs, exe, []byte{}, 0o644))

	f := &fixture{
		starter: &fakeStarter{pid: 4242},
		intro:   &fakeIntro{},
		clock:   clockwork.NewFakeClock(),
	}
	f.launcher = New(fs, f.starter, f.intro)
	f.launcher.clock = f.clock
	f.launcher.processes = func() ([]ps.Process, error) {
		return f.running, nil
	}
	f.launcher.findProcess = func(pid int) (ps.Process, error) {
		for _, p := range f.running {
			if p.Pid() == pid {
				return p, nil
			}
		}
		return nil, nil
	}

	return f, game.Installation{
		Title:          game.TitleME2,
		Edition:        game.EditionLegendary,
		Path:           root,
		ExecutablePath: exe,
		Valid:          true,
	}
}

// launchAsync runs Launch in the background, calling advance once the launcher waits on the clock
func (f *fixture) launchAsync(t *testing.T, inst game.Installation, opts Options, advance func()) error {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- f.launcher.Launch(ctx, inst, opts)
	}()

	if advance != nil {
		advance()
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		t.Fatal("launch did not return")
		return nil
	}
}

func TestLauncher_Launch(t *testing.T) {
	t.Parallel()

	// GIVEN
	f, inst := newFixture(t)

	// WHEN
	err := f.launchAsync(t, inst, Options{TextLanguage: "DE", VoiceLanguage: "DE"}, func() {
		require.NoError(t, f.clock.BlockUntilContext(context.Background(), 1))
		f.running = append(f.running, fakeProcess{pid: 4242, executable: "MassEffect2.exe"})
		f.clock.Advance(settleDelay)
	})

	// THEN
	require.NoError(t, err)
	assert.Equal(t, []string{inst.ExecutablePath}, f.starter.started)
	assert.Contains(t, f.starter.lastArgs, "-OVERRIDELANGUAGE=DEU")
	assert.Equal(t, filepath.Dir(inst.ExecutablePath), f.starter.lastWorkDir)
	assert.Equal(t, []string{inst.Path}, f.intro.played)
}

func TestLauncher_Launch_ExitedImmediately(t *testing.T) {
	t.Parallel()

	// GIVEN
	f, inst := newFixture(t)

	// WHEN
	err := f.launchAsync(t, inst, Options{SkipIntro: true}, func() {
		require.NoError(t, f.clock.BlockUntilContext(context.Background(), 1))
		f.clock.Advance(settleDelay)
	})

	// THEN
	require.ErrorIs(t, err, ErrExitedImmediately)
	assert.Empty(t, f.intro.played)
}

func TestLauncher_Launch_InvalidInstallation(t *testing.T) {
	t.Parallel()

	// GIVEN
	f, inst := newFixture(t)
	inst.Valid = false

	// WHEN
	err := f.launcher.Launch(context.Background(), inst, Options{})

	// THEN
	require.ErrorIs(t, err, ErrInvalidInstallation)
	assert.Empty(t, f.starter.started)
}

func TestLauncher_Launch_ExecutableMissing(t *testing.T) {
	t.Parallel()

	// GIVEN
	f, inst := newFixture(t)
	inst.ExecutablePath = filepath.Join(inst.Path, "Game", "ME2", "Binaries", "Win64", "missing.exe")

	// WHEN
	err := f.launcher.Launch(context.Background(), inst, Options{})

	// THEN
	require.ErrorIs(t, err, ErrExecutableMissing)
	assert.Empty(t, f.starter.started)
}

func TestLauncher_Launch_AlreadyRunning(t *testing.T) {
	t.Parallel()

	// GIVEN
	f, inst := newFixture(t)
	f.running = []ps.Process{fakeProcess{pid: 1, executable: "masseffect2.exe"}}

	// WHEN
	err := f.launcher.Launch(context.Background(), inst, Options{})

	// THEN
	require.ErrorIs(t, err, ErrAlreadyRunning)
	assert.Empty(t, f.starter.started)
}

func TestLauncher_Launch_StartFails(t *testing.T) {
	t.Parallel()

	// GIVEN
	f, inst := newFixture(t)
	f.starter.err = errors.New("access denied")

	// WHEN
	err := f.launcher.Launch(context.Background(), inst, Options{SkipIntro: true})

	// THEN
	require.Error(t, err)
	assert.ErrorContains(t, err, "access denied")
}

func TestLauncher_Launch_IntroFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	// GIVEN
	f, inst := newFixture(t)
	f.intro.err = errors.New("no player")

	// WHEN
	err := f.launchAsync(t, inst, Options{}, func() {
		require.NoError(t, f.clock.BlockUntilContext(context.Background(), 1))
		f.running = append(f.running, fakeProcess{pid: 4242, executable: "MassEffect2.exe"})
		f.clock.Advance(settleDelay)
	})

	// THEN
	require.NoError(t, err)
	assert.Len(t, f.intro.played, 1)
}

func TestLauncher_Launch_NoIntroWhenSilentOrOriginal(t *testing.T) {
	t.Parallel()

	f, inst := newFixture(t)
	assert.False(t, f.launcher.shouldPlayIntro(inst, Options{Silent: true}))
	assert.False(t, f.launcher.shouldPlayIntro(inst, Options{SkipIntro: true}))
	inst.Edition = game.EditionOriginal
	assert.False(t, f.launcher.shouldPlayIntro(inst, Options{}))
}

func TestLauncher_Launch_Elevated(t *testing.T) {
	t.Parallel()

	// GIVEN
	f, inst := newFixture(t)
	inst.RequiresElevation = true

	// WHEN
	err := f.launchAsync(t, inst, Options{SkipIntro: true}, func() {
		// Process only shows up after the second check
		require.NoError(t, f.clock.BlockUntilContext(context.Background(), 1))
		f.clock.Advance(elevatedInterval)
		require.NoError(t, f.clock.BlockUntilContext(context.Background(), 1))
		f.running = append(f.running, fakeProcess{pid: 7, executable: "MassEffect2.exe"})
		f.clock.Advance(elevatedInterval)
	})

	// THEN
	require.NoError(t, err)
	assert.Equal(t, []string{inst.ExecutablePath}, f.starter.elevated)
	assert.Empty(t, f.starter.started)
}

func TestLauncher_Launch_ElevatedNeverShowsUp(t *testing.T) {
	t.Parallel()

	// GIVEN
	f, inst := newFixture(t)
	inst.RequiresElevation = true

	// WHEN
	err := f.launchAsync(t, inst, Options{SkipIntro: true}, func() {
		for i := 0; i < elevatedAttempts; i++ {
			require.NoError(t, f.clock.BlockUntilContext(context.Background(), 1))
			f.clock.Advance(elevatedInterval)
		}
	})

	// THEN
	require.ErrorIs(t, err, ErrExitedImmediately)
}

func TestLauncher_Launch_Cancelled(t *testing.T) {
	t.Parallel()

	// GIVEN
	f, inst := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- f.launcher.Launch(ctx, inst, Options{SkipIntro: true})
	}()

	// WHEN
	require.NoError(t, f.clock.BlockUntilContext(context.Background(), 1))
	cancel()

	// THEN
	assert.ErrorIs(t, <-done, context.Canceled)
}
