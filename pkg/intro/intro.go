package intro

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var (
	ErrLogoNotFound = errors.New("logo video not found")
	ErrNoPlayer     = errors.New("no video player found")
)

// logoRelPath is the BioWare logo shown by the Legendary Edition launcher, relative to the install root
var logoRelPath = []string{"Game", "Launcher", "Content", "BWLogo1.bik"}

type player struct {
	name string
	args func(video string) []string
}

var players = []player{
	{
		name: "ffplay",
		args: func(video string) []string {
			return []string{"-fs", "-autoexit", "-loglevel", "quiet", video}
		},
	},
	{
		name: "binkplay",
		args: func(video string) []string {
			return []string{video}
		},
	},
}

type runner func(ctx context.Context, name string, args ...string) error

// Player plays the logo video with the first external player found on PATH
type Player struct {
	fs       afero.Fs
	lookPath func(file string) (string, error)
	run      runner
}

func New(fs afero.Fs) *Player {
	return &Player{
		fs:       fs,
		lookPath: exec.LookPath,
		run:      run,
	}
}

// Play blocks until the video has finished playing or ctx is done
func (p *Player) Play(ctx context.Context, root string) error {
	video := LogoPath(root)
	if ok, err := afero.Exists(p.fs, video); err != nil || !ok {
		return fmt.Errorf("%w: %q", ErrLogoNotFound, video)
	}

	for _, pl := range players {
		path, err := p.lookPath(pl.name)
		if err != nil {
			continue
		}

		log.Debug().Str("player", path).Str("video", video).Msg("Playing intro video")
		if err = p.run(ctx, path, pl.args(video)...); err != nil {
			return fmt.Errorf("failed to play %s with %s: %w", filepath.Base(video), pl.name, err)
		}
		return nil
	}

	return ErrNoPlayer
}

func LogoPath(root string) string {
	return filepath.Join(append([]string{root}, logoRelPath...)...)
}

func run(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}
