package launch

import (
	"strings"

	"github.com/cetteup/le-launcher/pkg/game"
	"github.com/cetteup/le-launcher/pkg/locale"
)

const (
	subtitleSize = "20"
)

// Options are the user-facing settings applied to a single launch
type Options struct {
	// Universal text language code, empty to keep the game's own setting
	TextLanguage string
	// Universal voice language code, defaults to TextLanguage
	VoiceLanguage string
	ForceFeedback bool
	Silent        bool
	SkipIntro     bool
}

// BuildArguments returns the command line arguments for starting the installation's executable
func BuildArguments(inst game.Installation, opts Options) []string {
	if inst.Edition == game.EditionOriginal {
		// The original releases ignore everything but the splash flag
		if opts.Silent {
			return []string{"-nosplash"}
		}
		return []string{}
	}

	args := []string{"-NoHomeDir", "-SeekFreeLoadingPCConsole"}

	if text := strings.TrimSpace(opts.TextLanguage); text != "" {
		voice := strings.TrimSpace(opts.VoiceLanguage)
		if voice == "" {
			voice = text
		}

		code := locale.ResolveLaunchCode(text, voice, inst.Title)
		if inst.Title == game.TitleME3 {
			args = append(args, "-locale", "locale", "-language="+code)
		} else {
			args = append(args, "-locale", "locale", "-OVERRIDELANGUAGE="+code)
		}
	}

	args = append(args, "-Subtitles", subtitleSize)
	if !opts.ForceFeedback {
		args = append(args, "-NOFORCEFEEDBACK")
	}
	args = append(args, "-TELEMOPTIN", "0")
	if opts.Silent {
		args = append(args, "-NOSPLASH")
	}

	return args
}
