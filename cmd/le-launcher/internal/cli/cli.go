package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/cetteup/le-launcher/pkg/game"
	"github.com/cetteup/le-launcher/pkg/launch"
	"github.com/cetteup/le-launcher/pkg/locale"
)

const (
	ExitOK      = 0
	ExitFailure = 1

	FlagSilent  = "-silent"
	FlagNoIntro = "-nointro"
	FlagDebug   = "-debug"

	usage = "Usage for Legendary Edition: -ME(1|2|3) -yes|-no LanguageCode [-silent] [-nointro]\n" +
		"Usage for Original Trilogy: -OLDME(1|2|3) [-silent]"
)

var (
	ErrNoGame = errors.New("no valid game specified")
)

var selectors = map[string]struct {
	title   game.Title
	edition game.Edition
}{
	"-ME1":    {game.TitleME1, game.EditionLegendary},
	"-ME2":    {game.TitleME2, game.EditionLegendary},
	"-ME3":    {game.TitleME3, game.EditionLegendary},
	"-OLDME1": {game.TitleME1, game.EditionOriginal},
	"-OLDME2": {game.TitleME2, game.EditionOriginal},
	"-OLDME3": {game.TitleME3, game.EditionOriginal},
}

// Command is a launch request given on the command line
type Command struct {
	Title         game.Title
	Edition       game.Edition
	TextLanguage  string
	VoiceLanguage string
	ForceFeedback bool
	// Whether -yes or -no was given at all
	ForceFeedbackSet bool
	Silent           bool
	NoIntro          bool
}

func (c Command) Options() launch.Options {
	return launch.Options{
		TextLanguage:  c.TextLanguage,
		VoiceLanguage: c.VoiceLanguage,
		ForceFeedback: c.ForceFeedback,
		Silent:        c.Silent,
		SkipIntro:     c.NoIntro,
	}
}

// Interactive reports whether args ask for the menu rather than a direct launch
func Interactive(args []string) bool {
	for _, arg := range args {
		if !strings.EqualFold(arg, FlagDebug) {
			return false
		}
	}
	return true
}

func HasFlag(args []string, flag string) bool {
	for _, arg := range args {
		if strings.EqualFold(arg, flag) {
			return true
		}
	}
	return false
}

// Parse reads a launch request. Arguments are case-insensitive and may be given in any order, the
// last game selector wins. Unknown arguments are ignored.
func Parse(args []string) (Command, error) {
	cmd := Command{
		TextLanguage:  locale.International,
		VoiceLanguage: locale.International,
		Silent:        HasFlag(args, FlagSilent),
		NoIntro:       HasFlag(args, FlagNoIntro),
	}

	found := false
	for _, arg := range args {
		if sel, ok := selectors[strings.ToUpper(arg)]; ok {
			cmd.Title, cmd.Edition = sel.title, sel.edition
			found = true
		}
	}
	if !found {
		return cmd, ErrNoGame
	}

	// The original releases take no further options
	if cmd.Edition == game.EditionOriginal {
		return cmd, nil
	}

	for _, arg := range args {
		switch strings.ToUpper(arg) {
		case "-YES":
			cmd.ForceFeedback, cmd.ForceFeedbackSet = true, true
		case "-NO":
			cmd.ForceFeedback, cmd.ForceFeedbackSet = false, true
		}
	}

	for _, arg := range args {
		if isLanguageCode(arg) {
			cmd.TextLanguage, cmd.VoiceLanguage = locale.ParseLegacyCode(arg, cmd.Title)
			break
		}
	}

	return cmd, nil
}

func isLanguageCode(arg string) bool {
	if n := utf8.RuneCountInString(arg); n < 2 || n > 4 {
		return false
	}
	for _, r := range arg {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

type launcher interface {
	Launch(ctx context.Context, title game.Title, edition game.Edition, opts launch.Options) error
}

// Run launches the game requested by args and returns the process exit code. Messages are written to
// out unless -silent is given.
func Run(ctx context.Context, args []string, l launcher, out io.Writer) int {
	if HasFlag(args, FlagSilent) {
		out = io.Discard
	}

	cmd, err := Parse(args)
	if err != nil {
		log.Debug().Err(err).Strs("args", args).Msg("Failed to parse command line")
		fmt.Fprintf(out, "Error: %s.\n%s\n", capitalize(err.Error()), usage)
		return ExitFailure
	}

	name := game.Name(cmd.Title, cmd.Edition)
	if cmd.Edition == game.EditionLegendary && !cmd.ForceFeedbackSet {
		fmt.Fprintln(out, "Warning: Force feedback option not specified, defaulting to disabled.")
	}

	fmt.Fprintf(out, "Launching %s...\n", name)
	if cmd.Edition == game.EditionLegendary {
		fmt.Fprintf(out, "Text Language: %s\n", cmd.TextLanguage)
		fmt.Fprintf(out, "Voice Language: %s\n", cmd.VoiceLanguage)
		fmt.Fprintf(out, "Force Feedback: %s\n", enabled(cmd.ForceFeedback))
	}

	if err = l.Launch(ctx, cmd.Title, cmd.Edition, cmd.Options()); err != nil {
		log.Error().Err(err).Str("game", name).Msg("Failed to launch game")
		fmt.Fprintf(out, "Error: %s\n", err)
		return ExitFailure
	}

	fmt.Fprintln(out, "Game launched successfully!")
	return ExitOK
}

func enabled(b bool) string {
	if b {
		return "Enabled"
	}
	return "Disabled"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
