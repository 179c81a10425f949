package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/jonboulle/clockwork"
	"github.com/rivo/tview"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/cetteup/le-launcher/cmd/le-launcher/internal/app"
	"github.com/cetteup/le-launcher/cmd/le-launcher/internal/cli"
	"github.com/cetteup/le-launcher/cmd/le-launcher/internal/config"
	"github.com/cetteup/le-launcher/cmd/le-launcher/internal/logging"
	"github.com/cetteup/le-launcher/cmd/le-launcher/internal/tui"
	"github.com/cetteup/le-launcher/pkg/detect"
	"github.com/cetteup/le-launcher/pkg/elevation"
	"github.com/cetteup/le-launcher/pkg/intro"
	"github.com/cetteup/le-launcher/pkg/launch"
)

func init() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) (code int) {
	interactive := cli.Interactive(args)
	silent := cli.HasFlag(args, cli.FlagSilent)
	if silent {
		log.Logger = zerolog.Nop()
	}

	fs := afero.NewOsFs()
	cfg, err := config.NewConfig(fs, config.DefaultPath(), config.BaseDefaults)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load config")
		return cli.ExitFailure
	}

	// The menu owns the terminal, so logs only go to the file while it is shown
	closer, err := logging.Setup(logging.Options{
		Dir:    filepath.Join(xdg.StateHome, config.AppName),
		Silent: silent || interactive,
		Debug:  cfg.DebugLogging() || cli.HasFlag(args, cli.FlagDebug),
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to set up logging")
		return cli.ExitFailure
	}
	defer func() {
		if err := closer.Close(); err != nil {
			code = cli.ExitFailure
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	checker := elevation.New()
	scanner := detect.NewScanner(fs, detect.DefaultLocations(), detect.NewRegistryLookup(), checker)
	launcher := launch.New(fs, launch.ProcessStarter{}, intro.New(fs))
	session := app.NewSession(scanner, cfg, launcher, checker, clockwork.NewRealClock())

	if _, err = session.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to restore installations")
	}

	if !interactive {
		return cli.Run(ctx, args, session, os.Stdout)
	}

	var relaunch func() error
	if elevation.CanRelaunch() && !checker.IsElevated() {
		relaunch = func() error {
			return elevation.Relaunch(args)
		}
	}

	tui.SetTheme(&tview.Styles)
	if err = tui.New(session, relaunch).Run(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to run menu")
		return cli.ExitFailure
	}

	return cli.ExitOK
}
