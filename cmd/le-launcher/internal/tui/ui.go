package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"

	"github.com/cetteup/le-launcher/cmd/le-launcher/internal/config"
	"github.com/cetteup/le-launcher/pkg/game"
	"github.com/cetteup/le-launcher/pkg/launch"
)

const (
	title = "Mass Effect Launcher"

	pageMain     = "main"
	pageGame     = "game"
	pageSettings = "settings"
	pageModal    = "modal"
)

type session interface {
	Installations() []game.Installation
	Rescan(ctx context.Context) ([]game.Installation, error)
	StaleGames() []config.Game
	PruneStale() (int, error)
	AddManualPath(path string) ([]game.Installation, error)
	Defaults() config.Preferences
	SetDefaults(prefs config.Preferences) error
	Preferences(title game.Title, edition game.Edition) config.Preferences
	SetPreferences(title game.Title, edition game.Edition, prefs config.Preferences) error
	OptionsFor(title game.Title, edition game.Edition) launch.Options
	Launch(ctx context.Context, title game.Title, edition game.Edition, opts launch.Options) error
}

type UI struct {
	app      *tview.Application
	pages    *tview.Pages
	session  session
	relaunch func() error
	ctx      context.Context
}

// New creates the interactive menu. relaunch restarts the launcher with elevated rights, it may be nil if
// elevation is not available.
func New(s session, relaunch func() error) *UI {
	return &UI{
		app:      tview.NewApplication(),
		pages:    tview.NewPages(),
		session:  s,
		relaunch: relaunch,
	}
}

// Run blocks until the user exits the menu or ctx is done
func (u *UI) Run(ctx context.Context) error {
	u.ctx = ctx
	go func() {
		<-ctx.Done()
		u.app.Stop()
	}()

	u.showMain()
	if stale := u.session.StaleGames(); len(stale) > 0 {
		u.showStale(stale)
	}

	return u.app.SetRoot(u.pages, true).EnableMouse(true).Run()
}

func (u *UI) showMain() {
	list := tview.NewList().ShowSecondaryText(true)
	list.SetBorder(true).SetTitle(" " + title + " ")

	installations := u.session.Installations()
	for i, inst := range installations {
		list.AddItem(installationLabel(inst), inst.Path, shortcut(i), func() {
			u.showGame(inst)
		})
	}
	if len(installations) == 0 {
		list.AddItem("No installations found", "Rescan or add a game folder in Settings", 0, nil)
	}

	list.AddItem("Settings", "Default languages and game folders", 's', u.showSettings)
	list.AddItem("Rescan", "Search for installations again", 'r', u.rescan)
	list.AddItem("Exit", "", 'q', u.app.Stop)

	u.pages.AddAndSwitchToPage(pageMain, list, true)
}

func (u *UI) showGame(inst game.Installation) {
	prefs := u.session.Preferences(inst.Title, inst.Edition)
	form := tview.NewForm()
	form.SetBorder(true).SetTitle(" " + installationLabel(inst) + " ")

	if inst.Edition == game.EditionLegendary {
		textOptions := textLanguageOptions(inst.Title)
		voiceOptions := voiceLanguageOptions(inst.Title)
		form.AddDropDown("Text language", optionNames(textOptions), optionIndex(textOptions, prefs.TextLanguage), func(_ string, i int) {
			if i >= 0 {
				prefs.TextLanguage = textOptions[i].Code
			}
		})
		form.AddDropDown("Voice language", optionNames(voiceOptions), optionIndex(voiceOptions, prefs.VoiceLanguage), func(_ string, i int) {
			if i >= 0 {
				prefs.VoiceLanguage = voiceOptions[i].Code
			}
		})
		form.AddCheckbox("Force feedback", prefs.ForceFeedback, func(checked bool) {
			prefs.ForceFeedback = checked
		})
		form.AddCheckbox("Skip intro", prefs.SkipIntro, func(checked bool) {
			prefs.SkipIntro = checked
		})
	} else {
		form.AddTextView("Path", inst.Path, 0, 2, true, false)
	}

	form.AddButton("Launch", func() {
		if inst.Edition == game.EditionLegendary {
			if err := u.session.SetPreferences(inst.Title, inst.Edition, prefs); err != nil {
				log.Error().Err(err).Msg("Failed to save preferences")
				u.showMessage(fmt.Sprintf("Failed to save preferences: %s", err), func() { u.showGame(inst) })
				return
			}
		}
		if inst.RequiresElevation {
			u.confirmElevation(inst)
			return
		}
		u.launch(inst)
	})
	form.AddButton("Back", u.showMain)
	form.SetCancelFunc(u.showMain)

	u.pages.AddAndSwitchToPage(pageGame, form, true)
}

func (u *UI) showSettings() {
	prefs := u.session.Defaults()
	textOptions := textLanguageOptions(game.TitleME3)
	// Defaults apply to all titles, so only offer voice-over every title has
	voiceOptions := voiceLanguageOptions(game.TitleME3)
	manualPath := ""

	form := tview.NewForm()
	form.SetBorder(true).SetTitle(" Settings ")
	form.AddDropDown("Default text language", optionNames(textOptions), optionIndex(textOptions, prefs.TextLanguage), func(_ string, i int) {
		if i >= 0 {
			prefs.TextLanguage = textOptions[i].Code
		}
	})
	form.AddDropDown("Default voice language", optionNames(voiceOptions), optionIndex(voiceOptions, prefs.VoiceLanguage), func(_ string, i int) {
		if i >= 0 {
			prefs.VoiceLanguage = voiceOptions[i].Code
		}
	})
	form.AddCheckbox("Force feedback", prefs.ForceFeedback, func(checked bool) {
		prefs.ForceFeedback = checked
	})
	form.AddCheckbox("Skip intro", prefs.SkipIntro, func(checked bool) {
		prefs.SkipIntro = checked
	})
	form.AddInputField("Add game folder", "", 60, nil, func(text string) {
		manualPath = strings.TrimSpace(text)
	})
	form.AddButton("Save", func() {
		if err := u.session.SetDefaults(prefs); err != nil {
			u.showMessage(fmt.Sprintf("Failed to save settings: %s", err), u.showSettings)
			return
		}
		if manualPath == "" {
			u.showMain()
			return
		}

		added, err := u.session.AddManualPath(manualPath)
		if err != nil {
			u.showMessage(fmt.Sprintf("Failed to add %q: %s", manualPath, err), u.showSettings)
			return
		}
		names := make([]string, 0, len(added))
		for _, inst := range added {
			names = append(names, inst.Name())
		}
		u.showMessage("Added:\n"+strings.Join(names, "\n"), u.showMain)
	})
	form.AddButton("Back", u.showMain)
	form.SetCancelFunc(u.showMain)

	u.pages.AddAndSwitchToPage(pageSettings, form, true)
}

func (u *UI) rescan() {
	u.showModal("Scanning for installations...", nil, nil)
	go func() {
		installations, err := u.session.Rescan(u.ctx)
		u.app.QueueUpdateDraw(func() {
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				u.showMessage(fmt.Sprintf("Scan failed: %s", err), u.showMain)
				return
			}
			u.showMessage(fmt.Sprintf("Found %d installation(s)", len(installations)), u.showMain)
		})
	}()
}

func (u *UI) showStale(stale []config.Game) {
	lines := make([]string, 0, len(stale))
	for _, g := range stale {
		lines = append(lines, fmt.Sprintf("%s: %s", game.Name(g.Title, g.Edition), g.Path))
	}
	text := "These saved installations no longer exist:\n\n" + strings.Join(lines, "\n") + "\n\nRemove them?"

	u.showModal(text, []string{"Remove", "Keep"}, func(label string) {
		if label == "Remove" {
			if _, err := u.session.PruneStale(); err != nil {
				u.showMessage(fmt.Sprintf("Failed to remove installations: %s", err), u.showMain)
				return
			}
		}
		u.showMain()
	})
}

func (u *UI) confirmElevation(inst game.Installation) {
	buttons := []string{"Launch as admin", "Cancel"}
	if u.relaunch != nil {
		buttons = []string{"Launch as admin", "Restart launcher as admin", "Cancel"}
	}
	text := fmt.Sprintf("%s is installed in a protected folder and needs administrator rights to start.", inst.Name())

	u.showModal(text, buttons, func(label string) {
		switch label {
		case "Launch as admin":
			u.launch(inst)
		case "Restart launcher as admin":
			if err := u.relaunch(); err != nil {
				u.showMessage(fmt.Sprintf("Failed to restart launcher: %s", err), func() { u.showGame(inst) })
				return
			}
			u.app.Stop()
		default:
			u.showGame(inst)
		}
	})
}

func (u *UI) launch(inst game.Installation) {
	opts := u.session.OptionsFor(inst.Title, inst.Edition)
	u.showModal(fmt.Sprintf("Launching %s...", inst.Name()), nil, nil)

	go func() {
		err := u.session.Launch(u.ctx, inst.Title, inst.Edition, opts)
		u.app.QueueUpdateDraw(func() {
			if err != nil {
				log.Error().Err(err).Str("game", inst.Name()).Msg("Failed to launch game")
				text := fmt.Sprintf("Failed to launch %s:\n%s", inst.Name(), err)
				if errors.Is(err, launch.ErrInvalidInstallation) || errors.Is(err, launch.ErrExecutableMissing) {
					text += "\n\nRescan to update the list of installations."
				}
				u.showMessage(text, u.showMain)
				return
			}
			u.app.Stop()
		})
	}()
}

func (u *UI) showMessage(text string, done func()) {
	u.showModal(text, []string{"OK"}, func(string) {
		done()
	})
}

func (u *UI) showModal(text string, buttons []string, done func(label string)) {
	modal := tview.NewModal().SetText(text)
	if len(buttons) > 0 {
		modal.AddButtons(buttons).SetDoneFunc(func(_ int, label string) {
			u.pages.RemovePage(pageModal)
			if done != nil {
				done(label)
			}
		})
	}
	u.pages.AddAndSwitchToPage(pageModal, modal, true)
}

func shortcut(i int) rune {
	if i < 9 {
		return rune('1' + i)
	}
	return 0
}

// SetTheme applies the launcher's colors
func SetTheme(theme *tview.Theme) {
	theme.BorderColor = tcell.ColorGoldenrod
	theme.TitleColor = tcell.ColorWhite
	theme.PrimaryTextColor = tcell.ColorWhite
	theme.SecondaryTextColor = tcell.ColorDarkGray
	theme.ContrastBackgroundColor = tcell.ColorDarkRed
	theme.PrimitiveBackgroundColor = tcell.ColorBlack
}
