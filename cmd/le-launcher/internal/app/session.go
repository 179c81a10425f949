package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/cetteup/le-launcher/cmd/le-launcher/internal/config"
	"github.com/cetteup/le-launcher/pkg/game"
	"github.com/cetteup/le-launcher/pkg/launch"
)

var (
	ErrNotInstalled   = errors.New("game is not installed")
	ErrNoInstallation = errors.New("no installation found in directory")
)

type scanner interface {
	Scan(ctx context.Context) []game.Installation
	ValidateInstallation(root string, title game.Title, edition game.Edition) bool
	Probe(root string) []game.Installation
}

type launcher interface {
	Launch(ctx context.Context, inst game.Installation, opts launch.Options) error
}

type elevationChecker interface {
	RequiresElevation(path string) bool
}

// Session holds the installations known to the launcher and keeps them in sync with the config
type Session struct {
	scanner  scanner
	cfg      *config.Instance
	launcher launcher
	checker  elevationChecker
	clock    clockwork.Clock

	mu            sync.RWMutex
	installations []game.Installation
}

func NewSession(s scanner, cfg *config.Instance, l launcher, checker elevationChecker, clock clockwork.Clock) *Session {
	return &Session{
		scanner:  s,
		cfg:      cfg,
		launcher: l,
		checker:  checker,
		clock:    clock,
	}
}

// Restore runs the startup scan. Installations found on disk are merged with the saved ones which are
// still valid, saved ones which are not stay in the config until pruned.
func (s *Session) Restore(ctx context.Context) ([]game.Installation, error) {
	return s.Rescan(ctx)
}

// Rescan replaces the known installations with a fresh scan. Saved installations the scan did not
// find (such as manually added ones) are kept as long as they still validate.
// Saved installations that no longer validate stay in the config until PruneStale removes them.
func (s *Session) Rescan(ctx context.Context) ([]game.Installation, error) {
	found := s.scanner.Scan(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	valid, _ := s.persisted(found)
	installations := dedupe(append(found, valid...))
	log.Info().Int("installations", len(installations)).Msg("Scanned for installations")

	s.mu.Lock()
	s.installations = installations
	s.mu.Unlock()

	if err := s.save(installations, s.clock.Now()); err != nil {
		return s.Installations(), fmt.Errorf("failed to save installations: %w", err)
	}

	return s.Installations(), nil
}

// Installations returns the known installations, Legendary Edition titles first
func (s *Session) Installations() []game.Installation {
	s.mu.RLock()
	installations := slices.Clone(s.installations)
	s.mu.RUnlock()

	slices.SortStableFunc(installations, func(a, b game.Installation) int {
		if a.Edition != b.Edition {
			return slices.Index(game.Editions, a.Edition) - slices.Index(game.Editions, b.Edition)
		}
		return a.Title.Number() - b.Title.Number()
	})

	return installations
}

func (s *Session) Find(title game.Title, edition game.Edition) (game.Installation, bool) {
	for _, inst := range s.Installations() {
		if inst.Title == title && inst.Edition == edition {
			return inst, true
		}
	}
	return game.Installation{}, false
}

// StaleGames returns saved installations which no longer exist on disk
func (s *Session) StaleGames() []config.Game {
	var stale []config.Game
	for _, g := range s.cfg.Games() {
		if !s.scanner.ValidateInstallation(g.Path, g.Title, g.Edition) {
			stale = append(stale, g)
		}
	}
	return stale
}

// PruneStale removes all stale installations from the config, returning how many were removed
func (s *Session) PruneStale() (int, error) {
	stale := s.StaleGames()
	for _, g := range stale {
		if err := s.cfg.Remove(g.Title, g.Edition, g.Path); err != nil {
			return 0, err
		}
	}

	s.mu.Lock()
	s.installations = slices.DeleteFunc(s.installations, func(inst game.Installation) bool {
		return slices.ContainsFunc(stale, func(g config.Game) bool {
			return strings.EqualFold(g.Path, inst.Path) && g.Title == inst.Title && g.Edition == inst.Edition
		})
	})
	s.mu.Unlock()

	return len(stale), nil
}

// AddManualPath adds the installations found in a directory picked by the user
func (s *Session) AddManualPath(path string) ([]game.Installation, error) {
	probed := s.scanner.Probe(path)
	if len(probed) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoInstallation, path)
	}

	s.mu.Lock()
	s.installations = dedupe(append(slices.Clone(s.installations), probed...))
	installations := slices.Clone(s.installations)
	s.mu.Unlock()

	if err := s.save(installations, time.Time{}); err != nil {
		return probed, fmt.Errorf("failed to save installations: %w", err)
	}

	return probed, nil
}

func (s *Session) Defaults() config.Preferences {
	return s.cfg.Defaults()
}

func (s *Session) SetDefaults(prefs config.Preferences) error {
	return s.cfg.SetDefaults(prefs)
}

func (s *Session) Preferences(title game.Title, edition game.Edition) config.Preferences {
	return s.cfg.PreferencesFor(title, edition)
}

func (s *Session) SetPreferences(title game.Title, edition game.Edition, prefs config.Preferences) error {
	return s.cfg.SetPreferences(title, edition, prefs)
}

// OptionsFor returns launch options built from the game's saved preferences
func (s *Session) OptionsFor(title game.Title, edition game.Edition) launch.Options {
	prefs := s.Preferences(title, edition)
	return launch.Options{
		TextLanguage:  prefs.TextLanguage,
		VoiceLanguage: prefs.VoiceLanguage,
		ForceFeedback: prefs.ForceFeedback,
		SkipIntro:     prefs.SkipIntro,
	}
}

// Launch starts the game. The installation is validated once more, since it may have been removed
// since the last scan.
func (s *Session) Launch(ctx context.Context, title game.Title, edition game.Edition, opts launch.Options) error {
	inst, ok := s.Find(title, edition)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotInstalled, game.Name(title, edition))
	}

	inst.Valid = s.scanner.ValidateInstallation(inst.Path, inst.Title, inst.Edition)
	inst.RequiresElevation = s.requiresElevation(inst.Path)

	return s.launcher.Launch(ctx, inst, opts)
}

// save persists installations together with the saved ones which no longer validate, those are only
// removed by PruneStale
func (s *Session) save(installations []game.Installation, scannedAt time.Time) error {
	_, stale := s.persisted(installations)
	return s.cfg.UpdateInstallations(append(slices.Clone(installations), stale...), scannedAt)
}

// persisted splits the saved installations which are not part of exclude into valid and stale ones
func (s *Session) persisted(exclude []game.Installation) (valid, stale []game.Installation) {
	for _, g := range s.cfg.Games() {
		exe := game.ExecutablePath(g.Path, g.Title, g.Edition)
		if slices.ContainsFunc(exclude, func(inst game.Installation) bool {
			return strings.EqualFold(inst.ExecutablePath, exe)
		}) {
			continue
		}
		inst := game.Installation{
			Title:          g.Title,
			Edition:        g.Edition,
			Path:           g.Path,
			ExecutablePath: exe,
		}
		if !s.scanner.ValidateInstallation(g.Path, g.Title, g.Edition) {
			log.Debug().Str("game", inst.Name()).Str("path", g.Path).Msg("Saved installation is no longer valid")
			stale = append(stale, inst)
			continue
		}

		inst.Valid = true
		inst.RequiresElevation = s.requiresElevation(g.Path)
		valid = append(valid, inst)
	}
	return valid, stale
}

func (s *Session) requiresElevation(path string) bool {
	return s.checker != nil && s.checker.RequiresElevation(path)
}

func dedupe(installations []game.Installation) []game.Installation {
	seen := make(map[string]struct{}, len(installations))
	deduped := make([]game.Installation, 0, len(installations))
	for _, inst := range installations {
		key := strings.ToLower(inst.ExecutablePath)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, inst)
	}
	return deduped
}
