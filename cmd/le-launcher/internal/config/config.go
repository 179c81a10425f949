package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"go.uber.org/multierr"

	"github.com/cetteup/le-launcher/pkg/game"
	"github.com/cetteup/le-launcher/pkg/locale"
)

const (
	SchemaVersion = 1
	AppName       = "le-launcher"
	CfgEnv        = "LE_LAUNCHER_CFG"
	CfgFile       = "config.toml"
)

var (
	ErrUnknownGame = errors.New("no saved installation for game")
)

type Values struct {
	ConfigSchema int         `toml:"config_schema"`
	DebugLogging bool        `toml:"debug_logging"`
	Defaults     Preferences `toml:"defaults"`
	Games        []Game      `toml:"games,omitempty"`
	LastScan     *time.Time  `toml:"last_scan,omitempty"`
}

// Preferences are the settings applied when launching a game
type Preferences struct {
	TextLanguage  string `toml:"text_language" validate:"omitempty,language"`
	VoiceLanguage string `toml:"voice_language" validate:"omitempty,language"`
	ForceFeedback bool   `toml:"force_feedback"`
	SkipIntro     bool   `toml:"skip_intro"`
}

// Game is a persisted installation, optionally carrying its own preferences
type Game struct {
	Title       game.Title   `toml:"title" validate:"required,title"`
	Edition     game.Edition `toml:"edition" validate:"required,edition"`
	Path        string       `toml:"path" validate:"required"`
	Preferences *Preferences `toml:"preferences,omitempty"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Defaults: Preferences{
		TextLanguage:  locale.International,
		VoiceLanguage: locale.International,
		ForceFeedback: true,
	},
}

type Instance struct {
	fs       afero.Fs
	cfgPath  string
	vals     Values
	defaults Values
	validate *validator.Validate
	mu       sync.RWMutex
}

// DefaultPath returns the config file location, which can be overridden via the environment
func DefaultPath() string {
	if p := os.Getenv(CfgEnv); p != "" {
		return p
	}
	return filepath.Join(xdg.ConfigHome, AppName, CfgFile)
}

// NewConfig loads the config from cfgPath, writing defaults to disk if the file does not exist yet
func NewConfig(fs afero.Fs, cfgPath string, defaults Values) (*Instance, error) {
	cfg := &Instance{
		fs:       fs,
		cfgPath:  cfgPath,
		vals:     cloneValues(defaults),
		defaults: defaults,
		validate: newValidator(),
	}

	exists, err := afero.Exists(fs, cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if !exists {
		log.Info().Str("path", cfgPath).Msg("Saving new default config to disk")
		if err = cfg.Save(); err != nil {
			return nil, err
		}
	}

	if err = cfg.Load(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load reads the config file. A file that cannot be parsed is replaced with defaults in memory, and
// overwritten with the next save.
func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	data, err := afero.ReadFile(c.fs, c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	vals := cloneValues(c.defaults)
	if err = toml.Unmarshal(data, &vals); err != nil {
		log.Warn().Err(err).Str("path", c.cfgPath).Msg("Config file is corrupted, using defaults")
		c.vals = cloneValues(c.defaults)
		return nil
	}

	if vals.ConfigSchema != SchemaVersion {
		log.Warn().
			Int("got", vals.ConfigSchema).
			Int("expected", SchemaVersion).
			Msg("Config schema version mismatch, using defaults")
		c.vals = cloneValues(c.defaults)
		return nil
	}

	c.vals = c.sanitize(vals)
	return nil
}

func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.save()
}

func (c *Instance) save() (err error) {
	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	c.vals.ConfigSchema = SchemaVersion

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err = c.fs.MkdirAll(filepath.Dir(c.cfgPath), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := c.fs.OpenFile(c.cfgPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer multierr.AppendInvoke(&err, multierr.Close(f))

	if _, err = f.Write(data); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c *Instance) Path() string {
	return c.cfgPath
}

func (c *Instance) Values() Values {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneValues(c.vals)
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
	return c.save()
}

func (c *Instance) Defaults() Preferences {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Defaults
}

func (c *Instance) SetDefaults(prefs Preferences) error {
	prefs = normalizePreferences(prefs)
	if err := c.validate.Struct(prefs); err != nil {
		return fmt.Errorf("invalid preferences: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Defaults = prefs
	return c.save()
}

// Games returns the persisted installations in the order they were saved
func (c *Instance) Games() []Game {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneGames(c.vals.Games)
}

func (c *Instance) LastScan() (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.LastScan == nil {
		return time.Time{}, false
	}
	return *c.vals.LastScan, true
}

// PreferencesFor returns the game's own preferences, falling back to the defaults
func (c *Instance) PreferencesFor(title game.Title, edition game.Edition) Preferences {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, g := range c.vals.Games {
		if g.Title == title && g.Edition == edition && g.Preferences != nil {
			return *g.Preferences
		}
	}
	return c.vals.Defaults
}

// SetPreferences stores preferences for every saved installation of the game
func (c *Instance) SetPreferences(title game.Title, edition game.Edition, prefs Preferences) error {
	prefs = normalizePreferences(prefs)
	if err := c.validate.Struct(prefs); err != nil {
		return fmt.Errorf("invalid preferences: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	found := false
	for i, g := range c.vals.Games {
		if g.Title == title && g.Edition == edition {
			p := prefs
			c.vals.Games[i].Preferences = &p
			found = true
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrUnknownGame, game.Name(title, edition))
	}

	return c.save()
}

// UpdateInstallations replaces the saved installations. Preferences of games which are still present
// are kept.
func (c *Instance) UpdateInstallations(installations []game.Installation, scannedAt time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	games := make([]Game, 0, len(installations))
	for _, inst := range installations {
		g := Game{
			Title:   inst.Title,
			Edition: inst.Edition,
			Path:    inst.Path,
		}
		if prefs := c.preferencesOf(inst.Title, inst.Edition); prefs != nil {
			p := *prefs
			g.Preferences = &p
		}
		games = append(games, g)
	}

	c.vals.Games = games
	if !scannedAt.IsZero() {
		t := scannedAt.UTC()
		c.vals.LastScan = &t
	}

	return c.save()
}

// Remove deletes the saved installation of the game at path. Legendary Edition titles share a root, so
// other titles saved with the same path are kept.
func (c *Instance) Remove(title game.Title, edition game.Edition, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := len(c.vals.Games)
	c.vals.Games = slices.DeleteFunc(c.vals.Games, func(g Game) bool {
		return g.Title == title && g.Edition == edition && samePath(g.Path, path)
	})
	if len(c.vals.Games) == before {
		return nil
	}

	return c.save()
}

func (c *Instance) preferencesOf(title game.Title, edition game.Edition) *Preferences {
	for _, g := range c.vals.Games {
		if g.Title == title && g.Edition == edition && g.Preferences != nil {
			return g.Preferences
		}
	}
	return nil
}

// sanitize normalizes values read from disk, dropping anything that does not validate
func (c *Instance) sanitize(vals Values) Values {
	vals.Defaults = normalizePreferences(vals.Defaults)
	if err := c.validate.Struct(vals.Defaults); err != nil {
		log.Warn().Err(err).Msg("Invalid default preferences in config, using defaults")
		vals.Defaults = c.defaults.Defaults
	}

	games := make([]Game, 0, len(vals.Games))
	for _, g := range vals.Games {
		g.Title = game.Title(strings.ToUpper(string(g.Title)))
		g.Edition = game.Edition(strings.ToLower(string(g.Edition)))
		if g.Preferences != nil {
			p := normalizePreferences(*g.Preferences)
			g.Preferences = &p
		}
		if err := c.validate.Struct(g); err != nil {
			log.Warn().Err(err).Str("path", g.Path).Msg("Ignoring invalid game entry in config")
			continue
		}
		games = append(games, g)
	}
	vals.Games = games

	return vals
}

func normalizePreferences(p Preferences) Preferences {
	p.TextLanguage = locale.Normalize(p.TextLanguage)
	p.VoiceLanguage = locale.Normalize(p.VoiceLanguage)
	return p
}

func samePath(a, b string) bool {
	return strings.EqualFold(filepath.Clean(a), filepath.Clean(b))
}

func cloneValues(v Values) Values {
	v.Games = cloneGames(v.Games)
	if v.LastScan != nil {
		t := *v.LastScan
		v.LastScan = &t
	}
	return v
}

func cloneGames(games []Game) []Game {
	if games == nil {
		return nil
	}
	cloned := make([]Game, len(games))
	for i, g := range games {
		if g.Preferences != nil {
			p := *g.Preferences
			g.Preferences = &p
		}
		cloned[i] = g
	}
	return cloned
}
