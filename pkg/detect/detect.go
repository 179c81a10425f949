package detect

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/cetteup/le-launcher/pkg/game"
)

var (
	legendaryFolders = []string{
		"Mass Effect Legendary Edition",
		"MassEffectLegendaryEdition",
	}
	// Original releases were installed under either naming convention
	originalFolders = map[game.Title][]string{
		game.TitleME1: {"Mass Effect", "MassEffect"},
		game.TitleME2: {"Mass Effect 2", "MassEffect2"},
		game.TitleME3: {"Mass Effect 3", "MassEffect3"},
	}
)

const (
	legendaryMarker = "Game"
)

// Locations lists where the scanner looks for installations
type Locations struct {
	// Steam installation directories (containing steamapps/libraryfolders.vdf)
	SteamRoots []string
	// Storefront install directories (EA app, Origin)
	StorefrontDirs []string
	// Registry key paths below HKEY_LOCAL_MACHINE carrying an install dir value
	RegistryKeys []string
	CommonDirs   []string
}

// RegistryLookup reads an install directory from the first value name present below keyPath
type RegistryLookup interface {
	InstallDir(keyPath string, valueNames ...string) (string, error)
}

type elevationChecker interface {
	RequiresElevation(path string) bool
}

type Scanner struct {
	fs        afero.Fs
	locations Locations
	registry  RegistryLookup
	checker   elevationChecker
}

func NewScanner(fs afero.Fs, locations Locations, registry RegistryLookup, checker elevationChecker) *Scanner {
	return &Scanner{
		fs:        fs,
		locations: locations,
		registry:  registry,
		checker:   checker,
	}
}

type source func(ctx context.Context) ([]string, error)

// Scan returns all valid installations found below the candidate roots. Records are deduplicated by
// executable path (case-insensitive), the first occurrence wins.
func (s *Scanner) Scan(ctx context.Context) []game.Installation {
	var installations []game.Installation
	for _, root := range s.candidateRoots(ctx) {
		if !s.isDir(root) {
			continue
		}

		installations = append(installations, s.detectLegendary(root)...)
		installations = append(installations, s.detectOriginal(root)...)
	}

	return deduplicate(installations)
}

// ValidateInstallation checks whether the title's executable (still) exists below root
func (s *Scanner) ValidateInstallation(root string, title game.Title, edition game.Edition) bool {
	if root == "" || !s.isDir(root) {
		return false
	}

	path := game.ExecutablePath(root, title, edition)
	return path != "" && s.isFile(path)
}

// Probe classifies a single directory, such as one entered by the user. The directory may either be an
// installation root itself or contain installations.
func (s *Scanner) Probe(root string) []game.Installation {
	if root == "" || !s.isDir(root) {
		return nil
	}

	var installations []game.Installation
	for _, edition := range game.Editions {
		for _, title := range game.Titles {
			if s.ValidateInstallation(root, title, edition) {
				installations = append(installations, s.newInstallation(root, title, edition))
			}
		}
	}

	installations = append(installations, s.detectLegendary(root)...)
	installations = append(installations, s.detectOriginal(root)...)

	return deduplicate(installations)
}

// candidateRoots gathers roots from all sources. Sources are queried concurrently, but merged in a fixed
// order so the first-occurrence-wins deduplication stays stable.
func (s *Scanner) candidateRoots(ctx context.Context) []string {
	sources := []struct {
		name string
		fn   source
	}{
		{name: "steam", fn: s.steamRoots},
		{name: "storefront", fn: s.storefrontRoots},
		{name: "registry", fn: s.registryRoots},
		{name: "common", fn: s.commonRoots},
	}

	results := make([][]string, len(sources))
	errs := make([]error, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			roots, err := src.fn(gctx)
			results[i] = roots
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", src.name, err)
			}
			// Sources never abort each other
			return nil
		})
	}
	_ = g.Wait()

	if err := multierr.Combine(errs...); err != nil {
		log.Debug().Err(err).Msg("Some discovery sources were incomplete")
	}

	seen := make(map[string]struct{})
	var roots []string
	for i, res := range results {
		log.Debug().Str("source", sources[i].name).Int("roots", len(res)).Msg("Gathered candidate roots")
		for _, root := range res {
			if root == "" {
				continue
			}
			key := strings.ToLower(filepath.Clean(root))
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			roots = append(roots, root)
		}
	}

	return roots
}

func (s *Scanner) detectLegendary(root string) []game.Installation {
	var bases []string
	if s.isDir(filepath.Join(root, legendaryMarker)) {
		bases = append(bases, root)
	}
	for _, folder := range legendaryFolders {
		base := filepath.Join(root, folder)
		if s.isDir(filepath.Join(base, legendaryMarker)) {
			bases = append(bases, base)
		}
	}

	var installations []game.Installation
	for _, base := range bases {
		for _, title := range game.Titles {
			if s.isFile(game.ExecutablePath(base, title, game.EditionLegendary)) {
				installations = append(installations, s.newInstallation(base, title, game.EditionLegendary))
			}
		}
	}

	return installations
}

func (s *Scanner) detectOriginal(root string) []game.Installation {
	var installations []game.Installation
	for _, title := range game.Titles {
		for _, folder := range originalFolders[title] {
			base := filepath.Join(root, folder)
			if !s.isDir(base) {
				continue
			}

			if s.isFile(game.ExecutablePath(base, title, game.EditionOriginal)) {
				installations = append(installations, s.newInstallation(base, title, game.EditionOriginal))
			}
		}
	}

	return installations
}

func (s *Scanner) newInstallation(root string, title game.Title, edition game.Edition) game.Installation {
	return game.Installation{
		Title:             title,
		Edition:           edition,
		Path:              root,
		ExecutablePath:    game.ExecutablePath(root, title, edition),
		Valid:             true,
		RequiresElevation: s.checker != nil && s.checker.RequiresElevation(root),
	}
}

func (s *Scanner) isDir(path string) bool {
	ok, err := afero.DirExists(s.fs, path)
	return err == nil && ok
}

func (s *Scanner) isFile(path string) bool {
	if path == "" {
		return false
	}
	stats, err := s.fs.Stat(path)
	return err == nil && !stats.IsDir()
}

func deduplicate(installations []game.Installation) []game.Installation {
	seen := make(map[string]struct{}, len(installations))
	deduplicated := make([]game.Installation, 0, len(installations))
	for _, installation := range installations {
		if installation.ExecutablePath == "" {
			continue
		}

		key := strings.ToLower(installation.ExecutablePath)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduplicated = append(deduplicated, installation)
	}

	return deduplicated
}
