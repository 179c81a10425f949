package detect

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/andygrunwald/vdf"
	"github.com/rs/zerolog/log"
	"go.uber.org/multierr"
)

const (
	libraryFoldersFile = "libraryfolders.vdf"
)

var (
	registryValueNames = []string{"Path", "Install Dir"}
)

// steamRoots returns the "steamapps/common" folder of every Steam library listed in each Steam
// installation's libraryfolders.vdf
func (s *Scanner) steamRoots(ctx context.Context) ([]string, error) {
	var roots []string
	var errs error
	for _, steamRoot := range s.locations.SteamRoots {
		if err := ctx.Err(); err != nil {
			return roots, multierr.Append(errs, err)
		}

		libraries, err := s.readLibraryFolders(filepath.Join(steamRoot, "steamapps", libraryFoldersFile))
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				errs = multierr.Append(errs, err)
			}
			continue
		}

		for _, library := range libraries {
			roots = append(roots, filepath.Join(library, "steamapps", "common"))
		}
		roots = append(roots, filepath.Join(steamRoot, "steamapps", "common"))
	}

	return roots, errs
}

func (s *Scanner) readLibraryFolders(path string) (paths []string, err error) {
	f, err := s.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(f))

	m, err := vdf.NewParser(f).Parse()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return extractLibraryPaths(normalizeKeys(m))
}

// extractLibraryPaths supports both the current format (numbered entries with a "path" key) and the
// legacy one (numbered entries holding the path directly)
func extractLibraryPaths(m map[string]any) ([]string, error) {
	folders, ok := m["libraryfolders"].(map[string]any)
	if !ok {
		return nil, errors.New("missing libraryfolders section")
	}

	var paths []string
	for _, key := range slices.Sorted(maps.Keys(folders)) {
		var path string
		switch v := folders[key].(type) {
		case map[string]any:
			path, _ = v["path"].(string)
		case string:
			if _, err := strconv.Atoi(key); err == nil {
				path = v
			}
		}

		if path == "" {
			continue
		}
		paths = append(paths, strings.ReplaceAll(path, `\\`, `\`))
	}

	return paths, nil
}

// normalizeKeys lowercases all keys, VDF keys are case-insensitive
func normalizeKeys(m map[string]any) map[string]any {
	normalized := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = normalizeKeys(nested)
		}
		normalized[strings.ToLower(k)] = v
	}
	return normalized
}

func (s *Scanner) storefrontRoots(_ context.Context) ([]string, error) {
	return s.locations.StorefrontDirs, nil
}

func (s *Scanner) registryRoots(ctx context.Context) ([]string, error) {
	if s.registry == nil {
		return nil, nil
	}

	var roots []string
	var errs error
	for _, key := range s.locations.RegistryKeys {
		if err := ctx.Err(); err != nil {
			return roots, multierr.Append(errs, err)
		}

		dir, err := s.registry.InstallDir(key, registryValueNames...)
		if err != nil {
			// Most keys are absent on any given system
			log.Debug().Err(err).Str("key", key).Msg("No install dir in registry key")
			continue
		}
		roots = append(roots, dir)
	}

	return roots, errs
}

func (s *Scanner) commonRoots(_ context.Context) ([]string, error) {
	return s.locations.CommonDirs, nil
}
