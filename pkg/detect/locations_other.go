//go:build !windows

package detect

import (
	"os"
	"path/filepath"
)

// DefaultLocations covers Steam (Proton) libraries, storefronts and the registry only exist on Windows
func DefaultLocations() Locations {
	home, err := os.UserHomeDir()
	if err != nil {
		return Locations{}
	}

	return Locations{
		SteamRoots: []string{
			filepath.Join(home, ".steam", "steam"),
			filepath.Join(home, ".local", "share", "Steam"),
		},
		CommonDirs: []string{
			filepath.Join(home, "Games"),
		},
	}
}
