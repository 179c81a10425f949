//go:build windows

package detect

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/windows/registry"
)

func DefaultLocations() Locations {
	programFiles := envOr("ProgramFiles", `C:\Program Files`)
	programFilesX86 := envOr("ProgramFiles(x86)", `C:\Program Files (x86)`)

	steamRoots := []string{
		`C:\Program Files (x86)\Steam`,
		`C:\Program Files\Steam`,
		filepath.Join(programFilesX86, "Steam"),
		filepath.Join(programFiles, "Steam"),
	}
	if dir := steamDirFromRegistry(); dir != "" {
		steamRoots = append([]string{dir}, steamRoots...)
	}

	return Locations{
		SteamRoots: steamRoots,
		StorefrontDirs: []string{
			`C:\Program Files\EA Games`,
			`C:\Program Files (x86)\EA Games`,
			`C:\Program Files\Origin Games`,
			`C:\Program Files (x86)\Origin Games`,
			filepath.Join(programFiles, "EA Games"),
			filepath.Join(programFilesX86, "EA Games"),
			filepath.Join(programFiles, "Origin Games"),
			filepath.Join(programFilesX86, "Origin Games"),
		},
		RegistryKeys: []string{
			`SOFTWARE\BioWare\Mass Effect`,
			`SOFTWARE\BioWare\Mass Effect 2`,
			`SOFTWARE\BioWare\Mass Effect 3`,
			`SOFTWARE\WOW6432Node\BioWare\Mass Effect`,
			`SOFTWARE\WOW6432Node\BioWare\Mass Effect 2`,
			`SOFTWARE\WOW6432Node\BioWare\Mass Effect 3`,
		},
		CommonDirs: []string{
			`C:\Program Files\EA Games`,
			`C:\Program Files (x86)\EA Games`,
			`C:\Program Files\Origin Games`,
			`C:\Program Files (x86)\Origin Games`,
			`C:\Program Files\Steam\steamapps\common`,
			`C:\Program Files (x86)\Steam\steamapps\common`,
			`E:\Mass Effect Legendary Edition`,
			`D:\Games`,
			`E:\Games`,
			`F:\Games`,
			`G:\Games`,
		},
	}
}

func steamDirFromRegistry() string {
	for _, path := range []string{`SOFTWARE\Wow6432Node\Valve\Steam`, `SOFTWARE\Valve\Steam`} {
		key, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.QUERY_VALUE)
		if err != nil {
			continue
		}

		dir, _, err := key.GetStringValue("InstallPath")
		if closeErr := key.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close registry key")
		}
		if err != nil {
			continue
		}

		return dir
	}

	return ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
