//go:build windows

package detect

import (
	filerepo "github.com/cetteup/filerepo/pkg"
	"github.com/cetteup/joinme.click-launcher/pkg/registry_repository"
	"github.com/cetteup/joinme.click-launcher/pkg/software_finder"
)

type finder interface {
	GetInstallDirFromSomewhere(configs []software_finder.Config) (string, error)
}

type softwareFinderLookup struct {
	finder finder
}

func NewRegistryLookup() RegistryLookup {
	return softwareFinderLookup{
		finder: software_finder.New(registry_repository.New(), filerepo.New()),
	}
}

func (l softwareFinderLookup) InstallDir(keyPath string, valueNames ...string) (string, error) {
	configs := make([]software_finder.Config, 0, len(valueNames))
	for _, name := range valueNames {
		configs = append(configs, software_finder.Config{
			ForType:           software_finder.RegistryFinder,
			RegistryKey:       software_finder.RegistryKeyLocalMachine,
			RegistryPath:      keyPath,
			RegistryValueName: name,
		})
	}

	return l.finder.GetInstallDirFromSomewhere(configs)
}
