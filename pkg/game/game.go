package game

import (
	"fmt"
	"path/filepath"
	"strings"
)

type Title string

const (
	TitleME1 Title = "ME1"
	TitleME2 Title = "ME2"
	TitleME3 Title = "ME3"
)

type Edition string

const (
	EditionLegendary Edition = "legendary"
	EditionOriginal  Edition = "original"
)

var (
	Titles   = []Title{TitleME1, TitleME2, TitleME3}
	Editions = []Edition{EditionLegendary, EditionOriginal}
)

// Installation is a single game copy found on disk. Records are created by a scan and replaced
// wholesale by the next one, never modified in place.
type Installation struct {
	Title             Title
	Edition           Edition
	Path              string
	ExecutablePath    string
	Valid             bool
	RequiresElevation bool
}

func (i Installation) Name() string {
	return Name(i.Title, i.Edition)
}

// Number returns the position of the title within the series (1-3)
func (t Title) Number() int {
	switch t {
	case TitleME1:
		return 1
	case TitleME2:
		return 2
	case TitleME3:
		return 3
	default:
		return 0
	}
}

func Name(title Title, edition Edition) string {
	if edition == EditionLegendary {
		return fmt.Sprintf("Mass Effect %d Legendary Edition", title.Number())
	}
	return fmt.Sprintf("Mass Effect %d", title.Number())
}

func ParseTitle(s string) (Title, error) {
	for _, t := range Titles {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown title: %q", s)
}

func ParseEdition(s string) (Edition, error) {
	for _, e := range Editions {
		if strings.EqualFold(s, string(e)) {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown edition: %q", s)
}

// ExecutableRelPath returns the path segments of the game binary relative to an installation root
func ExecutableRelPath(title Title, edition Edition) []string {
	if edition == EditionLegendary {
		n := title.Number()
		if n == 0 {
			return nil
		}
		return []string{"Game", fmt.Sprintf("ME%d", n), "Binaries", "Win64", fmt.Sprintf("MassEffect%d.exe", n)}
	}

	switch title {
	case TitleME1:
		return []string{"Binaries", "MassEffect.exe"}
	case TitleME2:
		return []string{"Binaries", "MassEffect2.exe"}
	case TitleME3:
		return []string{"Binaries", "Win32", "MassEffect3.exe"}
	default:
		return nil
	}
}

// ExecutablePath joins root with the title's relative binary path, returning "" for unknown titles
func ExecutablePath(root string, title Title, edition Edition) string {
	rel := ExecutableRelPath(title, edition)
	if rel == nil || root == "" {
		return ""
	}
	return filepath.Join(append([]string{root}, rel...)...)
}
