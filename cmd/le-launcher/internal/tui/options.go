package tui

import (
	"fmt"

	"github.com/cetteup/le-launcher/pkg/game"
	"github.com/cetteup/le-launcher/pkg/locale"
)

const (
	dubbedMarker   = " *"
	elevatedMarker = " [admin]"
)

// DropDownItem is a single option in a language dropdown
type DropDownItem struct {
	Code string
	Name string
}

// textLanguageOptions lists all languages, marking those the title is dubbed in
func textLanguageOptions(title game.Title) []DropDownItem {
	options := make([]DropDownItem, 0, len(locale.Languages))
	for _, l := range locale.Languages {
		name := languageName(l)
		if l.Code != locale.International && locale.HasNativeVoiceOver(l.Code, title) {
			name += dubbedMarker
		}
		options = append(options, DropDownItem{Code: l.Code, Name: name})
	}
	return options
}

// voiceLanguageOptions lists the languages the title has voice-over for
func voiceLanguageOptions(title game.Title) []DropDownItem {
	var options []DropDownItem
	for _, l := range locale.Languages {
		if locale.HasNativeVoiceOver(l.Code, title) {
			options = append(options, DropDownItem{Code: l.Code, Name: languageName(l)})
		}
	}
	return options
}

func languageName(l locale.Language) string {
	native := l.NativeName()
	if english := l.DisplayName(); english != native {
		return fmt.Sprintf("%s / %s (%s)", english, native, l.Code)
	}
	return fmt.Sprintf("%s (%s)", native, l.Code)
}

func optionNames(options []DropDownItem) []string {
	names := make([]string, 0, len(options))
	for _, o := range options {
		names = append(names, o.Name)
	}
	return names
}

// optionIndex returns the index of code within options, 0 if not present
func optionIndex(options []DropDownItem, code string) int {
	code = locale.Normalize(code)
	for i, o := range options {
		if o.Code == code {
			return i
		}
	}
	return 0
}

func installationLabel(inst game.Installation) string {
	label := inst.Name()
	if inst.RequiresElevation {
		label += elevatedMarker
	}
	return label
}
