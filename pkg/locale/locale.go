package locale

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/cetteup/le-launcher/pkg/game"
)

const (
	International = "INT"
)

type pair struct {
	text  string
	voice string
}

// Each engine expects its own codes, keep the tables separate even where they overlap
var (
	me1Codes = map[pair]string{
		{International, International}: "INT",
		{"FR", International}:           "FE",
		{"FR", "FR"}:                    "FR",
		{"DE", International}:           "GE",
		{"DE", "DE"}:                    "DE",
		{"ES", International}:           "ES",
		{"ES", "ES"}:                    "ES",
		{"IT", International}:           "IE",
		{"IT", "IT"}:                    "IT",
		{"RU", International}:           "RU",
		{"RU", "RU"}:                    "RA",
		{"PL", International}:           "PL",
		{"PL", "PL"}:                    "PLPC",
		{"JA", International}:           "JA",
		{"JA", "JA"}:                    "JA",
	}

	me2Codes = map[pair]string{
		{International, International}: "INT",
		{"FR", International}:           "FRE",
		{"FR", "FR"}:                    "FRA",
		{"DE", International}:           "DEE",
		{"DE", "DE"}:                    "DEU",
		{"ES", International}:           "ESN",
		{"ES", "ES"}:                    "ESN",
		{"IT", International}:           "ITE",
		{"IT", "IT"}:                    "ITA",
		{"RU", International}:           "RUS",
		{"RU", "RU"}:                    "RUS",
		{"PL", International}:           "POE",
		{"PL", "PL"}:                    "POL",
		{"JA", International}:           "JPN",
		{"JA", "JA"}:                    "JPN",
	}

	// ME3 shipped without Polish voice-over, both Polish entries use English audio
	me3Codes = map[pair]string{
		{International, International}: "INT",
		{"FR", International}:           "FRE",
		{"FR", "FR"}:                    "FRA",
		{"DE", International}:           "DEE",
		{"DE", "DE"}:                    "DEU",
		{"ES", International}:           "ESN",
		{"ES", "ES"}:                    "ESN",
		{"IT", International}:           "ITE",
		{"IT", "IT"}:                    "ITA",
		{"RU", International}:           "RUS",
		{"RU", "RU"}:                    "RUS",
		{"PL", International}:           "POL",
		{"PL", "PL"}:                    "POL",
		{"JA", International}:           "JPN",
		{"JA", "JA"}:                    "JPN",
	}

	nativeVoiceOver = map[game.Title]map[string]bool{
		game.TitleME1: {"FR": true, "DE": true, "IT": true, "RU": true, "PL": true},
		game.TitleME2: {"FR": true, "DE": true, "IT": true, "RU": true, "PL": true},
		game.TitleME3: {"FR": true, "DE": true, "IT": true, "RU": true},
	}
)

// Normalize upper-cases a language code, mapping empty input to the international code
func Normalize(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return International
	}
	return code
}

// ResolveLaunchCode returns the title-specific locale code for the given text and voice language.
// Pairs the title does not know resolve to the international code.
func ResolveLaunchCode(text, voice string, title game.Title) string {
	codes := codesFor(title)
	if code, ok := codes[pair{Normalize(text), Normalize(voice)}]; ok {
		return code
	}
	return International
}

// HasNativeVoiceOver reports whether the title ships dubbed audio in the given language
func HasNativeVoiceOver(voice string, title game.Title) bool {
	code := Normalize(voice)
	if code == International {
		return true
	}
	return nativeVoiceOver[title][code]
}

func codesFor(title game.Title) map[pair]string {
	switch title {
	case game.TitleME1:
		return me1Codes
	case game.TitleME2:
		return me2Codes
	case game.TitleME3:
		return me3Codes
	default:
		return nil
	}
}

type Language struct {
	Code string
	Tag  language.Tag
}

// Languages lists the selectable languages in menu order, English first
var Languages = []Language{
	{Code: International, Tag: language.English},
	{Code: "FR", Tag: language.French},
	{Code: "DE", Tag: language.German},
	{Code: "ES", Tag: language.Spanish},
	{Code: "IT", Tag: language.Italian},
	{Code: "RU", Tag: language.Russian},
	{Code: "PL", Tag: language.Polish},
	{Code: "JA", Tag: language.Japanese},
}

func (l Language) DisplayName() string {
	return display.English.Languages().Name(l.Tag)
}

// NativeName returns the language's name in the language itself
func (l Language) NativeName() string {
	return display.Self.Name(l.Tag)
}

// LookupLanguage returns the language for code, English if unknown
func LookupLanguage(code string) Language {
	code = Normalize(code)
	for _, l := range Languages {
		if l.Code == code {
			return l
		}
	}
	return Languages[0]
}

// IsKnown reports whether code is one of the selectable languages
func IsKnown(code string) bool {
	code = Normalize(code)
	for _, l := range Languages {
		if l.Code == code {
			return true
		}
	}
	return false
}
