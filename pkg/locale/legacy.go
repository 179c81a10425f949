package locale

import (
	"strings"

	"github.com/cetteup/le-launcher/pkg/game"
)

// Codes accepted on the command line by the vendor launcher, mapped back to universal language codes
var legacyLanguages = map[string]string{
	"INT":  International,
	"FE":   "FR",
	"FR":   "FR",
	"FRE":  "FR",
	"FRA":  "FR",
	"GE":   "DE",
	"DE":   "DE",
	"DEE":  "DE",
	"DEU":  "DE",
	"ES":   "ES",
	"ESN":  "ES",
	"IE":   "IT",
	"IT":   "IT",
	"ITE":  "IT",
	"ITA":  "IT",
	"RU":   "RU",
	"RA":   "RU",
	"RUS":  "RU",
	"PL":   "PL",
	"PLPC": "PL",
	"POE":  "PL",
	"POL":  "PL",
	"JA":   "JA",
	"JPN":  "JA",
}

var (
	me1EnglishVoiceOver = map[string]bool{"FE": true, "GE": true, "IE": true, "RU": true, "PL": true, "JA": true}
	me2EnglishVoiceOver = map[string]bool{"FRE": true, "DEE": true, "ITE": true, "RUS": true, "POE": true, "JPN": true}
	me3EnglishVoiceOver = map[string]bool{"FRE": true, "DEE": true, "ITE": true, "RUS": true, "POE": true, "POL": true, "JPN": true}
)

// ParseLegacyCode turns a universal or title-specific locale code into a (text, voice) language pair.
// Unknown codes yield the international pair.
func ParseLegacyCode(code string, title game.Title) (string, string) {
	code = strings.ToUpper(strings.TrimSpace(code))
	lang, ok := legacyLanguages[code]
	if !ok {
		return International, International
	}

	if isEnglishVoiceOverCode(code, title) {
		return lang, International
	}
	return lang, lang
}

func isEnglishVoiceOverCode(code string, title game.Title) bool {
	switch title {
	case game.TitleME1:
		return me1EnglishVoiceOver[code]
	case game.TitleME2:
		return me2EnglishVoiceOver[code]
	case game.TitleME3:
		return me3EnglishVoiceOver[code]
	default:
		return false
	}
}
