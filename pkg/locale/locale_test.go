package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cetteup/le-launcher/pkg/game"
)

func TestResolveLaunchCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		voice    string
		title    game.Title
		expected string
	}{
		{name: "ME1 french text english voice", text: "FR", voice: "INT", title: game.TitleME1, expected: "FE"},
		{name: "ME2 french text french voice", text: "FR", voice: "FR", title: game.TitleME2, expected: "FRA"},
		{name: "ME3 french text english voice", text: "FR", voice: "INT", title: game.TitleME3, expected: "FRE"},
		{name: "ME1 russian dub", text: "RU", voice: "RU", title: game.TitleME1, expected: "RA"},
		{name: "ME1 polish dub", text: "PL", voice: "PL", title: game.TitleME1, expected: "PLPC"},
		{name: "ME2 polish text english voice", text: "PL", voice: "INT", title: game.TitleME2, expected: "POE"},
		{name: "ME3 polish text english voice", text: "PL", voice: "INT", title: game.TitleME3, expected: "POL"},
		{name: "ME3 polish dub falls back to english audio code", text: "PL", voice: "PL", title: game.TitleME3, expected: "POL"},
		{name: "case insensitive", text: "de", voice: "De", title: game.TitleME2, expected: "DEU"},
		{name: "empty inputs coerce to international", text: "", voice: "", title: game.TitleME3, expected: "INT"},
		{name: "empty voice coerces to international", text: "IT", voice: "", title: game.TitleME1, expected: "IE"},
		{name: "unknown pair falls back", text: "FR", voice: "DE", title: game.TitleME1, expected: "INT"},
		{name: "unknown language falls back", text: "XX", voice: "XX", title: game.TitleME2, expected: "INT"},
		{name: "unknown title falls back", text: "FR", voice: "FR", title: game.Title("ME4"), expected: "INT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, ResolveLaunchCode(tt.text, tt.voice, tt.title))
		})
	}
}

func TestResolveLaunchCode_InternationalForEveryTitle(t *testing.T) {
	t.Parallel()

	for _, title := range game.Titles {
		assert.Equal(t, "INT", ResolveLaunchCode("INT", "INT", title), string(title))
	}
}

func TestResolveLaunchCode_UnknownPairsFallBack(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		title := rapid.SampledFrom(game.Titles).Draw(t, "title")
		text := rapid.StringMatching(`[A-Za-z]{0,4}`).Draw(t, "text")
		voice := rapid.StringMatching(`[A-Za-z]{0,4}`).Draw(t, "voice")

		code := ResolveLaunchCode(text, voice, title)
		if code == "" {
			t.Fatalf("empty code for (%q, %q, %s)", text, voice, title)
		}

		if _, known := codesFor(title)[pair{Normalize(text), Normalize(voice)}]; !known && code != International {
			t.Fatalf("unknown pair (%q, %q) for %s resolved to %q", text, voice, title, code)
		}
	})
}

func TestHasNativeVoiceOver(t *testing.T) {
	t.Parallel()

	for _, title := range game.Titles {
		assert.True(t, HasNativeVoiceOver("INT", title), string(title))
		assert.True(t, HasNativeVoiceOver("", title), string(title))
		assert.True(t, HasNativeVoiceOver("fr", title), string(title))
		assert.False(t, HasNativeVoiceOver("ES", title), string(title))
		assert.False(t, HasNativeVoiceOver("JA", title), string(title))
	}

	assert.True(t, HasNativeVoiceOver("PL", game.TitleME1))
	assert.True(t, HasNativeVoiceOver("PL", game.TitleME2))
	assert.False(t, HasNativeVoiceOver("PL", game.TitleME3))
}

func TestLookupLanguage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "FR", LookupLanguage("fr").Code)
	assert.Equal(t, "French", LookupLanguage("FR").DisplayName())
	assert.Equal(t, International, LookupLanguage("").Code)
	assert.Equal(t, International, LookupLanguage("XX").Code)
	assert.Equal(t, "English", LookupLanguage("INT").DisplayName())
}

func TestIsKnown(t *testing.T) {
	t.Parallel()

	assert.True(t, IsKnown("ja"))
	assert.True(t, IsKnown(""))
	assert.False(t, IsKnown("PT"))
}
