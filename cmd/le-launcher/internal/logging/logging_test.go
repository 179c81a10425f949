package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		silent          bool
		debug           bool
		expectedConsole []string
		absentConsole   []string
	}{
		{
			name:            "console at info level",
			expectedConsole: []string{"visible info"},
			absentConsole:   []string{"hidden debug"},
		},
		{
			name:            "console at debug level",
			debug:           true,
			expectedConsole: []string{"visible info", "hidden debug"},
		},
		{
			name:          "silent",
			silent:        true,
			absentConsole: []string{"visible info", "hidden debug"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// GIVEN
			dir := t.TempDir()
			var console bytes.Buffer

			// WHEN
			logger, closer, err := New(Options{Dir: dir, Silent: tt.silent, Debug: tt.debug, Console: &console})
			require.NoError(t, err)
			logger.Info().Msg("visible info")
			logger.Debug().Msg("hidden debug")
			require.NoError(t, closer.Close())

			// THEN
			for _, s := range tt.expectedConsole {
				assert.Contains(t, console.String(), s)
			}
			for _, s := range tt.absentConsole {
				assert.NotContains(t, console.String(), s)
			}
			data, err := os.ReadFile(filepath.Join(dir, LogFile))
			require.NoError(t, err)
			assert.Contains(t, string(data), "visible info")
		})
	}
}

func TestNew_NoWriters(t *testing.T) {
	t.Parallel()

	logger, closer, err := New(Options{Silent: true})
	require.NoError(t, err)
	logger.Info().Msg("dropped")
	assert.NoError(t, closer.Close())
}
