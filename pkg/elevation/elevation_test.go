package elevation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testDirs = ProtectedDirs{
	ProgramFiles:    `C:\Program Files`,
	ProgramFilesX86: `C:\Program Files (x86)`,
	Windows:         `C:\Windows`,
	SystemDrive:     `C:`,
}

func TestIsProtectedPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{name: "program files", path: `C:\Program Files\EA Games\Mass Effect Legendary Edition`, expected: true},
		{name: "program files x86 lower case", path: `c:\program files (x86)\Origin Games\Mass Effect`, expected: true},
		{name: "program files itself", path: `C:\Program Files\`, expected: true},
		{name: "windows dir", path: `C:\Windows\Temp`, expected: true},
		{name: "direct child of system drive", path: `C:\Games`, expected: true},
		{name: "direct child with trailing separator", path: `C:\Games\`, expected: true},
		{name: "forward slashes", path: `C:/Games`, expected: true},
		{name: "nested below system drive", path: `C:\Games\Mass Effect`, expected: false},
		{name: "other drive", path: `D:\Games`, expected: false},
		{name: "program files lookalike", path: `C:\Program Files Extra\Game\Bin`, expected: false},
		{name: "empty", path: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, IsProtectedPath(tt.path, testDirs))
		})
	}
}

func TestIsProtectedPath_NoDirsConfigured(t *testing.T) {
	t.Parallel()

	assert.False(t, IsProtectedPath(`C:\Games`, ProtectedDirs{}))
}

func TestChecker_RequiresElevation(t *testing.T) {
	t.Parallel()

	notElevated := NewWithDirs(testDirs, func() bool { return false })
	assert.True(t, notElevated.RequiresElevation(`C:\Program Files\EA Games`))
	assert.False(t, notElevated.RequiresElevation(`D:\Games\Mass Effect`))

	elevated := NewWithDirs(testDirs, func() bool { return true })
	assert.True(t, elevated.IsElevated())
	assert.False(t, elevated.RequiresElevation(`C:\Program Files\EA Games`))
}
