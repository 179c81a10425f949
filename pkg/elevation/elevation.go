package elevation

import (
	"errors"
	"strings"
)

var (
	ErrNotSupported = errors.New("elevation is not supported on this platform")
)

// ProtectedDirs are the directories a non-elevated process cannot write to
type ProtectedDirs struct {
	ProgramFiles    string
	ProgramFilesX86 string
	Windows         string
	SystemDrive     string
}

type Checker struct {
	dirs     ProtectedDirs
	elevated func() bool
}

func New() *Checker {
	return &Checker{
		dirs:     defaultProtectedDirs(),
		elevated: isElevated,
	}
}

func NewWithDirs(dirs ProtectedDirs, elevated func() bool) *Checker {
	return &Checker{
		dirs:     dirs,
		elevated: elevated,
	}
}

func (c *Checker) IsElevated() bool {
	return c.elevated()
}

// RequiresElevation reports whether launching something under path needs an elevated process
func (c *Checker) RequiresElevation(path string) bool {
	if c.IsElevated() {
		return false
	}
	return IsProtectedPath(path, c.dirs)
}

// IsProtectedPath uses Windows path semantics regardless of the host platform
func IsProtectedPath(path string, dirs ProtectedDirs) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}

	normalized := normalize(path)
	for _, dir := range []string{dirs.ProgramFiles, dirs.ProgramFilesX86, dirs.Windows} {
		if dir != "" && isWithin(normalized, normalize(dir)) {
			return true
		}
	}

	// Direct children of the system drive root (C:\Games) are protected as well
	drive := normalize(dirs.SystemDrive)
	if drive == "" {
		return false
	}
	drive = strings.TrimSuffix(drive, `\`) + `\`
	if !strings.HasPrefix(normalized+`\`, drive) {
		return false
	}
	rest := strings.TrimPrefix(normalized, strings.TrimSuffix(drive, `\`))
	rest = strings.Trim(rest, `\`)
	return !strings.Contains(rest, `\`)
}

func normalize(path string) string {
	p := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(path), "/", `\`))
	if len(p) > 3 || !strings.HasSuffix(p, `:\`) {
		p = strings.TrimRight(p, `\`)
	}
	return p
}

func isWithin(path, dir string) bool {
	if path == dir {
		return true
	}
	return strings.HasPrefix(path, strings.TrimSuffix(dir, `\`)+`\`)
}
