//go:build windows

package elevation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/windows"
)

func isElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}

func defaultProtectedDirs() ProtectedDirs {
	windowsDir := os.Getenv("SystemRoot")
	if windowsDir == "" {
		windowsDir = os.Getenv("windir")
	}

	return ProtectedDirs{
		ProgramFiles:    os.Getenv("ProgramFiles"),
		ProgramFilesX86: os.Getenv("ProgramFiles(x86)"),
		Windows:         windowsDir,
		SystemDrive:     os.Getenv("SystemDrive"),
	}
}

func CanRelaunch() bool {
	return true
}

// Relaunch starts the current executable again through the "runas" verb, prompting for elevation.
// The caller is expected to exit after a successful call.
func Relaunch(args []string) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to determine current executable: %w", err)
	}

	return ShellExecuteElevated(exe, args, filepath.Dir(exe))
}

// ShellExecuteElevated starts exe with the "runas" verb. The started process is not tracked.
func ShellExecuteElevated(exe string, args []string, dir string) error {
	verb, err := windows.UTF16PtrFromString("runas")
	if err != nil {
		return err
	}
	file, err := windows.UTF16PtrFromString(exe)
	if err != nil {
		return err
	}
	params, err := windows.UTF16PtrFromString(joinArgs(args))
	if err != nil {
		return err
	}
	cwd, err := windows.UTF16PtrFromString(dir)
	if err != nil {
		return err
	}

	if err = windows.ShellExecute(0, verb, file, params, cwd, windows.SW_NORMAL); err != nil {
		return fmt.Errorf("failed to start %s elevated: %w", filepath.Base(exe), err)
	}

	return nil
}

func joinArgs(args []string) string {
	quoted := make([]string, 0, len(args))
	for _, arg := range args {
		quoted = append(quoted, windows.EscapeArg(arg))
	}
	return strings.Join(quoted, " ")
}
