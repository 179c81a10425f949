//go:build !windows

package elevation

func isElevated() bool {
	return false
}

func defaultProtectedDirs() ProtectedDirs {
	return ProtectedDirs{}
}

func CanRelaunch() bool {
	return false
}

func Relaunch(_ []string) error {
	return ErrNotSupported
}

func ShellExecuteElevated(_ string, _ []string, _ string) error {
	return ErrNotSupported
}
