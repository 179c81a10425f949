//go:build !windows

package detect

// NewRegistryLookup returns nil, there is no registry to consult outside of Windows
func NewRegistryLookup() RegistryLookup {
	return nil
}
