//go:build !linux && !darwin && !windows

package clip

// New returns the in-process Memory backend; there is no system clipboard
// integration on this platform.
func New() Backend {
	return NewMemory()
}
