//go:build !linux

package irrc

// Open always fails with [ErrUnsupported] outside Linux.
func Open(path string) (Device, error) {
	return nil, ErrUnsupported
}
