//go:build !linux

package pcm

// Open always fails with [ErrUnsupported] outside Linux.
func Open(card, device uint, flags Flag, cfg Config) (Stream, error) {
	return nil, ErrUnsupported
}
