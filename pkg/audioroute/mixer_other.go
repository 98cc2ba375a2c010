//go:build !(linux && (amd64 || arm64 || arm))

package audioroute

// OpenMixer always fails with [ErrUnsupported] on this platform.
func OpenMixer(card uint) (Mixer, error) {
	return nil, ErrUnsupported
}

// Init always fails with [ErrUnsupported] on this platform.
func Init(card uint, xmlPath string) (Router, error) {
	return nil, ErrUnsupported
}
