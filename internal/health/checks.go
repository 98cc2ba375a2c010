package health

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/MrWong99/consumerir/internal/transmit"
	"github.com/MrWong99/consumerir/pkg/audioroute"
)

// ErrNotDevice is returned by [DeviceNode] when the path exists but is not a
// character device.
var ErrNotDevice = errors.New("health: not a character device")

// DeviceNode checks that the PWM device node named by the current settings
// exists and is a character device. It does not open the node, so it never
// competes with a transmission.
func DeviceNode(settings func() transmit.Settings) Checker {
	return Checker{
		Name: "irrc_device",
		Check: func(context.Context) error {
			path := settings().DevicePath
			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			if info.Mode()&fs.ModeCharDevice == 0 {
				return fmt.Errorf("%w: %s", ErrNotDevice, path)
			}
			return nil
		},
	}
}

// MixerPaths checks that the mixer XML named by the current settings parses
// and defines both routing paths a transmission applies.
func MixerPaths(settings func() transmit.Settings) Checker {
	return Checker{
		Name: "mixer_paths",
		Check: func(context.Context) error {
			s := settings()
			f, err := os.Open(s.MixerXML)
			if err != nil {
				return err
			}
			defer f.Close()
			return audioroute.Check(f, s.LineoutPath, s.PlaybackPath)
		},
	}
}
