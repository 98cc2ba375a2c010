// Package irrc drives the IRRC PWM kernel driver that gates the IR LED.
//
// The driver exposes a character device accepting two ioctls: START, which
// enables the PWM at a given carrier frequency and duty cycle, and STOP,
// which disables it. While the PWM is enabled the LED is modulated whenever
// the audio path carries a non-silent signal.
package irrc

import "errors"

// DefaultPath is the device node created by the LG IRRC driver.
const DefaultPath = "/dev/msm_IRRC_pcm_dec"

// DefaultDuty is the duty cycle, in percent, used for every transmission.
const DefaultDuty = 50

// ErrUnsupported is returned by [Open] on platforms without the driver.
var ErrUnsupported = errors.New("irrc: not supported on this platform")

// ErrInUse is returned by [Open] when another process holds the node's lock.
var ErrInUse = errors.New("irrc: device in use")

// Params is the payload of both START and STOP. Its layout matches the
// driver's struct of three C ints.
type Params struct {
	Frequency int32
	Duty      int32
	// Length is unused by the driver and always zero.
	Length int32
}

// Device is an open handle on the PWM driver.
type Device interface {
	// Start enables the PWM with p.
	Start(p Params) error
	// Stop disables the PWM. The driver ignores the payload but expects one.
	Stop(p Params) error
	// Close releases the handle.
	Close() error
}

// Opener opens the driver's device node at path.
type Opener func(path string) (Device, error)
