// Package consumerir defines the caller-facing contract of the consumer IR
// hardware abstraction layer.
//
// It holds three things:
//
//   - The carrier frequency registry ([NumCarrierFreqs], [CarrierFreqs]), a
//     compiled-in table of the ranges the PWM driver accepts.
//   - The [Device] interface a host framework uses once it has opened the
//     transmitter.
//   - The transmit status taxonomy ([Reason], [TransmitError], [StatusCode]).
//
// The package has no hardware dependencies so that hosts and clients can
// import it without pulling in the ALSA or ioctl layers.
package consumerir

import "context"

// TransmitterName is the only device name a HAL module accepts in Open.
const TransmitterName = "transmitter"

// FreqRange is an inclusive range of carrier frequencies in Hz.
type FreqRange struct {
	Min int32 `json:"min"`
	Max int32 `json:"max"`
}

// carrierFreqs mirrors the limits of the IRRC PWM kernel driver.
var carrierFreqs = [...]FreqRange{
	{Min: 23000, Max: 1200000},
}

// NumCarrierFreqs returns the number of supported carrier frequency ranges.
func NumCarrierFreqs() int {
	return len(carrierFreqs)
}

// CarrierFreqs returns up to limit supported ranges in table order. The
// returned slice is a copy; a non-positive limit yields an empty slice.
func CarrierFreqs(limit int) []FreqRange {
	n := min(max(limit, 0), len(carrierFreqs))
	out := make([]FreqRange, n)
	copy(out, carrierFreqs[:n])
	return out
}

// Device is an opened consumer IR transmitter.
//
// Transmit blocks until the whole pattern has been played or the sequence
// aborted. Pattern entries are microsecond durations alternating pulse,
// space, pulse, … starting with a pulse at index 0.
type Device interface {
	// Transmit plays pattern at carrierFreq Hz. It returns nil on success or
	// an error for which [StatusCode] yields the legacy negative status.
	Transmit(ctx context.Context, carrierFreq int32, pattern []int32) error

	// NumCarrierFreqs returns the number of supported carrier ranges.
	NumCarrierFreqs() int

	// CarrierFreqs returns up to limit supported carrier ranges.
	CarrierFreqs(limit int) []FreqRange

	// Close releases the handle. It always returns nil.
	Close() error
}
