// Package mock provides an in-memory implementation of [consumerir.Device]
// for tests of code that sits on top of the HAL, such as the host service.
//
// The mock records every Transmit call and returns the configured error.
// Queries delegate to the real carrier frequency registry unless
// CarrierFreqsResult is set.
package mock

import (
	"context"
	"slices"
	"sync"

	"github.com/MrWong99/consumerir/pkg/consumerir"
)

// TransmitCall records the arguments of a single [Device.Transmit] call.
type TransmitCall struct {
	CarrierFreq int32
	Pattern     []int32
}

// Device is a mock implementation of [consumerir.Device].
type Device struct {
	mu sync.Mutex

	// TransmitError is returned by Transmit.
	TransmitError error

	// CarrierFreqsResult overrides the registry when non-nil.
	CarrierFreqsResult []consumerir.FreqRange

	// TransmitCalls records every Transmit invocation.
	TransmitCalls []TransmitCall

	// CallCountClose records how many times Close was called.
	CallCountClose int
}

var _ consumerir.Device = (*Device)(nil)

// Transmit implements [consumerir.Device].
func (d *Device) Transmit(_ context.Context, carrierFreq int32, pattern []int32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.TransmitCalls = append(d.TransmitCalls, TransmitCall{
		CarrierFreq: carrierFreq,
		Pattern:     slices.Clone(pattern),
	})
	return d.TransmitError
}

// NumCarrierFreqs implements [consumerir.Device].
func (d *Device) NumCarrierFreqs() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.CarrierFreqsResult != nil {
		return len(d.CarrierFreqsResult)
	}
	return consumerir.NumCarrierFreqs()
}

// CarrierFreqs implements [consumerir.Device].
func (d *Device) CarrierFreqs(limit int) []consumerir.FreqRange {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.CarrierFreqsResult != nil {
		n := min(max(limit, 0), len(d.CarrierFreqsResult))
		return slices.Clone(d.CarrierFreqsResult[:n])
	}
	return consumerir.CarrierFreqs(limit)
}

// Close implements [consumerir.Device].
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.CallCountClose++
	return nil
}

// Calls returns a snapshot of the recorded Transmit calls.
func (d *Device) Calls() []TransmitCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.TransmitCalls)
}
