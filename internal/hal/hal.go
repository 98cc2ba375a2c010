// Package hal exposes the IR transmitter the way a hardware module loader
// expects it: a [Module] carrying the module metadata and opening [Device]
// handles by name.
package hal

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/MrWong99/consumerir/pkg/consumerir"
)

// Info is the module metadata block.
type Info struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Author string `json:"author"`

	// ModuleAPIVersion is the consumer IR module API version, major.minor.
	ModuleAPIVersion string `json:"module_api_version"`
}

// DefaultInfo describes this HAL.
var DefaultInfo = Info{
	ID:               "consumerir",
	Name:             "LG Audio IRRC IR HAL",
	Author:           "The LineageOS Project",
	ModuleAPIVersion: "1.0",
}

// Transmitter runs a transmission. [transmit.Orchestrator] implements it.
type Transmitter interface {
	Transmit(ctx context.Context, carrierFreq int32, pattern []int32) error
}

// Module opens transmitter handles.
type Module struct {
	Info Info
	tx   Transmitter
}

// NewModule returns a module whose devices transmit through tx. A nil tx
// yields a module that refuses every Open.
func NewModule(tx Transmitter) *Module {
	return &Module{Info: DefaultInfo, tx: tx}
}

// Open returns a new handle for the device called name, which must be
// [consumerir.TransmitterName].
func (m *Module) Open(name string) (*Device, error) {
	if name != consumerir.TransmitterName {
		return nil, fmt.Errorf("%w: unknown device %q", consumerir.ErrInvalidArgument, name)
	}
	if m.tx == nil {
		return nil, fmt.Errorf("%w: no transmitter backend", consumerir.ErrInvalidArgument)
	}
	return &Device{tx: m.tx}, nil
}

// Device is an open transmitter handle. Handles are cheap; every handle of
// a module shares the same transmitter and its lock.
type Device struct {
	tx     Transmitter
	closed atomic.Bool
}

var _ consumerir.Device = (*Device)(nil)

// Transmit implements [consumerir.Device]. A closed handle fails with
// [consumerir.ErrClosed] without touching the hardware.
func (d *Device) Transmit(ctx context.Context, carrierFreq int32, pattern []int32) error {
	if d.closed.Load() {
		return &consumerir.TransmitError{Reason: consumerir.ReasonClosed, Err: consumerir.ErrClosed}
	}
	return d.tx.Transmit(ctx, carrierFreq, pattern)
}

// NumCarrierFreqs implements [consumerir.Device].
func (d *Device) NumCarrierFreqs() int { return consumerir.NumCarrierFreqs() }

// CarrierFreqs implements [consumerir.Device].
func (d *Device) CarrierFreqs(limit int) []consumerir.FreqRange {
	return consumerir.CarrierFreqs(limit)
}

// Close implements [consumerir.Device]. It is idempotent and always
// returns nil.
func (d *Device) Close() error {
	d.closed.Store(true)
	return nil
}
