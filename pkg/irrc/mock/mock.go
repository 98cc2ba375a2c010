// Package mock provides an in-memory implementation of [irrc.Device] and an
// [irrc.Opener] for unit tests.
//
// All mocks are safe for concurrent use. Set the exported error fields
// before use; inspect the recorded calls afterwards. Hook, when set, is
// invoked with a short call label ("irrc.start", "irrc.stop", …) so tests can
// assert the interleaving of calls across several collaborators.
package mock

import (
	"sync"

	"github.com/MrWong99/consumerir/pkg/irrc"
)

// Device is a mock implementation of [irrc.Device].
type Device struct {
	mu sync.Mutex

	// StartError is returned by Start.
	StartError error

	// StopError is returned by Stop.
	StopError error

	// CloseError is returned by Close.
	CloseError error

	// Hook receives a label for every call.
	Hook func(call string)

	// StartCalls records the params passed to Start.
	StartCalls []irrc.Params

	// StopCalls records the params passed to Stop.
	StopCalls []irrc.Params

	// CallCountClose records how many times Close was called.
	CallCountClose int
}

var _ irrc.Device = (*Device)(nil)

// Start implements [irrc.Device].
func (d *Device) Start(p irrc.Params) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.StartCalls = append(d.StartCalls, p)
	d.hook("irrc.start")
	return d.StartError
}

// Stop implements [irrc.Device].
func (d *Device) Stop(p irrc.Params) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.StopCalls = append(d.StopCalls, p)
	d.hook("irrc.stop")
	return d.StopError
}

// Close implements [irrc.Device].
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.CallCountClose++
	d.hook("irrc.close")
	return d.CloseError
}

func (d *Device) hook(call string) {
	if d.Hook != nil {
		d.Hook(call)
	}
}

// Opener hands out Device (or OpenError) and records the requested paths.
type Opener struct {
	mu sync.Mutex

	// Device is returned by Open when OpenError is nil.
	Device *Device

	// OpenError is returned by Open.
	OpenError error

	// Hook receives "irrc.open" for every call.
	Hook func(call string)

	// Paths records the path of every Open call.
	Paths []string
}

// Open matches [irrc.Opener].
func (o *Opener) Open(path string) (irrc.Device, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Paths = append(o.Paths, path)
	if o.Hook != nil {
		o.Hook("irrc.open")
	}
	if o.OpenError != nil {
		return nil, o.OpenError
	}
	return o.Device, nil
}
