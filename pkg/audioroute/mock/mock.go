// Package mock provides in-memory implementations of [audioroute.Router],
// [audioroute.Mixer] and an [audioroute.Opener] for unit tests.
package mock

import (
	"sync"

	"github.com/MrWong99/consumerir/pkg/audioroute"
)

// Router is a mock implementation of [audioroute.Router].
type Router struct {
	mu sync.Mutex

	// ApplyPathError, when set, is consulted for every ApplyPath call.
	ApplyPathError func(name string) error

	// UpdateError is returned by every Update call.
	UpdateError error

	// CloseError is returned by Close.
	CloseError error

	// Hook receives "route.apply:<name>", "route.update" or "route.close".
	Hook func(call string)

	// AppliedPaths records the name passed to every ApplyPath call.
	AppliedPaths []string

	// CallCountUpdate records how many times Update was called.
	CallCountUpdate int

	// CallCountClose records how many times Close was called.
	CallCountClose int
}

var _ audioroute.Router = (*Router)(nil)

// ApplyPath implements [audioroute.Router].
func (r *Router) ApplyPath(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.AppliedPaths = append(r.AppliedPaths, name)
	r.hook("route.apply:" + name)
	if r.ApplyPathError != nil {
		return r.ApplyPathError(name)
	}
	return nil
}

// Update implements [audioroute.Router].
func (r *Router) Update() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CallCountUpdate++
	r.hook("route.update")
	return r.UpdateError
}

// Close implements [audioroute.Router].
func (r *Router) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CallCountClose++
	r.hook("route.close")
	return r.CloseError
}

func (r *Router) hook(call string) {
	if r.Hook != nil {
		r.Hook(call)
	}
}

// OpenCall records the arguments of one Open call.
type OpenCall struct {
	Card    uint
	XMLPath string
}

// Opener hands out Router (or OpenError) and records the arguments.
type Opener struct {
	mu sync.Mutex

	// Router is returned by Open when OpenError is nil.
	Router *Router

	// OpenError is returned by Open.
	OpenError error

	// Hook receives "route.init" for every call.
	Hook func(call string)

	// Calls records every Open invocation.
	Calls []OpenCall
}

// Open matches [audioroute.Opener].
func (o *Opener) Open(card uint, xmlPath string) (audioroute.Router, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Calls = append(o.Calls, OpenCall{Card: card, XMLPath: xmlPath})
	if o.Hook != nil {
		o.Hook("route.init")
	}
	if o.OpenError != nil {
		return nil, o.OpenError
	}
	return o.Router, nil
}

// Mixer is a mock implementation of [audioroute.Mixer]. It keeps the last
// value written to each control.
type Mixer struct {
	mu sync.Mutex

	// SetError, when set, is consulted for every Set call.
	SetError func(s audioroute.Setting) error

	// CloseError is returned by Close.
	CloseError error

	// Sets records every setting passed to Set, including failed ones.
	Sets []audioroute.Setting

	// CallCountClose records how many times Close was called.
	CallCountClose int

	values map[string]string
}

var _ audioroute.Mixer = (*Mixer)(nil)

// Set implements [audioroute.Mixer].
func (m *Mixer) Set(s audioroute.Setting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sets = append(m.Sets, s)
	if m.SetError != nil {
		if err := m.SetError(s); err != nil {
			return err
		}
	}
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[s.Control] = s.Value
	return nil
}

// Value returns the last value successfully written to control.
func (m *Mixer) Value(control string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[control]
	return v, ok
}

// Close implements [audioroute.Mixer].
func (m *Mixer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCountClose++
	return m.CloseError
}
