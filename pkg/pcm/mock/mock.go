// Package mock provides in-memory implementations of [pcm.Stream] and a
// [pcm.Opener] for unit tests.
//
// The Stream records every write as a [WriteCall] carrying the byte length
// and whether the payload was pure silence, which is enough to reconstruct a
// pulse/space sequence without keeping the sample data around.
package mock

import (
	"sync"

	"github.com/MrWong99/consumerir/pkg/pcm"
)

// WriteCall records one [Stream.Write] invocation.
type WriteCall struct {
	// Len is the number of bytes written.
	Len int
	// Silent is true when every byte of the payload was zero.
	Silent bool
}

// Stream is a mock implementation of [pcm.Stream].
type Stream struct {
	mu sync.Mutex

	// NotReady makes IsReady report false.
	NotReady bool

	// LastErrorResult is returned by LastError.
	LastErrorResult string

	// BufferFrames is returned by BufferSize.
	BufferFrames uint32

	// FrameBytes is the per-frame size used by FramesToBytes. Defaults to 4.
	FrameBytes uint32

	// WriteError, when set, is consulted before every write with the
	// zero-based index of that write. A non-nil result fails the write.
	WriteError func(n int) error

	// CloseError is returned by Close.
	CloseError error

	// Hook receives a label for every call.
	Hook func(call string)

	// Writes records every Write call, including failed ones.
	Writes []WriteCall

	// CallCountClose records how many times Close was called.
	CallCountClose int
}

var _ pcm.Stream = (*Stream)(nil)

// IsReady implements [pcm.Stream].
func (s *Stream) IsReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.NotReady
}

// LastError implements [pcm.Stream].
func (s *Stream) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.LastErrorResult
}

// BufferSize implements [pcm.Stream].
func (s *Stream) BufferSize() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.BufferFrames
}

// FramesToBytes implements [pcm.Stream].
func (s *Stream) FramesToBytes(frames uint32) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	fb := s.FrameBytes
	if fb == 0 {
		fb = 4
	}
	return frames * fb
}

// Write implements [pcm.Stream].
func (s *Stream) Write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.Writes)
	s.Writes = append(s.Writes, WriteCall{Len: len(data), Silent: silent(data)})
	if s.Hook != nil {
		if silent(data) {
			s.Hook("pcm.write.space")
		} else {
			s.Hook("pcm.write.pulse")
		}
	}
	if s.WriteError != nil {
		return s.WriteError(n)
	}
	return nil
}

// Close implements [pcm.Stream].
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CallCountClose++
	if s.Hook != nil {
		s.Hook("pcm.close")
	}
	return s.CloseError
}

// WriteCalls returns a snapshot of the recorded writes.
func (s *Stream) WriteCalls() []WriteCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]WriteCall, len(s.Writes))
	copy(out, s.Writes)
	return out
}

func silent(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}

// OpenCall records the arguments of one Open call.
type OpenCall struct {
	Card   uint
	Device uint
	Flags  pcm.Flag
	Config pcm.Config
}

// Opener hands out Stream (or OpenError) and records the arguments.
type Opener struct {
	mu sync.Mutex

	// Stream is returned by Open when OpenError is nil.
	Stream *Stream

	// OpenError is returned by Open.
	OpenError error

	// Hook receives "pcm.open" for every call.
	Hook func(call string)

	// Calls records every Open invocation.
	Calls []OpenCall
}

// Open matches [pcm.Opener].
func (o *Opener) Open(card, device uint, flags pcm.Flag, cfg pcm.Config) (pcm.Stream, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Calls = append(o.Calls, OpenCall{Card: card, Device: device, Flags: flags, Config: cfg})
	if o.Hook != nil {
		o.Hook("pcm.open")
	}
	if o.OpenError != nil {
		return nil, o.OpenError
	}
	return o.Stream, nil
}
