// Package pcm opens and writes ALSA PCM playback streams.
//
// The API is shaped after tinyalsa: a stream is opened on a card/device pair
// with a fixed [Config], reports its buffer size in frames, and accepts raw
// interleaved sample bytes. On Linux the implementation talks to the kernel
// directly through github.com/gen2brain/alsa; other platforms get a stub
// that returns [ErrUnsupported].
package pcm

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned by [Open] on platforms without ALSA.
var ErrUnsupported = errors.New("pcm: not supported on this platform")

// ErrNotReady is returned by writes on a stream that failed to open.
var ErrNotReady = errors.New("pcm: stream not ready")

// Format is a PCM sample format.
type Format int

const (
	FormatS16LE Format = iota
	FormatS32LE
	FormatS8
)

// SampleBytes returns the storage size of one sample.
func (f Format) SampleBytes() int {
	switch f {
	case FormatS16LE:
		return 2
	case FormatS32LE:
		return 4
	case FormatS8:
		return 1
	default:
		return 0
	}
}

// String returns the ALSA name of the format.
func (f Format) String() string {
	switch f {
	case FormatS16LE:
		return "S16_LE"
	case FormatS32LE:
		return "S32_LE"
	case FormatS8:
		return "S8"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// Flag modifies how a stream is opened.
type Flag uint32

const (
	// FlagOut opens a playback stream. It is the zero value.
	FlagOut Flag = 0
	// FlagIn opens a capture stream.
	FlagIn Flag = 1 << iota
	// FlagMonotonic requests monotonic timestamps.
	FlagMonotonic
	// FlagNonblock makes writes return instead of waiting for buffer space.
	FlagNonblock
)

// Config describes the hardware and software parameters of a stream.
type Config struct {
	Channels    uint32
	Rate        uint32
	PeriodSize  uint32
	PeriodCount uint32
	Format      Format

	StartThreshold uint32
	StopThreshold  uint32
	AvailMin       uint32
}

// FrameBytes returns the size of one interleaved frame.
func (c Config) FrameBytes() int {
	return int(c.Channels) * c.Format.SampleBytes()
}

// Stream is an open PCM stream.
type Stream interface {
	// IsReady reports whether the stream was opened and configured.
	IsReady() bool

	// LastError describes the most recent failure on the stream.
	LastError() string

	// BufferSize returns the ring buffer size in frames.
	BufferSize() uint32

	// FramesToBytes converts a frame count into bytes for this stream.
	FramesToBytes(frames uint32) uint32

	// Write plays data, which must hold whole frames. It blocks until the
	// data has been queued unless the stream was opened non-blocking.
	Write(data []byte) error

	// Close releases the stream.
	Close() error
}

// Opener opens a stream on card/device.
type Opener func(card, device uint, flags Flag, cfg Config) (Stream, error)
