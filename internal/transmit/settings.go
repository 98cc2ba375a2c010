package transmit

import (
	"math"

	"github.com/MrWong99/consumerir/pkg/irrc"
	"github.com/MrWong99/consumerir/pkg/pcm"
)

// Fixed stream parameters. The blaster hardware is tuned for exactly this
// format, so none of these are configurable.
const (
	SampleRate     = 48000
	Channels       = 2
	SampleBytes    = 2 // S16_LE
	BytesPerFrame  = Channels * SampleBytes
	PeriodSize     = 256
	PeriodCount    = 2
	StartThreshold = 64
	AvailMin       = 64

	// PrimeWrites is the number of full silent buffers written after PWM
	// start. The blaster does not emit reliably without them.
	PrimeWrites = 4

	// pulseLevel is the sample value filling the pulse buffer.
	pulseLevel = math.MaxInt16
)

// Default hardware locations on the LG G3 family.
const (
	DefaultMixerXML       = "/system/etc/mixer_paths.xml"
	DefaultLineoutPath    = "lg-irrc-lineout"
	DefaultPlaybackPath   = "lg-irrc-playback"
	DefaultMaxBufferBytes = 1 << 20
)

// Settings locates the hardware used by a transmission. A snapshot is taken
// when a transmission starts; changes apply to the next one.
type Settings struct {
	// DevicePath is the IRRC PWM character device.
	DevicePath string

	// MixerCard is the ALSA card whose controls carry the routing paths.
	MixerCard uint

	// MixerXML is the mixer_paths.xml file describing the routing paths.
	MixerXML string

	// LineoutPath and PlaybackPath are applied, in this order, before the
	// stream is opened.
	LineoutPath  string
	PlaybackPath string

	// PCMCard and PCMDevice select the playback stream.
	PCMCard   uint
	PCMDevice uint

	// MaxBufferBytes caps the size the default allocator will hand out.
	MaxBufferBytes int
}

// DefaultSettings returns the settings of the stock device.
func DefaultSettings() Settings {
	return Settings{
		DevicePath:     irrc.DefaultPath,
		MixerCard:      0,
		MixerXML:       DefaultMixerXML,
		LineoutPath:    DefaultLineoutPath,
		PlaybackPath:   DefaultPlaybackPath,
		PCMCard:        0,
		PCMDevice:      1,
		MaxBufferBytes: DefaultMaxBufferBytes,
	}
}

// StreamConfig returns the fixed PCM configuration used for every
// transmission.
func StreamConfig() pcm.Config {
	return pcm.Config{
		Channels:       Channels,
		Rate:           SampleRate,
		PeriodSize:     PeriodSize,
		PeriodCount:    PeriodCount,
		Format:         pcm.FormatS16LE,
		StartThreshold: StartThreshold,
		StopThreshold:  math.MaxInt32,
		AvailMin:       AvailMin,
	}
}

// streamFlags are the open flags of the playback stream.
const streamFlags = pcm.FlagOut | pcm.FlagMonotonic

// EntryBytes converts a pattern entry in microseconds to a PCM byte count.
// The arithmetic is integer and ordered as multiply, divide, multiply, so a
// 560 µs entry yields 26 frames (104 bytes), not 26.88. Negative durations
// give negative counts; callers clamp them.
func EntryBytes(durationUs int32) int64 {
	return int64(durationUs) * SampleRate / 1_000_000 * Channels * SampleBytes
}
