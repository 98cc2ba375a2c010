//go:build linux

package pcm

import (
	"fmt"

	"github.com/gen2brain/alsa"
)

type alsaStream struct {
	pcm  *alsa.PCM
	name string
}

// Open opens hw:card,device with cfg. The stream talks to the kernel
// directly; ALSA plugins are not available.
func Open(card, device uint, flags Flag, cfg Config) (Stream, error) {
	format, err := alsaFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("hw:%d,%d", card, device)
	p, err := alsa.PcmOpen(card, device, alsaFlags(flags), &alsa.Config{
		Channels:       cfg.Channels,
		Rate:           cfg.Rate,
		PeriodSize:     cfg.PeriodSize,
		PeriodCount:    cfg.PeriodCount,
		Format:         format,
		StartThreshold: cfg.StartThreshold,
		StopThreshold:  cfg.StopThreshold,
		AvailMin:       cfg.AvailMin,
	})
	if err != nil {
		return nil, fmt.Errorf("pcm: open %s: %w", name, err)
	}
	return &alsaStream{pcm: p, name: name}, nil
}

func alsaFlags(f Flag) alsa.PcmFlag {
	out := alsa.PCM_OUT
	if f&FlagIn != 0 {
		out = alsa.PCM_IN
	}
	if f&FlagMonotonic != 0 {
		out |= alsa.PCM_MONOTONIC
	}
	if f&FlagNonblock != 0 {
		out |= alsa.PCM_NONBLOCK
	}
	return out
}

func alsaFormat(f Format) (alsa.PcmFormat, error) {
	switch f {
	case FormatS16LE:
		return alsa.PCM_FORMAT_S16_LE, nil
	case FormatS32LE:
		return alsa.PCM_FORMAT_S32_LE, nil
	case FormatS8:
		return alsa.PCM_FORMAT_S8, nil
	default:
		return 0, fmt.Errorf("pcm: unsupported format %s", f)
	}
}

func (s *alsaStream) IsReady() bool { return s.pcm.IsReady() }

func (s *alsaStream) LastError() string { return s.pcm.Error() }

func (s *alsaStream) BufferSize() uint32 { return s.pcm.BufferSize() }

func (s *alsaStream) FramesToBytes(frames uint32) uint32 {
	return alsa.PcmFramesToBytes(s.pcm, frames)
}

func (s *alsaStream) Write(data []byte) error {
	if !s.IsReady() {
		return ErrNotReady
	}
	if len(data) == 0 {
		return nil
	}
	if err := s.pcm.Write(data); err != nil {
		return fmt.Errorf("pcm: write %d bytes to %s: %w", len(data), s.name, err)
	}
	return nil
}

func (s *alsaStream) Close() error {
	if err := s.pcm.Close(); err != nil {
		return fmt.Errorf("pcm: close %s: %w", s.name, err)
	}
	return nil
}
