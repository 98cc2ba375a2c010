package transmit

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/MrWong99/consumerir/pkg/audioroute"
	"github.com/MrWong99/consumerir/pkg/consumerir"
	"github.com/MrWong99/consumerir/pkg/irrc"
	"github.com/MrWong99/consumerir/pkg/pcm"
)

// release undoes one acquisition.
type release struct {
	name string
	fn   func() error
}

// session holds the resources of a single transmission. It is never reused.
type session struct {
	ctx      context.Context
	o        *Orchestrator
	settings Settings
	log      *slog.Logger

	dev    irrc.Device
	route  audioroute.Router
	stream pcm.Stream
	space  []byte
	pulse  []byte

	// releases is unwound last-in first-out exactly once.
	releases []release
}

func (s *session) push(name string, fn func() error) {
	s.releases = append(s.releases, release{name: name, fn: fn})
}

func (s *session) unwind() {
	for i := len(s.releases) - 1; i >= 0; i-- {
		r := s.releases[i]
		if err := r.fn(); err != nil {
			s.diagnose(Diagnostic{Kind: DiagRelease, Subject: r.name, Index: -1, Err: err})
		}
	}
	s.releases = nil
}

func (s *session) diagnose(d Diagnostic) {
	s.log.Warn("transmit: "+string(d.Kind), "subject", d.Subject, "index", d.Index, "err", d.Err)
	s.o.metrics.RecordDiagnostic(s.ctx, string(d.Kind))
	if s.o.onDiagnostic != nil {
		s.o.onDiagnostic(d)
	}
}

func (s *session) run(carrierFreq int32, pattern []int32) (err error) {
	defer s.unwind()

	if err := s.acquire(); err != nil {
		return err
	}

	params := irrc.Params{Frequency: carrierFreq, Duty: irrc.DefaultDuty}
	if startErr := s.dev.Start(params); startErr != nil {
		s.log.Error("transmit: pwm start failed", "err", startErr)
		return fail(consumerir.ReasonStart, startErr)
	}

	// From here on the PWM block is running and must be stopped on every
	// path.
	err = s.play(pattern)

	if stopErr := s.dev.Stop(params); stopErr != nil {
		if err == nil {
			s.log.Error("transmit: pwm stop failed", "err", stopErr)
			err = fail(consumerir.ReasonStop, stopErr)
		} else {
			s.diagnose(Diagnostic{Kind: DiagStop, Subject: s.settings.DevicePath, Index: -1, Err: stopErr})
		}
	}
	return err
}

// acquire opens the device, route and stream and allocates both buffers,
// pushing a release for each success.
func (s *session) acquire() error {
	dev, err := s.o.openDevice(s.settings.DevicePath)
	if err != nil {
		s.log.Error("transmit: open pwm device failed", "path", s.settings.DevicePath, "err", err)
		return fail(consumerir.ReasonDeviceOpen, err)
	}
	s.dev = dev
	s.push("pwm device", dev.Close)

	route, err := s.o.openRoute(s.settings.MixerCard, s.settings.MixerXML)
	if err != nil {
		s.log.Error("transmit: init audio route failed", "mixer_xml", s.settings.MixerXML, "err", err)
		return fail(consumerir.ReasonRouteInit, err)
	}
	s.route = route
	s.push("audio route", route.Close)

	// Routing is best effort: the legacy HAL never checked these.
	for _, path := range []string{s.settings.LineoutPath, s.settings.PlaybackPath} {
		if err := route.ApplyPath(path); err != nil {
			s.diagnose(Diagnostic{Kind: DiagRouteApply, Subject: path, Index: -1, Err: err})
		}
		if err := route.Update(); err != nil {
			s.diagnose(Diagnostic{Kind: DiagRouteCommit, Subject: path, Index: -1, Err: err})
		}
	}

	stream, err := s.o.openStream(s.settings.PCMCard, s.settings.PCMDevice, streamFlags, StreamConfig())
	if err != nil {
		s.log.Error("transmit: pcm open failed", "card", s.settings.PCMCard, "device", s.settings.PCMDevice, "err", err)
		return fail(consumerir.ReasonStreamOpen, err)
	}
	if stream == nil {
		return fail(consumerir.ReasonStreamOpen, pcm.ErrNotReady)
	}
	if !stream.IsReady() {
		notReady := fmt.Errorf("%w: %s", pcm.ErrNotReady, stream.LastError())
		s.log.Error("transmit: pcm open failed", "card", s.settings.PCMCard, "device", s.settings.PCMDevice, "err", notReady)
		if err := stream.Close(); err != nil {
			s.diagnose(Diagnostic{Kind: DiagRelease, Subject: "pcm stream", Index: -1, Err: err})
		}
		return fail(consumerir.ReasonStreamOpen, notReady)
	}
	s.stream = stream
	s.push("pcm stream", stream.Close)

	size := int(stream.FramesToBytes(stream.BufferSize()))

	space, err := s.o.alloc.Alloc(size)
	if err != nil {
		s.log.Error("transmit: allocate space buffer failed", "size", size, "err", err)
		return fail(consumerir.ReasonSpaceBufferAlloc, err)
	}
	s.space = space
	s.push("space buffer", func() error { s.o.alloc.Free(space); return nil })

	pulse, err := s.o.alloc.Alloc(size)
	if err != nil {
		s.log.Error("transmit: allocate pulse buffer failed", "size", size, "err", err)
		return fail(consumerir.ReasonPulseBufferAlloc, err)
	}
	s.pulse = pulse
	s.push("pulse buffer", func() error { s.o.alloc.Free(pulse); return nil })

	fillPulse(pulse)
	return nil
}

// fillPulse sets every whole S16_LE sample of buf to full scale.
func fillPulse(buf []byte) {
	for i := 0; i+SampleBytes <= len(buf); i += SampleBytes {
		binary.LittleEndian.PutUint16(buf[i:], pulseLevel)
	}
}

// play primes the stream, writes the pattern and the trailing space.
func (s *session) play(pattern []int32) error {
	maxBytes := int64(len(s.space))

	for range PrimeWrites {
		if err := s.write(s.space, "space"); err != nil {
			s.log.Error("transmit: prime write failed", "err", err)
			return fail(consumerir.ReasonPrime, err)
		}
	}

	for i, d := range pattern {
		n := EntryBytes(d)
		switch {
		case n > maxBytes:
			s.o.metrics.TruncatedEntries.Add(s.ctx, 1)
			s.diagnose(Diagnostic{Kind: DiagTruncated, Subject: fmt.Sprintf("%d bytes > %d", n, maxBytes), Index: i})
			n = maxBytes
		case n < 0:
			s.diagnose(Diagnostic{Kind: DiagNegativeDuration, Subject: fmt.Sprintf("%d us", d), Index: i})
			n = 0
		}

		if i%2 == 0 {
			s.log.Debug("transmit: pulse", "index", i, "us", d, "bytes", n)
			if err := s.write(s.pulse[:n], "pulse"); err != nil {
				s.log.Error("transmit: pulse write failed", "index", i, "err", err)
				return fail(consumerir.ReasonPulseWrite, err)
			}
		} else {
			s.log.Debug("transmit: space", "index", i, "us", d, "bytes", n)
			if err := s.write(s.space[:n], "space"); err != nil {
				s.log.Error("transmit: space write failed", "index", i, "err", err)
				return fail(consumerir.ReasonSpaceWrite, err)
			}
		}
	}

	// Leave the blaster gated off. A failure here does not skip stop.
	if err := s.write(s.space, "space"); err != nil {
		s.diagnose(Diagnostic{Kind: DiagFinalSpace, Subject: "pcm stream", Index: -1, Err: err})
		return fail(consumerir.ReasonFinalSpace, err)
	}
	return nil
}

func (s *session) write(buf []byte, kind string) error {
	if err := s.stream.Write(buf); err != nil {
		return err
	}
	s.o.metrics.RecordBytesWritten(s.ctx, kind, len(buf))
	return nil
}
