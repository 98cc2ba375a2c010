// Package transmit drives one IR transmission through the audio path: it
// opens the PWM device, routes the mixer to the blaster, streams pulse and
// space buffers whose lengths encode the pattern timing, and tears
// everything down again in reverse order.
//
// The carrier itself is generated by the PWM block; the PCM stream only
// gates it. A full-scale sample keeps the carrier on, silence keeps it off,
// so a pattern entry of d microseconds becomes d·48000/10⁶ frames of either
// buffer.
package transmit

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/MrWong99/consumerir/internal/observe"
	"github.com/MrWong99/consumerir/pkg/audioroute"
	"github.com/MrWong99/consumerir/pkg/consumerir"
	"github.com/MrWong99/consumerir/pkg/irrc"
	"github.com/MrWong99/consumerir/pkg/pcm"
)

// Orchestrator runs transmissions one at a time.
//
// All exported methods are safe for concurrent use. Concurrent Transmit
// calls queue on an internal lock; a caller whose context ends while
// queued gets [consumerir.ReasonBusy] without touching hardware.
type Orchestrator struct {
	sem      *semaphore.Weighted
	settings atomic.Pointer[Settings]

	openDevice irrc.Opener
	openRoute  audioroute.Opener
	openStream pcm.Opener
	alloc      Allocator

	metrics      *observe.Metrics
	onDiagnostic func(Diagnostic)
}

// Option configures an [Orchestrator] during construction.
type Option func(*Orchestrator)

// WithDeviceOpener replaces the PWM device opener. The default is [irrc.Open].
func WithDeviceOpener(fn irrc.Opener) Option {
	return func(o *Orchestrator) { o.openDevice = fn }
}

// WithRouteOpener replaces the mixer route opener. The default is
// [audioroute.Init].
func WithRouteOpener(fn audioroute.Opener) Option {
	return func(o *Orchestrator) { o.openRoute = fn }
}

// WithStreamOpener replaces the PCM stream opener. The default is [pcm.Open].
func WithStreamOpener(fn pcm.Opener) Option {
	return func(o *Orchestrator) { o.openStream = fn }
}

// WithAllocator replaces the buffer allocator. The default allocates from
// the heap and refuses sizes above [Settings.MaxBufferBytes].
func WithAllocator(a Allocator) Option {
	return func(o *Orchestrator) { o.alloc = a }
}

// WithSettings sets the initial hardware settings. The default is
// [DefaultSettings].
func WithSettings(s Settings) Option {
	return func(o *Orchestrator) { o.settings.Store(&s) }
}

// WithMetrics sets the metric instruments. The default is
// [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithDiagnostics registers fn to receive every failure that is logged
// instead of aborting the transmission. fn runs synchronously on the
// transmitting goroutine while the device is held.
func WithDiagnostics(fn func(Diagnostic)) Option {
	return func(o *Orchestrator) { o.onDiagnostic = fn }
}

// New creates an Orchestrator.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		sem:        semaphore.NewWeighted(1),
		openDevice: irrc.Open,
		openRoute:  audioroute.Init,
		openStream: pcm.Open,
	}
	def := DefaultSettings()
	o.settings.Store(&def)
	for _, opt := range opts {
		opt(o)
	}
	if o.alloc == nil {
		o.alloc = heapAllocator{limit: func() int { return o.settings.Load().MaxBufferBytes }}
	}
	if o.metrics == nil {
		o.metrics = observe.DefaultMetrics()
	}
	return o
}

// Settings returns the settings the next transmission will use.
func (o *Orchestrator) Settings() Settings {
	return *o.settings.Load()
}

// SetSettings replaces the settings. A transmission already in progress
// keeps the snapshot it started with.
func (o *Orchestrator) SetSettings(s Settings) {
	o.settings.Store(&s)
}

// Transmit sends pattern on a carrier of carrierFreq Hz. Even entries of
// pattern are pulses and odd entries are spaces, in microseconds.
//
// The returned error is nil or a *[consumerir.TransmitError] naming the
// step that failed. The carrier frequency is passed to the driver as is;
// it is not checked against [consumerir.CarrierFreqs].
//
// ctx bounds only the wait for exclusive access. Once the sequence has
// started it runs to completion so the PWM block is always stopped and
// every resource released.
func (o *Orchestrator) Transmit(ctx context.Context, carrierFreq int32, pattern []int32) (err error) {
	start := time.Now()
	ctx, span := observe.StartTransmitSpan(ctx, carrierFreq, len(pattern))
	defer func() {
		o.metrics.RecordTransmission(ctx, statusLabel(err), time.Since(start))
		observe.EndSpan(span, err)
	}()

	if acqErr := o.sem.Acquire(ctx, 1); acqErr != nil {
		observe.Logger(ctx).Warn("transmit: gave up waiting for the blaster", "err", acqErr)
		return &consumerir.TransmitError{Reason: consumerir.ReasonBusy, Err: acqErr}
	}
	defer o.sem.Release(1)

	o.metrics.ActiveTransmissions.Add(ctx, 1)
	defer o.metrics.ActiveTransmissions.Add(ctx, -1)
	o.metrics.PatternEntries.Add(ctx, int64(len(pattern)))

	s := &session{
		ctx:      ctx,
		o:        o,
		settings: o.Settings(),
		log: observe.Logger(ctx).With(
			slog.Int("carrier_freq", int(carrierFreq)),
			slog.Int("entries", len(pattern)),
		),
	}
	return s.run(carrierFreq, pattern)
}

func statusLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return consumerir.ReasonOf(err).String()
}

func fail(r consumerir.Reason, err error) error {
	return &consumerir.TransmitError{Reason: r, Err: err}
}
