// Package server exposes an open transmitter over a small JSON HTTP API so
// that host processes without access to the HAL can send IR patterns.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/MrWong99/consumerir/internal/hal"
	"github.com/MrWong99/consumerir/internal/observe"
	"github.com/MrWong99/consumerir/pkg/consumerir"
)

// Defaults for [New].
const (
	DefaultMaxPatternLen = 4096
	maxBodyBytes         = 1 << 20
)

// TransmitRequest is the body of POST /v1/transmit.
type TransmitRequest struct {
	CarrierFreq int32   `json:"carrier_freq"`
	Pattern     []int32 `json:"pattern"`
}

// StatusResponse is returned by POST /v1/transmit and by every failed
// request. Status carries the HAL's integer status code.
type StatusResponse struct {
	Status int32  `json:"status"`
	Reason string `json:"reason,omitempty"`
	Error  string `json:"error,omitempty"`
}

// CarrierFreqsResponse is the body of GET /v1/carrier-freqs.
type CarrierFreqsResponse struct {
	Count  int                    `json:"count"`
	Ranges []consumerir.FreqRange `json:"ranges"`
}

// Server serves the transmit API for one device handle.
type Server struct {
	dev           consumerir.Device
	info          hal.Info
	maxPatternLen int
	queueTimeout  time.Duration
}

// Option configures a [Server].
type Option func(*Server)

// WithInfo sets the module metadata served at GET /v1/info. The default is
// [hal.DefaultInfo].
func WithInfo(info hal.Info) Option {
	return func(s *Server) { s.info = info }
}

// WithMaxPatternLen caps the number of pattern entries accepted per request.
func WithMaxPatternLen(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxPatternLen = n
		}
	}
}

// WithQueueTimeout bounds how long a request waits for another transmission
// to finish. Zero waits for as long as the client stays connected.
func WithQueueTimeout(d time.Duration) Option {
	return func(s *Server) { s.queueTimeout = d }
}

// New creates a Server transmitting through dev.
func New(dev consumerir.Device, opts ...Option) *Server {
	s := &Server{
		dev:           dev,
		info:          hal.DefaultInfo,
		maxPatternLen: DefaultMaxPatternLen,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds the API routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/info", s.handleInfo)
	mux.HandleFunc("GET /v1/carrier-freqs", s.handleCarrierFreqs)
	mux.HandleFunc("POST /v1/transmit", s.handleTransmit)
}

func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.info)
}

func (s *Server) handleCarrierFreqs(w http.ResponseWriter, r *http.Request) {
	limit := s.dev.NumCarrierFreqs()
	if q := r.URL.Query().Get("max"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("%w: max=%q", consumerir.ErrInvalidArgument, q))
			return
		}
		limit = n
	}
	ranges := s.dev.CarrierFreqs(limit)
	if ranges == nil {
		ranges = []consumerir.FreqRange{}
	}
	writeJSON(w, http.StatusOK, CarrierFreqsResponse{Count: len(ranges), Ranges: ranges})
}

func (s *Server) handleTransmit(w http.ResponseWriter, r *http.Request) {
	var req TransmitRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: decode body: %v", consumerir.ErrInvalidArgument, err))
		return
	}
	if len(req.Pattern) > s.maxPatternLen {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: pattern has %d entries, limit %d",
			consumerir.ErrInvalidArgument, len(req.Pattern), s.maxPatternLen))
		return
	}

	ctx := r.Context()
	if s.queueTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.queueTimeout)
		defer cancel()
	}

	err := s.dev.Transmit(ctx, req.CarrierFreq, req.Pattern)
	if err != nil {
		observe.Logger(r.Context()).Warn("server: transmit failed",
			"carrier_freq", req.CarrierFreq,
			"entries", len(req.Pattern),
			"status", consumerir.StatusCode(err),
			"err", err,
		)
		writeError(w, httpStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: consumerir.StatusOK})
}

// httpStatus maps a HAL error onto an HTTP status. Failures to reach the
// hardware are 503 so a client can tell them from a fault mid-sequence.
func httpStatus(err error) int {
	switch consumerir.ReasonOf(err) {
	case consumerir.ReasonBusy:
		return http.StatusConflict
	case consumerir.ReasonClosed, consumerir.ReasonDeviceOpen, consumerir.ReasonRouteInit, consumerir.ReasonStreamOpen:
		return http.StatusServiceUnavailable
	case consumerir.ReasonNone:
		switch {
		case errors.Is(err, consumerir.ErrInvalidArgument):
			return http.StatusBadRequest
		case errors.Is(err, consumerir.ErrBusy):
			return http.StatusConflict
		case errors.Is(err, consumerir.ErrClosed):
			return http.StatusServiceUnavailable
		}
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := StatusResponse{Status: consumerir.StatusCode(err), Error: err.Error()}
	if r := consumerir.ReasonOf(err); r != consumerir.ReasonNone {
		resp.Reason = r.String()
	} else if errors.Is(err, consumerir.ErrInvalidArgument) {
		resp.Reason = "invalid_argument"
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
