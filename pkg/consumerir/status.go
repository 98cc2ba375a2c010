package consumerir

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned when a device is opened under an
	// unknown name or without a transmitter backend.
	ErrInvalidArgument = errors.New("consumerir: invalid argument")

	// ErrClosed is returned by operations on a closed device handle.
	ErrClosed = errors.New("consumerir: device closed")

	// ErrBusy is returned when a transmission could not acquire exclusive
	// access to the blaster before its context expired.
	ErrBusy = errors.New("consumerir: transmitter busy")
)

// Reason identifies the step of the transmit sequence that failed.
type Reason int

const (
	// ReasonNone is the zero value and never appears in a [TransmitError].
	ReasonNone Reason = iota
	ReasonDeviceOpen
	ReasonRouteInit
	ReasonStreamOpen
	ReasonSpaceBufferAlloc
	ReasonPulseBufferAlloc
	ReasonStart
	ReasonPrime
	ReasonPulseWrite
	ReasonSpaceWrite
	// ReasonFinalSpace does not abort the sequence: stop and release run as
	// on success, and the reason is reported afterwards.
	ReasonFinalSpace
	ReasonStop
	ReasonBusy
	ReasonClosed
)

// Status codes outside the per-step table.
const (
	StatusOK              int32 = 0
	StatusInvalidArgument int32 = -22 // -EINVAL
	StatusBusy            int32 = -16 // -EBUSY
	StatusNoDevice        int32 = -19 // -ENODEV
	StatusUnknown         int32 = -125
)

// Code returns the legacy negative status integer for r.
func (r Reason) Code() int32 {
	switch r {
	case ReasonNone:
		return StatusOK
	case ReasonRouteInit:
		return -1
	case ReasonDeviceOpen:
		return -2
	case ReasonStreamOpen:
		return -3
	case ReasonSpaceBufferAlloc:
		return -4
	case ReasonPulseBufferAlloc:
		return -5
	case ReasonStart:
		return -6
	case ReasonPrime:
		return -7
	case ReasonPulseWrite:
		return -8
	case ReasonSpaceWrite:
		return -9
	case ReasonFinalSpace:
		return -10
	case ReasonStop:
		return -11
	case ReasonBusy:
		return StatusBusy
	case ReasonClosed:
		return StatusNoDevice
	default:
		return StatusUnknown
	}
}

// String returns a short snake_case label suitable for logs and metrics.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonDeviceOpen:
		return "device_open"
	case ReasonRouteInit:
		return "route_init"
	case ReasonStreamOpen:
		return "stream_open"
	case ReasonSpaceBufferAlloc:
		return "space_buffer_alloc"
	case ReasonPulseBufferAlloc:
		return "pulse_buffer_alloc"
	case ReasonStart:
		return "pwm_start"
	case ReasonPrime:
		return "prime_write"
	case ReasonPulseWrite:
		return "pulse_write"
	case ReasonSpaceWrite:
		return "space_write"
	case ReasonFinalSpace:
		return "final_space_write"
	case ReasonStop:
		return "pwm_stop"
	case ReasonBusy:
		return "busy"
	case ReasonClosed:
		return "closed"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// TransmitError reports which step of a transmission failed together with
// the underlying I/O error, when there is one.
type TransmitError struct {
	Reason Reason
	Err    error
}

// Error implements error.
func (e *TransmitError) Error() string {
	if e.Err == nil {
		return "consumerir: transmit: " + e.Reason.String()
	}
	return fmt.Sprintf("consumerir: transmit: %s: %v", e.Reason, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransmitError) Unwrap() error { return e.Err }

// Is lets errors.Is match busy and closed failures against [ErrBusy] and
// [ErrClosed].
func (e *TransmitError) Is(target error) bool {
	switch target {
	case ErrBusy:
		return e.Reason == ReasonBusy
	case ErrClosed:
		return e.Reason == ReasonClosed
	}
	return false
}

// Code returns the legacy status integer for this failure.
func (e *TransmitError) Code() int32 { return e.Reason.Code() }

// ReasonOf extracts the failure reason from err. It returns ReasonNone for a
// nil error or one that did not come from a transmission.
func ReasonOf(err error) Reason {
	var te *TransmitError
	if errors.As(err, &te) {
		return te.Reason
	}
	return ReasonNone
}

// StatusCode maps err onto the integer status returned by the legacy HAL:
// 0 for success and a negative value identifying the failure otherwise.
func StatusCode(err error) int32 {
	if err == nil {
		return StatusOK
	}
	var te *TransmitError
	switch {
	case errors.As(err, &te):
		return te.Code()
	case errors.Is(err, ErrInvalidArgument):
		return StatusInvalidArgument
	case errors.Is(err, ErrClosed):
		return StatusNoDevice
	case errors.Is(err, ErrBusy):
		return StatusBusy
	default:
		return StatusUnknown
	}
}
