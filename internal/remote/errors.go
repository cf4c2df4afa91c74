package remote

import (
	"errors"
	"fmt"
)

var (
	// ErrConnectivity matches every failure to reach or understand the spreadsheet endpoint.
	ErrConnectivity = errors.New("spreadsheet endpoint unavailable")
	// ErrSaveRejected means the endpoint answered but did not report success.
	ErrSaveRejected = errors.New("spreadsheet rejected the update")
)

// Kind classifies a connectivity failure.
type Kind int

const (
	// KindTransport covers network errors and non-2xx responses.
	KindTransport Kind = iota
	// KindFormat covers bodies that are not the JSON shape the endpoint promises.
	KindFormat
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindFormat:
		return "format"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

type ConnectivityError struct {
	Kind   Kind
	Op     string
	Status int
	Err    error
}

func (e *ConnectivityError) Error() string {
	msg := fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

func (e *ConnectivityError) Is(target error) bool { return target == ErrConnectivity }

// RejectedError carries what the endpoint said when it refused an update.
type RejectedError struct {
	Status  string
	Message string
}

func (e *RejectedError) Error() string {
	status := e.Status
	if status == "" {
		status = "no status"
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s (%s)", ErrSaveRejected.Error(), e.Message, status)
	}
	return fmt.Sprintf("%s (%s)", ErrSaveRejected.Error(), status)
}

func (e *RejectedError) Is(target error) bool { return target == ErrSaveRejected }
