package failure

import (
	"errors"
	"fmt"
)

// Kind classifies a terminal outcome of a capture session.
type Kind string

const (
	SourceUnavailable Kind = "SOURCE_UNAVAILABLE" // frame source cannot produce a buffer
	NoFramesCaptured  Kind = "NO_FRAMES_CAPTURED" // capture ended with zero accepted frames
	Cancelled         Kind = "CANCELLED"          // external cancellation during capture
	NoFrames          Kind = "NO_FRAMES"          // encode invoked on an empty store
	EncodeAborted     Kind = "ENCODE_ABORTED"     // engine reported abort
	EncodeFailed      Kind = "ENCODE_FAILED"      // engine fault
	ExportFailed      Kind = "EXPORT_FAILED"      // sink could not persist the artifact
	Busy              Kind = "BUSY"               // a session is already in flight
)

// Error is a categorized failure. Op names the operation that failed and Err
// carries the underlying cause, if any.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an *Error of the given kind.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf extracts the Kind from anywhere in err's chain. It returns "" when
// err is nil or carries no categorized failure.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// Is reports whether err is a failure of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
