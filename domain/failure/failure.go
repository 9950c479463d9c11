// Package failure classifies recognition errors. Every pixel, OCR or hash step
// may fail without that being a fault: callers branch on the kind to decide
// whether to fall back or to log.
package failure

import (
	"errors"
	"fmt"
)

// Kind is the category of a recognition failure.
type Kind int

const (
	// KindNotFound means the region, icon or text was legitimately absent.
	KindNotFound Kind = iota + 1
	// KindLowConfidence means a candidate existed below its acceptance threshold.
	KindLowConfidence
	// KindExternal means a collaborator (OCR engine, capture) failed.
	KindExternal
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindLowConfidence:
		return "low_confidence"
	case KindExternal:
		return "external"
	default:
		return "unknown"
	}
}

// Error is the structured error returned by recognition steps.
type Error struct {
	Kind  Kind
	Op    string
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("%s: %s", e.Op, e.Msg)
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error { return e.Cause }

// NotFound builds a KindNotFound error.
func NotFound(op, msg string) *Error { return &Error{Kind: KindNotFound, Op: op, Msg: msg} }

// NotFoundf builds a KindNotFound error with a formatted message.
func NotFoundf(op, format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// LowConfidence builds a KindLowConfidence error.
func LowConfidence(op string, got, want float64) *Error {
	return &Error{Kind: KindLowConfidence, Op: op, Msg: fmt.Sprintf("confidence %.2f below %.2f", got, want)}
}

// External wraps a collaborator failure.
func External(op string, cause error) *Error {
	return &Error{Kind: KindExternal, Op: op, Msg: "external failure", Cause: cause}
}

// KindOf returns the failure kind of err, or 0 when err is not a *Error.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}

// IsNotFound reports whether callers should treat err as "nothing there".
// Low confidence counts as not found.
func IsNotFound(err error) bool {
	k := KindOf(err)
	return k == KindNotFound || k == KindLowConfidence
}

// IsExternal reports whether err came from a collaborator.
func IsExternal(err error) bool { return KindOf(err) == KindExternal }

// Reason returns a short user-facing reason for a placeholder result.
func Reason(err error) string {
	if err == nil {
		return "no result"
	}
	var fe *Error
	if errors.As(err, &fe) {
		if fe.Kind == KindExternal {
			return fe.Op + " unavailable"
		}
		return fe.Msg
	}
	return err.Error()
}
