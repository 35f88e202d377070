// Package notifyerr is notifyguard's error taxonomy and opaque error
// wrapper: a short "normal" message for everyday logging, plus a full,
// colon-joined cause chain for the hub's failure aggregation and for
// callers who want the whole story.
package notifyerr

import (
	"fmt"
	"strings"
)

// Category groups errors the way the http safety layer and sinks report
// them: not a type hierarchy, just a label for triage.
type Category string

const (
	CategoryConfiguration Category = "configuration"
	CategoryResolution    Category = "resolution"
	CategoryTransport     Category = "transport"
	CategoryProtocol      Category = "protocol"
	CategoryTimeout       Category = "timeout"
	CategoryInternal      Category = "internal"
	CategoryRuntime       Category = "runtime"
)

// Code is a stable, machine-comparable error code within a Category.
type Code string

const (
	CodeInvalidURL       Code = "INVALID_URL"
	CodeMissingConfig    Code = "MISSING_CONFIG"
	CodeInvalidConfig    Code = "INVALID_CONFIG"
	CodeDNSTimeout       Code = "DNS_TIMEOUT"
	CodeDNSFailed        Code = "DNS_FAILED"
	CodeIPNotPublic      Code = "IP_NOT_PUBLIC"
	CodeConnect          Code = "CONNECT"
	CodeRequest          Code = "REQUEST"
	CodeDecode           Code = "DECODE"
	CodeTransportTimeout Code = "TRANSPORT_TIMEOUT"
	CodeUnknownTransport Code = "UNKNOWN_TRANSPORT"
	CodeNonSuccess       Code = "NON_SUCCESS"
	CodeSinkTimeout      Code = "SINK_TIMEOUT"
	CodePanic            Code = "PANIC"
	CodeAggregate        Code = "AGGREGATE"
	CodeOverloaded       Code = "OVERLOADED"
	CodeClosed           Code = "CLOSED"
)

// Error is notifyguard's opaque error wrapper (spec component C9): a short
// message for Error(), a full cause chain for Alternate(), and Unwrap() for
// standard errors.As/errors.Is traversal.
type Error struct {
	category Category
	code     Code
	msg      string
	cause    error
}

// New creates an Error with no wrapped cause.
func New(category Category, code Code, msg string) *Error {
	return &Error{category: category, code: code, msg: msg}
}

// Wrap creates an Error that wraps cause, which appears in Alternate() but
// not in Error().
func Wrap(cause error, category Category, code Code, msg string) *Error {
	return &Error{category: category, code: code, msg: msg, cause: cause}
}

// Category reports the error's category.
func (e *Error) Category() Category { return e.category }

// Code reports the error's stable code.
func (e *Error) Code() Code { return e.code }

// Error implements the normal, short display: just this error's own
// message, with no cause chain.
func (e *Error) Error() string { return e.msg }

// Unwrap exposes the wrapped cause for errors.Is/errors.As/errors.Unwrap.
func (e *Error) Unwrap() error { return e.cause }

// Alternate renders the full cause chain joined by ": ", the form the hub
// uses when aggregating per-sink failures ("- {name}: {err:#}").
func (e *Error) Alternate() string {
	parts := []string{e.msg}
	var next error = e.cause
	for next != nil {
		parts = append(parts, next.Error())
		next = errorsUnwrap(next)
	}
	return strings.Join(parts, ": ")
}

// Format implements fmt.Formatter so that %+v renders the alternate,
// full-chain form while %v and %s render the normal short message.
func (e *Error) Format(f fmt.State, verb rune) {
	if verb == 'v' && f.Flag('+') {
		fmt.Fprint(f, e.Alternate())
		return
	}
	fmt.Fprint(f, e.Error())
}

type unwrapper interface {
	Unwrap() error
}

func errorsUnwrap(err error) error {
	if u, ok := err.(unwrapper); ok {
		return u.Unwrap()
	}
	return nil
}
