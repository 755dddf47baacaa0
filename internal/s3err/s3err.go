// Package s3err holds the client's closed error taxonomy and the mapping
// rules from transport/HTTP/OS conditions into it. It is internal so the
// mapping helpers (which need to reach into net/http and net errors) don't
// create an import cycle with the root package that re-exports Kind/Error
// as public API.
package s3err

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"syscall"
)

// Kind is the closed taxonomy of failure categories a call can report.
type Kind string

const (
	KindOK           Kind = "OK"
	KindInvalidArg   Kind = "INVALID_ARG"
	KindNoMem        Kind = "NOMEM"
	KindInit         Kind = "INIT"
	KindTransport    Kind = "TRANSPORT"
	KindHTTP         Kind = "HTTP"
	KindSigV4        Kind = "SIGV4"
	KindIO           Kind = "IO"
	KindTimeout      Kind = "TIMEOUT"
	KindNotFound     Kind = "NOT_FOUND"
	KindAuth         Kind = "AUTH"
	KindAccessDenied Kind = "ACCESS_DENIED"
	KindCancelled    Kind = "CANCELLED"
	KindInternal     Kind = "INTERNAL"
)

// Error is the uniform error record populated by every failing operation.
type Error struct {
	Kind          Kind
	HTTPStatus    int
	TransportCode string
	OSErrno       int
	Message       string
	RequestID     string
}

// OK reports whether e carries no failure semantics.
func (e Error) OK() bool { return e.Kind == KindOK || e.Kind == "" }

func (e Error) Error() string {
	if e.OK() {
		return "s3client: ok"
	}
	if e.RequestID != "" {
		return fmt.Sprintf("s3client: %s: %s (request %s)", e.Kind, e.Message, e.RequestID)
	}
	return fmt.Sprintf("s3client: %s: %s", e.Kind, e.Message)
}

const maxMessage = 512

// New builds a populated Error, truncating Message to a fixed bound.
func New(kind Kind, httpStatus int, transportCode string, osErrno int, format string, args ...any) Error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	if len(msg) > maxMessage {
		msg = msg[:maxMessage]
	}
	return Error{Kind: kind, HTTPStatus: httpStatus, TransportCode: transportCode, OSErrno: osErrno, Message: msg}
}

// Invalid builds an INVALID_ARG error from a local argument violation.
func Invalid(format string, args ...any) Error {
	return New(KindInvalidArg, 0, "", 0, format, args...)
}

// MapHTTPStatus classifies an HTTP response status into an error Kind.
func MapHTTPStatus(status int) Kind {
	switch {
	case status >= 200 && status < 300:
		return KindOK
	case status == 401:
		return KindAuth
	case status == 403:
		return KindAccessDenied
	case status == 404:
		return KindNotFound
	case status == 408:
		return KindTimeout
	default:
		return KindHTTP
	}
}

// MapTransportErr classifies a transport-level failure (a non-nil error
// returned before any HTTP status was obtained): timeout → TIMEOUT; name
// resolution/connect refused → INIT; body read/write errors → IO; anything
// else → TRANSPORT.
func MapTransportErr(err error) Error {
	if err == nil {
		return Error{Kind: KindOK}
	}

	if errors.Is(err, context.Canceled) {
		return New(KindCancelled, 0, err.Error(), 0, "request cancelled")
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return New(KindTimeout, 0, err.Error(), 0, "request timed out: %v", err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return New(KindTimeout, 0, err.Error(), 0, "request timed out: %v", err)
		}
		var opErr *net.OpError
		if errors.As(urlErr.Err, &opErr) {
			if isConnectFailure(opErr) {
				return New(KindInit, 0, err.Error(), errno(opErr), "connection failed: %v", err)
			}
		}
		var dnsErr *net.DNSError
		if errors.As(urlErr.Err, &dnsErr) {
			return New(KindInit, 0, err.Error(), 0, "name resolution failed: %v", err)
		}
	}

	if errors.Is(err, os.ErrDeadlineExceeded) {
		return New(KindIO, 0, err.Error(), 0, "i/o deadline exceeded: %v", err)
	}

	var syscallErr syscall.Errno
	if errors.As(err, &syscallErr) {
		return New(KindIO, 0, err.Error(), int(syscallErr), "i/o error: %v", err)
	}

	return New(KindTransport, 0, err.Error(), 0, "transport error: %v", err)
}

func isConnectFailure(opErr *net.OpError) bool {
	return opErr.Op == "dial"
}

func errno(opErr *net.OpError) int {
	var se syscall.Errno
	if errors.As(opErr.Err, &se) {
		return int(se)
	}
	return 0
}
