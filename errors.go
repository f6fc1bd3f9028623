// Copyright 2013 Federico Sogaro. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ghostdriver

import "errors"

// Kind classifies why an operation did not complete.
type Kind int

const (
	// The request could not be sent or the response could not be read.
	KindTransport Kind = iota + 1
	// The response is not the envelope expected for the endpoint, or the
	// server reported a failure.
	KindProtocol
	// The screenshot value is not valid base64.
	KindEncoding
	// The screenshot file could not be written.
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport error"
	case KindProtocol:
		return "protocol error"
	case KindEncoding:
		return "encoding error"
	case KindIO:
		return "io error"
	}
	return "unknown error"
}

// Error is returned by every operation of the package.
type Error struct {
	Kind Kind
	// Op names the operation, e.g. "navigate".
	Op  string
	Err error
}

func (e *Error) Error() string {
	return "ghostdriver: " + e.Op + ": " + e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether any error in err's chain is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

var (
	// ErrSessionClosed is returned by operations on a session after Close.
	ErrSessionClosed = errors.New("session closed")
	// ErrNoSessionID is returned when session creation yields no session id.
	ErrNoSessionID = errors.New("response has no sessionId")
)
