package ir

import pkgerrors "github.com/pkg/errors"

// InvariantError is the panic payload for every structural invariant this
// package enforces at construction or mutation time: out-of-range ids,
// malformed phi removal, duplicate record fields, an unhandled case in a
// closed sum type switch. These are program bugs in the caller, not a
// user-facing error surface — spec §7.1 treats violating one as an
// assertion-level failure that aborts the process. CheckInvariants is the
// one place violations are collected as values instead of panicking.
type InvariantError struct {
	err error
}

func (e *InvariantError) Error() string { return e.err.Error() }
func (e *InvariantError) Unwrap() error { return e.err }

// invariantf panics with an *InvariantError built from a pkg/errors stack
// trace, so a caller that recovers still gets a frame-accurate trace.
func invariantf(format string, args ...interface{}) {
	panic(&InvariantError{err: pkgerrors.Errorf(format, args...)})
}
