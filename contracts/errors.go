package contracts

import (
	"errors"
)

var (
	// ErrEnvironmentUnavailable is returned at construction when no page
	// environment exists. Fatal: the bridge cannot recover from it.
	ErrEnvironmentUnavailable = errors.New("bridge environment unavailable")

	// ErrNoPeerChannel is returned by dispatch when no delivery channel to
	// the peer exists.
	ErrNoPeerChannel = errors.New("no peer channel")

	// ErrActionRejected is returned by dispatch when the peer explicitly
	// reported failure for the action.
	ErrActionRejected = errors.New("action rejected by peer")

	// ErrActionTimeout is returned by dispatch when no matching response
	// arrived within the timeout window.
	ErrActionTimeout = errors.New("action timed out")
)
