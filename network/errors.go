package network

import (
	"errors"
	"fmt"
	"net"
	"os"
)

var (
	ErrHandshake      = errors.New("handshake failed")
	ErrUnknownMessage = errors.New("unknown message kind")
	ErrMalformed      = errors.New("malformed message")
	ErrClosed         = errors.New("connection closed")
)

// ConnectionError is a fatal I/O or protocol failure. The connection is
// unusable afterwards and must be closed.
type ConnectionError struct {
	Phase Phase
	Err   error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error during %s: %v", e.Phase, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// wouldBlock reports whether err only means "nothing to do yet": every
// socket call runs under a short deadline and a timeout is how a
// non-blocking call reports it.
func wouldBlock(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
