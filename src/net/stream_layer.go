package net

import (
	"net"
	"time"
)

// StreamLayer is used with the NetworkTransport to provide the low level stream
// abstraction. A client-only stream layer has no listener: its Addr is nil and
// Accept fails.
type StreamLayer interface {
	net.Listener

	// Dial is used to create a new outgoing connection
	Dial(address string, timeout time.Duration) (net.Conn, error)
}
