package net

import (
	"errors"
	"net"
	"time"

	"github.com/sirupsen/logrus"
)

var errNotTCP = errors.New("local address is not a TCP address")

// NewTCPTransport returns a NetworkTransport that is built on top of a TCP
// streaming transport layer listening on bindAddr, with log output going to
// the supplied Logger. It is what a simulated node serves requests with.
func NewTCPTransport(
	bindAddr string,
	maxPool int,
	timeout time.Duration,
	logger *logrus.Entry,
) (*NetworkTransport, error) {

	// Try to bind
	list, err := net.Listen("tcp", bindAddr)
	if err != nil {
		return nil, err
	}

	tcpList, ok := list.(*net.TCPListener)
	if !ok {
		list.Close()
		return nil, errNotTCP
	}

	stream := &TCPStreamLayer{
		listener: tcpList,
	}

	return NewNetworkTransport(stream, maxPool, timeout, logger), nil
}

// NewTCPClientTransport returns a NetworkTransport that only dials out. It is
// what SDK clients use.
func NewTCPClientTransport(
	maxPool int,
	timeout time.Duration,
	logger *logrus.Entry,
) *NetworkTransport {
	return NewNetworkTransport(&TCPStreamLayer{}, maxPool, timeout, logger)
}
