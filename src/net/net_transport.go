package net

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
	"github.com/sirupsen/logrus"
	"github.com/ugorji/go/codec"
)

/*******************************************************************************
THE FRAMING AND POOLING ARE ADAPTED FROM HASHICORP RAFT
*******************************************************************************/

const (
	rpcSubmitTransaction uint8 = iota
	rpcQuery
)

var (
	// ErrTransportShutdown is returned when operations on a transport are
	// invoked after it's been terminated.
	ErrTransportShutdown = errors.New("transport shutdown")
)

/*
NetworkTransport carries requests to ledger nodes, and serves them on the node
side, over a stream layer such as plain TCP.

Each request is framed as a byte giving its type followed by the msgpack
encoded Transaction or Query. The answer is an error string followed by the
msgpack encoded response. Outgoing connections are pooled per target.
*/
type NetworkTransport struct {
	logger *logrus.Entry

	stream  StreamLayer
	pool    *connPool
	timeout time.Duration

	consumeCh chan RPC

	shutdownCh   chan struct{}
	shutdownOnce sync.Once
}

// NewNetworkTransport creates a new network transport with the given stream
// layer. The maxPool controls how many connections we will pool (per target).
// The timeout is the I/O deadline of a single RPC; a context deadline that
// comes earlier takes precedence.
func NewNetworkTransport(
	stream StreamLayer,
	maxPool int,
	timeout time.Duration,
	logger *logrus.Entry,
) *NetworkTransport {

	if logger == nil {
		log := logrus.New()
		log.Level = logrus.DebugLevel
		logger = logrus.NewEntry(log)
	}

	return &NetworkTransport{
		logger:     logger,
		stream:     stream,
		pool:       newConnPool(maxPool),
		timeout:    timeout,
		consumeCh:  make(chan RPC),
		shutdownCh: make(chan struct{}),
	}
}

// Close is used to stop the network transport.
func (n *NetworkTransport) Close() error {
	n.shutdownOnce.Do(func() {
		close(n.shutdownCh)
		n.stream.Close()
		n.pool.close()
	})
	return nil
}

// Consumer implements the Server interface.
func (n *NetworkTransport) Consumer() <-chan RPC {
	return n.consumeCh
}

// LocalAddr implements the Server interface.
func (n *NetworkTransport) LocalAddr() string {
	if addr := n.stream.Addr(); addr != nil {
		return addr.String()
	}
	return ""
}

// IsShutdown is used to check if the transport is shutdown.
func (n *NetworkTransport) IsShutdown() bool {
	select {
	case <-n.shutdownCh:
		return true
	default:
		return false
	}
}

// SubmitTransaction implements the Transport interface.
func (n *NetworkTransport) SubmitTransaction(ctx context.Context, target string, args *hapi.Transaction, resp *hapi.TransactionResponse) error {
	return n.call(ctx, target, rpcSubmitTransaction, args, resp)
}

// Query implements the Transport interface.
func (n *NetworkTransport) Query(ctx context.Context, target string, args *hapi.Query, resp *hapi.Response) error {
	return n.call(ctx, target, rpcQuery, args, resp)
}

// deadline is the earlier of the transport timeout and the context deadline.
// The zero time means none.
func (n *NetworkTransport) deadline(ctx context.Context) time.Time {
	var deadline time.Time
	if n.timeout > 0 {
		deadline = time.Now().Add(n.timeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}
	return deadline
}

func (n *NetworkTransport) dial(target string, deadline time.Time) (*netConn, error) {
	if c := n.pool.get(target); c != nil {
		return c, nil
	}

	var timeout time.Duration
	if !deadline.IsZero() {
		timeout = time.Until(deadline)
	}

	conn, err := n.stream.Dial(target, timeout)
	if err != nil {
		return nil, err
	}
	return newNetConn(target, conn), nil
}

// call performs one request/response exchange with target.
func (n *NetworkTransport) call(ctx context.Context, target string, rpcType uint8, args, resp interface{}) error {
	if n.IsShutdown() {
		return ErrTransportShutdown
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	deadline := n.deadline(ctx)

	c, err := n.dial(target, deadline)
	if err != nil {
		return ctxErr(ctx, err)
	}

	c.conn.SetDeadline(deadline)

	// Cancelling the context expires the deadline, which unblocks any pending
	// read or write.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			c.conn.SetDeadline(time.Now())
		case <-done:
		}
	}()

	broken, err := c.roundTrip(rpcType, args, resp)
	if broken || ctx.Err() != nil {
		c.release()
	} else {
		n.pool.put(c)
	}

	return ctxErr(ctx, err)
}

// ctxErr prefers the context error over the I/O error it caused.
func ctxErr(ctx context.Context, err error) error {
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Listen opens the stream and handles incoming connections. It returns
// immediately for client-only transports.
func (n *NetworkTransport) Listen() {
	if n.stream.Addr() == nil {
		return
	}

	for {
		conn, err := n.stream.Accept()
		if err != nil {
			if n.IsShutdown() {
				return
			}
			n.logger.WithField("error", err).Error("Failed to accept connection")
			continue
		}
		n.logger.WithFields(logrus.Fields{
			"node": conn.LocalAddr(),
			"from": conn.RemoteAddr(),
		}).Debug("accepted connection")

		go n.serve(conn)
	}
}

// serve answers the requests of one inbound connection until it is closed.
func (n *NetworkTransport) serve(conn net.Conn) {
	defer conn.Close()

	w := bufio.NewWriterSize(conn, bufSize)
	dec := hapi.NewDecoder(bufio.NewReaderSize(conn, bufSize))
	enc := hapi.NewEncoder(w)

	for {
		err := n.serveOne(dec, enc)
		if err == nil {
			err = w.Flush()
		}
		switch {
		case err == nil:
			continue
		case err == io.EOF:
		case err == ErrTransportShutdown:
			n.logger.WithField("error", err).Debug("Dropping connection")
		default:
			n.logger.WithField("error", err).Debug("Failed to serve request")
		}
		return
	}
}

// readCommand decodes the request that follows rpcType.
func readCommand(dec *codec.Decoder, rpcType uint8) (interface{}, error) {
	switch rpcType {
	case rpcSubmitTransaction:
		var tx hapi.Transaction
		if err := dec.Decode(&tx); err != nil {
			return nil, err
		}
		return &tx, nil
	case rpcQuery:
		var q hapi.Query
		if err := dec.Decode(&q); err != nil {
			return nil, err
		}
		return &q, nil
	default:
		return nil, fmt.Errorf("unknown rpc type %d", rpcType)
	}
}

// serveOne hands a single request to the consumer and writes its answer.
func (n *NetworkTransport) serveOne(dec *codec.Decoder, enc *codec.Encoder) error {
	var rpcType uint8
	if err := dec.Decode(&rpcType); err != nil {
		return err
	}

	cmd, err := readCommand(dec, rpcType)
	if err != nil {
		return err
	}

	respCh := make(chan RPCResponse, 1)

	select {
	case n.consumeCh <- RPC{Command: cmd, RespChan: respCh}:
	case <-n.shutdownCh:
		return ErrTransportShutdown
	}

	var resp RPCResponse
	select {
	case resp = <-respCh:
	case <-n.shutdownCh:
		return ErrTransportShutdown
	}

	respErr := ""
	if resp.Error != nil {
		respErr = resp.Error.Error()
	}
	if err := enc.Encode(respErr); err != nil {
		return err
	}
	return enc.Encode(resp.Response)
}
