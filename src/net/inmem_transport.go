package net

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
)

// NewInmemAddr returns a new in-memory addr with a randomly generated UUID as
// the ID.
func NewInmemAddr() string {
	return uuid.New().String()
}

// InmemTransport implements the Transport and Server interfaces, to allow the
// SDK to be tested in-memory without going over a network.
type InmemTransport struct {
	sync.RWMutex
	consumerCh chan RPC
	localAddr  string
	peers      map[string]*InmemTransport
	timeout    time.Duration
	shutdown   bool
}

// NewInmemTransport is used to initialize a new transport and generates a
// random local address if none is specified
func NewInmemTransport(addr string) (string, *InmemTransport) {
	if addr == "" {
		addr = NewInmemAddr()
	}
	trans := &InmemTransport{
		consumerCh: make(chan RPC, 16),
		localAddr:  addr,
		peers:      make(map[string]*InmemTransport),
		timeout:    time.Second,
	}
	return addr, trans
}

// SetTimeout changes the per-call timeout applied when the context has no
// earlier deadline.
func (i *InmemTransport) SetTimeout(timeout time.Duration) {
	i.Lock()
	defer i.Unlock()
	i.timeout = timeout
}

// Consumer implements the Server interface.
func (i *InmemTransport) Consumer() <-chan RPC {
	return i.consumerCh
}

// LocalAddr implements the Server interface.
func (i *InmemTransport) LocalAddr() string {
	return i.localAddr
}

// SubmitTransaction implements the Transport interface.
func (i *InmemTransport) SubmitTransaction(ctx context.Context, target string, args *hapi.Transaction, resp *hapi.TransactionResponse) error {
	rpcResp, err := i.makeRPC(ctx, target, args)
	if err != nil {
		return err
	}

	// Copy the result back
	out, ok := rpcResp.Response.(*hapi.TransactionResponse)
	if !ok {
		return fmt.Errorf("unexpected response type %T", rpcResp.Response)
	}
	*resp = *out
	return nil
}

// Query implements the Transport interface.
func (i *InmemTransport) Query(ctx context.Context, target string, args *hapi.Query, resp *hapi.Response) error {
	rpcResp, err := i.makeRPC(ctx, target, args)
	if err != nil {
		return err
	}

	// Copy the result back
	out, ok := rpcResp.Response.(*hapi.Response)
	if !ok {
		return fmt.Errorf("unexpected response type %T", rpcResp.Response)
	}
	*resp = *out
	return nil
}

func (i *InmemTransport) makeRPC(ctx context.Context, target string, args interface{}) (rpcResp RPCResponse, err error) {
	i.RLock()
	peer, ok := i.peers[target]
	timeout := i.timeout
	shutdown := i.shutdown
	i.RUnlock()

	if shutdown {
		err = ErrTransportShutdown
		return
	}

	if !ok {
		err = fmt.Errorf("failed to connect to peer: %v", target)
		return
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	// Send the RPC over
	respCh := make(chan RPCResponse, 1)
	select {
	case peer.consumerCh <- RPC{Command: args, RespChan: respCh}:
	case <-ctx.Done():
		err = ctx.Err()
		return
	case <-timer.C:
		err = fmt.Errorf("command timed out")
		return
	}

	// Wait for a response
	select {
	case rpcResp = <-respCh:
		if rpcResp.Error != nil {
			err = rpcResp.Error
		}
	case <-ctx.Done():
		err = ctx.Err()
	case <-timer.C:
		err = fmt.Errorf("command timed out")
	}
	return
}

// Connect is used to connect this transport to another transport for
// a given peer name. This allows for local routing.
func (i *InmemTransport) Connect(peer string, t *InmemTransport) {
	i.Lock()
	defer i.Unlock()
	i.peers[peer] = t
}

// Disconnect is used to remove the ability to route to a given peer.
func (i *InmemTransport) Disconnect(peer string) {
	i.Lock()
	defer i.Unlock()
	delete(i.peers, peer)
}

// DisconnectAll is used to remove all routes to peers.
func (i *InmemTransport) DisconnectAll() {
	i.Lock()
	defer i.Unlock()
	i.peers = make(map[string]*InmemTransport)
}

// Close is used to permanently disable the transport
func (i *InmemTransport) Close() error {
	i.DisconnectAll()
	i.Lock()
	i.shutdown = true
	i.Unlock()
	return nil
}

// Listen is an empty function as there is no need to defer
// initialisation of the InMem service
func (i *InmemTransport) Listen() {
}
