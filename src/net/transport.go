package net

import (
	"context"

	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
)

// Transport provides an interface for network transports to allow a client to
// send requests to ledger nodes.
type Transport interface {
	// SubmitTransaction sends a signed transaction to the node at target.
	SubmitTransaction(ctx context.Context, target string, args *hapi.Transaction, resp *hapi.TransactionResponse) error

	// Query sends a query to the node at target.
	Query(ctx context.Context, target string, args *hapi.Query, resp *hapi.Response) error

	// Close permanently closes a transport, stopping
	// any associated goroutines and freeing other resources.
	Close() error
}

// Server is the receiving side of a transport.
type Server interface {
	// Starts the transport listening
	Listen()

	// Consumer returns a channel that can be used to
	// consume and respond to RPC requests.
	Consumer() <-chan RPC

	// LocalAddr is used to return our local address
	LocalAddr() string

	// Close stops accepting requests
	Close() error
}
