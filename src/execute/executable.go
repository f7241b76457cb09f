package execute

import (
	"context"

	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
	"github.com/mosaicnetworks/hashgraph-sdk/src/net"
	"github.com/mosaicnetworks/hashgraph-sdk/src/network"
	"github.com/mosaicnetworks/hashgraph-sdk/src/status"
)

// Executable is one request that the Executor can dispatch: a single chunk of
// a transaction, or a query.
type Executable interface {
	// Name identifies the kind of request in logs and errors.
	Name() string

	// NodeAccountIDs restricts the nodes the request may be sent to. An empty
	// list means any node of the network.
	NodeAccountIDs() []hapi.AccountID

	// MakeRequest returns the request for node. Transactions return the body
	// that was signed for that node.
	MakeRequest(node *network.Node) (interface{}, error)

	// Send performs one request/response exchange. Errors are transport
	// faults; ledger statuses travel in the response.
	Send(ctx context.Context, t net.Transport, node *network.Node, req interface{}) (interface{}, error)

	// Classify maps the response to the reaction of the Executor and returns
	// the status it was based on.
	Classify(resp interface{}) (status.Class, status.Status)
}

// Result is what a successful Execute returns.
type Result struct {
	Response interface{}
	Node     *network.Node
	Attempts int
	Status   status.Status
}
