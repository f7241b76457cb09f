package sdk

import (
	"context"
	"errors"

	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
	"github.com/mosaicnetworks/hashgraph-sdk/src/net"
	"github.com/mosaicnetworks/hashgraph-sdk/src/network"
	"github.com/mosaicnetworks/hashgraph-sdk/src/status"
)

var errEmptyResponse = errors.New("node returned an empty response")

// queryBuilder is implemented by every concrete query.
type queryBuilder interface {
	// buildQuery wraps header in the envelope of the query.
	buildQuery(header hapi.QueryHeader) *hapi.Query

	// isPaid reports whether the query needs a payment.
	isPaid() bool

	// classify maps a response to the reaction of the Executor.
	classify(resp *hapi.Response) (status.Class, status.Status)
}

// Query holds what every query kind has in common. It is embedded by the
// concrete kinds.
type Query struct {
	kind    string
	builder queryBuilder

	nodeAccountIDs []hapi.AccountID
	payment        *uint64
	maxPayment     uint64
}

func newQuery(kind string, builder queryBuilder) *Query {
	return &Query{
		kind:    kind,
		builder: builder,
	}
}

// setPayment fixes the amount paid to the answering node, which skips the
// cost lookup.
func (q *Query) setPayment(amount uint64) {
	q.payment = &amount
}

// nodes returns the nodes the query may be sent to. Paid queries need a fixed
// set, since a payment is addressed to one node.
func (q *Query) nodes(client *Client) []hapi.AccountID {
	if len(q.nodeAccountIDs) > 0 {
		return q.nodeAccountIDs
	}
	if q.builder.isPaid() {
		return client.sampleNodes()
	}
	return nil
}

// getCost asks a node what the query costs.
func (q *Query) getCost(ctx context.Context, client *Client, nodes []hapi.AccountID) (uint64, error) {
	res, err := client.executor.Execute(ctx, &queryExecutable{
		query:        q,
		client:       client,
		nodes:        nodes,
		responseType: hapi.CostAnswer,
	})
	if err != nil {
		return 0, err
	}
	return res.Response.(*hapi.Response).Header().Cost, nil
}

// execute pays for the query if needed and runs it through the Executor.
func (q *Query) execute(ctx context.Context, client *Client) (*hapi.Response, error) {
	if client == nil {
		return nil, newValidationError(MissingField, "%s needs a client to be executed", q.kind)
	}

	ctx, cancel := client.withTimeout(ctx)
	defer cancel()

	nodes := q.nodes(client)

	var amount uint64
	if q.builder.isPaid() {
		var err error
		if amount, err = q.paymentAmount(ctx, client, nodes); err != nil {
			return nil, err
		}
	}

	res, err := client.executor.Execute(ctx, &queryExecutable{
		query:        q,
		client:       client,
		nodes:        nodes,
		amount:       amount,
		responseType: hapi.AnswerOnly,
	})
	if err != nil {
		return nil, err
	}
	return res.Response.(*hapi.Response), nil
}

// paymentAmount returns the fixed payment, or looks the cost up and checks it
// against the maximum query payment.
func (q *Query) paymentAmount(ctx context.Context, client *Client, nodes []hapi.AccountID) (uint64, error) {
	if client.operator == nil {
		return 0, newValidationError(MissingField, "%s must be paid for and the client has no operator", q.kind)
	}

	if q.payment != nil {
		return *q.payment, nil
	}

	cost, err := q.getCost(ctx, client, nodes)
	if err != nil {
		return 0, err
	}
	max := q.maxPayment
	if max == 0 {
		max = client.conf.MaxQueryPayment
	}
	if cost > max {
		return 0, newValidationError(MaxQueryPayment, "%s costs %d, more than the maximum of %d", q.kind, cost, max)
	}
	return cost, nil
}

// queryPayment builds the transfer of amount from the operator to node that
// pays for one query attempt.
func (c *Client) queryPayment(node hapi.AccountID, amount uint64) (*hapi.Transaction, error) {
	tx := NewTransferTransaction()
	if err := tx.AddTransfer(c.operator.AccountID, -int64(amount)); err != nil {
		return nil, err
	}
	if err := tx.AddTransfer(node, int64(amount)); err != nil {
		return nil, err
	}
	if err := tx.SetNodeAccountIDs([]hapi.AccountID{node}); err != nil {
		return nil, err
	}
	if err := tx.FreezeWith(c); err != nil {
		return nil, err
	}
	if err := tx.Sign(c.operator.PrivateKey); err != nil {
		return nil, err
	}
	return tx.signedTransaction(tx.chunks[0], node)
}

// queryExecutable dispatches one query, or its cost lookup, through the
// Executor.
type queryExecutable struct {
	query        *Query
	client       *Client
	nodes        []hapi.AccountID
	amount       uint64
	responseType hapi.ResponseType
}

func (e *queryExecutable) Name() string {
	if e.responseType == hapi.CostAnswer {
		return e.query.kind + "Cost"
	}
	return e.query.kind
}

func (e *queryExecutable) NodeAccountIDs() []hapi.AccountID {
	return e.nodes
}

func (e *queryExecutable) MakeRequest(node *network.Node) (interface{}, error) {
	header := hapi.QueryHeader{ResponseType: e.responseType}
	if e.amount > 0 {
		payment, err := e.client.queryPayment(node.AccountID, e.amount)
		if err != nil {
			return nil, err
		}
		header.Payment = payment
	}
	return e.query.builder.buildQuery(header), nil
}

func (e *queryExecutable) Send(ctx context.Context, t net.Transport, node *network.Node, req interface{}) (interface{}, error) {
	var resp hapi.Response
	if err := t.Query(ctx, node.Address, req.(*hapi.Query), &resp); err != nil {
		return nil, err
	}
	if resp.Header() == nil {
		return nil, errEmptyResponse
	}
	return &resp, nil
}

func (e *queryExecutable) Classify(resp interface{}) (status.Class, status.Status) {
	return e.query.builder.classify(resp.(*hapi.Response))
}

// precheckClass is the classification of queries that do not override it.
func precheckClass(resp *hapi.Response) (status.Class, status.Status) {
	st := resp.Header().NodeTransactionPrecheckCode
	return st.Class(), st
}

// pendingIsSuccess classifies lookups of transaction outcomes: a pending
// outcome is a successful exchange, waiting for it is up to the poller.
func pendingIsSuccess(resp *hapi.Response) (status.Class, status.Status) {
	st := resp.Header().NodeTransactionPrecheckCode
	if st.IsPending() {
		return status.Succeeded, st
	}
	return st.Class(), st
}
