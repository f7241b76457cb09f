package sdk

import (
	"context"

	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
	"github.com/mosaicnetworks/hashgraph-sdk/src/status"
)

// TransactionRecordQuery fetches the record of a transaction once. It is paid
// for by the operator: unless a payment is set, the cost is looked up first
// and must not exceed the maximum query payment.
type TransactionRecordQuery struct {
	*Query
	transactionID     hapi.TransactionID
	includeChildren   bool
	includeDuplicates bool
}

// NewTransactionRecordQuery ...
func NewTransactionRecordQuery() *TransactionRecordQuery {
	q := &TransactionRecordQuery{}
	q.Query = newQuery("TransactionGetRecord", q)
	return q
}

// SetTransactionID ...
func (q *TransactionRecordQuery) SetTransactionID(id hapi.TransactionID) *TransactionRecordQuery {
	q.transactionID = id
	return q
}

// SetIncludeChildren asks for the records of the transactions triggered by
// this one.
func (q *TransactionRecordQuery) SetIncludeChildren(include bool) *TransactionRecordQuery {
	q.includeChildren = include
	return q
}

// SetIncludeDuplicates asks for the records of other submissions with the
// same ID.
func (q *TransactionRecordQuery) SetIncludeDuplicates(include bool) *TransactionRecordQuery {
	q.includeDuplicates = include
	return q
}

// SetNodeAccountIDs restricts the nodes asked.
func (q *TransactionRecordQuery) SetNodeAccountIDs(ids []hapi.AccountID) *TransactionRecordQuery {
	q.nodeAccountIDs = ids
	return q
}

// SetQueryPayment fixes the amount paid to the answering node.
func (q *TransactionRecordQuery) SetQueryPayment(amount uint64) *TransactionRecordQuery {
	q.setPayment(amount)
	return q
}

// SetMaxQueryPayment caps the looked up cost. Zero means the client default.
func (q *TransactionRecordQuery) SetMaxQueryPayment(amount uint64) *TransactionRecordQuery {
	q.maxPayment = amount
	return q
}

// GetCost returns what the query would cost.
func (q *TransactionRecordQuery) GetCost(ctx context.Context, client *Client) (uint64, error) {
	ctx, cancel := client.withTimeout(ctx)
	defer cancel()
	return q.getCost(ctx, client, q.nodes(client))
}

// Execute returns the record as known by the node asked. Its receipt status
// is pending while the transaction has not reached consensus.
func (q *TransactionRecordQuery) Execute(ctx context.Context, client *Client) (*TransactionRecord, error) {
	resp, err := q.execute(ctx, client)
	if err != nil {
		return nil, err
	}
	r := resp.TransactionGetRecord
	if r == nil {
		return nil, errEmptyResponse
	}
	record := newTransactionRecord(r)
	if st := r.Header.NodeTransactionPrecheckCode; st.IsPending() {
		record.Receipt.Status = st
	}
	return record, nil
}

func (q *TransactionRecordQuery) buildQuery(header hapi.QueryHeader) *hapi.Query {
	return &hapi.Query{
		TransactionGetRecord: &hapi.TransactionGetRecordQuery{
			Header:              header,
			TransactionID:       q.transactionID,
			IncludeDuplicates:   q.includeDuplicates,
			IncludeChildRecords: q.includeChildren,
		},
	}
}

func (q *TransactionRecordQuery) isPaid() bool {
	return true
}

func (q *TransactionRecordQuery) classify(resp *hapi.Response) (status.Class, status.Status) {
	return pendingIsSuccess(resp)
}
