package sdk

import (
	"context"

	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
	"github.com/mosaicnetworks/hashgraph-sdk/src/status"
)

// TransactionReceiptQuery fetches the receipt of a transaction once. It is
// free. The receipt may still be pending; ReceiptPoller waits for it.
type TransactionReceiptQuery struct {
	*Query
	transactionID     hapi.TransactionID
	includeChildren   bool
	includeDuplicates bool
}

// NewTransactionReceiptQuery ...
func NewTransactionReceiptQuery() *TransactionReceiptQuery {
	q := &TransactionReceiptQuery{}
	q.Query = newQuery("TransactionGetReceipt", q)
	return q
}

// SetTransactionID ...
func (q *TransactionReceiptQuery) SetTransactionID(id hapi.TransactionID) *TransactionReceiptQuery {
	q.transactionID = id
	return q
}

// SetIncludeChildren asks for the receipts of the transactions triggered by
// this one.
func (q *TransactionReceiptQuery) SetIncludeChildren(include bool) *TransactionReceiptQuery {
	q.includeChildren = include
	return q
}

// SetIncludeDuplicates asks for the receipts of other submissions with the
// same ID.
func (q *TransactionReceiptQuery) SetIncludeDuplicates(include bool) *TransactionReceiptQuery {
	q.includeDuplicates = include
	return q
}

// SetNodeAccountIDs restricts the nodes asked.
func (q *TransactionReceiptQuery) SetNodeAccountIDs(ids []hapi.AccountID) *TransactionReceiptQuery {
	q.nodeAccountIDs = ids
	return q
}

// Execute returns the receipt as known by the node asked. Its status is
// UNKNOWN, or RECEIPT_NOT_FOUND, while the transaction has not reached
// consensus.
func (q *TransactionReceiptQuery) Execute(ctx context.Context, client *Client) (*TransactionReceipt, error) {
	resp, err := q.execute(ctx, client)
	if err != nil {
		return nil, err
	}
	r := resp.TransactionGetReceipt
	if r == nil {
		return nil, errEmptyResponse
	}
	receipt := newTransactionReceipt(q.transactionID, r)
	if st := r.Header.NodeTransactionPrecheckCode; st.IsPending() {
		receipt.Status = st
	}
	return receipt, nil
}

func (q *TransactionReceiptQuery) buildQuery(header hapi.QueryHeader) *hapi.Query {
	return &hapi.Query{
		TransactionGetReceipt: &hapi.TransactionGetReceiptQuery{
			Header:               header,
			TransactionID:        q.transactionID,
			IncludeDuplicates:    q.includeDuplicates,
			IncludeChildReceipts: q.includeChildren,
		},
	}
}

func (q *TransactionReceiptQuery) isPaid() bool {
	return false
}

func (q *TransactionReceiptQuery) classify(resp *hapi.Response) (status.Class, status.Status) {
	return pendingIsSuccess(resp)
}
