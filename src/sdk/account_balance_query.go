package sdk

import (
	"context"

	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
	"github.com/mosaicnetworks/hashgraph-sdk/src/status"
)

// AccountBalanceQuery fetches the balance of an account. It is free.
type AccountBalanceQuery struct {
	*Query
	accountID *hapi.AccountID
}

// NewAccountBalanceQuery ...
func NewAccountBalanceQuery() *AccountBalanceQuery {
	q := &AccountBalanceQuery{}
	q.Query = newQuery("CryptoGetAccountBalance", q)
	return q
}

// SetAccountID ...
func (q *AccountBalanceQuery) SetAccountID(id hapi.AccountID) *AccountBalanceQuery {
	q.accountID = &id
	return q
}

// SetNodeAccountIDs restricts the nodes asked.
func (q *AccountBalanceQuery) SetNodeAccountIDs(ids []hapi.AccountID) *AccountBalanceQuery {
	q.nodeAccountIDs = ids
	return q
}

// Execute returns the balance.
func (q *AccountBalanceQuery) Execute(ctx context.Context, client *Client) (uint64, error) {
	if q.accountID == nil {
		return 0, newValidationError(MissingField, "balance query has no account ID")
	}
	resp, err := q.execute(ctx, client)
	if err != nil {
		return 0, err
	}
	if resp.CryptoGetAccountBalance == nil {
		return 0, errEmptyResponse
	}
	return resp.CryptoGetAccountBalance.Balance, nil
}

func (q *AccountBalanceQuery) buildQuery(header hapi.QueryHeader) *hapi.Query {
	return &hapi.Query{
		CryptoGetAccountBalance: &hapi.CryptoGetAccountBalanceQuery{
			Header:    header,
			AccountID: *q.accountID,
		},
	}
}

func (q *AccountBalanceQuery) isPaid() bool {
	return false
}

func (q *AccountBalanceQuery) classify(resp *hapi.Response) (status.Class, status.Status) {
	return precheckClass(resp)
}
