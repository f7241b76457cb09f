package sdk

import (
	"context"
	"fmt"

	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
	"github.com/mosaicnetworks/hashgraph-sdk/src/status"
)

// TransactionResponse says that a node accepted a transaction, or one chunk
// of it, for consensus. It does not say anything about the outcome, which
// GetReceipt and GetRecord wait for.
type TransactionResponse struct {
	TransactionID hapi.TransactionID
	NodeAccountID hapi.AccountID
	Hash          []byte
	ChunkIndex    int

	validateStatus bool
}

// SetValidateStatus controls whether GetReceipt fails on a status other than
// SUCCESS. It is on by default.
func (r *TransactionResponse) SetValidateStatus(validate bool) *TransactionResponse {
	r.validateStatus = validate
	return r
}

func (r *TransactionResponse) String() string {
	return fmt.Sprintf("%s via %s", r.TransactionID, r.NodeAccountID)
}

// GetReceipt polls the node that accepted the transaction until its receipt
// is known.
func (r *TransactionResponse) GetReceipt(ctx context.Context, client *Client) (*TransactionReceipt, error) {
	if client == nil {
		return nil, newValidationError(MissingField, "receipt of %s needs a client", r.TransactionID)
	}
	receipt, err := client.poller.Receipt(ctx, r.TransactionID, []hapi.AccountID{r.NodeAccountID})
	if err != nil {
		return nil, err
	}
	if r.validateStatus && receipt.Status != status.Success {
		return receipt, &ReceiptStatusError{
			Status:        receipt.Status,
			TransactionID: r.TransactionID,
			Receipt:       receipt,
		}
	}
	return receipt, nil
}

// GetRecord waits for the receipt, then fetches the record of the
// transaction from the node that accepted it. Records are paid for by the
// operator.
func (r *TransactionResponse) GetRecord(ctx context.Context, client *Client) (*TransactionRecord, error) {
	if client == nil {
		return nil, newValidationError(MissingField, "record of %s needs a client", r.TransactionID)
	}
	return client.poller.Record(ctx, r.TransactionID, []hapi.AccountID{r.NodeAccountID})
}
