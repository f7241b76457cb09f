package sdk

import (
	"context"
	"testing"

	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
	"github.com/mosaicnetworks/hashgraph-sdk/src/status"
	"github.com/stretchr/testify/require"
)

const recordCost = 7

// recordAfter answers receipt lookups with SUCCESS, record costs with
// recordCost, and paid record lookups with RECORD_NOT_FOUND until pending
// paid lookups were made.
func recordAfter(pending int) func(*hapi.Query, int) *hapi.Response {
	paid := 0
	return func(q *hapi.Query, _ int) *hapi.Response {
		if q.TransactionGetReceipt != nil {
			return &hapi.Response{TransactionGetReceipt: &hapi.TransactionGetReceiptResponse{
				Receipt: hapi.TransactionReceipt{Status: status.Success},
			}}
		}

		if q.TransactionGetRecord.Header.ResponseType == hapi.CostAnswer {
			return &hapi.Response{TransactionGetRecord: &hapi.TransactionGetRecordResponse{
				Header: hapi.ResponseHeader{ResponseType: hapi.CostAnswer, Cost: recordCost},
			}}
		}

		paid++
		if paid <= pending {
			return &hapi.Response{TransactionGetRecord: &hapi.TransactionGetRecordResponse{
				Header: hapi.ResponseHeader{NodeTransactionPrecheckCode: status.RecordNotFound},
			}}
		}
		return &hapi.Response{TransactionGetRecord: &hapi.TransactionGetRecordResponse{
			Record: hapi.TransactionRecord{
				Receipt:       hapi.TransactionReceipt{Status: status.Success},
				TransactionID: q.TransactionGetRecord.TransactionID,
			},
		}}
	}
}

func TestRecordCostIsLookedUpOnce(t *testing.T) {
	trans := &scripted{query: recordAfter(3)}
	client := testClient(t, 1, trans)

	id := client.NewTransactionID(operatorID)
	record, err := client.Poller().Record(context.Background(), id, []hapi.AccountID{{Num: 3}})
	require.NoError(t, err)
	require.Equal(t, status.Success, record.Receipt.Status)
	require.Equal(t, id, record.TransactionID)

	trans.Lock()
	defer trans.Unlock()

	var costs, paid int
	for _, q := range trans.queries {
		r := q.TransactionGetRecord
		if r == nil {
			continue
		}
		if r.Header.ResponseType == hapi.CostAnswer {
			require.Nil(t, r.Header.Payment)
			costs++
			continue
		}

		paid++
		require.NotNil(t, r.Header.Payment)
		_, body, err := hapi.DecodeTransaction(r.Header.Payment)
		require.NoError(t, err)
		require.NotNil(t, body.CryptoTransfer)
		require.Contains(t, body.CryptoTransfer.Transfers, hapi.AccountAmount{AccountID: operatorID, Amount: -recordCost})
	}
	require.Equal(t, 1, costs)
	require.Equal(t, 4, paid)
}

func TestRecordCostAboveMaximum(t *testing.T) {
	trans := &scripted{query: recordAfter(0)}
	client := testClient(t, 1, trans)
	client.Config().MaxQueryPayment = recordCost - 1

	_, err := client.Poller().Record(context.Background(), client.NewTransactionID(operatorID), []hapi.AccountID{{Num: 3}})
	require.True(t, IsLocalValidation(err, MaxQueryPayment), "got %v", err)

	trans.Lock()
	defer trans.Unlock()
	for _, q := range trans.queries {
		if r := q.TransactionGetRecord; r != nil {
			require.Nil(t, r.Header.Payment)
		}
	}
}
