package sdk

import (
	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
)

// TransactionReceipt is the consensus outcome of a transaction. Children are
// the receipts of the transactions it triggered, Duplicates those of other
// submissions of the same transaction ID.
type TransactionReceipt struct {
	hapi.TransactionReceipt
	TransactionID hapi.TransactionID
	Children      []hapi.TransactionReceipt
	Duplicates    []hapi.TransactionReceipt
}

func newTransactionReceipt(id hapi.TransactionID, resp *hapi.TransactionGetReceiptResponse) *TransactionReceipt {
	return &TransactionReceipt{
		TransactionReceipt: resp.Receipt,
		TransactionID:      id,
		Children:           resp.ChildTransactionReceipts,
		Duplicates:         resp.DuplicateTransactionReceipts,
	}
}

// TransactionRecord is the receipt of a transaction plus the details of its
// execution.
type TransactionRecord struct {
	hapi.TransactionRecord
	Children   []hapi.TransactionRecord
	Duplicates []hapi.TransactionRecord
}

func newTransactionRecord(resp *hapi.TransactionGetRecordResponse) *TransactionRecord {
	return &TransactionRecord{
		TransactionRecord: resp.Record,
		Children:          resp.ChildTransactionRecords,
		Duplicates:        resp.DuplicateTransactionRecords,
	}
}
