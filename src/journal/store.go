// Package journal keeps track of the transactions submitted by a client
// until their receipt is known.
//
// A dispatched transaction is recorded with the node it was accepted by and
// the hash of the bytes that were sent. Once a receipt resolves, it is stored
// alongside the entry so that later lookups are answered locally. With the
// Badger implementation the journal survives restarts, which lets a client
// resume polling for transactions it submitted before it was stopped.
package journal

import (
	"sort"

	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
)

// Entry is the journal record of one dispatched transaction, or one chunk of
// a chunked transaction.
type Entry struct {
	TransactionID hapi.TransactionID                  `codec:"transactionID"`
	NodeAccountID hapi.AccountID                      `codec:"nodeAccountID"`
	Hash          []byte                              `codec:"hash"`
	SubmittedAt   hapi.Timestamp                      `codec:"submittedAt"`
	Receipt       *hapi.TransactionGetReceiptResponse `codec:"receipt,omitempty"`
}

// Resolved reports whether the receipt of the entry is known.
func (e *Entry) Resolved() bool {
	return e.Receipt != nil
}

// Store is an interface for journal backends.
type Store interface {
	// Put inserts or replaces the entry of a transaction.
	Put(entry *Entry) error
	// Get returns the entry of a transaction. It fails with a
	// common.KeyNotFound StoreErr when there is none.
	Get(id hapi.TransactionID) (*Entry, error)
	// Pending returns the entries without a receipt, oldest first.
	Pending() ([]*Entry, error)
	// Close releases the resources of the store.
	Close() error
}

func sortBySubmission(entries []*Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SubmittedAt.Before(entries[j].SubmittedAt)
	})
}
