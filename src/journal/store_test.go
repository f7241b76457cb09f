package journal

import (
	"path/filepath"
	"testing"
	"time"

	cm "github.com/mosaicnetworks/hashgraph-sdk/src/common"
	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
	"github.com/mosaicnetworks/hashgraph-sdk/src/status"
)

func testEntry(n int) *Entry {
	start := time.Unix(1600000000, 0).Add(time.Duration(n) * time.Second)
	return &Entry{
		TransactionID: hapi.TransactionID{
			AccountID:  hapi.AccountID{Num: 1001},
			ValidStart: hapi.TimestampFromTime(start),
		},
		NodeAccountID: hapi.AccountID{Num: 3},
		Hash:          []byte{byte(n), 0xAB},
		SubmittedAt:   hapi.TimestampFromTime(start.Add(time.Second)),
	}
}

func checkStore(t *testing.T, store Store) {
	// Unknown id
	if _, err := store.Get(testEntry(0).TransactionID); !cm.IsStore(err, cm.KeyNotFound) {
		t.Fatalf("expected KeyNotFound, got %v", err)
	}

	// Insert in reverse submission order
	for i := 3; i >= 0; i-- {
		if err := store.Put(testEntry(i)); err != nil {
			t.Fatalf("Put %d: %v", i, err)
		}
	}

	got, err := store.Get(testEntry(2).TransactionID)
	if err != nil {
		t.Fatal(err)
	}
	if got.NodeAccountID != (hapi.AccountID{Num: 3}) || got.Hash[0] != 2 {
		t.Fatalf("unexpected entry %#v", got)
	}
	if got.Resolved() {
		t.Fatal("entry should not be resolved")
	}

	// Resolve entry 1
	resolved := testEntry(1)
	resolved.Receipt = &hapi.TransactionGetReceiptResponse{
		Receipt: hapi.TransactionReceipt{Status: status.Success},
		ChildTransactionReceipts: []hapi.TransactionReceipt{
			{Status: status.InsufficientPayerBalance},
		},
	}
	if err := store.Put(resolved); err != nil {
		t.Fatal(err)
	}

	got, err = store.Get(resolved.TransactionID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Resolved() || got.Receipt.Receipt.Status != status.Success {
		t.Fatalf("receipt was not stored: %#v", got.Receipt)
	}
	if len(got.Receipt.ChildTransactionReceipts) != 1 ||
		got.Receipt.ChildTransactionReceipts[0].Status != status.InsufficientPayerBalance {
		t.Fatalf("child receipts were not stored: %#v", got.Receipt.ChildTransactionReceipts)
	}

	pending, err := store.Pending()
	if err != nil {
		t.Fatal(err)
	}
	want := []int{0, 2, 3}
	if len(pending) != len(want) {
		t.Fatalf("expected %d pending entries, got %d", len(want), len(pending))
	}
	for i, n := range want {
		if pending[i].TransactionID != testEntry(n).TransactionID {
			t.Fatalf("pending[%d] should be entry %d, got %s", i, n, pending[i].TransactionID)
		}
	}
}

func TestInmemStore(t *testing.T) {
	store := NewInmemStore()
	checkStore(t, store)

	// Entries are copied in and out
	e := testEntry(7)
	if err := store.Put(e); err != nil {
		t.Fatal(err)
	}
	e.NodeAccountID = hapi.AccountID{Num: 99}
	got, _ := store.Get(e.TransactionID)
	if got.NodeAccountID.Num != 3 {
		t.Fatal("store shares memory with the caller")
	}

	store.Close()
	if err := store.Put(e); !cm.IsStore(err, cm.Closed) {
		t.Fatalf("expected Closed, got %v", err)
	}
}

func TestBadgerStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal")

	store, err := NewBadgerStore(path, cm.NewTestEntry(t, cm.TestLogLevel))
	if err != nil {
		t.Fatal(err)
	}
	checkStore(t, store)
	if store.StorePath() != path {
		t.Fatalf("unexpected path %s", store.StorePath())
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopen and check persistence
	store, err = NewBadgerStore(path, cm.NewTestEntry(t, cm.TestLogLevel))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	pending, err := store.Pending()
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 3 {
		t.Fatalf("expected 3 pending entries after reopening, got %d", len(pending))
	}
	if _, err := store.Get(testEntry(1).TransactionID); err != nil {
		t.Fatalf("resolved entry lost after reopening: %v", err)
	}
}
