package network

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/mosaicnetworks/hashgraph-sdk/src/backoff"
	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
)

// Node is a ledger node: the account receiving node fees and the address of
// its endpoint.
type Node struct {
	AccountID hapi.AccountID
	Address   string

	failures  atomic.Int64
	readmitAt atomic.Int64 // unix nanos
}

// NewNode ...
func NewNode(accountID hapi.AccountID, address string) *Node {
	return &Node{
		AccountID: accountID,
		Address:   address,
	}
}

func (n *Node) String() string {
	return fmt.Sprintf("%s@%s", n.AccountID, n.Address)
}

// IsHealthy reports whether the node may be used at now.
func (n *Node) IsHealthy(now time.Time) bool {
	return now.UnixNano() >= n.readmitAt.Load()
}

// Failures returns the number of consecutive failures.
func (n *Node) Failures() int64 {
	return n.failures.Load()
}

// ReadmitAt returns the time before which the node should be avoided. It is
// the zero time for a node that never failed.
func (n *Node) ReadmitAt() time.Time {
	r := n.readmitAt.Load()
	if r == 0 {
		return time.Time{}
	}
	return time.Unix(0, r)
}

// markFailed records a failure at now and returns the resulting exclusion.
// Concurrent failures only ever push the readmission time later.
func (n *Node) markFailed(now time.Time, min, max time.Duration) time.Duration {
	failures := n.failures.Add(1)

	wait := backoff.Policy{
		MaxAttempts: 1,
		Initial:     min,
		Max:         max,
		Multiplier:  2,
	}.Delay(int(failures))

	target := now.Add(wait).UnixNano()
	for {
		current := n.readmitAt.Load()
		if current >= target || n.readmitAt.CompareAndSwap(current, target) {
			break
		}
	}

	return wait
}

// markHealthy clears the failure history.
func (n *Node) markHealthy() {
	n.failures.Store(0)
	n.readmitAt.Store(0)
}
