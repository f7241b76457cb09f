package sdk

import (
	"context"
	"time"

	cm "github.com/mosaicnetworks/hashgraph-sdk/src/common"
	"github.com/mosaicnetworks/hashgraph-sdk/src/execute"
	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
	"github.com/mosaicnetworks/hashgraph-sdk/src/journal"
	"github.com/sirupsen/logrus"
)

// PollerState is the stage of one lookup of a transaction outcome.
type PollerState uint32

const (
	// Polling is the state in which the outcome is not known yet.
	Polling PollerState = iota

	// Resolved is the state in which the ledger returned a definite status,
	// successful or not.
	Resolved

	// Failed is the state in which the lookups themselves failed: nodes
	// exhausted or deadline expired.
	Failed
)

// String returns the string representation of a PollerState
func (s PollerState) String() string {
	switch s {
	case Polling:
		return "Polling"
	case Resolved:
		return "Resolved"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// ReceiptPoller waits for the outcome of dispatched transactions. It looks the
// receipt up at a fixed interval, independent of the backoff applied between
// the attempts of each lookup. Resolved receipts are kept in the client's
// journal and served from there afterwards.
type ReceiptPoller struct {
	client   *Client
	interval time.Duration
}

// NewReceiptPoller ...
func NewReceiptPoller(client *Client, interval time.Duration) *ReceiptPoller {
	return &ReceiptPoller{
		client:   client,
		interval: interval,
	}
}

// Receipt polls nodes, or any node when nodes is empty, until the receipt of
// id is resolved. Child and duplicate receipts are always requested.
func (p *ReceiptPoller) Receipt(ctx context.Context, id hapi.TransactionID, nodes []hapi.AccountID) (*TransactionReceipt, error) {
	entry, err := p.client.journal.Get(id)
	if err == nil && entry.Resolved() {
		return newTransactionReceipt(id, entry.Receipt), nil
	}

	ctx, cancel := p.client.withTimeout(ctx)
	defer cancel()

	q := NewTransactionReceiptQuery().
		SetTransactionID(id).
		SetNodeAccountIDs(nodes).
		SetIncludeChildren(true).
		SetIncludeDuplicates(true)

	var resp *hapi.TransactionGetReceiptResponse
	err = p.poll(ctx, id, q.kind, func(ctx context.Context) (bool, error) {
		r, err := q.execute(ctx, p.client)
		if err != nil {
			return false, err
		}
		if r.TransactionGetReceipt == nil {
			return false, errEmptyResponse
		}
		resp = r.TransactionGetReceipt
		pending := resp.Header.NodeTransactionPrecheckCode.IsPending() || resp.Receipt.Status.IsPending()
		return !pending, nil
	})
	if err != nil {
		return nil, err
	}

	p.remember(id, nodes, resp)

	return newTransactionReceipt(id, resp), nil
}

// Record waits for the receipt of id, then polls for its record, which
// becomes available at the same time or shortly after. The record query is
// paid for by the operator.
func (p *ReceiptPoller) Record(ctx context.Context, id hapi.TransactionID, nodes []hapi.AccountID) (*TransactionRecord, error) {
	ctx, cancel := p.client.withTimeout(ctx)
	defer cancel()

	if _, err := p.Receipt(ctx, id, nodes); err != nil {
		return nil, err
	}

	q := NewTransactionRecordQuery().
		SetTransactionID(id).
		SetNodeAccountIDs(nodes).
		SetIncludeChildren(true).
		SetIncludeDuplicates(true)

	// The cost is looked up once and every poll pays that amount.
	amount, err := q.paymentAmount(ctx, p.client, q.nodes(p.client))
	if err != nil {
		return nil, err
	}
	q.SetQueryPayment(amount)

	var resp *hapi.TransactionGetRecordResponse
	err = p.poll(ctx, id, q.kind, func(ctx context.Context) (bool, error) {
		r, err := q.execute(ctx, p.client)
		if err != nil {
			return false, err
		}
		if r.TransactionGetRecord == nil {
			return false, errEmptyResponse
		}
		resp = r.TransactionGetRecord
		pending := resp.Header.NodeTransactionPrecheckCode.IsPending() || resp.Record.Receipt.Status.IsPending()
		return !pending, nil
	})
	if err != nil {
		return nil, err
	}

	return newTransactionRecord(resp), nil
}

// poll runs lookup until it reports a resolved outcome, waiting the poll
// interval between two lookups.
func (p *ReceiptPoller) poll(ctx context.Context, id hapi.TransactionID, name string, lookup func(context.Context) (bool, error)) error {
	logger := p.client.logger.WithFields(logrus.Fields{
		"transaction": id,
		"lookup":      name,
	})

	state := Polling
	for polls := 1; ; polls++ {
		resolved, err := lookup(ctx)
		switch {
		case err != nil:
			state = Failed
		case resolved:
			state = Resolved
		default:
			if serr := execute.Sleep(ctx, p.interval); serr != nil {
				err = execute.NewContextError(name, polls, serr)
				state = Failed
			}
		}

		if state != Polling {
			logger.WithFields(logrus.Fields{
				"state": state,
				"polls": polls,
			}).Debug("Polling done")
			return err
		}
	}
}

// remember stores a resolved receipt in the journal.
func (p *ReceiptPoller) remember(id hapi.TransactionID, nodes []hapi.AccountID, resp *hapi.TransactionGetReceiptResponse) {
	entry, err := p.client.journal.Get(id)
	if err != nil {
		if !cm.IsStore(err, cm.KeyNotFound) {
			p.client.logger.WithError(err).Warn("Failed to read journal")
			return
		}
		entry = &journal.Entry{TransactionID: id}
		if len(nodes) > 0 {
			entry.NodeAccountID = nodes[0]
		}
	}
	entry.Receipt = resp
	if err := p.client.journal.Put(entry); err != nil {
		p.client.logger.WithError(err).Warn("Failed to journal receipt")
	}
}
