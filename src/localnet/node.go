package localnet

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/mosaicnetworks/hashgraph-sdk/src/crypto"
	"github.com/mosaicnetworks/hashgraph-sdk/src/crypto/keys"
	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
	"github.com/mosaicnetworks/hashgraph-sdk/src/net"
	"github.com/mosaicnetworks/hashgraph-sdk/src/status"
	"github.com/sirupsen/logrus"
)

// errUnavailable is returned by a node that was made unavailable.
var errUnavailable = errors.New("node unavailable")

// Node answers the requests that reach one simulated ledger node. It prechecks
// transactions against the shared Ledger and serves queries from it.
type Node struct {
	accountID hapi.AccountID
	ledger    *Ledger
	trans     net.Server

	// number of requests still to be answered with BUSY
	busy int32

	unavailable int32

	shutdownCh chan struct{}
	shutdown   sync.Once
	wg         sync.WaitGroup

	logger *logrus.Entry
}

// NewNode creates a node that serves requests arriving on trans.
func NewNode(accountID hapi.AccountID, ledger *Ledger, trans net.Server, logger *logrus.Entry) *Node {
	return &Node{
		accountID:  accountID,
		ledger:     ledger,
		trans:      trans,
		shutdownCh: make(chan struct{}),
		logger:     logger.WithField("node", accountID),
	}
}

// AccountID returns the account of the node.
func (n *Node) AccountID() hapi.AccountID {
	return n.accountID
}

// Address returns the address the node listens on.
func (n *Node) Address() string {
	return n.trans.LocalAddr()
}

// SetBusy makes the node answer its next count requests with BUSY.
func (n *Node) SetBusy(count int) {
	atomic.StoreInt32(&n.busy, int32(count))
}

// SetUnavailable makes the node fail every request as if it could not be
// reached, until called again with false.
func (n *Node) SetUnavailable(unavailable bool) {
	var v int32
	if unavailable {
		v = 1
	}
	atomic.StoreInt32(&n.unavailable, v)
}

// Run starts the transport and processes requests until Shutdown.
func (n *Node) Run() {
	n.wg.Add(2)
	go func() {
		defer n.wg.Done()
		n.trans.Listen()
	}()
	go func() {
		defer n.wg.Done()
		n.serve()
	}()
}

func (n *Node) serve() {
	for {
		select {
		case rpc := <-n.trans.Consumer():
			n.processRPC(rpc)
		case <-n.shutdownCh:
			return
		}
	}
}

// Shutdown stops the node and closes its transport.
func (n *Node) Shutdown() {
	n.shutdown.Do(func() {
		n.logger.Debug("Shutdown")
		close(n.shutdownCh)
		n.trans.Close()
		n.wg.Wait()
	})
}

func (n *Node) processRPC(rpc net.RPC) {
	if atomic.LoadInt32(&n.unavailable) == 1 {
		rpc.Respond(nil, errUnavailable)
		return
	}

	busy := false
	if atomic.AddInt32(&n.busy, -1) >= 0 {
		busy = true
	} else {
		atomic.StoreInt32(&n.busy, 0)
	}

	switch cmd := rpc.Command.(type) {
	case *hapi.Transaction:
		resp := &hapi.TransactionResponse{NodeTransactionPrecheckCode: status.Busy}
		if !busy {
			resp.NodeTransactionPrecheckCode = n.submit(cmd)
		}
		rpc.Respond(resp, nil)
	case *hapi.Query:
		if busy {
			rpc.Respond(busyResponse(cmd), nil)
			return
		}
		resp, err := n.query(cmd)
		rpc.Respond(resp, err)
	default:
		n.logger.WithField("command", fmt.Sprintf("%T", cmd)).Error("Unexpected RPC command")
		rpc.Respond(nil, fmt.Errorf("unexpected command"))
	}
}

// submit prechecks a transaction and hands it to the ledger.
func (n *Node) submit(tx *hapi.Transaction) status.Status {
	signed, body, err := hapi.DecodeTransaction(tx)
	if err != nil {
		return status.BadEncoding
	}

	sigs, ok := verify(signed)
	if !ok {
		return status.InvalidSignature
	}

	st := n.ledger.precheck(n.accountID, body, sigs, crypto.SHA384(tx.SignedTransactionBytes))

	n.logger.WithFields(logrus.Fields{
		"transaction": body.TransactionID,
		"precheck":    st,
	}).Debug("SubmitTransaction")

	return st
}

// query answers one query.
func (n *Node) query(q *hapi.Query) (*hapi.Response, error) {
	switch {
	case q.TransactionGetReceipt != nil:
		return &hapi.Response{TransactionGetReceipt: n.ledger.receipt(q.TransactionGetReceipt)}, nil

	case q.TransactionGetRecord != nil:
		rq := q.TransactionGetRecord
		cost := n.ledger.queryCost()
		if rq.Header.ResponseType == hapi.CostAnswer {
			return &hapi.Response{TransactionGetRecord: &hapi.TransactionGetRecordResponse{
				Header: hapi.ResponseHeader{ResponseType: hapi.CostAnswer, Cost: cost},
			}}, nil
		}
		if st := n.pay(rq.Header.Payment); st != status.Ok {
			return &hapi.Response{TransactionGetRecord: &hapi.TransactionGetRecordResponse{
				Header: hapi.ResponseHeader{NodeTransactionPrecheckCode: st, Cost: cost},
			}}, nil
		}
		return &hapi.Response{TransactionGetRecord: n.ledger.record(rq)}, nil

	case q.CryptoGetAccountBalance != nil:
		return &hapi.Response{CryptoGetAccountBalance: n.ledger.balance(q.CryptoGetAccountBalance)}, nil
	}
	return nil, fmt.Errorf("empty query")
}

// pay checks and settles the payment attached to a query.
func (n *Node) pay(payment *hapi.Transaction) status.Status {
	if payment == nil {
		return status.InsufficientTxFee
	}
	signed, body, err := hapi.DecodeTransaction(payment)
	if err != nil {
		return status.BadEncoding
	}
	sigs, ok := verify(signed)
	if !ok {
		return status.InvalidSignature
	}
	return n.ledger.settlePayment(n.accountID, body, sigs)
}

// verify checks every signature over the body and returns the set of keys
// that signed, indexed by hex.
func verify(signed *hapi.SignedTransaction) (map[string]bool, bool) {
	sigs := make(map[string]bool, len(signed.SigMap.SigPair))
	for _, pair := range signed.SigMap.SigPair {
		var (
			t   keys.KeyType
			sig []byte
		)
		switch {
		case pair.Ed25519 != nil:
			t, sig = keys.Ed25519, pair.Ed25519
		case pair.ECDSASecp256k1 != nil:
			t, sig = keys.ECDSASecp256k1, pair.ECDSASecp256k1
		default:
			return nil, false
		}
		pub, err := keys.ParsePublicKey(t, pair.PubKeyPrefix)
		if err != nil || !pub.Verify(signed.BodyBytes, sig) {
			return nil, false
		}
		sigs[pub.Hex()] = true
	}
	return sigs, true
}

func busyResponse(q *hapi.Query) *hapi.Response {
	header := hapi.ResponseHeader{NodeTransactionPrecheckCode: status.Busy}
	switch {
	case q.TransactionGetReceipt != nil:
		return &hapi.Response{TransactionGetReceipt: &hapi.TransactionGetReceiptResponse{Header: header}}
	case q.TransactionGetRecord != nil:
		return &hapi.Response{TransactionGetRecord: &hapi.TransactionGetRecordResponse{Header: header}}
	default:
		return &hapi.Response{CryptoGetAccountBalance: &hapi.CryptoGetAccountBalanceResponse{Header: header}}
	}
}
