package localnet

import (
	"fmt"
	"sync"
	"time"

	"github.com/mosaicnetworks/hashgraph-sdk/src/crypto"
	"github.com/mosaicnetworks/hashgraph-sdk/src/crypto/keys"
	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
	"github.com/mosaicnetworks/hashgraph-sdk/src/status"
	"github.com/sirupsen/logrus"
)

// Default ledger parameters.
const (
	DefaultConsensusDelay = 100 * time.Millisecond
	DefaultTransactionFee = 100000
	DefaultQueryCost      = 1000
)

// LedgerConfig holds the economics and timing of a simulated ledger.
type LedgerConfig struct {
	// ConsensusDelay is how long after its submission a transaction reaches
	// consensus.
	ConsensusDelay time.Duration

	// TransactionFee is charged to the payer of every transaction.
	TransactionFee uint64

	// QueryCost is the price of a record query.
	QueryCost uint64
}

// DefaultLedgerConfig ...
func DefaultLedgerConfig() LedgerConfig {
	return LedgerConfig{
		ConsensusDelay: DefaultConsensusDelay,
		TransactionFee: DefaultTransactionFee,
		QueryCost:      DefaultQueryCost,
	}
}

type account struct {
	key     keys.Key
	balance uint64
}

type topic struct {
	sequence    uint64
	runningHash []byte
	messages    [][]byte
}

// entry is a transaction accepted by a node.
type entry struct {
	body        *hapi.TransactionBody
	node        hapi.AccountID
	hash        []byte
	consensusAt time.Time

	applied  bool
	receipt  hapi.TransactionReceipt
	record   hapi.TransactionRecord
	children []*entry

	// submissions of the same ID through other nodes
	duplicates []*entry
}

// Ledger is the state shared by the nodes of a simulated network. It stands
// in for consensus: a transaction accepted by any node is applied once its
// consensus delay has passed, in the order of acceptance.
type Ledger struct {
	sync.Mutex

	conf LedgerConfig

	accounts map[hapi.AccountID]*account
	files    map[hapi.FileID][]byte
	topics   map[hapi.TopicID]*topic

	entries map[hapi.TransactionID]*entry
	queue   []*entry

	// last chunk number accepted for a chunked message, by initial ID
	chunks map[hapi.TransactionID]int32

	// IDs in order of acceptance, duplicates included
	submissions []hapi.TransactionID

	now    func() time.Time
	logger *logrus.Entry
}

// NewLedger ...
func NewLedger(conf LedgerConfig, logger *logrus.Entry) *Ledger {
	if logger == nil {
		log := logrus.New()
		log.Level = logrus.DebugLevel
		logger = logrus.NewEntry(log)
	}

	return &Ledger{
		conf:     conf,
		accounts: make(map[hapi.AccountID]*account),
		files:    make(map[hapi.FileID][]byte),
		topics:   make(map[hapi.TopicID]*topic),
		entries:  make(map[hapi.TransactionID]*entry),
		chunks:   make(map[hapi.TransactionID]int32),
		now:      time.Now,
		logger:   logger,
	}
}

// CreateAccount adds an account. A nil key makes an account that can receive
// but never sign.
func (l *Ledger) CreateAccount(id hapi.AccountID, key keys.Key, balance uint64) error {
	l.Lock()
	defer l.Unlock()
	if _, ok := l.accounts[id]; ok {
		return fmt.Errorf("account %s already exists", id)
	}
	l.accounts[id] = &account{key: key, balance: balance}
	return nil
}

// CreateFile adds an empty file.
func (l *Ledger) CreateFile(id hapi.FileID) {
	l.Lock()
	defer l.Unlock()
	if _, ok := l.files[id]; !ok {
		l.files[id] = []byte{}
	}
}

// CreateTopic adds a topic without messages.
func (l *Ledger) CreateTopic(id hapi.TopicID) {
	l.Lock()
	defer l.Unlock()
	if _, ok := l.topics[id]; !ok {
		l.topics[id] = &topic{}
	}
}

// Balance returns the balance of an account, applying whatever reached
// consensus first.
func (l *Ledger) Balance(id hapi.AccountID) (uint64, bool) {
	l.Lock()
	defer l.Unlock()
	l.advance()
	a, ok := l.accounts[id]
	if !ok {
		return 0, false
	}
	return a.balance, true
}

// FileContents returns the contents of a file.
func (l *Ledger) FileContents(id hapi.FileID) ([]byte, bool) {
	l.Lock()
	defer l.Unlock()
	l.advance()
	c, ok := l.files[id]
	return append([]byte(nil), c...), ok
}

// TopicMessages returns the messages of a topic in consensus order.
func (l *Ledger) TopicMessages(id hapi.TopicID) ([][]byte, bool) {
	l.Lock()
	defer l.Unlock()
	l.advance()
	t, ok := l.topics[id]
	if !ok {
		return nil, false
	}
	return append([][]byte(nil), t.messages...), true
}

// Submissions returns the IDs of accepted transactions in order of
// acceptance.
func (l *Ledger) Submissions() []hapi.TransactionID {
	l.Lock()
	defer l.Unlock()
	return append([]hapi.TransactionID(nil), l.submissions...)
}

// accountKey returns the key of an account, or nil.
func (l *Ledger) accountKey(id hapi.AccountID) (keys.Key, bool) {
	a, ok := l.accounts[id]
	if !ok {
		return nil, false
	}
	return a.key, true
}

// precheck validates a transaction received by node and, when it is
// acceptable, queues it for consensus. signed holds the public keys whose
// signatures verified.
func (l *Ledger) precheck(node hapi.AccountID, body *hapi.TransactionBody, signed map[string]bool, hash []byte) status.Status {
	l.Lock()
	defer l.Unlock()

	if body.NodeAccountID != node {
		return status.InvalidNodeAccount
	}

	now := l.now()
	start := body.TransactionID.ValidStart.Time()
	if start.After(now) {
		return status.InvalidTransactionStart
	}
	if now.After(start.Add(time.Duration(body.TransactionValidDuration) * time.Second)) {
		return status.TransactionExpired
	}

	payer, ok := l.accounts[body.TransactionID.AccountID]
	if !ok {
		return status.PayerAccountNotFound
	}
	if body.TransactionFee < l.conf.TransactionFee {
		return status.InsufficientTxFee
	}

	if !keys.IsSatisfied(payer.key, signed) {
		return status.InvalidSignature
	}

	if st := l.checkOperation(body, signed); st != status.Ok {
		return st
	}

	e := &entry{
		body:        body,
		node:        node,
		hash:        hash,
		consensusAt: now.Add(l.conf.ConsensusDelay),
	}

	if first, ok := l.entries[body.TransactionID]; ok {
		if first.node == node {
			return status.DuplicateTransaction
		}
		for _, d := range first.duplicates {
			if d.node == node {
				return status.DuplicateTransaction
			}
		}
		first.duplicates = append(first.duplicates, e)
	} else {
		l.entries[body.TransactionID] = e
	}

	if info := chunkInfo(body); info != nil {
		l.chunks[info.InitialTransactionID] = info.Number
	}

	l.queue = append(l.queue, e)
	l.submissions = append(l.submissions, body.TransactionID)

	l.logger.WithFields(logrus.Fields{
		"transaction": body.TransactionID,
		"node":        node,
	}).Debug("Transaction accepted")

	return status.Ok
}

// checkOperation validates the operation specific parts of a body.
func (l *Ledger) checkOperation(body *hapi.TransactionBody, signed map[string]bool) status.Status {
	switch {
	case body.CryptoTransfer != nil:
		var sum int64
		seen := make(map[hapi.AccountID]bool)
		for _, t := range body.CryptoTransfer.Transfers {
			if seen[t.AccountID] {
				return status.AccountRepeatedInAccountAmounts
			}
			seen[t.AccountID] = true
			sum += t.Amount
			if t.Amount < 0 {
				key, ok := l.accountKey(t.AccountID)
				if !ok {
					return status.InvalidAccountID
				}
				if !keys.IsSatisfied(key, signed) {
					return status.InvalidSignature
				}
			}
		}
		if sum != 0 {
			return status.InvalidAccountAmounts
		}

	case body.FileAppend != nil:
		if _, ok := l.files[body.FileAppend.FileID]; !ok {
			return status.InvalidFileID
		}

	case body.ConsensusSubmitMessage != nil:
		msg := body.ConsensusSubmitMessage
		if _, ok := l.topics[msg.TopicID]; !ok {
			return status.InvalidTopicID
		}
		if info := msg.ChunkInfo; info != nil {
			if info.InitialTransactionID.AccountID != body.TransactionID.AccountID {
				return status.InvalidChunkTransactionID
			}
			if info.Number < 1 || info.Number > info.Total {
				return status.InvalidChunkNumber
			}
			if info.Number == 1 {
				if info.InitialTransactionID != body.TransactionID {
					return status.InvalidChunkTransactionID
				}
			} else if l.chunks[info.InitialTransactionID] != info.Number-1 {
				// chunks must arrive in order
				return status.InvalidChunkNumber
			}
		}

	default:
		return status.InvalidTransactionBody
	}
	return status.Ok
}

func chunkInfo(body *hapi.TransactionBody) *hapi.ChunkInfo {
	if body.ConsensusSubmitMessage != nil {
		return body.ConsensusSubmitMessage.ChunkInfo
	}
	return nil
}

// advance applies, in order, every queued transaction whose consensus time
// has passed. The caller holds the lock.
func (l *Ledger) advance() {
	now := l.now()
	for len(l.queue) > 0 && !l.queue[0].consensusAt.After(now) {
		e := l.queue[0]
		l.queue = l.queue[1:]
		l.apply(e)
	}
}

// apply executes one transaction at consensus.
func (l *Ledger) apply(e *entry) {
	body := e.body
	e.applied = true
	e.record = hapi.TransactionRecord{
		TransactionHash:    e.hash,
		ConsensusTimestamp: hapi.TimestampFromTime(e.consensusAt),
		TransactionID:      body.TransactionID,
		Memo:               body.Memo,
	}

	if first := l.entries[body.TransactionID]; first != e {
		e.receipt = hapi.TransactionReceipt{Status: status.DuplicateTransaction}
		e.record.Receipt = e.receipt
		return
	}

	payer := l.accounts[body.TransactionID.AccountID]
	if payer.balance < l.conf.TransactionFee {
		e.receipt = hapi.TransactionReceipt{Status: status.InsufficientPayerBalance}
		e.record.Receipt = e.receipt
		return
	}
	payer.balance -= l.conf.TransactionFee
	if node, ok := l.accounts[e.node]; ok {
		node.balance += l.conf.TransactionFee
	}
	e.record.TransactionFee = l.conf.TransactionFee

	switch {
	case body.CryptoTransfer != nil:
		e.receipt = l.applyTransfer(e)
	case body.FileAppend != nil:
		f := body.FileAppend
		l.files[f.FileID] = append(l.files[f.FileID], f.Contents...)
		e.receipt = hapi.TransactionReceipt{Status: status.Success, FileID: &f.FileID}
	case body.ConsensusSubmitMessage != nil:
		m := body.ConsensusSubmitMessage
		t := l.topics[m.TopicID]
		t.sequence++
		t.runningHash = crypto.SHA384(append(append([]byte(nil), t.runningHash...), m.Message...))
		t.messages = append(t.messages, m.Message)
		e.receipt = hapi.TransactionReceipt{
			Status:              status.Success,
			TopicID:             &m.TopicID,
			TopicSequenceNumber: t.sequence,
			TopicRunningHash:    t.runningHash,
		}
	}
	e.record.Receipt = e.receipt

	l.logger.WithFields(logrus.Fields{
		"transaction": body.TransactionID,
		"status":      e.receipt.Status,
	}).Debug("Transaction reached consensus")
}

// applyTransfer moves balances. Crediting an account that does not exist
// creates it, which is reported as a child transaction.
func (l *Ledger) applyTransfer(e *entry) hapi.TransactionReceipt {
	transfers := e.body.CryptoTransfer.Transfers

	for _, t := range transfers {
		if t.Amount < 0 {
			a := l.accounts[t.AccountID]
			if a.balance < uint64(-t.Amount) {
				return hapi.TransactionReceipt{Status: status.InsufficientAccountBalance}
			}
		}
	}

	for i, t := range transfers {
		a, ok := l.accounts[t.AccountID]
		if !ok {
			a = &account{}
			l.accounts[t.AccountID] = a

			id := t.AccountID
			childID := e.body.TransactionID
			childID.Nonce = int32(len(e.children) + 1)
			child := &entry{
				applied:     true,
				consensusAt: e.consensusAt,
				receipt:     hapi.TransactionReceipt{Status: status.Success, AccountID: &id},
			}
			child.record = hapi.TransactionRecord{
				Receipt:            child.receipt,
				ConsensusTimestamp: hapi.TimestampFromTime(e.consensusAt.Add(time.Duration(i + 1))),
				TransactionID:      childID,
			}
			e.children = append(e.children, child)
		}
		if t.Amount < 0 {
			a.balance -= uint64(-t.Amount)
		} else {
			a.balance += uint64(t.Amount)
		}
	}

	e.record.Transfers = transfers
	return hapi.TransactionReceipt{Status: status.Success}
}

// receipt answers a receipt lookup.
func (l *Ledger) receipt(q *hapi.TransactionGetReceiptQuery) *hapi.TransactionGetReceiptResponse {
	l.Lock()
	defer l.Unlock()
	l.advance()

	resp := &hapi.TransactionGetReceiptResponse{}
	e, ok := l.entries[q.TransactionID]
	if !ok {
		resp.Header.NodeTransactionPrecheckCode = status.ReceiptNotFound
		return resp
	}
	if !e.applied {
		resp.Receipt = hapi.TransactionReceipt{Status: status.Unknown}
		return resp
	}

	resp.Receipt = e.receipt
	if q.IncludeChildReceipts {
		for _, c := range e.children {
			resp.ChildTransactionReceipts = append(resp.ChildTransactionReceipts, c.receipt)
		}
	}
	if q.IncludeDuplicates {
		for _, d := range e.duplicates {
			if d.applied {
				resp.DuplicateTransactionReceipts = append(resp.DuplicateTransactionReceipts, d.receipt)
			}
		}
	}
	return resp
}

// record answers a record lookup. The payment was settled by the caller.
func (l *Ledger) record(q *hapi.TransactionGetRecordQuery) *hapi.TransactionGetRecordResponse {
	l.Lock()
	defer l.Unlock()
	l.advance()

	resp := &hapi.TransactionGetRecordResponse{}
	e, ok := l.entries[q.TransactionID]
	if !ok {
		resp.Header.NodeTransactionPrecheckCode = status.RecordNotFound
		return resp
	}
	if !e.applied {
		resp.Record = hapi.TransactionRecord{
			TransactionID: q.TransactionID,
			Receipt:       hapi.TransactionReceipt{Status: status.Unknown},
		}
		return resp
	}

	resp.Record = e.record
	if q.IncludeChildRecords {
		for _, c := range e.children {
			resp.ChildTransactionRecords = append(resp.ChildTransactionRecords, c.record)
		}
	}
	if q.IncludeDuplicates {
		for _, d := range e.duplicates {
			if d.applied {
				resp.DuplicateTransactionRecords = append(resp.DuplicateTransactionRecords, d.record)
			}
		}
	}
	return resp
}

// settlePayment validates the payment of a query answered by node and
// transfers it immediately.
func (l *Ledger) settlePayment(node hapi.AccountID, body *hapi.TransactionBody, signed map[string]bool) status.Status {
	l.Lock()
	defer l.Unlock()

	if body.NodeAccountID != node {
		return status.InvalidNodeAccount
	}
	if body.CryptoTransfer == nil {
		return status.InsufficientTxFee
	}

	payerID := body.TransactionID.AccountID
	payer, ok := l.accounts[payerID]
	if !ok {
		return status.PayerAccountNotFound
	}
	if !keys.IsSatisfied(payer.key, signed) {
		return status.InvalidSignature
	}
	if _, ok := l.entries[body.TransactionID]; ok {
		return status.DuplicateTransaction
	}

	var paid int64
	for _, t := range body.CryptoTransfer.Transfers {
		switch t.AccountID {
		case node:
			paid += t.Amount
		case payerID:
		default:
			return status.InvalidAccountAmounts
		}
	}
	if paid < int64(l.conf.QueryCost) {
		return status.InsufficientTxFee
	}
	if payer.balance < uint64(paid) {
		return status.InsufficientPayerBalance
	}

	payer.balance -= uint64(paid)
	if n, ok := l.accounts[node]; ok {
		n.balance += uint64(paid)
	}

	return status.Ok
}

// balance answers a balance lookup.
func (l *Ledger) balance(q *hapi.CryptoGetAccountBalanceQuery) *hapi.CryptoGetAccountBalanceResponse {
	l.Lock()
	defer l.Unlock()
	l.advance()

	resp := &hapi.CryptoGetAccountBalanceResponse{AccountID: q.AccountID}
	a, ok := l.accounts[q.AccountID]
	if !ok {
		resp.Header.NodeTransactionPrecheckCode = status.InvalidAccountID
		return resp
	}
	resp.Balance = a.balance
	return resp
}

// queryCost is the price of a record lookup.
func (l *Ledger) queryCost() uint64 {
	l.Lock()
	defer l.Unlock()
	return l.conf.QueryCost
}
