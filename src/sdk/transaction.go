package sdk

import (
	"context"
	"time"

	"github.com/mosaicnetworks/hashgraph-sdk/src/config"
	"github.com/mosaicnetworks/hashgraph-sdk/src/crypto"
	"github.com/mosaicnetworks/hashgraph-sdk/src/crypto/keys"
	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
	"github.com/mosaicnetworks/hashgraph-sdk/src/journal"
	"github.com/mosaicnetworks/hashgraph-sdk/src/net"
	"github.com/mosaicnetworks/hashgraph-sdk/src/network"
	"github.com/mosaicnetworks/hashgraph-sdk/src/status"
	"github.com/sirupsen/logrus"
)

// TransactionState is the lifecycle stage of a Transaction.
type TransactionState uint32

const (
	// Building is the state in which every field may change.
	Building TransactionState = iota

	// Frozen is the state in which the bodies are serialized and only
	// signatures may be added.
	Frozen

	// Dispatched is the state of a transaction handed to the network. Nothing
	// changes anymore.
	Dispatched
)

// String returns the string representation of a TransactionState
func (s TransactionState) String() string {
	switch s {
	case Building:
		return "Building"
	case Frozen:
		return "Frozen"
	case Dispatched:
		return "Dispatched"
	default:
		return "Unknown"
	}
}

// bodyBuilder is implemented by every concrete transaction. It owns the
// operation specific part of the body.
type bodyBuilder interface {
	// prepare validates the operation and returns how many chunks it needs.
	prepare() (int, error)

	// fillBody sets the operation of chunk (counting from 0) out of total.
	// initial is the ID of the first chunk.
	fillBody(body *hapi.TransactionBody, chunk, total int, initial hapi.TransactionID)
}

// signedBody is the body of one chunk prepared for one node.
type signedBody struct {
	node       hapi.AccountID
	signatures *SignatureCollector
}

// transactionChunk is one independently signed sub-transaction.
type transactionChunk struct {
	index  int
	id     hapi.TransactionID
	bodies []*signedBody
}

// Transaction holds what every transaction kind has in common. It is embedded
// by the concrete kinds.
type Transaction struct {
	kind    string
	builder bodyBuilder
	state   TransactionState

	transactionID  *hapi.TransactionID
	nodeAccountIDs []hapi.AccountID
	fee            uint64
	validDuration  time.Duration
	memo           string
	required       keys.Key

	chunks []*transactionChunk
}

func newTransaction(kind string, builder bodyBuilder) *Transaction {
	return &Transaction{
		kind:    kind,
		builder: builder,
	}
}

// requireBuilding fails outside the Building state.
func (tx *Transaction) requireBuilding() error {
	switch tx.state {
	case Building:
		return nil
	case Frozen:
		return newValidationError(AlreadyFrozen, "%s is frozen", tx.kind)
	default:
		return newValidationError(AlreadyDispatched, "%s was dispatched", tx.kind)
	}
}

// State returns the lifecycle stage.
func (tx *Transaction) State() TransactionState {
	return tx.state
}

// SetTransactionID sets the identity of the transaction. Without it, freezing
// generates one for the operator.
func (tx *Transaction) SetTransactionID(id hapi.TransactionID) error {
	if err := tx.requireBuilding(); err != nil {
		return err
	}
	tx.transactionID = &id
	return nil
}

// TransactionID returns the identity of the first chunk, and false while it is
// not known.
func (tx *Transaction) TransactionID() (hapi.TransactionID, bool) {
	if tx.transactionID == nil {
		return hapi.TransactionID{}, false
	}
	return *tx.transactionID, true
}

// SetNodeAccountIDs restricts the nodes the transaction is prepared for.
func (tx *Transaction) SetNodeAccountIDs(ids []hapi.AccountID) error {
	if err := tx.requireBuilding(); err != nil {
		return err
	}
	tx.nodeAccountIDs = append([]hapi.AccountID(nil), ids...)
	return nil
}

// NodeAccountIDs returns the nodes the transaction is prepared for.
func (tx *Transaction) NodeAccountIDs() []hapi.AccountID {
	return tx.nodeAccountIDs
}

// SetMaxTransactionFee sets the most the payer accepts to pay, per chunk.
func (tx *Transaction) SetMaxTransactionFee(fee uint64) error {
	if err := tx.requireBuilding(); err != nil {
		return err
	}
	tx.fee = fee
	return nil
}

// SetValidDuration sets how long after its valid start the transaction may
// reach consensus.
func (tx *Transaction) SetValidDuration(d time.Duration) error {
	if err := tx.requireBuilding(); err != nil {
		return err
	}
	tx.validDuration = d
	return nil
}

// SetMemo ...
func (tx *Transaction) SetMemo(memo string) error {
	if err := tx.requireBuilding(); err != nil {
		return err
	}
	tx.memo = memo
	return nil
}

// SetRequiredKey sets the key structure that must sign before the transaction
// may be dispatched. It does not change the body, so it is allowed until
// dispatch.
func (tx *Transaction) SetRequiredKey(k keys.Key) error {
	if tx.state == Dispatched {
		return newValidationError(AlreadyDispatched, "%s was dispatched", tx.kind)
	}
	tx.required = k
	for _, c := range tx.chunks {
		for _, b := range c.bodies {
			b.signatures.SetRequired(k)
		}
	}
	return nil
}

// ChunkCount returns the number of chunks of a frozen transaction.
func (tx *Transaction) ChunkCount() int {
	return len(tx.chunks)
}

// Freeze serializes the transaction without a client. The transaction ID and
// the node account IDs must have been set.
func (tx *Transaction) Freeze() error {
	return tx.FreezeWith(nil)
}

// FreezeWith serializes the transaction, taking the missing transaction ID,
// nodes, fee and valid duration from client. Chunking is validated here,
// before anything is sent.
func (tx *Transaction) FreezeWith(client *Client) error {
	if err := tx.requireBuilding(); err != nil {
		return err
	}

	total, err := tx.builder.prepare()
	if err != nil {
		return err
	}

	id := tx.transactionID
	if id == nil {
		if client == nil || client.operator == nil {
			return newValidationError(MissingField, "%s has no transaction ID and there is no operator to generate one", tx.kind)
		}
		generated := client.ids.next(client.operator.AccountID, total)
		id = &generated
	}

	nodes := tx.nodeAccountIDs
	if len(nodes) == 0 {
		if client == nil {
			return newValidationError(MissingField, "%s has no node account IDs", tx.kind)
		}
		nodes = client.sampleNodes()
	}

	fee := tx.fee
	validDuration := tx.validDuration
	if fee == 0 {
		fee = config.DefaultMaxTransactionFee
		if client != nil {
			fee = client.conf.MaxTransactionFee
		}
	}
	if validDuration == 0 {
		validDuration = config.DefaultTransactionValidDuration
		if client != nil {
			validDuration = client.conf.TransactionValidDuration
		}
	}

	chunks := make([]*transactionChunk, total)
	for i := range chunks {
		c := &transactionChunk{
			index:  i,
			id:     ChunkTransactionID(*id, i),
			bodies: make([]*signedBody, len(nodes)),
		}
		for j, node := range nodes {
			body := hapi.TransactionBody{
				TransactionID:            c.id,
				NodeAccountID:            node,
				TransactionFee:           fee,
				TransactionValidDuration: int64(validDuration / time.Second),
				Memo:                     tx.memo,
			}
			tx.builder.fillBody(&body, i, total, *id)

			bodyBytes, err := hapi.Marshal(&body)
			if err != nil {
				return err
			}
			c.bodies[j] = &signedBody{
				node:       node,
				signatures: NewSignatureCollector(bodyBytes, tx.required),
			}
		}
		chunks[i] = c
	}

	tx.transactionID = id
	tx.nodeAccountIDs = nodes
	tx.fee = fee
	tx.validDuration = validDuration
	tx.chunks = chunks
	tx.state = Frozen

	return nil
}

// Sign adds a signature by key to the body of every (chunk, node) pair.
func (tx *Transaction) Sign(key keys.PrivateKey) error {
	switch tx.state {
	case Building:
		return newValidationError(NotFrozen, "%s must be frozen before it is signed", tx.kind)
	case Dispatched:
		return newValidationError(AlreadyDispatched, "%s was dispatched", tx.kind)
	}
	for _, c := range tx.chunks {
		for _, b := range c.bodies {
			if err := b.signatures.Sign(key); err != nil {
				return err
			}
		}
	}
	return nil
}

// SignWithOperator freezes the transaction with client if needed and signs it
// with the operator key.
func (tx *Transaction) SignWithOperator(client *Client) error {
	if client == nil {
		return newValidationError(MissingField, "%s needs a client to be signed with the operator", tx.kind)
	}
	if client.operator == nil {
		return newValidationError(MissingField, "client has no operator")
	}
	if tx.state == Building {
		if err := tx.FreezeWith(client); err != nil {
			return err
		}
	}
	return tx.Sign(client.operator.PrivateKey)
}

// IsSatisfied reports whether every body carries the signatures required of
// it. It is false until the transaction is frozen.
func (tx *Transaction) IsSatisfied() bool {
	if len(tx.chunks) == 0 {
		return false
	}
	for _, c := range tx.chunks {
		for _, b := range c.bodies {
			if !b.signatures.IsSatisfied() {
				return false
			}
		}
	}
	return true
}

// signedTransaction returns the envelope of chunk for node.
func (tx *Transaction) signedTransaction(c *transactionChunk, node hapi.AccountID) (*hapi.Transaction, error) {
	for _, b := range c.bodies {
		if b.node != node {
			continue
		}
		signedBytes, err := hapi.Marshal(&hapi.SignedTransaction{
			BodyBytes: b.signatures.Message(),
			SigMap:    b.signatures.SignatureMap(),
		})
		if err != nil {
			return nil, err
		}
		return &hapi.Transaction{SignedTransactionBytes: signedBytes}, nil
	}
	return nil, newValidationError(MissingField, "%s was not prepared for node %s", tx.kind, node)
}

// Execute dispatches the transaction and returns the response of the first
// chunk. See ExecuteAll.
func (tx *Transaction) Execute(ctx context.Context, client *Client) (*TransactionResponse, error) {
	responses, err := tx.ExecuteAll(ctx, client)
	if err != nil {
		return nil, err
	}
	return responses[0], nil
}

// ExecuteAll freezes the transaction with client if needed, signs it with the
// operator when the operator pays for it, and dispatches its chunks in order.
// A chunk is only sent once the previous one was accepted by a node. On
// failure, the responses of the chunks accepted so far are returned with the
// error.
func (tx *Transaction) ExecuteAll(ctx context.Context, client *Client) ([]*TransactionResponse, error) {
	if client == nil {
		return nil, newValidationError(MissingField, "%s needs a client to be executed", tx.kind)
	}

	if tx.state == Dispatched {
		return nil, newValidationError(AlreadyDispatched, "%s was dispatched", tx.kind)
	}

	if tx.state == Building {
		if err := tx.FreezeWith(client); err != nil {
			return nil, err
		}
	}

	if op := client.operator; op != nil && op.AccountID == tx.transactionID.AccountID {
		if err := tx.Sign(op.PrivateKey); err != nil {
			return nil, err
		}
	}

	if !tx.IsSatisfied() {
		return nil, newValidationError(SignaturesIncomplete, "%s %s lacks required signatures", tx.kind, tx.transactionID)
	}

	tx.state = Dispatched

	logger := client.logger.WithFields(logrus.Fields{
		"transaction": tx.transactionID,
		"kind":        tx.kind,
		"chunks":      len(tx.chunks),
	})

	responses := make([]*TransactionResponse, 0, len(tx.chunks))
	for _, c := range tx.chunks {
		resp, err := tx.executeChunk(ctx, client, c)
		if err != nil {
			logger.WithError(err).WithField("chunk", c.index).Debug("Chunk failed")
			return responses, err
		}
		responses = append(responses, resp)
	}

	logger.Debug("Transaction dispatched")

	return responses, nil
}

func (tx *Transaction) executeChunk(ctx context.Context, client *Client, c *transactionChunk) (*TransactionResponse, error) {
	ctx, cancel := client.withTimeout(ctx)
	defer cancel()

	res, err := client.executor.Execute(ctx, &chunkExecutable{tx: tx, chunk: c})
	if err != nil {
		return nil, err
	}

	signed, err := tx.signedTransaction(c, res.Node.AccountID)
	if err != nil {
		return nil, err
	}

	resp := &TransactionResponse{
		TransactionID:  c.id,
		NodeAccountID:  res.Node.AccountID,
		Hash:           crypto.SHA384(signed.SignedTransactionBytes),
		ChunkIndex:     c.index,
		validateStatus: true,
	}

	err = client.journal.Put(&journal.Entry{
		TransactionID: resp.TransactionID,
		NodeAccountID: resp.NodeAccountID,
		Hash:          resp.Hash,
		SubmittedAt:   hapi.TimestampFromTime(time.Now()),
	})
	if err != nil {
		client.logger.WithError(err).Warn("Failed to journal transaction")
	}

	return resp, nil
}

// chunkExecutable dispatches one chunk through the Executor.
type chunkExecutable struct {
	tx    *Transaction
	chunk *transactionChunk
}

func (e *chunkExecutable) Name() string {
	return e.tx.kind
}

func (e *chunkExecutable) NodeAccountIDs() []hapi.AccountID {
	return e.tx.nodeAccountIDs
}

func (e *chunkExecutable) MakeRequest(node *network.Node) (interface{}, error) {
	return e.tx.signedTransaction(e.chunk, node.AccountID)
}

func (e *chunkExecutable) Send(ctx context.Context, t net.Transport, node *network.Node, req interface{}) (interface{}, error) {
	var resp hapi.TransactionResponse
	if err := t.SubmitTransaction(ctx, node.Address, req.(*hapi.Transaction), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (e *chunkExecutable) Classify(resp interface{}) (status.Class, status.Status) {
	st := resp.(*hapi.TransactionResponse).NodeTransactionPrecheckCode
	return st.Class(), st
}
