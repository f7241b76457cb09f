package sdk

import (
	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
)

// TopicMessageSubmitTransaction submits a message to a consensus topic.
// Messages larger than the chunk size are split, and every chunk says which
// part of the message it carries.
type TopicMessageSubmitTransaction struct {
	*Transaction
	topicID   *hapi.TopicID
	message   []byte
	chunkSize int
	maxChunks int

	parts [][]byte
}

// NewTopicMessageSubmitTransaction ...
func NewTopicMessageSubmitTransaction() *TopicMessageSubmitTransaction {
	tx := &TopicMessageSubmitTransaction{
		chunkSize: DefaultMessageChunkSize,
		maxChunks: DefaultMaxChunks,
	}
	tx.Transaction = newTransaction("ConsensusSubmitMessage", tx)
	return tx
}

// SetTopicID ...
func (tx *TopicMessageSubmitTransaction) SetTopicID(id hapi.TopicID) error {
	if err := tx.requireBuilding(); err != nil {
		return err
	}
	tx.topicID = &id
	return nil
}

// SetMessage ...
func (tx *TopicMessageSubmitTransaction) SetMessage(message []byte) error {
	if err := tx.requireBuilding(); err != nil {
		return err
	}
	tx.message = append([]byte(nil), message...)
	return nil
}

// SetChunkSize sets the number of message bytes per chunk.
func (tx *TopicMessageSubmitTransaction) SetChunkSize(size int) error {
	if err := tx.requireBuilding(); err != nil {
		return err
	}
	tx.chunkSize = size
	return nil
}

// SetMaxChunks sets the number of chunks above which freezing fails.
func (tx *TopicMessageSubmitTransaction) SetMaxChunks(max int) error {
	if err := tx.requireBuilding(); err != nil {
		return err
	}
	tx.maxChunks = max
	return nil
}

func (tx *TopicMessageSubmitTransaction) prepare() (int, error) {
	if tx.topicID == nil {
		return 0, newValidationError(MissingField, "message has no topic ID")
	}
	if len(tx.message) == 0 {
		return 0, newValidationError(MissingField, "message is empty")
	}
	parts, err := SplitChunks(tx.message, tx.chunkSize, tx.maxChunks)
	if err != nil {
		return 0, err
	}
	tx.parts = parts
	return len(parts), nil
}

func (tx *TopicMessageSubmitTransaction) fillBody(body *hapi.TransactionBody, chunk, total int, initial hapi.TransactionID) {
	body.ConsensusSubmitMessage = &hapi.ConsensusSubmitMessageBody{
		TopicID: *tx.topicID,
		Message: tx.parts[chunk],
		ChunkInfo: &hapi.ChunkInfo{
			InitialTransactionID: initial,
			Total:                int32(total),
			Number:               int32(chunk + 1),
		},
	}
}
