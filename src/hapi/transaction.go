package hapi

import "github.com/mosaicnetworks/hashgraph-sdk/src/status"

// AccountAmount is one leg of a transfer. Debits are negative.
type AccountAmount struct {
	AccountID AccountID `codec:"account"`
	Amount    int64     `codec:"amount"`
}

// CryptoTransferBody moves value between accounts. Amounts must sum to zero.
type CryptoTransferBody struct {
	Transfers []AccountAmount `codec:"transfers"`
}

// FileAppendBody appends Contents to an existing file.
type FileAppendBody struct {
	FileID   FileID `codec:"file"`
	Contents []byte `codec:"contents"`
}

// ChunkInfo ties a chunk of a multi-part message back to the first chunk.
type ChunkInfo struct {
	InitialTransactionID TransactionID `codec:"initialTransactionID"`
	Total                int32         `codec:"total"`
	Number               int32         `codec:"number"`
}

// ConsensusSubmitMessageBody submits a message, or one chunk of it, to a
// topic.
type ConsensusSubmitMessageBody struct {
	TopicID   TopicID    `codec:"topic"`
	Message   []byte     `codec:"message"`
	ChunkInfo *ChunkInfo `codec:"chunkInfo,omitempty"`
}

// TransactionBody is the part of a transaction covered by signatures. Exactly
// one of the operation fields is set.
type TransactionBody struct {
	TransactionID            TransactionID `codec:"transactionID"`
	NodeAccountID            AccountID     `codec:"nodeAccountID"`
	TransactionFee           uint64        `codec:"transactionFee"`
	TransactionValidDuration int64         `codec:"transactionValidDuration"`
	Memo                     string        `codec:"memo"`

	CryptoTransfer         *CryptoTransferBody         `codec:"cryptoTransfer,omitempty"`
	FileAppend             *FileAppendBody             `codec:"fileAppend,omitempty"`
	ConsensusSubmitMessage *ConsensusSubmitMessageBody `codec:"consensusSubmitMessage,omitempty"`
}

// SignaturePair is one signature over the body bytes together with the
// public key that produced it. Exactly one of the signature fields is set.
type SignaturePair struct {
	PubKeyPrefix   []byte `codec:"pubKeyPrefix"`
	Ed25519        []byte `codec:"ed25519,omitempty"`
	ECDSASecp256k1 []byte `codec:"ecdsaSecp256k1,omitempty"`
}

// SignatureMap holds every signature attached to a body.
type SignatureMap struct {
	SigPair []SignaturePair `codec:"sigPair"`
}

// SignedTransaction pairs serialized body bytes with their signatures.
type SignedTransaction struct {
	BodyBytes []byte       `codec:"bodyBytes"`
	SigMap    SignatureMap `codec:"sigMap"`
}

// Transaction is the envelope submitted to a node.
type Transaction struct {
	SignedTransactionBytes []byte `codec:"signedTransactionBytes"`
}

// TransactionResponse is the synchronous answer of a node to a submission.
// A precheck code of OK only means the node accepted the transaction for
// consensus.
type TransactionResponse struct {
	NodeTransactionPrecheckCode status.Status `codec:"nodeTransactionPrecheckCode"`
	Cost                        uint64        `codec:"cost"`
}

// DecodeTransaction opens the envelope down to the body.
func DecodeTransaction(tx *Transaction) (*SignedTransaction, *TransactionBody, error) {
	var signed SignedTransaction
	if err := Unmarshal(tx.SignedTransactionBytes, &signed); err != nil {
		return nil, nil, err
	}
	var body TransactionBody
	if err := Unmarshal(signed.BodyBytes, &body); err != nil {
		return nil, nil, err
	}
	return &signed, &body, nil
}
