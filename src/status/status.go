// Package status defines the result codes returned by ledger nodes and the
// fixed table that decides how the execution engine reacts to each of them.
//
// Every code belongs to exactly one Class. The table is consulted for the
// precheck code of every response; codes that are not listed are Terminal so
// that a new, unknown code can never cause an unbounded retry loop.
package status

import "fmt"

// Status is a result code. The numbering follows the ledger's response code
// enumeration so values survive a round trip through any node.
type Status uint32

// Result codes used by the SDK.
const (
	Ok                              Status = 0
	InvalidTransaction              Status = 1
	PayerAccountNotFound            Status = 2
	InvalidNodeAccount              Status = 3
	TransactionExpired              Status = 4
	InvalidTransactionStart         Status = 5
	InvalidTransactionDuration      Status = 6
	InvalidSignature                Status = 7
	MemoTooLong                     Status = 8
	InsufficientTxFee               Status = 9
	InsufficientPayerBalance        Status = 10
	DuplicateTransaction            Status = 11
	Busy                            Status = 12
	NotSupported                    Status = 13
	InvalidFileID                   Status = 14
	InvalidAccountID                Status = 15
	InvalidContractID               Status = 16
	InvalidTransactionID            Status = 17
	ReceiptNotFound                 Status = 18
	RecordNotFound                  Status = 19
	InvalidSolidityID               Status = 20
	Unknown                         Status = 21
	Success                         Status = 22
	FailInvalid                     Status = 23
	FailFee                         Status = 24
	FailBalance                     Status = 25
	KeyRequired                     Status = 26
	BadEncoding                     Status = 27
	InsufficientAccountBalance      Status = 28
	InvalidAccountAmounts           Status = 48
	EmptyTransactionBody            Status = 49
	InvalidTransactionBody          Status = 50
	PlatformTransactionNotCreated   Status = 64
	PlatformNotActive               Status = 67
	AccountRepeatedInAccountAmounts Status = 74
	TransactionOversize             Status = 82
	InvalidTopicID                  Status = 150
	InvalidChunkNumber              Status = 207
	InvalidChunkTransactionID       Status = 208
)

var names = map[Status]string{
	Ok:                              "OK",
	InvalidTransaction:              "INVALID_TRANSACTION",
	PayerAccountNotFound:            "PAYER_ACCOUNT_NOT_FOUND",
	InvalidNodeAccount:              "INVALID_NODE_ACCOUNT",
	TransactionExpired:              "TRANSACTION_EXPIRED",
	InvalidTransactionStart:         "INVALID_TRANSACTION_START",
	InvalidTransactionDuration:      "INVALID_TRANSACTION_DURATION",
	InvalidSignature:                "INVALID_SIGNATURE",
	MemoTooLong:                     "MEMO_TOO_LONG",
	InsufficientTxFee:               "INSUFFICIENT_TX_FEE",
	InsufficientPayerBalance:        "INSUFFICIENT_PAYER_BALANCE",
	DuplicateTransaction:            "DUPLICATE_TRANSACTION",
	Busy:                            "BUSY",
	NotSupported:                    "NOT_SUPPORTED",
	InvalidFileID:                   "INVALID_FILE_ID",
	InvalidAccountID:                "INVALID_ACCOUNT_ID",
	InvalidContractID:               "INVALID_CONTRACT_ID",
	InvalidTransactionID:            "INVALID_TRANSACTION_ID",
	ReceiptNotFound:                 "RECEIPT_NOT_FOUND",
	RecordNotFound:                  "RECORD_NOT_FOUND",
	InvalidSolidityID:               "INVALID_SOLIDITY_ID",
	Unknown:                         "UNKNOWN",
	Success:                         "SUCCESS",
	FailInvalid:                     "FAIL_INVALID",
	FailFee:                         "FAIL_FEE",
	FailBalance:                     "FAIL_BALANCE",
	KeyRequired:                     "KEY_REQUIRED",
	BadEncoding:                     "BAD_ENCODING",
	InsufficientAccountBalance:      "INSUFFICIENT_ACCOUNT_BALANCE",
	InvalidAccountAmounts:           "INVALID_ACCOUNT_AMOUNTS",
	EmptyTransactionBody:            "EMPTY_TRANSACTION_BODY",
	InvalidTransactionBody:          "INVALID_TRANSACTION_BODY",
	TransactionOversize:             "TRANSACTION_OVERSIZE",
	PlatformNotActive:               "PLATFORM_NOT_ACTIVE",
	PlatformTransactionNotCreated:   "PLATFORM_TRANSACTION_NOT_CREATED",
	AccountRepeatedInAccountAmounts: "ACCOUNT_REPEATED_IN_ACCOUNT_AMOUNTS",
	InvalidTopicID:                  "INVALID_TOPIC_ID",
	InvalidChunkNumber:              "INVALID_CHUNK_NUMBER",
	InvalidChunkTransactionID:       "INVALID_CHUNK_TRANSACTION_ID",
}

// String returns the ledger name of the code.
func (s Status) String() string {
	if n, ok := names[s]; ok {
		return n
	}
	return fmt.Sprintf("Status(%d)", uint32(s))
}

// Class is the reaction of the execution engine to a status.
type Class uint8

const (
	// Terminal statuses are surfaced to the caller and never retried.
	Terminal Class = iota
	// Succeeded ends the exchange.
	Succeeded
	// RetrySameNode retries on the node that answered, after a backoff.
	RetrySameNode
	// RetryOtherNode marks the answering node unhealthy and moves on.
	RetryOtherNode
)

func (c Class) String() string {
	switch c {
	case Terminal:
		return "Terminal"
	case Succeeded:
		return "Succeeded"
	case RetrySameNode:
		return "RetrySameNode"
	case RetryOtherNode:
		return "RetryOtherNode"
	default:
		return "Unknown"
	}
}

// precheckClasses is the fixed classification of precheck codes. Anything
// missing is Terminal.
var precheckClasses = map[Status]Class{
	Ok:                            Succeeded,
	Success:                       Succeeded,
	Busy:                          RetrySameNode,
	PlatformTransactionNotCreated: RetrySameNode,
	PlatformNotActive:             RetrySameNode,
	Unknown:                       RetrySameNode,
	InvalidNodeAccount:            RetryOtherNode,
}

// Class returns the precheck classification of s.
func (s Status) Class() Class {
	if c, ok := precheckClasses[s]; ok {
		return c
	}
	return Terminal
}

// IsPending reports whether s means that the outcome of a transaction is not
// known yet. Receipt and record lookups keep polling on these.
func (s Status) IsPending() bool {
	switch s {
	case Unknown, ReceiptNotFound, RecordNotFound:
		return true
	}
	return false
}
