package hapi

import "github.com/mosaicnetworks/hashgraph-sdk/src/status"

// ResponseType selects between the answer itself and its price.
type ResponseType int32

const (
	// AnswerOnly asks for the answer.
	AnswerOnly ResponseType = 0
	// CostAnswer asks how much AnswerOnly would cost.
	CostAnswer ResponseType = 2
)

// QueryHeader is common to every query. Payment is a signed transfer to the
// node answering the query, when the query is not free.
type QueryHeader struct {
	Payment      *Transaction `codec:"payment,omitempty"`
	ResponseType ResponseType `codec:"responseType"`
}

// TransactionGetReceiptQuery asks for the receipt of a transaction.
type TransactionGetReceiptQuery struct {
	Header               QueryHeader   `codec:"header"`
	TransactionID        TransactionID `codec:"transactionID"`
	IncludeDuplicates    bool          `codec:"includeDuplicates"`
	IncludeChildReceipts bool          `codec:"includeChildReceipts"`
}

// TransactionGetRecordQuery asks for the full record of a transaction.
type TransactionGetRecordQuery struct {
	Header              QueryHeader   `codec:"header"`
	TransactionID       TransactionID `codec:"transactionID"`
	IncludeDuplicates   bool          `codec:"includeDuplicates"`
	IncludeChildRecords bool          `codec:"includeChildRecords"`
}

// CryptoGetAccountBalanceQuery asks for the balance of an account.
type CryptoGetAccountBalanceQuery struct {
	Header    QueryHeader `codec:"header"`
	AccountID AccountID   `codec:"account"`
}

// Query is the envelope sent to a node. Exactly one field is set.
type Query struct {
	TransactionGetReceipt   *TransactionGetReceiptQuery   `codec:"transactionGetReceipt,omitempty"`
	TransactionGetRecord    *TransactionGetRecordQuery    `codec:"transactionGetRecord,omitempty"`
	CryptoGetAccountBalance *CryptoGetAccountBalanceQuery `codec:"cryptogetAccountBalance,omitempty"`
}

// Header returns the header of whichever query is set, or nil.
func (q *Query) Header() *QueryHeader {
	switch {
	case q.TransactionGetReceipt != nil:
		return &q.TransactionGetReceipt.Header
	case q.TransactionGetRecord != nil:
		return &q.TransactionGetRecord.Header
	case q.CryptoGetAccountBalance != nil:
		return &q.CryptoGetAccountBalance.Header
	}
	return nil
}

// ResponseHeader is common to every response.
type ResponseHeader struct {
	NodeTransactionPrecheckCode status.Status `codec:"nodeTransactionPrecheckCode"`
	ResponseType                ResponseType  `codec:"responseType"`
	Cost                        uint64        `codec:"cost"`
}

// TransactionReceipt is the consensus outcome of a transaction.
type TransactionReceipt struct {
	Status                 status.Status  `codec:"status"`
	AccountID              *AccountID     `codec:"accountID,omitempty"`
	FileID                 *FileID        `codec:"fileID,omitempty"`
	TopicID                *TopicID       `codec:"topicID,omitempty"`
	TopicSequenceNumber    uint64         `codec:"topicSequenceNumber"`
	TopicRunningHash       []byte         `codec:"topicRunningHash,omitempty"`
	ScheduledTransactionID *TransactionID `codec:"scheduledTransactionID,omitempty"`
}

// TransactionRecord is the receipt plus the details of execution.
type TransactionRecord struct {
	Receipt            TransactionReceipt `codec:"receipt"`
	TransactionHash    []byte             `codec:"transactionHash"`
	ConsensusTimestamp Timestamp          `codec:"consensusTimestamp"`
	TransactionID      TransactionID      `codec:"transactionID"`
	Memo               string             `codec:"memo"`
	TransactionFee     uint64             `codec:"transactionFee"`
	Transfers          []AccountAmount    `codec:"transfers"`
}

// TransactionGetReceiptResponse answers TransactionGetReceiptQuery.
type TransactionGetReceiptResponse struct {
	Header                       ResponseHeader       `codec:"header"`
	Receipt                      TransactionReceipt   `codec:"receipt"`
	DuplicateTransactionReceipts []TransactionReceipt `codec:"duplicateTransactionReceipts"`
	ChildTransactionReceipts     []TransactionReceipt `codec:"childTransactionReceipts"`
}

// TransactionGetRecordResponse answers TransactionGetRecordQuery.
type TransactionGetRecordResponse struct {
	Header                      ResponseHeader      `codec:"header"`
	Record                      TransactionRecord   `codec:"record"`
	DuplicateTransactionRecords []TransactionRecord `codec:"duplicateTransactionRecords"`
	ChildTransactionRecords     []TransactionRecord `codec:"childTransactionRecords"`
}

// CryptoGetAccountBalanceResponse answers CryptoGetAccountBalanceQuery.
type CryptoGetAccountBalanceResponse struct {
	Header    ResponseHeader `codec:"header"`
	AccountID AccountID      `codec:"accountID"`
	Balance   uint64         `codec:"balance"`
}

// Response is the envelope returned by a node. Exactly one field is set.
type Response struct {
	TransactionGetReceipt   *TransactionGetReceiptResponse   `codec:"transactionGetReceipt,omitempty"`
	TransactionGetRecord    *TransactionGetRecordResponse    `codec:"transactionGetRecord,omitempty"`
	CryptoGetAccountBalance *CryptoGetAccountBalanceResponse `codec:"cryptogetAccountBalance,omitempty"`
}

// Header returns the header of whichever response is set, or nil.
func (r *Response) Header() *ResponseHeader {
	switch {
	case r.TransactionGetReceipt != nil:
		return &r.TransactionGetReceipt.Header
	case r.TransactionGetRecord != nil:
		return &r.TransactionGetRecord.Header
	case r.CryptoGetAccountBalance != nil:
		return &r.CryptoGetAccountBalance.Header
	}
	return nil
}
