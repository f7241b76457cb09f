package sdk

import (
	"errors"
	"fmt"

	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
	"github.com/mosaicnetworks/hashgraph-sdk/src/status"
)

// ValidationCode identifies a local validation failure.
type ValidationCode string

// Local validation codes.
const (
	NotFrozen            ValidationCode = "NOT_FROZEN"
	AlreadyFrozen        ValidationCode = "ALREADY_FROZEN"
	AlreadyDispatched    ValidationCode = "DISPATCHED"
	MaxChunksExceeded    ValidationCode = "MAX_CHUNKS_EXCEEDED"
	MissingField         ValidationCode = "MISSING_FIELD"
	SignaturesIncomplete ValidationCode = "SIGNATURES_INCOMPLETE"
	MaxQueryPayment      ValidationCode = "MAX_QUERY_PAYMENT"
	InvalidTransfer      ValidationCode = "INVALID_TRANSFER"
)

// LocalValidationError is raised before anything is sent to the network. It
// is never retried.
type LocalValidationError struct {
	Code    ValidationCode
	Message string
}

func newValidationError(code ValidationCode, format string, args ...interface{}) *LocalValidationError {
	return &LocalValidationError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *LocalValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsLocalValidation reports whether err is a LocalValidationError with the
// given code.
func IsLocalValidation(err error, code ValidationCode) bool {
	var ve *LocalValidationError
	return errors.As(err, &ve) && ve.Code == code
}

// ReceiptStatusError is returned by TransactionResponse.GetReceipt when the
// transaction reached consensus with a status other than SUCCESS.
type ReceiptStatusError struct {
	Status        status.Status
	TransactionID hapi.TransactionID
	Receipt       *TransactionReceipt
}

// Error implements the error interface.
func (e *ReceiptStatusError) Error() string {
	return fmt.Sprintf("transaction %s failed with status %s", e.TransactionID, e.Status)
}
