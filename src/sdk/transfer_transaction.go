package sdk

import (
	"sort"

	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
)

// TransferTransaction moves value between accounts.
type TransferTransaction struct {
	*Transaction
	transfers []hapi.AccountAmount
}

// NewTransferTransaction ...
func NewTransferTransaction() *TransferTransaction {
	tx := &TransferTransaction{}
	tx.Transaction = newTransaction("CryptoTransfer", tx)
	return tx
}

// AddTransfer adds amount to account, negative amounts being debits. Several
// transfers of the same account are merged.
func (tx *TransferTransaction) AddTransfer(account hapi.AccountID, amount int64) error {
	if err := tx.requireBuilding(); err != nil {
		return err
	}
	for i := range tx.transfers {
		if tx.transfers[i].AccountID == account {
			tx.transfers[i].Amount += amount
			return nil
		}
	}
	tx.transfers = append(tx.transfers, hapi.AccountAmount{AccountID: account, Amount: amount})
	return nil
}

// Transfers returns the transfers in the order they will be serialized.
func (tx *TransferTransaction) Transfers() []hapi.AccountAmount {
	out := make([]hapi.AccountAmount, len(tx.transfers))
	copy(out, tx.transfers)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].AccountID, out[j].AccountID
		if a.Shard != b.Shard {
			return a.Shard < b.Shard
		}
		if a.Realm != b.Realm {
			return a.Realm < b.Realm
		}
		return a.Num < b.Num
	})
	return out
}

func (tx *TransferTransaction) prepare() (int, error) {
	if len(tx.transfers) == 0 {
		return 0, newValidationError(MissingField, "transfer has no transfers")
	}
	var sum int64
	for _, t := range tx.transfers {
		sum += t.Amount
	}
	if sum != 0 {
		return 0, newValidationError(InvalidTransfer, "transfers sum to %d instead of 0", sum)
	}
	return 1, nil
}

func (tx *TransferTransaction) fillBody(body *hapi.TransactionBody, _, _ int, _ hapi.TransactionID) {
	body.CryptoTransfer = &hapi.CryptoTransferBody{Transfers: tx.Transfers()}
}
