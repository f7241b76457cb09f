package sdk

import (
	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
)

// FileAppendTransaction appends contents to a file. Contents larger than the
// chunk size are sent as several transactions, in order.
type FileAppendTransaction struct {
	*Transaction
	fileID    *hapi.FileID
	contents  []byte
	chunkSize int
	maxChunks int

	parts [][]byte
}

// NewFileAppendTransaction ...
func NewFileAppendTransaction() *FileAppendTransaction {
	tx := &FileAppendTransaction{
		chunkSize: DefaultFileChunkSize,
		maxChunks: DefaultMaxChunks,
	}
	tx.Transaction = newTransaction("FileAppend", tx)
	return tx
}

// SetFileID ...
func (tx *FileAppendTransaction) SetFileID(id hapi.FileID) error {
	if err := tx.requireBuilding(); err != nil {
		return err
	}
	tx.fileID = &id
	return nil
}

// SetContents ...
func (tx *FileAppendTransaction) SetContents(contents []byte) error {
	if err := tx.requireBuilding(); err != nil {
		return err
	}
	tx.contents = append([]byte(nil), contents...)
	return nil
}

// SetChunkSize sets the number of content bytes per chunk.
func (tx *FileAppendTransaction) SetChunkSize(size int) error {
	if err := tx.requireBuilding(); err != nil {
		return err
	}
	tx.chunkSize = size
	return nil
}

// SetMaxChunks sets the number of chunks above which freezing fails.
func (tx *FileAppendTransaction) SetMaxChunks(max int) error {
	if err := tx.requireBuilding(); err != nil {
		return err
	}
	tx.maxChunks = max
	return nil
}

func (tx *FileAppendTransaction) prepare() (int, error) {
	if tx.fileID == nil {
		return 0, newValidationError(MissingField, "file append has no file ID")
	}
	parts, err := SplitChunks(tx.contents, tx.chunkSize, tx.maxChunks)
	if err != nil {
		return 0, err
	}
	tx.parts = parts
	return len(parts), nil
}

func (tx *FileAppendTransaction) fillBody(body *hapi.TransactionBody, chunk, _ int, _ hapi.TransactionID) {
	body.FileAppend = &hapi.FileAppendBody{
		FileID:   *tx.fileID,
		Contents: tx.parts[chunk],
	}
}
