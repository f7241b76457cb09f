package sdk

import (
	"time"

	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
)

// Chunking defaults.
const (
	DefaultFileChunkSize    = 4096
	DefaultMessageChunkSize = 1024
	DefaultMaxChunks        = 20
)

// ChunkCount returns the number of chunks of chunkSize bytes needed to carry
// size bytes. An empty payload still takes one chunk.
func ChunkCount(size, chunkSize int) int {
	if size <= 0 || chunkSize <= 0 {
		return 1
	}
	return (size + chunkSize - 1) / chunkSize
}

// SplitChunks cuts data into chunks of at most chunkSize bytes, in order. It
// fails without splitting anything when more than maxChunks would be needed.
func SplitChunks(data []byte, chunkSize, maxChunks int) ([][]byte, error) {
	if chunkSize <= 0 {
		return nil, newValidationError(MissingField, "chunk size must be positive, got %d", chunkSize)
	}

	count := ChunkCount(len(data), chunkSize)
	if count > maxChunks {
		return nil, newValidationError(MaxChunksExceeded,
			"%d bytes need %d chunks of %d bytes, at most %d allowed",
			len(data), count, chunkSize, maxChunks)
	}

	chunks := make([][]byte, count)
	for i := range chunks {
		start := i * chunkSize
		end := start + chunkSize
		if end > len(data) {
			end = len(data)
		}
		chunks[i] = data[start:end]
	}
	return chunks, nil
}

// ChunkTransactionID derives the ID of chunk index (counting from 0) from the
// ID of the first chunk: the valid start moves forward by one nanosecond per
// chunk.
func ChunkTransactionID(base hapi.TransactionID, index int) hapi.TransactionID {
	id := base
	id.ValidStart = base.ValidStart.Add(time.Duration(index))
	return id
}
