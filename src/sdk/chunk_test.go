package sdk

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
	"github.com/stretchr/testify/require"
)

func TestChunkCount(t *testing.T) {
	cases := []struct {
		size, chunkSize, want int
	}{
		{0, 1024, 1},
		{1, 1024, 1},
		{1024, 1024, 1},
		{1025, 1024, 2},
		{4096, 1024, 4},
		{4097, 1024, 5},
	}
	for _, c := range cases {
		if got := ChunkCount(c.size, c.chunkSize); got != c.want {
			t.Fatalf("ChunkCount(%d, %d) = %d, want %d", c.size, c.chunkSize, got, c.want)
		}
	}
}

func TestSplitChunks(t *testing.T) {
	data := make([]byte, 2500)
	for i := range data {
		data[i] = byte(i)
	}

	chunks, err := SplitChunks(data, 1024, 3)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	require.Len(t, chunks[0], 1024)
	require.Len(t, chunks[1], 1024)
	require.Len(t, chunks[2], 452)
	require.Equal(t, data, bytes.Join(chunks, nil))

	// Deterministic
	again, err := SplitChunks(data, 1024, 3)
	require.NoError(t, err)
	require.Equal(t, chunks, again)

	_, err = SplitChunks(data, 1024, 2)
	require.True(t, IsLocalValidation(err, MaxChunksExceeded), "got %v", err)

	_, err = SplitChunks(data, 0, 2)
	require.True(t, IsLocalValidation(err, MissingField), "got %v", err)

	empty, err := SplitChunks(nil, 1024, 1)
	require.NoError(t, err)
	require.Len(t, empty, 1)
	require.Empty(t, empty[0])
}

func TestChunkTransactionID(t *testing.T) {
	base := hapi.TransactionID{
		AccountID:  hapi.AccountID{Num: 2},
		ValidStart: hapi.Timestamp{Seconds: 100, Nanos: 999999999},
	}
	require.Equal(t, base, ChunkTransactionID(base, 0))

	second := ChunkTransactionID(base, 1)
	require.Equal(t, base.AccountID, second.AccountID)
	require.Equal(t, hapi.Timestamp{Seconds: 101, Nanos: 0}, second.ValidStart)
	require.True(t, base.ValidStart.Before(second.ValidStart))
}

func TestIDGeneratorNeverRepeats(t *testing.T) {
	g := newIDGenerator()
	frozen := time.Unix(1000, 0)
	g.now = func() time.Time { return frozen }

	payer := hapi.AccountID{Num: 2}
	first := g.next(payer, 1)
	require.Equal(t, hapi.TimestampFromTime(frozen.Add(-validStartSkew)), first.ValidStart)

	// A chunked transaction reserves one nanosecond per chunk
	chunked := g.next(payer, 3)
	next := g.next(payer, 1)
	require.Equal(t, ChunkTransactionID(chunked, 3), next)

	var (
		mu   sync.Mutex
		seen = make(map[hapi.TransactionID]bool)
		wg   sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := g.next(payer, 1)
				mu.Lock()
				if seen[id] {
					mu.Unlock()
					t.Errorf("transaction ID %s generated twice", id)
					return
				}
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Len(t, seen, 800)
}
