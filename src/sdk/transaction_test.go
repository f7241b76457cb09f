package sdk

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mosaicnetworks/hashgraph-sdk/src/common"
	"github.com/mosaicnetworks/hashgraph-sdk/src/config"
	"github.com/mosaicnetworks/hashgraph-sdk/src/crypto/keys"
	"github.com/mosaicnetworks/hashgraph-sdk/src/execute"
	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
	"github.com/mosaicnetworks/hashgraph-sdk/src/net"
	"github.com/mosaicnetworks/hashgraph-sdk/src/network"
	"github.com/mosaicnetworks/hashgraph-sdk/src/status"
	"github.com/stretchr/testify/require"
)

var operatorID = hapi.AccountID{Num: 2}

// recorder is a Transport that accepts everything and remembers what it was
// sent.
type recorder struct {
	sync.Mutex
	bodies  []*hapi.TransactionBody
	queries []*hapi.Query
}

func (r *recorder) SubmitTransaction(_ context.Context, _ string, tx *hapi.Transaction, resp *hapi.TransactionResponse) error {
	_, body, err := hapi.DecodeTransaction(tx)
	if err != nil {
		return err
	}
	r.Lock()
	r.bodies = append(r.bodies, body)
	r.Unlock()
	resp.NodeTransactionPrecheckCode = status.Ok
	return nil
}

func (r *recorder) Query(_ context.Context, _ string, q *hapi.Query, resp *hapi.Response) error {
	r.Lock()
	r.queries = append(r.queries, q)
	r.Unlock()
	resp.TransactionGetReceipt = &hapi.TransactionGetReceiptResponse{
		Receipt: hapi.TransactionReceipt{Status: status.Success},
	}
	return nil
}

func (r *recorder) Close() error {
	return nil
}

func (r *recorder) submissions() []*hapi.TransactionBody {
	r.Lock()
	defer r.Unlock()
	return append([]*hapi.TransactionBody(nil), r.bodies...)
}

// scripted is a Transport that answers each submission with the status
// returned by answer, given how many times the same ID was submitted before.
type scripted struct {
	sync.Mutex
	answer    func(body *hapi.TransactionBody, previous int) status.Status
	submitted []hapi.TransactionID
	queries   []*hapi.Query
	query     func(q *hapi.Query, previous int) *hapi.Response
}

func (s *scripted) SubmitTransaction(_ context.Context, _ string, tx *hapi.Transaction, resp *hapi.TransactionResponse) error {
	_, body, err := hapi.DecodeTransaction(tx)
	if err != nil {
		return err
	}
	s.Lock()
	previous := 0
	for _, id := range s.submitted {
		if id == body.TransactionID {
			previous++
		}
	}
	s.submitted = append(s.submitted, body.TransactionID)
	s.Unlock()
	resp.NodeTransactionPrecheckCode = s.answer(body, previous)
	return nil
}

func (s *scripted) Query(_ context.Context, _ string, q *hapi.Query, resp *hapi.Response) error {
	s.Lock()
	previous := len(s.queries)
	s.queries = append(s.queries, q)
	s.Unlock()
	*resp = *s.query(q, previous)
	return nil
}

func (s *scripted) Close() error {
	return nil
}

func (s *scripted) submissions() []hapi.TransactionID {
	s.Lock()
	defer s.Unlock()
	return append([]hapi.TransactionID(nil), s.submitted...)
}

func testClient(t *testing.T, nodes int, trans net.Transport) *Client {
	conf := config.NewTestConfig(t, common.TestLogLevel)

	roster := make([]*network.Node, nodes)
	for i := range roster {
		roster[i] = network.NewNode(hapi.AccountID{Num: int64(3 + i)}, "")
	}
	nw, err := network.NewNetwork(roster, conf.MinNodeBackoff, conf.MaxNodeBackoff, common.NewTestEntry(t, common.TestLogLevel))
	require.NoError(t, err)

	client, err := NewClient(conf, nw, trans)
	require.NoError(t, err)

	key, err := keys.GenerateEd25519Key()
	require.NoError(t, err)
	client.SetOperator(operatorID, key)

	return client
}

func recordingClient(t *testing.T, nodes int) (*Client, *recorder) {
	rec := &recorder{}
	return testClient(t, nodes, rec), rec
}

func TestSignBeforeFreeze(t *testing.T) {
	tx := NewTransferTransaction()
	key := generateKeys(t, 1, keys.Ed25519)[0]

	err := tx.Sign(key)
	require.True(t, IsLocalValidation(err, NotFrozen), "got %v", err)
	require.False(t, tx.IsSatisfied())
}

func TestFreezeWithoutClient(t *testing.T) {
	tx := NewTransferTransaction()
	require.NoError(t, tx.AddTransfer(operatorID, -10))
	require.NoError(t, tx.AddTransfer(hapi.AccountID{Num: 99}, 10))

	err := tx.Freeze()
	require.True(t, IsLocalValidation(err, MissingField), "got %v", err)
	require.Equal(t, Building, tx.State())

	require.NoError(t, tx.SetTransactionID(hapi.TransactionID{AccountID: operatorID}))
	err = tx.Freeze()
	require.True(t, IsLocalValidation(err, MissingField), "got %v", err)

	require.NoError(t, tx.SetNodeAccountIDs([]hapi.AccountID{{Num: 3}}))
	require.NoError(t, tx.Freeze())
	require.Equal(t, Frozen, tx.State())
	require.Equal(t, 1, tx.ChunkCount())
}

func TestInvalidTransfers(t *testing.T) {
	client, rec := recordingClient(t, 1)

	empty := NewTransferTransaction()
	_, err := empty.Execute(context.Background(), client)
	require.True(t, IsLocalValidation(err, MissingField), "got %v", err)

	unbalanced := NewTransferTransaction()
	require.NoError(t, unbalanced.AddTransfer(operatorID, -10))
	require.NoError(t, unbalanced.AddTransfer(hapi.AccountID{Num: 99}, 9))
	_, err = unbalanced.Execute(context.Background(), client)
	require.True(t, IsLocalValidation(err, InvalidTransfer), "got %v", err)

	// Amounts of the same account are merged
	merged := NewTransferTransaction()
	require.NoError(t, merged.AddTransfer(hapi.AccountID{Num: 99}, 4))
	require.NoError(t, merged.AddTransfer(operatorID, -10))
	require.NoError(t, merged.AddTransfer(hapi.AccountID{Num: 99}, 6))
	require.Equal(t, []hapi.AccountAmount{
		{AccountID: operatorID, Amount: -10},
		{AccountID: hapi.AccountID{Num: 99}, Amount: 10},
	}, merged.Transfers())

	require.Empty(t, rec.submissions())
}

func TestLifecycleErrors(t *testing.T) {
	client, _ := recordingClient(t, 1)

	tx := NewTransferTransaction()
	require.NoError(t, tx.AddTransfer(operatorID, -10))
	require.NoError(t, tx.AddTransfer(hapi.AccountID{Num: 99}, 10))
	require.NoError(t, tx.FreezeWith(client))

	err := tx.SetMemo("too late")
	require.True(t, IsLocalValidation(err, AlreadyFrozen), "got %v", err)
	err = tx.AddTransfer(operatorID, 1)
	require.True(t, IsLocalValidation(err, AlreadyFrozen), "got %v", err)
	err = tx.FreezeWith(client)
	require.True(t, IsLocalValidation(err, AlreadyFrozen), "got %v", err)

	// Signatures may still be added
	require.NoError(t, tx.SignWithOperator(client))
	require.True(t, tx.IsSatisfied())

	_, err = tx.Execute(context.Background(), client)
	require.NoError(t, err)
	require.Equal(t, Dispatched, tx.State())

	_, err = tx.Execute(context.Background(), client)
	require.True(t, IsLocalValidation(err, AlreadyDispatched), "got %v", err)
	err = tx.Sign(client.Operator().PrivateKey)
	require.True(t, IsLocalValidation(err, AlreadyDispatched), "got %v", err)
	err = tx.SetMaxTransactionFee(1)
	require.True(t, IsLocalValidation(err, AlreadyDispatched), "got %v", err)
	err = tx.SetRequiredKey(client.Operator().PublicKey())
	require.True(t, IsLocalValidation(err, AlreadyDispatched), "got %v", err)

	_, err = tx.Execute(context.Background(), nil)
	require.True(t, IsLocalValidation(err, MissingField), "got %v", err)
}

func TestNilClient(t *testing.T) {
	tx := NewTransferTransaction()
	require.NoError(t, tx.AddTransfer(operatorID, -10))
	require.NoError(t, tx.AddTransfer(hapi.AccountID{Num: 99}, 10))

	err := tx.SignWithOperator(nil)
	require.True(t, IsLocalValidation(err, MissingField), "got %v", err)
	require.Equal(t, Building, tx.State())

	resp := &TransactionResponse{TransactionID: hapi.TransactionID{AccountID: operatorID}}

	_, err = resp.GetReceipt(context.Background(), nil)
	require.True(t, IsLocalValidation(err, MissingField), "got %v", err)

	_, err = resp.GetRecord(context.Background(), nil)
	require.True(t, IsLocalValidation(err, MissingField), "got %v", err)
}

func TestMissingSignaturesBlockDispatch(t *testing.T) {
	client, rec := recordingClient(t, 2)
	cosigner := generateKeys(t, 1, keys.ECDSASecp256k1)[0]

	tx := NewTransferTransaction()
	require.NoError(t, tx.AddTransfer(operatorID, -10))
	require.NoError(t, tx.AddTransfer(hapi.AccountID{Num: 99}, 10))
	require.NoError(t, tx.SetRequiredKey(keys.NewKeyList(client.Operator().PublicKey(), cosigner.PublicKey())))

	_, err := tx.Execute(context.Background(), client)
	require.True(t, IsLocalValidation(err, SignaturesIncomplete), "got %v", err)
	require.Equal(t, Frozen, tx.State())
	require.Empty(t, rec.submissions())

	require.NoError(t, tx.Sign(cosigner))
	require.True(t, tx.IsSatisfied())

	resp, err := tx.Execute(context.Background(), client)
	require.NoError(t, err)
	id, _ := tx.TransactionID()
	require.Equal(t, id, resp.TransactionID)
	require.Len(t, rec.submissions(), 1)
}

func TestTooManyChunksFailsBeforeSending(t *testing.T) {
	client, rec := recordingClient(t, 1)

	tx := NewTopicMessageSubmitTransaction()
	require.NoError(t, tx.SetTopicID(hapi.TopicID{Num: 7}))
	require.NoError(t, tx.SetMessage(make([]byte, 3000)))
	require.NoError(t, tx.SetChunkSize(1024))
	require.NoError(t, tx.SetMaxChunks(2))

	_, err := tx.ExecuteAll(context.Background(), client)
	require.True(t, IsLocalValidation(err, MaxChunksExceeded), "got %v", err)
	require.Equal(t, Building, tx.State())
	require.Empty(t, rec.submissions())

	// Nothing was reserved either: the ID is still unset
	_, ok := tx.TransactionID()
	require.False(t, ok)
}

func TestChunksAreSentInOrder(t *testing.T) {
	client, rec := recordingClient(t, 3)

	data := make([]byte, 2500)
	for i := range data {
		data[i] = byte(i % 251)
	}

	tx := NewFileAppendTransaction()
	require.NoError(t, tx.SetFileID(hapi.FileID{Num: 150}))
	require.NoError(t, tx.SetContents(data))
	require.NoError(t, tx.SetChunkSize(1024))

	responses, err := tx.ExecuteAll(context.Background(), client)
	require.NoError(t, err)
	require.Len(t, responses, 3)

	initial, ok := tx.TransactionID()
	require.True(t, ok)

	bodies := rec.submissions()
	require.Len(t, bodies, 3)

	var contents [][]byte
	for i, body := range bodies {
		require.Equal(t, ChunkTransactionID(initial, i), body.TransactionID)
		require.Equal(t, responses[i].TransactionID, body.TransactionID)
		require.Equal(t, i, responses[i].ChunkIndex)
		require.Equal(t, responses[i].NodeAccountID, body.NodeAccountID)
		require.NotNil(t, body.FileAppend)
		contents = append(contents, body.FileAppend.Contents)
	}
	require.Equal(t, data, bytes.Join(contents, nil))

	// Every chunk is journaled
	for _, resp := range responses {
		entry, err := client.Journal().Get(resp.TransactionID)
		require.NoError(t, err)
		require.Equal(t, resp.Hash, entry.Hash)
		require.False(t, entry.Resolved())
	}
}

func TestMessageChunksCarryChunkInfo(t *testing.T) {
	client, rec := recordingClient(t, 1)

	tx := NewTopicMessageSubmitTransaction()
	require.NoError(t, tx.SetTopicID(hapi.TopicID{Num: 7}))
	require.NoError(t, tx.SetMessage([]byte("hello world")))
	require.NoError(t, tx.SetChunkSize(4))

	_, err := tx.ExecuteAll(context.Background(), client)
	require.NoError(t, err)

	initial, _ := tx.TransactionID()
	bodies := rec.submissions()
	require.Len(t, bodies, 3)
	for i, body := range bodies {
		info := body.ConsensusSubmitMessage.ChunkInfo
		require.NotNil(t, info)
		require.Equal(t, initial, info.InitialTransactionID)
		require.EqualValues(t, 3, info.Total)
		require.EqualValues(t, i+1, info.Number)
	}
}

func TestFreezeIsDeterministic(t *testing.T) {
	id := hapi.TransactionID{
		AccountID:  operatorID,
		ValidStart: hapi.TimestampFromTime(time.Unix(1600000000, 42)),
	}
	nodes := []hapi.AccountID{{Num: 3}, {Num: 4}}

	build := func() *TopicMessageSubmitTransaction {
		tx := NewTopicMessageSubmitTransaction()
		require.NoError(t, tx.SetTopicID(hapi.TopicID{Num: 7}))
		require.NoError(t, tx.SetMessage(bytes.Repeat([]byte("x"), 3000)))
		require.NoError(t, tx.SetTransactionID(id))
		require.NoError(t, tx.SetNodeAccountIDs(nodes))
		require.NoError(t, tx.Freeze())
		return tx
	}

	a, b := build(), build()
	require.Equal(t, 3, a.ChunkCount())
	for i := range a.chunks {
		for j := range a.chunks[i].bodies {
			require.Equal(t, a.chunks[i].bodies[j].signatures.Message(), b.chunks[i].bodies[j].signatures.Message())
		}
	}
}

func TestBusyChunkHoldsBackTheNext(t *testing.T) {
	trans := &scripted{
		answer: func(_ *hapi.TransactionBody, previous int) status.Status {
			if previous < 2 {
				return status.Busy
			}
			return status.Ok
		},
	}
	client := testClient(t, 1, trans)

	tx := NewFileAppendTransaction()
	require.NoError(t, tx.SetFileID(hapi.FileID{Num: 150}))
	require.NoError(t, tx.SetContents(make([]byte, 2500)))
	require.NoError(t, tx.SetChunkSize(1024))

	responses, err := tx.ExecuteAll(context.Background(), client)
	require.NoError(t, err)
	require.Len(t, responses, 3)

	initial, _ := tx.TransactionID()

	// Every chunk is retried until accepted, and only then is the next one
	// sent
	var want []hapi.TransactionID
	for i := 0; i < 3; i++ {
		id := ChunkTransactionID(initial, i)
		want = append(want, id, id, id)
	}
	require.Equal(t, want, trans.submissions())
}

func TestRejectedChunkStopsDispatch(t *testing.T) {
	cases := []struct {
		name     string
		rejected int
	}{
		{"first chunk", 0},
		{"second chunk", 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var initial hapi.TransactionID
			trans := &scripted{}
			trans.answer = func(body *hapi.TransactionBody, _ int) status.Status {
				if body.TransactionID == ChunkTransactionID(initial, c.rejected) {
					return status.InvalidSignature
				}
				return status.Ok
			}
			client := testClient(t, 2, trans)

			initial = client.NewTransactionID(operatorID)
			tx := NewTopicMessageSubmitTransaction()
			require.NoError(t, tx.SetTopicID(hapi.TopicID{Num: 7}))
			require.NoError(t, tx.SetMessage(make([]byte, 3000)))
			require.NoError(t, tx.SetTransactionID(initial))

			responses, err := tx.ExecuteAll(context.Background(), client)
			require.True(t, execute.IsStatus(err, status.InvalidSignature), "got %v", err)

			// Accepted chunks are returned with the error
			require.Len(t, responses, c.rejected)
			for i, resp := range responses {
				require.Equal(t, ChunkTransactionID(initial, i), resp.TransactionID)
			}

			// The rejected chunk was sent once and nothing after it
			submitted := trans.submissions()
			require.Len(t, submitted, c.rejected+1)
			require.Equal(t, ChunkTransactionID(initial, c.rejected), submitted[c.rejected])
		})
	}
}
