package hapi

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTransactionIDString(t *testing.T) {
	id := TransactionID{
		AccountID:  AccountID{Num: 1234},
		ValidStart: Timestamp{Seconds: 1690000000, Nanos: 7},
	}
	require.Equal(t, "0.0.1234@1690000000.000000007", id.String())

	parsed, err := TransactionIDFromString(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)

	id.Scheduled = true
	id.Nonce = 3
	parsed, err = TransactionIDFromString(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)

	_, err = TransactionIDFromString("0.0.3")
	require.Error(t, err)
}

func TestTimestampAdd(t *testing.T) {
	ts := Timestamp{Seconds: 10, Nanos: 999999999}
	require.Equal(t, Timestamp{Seconds: 11, Nanos: 0}, ts.Add(time.Nanosecond))
	require.True(t, ts.Before(ts.Add(time.Nanosecond)))
}

func TestBodyEncodingIsDeterministic(t *testing.T) {
	body := TransactionBody{
		TransactionID:  TransactionID{AccountID: AccountID{Num: 2}, ValidStart: Timestamp{Seconds: 1}},
		NodeAccountID:  AccountID{Num: 3},
		TransactionFee: 100,
		Memo:           "memo",
		CryptoTransfer: &CryptoTransferBody{
			Transfers: []AccountAmount{
				{AccountID: AccountID{Num: 2}, Amount: -10},
				{AccountID: AccountID{Num: 5}, Amount: 10},
			},
		},
	}

	a, err := Marshal(&body)
	require.NoError(t, err)
	b, err := Marshal(&body)
	require.NoError(t, err)
	require.True(t, bytes.Equal(a, b))

	var decoded TransactionBody
	require.NoError(t, Unmarshal(a, &decoded))
	require.Equal(t, body, decoded)
}

func TestDecodeTransaction(t *testing.T) {
	body := TransactionBody{NodeAccountID: AccountID{Num: 4}, Memo: "x"}
	bodyBytes, err := Marshal(&body)
	require.NoError(t, err)

	signed := SignedTransaction{BodyBytes: bodyBytes}
	signedBytes, err := Marshal(&signed)
	require.NoError(t, err)

	_, decoded, err := DecodeTransaction(&Transaction{SignedTransactionBytes: signedBytes})
	require.NoError(t, err)
	require.Equal(t, body.NodeAccountID, decoded.NodeAccountID)
	require.Equal(t, "x", decoded.Memo)
}
