package sdk

import (
	"bytes"
	"sort"
	"testing"

	"github.com/mosaicnetworks/hashgraph-sdk/src/crypto/keys"
	"github.com/stretchr/testify/require"
)

func generateKeys(t *testing.T, n int, kt keys.KeyType) []keys.PrivateKey {
	out := make([]keys.PrivateKey, n)
	for i := range out {
		k, err := keys.GenerateKey(kt)
		require.NoError(t, err)
		out[i] = k
	}
	return out
}

func TestSigningTwiceKeepsOneSignature(t *testing.T) {
	key := generateKeys(t, 1, keys.Ed25519)[0]
	c := NewSignatureCollector([]byte("body"), key.PublicKey())

	require.NoError(t, c.Sign(key))
	require.NoError(t, c.Sign(key))

	require.Equal(t, 1, c.Len())
	require.True(t, c.HasSigned(key.PublicKey()))
	require.True(t, c.IsSatisfied())
	require.Len(t, c.SignatureMap().SigPair, 1)
}

func TestNestedThresholdSatisfiedByCompletingSignature(t *testing.T) {
	ks := generateKeys(t, 4, keys.Ed25519)
	outsider := generateKeys(t, 1, keys.ECDSASecp256k1)[0]

	// k0 and two of k1, k2, k3
	required := keys.NewKeyList(
		ks[0].PublicKey(),
		keys.NewThresholdKey(2, ks[1].PublicKey(), ks[2].PublicKey(), ks[3].PublicKey()),
	)
	c := NewSignatureCollector([]byte("body"), required)

	steps := []struct {
		key  keys.PrivateKey
		want bool
	}{
		{ks[1], false},
		{outsider, false},
		{ks[0], false},
		{ks[1], false},
		{ks[3], true},
		{ks[2], true},
	}
	for i, s := range steps {
		require.NoError(t, c.Sign(s.key))
		if got := c.IsSatisfied(); got != s.want {
			t.Fatalf("step %d: IsSatisfied() = %v, want %v", i, got, s.want)
		}
	}
	require.Equal(t, 5, c.Len())
}

func TestUnreachableThreshold(t *testing.T) {
	ks := generateKeys(t, 2, keys.Ed25519)
	c := NewSignatureCollector([]byte("body"), keys.NewThresholdKey(3, ks[0].PublicKey(), ks[1].PublicKey()))
	for _, k := range ks {
		require.NoError(t, c.Sign(k))
	}
	require.False(t, c.IsSatisfied())
}

func TestWithoutRequiredKeyAnySignatureSatisfies(t *testing.T) {
	c := NewSignatureCollector([]byte("body"), nil)
	require.False(t, c.IsSatisfied())

	require.NoError(t, c.Sign(generateKeys(t, 1, keys.ECDSASecp256k1)[0]))
	require.True(t, c.IsSatisfied())
}

func TestAddSignature(t *testing.T) {
	key := generateKeys(t, 1, keys.ECDSASecp256k1)[0]
	c := NewSignatureCollector([]byte("body"), key.PublicKey())

	sig, err := key.Sign([]byte("another body"))
	require.NoError(t, err)
	require.Error(t, c.AddSignature(key.PublicKey(), sig))
	require.False(t, c.IsSatisfied())

	sig, err = key.Sign([]byte("body"))
	require.NoError(t, err)
	require.NoError(t, c.AddSignature(key.PublicKey(), sig))
	require.True(t, c.IsSatisfied())

	// Changing the required key after signing re-evaluates
	c.SetRequired(generateKeys(t, 1, keys.Ed25519)[0].PublicKey())
	require.False(t, c.IsSatisfied())
}

func TestSignatureMapIsOrderedByKey(t *testing.T) {
	ks := append(generateKeys(t, 3, keys.Ed25519), generateKeys(t, 3, keys.ECDSASecp256k1)...)
	c := NewSignatureCollector([]byte("body"), nil)
	for _, k := range ks {
		require.NoError(t, c.Sign(k))
	}

	pairs := c.SignatureMap().SigPair
	require.Len(t, pairs, len(ks))

	hexes := make([]string, len(pairs))
	for i, p := range pairs {
		kt := keys.Ed25519
		sig := p.Ed25519
		if p.ECDSASecp256k1 != nil {
			kt, sig = keys.ECDSASecp256k1, p.ECDSASecp256k1
			require.Nil(t, p.Ed25519)
		}
		pub, err := keys.ParsePublicKey(kt, p.PubKeyPrefix)
		require.NoError(t, err)
		require.True(t, pub.Verify([]byte("body"), sig))
		hexes[i] = pub.Hex()
	}
	require.True(t, sort.StringsAreSorted(hexes))

	// The same signers give the same map
	again := c.SignatureMap().SigPair
	for i := range pairs {
		require.True(t, bytes.Equal(pairs[i].PubKeyPrefix, again[i].PubKeyPrefix))
	}
}
