package keys

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/ed25519"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec"
	"github.com/mosaicnetworks/hashgraph-sdk/src/common"
	"github.com/mosaicnetworks/hashgraph-sdk/src/crypto"
)

// PublicKey is a verification key of either type. It is also the simplest Key:
// it is satisfied when it has signed.
type PublicKey struct {
	keyType KeyType
	raw     []byte
}

// ParsePublicKey validates raw and wraps it. ECDSA keys may be given in
// compressed or uncompressed form; they are stored compressed.
func ParsePublicKey(t KeyType, raw []byte) (PublicKey, error) {
	switch t {
	case Ed25519:
		if len(raw) != ed25519.PublicKeySize {
			return PublicKey{}, fmt.Errorf("invalid length, need %d bytes", ed25519.PublicKeySize)
		}
		return PublicKey{keyType: Ed25519, raw: append([]byte(nil), raw...)}, nil
	case ECDSASecp256k1:
		pub, err := btcec.ParsePubKey(raw, btcec.S256())
		if err != nil {
			return PublicKey{}, err
		}
		return PublicKey{keyType: ECDSASecp256k1, raw: pub.SerializeCompressed()}, nil
	}
	return PublicKey{}, fmt.Errorf("unknown key type %d", t)
}

// Type returns the signature scheme.
func (p PublicKey) Type() KeyType {
	return p.keyType
}

// Bytes returns the raw key.
func (p PublicKey) Bytes() []byte {
	return p.raw
}

// Hex returns the hexadecimal representation of the raw key. Signatures are
// indexed by it.
func (p PublicKey) Hex() string {
	return common.EncodeToString(p.raw)
}

func (p PublicKey) String() string {
	return fmt.Sprintf("%s:%s", p.keyType, p.Hex())
}

// Equal reports whether p and o are the same key.
func (p PublicKey) Equal(o PublicKey) bool {
	return p.keyType == o.keyType && bytes.Equal(p.raw, o.raw)
}

// IsZero reports whether p was never set.
func (p PublicKey) IsZero() bool {
	return len(p.raw) == 0
}

// Verify checks that sig is a signature of message by the owner of p.
func (p PublicKey) Verify(message, sig []byte) bool {
	switch p.keyType {
	case Ed25519:
		return len(p.raw) == ed25519.PublicKeySize && ed25519.Verify(ed25519.PublicKey(p.raw), message, sig)
	case ECDSASecp256k1:
		if len(sig) != 64 {
			return false
		}
		pub, err := btcec.ParsePubKey(p.raw, btcec.S256())
		if err != nil {
			return false
		}
		r := new(big.Int).SetBytes(sig[:32])
		s := new(big.Int).SetBytes(sig[32:])
		return ecdsa.Verify(pub.ToECDSA(), crypto.SHA256(message), r, s)
	}
	return false
}

// PublicKeys implements Key.
func (p PublicKey) PublicKeys() []PublicKey {
	return []PublicKey{p}
}

func (p PublicKey) satisfied(signed map[string]bool) bool {
	return signed[p.Hex()]
}

func compressECDSA(pub *ecdsa.PublicKey) []byte {
	return (*btcec.PublicKey)(pub).SerializeCompressed()
}
