package keys

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/mosaicnetworks/hashgraph-sdk/src/crypto"
)

// KeyType is the signature scheme of a key.
type KeyType uint8

const (
	// Ed25519 keys sign raw messages.
	Ed25519 KeyType = iota + 1
	// ECDSASecp256k1 keys sign the SHA256 of the message.
	ECDSASecp256k1
)

func (t KeyType) String() string {
	switch t {
	case Ed25519:
		return "ed25519"
	case ECDSASecp256k1:
		return "ecdsa-secp256k1"
	default:
		return "unknown"
	}
}

// ParseKeyType is the inverse of KeyType.String.
func ParseKeyType(s string) (KeyType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ed25519":
		return Ed25519, nil
	case "ecdsa-secp256k1", "ecdsa", "secp256k1":
		return ECDSASecp256k1, nil
	}
	return 0, fmt.Errorf("unknown key type %q", s)
}

const (
	// number of bits in a big.Word
	wordBits = 32 << (uint64(^big.Word(0)) >> 63)
	// number of bytes in a big.Word
	wordBytes = wordBits / 8
)

// PrivateKey is a signing key of either type.
type PrivateKey struct {
	keyType KeyType
	ed      ed25519.PrivateKey
	ec      *ecdsa.PrivateKey
}

// GenerateEd25519Key creates a new Ed25519 key.
func GenerateEd25519Key() (PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return PrivateKey{}, err
	}
	return PrivateKey{keyType: Ed25519, ed: priv}, nil
}

//GenerateECDSAKey creates a new secp256k1 key using the elliptic.Curve
//returned by Curve() function.
func GenerateECDSAKey() (PrivateKey, error) {
	priv, err := ecdsa.GenerateKey(Curve(), rand.Reader)
	if err != nil {
		return PrivateKey{}, err
	}
	return PrivateKey{keyType: ECDSASecp256k1, ec: priv}, nil
}

// GenerateKey creates a new key of the given type.
func GenerateKey(t KeyType) (PrivateKey, error) {
	switch t {
	case Ed25519:
		return GenerateEd25519Key()
	case ECDSASecp256k1:
		return GenerateECDSAKey()
	}
	return PrivateKey{}, fmt.Errorf("unknown key type %d", t)
}

// ParsePrivateKey rebuilds a key from the raw bytes returned by Bytes. Ed25519
// keys are the 32-byte seed, ECDSA keys the 32-byte D value.
func ParsePrivateKey(t KeyType, raw []byte) (PrivateKey, error) {
	switch t {
	case Ed25519:
		if len(raw) != ed25519.SeedSize {
			return PrivateKey{}, fmt.Errorf("invalid length, need %d bytes", ed25519.SeedSize)
		}
		return PrivateKey{keyType: Ed25519, ed: ed25519.NewKeyFromSeed(raw)}, nil
	case ECDSASecp256k1:
		priv, err := parseECDSAKey(raw)
		if err != nil {
			return PrivateKey{}, err
		}
		return PrivateKey{keyType: ECDSASecp256k1, ec: priv}, nil
	}
	return PrivateKey{}, fmt.Errorf("unknown key type %d", t)
}

// ParsePrivateKeyString parses "<type>:<hex>" as produced by String.
func ParsePrivateKeyString(s string) (PrivateKey, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return PrivateKey{}, errors.New("expected <type>:<hex>")
	}
	t, err := ParseKeyType(parts[0])
	if err != nil {
		return PrivateKey{}, err
	}
	raw, err := hex.DecodeString(parts[1])
	if err != nil {
		return PrivateKey{}, err
	}
	return ParsePrivateKey(t, raw)
}

// Type returns the signature scheme.
func (k PrivateKey) Type() KeyType {
	return k.keyType
}

// Bytes exports the key into a binary dump.
func (k PrivateKey) Bytes() []byte {
	switch k.keyType {
	case Ed25519:
		return k.ed.Seed()
	case ECDSASecp256k1:
		return paddedBigBytes(k.ec.D, k.ec.Params().BitSize/8)
	}
	return nil
}

// String returns "<type>:<hex>". It is the format of key files, so never log
// it.
func (k PrivateKey) String() string {
	return fmt.Sprintf("%s:%s", k.keyType, hex.EncodeToString(k.Bytes()))
}

// PublicKey returns the matching public key.
func (k PrivateKey) PublicKey() PublicKey {
	switch k.keyType {
	case Ed25519:
		return PublicKey{keyType: Ed25519, raw: []byte(k.ed.Public().(ed25519.PublicKey))}
	case ECDSASecp256k1:
		return PublicKey{keyType: ECDSASecp256k1, raw: compressECDSA(&k.ec.PublicKey)}
	}
	return PublicKey{}
}

// Sign signs message. ECDSA signatures are over SHA256(message) and encoded as
// R||S, each padded to 32 bytes.
func (k PrivateKey) Sign(message []byte) ([]byte, error) {
	switch k.keyType {
	case Ed25519:
		return ed25519.Sign(k.ed, message), nil
	case ECDSASecp256k1:
		r, s, err := ecdsa.Sign(rand.Reader, k.ec, crypto.SHA256(message))
		if err != nil {
			return nil, err
		}
		sig := make([]byte, 0, 64)
		sig = append(sig, paddedBigBytes(r, 32)...)
		sig = append(sig, paddedBigBytes(s, 32)...)
		return sig, nil
	}
	return nil, errors.New("empty private key")
}

//parseECDSAKey creates a private key with the given D value.
func parseECDSAKey(d []byte) (*ecdsa.PrivateKey, error) {
	priv := new(ecdsa.PrivateKey)
	priv.PublicKey.Curve = Curve()

	if 8*len(d) != priv.Params().BitSize {
		return nil, fmt.Errorf("invalid length, need %d bits", priv.Params().BitSize)
	}

	priv.D = new(big.Int).SetBytes(d)

	// The priv.D must < N
	if priv.D.Cmp(secp256k1N) >= 0 {
		return nil, fmt.Errorf("invalid private key, >=N")
	}

	// The priv.D must not be zero or negative.
	if priv.D.Sign() <= 0 {
		return nil, fmt.Errorf("invalid private key, zero or negative")
	}

	priv.PublicKey.X, priv.PublicKey.Y = priv.PublicKey.Curve.ScalarBaseMult(d)
	if priv.PublicKey.X == nil {
		return nil, errors.New("invalid private key")
	}

	return priv, nil
}

//paddedBigBytes encodes a big integer as a big-endian byte slice. The length of
//the slice is at least n bytes.
func paddedBigBytes(bigint *big.Int, n int) []byte {
	if bigint.BitLen()/8 >= n {
		return bigint.Bytes()
	}
	ret := make([]byte, n)
	readBits(bigint, ret)
	return ret
}

//readBits encodes the absolute value of bigint as big-endian bytes. Callers
//must ensure that buf has enough space. If buf is too short the result will be
//incomplete.
func readBits(bigint *big.Int, buf []byte) {
	i := len(buf)
	for _, d := range bigint.Bits() {
		for j := 0; j < wordBytes && i > 0; j++ {
			i--
			buf[i] = byte(d)
			d >>= 8
		}
	}
}
