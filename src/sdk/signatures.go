package sdk

import (
	"fmt"
	"sort"

	"github.com/mosaicnetworks/hashgraph-sdk/src/crypto/keys"
	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
)

type signature struct {
	key keys.PublicKey
	sig []byte
}

// SignatureCollector gathers the signatures over one serialized body, indexed
// by public key, and evaluates them against the key structure that must sign.
// It is not safe for concurrent use; it belongs to the transaction that owns
// the body.
type SignatureCollector struct {
	message  []byte
	required keys.Key
	sigs     map[string]signature
}

// NewSignatureCollector returns a collector for message. required may be nil,
// in which case any signature satisfies it.
func NewSignatureCollector(message []byte, required keys.Key) *SignatureCollector {
	return &SignatureCollector{
		message:  message,
		required: required,
		sigs:     make(map[string]signature),
	}
}

// Message returns the bytes being signed.
func (s *SignatureCollector) Message() []byte {
	return s.message
}

// SetRequired replaces the key structure that must sign.
func (s *SignatureCollector) SetRequired(required keys.Key) {
	s.required = required
}

// Sign signs the message with key. Signing twice with the same key replaces
// the previous signature.
func (s *SignatureCollector) Sign(key keys.PrivateKey) error {
	sig, err := key.Sign(s.message)
	if err != nil {
		return err
	}
	pub := key.PublicKey()
	s.sigs[pub.Hex()] = signature{key: pub, sig: sig}
	return nil
}

// AddSignature adds a signature produced elsewhere. It must verify.
func (s *SignatureCollector) AddSignature(pub keys.PublicKey, sig []byte) error {
	if !pub.Verify(s.message, sig) {
		return fmt.Errorf("invalid signature from %s", pub)
	}
	s.sigs[pub.Hex()] = signature{key: pub, sig: append([]byte(nil), sig...)}
	return nil
}

// Len returns the number of distinct signers.
func (s *SignatureCollector) Len() int {
	return len(s.sigs)
}

// HasSigned reports whether pub has signed.
func (s *SignatureCollector) HasSigned(pub keys.PublicKey) bool {
	_, ok := s.sigs[pub.Hex()]
	return ok
}

// IsSatisfied evaluates the required key structure against the current
// signers. Signers that the structure does not mention are ignored.
func (s *SignatureCollector) IsSatisfied() bool {
	if s.required == nil {
		return len(s.sigs) > 0
	}
	signed := make(map[string]bool, len(s.sigs))
	for k := range s.sigs {
		signed[k] = true
	}
	return keys.IsSatisfied(s.required, signed)
}

// SignatureMap returns the signatures ordered by public key.
func (s *SignatureCollector) SignatureMap() hapi.SignatureMap {
	hexes := make([]string, 0, len(s.sigs))
	for k := range s.sigs {
		hexes = append(hexes, k)
	}
	sort.Strings(hexes)

	pairs := make([]hapi.SignaturePair, 0, len(hexes))
	for _, h := range hexes {
		sig := s.sigs[h]
		pair := hapi.SignaturePair{PubKeyPrefix: sig.key.Bytes()}
		switch sig.key.Type() {
		case keys.Ed25519:
			pair.Ed25519 = sig.sig
		case keys.ECDSASecp256k1:
			pair.ECDSASecp256k1 = sig.sig
		}
		pairs = append(pairs, pair)
	}
	return hapi.SignatureMap{SigPair: pairs}
}
