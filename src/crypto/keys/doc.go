// Package keys implements the public key cryptography used to sign
// transactions.
//
// Two schemes are supported. Ed25519 keys sign the raw body bytes. ECDSA keys
// use the secp256k1 curve, the curve used by Bitcoin and Ethereum, and sign the
// SHA256 digest of the body bytes; their signatures are the 64-byte
// concatenation of R and S. Public keys are exchanged in raw form: 32 bytes
// for Ed25519, the 33-byte compressed point for ECDSA.
//
// A Key describes who must sign. It is either a single PublicKey or a KeyList,
// which requires all of its members, or a threshold of them, to be satisfied.
// KeyLists nest, so arbitrary signing policies can be expressed.
package keys
