package sdk

import (
	"fmt"

	"github.com/mosaicnetworks/hashgraph-sdk/src/crypto/keys"
	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
)

// Operator is the account paying for transactions and queries, with the key
// that signs for it.
type Operator struct {
	AccountID  hapi.AccountID
	PrivateKey keys.PrivateKey
}

// PublicKey returns the public half of the operator key.
func (o *Operator) PublicKey() keys.PublicKey {
	return o.PrivateKey.PublicKey()
}

// String does not print the private key.
func (o *Operator) String() string {
	return fmt.Sprintf("Operator{AccountID: %s, PrivateKey: <redacted>}", o.AccountID)
}
