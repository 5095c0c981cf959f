package tokenswaptest

import (
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/crypto"
)

// NewKey returns a freshly generated ed25519 signer.
func NewKey() crypto.Signer {
	return crypto.GenPrivKeyEd25519()
}

// NewAddress returns the address of a freshly generated key.
func NewAddress() tokenswap.Address {
	return NewKey().PublicKey().Address()
}

// Signer is the signing functionality of a key.
type Signer = crypto.Signer
