package crypto

import (
	"github.com/iov-one/tokenswap/errors"
	amino "github.com/tendermint/go-amino"
)

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

var cdc = amino.NewCodec()

// Marshal serializes the key using the amino binary encoding.
func (p *PrivateKey) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(p)
}

// Unmarshal loads a key serialized with Marshal.
func (p *PrivateKey) Unmarshal(raw []byte) error {
	if err := cdc.UnmarshalBinaryBare(raw, p); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if len(p.Ed25519) != 64 {
		return errors.Wrap(errors.ErrInput, "invalid ed25519 private key length")
	}
	return nil
}

// Marshal serializes the signature using the amino binary encoding.
func (s *Signature) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(s)
}

// Unmarshal loads a signature serialized with Marshal.
func (s *Signature) Unmarshal(raw []byte) error {
	if err := cdc.UnmarshalBinaryBare(raw, s); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}
