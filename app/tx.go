package app

import (
	"crypto/sha512"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/crypto"
	"github.com/iov-one/tokenswap/errors"
	amino "github.com/tendermint/go-amino"
)

// SignCodeV1 is the current way to prefix the bytes we use to build
// a signature
const SignCodeV1 = "swp1"

var cdc = amino.NewCodec()

// Tx is a list of instructions executed atomically, together with the
// signatures of all accounts that authorize them.
type Tx struct {
	Instructions []tokenswap.Instruction
	Signatures   []*StdSignature
}

// StdSignature is a signature of the transaction sign bytes created by the
// owner of the public key.
type StdSignature struct {
	PubKey    *crypto.PublicKey
	Signature *crypto.Signature
}

// Validate makes sure the transaction is not obviously broken.
func (tx *Tx) Validate() error {
	if len(tx.Instructions) == 0 {
		return errors.Wrap(errors.ErrEmpty, "instructions")
	}
	for i, s := range tx.Signatures {
		if s == nil || s.PubKey == nil || s.Signature == nil {
			return errors.Wrapf(errors.ErrEmpty, "signature %d", i)
		}
	}
	return nil
}

// SignBytes returns the bytes that every signer must sign. Signatures are
// bound to a chain, so they cannot be replayed on another network.
func (tx *Tx) SignBytes(chainID string) ([]byte, error) {
	if !tokenswap.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	body, err := cdc.MarshalBinaryBare(Tx{Instructions: tx.Instructions})
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}

	output := make([]byte, 0, len(SignCodeV1)+1+len(chainID)+len(body))
	output = append(output, []byte(SignCodeV1)...)
	output = append(output, uint8(len(chainID)))
	output = append(output, []byte(chainID)...)
	output = append(output, body...)

	// constant length input for eddsa, as hardware wallets need it
	hashed := sha512.Sum512(output)
	return hashed[:], nil
}

// Sign adds a signature of every given signer.
func (tx *Tx) Sign(chainID string, signers ...crypto.Signer) error {
	bz, err := tx.SignBytes(chainID)
	if err != nil {
		return err
	}
	for _, s := range signers {
		sig, err := s.Sign(bz)
		if err != nil {
			return errors.Wrap(err, "sign")
		}
		tx.Signatures = append(tx.Signatures, &StdSignature{
			PubKey:    s.PublicKey(),
			Signature: sig,
		})
	}
	return nil
}

// Signers verifies all signatures and returns the addresses of the signers.
func (tx *Tx) Signers(chainID string) ([]tokenswap.Address, error) {
	bz, err := tx.SignBytes(chainID)
	if err != nil {
		return nil, err
	}
	signers := make([]tokenswap.Address, 0, len(tx.Signatures))
	for i, s := range tx.Signatures {
		if !s.PubKey.Verify(bz, s.Signature) {
			return nil, errors.Wrapf(errors.ErrUnauthorized, "invalid signature %d", i)
		}
		signers = append(signers, s.PubKey.Address())
	}
	return signers, nil
}

// Marshal serializes the transaction using the amino binary encoding.
func (tx *Tx) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(tx)
}

// Unmarshal loads a transaction serialized with Marshal.
func (tx *Tx) Unmarshal(raw []byte) error {
	if err := cdc.UnmarshalBinaryBare(raw, tx); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

// TxDecoder can parse bytes into a Tx
type TxDecoder func(txBytes []byte) (*Tx, error)

// DecodeTx is the TxDecoder used by the application.
func DecodeTx(txBytes []byte) (*Tx, error) {
	var tx Tx
	if err := tx.Unmarshal(txBytes); err != nil {
		return nil, err
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	return &tx, nil
}
