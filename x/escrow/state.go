package escrow

import (
	"bytes"
	"encoding/binary"

	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// EscrowSize is the data length of an escrow account:
// is_initialized(1) initializer(32) temp_token_account(32)
// initializer_receiving(32) expected_amount(8).
const EscrowSize = 1 + 3*tokenswap.AddressLength + 8

// Escrow is the record of a pending swap. It is either uninitialized or
// fully populated and does not change until the exchange destroys it.
type Escrow struct {
	IsInitialized        bool              `json:"is_initialized"`
	Initializer          tokenswap.Address `json:"initializer"`
	TempTokenAccount     tokenswap.Address `json:"temp_token_account"`
	InitializerReceiving tokenswap.Address `json:"initializer_receiving"`
	ExpectedAmount       uint64            `json:"expected_amount"`
}

// Pack serializes the record into its fixed layout.
func (e *Escrow) Pack() ([]byte, error) {
	var buf bytes.Buffer
	enc := bin.NewBinEncoder(&buf)
	if err := enc.WriteBool(e.IsInitialized); err != nil {
		return nil, err
	}
	for _, a := range []tokenswap.Address{e.Initializer, e.TempTokenAccount, e.InitializerReceiving} {
		if err := enc.WriteBytes(a[:], false); err != nil {
			return nil, err
		}
	}
	if err := enc.WriteUint64(e.ExpectedAmount, binary.LittleEndian); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnpackEscrowUnchecked loads a record from its fixed layout, initialized or not.
func UnpackEscrowUnchecked(raw []byte) (*Escrow, error) {
	if len(raw) != EscrowSize {
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "escrow must be %d bytes, got %d", EscrowSize, len(raw))
	}
	dec := bin.NewBinDecoder(raw)
	var e Escrow

	flag, err := dec.ReadUint8()
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	switch flag {
	case 0:
	case 1:
		e.IsInitialized = true
	default:
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "is_initialized %d", flag)
	}
	for _, dst := range []*tokenswap.Address{&e.Initializer, &e.TempTokenAccount, &e.InitializerReceiving} {
		b, err := dec.ReadNBytes(tokenswap.AddressLength)
		if err != nil {
			return nil, errors.Wrap(errors.ErrInvalidAccountData, err.Error())
		}
		copy(dst[:], b)
	}
	if e.ExpectedAmount, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	return &e, nil
}

// UnpackEscrow loads an initialized record from its fixed layout.
func UnpackEscrow(raw []byte) (*Escrow, error) {
	e, err := UnpackEscrowUnchecked(raw)
	if err != nil {
		return nil, err
	}
	if !e.IsInitialized {
		return nil, errors.Wrap(errors.ErrUninitializedAccount, "escrow")
	}
	return e, nil
}
