package escrow

import (
	"bytes"
	"encoding/binary"

	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/tokenswap/errors"
)

const (
	TagInitEscrow uint8 = 0
	TagExchange   uint8 = 1

	// instructionSize is the length of every instruction: a tag byte and
	// a little endian u64 amount.
	instructionSize = 1 + 8
)

// InitEscrow records an offer of the content of a temporary token account
// against Amount tokens.
type InitEscrow struct {
	Amount uint64
}

// Exchange accepts an offer. Amount is what the taker expects to receive.
type Exchange struct {
	Amount uint64
}

// Pack serializes the instruction data.
func (i InitEscrow) Pack() ([]byte, error) {
	return pack(TagInitEscrow, i.Amount)
}

// Pack serializes the instruction data.
func (e Exchange) Pack() ([]byte, error) {
	return pack(TagExchange, e.Amount)
}

func pack(tag uint8, amount uint64) ([]byte, error) {
	var buf bytes.Buffer
	enc := bin.NewBinEncoder(&buf)
	if err := enc.WriteUint8(tag); err != nil {
		return nil, err
	}
	if err := enc.WriteUint64(amount, binary.LittleEndian); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnpackInstruction decodes instruction data into *InitEscrow or *Exchange.
// The data must be exactly a tag and an amount, trailing bytes are rejected.
func UnpackInstruction(data []byte) (interface{}, error) {
	if len(data) != instructionSize {
		return nil, errors.Wrapf(ErrInvalidInstruction, "want %d bytes, got %d", instructionSize, len(data))
	}
	dec := bin.NewBinDecoder(data)
	tag, err := dec.ReadUint8()
	if err != nil {
		return nil, errors.Wrap(ErrInvalidInstruction, err.Error())
	}
	amount, err := dec.ReadUint64(binary.LittleEndian)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidInstruction, err.Error())
	}

	switch tag {
	case TagInitEscrow:
		return &InitEscrow{Amount: amount}, nil
	case TagExchange:
		return &Exchange{Amount: amount}, nil
	default:
		return nil, errors.Wrapf(ErrInvalidInstruction, "unknown tag %d", tag)
	}
}
