package token

import (
	"bytes"
	"encoding/binary"

	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// Instruction tags, numbered as in the SPL token program.
const (
	TagInitializeMint    uint8 = 0
	TagInitializeAccount uint8 = 1
	TagTransfer          uint8 = 3
	TagSetAuthority      uint8 = 6
	TagMintTo            uint8 = 7
	TagCloseAccount      uint8 = 9
)

// AuthorityType selects the authority changed by SetAuthority.
type AuthorityType uint8

const (
	AuthorityMintTokens   AuthorityType = 0
	AuthorityAccountOwner AuthorityType = 2
	AuthorityCloseAccount AuthorityType = 3
)

// InitializeMint initializes a new mint.
type InitializeMint struct {
	Decimals      uint8
	MintAuthority tokenswap.Address
}

// InitializeAccount initializes a new token account.
type InitializeAccount struct{}

// Transfer moves tokens between two accounts of the same mint.
type Transfer struct {
	Amount uint64
}

// SetAuthority changes an authority of a mint or a token account.
type SetAuthority struct {
	Type         AuthorityType
	NewAuthority *tokenswap.Address
}

// MintTo creates new tokens.
type MintTo struct {
	Amount uint64
}

// CloseAccount closes an empty token account, returning its lamports.
type CloseAccount struct{}

// Pack serializes the instruction data.
func (i InitializeMint) Pack() ([]byte, error) {
	return pack(TagInitializeMint, func(enc *bin.Encoder) error {
		if err := enc.WriteUint8(i.Decimals); err != nil {
			return err
		}
		return enc.WriteBytes(i.MintAuthority[:], false)
	})
}

// Pack serializes the instruction data.
func (InitializeAccount) Pack() ([]byte, error) {
	return pack(TagInitializeAccount, nil)
}

// Pack serializes the instruction data.
func (t Transfer) Pack() ([]byte, error) {
	return pack(TagTransfer, func(enc *bin.Encoder) error {
		return enc.WriteUint64(t.Amount, binary.LittleEndian)
	})
}

// Pack serializes the instruction data.
func (s SetAuthority) Pack() ([]byte, error) {
	return pack(TagSetAuthority, func(enc *bin.Encoder) error {
		if err := enc.WriteUint8(uint8(s.Type)); err != nil {
			return err
		}
		return writeOptionalAddress(enc, s.NewAuthority)
	})
}

// Pack serializes the instruction data.
func (m MintTo) Pack() ([]byte, error) {
	return pack(TagMintTo, func(enc *bin.Encoder) error {
		return enc.WriteUint64(m.Amount, binary.LittleEndian)
	})
}

// Pack serializes the instruction data.
func (CloseAccount) Pack() ([]byte, error) {
	return pack(TagCloseAccount, nil)
}

func pack(tag uint8, body func(*bin.Encoder) error) ([]byte, error) {
	var buf bytes.Buffer
	enc := bin.NewBinEncoder(&buf)
	if err := enc.WriteUint8(tag); err != nil {
		return nil, err
	}
	if body != nil {
		if err := body(enc); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// instruction data length by tag, tag included
var instructionSize = map[uint8]int{
	TagInitializeMint:    1 + 1 + tokenswap.AddressLength,
	TagInitializeAccount: 1,
	TagTransfer:          1 + 8,
	TagSetAuthority:      1 + 1 + 1 + tokenswap.AddressLength,
	TagMintTo:            1 + 8,
	TagCloseAccount:      1,
}

// Unpack decodes instruction data into a pointer to one of the instruction
// types of this package.
func Unpack(data []byte) (interface{}, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(ErrInvalidInstruction, "empty data")
	}
	tag := data[0]
	size, ok := instructionSize[tag]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidInstruction, "unknown tag %d", tag)
	}
	if len(data) != size {
		return nil, errors.Wrapf(ErrInvalidInstruction, "tag %d requires %d bytes, got %d", tag, size, len(data))
	}

	dec := bin.NewBinDecoder(data[1:])
	var err error
	switch tag {
	case TagInitializeMint:
		var ix InitializeMint
		if ix.Decimals, err = dec.ReadUint8(); err != nil {
			return nil, errors.Wrap(ErrInvalidInstruction, err.Error())
		}
		if ix.MintAuthority, err = readAddress(dec); err != nil {
			return nil, errors.Wrap(ErrInvalidInstruction, err.Error())
		}
		return &ix, nil
	case TagInitializeAccount:
		return &InitializeAccount{}, nil
	case TagTransfer:
		var ix Transfer
		if ix.Amount, err = dec.ReadUint64(binary.LittleEndian); err != nil {
			return nil, errors.Wrap(ErrInvalidInstruction, err.Error())
		}
		return &ix, nil
	case TagSetAuthority:
		var ix SetAuthority
		t, err := dec.ReadUint8()
		if err != nil {
			return nil, errors.Wrap(ErrInvalidInstruction, err.Error())
		}
		ix.Type = AuthorityType(t)
		if ix.NewAuthority, err = readOptionalAddress(dec); err != nil {
			return nil, errors.Wrap(ErrInvalidInstruction, err.Error())
		}
		return &ix, nil
	case TagMintTo:
		var ix MintTo
		if ix.Amount, err = dec.ReadUint64(binary.LittleEndian); err != nil {
			return nil, errors.Wrap(ErrInvalidInstruction, err.Error())
		}
		return &ix, nil
	default:
		return &CloseAccount{}, nil
	}
}
