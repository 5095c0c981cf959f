package system

import (
	"bytes"
	"encoding/binary"

	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// Instruction tags. The numbering follows the one of the system program of
// Solana, so that clients can share encoders.
const (
	TagCreateAccount uint32 = 0
	TagTransfer      uint32 = 2
)

const (
	createAccountSize = 4 + 8 + 8 + tokenswap.AddressLength
	transferSize      = 4 + 8

	// MaxDataLength is the largest data an account can be created with.
	MaxDataLength = 10 * 1024 * 1024
)

// CreateAccount funds a new account, allocates its data and assigns it to
// its owning program.
type CreateAccount struct {
	Lamports uint64
	Space    uint64
	Owner    tokenswap.Address
}

// Transfer moves lamports between two accounts.
type Transfer struct {
	Lamports uint64
}

// Marshal serializes the instruction data.
func (c CreateAccount) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := bin.NewBinEncoder(&buf)
	if err := enc.WriteUint32(TagCreateAccount, binary.LittleEndian); err != nil {
		return nil, err
	}
	if err := enc.WriteUint64(c.Lamports, binary.LittleEndian); err != nil {
		return nil, err
	}
	if err := enc.WriteUint64(c.Space, binary.LittleEndian); err != nil {
		return nil, err
	}
	if err := enc.WriteBytes(c.Owner[:], false); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Marshal serializes the instruction data.
func (t Transfer) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := bin.NewBinEncoder(&buf)
	if err := enc.WriteUint32(TagTransfer, binary.LittleEndian); err != nil {
		return nil, err
	}
	if err := enc.WriteUint64(t.Lamports, binary.LittleEndian); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unpack decodes instruction data into *CreateAccount or *Transfer.
func Unpack(data []byte) (interface{}, error) {
	if len(data) < 4 {
		return nil, errors.Wrap(errors.ErrInput, "missing instruction tag")
	}
	dec := bin.NewBinDecoder(data)
	tag, err := dec.ReadUint32(binary.LittleEndian)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}

	switch tag {
	case TagCreateAccount:
		if len(data) != createAccountSize {
			return nil, errors.Wrapf(errors.ErrInput, "create account must be %d bytes", createAccountSize)
		}
		var c CreateAccount
		if c.Lamports, err = dec.ReadUint64(binary.LittleEndian); err != nil {
			return nil, errors.Wrap(errors.ErrInput, err.Error())
		}
		if c.Space, err = dec.ReadUint64(binary.LittleEndian); err != nil {
			return nil, errors.Wrap(errors.ErrInput, err.Error())
		}
		owner, err := dec.ReadNBytes(tokenswap.AddressLength)
		if err != nil {
			return nil, errors.Wrap(errors.ErrInput, err.Error())
		}
		copy(c.Owner[:], owner)
		return &c, nil
	case TagTransfer:
		if len(data) != transferSize {
			return nil, errors.Wrapf(errors.ErrInput, "transfer must be %d bytes", transferSize)
		}
		var t Transfer
		if t.Lamports, err = dec.ReadUint64(binary.LittleEndian); err != nil {
			return nil, errors.Wrap(errors.ErrInput, err.Error())
		}
		return &t, nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown instruction %d", tag)
	}
}

// CreateAccountInstruction returns the instruction creating newAccount,
// funded by funder. Both must sign the transaction.
func CreateAccountInstruction(funder, newAccount tokenswap.Address, lamports, space uint64, owner tokenswap.Address) (tokenswap.Instruction, error) {
	data, err := CreateAccount{Lamports: lamports, Space: space, Owner: owner}.Marshal()
	if err != nil {
		return tokenswap.Instruction{}, err
	}
	return tokenswap.Instruction{
		ProgramID: tokenswap.SystemProgramID,
		Accounts: []tokenswap.AccountMeta{
			tokenswap.Signer(funder, true),
			tokenswap.Signer(newAccount, true),
		},
		Data: data,
	}, nil
}

// TransferInstruction returns the instruction moving lamports from one
// account to another. The source must sign the transaction.
func TransferInstruction(from, to tokenswap.Address, lamports uint64) (tokenswap.Instruction, error) {
	data, err := Transfer{Lamports: lamports}.Marshal()
	if err != nil {
		return tokenswap.Instruction{}, err
	}
	return tokenswap.Instruction{
		ProgramID: tokenswap.SystemProgramID,
		Accounts: []tokenswap.AccountMeta{
			tokenswap.Signer(from, true),
			tokenswap.Writable(to),
		},
		Data: data,
	}, nil
}
