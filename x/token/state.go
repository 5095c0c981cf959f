package token

import (
	"bytes"
	"encoding/binary"

	bin "github.com/gagliardetto/binary"
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

const (
	// AccountSize is the data length of a token account:
	// mint(32) owner(32) amount(8) state(1) close_authority(1+32).
	AccountSize = 106

	// MintSize is the data length of a mint:
	// mint_authority(1+32) supply(8) decimals(1) is_initialized(1).
	MintSize = 43
)

// AccountState is the life cycle state of a token account.
type AccountState uint8

const (
	AccountUninitialized AccountState = 0
	AccountInitialized   AccountState = 1
)

// Account holds a token balance of a single mint.
type Account struct {
	Mint   tokenswap.Address `json:"mint"`
	Owner  tokenswap.Address `json:"owner"`
	Amount uint64            `json:"amount"`
	State  AccountState      `json:"state"`
	// CloseAuthority, when set, may close the account instead of the
	// owner.
	CloseAuthority *tokenswap.Address `json:"close_authority,omitempty"`
}

// IsInitialized returns true once the account was initialized.
func (a *Account) IsInitialized() bool {
	return a.State != AccountUninitialized
}

// Pack serializes the account into its fixed layout.
func (a *Account) Pack() ([]byte, error) {
	var buf bytes.Buffer
	enc := bin.NewBinEncoder(&buf)
	if err := enc.WriteBytes(a.Mint[:], false); err != nil {
		return nil, err
	}
	if err := enc.WriteBytes(a.Owner[:], false); err != nil {
		return nil, err
	}
	if err := enc.WriteUint64(a.Amount, binary.LittleEndian); err != nil {
		return nil, err
	}
	if err := enc.WriteUint8(uint8(a.State)); err != nil {
		return nil, err
	}
	if err := writeOptionalAddress(enc, a.CloseAuthority); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnpackAccount loads a token account from its fixed layout.
func UnpackAccount(raw []byte) (*Account, error) {
	if len(raw) != AccountSize {
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "token account must be %d bytes, got %d", AccountSize, len(raw))
	}
	dec := bin.NewBinDecoder(raw)
	var a Account
	var err error
	if a.Mint, err = readAddress(dec); err != nil {
		return nil, err
	}
	if a.Owner, err = readAddress(dec); err != nil {
		return nil, err
	}
	if a.Amount, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	state, err := dec.ReadUint8()
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	if state > uint8(AccountInitialized) {
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "account state %d", state)
	}
	a.State = AccountState(state)
	if a.CloseAuthority, err = readOptionalAddress(dec); err != nil {
		return nil, err
	}
	return &a, nil
}

// Mint describes a token.
type Mint struct {
	// MintAuthority may create new tokens. A mint without authority has a
	// fixed supply.
	MintAuthority *tokenswap.Address `json:"mint_authority,omitempty"`
	Supply        uint64             `json:"supply"`
	Decimals      uint8              `json:"decimals"`
	IsInitialized bool               `json:"is_initialized"`
}

// Pack serializes the mint into its fixed layout.
func (m *Mint) Pack() ([]byte, error) {
	var buf bytes.Buffer
	enc := bin.NewBinEncoder(&buf)
	if err := writeOptionalAddress(enc, m.MintAuthority); err != nil {
		return nil, err
	}
	if err := enc.WriteUint64(m.Supply, binary.LittleEndian); err != nil {
		return nil, err
	}
	if err := enc.WriteUint8(m.Decimals); err != nil {
		return nil, err
	}
	if err := enc.WriteBool(m.IsInitialized); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnpackMint loads a mint from its fixed layout.
func UnpackMint(raw []byte) (*Mint, error) {
	if len(raw) != MintSize {
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "mint must be %d bytes, got %d", MintSize, len(raw))
	}
	dec := bin.NewBinDecoder(raw)
	var m Mint
	var err error
	if m.MintAuthority, err = readOptionalAddress(dec); err != nil {
		return nil, err
	}
	if m.Supply, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	if m.Decimals, err = dec.ReadUint8(); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	initialized, err := dec.ReadUint8()
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	switch initialized {
	case 0:
	case 1:
		m.IsInitialized = true
	default:
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "is_initialized %d", initialized)
	}
	return &m, nil
}

func readAddress(dec *bin.Decoder) (tokenswap.Address, error) {
	raw, err := dec.ReadNBytes(tokenswap.AddressLength)
	if err != nil {
		return tokenswap.Address{}, errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	return tokenswap.NewAddress(raw)
}

// Optional addresses are a 1 byte presence flag followed by 32 bytes, zero
// when absent.
func writeOptionalAddress(enc *bin.Encoder, a *tokenswap.Address) error {
	var flag uint8
	var raw tokenswap.Address
	if a != nil {
		flag, raw = 1, *a
	}
	if err := enc.WriteUint8(flag); err != nil {
		return err
	}
	return enc.WriteBytes(raw[:], false)
}

func readOptionalAddress(dec *bin.Decoder) (*tokenswap.Address, error) {
	flag, err := dec.ReadUint8()
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	a, err := readAddress(dec)
	if err != nil {
		return nil, err
	}
	switch flag {
	case 0:
		return nil, nil
	case 1:
		return &a, nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "option flag %d", flag)
	}
}
