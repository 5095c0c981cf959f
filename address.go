package tokenswap

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/tokenswap/crypto/bech32"
	"github.com/iov-one/tokenswap/errors"
)

const (
	// AddressLength is the length of all addresses. Addresses are ed25519
	// public keys or program derived addresses.
	AddressLength = 32

	// Bech32Prefix is the human readable part used when an address is
	// rendered in bech32 format.
	Bech32Prefix = "swap"
)

var (
	// SystemProgramID owns all accounts that have not been assigned to a
	// program yet.
	SystemProgramID = MustParseAddress("11111111111111111111111111111111")

	// TokenProgramID is the identity of the token transfer service.
	TokenProgramID = MustParseAddress("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

	// SysvarRentAddress is the address of the read only account holding
	// the rent parameters.
	SysvarRentAddress = MustParseAddress("SysvarRent111111111111111111111111111111111")

	// SysvarProgramID owns all sysvar accounts.
	SysvarProgramID = MustParseAddress("Sysvar1111111111111111111111111111111111111")

	// NativeLoaderID owns all executable program accounts.
	NativeLoaderID = MustParseAddress("NativeLoader1111111111111111111111111111111")
)

// Address identifies an account on the ledger.
type Address [AddressLength]byte

// NewAddress copies given bytes into an address. It fails if the length is
// not exactly AddressLength.
func NewAddress(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLength {
		return a, errors.Wrapf(errors.ErrInput, "address must be %d bytes, got %d", AddressLength, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// ParseAddress decodes a human readable address. Base58 is the default
// format. A "hex:", "bech32:" or "b58:" prefix selects the format explicitly.
func ParseAddress(enc string) (Address, error) {
	chunks := strings.SplitN(enc, ":", 2)
	format := "b58"
	if len(chunks) == 2 {
		format, enc = chunks[0], chunks[1]
	}
	if len(enc) == 0 {
		return Address{}, errors.Wrap(errors.ErrEmpty, "address")
	}

	switch format {
	case "b58":
		pk, err := solana.PublicKeyFromBase58(enc)
		if err != nil {
			return Address{}, errors.Wrapf(errors.ErrInput, "base58: %s", err)
		}
		return Address(pk), nil
	case "hex":
		raw, err := hex.DecodeString(enc)
		if err != nil {
			return Address{}, errors.Wrapf(errors.ErrInput, "hex: %s", err)
		}
		return NewAddress(raw)
	case "bech32":
		hrp, raw, err := bech32.Decode(enc)
		if err != nil {
			return Address{}, err
		}
		if hrp != Bech32Prefix {
			return Address{}, errors.Wrapf(errors.ErrInput, "bech32 prefix %q", hrp)
		}
		return NewAddress(raw)
	default:
		return Address{}, errors.Wrapf(errors.ErrType, "unknown format %q", format)
	}
}

// MustParseAddress is like ParseAddress but panics on error. Use it only for
// constants.
func MustParseAddress(enc string) Address {
	a, err := ParseAddress(enc)
	if err != nil {
		panic(err)
	}
	return a
}

// PublicKey returns the address as a solana public key.
func (a Address) PublicKey() solana.PublicKey {
	return solana.PublicKey(a)
}

// Bytes returns a copy of the raw address.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressLength)
	copy(b, a[:])
	return b
}

// Equals checks if two addresses are the same.
func (a Address) Equals(b Address) bool {
	return bytes.Equal(a[:], b[:])
}

// IsZero returns true for the all zero address. Note that the zero address
// is also the system program id.
func (a Address) IsZero() bool {
	return a == Address{}
}

// String returns the base58 representation.
func (a Address) String() string {
	return a.PublicKey().String()
}

// Bech32 returns the bech32 representation with the Bech32Prefix.
func (a Address) Bech32() (string, error) {
	raw, err := bech32.Encode(Bech32Prefix, a[:])
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// MarshalJSON provides a base58 representation for JSON.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts any format understood by ParseAddress.
func (a *Address) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	addr, err := ParseAddress(enc)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
