package tokenswap

import (
	"github.com/gagliardetto/solana-go"
	"github.com/iov-one/tokenswap/errors"
)

// DerivedAddress is an address computed from seeds and a program id. It has
// no private key. Only the program it was derived for can act on its behalf,
// by presenting the seed material through an Authority.
type DerivedAddress struct {
	Address Address
	Bump    uint8
	Program Address
	seeds   [][]byte
}

// FindProgramAddress derives the first valid address for given seeds and
// program, searching bump seeds from 255 down. The result is deterministic.
func FindProgramAddress(program Address, seeds ...[]byte) (DerivedAddress, error) {
	pk, bump, err := solana.FindProgramAddress(seeds, program.PublicKey())
	if err != nil {
		return DerivedAddress{}, errors.Wrapf(errors.ErrInput, "derive address: %s", err)
	}
	cp := make([][]byte, len(seeds))
	for i, s := range seeds {
		cp[i] = append([]byte(nil), s...)
	}
	return DerivedAddress{
		Address: Address(pk),
		Bump:    bump,
		Program: program,
		seeds:   cp,
	}, nil
}

// CreateProgramAddress computes the address for the exact seed material,
// bump included. It fails if the seeds produce a point on the ed25519 curve.
func CreateProgramAddress(program Address, seeds ...[]byte) (Address, error) {
	pk, err := solana.CreateProgramAddress(seeds, program.PublicKey())
	if err != nil {
		return Address{}, errors.Wrapf(errors.ErrInput, "create address: %s", err)
	}
	return Address(pk), nil
}

// SignerSeeds returns the seed material, bump included, that re-derives the
// address.
func (d DerivedAddress) SignerSeeds() [][]byte {
	seeds := make([][]byte, 0, len(d.seeds)+1)
	for _, s := range d.seeds {
		seeds = append(seeds, append([]byte(nil), s...))
	}
	return append(seeds, []byte{d.Bump})
}

// Authority returns the capability proof for acting as this address. The
// account view must be the one of the derived address.
func (d DerivedAddress) Authority(info *AccountInfo) (Authority, error) {
	if !info.Key.Equals(d.Address) {
		return Authority{}, errors.Wrapf(errors.ErrInvalidAccountData,
			"account %s is not the derived address %s", info.Key, d.Address)
	}
	return Authority{Account: info, seeds: d.SignerSeeds()}, nil
}

// Authority is the right to act on behalf of an account. It is either backed
// by a transaction signature or, for derived addresses, by seed material that
// the runtime re-derives under the calling program id.
type Authority struct {
	Account *AccountInfo
	seeds   [][]byte
}

// SignerAuthority returns an authority backed by the account signature.
func SignerAuthority(info *AccountInfo) Authority {
	return Authority{Account: info}
}

// Address returns the address of the authority account.
func (a Authority) Address() Address {
	return a.Account.Key
}

// IsDerived returns true if this authority is a derivation proof.
func (a Authority) IsDerived() bool {
	return a.seeds != nil
}

// SignerSeeds returns the seed material of a derived authority, or nil.
func (a Authority) SignerSeeds() [][]byte {
	return a.seeds
}
