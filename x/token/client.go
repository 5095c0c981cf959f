package token

import (
	"github.com/iov-one/tokenswap"
)

// InitializeMintInstruction returns the instruction initializing a mint.
func InitializeMintInstruction(mint, authority tokenswap.Address, decimals uint8) (tokenswap.Instruction, error) {
	data, err := InitializeMint{Decimals: decimals, MintAuthority: authority}.Pack()
	return tokenswap.Instruction{
		ProgramID: tokenswap.TokenProgramID,
		Accounts: []tokenswap.AccountMeta{
			tokenswap.Writable(mint),
			tokenswap.ReadOnly(tokenswap.SysvarRentAddress),
		},
		Data: data,
	}, err
}

// InitializeAccountInstruction returns the instruction initializing a token
// account of given mint, owned by owner.
func InitializeAccountInstruction(account, mint, owner tokenswap.Address) (tokenswap.Instruction, error) {
	data, err := InitializeAccount{}.Pack()
	return tokenswap.Instruction{
		ProgramID: tokenswap.TokenProgramID,
		Accounts: []tokenswap.AccountMeta{
			tokenswap.Writable(account),
			tokenswap.ReadOnly(mint),
			tokenswap.ReadOnly(owner),
			tokenswap.ReadOnly(tokenswap.SysvarRentAddress),
		},
		Data: data,
	}, err
}

// TransferInstruction returns the instruction moving amount tokens from
// source to dest, authorized by the source owner.
func TransferInstruction(source, dest, owner tokenswap.Address, amount uint64) (tokenswap.Instruction, error) {
	data, err := Transfer{Amount: amount}.Pack()
	return tokenswap.Instruction{
		ProgramID: tokenswap.TokenProgramID,
		Accounts: []tokenswap.AccountMeta{
			tokenswap.Writable(source),
			tokenswap.Writable(dest),
			tokenswap.Signer(owner, false),
		},
		Data: data,
	}, err
}

// SetAuthorityInstruction returns the instruction changing an authority of
// target. A nil newAuthority removes the authority where allowed.
func SetAuthorityInstruction(target, current tokenswap.Address, typ AuthorityType, newAuthority *tokenswap.Address) (tokenswap.Instruction, error) {
	data, err := SetAuthority{Type: typ, NewAuthority: newAuthority}.Pack()
	return tokenswap.Instruction{
		ProgramID: tokenswap.TokenProgramID,
		Accounts: []tokenswap.AccountMeta{
			tokenswap.Writable(target),
			tokenswap.Signer(current, false),
		},
		Data: data,
	}, err
}

// MintToInstruction returns the instruction creating amount tokens into
// dest.
func MintToInstruction(mint, dest, authority tokenswap.Address, amount uint64) (tokenswap.Instruction, error) {
	data, err := MintTo{Amount: amount}.Pack()
	return tokenswap.Instruction{
		ProgramID: tokenswap.TokenProgramID,
		Accounts: []tokenswap.AccountMeta{
			tokenswap.Writable(mint),
			tokenswap.Writable(dest),
			tokenswap.Signer(authority, false),
		},
		Data: data,
	}, err
}

// CloseAccountInstruction returns the instruction closing an empty token
// account and moving its lamports to dest.
func CloseAccountInstruction(account, dest, authority tokenswap.Address) (tokenswap.Instruction, error) {
	data, err := CloseAccount{}.Pack()
	return tokenswap.Instruction{
		ProgramID: tokenswap.TokenProgramID,
		Accounts: []tokenswap.AccountMeta{
			tokenswap.Writable(account),
			tokenswap.Writable(dest),
			tokenswap.Signer(authority, false),
		},
		Data: data,
	}, err
}
