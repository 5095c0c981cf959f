package escrow

import (
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/x/token"
)

// TokenService is the capability the escrow needs from the token program.
// Every call carries the Authority acting on the source account, either a
// transaction signer or a derived address proof.
type TokenService interface {
	SetAuthority(ctx tokenswap.Context, target *tokenswap.AccountInfo, typ token.AuthorityType, newAuthority tokenswap.Address, current tokenswap.Authority) error
	Transfer(ctx tokenswap.Context, source, dest *tokenswap.AccountInfo, amount uint64, owner tokenswap.Authority) error
	CloseAccount(ctx tokenswap.Context, account, dest *tokenswap.AccountInfo, authority tokenswap.Authority) error
}

// NewTokenService returns a TokenService calling the token program held by
// program through the invoker.
func NewTokenService(inv tokenswap.Invoker, program *tokenswap.AccountInfo) TokenService {
	return &invokedTokens{inv: inv, program: program}
}

type invokedTokens struct {
	inv     tokenswap.Invoker
	program *tokenswap.AccountInfo
}

var _ TokenService = (*invokedTokens)(nil)

func (t *invokedTokens) SetAuthority(
	ctx tokenswap.Context,
	target *tokenswap.AccountInfo,
	typ token.AuthorityType,
	newAuthority tokenswap.Address,
	current tokenswap.Authority,
) error {
	ix, err := token.SetAuthorityInstruction(target.Key, current.Address(), typ, &newAuthority)
	if err != nil {
		return err
	}
	return t.invoke(ctx, ix, current, target)
}

func (t *invokedTokens) Transfer(
	ctx tokenswap.Context,
	source, dest *tokenswap.AccountInfo,
	amount uint64,
	owner tokenswap.Authority,
) error {
	ix, err := token.TransferInstruction(source.Key, dest.Key, owner.Address(), amount)
	if err != nil {
		return err
	}
	return t.invoke(ctx, ix, owner, source, dest)
}

func (t *invokedTokens) CloseAccount(
	ctx tokenswap.Context,
	account, dest *tokenswap.AccountInfo,
	authority tokenswap.Authority,
) error {
	ix, err := token.CloseAccountInstruction(account.Key, dest.Key, authority.Address())
	if err != nil {
		return err
	}
	return t.invoke(ctx, ix, authority, account, dest)
}

func (t *invokedTokens) invoke(
	ctx tokenswap.Context,
	ix tokenswap.Instruction,
	authority tokenswap.Authority,
	accounts ...*tokenswap.AccountInfo,
) error {
	// the configured token program may not be the well known one
	ix.ProgramID = t.program.Key
	accounts = append(accounts, authority.Account, t.program)
	return t.inv.Invoke(ctx, ix, accounts, authority)
}
