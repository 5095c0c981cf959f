package system

import (
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// Program is the system program.
type Program struct{}

var _ tokenswap.Program = Program{}

// RegisterPrograms registers the system program under its well known id.
func RegisterPrograms(r tokenswap.Registry) {
	r.Register(tokenswap.SystemProgramID, Program{})
}

// Process implements tokenswap.Program.
func (Program) Process(
	ctx tokenswap.Context,
	inv tokenswap.Invoker,
	programID tokenswap.Address,
	accounts []*tokenswap.AccountInfo,
	data []byte,
) error {
	ix, err := Unpack(data)
	if err != nil {
		return err
	}
	switch ix := ix.(type) {
	case *CreateAccount:
		tokenswap.GetLogger(ctx).Debug("create account", "lamports", ix.Lamports, "space", ix.Space, "owner", ix.Owner)
		return createAccount(programID, accounts, ix)
	case *Transfer:
		tokenswap.GetLogger(ctx).Debug("transfer", "lamports", ix.Lamports)
		return transfer(programID, accounts, ix)
	default:
		return errors.Wrapf(errors.ErrInput, "unsupported instruction %T", ix)
	}
}

func createAccount(programID tokenswap.Address, accounts []*tokenswap.AccountInfo, ix *CreateAccount) error {
	if err := tokenswap.ExpectAccounts(accounts, 2); err != nil {
		return err
	}
	funder, created := accounts[0], accounts[1]

	if !funder.IsSigner {
		return errors.Wrap(errors.ErrMissingSignature, "funder")
	}
	if !created.IsSigner {
		return errors.Wrap(errors.ErrMissingSignature, "new account")
	}
	if err := checkDebitable(programID, funder); err != nil {
		return err
	}
	if created.Lamports != 0 || created.DataLen() != 0 || !created.IsOwnedBy(programID) {
		return errors.Wrapf(errors.ErrAccountAlreadyInitialized, "account %s already in use", created.Key)
	}
	if ix.Space > MaxDataLength {
		return errors.Wrapf(errors.ErrInvalidArgument, "space %d exceeds %d", ix.Space, MaxDataLength)
	}

	if err := funder.SubLamports(ix.Lamports); err != nil {
		return err
	}
	if err := created.AddLamports(ix.Lamports); err != nil {
		return err
	}
	created.Data = make([]byte, ix.Space)
	created.Owner = ix.Owner
	return nil
}

func transfer(programID tokenswap.Address, accounts []*tokenswap.AccountInfo, ix *Transfer) error {
	if err := tokenswap.ExpectAccounts(accounts, 2); err != nil {
		return err
	}
	from, to := accounts[0], accounts[1]

	if !from.IsSigner {
		return errors.Wrap(errors.ErrMissingSignature, "from")
	}
	if err := checkDebitable(programID, from); err != nil {
		return err
	}
	if err := from.SubLamports(ix.Lamports); err != nil {
		return err
	}
	return to.AddLamports(ix.Lamports)
}

// checkDebitable ensures the system program can take lamports from the
// account: it must own it and the account must not carry data.
func checkDebitable(programID tokenswap.Address, info *tokenswap.AccountInfo) error {
	if !info.IsOwnedBy(programID) {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "account %s is owned by %s", info.Key, info.Owner)
	}
	if info.DataLen() != 0 {
		return errors.Wrapf(errors.ErrInvalidArgument, "account %s carries data", info.Key)
	}
	return nil
}
