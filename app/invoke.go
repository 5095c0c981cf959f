package app

import (
	"bytes"
	"math/bits"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// frame is a single program invocation. It records the state of all its
// accounts before the program runs, so that the changes can be verified
// once it returns.
type frame struct {
	program  tokenswap.Address
	accounts []*frameAccount
}

type frameAccount struct {
	key      tokenswap.Address
	signer   bool
	writable bool
	acct     *tokenswap.Account
	before   *tokenswap.Account
}

func newFrame(program tokenswap.Address, infos []*tokenswap.AccountInfo) *frame {
	f := &frame{program: program}
	for _, info := range infos {
		if fa := f.find(info.Key); fa != nil {
			fa.signer = fa.signer || info.IsSigner
			fa.writable = fa.writable || info.IsWritable
			continue
		}
		f.accounts = append(f.accounts, &frameAccount{
			key:      info.Key,
			signer:   info.IsSigner,
			writable: info.IsWritable,
			acct:     info.Account,
		})
	}
	f.snapshot()
	return f
}

func (f *frame) find(key tokenswap.Address) *frameAccount {
	for _, fa := range f.accounts {
		if fa.key == key {
			return fa
		}
	}
	return nil
}

// snapshot records the current state as the reference for verify.
func (f *frame) snapshot() {
	for _, fa := range f.accounts {
		fa.before = fa.acct.Clone()
	}
}

// verify ensures that all changes since the last snapshot are allowed for
// the frame program.
func (f *frame) verify() error {
	var beforeHi, beforeLo, afterHi, afterLo uint64
	for _, fa := range f.accounts {
		before, after := fa.before, fa.acct
		ownedByProgram := before.Owner.Equals(f.program)

		if !fa.writable && !accountsEqual(before, after) {
			return errors.Wrapf(errors.ErrReadonlyModified, "account %s", fa.key)
		}
		if before.Executable != after.Executable {
			return errors.Wrapf(errors.ErrExternalAccountModified, "executable flag of %s", fa.key)
		}
		if !before.Owner.Equals(after.Owner) && (!ownedByProgram || !isZeroed(after.Data)) {
			return errors.Wrapf(errors.ErrExternalAccountModified, "owner of %s", fa.key)
		}
		if !ownedByProgram && !bytes.Equal(before.Data, after.Data) {
			return errors.Wrapf(errors.ErrExternalAccountModified, "data of %s", fa.key)
		}
		if !ownedByProgram && after.Lamports < before.Lamports {
			return errors.Wrapf(errors.ErrExternalAccountModified, "lamports of %s debited", fa.key)
		}

		beforeHi, beforeLo = add128(beforeHi, beforeLo, before.Lamports)
		afterHi, afterLo = add128(afterHi, afterLo, after.Lamports)
	}
	if beforeHi != afterHi || beforeLo != afterLo {
		return errors.Wrap(errors.ErrUnbalancedInstruction, f.program.String())
	}
	return nil
}

func add128(hi, lo, v uint64) (uint64, uint64) {
	lo, carry := bits.Add64(lo, v, 0)
	return hi + carry, lo
}

// invoker is the Invoker given to a program running in a frame.
type invoker struct {
	state *txState
	frame *frame
	depth int
}

var _ tokenswap.Invoker = (*invoker)(nil)

// Invoke calls another program. Accounts are passed with the privileges of
// the calling frame: a writable account must be writable in the caller and
// a signer must be a signer of the caller or be derived from the caller
// program id by one of the authorities.
func (inv *invoker) Invoke(
	ctx tokenswap.Context,
	ix tokenswap.Instruction,
	accounts []*tokenswap.AccountInfo,
	authorities ...tokenswap.Authority,
) error {
	if inv.depth >= MaxCallDepth {
		return errors.Wrapf(errors.ErrCallDepth, "max %d", MaxCallDepth)
	}
	if _, err := inv.passed(accounts, ix.ProgramID); err != nil {
		return errors.Wrap(err, "program account")
	}

	infos := make([]*tokenswap.AccountInfo, len(ix.Accounts))
	for i, meta := range ix.Accounts {
		fa, err := inv.passed(accounts, meta.Address)
		if err != nil {
			return err
		}
		if meta.IsWritable && !fa.writable {
			return errors.Wrapf(errors.ErrPrivilegeEscalation, "account %s is not writable", meta.Address)
		}
		if meta.IsSigner && !fa.signer && !inv.derivedSigner(meta.Address, authorities) {
			return errors.Wrapf(errors.ErrPrivilegeEscalation, "account %s did not sign", meta.Address)
		}
		infos[i] = &tokenswap.AccountInfo{
			Key:        meta.Address,
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
			Account:    fa.acct,
		}
	}

	// caller changes made so far must be valid before the callee sees them
	if err := inv.frame.verify(); err != nil {
		return err
	}
	if err := inv.state.call(ctx, inv.depth+1, ix.ProgramID, infos, ix.Data); err != nil {
		return err
	}
	// callee changes were verified by its own frame
	inv.frame.snapshot()
	return nil
}

// passed returns the frame account of given address, if it is among the
// passed account views. Views that were not given to the calling frame are
// rejected.
func (inv *invoker) passed(accounts []*tokenswap.AccountInfo, addr tokenswap.Address) (*frameAccount, error) {
	fa := inv.frame.find(addr)
	if fa == nil {
		return nil, errors.Wrapf(errors.ErrNotEnoughAccountKeys, "account %s is not available", addr)
	}
	for _, info := range accounts {
		if info.Key == addr {
			if info.Account != fa.acct {
				return nil, errors.Wrapf(errors.ErrInvalidArgument, "account %s is not the one given to the program", addr)
			}
			return fa, nil
		}
	}
	return nil, errors.Wrapf(errors.ErrNotEnoughAccountKeys, "account %s was not passed", addr)
}

// derivedSigner returns true if one of the authorities proves that the
// address is derived from the calling program id.
func (inv *invoker) derivedSigner(addr tokenswap.Address, authorities []tokenswap.Authority) bool {
	for _, a := range authorities {
		if !a.IsDerived() || !a.Address().Equals(addr) {
			continue
		}
		derived, err := tokenswap.CreateProgramAddress(inv.frame.program, a.SignerSeeds()...)
		if err == nil && derived.Equals(addr) {
			return true
		}
	}
	return false
}

func accountsEqual(a, b *tokenswap.Account) bool {
	return a.Lamports == b.Lamports &&
		a.Owner.Equals(b.Owner) &&
		a.Executable == b.Executable &&
		bytes.Equal(a.Data, b.Data)
}

func isZeroed(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}
