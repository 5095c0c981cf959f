package tokenswap

import (
	"github.com/iov-one/tokenswap/errors"
)

// Account is the state the ledger keeps for every address.
type Account struct {
	// Lamports is the native balance. It pays for the storage of Data.
	Lamports uint64
	// Owner is the program that may modify Data and debit Lamports.
	Owner Address
	// Data is opaque to the runtime and interpreted by the owner.
	Data []byte
	// Executable is set for program accounts.
	Executable bool
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	c := *a
	if a.Data != nil {
		c.Data = make([]byte, len(a.Data))
		copy(c.Data, a.Data)
	}
	return &c
}

// AccountInfo is the view of an account that a program receives for the
// duration of one instruction. The embedded Account is shared by all views
// of the same address within a transaction, so changes made by a called
// program are visible to the caller.
type AccountInfo struct {
	Key        Address
	IsSigner   bool
	IsWritable bool
	*Account
}

// DataLen returns the length of the account data.
func (i *AccountInfo) DataLen() int {
	return len(i.Data)
}

// IsOwnedBy returns true if given program owns the account.
func (i *AccountInfo) IsOwnedBy(program Address) bool {
	return i.Owner.Equals(program)
}

// AddLamports credits the account. It fails on overflow.
func (i *AccountInfo) AddLamports(amount uint64) error {
	sum := i.Lamports + amount
	if sum < i.Lamports {
		return errors.Wrapf(errors.ErrOverflow, "lamports of %s", i.Key)
	}
	i.Lamports = sum
	return nil
}

// SubLamports debits the account. It fails when the balance is too low.
func (i *AccountInfo) SubLamports(amount uint64) error {
	if i.Lamports < amount {
		return errors.Wrapf(errors.ErrInsufficientFunds, "lamports of %s: %d < %d", i.Key, i.Lamports, amount)
	}
	i.Lamports -= amount
	return nil
}

// ExpectAccounts ensures the account list has exactly n entries.
func ExpectAccounts(accounts []*AccountInfo, n int) error {
	switch {
	case len(accounts) < n:
		return errors.Wrapf(errors.ErrNotEnoughAccountKeys, "want %d accounts, got %d", n, len(accounts))
	case len(accounts) > n:
		return errors.Wrapf(errors.ErrInvalidArgument, "want %d accounts, got %d", n, len(accounts))
	}
	return nil
}

// AccountStore persists accounts. Load never returns nil: an address that
// was never written is an empty account owned by the system program.
type AccountStore interface {
	Load(db ReadOnlyKVStore, addr Address) (*Account, error)
	Save(db KVStore, addr Address, acct *Account) error
}
