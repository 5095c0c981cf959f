package app

import (
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// accountPrefix is prepended to the address of every stored account.
const accountPrefix = "acct:"

// Accounts is the account bucket. Accounts are stored amino encoded under
// the "acct:<address>" key.
type Accounts struct{}

var _ tokenswap.AccountStore = Accounts{}

// NewAccounts returns the account bucket.
func NewAccounts() Accounts {
	return Accounts{}
}

// storedAccount is the persisted form of an account. The Address array is
// stored as bytes to keep the encoding independent of the Go type.
type storedAccount struct {
	Lamports   uint64
	Owner      []byte
	Data       []byte
	Executable bool
}

// AccountKey returns the database key of the account.
func AccountKey(addr tokenswap.Address) []byte {
	return append([]byte(accountPrefix), addr[:]...)
}

// Load returns the account stored under given address. An account that was
// never written, or was deleted, is empty and owned by the system program.
func (Accounts) Load(db tokenswap.ReadOnlyKVStore, addr tokenswap.Address) (*tokenswap.Account, error) {
	raw, err := db.Get(AccountKey(addr))
	if err != nil {
		return nil, errors.Wrap(err, "load account")
	}
	if raw == nil {
		return &tokenswap.Account{Owner: tokenswap.SystemProgramID}, nil
	}
	return UnmarshalAccount(raw)
}

// Save stores the account. Accounts without lamports are deleted, as
// nothing pays for their storage.
func (Accounts) Save(db tokenswap.KVStore, addr tokenswap.Address, acct *tokenswap.Account) error {
	if acct.Lamports == 0 {
		return db.Delete(AccountKey(addr))
	}
	raw, err := MarshalAccount(acct)
	if err != nil {
		return err
	}
	return db.Set(AccountKey(addr), raw)
}

// MarshalAccount serializes an account using the amino binary encoding.
func MarshalAccount(acct *tokenswap.Account) ([]byte, error) {
	raw, err := cdc.MarshalBinaryBare(storedAccount{
		Lamports:   acct.Lamports,
		Owner:      acct.Owner.Bytes(),
		Data:       acct.Data,
		Executable: acct.Executable,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return raw, nil
}

// UnmarshalAccount loads an account serialized with MarshalAccount.
func UnmarshalAccount(raw []byte) (*tokenswap.Account, error) {
	var s storedAccount
	if err := cdc.UnmarshalBinaryBare(raw, &s); err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	owner, err := tokenswap.NewAddress(s.Owner)
	if err != nil {
		return nil, errors.Wrap(err, "owner")
	}
	return &tokenswap.Account{
		Lamports:   s.Lamports,
		Owner:      owner,
		Data:       s.Data,
		Executable: s.Executable,
	}, nil
}

// AccountsQueryPath is the query path of stored accounts.
const AccountsQueryPath = "/accounts"

// RegisterQuery registers the account query handler.
func RegisterQuery(qr tokenswap.QueryRouter) {
	qr.Register(AccountsQueryPath, accountQueryHandler{})
}

// accountQueryHandler returns amino encoded accounts. Data is an address for
// the key query, or an address prefix for the prefix query. Returned keys
// are addresses.
type accountQueryHandler struct{}

func (accountQueryHandler) Query(db tokenswap.ReadOnlyKVStore, mod string, data []byte) ([]tokenswap.Model, error) {
	var models []tokenswap.Model
	switch mod {
	case tokenswap.KeyQueryMod:
		raw, err := db.Get(append([]byte(accountPrefix), data...))
		if err != nil {
			return nil, err
		}
		if raw != nil {
			models = append(models, tokenswap.Pair(data, raw))
		}
	case tokenswap.PrefixQueryMod:
		found, err := tokenswap.CollectPrefix(db, append([]byte(accountPrefix), data...))
		if err != nil {
			return nil, err
		}
		for _, m := range found {
			models = append(models, tokenswap.Pair(m.Key[len(accountPrefix):], m.Value))
		}
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
	return models, nil
}
