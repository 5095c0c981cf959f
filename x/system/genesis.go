package system

import (
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

const optKey = "accounts"

// GenesisAccount is used to parse the json from genesis file. The address
// can be given in any format tokenswap.ParseAddress understands.
type GenesisAccount struct {
	Address  tokenswap.Address `json:"address"`
	Lamports uint64            `json:"lamports"`
}

// Initializer fulfils the Initializer interface to fund the accounts
// declared in the genesis file.
type Initializer struct {
	accounts tokenswap.AccountStore
}

var _ tokenswap.Initializer = (*Initializer)(nil)

// NewInitializer returns an initializer storing accounts with given store.
func NewInitializer(accounts tokenswap.AccountStore) *Initializer {
	return &Initializer{accounts: accounts}
}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (i *Initializer) FromGenesis(opts tokenswap.Options, kv tokenswap.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	for n, ga := range accts {
		if ga.Address.IsZero() {
			return errors.Wrapf(errors.ErrEmpty, "account %d: address", n)
		}
		acct, err := i.accounts.Load(kv, ga.Address)
		if err != nil {
			return err
		}
		info := &tokenswap.AccountInfo{Key: ga.Address, Account: acct}
		if err := info.AddLamports(ga.Lamports); err != nil {
			return err
		}
		if err := i.accounts.Save(kv, ga.Address, acct); err != nil {
			return errors.Wrapf(err, "account %d", n)
		}
	}
	return nil
}
