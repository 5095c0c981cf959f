package token

import (
	"encoding/json"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// QueryPath is the query path of token accounts and mints.
const QueryPath = "/tokens"

// RegisterQuery exposes the token state held by accounts owned by the
// token program.
func RegisterQuery(qr tokenswap.QueryRouter, accounts tokenswap.AccountStore) {
	qr.Register(QueryPath, queryHandler{accounts: accounts})
}

// TokenState is the query view of a token program account. Exactly one of
// Account and Mint is set.
type TokenState struct {
	Account *Account `json:"account,omitempty"`
	Mint    *Mint    `json:"mint,omitempty"`
}

type queryHandler struct {
	accounts tokenswap.AccountStore
}

func (h queryHandler) Query(db tokenswap.ReadOnlyKVStore, mod string, data []byte) ([]tokenswap.Model, error) {
	if mod != tokenswap.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
	addr, err := tokenswap.NewAddress(data)
	if err != nil {
		return nil, err
	}
	acct, err := h.accounts.Load(db, addr)
	if err != nil {
		return nil, err
	}
	if !acct.Owner.Equals(tokenswap.TokenProgramID) {
		return nil, nil
	}

	var state TokenState
	switch len(acct.Data) {
	case AccountSize:
		a, err := UnpackAccount(acct.Data)
		if err != nil || !a.IsInitialized() {
			return nil, nil
		}
		state.Account = a
	case MintSize:
		m, err := UnpackMint(acct.Data)
		if err != nil || !m.IsInitialized {
			return nil, nil
		}
		state.Mint = m
	default:
		return nil, nil
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return []tokenswap.Model{tokenswap.Pair(data, raw)}, nil
}
