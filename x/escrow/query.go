package escrow

import (
	"encoding/json"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// QueryPath is the query path of escrow records.
const QueryPath = "/escrows"

// RegisterQuery registers the escrow query handler. Records are read from
// accounts owned by programID.
func RegisterQuery(qr tokenswap.QueryRouter, accounts tokenswap.AccountStore, programID tokenswap.Address) {
	qr.Register(QueryPath, queryHandler{accounts: accounts, programID: programID})
}

// queryHandler returns the JSON encoded record held by the escrow account
// at given address. Accounts that do not hold an initialized record are not
// found.
type queryHandler struct {
	accounts  tokenswap.AccountStore
	programID tokenswap.Address
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
	if !acct.Owner.Equals(h.programID) {
		return nil, nil
	}
	record, err := UnpackEscrowUnchecked(acct.Data)
	if err != nil || !record.IsInitialized {
		return nil, nil
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return []tokenswap.Model{tokenswap.Pair(data, raw)}, nil
}
