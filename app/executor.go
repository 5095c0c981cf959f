package app

import (
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/gconf"
	"github.com/iov-one/tokenswap/store"
)

// MaxCallDepth is the deepest allowed nesting of program invocations, the
// top level instruction included.
const MaxCallDepth = 4

// RentConfigPackage is the gconf package name of the rent parameters.
const RentConfigPackage = "rent"

// Executor runs transactions. Every transaction is executed on a cache
// wrap of the given store that is written only if all instructions succeed.
type Executor struct {
	router   *Router
	accounts tokenswap.AccountStore
}

// NewExecutor returns an executor dispatching instructions with given router
// and loading state with given account store.
func NewExecutor(router *Router, accounts tokenswap.AccountStore) *Executor {
	return &Executor{
		router:   router,
		accounts: accounts,
	}
}

// Execute verifies all transaction signatures against the chain id found in
// the context and runs its instructions.
func (e *Executor) Execute(ctx tokenswap.Context, db tokenswap.CacheableKVStore, tx *Tx) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	signers, err := tx.Signers(tokenswap.GetChainID(ctx))
	if err != nil {
		return err
	}
	return e.Process(ctx, db, signers, tx.Instructions)
}

// Process runs instructions on behalf of already authenticated signers. All
// instructions succeed and their changes are written, or none is.
func (e *Executor) Process(
	ctx tokenswap.Context,
	db tokenswap.CacheableKVStore,
	signers []tokenswap.Address,
	instructions []tokenswap.Instruction,
) error {
	cache := db.CacheWrap()
	rec := store.NewRecordingStore(cache)
	if err := e.process(ctx, rec, signers, instructions); err != nil {
		cache.Discard()
		return err
	}
	tokenswap.GetLogger(ctx).Debug("state changed", "keys", len(rec.(store.Recorder).KVPairs()))
	return cache.Write()
}

func (e *Executor) process(
	ctx tokenswap.Context,
	db tokenswap.KVStore,
	signers []tokenswap.Address,
	instructions []tokenswap.Instruction,
) (err error) {
	defer errors.Recover(&err)

	ts := newTxState(e, db, signers)
	for i, ix := range instructions {
		if err := ts.run(ctx, ix); err != nil {
			return errors.Wrapf(err, "instruction %d", i)
		}
	}
	return ts.persist()
}

// LoadRent returns the rent parameters stored in the configuration. Default
// parameters are used if none were configured.
func LoadRent(db tokenswap.ReadOnlyKVStore) (*tokenswap.Rent, error) {
	var r tokenswap.Rent
	switch err := gconf.Load(db, RentConfigPackage, &r); {
	case err == nil:
		return &r, nil
	case errors.ErrNotFound.Is(err):
		return tokenswap.DefaultRent(), nil
	default:
		return nil, errors.Wrap(err, "load rent")
	}
}

// txState holds the accounts of one transaction. Every address is loaded
// once and all views of it share the same Account instance.
type txState struct {
	exec    *Executor
	db      tokenswap.KVStore
	signers map[tokenswap.Address]bool

	loaded   map[tokenswap.Address]*tokenswap.Account
	original map[tokenswap.Address]*tokenswap.Account
	virtual  map[tokenswap.Address]bool
	// load order, to persist deterministically
	order []tokenswap.Address
}

func newTxState(e *Executor, db tokenswap.KVStore, signers []tokenswap.Address) *txState {
	ts := &txState{
		exec:     e,
		db:       db,
		signers:  make(map[tokenswap.Address]bool, len(signers)),
		loaded:   make(map[tokenswap.Address]*tokenswap.Account),
		original: make(map[tokenswap.Address]*tokenswap.Account),
		virtual:  make(map[tokenswap.Address]bool),
	}
	for _, s := range signers {
		ts.signers[s] = true
	}
	return ts
}

// load returns the shared account instance. Program ids and the rent sysvar
// are materialized and never stored.
func (ts *txState) load(addr tokenswap.Address) (*tokenswap.Account, error) {
	if acct, ok := ts.loaded[addr]; ok {
		return acct, nil
	}

	var acct *tokenswap.Account
	switch {
	case ts.exec.router.IsProgram(addr):
		acct = &tokenswap.Account{
			Lamports:   1,
			Owner:      tokenswap.NativeLoaderID,
			Executable: true,
		}
		ts.virtual[addr] = true
	case addr.Equals(tokenswap.SysvarRentAddress):
		rent, err := LoadRent(ts.db)
		if err != nil {
			return nil, err
		}
		data, err := rent.Marshal()
		if err != nil {
			return nil, err
		}
		acct = &tokenswap.Account{
			Lamports: 1,
			Owner:    tokenswap.SysvarProgramID,
			Data:     data,
		}
		ts.virtual[addr] = true
	default:
		var err error
		if acct, err = ts.exec.accounts.Load(ts.db, addr); err != nil {
			return nil, err
		}
	}

	ts.loaded[addr] = acct
	ts.original[addr] = acct.Clone()
	ts.order = append(ts.order, addr)
	return acct, nil
}

// run executes a top level instruction.
func (ts *txState) run(ctx tokenswap.Context, ix tokenswap.Instruction) error {
	infos := make([]*tokenswap.AccountInfo, len(ix.Accounts))
	for i, meta := range ix.Accounts {
		acct, err := ts.load(meta.Address)
		if err != nil {
			return err
		}
		if meta.IsSigner && !ts.signers[meta.Address] {
			return errors.Wrapf(errors.ErrMissingSignature, "account %s", meta.Address)
		}
		if meta.IsWritable && ts.virtual[meta.Address] {
			return errors.Wrapf(errors.ErrInvalidArgument, "account %s is read only", meta.Address)
		}
		infos[i] = &tokenswap.AccountInfo{
			Key:        meta.Address,
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
			Account:    acct,
		}
	}
	return ts.call(ctx, 1, ix.ProgramID, infos, ix.Data)
}

// call runs a program within a new invocation frame and verifies the
// changes it made.
func (ts *txState) call(
	ctx tokenswap.Context,
	depth int,
	programID tokenswap.Address,
	infos []*tokenswap.AccountInfo,
	data []byte,
) error {
	f := newFrame(programID, infos)
	inv := &invoker{state: ts, frame: f, depth: depth}

	ctx = tokenswap.WithLogInfo(ctx, "program", programID.String(), "depth", depth)
	tokenswap.GetLogger(ctx).Debug("invoke", "accounts", len(infos))

	if err := ts.exec.router.Program(programID).Process(ctx, inv, programID, infos, data); err != nil {
		return err
	}
	return f.verify()
}

// persist writes all modified accounts. Accounts left without lamports are
// deleted.
func (ts *txState) persist() error {
	for _, addr := range ts.order {
		if ts.virtual[addr] {
			continue
		}
		acct := ts.loaded[addr]
		if accountsEqual(ts.original[addr], acct) {
			continue
		}
		if err := ts.exec.accounts.Save(ts.db, addr, acct); err != nil {
			return errors.Wrapf(err, "save %s", addr)
		}
	}
	return nil
}
