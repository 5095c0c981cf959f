package app

import (
	"bytes"
	"sort"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/store"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// AccountTag is the key of the tag added to a delivered transaction result
// for every account it wrote.
const AccountTag = "account"

// BaseApp adds DeliverTx and CheckTx handlers to the storage and query
// functionality of StoreApp
type BaseApp struct {
	*StoreApp
	decoder TxDecoder
	exec    *Executor
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp constructs a basic abci application
func NewBaseApp(
	store *StoreApp,
	decoder TxDecoder,
	exec *Executor,
	debug bool,
) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		exec:     exec,
		debug:    debug,
	}
}

// DeliverTx - ABCI - runs all instructions of the transaction
func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return tokenswap.DeliverTxError(err, b.debug)
	}

	ctx := tokenswap.WithLogInfo(b.BlockContext(), "call", "deliver_tx")
	db, rec := store.NewCacheableRecordingStore(b.DeliverStore())
	if err := b.exec.Execute(ctx, db, tx); err != nil {
		tokenswap.GetLogger(ctx).Debug("transaction failed", "err", err)
		return tokenswap.DeliverTxError(err, b.debug)
	}
	res := tokenswap.DeliverResult{Tags: accountTags(rec.KVPairs())}
	return tokenswap.DeliverOrError(&res, nil, b.debug)
}

// CheckTx - ABCI - runs all instructions of the transaction against the
// check state
func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return tokenswap.CheckTxError(err, b.debug)
	}

	ctx := tokenswap.WithLogInfo(b.BlockContext(), "call", "check_tx")
	err = b.exec.Execute(ctx, b.CheckStore(), tx)
	return tokenswap.CheckOrError(&tokenswap.CheckResult{}, err, b.debug)
}

// loadTx calls the decoder, and capture any panics
func (b BaseApp) loadTx(txBytes []byte) (tx *Tx, err error) {
	defer errors.Recover(&err)
	tx, err = b.decoder(txBytes)
	return
}

// accountTags returns a tag for every account key found in given changes,
// sorted by address.
func accountTags(changes map[string][]byte) []common.KVPair {
	var tags []common.KVPair
	for key := range changes {
		if !bytes.HasPrefix([]byte(key), []byte(accountPrefix)) {
			continue
		}
		addr, err := tokenswap.NewAddress([]byte(key[len(accountPrefix):]))
		if err != nil {
			continue
		}
		tags = append(tags, common.KVPair{
			Key:   []byte(AccountTag),
			Value: []byte(addr.String()),
		})
	}
	sort.Slice(tags, func(i, j int) bool {
		return bytes.Compare(tags[i].Value, tags[j].Value) < 0
	})
	return tags
}
