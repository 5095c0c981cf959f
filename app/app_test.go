package app

import (
	"context"
	"testing"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/store/iavl"
	"github.com/iov-one/tokenswap/tokenswaptest"
	"github.com/iov-one/tokenswap/tokenswaptest/assert"
	abci "github.com/tendermint/tendermint/abci/types"
)

// payProgram moves the amount given as the single data byte from the first
// account to the second one. It owns the first account.
func payProgram() *tokenswaptest.Program {
	return &tokenswaptest.Program{
		Fn: func(_ tokenswap.Context, _ tokenswap.Invoker, accounts []*tokenswap.AccountInfo, data []byte) error {
			if err := tokenswap.ExpectAccounts(accounts, 2); err != nil {
				return err
			}
			if !accounts[0].IsSigner {
				return errors.ErrMissingSignature
			}
			if err := accounts[0].SubLamports(uint64(data[0])); err != nil {
				return err
			}
			return accounts[1].AddLamports(uint64(data[0]))
		},
	}
}

func TestBaseApp(t *testing.T) {
	const chainID = "test-chain-1"
	payID := tokenswaptest.NewAddress()
	key := tokenswaptest.NewKey()
	payer := key.PublicKey().Address()
	payee := tokenswaptest.NewAddress()

	router := NewRouter()
	router.Register(payID, payProgram())
	qr := tokenswap.NewQueryRouter()
	qr.RegisterAll(RegisterQuery)

	store := NewStoreApp("pay", iavl.NewMemCommitStore(), qr, context.Background())
	app := NewBaseApp(store, DecodeTx, NewExecutor(router, NewAccounts()), false)
	app.InitChain(abci.RequestInitChain{ChainId: chainID, AppStateBytes: []byte(`{}`)})
	assert.Nil(t, NewAccounts().Save(app.DeliverStore(), payer, &tokenswap.Account{Lamports: 100, Owner: payID}))
	app.Commit()

	pay := func(amount byte, signers ...tokenswaptest.Signer) []byte {
		tx := Tx{
			Instructions: []tokenswap.Instruction{{
				ProgramID: payID,
				Accounts:  []tokenswap.AccountMeta{tokenswap.Signer(payer, true), tokenswap.Writable(payee)},
				Data:      []byte{amount},
			}},
		}
		for _, s := range signers {
			assert.Nil(t, tx.Sign(chainID, s))
		}
		raw, err := tx.Marshal()
		assert.Nil(t, err)
		return raw
	}

	app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 2}})

	// garbage is rejected
	cres := app.CheckTx([]byte("garbage"))
	assert.Equal(t, true, cres.IsErr())

	// missing signature
	cres = app.CheckTx(pay(10))
	assert.Equal(t, errors.ErrMissingSignature.ABCICode(), cres.Code)

	cres = app.CheckTx(pay(10, key))
	assert.Equal(t, uint32(0), cres.Code)

	dres := app.DeliverTx(pay(60, key))
	assert.Equal(t, uint32(0), dres.Code)
	assert.Equal(t, 2, len(dres.Tags))
	for _, tag := range dres.Tags {
		assert.Equal(t, AccountTag, string(tag.Key))
	}

	// not enough lamports left, and the failed transaction has no effect
	dres = app.DeliverTx(pay(60, key))
	assert.Equal(t, errors.ErrInsufficientFunds.ABCICode(), dres.Code)

	app.Commit()

	res := app.Query(abci.RequestQuery{Path: AccountsQueryPath, Data: payee[:]})
	models := decodeQuery(t, res)
	assert.Equal(t, 1, len(models))
	acct, err := UnmarshalAccount(models[0].Value)
	assert.Nil(t, err)
	assert.Equal(t, uint64(60), acct.Lamports)

	res = app.Query(abci.RequestQuery{Path: AccountsQueryPath, Data: payer[:]})
	models = decodeQuery(t, res)
	acct, err = UnmarshalAccount(models[0].Value)
	assert.Nil(t, err)
	assert.Equal(t, uint64(40), acct.Lamports)
}
