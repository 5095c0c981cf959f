package app_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/app"
	swapd "github.com/iov-one/tokenswap/cmd/swapd/app"
	"github.com/iov-one/tokenswap/crypto"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/store/iavl"
	"github.com/iov-one/tokenswap/tokenswaptest"
	"github.com/iov-one/tokenswap/tokenswaptest/assert"
	"github.com/iov-one/tokenswap/x/escrow"
	"github.com/iov-one/tokenswap/x/system"
	"github.com/iov-one/tokenswap/x/token"
	abci "github.com/tendermint/tendermint/abci/types"
)

const chainID = "swap-chain-test"

type node struct {
	t      *testing.T
	app    app.BaseApp
	height int64
	payer  crypto.Signer
}

func newNode(t *testing.T) *node {
	return newNodeOn(t, iavl.NewMemCommitStore())
}

func newNodeOn(t *testing.T, kv tokenswap.CommitKVStore) *node {
	payer := tokenswaptest.NewKey()
	state, err := json.Marshal(swapd.GenesisState{
		Conf: map[string]interface{}{"rent": tokenswap.DefaultRent()},
		Accounts: []system.GenesisAccount{
			{Address: payer.PublicKey().Address(), Lamports: swapd.GenesisLamports},
		},
	})
	assert.Nil(t, err)

	n := &node{
		t:      t,
		app:    swapd.Application(swapd.Name, kv, true),
		height: 1,
		payer:  payer,
	}
	n.app.InitChain(abci.RequestInitChain{ChainId: chainID, AppStateBytes: state})
	n.app.Commit()
	return n
}

// deliver runs the instructions as one transaction in a new block.
func (n *node) deliver(signers []crypto.Signer, ixs ...tokenswap.Instruction) abci.ResponseDeliverTx {
	n.t.Helper()
	tx := app.Tx{Instructions: ixs}
	assert.Nil(n.t, tx.Sign(chainID, append(signers, n.payer)...))
	raw, err := tx.Marshal()
	assert.Nil(n.t, err)

	n.height++
	n.app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{
		Height: n.height,
		Time:   time.Unix(1600000000+n.height, 0).UTC(),
	}})
	res := n.app.DeliverTx(raw)
	n.app.EndBlock(abci.RequestEndBlock{})
	n.app.Commit()
	return res
}

func (n *node) mustDeliver(signers []crypto.Signer, ixs ...tokenswap.Instruction) {
	n.t.Helper()
	if res := n.deliver(signers, ixs...); res.Code != 0 {
		n.t.Fatalf("code %d: %s", res.Code, res.Log)
	}
}

func (n *node) query(path string, addr tokenswap.Address) []tokenswap.Model {
	n.t.Helper()
	res := n.app.Query(abci.RequestQuery{Path: path, Data: addr[:]})
	if res.Code != 0 {
		n.t.Fatalf("query %s: %s", path, res.Log)
	}
	var keys, values app.ResultSet
	assert.Nil(n.t, keys.Unmarshal(res.Key))
	assert.Nil(n.t, values.Unmarshal(res.Value))
	models, err := app.JoinResults(&keys, &values)
	assert.Nil(n.t, err)
	return models
}

func (n *node) tokenBalance(addr tokenswap.Address) uint64 {
	n.t.Helper()
	models := n.query(app.AccountsQueryPath, addr)
	assert.Equal(n.t, 1, len(models))
	acct, err := app.UnmarshalAccount(models[0].Value)
	assert.Nil(n.t, err)
	ta, err := token.UnpackAccount(acct.Data)
	assert.Nil(n.t, err)
	return ta.Amount
}

func (n *node) create(key crypto.Signer, space int, owner tokenswap.Address) tokenswap.Instruction {
	n.t.Helper()
	lamports := tokenswap.DefaultRent().MinimumBalance(space)
	ix, err := system.CreateAccountInstruction(n.payer.PublicKey().Address(), key.PublicKey().Address(), lamports, uint64(space), owner)
	assert.Nil(n.t, err)
	return ix
}

func must(t *testing.T) func(tokenswap.Instruction, error) tokenswap.Instruction {
	return func(ix tokenswap.Instruction, err error) tokenswap.Instruction {
		t.Helper()
		assert.Nil(t, err)
		return ix
	}
}

func TestEscrowOverABCI(t *testing.T) {
	n := newNode(t)

	minter := tokenswaptest.NewKey()
	alice, bob := tokenswaptest.NewKey(), tokenswaptest.NewKey()
	mintX, mintY := tokenswaptest.NewKey(), tokenswaptest.NewKey()
	temp, aliceY := tokenswaptest.NewKey(), tokenswaptest.NewKey()
	bobX, bobY := tokenswaptest.NewKey(), tokenswaptest.NewKey()
	escrowKey := tokenswaptest.NewKey()
	addr := func(k crypto.Signer) tokenswap.Address { return k.PublicKey().Address() }

	n.mustDeliver([]crypto.Signer{mintX, mintY},
		n.create(mintX, token.MintSize, tokenswap.TokenProgramID),
		must(t)(token.InitializeMintInstruction(addr(mintX), addr(minter), 2)),
		n.create(mintY, token.MintSize, tokenswap.TokenProgramID),
		must(t)(token.InitializeMintInstruction(addr(mintY), addr(minter), 2)),
	)

	accounts := []struct {
		key         crypto.Signer
		mint, owner tokenswap.Address
	}{
		{temp, addr(mintX), addr(alice)},
		{aliceY, addr(mintY), addr(alice)},
		{bobX, addr(mintX), addr(bob)},
		{bobY, addr(mintY), addr(bob)},
	}
	for _, a := range accounts {
		n.mustDeliver([]crypto.Signer{a.key},
			n.create(a.key, token.AccountSize, tokenswap.TokenProgramID),
			must(t)(token.InitializeAccountInstruction(addr(a.key), a.mint, a.owner)),
		)
	}

	n.mustDeliver([]crypto.Signer{minter},
		must(t)(token.MintToInstruction(addr(mintX), addr(temp), addr(minter), 10)),
		must(t)(token.MintToInstruction(addr(mintY), addr(bobY), addr(minter), 20)),
	)

	// the escrow account is created in the same transaction
	n.mustDeliver([]crypto.Signer{escrowKey, alice},
		n.create(escrowKey, escrow.EscrowSize, escrow.ProgramID),
		must(t)(escrow.InitEscrowInstruction(escrow.ProgramID, addr(alice), addr(temp), addr(aliceY), addr(escrowKey), 20)),
	)

	models := n.query(escrow.QueryPath, addr(escrowKey))
	assert.Equal(t, 1, len(models))
	var record escrow.Escrow
	assert.Nil(t, json.Unmarshal(models[0].Value, &record))
	assert.Equal(t, escrow.Escrow{
		IsInitialized:        true,
		Initializer:          addr(alice),
		TempTokenAccount:     addr(temp),
		InitializerReceiving: addr(aliceY),
		ExpectedAmount:       20,
	}, record)

	params := escrow.ExchangeParams{
		Taker:                addr(bob),
		TakerSending:         addr(bobY),
		TakerReceiving:       addr(bobX),
		TempToken:            addr(temp),
		Initializer:          addr(alice),
		InitializerReceiving: addr(aliceY),
		Escrow:               addr(escrowKey),
	}

	// a failed exchange changes nothing
	res := n.deliver([]crypto.Signer{bob}, must(t)(escrow.ExchangeInstruction(escrow.ProgramID, params, 11)))
	assert.Equal(t, escrow.ErrExpectedAmountMismatch.ABCICode(), res.Code)
	assert.Equal(t, uint64(10), n.tokenBalance(addr(temp)))
	assert.Equal(t, uint64(20), n.tokenBalance(addr(bobY)))

	res = n.deliver([]crypto.Signer{bob}, must(t)(escrow.ExchangeInstruction(escrow.ProgramID, params, 10)))
	assert.Equal(t, uint32(0), res.Code)
	if len(res.Tags) == 0 {
		t.Fatal("no account tags")
	}

	assert.Equal(t, uint64(10), n.tokenBalance(addr(bobX)))
	assert.Equal(t, uint64(20), n.tokenBalance(addr(aliceY)))
	assert.Equal(t, uint64(0), n.tokenBalance(addr(bobY)))
	assert.Equal(t, 0, len(n.query(escrow.QueryPath, addr(escrowKey))))
	assert.Equal(t, 0, len(n.query(app.AccountsQueryPath, addr(temp))))

	models = n.query(app.AccountsQueryPath, addr(alice))
	assert.Equal(t, 1, len(models))
	acct, err := app.UnmarshalAccount(models[0].Value)
	assert.Nil(t, err)
	rent := tokenswap.DefaultRent()
	assert.Equal(t, rent.MinimumBalance(token.AccountSize)+rent.MinimumBalance(escrow.EscrowSize), acct.Lamports)
}

func TestUnknownProgram(t *testing.T) {
	n := newNode(t)
	res := n.deliver(nil, tokenswap.Instruction{ProgramID: tokenswaptest.NewAddress()})
	assert.Equal(t, errors.ErrIncorrectProgramID.ABCICode(), res.Code)
}

func TestTokensOnDisk(t *testing.T) {
	kv, cleanup := tokenswaptest.CommitKVStore(t)
	defer cleanup()
	n := newNodeOn(t, kv)

	minter, mint, holder := tokenswaptest.NewKey(), tokenswaptest.NewKey(), tokenswaptest.NewKey()
	addr := func(k crypto.Signer) tokenswap.Address { return k.PublicKey().Address() }

	n.mustDeliver([]crypto.Signer{mint, holder, minter},
		n.create(mint, token.MintSize, tokenswap.TokenProgramID),
		must(t)(token.InitializeMintInstruction(addr(mint), addr(minter), 6)),
		n.create(holder, token.AccountSize, tokenswap.TokenProgramID),
		must(t)(token.InitializeAccountInstruction(addr(holder), addr(mint), addr(minter))),
		must(t)(token.MintToInstruction(addr(mint), addr(holder), addr(minter), 500)),
	)

	models := n.query(token.QueryPath, addr(mint))
	assert.Equal(t, 1, len(models))
	var state token.TokenState
	assert.Nil(t, json.Unmarshal(models[0].Value, &state))
	if state.Mint == nil {
		t.Fatal("mint not found")
	}
	assert.Equal(t, uint64(500), state.Mint.Supply)
	assert.Equal(t, uint8(6), state.Mint.Decimals)

	models = n.query(token.QueryPath, addr(holder))
	assert.Equal(t, 1, len(models))
	state = token.TokenState{}
	assert.Nil(t, json.Unmarshal(models[0].Value, &state))
	if state.Account == nil {
		t.Fatal("token account not found")
	}
	assert.Equal(t, uint64(500), state.Account.Amount)
	assert.Equal(t, addr(mint), state.Account.Mint)

	assert.Equal(t, 0, len(n.query(token.QueryPath, n.payer.PublicKey().Address())))
}
