package token

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/app"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/store"
	"github.com/iov-one/tokenswap/tokenswaptest"
	"github.com/stretchr/testify/require"
)

func TestQueryTokens(t *testing.T) {
	db := store.MemStore()
	accounts := app.NewAccounts()
	qr := tokenswap.NewQueryRouter()
	RegisterQuery(qr, accounts)

	authority := tokenswaptest.NewAddress()
	mint := &Mint{MintAuthority: &authority, Supply: 100, Decimals: 2, IsInitialized: true}
	rawMint, err := mint.Pack()
	require.NoError(t, err)

	holder := &Account{
		Mint:   tokenswaptest.NewAddress(),
		Owner:  tokenswaptest.NewAddress(),
		Amount: 60,
		State:  AccountInitialized,
	}
	rawHolder, err := holder.Pack()
	require.NoError(t, err)

	mintAddr, holderAddr := tokenswaptest.NewAddress(), tokenswaptest.NewAddress()
	pending, foreign := tokenswaptest.NewAddress(), tokenswaptest.NewAddress()
	require.NoError(t, accounts.Save(db, mintAddr, &tokenswap.Account{Lamports: 1, Owner: tokenswap.TokenProgramID, Data: rawMint}))
	require.NoError(t, accounts.Save(db, holderAddr, &tokenswap.Account{Lamports: 1, Owner: tokenswap.TokenProgramID, Data: rawHolder}))
	require.NoError(t, accounts.Save(db, pending, &tokenswap.Account{Lamports: 1, Owner: tokenswap.TokenProgramID, Data: make([]byte, AccountSize)}))
	require.NoError(t, accounts.Save(db, foreign, &tokenswap.Account{Lamports: 1, Owner: tokenswap.SystemProgramID, Data: rawHolder}))

	h := qr.Handler(QueryPath)
	require.NotNil(t, h)

	models, err := h.Query(db, tokenswap.KeyQueryMod, mintAddr.Bytes())
	require.NoError(t, err)
	require.Len(t, models, 1)
	var got TokenState
	require.NoError(t, json.Unmarshal(models[0].Value, &got))
	require.Nil(t, got.Account)
	require.Equal(t, mint, got.Mint)

	models, err = h.Query(db, tokenswap.KeyQueryMod, holderAddr.Bytes())
	require.NoError(t, err)
	require.Len(t, models, 1)
	got = TokenState{}
	require.NoError(t, json.Unmarshal(models[0].Value, &got))
	require.Nil(t, got.Mint)
	require.Equal(t, holder, got.Account)

	for _, addr := range []tokenswap.Address{pending, foreign, tokenswaptest.NewAddress()} {
		models, err := h.Query(db, tokenswap.KeyQueryMod, addr.Bytes())
		require.NoError(t, err)
		require.Empty(t, models)
	}

	_, err = h.Query(db, tokenswap.PrefixQueryMod, mintAddr.Bytes())
	require.True(t, errors.ErrInput.Is(err))
}
