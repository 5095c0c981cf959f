package app

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/app"
	"github.com/iov-one/tokenswap/store"
	"github.com/iov-one/tokenswap/tokenswaptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenInitOptions(t *testing.T) {
	addr := tokenswaptest.NewAddress()
	raw, err := GenInitOptions([]string{addr.String()})
	require.NoError(t, err)

	var opts tokenswap.Options
	require.NoError(t, json.Unmarshal(raw, &opts))

	db := store.MemStore()
	accounts := app.NewAccounts()
	require.NoError(t, Initializers(accounts).FromGenesis(opts, db))

	acct, err := accounts.Load(db, addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(GenesisLamports), acct.Lamports)

	rent, err := app.LoadRent(db)
	require.NoError(t, err)
	assert.Equal(t, tokenswap.DefaultRent(), rent)

	_, err = GenInitOptions([]string{"not-an-address"})
	assert.Error(t, err)
}

func TestGenerateKey(t *testing.T) {
	key, out, err := GenerateKey()
	require.NoError(t, err)

	var keys struct {
		Address tokenswap.Address `json:"address"`
		Bech32  string            `json:"bech32"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &keys))
	assert.Equal(t, key.PublicKey().Address(), keys.Address)

	parsed, err := tokenswap.ParseAddress("bech32:" + keys.Bech32)
	require.NoError(t, err)
	assert.Equal(t, keys.Address, parsed)
}
