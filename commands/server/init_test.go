package server

import (
	"encoding/json"
	"io/ioutil"
	"testing"

	"github.com/iov-one/tokenswap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func fixedOptions(args []string) (json.RawMessage, error) {
	return json.RawMessage(`{"accounts": []}`), nil
}

func TestInit(t *testing.T) {
	home := tempHome(t)
	require.NoError(t, InitCmd(fixedOptions, log.NewNopLogger(), home, nil))

	cfg, err := LoadConfig(home)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	bz, err := ioutil.ReadFile(GenesisPath(home))
	require.NoError(t, err)
	var genesis struct {
		ChainID string            `json:"chain_id"`
		State   tokenswap.Options `json:"app_state"`
	}
	require.NoError(t, json.Unmarshal(bz, &genesis))
	assert.True(t, tokenswap.IsValidChainID(genesis.ChainID), genesis.ChainID)
	assert.JSONEq(t, `[]`, string(genesis.State["accounts"]))
}

func TestInitKeepsExistingGenesis(t *testing.T) {
	home := tempHome(t)
	require.NoError(t, writeGenesis(GenesisPath(home), GenesisDoc{
		"chain_id":   json.RawMessage(`"test-chain-42"`),
		"validators": json.RawMessage(`[]`),
		"app_state":  json.RawMessage(`{"old": true}`),
	}))

	cfg := DefaultConfig()
	cfg.Debug = true
	require.NoError(t, WriteConfig(home, cfg))

	require.NoError(t, InitCmd(fixedOptions, log.NewNopLogger(), home, nil))

	got, err := LoadConfig(home)
	require.NoError(t, err)
	assert.True(t, got.Debug)

	bz, err := ioutil.ReadFile(GenesisPath(home))
	require.NoError(t, err)
	var doc GenesisDoc
	require.NoError(t, json.Unmarshal(bz, &doc))
	assert.JSONEq(t, `"test-chain-42"`, string(doc["chain_id"]))
	assert.JSONEq(t, `[]`, string(doc["validators"]))
	assert.JSONEq(t, `{"accounts": []}`, string(doc["app_state"]))
}
