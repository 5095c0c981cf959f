package app

import (
	"context"
	"testing"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/store/iavl"
	"github.com/stretchr/testify/assert"
)

const memoKey = "memo"

type memoInit struct{}

func (memoInit) FromGenesis(opts tokenswap.Options, kv tokenswap.KVStore) error {
	var value string
	if err := opts.ReadOptions(memoKey, &value); err != nil {
		return err
	}
	return kv.Set([]byte(memoKey), []byte(value))
}

type countInit struct {
	called int
}

func (c *countInit) FromGenesis(opts tokenswap.Options, kv tokenswap.KVStore) error {
	c.called++
	return nil
}

func TestParseGenesis(t *testing.T) {
	cases := map[string]struct {
		file         string
		parseError   bool
		initErr      bool
		expectChain  string
		expectCalled int
		expectValue  []byte
	}{
		"no such file": {
			file:       "bad_file.json",
			parseError: true,
			initErr:    true,
		},
		"proper parse": {
			file:         "testdata/genesis.json",
			expectChain:  "swap-chain-67",
			expectCalled: 1,
			expectValue:  []byte("secret"),
		},
		"bad init": {
			file:        "testdata/bad_genesis.json",
			initErr:     true,
			expectChain: "swap-chain-bad",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			gen, err := loadGenesis(tc.file)
			if tc.parseError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.expectChain, gen.ChainID)

			// this calls the whole stack
			c := new(countInit)
			init := tokenswap.MultiInitializer{memoInit{}, c}
			store := NewStoreApp("foo", iavl.NewMemCommitStore(), tokenswap.NewQueryRouter(), context.Background())
			assert.Equal(t, "", store.GetChainID())

			err = store.LoadGenesis(tc.file, init)
			if tc.initErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.expectCalled, c.called)
			if tc.parseError {
				return
			}
			// the chain id is stored before the initializers run
			assert.Equal(t, tc.expectChain, store.GetChainID())
			val, err := store.DeliverStore().Get([]byte(memoKey))
			assert.NoError(t, err)
			assert.Equal(t, tc.expectValue, val)
		})
	}
}

func TestChainIDIsSetOnce(t *testing.T) {
	store := NewStoreApp("foo", iavl.NewMemCommitStore(), tokenswap.NewQueryRouter(), context.Background())
	assert.NoError(t, store.LoadGenesis("testdata/genesis.json", nil))
	assert.Error(t, store.LoadGenesis("testdata/genesis.json", nil))
	assert.Equal(t, "swap-chain-67", store.GetChainID())
	assert.Equal(t, "swap-chain-67", tokenswap.GetChainID(store.BaseContext()))
}
