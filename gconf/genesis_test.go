package gconf

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/store"
	"github.com/iov-one/tokenswap/tokenswaptest/assert"
)

func TestGenesisInitializer(t *testing.T) {
	newConf := map[string]func() Configuration{
		"mypkg": func() Configuration { return &myConfig{} },
	}

	cases := map[string]struct {
		Genesis string
		WantErr *errors.Error
		Want    *myConfig
	}{
		"configuration is loaded": {
			Genesis: `{"conf": {"mypkg": {"number": 321, "text": "hello"}}}`,
			Want:    &myConfig{Number: 321, Text: "hello"},
		},
		"missing package configuration": {
			Genesis: `{"conf": {"otherpkg": {}}}`,
			WantErr: errors.ErrNotFound,
		},
		"invalid configuration is rejected": {
			Genesis: `{"conf": {"mypkg": {"number": -4}}}`,
			WantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts tokenswap.Options
			if err := json.Unmarshal([]byte(tc.Genesis), &opts); err != nil {
				t.Fatalf("cannot unmarshal genesis: %s", err)
			}

			db := store.MemStore()
			err := NewInitializer(newConf).FromGenesis(opts, db)
			if !tc.WantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.WantErr != nil {
				return
			}

			var got myConfig
			assert.Nil(t, Load(db, "mypkg", &got))
			assert.Equal(t, tc.Want, &got)
		})
	}
}
