package server

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/tokenswap/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempHome(t *testing.T) string {
	t.Helper()
	home, err := ioutil.TempDir("", "swapd")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(home) })
	return home
}

func TestConfigValidate(t *testing.T) {
	cases := map[string]struct {
		mod     func(*Config)
		wantErr *errors.Error
	}{
		"default": {
			mod: func(*Config) {},
		},
		"memdb needs no dir": {
			mod: func(c *Config) {
				c.DB = DBConfig{Backend: BackendMemDB}
			},
		},
		"missing bind": {
			mod:     func(c *Config) { c.Bind = "" },
			wantErr: errors.ErrEmpty,
		},
		"unknown level": {
			mod:     func(c *Config) { c.LogLevel = "loud" },
			wantErr: errors.ErrInput,
		},
		"unknown backend": {
			mod:     func(c *Config) { c.DB.Backend = "rocksdb" },
			wantErr: errors.ErrInput,
		},
		"leveldb without dir": {
			mod:     func(c *Config) { c.DB.Dir = "" },
			wantErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mod(&cfg)
			if err := cfg.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	home := tempHome(t)

	// nothing written yet
	cfg, err := LoadConfig(home)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg.Debug = true
	cfg.DB.Dir = "/var/lib/swapd"
	require.NoError(t, WriteConfig(home, cfg))
	got, err := LoadConfig(home)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
	assert.Equal(t, "/var/lib/swapd", got.DBPath(home))

	// partial files keep the defaults
	require.NoError(t, ioutil.WriteFile(ConfigPath(home), []byte("log_level: debug\n"), 0644))
	got, err = LoadConfig(home)
	require.NoError(t, err)
	assert.Equal(t, "debug", got.LogLevel)
	assert.Equal(t, DefaultConfig().Bind, got.Bind)
	assert.Equal(t, filepath.Join(home, "data"), got.DBPath(home))

	require.NoError(t, ioutil.WriteFile(ConfigPath(home), []byte("db:\n  backend: nope\n"), 0644))
	_, err = LoadConfig(home)
	assert.True(t, errors.ErrInput.Is(err))

	require.NoError(t, ioutil.WriteFile(ConfigPath(home), []byte("bind: [\n"), 0644))
	_, err = LoadConfig(home)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestNewLogger(t *testing.T) {
	_, err := NewLogger(DefaultConfig())
	assert.NoError(t, err)

	cfg := DefaultConfig()
	cfg.LogLevel = "chatty"
	_, err = NewLogger(cfg)
	assert.True(t, errors.ErrInput.Is(err))
}
