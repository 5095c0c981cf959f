package server

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/tokenswap/errors"
	"github.com/tendermint/tendermint/libs/log"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFile is the name of the node configuration file, kept in the
	// config directory of the home.
	ConfigFile = "app.yaml"

	BackendGoLevelDB = "goleveldb"
	BackendMemDB     = "memdb"
)

// Config is the node configuration. It does not affect the ledger state,
// consensus parameters are kept in the genesis file.
type Config struct {
	// Bind is the address the ABCI server listens on.
	Bind string `yaml:"bind"`
	// Debug includes the stack trace of failures in results.
	Debug    bool     `yaml:"debug"`
	LogLevel string   `yaml:"log_level"`
	DB       DBConfig `yaml:"db"`
}

// DBConfig selects where the application state is kept.
type DBConfig struct {
	Backend string `yaml:"backend"`
	// Dir is relative to the home directory, unless absolute.
	Dir string `yaml:"dir"`
}

// DefaultConfig returns the configuration written by init.
func DefaultConfig() Config {
	return Config{
		Bind:     "tcp://localhost:26658",
		LogLevel: "info",
		DB: DBConfig{
			Backend: BackendGoLevelDB,
			Dir:     "data",
		},
	}
}

// Validate returns an error if the configuration cannot be used.
func (c Config) Validate() error {
	var errs error
	if c.Bind == "" {
		errs = errors.AppendField(errs, "Bind", errors.ErrEmpty)
	}
	if _, err := log.AllowLevel(c.LogLevel); err != nil {
		errs = errors.AppendField(errs, "LogLevel", errors.Wrap(errors.ErrInput, err.Error()))
	}
	switch c.DB.Backend {
	case BackendMemDB:
	case BackendGoLevelDB:
		if c.DB.Dir == "" {
			errs = errors.AppendField(errs, "DB.Dir", errors.ErrEmpty)
		}
	default:
		errs = errors.AppendField(errs, "DB.Backend", errors.Wrapf(errors.ErrInput, "unknown backend %q", c.DB.Backend))
	}
	return errs
}

// DBPath returns the database directory for given home.
func (c Config) DBPath(home string) string {
	if c.DB.Backend == BackendMemDB {
		return ""
	}
	if filepath.IsAbs(c.DB.Dir) {
		return c.DB.Dir
	}
	return filepath.Join(home, c.DB.Dir)
}

// ConfigPath returns the location of the configuration file for given home.
func ConfigPath(home string) string {
	return filepath.Join(home, "config", ConfigFile)
}

// LoadConfig reads the configuration of given home. Values missing from the
// file are taken from DefaultConfig. A missing file is the default
// configuration.
func LoadConfig(home string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := ioutil.ReadFile(ConfigPath(home))
	switch {
	case os.IsNotExist(err):
		return cfg, nil
	case err != nil:
		return cfg, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, ConfigFile)
	}
	return cfg, nil
}

// WriteConfig stores the configuration of given home.
func WriteConfig(home string, cfg Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	path := ConfigPath(home)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "config dir")
	}
	return ioutil.WriteFile(path, raw, 0644)
}

// NewLogger returns the node logger filtered at the configured level.
func NewLogger(cfg Config) (log.Logger, error) {
	opt, err := log.AllowLevel(cfg.LogLevel)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout))
	return log.NewFilter(logger, opt), nil
}
