package server

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/tokenswap/errors"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisPath returns the location of the genesis file for given home.
func GenesisPath(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// InitCmd writes the default node configuration, unless present, and sets
// the app_state of the genesis file. A genesis file is created when home
// does not hold one yet.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	if _, err := os.Stat(ConfigPath(home)); os.IsNotExist(err) {
		if err := WriteConfig(home, DefaultConfig()); err != nil {
			return err
		}
		logger.Info("Generated node configuration", "path", ConfigPath(home))
	} else {
		logger.Info("Found node configuration", "path", ConfigPath(home))
	}

	options, err := gen(args)
	if err != nil {
		return errors.Wrap(err, "app state")
	}

	genFile := GenesisPath(home)
	if _, err := os.Stat(genFile); os.IsNotExist(err) {
		chainID := fmt.Sprintf("swap-chain-%s", cmn.RandStr(6))
		if err := writeGenesis(genFile, GenesisDoc{"chain_id": mustJSON(chainID)}); err != nil {
			return err
		}
		logger.Info("Generated genesis file", "path", genFile, "chain_id", chainID)
	}
	return addGenesisOptions(genFile, options)
}

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, options json.RawMessage) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrap(err, "read genesis")
	}

	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	doc["app_state"] = options
	return writeGenesis(filename, doc)
}

func writeGenesis(filename string, doc GenesisDoc) error {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal genesis")
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return errors.Wrap(err, "genesis dir")
	}
	return ioutil.WriteFile(filename, out, 0600)
}

func mustJSON(v interface{}) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}
