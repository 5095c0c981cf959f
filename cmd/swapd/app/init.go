package app

import (
	"encoding/json"
	"fmt"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/crypto"
	"github.com/iov-one/tokenswap/x/system"
)

// GenesisLamports is the balance of the account funded by GenInitOptions.
const GenesisLamports = 1000000000000

// GenesisState is the app_state of the genesis file.
type GenesisState struct {
	Conf     map[string]interface{}   `json:"conf"`
	Accounts []system.GenesisAccount `json:"accounts"`
}

// GenInitOptions produces the app_state for a dev network with the default
// rent and one rich account. The account address may be given as the first
// argument. Otherwise a key is generated and printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var addr tokenswap.Address
	if len(args) > 0 {
		a, err := tokenswap.ParseAddress(args[0])
		if err != nil {
			return nil, err
		}
		addr = a
	} else {
		key, keys, err := GenerateKey()
		if err != nil {
			return nil, err
		}
		addr = key.PublicKey().Address()
		fmt.Println(keys)
	}

	state := GenesisState{
		Conf: map[string]interface{}{
			"rent": tokenswap.DefaultRent(),
		},
		Accounts: []system.GenesisAccount{
			{Address: addr, Lamports: GenesisLamports},
		},
	}
	return json.MarshalIndent(state, "", "  ")
}

type output struct {
	Address tokenswap.Address  `json:"address"`
	Bech32  string             `json:"bech32"`
	Pubkey  *crypto.PublicKey  `json:"pub_key"`
	Secret  *crypto.PrivateKey `json:"secret"`
}

// GenerateKey returns a new ed25519 key along with a json representation
// of it, that the client can import.
func GenerateKey() (*crypto.PrivateKey, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	pubKey := privKey.PublicKey()
	addr := pubKey.Address()
	b32, err := addr.Bech32()
	if err != nil {
		return nil, "", err
	}

	out := output{Address: addr, Bech32: b32, Pubkey: pubKey, Secret: privKey}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", err
	}
	return privKey, string(keys), nil
}
