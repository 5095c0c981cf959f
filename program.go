package tokenswap

import (
	"encoding/json"
)

// AccountMeta describes how an instruction uses an account.
type AccountMeta struct {
	Address    Address `json:"address"`
	IsSigner   bool    `json:"is_signer"`
	IsWritable bool    `json:"is_writable"`
}

// ReadOnly returns a meta for an account that is only read.
func ReadOnly(a Address) AccountMeta {
	return AccountMeta{Address: a}
}

// Writable returns a meta for an account that the instruction may modify.
func Writable(a Address) AccountMeta {
	return AccountMeta{Address: a, IsWritable: true}
}

// Signer returns a meta for an account that must authorize the instruction.
func Signer(a Address, writable bool) AccountMeta {
	return AccountMeta{Address: a, IsSigner: true, IsWritable: writable}
}

// Instruction is a single call of a program.
type Instruction struct {
	ProgramID Address       `json:"program_id"`
	Accounts  []AccountMeta `json:"accounts"`
	Data      []byte        `json:"data"`
}

// Program is the code executed for all instructions addressed to a program
// id. A program is given the accounts listed by the instruction, in order,
// and must not keep references to them once Process returns.
type Program interface {
	Process(ctx Context, inv Invoker, programID Address, accounts []*AccountInfo, data []byte) error
}

// Invoker lets a program call another program. All accounts referenced by
// the instruction must be taken from given accounts. An account can be
// marked as a signer of the called instruction only if it is a signer of the
// calling instruction or if one of the authorities proves that the calling
// program derived it.
type Invoker interface {
	Invoke(ctx Context, ix Instruction, accounts []*AccountInfo, authorities ...Authority) error
}

// Registry is an interface to register your programs,
// the setup side of a Router
type Registry interface {
	Register(id Address, p Program)
}

// Options are the app options
// Each extension can look up it's key and parse the json as desired
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	return json.Unmarshal(msg, obj)
}

// Initializer implementations are used to initialize
// extensions from genesis file contents
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// MultiInitializer calls all given initializers in order.
type MultiInitializer []Initializer

var _ Initializer = MultiInitializer(nil)

// FromGenesis implements Initializer.
func (m MultiInitializer) FromGenesis(opts Options, kv KVStore) error {
	for _, i := range m {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
