package app

import (
	"fmt"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// Router allows us to register many programs under their ids and then
// dispatch each instruction to the proper program.
type Router struct {
	programs map[tokenswap.Address]tokenswap.Program
}

var _ tokenswap.Registry = (*Router)(nil)

// NewRouter returns a new router instance with no programs.
func NewRouter() *Router {
	return &Router{
		programs: make(map[tokenswap.Address]tokenswap.Program),
	}
}

// Register adds a program under given id. It panics if another program was
// already registered under the same id.
func (r *Router) Register(id tokenswap.Address, p tokenswap.Program) {
	if _, ok := r.programs[id]; ok {
		panic(fmt.Sprintf("re-registering program: %s", id))
	}
	r.programs[id] = p
}

// Program returns the program registered under given id. An unknown id
// results in a program that always fails with ErrIncorrectProgramID.
func (r *Router) Program(id tokenswap.Address) tokenswap.Program {
	if p, ok := r.programs[id]; ok {
		return p
	}
	return noSuchProgram{id: id}
}

// IsProgram returns true if a program is registered under given id.
func (r *Router) IsProgram(id tokenswap.Address) bool {
	_, ok := r.programs[id]
	return ok
}

type noSuchProgram struct {
	id tokenswap.Address
}

func (p noSuchProgram) Process(tokenswap.Context, tokenswap.Invoker, tokenswap.Address, []*tokenswap.AccountInfo, []byte) error {
	return errors.Wrapf(errors.ErrIncorrectProgramID, "no program %s", p.id)
}
