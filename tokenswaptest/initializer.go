package tokenswaptest

import "github.com/iov-one/tokenswap"

// Initializer is a mock implementing tokenswap.Initializer. Every call is
// counted and Err is returned.
type Initializer struct {
	calls int
	Err   error
}

var _ tokenswap.Initializer = (*Initializer)(nil)

func (i *Initializer) FromGenesis(tokenswap.Options, tokenswap.KVStore) error {
	i.calls++
	return i.Err
}

func (i *Initializer) CallCount() int {
	return i.calls
}
