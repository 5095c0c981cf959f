package tokenswaptest

import "github.com/iov-one/tokenswap"

// Program is a mock implementing tokenswap.Program. Fn, when set, is called
// on every invocation and its result returned. Otherwise Err is returned.
type Program struct {
	calls int
	Err   error
	Fn    func(ctx tokenswap.Context, inv tokenswap.Invoker, accounts []*tokenswap.AccountInfo, data []byte) error
}

var _ tokenswap.Program = (*Program)(nil)

func (p *Program) Process(
	ctx tokenswap.Context,
	inv tokenswap.Invoker,
	programID tokenswap.Address,
	accounts []*tokenswap.AccountInfo,
	data []byte,
) error {
	p.calls++
	if p.Fn != nil {
		return p.Fn(ctx, inv, accounts, data)
	}
	return p.Err
}

func (p *Program) CallCount() int {
	return p.calls
}
