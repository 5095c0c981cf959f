package escrow

import (
	"testing"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/tokenswaptest"
	"github.com/iov-one/tokenswap/tokenswaptest/assert"
)

func TestExchangeInstructionAccounts(t *testing.T) {
	p := ExchangeParams{
		Taker:                tokenswaptest.NewAddress(),
		TakerSending:         tokenswaptest.NewAddress(),
		TakerReceiving:       tokenswaptest.NewAddress(),
		TempToken:            tokenswaptest.NewAddress(),
		Initializer:          tokenswaptest.NewAddress(),
		InitializerReceiving: tokenswaptest.NewAddress(),
		Escrow:               tokenswaptest.NewAddress(),
	}
	ix, err := ExchangeInstruction(ProgramID, p, 7)
	assert.Nil(t, err)
	assert.Equal(t, ProgramID, ix.ProgramID)
	assert.Equal(t, 9, len(ix.Accounts))

	pda, err := DeriveAuthority(ProgramID)
	assert.Nil(t, err)
	assert.Equal(t, tokenswap.Signer(p.Taker, false), ix.Accounts[0])
	assert.Equal(t, tokenswap.Writable(p.Escrow), ix.Accounts[6])
	assert.Equal(t, tokenswap.ReadOnly(tokenswap.TokenProgramID), ix.Accounts[7])
	assert.Equal(t, tokenswap.ReadOnly(pda.Address), ix.Accounts[8])
	for i, meta := range ix.Accounts[1:7] {
		if !meta.IsWritable || meta.IsSigner {
			t.Errorf("account %d: %+v", i+1, meta)
		}
	}
}
