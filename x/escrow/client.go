package escrow

import (
	"github.com/iov-one/tokenswap"
)

// InitEscrowInstruction returns the instruction offering the content of temp
// against amount tokens paid into receiving.
func InitEscrowInstruction(
	programID, initializer, temp, receiving, escrow tokenswap.Address,
	amount uint64,
) (tokenswap.Instruction, error) {
	data, err := InitEscrow{Amount: amount}.Pack()
	return tokenswap.Instruction{
		ProgramID: programID,
		Accounts: []tokenswap.AccountMeta{
			tokenswap.Signer(initializer, false),
			tokenswap.Writable(temp),
			tokenswap.ReadOnly(receiving),
			tokenswap.Writable(escrow),
			tokenswap.ReadOnly(tokenswap.SysvarRentAddress),
			tokenswap.ReadOnly(tokenswap.TokenProgramID),
		},
		Data: data,
	}, err
}

// ExchangeParams lists the accounts taking part in an exchange.
type ExchangeParams struct {
	Taker                tokenswap.Address
	TakerSending         tokenswap.Address
	TakerReceiving       tokenswap.Address
	TempToken            tokenswap.Address
	Initializer          tokenswap.Address
	InitializerReceiving tokenswap.Address
	Escrow               tokenswap.Address
}

// ExchangeInstruction returns the instruction accepting the escrow offer.
// Amount is what the taker expects to receive.
func ExchangeInstruction(programID tokenswap.Address, p ExchangeParams, amount uint64) (tokenswap.Instruction, error) {
	pda, err := DeriveAuthority(programID)
	if err != nil {
		return tokenswap.Instruction{}, err
	}
	data, err := Exchange{Amount: amount}.Pack()
	return tokenswap.Instruction{
		ProgramID: programID,
		Accounts: []tokenswap.AccountMeta{
			tokenswap.Signer(p.Taker, false),
			tokenswap.Writable(p.TakerSending),
			tokenswap.Writable(p.TakerReceiving),
			tokenswap.Writable(p.TempToken),
			tokenswap.Writable(p.Initializer),
			tokenswap.Writable(p.InitializerReceiving),
			tokenswap.Writable(p.Escrow),
			tokenswap.ReadOnly(tokenswap.TokenProgramID),
			tokenswap.ReadOnly(pda.Address),
		},
		Data: data,
	}, err
}
