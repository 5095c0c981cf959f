package escrow

import (
	"github.com/iov-one/tokenswap"
)

// initAccounts are the accounts of an InitEscrow instruction, in order.
type initAccounts struct {
	Initializer          *tokenswap.AccountInfo
	TempToken            *tokenswap.AccountInfo
	InitializerReceiving *tokenswap.AccountInfo
	Escrow               *tokenswap.AccountInfo
	Rent                 *tokenswap.AccountInfo
	TokenProgram         *tokenswap.AccountInfo
}

func parseInitAccounts(accounts []*tokenswap.AccountInfo) (*initAccounts, error) {
	if err := tokenswap.ExpectAccounts(accounts, 6); err != nil {
		return nil, err
	}
	return &initAccounts{
		Initializer:          accounts[0],
		TempToken:            accounts[1],
		InitializerReceiving: accounts[2],
		Escrow:               accounts[3],
		Rent:                 accounts[4],
		TokenProgram:         accounts[5],
	}, nil
}

// exchangeAccounts are the accounts of an Exchange instruction, in order.
type exchangeAccounts struct {
	Taker                *tokenswap.AccountInfo
	TakerSending         *tokenswap.AccountInfo
	TakerReceiving       *tokenswap.AccountInfo
	TempToken            *tokenswap.AccountInfo
	InitializerMain      *tokenswap.AccountInfo
	InitializerReceiving *tokenswap.AccountInfo
	Escrow               *tokenswap.AccountInfo
	TokenProgram         *tokenswap.AccountInfo
	Authority            *tokenswap.AccountInfo
}

func parseExchangeAccounts(accounts []*tokenswap.AccountInfo) (*exchangeAccounts, error) {
	if err := tokenswap.ExpectAccounts(accounts, 9); err != nil {
		return nil, err
	}
	return &exchangeAccounts{
		Taker:                accounts[0],
		TakerSending:         accounts[1],
		TakerReceiving:       accounts[2],
		TempToken:            accounts[3],
		InitializerMain:      accounts[4],
		InitializerReceiving: accounts[5],
		Escrow:               accounts[6],
		TokenProgram:         accounts[7],
		Authority:            accounts[8],
	}, nil
}
