package escrow

import (
	"crypto/sha256"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/x/token"
)

// EscrowSeed is the seed of the escrow authority.
const EscrowSeed = "escrow"

// ProgramID is the address the escrow program is registered under.
var ProgramID = tokenswap.Address(sha256.Sum256([]byte("program:escrow")))

// DeriveAuthority returns the address holding custody of all temporary
// token accounts of the escrow program.
func DeriveAuthority(programID tokenswap.Address) (tokenswap.DerivedAddress, error) {
	return tokenswap.FindProgramAddress(programID, []byte(EscrowSeed))
}

// Program is the escrow program.
type Program struct {
	tokenProgram tokenswap.Address
}

var _ tokenswap.Program = (*Program)(nil)

// NewProgram returns an escrow program that moves tokens with given token
// program.
func NewProgram(tokenProgram tokenswap.Address) *Program {
	return &Program{tokenProgram: tokenProgram}
}

// RegisterPrograms registers the escrow program under ProgramID, using the
// well known token program.
func RegisterPrograms(r tokenswap.Registry) {
	r.Register(ProgramID, NewProgram(tokenswap.TokenProgramID))
}

// Process implements tokenswap.Program.
func (p *Program) Process(
	ctx tokenswap.Context,
	inv tokenswap.Invoker,
	programID tokenswap.Address,
	accounts []*tokenswap.AccountInfo,
	data []byte,
) error {
	ix, err := UnpackInstruction(data)
	if err != nil {
		return err
	}
	log := tokenswap.GetLogger(ctx)

	switch ix := ix.(type) {
	case *InitEscrow:
		log.Debug("Instruction: InitEscrow", "amount", ix.Amount)
		acc, err := parseInitAccounts(accounts)
		if err != nil {
			return err
		}
		return p.initEscrow(ctx, inv, programID, acc, ix.Amount)
	case *Exchange:
		log.Debug("Instruction: Exchange", "amount", ix.Amount)
		acc, err := parseExchangeAccounts(accounts)
		if err != nil {
			return err
		}
		return p.exchange(ctx, inv, programID, acc, ix.Amount)
	default:
		return errors.Wrapf(ErrInvalidInstruction, "unsupported %T", ix)
	}
}

func (p *Program) initEscrow(
	ctx tokenswap.Context,
	inv tokenswap.Invoker,
	programID tokenswap.Address,
	acc *initAccounts,
	amount uint64,
) error {
	if err := checkSigner(acc.Initializer); err != nil {
		return errors.Wrap(err, "initializer")
	}
	if err := checkOwner(acc.InitializerReceiving, p.tokenProgram); err != nil {
		return errors.Wrap(err, "receiving account")
	}
	if err := checkRentExempt(acc.Rent, acc.Escrow); err != nil {
		return err
	}
	if err := checkOwner(acc.Escrow, programID); err != nil {
		return errors.Wrap(err, "escrow account")
	}
	record, err := UnpackEscrowUnchecked(acc.Escrow.Data)
	if err != nil {
		return err
	}
	if record.IsInitialized {
		return errors.Wrapf(errors.ErrAccountAlreadyInitialized, "escrow %s", acc.Escrow.Key)
	}
	if err := checkProgram(acc.TokenProgram, p.tokenProgram); err != nil {
		return err
	}

	record.IsInitialized = true
	record.Initializer = acc.Initializer.Key
	record.TempTokenAccount = acc.TempToken.Key
	record.InitializerReceiving = acc.InitializerReceiving.Key
	record.ExpectedAmount = amount
	raw, err := record.Pack()
	if err != nil {
		return errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	copy(acc.Escrow.Data, raw)

	pda, err := DeriveAuthority(programID)
	if err != nil {
		return err
	}
	tokenswap.GetLogger(ctx).Info("Transferring temp account ownership",
		"account", acc.TempToken.Key, "authority", pda.Address)
	tokens := NewTokenService(inv, acc.TokenProgram)
	return tokens.SetAuthority(ctx, acc.TempToken, token.AuthorityAccountOwner, pda.Address,
		tokenswap.SignerAuthority(acc.Initializer))
}

func (p *Program) exchange(
	ctx tokenswap.Context,
	inv tokenswap.Invoker,
	programID tokenswap.Address,
	acc *exchangeAccounts,
	amount uint64,
) error {
	if err := checkSigner(acc.Taker); err != nil {
		return errors.Wrap(err, "taker")
	}
	if err := checkOwner(acc.TempToken, p.tokenProgram); err != nil {
		return errors.Wrap(err, "temp token account")
	}
	temp, err := token.UnpackAccount(acc.TempToken.Data)
	if err != nil {
		return err
	}
	if amount != temp.Amount {
		return errors.Wrapf(ErrExpectedAmountMismatch, "temp account holds %d, taker expects %d", temp.Amount, amount)
	}

	if err := checkOwner(acc.Escrow, programID); err != nil {
		return errors.Wrap(err, "escrow account")
	}
	record, err := UnpackEscrow(acc.Escrow.Data)
	if err != nil {
		return err
	}
	if err := checkRecord(record, acc); err != nil {
		return err
	}
	if err := checkProgram(acc.TokenProgram, p.tokenProgram); err != nil {
		return err
	}
	pda, err := DeriveAuthority(programID)
	if err != nil {
		return err
	}
	custody, err := pda.Authority(acc.Authority)
	if err != nil {
		return err
	}

	log := tokenswap.GetLogger(ctx)
	tokens := NewTokenService(inv, acc.TokenProgram)

	log.Info("Paying the initializer", "amount", record.ExpectedAmount)
	if err := tokens.Transfer(ctx, acc.TakerSending, acc.InitializerReceiving, record.ExpectedAmount,
		tokenswap.SignerAuthority(acc.Taker)); err != nil {
		return errors.Wrap(err, "pay initializer")
	}

	log.Info("Releasing escrowed tokens", "amount", temp.Amount)
	if err := tokens.Transfer(ctx, acc.TempToken, acc.TakerReceiving, temp.Amount, custody); err != nil {
		return errors.Wrap(err, "release tokens")
	}

	log.Info("Closing the temp account")
	if err := tokens.CloseAccount(ctx, acc.TempToken, acc.InitializerMain, custody); err != nil {
		return errors.Wrap(err, "close temp account")
	}

	log.Info("Closing the escrow account")
	if err := acc.InitializerMain.AddLamports(acc.Escrow.Lamports); err != nil {
		return errors.Wrap(ErrAmountOverflow, err.Error())
	}
	acc.Escrow.Lamports = 0
	acc.Escrow.Data = nil
	return nil
}
