package escrow

import (
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

func checkSigner(info *tokenswap.AccountInfo) error {
	if !info.IsSigner {
		return errors.Wrapf(errors.ErrMissingSignature, "account %s", info.Key)
	}
	return nil
}

func checkOwner(info *tokenswap.AccountInfo, program tokenswap.Address) error {
	if !info.IsOwnedBy(program) {
		return errors.Wrapf(errors.ErrIncorrectProgramID,
			"account %s is owned by %s, not %s", info.Key, info.Owner, program)
	}
	return nil
}

func checkProgram(info *tokenswap.AccountInfo, program tokenswap.Address) error {
	if !info.Key.Equals(program) {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "want program %s, got %s", program, info.Key)
	}
	return nil
}

func checkRentExempt(rentInfo, info *tokenswap.AccountInfo) error {
	rent, err := tokenswap.RentFromAccount(rentInfo)
	if err != nil {
		return err
	}
	if !rent.IsExempt(info.Lamports, info.DataLen()) {
		return errors.Wrapf(ErrNotRentExempt, "%d lamports, %d required",
			info.Lamports, rent.MinimumBalance(info.DataLen()))
	}
	return nil
}

// checkRecord ensures the exchange accounts are the ones recorded when the
// escrow was initialized.
func checkRecord(e *Escrow, acc *exchangeAccounts) error {
	if !e.TempTokenAccount.Equals(acc.TempToken.Key) {
		return errors.Wrapf(errors.ErrInvalidAccountData, "temp token account %s, recorded %s",
			acc.TempToken.Key, e.TempTokenAccount)
	}
	if !e.Initializer.Equals(acc.InitializerMain.Key) {
		return errors.Wrapf(errors.ErrInvalidAccountData, "initializer %s, recorded %s",
			acc.InitializerMain.Key, e.Initializer)
	}
	if !e.InitializerReceiving.Equals(acc.InitializerReceiving.Key) {
		return errors.Wrapf(errors.ErrInvalidAccountData, "initializer receiving account %s, recorded %s",
			acc.InitializerReceiving.Key, e.InitializerReceiving)
	}
	return nil
}
