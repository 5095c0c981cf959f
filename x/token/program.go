package token

import (
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// Program is the token program.
type Program struct{}

var _ tokenswap.Program = Program{}

// RegisterPrograms registers the token program under its well known id.
func RegisterPrograms(r tokenswap.Registry) {
	r.Register(tokenswap.TokenProgramID, Program{})
}

// Process implements tokenswap.Program.
func (Program) Process(
	ctx tokenswap.Context,
	inv tokenswap.Invoker,
	programID tokenswap.Address,
	accounts []*tokenswap.AccountInfo,
	data []byte,
) error {
	ix, err := Unpack(data)
	if err != nil {
		return err
	}
	log := tokenswap.GetLogger(ctx)

	switch ix := ix.(type) {
	case *InitializeMint:
		log.Debug("Instruction: InitializeMint")
		return initializeMint(programID, accounts, ix)
	case *InitializeAccount:
		log.Debug("Instruction: InitializeAccount")
		return initializeAccount(programID, accounts)
	case *Transfer:
		log.Debug("Instruction: Transfer", "amount", ix.Amount)
		return transfer(programID, accounts, ix)
	case *SetAuthority:
		log.Debug("Instruction: SetAuthority", "type", ix.Type)
		return setAuthority(programID, accounts, ix)
	case *MintTo:
		log.Debug("Instruction: MintTo", "amount", ix.Amount)
		return mintTo(programID, accounts, ix)
	case *CloseAccount:
		log.Debug("Instruction: CloseAccount")
		return closeAccount(programID, accounts)
	default:
		return errors.Wrapf(ErrInvalidInstruction, "unsupported %T", ix)
	}
}

func initializeMint(programID tokenswap.Address, accounts []*tokenswap.AccountInfo, ix *InitializeMint) error {
	if err := tokenswap.ExpectAccounts(accounts, 2); err != nil {
		return err
	}
	mintInfo, rentInfo := accounts[0], accounts[1]

	if err := checkOwned(programID, mintInfo); err != nil {
		return err
	}
	mint, err := UnpackMint(mintInfo.Data)
	if err != nil {
		return err
	}
	if mint.IsInitialized {
		return errors.Wrapf(errors.ErrAccountAlreadyInitialized, "mint %s", mintInfo.Key)
	}
	if err := checkRentExempt(rentInfo, mintInfo); err != nil {
		return err
	}

	authority := ix.MintAuthority
	mint.MintAuthority = &authority
	mint.Decimals = ix.Decimals
	mint.IsInitialized = true
	return storeMint(mintInfo, mint)
}

func initializeAccount(programID tokenswap.Address, accounts []*tokenswap.AccountInfo) error {
	if err := tokenswap.ExpectAccounts(accounts, 4); err != nil {
		return err
	}
	accountInfo, mintInfo, ownerInfo, rentInfo := accounts[0], accounts[1], accounts[2], accounts[3]

	if err := checkOwned(programID, accountInfo); err != nil {
		return err
	}
	account, err := UnpackAccount(accountInfo.Data)
	if err != nil {
		return err
	}
	if account.IsInitialized() {
		return errors.Wrapf(errors.ErrAccountAlreadyInitialized, "token account %s", accountInfo.Key)
	}
	if err := checkRentExempt(rentInfo, accountInfo); err != nil {
		return err
	}
	if _, err := loadMint(programID, mintInfo); err != nil {
		return errors.Wrap(err, "mint")
	}

	account.Mint = mintInfo.Key
	account.Owner = ownerInfo.Key
	account.Amount = 0
	account.State = AccountInitialized
	return storeAccount(accountInfo, account)
}

func transfer(programID tokenswap.Address, accounts []*tokenswap.AccountInfo, ix *Transfer) error {
	if err := tokenswap.ExpectAccounts(accounts, 3); err != nil {
		return err
	}
	sourceInfo, destInfo, authority := accounts[0], accounts[1], accounts[2]

	source, err := loadAccount(programID, sourceInfo)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	dest, err := loadAccount(programID, destInfo)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if !source.Mint.Equals(dest.Mint) {
		return errors.Wrapf(ErrMintMismatch, "%s and %s", source.Mint, dest.Mint)
	}
	if err := checkAuthority(source.Owner, authority); err != nil {
		return err
	}
	if source.Amount < ix.Amount {
		return errors.Wrapf(ErrInsufficientFunds, "%d < %d", source.Amount, ix.Amount)
	}
	if sourceInfo.Key.Equals(destInfo.Key) {
		return nil
	}

	source.Amount -= ix.Amount
	if dest.Amount+ix.Amount < dest.Amount {
		return errors.Wrap(ErrOverflow, "destination amount")
	}
	dest.Amount += ix.Amount

	if err := storeAccount(sourceInfo, source); err != nil {
		return err
	}
	return storeAccount(destInfo, dest)
}

func setAuthority(programID tokenswap.Address, accounts []*tokenswap.AccountInfo, ix *SetAuthority) error {
	if err := tokenswap.ExpectAccounts(accounts, 2); err != nil {
		return err
	}
	target, authority := accounts[0], accounts[1]

	if err := checkOwned(programID, target); err != nil {
		return err
	}
	switch target.DataLen() {
	case AccountSize:
		account, err := loadAccount(programID, target)
		if err != nil {
			return err
		}
		switch ix.Type {
		case AuthorityAccountOwner:
			if err := checkAuthority(account.Owner, authority); err != nil {
				return err
			}
			if ix.NewAuthority == nil {
				return errors.Wrap(ErrInvalidInstruction, "account owner cannot be removed")
			}
			account.Owner = *ix.NewAuthority
		case AuthorityCloseAccount:
			current := account.Owner
			if account.CloseAuthority != nil {
				current = *account.CloseAuthority
			}
			if err := checkAuthority(current, authority); err != nil {
				return err
			}
			account.CloseAuthority = ix.NewAuthority
		default:
			return errors.Wrapf(ErrAuthorityTypeNotSet, "type %d on a token account", ix.Type)
		}
		return storeAccount(target, account)
	case MintSize:
		mint, err := loadMint(programID, target)
		if err != nil {
			return err
		}
		if ix.Type != AuthorityMintTokens {
			return errors.Wrapf(ErrAuthorityTypeNotSet, "type %d on a mint", ix.Type)
		}
		if mint.MintAuthority == nil {
			return errors.Wrap(ErrAuthorityTypeNotSet, "fixed supply")
		}
		if err := checkAuthority(*mint.MintAuthority, authority); err != nil {
			return err
		}
		mint.MintAuthority = ix.NewAuthority
		return storeMint(target, mint)
	default:
		return errors.Wrapf(errors.ErrInvalidAccountData, "unexpected data length %d", target.DataLen())
	}
}

func mintTo(programID tokenswap.Address, accounts []*tokenswap.AccountInfo, ix *MintTo) error {
	if err := tokenswap.ExpectAccounts(accounts, 3); err != nil {
		return err
	}
	mintInfo, destInfo, authority := accounts[0], accounts[1], accounts[2]

	mint, err := loadMint(programID, mintInfo)
	if err != nil {
		return errors.Wrap(err, "mint")
	}
	dest, err := loadAccount(programID, destInfo)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if !dest.Mint.Equals(mintInfo.Key) {
		return errors.Wrapf(ErrMintMismatch, "%s is not of mint %s", destInfo.Key, mintInfo.Key)
	}
	if mint.MintAuthority == nil {
		return errors.Wrap(ErrAuthorityTypeNotSet, "fixed supply")
	}
	if err := checkAuthority(*mint.MintAuthority, authority); err != nil {
		return err
	}
	if mint.Supply+ix.Amount < mint.Supply {
		return errors.Wrap(ErrOverflow, "supply")
	}
	mint.Supply += ix.Amount
	dest.Amount += ix.Amount

	if err := storeMint(mintInfo, mint); err != nil {
		return err
	}
	return storeAccount(destInfo, dest)
}

func closeAccount(programID tokenswap.Address, accounts []*tokenswap.AccountInfo) error {
	if err := tokenswap.ExpectAccounts(accounts, 3); err != nil {
		return err
	}
	accountInfo, destInfo, authority := accounts[0], accounts[1], accounts[2]

	if accountInfo.Key.Equals(destInfo.Key) {
		return errors.Wrap(errors.ErrInvalidArgument, "cannot close into itself")
	}
	account, err := loadAccount(programID, accountInfo)
	if err != nil {
		return err
	}
	if account.Amount != 0 {
		return errors.Wrapf(ErrNonZeroBalance, "%d tokens left", account.Amount)
	}
	current := account.Owner
	if account.CloseAuthority != nil {
		current = *account.CloseAuthority
	}
	if err := checkAuthority(current, authority); err != nil {
		return err
	}

	if err := destInfo.AddLamports(accountInfo.Lamports); err != nil {
		return err
	}
	accountInfo.Lamports = 0
	accountInfo.Data = make([]byte, accountInfo.DataLen())
	return nil
}

func checkOwned(programID tokenswap.Address, info *tokenswap.AccountInfo) error {
	if !info.IsOwnedBy(programID) {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "account %s is owned by %s", info.Key, info.Owner)
	}
	return nil
}

// checkAuthority ensures the authority account is the expected one and
// signed the instruction.
func checkAuthority(expected tokenswap.Address, authority *tokenswap.AccountInfo) error {
	if !expected.Equals(authority.Key) {
		return errors.Wrapf(ErrOwnerMismatch, "want %s, got %s", expected, authority.Key)
	}
	if !authority.IsSigner {
		return errors.Wrapf(errors.ErrMissingSignature, "authority %s", authority.Key)
	}
	return nil
}

func checkRentExempt(rentInfo, info *tokenswap.AccountInfo) error {
	rent, err := tokenswap.RentFromAccount(rentInfo)
	if err != nil {
		return err
	}
	if !rent.IsExempt(info.Lamports, info.DataLen()) {
		return errors.Wrapf(ErrNotRentExempt, "%d lamports, %d required", info.Lamports, rent.MinimumBalance(info.DataLen()))
	}
	return nil
}

// loadAccount returns the initialized token account held by info.
func loadAccount(programID tokenswap.Address, info *tokenswap.AccountInfo) (*Account, error) {
	if err := checkOwned(programID, info); err != nil {
		return nil, err
	}
	account, err := UnpackAccount(info.Data)
	if err != nil {
		return nil, err
	}
	if !account.IsInitialized() {
		return nil, errors.Wrapf(errors.ErrUninitializedAccount, "token account %s", info.Key)
	}
	return account, nil
}

// loadMint returns the initialized mint held by info.
func loadMint(programID tokenswap.Address, info *tokenswap.AccountInfo) (*Mint, error) {
	if err := checkOwned(programID, info); err != nil {
		return nil, err
	}
	mint, err := UnpackMint(info.Data)
	if err != nil {
		return nil, err
	}
	if !mint.IsInitialized {
		return nil, errors.Wrapf(errors.ErrUninitializedAccount, "mint %s", info.Key)
	}
	return mint, nil
}

func storeAccount(info *tokenswap.AccountInfo, a *Account) error {
	raw, err := a.Pack()
	if err != nil {
		return errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	copy(info.Data, raw)
	return nil
}

func storeMint(info *tokenswap.AccountInfo, m *Mint) error {
	raw, err := m.Pack()
	if err != nil {
		return errors.Wrap(errors.ErrInvalidAccountData, err.Error())
	}
	copy(info.Data, raw)
	return nil
}
