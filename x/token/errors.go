package token

import (
	"github.com/iov-one/tokenswap/errors"
)

// token takes 1030-1040
var (
	ErrOwnerMismatch       = errors.Register(1030, "owner does not match")
	ErrMintMismatch        = errors.Register(1031, "account not associated with this mint")
	ErrNonZeroBalance      = errors.Register(1032, "non-native account can only be closed if its balance is zero")
	ErrInsufficientFunds   = errors.Register(1033, "insufficient token funds")
	ErrOverflow            = errors.Register(1034, "token amount overflow")
	ErrInvalidInstruction  = errors.Register(1035, "invalid token instruction")
	ErrNotRentExempt       = errors.Register(1036, "token account not rent exempt")
	ErrAuthorityTypeNotSet = errors.Register(1037, "authority type does not support this operation")
)
