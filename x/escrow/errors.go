package escrow

import (
	"github.com/iov-one/tokenswap/errors"
)

// escrow takes 1010-1020
var (
	ErrInvalidInstruction     = errors.Register(1010, "invalid escrow instruction")
	ErrNotRentExempt          = errors.Register(1011, "escrow account not rent exempt")
	ErrExpectedAmountMismatch = errors.Register(1012, "expected amount mismatch")
	ErrAmountOverflow         = errors.Register(1013, "amount overflow")
)
