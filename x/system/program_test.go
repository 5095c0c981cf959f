package system

import (
	"context"
	"testing"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/app"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/store"
	"github.com/iov-one/tokenswap/tokenswaptest"
	"github.com/iov-one/tokenswap/tokenswaptest/assert"
)

func TestCreateAccount(t *testing.T) {
	funder := tokenswaptest.NewAddress()
	owner := tokenswaptest.NewAddress()

	cases := map[string]struct {
		Lamports uint64
		Space    uint64
		Existing *tokenswap.Account
		Signers  func(funder, created tokenswap.Address) []tokenswap.Address
		WantErr  *errors.Error
	}{
		"success": {
			Lamports: 400,
			Space:    16,
		},
		"new account must sign": {
			Lamports: 400,
			Signers: func(funder, _ tokenswap.Address) []tokenswap.Address {
				return []tokenswap.Address{funder}
			},
			WantErr: errors.ErrMissingSignature,
		},
		"funder cannot pay": {
			Lamports: 1001,
			WantErr:  errors.ErrInsufficientFunds,
		},
		"account in use": {
			Lamports: 400,
			Existing: &tokenswap.Account{Lamports: 1, Owner: tokenswap.SystemProgramID},
			WantErr:  errors.ErrAccountAlreadyInitialized,
		},
		"too much space": {
			Lamports: 400,
			Space:    MaxDataLength + 1,
			WantErr:  errors.ErrInvalidArgument,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			accounts := app.NewAccounts()
			exec := newExecutor(accounts)
			created := tokenswaptest.NewAddress()

			assert.Nil(t, accounts.Save(db, funder, &tokenswap.Account{Lamports: 1000, Owner: tokenswap.SystemProgramID}))
			if tc.Existing != nil {
				assert.Nil(t, accounts.Save(db, created, tc.Existing))
			}
			signers := []tokenswap.Address{funder, created}
			if tc.Signers != nil {
				signers = tc.Signers(funder, created)
			}

			ix, err := CreateAccountInstruction(funder, created, tc.Lamports, tc.Space, owner)
			assert.Nil(t, err)
			err = exec.Process(context.Background(), db, signers, []tokenswap.Instruction{ix})
			if !tc.WantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.WantErr != nil {
				return
			}

			acct, err := accounts.Load(db, created)
			assert.Nil(t, err)
			assert.Equal(t, tc.Lamports, acct.Lamports)
			assert.Equal(t, owner, acct.Owner)
			assert.Equal(t, int(tc.Space), len(acct.Data))

			acct, err = accounts.Load(db, funder)
			assert.Nil(t, err)
			assert.Equal(t, 1000-tc.Lamports, acct.Lamports)
		})
	}
}

func TestTransfer(t *testing.T) {
	from := tokenswaptest.NewAddress()
	to := tokenswaptest.NewAddress()

	db := store.MemStore()
	accounts := app.NewAccounts()
	exec := newExecutor(accounts)
	assert.Nil(t, accounts.Save(db, from, &tokenswap.Account{Lamports: 10, Owner: tokenswap.SystemProgramID}))

	ix, err := TransferInstruction(from, to, 7)
	assert.Nil(t, err)

	err = exec.Process(context.Background(), db, nil, []tokenswap.Instruction{ix})
	assert.IsErr(t, errors.ErrMissingSignature, err)

	assert.Nil(t, exec.Process(context.Background(), db, []tokenswap.Address{from}, []tokenswap.Instruction{ix}))
	acct, err := accounts.Load(db, to)
	assert.Nil(t, err)
	assert.Equal(t, uint64(7), acct.Lamports)

	err = exec.Process(context.Background(), db, []tokenswap.Address{from}, []tokenswap.Instruction{ix})
	assert.IsErr(t, errors.ErrInsufficientFunds, err)

	// accounts owned by other programs cannot be debited
	foreign := tokenswaptest.NewAddress()
	assert.Nil(t, accounts.Save(db, foreign, &tokenswap.Account{Lamports: 10, Owner: tokenswaptest.NewAddress()}))
	ix, err = TransferInstruction(foreign, to, 1)
	assert.Nil(t, err)
	err = exec.Process(context.Background(), db, []tokenswap.Address{foreign}, []tokenswap.Instruction{ix})
	assert.IsErr(t, errors.ErrIncorrectProgramID, err)
}

func TestUnpack(t *testing.T) {
	owner := tokenswaptest.NewAddress()
	raw, err := CreateAccount{Lamports: 1, Space: 2, Owner: owner}.Marshal()
	assert.Nil(t, err)
	assert.Equal(t, createAccountSize, len(raw))

	ix, err := Unpack(raw)
	assert.Nil(t, err)
	assert.Equal(t, &CreateAccount{Lamports: 1, Space: 2, Owner: owner}, ix)

	_, err = Unpack(raw[:len(raw)-1])
	assert.IsErr(t, errors.ErrInput, err)
	_, err = Unpack([]byte{7, 0, 0, 0})
	assert.IsErr(t, errors.ErrInput, err)
	_, err = Unpack(nil)
	assert.IsErr(t, errors.ErrInput, err)
}

func newExecutor(accounts tokenswap.AccountStore) *app.Executor {
	router := app.NewRouter()
	RegisterPrograms(router)
	return app.NewExecutor(router, accounts)
}
