package escrow

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/tokenswaptest/assert"
	"github.com/sebdah/goldie/v2"
)

func fill(b byte) tokenswap.Address {
	var a tokenswap.Address
	copy(a[:], bytes.Repeat([]byte{b}, tokenswap.AddressLength))
	return a
}

func TestEscrowLayout(t *testing.T) {
	e := Escrow{
		IsInitialized:        true,
		Initializer:          fill(1),
		TempTokenAccount:     fill(2),
		InitializerReceiving: fill(3),
		ExpectedAmount:       1000,
	}
	raw, err := e.Pack()
	assert.Nil(t, err)
	assert.Equal(t, EscrowSize, len(raw))

	g := goldie.New(t)
	g.Assert(t, "escrow_record", []byte(hex.EncodeToString(raw)))

	got, err := UnpackEscrow(raw)
	assert.Nil(t, err)
	assert.Equal(t, &e, got)
}

func TestUnpackEscrow(t *testing.T) {
	initialized, err := (&Escrow{IsInitialized: true, ExpectedAmount: 5}).Pack()
	assert.Nil(t, err)
	badFlag := make([]byte, EscrowSize)
	badFlag[0] = 2

	cases := map[string]struct {
		Raw              []byte
		WantErr          *errors.Error
		WantUncheckedErr *errors.Error
	}{
		"initialized": {
			Raw: initialized,
		},
		"zeroed account": {
			Raw:     make([]byte, EscrowSize),
			WantErr: errors.ErrUninitializedAccount,
		},
		"too short": {
			Raw:              make([]byte, EscrowSize-1),
			WantErr:          errors.ErrInvalidAccountData,
			WantUncheckedErr: errors.ErrInvalidAccountData,
		},
		"too long": {
			Raw:              make([]byte, EscrowSize+1),
			WantErr:          errors.ErrInvalidAccountData,
			WantUncheckedErr: errors.ErrInvalidAccountData,
		},
		"invalid flag": {
			Raw:              badFlag,
			WantErr:          errors.ErrInvalidAccountData,
			WantUncheckedErr: errors.ErrInvalidAccountData,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if _, err := UnpackEscrow(tc.Raw); !tc.WantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if _, err := UnpackEscrowUnchecked(tc.Raw); !tc.WantUncheckedErr.Is(err) {
				t.Fatalf("unexpected unchecked error: %+v", err)
			}
		})
	}
}
