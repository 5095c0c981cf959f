package tokenswap

import (
	"math"
	"testing"

	"github.com/iov-one/tokenswap/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRentMinimumBalance(t *testing.T) {
	r := DefaultRent()
	assert.Equal(t, uint64(128*3480*2), r.MinimumBalance(0))
	assert.Equal(t, uint64((128+105)*3480*2), r.MinimumBalance(105))

	min := r.MinimumBalance(105)
	assert.True(t, r.IsExempt(min, 105))
	assert.True(t, r.IsExempt(min+1, 105))
	assert.False(t, r.IsExempt(min-1, 105))
}

func TestRentMinimumBalanceSaturates(t *testing.T) {
	cases := map[string]struct {
		rent Rent
		size int
	}{
		"byte price overflows": {
			rent: Rent{LamportsPerByteYear: math.MaxUint64 / 2, ExemptionThreshold: 2},
			size: 105,
		},
		"threshold overflows": {
			rent: Rent{LamportsPerByteYear: math.MaxUint64 / 300, ExemptionThreshold: 2},
			size: 105,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, uint64(math.MaxUint64), tc.rent.MinimumBalance(tc.size))
			assert.False(t, tc.rent.IsExempt(1e12, tc.size))
		})
	}
}

func TestRentValidate(t *testing.T) {
	cases := map[string]struct {
		rent    Rent
		wantErr *errors.Error
	}{
		"default": {
			rent: *DefaultRent(),
		},
		"free storage": {
			rent:    Rent{ExemptionThreshold: 2},
			wantErr: errors.ErrEmpty,
		},
		"no threshold": {
			rent:    Rent{LamportsPerByteYear: 1},
			wantErr: errors.ErrInput,
		},
		"nan threshold": {
			rent:    Rent{LamportsPerByteYear: 1, ExemptionThreshold: math.NaN()},
			wantErr: errors.ErrInput,
		},
		"burn over 100": {
			rent:    Rent{LamportsPerByteYear: 1, ExemptionThreshold: 1, BurnPercent: 101},
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.rent.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestRentSysvar(t *testing.T) {
	raw, err := DefaultRent().Marshal()
	require.NoError(t, err)
	require.Len(t, raw, RentSize)

	got, err := RentFromAccount(&AccountInfo{Key: SysvarRentAddress, Account: &Account{Data: raw}})
	require.NoError(t, err)
	assert.Equal(t, DefaultRent(), got)

	_, err = RentFromAccount(&AccountInfo{Key: TokenProgramID, Account: &Account{Data: raw}})
	assert.True(t, errors.ErrInvalidArgument.Is(err))

	_, err = RentFromAccount(&AccountInfo{Key: SysvarRentAddress, Account: &Account{Data: raw[:16]}})
	assert.True(t, errors.ErrInvalidAccountData.Is(err))
}
