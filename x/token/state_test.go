package token

import (
	"testing"

	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/tokenswaptest"
	"github.com/iov-one/tokenswap/tokenswaptest/assert"
)

func TestAccountLayout(t *testing.T) {
	closer := tokenswaptest.NewAddress()
	a := &Account{
		Mint:           tokenswaptest.NewAddress(),
		Owner:          tokenswaptest.NewAddress(),
		Amount:         0x0102030405060708,
		State:          AccountInitialized,
		CloseAuthority: &closer,
	}
	raw, err := a.Pack()
	assert.Nil(t, err)
	assert.Equal(t, AccountSize, len(raw))
	// amount is little endian after mint and owner
	assert.Equal(t, byte(0x08), raw[64])
	assert.Equal(t, byte(1), raw[73])

	got, err := UnpackAccount(raw)
	assert.Nil(t, err)
	assert.Equal(t, a, got)

	raw[72] = 7
	_, err = UnpackAccount(raw)
	assert.IsErr(t, errors.ErrInvalidAccountData, err)
	_, err = UnpackAccount(raw[:10])
	assert.IsErr(t, errors.ErrInvalidAccountData, err)
}

func TestMintLayout(t *testing.T) {
	m := &Mint{Supply: 5, Decimals: 9, IsInitialized: true}
	raw, err := m.Pack()
	assert.Nil(t, err)
	assert.Equal(t, MintSize, len(raw))

	got, err := UnpackMint(raw)
	assert.Nil(t, err)
	assert.Equal(t, m, got)

	raw[0] = 2
	_, err = UnpackMint(raw)
	assert.IsErr(t, errors.ErrInvalidAccountData, err)
}

func TestUnpackInstruction(t *testing.T) {
	owner := tokenswaptest.NewAddress()
	raw, err := SetAuthority{Type: AuthorityAccountOwner, NewAuthority: &owner}.Pack()
	assert.Nil(t, err)
	ix, err := Unpack(raw)
	assert.Nil(t, err)
	assert.Equal(t, &SetAuthority{Type: AuthorityAccountOwner, NewAuthority: &owner}, ix)

	_, err = Unpack(nil)
	assert.IsErr(t, ErrInvalidInstruction, err)
	_, err = Unpack([]byte{TagTransfer, 1})
	assert.IsErr(t, ErrInvalidInstruction, err)
	_, err = Unpack([]byte{42})
	assert.IsErr(t, ErrInvalidInstruction, err)
}
