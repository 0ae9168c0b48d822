package signalpool

import (
	"crypto/ed25519"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/signal-pool/pkg/solana/token"
)

func TestFeeDestinations(t *testing.T) {
	mint := generateKeys(t, 1)[0]

	fee, buyAndBurn, err := DefaultWellKnownAccounts.FeeDestinations(mint)
	require.NoError(t, err)

	expectedFee, err := token.GetAssociatedAccount(FEE_WALLET, mint)
	require.NoError(t, err)
	expectedBuyAndBurn, err := token.GetAssociatedAccount(BUY_AND_BURN_WALLET, mint)
	require.NoError(t, err)

	assert.Equal(t, expectedFee, fee)
	assert.Equal(t, expectedBuyAndBurn, buyAndBurn)
	assert.NotEqual(t, fee, buyAndBurn)

	// A nil deriver falls back to associated token accounts
	wellKnown := &WellKnownAccounts{FeeWallet: FEE_WALLET, BuyAndBurnWallet: BUY_AND_BURN_WALLET}
	fee, buyAndBurn, err = wellKnown.FeeDestinations(mint)
	require.NoError(t, err)
	assert.Equal(t, expectedFee, fee)
	assert.Equal(t, expectedBuyAndBurn, buyAndBurn)

	_, _, err = DefaultWellKnownAccounts.FeeDestinations(mint[:10])
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to derive fee destination")
}

func TestFeeDestinations_Supplied(t *testing.T) {
	keys := generateKeys(t, 3)

	var calls int
	wellKnown := &WellKnownAccounts{
		FeeWallet:        keys[0],
		BuyAndBurnWallet: keys[1],
		Deriver: func(wallet, mint ed25519.PublicKey) (ed25519.PublicKey, error) {
			calls++
			return nil, errors.New("should not be called")
		},
	}

	fee, buyAndBurn, err := feeDestinations(wellKnown, keys[2], keys[0], keys[1])
	require.NoError(t, err)
	assert.Equal(t, keys[0], fee)
	assert.Equal(t, keys[1], buyAndBurn)
	assert.Zero(t, calls)

	_, _, err = feeDestinations(wellKnown, keys[2], keys[0], nil)
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
