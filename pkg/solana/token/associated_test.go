package token

import (
	"crypto/ed25519"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAssociatedAccount(t *testing.T) {
	// Values generated from taken from spl code.
	wallet, err := base58.Decode("4uQeVj5tqViQh7yWWGStvkEG1Zmhx6uasJtWCJziofM")
	require.NoError(t, err)
	mint, err := base58.Decode("8opHzTAnfzRpPEx21XtnrVTX28YQuCpAjcn1PczScKh")
	require.NoError(t, err)
	addr, err := base58.Decode("H7MQwEzt97tUJryocn3qaEoy2ymWstwyEk1i9Yv3EmuZ")
	require.NoError(t, err)

	actual, err := GetAssociatedAccount(wallet, mint)
	require.NoError(t, err)
	assert.EqualValues(t, addr, actual)
}

func TestGetAssociatedAccount_Deterministic(t *testing.T) {
	wallet, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	mint, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	first, err := GetAssociatedAccount(wallet, mint)
	require.NoError(t, err)
	second, err := GetAssociatedAccount(wallet, mint)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	swapped, err := GetAssociatedAccount(mint, wallet)
	require.NoError(t, err)
	assert.NotEqual(t, first, swapped)
}

func TestGetAssociatedAccount_InvalidKeys(t *testing.T) {
	mint, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	_, err = GetAssociatedAccount(make([]byte, 31), mint)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid wallet length")

	_, err = GetAssociatedAccount(mint, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid mint length")
}
