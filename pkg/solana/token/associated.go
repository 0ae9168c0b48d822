package token

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/signal-pool/pkg/solana"
)

// AssociatedTokenAccountProgramKey  is the address of the associated token account program that should be used.
//
// Current key: ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL
var AssociatedTokenAccountProgramKey = solana.MustParsePublicKey("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")

// GetAssociatedAccount returns the associated account address for an SPL token.
//
// Reference: https://spl.solana.com/associated-token-account#finding-the-associated-token-account-address
func GetAssociatedAccount(wallet, mint ed25519.PublicKey) (ed25519.PublicKey, error) {
	if len(wallet) != ed25519.PublicKeySize {
		return nil, errors.Errorf("invalid wallet length: %d", len(wallet))
	}
	if len(mint) != ed25519.PublicKeySize {
		return nil, errors.Errorf("invalid mint length: %d", len(mint))
	}

	return solana.FindProgramAddress(
		AssociatedTokenAccountProgramKey,
		wallet,
		ProgramKey,
		mint,
	)
}
