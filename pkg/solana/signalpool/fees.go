package signalpool

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/signal-pool/pkg/solana/token"
)

// AddressDeriver maps a wallet and a mint to the wallet's token account for
// that mint.
type AddressDeriver func(wallet, mint ed25519.PublicKey) (ed25519.PublicKey, error)

// WellKnownAccounts are the protocol wallets that receive a share of pool
// token fees on Deposit and CollectFees.
type WellKnownAccounts struct {
	FeeWallet        ed25519.PublicKey
	BuyAndBurnWallet ed25519.PublicKey
	Deriver          AddressDeriver
}

var DefaultWellKnownAccounts = &WellKnownAccounts{
	FeeWallet:        FEE_WALLET,
	BuyAndBurnWallet: BUY_AND_BURN_WALLET,
	Deriver:          token.GetAssociatedAccount,
}

// FeeDestinations returns the pool token accounts of the fee wallet and the
// buy-and-burn wallet for the given pool token mint.
func (w *WellKnownAccounts) FeeDestinations(mint ed25519.PublicKey) (fee, buyAndBurn ed25519.PublicKey, err error) {
	deriver := w.Deriver
	if deriver == nil {
		deriver = token.GetAssociatedAccount
	}

	fee, err = deriver(w.FeeWallet, mint)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to derive fee destination")
	}
	buyAndBurn, err = deriver(w.BuyAndBurnWallet, mint)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to derive buy and burn destination")
	}
	return fee, buyAndBurn, nil
}

// feeDestinations keeps caller supplied destinations and derives the rest.
func feeDestinations(wellKnown *WellKnownAccounts, mint, fee, buyAndBurn ed25519.PublicKey) (ed25519.PublicKey, ed25519.PublicKey, error) {
	if len(fee) > 0 && len(buyAndBurn) > 0 {
		return fee, buyAndBurn, nil
	}
	if wellKnown == nil {
		wellKnown = DefaultWellKnownAccounts
	}

	derivedFee, derivedBuyAndBurn, err := wellKnown.FeeDestinations(mint)
	if err != nil {
		return nil, nil, err
	}
	if len(fee) == 0 {
		fee = derivedFee
	}
	if len(buyAndBurn) == 0 {
		buyAndBurn = derivedBuyAndBurn
	}
	return fee, buyAndBurn, nil
}
