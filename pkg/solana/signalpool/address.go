package signalpool

import (
	"crypto/ed25519"

	"github.com/code-payments/signal-pool/pkg/solana"
)

// GetPoolAddress returns the pool account for a seed. The seed is used as the
// single program address seed, so its last byte acts as the bump.
func GetPoolAddress(program ed25519.PublicKey, seed PoolSeed) (ed25519.PublicKey, error) {
	return solana.CreateProgramAddress(program, seed[:])
}

// FindPoolSeed completes a 31 byte prefix with the first bump that yields a
// valid pool address.
func FindPoolSeed(program ed25519.PublicKey, prefix [PoolSeedSize - 1]byte) (PoolSeed, ed25519.PublicKey, error) {
	var seed PoolSeed

	address, bump, err := solana.FindProgramAddressAndBump(program, prefix[:])
	if err != nil {
		return seed, nil, err
	}

	copy(seed[:], prefix[:])
	seed[PoolSeedSize-1] = bump
	return seed, address, nil
}
