package main

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/signal-pool/pkg/solana"
	"github.com/code-payments/signal-pool/pkg/solana/signalpool"
	"github.com/code-payments/signal-pool/pkg/solana/token"
)

func TestBuild_Deposit(t *testing.T) {
	keys := generateKeys(t, 7)
	seed, pool := findPoolSeed(t)

	path := writeRequest(t, "deposit.yaml", fmt.Sprintf(`
operation: deposit
pool_seed: "%s"
pool_token_amount: 1000
mint: %s
target_pool_token: %s
signal_provider_pool_token: %s
pool_assets:
  - %s
  - %s
source_owner: %s
source_assets:
  - %s
  - %s
`, seed, b58(keys[0]), b58(keys[1]), b58(keys[2]), b58(keys[3]), b58(keys[4]), b58(keys[5]), b58(keys[6]), b58(keys[0])))

	ix := build(t, &defaultConfig, path)

	args, accounts, err := signalpool.DepositInstructionFromInstruction(ix)
	require.NoError(t, err)
	assert.Equal(t, seed, args.PoolSeed)
	assert.EqualValues(t, 1000, args.PoolTokenAmount)

	fee, err := token.GetAssociatedAccount(signalpool.FEE_WALLET, keys[0])
	require.NoError(t, err)
	buyAndBurn, err := token.GetAssociatedAccount(signalpool.BUY_AND_BURN_WALLET, keys[0])
	require.NoError(t, err)

	assert.Equal(t, pool, accounts.Pool)
	assert.Equal(t, keys[0], accounts.Mint)
	assert.Equal(t, fee, accounts.FeeDestination)
	assert.Equal(t, buyAndBurn, accounts.BuyAndBurnDestination)
	assert.Equal(t, []ed25519.PublicKey{keys[3], keys[4]}, accounts.PoolAssets)
	assert.Equal(t, keys[5], accounts.SourceOwner)
	assert.Equal(t, []ed25519.PublicKey{keys[6], keys[0]}, accounts.SourceAssets)
}

func TestBuild_CreateOrder(t *testing.T) {
	keys := generateKeys(t, 12)
	seed, _ := findPoolSeed(t)

	path := writeRequest(t, "order.json", fmt.Sprintf(`{
  "operation": "create_order",
  "pool_seed": "%s",
  "side": "ask",
  "limit_price": 25,
  "trade_ratio": 65535,
  "order_type": "post_only",
  "client_id": 9,
  "source_slot_index": 1,
  "target_slot_index": 0,
  "market_index": 3,
  "coin_lot_size": 100,
  "price_lot_size": 10,
  "target_asset": "%s",
  "venue_request_limit": 5,
  "signal_provider": "%s",
  "market": "%s",
  "payer_pool_asset": "%s",
  "open_orders": "%s",
  "event_queue": "%s",
  "request_queue": "%s",
  "bids": "%s",
  "asks": "%s",
  "pool": "%s",
  "coin_vault": "%s",
  "price_vault": "%s",
  "discount_account": "%s"
}`, seed, b58(keys[0]), b58(keys[1]), b58(keys[2]), b58(keys[3]), b58(keys[4]), b58(keys[5]), b58(keys[6]),
		b58(keys[7]), b58(keys[8]), b58(keys[9]), b58(keys[10]), b58(keys[11]), b58(keys[0])))

	ix := build(t, &defaultConfig, path)
	require.Len(t, ix.Accounts, 15)

	args, accounts, err := signalpool.CreateOrderInstructionFromInstruction(ix)
	require.NoError(t, err)
	assert.Equal(t, &signalpool.CreateOrderInstructionArgs{
		PoolSeed:          seed,
		Side:              signalpool.SideAsk,
		LimitPrice:        25,
		TradeRatio:        65535,
		OrderType:         signalpool.OrderTypePostOnly,
		ClientID:          9,
		SelfTradeBehavior: signalpool.SelfTradeBehaviorDecrementTake,
		SourceSlotIndex:   1,
		TargetSlotIndex:   0,
		MarketIndex:       3,
		CoinLotSize:       100,
		PriceLotSize:      10,
		TargetAsset:       keys[0],
		VenueRequestLimit: 5,
	}, args)
	assert.Equal(t, keys[9], accounts.Pool)
	assert.Equal(t, signalpool.DEX_PROGRAM_ID, accounts.DexProgram)
	assert.Equal(t, keys[0], accounts.DiscountAccount)
}

func TestBuild_CancelOrder(t *testing.T) {
	keys := generateKeys(t, 6)
	seed, pool := findPoolSeed(t)

	path := writeRequest(t, "cancel.yaml", fmt.Sprintf(`
operation: cancel_order
pool_seed: "%s"
side: bid
order_id: "340282366920938463463374607431768211455"
signal_provider: %s
market: %s
open_orders: %s
bids: %s
asks: %s
event_queue: %s
`, seed, b58(keys[0]), b58(keys[1]), b58(keys[2]), b58(keys[3]), b58(keys[4]), b58(keys[5])))

	ix := build(t, &defaultConfig, path)

	args, accounts, err := signalpool.CancelOrderInstructionFromInstruction(ix)
	require.NoError(t, err)
	assert.Equal(t, signalpool.SideBid, args.Side)
	assert.Equal(t, signalpool.OrderID{Hi: ^uint64(0), Lo: ^uint64(0)}, args.OrderID)
	assert.Equal(t, pool, accounts.Pool)
}

func TestBuild_Create(t *testing.T) {
	keys := generateKeys(t, 9)
	seed, _ := findPoolSeed(t)

	path := writeRequest(t, "create.yaml", fmt.Sprintf(`
operation: create
pool_seed: "%s"
fee_collection_period: 604800
fee_ratio: 100
deposit_amounts: [1000000, 2000000]
markets: [%s]
signal_provider: %s
mint: %s
target_pool_token: %s
pool_assets: [%s, %s]
source_owner: %s
source_assets: [%s, %s]
`, seed, b58(keys[0]), b58(keys[1]), b58(keys[2]), b58(keys[3]), b58(keys[4]), b58(keys[5]), b58(keys[6]), b58(keys[7]), b58(keys[8])))

	ix := build(t, &defaultConfig, path)

	args, accounts, err := signalpool.CreateInstructionFromInstruction(ix)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1000000, 2000000}, args.DepositAmounts)
	assert.Equal(t, []ed25519.PublicKey{keys[0]}, args.Markets)
	assert.Len(t, accounts.PoolAssets, 2)

	view, err := newInstructionView(ix)
	require.NoError(t, err)
	assert.Equal(t, "create", view.Type)
	require.Len(t, view.Accounts, 12)
	assert.Equal(t, "pool_asset[1]", view.Accounts[8].Role)
	assert.Equal(t, "source_owner", view.Accounts[9].Role)
	assert.True(t, view.Accounts[9].Signer)
	assert.Equal(t, base58.Encode(ix.Data), view.Data)
}

func TestBuild_ProgramOverride(t *testing.T) {
	keys := generateKeys(t, 4)
	var prefix [signalpool.PoolSeedSize - 1]byte
	seed, pool, err := signalpool.FindPoolSeed(keys[0], prefix)
	require.NoError(t, err)

	path := writeRequest(t, "collect.yaml", fmt.Sprintf(`
operation: collect_fees
pool_seed: "%s"
mint: %s
signal_provider_pool_token: %s
`, seed, b58(keys[1]), b58(keys[2])))

	config := &Config{
		ProgramAddress: b58(keys[0]),
		FeeWallet:      b58(keys[3]),
	}
	ix := build(t, config, path)
	assert.Equal(t, keys[0], ix.Program)
	assert.Equal(t, pool, ix.Accounts[2].PublicKey)

	fee, err := token.GetAssociatedAccount(keys[3], keys[1])
	require.NoError(t, err)
	assert.Equal(t, fee, ix.Accounts[5].PublicKey)

	_, _, err = signalpool.CollectFeesInstructionFromInstruction(ix)
	assert.Equal(t, signalpool.ErrInvalidProgram, err)
}

func TestBuild_Errors(t *testing.T) {
	keys := generateKeys(t, 3)
	seed, _ := findPoolSeed(t)
	env, err := newBuildEnv(&defaultConfig)
	require.NoError(t, err)

	for _, tc := range []struct {
		request  string
		expected string
	}{
		{"operation: swap\n", "unsupported operation"},
		{fmt.Sprintf("operation: init\npool_seed: \"%s\"\npayer: %s\n", seed, b58(keys[0])), "missing mint"},
		{fmt.Sprintf("operation: init\npool_seed: \"%s\"\nmint: abc\npayer: %s\n", seed, b58(keys[0])), "invalid mint"},
		{fmt.Sprintf("operation: init\npool_seed: 00ff\nmint: %s\npayer: %s\n", b58(keys[0]), b58(keys[1])), "invalid pool seed"},
		{fmt.Sprintf("operation: cancel_order\npool_seed: \"%s\"\nside: sell\n", seed), "unknown side"},
		{fmt.Sprintf("operation: redeem\npool_seed: \"%s\"\nmint: %s\nsource_pool_token_owner: %s\nsource_pool_token: %s\npool_assets: [%s]\n",
			seed, b58(keys[0]), b58(keys[1]), b58(keys[2]), b58(keys[0])), "parameter mismatch"},
	} {
		req, err := readRequest(writeRequest(t, "request.yaml", tc.request))
		require.NoError(t, err)

		_, err = env.build(req)
		require.Error(t, err, tc.request)
		assert.Contains(t, err.Error(), tc.expected)
	}

	_, err = readRequest(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBuild_ZeroLimitPriceRejected(t *testing.T) {
	keys := generateKeys(t, 1)
	seed, _ := findPoolSeed(t)
	k := b58(keys[0])

	path := writeRequest(t, "order.yaml", fmt.Sprintf(`
operation: create_order
pool_seed: "%s"
side: bid
limit_price: 0
trade_ratio: 1
target_asset: %s
signal_provider: %s
market: %s
payer_pool_asset: %s
open_orders: %s
event_queue: %s
request_queue: %s
bids: %s
asks: %s
coin_vault: %s
price_vault: %s
`, seed, k, k, k, k, k, k, k, k, k, k, k))

	env, err := newBuildEnv(&defaultConfig)
	require.NoError(t, err)
	req, err := readRequest(path)
	require.NoError(t, err)

	_, err = env.build(req)
	assert.True(t, errors.Is(err, signalpool.ErrInvalidInstruction))
}

func TestParsePoolSeed(t *testing.T) {
	var expected signalpool.PoolSeed
	for i := range expected {
		expected[i] = byte(i)
	}

	seed, err := parsePoolSeed(hex.EncodeToString(expected[:]))
	require.NoError(t, err)
	assert.Equal(t, expected, seed)

	seed, err = parsePoolSeed(base58.Encode(expected[:]))
	require.NoError(t, err)
	assert.Equal(t, expected, seed)

	_, err = parsePoolSeed(base58.Encode(expected[:31]))
	assert.Error(t, err)
	_, err = parsePoolSeed("")
	assert.Error(t, err)
}

func build(t *testing.T, config *Config, path string) solana.Instruction {
	env, err := newBuildEnv(config)
	require.NoError(t, err)

	req, err := readRequest(path)
	require.NoError(t, err)

	ix, err := env.build(req)
	require.NoError(t, err)
	return ix
}

func writeRequest(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func findPoolSeed(t *testing.T) (signalpool.PoolSeed, ed25519.PublicKey) {
	var prefix [signalpool.PoolSeedSize - 1]byte
	copy(prefix[:], generateKeys(t, 1)[0])

	seed, pool, err := signalpool.FindPoolSeed(signalpool.PROGRAM_ID, prefix)
	require.NoError(t, err)
	return seed, pool
}

func generateKeys(t *testing.T, amount int) []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, amount)

	for i := 0; i < amount; i++ {
		pub, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)

		keys[i] = pub
	}

	return keys
}

func b58(key ed25519.PublicKey) string {
	return base58.Encode(key)
}
