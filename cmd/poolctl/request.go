package main

import (
	"crypto/ed25519"
	"encoding/hex"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/signal-pool/pkg/solana"
	"github.com/code-payments/signal-pool/pkg/solana/signalpool"
)

// Request files hold one operation. Field names match the decode output.
// Addresses are base58, pool seeds are hex or base58 and order ids are base
// 10. An empty pool address is derived from the pool seed.

type initRequest struct {
	PoolSeed        string `mapstructure:"pool_seed"`
	MaxAssetSlots   uint32 `mapstructure:"max_asset_slots"`
	MarketSlotCount uint16 `mapstructure:"market_slot_count"`

	Pool  string `mapstructure:"pool"`
	Mint  string `mapstructure:"mint"`
	Payer string `mapstructure:"payer"`
}

type createRequest struct {
	PoolSeed            string   `mapstructure:"pool_seed"`
	FeeCollectionPeriod uint64   `mapstructure:"fee_collection_period"`
	FeeRatio            uint16   `mapstructure:"fee_ratio"`
	DepositAmounts      []uint64 `mapstructure:"deposit_amounts"`
	Markets             []string `mapstructure:"markets"`

	SignalProvider  string   `mapstructure:"signal_provider"`
	Mint            string   `mapstructure:"mint"`
	TargetPoolToken string   `mapstructure:"target_pool_token"`
	Pool            string   `mapstructure:"pool"`
	PoolAssets      []string `mapstructure:"pool_assets"`
	SourceOwner     string   `mapstructure:"source_owner"`
	SourceAssets    []string `mapstructure:"source_assets"`
}

type depositRequest struct {
	PoolSeed        string `mapstructure:"pool_seed"`
	PoolTokenAmount uint64 `mapstructure:"pool_token_amount"`

	Mint                    string   `mapstructure:"mint"`
	TargetPoolToken         string   `mapstructure:"target_pool_token"`
	SignalProviderPoolToken string   `mapstructure:"signal_provider_pool_token"`
	FeeDestination          string   `mapstructure:"fee_destination"`
	BuyAndBurnDestination   string   `mapstructure:"buy_and_burn_destination"`
	Pool                    string   `mapstructure:"pool"`
	PoolAssets              []string `mapstructure:"pool_assets"`
	SourceOwner             string   `mapstructure:"source_owner"`
	SourceAssets            []string `mapstructure:"source_assets"`
}

type createOrderRequest struct {
	PoolSeed          string `mapstructure:"pool_seed"`
	Side              string `mapstructure:"side"`
	LimitPrice        uint64 `mapstructure:"limit_price"`
	TradeRatio        uint16 `mapstructure:"trade_ratio"`
	OrderType         string `mapstructure:"order_type"`
	ClientID          uint64 `mapstructure:"client_id"`
	SelfTradeBehavior string `mapstructure:"self_trade_behavior"`
	SourceSlotIndex   uint64 `mapstructure:"source_slot_index"`
	TargetSlotIndex   uint64 `mapstructure:"target_slot_index"`
	MarketIndex       uint16 `mapstructure:"market_index"`
	CoinLotSize       uint64 `mapstructure:"coin_lot_size"`
	PriceLotSize      uint64 `mapstructure:"price_lot_size"`
	TargetAsset       string `mapstructure:"target_asset"`
	VenueRequestLimit uint16 `mapstructure:"venue_request_limit"`

	SignalProvider  string `mapstructure:"signal_provider"`
	Market          string `mapstructure:"market"`
	PayerPoolAsset  string `mapstructure:"payer_pool_asset"`
	OpenOrders      string `mapstructure:"open_orders"`
	EventQueue      string `mapstructure:"event_queue"`
	RequestQueue    string `mapstructure:"request_queue"`
	Bids            string `mapstructure:"bids"`
	Asks            string `mapstructure:"asks"`
	Pool            string `mapstructure:"pool"`
	CoinVault       string `mapstructure:"coin_vault"`
	PriceVault      string `mapstructure:"price_vault"`
	DiscountAccount string `mapstructure:"discount_account"`
}

type cancelOrderRequest struct {
	PoolSeed string `mapstructure:"pool_seed"`
	Side     string `mapstructure:"side"`
	OrderID  string `mapstructure:"order_id"`

	SignalProvider string `mapstructure:"signal_provider"`
	Market         string `mapstructure:"market"`
	OpenOrders     string `mapstructure:"open_orders"`
	Bids           string `mapstructure:"bids"`
	Asks           string `mapstructure:"asks"`
	EventQueue     string `mapstructure:"event_queue"`
	Pool           string `mapstructure:"pool"`
}

type settleFundsRequest struct {
	PoolSeed       string `mapstructure:"pool_seed"`
	PriceSlotIndex uint64 `mapstructure:"price_slot_index"`
	CoinSlotIndex  uint64 `mapstructure:"coin_slot_index"`

	Market              string `mapstructure:"market"`
	OpenOrders          string `mapstructure:"open_orders"`
	Pool                string `mapstructure:"pool"`
	PoolTokenMint       string `mapstructure:"pool_token_mint"`
	CoinVault           string `mapstructure:"coin_vault"`
	PriceVault          string `mapstructure:"price_vault"`
	PoolCoinWallet      string `mapstructure:"pool_coin_wallet"`
	PoolPriceWallet     string `mapstructure:"pool_price_wallet"`
	VaultSigner         string `mapstructure:"vault_signer"`
	ReferrerPriceWallet string `mapstructure:"referrer_price_wallet"`
}

type redeemRequest struct {
	PoolSeed        string `mapstructure:"pool_seed"`
	PoolTokenAmount uint64 `mapstructure:"pool_token_amount"`

	Mint                 string   `mapstructure:"mint"`
	SourcePoolTokenOwner string   `mapstructure:"source_pool_token_owner"`
	SourcePoolToken      string   `mapstructure:"source_pool_token"`
	Pool                 string   `mapstructure:"pool"`
	PoolAssets           []string `mapstructure:"pool_assets"`
	TargetAssets         []string `mapstructure:"target_assets"`
}

type collectFeesRequest struct {
	PoolSeed string `mapstructure:"pool_seed"`

	Pool                    string `mapstructure:"pool"`
	Mint                    string `mapstructure:"mint"`
	SignalProviderPoolToken string `mapstructure:"signal_provider_pool_token"`
	FeeDestination          string `mapstructure:"fee_destination"`
	BuyAndBurnDestination   string `mapstructure:"buy_and_burn_destination"`
}

// requestParser keeps the first error so a request can be converted in one
// pass and checked once.
type requestParser struct {
	program ed25519.PublicKey
	err     error
}

func (p *requestParser) key(name, value string) ed25519.PublicKey {
	if p.err != nil {
		return nil
	}
	if len(value) == 0 {
		p.err = errors.Errorf("missing %s", name)
		return nil
	}

	pub, err := solana.ParsePublicKey(value)
	if err != nil {
		p.err = errors.Wrapf(err, "invalid %s", name)
		return nil
	}
	return pub
}

func (p *requestParser) optionalKey(name, value string) ed25519.PublicKey {
	if len(value) == 0 {
		return nil
	}
	return p.key(name, value)
}

func (p *requestParser) keys(name string, values []string) []ed25519.PublicKey {
	if len(values) == 0 {
		return nil
	}

	keys := make([]ed25519.PublicKey, len(values))
	for i, value := range values {
		keys[i] = p.key(name, value)
	}
	return keys
}

func (p *requestParser) seed(value string) signalpool.PoolSeed {
	var seed signalpool.PoolSeed
	if p.err != nil {
		return seed
	}

	decoded, err := parsePoolSeed(value)
	if err != nil {
		p.err = err
		return seed
	}
	return decoded
}

// pool returns the configured pool address, or derives it from the seed.
func (p *requestParser) pool(value string, seed signalpool.PoolSeed) ed25519.PublicKey {
	if p.err != nil || len(value) > 0 {
		return p.key("pool", value)
	}

	pool, err := signalpool.GetPoolAddress(p.program, seed)
	if err != nil {
		p.err = errors.Wrap(err, "failed to derive pool address")
		return nil
	}
	return pool
}

func (p *requestParser) side(value string) signalpool.Side {
	if p.err != nil {
		return 0
	}

	side, err := signalpool.ParseSide(value)
	p.err = err
	return side
}

func (p *requestParser) orderType(value string) signalpool.OrderType {
	if p.err != nil || len(value) == 0 {
		return signalpool.OrderTypeLimit
	}

	orderType, err := signalpool.ParseOrderType(value)
	p.err = err
	return orderType
}

func (p *requestParser) selfTradeBehavior(value string) signalpool.SelfTradeBehavior {
	if p.err != nil || len(value) == 0 {
		return signalpool.SelfTradeBehaviorDecrementTake
	}

	behavior, err := signalpool.ParseSelfTradeBehavior(value)
	p.err = err
	return behavior
}

func (p *requestParser) orderID(value string) signalpool.OrderID {
	if p.err != nil {
		return signalpool.OrderID{}
	}

	id, err := signalpool.ParseOrderID(value)
	p.err = err
	return id
}

// parsePoolSeed accepts 64 hex characters or a base58 encoded 32 byte value.
func parsePoolSeed(value string) (signalpool.PoolSeed, error) {
	var seed signalpool.PoolSeed

	decoded, err := hex.DecodeString(value)
	if err != nil || len(decoded) != signalpool.PoolSeedSize {
		decoded, err = base58.Decode(value)
		if err != nil {
			return seed, errors.Wrapf(err, "invalid pool seed %q", value)
		}
	}
	if len(decoded) != signalpool.PoolSeedSize {
		return seed, errors.Errorf("invalid pool seed length: %d (expected %d)", len(decoded), signalpool.PoolSeedSize)
	}

	copy(seed[:], decoded)
	return seed, nil
}
