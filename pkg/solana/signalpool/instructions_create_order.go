package signalpool

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/signal-pool/pkg/solana"
	"github.com/code-payments/signal-pool/pkg/solana/system"
	"github.com/code-payments/signal-pool/pkg/solana/token"
)

const (
	CreateOrderInstructionArgsSize = (PoolSeedSize + // pool_seed
		1 + // side
		8 + // limit_price
		2 + // trade_ratio
		1 + // order_type
		8 + // client_id
		1 + // self_trade_behavior
		8 + // source_slot_index
		8 + // target_slot_index
		2 + // market_index
		8 + // coin_lot_size
		8 + // price_lot_size
		ed25519.PublicKeySize + // target_asset
		2) // venue_request_limit
)

// CreateOrderInstructionArgs places a DEX order on behalf of the pool.
type CreateOrderInstructionArgs struct {
	PoolSeed PoolSeed
	Side     Side

	// Must be nonzero
	LimitPrice uint64

	// Share of the source asset holdings to commit, out of 65535. Must be nonzero.
	TradeRatio uint16

	OrderType         OrderType
	ClientID          uint64
	SelfTradeBehavior SelfTradeBehavior

	SourceSlotIndex uint64
	TargetSlotIndex uint64
	MarketIndex     uint16
	CoinLotSize     uint64
	PriceLotSize    uint64

	// Mint of the asset bought with the order
	TargetAsset ed25519.PublicKey

	VenueRequestLimit uint16
}

type CreateOrderInstructionAccounts struct {
	SignalProvider ed25519.PublicKey
	Market         ed25519.PublicKey
	PayerPoolAsset ed25519.PublicKey
	OpenOrders     ed25519.PublicKey
	EventQueue     ed25519.PublicKey
	RequestQueue   ed25519.PublicKey
	Bids           ed25519.PublicKey
	Asks           ed25519.PublicKey
	Pool           ed25519.PublicKey
	CoinVault      ed25519.PublicKey
	PriceVault     ed25519.PublicKey
	DexProgram     ed25519.PublicKey

	// Optional (M)SRM fee discount account
	DiscountAccount ed25519.PublicKey
}

var createOrderAccountSchedule = AccountSchedule{
	{Role: "signal_provider", IsSigner: true},
	{Role: "market", IsWritable: true},
	{Role: "payer_pool_asset", IsWritable: true},
	{Role: "open_orders", IsWritable: true},
	{Role: "event_queue", IsWritable: true},
	{Role: "request_queue", IsWritable: true},
	{Role: "bids", IsWritable: true},
	{Role: "asks", IsWritable: true},
	{Role: "pool", IsWritable: true},
	{Role: "coin_vault", IsWritable: true},
	{Role: "price_vault", IsWritable: true},
	{Role: "token_program"},
	{Role: "rent_sysvar"},
	{Role: "dex_program"},
	{Role: "discount_account", IsWritable: true, Optional: true},
}

func (args *CreateOrderInstructionArgs) Type() InstructionType { return InstructionTypeCreateOrder }
func (args *CreateOrderInstructionArgs) Seed() PoolSeed        { return args.PoolSeed }
func (args *CreateOrderInstructionArgs) isOperation()          {}

func (args *CreateOrderInstructionArgs) Marshal() []byte {
	var offset int

	data := make([]byte, 1+CreateOrderInstructionArgsSize)

	putInstructionType(data, InstructionTypeCreateOrder, &offset)
	putSeed(data, args.PoolSeed, &offset)
	putUint8(data, uint8(args.Side), &offset)
	putUint64(data, args.LimitPrice, &offset)
	putUint16(data, args.TradeRatio, &offset)
	putUint8(data, uint8(args.OrderType), &offset)
	putUint64(data, args.ClientID, &offset)
	putUint8(data, uint8(args.SelfTradeBehavior), &offset)
	putUint64(data, args.SourceSlotIndex, &offset)
	putUint64(data, args.TargetSlotIndex, &offset)
	putUint16(data, args.MarketIndex, &offset)
	putUint64(data, args.CoinLotSize, &offset)
	putUint64(data, args.PriceLotSize, &offset)
	putKey(data, args.TargetAsset, &offset)
	putUint16(data, args.VenueRequestLimit, &offset)

	return data
}

func (args *CreateOrderInstructionArgs) Unmarshal(data []byte) error {
	var offset int
	if err := checkInstruction(data, InstructionTypeCreateOrder, CreateOrderInstructionArgsSize, &offset); err != nil {
		return err
	}

	var side, orderType, selfTradeBehavior uint8

	getSeed(data, &args.PoolSeed, &offset)
	getUint8(data, &side, &offset)
	getUint64(data, &args.LimitPrice, &offset)
	getUint16(data, &args.TradeRatio, &offset)
	getUint8(data, &orderType, &offset)
	getUint64(data, &args.ClientID, &offset)
	getUint8(data, &selfTradeBehavior, &offset)
	getUint64(data, &args.SourceSlotIndex, &offset)
	getUint64(data, &args.TargetSlotIndex, &offset)
	getUint16(data, &args.MarketIndex, &offset)
	getUint64(data, &args.CoinLotSize, &offset)
	getUint64(data, &args.PriceLotSize, &offset)
	getKey(data, &args.TargetAsset, &offset)
	getUint16(data, &args.VenueRequestLimit, &offset)

	var err error
	if args.Side, err = toSide(side); err != nil {
		return err
	}
	if args.OrderType, err = toOrderType(orderType); err != nil {
		return err
	}
	if args.SelfTradeBehavior, err = toSelfTradeBehavior(selfTradeBehavior); err != nil {
		return err
	}

	return args.validate()
}

func (args *CreateOrderInstructionArgs) validate() error {
	if args.LimitPrice == 0 {
		return errors.Wrap(ErrInvalidInstruction, "limit price must be nonzero")
	}
	if args.TradeRatio == 0 {
		return errors.Wrap(ErrInvalidInstruction, "trade ratio must be nonzero")
	}
	return nil
}

func NewCreateOrderInstruction(
	accounts *CreateOrderInstructionAccounts,
	args *CreateOrderInstructionArgs,
) (solana.Instruction, error) {
	if err := args.validate(); err != nil {
		return solana.Instruction{}, err
	}

	metas, err := createOrderAccountSchedule.accountMetas(
		one(accounts.SignalProvider),
		one(accounts.Market),
		one(accounts.PayerPoolAsset),
		one(accounts.OpenOrders),
		one(accounts.EventQueue),
		one(accounts.RequestQueue),
		one(accounts.Bids),
		one(accounts.Asks),
		one(accounts.Pool),
		one(accounts.CoinVault),
		one(accounts.PriceVault),
		one(token.ProgramKey),
		one(system.RentSysVar),
		one(accounts.DexProgram),
		optional(accounts.DiscountAccount),
	)
	if err != nil {
		return solana.Instruction{}, err
	}

	return solana.NewInstruction(PROGRAM_ID, args.Marshal(), metas...), nil
}

func CreateOrderInstructionFromInstruction(ix solana.Instruction) (*CreateOrderInstructionArgs, *CreateOrderInstructionAccounts, error) {
	if !bytes.Equal(ix.Program, PROGRAM_ID) {
		return nil, nil, ErrInvalidProgram
	}

	var args CreateOrderInstructionArgs
	if err := args.Unmarshal(ix.Data); err != nil {
		return nil, nil, err
	}

	keys, err := createOrderAccountSchedule.split(ix.Accounts)
	if err != nil {
		return nil, nil, err
	}
	err = checkProgramAccounts(keys, map[int]ed25519.PublicKey{
		11: token.ProgramKey,
		12: system.RentSysVar,
	})
	if err != nil {
		return nil, nil, err
	}

	accounts := &CreateOrderInstructionAccounts{
		SignalProvider: keys[0][0],
		Market:         keys[1][0],
		PayerPoolAsset: keys[2][0],
		OpenOrders:     keys[3][0],
		EventQueue:     keys[4][0],
		RequestQueue:   keys[5][0],
		Bids:           keys[6][0],
		Asks:           keys[7][0],
		Pool:           keys[8][0],
		CoinVault:      keys[9][0],
		PriceVault:     keys[10][0],
		DexProgram:     keys[13][0],
	}
	if len(keys[14]) > 0 {
		accounts.DiscountAccount = keys[14][0]
	}
	return &args, accounts, nil
}
