package signalpool

import (
	"bytes"
	"crypto/ed25519"

	"github.com/code-payments/signal-pool/pkg/solana"
)

const (
	CancelOrderInstructionArgsSize = (PoolSeedSize + // pool_seed
		1 + // side
		16) // order_id
)

// CancelOrderInstructionArgs cancels one of the pool's resting DEX orders.
type CancelOrderInstructionArgs struct {
	PoolSeed PoolSeed
	Side     Side
	OrderID  OrderID
}

type CancelOrderInstructionAccounts struct {
	SignalProvider ed25519.PublicKey
	Market         ed25519.PublicKey
	OpenOrders     ed25519.PublicKey
	Bids           ed25519.PublicKey
	Asks           ed25519.PublicKey
	EventQueue     ed25519.PublicKey
	Pool           ed25519.PublicKey
	DexProgram     ed25519.PublicKey
}

var cancelOrderAccountSchedule = AccountSchedule{
	{Role: "signal_provider", IsSigner: true},
	{Role: "market"},
	{Role: "open_orders", IsWritable: true},
	{Role: "bids", IsWritable: true},
	{Role: "asks", IsWritable: true},
	{Role: "event_queue", IsWritable: true},
	{Role: "pool"},
	{Role: "dex_program"},
}

func (args *CancelOrderInstructionArgs) Type() InstructionType { return InstructionTypeCancelOrder }
func (args *CancelOrderInstructionArgs) Seed() PoolSeed        { return args.PoolSeed }
func (args *CancelOrderInstructionArgs) isOperation()          {}

func (args *CancelOrderInstructionArgs) Marshal() []byte {
	var offset int

	data := make([]byte, 1+CancelOrderInstructionArgsSize)

	putInstructionType(data, InstructionTypeCancelOrder, &offset)
	putSeed(data, args.PoolSeed, &offset)
	putUint8(data, uint8(args.Side), &offset)
	putOrderID(data, args.OrderID, &offset)

	return data
}

func (args *CancelOrderInstructionArgs) Unmarshal(data []byte) error {
	var offset int
	if err := checkInstruction(data, InstructionTypeCancelOrder, CancelOrderInstructionArgsSize, &offset); err != nil {
		return err
	}

	var side uint8
	getSeed(data, &args.PoolSeed, &offset)
	getUint8(data, &side, &offset)
	getOrderID(data, &args.OrderID, &offset)

	var err error
	args.Side, err = toSide(side)
	return err
}

func NewCancelOrderInstruction(
	accounts *CancelOrderInstructionAccounts,
	args *CancelOrderInstructionArgs,
) (solana.Instruction, error) {
	metas, err := cancelOrderAccountSchedule.accountMetas(
		one(accounts.SignalProvider),
		one(accounts.Market),
		one(accounts.OpenOrders),
		one(accounts.Bids),
		one(accounts.Asks),
		one(accounts.EventQueue),
		one(accounts.Pool),
		one(accounts.DexProgram),
	)
	if err != nil {
		return solana.Instruction{}, err
	}

	return solana.NewInstruction(PROGRAM_ID, args.Marshal(), metas...), nil
}

func CancelOrderInstructionFromInstruction(ix solana.Instruction) (*CancelOrderInstructionArgs, *CancelOrderInstructionAccounts, error) {
	if !bytes.Equal(ix.Program, PROGRAM_ID) {
		return nil, nil, ErrInvalidProgram
	}

	var args CancelOrderInstructionArgs
	if err := args.Unmarshal(ix.Data); err != nil {
		return nil, nil, err
	}

	keys, err := cancelOrderAccountSchedule.split(ix.Accounts)
	if err != nil {
		return nil, nil, err
	}

	return &args, &CancelOrderInstructionAccounts{
		SignalProvider: keys[0][0],
		Market:         keys[1][0],
		OpenOrders:     keys[2][0],
		Bids:           keys[3][0],
		Asks:           keys[4][0],
		EventQueue:     keys[5][0],
		Pool:           keys[6][0],
		DexProgram:     keys[7][0],
	}, nil
}
