package signalpool

import (
	"bytes"
	"crypto/ed25519"

	"github.com/code-payments/signal-pool/pkg/solana"
	"github.com/code-payments/signal-pool/pkg/solana/system"
	"github.com/code-payments/signal-pool/pkg/solana/token"
)

const (
	CollectFeesInstructionArgsSize = PoolSeedSize // pool_seed
)

// CollectFeesInstructionArgs triggers signal provider and protocol fee
// collection. Anyone can send it.
type CollectFeesInstructionArgs struct {
	PoolSeed PoolSeed
}

// CollectFeesInstructionAccounts lists the accounts of a CollectFees. Nil fee
// destinations are derived the same way as for Deposit.
type CollectFeesInstructionAccounts struct {
	Pool                    ed25519.PublicKey
	Mint                    ed25519.PublicKey
	SignalProviderPoolToken ed25519.PublicKey
	FeeDestination          ed25519.PublicKey
	BuyAndBurnDestination   ed25519.PublicKey

	WellKnown *WellKnownAccounts
}

var collectFeesAccountSchedule = AccountSchedule{
	{Role: "token_program"},
	{Role: "clock_sysvar"},
	{Role: "pool", IsWritable: true},
	{Role: "mint", IsWritable: true},
	{Role: "signal_provider_pool_token", IsWritable: true},
	{Role: "fee_destination", IsWritable: true},
	{Role: "buy_and_burn_destination", IsWritable: true},
}

func (args *CollectFeesInstructionArgs) Type() InstructionType { return InstructionTypeCollectFees }
func (args *CollectFeesInstructionArgs) Seed() PoolSeed        { return args.PoolSeed }
func (args *CollectFeesInstructionArgs) isOperation()          {}

func (args *CollectFeesInstructionArgs) Marshal() []byte {
	var offset int

	data := make([]byte, 1+CollectFeesInstructionArgsSize)

	putInstructionType(data, InstructionTypeCollectFees, &offset)
	putSeed(data, args.PoolSeed, &offset)

	return data
}

func (args *CollectFeesInstructionArgs) Unmarshal(data []byte) error {
	var offset int
	if err := checkInstruction(data, InstructionTypeCollectFees, CollectFeesInstructionArgsSize, &offset); err != nil {
		return err
	}

	getSeed(data, &args.PoolSeed, &offset)

	return nil
}

func NewCollectFeesInstruction(
	accounts *CollectFeesInstructionAccounts,
	args *CollectFeesInstructionArgs,
) (solana.Instruction, error) {
	fee, buyAndBurn, err := feeDestinations(accounts.WellKnown, accounts.Mint, accounts.FeeDestination, accounts.BuyAndBurnDestination)
	if err != nil {
		return solana.Instruction{}, err
	}

	metas, err := collectFeesAccountSchedule.accountMetas(
		one(token.ProgramKey),
		one(system.ClockSysVar),
		one(accounts.Pool),
		one(accounts.Mint),
		one(accounts.SignalProviderPoolToken),
		one(fee),
		one(buyAndBurn),
	)
	if err != nil {
		return solana.Instruction{}, err
	}

	return solana.NewInstruction(PROGRAM_ID, args.Marshal(), metas...), nil
}

func CollectFeesInstructionFromInstruction(ix solana.Instruction) (*CollectFeesInstructionArgs, *CollectFeesInstructionAccounts, error) {
	if !bytes.Equal(ix.Program, PROGRAM_ID) {
		return nil, nil, ErrInvalidProgram
	}

	var args CollectFeesInstructionArgs
	if err := args.Unmarshal(ix.Data); err != nil {
		return nil, nil, err
	}

	keys, err := collectFeesAccountSchedule.split(ix.Accounts)
	if err != nil {
		return nil, nil, err
	}
	err = checkProgramAccounts(keys, map[int]ed25519.PublicKey{
		0: token.ProgramKey,
		1: system.ClockSysVar,
	})
	if err != nil {
		return nil, nil, err
	}

	return &args, &CollectFeesInstructionAccounts{
		Pool:                    keys[2][0],
		Mint:                    keys[3][0],
		SignalProviderPoolToken: keys[4][0],
		FeeDestination:          keys[5][0],
		BuyAndBurnDestination:   keys[6][0],
	}, nil
}
