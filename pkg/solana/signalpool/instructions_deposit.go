package signalpool

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/signal-pool/pkg/solana"
	"github.com/code-payments/signal-pool/pkg/solana/token"
)

const (
	DepositInstructionArgsSize = (PoolSeedSize + // pool_seed
		8) // pool_token_amount
)

// DepositInstructionArgs buys into a pool. The program deposits source tokens
// in the ratio currently held by the pool and mints pool tokens to the target.
type DepositInstructionArgs struct {
	PoolSeed        PoolSeed
	PoolTokenAmount uint64
}

// DepositInstructionAccounts lists the accounts of a Deposit.
//
// FeeDestination and BuyAndBurnDestination are derived from WellKnown (or
// DefaultWellKnownAccounts) and Mint when left nil.
type DepositInstructionAccounts struct {
	Mint                    ed25519.PublicKey
	TargetPoolToken         ed25519.PublicKey
	SignalProviderPoolToken ed25519.PublicKey
	FeeDestination          ed25519.PublicKey
	BuyAndBurnDestination   ed25519.PublicKey
	Pool                    ed25519.PublicKey
	PoolAssets              []ed25519.PublicKey
	SourceOwner             ed25519.PublicKey
	SourceAssets            []ed25519.PublicKey

	WellKnown *WellKnownAccounts
}

var depositAccountSchedule = AccountSchedule{
	{Role: "token_program"},
	{Role: "mint", IsWritable: true},
	{Role: "target_pool_token", IsWritable: true},
	{Role: "signal_provider_pool_token", IsWritable: true},
	{Role: "fee_destination", IsWritable: true},
	{Role: "buy_and_burn_destination", IsWritable: true},
	{Role: "pool"},
	{Role: "pool_asset", IsWritable: true, Repeated: true},
	{Role: "source_owner", IsSigner: true},
	{Role: "source_asset", IsWritable: true, Repeated: true},
}

func (args *DepositInstructionArgs) Type() InstructionType { return InstructionTypeDeposit }
func (args *DepositInstructionArgs) Seed() PoolSeed        { return args.PoolSeed }
func (args *DepositInstructionArgs) isOperation()          {}

func (args *DepositInstructionArgs) Marshal() []byte {
	var offset int

	data := make([]byte, 1+DepositInstructionArgsSize)

	putInstructionType(data, InstructionTypeDeposit, &offset)
	putSeed(data, args.PoolSeed, &offset)
	putUint64(data, args.PoolTokenAmount, &offset)

	return data
}

func (args *DepositInstructionArgs) Unmarshal(data []byte) error {
	var offset int
	if err := checkInstruction(data, InstructionTypeDeposit, DepositInstructionArgsSize, &offset); err != nil {
		return err
	}

	getSeed(data, &args.PoolSeed, &offset)
	getUint64(data, &args.PoolTokenAmount, &offset)

	return nil
}

func NewDepositInstruction(
	accounts *DepositInstructionAccounts,
	args *DepositInstructionArgs,
) (solana.Instruction, error) {
	if len(accounts.PoolAssets) != len(accounts.SourceAssets) {
		return solana.Instruction{}, errors.Wrapf(ErrParameterMismatch, "got %d pool assets and %d source assets", len(accounts.PoolAssets), len(accounts.SourceAssets))
	}

	fee, buyAndBurn, err := feeDestinations(accounts.WellKnown, accounts.Mint, accounts.FeeDestination, accounts.BuyAndBurnDestination)
	if err != nil {
		return solana.Instruction{}, err
	}

	metas, err := depositAccountSchedule.accountMetas(
		one(token.ProgramKey),
		one(accounts.Mint),
		one(accounts.TargetPoolToken),
		one(accounts.SignalProviderPoolToken),
		one(fee),
		one(buyAndBurn),
		one(accounts.Pool),
		accounts.PoolAssets,
		one(accounts.SourceOwner),
		accounts.SourceAssets,
	)
	if err != nil {
		return solana.Instruction{}, err
	}

	return solana.NewInstruction(PROGRAM_ID, args.Marshal(), metas...), nil
}

func DepositInstructionFromInstruction(ix solana.Instruction) (*DepositInstructionArgs, *DepositInstructionAccounts, error) {
	if !bytes.Equal(ix.Program, PROGRAM_ID) {
		return nil, nil, ErrInvalidProgram
	}

	var args DepositInstructionArgs
	if err := args.Unmarshal(ix.Data); err != nil {
		return nil, nil, err
	}

	keys, err := depositAccountSchedule.split(ix.Accounts)
	if err != nil {
		return nil, nil, err
	}
	err = checkProgramAccounts(keys, map[int]ed25519.PublicKey{
		0: token.ProgramKey,
	})
	if err != nil {
		return nil, nil, err
	}

	return &args, &DepositInstructionAccounts{
		Mint:                    keys[1][0],
		TargetPoolToken:         keys[2][0],
		SignalProviderPoolToken: keys[3][0],
		FeeDestination:          keys[4][0],
		BuyAndBurnDestination:   keys[5][0],
		Pool:                    keys[6][0],
		PoolAssets:              keys[7],
		SourceOwner:             keys[8][0],
		SourceAssets:            keys[9],
	}, nil
}
