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
	RedeemInstructionArgsSize = (PoolSeedSize + // pool_seed
		8) // pool_token_amount
)

// RedeemInstructionArgs burns pool tokens in exchange for the matching share
// of every pool asset. Open orders must be settled first in the same
// transaction.
type RedeemInstructionArgs struct {
	PoolSeed        PoolSeed
	PoolTokenAmount uint64
}

type RedeemInstructionAccounts struct {
	Mint                 ed25519.PublicKey
	SourcePoolTokenOwner ed25519.PublicKey
	SourcePoolToken      ed25519.PublicKey
	Pool                 ed25519.PublicKey
	PoolAssets           []ed25519.PublicKey
	TargetAssets         []ed25519.PublicKey
}

var redeemAccountSchedule = AccountSchedule{
	{Role: "token_program"},
	{Role: "clock_sysvar"},
	{Role: "mint", IsWritable: true},
	{Role: "source_pool_token_owner", IsSigner: true},
	{Role: "source_pool_token", IsWritable: true},
	{Role: "pool", IsWritable: true},
	{Role: "pool_asset", IsWritable: true, Repeated: true},
	{Role: "target_asset", IsWritable: true, Repeated: true},
}

func (args *RedeemInstructionArgs) Type() InstructionType { return InstructionTypeRedeem }
func (args *RedeemInstructionArgs) Seed() PoolSeed        { return args.PoolSeed }
func (args *RedeemInstructionArgs) isOperation()          {}

func (args *RedeemInstructionArgs) Marshal() []byte {
	var offset int

	data := make([]byte, 1+RedeemInstructionArgsSize)

	putInstructionType(data, InstructionTypeRedeem, &offset)
	putSeed(data, args.PoolSeed, &offset)
	putUint64(data, args.PoolTokenAmount, &offset)

	return data
}

func (args *RedeemInstructionArgs) Unmarshal(data []byte) error {
	var offset int
	if err := checkInstruction(data, InstructionTypeRedeem, RedeemInstructionArgsSize, &offset); err != nil {
		return err
	}

	getSeed(data, &args.PoolSeed, &offset)
	getUint64(data, &args.PoolTokenAmount, &offset)

	return nil
}

func NewRedeemInstruction(
	accounts *RedeemInstructionAccounts,
	args *RedeemInstructionArgs,
) (solana.Instruction, error) {
	if len(accounts.PoolAssets) != len(accounts.TargetAssets) {
		return solana.Instruction{}, errors.Wrapf(ErrParameterMismatch, "got %d pool assets and %d target assets", len(accounts.PoolAssets), len(accounts.TargetAssets))
	}

	metas, err := redeemAccountSchedule.accountMetas(
		one(token.ProgramKey),
		one(system.ClockSysVar),
		one(accounts.Mint),
		one(accounts.SourcePoolTokenOwner),
		one(accounts.SourcePoolToken),
		one(accounts.Pool),
		accounts.PoolAssets,
		accounts.TargetAssets,
	)
	if err != nil {
		return solana.Instruction{}, err
	}

	return solana.NewInstruction(PROGRAM_ID, args.Marshal(), metas...), nil
}

func RedeemInstructionFromInstruction(ix solana.Instruction) (*RedeemInstructionArgs, *RedeemInstructionAccounts, error) {
	if !bytes.Equal(ix.Program, PROGRAM_ID) {
		return nil, nil, ErrInvalidProgram
	}

	var args RedeemInstructionArgs
	if err := args.Unmarshal(ix.Data); err != nil {
		return nil, nil, err
	}

	keys, err := redeemAccountSchedule.split(ix.Accounts)
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

	return &args, &RedeemInstructionAccounts{
		Mint:                 keys[2][0],
		SourcePoolTokenOwner: keys[3][0],
		SourcePoolToken:      keys[4][0],
		Pool:                 keys[5][0],
		PoolAssets:           keys[6],
		TargetAssets:         keys[7],
	}, nil
}
