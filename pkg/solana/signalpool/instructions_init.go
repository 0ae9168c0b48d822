package signalpool

import (
	"bytes"
	"crypto/ed25519"

	"github.com/code-payments/signal-pool/pkg/solana"
	"github.com/code-payments/signal-pool/pkg/solana/system"
	"github.com/code-payments/signal-pool/pkg/solana/token"
)

const (
	InitInstructionArgsSize = (PoolSeedSize + // pool_seed
		4 + // max_asset_slots
		2) // market_slot_count
)

// InitInstructionArgs allocates an empty pool account.
type InitInstructionArgs struct {
	PoolSeed PoolSeed

	// The maximum number of asset types the pool will ever hold
	MaxAssetSlots   uint32
	MarketSlotCount uint16
}

type InitInstructionAccounts struct {
	Pool  ed25519.PublicKey
	Mint  ed25519.PublicKey
	Payer ed25519.PublicKey
}

var initAccountSchedule = AccountSchedule{
	{Role: "system_program"},
	{Role: "rent_sysvar"},
	{Role: "token_program"},
	{Role: "pool", IsWritable: true},
	{Role: "mint", IsWritable: true},
	{Role: "payer", IsWritable: true, IsSigner: true},
}

func (args *InitInstructionArgs) Type() InstructionType { return InstructionTypeInit }
func (args *InitInstructionArgs) Seed() PoolSeed        { return args.PoolSeed }
func (args *InitInstructionArgs) isOperation()          {}

func (args *InitInstructionArgs) Marshal() []byte {
	var offset int

	data := make([]byte, 1+InitInstructionArgsSize)

	putInstructionType(data, InstructionTypeInit, &offset)
	putSeed(data, args.PoolSeed, &offset)
	putUint32(data, args.MaxAssetSlots, &offset)
	putUint16(data, args.MarketSlotCount, &offset)

	return data
}

func (args *InitInstructionArgs) Unmarshal(data []byte) error {
	var offset int
	if err := checkInstruction(data, InstructionTypeInit, InitInstructionArgsSize, &offset); err != nil {
		return err
	}

	getSeed(data, &args.PoolSeed, &offset)
	getUint32(data, &args.MaxAssetSlots, &offset)
	getUint16(data, &args.MarketSlotCount, &offset)

	return nil
}

func NewInitInstruction(
	accounts *InitInstructionAccounts,
	args *InitInstructionArgs,
) (solana.Instruction, error) {
	metas, err := initAccountSchedule.accountMetas(
		one(system.ProgramKey),
		one(system.RentSysVar),
		one(token.ProgramKey),
		one(accounts.Pool),
		one(accounts.Mint),
		one(accounts.Payer),
	)
	if err != nil {
		return solana.Instruction{}, err
	}

	return solana.NewInstruction(PROGRAM_ID, args.Marshal(), metas...), nil
}

func InitInstructionFromInstruction(ix solana.Instruction) (*InitInstructionArgs, *InitInstructionAccounts, error) {
	if !bytes.Equal(ix.Program, PROGRAM_ID) {
		return nil, nil, ErrInvalidProgram
	}

	var args InitInstructionArgs
	if err := args.Unmarshal(ix.Data); err != nil {
		return nil, nil, err
	}

	keys, err := initAccountSchedule.split(ix.Accounts)
	if err != nil {
		return nil, nil, err
	}
	err = checkProgramAccounts(keys, map[int]ed25519.PublicKey{
		0: system.ProgramKey,
		1: system.RentSysVar,
		2: token.ProgramKey,
	})
	if err != nil {
		return nil, nil, err
	}

	return &args, &InitInstructionAccounts{
		Pool:  keys[3][0],
		Mint:  keys[4][0],
		Payer: keys[5][0],
	}, nil
}
