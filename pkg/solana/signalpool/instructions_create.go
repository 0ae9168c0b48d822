package signalpool

import (
	"bytes"
	"crypto/ed25519"
	"math"

	"github.com/pkg/errors"

	"github.com/code-payments/signal-pool/pkg/solana"
	"github.com/code-payments/signal-pool/pkg/solana/system"
	"github.com/code-payments/signal-pool/pkg/solana/token"
)

const (
	// Fixed part of Create. The market list and the deposit amounts follow.
	CreateInstructionArgsHeaderSize = (PoolSeedSize + // pool_seed
		2 + // market_count
		8 + // fee_collection_period
		2) // fee_ratio
)

// CreateInstructionArgs performs the first deposit into an initialized pool
// and fixes its markets and fee parameters.
//
// The number of deposit amounts is not transmitted. Decoding reads 8 byte
// groups after the market list until fewer than 8 bytes remain, so a partial
// trailing group is dropped rather than rejected.
type CreateInstructionArgs struct {
	PoolSeed PoolSeed

	// Seconds between fee collections
	FeeCollectionPeriod uint64
	FeeRatio            uint16

	// One amount per pool asset slot
	DepositAmounts []uint64

	// At most math.MaxUint16 markets are encoded. Marshal cuts a longer list
	// to its first 65535 entries; NewCreateInstruction rejects it instead.
	Markets []ed25519.PublicKey
}

type CreateInstructionAccounts struct {
	DexProgram      ed25519.PublicKey
	SignalProvider  ed25519.PublicKey
	Mint            ed25519.PublicKey
	TargetPoolToken ed25519.PublicKey
	Pool            ed25519.PublicKey
	PoolAssets      []ed25519.PublicKey
	SourceOwner     ed25519.PublicKey
	SourceAssets    []ed25519.PublicKey
}

var createAccountSchedule = AccountSchedule{
	{Role: "token_program"},
	{Role: "clock_sysvar"},
	{Role: "dex_program"},
	{Role: "signal_provider"},
	{Role: "mint", IsWritable: true},
	{Role: "target_pool_token", IsWritable: true},
	{Role: "pool", IsWritable: true},
	{Role: "pool_asset", IsWritable: true, Repeated: true},
	{Role: "source_owner", IsSigner: true},
	{Role: "source_asset", IsWritable: true, Repeated: true},
}

func (args *CreateInstructionArgs) Type() InstructionType { return InstructionTypeCreate }
func (args *CreateInstructionArgs) Seed() PoolSeed        { return args.PoolSeed }
func (args *CreateInstructionArgs) isOperation()          {}

// Marshal encodes args. Markets past math.MaxUint16 are dropped, since the
// count is a u16 on the wire.
func (args *CreateInstructionArgs) Marshal() []byte {
	var offset int

	markets := args.Markets
	if len(markets) > math.MaxUint16 {
		markets = markets[:math.MaxUint16]
	}

	data := make([]byte, 1+
		CreateInstructionArgsHeaderSize+
		len(markets)*ed25519.PublicKeySize+
		len(args.DepositAmounts)*8)

	putInstructionType(data, InstructionTypeCreate, &offset)
	putSeed(data, args.PoolSeed, &offset)
	putUint16(data, uint16(len(markets)), &offset)
	putUint64(data, args.FeeCollectionPeriod, &offset)
	putUint16(data, args.FeeRatio, &offset)
	for _, market := range markets {
		putKey(data, market, &offset)
	}
	for _, amount := range args.DepositAmounts {
		putUint64(data, amount, &offset)
	}

	return data
}

func (args *CreateInstructionArgs) Unmarshal(data []byte) error {
	var offset int
	if err := checkInstruction(data, InstructionTypeCreate, CreateInstructionArgsHeaderSize, &offset); err != nil {
		return err
	}

	var marketCount uint16
	getSeed(data, &args.PoolSeed, &offset)
	getUint16(data, &marketCount, &offset)
	getUint64(data, &args.FeeCollectionPeriod, &offset)
	getUint16(data, &args.FeeRatio, &offset)

	if remaining := len(data) - offset; remaining < int(marketCount)*ed25519.PublicKeySize {
		return errors.Wrapf(ErrInvalidInstruction, "create: %d markets declared but only %d bytes remain", marketCount, remaining)
	}

	args.Markets = nil
	if marketCount > 0 {
		args.Markets = make([]ed25519.PublicKey, marketCount)
		for i := range args.Markets {
			getKey(data, &args.Markets[i], &offset)
		}
	}

	args.DepositAmounts = nil
	for offset+8 <= len(data) {
		var amount uint64
		getUint64(data, &amount, &offset)
		args.DepositAmounts = append(args.DepositAmounts, amount)
	}

	return nil
}

func NewCreateInstruction(
	accounts *CreateInstructionAccounts,
	args *CreateInstructionArgs,
) (solana.Instruction, error) {
	if len(args.Markets) > math.MaxUint16 {
		return solana.Instruction{}, errors.Wrapf(ErrParameterMismatch, "too many markets: %d", len(args.Markets))
	}
	if len(accounts.PoolAssets) != len(args.DepositAmounts) {
		return solana.Instruction{}, errors.Wrapf(ErrParameterMismatch, "got %d pool assets for %d deposit amounts", len(accounts.PoolAssets), len(args.DepositAmounts))
	}

	metas, err := createAccountSchedule.accountMetas(
		one(token.ProgramKey),
		one(system.ClockSysVar),
		one(accounts.DexProgram),
		one(accounts.SignalProvider),
		one(accounts.Mint),
		one(accounts.TargetPoolToken),
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

func CreateInstructionFromInstruction(ix solana.Instruction) (*CreateInstructionArgs, *CreateInstructionAccounts, error) {
	if !bytes.Equal(ix.Program, PROGRAM_ID) {
		return nil, nil, ErrInvalidProgram
	}

	var args CreateInstructionArgs
	if err := args.Unmarshal(ix.Data); err != nil {
		return nil, nil, err
	}

	keys, err := createAccountSchedule.split(ix.Accounts)
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
	if len(keys[7]) != len(args.DepositAmounts) {
		return nil, nil, errors.Wrapf(ErrParameterMismatch, "got %d pool assets for %d deposit amounts", len(keys[7]), len(args.DepositAmounts))
	}

	return &args, &CreateInstructionAccounts{
		DexProgram:      keys[2][0],
		SignalProvider:  keys[3][0],
		Mint:            keys[4][0],
		TargetPoolToken: keys[5][0],
		Pool:            keys[6][0],
		PoolAssets:      keys[7],
		SourceOwner:     keys[8][0],
		SourceAssets:    keys[9],
	}, nil
}
