package signalpool

import (
	"bytes"
	"crypto/ed25519"

	"github.com/code-payments/signal-pool/pkg/solana"
	"github.com/code-payments/signal-pool/pkg/solana/token"
)

const (
	SettleFundsInstructionArgsSize = (PoolSeedSize + // pool_seed
		8 + // price_slot_index
		8) // coin_slot_index
)

// SettleFundsInstructionArgs is a permissionless crank that moves settled
// funds out of one of the pool's OpenOrders accounts.
type SettleFundsInstructionArgs struct {
	PoolSeed       PoolSeed
	PriceSlotIndex uint64
	CoinSlotIndex  uint64
}

type SettleFundsInstructionAccounts struct {
	Market          ed25519.PublicKey
	OpenOrders      ed25519.PublicKey
	Pool            ed25519.PublicKey
	PoolTokenMint   ed25519.PublicKey
	CoinVault       ed25519.PublicKey
	PriceVault      ed25519.PublicKey
	PoolCoinWallet  ed25519.PublicKey
	PoolPriceWallet ed25519.PublicKey
	VaultSigner     ed25519.PublicKey
	DexProgram      ed25519.PublicKey

	// Optional
	ReferrerPriceWallet ed25519.PublicKey
}

var settleFundsAccountSchedule = AccountSchedule{
	{Role: "market", IsWritable: true},
	{Role: "open_orders", IsWritable: true},
	{Role: "pool", IsWritable: true},
	{Role: "pool_token_mint"},
	{Role: "coin_vault", IsWritable: true},
	{Role: "price_vault", IsWritable: true},
	{Role: "pool_coin_wallet", IsWritable: true},
	{Role: "pool_price_wallet", IsWritable: true},
	{Role: "vault_signer"},
	{Role: "token_program"},
	{Role: "dex_program"},
	{Role: "referrer_price_wallet", IsWritable: true, Optional: true},
}

func (args *SettleFundsInstructionArgs) Type() InstructionType { return InstructionTypeSettleFunds }
func (args *SettleFundsInstructionArgs) Seed() PoolSeed        { return args.PoolSeed }
func (args *SettleFundsInstructionArgs) isOperation()          {}

func (args *SettleFundsInstructionArgs) Marshal() []byte {
	var offset int

	data := make([]byte, 1+SettleFundsInstructionArgsSize)

	putInstructionType(data, InstructionTypeSettleFunds, &offset)
	putSeed(data, args.PoolSeed, &offset)
	putUint64(data, args.PriceSlotIndex, &offset)
	putUint64(data, args.CoinSlotIndex, &offset)

	return data
}

func (args *SettleFundsInstructionArgs) Unmarshal(data []byte) error {
	var offset int
	if err := checkInstruction(data, InstructionTypeSettleFunds, SettleFundsInstructionArgsSize, &offset); err != nil {
		return err
	}

	getSeed(data, &args.PoolSeed, &offset)
	getUint64(data, &args.PriceSlotIndex, &offset)
	getUint64(data, &args.CoinSlotIndex, &offset)

	return nil
}

func NewSettleFundsInstruction(
	accounts *SettleFundsInstructionAccounts,
	args *SettleFundsInstructionArgs,
) (solana.Instruction, error) {
	metas, err := settleFundsAccountSchedule.accountMetas(
		one(accounts.Market),
		one(accounts.OpenOrders),
		one(accounts.Pool),
		one(accounts.PoolTokenMint),
		one(accounts.CoinVault),
		one(accounts.PriceVault),
		one(accounts.PoolCoinWallet),
		one(accounts.PoolPriceWallet),
		one(accounts.VaultSigner),
		one(token.ProgramKey),
		one(accounts.DexProgram),
		optional(accounts.ReferrerPriceWallet),
	)
	if err != nil {
		return solana.Instruction{}, err
	}

	return solana.NewInstruction(PROGRAM_ID, args.Marshal(), metas...), nil
}

func SettleFundsInstructionFromInstruction(ix solana.Instruction) (*SettleFundsInstructionArgs, *SettleFundsInstructionAccounts, error) {
	if !bytes.Equal(ix.Program, PROGRAM_ID) {
		return nil, nil, ErrInvalidProgram
	}

	var args SettleFundsInstructionArgs
	if err := args.Unmarshal(ix.Data); err != nil {
		return nil, nil, err
	}

	keys, err := settleFundsAccountSchedule.split(ix.Accounts)
	if err != nil {
		return nil, nil, err
	}
	err = checkProgramAccounts(keys, map[int]ed25519.PublicKey{
		9: token.ProgramKey,
	})
	if err != nil {
		return nil, nil, err
	}

	accounts := &SettleFundsInstructionAccounts{
		Market:          keys[0][0],
		OpenOrders:      keys[1][0],
		Pool:            keys[2][0],
		PoolTokenMint:   keys[3][0],
		CoinVault:       keys[4][0],
		PriceVault:      keys[5][0],
		PoolCoinWallet:  keys[6][0],
		PoolPriceWallet: keys[7][0],
		VaultSigner:     keys[8][0],
		DexProgram:      keys[10][0],
	}
	if len(keys[11]) > 0 {
		accounts.ReferrerPriceWallet = keys[11][0]
	}
	return &args, accounts, nil
}
