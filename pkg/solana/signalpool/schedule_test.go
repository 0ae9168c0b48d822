package signalpool

import (
	"crypto/ed25519"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/signal-pool/pkg/solana"
)

func TestSchedule(t *testing.T) {
	for _, tc := range []struct {
		instructionType InstructionType
		fixed           int
		assetSlots      int
		optionals       int
		expected        int
	}{
		{InstructionTypeInit, 6, 0, 0, 6},
		{InstructionTypeCreate, 8, 3, 0, 14},
		{InstructionTypeDeposit, 8, 2, 0, 12},
		{InstructionTypeCreateOrder, 14, 0, 0, 14},
		{InstructionTypeCreateOrder, 14, 0, 1, 15},
		{InstructionTypeCancelOrder, 8, 0, 0, 8},
		{InstructionTypeSettleFunds, 11, 0, 1, 12},
		{InstructionTypeRedeem, 6, 4, 0, 14},
		{InstructionTypeCollectFees, 7, 0, 0, 7},
	} {
		schedule, err := Schedule(tc.instructionType)
		require.NoError(t, err)

		assert.Equal(t, tc.fixed, schedule.Len(0, 0), tc.instructionType.String())
		assert.Equal(t, tc.expected, schedule.Len(tc.assetSlots, tc.optionals), tc.instructionType.String())
		assert.Len(t, schedule.Roles(tc.assetSlots, tc.optionals), tc.expected)
	}

	_, err := Schedule(InstructionType(8))
	assert.True(t, errors.Is(err, ErrInvalidInstruction))
}

func TestSchedule_Roles(t *testing.T) {
	schedule, err := Schedule(InstructionTypeSettleFunds)
	require.NoError(t, err)

	roles := schedule.Roles(0, 1)
	assert.Equal(t, "market", roles[0])
	assert.Equal(t, "referrer_price_wallet", roles[len(roles)-1])
	assert.NotContains(t, schedule.Roles(0, 0), "referrer_price_wallet")

	schedule, err = Schedule(InstructionTypeCreate)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"token_program",
		"clock_sysvar",
		"dex_program",
		"signal_provider",
		"mint",
		"target_pool_token",
		"pool",
		"pool_asset[0]",
		"source_owner",
		"source_asset[0]",
	}, schedule.Roles(1, 0))
}

func TestSchedule_AccountMetas(t *testing.T) {
	keys := generateKeys(t, 4)
	schedule := AccountSchedule{
		{Role: "authority", IsSigner: true},
		{Role: "asset", IsWritable: true, Repeated: true},
		{Role: "destination", IsWritable: true, Repeated: true},
		{Role: "extra", Optional: true},
	}

	metas, err := schedule.accountMetas(one(keys[0]), keys[1:3], keys[2:4], nil)
	require.NoError(t, err)
	require.Len(t, metas, 5)
	assert.Equal(t, solana.NewReadonlyAccountMeta(keys[0], true), metas[0])
	assert.Equal(t, solana.NewAccountMeta(keys[3], false), metas[4])

	split, err := schedule.split(metas)
	require.NoError(t, err)
	assert.Equal(t, [][]ed25519.PublicKey{one(keys[0]), keys[1:3], keys[2:4], nil}, split)

	// Wrong number of slots
	_, err = schedule.accountMetas(one(keys[0]), keys[1:3], keys[2:4])
	assert.True(t, errors.Is(err, ErrParameterMismatch))

	// Repeated slots must have equal length
	_, err = schedule.accountMetas(one(keys[0]), keys[1:3], keys[2:3], nil)
	assert.True(t, errors.Is(err, ErrParameterMismatch))

	// Fixed slots hold exactly one account
	_, err = schedule.accountMetas(keys[:2], keys[1:3], keys[2:4], nil)
	assert.True(t, errors.Is(err, ErrParameterMismatch))
	_, err = schedule.accountMetas(nil, keys[1:3], keys[2:4], nil)
	assert.True(t, errors.Is(err, ErrParameterMismatch))

	// Optional slots hold at most one
	_, err = schedule.accountMetas(one(keys[0]), nil, nil, keys[:2])
	assert.True(t, errors.Is(err, ErrParameterMismatch))

	// Malformed keys
	_, err = schedule.accountMetas(one(keys[0][:31]), nil, nil, nil)
	assert.True(t, errors.Is(err, ErrParameterMismatch))
	assert.Contains(t, err.Error(), "authority")
}

func TestSchedule_SplitOptional(t *testing.T) {
	keys := generateKeys(t, 3)
	schedule := AccountSchedule{
		{Role: "authority", IsSigner: true},
		{Role: "first", Optional: true},
		{Role: "second", IsWritable: true, Optional: true},
	}

	metas, err := schedule.accountMetas(one(keys[0]), one(keys[1]), nil)
	require.NoError(t, err)
	require.Len(t, metas, 2)

	split, err := schedule.split(metas)
	require.NoError(t, err)
	assert.Equal(t, [][]ed25519.PublicKey{one(keys[0]), one(keys[1]), nil}, split)

	_, err = schedule.split(nil)
	assert.True(t, errors.Is(err, ErrParameterMismatch))

	metas = append(metas, solana.NewAccountMeta(keys[2], false), solana.NewAccountMeta(keys[2], false))
	_, err = schedule.split(metas)
	assert.True(t, errors.Is(err, ErrParameterMismatch))
}

func TestSchedule_RolesFor(t *testing.T) {
	schedule, err := Schedule(InstructionTypeDeposit)
	require.NoError(t, err)

	roles, err := schedule.RolesFor(12)
	require.NoError(t, err)
	assert.Equal(t, schedule.Roles(2, 0), roles)

	_, err = schedule.RolesFor(11)
	assert.True(t, errors.Is(err, ErrParameterMismatch))
	_, err = schedule.RolesFor(7)
	assert.True(t, errors.Is(err, ErrParameterMismatch))

	schedule, err = Schedule(InstructionTypeCreateOrder)
	require.NoError(t, err)

	roles, err = schedule.RolesFor(15)
	require.NoError(t, err)
	assert.Equal(t, "discount_account", roles[14])

	_, err = schedule.RolesFor(16)
	assert.True(t, errors.Is(err, ErrParameterMismatch))
}
