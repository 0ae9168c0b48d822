package signalpool

import (
	"crypto/ed25519"
	"fmt"

	"github.com/pkg/errors"

	"github.com/code-payments/signal-pool/pkg/solana"
)

// AccountSlot describes one position in an instruction's account list.
type AccountSlot struct {
	Role       string
	IsWritable bool
	IsSigner   bool

	// Repeated slots expand to one account per pool asset slot, in slot order.
	Repeated bool

	// Optional slots are trailing and omitted entirely when not supplied.
	Optional bool
}

// AccountSchedule is the positional account contract of an instruction. The
// program reads accounts by index, so order matters.
type AccountSchedule []AccountSlot

// Schedule returns the account schedule for an instruction type.
func Schedule(t InstructionType) (AccountSchedule, error) {
	switch t {
	case InstructionTypeInit:
		return initAccountSchedule, nil
	case InstructionTypeCreate:
		return createAccountSchedule, nil
	case InstructionTypeDeposit:
		return depositAccountSchedule, nil
	case InstructionTypeCreateOrder:
		return createOrderAccountSchedule, nil
	case InstructionTypeCancelOrder:
		return cancelOrderAccountSchedule, nil
	case InstructionTypeSettleFunds:
		return settleFundsAccountSchedule, nil
	case InstructionTypeRedeem:
		return redeemAccountSchedule, nil
	case InstructionTypeCollectFees:
		return collectFeesAccountSchedule, nil
	}
	return nil, errors.Wrapf(ErrInvalidInstruction, "unsupported instruction type %d", uint8(t))
}

// Len is the account count for the given number of asset slots and supplied
// optional accounts.
func (s AccountSchedule) Len(assetSlots, optionals int) int {
	var n int
	for _, slot := range s {
		switch {
		case slot.Repeated:
			n += assetSlots
		case slot.Optional:
			if optionals > 0 {
				n++
				optionals--
			}
		default:
			n++
		}
	}
	return n
}

// RolesFor names every position of an account list of the given length.
func (s AccountSchedule) RolesFor(accountCount int) ([]string, error) {
	assetSlots, optionals, err := s.shape(accountCount)
	if err != nil {
		return nil, err
	}
	return s.Roles(assetSlots, optionals), nil
}

// shape infers the asset slot count, or the number of supplied optional
// accounts, from the length of an account list.
func (s AccountSchedule) shape(accountCount int) (assetSlots, optionals int, err error) {
	var fixed, repeatedSlots, optionalSlots int
	for _, slot := range s {
		switch {
		case slot.Repeated:
			repeatedSlots++
		case slot.Optional:
			optionalSlots++
		default:
			fixed++
		}
	}

	extra := accountCount - fixed
	switch {
	case extra < 0:
		return 0, 0, errors.Wrapf(ErrParameterMismatch, "invalid number of accounts: %d (expected at least %d)", accountCount, fixed)
	case repeatedSlots > 0:
		if extra%repeatedSlots != 0 {
			return 0, 0, errors.Wrapf(ErrParameterMismatch, "invalid number of accounts: %d", accountCount)
		}
		return extra / repeatedSlots, 0, nil
	case extra > optionalSlots:
		return 0, 0, errors.Wrapf(ErrParameterMismatch, "invalid number of accounts: %d (expected at most %d)", accountCount, fixed+optionalSlots)
	}
	return 0, extra, nil
}

// Roles names every position of an expanded account list.
func (s AccountSchedule) Roles(assetSlots, optionals int) []string {
	var roles []string
	for _, slot := range s {
		switch {
		case slot.Repeated:
			for i := 0; i < assetSlots; i++ {
				roles = append(roles, fmt.Sprintf("%s[%d]", slot.Role, i))
			}
		case slot.Optional:
			if optionals > 0 {
				roles = append(roles, slot.Role)
				optionals--
			}
		default:
			roles = append(roles, slot.Role)
		}
	}
	return roles
}

// accountMetas lays out keys in schedule order. keys[i] holds the accounts
// for s[i]: exactly one for fixed slots, zero or one for optional slots, and
// the same number for every repeated slot.
func (s AccountSchedule) accountMetas(keys ...[]ed25519.PublicKey) ([]solana.AccountMeta, error) {
	if len(keys) != len(s) {
		return nil, errors.Wrapf(ErrParameterMismatch, "got accounts for %d slots (expected %d)", len(keys), len(s))
	}

	repeated := -1
	metas := make([]solana.AccountMeta, 0, len(s))
	for i, slot := range s {
		switch {
		case slot.Repeated:
			if repeated >= 0 && len(keys[i]) != repeated {
				return nil, errors.Wrapf(ErrParameterMismatch, "%s: got %d accounts (expected %d)", slot.Role, len(keys[i]), repeated)
			}
			repeated = len(keys[i])
		case slot.Optional:
			if len(keys[i]) > 1 {
				return nil, errors.Wrapf(ErrParameterMismatch, "%s: got %d accounts (expected at most 1)", slot.Role, len(keys[i]))
			}
		default:
			if len(keys[i]) != 1 {
				return nil, errors.Wrapf(ErrParameterMismatch, "%s: got %d accounts (expected 1)", slot.Role, len(keys[i]))
			}
		}

		for _, key := range keys[i] {
			if len(key) != ed25519.PublicKeySize {
				return nil, errors.Wrapf(ErrParameterMismatch, "%s: invalid address length %d", slot.Role, len(key))
			}

			metas = append(metas, solana.AccountMeta{
				PublicKey:  key,
				IsWritable: slot.IsWritable,
				IsSigner:   slot.IsSigner,
			})
		}
	}
	return metas, nil
}

// split is the inverse of accountMetas. It infers the number of asset slots
// (or supplied optional accounts) from the list length and verifies every
// account's flags against the schedule.
func (s AccountSchedule) split(metas []solana.AccountMeta) ([][]ed25519.PublicKey, error) {
	assetSlots, optionals, err := s.shape(len(metas))
	if err != nil {
		return nil, err
	}

	var next int
	take := func(slot AccountSlot) (ed25519.PublicKey, error) {
		meta := metas[next]
		if meta.IsWritable != slot.IsWritable || meta.IsSigner != slot.IsSigner {
			return nil, errors.Wrapf(ErrParameterMismatch, "%s at %d: unexpected flags (writable=%t, signer=%t)", slot.Role, next, meta.IsWritable, meta.IsSigner)
		}
		next++
		return meta.PublicKey, nil
	}

	keys := make([][]ed25519.PublicKey, len(s))
	for i, slot := range s {
		count := 1
		switch {
		case slot.Repeated:
			count = assetSlots
		case slot.Optional:
			count = 0
			if optionals > 0 {
				count = 1
				optionals--
			}
		}

		for j := 0; j < count; j++ {
			key, err := take(slot)
			if err != nil {
				return nil, err
			}
			keys[i] = append(keys[i], key)
		}
	}
	return keys, nil
}

func one(key ed25519.PublicKey) []ed25519.PublicKey {
	return []ed25519.PublicKey{key}
}

func optional(key ed25519.PublicKey) []ed25519.PublicKey {
	if len(key) == 0 {
		return nil
	}
	return one(key)
}

// checkProgramAccounts verifies that the fixed program and sysvar positions of
// a decompiled instruction hold the expected keys.
func checkProgramAccounts(keys [][]ed25519.PublicKey, expected map[int]ed25519.PublicKey) error {
	for i, key := range expected {
		if string(keys[i][0]) != string(key) {
			return errors.Wrapf(ErrParameterMismatch, "unexpected account at slot %d", i)
		}
	}
	return nil
}
