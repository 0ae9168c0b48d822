package signalpool

import (
	"encoding/hex"

	"github.com/pkg/errors"
)

const PoolSeedSize = 32

// PoolSeed identifies a pool. It is always the first field after the tag.
type PoolSeed [PoolSeedSize]byte

func (s PoolSeed) String() string {
	return hex.EncodeToString(s[:])
}

// Operation is one of the pool program's instructions. The set of
// implementations is closed.
type Operation interface {
	Type() InstructionType
	Seed() PoolSeed

	// Marshal encodes the operation, tag included.
	Marshal() []byte

	// Unmarshal decodes a full payload, tag included, into the receiver.
	Unmarshal(data []byte) error

	isOperation()
}

// Encode returns the payload for op. Encoding never fails: a Create with more
// than math.MaxUint16 markets is cut to the first 65535, so use the
// NewXInstruction builders when the input is not already validated.
func Encode(op Operation) []byte {
	return op.Marshal()
}

// Decode parses a payload produced by Encode. Every failure wraps
// ErrInvalidInstruction.
func Decode(data []byte) (Operation, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(ErrInvalidInstruction, "empty instruction data")
	}

	op, err := newOperation(InstructionType(data[0]))
	if err != nil {
		return nil, err
	}
	if err := op.Unmarshal(data); err != nil {
		return nil, err
	}
	return op, nil
}

// PeekPoolSeed returns the pool seed of a payload without decoding the rest.
func PeekPoolSeed(data []byte) (PoolSeed, error) {
	var seed PoolSeed
	if len(data) == 0 {
		return seed, errors.Wrap(ErrInvalidInstruction, "empty instruction data")
	}
	if _, err := newOperation(InstructionType(data[0])); err != nil {
		return seed, err
	}
	if len(data) < 1+PoolSeedSize {
		return seed, errors.Wrapf(ErrInvalidInstruction, "got %d bytes (expected at least %d)", len(data), 1+PoolSeedSize)
	}

	offset := 1
	getSeed(data, &seed, &offset)
	return seed, nil
}

func newOperation(t InstructionType) (Operation, error) {
	switch t {
	case InstructionTypeInit:
		return &InitInstructionArgs{}, nil
	case InstructionTypeCreate:
		return &CreateInstructionArgs{}, nil
	case InstructionTypeDeposit:
		return &DepositInstructionArgs{}, nil
	case InstructionTypeCreateOrder:
		return &CreateOrderInstructionArgs{}, nil
	case InstructionTypeCancelOrder:
		return &CancelOrderInstructionArgs{}, nil
	case InstructionTypeSettleFunds:
		return &SettleFundsInstructionArgs{}, nil
	case InstructionTypeRedeem:
		return &RedeemInstructionArgs{}, nil
	case InstructionTypeCollectFees:
		return &CollectFeesInstructionArgs{}, nil
	}
	return nil, errors.Wrapf(ErrInvalidInstruction, "unsupported instruction type %d", uint8(t))
}
