package signalpool

import "fmt"

// InstructionType is the leading tag byte of every payload. Values are part of
// the wire format.
type InstructionType uint8

const (
	InstructionTypeInit        InstructionType = 0
	InstructionTypeCreate      InstructionType = 1
	InstructionTypeDeposit     InstructionType = 2
	InstructionTypeCreateOrder InstructionType = 3
	InstructionTypeCancelOrder InstructionType = 4
	InstructionTypeSettleFunds InstructionType = 5
	InstructionTypeRedeem      InstructionType = 6
	InstructionTypeCollectFees InstructionType = 7
)

func (t InstructionType) String() string {
	switch t {
	case InstructionTypeInit:
		return "init"
	case InstructionTypeCreate:
		return "create"
	case InstructionTypeDeposit:
		return "deposit"
	case InstructionTypeCreateOrder:
		return "create_order"
	case InstructionTypeCancelOrder:
		return "cancel_order"
	case InstructionTypeSettleFunds:
		return "settle_funds"
	case InstructionTypeRedeem:
		return "redeem"
	case InstructionTypeCollectFees:
		return "collect_fees"
	}
	return fmt.Sprintf("unknown(%d)", uint8(t))
}

func putInstructionType(dst []byte, v InstructionType, offset *int) {
	dst[*offset] = uint8(v)
	*offset += 1
}
