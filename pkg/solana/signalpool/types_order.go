package signalpool

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// Side, OrderType and SelfTradeBehavior are passed through to the DEX as-is.

type Side uint8

const (
	SideBid Side = 0
	SideAsk Side = 1
)

type OrderType uint8

const (
	OrderTypeLimit             OrderType = 0
	OrderTypeImmediateOrCancel OrderType = 1
	OrderTypePostOnly          OrderType = 2
)

type SelfTradeBehavior uint8

const (
	SelfTradeBehaviorDecrementTake    SelfTradeBehavior = 0
	SelfTradeBehaviorCancelProvide    SelfTradeBehavior = 1
	SelfTradeBehaviorAbortTransaction SelfTradeBehavior = 2
)

func (s Side) String() string {
	switch s {
	case SideBid:
		return "bid"
	case SideAsk:
		return "ask"
	}
	return "unknown"
}

func (t OrderType) String() string {
	switch t {
	case OrderTypeLimit:
		return "limit"
	case OrderTypeImmediateOrCancel:
		return "immediate_or_cancel"
	case OrderTypePostOnly:
		return "post_only"
	}
	return "unknown"
}

func (b SelfTradeBehavior) String() string {
	switch b {
	case SelfTradeBehaviorDecrementTake:
		return "decrement_take"
	case SelfTradeBehaviorCancelProvide:
		return "cancel_provide"
	case SelfTradeBehaviorAbortTransaction:
		return "abort_transaction"
	}
	return "unknown"
}

func toSide(v uint8) (Side, error) {
	switch Side(v) {
	case SideBid, SideAsk:
		return Side(v), nil
	}
	return 0, errors.Wrapf(ErrInvalidInstruction, "unknown side %d", v)
}

func toOrderType(v uint8) (OrderType, error) {
	switch OrderType(v) {
	case OrderTypeLimit, OrderTypeImmediateOrCancel, OrderTypePostOnly:
		return OrderType(v), nil
	}
	return 0, errors.Wrapf(ErrInvalidInstruction, "unknown order type %d", v)
}

func toSelfTradeBehavior(v uint8) (SelfTradeBehavior, error) {
	switch SelfTradeBehavior(v) {
	case SelfTradeBehaviorDecrementTake, SelfTradeBehaviorCancelProvide, SelfTradeBehaviorAbortTransaction:
		return SelfTradeBehavior(v), nil
	}
	return 0, errors.Wrapf(ErrInvalidInstruction, "unknown self trade behavior %d", v)
}

// ParseSide accepts the names returned by Side.String.
func ParseSide(value string) (Side, error) {
	for _, s := range []Side{SideBid, SideAsk} {
		if strings.EqualFold(value, s.String()) {
			return s, nil
		}
	}
	return 0, errors.Errorf("unknown side %q", value)
}

// ParseOrderType accepts the names returned by OrderType.String.
func ParseOrderType(value string) (OrderType, error) {
	for _, t := range []OrderType{OrderTypeLimit, OrderTypeImmediateOrCancel, OrderTypePostOnly} {
		if strings.EqualFold(value, t.String()) {
			return t, nil
		}
	}
	return 0, errors.Errorf("unknown order type %q", value)
}

// ParseSelfTradeBehavior accepts the names returned by SelfTradeBehavior.String.
func ParseSelfTradeBehavior(value string) (SelfTradeBehavior, error) {
	for _, b := range []SelfTradeBehavior{SelfTradeBehaviorDecrementTake, SelfTradeBehaviorCancelProvide, SelfTradeBehaviorAbortTransaction} {
		if strings.EqualFold(value, b.String()) {
			return b, nil
		}
	}
	return 0, errors.Errorf("unknown self trade behavior %q", value)
}

// OrderID is the DEX's unsigned 128 bit order identifier.
type OrderID struct {
	Hi uint64
	Lo uint64
}

var maxOrderID = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// NewOrderIDFromBig fails if v does not fit in 128 unsigned bits.
func NewOrderIDFromBig(v *big.Int) (OrderID, error) {
	if v.Sign() < 0 || v.Cmp(maxOrderID) > 0 {
		return OrderID{}, errors.Errorf("order id %s out of range", v.String())
	}

	lo := new(big.Int).And(v, new(big.Int).SetUint64(^uint64(0)))
	hi := new(big.Int).Rsh(v, 64)
	return OrderID{Hi: hi.Uint64(), Lo: lo.Uint64()}, nil
}

// ParseOrderID parses a base 10 order id.
func ParseOrderID(value string) (OrderID, error) {
	v, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return OrderID{}, errors.Errorf("invalid order id %q", value)
	}
	return NewOrderIDFromBig(v)
}

func (id OrderID) Big() *big.Int {
	v := new(big.Int).SetUint64(id.Hi)
	v.Lsh(v, 64)
	return v.Or(v, new(big.Int).SetUint64(id.Lo))
}

func (id OrderID) String() string {
	return id.Big().String()
}
