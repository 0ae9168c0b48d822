package signalpool

import (
	"github.com/pkg/errors"

	"github.com/code-payments/signal-pool/pkg/solana"
)

var (
	ErrInvalidInstruction = errors.New("invalid instruction")
	ErrParameterMismatch  = errors.New("parameter mismatch")
	ErrInvalidProgram     = errors.New("invalid program id")
)

var (
	PROGRAM_ADDRESS = solana.MustParsePublicKey("DQBV3CGbHQaJjqk5QCMenmT87NHTSMuF71JHmx6ir4m1") // todo: real address
	PROGRAM_ID      = PROGRAM_ADDRESS
)

var (
	// Serum DEX v3
	DEX_PROGRAM_ID = solana.MustParsePublicKey("9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin")

	// Owners of the protocol fee and buy-and-burn pool token accounts
	FEE_WALLET          = solana.MustParsePublicKey("Etuh3cLpZRq9HP3L4mvwi8c3QYzjYdbLTPUVpz5gyXDT") // todo: real address
	BUY_AND_BURN_WALLET = solana.MustParsePublicKey("4sq8jfVjvHyxdYUrT1DUjX1BxwR92C9pVtbzqiHDWaXz") // todo: real address
)
