package signalpool

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/pkg/errors"
)

// Getters assume the caller has already checked the buffer length.

func putSeed(dst []byte, v PoolSeed, offset *int) {
	copy(dst[*offset:], v[:])
	*offset += PoolSeedSize
}
func getSeed(src []byte, dst *PoolSeed, offset *int) {
	copy(dst[:], src[*offset:])
	*offset += PoolSeedSize
}

func putKey(dst []byte, v ed25519.PublicKey, offset *int) {
	copy(dst[*offset:*offset+ed25519.PublicKeySize], v)
	*offset += ed25519.PublicKeySize
}
func getKey(src []byte, dst *ed25519.PublicKey, offset *int) {
	*dst = make([]byte, ed25519.PublicKeySize)
	copy(*dst, src[*offset:])
	*offset += ed25519.PublicKeySize
}

func putUint8(dst []byte, v uint8, offset *int) {
	dst[*offset] = v
	*offset += 1
}
func getUint8(src []byte, dst *uint8, offset *int) {
	*dst = src[*offset]
	*offset += 1
}

func putUint16(dst []byte, v uint16, offset *int) {
	binary.LittleEndian.PutUint16(dst[*offset:], v)
	*offset += 2
}
func getUint16(src []byte, dst *uint16, offset *int) {
	*dst = binary.LittleEndian.Uint16(src[*offset:])
	*offset += 2
}

func putUint32(dst []byte, v uint32, offset *int) {
	binary.LittleEndian.PutUint32(dst[*offset:], v)
	*offset += 4
}
func getUint32(src []byte, dst *uint32, offset *int) {
	*dst = binary.LittleEndian.Uint32(src[*offset:])
	*offset += 4
}

func putUint64(dst []byte, v uint64, offset *int) {
	binary.LittleEndian.PutUint64(dst[*offset:], v)
	*offset += 8
}
func getUint64(src []byte, dst *uint64, offset *int) {
	*dst = binary.LittleEndian.Uint64(src[*offset:])
	*offset += 8
}

// u128 little endian: low word first
func putOrderID(dst []byte, v OrderID, offset *int) {
	putUint64(dst, v.Lo, offset)
	putUint64(dst, v.Hi, offset)
}
func getOrderID(src []byte, dst *OrderID, offset *int) {
	getUint64(src, &dst.Lo, offset)
	getUint64(src, &dst.Hi, offset)
}

// checkInstruction validates the tag and that at least argsSize bytes follow
// it, leaving offset just past the tag.
func checkInstruction(data []byte, expected InstructionType, argsSize int, offset *int) error {
	if len(data) == 0 {
		return errors.Wrap(ErrInvalidInstruction, "empty instruction data")
	}
	if InstructionType(data[0]) != expected {
		return errors.Wrapf(ErrInvalidInstruction, "unexpected instruction type %s (expected %s)", InstructionType(data[0]), expected)
	}
	if len(data) < 1+argsSize {
		return errors.Wrapf(ErrInvalidInstruction, "%s: got %d bytes (expected at least %d)", expected, len(data), 1+argsSize)
	}

	*offset = 1
	return nil
}
