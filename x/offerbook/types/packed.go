package types

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	sdkmath "cosmossdk.io/math"
)

// WordSize is the byte width of every packed record.
const WordSize = 32

// word is the common 256-bit representation behind every packed record.
// Fields are byte aligned and big-endian.
type word [WordSize]byte

// field is a byte range of a word, counted from the most significant byte.
type field struct {
	offset int
	size   int
}

func (f field) bits() int { return f.size * 8 }

// FitsBits reports whether x is representable losslessly in the given number
// of bits. A nil Uint reads as zero.
func FitsBits(x sdkmath.Uint, bits int) bool {
	if x.IsNil() {
		return true
	}
	return x.BigInt().BitLen() <= bits
}

// Fits16 reports whether x fits the 16-bit gasprice field.
func Fits16(x sdkmath.Uint) bool { return FitsBits(x, 16) }

// Fits112 reports whether x fits the 112-bit density field.
func Fits112(x sdkmath.Uint) bool { return FitsBits(x, 112) }

// FitsUint64 is FitsBits for native integers.
func FitsUint64(v uint64, bits int) bool {
	if bits >= 64 {
		return true
	}
	return v>>uint(bits) == 0
}

func uintOrZero(x sdkmath.Uint) sdkmath.Uint {
	if x.IsNil() {
		return sdkmath.ZeroUint()
	}
	return x
}

func (w word) uint64At(f field) uint64 {
	var v uint64
	for _, b := range w[f.offset : f.offset+f.size] {
		v = v<<8 | uint64(b)
	}
	return v
}

func (w word) uintAt(f field) sdkmath.Uint {
	return sdkmath.NewUintFromBigInt(new(big.Int).SetBytes(w[f.offset : f.offset+f.size]))
}

func (w word) boolAt(f field) bool {
	return w[f.offset] != 0
}

func (w word) bytesAt(f field) []byte {
	out := make([]byte, f.size)
	copy(out, w[f.offset:f.offset+f.size])
	return out
}

func (w word) isZeroAt(f field) bool {
	for _, b := range w[f.offset : f.offset+f.size] {
		if b != 0 {
			return false
		}
	}
	return true
}

// withUint64 panics when v does not fit: callers validate widths before packing.
func (w word) withUint64(f field, v uint64) word {
	if !FitsUint64(v, f.bits()) {
		panic(fmt.Sprintf("offerbook: %d does not fit %d bits", v, f.bits()))
	}
	for i := f.size - 1; i >= 0; i-- {
		w[f.offset+i] = byte(v)
		v >>= 8
	}
	return w
}

func (w word) withUint(f field, v sdkmath.Uint) word {
	if !FitsBits(v, f.bits()) {
		panic(fmt.Sprintf("offerbook: %s does not fit %d bits", v, f.bits()))
	}
	bz := uintOrZero(v).BigInt().Bytes()
	for i := f.offset; i < f.offset+f.size; i++ {
		w[i] = 0
	}
	copy(w[f.offset+f.size-len(bz):f.offset+f.size], bz)
	return w
}

func (w word) withBool(f field, b bool) word {
	if b {
		return w.withUint64(f, 1)
	}
	return w.withUint64(f, 0)
}

// withBytes stores bz in f. An empty slice clears the field.
func (w word) withBytes(f field, bz []byte) word {
	if len(bz) != 0 && len(bz) != f.size {
		panic(fmt.Sprintf("offerbook: %d bytes do not fit a %d byte field", len(bz), f.size))
	}
	for i := f.offset; i < f.offset+f.size; i++ {
		w[i] = 0
	}
	copy(w[f.offset:f.offset+f.size], bz)
	return w
}

func parseWord(s string) (word, error) {
	var w word
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	bz, err := hex.DecodeString(s)
	if err != nil {
		return w, fmt.Errorf("invalid hex word: %w", err)
	}
	if len(bz) > WordSize {
		return w, ErrBoundsRejected.Wrapf("word is %d bytes, max %d", len(bz), WordSize)
	}
	// left-pad short input
	copy(w[WordSize-len(bz):], bz)
	return w, nil
}

func (w word) hex() string {
	return "0x" + hex.EncodeToString(w[:])
}

func wordFromBytes(bz []byte) (word, bool) {
	var w word
	if bz == nil {
		return w, false
	}
	if len(bz) != WordSize {
		panic(fmt.Sprintf("offerbook: stored word has %d bytes", len(bz)))
	}
	copy(w[:], bz)
	return w, true
}
