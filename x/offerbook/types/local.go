package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
)

// MaxFeeBps caps the taker fee of a pair, in basis points.
const MaxFeeBps = 500

// Local word layout
var (
	localActive          = field{0, 1}
	localFee             = field{1, 2}
	localDensity         = field{3, 14}
	localOverheadGasbase = field{17, 3}
	localOfferGasbase    = field{20, 3}
	localLock            = field{23, 1}
	localBest            = field{24, 4}
	localLast            = field{28, 4}
)

// LocalPacked is the configuration word of one ordered pair. The zero value
// is an inactive, unlocked pair with zero density.
type LocalPacked [WordSize]byte

// LocalInfo is the field-by-field form of LocalPacked.
type LocalInfo struct {
	Active          bool         `json:"active"`
	Fee             uint64       `json:"fee"`
	Density         sdkmath.Uint `json:"density"`
	OverheadGasbase uint64       `json:"overhead_gasbase"`
	OfferGasbase    uint64       `json:"offer_gasbase"`
	Lock            bool         `json:"lock"`
	Best            uint32       `json:"best"`
	Last            uint32       `json:"last"`
}

// PackLocal validates every field width and packs info.
func PackLocal(info LocalInfo) (LocalPacked, error) {
	var l LocalPacked
	if err := ValidateFee(info.Fee); err != nil {
		return l, err
	}
	if !Fits112(info.Density) {
		return l, ErrBoundsRejected.Wrapf("density %s exceeds 112 bits", info.Density)
	}
	if err := ValidateGasbase(info.OverheadGasbase, info.OfferGasbase); err != nil {
		return l, err
	}
	return l.WithActive(info.Active).
		WithFee(info.Fee).
		WithDensity(info.Density).
		WithOverheadGasbase(info.OverheadGasbase).
		WithOfferGasbase(info.OfferGasbase).
		WithLock(info.Lock).
		WithBest(info.Best).
		WithLast(info.Last), nil
}

// ParseLocalPacked decodes a hex word as printed by Hex.
func ParseLocalPacked(s string) (LocalPacked, error) {
	w, err := parseWord(s)
	return LocalPacked(w), err
}

// ValidateFee checks the fee cap.
func ValidateFee(fee uint64) error {
	if fee > MaxFeeBps {
		return ErrBoundsRejected.Wrapf("fee %d exceeds %d bps", fee, MaxFeeBps)
	}
	return nil
}

// ValidateGasbase checks both gasbase values against their 24-bit fields.
func ValidateGasbase(overhead, offer uint64) error {
	if !FitsUint64(overhead, localOverheadGasbase.bits()) {
		return ErrBoundsRejected.Wrapf("overhead gasbase %d exceeds 24 bits", overhead)
	}
	if !FitsUint64(offer, localOfferGasbase.bits()) {
		return ErrBoundsRejected.Wrapf("offer gasbase %d exceeds 24 bits", offer)
	}
	return nil
}

// Unpack expands the word into a LocalInfo.
func (l LocalPacked) Unpack() LocalInfo {
	return LocalInfo{
		Active:          l.Active(),
		Fee:             l.Fee(),
		Density:         l.Density(),
		OverheadGasbase: l.OverheadGasbase(),
		OfferGasbase:    l.OfferGasbase(),
		Lock:            l.Lock(),
		Best:            l.Best(),
		Last:            l.Last(),
	}
}

func (l LocalPacked) Active() bool            { return word(l).boolAt(localActive) }
func (l LocalPacked) Fee() uint64             { return word(l).uint64At(localFee) }
func (l LocalPacked) Density() sdkmath.Uint   { return word(l).uintAt(localDensity) }
func (l LocalPacked) OverheadGasbase() uint64 { return word(l).uint64At(localOverheadGasbase) }
func (l LocalPacked) OfferGasbase() uint64    { return word(l).uint64At(localOfferGasbase) }
func (l LocalPacked) Lock() bool              { return word(l).boolAt(localLock) }
func (l LocalPacked) Best() uint32            { return uint32(word(l).uint64At(localBest)) }
func (l LocalPacked) Last() uint32            { return uint32(word(l).uint64At(localLast)) }

// IsZero reports whether the pair was never configured.
func (l LocalPacked) IsZero() bool { return l == LocalPacked{} }

func (l LocalPacked) Bytes() []byte { return append([]byte(nil), l[:]...) }
func (l LocalPacked) Hex() string   { return word(l).hex() }

func (l LocalPacked) WithActive(b bool) LocalPacked {
	return LocalPacked(word(l).withBool(localActive, b))
}

func (l LocalPacked) WithLock(b bool) LocalPacked {
	return LocalPacked(word(l).withBool(localLock, b))
}

func (l LocalPacked) WithFee(v uint64) LocalPacked {
	return LocalPacked(word(l).withUint64(localFee, v))
}

func (l LocalPacked) WithDensity(v sdkmath.Uint) LocalPacked {
	return LocalPacked(word(l).withUint(localDensity, v))
}

func (l LocalPacked) WithOverheadGasbase(v uint64) LocalPacked {
	return LocalPacked(word(l).withUint64(localOverheadGasbase, v))
}

func (l LocalPacked) WithOfferGasbase(v uint64) LocalPacked {
	return LocalPacked(word(l).withUint64(localOfferGasbase, v))
}

func (l LocalPacked) WithBest(id uint32) LocalPacked {
	return LocalPacked(word(l).withUint64(localBest, uint64(id)))
}

func (l LocalPacked) WithLast(id uint32) LocalPacked {
	return LocalPacked(word(l).withUint64(localLast, uint64(id)))
}

func (l LocalPacked) String() string {
	return fmt.Sprintf("local{active=%t fee=%d density=%s overhead_gasbase=%d offer_gasbase=%d lock=%t best=%d last=%d}",
		l.Active(), l.Fee(), l.Density(), l.OverheadGasbase(), l.OfferGasbase(), l.Lock(), l.Best(), l.Last())
}

// Equal compares two infos field by field. A nil density equals zero.
func (i LocalInfo) Equal(o LocalInfo) bool {
	return i.Active == o.Active &&
		i.Fee == o.Fee &&
		uintOrZero(i.Density).Equal(uintOrZero(o.Density)) &&
		i.OverheadGasbase == o.OverheadGasbase &&
		i.OfferGasbase == o.OfferGasbase &&
		i.Lock == o.Lock &&
		i.Best == o.Best &&
		i.Last == o.Last
}
