package types

import (
	"bytes"
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Offer word layout
var (
	offerPrev  = field{0, 4}
	offerNext  = field{4, 4}
	offerWants = field{8, 12}
	offerGives = field{20, 12}
)

// Offer detail word layout
var (
	detailMaker           = field{0, 20}
	detailGasReq          = field{20, 3}
	detailOverheadGasbase = field{23, 3}
	detailOfferGasbase    = field{26, 3}
	detailGasPrice        = field{29, 2}
)

// OfferPacked describes the price and volume of an offer and its neighbours
// in the book. The matching layer owns the meaning of prev and next.
type OfferPacked [WordSize]byte

// OfferDetailPacked describes the maker and gas requirements of an offer.
type OfferDetailPacked [WordSize]byte

// OfferData is the record stored per (pair, offer id).
type OfferData struct {
	Offer  OfferPacked
	Detail OfferDetailPacked
}

// OfferInfo is the field-by-field form of OfferPacked.
type OfferInfo struct {
	Prev  uint32       `json:"prev"`
	Next  uint32       `json:"next"`
	Wants sdkmath.Uint `json:"wants"`
	Gives sdkmath.Uint `json:"gives"`
}

// OfferDetailInfo is the field-by-field form of OfferDetailPacked.
type OfferDetailInfo struct {
	Maker           sdk.AccAddress `json:"maker"`
	GasReq          uint64         `json:"gasreq"`
	OverheadGasbase uint64         `json:"overhead_gasbase"`
	OfferGasbase    uint64         `json:"offer_gasbase"`
	GasPrice        uint64         `json:"gasprice"`
}

// PackOffer validates every field width and packs info.
func PackOffer(info OfferInfo) (OfferPacked, error) {
	var o OfferPacked
	if !FitsBits(info.Wants, offerWants.bits()) {
		return o, ErrBoundsRejected.Wrapf("wants %s exceeds 96 bits", info.Wants)
	}
	if !FitsBits(info.Gives, offerGives.bits()) {
		return o, ErrBoundsRejected.Wrapf("gives %s exceeds 96 bits", info.Gives)
	}
	w := word(o).
		withUint64(offerPrev, uint64(info.Prev)).
		withUint64(offerNext, uint64(info.Next)).
		withUint(offerWants, info.Wants).
		withUint(offerGives, info.Gives)
	return OfferPacked(w), nil
}

// PackOfferDetail validates every field width and packs info.
func PackOfferDetail(info OfferDetailInfo) (OfferDetailPacked, error) {
	var d OfferDetailPacked
	if len(info.Maker) != detailMaker.size {
		return d, ErrBoundsRejected.Wrapf("maker address must be %d bytes, got %d", detailMaker.size, len(info.Maker))
	}
	for _, c := range []struct {
		name string
		v    uint64
		f    field
	}{
		{"gasreq", info.GasReq, detailGasReq},
		{"overhead gasbase", info.OverheadGasbase, detailOverheadGasbase},
		{"offer gasbase", info.OfferGasbase, detailOfferGasbase},
		{"gasprice", info.GasPrice, detailGasPrice},
	} {
		if !FitsUint64(c.v, c.f.bits()) {
			return d, ErrBoundsRejected.Wrapf("%s %d exceeds %d bits", c.name, c.v, c.f.bits())
		}
	}
	w := word(d).
		withBytes(detailMaker, info.Maker).
		withUint64(detailGasReq, info.GasReq).
		withUint64(detailOverheadGasbase, info.OverheadGasbase).
		withUint64(detailOfferGasbase, info.OfferGasbase).
		withUint64(detailGasPrice, info.GasPrice)
	return OfferDetailPacked(w), nil
}

func (o OfferPacked) Prev() uint32        { return uint32(word(o).uint64At(offerPrev)) }
func (o OfferPacked) Next() uint32        { return uint32(word(o).uint64At(offerNext)) }
func (o OfferPacked) Wants() sdkmath.Uint { return word(o).uintAt(offerWants) }
func (o OfferPacked) Gives() sdkmath.Uint { return word(o).uintAt(offerGives) }

// IsLive reports whether the offer still gives something.
func (o OfferPacked) IsLive() bool { return !word(o).isZeroAt(offerGives) }

// Retracted returns the offer with its volume and book links cleared.
func (o OfferPacked) Retracted() OfferPacked {
	w := word(o).
		withUint64(offerPrev, 0).
		withUint64(offerNext, 0).
		withUint(offerGives, sdkmath.ZeroUint())
	return OfferPacked(w)
}

func (o OfferPacked) Unpack() OfferInfo {
	return OfferInfo{Prev: o.Prev(), Next: o.Next(), Wants: o.Wants(), Gives: o.Gives()}
}

func (o OfferPacked) Hex() string { return word(o).hex() }

func (o OfferPacked) String() string {
	return fmt.Sprintf("offer{prev=%d next=%d wants=%s gives=%s}", o.Prev(), o.Next(), o.Wants(), o.Gives())
}

func (d OfferDetailPacked) Maker() sdk.AccAddress   { return word(d).bytesAt(detailMaker) }
func (d OfferDetailPacked) GasReq() uint64          { return word(d).uint64At(detailGasReq) }
func (d OfferDetailPacked) OverheadGasbase() uint64 { return word(d).uint64At(detailOverheadGasbase) }
func (d OfferDetailPacked) OfferGasbase() uint64    { return word(d).uint64At(detailOfferGasbase) }
func (d OfferDetailPacked) GasPrice() uint64        { return word(d).uint64At(detailGasPrice) }

func (d OfferDetailPacked) Unpack() OfferDetailInfo {
	return OfferDetailInfo{
		Maker:           d.Maker(),
		GasReq:          d.GasReq(),
		OverheadGasbase: d.OverheadGasbase(),
		OfferGasbase:    d.OfferGasbase(),
		GasPrice:        d.GasPrice(),
	}
}

func (d OfferDetailPacked) Hex() string { return word(d).hex() }

func (d OfferDetailPacked) String() string {
	return fmt.Sprintf("detail{maker=%s gasreq=%d overhead_gasbase=%d offer_gasbase=%d gasprice=%d}",
		d.Maker(), d.GasReq(), d.OverheadGasbase(), d.OfferGasbase(), d.GasPrice())
}

// ParseOfferPacked decodes a hex word as printed by Hex.
func ParseOfferPacked(s string) (OfferPacked, error) {
	w, err := parseWord(s)
	return OfferPacked(w), err
}

// ParseOfferDetailPacked decodes a hex word as printed by Hex.
func ParseOfferDetailPacked(s string) (OfferDetailPacked, error) {
	w, err := parseWord(s)
	return OfferDetailPacked(w), err
}

func (i OfferInfo) Equal(o OfferInfo) bool {
	return i.Prev == o.Prev && i.Next == o.Next &&
		uintOrZero(i.Wants).Equal(uintOrZero(o.Wants)) &&
		uintOrZero(i.Gives).Equal(uintOrZero(o.Gives))
}

func (i OfferDetailInfo) Equal(o OfferDetailInfo) bool {
	return bytes.Equal(i.Maker, o.Maker) &&
		i.GasReq == o.GasReq &&
		i.OverheadGasbase == o.OverheadGasbase &&
		i.OfferGasbase == o.OfferGasbase &&
		i.GasPrice == o.GasPrice
}

// OfferFromBytes decodes stored words. ok is false when bz is nil.
func OfferFromBytes(bz []byte) (OfferPacked, bool) {
	w, ok := wordFromBytes(bz)
	return OfferPacked(w), ok
}

// OfferDetailFromBytes decodes stored words. ok is false when bz is nil.
func OfferDetailFromBytes(bz []byte) (OfferDetailPacked, bool) {
	w, ok := wordFromBytes(bz)
	return OfferDetailPacked(w), ok
}

// GlobalFromBytes decodes the stored global word; nil reads as the zero word.
func GlobalFromBytes(bz []byte) GlobalPacked {
	w, _ := wordFromBytes(bz)
	return GlobalPacked(w)
}

// LocalFromBytes decodes a stored local word; nil reads as the zero word.
func LocalFromBytes(bz []byte) LocalPacked {
	w, _ := wordFromBytes(bz)
	return LocalPacked(w)
}

// Bytes returns a copy of the stored representation.
func (o OfferPacked) Bytes() []byte { return append([]byte(nil), o[:]...) }

// Bytes returns a copy of the stored representation.
func (d OfferDetailPacked) Bytes() []byte { return append([]byte(nil), d[:]...) }
