package types

import (
	"encoding/binary"

	"github.com/cosmos/cosmos-sdk/types/address"
)

const (
	// ModuleName defines the module name
	ModuleName = "offerbook"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName
)

// Store key prefixes
var (
	GlobalKey            = []byte{0x01} // packed global config
	LocalKeyPrefix       = []byte{0x02} // packed local config per pair
	OfferKeyPrefix       = []byte{0x03} // packed offer per (pair, id)
	OfferDetailKeyPrefix = []byte{0x04} // packed offer detail per (pair, id)
	BalanceKeyPrefix     = []byte{0x05} // maker credit per (maker, denom)
)

// PairKey returns the length-prefixed encoding of an ordered pair. The
// length prefixes keep (A,B) and (B,A) apart and stop denom boundaries from
// colliding.
func PairKey(outbound, inbound string) []byte {
	key := address.MustLengthPrefix([]byte(outbound))
	return append(key, address.MustLengthPrefix([]byte(inbound))...)
}

// ParsePairKey is the inverse of PairKey.
func ParsePairKey(key []byte) (outbound, inbound string, ok bool) {
	if len(key) < 1 {
		return "", "", false
	}
	n := int(key[0])
	if len(key) < 1+n+1 {
		return "", "", false
	}
	outbound = string(key[1 : 1+n])
	rest := key[1+n:]
	m := int(rest[0])
	if len(rest) != 1+m {
		return "", "", false
	}
	return outbound, string(rest[1:]), true
}

// LocalKey returns the store key for a pair's local config
func LocalKey(outbound, inbound string) []byte {
	return append(append([]byte{}, LocalKeyPrefix...), PairKey(outbound, inbound)...)
}

// OfferKey returns the store key for an offer
func OfferKey(outbound, inbound string, offerID uint32) []byte {
	key := append(append([]byte{}, OfferKeyPrefix...), PairKey(outbound, inbound)...)
	return append(key, OfferIDBytes(offerID)...)
}

// OfferDetailKey returns the store key for an offer detail
func OfferDetailKey(outbound, inbound string, offerID uint32) []byte {
	key := append(append([]byte{}, OfferDetailKeyPrefix...), PairKey(outbound, inbound)...)
	return append(key, OfferIDBytes(offerID)...)
}

// OfferPrefix returns the prefix under which all offers of a pair live
func OfferPrefix(outbound, inbound string) []byte {
	return append(append([]byte{}, OfferKeyPrefix...), PairKey(outbound, inbound)...)
}

// BalanceKey returns the store key for a maker's credit in a denom
func BalanceKey(maker []byte, denom string) []byte {
	key := append(append([]byte{}, BalanceKeyPrefix...), address.MustLengthPrefix(maker)...)
	return append(key, []byte(denom)...)
}

// ParseBalanceKey splits a balance key, without its prefix, into maker and denom
func ParseBalanceKey(key []byte) (maker []byte, denom string, ok bool) {
	if len(key) < 1 {
		return nil, "", false
	}
	n := int(key[0])
	if len(key) <= 1+n {
		return nil, "", false
	}
	return key[1 : 1+n], string(key[1+n:]), true
}

// OfferIDBytes encodes an offer id as 4 big-endian bytes
func OfferIDBytes(offerID uint32) []byte {
	bz := make([]byte, 4)
	binary.BigEndian.PutUint32(bz, offerID)
	return bz
}
