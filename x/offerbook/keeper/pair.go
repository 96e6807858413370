package keeper

import (
	"context"
	"encoding/binary"

	storetypes "cosmossdk.io/store/types"

	"github.com/lnist/mangrove-core/x/offerbook/types"
)

// Pair is a handle on the stored state of one ordered pair, scoped to a
// single operation. Local is a snapshot of the stored word, never the
// oracle-adjusted view. Do not keep a handle across a call into external
// code: re-entrant mutations go through the lock check and would make it
// stale.
type Pair struct {
	Outbound string
	Inbound  string
	Local    types.LocalPacked

	store storetypes.KVStore
}

// getPair loads the handle for (outbound, inbound). An untouched pair reads
// as the zero local word: inactive, unlocked, zero density.
func (k Keeper) getPair(ctx context.Context, outbound, inbound string) *Pair {
	store := k.getStore(ctx)
	return &Pair{
		Outbound: outbound,
		Inbound:  inbound,
		Local:    types.LocalFromBytes(store.Get(types.LocalKey(outbound, inbound))),
		store:    store,
	}
}

// SaveLocal writes the handle's local word back to the store.
func (p *Pair) SaveLocal() {
	p.store.Set(types.LocalKey(p.Outbound, p.Inbound), p.Local.Bytes())
}

// Offer returns the stored offer record.
func (p *Pair) Offer(offerID uint32) (types.OfferData, bool) {
	offer, ok := types.OfferFromBytes(p.store.Get(types.OfferKey(p.Outbound, p.Inbound, offerID)))
	if !ok {
		return types.OfferData{}, false
	}
	detail, _ := types.OfferDetailFromBytes(p.store.Get(types.OfferDetailKey(p.Outbound, p.Inbound, offerID)))
	return types.OfferData{Offer: offer, Detail: detail}, true
}

// SetOffer stores both words of an offer record.
func (p *Pair) SetOffer(offerID uint32, data types.OfferData) {
	p.store.Set(types.OfferKey(p.Outbound, p.Inbound, offerID), data.Offer.Bytes())
	p.store.Set(types.OfferDetailKey(p.Outbound, p.Inbound, offerID), data.Detail.Bytes())
}

// DeleteOffer removes an offer record entirely.
func (p *Pair) DeleteOffer(offerID uint32) {
	p.store.Delete(types.OfferKey(p.Outbound, p.Inbound, offerID))
	p.store.Delete(types.OfferDetailKey(p.Outbound, p.Inbound, offerID))
}

// IterateOffers walks the pair's offers in id order until cb returns true.
func (p *Pair) IterateOffers(cb func(offerID uint32, data types.OfferData) (stop bool)) {
	prefix := types.OfferPrefix(p.Outbound, p.Inbound)
	iterator := storetypes.KVStorePrefixIterator(p.store, prefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		offerID := binary.BigEndian.Uint32(iterator.Key()[len(prefix):])
		offer, _ := types.OfferFromBytes(iterator.Value())
		detail, _ := types.OfferDetailFromBytes(p.store.Get(types.OfferDetailKey(p.Outbound, p.Inbound, offerID)))
		if cb(offerID, types.OfferData{Offer: offer, Detail: detail}) {
			break
		}
	}
}

// GetLocal returns a copy of the stored local config of a pair.
func (k Keeper) GetLocal(ctx context.Context, outbound, inbound string) types.LocalPacked {
	return k.getPair(ctx, outbound, inbound).Local
}

// IsLocked reports whether an operation currently holds the pair's lock.
func (k Keeper) IsLocked(ctx context.Context, outbound, inbound string) bool {
	return k.GetLocal(ctx, outbound, inbound).Lock()
}

// IteratePairs walks every configured pair until cb returns true.
func (k Keeper) IteratePairs(ctx context.Context, cb func(outbound, inbound string, local types.LocalPacked) (stop bool)) {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, types.LocalKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		outbound, inbound, ok := types.ParsePairKey(iterator.Key()[len(types.LocalKeyPrefix):])
		if !ok {
			k.Logger(ctx).Error("skipping malformed pair key", "key", iterator.Key())
			continue
		}
		if cb(outbound, inbound, types.LocalFromBytes(iterator.Value())) {
			break
		}
	}
}

// GetGlobal returns the stored global config.
func (k Keeper) GetGlobal(ctx context.Context) types.GlobalPacked {
	return types.GlobalFromBytes(k.getStore(ctx).Get(types.GlobalKey))
}

func (k Keeper) setGlobal(ctx context.Context, global types.GlobalPacked) {
	k.getStore(ctx).Set(types.GlobalKey, global.Bytes())
}
