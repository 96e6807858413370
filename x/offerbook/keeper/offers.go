package keeper

import (
	"context"
	"errors"
	"math"
	"strconv"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/lnist/mangrove-core/x/offerbook/types"
)

// NewOffer posts an offer from maker on the pair and returns its id. Ids are
// assigned sequentially from 1 and never reused.
func (k Keeper) NewOffer(
	ctx context.Context,
	maker sdk.AccAddress,
	outbound, inbound string,
	wants, gives sdkmath.Uint,
	gasreq uint64,
) (uint32, error) {
	if err := types.ValidatePair(outbound, inbound); err != nil {
		return 0, err
	}

	global, local, pair := k.configWithPair(ctx, outbound, inbound)
	if err := k.gate("new_offer", types.RequireUnlocked(pair.Local)); err != nil {
		return 0, err
	}
	if err := k.gate("new_offer", types.RequireActive(global, local)); err != nil {
		return 0, err
	}

	last := pair.Local.Last()
	if last == math.MaxUint32 {
		return 0, types.ErrOfferIDOverflow.Wrapf("pair %s/%s", outbound, inbound)
	}
	offerID := last + 1

	data, err := buildOffer(global, local, maker, types.OfferPacked{}, wants, gives, gasreq)
	if err != nil {
		return 0, err
	}

	pair.Local = pair.Local.WithLast(offerID)
	pair.SaveLocal()
	pair.SetOffer(offerID, data)

	k.metrics.OffersWritten.WithLabelValues(outbound, inbound, "new").Inc()
	k.emitOfferWrite(ctx, outbound, inbound, offerID, maker)
	return offerID, nil
}

// UpdateOffer rewrites the amounts and gas requirement of one of maker's
// offers. It works on inactive pairs too, and can revive a retracted offer
// while the pair is active.
func (k Keeper) UpdateOffer(
	ctx context.Context,
	maker sdk.AccAddress,
	outbound, inbound string,
	offerID uint32,
	wants, gives sdkmath.Uint,
	gasreq uint64,
) error {
	global, local, pair := k.configWithPair(ctx, outbound, inbound)
	if err := k.gate("update_offer", types.RequireUnlocked(pair.Local)); err != nil {
		return err
	}

	existing, err := ownedOffer(pair, maker, offerID)
	if err != nil {
		return err
	}
	// reviving a retracted offer puts liquidity back on the book
	if !existing.Offer.IsLive() {
		if err := k.gate("update_offer", types.RequireActive(global, local)); err != nil {
			return err
		}
	}

	data, err := buildOffer(global, local, maker, existing.Offer, wants, gives, gasreq)
	if err != nil {
		return err
	}
	pair.SetOffer(offerID, data)

	k.metrics.OffersWritten.WithLabelValues(outbound, inbound, "update").Inc()
	k.emitOfferWrite(ctx, outbound, inbound, offerID, maker)
	return nil
}

// RetractOffer takes one of maker's offers off the book. The detail is kept
// so the offer can be updated back in, unless deprovision is set, in which
// case the whole record goes.
func (k Keeper) RetractOffer(
	ctx context.Context,
	maker sdk.AccAddress,
	outbound, inbound string,
	offerID uint32,
	deprovision bool,
) error {
	pair := k.getPair(ctx, outbound, inbound)
	if err := k.gate("retract_offer", types.RequireUnlocked(pair.Local)); err != nil {
		return err
	}

	existing, err := ownedOffer(pair, maker, offerID)
	if err != nil {
		return err
	}
	if deprovision {
		pair.DeleteOffer(offerID)
	} else {
		existing.Offer = existing.Offer.Retracted()
		pair.SetOffer(offerID, existing)
	}

	k.metrics.OffersRetracted.WithLabelValues(outbound, inbound, strconv.FormatBool(deprovision)).Inc()
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOfferRetract,
			sdk.NewAttribute(types.AttributeKeyOutbound, outbound),
			sdk.NewAttribute(types.AttributeKeyInbound, inbound),
			sdk.NewAttribute(types.AttributeKeyOfferID, strconv.FormatUint(uint64(offerID), 10)),
			sdk.NewAttribute(types.AttributeKeyMaker, maker.String()),
		),
	)
	return nil
}

// Offer returns the stored record of an offer.
func (k Keeper) Offer(ctx context.Context, outbound, inbound string, offerID uint32) (types.OfferData, bool) {
	return k.getPair(ctx, outbound, inbound).Offer(offerID)
}

// OfferInfo is the unpacked view of Offer.
func (k Keeper) OfferInfo(ctx context.Context, outbound, inbound string, offerID uint32) (types.OfferInfo, types.OfferDetailInfo, bool) {
	data, found := k.Offer(ctx, outbound, inbound, offerID)
	if !found {
		return types.OfferInfo{}, types.OfferDetailInfo{}, false
	}
	return data.Offer.Unpack(), data.Detail.Unpack(), true
}

func ownedOffer(pair *Pair, maker sdk.AccAddress, offerID uint32) (types.OfferData, error) {
	data, found := pair.Offer(offerID)
	if !found {
		return types.OfferData{}, types.ErrOfferNotFound.Wrapf("offer %d on %s/%s", offerID, pair.Outbound, pair.Inbound)
	}
	if !data.Detail.Maker().Equals(maker) {
		return types.OfferData{}, sdkerrors.ErrUnauthorized.Wrapf("offer %d belongs to %s", offerID, data.Detail.Maker())
	}
	return data, nil
}

// buildOffer checks the offer against the effective config and packs it,
// keeping the list links of prev. The detail records the gasprice and
// gasbases in force when the offer was written.
func buildOffer(
	global types.GlobalPacked,
	local types.LocalPacked,
	maker sdk.AccAddress,
	prev types.OfferPacked,
	wants, gives sdkmath.Uint,
	gasreq uint64,
) (types.OfferData, error) {
	if gives.IsNil() || gives.IsZero() {
		return types.OfferData{}, types.ErrBoundsRejected.Wrap("gives must be positive")
	}
	if gasreq > global.GasMax() {
		return types.OfferData{}, types.ErrGasReqTooHigh.Wrapf("gasreq %d, gasmax %d", gasreq, global.GasMax())
	}
	required := local.Density().Mul(sdkmath.NewUint(gasreq + local.OfferGasbase()))
	if gives.LT(required) {
		return types.OfferData{}, types.ErrDensityTooLow.Wrapf("gives %s, density requires %s", gives, required)
	}

	offer, err := types.PackOffer(types.OfferInfo{
		Prev:  prev.Prev(),
		Next:  prev.Next(),
		Wants: wants,
		Gives: gives,
	})
	if err != nil {
		return types.OfferData{}, err
	}
	detail, err := types.PackOfferDetail(types.OfferDetailInfo{
		Maker:           maker,
		GasReq:          gasreq,
		OverheadGasbase: local.OverheadGasbase(),
		OfferGasbase:    local.OfferGasbase(),
		GasPrice:        global.GasPrice(),
	})
	if err != nil {
		return types.OfferData{}, err
	}
	return types.OfferData{Offer: offer, Detail: detail}, nil
}

// gate counts a refused entry and passes the error through.
func (k Keeper) gate(op string, err error) error {
	if err == nil {
		return nil
	}
	reason := "unknown"
	switch {
	case errors.Is(err, types.ErrReentrancyLocked):
		reason = "locked"
	case errors.Is(err, types.ErrExchangeDead):
		reason = "dead"
	case errors.Is(err, types.ErrPairInactive):
		reason = "inactive"
	}
	k.metrics.GateRejections.WithLabelValues(op, reason).Inc()
	return err
}

func (k Keeper) emitOfferWrite(ctx context.Context, outbound, inbound string, offerID uint32, maker sdk.AccAddress) {
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOfferWrite,
			sdk.NewAttribute(types.AttributeKeyOutbound, outbound),
			sdk.NewAttribute(types.AttributeKeyInbound, inbound),
			sdk.NewAttribute(types.AttributeKeyOfferID, strconv.FormatUint(uint64(offerID), 10)),
			sdk.NewAttribute(types.AttributeKeyMaker, maker.String()),
		),
	)
}
