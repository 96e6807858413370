package keeper

import (
	"context"
	"strconv"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"

	"github.com/lnist/mangrove-core/x/offerbook/types"
)

func (k Keeper) validateAuthority(authority string) error {
	if k.authority != authority {
		return govtypes.ErrInvalidSigner.Wrapf(
			"invalid authority; expected %s, got %s",
			k.authority,
			authority,
		)
	}
	return nil
}

// SetGasPrice sets the stored gasprice. Unlike a monitor hint, a value that
// does not fit 16 bits is a hard error.
func (k Keeper) SetGasPrice(ctx context.Context, authority string, gasprice sdkmath.Uint) error {
	if err := k.validateAuthority(authority); err != nil {
		return err
	}
	if gasprice.IsNil() || !types.Fits16(gasprice) {
		return types.ErrBoundsRejected.Wrapf("gasprice %s does not fit 16 bits", uintString(gasprice))
	}

	k.setGlobal(ctx, k.GetGlobal(ctx).WithGasPrice(gasprice.Uint64()))
	k.globalUpdated(ctx, "gasprice", gasprice.String())
	return nil
}

// SetGasMax sets the per-offer gas cap.
func (k Keeper) SetGasMax(ctx context.Context, authority string, gasmax uint64) error {
	if err := k.validateAuthority(authority); err != nil {
		return err
	}
	if !types.FitsUint64(gasmax, 24) {
		return types.ErrBoundsRejected.Wrapf("gasmax %d does not fit 24 bits", gasmax)
	}

	k.setGlobal(ctx, k.GetGlobal(ctx).WithGasMax(gasmax))
	k.globalUpdated(ctx, "gasmax", strconv.FormatUint(gasmax, 10))
	return nil
}

// SetMonitor sets the monitor address. An empty address clears it.
func (k Keeper) SetMonitor(ctx context.Context, authority string, monitor sdk.AccAddress) error {
	if err := k.validateAuthority(authority); err != nil {
		return err
	}
	if err := types.ValidateMonitorAddress(monitor); err != nil {
		return err
	}

	k.setGlobal(ctx, k.GetGlobal(ctx).WithMonitor(monitor))
	k.globalUpdated(ctx, "monitor", monitor.String())
	return nil
}

// SetUseOracle toggles reading gasprice and density hints from the monitor.
func (k Keeper) SetUseOracle(ctx context.Context, authority string, useOracle bool) error {
	if err := k.validateAuthority(authority); err != nil {
		return err
	}

	k.setGlobal(ctx, k.GetGlobal(ctx).WithUseOracle(useOracle))
	k.globalUpdated(ctx, "use_oracle", strconv.FormatBool(useOracle))
	return nil
}

// SetNotify toggles reporting executed offers to the monitor.
func (k Keeper) SetNotify(ctx context.Context, authority string, notify bool) error {
	if err := k.validateAuthority(authority); err != nil {
		return err
	}

	k.setGlobal(ctx, k.GetGlobal(ctx).WithNotify(notify))
	k.globalUpdated(ctx, "notify", strconv.FormatBool(notify))
	return nil
}

// Kill marks the exchange dead. There is no way back: nothing clears the
// flag once set.
func (k Keeper) Kill(ctx context.Context, authority string) error {
	if err := k.validateAuthority(authority); err != nil {
		return err
	}

	global := k.GetGlobal(ctx)
	if global.Dead() {
		return nil
	}
	k.setGlobal(ctx, global.WithDead(true))

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	k.Logger(ctx).Info("exchange killed", "height", sdkCtx.BlockHeight())
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeKill,
			sdk.NewAttribute(types.AttributeKeyHeight, strconv.FormatInt(sdkCtx.BlockHeight(), 10)),
		),
	)
	k.metrics.ConfigUpdates.WithLabelValues("global", "dead").Inc()
	return nil
}

// Activate opens a pair for new offers and market orders with the given
// fee, density and gasbases. Activating an active pair re-sets its values.
func (k Keeper) Activate(
	ctx context.Context,
	authority string,
	outbound, inbound string,
	fee uint64,
	density sdkmath.Uint,
	overheadGasbase, offerGasbase uint64,
) error {
	if err := k.validateAuthority(authority); err != nil {
		return err
	}
	if err := types.ValidatePair(outbound, inbound); err != nil {
		return err
	}
	if err := types.ValidateFee(fee); err != nil {
		return err
	}
	if density.IsNil() || !types.Fits112(density) {
		return types.ErrBoundsRejected.Wrapf("density %s does not fit 112 bits", uintString(density))
	}
	if err := types.ValidateGasbase(overheadGasbase, offerGasbase); err != nil {
		return err
	}

	pair := k.getPair(ctx, outbound, inbound)
	wasActive := pair.Local.Active()
	pair.Local = pair.Local.
		WithActive(true).
		WithFee(fee).
		WithDensity(density).
		WithOverheadGasbase(overheadGasbase).
		WithOfferGasbase(offerGasbase)
	pair.SaveLocal()

	if !wasActive {
		k.metrics.ActivePairs.Inc()
	}
	k.Logger(ctx).Info("pair activated",
		"outbound", outbound,
		"inbound", inbound,
		"fee", fee,
		"density", density.String(),
		"overhead_gasbase", overheadGasbase,
		"offer_gasbase", offerGasbase,
	)
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeActivate,
			sdk.NewAttribute(types.AttributeKeyOutbound, outbound),
			sdk.NewAttribute(types.AttributeKeyInbound, inbound),
		),
	)
	return nil
}

// Deactivate closes a pair. Resting offers stay in place and can still be
// updated or retracted by their makers.
func (k Keeper) Deactivate(ctx context.Context, authority, outbound, inbound string) error {
	if err := k.validateAuthority(authority); err != nil {
		return err
	}
	if err := types.ValidatePair(outbound, inbound); err != nil {
		return err
	}

	pair := k.getPair(ctx, outbound, inbound)
	if !pair.Local.Active() {
		return nil
	}
	pair.Local = pair.Local.WithActive(false)
	pair.SaveLocal()

	k.metrics.ActivePairs.Dec()
	k.Logger(ctx).Info("pair deactivated", "outbound", outbound, "inbound", inbound)
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeDeactivate,
			sdk.NewAttribute(types.AttributeKeyOutbound, outbound),
			sdk.NewAttribute(types.AttributeKeyInbound, inbound),
		),
	)
	return nil
}

// SetFee sets the taker fee of a pair in basis points.
func (k Keeper) SetFee(ctx context.Context, authority, outbound, inbound string, fee uint64) error {
	if err := k.validateAuthority(authority); err != nil {
		return err
	}
	if err := types.ValidatePair(outbound, inbound); err != nil {
		return err
	}
	if err := types.ValidateFee(fee); err != nil {
		return err
	}

	pair := k.getPair(ctx, outbound, inbound)
	pair.Local = pair.Local.WithFee(fee)
	pair.SaveLocal()
	k.localUpdated(ctx, outbound, inbound, "fee", strconv.FormatUint(fee, 10))
	return nil
}

// SetDensity sets the stored density of a pair.
func (k Keeper) SetDensity(ctx context.Context, authority, outbound, inbound string, density sdkmath.Uint) error {
	if err := k.validateAuthority(authority); err != nil {
		return err
	}
	if err := types.ValidatePair(outbound, inbound); err != nil {
		return err
	}
	if density.IsNil() || !types.Fits112(density) {
		return types.ErrBoundsRejected.Wrapf("density %s does not fit 112 bits", uintString(density))
	}

	pair := k.getPair(ctx, outbound, inbound)
	pair.Local = pair.Local.WithDensity(density)
	pair.SaveLocal()
	k.localUpdated(ctx, outbound, inbound, "density", density.String())
	return nil
}

// SetGasbase sets both gasbases of a pair.
func (k Keeper) SetGasbase(ctx context.Context, authority, outbound, inbound string, overheadGasbase, offerGasbase uint64) error {
	if err := k.validateAuthority(authority); err != nil {
		return err
	}
	if err := types.ValidatePair(outbound, inbound); err != nil {
		return err
	}
	if err := types.ValidateGasbase(overheadGasbase, offerGasbase); err != nil {
		return err
	}

	pair := k.getPair(ctx, outbound, inbound)
	pair.Local = pair.Local.WithOverheadGasbase(overheadGasbase).WithOfferGasbase(offerGasbase)
	pair.SaveLocal()
	k.localUpdated(ctx, outbound, inbound, "gasbase",
		strconv.FormatUint(overheadGasbase, 10)+"/"+strconv.FormatUint(offerGasbase, 10))
	return nil
}

func (k Keeper) globalUpdated(ctx context.Context, field, value string) {
	k.metrics.ConfigUpdates.WithLabelValues("global", field).Inc()
	k.Logger(ctx).Info("global config updated", "field", field, "value", value)
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSetGlobal,
			sdk.NewAttribute(types.AttributeKeyField, field),
			sdk.NewAttribute(types.AttributeKeyValue, value),
		),
	)
}

func (k Keeper) localUpdated(ctx context.Context, outbound, inbound, field, value string) {
	k.metrics.ConfigUpdates.WithLabelValues("local", field).Inc()
	k.Logger(ctx).Info("pair config updated",
		"outbound", outbound,
		"inbound", inbound,
		"field", field,
		"value", value,
	)
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSetLocal,
			sdk.NewAttribute(types.AttributeKeyOutbound, outbound),
			sdk.NewAttribute(types.AttributeKeyInbound, inbound),
			sdk.NewAttribute(types.AttributeKeyField, field),
			sdk.NewAttribute(types.AttributeKeyValue, value),
		),
	)
}

func uintString(x sdkmath.Uint) string {
	if x.IsNil() {
		return "<nil>"
	}
	return x.String()
}
