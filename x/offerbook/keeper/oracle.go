package keeper

import (
	"context"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/lnist/mangrove-core/x/offerbook/types"
)

// applyMonitor folds the monitor's hints into the effective config of a pair
// when the oracle is enabled. Each hint is taken only if it fits its packed
// width; the two checks are independent. Nothing is written back.
//
// A monitor that fails is ignored and the stored values are kept, so a
// misbehaving monitor cannot halt trading on the pairs it covers.
func (k Keeper) applyMonitor(
	ctx context.Context,
	global types.GlobalPacked,
	local types.LocalPacked,
	outbound, inbound string,
) (types.GlobalPacked, types.LocalPacked) {
	if !global.UseOracle() {
		return global, local
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	monitorAddr := global.Monitor()
	gasprice, density, res := k.readMonitor(sdkCtx, monitorAddr, outbound, inbound)
	if !res.Succeeded() {
		k.metrics.MonitorFailures.WithLabelValues("read", res.Status.String()).Inc()
		k.Logger(ctx).Error("monitor read failed, keeping stored config",
			"monitor", monitorAddr.String(),
			"outbound", outbound,
			"inbound", inbound,
			"status", res.Status.String(),
			"reason", res.Reason,
		)
		sdkCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeMonitorReadFailed,
				sdk.NewAttribute(types.AttributeKeyMonitor, monitorAddr.String()),
				sdk.NewAttribute(types.AttributeKeyOutbound, outbound),
				sdk.NewAttribute(types.AttributeKeyInbound, inbound),
				sdk.NewAttribute(types.AttributeKeyStatus, res.Status.String()),
				sdk.NewAttribute(types.AttributeKeyReason, res.Reason),
			),
		)
		return global, local
	}

	// a nil hint means the monitor has no opinion
	switch {
	case gasprice.IsNil():
	case types.Fits16(gasprice):
		global = global.WithGasPrice(gasprice.Uint64())
		k.metrics.OracleHints.WithLabelValues("gasprice", "applied").Inc()
	default:
		k.metrics.OracleHints.WithLabelValues("gasprice", "rejected").Inc()
		k.Logger(ctx).Debug("ignoring out of range gasprice hint", "hint", gasprice.String(), "outbound", outbound, "inbound", inbound)
	}

	switch {
	case density.IsNil():
	case types.Fits112(density):
		local = local.WithDensity(density)
		k.metrics.OracleHints.WithLabelValues("density", "applied").Inc()
	default:
		k.metrics.OracleHints.WithLabelValues("density", "rejected").Inc()
		k.Logger(ctx).Debug("ignoring out of range density hint", "hint", density.String(), "outbound", outbound, "inbound", inbound)
	}

	return global, local
}

// readMonitor queries the monitor on a cache context that is never written,
// so the read cannot mutate exchange state.
func (k Keeper) readMonitor(
	ctx sdk.Context,
	monitorAddr sdk.AccAddress,
	outbound, inbound string,
) (gasprice, density sdkmath.Uint, res types.CallResult) {
	monitor, ok := k.monitors.Monitor(monitorAddr)
	if !ok {
		return gasprice, density, types.CallResult{
			Status: types.CallRevertReason,
			Reason: types.ErrInvalidMonitor.Wrapf("no route for monitor %q", monitorAddr.String()).Error(),
		}
	}

	cacheCtx, _ := ctx.CacheContext()
	res = k.callExternal(cacheCtx, "monitor_read", func(c sdk.Context) ([]byte, error) {
		var err error
		gasprice, density, err = monitor.Read(c, outbound, inbound)
		return nil, err
	})
	if !res.Succeeded() {
		return sdkmath.Uint{}, sdkmath.Uint{}, res
	}
	return gasprice, density, res
}

// NotifyMonitor reports an executed offer to the monitor when the exchange
// is configured to notify. Failures are logged and otherwise ignored, for
// the same reason monitor reads fail open.
func (k Keeper) NotifyMonitor(ctx context.Context, sor types.SingleOrder, taker sdk.AccAddress, success bool) {
	global := k.GetGlobal(ctx)
	if !global.Notify() {
		return
	}
	monitorAddr := global.Monitor()
	monitor, ok := k.monitors.Monitor(monitorAddr)
	if !ok {
		k.Logger(ctx).Error("notify enabled but monitor has no route", "monitor", monitorAddr.String())
		k.metrics.MonitorFailures.WithLabelValues("notify", types.CallRevertReason.String()).Inc()
		return
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cacheCtx, writeFn := sdkCtx.CacheContext()
	res := k.callExternal(cacheCtx, "monitor_notify", func(c sdk.Context) ([]byte, error) {
		if success {
			return nil, monitor.NotifySuccess(c, sor, taker)
		}
		return nil, monitor.NotifyFail(c, sor, taker)
	})
	if res.Succeeded() {
		writeFn()
		return
	}

	k.metrics.MonitorFailures.WithLabelValues("notify", res.Status.String()).Inc()
	k.Logger(ctx).Error("monitor notify failed",
		"monitor", monitorAddr.String(),
		"outbound", sor.Outbound,
		"inbound", sor.Inbound,
		"offer_id", sor.OfferID,
		"reason", res.Reason,
	)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeMonitorNotifyFail,
			sdk.NewAttribute(types.AttributeKeyMonitor, monitorAddr.String()),
			sdk.NewAttribute(types.AttributeKeyOutbound, sor.Outbound),
			sdk.NewAttribute(types.AttributeKeyInbound, sor.Inbound),
			sdk.NewAttribute(types.AttributeKeyStatus, res.Status.String()),
		),
	)
}
