package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/lnist/mangrove-core/x/offerbook/types"
)

// MarketOrderFunc is the matching step run under the pair lock. global and
// local are the effective config; pair.Local is the stored word and must be
// saved through pair for changes to persist.
type MarketOrderFunc func(ctx sdk.Context, global types.GlobalPacked, local types.LocalPacked, pair *Pair) error

// MarketOrder runs fn with the pair locked. Any mutating entry point reached
// from inside fn on the same pair, including through maker or token code,
// fails with ErrReentrancyLocked. fn's writes are applied only if it returns
// nil.
func (k Keeper) MarketOrder(ctx context.Context, outbound, inbound string, fn MarketOrderFunc) error {
	if err := types.ValidatePair(outbound, inbound); err != nil {
		return err
	}

	global, local, pair := k.configWithPair(ctx, outbound, inbound)
	if err := k.gate("market_order", types.RequireUnlocked(pair.Local)); err != nil {
		return err
	}
	if err := k.gate("market_order", types.RequireActive(global, local)); err != nil {
		return err
	}

	err := k.WithPairLock(ctx, outbound, inbound, func() error {
		// the lock is in the parent store, so the cache sees it held
		cacheCtx, writeFn := sdk.UnwrapSDKContext(ctx).CacheContext()
		locked := k.getPair(cacheCtx, outbound, inbound)
		if err := fn(cacheCtx, global, local.WithLock(true), locked); err != nil {
			return err
		}
		writeFn()
		return nil
	})

	status := "success"
	if err != nil {
		status = "failed"
		k.Logger(ctx).Debug("market order aborted", "outbound", outbound, "inbound", inbound, "error", err)
	}
	k.metrics.MarketOrders.WithLabelValues(outbound, inbound, status).Inc()
	return err
}
