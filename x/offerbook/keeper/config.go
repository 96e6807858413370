package keeper

import (
	"context"

	"github.com/lnist/mangrove-core/x/offerbook/types"
)

// Config returns the effective global and local config of a pair: the stored
// words with any accepted monitor hints folded in. It never fails and never
// writes.
func (k Keeper) Config(ctx context.Context, outbound, inbound string) (types.GlobalPacked, types.LocalPacked) {
	global, local, _ := k.configWithPair(ctx, outbound, inbound)
	return global, local
}

// configWithPair is Config for callers that go on to mutate the pair. The
// returned handle carries the stored local word, not the effective one, so
// saving it never persists a monitor hint.
func (k Keeper) configWithPair(ctx context.Context, outbound, inbound string) (types.GlobalPacked, types.LocalPacked, *Pair) {
	pair := k.getPair(ctx, outbound, inbound)
	global, local := k.applyMonitor(ctx, k.GetGlobal(ctx), pair.Local, outbound, inbound)
	return global, local, pair
}

// ConfigInfo is the unpacked view of Config.
func (k Keeper) ConfigInfo(ctx context.Context, outbound, inbound string) (types.GlobalInfo, types.LocalInfo) {
	global, local := k.Config(ctx, outbound, inbound)
	return global.Unpack(), local.Unpack()
}
