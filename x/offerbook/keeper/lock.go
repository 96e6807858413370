package keeper

import (
	"context"

	"github.com/lnist/mangrove-core/x/offerbook/types"
)

// WithPairLock executes fn while holding the reentrancy lock of a pair.
// The lock lives in the stored local word so any nested entry point sees it,
// whatever context it was handed. It is released on every exit path.
func (k Keeper) WithPairLock(ctx context.Context, outbound, inbound string, fn func() error) error {
	if err := k.acquirePairLock(ctx, outbound, inbound); err != nil {
		return err
	}

	// Ensure lock is released even if fn fails or panics
	defer k.releasePairLock(ctx, outbound, inbound)

	return fn()
}

// acquirePairLock re-reads the stored word rather than trusting a handle.
func (k Keeper) acquirePairLock(ctx context.Context, outbound, inbound string) error {
	pair := k.getPair(ctx, outbound, inbound)
	if err := types.RequireUnlocked(pair.Local); err != nil {
		k.metrics.ReentrancyRejections.WithLabelValues(outbound, inbound).Inc()
		return types.ErrReentrancyLocked.Wrapf("pair %s/%s", outbound, inbound)
	}

	pair.Local = pair.Local.WithLock(true)
	pair.SaveLocal()
	return nil
}

func (k Keeper) releasePairLock(ctx context.Context, outbound, inbound string) {
	pair := k.getPair(ctx, outbound, inbound)
	pair.Local = pair.Local.WithLock(false)
	pair.SaveLocal()
}

// ReleaseStrayLocks clears any lock still set between transactions and
// returns how many were found. A lock can only survive a transaction through
// a bug, so every hit is logged as an error.
func (k Keeper) ReleaseStrayLocks(ctx context.Context) int {
	var stray [][2]string
	k.IteratePairs(ctx, func(outbound, inbound string, local types.LocalPacked) bool {
		if local.Lock() {
			stray = append(stray, [2]string{outbound, inbound})
		}
		return false
	})

	for _, p := range stray {
		k.Logger(ctx).Error("releasing stray pair lock", "outbound", p[0], "inbound", p[1])
		k.releasePairLock(ctx, p[0], p[1])
		k.metrics.StrayLocksReleased.Inc()
	}
	return len(stray)
}
