package keeper

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/lnist/mangrove-core/x/offerbook/types"
)

// RegisterInvariants registers all offerbook invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "unlocked-pairs", UnlockedPairsInvariant(k))
	ir.RegisterRoute(types.ModuleName, "offer-ids", OfferIDsInvariant(k))
	ir.RegisterRoute(types.ModuleName, "global-widths", PackedWidthsInvariant(k))
	ir.RegisterRoute(types.ModuleName, "solvency", SolvencyInvariant(k))
}

// AllInvariants runs all invariants of the offerbook module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := UnlockedPairsInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		res, stop = OfferIDsInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		res, stop = PackedWidthsInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		return SolvencyInvariant(k)(ctx)
	}
}

// UnlockedPairsInvariant checks that no pair lock outlives the operation
// that took it.
func UnlockedPairsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		k.IteratePairs(ctx, func(outbound, inbound string, local types.LocalPacked) bool {
			if local.Lock() {
				count++
				msg += fmt.Sprintf("pair %s/%s is locked\n", outbound, inbound)
			}
			return false
		})

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "unlocked-pairs",
			fmt.Sprintf("found %d locked pairs\n%s", count, msg),
		), broken
	}
}

// OfferIDsInvariant checks that every stored offer id was assigned, i.e. is
// positive and at most the pair's last id.
func OfferIDsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
			pairs [][2]string
		)

		k.IteratePairs(ctx, func(outbound, inbound string, _ types.LocalPacked) bool {
			pairs = append(pairs, [2]string{outbound, inbound})
			return false
		})

		for _, p := range pairs {
			pair := k.getPair(ctx, p[0], p[1])
			last := pair.Local.Last()
			pair.IterateOffers(func(offerID uint32, _ types.OfferData) bool {
				if offerID == 0 || offerID > last {
					count++
					msg += fmt.Sprintf("pair %s/%s: offer %d above last id %d\n", p[0], p[1], offerID, last)
				}
				return false
			})
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "offer-ids",
			fmt.Sprintf("found %d unassigned offer ids\n%s", count, msg),
		), broken
	}
}

// PackedWidthsInvariant checks that the stored global and local words pack
// back to themselves, so no field holds a value its setter would reject.
func PackedWidthsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		global := k.GetGlobal(ctx)
		if repacked, err := types.PackGlobal(global.Unpack()); err != nil || repacked != global {
			count++
			msg += fmt.Sprintf("global word %s does not repack\n", global.Hex())
		}

		k.IteratePairs(ctx, func(outbound, inbound string, local types.LocalPacked) bool {
			if repacked, err := types.PackLocal(local.Unpack()); err != nil || repacked != local {
				count++
				msg += fmt.Sprintf("pair %s/%s: local word %s does not repack\n", outbound, inbound, local.Hex())
			}
			return false
		})

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "global-widths",
			fmt.Sprintf("found %d malformed packed words\n%s", count, msg),
		), broken
	}
}

// SolvencyInvariant checks that the module account holds, per denom, at
// least the sum of all maker credits.
func SolvencyInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		credits := make(map[string]sdkmath.Int)
		var denoms []string
		k.IterateBalances(ctx, func(_ sdk.AccAddress, amount sdk.Coin) bool {
			total, seen := credits[amount.Denom]
			if !seen {
				total = sdkmath.ZeroInt()
				denoms = append(denoms, amount.Denom)
			}
			credits[amount.Denom] = total.Add(amount.Amount)
			return false
		})

		moduleAddr := k.GetModuleAddress()
		for _, denom := range denoms {
			held := k.bankKeeper.GetBalance(ctx, moduleAddr, denom)
			if held.Amount.LT(credits[denom]) {
				count++
				msg += fmt.Sprintf("denom %s: module balance %s < credited %s\n", denom, held.Amount, credits[denom])
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "solvency",
			fmt.Sprintf("found %d undercollateralized denoms\n%s", count, msg),
		), broken
	}
}
