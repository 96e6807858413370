package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/lnist/mangrove-core/x/offerbook/types"
)

// ConfigWithPairForTest exposes configWithPair to keeper_test.
func ConfigWithPairForTest(k *Keeper, ctx sdk.Context, outbound, inbound string) (types.GlobalPacked, types.LocalPacked, *Pair) {
	return k.configWithPair(ctx, outbound, inbound)
}

// SetLocalForTest overwrites the stored local word of a pair, bypassing
// every check.
func SetLocalForTest(k *Keeper, ctx sdk.Context, outbound, inbound string, local types.LocalPacked) {
	pair := k.getPair(ctx, outbound, inbound)
	pair.Local = local
	pair.SaveLocal()
}

// SetGlobalForTest overwrites the stored global word.
func SetGlobalForTest(k *Keeper, ctx sdk.Context, global types.GlobalPacked) {
	k.setGlobal(ctx, global)
}

// SetOfferForTest stores an offer record directly.
func SetOfferForTest(k *Keeper, ctx sdk.Context, outbound, inbound string, offerID uint32, data types.OfferData) {
	k.getPair(ctx, outbound, inbound).SetOffer(offerID, data)
}
