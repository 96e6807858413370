package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/lnist/mangrove-core/x/offerbook/types"
)

// InitGenesis initializes the offerbook module's state from a genesis state
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return err
	}

	global, err := types.PackGlobal(genState.Global)
	if err != nil {
		return fmt.Errorf("failed to pack global config: %w", err)
	}
	k.setGlobal(ctx, global)

	for _, ps := range genState.Pairs {
		local, err := types.PackLocal(ps.Local)
		if err != nil {
			return fmt.Errorf("failed to pack pair %s/%s: %w", ps.Outbound, ps.Inbound, err)
		}

		pair := k.getPair(ctx, ps.Outbound, ps.Inbound)
		pair.Local = local
		pair.SaveLocal()
		if local.Active() {
			k.metrics.ActivePairs.Inc()
		}

		for _, o := range ps.Offers {
			offer, err := types.PackOffer(o.Offer)
			if err != nil {
				return fmt.Errorf("failed to pack offer %d: %w", o.ID, err)
			}
			detail, err := types.PackOfferDetail(o.Detail)
			if err != nil {
				return fmt.Errorf("failed to pack offer detail %d: %w", o.ID, err)
			}
			pair.SetOffer(o.ID, types.OfferData{Offer: offer, Detail: detail})
		}
	}

	for _, b := range genState.Balances {
		k.setBalance(ctx, b.Maker, b.Amount.Denom, b.Amount.Amount)
	}

	return nil
}

// ExportGenesis returns the offerbook module's exported genesis
func (k Keeper) ExportGenesis(ctx context.Context) *types.GenesisState {
	genState := &types.GenesisState{
		Global:   k.GetGlobal(ctx).Unpack(),
		Pairs:    []types.PairState{},
		Balances: []types.MakerBalance{},
	}

	k.IteratePairs(ctx, func(outbound, inbound string, local types.LocalPacked) bool {
		genState.Pairs = append(genState.Pairs, types.PairState{
			Outbound: outbound,
			Inbound:  inbound,
			Local:    local.Unpack(),
			Offers:   []types.OfferState{},
		})
		return false
	})

	for i := range genState.Pairs {
		ps := &genState.Pairs[i]
		k.getPair(ctx, ps.Outbound, ps.Inbound).IterateOffers(func(offerID uint32, data types.OfferData) bool {
			ps.Offers = append(ps.Offers, types.OfferState{
				ID:     offerID,
				Offer:  data.Offer.Unpack(),
				Detail: data.Detail.Unpack(),
			})
			return false
		})
	}

	k.IterateBalances(ctx, func(maker sdk.AccAddress, amount sdk.Coin) bool {
		genState.Balances = append(genState.Balances, types.MakerBalance{
			Maker:  append(sdk.AccAddress(nil), maker...),
			Amount: amount,
		})
		return false
	})

	return genState
}
