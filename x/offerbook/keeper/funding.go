package keeper

import (
	"context"

	sdkmath "cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/lnist/mangrove-core/x/offerbook/types"
)

// Fund moves amount from `from` into the module account and credits it to
// maker. Funding a dead exchange is refused.
func (k Keeper) Fund(ctx context.Context, from, maker sdk.AccAddress, amount sdk.Coin) error {
	if err := k.gate("fund", types.RequireLive(k.GetGlobal(ctx))); err != nil {
		return err
	}
	if err := validateAmount(amount); err != nil {
		return err
	}

	token := NewBankToken(k.bankKeeper, amount.Denom)
	if !k.TransferTokenFrom(ctx, token, from, k.GetModuleAddress(), coinUint(amount)) {
		return types.ErrTransferFailed.Wrapf("fund %s from %s", amount, from)
	}

	balance := k.Balance(ctx, maker, amount.Denom).Add(amount.Amount)
	k.setBalance(ctx, maker, amount.Denom, balance)

	k.Logger(ctx).Debug("maker credited", "maker", maker.String(), "amount", amount.String())
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeCredit,
			sdk.NewAttribute(types.AttributeKeyMaker, maker.String()),
			sdk.NewAttribute(types.AttributeKeyFrom, from.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)
	return nil
}

// Withdraw pays amount of maker's credit back to maker. It is open on a dead
// exchange so that funds can always be recovered.
func (k Keeper) Withdraw(ctx context.Context, maker sdk.AccAddress, amount sdk.Coin) error {
	if err := validateAmount(amount); err != nil {
		return err
	}

	balance := k.Balance(ctx, maker, amount.Denom)
	if balance.LT(amount.Amount) {
		return types.ErrInsufficientBalance.Wrapf("maker %s has %s%s, wants %s", maker, balance, amount.Denom, amount)
	}

	token := NewBankToken(k.bankKeeper, amount.Denom)
	if !k.TransferToken(ctx, token, maker, coinUint(amount)) {
		return types.ErrTransferFailed.Wrapf("withdraw %s to %s", amount, maker)
	}
	k.setBalance(ctx, maker, amount.Denom, balance.Sub(amount.Amount))

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeDebit,
			sdk.NewAttribute(types.AttributeKeyMaker, maker.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)
	return nil
}

// Balance returns maker's credit in denom, zero if none.
func (k Keeper) Balance(ctx context.Context, maker sdk.AccAddress, denom string) sdkmath.Int {
	bz := k.getStore(ctx).Get(types.BalanceKey(maker, denom))
	if bz == nil {
		return sdkmath.ZeroInt()
	}
	var amount sdkmath.Int
	if err := amount.Unmarshal(bz); err != nil {
		panic(err)
	}
	return amount
}

// IterateBalances walks every maker credit until cb returns true.
func (k Keeper) IterateBalances(ctx context.Context, cb func(maker sdk.AccAddress, amount sdk.Coin) (stop bool)) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.BalanceKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		maker, denom, ok := types.ParseBalanceKey(iterator.Key()[len(types.BalanceKeyPrefix):])
		if !ok {
			continue
		}
		var amount sdkmath.Int
		if err := amount.Unmarshal(iterator.Value()); err != nil {
			panic(err)
		}
		if cb(maker, sdk.NewCoin(denom, amount)) {
			break
		}
	}
}

func (k Keeper) setBalance(ctx context.Context, maker sdk.AccAddress, denom string, amount sdkmath.Int) {
	store := k.getStore(ctx)
	key := types.BalanceKey(maker, denom)
	if amount.IsZero() {
		store.Delete(key)
		return
	}
	bz, err := amount.Marshal()
	if err != nil {
		panic(err)
	}
	store.Set(key, bz)
}

func validateAmount(amount sdk.Coin) error {
	if err := amount.Validate(); err != nil {
		return types.ErrBoundsRejected.Wrap(err.Error())
	}
	if !amount.IsPositive() {
		return types.ErrBoundsRejected.Wrapf("amount %s must be positive", amount)
	}
	return nil
}

func coinUint(c sdk.Coin) sdkmath.Uint {
	return sdkmath.NewUintFromBigInt(c.Amount.BigInt())
}
