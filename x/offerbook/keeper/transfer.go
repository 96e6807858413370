package keeper

import (
	"context"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/lnist/mangrove-core/x/offerbook/types"
)

// TransferToken moves amount of token from the module account to `to`. It
// never fails the caller: a reverting token, a panicking token and a token
// returning false all give false, and their writes are discarded. A token
// that returns no data on success gives true.
//
// The result does not say why a transfer failed. An insufficient balance and
// a malformed token look the same to the caller.
func (k Keeper) TransferToken(ctx context.Context, token types.Token, to sdk.AccAddress, amount sdkmath.Uint) bool {
	sender := k.GetModuleAddress()
	return k.tokenCall(ctx, "transfer", sender, to, amount, func(c sdk.Context) ([]byte, error) {
		return token.Transfer(c, sender, to, amount)
	})
}

// TransferTokenFrom moves amount of token from `from` to `to` with the module
// account as spender. Failure handling matches TransferToken.
func (k Keeper) TransferTokenFrom(ctx context.Context, token types.Token, from, to sdk.AccAddress, amount sdkmath.Uint) bool {
	spender := k.GetModuleAddress()
	return k.tokenCall(ctx, "transfer_from", from, to, amount, func(c sdk.Context) ([]byte, error) {
		return token.TransferFrom(c, spender, from, to, amount)
	})
}

func (k Keeper) tokenCall(
	ctx context.Context,
	op string,
	from, to sdk.AccAddress,
	amount sdkmath.Uint,
	fn func(c sdk.Context) ([]byte, error),
) bool {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	// Writes made by the token only persist if the transfer is a success.
	cacheCtx, writeFn := sdkCtx.CacheContext()
	res := k.callExternal(cacheCtx, "token_"+op, fn)
	if res.TransferSucceeded() {
		writeFn()
		return true
	}

	status := res.Status.String()
	if res.Succeeded() {
		// call went through but the return data was false or malformed
		status = "returned_false"
	}
	k.metrics.TransferFailures.WithLabelValues(op, status).Inc()
	k.Logger(ctx).Error("token transfer failed",
		"op", op,
		"from", from.String(),
		"to", to.String(),
		"amount", amount.String(),
		"status", status,
		"reason", res.Reason,
	)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeTransferFailed,
			sdk.NewAttribute(types.AttributeKeyFrom, from.String()),
			sdk.NewAttribute(types.AttributeKeyTo, to.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			sdk.NewAttribute(types.AttributeKeyStatus, status),
			sdk.NewAttribute(types.AttributeKeyReason, res.Reason),
		),
	)
	return false
}
