package keeper

import (
	"context"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/lnist/mangrove-core/x/offerbook/types"
)

var _ types.Token = BankToken{}

// BankToken exposes a native x/bank denom as a Token. Like many non-standard
// tokens it returns no data on success.
type BankToken struct {
	bank  types.BankKeeper
	denom string
}

// NewBankToken returns the Token for denom.
func NewBankToken(bank types.BankKeeper, denom string) BankToken {
	return BankToken{bank: bank, denom: denom}
}

// Denom returns the underlying bank denom.
func (t BankToken) Denom() string { return t.denom }

func (t BankToken) Transfer(ctx context.Context, sender, to sdk.AccAddress, amount sdkmath.Uint) ([]byte, error) {
	return nil, t.bank.SendCoins(ctx, sender, to, t.coins(amount))
}

// TransferFrom moves coins on behalf of from. x/bank has no allowances: the
// enclosing transaction must already be signed by from.
func (t BankToken) TransferFrom(ctx context.Context, _ sdk.AccAddress, from, to sdk.AccAddress, amount sdkmath.Uint) ([]byte, error) {
	return nil, t.bank.SendCoins(ctx, from, to, t.coins(amount))
}

func (t BankToken) coins(amount sdkmath.Uint) sdk.Coins {
	return sdk.NewCoins(sdk.NewCoin(t.denom, sdkmath.NewIntFromBigInt(amount.BigInt())))
}
