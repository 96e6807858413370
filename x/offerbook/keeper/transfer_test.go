package keeper_test

import (
	"context"
	"errors"

	sdkmath "cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	keepertest "github.com/lnist/mangrove-core/testutil/keeper"
	"github.com/lnist/mangrove-core/x/offerbook/keeper"
	"github.com/lnist/mangrove-core/x/offerbook/types"
)

func (suite *KeeperTestSuite) TestTransferTokenOutcomes() {
	tests := []struct {
		name  string
		token keepertest.MockToken
		want  bool
	}{
		{
			name: "revert",
			token: keepertest.MockToken{
				TransferFn: func(context.Context, sdk.AccAddress, sdk.AccAddress, sdkmath.Uint) ([]byte, error) {
					return nil, errors.New("insufficient balance")
				},
			},
			want: false,
		},
		{
			name: "panic",
			token: keepertest.MockToken{
				TransferFn: func(context.Context, sdk.AccAddress, sdk.AccAddress, sdkmath.Uint) ([]byte, error) {
					panic("bad token")
				},
			},
			want: false,
		},
		{name: "no return data", token: keepertest.ReturningToken(nil), want: true},
		{name: "false word", token: keepertest.ReturningToken(types.EncodeBool(false)), want: false},
		{name: "true word", token: keepertest.ReturningToken(types.EncodeBool(true)), want: true},
		{name: "malformed data", token: keepertest.ReturningToken([]byte{0x01, 0x02}), want: false},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.SetupTest()
			got := suite.keeper.TransferToken(suite.ctx, tc.token, taker, sdkmath.NewUint(100))
			suite.Require().Equal(tc.want, got)
			suite.Require().Equal(!tc.want, suite.hasEvent(types.EventTypeTransferFailed))
		})
	}
}

func (suite *KeeperTestSuite) TestTransferTokenFromPassesModuleAsSpender() {
	var gotSpender, gotFrom sdk.AccAddress
	token := keepertest.MockToken{
		TransferFromFn: func(_ context.Context, spender, from, _ sdk.AccAddress, _ sdkmath.Uint) ([]byte, error) {
			gotSpender, gotFrom = spender, from
			return types.EncodeBool(true), nil
		},
	}

	suite.Require().True(suite.keeper.TransferTokenFrom(suite.ctx, token, maker, taker, sdkmath.NewUint(1)))
	suite.Require().Equal(suite.keeper.GetModuleAddress(), gotSpender)
	suite.Require().Equal(maker, gotFrom)
}

func (suite *KeeperTestSuite) TestFailedTransferDiscardsTokenWrites() {
	token := keepertest.MockToken{
		TransferFn: func(ctx context.Context, _, to sdk.AccAddress, amount sdkmath.Uint) ([]byte, error) {
			suite.bank.Mint(ctx, to, sdk.NewCoins(sdk.NewCoin("uatom", sdkmath.NewIntFromBigInt(amount.BigInt()))))
			return types.EncodeBool(false), nil
		},
	}

	suite.Require().False(suite.keeper.TransferToken(suite.ctx, token, taker, sdkmath.NewUint(100)))
	suite.Require().True(suite.bank.GetBalance(suite.ctx, taker, "uatom").IsZero())
}

func (suite *KeeperTestSuite) TestSuccessfulTransferKeepsTokenWrites() {
	moduleAddr := suite.keeper.GetModuleAddress()
	suite.bank.Mint(suite.ctx, moduleAddr, sdk.NewCoins(sdk.NewInt64Coin("uatom", 500)))

	token := keeper.NewBankToken(suite.bank, "uatom")
	suite.Require().True(suite.keeper.TransferToken(suite.ctx, token, taker, sdkmath.NewUint(200)))
	suite.Require().Equal(int64(200), suite.bank.GetBalance(suite.ctx, taker, "uatom").Amount.Int64())
	suite.Require().Equal(int64(300), suite.bank.GetBalance(suite.ctx, moduleAddr, "uatom").Amount.Int64())

	// more than the module holds: the bank reverts and nothing moves
	suite.Require().False(suite.keeper.TransferToken(suite.ctx, token, taker, sdkmath.NewUint(1000)))
	suite.Require().Equal(int64(200), suite.bank.GetBalance(suite.ctx, taker, "uatom").Amount.Int64())
}

func (suite *KeeperTestSuite) TestTransferOutOfGasPropagates() {
	token := keepertest.MockToken{
		TransferFn: func(context.Context, sdk.AccAddress, sdk.AccAddress, sdkmath.Uint) ([]byte, error) {
			panic(storetypes.ErrorOutOfGas{Descriptor: "token transfer"})
		},
	}

	suite.Require().PanicsWithValue(storetypes.ErrorOutOfGas{Descriptor: "token transfer"}, func() {
		suite.keeper.TransferToken(suite.ctx, token, taker, sdkmath.NewUint(1))
	})
}

func (suite *KeeperTestSuite) TestTransferNeverPropagatesErrors() {
	suite.Require().NotPanics(func() {
		suite.Require().False(suite.keeper.TransferToken(suite.ctx, keepertest.MockToken{}, taker, sdkmath.NewUint(1)))
		suite.Require().False(suite.keeper.TransferTokenFrom(suite.ctx, keepertest.MockToken{}, maker, taker, sdkmath.NewUint(1)))
	})
}
