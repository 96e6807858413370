package keeper_test

import (
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/lnist/mangrove-core/x/offerbook/types"
)

func (suite *KeeperTestSuite) TestFundAndWithdraw() {
	k, ctx := suite.keeper, suite.ctx
	moduleAddr := k.GetModuleAddress()
	suite.bank.Mint(ctx, taker, sdk.NewCoins(sdk.NewInt64Coin("uatom", 1000)))

	// anyone can fund a maker
	suite.Require().NoError(k.Fund(ctx, taker, maker, sdk.NewInt64Coin("uatom", 600)))
	suite.Require().Equal(int64(600), k.Balance(ctx, maker, "uatom").Int64())
	suite.Require().Equal(int64(400), suite.bank.GetBalance(ctx, taker, "uatom").Amount.Int64())
	suite.Require().Equal(int64(600), suite.bank.GetBalance(ctx, moduleAddr, "uatom").Amount.Int64())
	suite.Require().True(suite.hasEvent(types.EventTypeCredit))

	suite.Require().NoError(k.Withdraw(ctx, maker, sdk.NewInt64Coin("uatom", 250)))
	suite.Require().Equal(int64(350), k.Balance(ctx, maker, "uatom").Int64())
	suite.Require().Equal(int64(250), suite.bank.GetBalance(ctx, maker, "uatom").Amount.Int64())
	suite.Require().True(suite.hasEvent(types.EventTypeDebit))

	suite.Require().NoError(k.Withdraw(ctx, maker, sdk.NewInt64Coin("uatom", 350)))
	suite.Require().True(k.Balance(ctx, maker, "uatom").IsZero())

	// a drained credit leaves nothing behind
	count := 0
	k.IterateBalances(ctx, func(sdk.AccAddress, sdk.Coin) bool {
		count++
		return false
	})
	suite.Require().Zero(count)
}

func (suite *KeeperTestSuite) TestWithdrawMoreThanCredited() {
	k, ctx := suite.keeper, suite.ctx
	suite.bank.Mint(ctx, maker, sdk.NewCoins(sdk.NewInt64Coin("uatom", 100)))
	suite.Require().NoError(k.Fund(ctx, maker, maker, sdk.NewInt64Coin("uatom", 100)))

	err := k.Withdraw(ctx, maker, sdk.NewInt64Coin("uatom", 101))
	suite.Require().ErrorIs(err, types.ErrInsufficientBalance)
	suite.Require().Equal(int64(100), k.Balance(ctx, maker, "uatom").Int64())

	// credit in one denom says nothing about another
	err = k.Withdraw(ctx, maker, sdk.NewInt64Coin("uosmo", 1))
	suite.Require().ErrorIs(err, types.ErrInsufficientBalance)
}

func (suite *KeeperTestSuite) TestFundFailedTransfer() {
	k, ctx := suite.keeper, suite.ctx

	// the funder holds nothing, so the bank send reverts
	err := k.Fund(ctx, taker, maker, sdk.NewInt64Coin("uatom", 10))
	suite.Require().ErrorIs(err, types.ErrTransferFailed)
	suite.Require().True(k.Balance(ctx, maker, "uatom").IsZero())
	suite.Require().True(suite.hasEvent(types.EventTypeTransferFailed))
}

func (suite *KeeperTestSuite) TestFundRejectsBadAmounts() {
	k, ctx := suite.keeper, suite.ctx
	suite.Require().ErrorIs(k.Fund(ctx, taker, maker, sdk.NewInt64Coin("uatom", 0)), types.ErrBoundsRejected)
	suite.Require().ErrorIs(k.Withdraw(ctx, maker, sdk.NewInt64Coin("uatom", 0)), types.ErrBoundsRejected)
	suite.Require().ErrorIs(k.Fund(ctx, taker, maker, sdk.Coin{Denom: "uatom", Amount: sdkmath.NewInt(-1)}), types.ErrBoundsRejected)
}

func (suite *KeeperTestSuite) TestDeadExchangeStillPaysOut() {
	k, ctx := suite.keeper, suite.ctx
	suite.bank.Mint(ctx, taker, sdk.NewCoins(sdk.NewInt64Coin("uatom", 100)))
	suite.Require().NoError(k.Fund(ctx, taker, maker, sdk.NewInt64Coin("uatom", 60)))
	suite.Require().NoError(k.Kill(ctx, authority))

	suite.Require().ErrorIs(k.Fund(ctx, taker, maker, sdk.NewInt64Coin("uatom", 10)), types.ErrExchangeDead)
	suite.Require().NoError(k.Withdraw(ctx, maker, sdk.NewInt64Coin("uatom", 60)))
	suite.Require().Equal(int64(60), suite.bank.GetBalance(ctx, maker, "uatom").Amount.Int64())
}
