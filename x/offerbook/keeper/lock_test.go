package keeper_test

import (
	"errors"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	keepertest "github.com/lnist/mangrove-core/testutil/keeper"
	"github.com/lnist/mangrove-core/x/offerbook/keeper"
	"github.com/lnist/mangrove-core/x/offerbook/types"
)

func (suite *KeeperTestSuite) TestLockedOnlyDuringMarketOrder() {
	suite.activate()
	suite.Require().False(suite.keeper.IsLocked(suite.ctx, outbound, inbound))

	ran := false
	err := suite.keeper.MarketOrder(suite.ctx, outbound, inbound,
		func(ctx sdk.Context, _ types.GlobalPacked, local types.LocalPacked, pair *keeper.Pair) error {
			ran = true
			suite.Require().True(suite.keeper.IsLocked(ctx, outbound, inbound))
			suite.Require().True(suite.keeper.IsLocked(suite.ctx, outbound, inbound))
			suite.Require().True(local.Lock())
			suite.Require().True(pair.Local.Lock())
			return nil
		})
	suite.Require().NoError(err)
	suite.Require().True(ran)
	suite.Require().False(suite.keeper.IsLocked(suite.ctx, outbound, inbound))
}

func (suite *KeeperTestSuite) TestReentrantCallsAreRejected() {
	suite.activate()
	suite.Require().NoError(suite.keeper.Activate(suite.ctx, authority, inbound, outbound, 0, sdkmath.ZeroUint(), 0, 0))
	offerID, err := suite.keeper.NewOffer(suite.ctx, maker, outbound, inbound, sdkmath.NewUint(10), sdkmath.NewUint(100_000), 10)
	suite.Require().NoError(err)

	err = suite.keeper.MarketOrder(suite.ctx, outbound, inbound,
		func(ctx sdk.Context, _ types.GlobalPacked, _ types.LocalPacked, _ *keeper.Pair) error {
			_, err := suite.keeper.NewOffer(ctx, maker, outbound, inbound, sdkmath.NewUint(1), sdkmath.NewUint(100_000), 10)
			suite.Require().ErrorIs(err, types.ErrReentrancyLocked)

			err = suite.keeper.UpdateOffer(ctx, maker, outbound, inbound, offerID, sdkmath.NewUint(1), sdkmath.NewUint(100_000), 10)
			suite.Require().ErrorIs(err, types.ErrReentrancyLocked)

			err = suite.keeper.RetractOffer(ctx, maker, outbound, inbound, offerID, false)
			suite.Require().ErrorIs(err, types.ErrReentrancyLocked)

			err = suite.keeper.MarketOrder(ctx, outbound, inbound,
				func(sdk.Context, types.GlobalPacked, types.LocalPacked, *keeper.Pair) error { return nil })
			suite.Require().ErrorIs(err, types.ErrReentrancyLocked)

			// the reverse pair has its own lock
			_, err = suite.keeper.NewOffer(ctx, maker, inbound, outbound, sdkmath.NewUint(1), sdkmath.NewUint(1), 10)
			suite.Require().NoError(err)
			return nil
		})
	suite.Require().NoError(err)

	// once unlocked the same mutation goes through
	suite.Require().NoError(suite.keeper.RetractOffer(suite.ctx, maker, outbound, inbound, offerID, false))
}

func (suite *KeeperTestSuite) TestMarketOrderErrorDiscardsWrites() {
	suite.activate()
	failure := errors.New("matching failed")

	err := suite.keeper.MarketOrder(suite.ctx, outbound, inbound,
		func(_ sdk.Context, _ types.GlobalPacked, _ types.LocalPacked, pair *keeper.Pair) error {
			pair.Local = pair.Local.WithBest(7)
			pair.SaveLocal()
			return failure
		})
	suite.Require().ErrorIs(err, failure)
	suite.Require().False(suite.keeper.IsLocked(suite.ctx, outbound, inbound))
	suite.Require().Zero(suite.keeper.GetLocal(suite.ctx, outbound, inbound).Best())
}

func (suite *KeeperTestSuite) TestMarketOrderCommitsOnSuccess() {
	suite.activate()

	err := suite.keeper.MarketOrder(suite.ctx, outbound, inbound,
		func(_ sdk.Context, _ types.GlobalPacked, _ types.LocalPacked, pair *keeper.Pair) error {
			pair.Local = pair.Local.WithBest(7)
			pair.SaveLocal()
			return nil
		})
	suite.Require().NoError(err)

	local := suite.keeper.GetLocal(suite.ctx, outbound, inbound)
	suite.Require().Equal(uint32(7), local.Best())
	suite.Require().False(local.Lock())
}

func (suite *KeeperTestSuite) TestMarketOrderPanicReleasesLock() {
	suite.activate()

	suite.Require().Panics(func() {
		_ = suite.keeper.MarketOrder(suite.ctx, outbound, inbound,
			func(sdk.Context, types.GlobalPacked, types.LocalPacked, *keeper.Pair) error {
				panic("matching bug")
			})
	})
	suite.Require().False(suite.keeper.IsLocked(suite.ctx, outbound, inbound))
}

func (suite *KeeperTestSuite) TestMarketOrderGates() {
	err := suite.keeper.MarketOrder(suite.ctx, outbound, inbound,
		func(sdk.Context, types.GlobalPacked, types.LocalPacked, *keeper.Pair) error { return nil })
	suite.Require().ErrorIs(err, types.ErrPairInactive)

	suite.activate()
	suite.Require().NoError(suite.keeper.Kill(suite.ctx, authority))
	err = suite.keeper.MarketOrder(suite.ctx, outbound, inbound,
		func(sdk.Context, types.GlobalPacked, types.LocalPacked, *keeper.Pair) error { return nil })
	suite.Require().ErrorIs(err, types.ErrExchangeDead)
}

func (suite *KeeperTestSuite) TestMarketOrderSeesEffectiveConfig() {
	suite.activate()
	suite.installMonitor(keepertest.HintMonitor(sdkmath.Uint{}, sdkmath.NewUint(3)))

	err := suite.keeper.MarketOrder(suite.ctx, outbound, inbound,
		func(_ sdk.Context, _ types.GlobalPacked, local types.LocalPacked, pair *keeper.Pair) error {
			suite.Require().True(local.Density().Equal(sdkmath.NewUint(3)))
			suite.Require().True(pair.Local.Density().Equal(sdkmath.NewUint(5)))
			return nil
		})
	suite.Require().NoError(err)
}

// A second mutation on a locked pair fails and succeeds once it is unlocked.
func (suite *KeeperTestSuite) TestLockedPairRejectsThenAccepts() {
	suite.activate()
	local := suite.keeper.GetLocal(suite.ctx, outbound, inbound)

	keeper.SetLocalForTest(suite.keeper, suite.ctx, outbound, inbound, local.WithLock(true))
	_, err := suite.keeper.NewOffer(suite.ctx, maker, outbound, inbound, sdkmath.NewUint(1), sdkmath.NewUint(100_000), 10)
	suite.Require().ErrorIs(err, types.ErrReentrancyLocked)

	keeper.SetLocalForTest(suite.keeper, suite.ctx, outbound, inbound, local)
	_, err = suite.keeper.NewOffer(suite.ctx, maker, outbound, inbound, sdkmath.NewUint(1), sdkmath.NewUint(100_000), 10)
	suite.Require().NoError(err)
}

func (suite *KeeperTestSuite) TestReleaseStrayLocks() {
	suite.activate()
	suite.Require().NoError(suite.keeper.Activate(suite.ctx, authority, inbound, outbound, 0, sdkmath.ZeroUint(), 0, 0))
	local := suite.keeper.GetLocal(suite.ctx, outbound, inbound)
	keeper.SetLocalForTest(suite.keeper, suite.ctx, outbound, inbound, local.WithLock(true))

	suite.Require().Equal(1, suite.keeper.ReleaseStrayLocks(suite.ctx))
	suite.Require().False(suite.keeper.IsLocked(suite.ctx, outbound, inbound))
	suite.Require().Equal(0, suite.keeper.ReleaseStrayLocks(suite.ctx))

	// the rest of the word is untouched
	suite.Require().Equal(local, suite.keeper.GetLocal(suite.ctx, outbound, inbound))
}
