package keeper_test

import (
	"math"

	sdkmath "cosmossdk.io/math"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	keepertest "github.com/lnist/mangrove-core/testutil/keeper"
	"github.com/lnist/mangrove-core/x/offerbook/keeper"
	"github.com/lnist/mangrove-core/x/offerbook/types"
)

// density 5 and offer gasbase 2000: an offer with gasreq 10 must give at
// least 5 * 2010 = 10050.
const minGives = 10050

func (suite *KeeperTestSuite) TestNewOffer() {
	suite.activate()
	k, ctx := suite.keeper, suite.ctx

	first, err := k.NewOffer(ctx, maker, outbound, inbound, sdkmath.NewUint(100), sdkmath.NewUint(minGives), 10)
	suite.Require().NoError(err)
	suite.Require().Equal(uint32(1), first)

	second, err := k.NewOffer(ctx, maker, outbound, inbound, sdkmath.NewUint(200), sdkmath.NewUint(minGives*2), 10)
	suite.Require().NoError(err)
	suite.Require().Equal(uint32(2), second)
	suite.Require().Equal(uint32(2), k.GetLocal(ctx, outbound, inbound).Last())

	offer, detail, found := k.OfferInfo(ctx, outbound, inbound, first)
	suite.Require().True(found)
	suite.Require().True(offer.Wants.Equal(sdkmath.NewUint(100)))
	suite.Require().True(offer.Gives.Equal(sdkmath.NewUint(minGives)))
	suite.Require().Equal(maker, detail.Maker)
	suite.Require().Equal(uint64(10), detail.GasReq)
	suite.Require().Equal(uint64(1000), detail.OverheadGasbase)
	suite.Require().Equal(uint64(2000), detail.OfferGasbase)
	suite.Require().Equal(types.DefaultGasPrice, detail.GasPrice)
	suite.Require().True(suite.hasEvent(types.EventTypeOfferWrite))

	_, _, found = k.OfferInfo(ctx, outbound, inbound, 3)
	suite.Require().False(found)
}

func (suite *KeeperTestSuite) TestNewOfferBounds() {
	suite.activate()
	k, ctx := suite.keeper, suite.ctx

	_, err := k.NewOffer(ctx, maker, outbound, inbound, sdkmath.NewUint(1), sdkmath.NewUint(minGives-1), 10)
	suite.Require().ErrorIs(err, types.ErrDensityTooLow)

	_, err = k.NewOffer(ctx, maker, outbound, inbound, sdkmath.NewUint(1), sdkmath.NewUint(minGives), types.DefaultGasMax+1)
	suite.Require().ErrorIs(err, types.ErrGasReqTooHigh)

	_, err = k.NewOffer(ctx, maker, outbound, inbound, sdkmath.NewUint(1), sdkmath.ZeroUint(), 10)
	suite.Require().ErrorIs(err, types.ErrBoundsRejected)

	tooMuch := sdkmath.NewUintFromString("79228162514264337593543950336") // 2^96
	_, err = k.NewOffer(ctx, maker, outbound, inbound, tooMuch, sdkmath.NewUint(minGives), 10)
	suite.Require().ErrorIs(err, types.ErrBoundsRejected)

	// rejected offers consume no id
	suite.Require().Zero(k.GetLocal(ctx, outbound, inbound).Last())
}

func (suite *KeeperTestSuite) TestNewOfferUsesEffectiveDensity() {
	suite.activate()
	suite.installMonitor(keepertest.HintMonitor(sdkmath.NewUint(25), sdkmath.NewUint(1)))

	offerID, err := suite.keeper.NewOffer(suite.ctx, maker, outbound, inbound, sdkmath.NewUint(1), sdkmath.NewUint(2010), 10)
	suite.Require().NoError(err)

	_, detail, _ := suite.keeper.OfferInfo(suite.ctx, outbound, inbound, offerID)
	suite.Require().Equal(uint64(25), detail.GasPrice)
}

func (suite *KeeperTestSuite) TestNewOfferGates() {
	k, ctx := suite.keeper, suite.ctx

	_, err := k.NewOffer(ctx, maker, outbound, inbound, sdkmath.NewUint(1), sdkmath.NewUint(1), 0)
	suite.Require().ErrorIs(err, types.ErrPairInactive)

	_, err = k.NewOffer(ctx, maker, outbound, outbound, sdkmath.NewUint(1), sdkmath.NewUint(1), 0)
	suite.Require().ErrorIs(err, types.ErrInvalidPair)
}

func (suite *KeeperTestSuite) TestNewOfferIDOverflow() {
	suite.activate()
	local := suite.keeper.GetLocal(suite.ctx, outbound, inbound)
	keeper.SetLocalForTest(suite.keeper, suite.ctx, outbound, inbound, local.WithLast(math.MaxUint32))

	_, err := suite.keeper.NewOffer(suite.ctx, maker, outbound, inbound, sdkmath.NewUint(1), sdkmath.NewUint(minGives), 10)
	suite.Require().ErrorIs(err, types.ErrOfferIDOverflow)
}

func (suite *KeeperTestSuite) TestUpdateOffer() {
	suite.activate()
	k, ctx := suite.keeper, suite.ctx
	offerID, err := k.NewOffer(ctx, maker, outbound, inbound, sdkmath.NewUint(100), sdkmath.NewUint(minGives), 10)
	suite.Require().NoError(err)

	suite.Require().NoError(k.UpdateOffer(ctx, maker, outbound, inbound, offerID, sdkmath.NewUint(300), sdkmath.NewUint(minGives*3), 20))
	offer, detail, _ := k.OfferInfo(ctx, outbound, inbound, offerID)
	suite.Require().True(offer.Wants.Equal(sdkmath.NewUint(300)))
	suite.Require().Equal(uint64(20), detail.GasReq)

	err = k.UpdateOffer(ctx, taker, outbound, inbound, offerID, sdkmath.NewUint(1), sdkmath.NewUint(minGives), 10)
	suite.Require().ErrorIs(err, sdkerrors.ErrUnauthorized)

	err = k.UpdateOffer(ctx, maker, outbound, inbound, 42, sdkmath.NewUint(1), sdkmath.NewUint(minGives), 10)
	suite.Require().ErrorIs(err, types.ErrOfferNotFound)

	err = k.UpdateOffer(ctx, maker, outbound, inbound, offerID, sdkmath.NewUint(1), sdkmath.NewUint(1), 10)
	suite.Require().ErrorIs(err, types.ErrDensityTooLow)
}

func (suite *KeeperTestSuite) TestUpdateOfferOnInactivePair() {
	suite.activate()
	k, ctx := suite.keeper, suite.ctx
	offerID, err := k.NewOffer(ctx, maker, outbound, inbound, sdkmath.NewUint(100), sdkmath.NewUint(minGives), 10)
	suite.Require().NoError(err)
	suite.Require().NoError(k.Deactivate(ctx, authority, outbound, inbound))

	// a live offer can still be adjusted
	suite.Require().NoError(k.UpdateOffer(ctx, maker, outbound, inbound, offerID, sdkmath.NewUint(50), sdkmath.NewUint(minGives), 10))

	// but a retracted one cannot come back while the pair is closed
	suite.Require().NoError(k.RetractOffer(ctx, maker, outbound, inbound, offerID, false))
	err = k.UpdateOffer(ctx, maker, outbound, inbound, offerID, sdkmath.NewUint(50), sdkmath.NewUint(minGives), 10)
	suite.Require().ErrorIs(err, types.ErrPairInactive)
}

func (suite *KeeperTestSuite) TestRetractOffer() {
	suite.activate()
	k, ctx := suite.keeper, suite.ctx
	offerID, err := k.NewOffer(ctx, maker, outbound, inbound, sdkmath.NewUint(100), sdkmath.NewUint(minGives), 10)
	suite.Require().NoError(err)

	suite.Require().ErrorIs(k.RetractOffer(ctx, taker, outbound, inbound, offerID, false), sdkerrors.ErrUnauthorized)

	suite.Require().NoError(k.RetractOffer(ctx, maker, outbound, inbound, offerID, false))
	data, found := k.Offer(ctx, outbound, inbound, offerID)
	suite.Require().True(found)
	suite.Require().False(data.Offer.IsLive())
	suite.Require().Equal(maker, data.Detail.Maker())
	suite.Require().True(suite.hasEvent(types.EventTypeOfferRetract))

	// retracted offers can be revived on an active pair
	suite.Require().NoError(k.UpdateOffer(ctx, maker, outbound, inbound, offerID, sdkmath.NewUint(100), sdkmath.NewUint(minGives), 10))
	data, _ = k.Offer(ctx, outbound, inbound, offerID)
	suite.Require().True(data.Offer.IsLive())

	suite.Require().NoError(k.RetractOffer(ctx, maker, outbound, inbound, offerID, true))
	_, found = k.Offer(ctx, outbound, inbound, offerID)
	suite.Require().False(found)
	suite.Require().ErrorIs(k.RetractOffer(ctx, maker, outbound, inbound, offerID, true), types.ErrOfferNotFound)
}

func (suite *KeeperTestSuite) TestRetractOnDeadExchange() {
	suite.activate()
	k, ctx := suite.keeper, suite.ctx
	offerID, err := k.NewOffer(ctx, maker, outbound, inbound, sdkmath.NewUint(100), sdkmath.NewUint(minGives), 10)
	suite.Require().NoError(err)
	suite.Require().NoError(k.Kill(ctx, authority))

	suite.Require().NoError(k.RetractOffer(ctx, maker, outbound, inbound, offerID, true))
}
