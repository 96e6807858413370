package keeper

import (
	"context"
	"testing"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	"github.com/stretchr/testify/require"

	"github.com/lnist/mangrove-core/x/offerbook/keeper"
	"github.com/lnist/mangrove-core/x/offerbook/types"
)

// Authority is the governance authority of test keepers.
var Authority = authtypes.NewModuleAddress(govtypes.ModuleName).String()

// OfferbookKeeper creates a test keeper for the offerbook module backed by an
// in-memory bank. The store is initialized with the default genesis.
func OfferbookKeeper(t testing.TB) (*keeper.Keeper, sdk.Context, *MockBankKeeper) {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	bank := NewMockBankKeeper(storeKey)
	k := keeper.NewKeeper(storeKey, bank, Authority)

	ctx := sdk.NewContext(stateStore, cmtproto.Header{Height: 1}, false, log.NewNopLogger())
	require.NoError(t, k.InitGenesis(ctx, *types.DefaultGenesis()))

	return k, ctx, bank
}

// MockBankKeeper keeps balances in the offerbook store under a prefix of its
// own, so cache contexts discard bank writes exactly like module writes.
type MockBankKeeper struct {
	storeKey storetypes.StoreKey
}

var mockBankPrefix = []byte{0xbb}

// NewMockBankKeeper returns a bank that stores balances under storeKey.
func NewMockBankKeeper(storeKey storetypes.StoreKey) *MockBankKeeper {
	return &MockBankKeeper{storeKey: storeKey}
}

// Mint credits coins to addr out of thin air.
func (b *MockBankKeeper) Mint(ctx context.Context, addr sdk.AccAddress, coins sdk.Coins) {
	for _, c := range coins {
		b.set(ctx, addr, c.Denom, b.GetBalance(ctx, addr, c.Denom).Amount.Add(c.Amount))
	}
}

func (b *MockBankKeeper) SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error {
	for _, c := range amt {
		have := b.GetBalance(ctx, fromAddr, c.Denom).Amount
		if have.LT(c.Amount) {
			return sdkerrors.ErrInsufficientFunds.Wrapf("%s has %s%s, needs %s", fromAddr, have, c.Denom, c)
		}
	}
	for _, c := range amt {
		b.set(ctx, fromAddr, c.Denom, b.GetBalance(ctx, fromAddr, c.Denom).Amount.Sub(c.Amount))
		b.set(ctx, toAddr, c.Denom, b.GetBalance(ctx, toAddr, c.Denom).Amount.Add(c.Amount))
	}
	return nil
}

func (b *MockBankKeeper) GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	bz := b.store(ctx).Get(b.key(addr, denom))
	if bz == nil {
		return sdk.NewCoin(denom, sdkmath.ZeroInt())
	}
	var amount sdkmath.Int
	if err := amount.Unmarshal(bz); err != nil {
		panic(err)
	}
	return sdk.NewCoin(denom, amount)
}

func (b *MockBankKeeper) set(ctx context.Context, addr sdk.AccAddress, denom string, amount sdkmath.Int) {
	bz, err := amount.Marshal()
	if err != nil {
		panic(err)
	}
	b.store(ctx).Set(b.key(addr, denom), bz)
}

func (b *MockBankKeeper) store(ctx context.Context) storetypes.KVStore {
	return sdk.UnwrapSDKContext(ctx).KVStore(b.storeKey)
}

func (b *MockBankKeeper) key(addr sdk.AccAddress, denom string) []byte {
	key := append(append([]byte{}, mockBankPrefix...), types.PairKey(string(addr), denom)...)
	return key
}

// MockToken is a Token whose behaviour is set per test. A nil func fails
// the call.
type MockToken struct {
	TransferFn     func(ctx context.Context, sender, to sdk.AccAddress, amount sdkmath.Uint) ([]byte, error)
	TransferFromFn func(ctx context.Context, spender, from, to sdk.AccAddress, amount sdkmath.Uint) ([]byte, error)
}

var _ types.Token = MockToken{}

func (m MockToken) Transfer(ctx context.Context, sender, to sdk.AccAddress, amount sdkmath.Uint) ([]byte, error) {
	if m.TransferFn == nil {
		return nil, sdkerrors.ErrNotSupported
	}
	return m.TransferFn(ctx, sender, to, amount)
}

func (m MockToken) TransferFrom(ctx context.Context, spender, from, to sdk.AccAddress, amount sdkmath.Uint) ([]byte, error) {
	if m.TransferFromFn == nil {
		return nil, sdkerrors.ErrNotSupported
	}
	return m.TransferFromFn(ctx, spender, from, to, amount)
}

// ReturningToken is a token whose Transfer always returns data.
func ReturningToken(data []byte) MockToken {
	return MockToken{
		TransferFn: func(context.Context, sdk.AccAddress, sdk.AccAddress, sdkmath.Uint) ([]byte, error) {
			return data, nil
		},
	}
}

// MockMonitor is a Monitor whose behaviour is set per test. Notifications
// are recorded.
type MockMonitor struct {
	ReadFn func(ctx context.Context, outbound, inbound string) (sdkmath.Uint, sdkmath.Uint, error)

	NotifyErr error
	Successes []types.SingleOrder
	Failures  []types.SingleOrder
}

var _ types.Monitor = (*MockMonitor)(nil)

// HintMonitor returns a monitor that always suggests gasprice and density.
func HintMonitor(gasprice, density sdkmath.Uint) *MockMonitor {
	return &MockMonitor{
		ReadFn: func(context.Context, string, string) (sdkmath.Uint, sdkmath.Uint, error) {
			return gasprice, density, nil
		},
	}
}

func (m *MockMonitor) Read(ctx context.Context, outbound, inbound string) (sdkmath.Uint, sdkmath.Uint, error) {
	if m.ReadFn == nil {
		return sdkmath.Uint{}, sdkmath.Uint{}, nil
	}
	return m.ReadFn(ctx, outbound, inbound)
}

func (m *MockMonitor) NotifySuccess(_ context.Context, sor types.SingleOrder, _ sdk.AccAddress) error {
	if m.NotifyErr != nil {
		return m.NotifyErr
	}
	m.Successes = append(m.Successes, sor)
	return nil
}

func (m *MockMonitor) NotifyFail(_ context.Context, sor types.SingleOrder, _ sdk.AccAddress) error {
	if m.NotifyErr != nil {
		return m.NotifyErr
	}
	m.Failures = append(m.Failures, sor)
	return nil
}

// InstallMonitor routes addr to m on k and points the global config at it.
func InstallMonitor(t testing.TB, k *keeper.Keeper, ctx sdk.Context, addr sdk.AccAddress, m types.Monitor) {
	k.SetMonitorRouter(types.NewMonitorRouter().AddRoute(addr, m))
	require.NoError(t, k.SetMonitor(ctx, Authority, addr))
}

// TestAddr returns a deterministic 20-byte address.
func TestAddr(seed byte) sdk.AccAddress {
	addr := make(sdk.AccAddress, 20)
	for i := range addr {
		addr[i] = seed
	}
	return addr
}
