package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/lnist/mangrove-core/x/offerbook/types"
)

// Keeper of the offerbook store
type Keeper struct {
	storeKey   storetypes.StoreKey
	bankKeeper types.BankKeeper
	monitors   *types.MonitorRouter
	authority  string
	metrics    *OfferbookMetrics
}

// NewKeeper creates a new offerbook Keeper instance. authority is the only
// address allowed to call the governance setters, usually the x/gov module
// account.
func NewKeeper(
	key storetypes.StoreKey,
	bankKeeper types.BankKeeper,
	authority string,
) *Keeper {
	if _, err := sdk.AccAddressFromBech32(authority); err != nil {
		panic(fmt.Sprintf("invalid offerbook authority address %q: %s", authority, err))
	}

	return &Keeper{
		storeKey:   key,
		bankKeeper: bankKeeper,
		monitors:   types.NewMonitorRouter(),
		authority:  authority,
		metrics:    NewOfferbookMetrics(),
	}
}

// SetMonitorRouter installs the monitor routes and seals the router. It can
// be called only once.
func (k *Keeper) SetMonitorRouter(r *types.MonitorRouter) {
	if k.monitors != nil && k.monitors.Sealed() {
		panic("cannot reset a sealed monitor router")
	}
	r.Seal()
	k.monitors = r
}

// GetAuthority returns the governance authority of the module.
func (k Keeper) GetAuthority() string {
	return k.authority
}

// GetModuleAddress returns the module account address, which is the sender
// of every token transfer the exchange makes.
func (k Keeper) GetModuleAddress() sdk.AccAddress {
	return authtypes.NewModuleAddress(types.ModuleName)
}

// Logger returns a module-specific logger
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// getStore returns the KVStore for the offerbook module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}
