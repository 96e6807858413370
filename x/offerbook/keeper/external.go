package keeper

import (
	"fmt"
	"runtime/debug"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/lnist/mangrove-core/x/offerbook/types"
)

// callExternal runs fn, a call into untrusted code, and classifies its
// outcome instead of letting it abort the caller. Gas exhaustion is the
// exception: it is re-raised so the whole transaction fails, as it would for
// any other gas-exhausting operation.
func (k Keeper) callExternal(ctx sdk.Context, call string, fn func(ctx sdk.Context) ([]byte, error)) (res types.CallResult) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		switch r.(type) {
		case storetypes.ErrorOutOfGas, storetypes.ErrorGasOverflow:
			panic(r)
		}

		k.Logger(ctx).Error("recovered panic in external call",
			"call", call,
			"panic", fmt.Sprintf("%v", r),
			"stack_trace", string(debug.Stack()),
		)
		res = types.CallResult{Status: types.CallRevertOpaque}
	}()

	data, err := fn(ctx)
	if err != nil {
		return types.CallResult{Status: types.CallRevertReason, Reason: err.Error()}
	}
	return types.CallResult{Status: types.CallSuccess, Data: data}
}
