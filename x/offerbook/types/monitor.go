package types

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Monitor is the external advisory capability that may override the gasprice
// and density of a pair, and may ask to be told about executed offers.
type Monitor interface {
	Read(ctx context.Context, outbound, inbound string) (gasprice, density sdkmath.Uint, err error)
	NotifySuccess(ctx context.Context, sor SingleOrder, taker sdk.AccAddress) error
	NotifyFail(ctx context.Context, sor SingleOrder, taker sdk.AccAddress) error
}

// SingleOrder describes one offer execution reported to the monitor.
type SingleOrder struct {
	Outbound string
	Inbound  string
	OfferID  uint32
	Offer    OfferPacked
	Detail   OfferDetailPacked
	Wants    sdkmath.Uint
	Gives    sdkmath.Uint
	Global   GlobalPacked
	Local    LocalPacked
}

// MonitorRouter resolves monitor addresses stored in the global word to
// their implementation. Routes are added at app construction and the router
// is sealed before use.
type MonitorRouter struct {
	routes map[string]Monitor
	sealed bool
}

// NewMonitorRouter returns an empty router.
func NewMonitorRouter() *MonitorRouter {
	return &MonitorRouter{routes: make(map[string]Monitor)}
}

// AddRoute registers m under addr. It panics on a sealed router, a duplicate
// or a malformed address.
func (r *MonitorRouter) AddRoute(addr sdk.AccAddress, m Monitor) *MonitorRouter {
	if r.sealed {
		panic("offerbook: cannot add route to a sealed monitor router")
	}
	if len(addr) != MonitorAddressLength {
		panic(fmt.Sprintf("offerbook: monitor address must be %d bytes", MonitorAddressLength))
	}
	key := string(addr)
	if _, exists := r.routes[key]; exists {
		panic(fmt.Sprintf("offerbook: monitor route %s already registered", addr))
	}
	r.routes[key] = m
	return r
}

// Seal prevents further routes from being added.
func (r *MonitorRouter) Seal() { r.sealed = true }

// Sealed reports whether Seal was called.
func (r *MonitorRouter) Sealed() bool { return r.sealed }

// Monitor returns the implementation registered for addr.
func (r *MonitorRouter) Monitor(addr sdk.AccAddress) (Monitor, bool) {
	if r == nil || len(addr) == 0 {
		return nil, false
	}
	m, ok := r.routes[string(addr)]
	return m, ok
}
