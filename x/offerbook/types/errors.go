package types

import (
	"cosmossdk.io/errors"
)

// offerbook module sentinel errors
var (
	ErrReentrancyLocked    = errors.Register(ModuleName, 2, "pair is locked by an operation in progress")
	ErrExchangeDead        = errors.Register(ModuleName, 3, "exchange is dead")
	ErrPairInactive        = errors.Register(ModuleName, 4, "pair is inactive")
	ErrBoundsRejected      = errors.Register(ModuleName, 5, "value does not fit its packed width")
	ErrInvalidPair         = errors.Register(ModuleName, 6, "invalid pair")
	ErrOfferNotFound       = errors.Register(ModuleName, 7, "offer not found")
	ErrOfferIDOverflow     = errors.Register(ModuleName, 8, "offer id overflow")
	ErrInvalidMonitor      = errors.Register(ModuleName, 9, "invalid monitor")
	ErrMonitorFailed       = errors.Register(ModuleName, 10, "monitor call failed")
	ErrInsufficientBalance = errors.Register(ModuleName, 11, "insufficient maker balance")
	ErrInvalidGenesis      = errors.Register(ModuleName, 12, "invalid genesis state")
	ErrDensityTooLow       = errors.Register(ModuleName, 13, "offer gives less than density requires")
	ErrGasReqTooHigh       = errors.Register(ModuleName, 14, "offer gasreq above gasmax")
	ErrTransferFailed      = errors.Register(ModuleName, 15, "token transfer failed")
)
