package types

import (
	"context"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Token is the value-transfer capability of an external token. Implementations
// return the raw return data of the call: nothing, a 32-byte boolean word or
// anything else a non-compliant token produces. They may also fail with an
// error or panic.
type Token interface {
	Transfer(ctx context.Context, sender, to sdk.AccAddress, amount sdkmath.Uint) ([]byte, error)
	TransferFrom(ctx context.Context, spender, from, to sdk.AccAddress, amount sdkmath.Uint) ([]byte, error)
}

// CallStatus classifies the outcome of a call into external code.
type CallStatus int

const (
	CallSuccess CallStatus = iota
	// CallRevertReason is a failure that carried an error.
	CallRevertReason
	// CallRevertOpaque is a failure without a usable reason, such as a panic.
	CallRevertOpaque
)

func (s CallStatus) String() string {
	switch s {
	case CallSuccess:
		return "success"
	case CallRevertReason:
		return "revert"
	case CallRevertOpaque:
		return "revert_opaque"
	default:
		return "unknown"
	}
}

// CallResult keeps the detail of an external call for logs and events.
type CallResult struct {
	Status CallStatus
	Data   []byte
	Reason string
}

// Succeeded reports whether the call neither reverted nor panicked.
func (r CallResult) Succeeded() bool { return r.Status == CallSuccess }

// TransferSucceeded folds a token call result into the single boolean
// callers see: success requires a call that did not revert and that returned
// either no data or a well-formed true word.
func (r CallResult) TransferSucceeded() bool {
	if !r.Succeeded() {
		return false
	}
	if len(r.Data) == 0 {
		return true
	}
	v, ok := DecodeBool(r.Data)
	return ok && v
}

// EncodeBool encodes b as a 32-byte return word.
func EncodeBool(b bool) []byte {
	out := make([]byte, WordSize)
	if b {
		out[WordSize-1] = 1
	}
	return out
}

// DecodeBool decodes the first 32-byte word of data as a boolean. ok is false
// when data is too short or the word is neither 0 nor 1.
func DecodeBool(data []byte) (value bool, ok bool) {
	if len(data) < WordSize {
		return false, false
	}
	for _, b := range data[:WordSize-1] {
		if b != 0 {
			return false, false
		}
	}
	switch data[WordSize-1] {
	case 0:
		return false, true
	case 1:
		return true, true
	default:
		return false, false
	}
}
