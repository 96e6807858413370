package types

import (
	"bytes"
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MonitorAddressLength is the byte length of a monitor address in the global word.
const MonitorAddressLength = 20

// Global word layout
var (
	globalMonitor   = field{0, MonitorAddressLength}
	globalUseOracle = field{20, 1}
	globalNotify    = field{21, 1}
	globalGasPrice  = field{22, 2}
	globalGasMax    = field{24, 3}
	globalDead      = field{27, 1}
)

// GlobalPacked is the exchange-wide configuration word. The zero value has
// no monitor, oracle off, gasprice and gasmax zero and a live exchange.
type GlobalPacked [WordSize]byte

// GlobalInfo is the field-by-field form of GlobalPacked.
type GlobalInfo struct {
	Monitor   sdk.AccAddress `json:"monitor,omitempty"`
	UseOracle bool           `json:"use_oracle"`
	Notify    bool           `json:"notify"`
	GasPrice  uint64         `json:"gasprice"`
	GasMax    uint64         `json:"gasmax"`
	Dead      bool           `json:"dead"`
}

// PackGlobal validates every field width and packs info.
func PackGlobal(info GlobalInfo) (GlobalPacked, error) {
	var g GlobalPacked
	if err := ValidateMonitorAddress(info.Monitor); err != nil {
		return g, err
	}
	if !FitsUint64(info.GasPrice, globalGasPrice.bits()) {
		return g, ErrBoundsRejected.Wrapf("gasprice %d exceeds 16 bits", info.GasPrice)
	}
	if !FitsUint64(info.GasMax, globalGasMax.bits()) {
		return g, ErrBoundsRejected.Wrapf("gasmax %d exceeds 24 bits", info.GasMax)
	}
	return g.WithMonitor(info.Monitor).
		WithUseOracle(info.UseOracle).
		WithNotify(info.Notify).
		WithGasPrice(info.GasPrice).
		WithGasMax(info.GasMax).
		WithDead(info.Dead), nil
}

// ParseGlobalPacked decodes a hex word as printed by Hex.
func ParseGlobalPacked(s string) (GlobalPacked, error) {
	w, err := parseWord(s)
	return GlobalPacked(w), err
}

// ValidateMonitorAddress accepts an empty address or one of MonitorAddressLength bytes.
func ValidateMonitorAddress(addr sdk.AccAddress) error {
	if len(addr) != 0 && len(addr) != MonitorAddressLength {
		return ErrInvalidMonitor.Wrapf("monitor address must be %d bytes, got %d", MonitorAddressLength, len(addr))
	}
	return nil
}

// Unpack expands the word into a GlobalInfo.
func (g GlobalPacked) Unpack() GlobalInfo {
	return GlobalInfo{
		Monitor:   g.Monitor(),
		UseOracle: g.UseOracle(),
		Notify:    g.Notify(),
		GasPrice:  g.GasPrice(),
		GasMax:    g.GasMax(),
		Dead:      g.Dead(),
	}
}

// Monitor returns nil when no monitor is configured.
func (g GlobalPacked) Monitor() sdk.AccAddress {
	if word(g).isZeroAt(globalMonitor) {
		return nil
	}
	return word(g).bytesAt(globalMonitor)
}

func (g GlobalPacked) UseOracle() bool  { return word(g).boolAt(globalUseOracle) }
func (g GlobalPacked) Notify() bool     { return word(g).boolAt(globalNotify) }
func (g GlobalPacked) GasPrice() uint64 { return word(g).uint64At(globalGasPrice) }
func (g GlobalPacked) GasMax() uint64   { return word(g).uint64At(globalGasMax) }
func (g GlobalPacked) Dead() bool       { return word(g).boolAt(globalDead) }

// GasPriceUint is GasPrice as a math.Uint, for comparison with monitor hints.
func (g GlobalPacked) GasPriceUint() sdkmath.Uint { return sdkmath.NewUint(g.GasPrice()) }

func (g GlobalPacked) WithMonitor(addr sdk.AccAddress) GlobalPacked {
	return GlobalPacked(word(g).withBytes(globalMonitor, addr))
}

func (g GlobalPacked) WithUseOracle(b bool) GlobalPacked {
	return GlobalPacked(word(g).withBool(globalUseOracle, b))
}

func (g GlobalPacked) WithNotify(b bool) GlobalPacked {
	return GlobalPacked(word(g).withBool(globalNotify, b))
}

func (g GlobalPacked) WithGasPrice(v uint64) GlobalPacked {
	return GlobalPacked(word(g).withUint64(globalGasPrice, v))
}

func (g GlobalPacked) WithGasMax(v uint64) GlobalPacked {
	return GlobalPacked(word(g).withUint64(globalGasMax, v))
}

func (g GlobalPacked) WithDead(b bool) GlobalPacked {
	return GlobalPacked(word(g).withBool(globalDead, b))
}

// Bytes returns a copy of the stored representation.
func (g GlobalPacked) Bytes() []byte {
	out := make([]byte, WordSize)
	copy(out, g[:])
	return out
}

func (g GlobalPacked) Hex() string { return word(g).hex() }

func (g GlobalPacked) String() string {
	return fmt.Sprintf("global{monitor=%s useOracle=%t notify=%t gasprice=%d gasmax=%d dead=%t}",
		g.Monitor(), g.UseOracle(), g.Notify(), g.GasPrice(), g.GasMax(), g.Dead())
}

// Equal compares two infos field by field. A nil and an empty monitor are equal.
func (i GlobalInfo) Equal(o GlobalInfo) bool {
	return bytes.Equal(i.Monitor, o.Monitor) &&
		i.UseOracle == o.UseOracle &&
		i.Notify == o.Notify &&
		i.GasPrice == o.GasPrice &&
		i.GasMax == o.GasMax &&
		i.Dead == o.Dead
}
