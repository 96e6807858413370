package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// DefaultGasPrice is the initial gasprice of a new exchange.
	DefaultGasPrice = uint64(10)
	// DefaultGasMax is the initial per-offer gas cap of a new exchange.
	DefaultGasMax = uint64(1_000_000)
)

// OfferState is one offer in genesis.
type OfferState struct {
	ID     uint32          `json:"id"`
	Offer  OfferInfo       `json:"offer"`
	Detail OfferDetailInfo `json:"detail"`
}

// PairState is one ordered pair in genesis.
type PairState struct {
	Outbound string       `json:"outbound"`
	Inbound  string       `json:"inbound"`
	Local    LocalInfo    `json:"local"`
	Offers   []OfferState `json:"offers"`
}

// MakerBalance is one maker credit in genesis.
type MakerBalance struct {
	Maker  sdk.AccAddress `json:"maker"`
	Amount sdk.Coin       `json:"amount"`
}

// GenesisState is the offerbook genesis state.
type GenesisState struct {
	Global   GlobalInfo     `json:"global"`
	Pairs    []PairState    `json:"pairs"`
	Balances []MakerBalance `json:"balances"`
}

// DefaultGenesis returns a live exchange with no pairs and no monitor.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Global: GlobalInfo{
			GasPrice: DefaultGasPrice,
			GasMax:   DefaultGasMax,
		},
		Pairs:    []PairState{},
		Balances: []MakerBalance{},
	}
}

// ValidatePair checks both denoms and that they differ.
func ValidatePair(outbound, inbound string) error {
	if err := sdk.ValidateDenom(outbound); err != nil {
		return ErrInvalidPair.Wrapf("outbound: %v", err)
	}
	if err := sdk.ValidateDenom(inbound); err != nil {
		return ErrInvalidPair.Wrapf("inbound: %v", err)
	}
	if outbound == inbound {
		return ErrInvalidPair.Wrapf("outbound and inbound are both %s", outbound)
	}
	return nil
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	if _, err := PackGlobal(gs.Global); err != nil {
		return ErrInvalidGenesis.Wrapf("global: %v", err)
	}

	seen := make(map[string]struct{}, len(gs.Pairs))
	for _, p := range gs.Pairs {
		if err := ValidatePair(p.Outbound, p.Inbound); err != nil {
			return ErrInvalidGenesis.Wrap(err.Error())
		}
		key := string(PairKey(p.Outbound, p.Inbound))
		if _, dup := seen[key]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate pair %s/%s", p.Outbound, p.Inbound)
		}
		seen[key] = struct{}{}

		if _, err := PackLocal(p.Local); err != nil {
			return ErrInvalidGenesis.Wrapf("pair %s/%s: %v", p.Outbound, p.Inbound, err)
		}
		if p.Local.Lock {
			return ErrInvalidGenesis.Wrapf("pair %s/%s is locked", p.Outbound, p.Inbound)
		}
		if err := validateOffers(p); err != nil {
			return err
		}
	}

	credited := make(map[string]struct{}, len(gs.Balances))
	for _, b := range gs.Balances {
		if len(b.Maker) == 0 {
			return ErrInvalidGenesis.Wrap("balance with empty maker")
		}
		if err := b.Amount.Validate(); err != nil {
			return ErrInvalidGenesis.Wrapf("balance of %s: %v", b.Maker, err)
		}
		key := string(BalanceKey(b.Maker, b.Amount.Denom))
		if _, dup := credited[key]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate balance %s for %s", b.Amount.Denom, b.Maker)
		}
		credited[key] = struct{}{}
	}
	return nil
}

func validateOffers(p PairState) error {
	ids := make(map[uint32]struct{}, len(p.Offers))
	for _, o := range p.Offers {
		name := fmt.Sprintf("pair %s/%s offer %d", p.Outbound, p.Inbound, o.ID)
		if o.ID == 0 {
			return ErrInvalidGenesis.Wrapf("%s: id must be positive", name)
		}
		if o.ID > p.Local.Last {
			return ErrInvalidGenesis.Wrapf("%s: id above last assigned id %d", name, p.Local.Last)
		}
		if _, dup := ids[o.ID]; dup {
			return ErrInvalidGenesis.Wrapf("%s: duplicate id", name)
		}
		ids[o.ID] = struct{}{}
		if _, err := PackOffer(o.Offer); err != nil {
			return ErrInvalidGenesis.Wrapf("%s: %v", name, err)
		}
		if _, err := PackOfferDetail(o.Detail); err != nil {
			return ErrInvalidGenesis.Wrapf("%s: %v", name, err)
		}
	}
	return nil
}
