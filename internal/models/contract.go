package models

import "github.com/shopspring/decimal"

// OptionContractData is an immutable market snapshot of a single option
// contract. Quote fields are optional: stale or thinly traded contracts
// frequently arrive without a mark, delta, or open interest, and the
// selection engine treats a missing value as "cannot evaluate" rather
// than an error.
type OptionContractData struct {
	Strike       decimal.Decimal  `json:"strike"`
	OptionType   OptionType       `json:"option_type"`
	Bid          *decimal.Decimal `json:"bid,omitempty"`
	Ask          *decimal.Decimal `json:"ask,omitempty"`
	Mark         *decimal.Decimal `json:"mark,omitempty"`
	Delta        *decimal.Decimal `json:"delta,omitempty"`
	ImpliedVol   *decimal.Decimal `json:"implied_vol,omitempty"`
	Volume       *int64           `json:"volume,omitempty"`
	OpenInterest *int64           `json:"open_interest,omitempty"`
}

// HasMark reports whether the contract has a tradeable mark price.
func (c *OptionContractData) HasMark() bool {
	return c.Mark != nil
}
