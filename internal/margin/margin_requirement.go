package margin

import "github.com/shopspring/decimal"

// Requirement (保證金要求) margin owed by one account after matching
type Requirement struct {
	Account string `json:"account"`

	PairedMargin     decimal.Decimal `json:"paired_margin"`     // 組合保證金
	StandaloneMargin decimal.Decimal `json:"standalone_margin"` // 單腿保證金

	PairedSets   int64 `json:"paired_sets"`   // full leg sets matched
	PairedLots   int64 `json:"paired_lots"`   // lots consumed by combinations
	UnpairedLots int64 `json:"unpaired_lots"` // lots valued standalone
}

// NewRequirement
func NewRequirement(account string) *Requirement {
	return &Requirement{
		Account:          account,
		PairedMargin:     decimal.Zero,
		StandaloneMargin: decimal.Zero,
	}
}

// AddPaired records sets matched of a combination with legs legs.
func (r *Requirement) AddPaired(sets int64, legs int, margin decimal.Decimal) {
	r.PairedSets += sets
	r.PairedLots += sets * int64(legs)
	r.PairedMargin = r.PairedMargin.Add(margin)
}

// AddStandalone records unpaired lots.
func (r *Requirement) AddStandalone(lots int64, margin decimal.Decimal) {
	r.UnpairedLots += lots
	r.StandaloneMargin = r.StandaloneMargin.Add(margin)
}

// Total paired + standalone
func (r *Requirement) Total() decimal.Decimal {
	return r.PairedMargin.Add(r.StandaloneMargin)
}
