package margin

import (
	"github.com/shopspring/decimal"
)

// Rules values matched combinations and residual positions
type Rules struct {
	config *MarginConfig
}

// NewRules
func NewRules(config *MarginConfig) *Rules {
	if config == nil || config.StandaloneMultiplier.IsZero() {
		config = DefaultConfig()
	}
	return &Rules{config: config}
}

// Paired total margin of count full leg sets: count * per-set margin
func (r *Rules) Paired(perSet decimal.Decimal, count int64) decimal.Decimal {
	return perSet.Mul(decimal.NewFromInt(count))
}

// StandalonePerLot margin of one unpaired lot: settlement price * multiplier
func (r *Rules) StandalonePerLot(settlementPrice decimal.Decimal) decimal.Decimal {
	return settlementPrice.Mul(r.config.StandaloneMultiplier)
}

// Standalone total margin of count unpaired lots
func (r *Rules) Standalone(settlementPrice decimal.Decimal, count int64) decimal.Decimal {
	return r.StandalonePerLot(settlementPrice).Mul(decimal.NewFromInt(count))
}
