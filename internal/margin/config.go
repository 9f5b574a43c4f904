package margin

import "github.com/shopspring/decimal"

// DefaultStandaloneMultiplier per-lot standalone margin is settlement price x 2
var DefaultStandaloneMultiplier = decimal.NewFromInt(2)

// MarginConfig
type MarginConfig struct {
	StandaloneMultiplier decimal.Decimal // 單腿保證金倍數
}

// DefaultConfig the standard valuation settings
func DefaultConfig() *MarginConfig {
	return &MarginConfig{
		StandaloneMultiplier: DefaultStandaloneMultiplier,
	}
}
