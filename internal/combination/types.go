package combination

import (
	"fmt"
	"strings"

	"frizo/margin_saving/common"

	"github.com/shopspring/decimal"
)

// Leg one side of a combination
type Leg struct {
	Contract        string          `json:"contract"`
	Side            common.Side     `json:"side"`
	SettlementPrice decimal.Decimal `json:"settlement_price"`
}

// Combination (組合保證金模板) a multi-leg offset template.
// Margin is the requirement per one matched set of all legs.
type Combination struct {
	Date      string          `json:"date"`
	Name      string          `json:"name"` // e.g. "a2601,-a2601"
	Legs      []Leg           `json:"legs"`
	Priority  int             `json:"priority"` // lower is matched first
	Margin    decimal.Decimal `json:"margin"`
	Attribute string          `json:"attribute"`
}

func (c *Combination) String() string {
	return fmt.Sprintf("Combination{%s, priority=%d, margin=%s}", c.Name, c.Priority, c.Margin.StringFixed(2))
}

// StandalonePrice returns the settlement price used to value a residual
// position of the given side: leg 0 for buy, leg 1 for sell.
func (c *Combination) StandalonePrice(side common.Side) (decimal.Decimal, bool) {
	idx := 0
	if !side.IsBuy() {
		idx = 1
	}
	if idx >= len(c.Legs) {
		return decimal.Zero, false
	}
	return c.Legs[idx].SettlementPrice, true
}

// StandaloneName builds the name of the same-contract hedge used to value a
// residual: "c,-c" for buy and "-c,c" for sell.
func StandaloneName(contract string, side common.Side) string {
	if side.IsBuy() {
		return contract + ",-" + contract
	}
	return "-" + contract + "," + contract
}

// ParseLegs derives legs from a combination name and its comma separated
// settlement prices. A leading "-" marks a sell leg. Trailing empty items are
// ignored and only the overlapping prefix of the two lists is used.
func ParseLegs(name, settlementPrices string) ([]Leg, error) {
	contracts := splitList(name)
	prices := splitList(settlementPrices)

	n := min(len(contracts), len(prices))
	legs := make([]Leg, 0, n)
	for i := 0; i < n; i++ {
		contract := strings.TrimSpace(contracts[i])
		side := common.BUY
		if strings.HasPrefix(contract, "-") {
			side = common.SELL
			contract = contract[1:]
		}
		if contract == "" {
			return nil, fmt.Errorf("leg %d has empty contract", i)
		}

		price, err := decimal.NewFromString(strings.TrimSpace(prices[i]))
		if err != nil {
			return nil, fmt.Errorf("leg %d settlement price %q: %w", i, prices[i], err)
		}

		legs = append(legs, Leg{Contract: contract, Side: side, SettlementPrice: price})
	}
	return legs, nil
}

// splitList splits on commas and drops trailing empty items, so "a,-a," has
// two items. Empty items in the middle are kept.
func splitList(s string) []string {
	items := strings.Split(s, ",")
	for len(items) > 0 && strings.TrimSpace(items[len(items)-1]) == "" {
		items = items[:len(items)-1]
	}
	return items
}
