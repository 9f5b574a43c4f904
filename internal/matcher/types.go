package matcher

import (
	"fmt"
	"strings"

	"frizo/margin_saving/internal/combination"
	"frizo/margin_saving/internal/position"

	"github.com/shopspring/decimal"
)

// PositionUsage lots of one position consumed by an allocation
type PositionUsage struct {
	Position     *position.Position `json:"position"`
	UsedQuantity int64              `json:"used_quantity"`
}

// PairResult one allocation outcome.
//
// A paired result consumed PairCount full leg sets of Combination. An unpaired
// result is a residual of PairCount lots valued with the standalone
// combination of its contract.
type PairResult struct {
	ID          string                   `json:"id"`
	Account     string                   `json:"account"`
	Combination *combination.Combination `json:"combination"`
	Unpaired    bool                     `json:"unpaired"`
	PairCount   int64                    `json:"pair_count"`
	Usages      []PositionUsage          `json:"position_usages"`

	// margin per matched set, or per lot when unpaired
	MarginPerUnit decimal.Decimal `json:"margin_per_unit"`
	TotalMargin   decimal.Decimal `json:"total_margin"`
}

// Lots number of position lots this result accounts for.
func (r *PairResult) Lots() int64 {
	if r.Unpaired {
		return r.PairCount
	}
	return r.PairCount * int64(len(r.Combination.Legs))
}

func (r *PairResult) String() string {
	var sb strings.Builder
	if r.Unpaired {
		sb.WriteString("Unpaired Position (standalone margin)\n")
		for _, usage := range r.Usages {
			fmt.Fprintf(&sb, "  Contract: %s %s\n", usage.Position.Contract, usage.Position.Side)
			fmt.Fprintf(&sb, "  Quantity: %d\n", usage.UsedQuantity)
			fmt.Fprintf(&sb, "  Margin per lot: %s\n", r.MarginPerUnit.StringFixed(2))
			fmt.Fprintf(&sb, "  Total margin: %s\n", r.TotalMargin.StringFixed(2))
		}
		return sb.String()
	}

	fmt.Fprintf(&sb, "Pair: %s (priority=%d)\n", r.Combination.Name, r.Combination.Priority)
	fmt.Fprintf(&sb, "  Pairs matched: %d\n", r.PairCount)
	fmt.Fprintf(&sb, "  Margin per pair: %s\n", r.MarginPerUnit.StringFixed(2))
	fmt.Fprintf(&sb, "  Total margin: %s\n", r.TotalMargin.StringFixed(2))
	sb.WriteString("  Positions used:\n")
	for _, usage := range r.Usages {
		fmt.Fprintf(&sb, "    - %d x %s %s\n", usage.UsedQuantity, usage.Position.Contract, usage.Position.Side)
	}
	return sb.String()
}
