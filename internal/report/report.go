// Package report renders matching results for people and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"frizo/margin_saving/internal/margin"
	"frizo/margin_saving/internal/matcher"

	"github.com/shopspring/decimal"
)

// legsPerPair used for the "contracts paired" display figure
const legsPerPair = 2

// Meta describes the run a report belongs to.
type Meta struct {
	RunID              string    `json:"run_id"`
	GeneratedAt        time.Time `json:"generated_at"`
	CombinationSource  string    `json:"combination_source,omitempty"`
	PositionSource     string    `json:"position_source,omitempty"`
	CombinationsLoaded int       `json:"combinations_loaded"`
	PositionsLoaded    int       `json:"positions_loaded"`
}

// Summary aggregate figures over a result list.
type Summary struct {
	PairedCombinations int             `json:"paired_combinations"`
	ContractsPaired    int64           `json:"contracts_paired"` // pair counts x 2
	LegLotsPaired      int64           `json:"leg_lots_paired"`  // exact, by leg count
	UnpairedPositions  int             `json:"unpaired_positions"`
	UnpairedLots       int64           `json:"unpaired_lots"`
	TotalMargin        decimal.Decimal `json:"total_margin"`

	Accounts []*margin.Requirement `json:"accounts"`
}

// Summarize aggregates results. It does not modify them.
func Summarize(results []*matcher.PairResult) Summary {
	summary := Summary{TotalMargin: decimal.Zero, Accounts: []*margin.Requirement{}}

	byAccount := make(map[string]*margin.Requirement)
	for _, r := range results {
		req, ok := byAccount[r.Account]
		if !ok {
			req = margin.NewRequirement(r.Account)
			byAccount[r.Account] = req
			summary.Accounts = append(summary.Accounts, req)
		}

		if r.Unpaired {
			summary.UnpairedPositions++
			summary.UnpairedLots += r.PairCount
			req.AddStandalone(r.PairCount, r.TotalMargin)
		} else {
			summary.PairedCombinations++
			summary.ContractsPaired += r.PairCount * legsPerPair
			summary.LegLotsPaired += r.Lots()
			req.AddPaired(r.PairCount, len(r.Combination.Legs), r.TotalMargin)
		}
		summary.TotalMargin = summary.TotalMargin.Add(r.TotalMargin)
	}
	return summary
}

// WriteText writes the human readable report.
func WriteText(w io.Writer, results []*matcher.PairResult, meta Meta) error {
	var sb strings.Builder

	if len(results) == 0 {
		sb.WriteString("\nNo pairs found!\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}

	sb.WriteString("\n=== MARGIN CALCULATION RESULTS ===\n")
	if meta.RunID != "" {
		fmt.Fprintf(&sb, "Run: %s (%s)\n", meta.RunID, meta.GeneratedAt.Format(time.RFC3339))
	}
	sb.WriteString("\n")

	for i, r := range results {
		if r.Unpaired {
			fmt.Fprintf(&sb, "Position #%d (Unpaired) [%s]\n", i+1, r.Account)
		} else {
			fmt.Fprintf(&sb, "Pair #%d [%s]\n", i+1, r.Account)
		}
		sb.WriteString(r.String())
		sb.WriteString("\n")
	}

	summary := Summarize(results)
	sb.WriteString("=====================================\n")
	fmt.Fprintf(&sb, "Total paired combinations: %d\n", summary.PairedCombinations)
	fmt.Fprintf(&sb, "Total contracts paired: %d\n", summary.ContractsPaired)
	fmt.Fprintf(&sb, "Total unpaired positions: %d\n", summary.UnpairedPositions)
	fmt.Fprintf(&sb, "Total margin requirement: %s\n", summary.TotalMargin.StringFixed(2))

	sb.WriteString("\nPer account:\n")
	for _, req := range summary.Accounts {
		fmt.Fprintf(&sb, "  %s: paired=%s standalone=%s total=%s (sets=%d, unpaired lots=%d)\n",
			req.Account,
			req.PairedMargin.StringFixed(2),
			req.StandaloneMargin.StringFixed(2),
			req.Total().StringFixed(2),
			req.PairedSets,
			req.UnpairedLots,
		)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// Document the JSON report layout
type Document struct {
	Meta    Meta                  `json:"meta"`
	Summary Summary               `json:"summary"`
	Results []*matcher.PairResult `json:"results"`
}

// WriteJSON writes the machine readable report.
func WriteJSON(w io.Writer, results []*matcher.PairResult, meta Meta) error {
	if results == nil {
		results = []*matcher.PairResult{}
	}
	doc := Document{
		Meta:    meta,
		Summary: Summarize(results),
		Results: results,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
