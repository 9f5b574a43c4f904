package matcher

import (
	"context"
	"testing"

	"frizo/margin_saving/common"
	"frizo/margin_saving/internal/combination"
	"frizo/margin_saving/internal/logger"
	"frizo/margin_saving/internal/margin"
	"frizo/margin_saving/internal/metrics"
	"frizo/margin_saving/internal/position"
	"frizo/margin_saving/pkg/utils"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCombo(t testing.TB, name, prices string, priority int, perSet string) *combination.Combination {
	t.Helper()
	legs, err := combination.ParseLegs(name, prices)
	require.NoError(t, err)
	return &combination.Combination{
		Date:     "20251001",
		Name:     name,
		Legs:     legs,
		Priority: priority,
		Margin:   decimal.RequireFromString(perSet),
	}
}

func pos(account, contract string, side common.Side, qty int64) *position.Position {
	return &position.Position{Account: account, Contract: contract, Side: side, Quantity: qty}
}

func newTestMatcher(catalog *combination.Catalog, opts ...Option) *Matcher {
	return New(catalog, append([]Option{WithLogger(logger.Discard())}, opts...)...)
}

func paired(results []*PairResult) []*PairResult {
	return utils.Filter(results, func(r *PairResult) bool { return !r.Unpaired })
}

func unpaired(results []*PairResult) []*PairResult {
	return utils.Filter(results, func(r *PairResult) bool { return r.Unpaired })
}

// TestSameMonthHedge 同月對鎖 4 pairs + 6 residual buy lots
func TestSameMonthHedge(t *testing.T) {
	catalog := combination.NewCatalog([]*combination.Combination{
		newCombo(t, "a2601,-a2601", "4203,4203", 1, "840.60"),
	})
	book := position.NewBook([]*position.Position{
		pos("client_A", "a2601", common.BUY, 10),
		pos("client_A", "a2601", common.SELL, 4),
	})

	results, err := newTestMatcher(catalog).FindPairs(context.Background(), book)
	require.NoError(t, err)
	require.Len(t, results, 2)

	pair := results[0]
	assert.False(t, pair.Unpaired)
	assert.Equal(t, "client_A", pair.Account)
	assert.Equal(t, "a2601,-a2601", pair.Combination.Name)
	assert.Equal(t, int64(4), pair.PairCount)
	assert.Equal(t, "3362.40", pair.TotalMargin.StringFixed(2))
	require.Len(t, pair.Usages, 2)
	assert.Equal(t, int64(4), pair.Usages[0].UsedQuantity)
	assert.True(t, pair.Usages[0].Position.IsBuy())
	assert.False(t, pair.Usages[1].Position.IsBuy())
	assert.NotEmpty(t, pair.ID)

	rest := results[1]
	assert.True(t, rest.Unpaired)
	assert.Equal(t, int64(6), rest.PairCount)
	assert.Equal(t, "8406.00", rest.MarginPerUnit.StringFixed(2))
	assert.Equal(t, "50436.00", rest.TotalMargin.StringFixed(2))
	require.Len(t, rest.Usages, 1)
	assert.Equal(t, int64(6), rest.Usages[0].UsedQuantity)
	assert.Equal(t, "a2601", rest.Usages[0].Position.Contract)
}

func TestResidualWithoutStandaloneIsDropped(t *testing.T) {
	catalog := combination.NewCatalog([]*combination.Combination{
		newCombo(t, "a2601,-a2601", "4203,4203", 1, "840.60"),
	})
	book := position.NewBook([]*position.Position{
		pos("client_D", "b2605", common.BUY, 5),
	})
	mt := metrics.New()

	results, err := newTestMatcher(catalog, WithMetrics(mt)).FindPairs(context.Background(), book)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 1.0, testutil.ToFloat64(mt.ResidualsDropped))
	assert.Equal(t, 1.0, testutil.ToFloat64(mt.AccountsProcessed))
}

func TestSellResidualUsesSecondLegPrice(t *testing.T) {
	catalog := combination.NewCatalog([]*combination.Combination{
		newCombo(t, "-a2601,a2601", "4000,4100", 1, "800"),
	})
	book := position.NewBook([]*position.Position{
		pos("client_B", "a2601", common.SELL, 3),
	})

	results, err := newTestMatcher(catalog).FindPairs(context.Background(), book)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Unpaired)
	assert.Equal(t, "8200.00", results[0].MarginPerUnit.StringFixed(2))
	assert.Equal(t, "24600.00", results[0].TotalMargin.StringFixed(2))
}

func TestStandaloneLookupPicksLowestPriority(t *testing.T) {
	catalog := combination.NewCatalog([]*combination.Combination{
		newCombo(t, "a2601,-a2601", "9999,9999", 30, "1"),
		newCombo(t, "a2601,-a2601", "4203,4203", 1, "840.60"),
	})
	book := position.NewBook([]*position.Position{
		pos("client_A", "a2601", common.BUY, 2),
	})

	results, err := newTestMatcher(catalog).FindPairs(context.Background(), book)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Combination.Priority)
	assert.Equal(t, "16812.00", results[0].TotalMargin.StringFixed(2))
}

// TestGreedyPriorityOrder higher priority consumes first, the spread only sees
// what is left.
func TestGreedyPriorityOrder(t *testing.T) {
	catalog := combination.NewCatalog([]*combination.Combination{
		newCombo(t, "a2601,-a2603", "4203,4100", 250, "3362.40"),
		newCombo(t, "a2601,-a2601", "4203,4203", 1, "840.60"),
		newCombo(t, "-a2603,a2603", "4100,4100", 1, "820"),
	})
	book := position.NewBook([]*position.Position{
		pos("client_A", "a2601", common.BUY, 5),
		pos("client_A", "a2601", common.SELL, 3),
		pos("client_A", "a2603", common.SELL, 4),
	})

	results, err := newTestMatcher(catalog).FindPairs(context.Background(), book)
	require.NoError(t, err)

	pairs := paired(results)
	require.Len(t, pairs, 2)
	assert.Equal(t, "a2601,-a2601", pairs[0].Combination.Name)
	assert.Equal(t, int64(3), pairs[0].PairCount)
	assert.Equal(t, "a2601,-a2603", pairs[1].Combination.Name)
	assert.Equal(t, int64(2), pairs[1].PairCount)
	assert.Equal(t, "6724.80", pairs[1].TotalMargin.StringFixed(2))

	rest := unpaired(results)
	require.Len(t, rest, 1)
	assert.Equal(t, "a2603", rest[0].Usages[0].Position.Contract)
	assert.Equal(t, common.SELL, rest[0].Usages[0].Position.Side)
	assert.Equal(t, int64(2), rest[0].PairCount)
	assert.Equal(t, "16400.00", rest[0].TotalMargin.StringFixed(2))
}

func TestAllLegsRequired(t *testing.T) {
	catalog := combination.NewCatalog([]*combination.Combination{
		newCombo(t, "a2601,-a2603,m2601", "1,2,3", 1, "10"),
	})
	book := position.NewBook([]*position.Position{
		pos("client_A", "a2601", common.BUY, 5),
		pos("client_A", "a2603", common.SELL, 5),
	})

	results, err := newTestMatcher(catalog).FindPairs(context.Background(), book)
	require.NoError(t, err)
	assert.Empty(t, paired(results))
}

func TestThreeLegMinimum(t *testing.T) {
	catalog := combination.NewCatalog([]*combination.Combination{
		newCombo(t, "a2601,-a2603,m2601", "1,2,3", 1, "10"),
	})
	book := position.NewBook([]*position.Position{
		pos("client_A", "a2601", common.BUY, 5),
		pos("client_A", "a2603", common.SELL, 2),
		pos("client_A", "m2601", common.BUY, 7),
	})

	results, err := newTestMatcher(catalog).FindPairs(context.Background(), book)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(2), results[0].PairCount)
	assert.Equal(t, int64(6), results[0].Lots())
	assert.Len(t, results[0].Usages, 3)
}

func TestRepeatedLegNeverOverdraws(t *testing.T) {
	catalog := combination.NewCatalog([]*combination.Combination{
		newCombo(t, "a2601,a2601", "1,1", 1, "10"),
		newCombo(t, "a2601,-a2601", "4203,4203", 2, "840.60"),
	})
	book := position.NewBook([]*position.Position{
		pos("client_A", "a2601", common.BUY, 5),
	})

	results, err := newTestMatcher(catalog).FindPairs(context.Background(), book)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, int64(2), results[0].PairCount)
	assert.True(t, results[1].Unpaired)
	assert.Equal(t, int64(1), results[1].PairCount)
}

func TestAccountsAreIndependent(t *testing.T) {
	catalog := combination.NewCatalog([]*combination.Combination{
		newCombo(t, "a2601,-a2601", "4203,4203", 1, "840.60"),
		newCombo(t, "-a2601,a2601", "4203,4203", 1, "840.60"),
	})
	book := position.NewBook([]*position.Position{
		pos("client_A", "a2601", common.BUY, 3),
		pos("client_B", "a2601", common.SELL, 3),
		pos("client_C", "a2601", common.BUY, 1),
		pos("client_C", "a2601", common.SELL, 1),
	})

	results, err := newTestMatcher(catalog, WithWorkers(2)).FindPairs(context.Background(), book)
	require.NoError(t, err)

	// A and B cannot offset each other
	require.Len(t, results, 3)
	assert.Equal(t, "client_A", results[0].Account)
	assert.True(t, results[0].Unpaired)
	assert.Equal(t, "client_B", results[1].Account)
	assert.True(t, results[1].Unpaired)
	assert.Equal(t, "client_C", results[2].Account)
	assert.False(t, results[2].Unpaired)

	for _, r := range results {
		for _, usage := range r.Usages {
			assert.Equal(t, r.Account, usage.Position.Account)
		}
	}
}

func TestFindPairsCancelled(t *testing.T) {
	catalog := combination.NewCatalog([]*combination.Combination{
		newCombo(t, "a2601,-a2601", "4203,4203", 1, "840.60"),
	})
	book := position.NewBook([]*position.Position{
		pos("client_A", "a2601", common.BUY, 3),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := newTestMatcher(catalog).FindPairs(ctx, book)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results)
}

func TestCustomStandaloneMultiplier(t *testing.T) {
	catalog := combination.NewCatalog([]*combination.Combination{
		newCombo(t, "a2601,-a2601", "100,100", 1, "10"),
	})
	book := position.NewBook([]*position.Position{
		pos("client_A", "a2601", common.BUY, 2),
	})
	rules := margin.NewRules(&margin.MarginConfig{StandaloneMultiplier: decimal.NewFromInt(3)})

	results, err := newTestMatcher(catalog, WithRules(rules)).FindPairs(context.Background(), book)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "600.00", results[0].TotalMargin.StringFixed(2))
}

func TestPairResultString(t *testing.T) {
	catalog := combination.NewCatalog([]*combination.Combination{
		newCombo(t, "a2601,-a2601", "4203,4203", 1, "840.60"),
	})
	book := position.NewBook([]*position.Position{
		pos("client_A", "a2601", common.BUY, 10),
		pos("client_A", "a2601", common.SELL, 4),
	})

	results, err := newTestMatcher(catalog).FindPairs(context.Background(), book)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Contains(t, results[0].String(), "Pair: a2601,-a2601 (priority=1)")
	assert.Contains(t, results[0].String(), "    - 4 x a2601 sell")
	assert.Contains(t, results[1].String(), "Margin per lot: 8406.00")
	assert.Contains(t, results[1].String(), "Total margin: 50436.00")
}
