package matcher

import (
	"context"
	"runtime"
	"time"

	"frizo/margin_saving/internal/combination"
	icommon "frizo/margin_saving/internal/common"
	"frizo/margin_saving/internal/logger"
	"frizo/margin_saving/internal/margin"
	"frizo/margin_saving/internal/metrics"
	"frizo/margin_saving/internal/position"

	"golang.org/x/sync/errgroup"
)

// cancellation is checked every this many combinations
const cancelCheckInterval = 4096

// Matcher (組合配對引擎) greedy allocation of account positions to
// combinations in priority order.
type Matcher struct {
	catalog *combination.Catalog
	plans   []plan // catalog.ByPriority() with folded leg demand

	rules   *margin.Rules
	workers int
	log     *logger.Logger
	metrics *metrics.Metrics
}

// Option configures a Matcher
type Option func(*Matcher)

// WithRules sets the valuation rules.
func WithRules(rules *margin.Rules) Option {
	return func(m *Matcher) { m.rules = rules }
}

// WithWorkers bounds the number of accounts matched concurrently.
func WithWorkers(n int) Option {
	return func(m *Matcher) {
		if n > 0 {
			m.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(m *Matcher) { m.log = log }
}

// WithMetrics sets the collectors. Nil disables metrics.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Matcher) { m.metrics = mt }
}

// New builds a matcher over a loaded catalog. The priority order is computed
// once and shared by every account pass.
func New(catalog *combination.Catalog, opts ...Option) *Matcher {
	m := &Matcher{
		catalog: catalog,
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rules == nil {
		m.rules = margin.NewRules(nil)
	}
	m.log = logger.OrDefault(m.log)

	ordered := catalog.ByPriority()
	m.plans = make([]plan, len(ordered))
	for i, combo := range ordered {
		m.plans[i] = newPlan(combo)
	}
	return m
}

// FindPairs matches every account of the book independently. Results are
// grouped by account in the book's account order; within an account paired
// results come in priority order followed by unpaired residuals.
func (m *Matcher) FindPairs(ctx context.Context, book *position.Book) ([]*PairResult, error) {
	accounts := book.Accounts()
	perAccount := make([][]*PairResult, len(accounts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for i, account := range accounts {
		i, account := i, account
		g.Go(func() error {
			results, err := m.MatchAccount(gctx, book.ForAccount(account))
			if err != nil {
				return err
			}
			perAccount[i] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var results []*PairResult
	for _, accountResults := range perAccount {
		results = append(results, accountResults...)
	}
	return results, nil
}

// MatchAccount runs one greedy pass over a single account's positions.
func (m *Matcher) MatchAccount(ctx context.Context, positions *position.AccountPositions) ([]*PairResult, error) {
	start := time.Now()
	log := m.log.With("account", positions.Account)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p := newPass(positions)
	var results []*PairResult

	for i, pl := range m.plans {
		if i > 0 && i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		sets := p.matchable(pl)
		if sets <= 0 {
			continue
		}
		results = append(results, m.paired(positions, pl.combo, sets))
		p.consume(pl, sets)
	}

	for _, res := range p.residuals() {
		result, ok := m.unpaired(positions, res)
		if !ok {
			m.metrics.ObserveDropped()
			log.Warn("no standalone combination for residual, dropped",
				"contract", res.key.Contract,
				"side", res.key.Side.String(),
				"quantity", res.quantity,
			)
			continue
		}
		results = append(results, result)
	}

	m.metrics.ObserveAccount(time.Since(start))
	log.Debug("account matched",
		"lots", positions.TotalQuantity(),
		"results", len(results),
		"elapsed", time.Since(start),
	)
	return results, nil
}

func (m *Matcher) paired(positions *position.AccountPositions, combo *combination.Combination, sets int64) *PairResult {
	usages := make([]PositionUsage, 0, len(combo.Legs))
	for _, leg := range combo.Legs {
		key := position.Key{Contract: leg.Contract, Side: leg.Side}
		usages = append(usages, PositionUsage{
			Position:     positions.Representative(key),
			UsedQuantity: sets,
		})
	}

	result := &PairResult{
		ID:            icommon.GenerateResultID(),
		Account:       positions.Account,
		Combination:   combo,
		PairCount:     sets,
		Usages:        usages,
		MarginPerUnit: combo.Margin,
		TotalMargin:   m.rules.Paired(combo.Margin, sets),
	}
	m.metrics.ObservePaired(result.Lots())
	return result
}

// unpaired values a residual with the lowest priority combination named
// "c,-c" (buy) or "-c,c" (sell). False when no such combination exists.
func (m *Matcher) unpaired(positions *position.AccountPositions, res residual) (*PairResult, bool) {
	combo, ok := m.catalog.Lookup(combination.StandaloneName(res.key.Contract, res.key.Side))
	if !ok {
		return nil, false
	}
	price, ok := combo.StandalonePrice(res.key.Side)
	if !ok {
		return nil, false
	}

	result := &PairResult{
		ID:          icommon.GenerateResultID(),
		Account:     positions.Account,
		Combination: combo,
		Unpaired:    true,
		PairCount:   res.quantity,
		Usages: []PositionUsage{{
			Position:     positions.Representative(res.key),
			UsedQuantity: res.quantity,
		}},
		MarginPerUnit: m.rules.StandalonePerLot(price),
		TotalMargin:   m.rules.Standalone(price, res.quantity),
	}
	m.metrics.ObserveUnpaired(res.quantity)
	return result, true
}
