package matcher

import (
	"frizo/margin_saving/internal/combination"
	"frizo/margin_saving/internal/position"
)

// demand lots of one key needed by a single leg set
type demand struct {
	key    position.Key
	perSet int64
}

// plan a combination with its legs folded into per-key demand
type plan struct {
	combo   *combination.Combination
	demands []demand
}

func newPlan(combo *combination.Combination) plan {
	demands := make([]demand, 0, len(combo.Legs))
	for _, leg := range combo.Legs {
		key := position.Key{Contract: leg.Contract, Side: leg.Side}
		found := false
		for i := range demands {
			if demands[i].key == key {
				demands[i].perSet++
				found = true
				break
			}
		}
		if !found {
			demands = append(demands, demand{key: key, perSet: 1})
		}
	}
	return plan{combo: combo, demands: demands}
}

// pass working state of one account. Owned by a single goroutine and
// discarded once the account's results are built.
type pass struct {
	positions *position.AccountPositions
	available map[position.Key]int64
}

func newPass(positions *position.AccountPositions) *pass {
	available := make(map[position.Key]int64, len(positions.Keys()))
	for _, key := range positions.Keys() {
		available[key] = positions.Quantity(key)
	}
	return &pass{positions: positions, available: available}
}

// matchable number of full leg sets available now. Zero when any leg is
// missing or exhausted.
func (p *pass) matchable(pl plan) int64 {
	var sets int64 = -1
	for _, d := range pl.demands {
		qty := p.available[d.key]
		if qty <= 0 {
			return 0
		}
		if n := qty / d.perSet; sets < 0 || n < sets {
			sets = n
		}
	}
	if sets < 0 {
		return 0
	}
	return sets
}

// consume takes sets leg sets out of the pool. Irreversible.
func (p *pass) consume(pl plan, sets int64) {
	for _, d := range pl.demands {
		p.available[d.key] -= sets * d.perSet
	}
}

// residuals keys with lots left, in first appearance order
func (p *pass) residuals() []residual {
	var out []residual
	for _, key := range p.positions.Keys() {
		if qty := p.available[key]; qty > 0 {
			out = append(out, residual{key: key, quantity: qty})
		}
	}
	return out
}

type residual struct {
	key      position.Key
	quantity int64
}
