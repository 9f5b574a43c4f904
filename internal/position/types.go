package position

import (
	"fmt"

	"frizo/margin_saving/common"
)

// Key fungibility key of a holding within one account
type Key struct {
	Contract string
	Side     common.Side
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%s", k.Contract, k.Side)
}

// Position a client holding (lots)
type Position struct {
	Account  string      `json:"account"`
	Contract string      `json:"contract"`
	Side     common.Side `json:"side"`
	Quantity int64       `json:"quantity"`
}

// Key returns the (contract, side) grouping key.
func (p *Position) Key() Key {
	return Key{Contract: p.Contract, Side: p.Side}
}

// IsBuy true for long holdings
func (p *Position) IsBuy() bool {
	return p.Side.IsBuy()
}

func (p *Position) String() string {
	return fmt.Sprintf("Position{%s, %s, %s, qty=%d}", p.Account, p.Contract, p.Side, p.Quantity)
}
