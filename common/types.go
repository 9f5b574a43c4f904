package common

import "strings"

// Side direction of a holding or a combination leg
type Side int

const (
	BUY Side = iota
	SELL
)

func (side Side) String() string {
	switch side {
	case BUY:
		return "buy"
	case SELL:
		return "sell"
	default:
		return "unknown"
	}
}

// IsBuy reports whether the side is the long (buy) side.
func (side Side) IsBuy() bool {
	return side == BUY
}

// ParseSide maps a direction token to a Side. Comparison is case-insensitive
// and anything other than "buy" is a sell.
func ParseSide(token string) Side {
	if strings.EqualFold(strings.TrimSpace(token), "buy") {
		return BUY
	}
	return SELL
}

// SideFromBool converts an isBuy flag.
func SideFromBool(isBuy bool) Side {
	if isBuy {
		return BUY
	}
	return SELL
}

func (side Side) MarshalText() ([]byte, error) {
	return []byte(side.String()), nil
}
