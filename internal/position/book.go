package position

// AccountPositions positions of one account grouped by Key
type AccountPositions struct {
	Account string

	keys     []Key // first appearance order
	quantity map[Key]int64
	records  map[Key][]*Position
}

func newAccountPositions(account string) *AccountPositions {
	return &AccountPositions{
		Account:  account,
		quantity: make(map[Key]int64),
		records:  make(map[Key][]*Position),
	}
}

func (ap *AccountPositions) add(p *Position) {
	key := p.Key()
	if _, exists := ap.records[key]; !exists {
		ap.keys = append(ap.keys, key)
	}
	ap.records[key] = append(ap.records[key], p)
	ap.quantity[key] += p.Quantity
}

// Keys in order of first appearance.
func (ap *AccountPositions) Keys() []Key {
	return ap.keys
}

// Quantity summed lots for a key.
func (ap *AccountPositions) Quantity(key Key) int64 {
	return ap.quantity[key]
}

// Representative the first loaded record of a key, used for display.
func (ap *AccountPositions) Representative(key Key) *Position {
	if records := ap.records[key]; len(records) > 0 {
		return records[0]
	}
	return nil
}

// TotalQuantity lots across every key.
func (ap *AccountPositions) TotalQuantity() int64 {
	var total int64
	for _, qty := range ap.quantity {
		total += qty
	}
	return total
}

// ==========================================================================================

// Book (持倉簿) positions grouped by account. Read-only once built.
type Book struct {
	positions []*Position
	accounts  []string // first appearance order
	byAccount map[string]*AccountPositions
}

// NewBook groups positions by account and key.
func NewBook(positions []*Position) *Book {
	b := &Book{
		positions: positions,
		byAccount: make(map[string]*AccountPositions),
	}
	for _, p := range positions {
		ap, exists := b.byAccount[p.Account]
		if !exists {
			ap = newAccountPositions(p.Account)
			b.byAccount[p.Account] = ap
			b.accounts = append(b.accounts, p.Account)
		}
		ap.add(p)
	}
	return b
}

// Len number of position records
func (b *Book) Len() int {
	return len(b.positions)
}

// All records in load order.
func (b *Book) All() []*Position {
	return b.positions
}

// Accounts in order of first appearance.
func (b *Book) Accounts() []string {
	return b.accounts
}

// ForAccount grouped positions of one account, nil when unknown.
func (b *Book) ForAccount(account string) *AccountPositions {
	return b.byAccount[account]
}

// TotalQuantity lots held by an account.
func (b *Book) TotalQuantity(account string) int64 {
	if ap := b.byAccount[account]; ap != nil {
		return ap.TotalQuantity()
	}
	return 0
}
