// Package holdings keeps the in-memory position book. State lives only
// in process memory and resets on restart; there is deliberately no
// disk or database persistence behind it.
package holdings

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

// Position is one held symbol with its volume-weighted average price.
type Position struct {
	Symbol   string          `json:"symbol"`
	Quantity int64           `json:"quantity"`
	AvgPrice decimal.Decimal `json:"avg_price"`
	Scenario string          `json:"scenario,omitempty"`
	Reason   string          `json:"reason,omitempty"`
}

// Valued is a position priced at the latest quote.
type Valued struct {
	Position
	Sector       string          `json:"sector"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	Value        decimal.Decimal `json:"value"`
}

// Snapshot is the full book with its sector distribution in percent.
type Snapshot struct {
	Holdings           []Valued           `json:"holdings"`
	SectorDistribution map[string]float64 `json:"sector_distribution"`
	TotalValue         decimal.Decimal    `json:"total_value"`
}

// PriceSource supplies latest prices for valuation.
type PriceSource interface {
	Latest(ctx context.Context, symbol string) (int64, error)
}

// Book is the mutex-guarded in-memory holdings store.
type Book struct {
	mu        sync.RWMutex
	positions map[string]*Position
}

// NewBook creates an empty book.
func NewBook() *Book {
	return &Book{positions: make(map[string]*Position)}
}

// Record accumulates a fill into the book, recomputing the
// volume-weighted average price. Non-positive fills are ignored.
func (b *Book) Record(symbol string, qty int64, price decimal.Decimal, scenario, reason string) {
	if qty <= 0 || !price.IsPositive() {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	pos, ok := b.positions[symbol]
	if !ok {
		b.positions[symbol] = &Position{
			Symbol:   symbol,
			Quantity: qty,
			AvgPrice: price.Round(2),
			Scenario: scenario,
			Reason:   reason,
		}
		return
	}

	prevQty := decimal.NewFromInt(pos.Quantity)
	newQty := decimal.NewFromInt(qty)
	total := pos.Quantity + qty

	pos.AvgPrice = pos.AvgPrice.Mul(prevQty).
		Add(price.Mul(newQty)).
		Div(decimal.NewFromInt(total)).
		Round(2)
	pos.Quantity = total
	pos.Scenario = scenario
	pos.Reason = reason
}

// Reduce removes sold quantity from a position, dropping it entirely
// once nothing is left. The average price is unchanged: selling
// realizes P&L, it does not rewrite the cost basis.
func (b *Book) Reduce(symbol string, qty int64) {
	if qty <= 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	pos, ok := b.positions[symbol]
	if !ok {
		return
	}
	pos.Quantity -= qty
	if pos.Quantity <= 0 {
		delete(b.positions, symbol)
	}
}

// Positions returns a copy of the current book, sorted by symbol.
func (b *Book) Positions() []Position {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Position, 0, len(b.positions))
	for _, pos := range b.positions {
		out = append(out, *pos)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Quantities returns the symbol-to-quantity view used by the planner.
func (b *Book) Quantities() map[string]int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(map[string]int64, len(b.positions))
	for symbol, pos := range b.positions {
		out[symbol] = pos.Quantity
	}
	return out
}

// Snapshot values every position at its latest price and derives the
// sector distribution. A position whose price lookup fails is reported
// unvalued rather than dropping the snapshot.
func (b *Book) Snapshot(ctx context.Context, prices PriceSource) (*Snapshot, error) {
	positions := b.Positions()

	valued := make([]Valued, 0, len(positions))
	total := decimal.Zero
	sectorValues := make(map[string]decimal.Decimal)

	for _, pos := range positions {
		v := Valued{Position: pos, Sector: Sector(pos.Symbol)}
		if price, err := prices.Latest(ctx, pos.Symbol); err == nil && price > 0 {
			v.CurrentPrice = decimal.NewFromInt(price)
			v.Value = v.CurrentPrice.Mul(decimal.NewFromInt(pos.Quantity))
			total = total.Add(v.Value)
			sectorValues[v.Sector] = sectorValues[v.Sector].Add(v.Value)
		}
		valued = append(valued, v)
	}

	distribution := make(map[string]float64, len(sectorValues))
	if total.IsPositive() {
		for sector, value := range sectorValues {
			ratio, _ := value.Div(total).Mul(decimal.NewFromInt(100)).Round(2).Float64()
			distribution[sector] = ratio
		}
	}

	return &Snapshot{
		Holdings:           valued,
		SectorDistribution: distribution,
		TotalValue:         total,
	}, nil
}
