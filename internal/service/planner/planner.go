// Package planner turns a target weighting plus current holdings, cash
// and prices into a concrete order preview, and dispatches approved
// previews through the active backend.
package planner

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/wonny/kisfolio/internal/domain/order"
	"github.com/wonny/kisfolio/internal/service/brokerage"
)

// Planner previews and executes order lists.
type Planner struct {
	resolver *brokerage.Resolver
}

// New creates a planner.
func New(resolver *brokerage.Resolver) *Planner {
	return &Planner{resolver: resolver}
}

// Preview computes the order lines that move the account from its
// current holdings toward the target weights. Per symbol the target
// value is weight × (cash + market value of holdings); the share delta
// is floored to whole shares. A zero delta produces no line.
func (p *Planner) Preview(
	weights map[string]float64,
	holdings map[string]int64,
	cash decimal.Decimal,
	prices map[string]int64,
) (*order.Preview, error) {
	for symbol := range weights {
		if price, ok := prices[symbol]; !ok || price <= 0 {
			return nil, &order.PlanningError{Symbol: symbol, Reason: "missing price"}
		}
	}

	// Total equity values every current position at its latest price
	equity := cash
	for symbol, qty := range holdings {
		if price, ok := prices[symbol]; ok {
			equity = equity.Add(decimal.NewFromInt(price * qty))
		}
	}

	// Two passes keep the line order deterministic: iterate the
	// weighted symbols in stable slice order built from the map.
	symbols := sortedSymbols(weights)

	lines := make([]order.Line, 0, len(symbols))
	for _, symbol := range symbols {
		price := decimal.NewFromInt(prices[symbol])
		target := equity.Mul(decimal.NewFromFloat(weights[symbol]))

		desired := target.Div(price).IntPart() // floor for positive values
		delta := desired - holdings[symbol]

		switch {
		case delta > 0:
			lines = append(lines, order.NewLine(symbol, order.SideBuy, order.TypeLimit, delta, price))
		case delta < 0:
			lines = append(lines, order.NewLine(symbol, order.SideSell, order.TypeLimit, -delta, price))
		}
	}

	return order.NewPreview(lines), nil
}

// Execute dispatches the preview's lines, unmodified, to the active
// backend. Prices and weights are never recomputed here: what the user
// approved is exactly what gets sent, and any drift since the preview
// is accepted. Never retried.
func (p *Planner) Execute(ctx context.Context, preview *order.Preview) (*order.Result, error) {
	if preview == nil || len(preview.Lines) == 0 {
		return nil, &order.PlanningError{Reason: "empty preview"}
	}

	_, b, err := p.resolver.Resolve()
	if err != nil {
		return nil, err
	}

	result, err := b.PlaceOrder(ctx, preview.Lines)
	if err != nil {
		return nil, err
	}
	result.PreviewID = preview.ID
	return result, nil
}

func sortedSymbols(weights map[string]float64) []string {
	symbols := make([]string, 0, len(weights))
	for symbol := range weights {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}
