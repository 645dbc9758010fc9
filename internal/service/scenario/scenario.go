// Package scenario builds preset single-stock entry plans: each preset
// splits the available cash into tranches executed at market or as limit
// orders offset from the current price.
package scenario

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/wonny/kisfolio/internal/domain/order"
	"github.com/wonny/kisfolio/internal/service/brokerage"
)

// Type identifies a preset scenario.
type Type string

const (
	Basic        Type = "basic"        // 기본형: 50% 시장가 + 50% 지정가 -3%
	Confident    Type = "confident"    // 확신형: 100% 시장가
	Chase        Type = "chase"        // 추격매수형: 30% 시장가 + 30% +5% + 40% +10%
	Conservative Type = "conservative" // 보수형: 30% 시장가 + 20% -3% + 50% -6%
)

// tranche is one cash slice: ratio of total cash and a price offset
// relative to the current price. A nil offset means a market order.
type tranche struct {
	ratio  float64
	offset *float64
}

func pct(v float64) *float64 { return &v }

// definitions maps each scenario to its tranche split.
var definitions = map[Type][]tranche{
	Basic: {
		{0.5, nil},
		{0.5, pct(-0.03)},
	},
	Confident: {
		{1.0, nil},
	},
	Chase: {
		{0.3, nil},
		{0.3, pct(0.05)},
		{0.4, pct(0.10)},
	},
	Conservative: {
		{0.3, nil},
		{0.2, pct(-0.03)},
		{0.5, pct(-0.06)},
	},
}

// Tranche is one planned order within a scenario.
type Tranche struct {
	Type  order.Type      `json:"order_type"`
	Qty   int64           `json:"qty"`
	Price decimal.Decimal `json:"price"` // zero for market orders
	Ratio float64         `json:"ratio"`
}

// Plan is a fully computed scenario ready for preview or execution.
type Plan struct {
	Symbol    string          `json:"symbol"`
	Scenario  Type            `json:"scenario"`
	TotalCash decimal.Decimal `json:"total_cash"`
	Price     decimal.Decimal `json:"price"` // current price the plan was built from
	Reason    string          `json:"reason"`
	Orders    []Tranche       `json:"orders"`
}

// Lines converts the plan's tranches into dispatchable order lines.
// Market tranches carry the plan's current price as their estimate.
func (p *Plan) Lines() []order.Line {
	lines := make([]order.Line, 0, len(p.Orders))
	for _, t := range p.Orders {
		if t.Qty <= 0 {
			continue
		}
		price := t.Price
		if t.Type == order.TypeMarket {
			price = p.Price
		}
		lines = append(lines, order.NewLine(p.Symbol, order.SideBuy, t.Type, t.Qty, price))
	}
	return lines
}

// Service plans and executes scenario entries.
type Service struct {
	resolver *brokerage.Resolver
}

// NewService creates a scenario service.
func NewService(resolver *brokerage.Resolver) *Service {
	return &Service{resolver: resolver}
}

// Plan computes the tranche orders for one symbol. Quantities are
// floored to whole shares; the uninvestable remainder stays cash.
func (s *Service) Plan(symbol string, totalCash decimal.Decimal, scenario Type, reason string, currentPrice int64) (*Plan, error) {
	if currentPrice <= 0 {
		return nil, &order.PlanningError{Symbol: symbol, Reason: "invalid current price"}
	}
	def, ok := definitions[scenario]
	if !ok {
		return nil, &order.PlanningError{Symbol: symbol, Reason: "unknown scenario: " + string(scenario)}
	}

	price := decimal.NewFromInt(currentPrice)
	orders := make([]Tranche, 0, len(def))
	for _, t := range def {
		cash := totalCash.Mul(decimal.NewFromFloat(t.ratio))

		var limitPrice, qtyPrice decimal.Decimal
		typ := order.TypeMarket
		if t.offset == nil {
			qtyPrice = price
		} else {
			typ = order.TypeLimit
			limitPrice = price.Mul(decimal.NewFromFloat(1 + *t.offset)).Round(2)
			qtyPrice = limitPrice
		}

		qty := int64(0)
		if qtyPrice.IsPositive() {
			qty = cash.Div(qtyPrice).IntPart()
		}

		orders = append(orders, Tranche{
			Type:  typ,
			Qty:   qty,
			Price: limitPrice,
			Ratio: t.ratio,
		})
	}

	return &Plan{
		Symbol:    symbol,
		Scenario:  scenario,
		TotalCash: totalCash,
		Price:     price,
		Reason:    reason,
		Orders:    orders,
	}, nil
}

// Execute dispatches the plan through the active backend.
func (s *Service) Execute(ctx context.Context, plan *Plan) (*order.Result, error) {
	lines := plan.Lines()
	if len(lines) == 0 {
		return nil, &order.PlanningError{Symbol: plan.Symbol, Reason: "plan has no executable orders"}
	}

	_, b, err := s.resolver.Resolve()
	if err != nil {
		return nil, err
	}
	return b.PlaceOrder(ctx, lines)
}
