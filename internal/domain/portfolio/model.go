package portfolio

import "github.com/shopspring/decimal"

// Bounds limits one symbol's weight to [Min, Max].
type Bounds struct {
	Min float64 `json:"min" validate:"gte=0,lte=1"`
	Max float64 `json:"max" validate:"gte=0,lte=1"`
}

// Item is one requested portfolio entry. Reason is free text; certain
// conviction keywords in it nudge the weight up before normalization.
type Item struct {
	Symbol string  `json:"symbol" validate:"required"`
	Reason string  `json:"reason"`
	Bounds *Bounds `json:"bounds,omitempty"`
}

// WeightRequest asks for a target weighting over a set of symbols.
type WeightRequest struct {
	Items           []Item          `json:"items" validate:"required,min=1,dive"`
	TotalCash       decimal.Decimal `json:"total_cash"`
	InitialBuyRatio float64         `json:"initial_buy_ratio"` // default 0.5
	DiscountRate    float64         `json:"discount_rate"`     // default 0.03
}

// WeightItem is one symbol's allocation with its cash split.
type WeightItem struct {
	Symbol         string          `json:"symbol"`
	Weight         float64         `json:"weight"`
	InitialBuyCash decimal.Decimal `json:"initial_buy_cash"`
	DCACash        decimal.Decimal `json:"dca_cash"`
	LimitPriceHint decimal.Decimal `json:"limit_price_hint"`
}

// WeightResult maps every requested symbol, and only those, to a weight
// in [0,1]. Weights sum to 1 within floating tolerance.
type WeightResult struct {
	Items []WeightItem `json:"results"`
}

// Weights returns the symbol-to-weight view of the result.
func (r WeightResult) Weights() map[string]float64 {
	out := make(map[string]float64, len(r.Items))
	for _, it := range r.Items {
		out[it.Symbol] = it.Weight
	}
	return out
}
