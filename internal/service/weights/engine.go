// Package weights turns a requested ticker set into a target weighting.
// The engine is a pure function: same request and prices, same result.
package weights

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wonny/kisfolio/internal/domain/portfolio"
)

const (
	defaultInitialBuyRatio = 0.5
	defaultDiscountRate    = 0.03

	// keywordBoost is added to an item's raw weight when its reason
	// carries a conviction keyword, before normalization.
	keywordBoost = 0.05

	tolerance = 1e-9
)

// boostKeywords nudge allocation up when present in an item's reason.
var boostKeywords = []string{"핵심", "최우선", "강한확신", "장기"}

// Engine computes portfolio weightings.
type Engine struct{}

// NewEngine creates a weighting engine.
func NewEngine() *Engine { return &Engine{} }

// Compute allocates weights across the requested symbols: equal weight,
// keyword boost, then bounds clamping with proportional redistribution
// over the unclamped symbols. prices is optional and only feeds the
// per-item limit price hints.
func (e *Engine) Compute(req portfolio.WeightRequest, prices map[string]int64) (*portfolio.WeightResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	n := len(req.Items)
	raw := make([]float64, n)
	base := 1.0 / float64(n)
	for i, item := range req.Items {
		raw[i] = base
		if hasBoostKeyword(item.Reason) {
			raw[i] += keywordBoost
		}
	}
	normalize(raw)

	if err := applyBounds(req.Items, raw); err != nil {
		return nil, err
	}

	ratio := req.InitialBuyRatio
	if ratio <= 0 || ratio > 1 {
		ratio = defaultInitialBuyRatio
	}
	discount := req.DiscountRate
	if discount <= 0 || discount >= 1 {
		discount = defaultDiscountRate
	}

	items := make([]portfolio.WeightItem, n)
	for i, item := range req.Items {
		// full precision: the weights must sum to 1 within 1e-9
		w := raw[i]
		allocated := req.TotalCash.Mul(decimal.NewFromFloat(raw[i]))

		hint := decimal.Zero
		if price, ok := prices[item.Symbol]; ok && price > 0 {
			hint = decimal.NewFromInt(price).
				Mul(decimal.NewFromFloat(1 - discount)).
				Round(2)
		}

		items[i] = portfolio.WeightItem{
			Symbol:         item.Symbol,
			Weight:         w,
			InitialBuyCash: allocated.Mul(decimal.NewFromFloat(ratio)).Round(2),
			DCACash:        allocated.Mul(decimal.NewFromFloat(1 - ratio)).Round(2),
			LimitPriceHint: hint,
		}
	}

	return &portfolio.WeightResult{Items: items}, nil
}

func validate(req portfolio.WeightRequest) error {
	if len(req.Items) == 0 {
		return &portfolio.ValidationError{Field: "items", Reason: "must not be empty"}
	}
	seen := make(map[string]bool, len(req.Items))
	for _, item := range req.Items {
		if item.Symbol == "" {
			return &portfolio.ValidationError{Field: "symbol", Reason: "must not be empty"}
		}
		if seen[item.Symbol] {
			return &portfolio.ValidationError{Field: "symbol", Reason: "duplicate: " + item.Symbol}
		}
		seen[item.Symbol] = true

		if b := item.Bounds; b != nil {
			if b.Min < 0 || b.Max > 1 || b.Min > b.Max {
				return &portfolio.ValidationError{
					Field:  "bounds",
					Reason: item.Symbol + ": want 0 <= min <= max <= 1",
				}
			}
		}
	}
	return nil
}

// applyBounds clamps bounded weights and redistributes the remainder
// proportionally among the still-free symbols, repeating until stable.
func applyBounds(items []portfolio.Item, w []float64) error {
	minSum, maxSum := 0.0, 0.0
	bounded := false
	for _, item := range items {
		if item.Bounds != nil {
			bounded = true
			minSum += item.Bounds.Min
			maxSum += item.Bounds.Max
		} else {
			maxSum += 1
		}
	}
	if !bounded {
		return nil
	}
	if minSum > 1+tolerance {
		return &portfolio.InfeasibleWeightsError{Constraint: "minimum bounds sum exceeds 1"}
	}
	if maxSum < 1-tolerance {
		return &portfolio.InfeasibleWeightsError{Constraint: "maximum bounds sum below 1"}
	}

	fixed := make([]bool, len(items))
	for iter := 0; iter < len(items); iter++ {
		clampedAny := false
		for i, item := range items {
			if fixed[i] || item.Bounds == nil {
				continue
			}
			if w[i] < item.Bounds.Min-tolerance {
				w[i] = item.Bounds.Min
				fixed[i] = true
				clampedAny = true
			} else if w[i] > item.Bounds.Max+tolerance {
				w[i] = item.Bounds.Max
				fixed[i] = true
				clampedAny = true
			}
		}
		if !clampedAny {
			return nil
		}

		fixedSum, freeSum := 0.0, 0.0
		for i := range items {
			if fixed[i] {
				fixedSum += w[i]
			} else {
				freeSum += w[i]
			}
		}
		target := 1 - fixedSum
		if freeSum <= tolerance {
			if math.Abs(target) > tolerance {
				return &portfolio.InfeasibleWeightsError{Constraint: "bounds leave no weight to redistribute"}
			}
			return nil
		}
		scale := target / freeSum
		for i := range items {
			if !fixed[i] {
				w[i] *= scale
			}
		}
	}
	return nil
}

func normalize(w []float64) {
	sum := 0.0
	for _, v := range w {
		sum += v
	}
	if sum <= 0 {
		return
	}
	for i := range w {
		w[i] /= sum
	}
}

func hasBoostKeyword(reason string) bool {
	for _, kw := range boostKeywords {
		if strings.Contains(reason, kw) {
			return true
		}
	}
	return false
}
