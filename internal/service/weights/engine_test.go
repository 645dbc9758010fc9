package weights

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/kisfolio/internal/domain/portfolio"
)

func items(symbols ...string) []portfolio.Item {
	out := make([]portfolio.Item, len(symbols))
	for i, s := range symbols {
		out[i] = portfolio.Item{Symbol: s}
	}
	return out
}

func weightSum(result *portfolio.WeightResult) float64 {
	sum := 0.0
	for _, item := range result.Items {
		sum += item.Weight
	}
	return sum
}

func TestComputeEqualWeights(t *testing.T) {
	e := NewEngine()

	t.Run("two symbols", func(t *testing.T) {
		result, err := e.Compute(portfolio.WeightRequest{
			Items:     items("005930", "000660"),
			TotalCash: decimal.NewFromInt(1000000),
		}, nil)
		require.NoError(t, err)
		require.Len(t, result.Items, 2)
		assert.InDelta(t, 0.5, result.Items[0].Weight, 1e-12)
		assert.InDelta(t, 0.5, result.Items[1].Weight, 1e-12)
	})

	t.Run("three symbols sum to one", func(t *testing.T) {
		result, err := e.Compute(portfolio.WeightRequest{
			Items:     items("005930", "000660", "035420"),
			TotalCash: decimal.NewFromInt(1000000),
		}, nil)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, weightSum(result), 1e-9)
	})

	t.Run("seven symbols sum to one", func(t *testing.T) {
		result, err := e.Compute(portfolio.WeightRequest{
			Items:     items("A", "B", "C", "D", "E", "F", "G"),
			TotalCash: decimal.NewFromInt(7000000),
		}, nil)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, weightSum(result), 1e-9)
	})
}

func TestComputeDeterministic(t *testing.T) {
	e := NewEngine()
	req := portfolio.WeightRequest{
		Items: []portfolio.Item{
			{Symbol: "005930", Reason: "핵심 보유"},
			{Symbol: "000660"},
			{Symbol: "035420", Bounds: &portfolio.Bounds{Min: 0.1, Max: 0.25}},
		},
		TotalCash: decimal.NewFromInt(3000000),
	}
	prices := map[string]int64{"005930": 70000, "000660": 190000, "035420": 210000}

	first, err := e.Compute(req, prices)
	require.NoError(t, err)
	second, err := e.Compute(req, prices)
	require.NoError(t, err)

	require.Len(t, second.Items, len(first.Items))
	for i := range first.Items {
		assert.Equal(t, first.Items[i].Symbol, second.Items[i].Symbol)
		assert.Equal(t, first.Items[i].Weight, second.Items[i].Weight)
		assert.True(t, first.Items[i].InitialBuyCash.Equal(second.Items[i].InitialBuyCash))
	}
}

func TestComputeKeywordBoost(t *testing.T) {
	e := NewEngine()
	result, err := e.Compute(portfolio.WeightRequest{
		Items: []portfolio.Item{
			{Symbol: "005930", Reason: "핵심 반도체 보유 종목"},
			{Symbol: "000660", Reason: "그냥"},
		},
		TotalCash: decimal.NewFromInt(1000000),
	}, nil)
	require.NoError(t, err)

	// 0.55 / 1.05 vs 0.50 / 1.05 after normalization
	assert.Greater(t, result.Items[0].Weight, result.Items[1].Weight)
	assert.InDelta(t, 0.55/1.05, result.Items[0].Weight, 1e-9)
	assert.InDelta(t, 1.0, weightSum(result), 1e-9)
}

func TestComputeBounds(t *testing.T) {
	e := NewEngine()

	t.Run("max clamp redistributes to free symbols", func(t *testing.T) {
		result, err := e.Compute(portfolio.WeightRequest{
			Items: []portfolio.Item{
				{Symbol: "A", Bounds: &portfolio.Bounds{Min: 0, Max: 0.2}},
				{Symbol: "B"},
				{Symbol: "C"},
			},
			TotalCash: decimal.NewFromInt(1000000),
		}, nil)
		require.NoError(t, err)
		assert.InDelta(t, 0.2, result.Items[0].Weight, 1e-9)
		assert.InDelta(t, 0.4, result.Items[1].Weight, 1e-9)
		assert.InDelta(t, 0.4, result.Items[2].Weight, 1e-9)
	})

	t.Run("min clamp pulls weight from free symbols", func(t *testing.T) {
		result, err := e.Compute(portfolio.WeightRequest{
			Items: []portfolio.Item{
				{Symbol: "A", Bounds: &portfolio.Bounds{Min: 0.6, Max: 1}},
				{Symbol: "B"},
			},
			TotalCash: decimal.NewFromInt(1000000),
		}, nil)
		require.NoError(t, err)
		assert.InDelta(t, 0.6, result.Items[0].Weight, 1e-9)
		assert.InDelta(t, 0.4, result.Items[1].Weight, 1e-9)
	})

	t.Run("all weights stay inside their bounds", func(t *testing.T) {
		req := portfolio.WeightRequest{
			Items: []portfolio.Item{
				{Symbol: "A", Bounds: &portfolio.Bounds{Min: 0.05, Max: 0.15}},
				{Symbol: "B", Bounds: &portfolio.Bounds{Min: 0.3, Max: 0.5}},
				{Symbol: "C"},
				{Symbol: "D"},
			},
			TotalCash: decimal.NewFromInt(1000000),
		}
		result, err := e.Compute(req, nil)
		require.NoError(t, err)
		for i, item := range req.Items {
			if item.Bounds == nil {
				continue
			}
			w := result.Items[i].Weight
			assert.GreaterOrEqual(t, w, item.Bounds.Min-1e-9, item.Symbol)
			assert.LessOrEqual(t, w, item.Bounds.Max+1e-9, item.Symbol)
		}
		assert.InDelta(t, 1.0, weightSum(result), 1e-9)
	})
}

func TestComputeInfeasible(t *testing.T) {
	e := NewEngine()

	t.Run("minimums exceed 1", func(t *testing.T) {
		_, err := e.Compute(portfolio.WeightRequest{
			Items: []portfolio.Item{
				{Symbol: "A", Bounds: &portfolio.Bounds{Min: 0.6, Max: 1}},
				{Symbol: "B", Bounds: &portfolio.Bounds{Min: 0.5, Max: 1}},
			},
			TotalCash: decimal.NewFromInt(1000000),
		}, nil)
		var infeasible *portfolio.InfeasibleWeightsError
		require.ErrorAs(t, err, &infeasible)
	})

	t.Run("maximums below 1", func(t *testing.T) {
		_, err := e.Compute(portfolio.WeightRequest{
			Items: []portfolio.Item{
				{Symbol: "A", Bounds: &portfolio.Bounds{Min: 0, Max: 0.3}},
				{Symbol: "B", Bounds: &portfolio.Bounds{Min: 0, Max: 0.4}},
			},
			TotalCash: decimal.NewFromInt(1000000),
		}, nil)
		var infeasible *portfolio.InfeasibleWeightsError
		require.ErrorAs(t, err, &infeasible)
	})
}

func TestComputeValidation(t *testing.T) {
	e := NewEngine()
	cash := decimal.NewFromInt(1000000)

	tests := []struct {
		name string
		req  portfolio.WeightRequest
	}{
		{"empty items", portfolio.WeightRequest{TotalCash: cash}},
		{"duplicate symbol", portfolio.WeightRequest{
			Items: items("005930", "005930"), TotalCash: cash,
		}},
		{"blank symbol", portfolio.WeightRequest{
			Items: items("005930", ""), TotalCash: cash,
		}},
		{"inverted bounds", portfolio.WeightRequest{
			Items: []portfolio.Item{
				{Symbol: "005930", Bounds: &portfolio.Bounds{Min: 0.5, Max: 0.2}},
			},
			TotalCash: cash,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Compute(tt.req, nil)
			var verr *portfolio.ValidationError
			assert.True(t, errors.As(err, &verr), "got %v", err)
		})
	}
}

func TestComputeCashSplit(t *testing.T) {
	e := NewEngine()
	result, err := e.Compute(portfolio.WeightRequest{
		Items:     items("005930", "000660"),
		TotalCash: decimal.NewFromInt(1000000),
	}, map[string]int64{"005930": 70000})
	require.NoError(t, err)

	samsung := result.Items[0]
	// 500,000 allocated, half immediately, half staged for averaging down
	assert.True(t, samsung.InitialBuyCash.Equal(decimal.NewFromInt(250000)), "initial %s", samsung.InitialBuyCash)
	assert.True(t, samsung.DCACash.Equal(decimal.NewFromInt(250000)), "dca %s", samsung.DCACash)
	// limit hint = 70000 * (1 - 0.03)
	assert.True(t, samsung.LimitPriceHint.Equal(decimal.NewFromInt(67900)), "hint %s", samsung.LimitPriceHint)

	// no price known for the second symbol
	assert.True(t, result.Items[1].LimitPriceHint.IsZero())
}

func TestComputeCustomRatios(t *testing.T) {
	e := NewEngine()
	result, err := e.Compute(portfolio.WeightRequest{
		Items:           items("005930"),
		TotalCash:       decimal.NewFromInt(1000000),
		InitialBuyRatio: 0.7,
		DiscountRate:    0.05,
	}, map[string]int64{"005930": 100000})
	require.NoError(t, err)

	item := result.Items[0]
	assert.True(t, item.InitialBuyCash.Equal(decimal.NewFromInt(700000)), "initial %s", item.InitialBuyCash)
	assert.True(t, item.DCACash.Equal(decimal.NewFromInt(300000)), "dca %s", item.DCACash)
	assert.True(t, item.LimitPriceHint.Equal(decimal.NewFromInt(95000)), "hint %s", item.LimitPriceHint)
	assert.False(t, math.Signbit(item.Weight))
}
