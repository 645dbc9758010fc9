package holdings

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPrices struct {
	prices map[string]int64
}

func (s stubPrices) Latest(_ context.Context, symbol string) (int64, error) {
	price, ok := s.prices[symbol]
	if !ok {
		return 0, errors.New("no price")
	}
	return price, nil
}

func TestRecordVWAP(t *testing.T) {
	b := NewBook()

	b.Record("005930", 10, decimal.NewFromInt(70000), "basic", "분할 매수")
	b.Record("005930", 10, decimal.NewFromInt(60000), "basic", "추가 매수")

	positions := b.Positions()
	require.Len(t, positions, 1)
	pos := positions[0]
	assert.Equal(t, int64(20), pos.Quantity)
	assert.True(t, pos.AvgPrice.Equal(decimal.NewFromInt(65000)), "avg %s", pos.AvgPrice)
	assert.Equal(t, "추가 매수", pos.Reason)
}

func TestRecordUnevenVWAP(t *testing.T) {
	b := NewBook()

	b.Record("000660", 3, decimal.NewFromInt(190000), "", "")
	b.Record("000660", 7, decimal.NewFromInt(200000), "", "")

	pos := b.Positions()[0]
	// (3×190,000 + 7×200,000) / 10 = 197,000
	assert.True(t, pos.AvgPrice.Equal(decimal.NewFromInt(197000)), "avg %s", pos.AvgPrice)
}

func TestRecordIgnoresInvalidFills(t *testing.T) {
	b := NewBook()

	b.Record("005930", 0, decimal.NewFromInt(70000), "", "")
	b.Record("005930", -5, decimal.NewFromInt(70000), "", "")
	b.Record("005930", 5, decimal.Zero, "", "")

	assert.Empty(t, b.Positions())
}

func TestReduce(t *testing.T) {
	b := NewBook()
	b.Record("005930", 10, decimal.NewFromInt(70000), "", "")

	t.Run("partial sell keeps the cost basis", func(t *testing.T) {
		b.Reduce("005930", 4)

		pos := b.Positions()[0]
		assert.Equal(t, int64(6), pos.Quantity)
		assert.True(t, pos.AvgPrice.Equal(decimal.NewFromInt(70000)))
	})

	t.Run("selling out drops the position", func(t *testing.T) {
		b.Reduce("005930", 6)
		assert.Empty(t, b.Positions())
	})

	t.Run("unknown symbol and bad quantities are ignored", func(t *testing.T) {
		b.Record("000660", 5, decimal.NewFromInt(190000), "", "")
		b.Reduce("999999", 3)
		b.Reduce("000660", 0)
		b.Reduce("000660", -2)
		assert.Equal(t, map[string]int64{"000660": 5}, b.Quantities())
	})

	t.Run("overselling cannot go negative", func(t *testing.T) {
		b.Reduce("000660", 100)
		assert.Empty(t, b.Positions())
	})
}

func TestPositionsSorted(t *testing.T) {
	b := NewBook()
	b.Record("035420", 1, decimal.NewFromInt(210000), "", "")
	b.Record("005930", 1, decimal.NewFromInt(70000), "", "")
	b.Record("000660", 1, decimal.NewFromInt(190000), "", "")

	positions := b.Positions()
	require.Len(t, positions, 3)
	assert.Equal(t, "000660", positions[0].Symbol)
	assert.Equal(t, "005930", positions[1].Symbol)
	assert.Equal(t, "035420", positions[2].Symbol)
}

func TestQuantities(t *testing.T) {
	b := NewBook()
	b.Record("005930", 10, decimal.NewFromInt(70000), "", "")
	b.Record("000660", 4, decimal.NewFromInt(190000), "", "")

	assert.Equal(t, map[string]int64{"005930": 10, "000660": 4}, b.Quantities())
}

func TestConcurrentRecord(t *testing.T) {
	b := NewBook()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Record("005930", 1, decimal.NewFromInt(70000), "", "")
		}()
	}
	wg.Wait()

	pos := b.Positions()[0]
	assert.Equal(t, int64(50), pos.Quantity)
	assert.True(t, pos.AvgPrice.Equal(decimal.NewFromInt(70000)))
}

func TestSnapshot(t *testing.T) {
	b := NewBook()
	b.Record("005930", 10, decimal.NewFromInt(70000), "", "") // 반도체
	b.Record("000660", 5, decimal.NewFromInt(180000), "", "") // 반도체
	b.Record("035420", 2, decimal.NewFromInt(200000), "", "") // 인터넷

	snap, err := b.Snapshot(context.Background(), stubPrices{prices: map[string]int64{
		"005930": 70000,  // 700,000
		"000660": 200000, // 1,000,000
		"035420": 150000, // 300,000
	}})
	require.NoError(t, err)
	require.Len(t, snap.Holdings, 3)

	assert.True(t, snap.TotalValue.Equal(decimal.NewFromInt(2000000)), "total %s", snap.TotalValue)
	assert.InDelta(t, 85.0, snap.SectorDistribution["반도체"], 0.01)
	assert.InDelta(t, 15.0, snap.SectorDistribution["인터넷"], 0.01)
}

func TestSnapshotPriceFailure(t *testing.T) {
	b := NewBook()
	b.Record("005930", 10, decimal.NewFromInt(70000), "", "")
	b.Record("123456", 5, decimal.NewFromInt(10000), "", "")

	snap, err := b.Snapshot(context.Background(), stubPrices{prices: map[string]int64{
		"005930": 70000,
	}})
	require.NoError(t, err)
	require.Len(t, snap.Holdings, 2)

	// The unpriced position stays in the list, unvalued.
	assert.True(t, snap.TotalValue.Equal(decimal.NewFromInt(700000)))
	for _, v := range snap.Holdings {
		if v.Symbol == "123456" {
			assert.True(t, v.Value.IsZero())
			assert.Equal(t, "기타", v.Sector)
		}
	}
}

func TestSector(t *testing.T) {
	assert.Equal(t, "반도체", Sector("005930"))
	assert.Equal(t, "기술", Sector("aapl"))
	assert.Equal(t, "기타", Sector("999999"))
}
