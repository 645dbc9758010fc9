// Package mockkis is the in-process brokerage backend. It produces
// deterministic synthetic quotes and fills so the service runs with no
// credentials and tests are reproducible. No network I/O happens here.
package mockkis

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/kisfolio/internal/domain/broker"
	"github.com/wonny/kisfolio/internal/domain/order"
	"github.com/wonny/kisfolio/internal/domain/quote"
)

const (
	mockTokenValue = "MOCK_TOKEN"
	mockTokenTTL   = 23 * time.Hour

	// defaultRangeDays is the synthetic history length when the caller
	// passes an open date range.
	defaultRangeDays = 30

	// maxRangeDays caps synthetic output for very wide ranges.
	maxRangeDays = 100
)

// Broker implements broker.Broker with synthetic data.
type Broker struct {
	now func() time.Time
}

// New creates a mock broker.
func New() *Broker {
	return &Broker{now: time.Now}
}

// Token returns a fixed mock token. It never fails.
func (b *Broker) Token(_ context.Context) (broker.Token, error) {
	return broker.Token{Value: mockTokenValue, ExpiresAt: b.now().Add(mockTokenTTL)}, nil
}

// DailyQuotes synthesizes one OHLCV row per calendar day in [from, to].
// The same (symbol, range) input always yields the same rows.
func (b *Broker) DailyQuotes(_ context.Context, symbol, from, to string) ([]quote.Quote, error) {
	end, err := parseDate(to)
	if err != nil || to == "" {
		end = b.now()
	}
	start, err := parseDate(from)
	if err != nil || from == "" {
		start = end.AddDate(0, 0, -(defaultRangeDays - 1))
	}
	if start.After(end) {
		return []quote.Quote{}, nil
	}

	quotes := make([]quote.Quote, 0, defaultRangeDays)
	for d := start; !d.After(end) && len(quotes) < maxRangeDays; d = d.AddDate(0, 0, 1) {
		quotes = append(quotes, syntheticQuote(symbol, d.Format(dateLayout)))
	}
	return quotes, nil
}

// LatestPrice returns today's synthetic close.
func (b *Broker) LatestPrice(_ context.Context, symbol string) (int64, error) {
	return syntheticQuote(symbol, b.now().Format(dateLayout)).Close, nil
}

// PlaceOrder marks every line mock-filled at its requested price.
func (b *Broker) PlaceOrder(_ context.Context, lines []order.Line) (*order.Result, error) {
	executed := make([]order.ExecutedLine, 0, len(lines))
	total := decimal.Zero

	for i, line := range lines {
		if line.Qty <= 0 {
			continue
		}
		executed = append(executed, order.ExecutedLine{
			Line:    line,
			Status:  order.StatusMockFilled,
			OrderNo: fmt.Sprintf("MOCK-%04d", i+1),
		})
		total = total.Add(line.Amount)
	}

	return &order.Result{
		Lines:         executed,
		TotalExecuted: total,
		ExecutedAt:    b.now(),
	}, nil
}

const dateLayout = "20060102"

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// basePrice derives a stable per-symbol price level. Symbols ending in
// two digits follow the 50000 + dd*10 rule; anything else falls back to
// a hash-derived level so non-numeric tickers still work.
func basePrice(symbol string) int64 {
	if len(symbol) >= 2 {
		d1, d0 := symbol[len(symbol)-2], symbol[len(symbol)-1]
		if d1 >= '0' && d1 <= '9' && d0 >= '0' && d0 <= '9' {
			return 50000 + int64(d1-'0')*100 + int64(d0-'0')*10
		}
	}
	return 10000 + int64(hash(symbol)%90)*1000
}

// syntheticQuote builds the row for one (symbol, date) pair. The daily
// offset is hashed from both so the same day always prints the same
// candle regardless of the queried range.
func syntheticQuote(symbol, date string) quote.Quote {
	base := basePrice(symbol)
	h := hash(symbol + ":" + date)

	// ±5% walk around the base level, at least one tick wide
	span := base / 20
	if span < 10 {
		span = 10
	}
	closeP := base + int64(h%uint64(2*span+1)) - span
	openP := base + int64((h>>16)%uint64(2*span+1)) - span

	high := closeP
	if openP > high {
		high = openP
	}
	low := closeP
	if openP < low {
		low = openP
	}

	return quote.Quote{
		Symbol: symbol,
		Date:   date,
		Open:   openP,
		High:   high + span/10,
		Low:    low - span/10,
		Close:  closeP,
		Volume: int64(h % 1_000_000),
	}
}

func hash(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
