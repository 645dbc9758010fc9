package broker

import (
	"context"
	"time"

	"github.com/wonny/kisfolio/internal/domain/order"
	"github.com/wonny/kisfolio/internal/domain/quote"
)

// Mode represents the active brokerage mode
type Mode string

const (
	ModeMock Mode = "mock" // in-process synthetic data, no network calls
	ModeReal Mode = "real" // live KIS open API
)

// Token represents a cached KIS access token
type Token struct {
	Value     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Valid reports whether the token is usable at the given instant,
// keeping the safety margin before the reported expiry.
func (t Token) Valid(now time.Time, margin time.Duration) bool {
	return t.Value != "" && now.Before(t.ExpiresAt.Add(-margin))
}

// Broker is the capability both backends implement. Callers are written
// against this interface only; which variant serves a request is decided
// once by the resolver.
type Broker interface {
	// Token returns a valid access token, issuing one if needed.
	Token(ctx context.Context) (Token, error)

	// DailyQuotes returns OHLCV rows for the symbol within [from, to],
	// dates in YYYYMMDD format. Empty from/to means the full range the
	// upstream returns.
	DailyQuotes(ctx context.Context, symbol, from, to string) ([]quote.Quote, error)

	// LatestPrice returns the most recent price for the symbol in KRW.
	LatestPrice(ctx context.Context, symbol string) (int64, error)

	// PlaceOrder submits the lines as-is and reports per-line results.
	PlaceOrder(ctx context.Context, lines []order.Line) (*order.Result, error)
}
