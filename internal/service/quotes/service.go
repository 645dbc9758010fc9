// Package quotes unifies the mock and real backends behind one daily
// quote operation, with the retry and fallback policy the backends
// themselves are not allowed to have.
package quotes

import (
	"context"
	"errors"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/wonny/kisfolio/internal/domain/broker"
	"github.com/wonny/kisfolio/internal/domain/quote"
	"github.com/wonny/kisfolio/internal/service/brokerage"
)

// Fallback is a price-only secondary source for the latest price.
type Fallback interface {
	LatestPrice(ctx context.Context, symbol string) (int64, error)
}

// Service fetches quotes through the resolved backend.
type Service struct {
	resolver *brokerage.Resolver
	fallback Fallback // optional; real mode only
}

// NewService creates a quote service. fallback may be nil.
func NewService(resolver *brokerage.Resolver, fallback Fallback) *Service {
	return &Service{resolver: resolver, fallback: fallback}
}

// Daily returns the OHLCV rows for a symbol within [from, to]. The
// fetch is idempotent, so one retry is allowed on a transient transport
// failure; upstream rejections are surfaced as-is.
func (s *Service) Daily(ctx context.Context, symbol, from, to string) ([]quote.Quote, error) {
	_, b, err := s.resolver.Resolve()
	if err != nil {
		return nil, err
	}

	quotes, err := b.DailyQuotes(ctx, symbol, from, to)
	if err != nil && transient(err) {
		log.Debug().Str("symbol", symbol).Err(err).Msg("retrying transient quote fetch")
		quotes, err = b.DailyQuotes(ctx, symbol, from, to)
	}
	if err != nil {
		return nil, err
	}

	// KIS returns newest-first; callers always see ascending dates, no
	// matter which backend served them.
	sort.Slice(quotes, func(i, j int) bool { return quotes[i].Date < quotes[j].Date })
	return quotes, nil
}

// Latest returns the most recent price for a symbol. In real mode a
// failed KIS lookup falls back to the secondary source; orders are
// never placed off the fallback price path.
func (s *Service) Latest(ctx context.Context, symbol string) (int64, error) {
	mode, b, err := s.resolver.Resolve()
	if err != nil {
		return 0, err
	}

	price, err := b.LatestPrice(ctx, symbol)
	if err == nil {
		return price, nil
	}

	if mode == broker.ModeReal && s.fallback != nil {
		if fbPrice, fbErr := s.fallback.LatestPrice(ctx, symbol); fbErr == nil {
			log.Warn().Str("symbol", symbol).Err(err).Msg("KIS price failed, served from fallback")
			return fbPrice, nil
		}
	}
	return 0, err
}

// LatestAll resolves prices for every symbol, failing on the first
// symbol that cannot be priced.
func (s *Service) LatestAll(ctx context.Context, symbols []string) (map[string]int64, error) {
	prices := make(map[string]int64, len(symbols))
	for _, symbol := range symbols {
		price, err := s.Latest(ctx, symbol)
		if err != nil {
			return nil, err
		}
		prices[symbol] = price
	}
	return prices, nil
}

func transient(err error) bool {
	var ue *broker.UpstreamError
	return errors.As(err, &ue) && ue.Transient()
}
