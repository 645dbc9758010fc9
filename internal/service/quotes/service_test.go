package quotes

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/kisfolio/internal/domain/broker"
	"github.com/wonny/kisfolio/internal/domain/order"
	"github.com/wonny/kisfolio/internal/domain/quote"
	"github.com/wonny/kisfolio/internal/pkg/config"
	"github.com/wonny/kisfolio/internal/service/brokerage"
)

// scriptedBroker returns canned results, consuming one error per call
// until the script runs out.
type scriptedBroker struct {
	dailyCalls  int
	dailyErrs   []error
	dailyQuotes []quote.Quote

	latestCalls int
	latestErr   error
	latestPrice int64
}

func (s *scriptedBroker) Token(context.Context) (broker.Token, error) {
	return broker.Token{Value: "scripted"}, nil
}

func (s *scriptedBroker) DailyQuotes(_ context.Context, symbol, _, _ string) ([]quote.Quote, error) {
	s.dailyCalls++
	if len(s.dailyErrs) > 0 {
		err := s.dailyErrs[0]
		s.dailyErrs = s.dailyErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return s.dailyQuotes, nil
}

func (s *scriptedBroker) LatestPrice(context.Context, string) (int64, error) {
	s.latestCalls++
	if s.latestErr != nil {
		return 0, s.latestErr
	}
	return s.latestPrice, nil
}

func (s *scriptedBroker) PlaceOrder(context.Context, []order.Line) (*order.Result, error) {
	return nil, errors.New("not scripted")
}

type stubFallback struct {
	price int64
	err   error
	calls int
}

func (f *stubFallback) LatestPrice(context.Context, string) (int64, error) {
	f.calls++
	return f.price, f.err
}

func realResolver(b broker.Broker) *brokerage.Resolver {
	cfg := config.KISConfig{Mode: "real", AppKey: "k", AppSecret: "s", Account: "12345678-01"}
	return brokerage.NewResolver(cfg, nil, b)
}

func mockResolver(b broker.Broker) *brokerage.Resolver {
	return brokerage.NewResolver(config.KISConfig{Mock: true}, b, nil)
}

func TestDailyRetriesTransientOnce(t *testing.T) {
	rows := []quote.Quote{{Symbol: "005930", Date: "20260102", Close: 70000}}
	b := &scriptedBroker{
		dailyErrs:   []error{&broker.UpstreamError{Err: errors.New("connection reset")}},
		dailyQuotes: rows,
	}
	s := NewService(realResolver(b), nil)

	quotes, err := s.Daily(context.Background(), "005930", "20260101", "20260131")
	require.NoError(t, err)
	assert.Equal(t, rows, quotes)
	assert.Equal(t, 2, b.dailyCalls)
}

func TestDailyAscendingRegardlessOfBackendOrder(t *testing.T) {
	// KIS hands back newest-first rows; the service presents ascending
	// dates so callers cannot tell which backend served them.
	b := &scriptedBroker{dailyQuotes: []quote.Quote{
		{Symbol: "005930", Date: "20260105", Close: 70500},
		{Symbol: "005930", Date: "20260102", Close: 70000},
		{Symbol: "005930", Date: "20251230", Close: 69000},
	}}
	s := NewService(realResolver(b), nil)

	quotes, err := s.Daily(context.Background(), "005930", "", "")
	require.NoError(t, err)
	require.Len(t, quotes, 3)
	assert.Equal(t, "20251230", quotes[0].Date)
	assert.Equal(t, "20260102", quotes[1].Date)
	assert.Equal(t, "20260105", quotes[2].Date)
}

func TestDailyTransientFailsAfterOneRetry(t *testing.T) {
	transportErr := &broker.UpstreamError{Err: errors.New("timeout")}
	b := &scriptedBroker{dailyErrs: []error{transportErr, transportErr}}
	s := NewService(realResolver(b), nil)

	_, err := s.Daily(context.Background(), "005930", "", "")
	var ue *broker.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, 2, b.dailyCalls, "exactly one retry")
}

func TestDailyNoRetryOnUpstreamRejection(t *testing.T) {
	// A non-2xx answer is a real upstream decision, not a transport blip.
	b := &scriptedBroker{
		dailyErrs: []error{&broker.UpstreamError{StatusCode: 500, Body: "server error"}},
	}
	s := NewService(realResolver(b), nil)

	_, err := s.Daily(context.Background(), "005930", "", "")
	require.Error(t, err)
	assert.Equal(t, 1, b.dailyCalls, "rejections are surfaced as-is")
}

func TestLatestFallback(t *testing.T) {
	t.Run("real mode falls back on failure", func(t *testing.T) {
		b := &scriptedBroker{latestErr: &broker.UpstreamError{StatusCode: 502}}
		fb := &stubFallback{price: 71000}
		s := NewService(realResolver(b), fb)

		price, err := s.Latest(context.Background(), "005930")
		require.NoError(t, err)
		assert.Equal(t, int64(71000), price)
		assert.Equal(t, 1, fb.calls)
	})

	t.Run("fallback unused on success", func(t *testing.T) {
		b := &scriptedBroker{latestPrice: 70000}
		fb := &stubFallback{price: 71000}
		s := NewService(realResolver(b), fb)

		price, err := s.Latest(context.Background(), "005930")
		require.NoError(t, err)
		assert.Equal(t, int64(70000), price)
		assert.Zero(t, fb.calls)
	})

	t.Run("fallback never fires in mock mode", func(t *testing.T) {
		b := &scriptedBroker{latestErr: &broker.UpstreamError{StatusCode: 502}}
		fb := &stubFallback{price: 71000}
		s := NewService(mockResolver(b), fb)

		_, err := s.Latest(context.Background(), "005930")
		require.Error(t, err)
		assert.Zero(t, fb.calls)
	})

	t.Run("both failing surfaces the primary error", func(t *testing.T) {
		primary := &broker.UpstreamError{StatusCode: 502, Body: "bad gateway"}
		b := &scriptedBroker{latestErr: primary}
		fb := &stubFallback{err: errors.New("fallback down")}
		s := NewService(realResolver(b), fb)

		_, err := s.Latest(context.Background(), "005930")
		var ue *broker.UpstreamError
		require.ErrorAs(t, err, &ue)
		assert.Equal(t, 502, ue.StatusCode)
	})
}

func TestLatestAll(t *testing.T) {
	b := &scriptedBroker{latestPrice: 70000}
	s := NewService(mockResolver(b), nil)

	prices, err := s.LatestAll(context.Background(), []string{"005930", "000660"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"005930": 70000, "000660": 70000}, prices)

	b.latestErr = &broker.UpstreamError{StatusCode: 500}
	_, err = s.LatestAll(context.Background(), []string{"005930"})
	assert.Error(t, err)
}

func TestDailyConfigError(t *testing.T) {
	// Real mode with no credentials fails before any backend call.
	cfg := config.KISConfig{Mode: "real"}
	b := &scriptedBroker{}
	s := NewService(brokerage.NewResolver(cfg, nil, b), nil)

	_, err := s.Daily(context.Background(), "005930", "", "")
	var cerr *broker.ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Zero(t, b.dailyCalls)
}
