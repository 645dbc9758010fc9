// Package report turns the holdings book into a textual investment
// report, one symbol or the whole portfolio. With a generator wired the
// summary is rewritten by a language model; without one, or when the
// model call fails, the plain summary is the report.
package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/wonny/kisfolio/internal/service/holdings"
)

// promptHeader asks the model for a portfolio write-up in Korean.
const promptHeader = "아래 투자 포트폴리오 정보를 바탕으로 투자 보고서를 작성해 주세요. " +
	"종목별 투자 이유와 시나리오를 요약하고 향후 전망과 리스크 요인도 함께 서술해 주세요."

// PriceSource supplies latest prices for valuation.
type PriceSource interface {
	Latest(ctx context.Context, symbol string) (int64, error)
}

// Generator produces the report text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service builds investment reports over the holdings book.
type Service struct {
	book   *holdings.Book
	prices PriceSource
	gen    Generator // nil means summary-only reports
}

// NewService creates a report service. gen may be nil.
func NewService(book *holdings.Book, prices PriceSource, gen Generator) *Service {
	return &Service{book: book, prices: prices, gen: gen}
}

// Build generates the report. An empty symbol covers the whole
// portfolio; a symbol not in the book is a NotFoundError. Price lookup
// failures value the position at zero rather than failing the report.
func (s *Service) Build(ctx context.Context, symbol string) (string, error) {
	positions := s.book.Positions()
	if symbol != "" {
		filtered := positions[:0]
		for _, pos := range positions {
			if pos.Symbol == symbol {
				filtered = append(filtered, pos)
			}
		}
		if len(filtered) == 0 {
			return "", &NotFoundError{Symbol: symbol}
		}
		positions = filtered
	}

	lines := make([]string, 0, len(positions))
	total := decimal.Zero
	for _, pos := range positions {
		var price int64
		if p, err := s.prices.Latest(ctx, pos.Symbol); err == nil {
			price = p
		}
		value := decimal.NewFromInt(price).Mul(decimal.NewFromInt(pos.Quantity))
		total = total.Add(value)

		lines = append(lines, fmt.Sprintf(
			"종목 %s: 보유수량 %d주, 평균매수가 %s원, 현재가 %d원, 시나리오 %s, 매매이유 %s, 평가금액 %s원",
			pos.Symbol, pos.Quantity, pos.AvgPrice, price,
			orDash(pos.Scenario), orDash(pos.Reason), value,
		))
	}
	summary := fmt.Sprintf("총 평가금액: %s원", total)

	plain := strings.Join(append(lines, summary), "\n")
	if s.gen == nil {
		return plain, nil
	}

	prompt := promptHeader + "\n\n" + plain
	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("report generation failed, serving plain summary")
		return plain, nil
	}
	return text, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
