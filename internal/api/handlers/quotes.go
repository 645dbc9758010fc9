package handlers

import (
	"net/http"

	"github.com/wonny/kisfolio/internal/api/response"
	"github.com/wonny/kisfolio/internal/service/quotes"
)

// QuotesHandler serves daily quote queries.
type QuotesHandler struct {
	quotes *quotes.Service
}

// NewQuotesHandler creates a new QuotesHandler
func NewQuotesHandler(quotes *quotes.Service) *QuotesHandler {
	return &QuotesHandler{quotes: quotes}
}

// GetDaily returns OHLCV rows for a symbol and date range.
// GET /api/quotes/daily?symbol=005930&from=20250101&to=20250131
func (h *QuotesHandler) GetDaily(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		response.BadRequest(w, r, "symbol query parameter is required")
		return
	}
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	rows, err := h.quotes.Daily(r.Context(), symbol, from, to)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.SuccessList(w, r, rows, len(rows))
}
