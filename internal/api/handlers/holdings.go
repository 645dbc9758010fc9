package handlers

import (
	"net/http"

	"github.com/wonny/kisfolio/internal/api/response"
	"github.com/wonny/kisfolio/internal/service/holdings"
	"github.com/wonny/kisfolio/internal/service/quotes"
)

// HoldingsHandler reports the in-memory position book.
type HoldingsHandler struct {
	book   *holdings.Book
	quotes *quotes.Service
}

// NewHoldingsHandler creates a new HoldingsHandler
func NewHoldingsHandler(book *holdings.Book, quotes *quotes.Service) *HoldingsHandler {
	return &HoldingsHandler{book: book, quotes: quotes}
}

// GetHoldings values every position at the latest price and reports
// the sector distribution.
// GET /api/holdings
func (h *HoldingsHandler) GetHoldings(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.book.Snapshot(r.Context(), h.quotes)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.Success(w, r, snapshot)
}
