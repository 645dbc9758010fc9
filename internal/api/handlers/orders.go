package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/wonny/kisfolio/internal/api/response"
	"github.com/wonny/kisfolio/internal/domain/order"
	"github.com/wonny/kisfolio/internal/domain/portfolio"
	"github.com/wonny/kisfolio/internal/service/holdings"
	"github.com/wonny/kisfolio/internal/service/planner"
	"github.com/wonny/kisfolio/internal/service/quotes"
	"github.com/wonny/kisfolio/internal/service/weights"
)

// OrdersHandler previews and executes rebalancing orders.
type OrdersHandler struct {
	planner *planner.Planner
	engine  *weights.Engine
	quotes  *quotes.Service
	book    *holdings.Book
}

// NewOrdersHandler creates a new OrdersHandler
func NewOrdersHandler(p *planner.Planner, engine *weights.Engine, quotes *quotes.Service, book *holdings.Book) *OrdersHandler {
	return &OrdersHandler{planner: p, engine: engine, quotes: quotes, book: book}
}

// PreviewRequest asks for an order preview. Explicit weights win; with
// none given the weighting engine equal-weights the symbols.
type PreviewRequest struct {
	Symbols   []string           `json:"symbols" validate:"required,min=1"`
	Weights   map[string]float64 `json:"weights,omitempty"`
	TotalCash decimal.Decimal    `json:"total_cash"`
}

// Preview computes the order lines for the requested weighting against
// current holdings and latest prices.
// POST /api/orders/preview
func (h *OrdersHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	targetWeights := req.Weights
	if len(targetWeights) == 0 {
		items := make([]portfolio.Item, 0, len(req.Symbols))
		for _, symbol := range req.Symbols {
			items = append(items, portfolio.Item{Symbol: symbol})
		}
		result, err := h.engine.Compute(portfolio.WeightRequest{Items: items, TotalCash: req.TotalCash}, nil)
		if err != nil {
			response.FromError(w, r, err)
			return
		}
		targetWeights = result.Weights()
	}

	prices, err := h.quotes.LatestAll(r.Context(), req.Symbols)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	preview, err := h.planner.Preview(targetWeights, h.book.Quantities(), req.TotalCash, prices)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.Success(w, r, preview)
}

// Execute dispatches an approved preview as-is. Prices are not
// recomputed; drift since preview is accepted.
// POST /api/orders/execute
func (h *OrdersHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var preview order.Preview
	if err := decodeJSON(r, &preview); err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	result, err := h.planner.Execute(r.Context(), &preview)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	// Executed fills flow into the in-memory book: buys accumulate,
	// sells reduce.
	for _, line := range result.Lines {
		if !line.Status.Executed() {
			continue
		}
		switch line.Side {
		case order.SideBuy:
			h.book.Record(line.Symbol, line.Qty, line.Price, "", "")
		case order.SideSell:
			h.book.Reduce(line.Symbol, line.Qty)
		}
	}

	response.Success(w, r, result)
}
