package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/wonny/kisfolio/internal/api/response"
	"github.com/wonny/kisfolio/internal/service/holdings"
	"github.com/wonny/kisfolio/internal/service/quotes"
	"github.com/wonny/kisfolio/internal/service/scenario"
)

// ScenarioHandler plans and executes preset entry scenarios.
type ScenarioHandler struct {
	scenarios *scenario.Service
	quotes    *quotes.Service
	book      *holdings.Book
}

// NewScenarioHandler creates a new ScenarioHandler
func NewScenarioHandler(scenarios *scenario.Service, quotes *quotes.Service, book *holdings.Book) *ScenarioHandler {
	return &ScenarioHandler{scenarios: scenarios, quotes: quotes, book: book}
}

// ScenarioRequest asks for a scenario order plan for one symbol.
type ScenarioRequest struct {
	Symbol    string          `json:"symbol" validate:"required"`
	TotalCash decimal.Decimal `json:"total_cash"`
	Scenario  scenario.Type   `json:"scenario" validate:"required"`
	Reason    string          `json:"reason"`
}

// Preview builds the tranche plan off the symbol's latest price.
// POST /api/scenario/preview
func (h *ScenarioHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req ScenarioRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	price, err := h.quotes.Latest(r.Context(), req.Symbol)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	plan, err := h.scenarios.Plan(req.Symbol, req.TotalCash, req.Scenario, req.Reason, price)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.Success(w, r, plan)
}

// Execute dispatches a previously previewed plan and records the
// resulting fills into the holdings book.
// POST /api/scenario/execute
func (h *ScenarioHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var plan scenario.Plan
	if err := decodeJSON(r, &plan); err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	result, err := h.scenarios.Execute(r.Context(), &plan)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	for _, line := range result.Lines {
		if line.Status.Executed() {
			h.book.Record(line.Symbol, line.Qty, line.Price, string(plan.Scenario), plan.Reason)
		}
	}

	response.Success(w, r, result)
}
