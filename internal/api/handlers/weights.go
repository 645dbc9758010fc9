package handlers

import (
	"net/http"

	"github.com/wonny/kisfolio/internal/api/response"
	"github.com/wonny/kisfolio/internal/domain/portfolio"
	"github.com/wonny/kisfolio/internal/service/quotes"
	"github.com/wonny/kisfolio/internal/service/weights"
)

// WeightsHandler computes recommended portfolio weightings.
type WeightsHandler struct {
	engine *weights.Engine
	quotes *quotes.Service
}

// NewWeightsHandler creates a new WeightsHandler
func NewWeightsHandler(engine *weights.Engine, quotes *quotes.Service) *WeightsHandler {
	return &WeightsHandler{engine: engine, quotes: quotes}
}

// ComputeWeights allocates weights across the requested symbols. The
// latest prices feed the per-item limit price hints.
// POST /api/portfolio/weights
func (h *WeightsHandler) ComputeWeights(w http.ResponseWriter, r *http.Request) {
	var req portfolio.WeightRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	symbols := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		symbols = append(symbols, item.Symbol)
	}

	prices, err := h.quotes.LatestAll(r.Context(), symbols)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	result, err := h.engine.Compute(req, prices)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.Success(w, r, result)
}
