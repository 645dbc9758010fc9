package handlers

import (
	"errors"
	"net/http"

	"github.com/wonny/kisfolio/internal/api/response"
	"github.com/wonny/kisfolio/internal/service/report"
)

// ReportHandler generates textual investment reports.
type ReportHandler struct {
	reports *report.Service
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports *report.Service) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// ReportRequest asks for a report. An empty symbol covers the whole
// portfolio.
type ReportRequest struct {
	Symbol string `json:"symbol"`
}

// ReportResponse wraps the generated report text.
type ReportResponse struct {
	Report string `json:"report"`
}

// Generate builds the report from the holdings book and latest prices.
// POST /api/report
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	text, err := h.reports.Build(r.Context(), req.Symbol)
	if err != nil {
		var notFound *report.NotFoundError
		if errors.As(err, &notFound) {
			response.Error(w, r, http.StatusNotFound, response.ErrCodeNotFound, notFound.Error())
			return
		}
		response.FromError(w, r, err)
		return
	}

	response.Success(w, r, ReportResponse{Report: text})
}
