package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/zuraxy/delivery-warehouse/pkg/apperrors"
	"github.com/zuraxy/delivery-warehouse/pkg/reporting"
)

// QueryRunner executes catalog queries. Satisfied by *reporting.Executor.
type QueryRunner interface {
	Run(ctx context.Context, name string, args []any) (*reporting.Result, error)
}

// ReportHandler serves the warehouse report endpoints.
type ReportHandler struct {
	runner QueryRunner
	logger *zap.Logger
}

// NewReportHandler creates a ReportHandler.
func NewReportHandler(runner QueryRunner, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{runner: runner, logger: logger}
}

// RegisterRoutes registers the report endpoints on the given mux.
func (h *ReportHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /query1", h.Query1)
	mux.HandleFunc("GET /query2", h.Query2)
	mux.HandleFunc("GET /query3", h.Query3)
	mux.HandleFunc("GET /query4", h.Query4)
	mux.HandleFunc("GET /query5", h.Query5)
	mux.HandleFunc("GET /query6", h.Query6)
	mux.HandleFunc("GET /query7", h.Query7)
}

// Query1 handles GET /query1 - revenue rollup by granularity.
func (h *ReportHandler) Query1(w http.ResponseWriter, r *http.Request) {
	args := []any{
		textParamDefault(r, "start", "2024-01-01"),
		textParamDefault(r, "end", "2024-12-31"),
		textParam(r, "category"),
		textParamDefault(r, "granularity", "month"),
	}
	h.run(w, r, "query1", args)
}

// Query2 handles GET /query2 - customer distribution rollup.
func (h *ReportHandler) Query2(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "query2", nil)
}

// Query3 handles GET /query3 - top N products by revenue.
func (h *ReportHandler) Query3(w http.ResponseWriter, r *http.Request) {
	n, err := intParamDefault(r, "no", 100)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	args := []any{
		n,
		textParam(r, "country"),
		textParam(r, "city"),
		textParam(r, "category"),
	}
	h.run(w, r, "query3", args)
}

// Query4 handles GET /query4 - 3-month moving average.
func (h *ReportHandler) Query4(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "query4", []any{textParam(r, "country")})
}

// Query5 handles GET /query5 - rider delivery rankings.
func (h *ReportHandler) Query5(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "query5", []any{textParam(r, "country")})
}

// Query6 handles GET /query6 - deliveries by vehicle type.
func (h *ReportHandler) Query6(w http.ResponseWriter, r *http.Request) {
	year, err := intParam(r, "year")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	month, err := intParam(r, "month")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.run(w, r, "query6", []any{year, month})
}

// Query7 handles GET /query7 - top-percentile riders by sales.
func (h *ReportHandler) Query7(w http.ResponseWriter, r *http.Request) {
	percentile, err := intParamDefault(r, "percentile", 80)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	year, err := intParam(r, "year")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	quarter, err := intParam(r, "quarter")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	args := []any{
		textParam(r, "country"),
		textParam(r, "city"),
		textParam(r, "category"),
		percentile,
		year,
		quarter,
	}
	h.run(w, r, "query7", args)
}

func (h *ReportHandler) run(w http.ResponseWriter, r *http.Request, name string, args []any) {
	result, err := h.runner.Run(r.Context(), name, args)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnknownQuery) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("Report query failed", zap.String("query", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}
