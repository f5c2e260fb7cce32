package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-assistant/internal/api/middleware"
	"github.com/dvloznov/finance-assistant/internal/metrics"
)

// Query defaults for the summary endpoints.
const (
	defaultTopMerchants = 5
	defaultTopExpenses  = 3
)

// SummaryHandler serves the aggregate views of the current dataset.
type SummaryHandler struct {
	engine *metrics.Engine
	log    zerolog.Logger
}

// NewSummaryHandler creates a new summary handler.
func NewSummaryHandler(engine *metrics.Engine, log zerolog.Logger) *SummaryHandler {
	return &SummaryHandler{
		engine: engine,
		log:    log,
	}
}

// ByCategory handles GET /summary/by-category
func (h *SummaryHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, h.engine.SpendByCategory())
}

// TopMerchants handles GET /summary/top-merchants?n=5
func (h *SummaryHandler) TopMerchants(w http.ResponseWriter, r *http.Request) {
	n, err := intParam(r, "n", defaultTopMerchants)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	middleware.WriteJSON(w, http.StatusOK, h.engine.TopMerchants(n))
}

// MonthlyTotals handles GET /summary/monthly-totals
func (h *SummaryHandler) MonthlyTotals(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, h.engine.MonthlyTotals())
}

// TopExpensesWeek handles GET /summary/top-expenses-week?k=3
func (h *SummaryHandler) TopExpensesWeek(w http.ResponseWriter, r *http.Request) {
	k, err := intParam(r, "k", defaultTopExpenses)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	middleware.WriteJSON(w, http.StatusOK, h.engine.LatestWeekTopExpenses(k))
}

// DailyTotals handles GET /summary/daily-totals
func (h *SummaryHandler) DailyTotals(w http.ResponseWriter, r *http.Request) {
	totals := h.engine.DailyTotals()
	// Return array directly for frontend compatibility
	if totals == nil {
		totals = []metrics.DailyTotal{}
	}
	middleware.WriteJSON(w, http.StatusOK, totals)
}

// FastestGrowing handles GET /summary/fastest-growing
func (h *SummaryHandler) FastestGrowing(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, h.engine.FastestGrowingCategory())
}

func intParam(r *http.Request, name string, defaultValue int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s '%s': must be an integer", name, raw)
	}
	return v, nil
}
