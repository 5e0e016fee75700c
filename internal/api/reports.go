package api

import (
	"net/http"
	"time"
)

// CashFlowHandler serves GET /reports/cashflow?from&to. Bounds accept
// RFC3339 or bare dates; the default window is the current year.
func (h *Handler) CashFlowHandler(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	if v := r.URL.Query().Get("from"); v != "" {
		t, ok := parseTimeParam(v)
		if !ok {
			respondWithError(w, http.StatusBadRequest, "Invalid from date")
			return
		}
		from = t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, ok := parseTimeParam(v)
		if !ok {
			respondWithError(w, http.StatusBadRequest, "Invalid to date")
			return
		}
		to = t
	}

	report, err := h.billing.CashFlow(r.Context(), from, to)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, report)
}

func parseTimeParam(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
