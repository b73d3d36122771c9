package api

import (
	"net/http"

	"pharmapos/domain"
)

// reorderLevel is the stricter "below ten units" count used by the
// dashboard-stats endpoint.
const reorderLevel = 10

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	var s domain.Summary
	today := h.now().UTC().Format("2006-01-02")
	err := h.db.QueryRowx(`SELECT
                (SELECT COUNT(*) FROM medicines) AS total_medicines,
                (SELECT COALESCE(SUM(quantity), 0) FROM medicines) AS total_units,
                (SELECT COUNT(*) FROM medicines WHERE quantity <= ?) AS low_stock,
                (SELECT COALESCE(SUM(total_amount), 0) FROM sales WHERE substr(sale_date, 1, 10) = ?) AS sales_today,
                (SELECT COUNT(*) FROM sales) AS sales_count`,
		domain.LowStockThreshold, today).StructScan(&s)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Unable to load summary")
		return
	}
	respondJSON(w, http.StatusOK, envelope{Success: true, Data: s})
}

func (h *Handler) dashboardStats(w http.ResponseWriter, r *http.Request) {
	var s domain.DashboardStats
	err := h.db.QueryRowx(`SELECT
                (SELECT COALESCE(SUM(total_amount), 0) FROM sales) AS total_revenue,
                (SELECT COUNT(*) FROM medicines WHERE quantity < ?) AS low_stock_count,
                (SELECT COUNT(*) FROM medicines) AS total_medicines`,
		reorderLevel).StructScan(&s)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Unable to load dashboard stats")
		return
	}
	respondJSON(w, http.StatusOK, envelope{Success: true, Data: s})
}
