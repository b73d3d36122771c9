package domain

import "github.com/shopspring/decimal"

// LowStockThreshold is the unit count at or below which a medicine counts as
// low stock on the dashboard.
const LowStockThreshold = 5

// Summary holds the dashboard KPIs served by GET /api/summary.
type Summary struct {
	TotalMedicines int64           `db:"total_medicines" json:"total_medicines"`
	TotalUnits     int64           `db:"total_units" json:"total_units"`
	LowStock       int64           `db:"low_stock" json:"low_stock"`
	SalesToday     decimal.Decimal `db:"sales_today" json:"sales_today"`
	SalesCount     int64           `db:"sales_count" json:"sales_count"`
}

type DashboardStats struct {
	TotalRevenue   decimal.Decimal `db:"total_revenue" json:"total_revenue"`
	LowStockCount  int64           `db:"low_stock_count" json:"low_stock_count"`
	TotalMedicines int64           `db:"total_medicines" json:"total_medicines"`
}
