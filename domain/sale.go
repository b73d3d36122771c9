package domain

import "github.com/shopspring/decimal"

type SaleHeader struct {
	ID           int64           `db:"id" json:"id"`
	CustomerName string          `db:"customer_name" json:"customer_name"`
	SaleDate     string          `db:"sale_date" json:"sale_date"`
	TotalAmount  decimal.Decimal `db:"total_amount" json:"total_amount"`
}

type SaleItem struct {
	ID           int64           `db:"id" json:"id"`
	MedicineID   int64           `db:"medicine_id" json:"medicine_id"`
	MedicineName string          `db:"medicine_name" json:"medicine_name"`
	QuantitySold int64           `db:"quantity_sold" json:"quantity_sold"`
	PricePerItem decimal.Decimal `db:"price_per_item" json:"price_per_item"`
	LineTotal    decimal.Decimal `db:"line_total" json:"line_total"`
}

// SaleDetail is the payload of GET /api/sales/{id}.
type SaleDetail struct {
	Header SaleHeader `json:"header"`
	Items  []SaleItem `json:"items"`
}

type SaleLineRequest struct {
	MedicineID int64            `json:"medicine_id"`
	Quantity   int64            `json:"quantity"`
	Price      *decimal.Decimal `json:"price,omitempty"`
}

type SaleRequest struct {
	CustomerName string            `json:"customer_name"`
	Items        []SaleLineRequest `json:"items"`
}
