package domain

import "github.com/shopspring/decimal"

// Medicine is one catalog record as served by GET /api/medicines.
type Medicine struct {
	ID           int64           `db:"id" json:"id"`
	Name         string          `db:"name" json:"name"`
	Manufacturer string          `db:"manufacturer" json:"manufacturer"`
	BatchNo      string          `db:"batch_no" json:"batch_no"`
	ExpiryDate   string          `db:"expiry_date" json:"expiry_date"`
	Quantity     int64           `db:"quantity" json:"quantity"`
	Price        decimal.Decimal `db:"price" json:"price"`
}

// MedicineInput is the add/edit payload; the id travels in the URL.
type MedicineInput struct {
	Name         string          `json:"name"`
	Manufacturer string          `json:"manufacturer"`
	BatchNo      string          `json:"batch_no"`
	ExpiryDate   string          `json:"expiry_date"`
	Quantity     int64           `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}

// Input strips the id from m.
func (m Medicine) Input() MedicineInput {
	return MedicineInput{
		Name:         m.Name,
		Manufacturer: m.Manufacturer,
		BatchNo:      m.BatchNo,
		ExpiryDate:   m.ExpiryDate,
		Quantity:     m.Quantity,
		Price:        m.Price,
	}
}

func init() {
	// The backend reads prices as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}
