package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"pharmapos/domain"
)

// saleDateLayout matches the timestamps already stored by earlier versions
// of the store.
const saleDateLayout = "2006-01-02T15:04:05.000000"

type saleLine struct {
	MedicineID   int64            `json:"medicine_id"`
	ID           int64            `json:"id"`
	Quantity     int64            `json:"quantity"`
	QuantitySold int64            `json:"quantity_sold"`
	Price        *decimal.Decimal `json:"price"`
}

type createSaleRequest struct {
	CustomerName string     `json:"customer_name"`
	Items        []saleLine `json:"items"`
	SaleItems    []saleLine `json:"sale_items"`
}

// saleError is a rejected sale; its message goes back to the client.
type saleError struct{ msg string }

func (e saleError) Error() string { return e.msg }

type resolvedLine struct {
	medicineID int64
	quantity   int64
	price      decimal.Decimal
}

func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	var req createSaleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	lines := req.Items
	if len(lines) == 0 {
		lines = req.SaleItems
	}
	if len(lines) == 0 {
		respondError(w, http.StatusBadRequest, "No items in sale")
		return
	}

	saleID, err := h.recordSale(strings.TrimSpace(req.CustomerName), lines)
	var rejected saleError
	if errors.As(err, &rejected) {
		respondError(w, http.StatusBadRequest, rejected.msg)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Unable to record sale")
		return
	}
	respondJSON(w, http.StatusOK, envelope{Success: true, Message: "Sale recorded", SaleID: saleID})
}

// recordSale checks every line against current stock, then writes the sale
// and decrements stock in one transaction. A line without a price sells at
// the medicine's current price.
func (h *Handler) recordSale(customer string, lines []saleLine) (int64, error) {
	tx, err := h.db.Beginx()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	type stockRow struct {
		ID       int64           `db:"id"`
		Quantity int64           `db:"quantity"`
		Price    decimal.Decimal `db:"price"`
	}

	total := decimal.Zero
	resolved := make([]resolvedLine, 0, len(lines))
	pending := make(map[int64]int64)
	for _, line := range lines {
		medicineID := line.MedicineID
		if medicineID == 0 {
			medicineID = line.ID
		}
		qty := line.Quantity
		if qty == 0 {
			qty = line.QuantitySold
		}
		if qty <= 0 {
			return 0, saleError{"Quantity must be greater than zero"}
		}

		var row stockRow
		err := tx.Get(&row, `SELECT id, quantity, price FROM medicines WHERE id = ?`, medicineID)
		if errors.Is(err, sql.ErrNoRows) {
			return 0, saleError{fmt.Sprintf("Medicine with id %d not found", medicineID)}
		}
		if err != nil {
			return 0, err
		}
		pending[medicineID] += qty
		if row.Quantity < pending[medicineID] {
			return 0, saleError{fmt.Sprintf("Insufficient stock for medicine id %d", medicineID)}
		}

		price := row.Price
		if line.Price != nil {
			price = *line.Price
		}
		total = total.Add(price.Mul(decimal.NewFromInt(qty)))
		resolved = append(resolved, resolvedLine{medicineID: medicineID, quantity: qty, price: price})
	}

	totalAmount, _ := total.Float64()
	res, err := tx.Exec(`INSERT INTO sales (customer_name, sale_date, total_amount) VALUES (?, ?, ?)`,
		customer, h.now().UTC().Format(saleDateLayout), totalAmount)
	if err != nil {
		return 0, err
	}
	saleID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, line := range resolved {
		price, _ := line.price.Float64()
		if _, err := tx.Exec(`INSERT INTO sale_items (sale_id, medicine_id, quantity_sold, price_per_item) VALUES (?, ?, ?, ?)`,
			saleID, line.medicineID, line.quantity, price); err != nil {
			return 0, err
		}
		if _, err := tx.Exec(`UPDATE medicines SET quantity = quantity - ? WHERE id = ?`, line.quantity, line.medicineID); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return saleID, nil
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	sales := []domain.SaleHeader{}
	if err := h.db.Select(&sales, `SELECT id, customer_name, sale_date, total_amount FROM sales ORDER BY sale_date DESC, id DESC`); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to get sales")
		return
	}
	respondJSON(w, http.StatusOK, envelope{Success: true, Data: sales})
}

func (h *Handler) saleDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid sale id")
		return
	}

	var detail domain.SaleDetail
	err := h.db.Get(&detail.Header, `SELECT id, customer_name, sale_date, total_amount FROM sales WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusNotFound, "Sale not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load sale")
		return
	}

	detail.Items = []domain.SaleItem{}
	if err := h.db.Select(&detail.Items, `SELECT si.id, si.medicine_id, m.name AS medicine_name, si.quantity_sold, si.price_per_item,
                (si.quantity_sold * si.price_per_item) AS line_total
                FROM sale_items si
                JOIN medicines m ON m.id = si.medicine_id
                WHERE si.sale_id = ?
                ORDER BY si.id ASC`, id); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load sale")
		return
	}
	respondJSON(w, http.StatusOK, envelope{Success: true, Data: detail})
}
