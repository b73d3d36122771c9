package api

import (
	"net/http"
	"strings"

	"pharmapos/domain"
)

func (h *Handler) listMedicines(w http.ResponseWriter, r *http.Request) {
	medicines := []domain.Medicine{}
	if err := h.db.Select(&medicines, `SELECT id, name, manufacturer, batch_no, expiry_date, quantity, price FROM medicines ORDER BY name ASC`); err != nil {
		respondError(w, http.StatusInternalServerError, "Unable to load medicines")
		return
	}
	respondJSON(w, http.StatusOK, envelope{Success: true, Data: medicines})
}

// validMedicine trims the text fields and checks the required ones.
func validMedicine(in *domain.MedicineInput) string {
	in.Name = strings.TrimSpace(in.Name)
	in.Manufacturer = strings.TrimSpace(in.Manufacturer)
	in.BatchNo = strings.TrimSpace(in.BatchNo)
	in.ExpiryDate = strings.TrimSpace(in.ExpiryDate)
	switch {
	case in.Name == "":
		return "Name is required"
	case in.Quantity < 0:
		return "Quantity cannot be negative"
	case in.Price.IsNegative():
		return "Price cannot be negative"
	}
	return ""
}

func (h *Handler) addMedicine(w http.ResponseWriter, r *http.Request) {
	var in domain.MedicineInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := validMedicine(&in); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	price, _ := in.Price.Float64()
	res, err := h.db.Exec(`INSERT INTO medicines (name, manufacturer, batch_no, expiry_date, quantity, price) VALUES (?, ?, ?, ?, ?, ?)`,
		in.Name, in.Manufacturer, in.BatchNo, in.ExpiryDate, in.Quantity, price)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Unable to add medicine")
		return
	}
	id, _ := res.LastInsertId()
	respondJSON(w, http.StatusOK, envelope{Success: true, Message: "Medicine added", ID: id})
}

func (h *Handler) updateMedicine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid medicine id")
		return
	}
	var in domain.MedicineInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := validMedicine(&in); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	price, _ := in.Price.Float64()
	res, err := h.db.Exec(`UPDATE medicines SET name = ?, manufacturer = ?, batch_no = ?, expiry_date = ?, quantity = ?, price = ? WHERE id = ?`,
		in.Name, in.Manufacturer, in.BatchNo, in.ExpiryDate, in.Quantity, price, id)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Unable to update medicine")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		respondError(w, http.StatusNotFound, "Medicine not found")
		return
	}
	respondJSON(w, http.StatusOK, envelope{Success: true})
}

func (h *Handler) deleteMedicine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid medicine id")
		return
	}
	res, err := h.db.Exec(`DELETE FROM medicines WHERE id = ?`, id)
	if err != nil {
		// Sold medicines stay referenced by their sale items.
		respondError(w, http.StatusBadRequest, "Medicine has sales and cannot be deleted")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		respondError(w, http.StatusNotFound, "Medicine not found")
		return
	}
	respondJSON(w, http.StatusOK, envelope{Success: true})
}
