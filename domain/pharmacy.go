package domain

// Pharmacy is the store identity printed at the top of receipts.
type Pharmacy struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}
