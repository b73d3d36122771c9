package billing

import (
	"pharmapos/domain"
	"pharmapos/internal/catalog"
)

// Suggestion is one matching catalog row with its quantity stepper.
type Suggestion struct {
	Medicine domain.Medicine
	Quantity int64
}

// Suggestions filters the catalog by a query and feeds picked rows into the
// bill.
type Suggestions struct {
	catalog *catalog.Cache
	bill    *Bill
	query   string
	rows    []Suggestion
}

func NewSuggestions(c *catalog.Cache, b *Bill) *Suggestions {
	return &Suggestions{catalog: c, bill: b}
}

// Show replaces the rows with every catalog match for query; each stepper
// starts at 1.
func (s *Suggestions) Show(query string) []Suggestion {
	s.query = query
	matches := s.catalog.Filter(query)
	s.rows = make([]Suggestion, len(matches))
	for i, m := range matches {
		s.rows[i] = Suggestion{Medicine: m, Quantity: 1}
	}
	return s.Rows()
}

// Rows returns the rows currently shown.
func (s *Suggestions) Rows() []Suggestion {
	out := make([]Suggestion, len(s.rows))
	copy(out, s.rows)
	return out
}

func (s *Suggestions) Query() string {
	return s.query
}

// SetQuantity sets the stepper of the row at index i from raw operator input.
func (s *Suggestions) SetQuantity(i int, raw string) bool {
	if i < 0 || i >= len(s.rows) {
		return false
	}
	s.rows[i].Quantity = ParseQuantity(raw)
	return true
}

// Add puts the row at index i on the bill with its stepper quantity, then
// clears the query and the rows.
func (s *Suggestions) Add(i int) bool {
	if i < 0 || i >= len(s.rows) {
		return false
	}
	row := s.rows[i]
	s.bill.AddOrIncrement(row.Medicine, row.Quantity)
	s.Clear()
	return true
}

func (s *Suggestions) Clear() {
	s.query = ""
	s.rows = nil
}
