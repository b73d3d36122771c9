// Package billing builds the in-memory bill of one point-of-sale transaction.
package billing

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"pharmapos/domain"
)

// Line is one medicine on the bill. MedicineID is unique within a bill.
type Line struct {
	MedicineID int64
	Name       string
	Price      decimal.Decimal
	Quantity   int64
}

// Total is quantity × price.
func (l Line) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(l.Quantity))
}

// Bill is an ordered list of lines. Every mutation is followed by a call to
// the render hook so the bill view can be redrawn in full. A Bill is not safe
// for concurrent use.
type Bill struct {
	lines  []Line
	render func(*Bill)
}

func New() *Bill {
	return &Bill{}
}

// OnChange registers the hook invoked after every mutation.
func (b *Bill) OnChange(fn func(*Bill)) {
	b.render = fn
}

func (b *Bill) changed() {
	if b.render != nil {
		b.render(b)
	}
}

// AddOrIncrement adds qty of m, merging with an existing line for the same
// medicine. Stock is not checked. A qty below 1 counts as 1.
func (b *Bill) AddOrIncrement(m domain.Medicine, qty int64) {
	if qty < 1 {
		qty = 1
	}
	if i := b.index(m.ID); i >= 0 {
		b.lines[i].Quantity += qty
	} else {
		b.lines = append(b.lines, Line{
			MedicineID: m.ID,
			Name:       m.Name,
			Price:      m.Price,
			Quantity:   qty,
		})
	}
	b.changed()
}

// ChangeQuantity applies delta to the line for id. A line whose quantity
// drops to zero or below is removed. Unknown ids are ignored.
func (b *Bill) ChangeQuantity(id int64, delta int64) {
	i := b.index(id)
	if i < 0 {
		return
	}
	b.lines[i].Quantity += delta
	if b.lines[i].Quantity <= 0 {
		b.Remove(id)
		return
	}
	b.changed()
}

// Remove drops the line for id.
func (b *Bill) Remove(id int64) {
	kept := b.lines[:0]
	for _, l := range b.lines {
		if l.MedicineID != id {
			kept = append(kept, l)
		}
	}
	b.lines = kept
	b.changed()
}

// Clear empties the bill.
func (b *Bill) Clear() {
	b.lines = nil
	b.changed()
}

// GrandTotal sums every line total.
func (b *Bill) GrandTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range b.lines {
		total = total.Add(l.Total())
	}
	return total
}

// Lines returns a copy of the lines in insertion order.
func (b *Bill) Lines() []Line {
	out := make([]Line, len(b.lines))
	copy(out, b.lines)
	return out
}

func (b *Bill) Len() int {
	return len(b.lines)
}

func (b *Bill) Empty() bool {
	return len(b.lines) == 0
}

// SaleRequest serializes the bill for POST /api/sales/create.
func (b *Bill) SaleRequest(customerName string) domain.SaleRequest {
	req := domain.SaleRequest{
		CustomerName: strings.TrimSpace(customerName),
		Items:        make([]domain.SaleLineRequest, 0, len(b.lines)),
	}
	for _, l := range b.lines {
		price := l.Price
		req.Items = append(req.Items, domain.SaleLineRequest{
			MedicineID: l.MedicineID,
			Quantity:   l.Quantity,
			Price:      &price,
		})
	}
	return req
}

func (b *Bill) index(id int64) int {
	for i, l := range b.lines {
		if l.MedicineID == id {
			return i
		}
	}
	return -1
}

// ParseQuantity reads a quantity typed by the operator. Anything that is not
// a positive integer becomes 1.
func ParseQuantity(raw string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
