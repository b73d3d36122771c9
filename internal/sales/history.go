package sales

import (
	"context"

	"pharmapos/domain"
)

type Reader interface {
	Sales(ctx context.Context) ([]domain.SaleHeader, error)
	Sale(ctx context.Context, id int64) (domain.SaleDetail, error)
}

// History reads finalized sales. Sales are immutable once created, so
// nothing is cached.
type History struct {
	reader Reader
}

func NewHistory(r Reader) *History {
	return &History{reader: r}
}

// List returns sale headers, newest first as ordered by the backend.
func (h *History) List(ctx context.Context) ([]domain.SaleHeader, error) {
	return h.reader.Sales(ctx)
}

// Detail returns one sale with its line items.
func (h *History) Detail(ctx context.Context, id int64) (domain.SaleDetail, error) {
	return h.reader.Sale(ctx, id)
}
