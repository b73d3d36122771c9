// Package sales submits bills and reads back the sale history.
package sales

import (
	"context"
	"errors"
	"log"

	"pharmapos/domain"
	"pharmapos/internal/billing"
	"pharmapos/internal/nav"
)

// ErrEmptyBill is returned when finalizing a bill with no lines.
var ErrEmptyBill = errors.New("No items in bill")

type Creator interface {
	CreateSale(ctx context.Context, req domain.SaleRequest) (int64, error)
}

// Refresher reloads data that a sale changes, such as the catalog stock or
// the dashboard KPIs.
type Refresher func(ctx context.Context) error

// Submitter turns the bill into a sale.
type Submitter struct {
	creator   Creator
	bill      *billing.Bill
	nav       nav.Navigator
	refreshes []Refresher
	logger    *log.Logger
}

func NewSubmitter(c Creator, b *billing.Bill, n nav.Navigator, logger *log.Logger, refreshes ...Refresher) *Submitter {
	return &Submitter{creator: c, bill: b, nav: n, refreshes: refreshes, logger: logger}
}

// Finalize submits the bill for customerName. On success the bill is
// emptied, stale data is refetched and the sales route is opened with the new
// sale marked for printing. On failure the bill is left as it was.
func (s *Submitter) Finalize(ctx context.Context, customerName string) (int64, error) {
	if s.bill.Empty() {
		return 0, ErrEmptyBill
	}
	saleID, err := s.creator.CreateSale(ctx, s.bill.SaleRequest(customerName))
	if err != nil {
		return 0, err
	}

	s.bill.Clear()
	for _, refresh := range s.refreshes {
		if err := refresh(ctx); err != nil {
			s.logger.Printf("refresh after sale %d failed: %v", saleID, err)
		}
	}
	s.nav.Navigate(nav.PrintSale(saleID))
	return saleID, nil
}
