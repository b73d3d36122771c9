package sales

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmapos/domain"
	"pharmapos/internal/billing"
	"pharmapos/internal/currency"
	"pharmapos/internal/nav"
)

type fakeCreator struct {
	id    int64
	err   error
	calls int
	last  domain.SaleRequest
}

func (f *fakeCreator) CreateSale(_ context.Context, req domain.SaleRequest) (int64, error) {
	f.calls++
	f.last = req
	return f.id, f.err
}

type recorder struct{ targets []string }

func (r *recorder) Navigate(target string) { r.targets = append(r.targets, target) }

var amoxicillin = domain.Medicine{ID: 3, Name: "Amoxicillin 250mg", Price: decimal.NewFromInt(22)}

func newSubmitter(c Creator, b *billing.Bill, refreshes ...Refresher) (*Submitter, *recorder) {
	rec := &recorder{}
	return NewSubmitter(c, b, rec, log.New(io.Discard, "", 0), refreshes...), rec
}

func TestFinalizeEmptyBillMakesNoRequest(t *testing.T) {
	creator := &fakeCreator{id: 1}
	s, rec := newSubmitter(creator, billing.New())

	_, err := s.Finalize(context.Background(), "Asha")
	require.ErrorIs(t, err, ErrEmptyBill)
	assert.Equal(t, "No items in bill", err.Error())
	assert.Zero(t, creator.calls)
	assert.Empty(t, rec.targets)
}

func TestFinalizeSuccessClearsBillAndNavigates(t *testing.T) {
	creator := &fakeCreator{id: 17}
	bill := billing.New()
	var rendered string
	bill.OnChange(func(b *billing.Bill) { rendered = currency.Format(b.GrandTotal()) })
	bill.AddOrIncrement(amoxicillin, 2)

	var refreshed []string
	s, rec := newSubmitter(creator, bill,
		func(context.Context) error { refreshed = append(refreshed, "catalog"); return nil },
		func(context.Context) error { refreshed = append(refreshed, "summary"); return errors.New("ignored") },
	)

	id, err := s.Finalize(context.Background(), "  Ravi ")
	require.NoError(t, err)
	assert.Equal(t, int64(17), id)
	assert.True(t, bill.Empty())
	assert.Equal(t, "₹0.00", rendered)
	assert.Equal(t, []string{"catalog", "summary"}, refreshed)
	assert.Equal(t, []string{nav.PrintSale(17)}, rec.targets)
	assert.Equal(t, "/static/sales.html#print=17", rec.targets[0])

	assert.Equal(t, "Ravi", creator.last.CustomerName)
	require.Len(t, creator.last.Items, 1)
	assert.Equal(t, int64(2), creator.last.Items[0].Quantity)
}

func TestFinalizeFailureLeavesBillUntouched(t *testing.T) {
	creator := &fakeCreator{err: errors.New("Insufficient stock for medicine id 3")}
	bill := billing.New()
	bill.AddOrIncrement(amoxicillin, 200)

	refreshed := false
	s, rec := newSubmitter(creator, bill, func(context.Context) error { refreshed = true; return nil })

	_, err := s.Finalize(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, 1, bill.Len())
	assert.Equal(t, int64(200), bill.Lines()[0].Quantity)
	assert.False(t, refreshed)
	assert.Empty(t, rec.targets)
}
