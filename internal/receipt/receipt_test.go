package receipt

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmapos/domain"
)

var pharmacy = domain.Pharmacy{Name: "Pharmacy Management System"}

func sampleSale() domain.SaleDetail {
	return domain.SaleDetail{
		Header: domain.SaleHeader{
			ID:          12,
			SaleDate:    "2026-10-18T09:30:05.123456",
			TotalAmount: decimal.RequireFromString("45"),
		},
		Items: []domain.SaleItem{
			{MedicineName: "Paracetamol 500mg", QuantitySold: 2, PricePerItem: decimal.RequireFromString("12.5"), LineTotal: decimal.NewFromInt(25)},
			{MedicineName: "Ibuprofen <400mg>", QuantitySold: 2, PricePerItem: decimal.NewFromInt(10), LineTotal: decimal.NewFromInt(20)},
		},
	}
}

func TestBuild(t *testing.T) {
	doc, err := Build(pharmacy, sampleSale())
	require.NoError(t, err)
	html := string(doc.HTML)

	assert.Equal(t, int64(12), doc.SaleID)
	assert.Equal(t, "Bill #12", doc.Title)
	assert.Contains(t, html, "<title>Bill #12</title>")
	assert.Contains(t, html, "Walk-in Customer")
	assert.Contains(t, html, "18/10/2026, 09:30:05")
	assert.Contains(t, html, "₹12.50")
	assert.Contains(t, html, "<strong>₹45.00</strong>")
	assert.Contains(t, html, "window.print()")
	assert.Contains(t, html, "Ibuprofen &lt;400mg&gt;")
	assert.Equal(t, 4, strings.Count(html, `<td class="right">₹`))
}

func TestBuildNamedCustomer(t *testing.T) {
	sale := sampleSale()
	sale.Header.CustomerName = "Asha"
	doc, err := Build(pharmacy, sale)
	require.NoError(t, err)
	assert.Contains(t, string(doc.HTML), "Asha")
	assert.NotContains(t, string(doc.HTML), "Walk-in Customer")
}

func TestFormatSaleDate(t *testing.T) {
	assert.Equal(t, "18/10/2026, 09:30:05", FormatSaleDate("2026-10-18T09:30:05"))
	assert.Equal(t, "18/10/2026, 00:00:00", FormatSaleDate("2026-10-18"))
	assert.Equal(t, "yesterday", FormatSaleDate("yesterday"))
}

type fakeFetcher struct {
	sale domain.SaleDetail
	err  error
}

func (f fakeFetcher) Sale(context.Context, int64) (domain.SaleDetail, error) {
	return f.sale, f.err
}

type captureTarget struct {
	docs []Document
	err  error
}

func (c *captureTarget) Print(_ context.Context, doc Document) error {
	c.docs = append(c.docs, doc)
	return c.err
}

func TestRendererPrints(t *testing.T) {
	target := &captureTarget{}
	r := NewRenderer(fakeFetcher{sale: sampleSale()}, target, pharmacy)
	require.NoError(t, r.Print(context.Background(), 12))
	require.Len(t, target.docs, 1)
	assert.Equal(t, int64(12), target.docs[0].SaleID)
}

func TestRendererFetchFailureSkipsTarget(t *testing.T) {
	target := &captureTarget{}
	r := NewRenderer(fakeFetcher{err: errors.New("Sale not found")}, target, pharmacy)
	err := r.Print(context.Background(), 99)
	assert.EqualError(t, err, "Sale not found")
	assert.Empty(t, target.docs)
}

func TestWindowTargetBlocked(t *testing.T) {
	dir := t.TempDir()
	opened := ""
	w := &WindowTarget{Dir: dir, Open: func(path string) error {
		opened = path
		return errors.New("no display")
	}}
	doc, err := Build(pharmacy, sampleSale())
	require.NoError(t, err)

	err = w.Print(context.Background(), doc)
	require.ErrorIs(t, err, ErrPopupBlocked)

	written, readErr := os.ReadFile(opened)
	require.NoError(t, readErr)
	assert.Equal(t, doc.HTML, written)
	assert.Equal(t, dir, filepath.Dir(opened))
}

func TestWindowTargetOpens(t *testing.T) {
	calls := 0
	w := &WindowTarget{Dir: t.TempDir(), Open: func(string) error { calls++; return nil }}
	doc, err := Build(pharmacy, sampleSale())
	require.NoError(t, err)
	require.NoError(t, w.Print(context.Background(), doc))
	assert.Equal(t, 1, calls)
}

func TestWindowTargetReprintKeepsOneFile(t *testing.T) {
	dir := t.TempDir()
	var opened []string
	w := &WindowTarget{Dir: dir, Open: func(path string) error { opened = append(opened, path); return nil }}
	doc, err := Build(pharmacy, sampleSale())
	require.NoError(t, err)

	require.NoError(t, w.Print(context.Background(), doc))
	require.NoError(t, w.Print(context.Background(), doc))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "receipt-12.html", entries[0].Name())
	assert.Equal(t, []string{filepath.Join(dir, "receipt-12.html"), filepath.Join(dir, "receipt-12.html")}, opened)
}

type bufCloser struct {
	bytes.Buffer
	closed bool
}

func (b *bufCloser) Close() error { b.closed = true; return nil }

func TestThermalTargetWritesEscPos(t *testing.T) {
	out := &bufCloser{}
	th := NewThermalTarget("printer:9100", 32)
	th.dial = func(context.Context) (io.WriteCloser, error) { return out, nil }

	doc, err := Build(pharmacy, sampleSale())
	require.NoError(t, err)
	require.NoError(t, th.Print(context.Background(), doc))

	data := out.Bytes()
	assert.True(t, out.closed)
	assert.True(t, bytes.HasPrefix(data, []byte{0x1B, '@'}))
	assert.True(t, bytes.HasSuffix(data, []byte{0x1D, 'V', 0x01}))
	assert.Contains(t, string(data), "2x Paracetamol 500mg")
	assert.Contains(t, string(data), "Rs.45.00")
	assert.NotContains(t, string(data), "₹")
}

func TestThermalTargetConnectFailure(t *testing.T) {
	th := NewThermalTarget("printer:9100", 32)
	th.dial = func(context.Context) (io.WriteCloser, error) { return nil, errors.New("refused") }
	doc, err := Build(pharmacy, sampleSale())
	require.NoError(t, err)

	err = th.Print(context.Background(), doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to printer:9100")
}

func TestEscPosPadsToWidth(t *testing.T) {
	d := newEscposDoc(20)
	d.keyValue("Total", "Rs.5.00")
	line := strings.TrimPrefix(string(d.bytes()), "\x1b@")
	assert.Equal(t, "Total"+strings.Repeat(" ", 8)+"Rs.5.00\n", line)
}

func TestEscPosCutsLongNames(t *testing.T) {
	d := newEscposDoc(20)
	d.itemLine(2, "Amoxicillin Clavulanate 625mg", "Rs.120.00")
	line := strings.TrimPrefix(string(d.bytes()), "\x1b@")
	assert.Equal(t, "2x Amoxici Rs.120.00\n", line)
	assert.Len(t, strings.TrimSuffix(line, "\n"), 20)
}
