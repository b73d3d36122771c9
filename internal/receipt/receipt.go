// Package receipt composes printable bills for finalized sales and hands
// them to a print target.
package receipt

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"pharmapos/domain"
	"pharmapos/internal/currency"
)

// ErrPopupBlocked means the print target could not open a window for the
// receipt. It is terminal; nothing retries it.
var ErrPopupBlocked = errors.New("Popup blocked. Please allow popups to print.")

//go:embed receipt.html.tmpl
var receiptHTML string

var receiptTemplate = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"money":    currency.Format,
	"date":     FormatSaleDate,
	"customer": CustomerLabel,
}).Parse(receiptHTML))

// Document is a receipt ready for printing.
type Document struct {
	SaleID   int64
	Title    string
	HTML     []byte
	Pharmacy domain.Pharmacy
	Sale     domain.SaleDetail
}

// Target puts a document in front of the operator or onto paper.
type Target interface {
	Print(ctx context.Context, doc Document) error
}

type SaleFetcher interface {
	Sale(ctx context.Context, id int64) (domain.SaleDetail, error)
}

// Build renders the standalone HTML bill for a sale. Styles are inline and
// the page prints itself once loaded.
func Build(pharmacy domain.Pharmacy, sale domain.SaleDetail) (Document, error) {
	var buf bytes.Buffer
	err := receiptTemplate.Execute(&buf, struct {
		Pharmacy domain.Pharmacy
		Header   domain.SaleHeader
		Items    []domain.SaleItem
	}{pharmacy, sale.Header, sale.Items})
	if err != nil {
		return Document{}, fmt.Errorf("render receipt %d: %w", sale.Header.ID, err)
	}
	return Document{
		SaleID:   sale.Header.ID,
		Title:    fmt.Sprintf("Bill #%d", sale.Header.ID),
		HTML:     buf.Bytes(),
		Pharmacy: pharmacy,
		Sale:     sale,
	}, nil
}

// Renderer fetches a sale and prints its receipt.
type Renderer struct {
	sales    SaleFetcher
	target   Target
	pharmacy domain.Pharmacy
}

func NewRenderer(sales SaleFetcher, target Target, pharmacy domain.Pharmacy) *Renderer {
	return &Renderer{sales: sales, target: target, pharmacy: pharmacy}
}

// Print fetches sale id, builds its receipt and sends it to the target.
func (r *Renderer) Print(ctx context.Context, id int64) error {
	sale, err := r.sales.Sale(ctx, id)
	if err != nil {
		return err
	}
	doc, err := Build(r.pharmacy, sale)
	if err != nil {
		return err
	}
	return r.target.Print(ctx, doc)
}

// CustomerLabel names the customer on a receipt.
func CustomerLabel(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Walk-in Customer"
	}
	return name
}

var saleDateLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatSaleDate renders the backend's ISO sale date as a local
// "dd/mm/yyyy, hh:mm:ss". Unparseable dates are shown as sent.
func FormatSaleDate(raw string) string {
	for _, layout := range saleDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("02/01/2006, 15:04:05")
		}
	}
	return raw
}
