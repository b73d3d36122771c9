package receipt

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"pharmapos/internal/currency"
)

// ThermalTarget prints receipts on an ESC/POS printer reachable over TCP
// (host:port) or through a device file (/dev/usb/lp0).
type ThermalTarget struct {
	Address string
	Width   int
	dial    func(ctx context.Context) (io.WriteCloser, error)
}

func NewThermalTarget(address string, width int) *ThermalTarget {
	t := &ThermalTarget{Address: address, Width: width}
	t.dial = t.open
	return t
}

func (t *ThermalTarget) open(ctx context.Context) (io.WriteCloser, error) {
	if strings.HasPrefix(t.Address, "/") {
		return os.OpenFile(t.Address, os.O_WRONLY, 0)
	}
	d := net.Dialer{Timeout: 5 * time.Second}
	conn, err := d.DialContext(ctx, "tcp", t.Address)
	if err != nil {
		return nil, err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn, nil
}

func (t *ThermalTarget) Print(ctx context.Context, doc Document) error {
	if t.Address == "" {
		return fmt.Errorf("printer: no address configured")
	}
	data := EscPos(doc, t.Width)

	w, err := t.dial(ctx)
	if err != nil {
		return fmt.Errorf("printer: failed to connect to %s: %w", t.Address, err)
	}
	defer w.Close()
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("printer: failed to write to %s: %w", t.Address, err)
	}
	return nil
}

// EscPos lays a receipt out for a thermal printer width characters wide.
func EscPos(doc Document, width int) []byte {
	h := doc.Sale.Header
	d := newEscposDoc(width)

	d.align(alignCenter).bold(true).text(doc.Pharmacy.Name).bold(false)
	if doc.Pharmacy.Address != "" {
		d.text(doc.Pharmacy.Address)
	}
	if doc.Pharmacy.Phone != "" {
		d.text(doc.Pharmacy.Phone)
	}
	d.text(fmt.Sprintf("Bill #%d", h.ID))
	d.text(FormatSaleDate(h.SaleDate))
	d.text(CustomerLabel(h.CustomerName))

	d.align(alignLeft).separator()
	for _, item := range doc.Sale.Items {
		d.itemLine(item.QuantitySold, item.MedicineName, currency.Format(item.LineTotal))
	}
	d.separator()
	d.bold(true).keyValue("Grand Total", currency.Format(h.TotalAmount)).bold(false)

	d.align(alignCenter).feed(1).text("Thank you for your purchase!")
	d.feed(3).cut()
	return d.bytes()
}
