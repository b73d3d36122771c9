// Package views renders the POS screens as plain text tables. Every function
// redraws its whole view.
package views

import (
	"fmt"
	"io"
	"text/tabwriter"

	"pharmapos/domain"
	"pharmapos/internal/billing"
	"pharmapos/internal/currency"
	"pharmapos/internal/login"
)

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// Dashboard prints the four KPIs. identity is shown when known.
func Dashboard(w io.Writer, s domain.Summary, identity string) error {
	tw := table(w)
	if identity != "" {
		fmt.Fprintf(tw, "Signed in as\t%s\n", identity)
	}
	fmt.Fprintf(tw, "Total medicines\t%d\n", s.TotalMedicines)
	fmt.Fprintf(tw, "Total units\t%d\n", s.TotalUnits)
	fmt.Fprintf(tw, "Low stock (<= %d)\t%d\n", domain.LowStockThreshold, s.LowStock)
	fmt.Fprintf(tw, "Sales today\t%s\n", currency.Format(s.SalesToday))
	return tw.Flush()
}

// Inventory prints the catalog table.
func Inventory(w io.Writer, medicines []domain.Medicine) error {
	tw := table(w)
	fmt.Fprintln(tw, "ID\tName\tManufacturer\tBatch\tExpiry\tQty\tPrice")
	for _, m := range medicines {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%s\n",
			m.ID, m.Name, m.Manufacturer, m.BatchNo, m.ExpiryDate, m.Quantity, currency.Format(m.Price))
	}
	return tw.Flush()
}

// Bill prints the bill lines and the grand total.
func Bill(w io.Writer, b *billing.Bill) error {
	tw := table(w)
	fmt.Fprintln(tw, "Item\tID\tQty\tPrice\tTotal")
	for _, l := range b.Lines() {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n",
			l.Name, l.MedicineID, l.Quantity, currency.Format(l.Price), currency.Format(l.Total()))
	}
	fmt.Fprintf(tw, "Grand Total\t\t\t\t%s\n", currency.Format(b.GrandTotal()))
	return tw.Flush()
}

// Suggestions prints the search matches numbered from 1.
func Suggestions(w io.Writer, rows []billing.Suggestion) error {
	tw := table(w)
	for i, r := range rows {
		fmt.Fprintf(tw, "%d\t%s (%s)\tqty %d\n", i+1, r.Medicine.Name, r.Medicine.Manufacturer, r.Quantity)
	}
	return tw.Flush()
}

// SalesList prints the sale headers. Totals carry a leading "$" before the
// rupee amount, as the sales screen always has.
func SalesList(w io.Writer, sales []domain.SaleHeader) error {
	tw := table(w)
	fmt.Fprintln(tw, "ID\tCustomer\tDate\tTotal")
	for _, s := range sales {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.ID, s.CustomerName, s.SaleDate, currency.LegacyDollar(s.TotalAmount))
	}
	return tw.Flush()
}

// SaleDetail prints one sale with a header tag, its items and a footer.
func SaleDetail(w io.Writer, d domain.SaleDetail) error {
	h := d.Header
	fmt.Fprintf(w, "Sale #%d - %s - %s\n", h.ID, h.CustomerName, h.SaleDate)
	tw := table(w)
	fmt.Fprintln(tw, "Item\tQty\tPrice\tTotal")
	for _, i := range d.Items {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n",
			i.MedicineName, i.QuantitySold, currency.LegacyDollar(i.PricePerItem), currency.LegacyDollar(i.LineTotal))
	}
	fmt.Fprintf(tw, "Grand Total\t\t\t%s\n", currency.LegacyDollar(h.TotalAmount))
	return tw.Flush()
}

// PasswordToggle prints the password field control.
func PasswordToggle(w io.Writer, t login.Toggle) error {
	_, err := fmt.Fprintf(w, "[%s] %s (%s)\n", t.Label, t.AriaLabel, t.InputType)
	return err
}
