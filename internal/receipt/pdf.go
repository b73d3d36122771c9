package receipt

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// PDFTarget renders the receipt in a headless browser and saves it as
// receipt-{id}.pdf under Dir.
type PDFTarget struct {
	Dir string
	// Bin overrides the browser executable; empty lets rod find or fetch one.
	Bin string
}

func (t *PDFTarget) Print(ctx context.Context, doc Document) error {
	l := launcher.New().Headless(true).Leakless(false)
	if t.Bin != "" {
		l = l.Bin(t.Bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w (%v)", ErrPopupBlocked, err)
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("%w (%v)", ErrPopupBlocked, err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return fmt.Errorf("%w (%v)", ErrPopupBlocked, err)
	}
	// The document calls window.print() on load; keep it from running here.
	if err := (proto.EmulationSetScriptExecutionDisabled{Value: true}).Call(page); err != nil {
		return fmt.Errorf("disable receipt scripts: %w", err)
	}
	if err := page.SetDocumentContent(string(doc.HTML)); err != nil {
		return fmt.Errorf("load receipt %d: %w", doc.SaleID, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("load receipt %d: %w", doc.SaleID, err)
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{PrintBackground: true})
	if err != nil {
		return fmt.Errorf("print receipt %d: %w", doc.SaleID, err)
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		return fmt.Errorf("print receipt %d: %w", doc.SaleID, err)
	}

	if err := os.MkdirAll(t.Dir, 0755); err != nil {
		return fmt.Errorf("receipt dir %s: %w", t.Dir, err)
	}
	dest := filepath.Join(t.Dir, fmt.Sprintf("receipt-%d.pdf", doc.SaleID))
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return nil
}
