package receipt

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// WindowTarget writes the receipt to a file and opens it in the system
// browser, where it prints itself on load.
type WindowTarget struct {
	Dir  string
	Open func(path string) error
}

func NewWindowTarget(dir string) *WindowTarget {
	return &WindowTarget{Dir: dir, Open: openBrowser}
}

func (t *WindowTarget) Print(_ context.Context, doc Document) error {
	if err := os.MkdirAll(t.Dir, 0755); err != nil {
		return fmt.Errorf("receipt dir %s: %w", t.Dir, err)
	}
	// One file per sale; reprinting overwrites it.
	path := filepath.Join(t.Dir, fmt.Sprintf("receipt-%d.html", doc.SaleID))
	if err := os.WriteFile(path, doc.HTML, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := t.Open(path); err != nil {
		return fmt.Errorf("%w (%v)", ErrPopupBlocked, err)
	}
	return nil
}

func openBrowser(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	case "darwin":
		cmd = exec.Command("open", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	return cmd.Start()
}

// DiscardTarget drops every receipt.
type DiscardTarget struct{}

func (DiscardTarget) Print(context.Context, Document) error { return nil }
