// Package inventory edits the medicine catalog.
package inventory

import (
	"context"
	"fmt"
	"io"
	"log"

	"pharmapos/domain"
	"pharmapos/internal/apiclient"
	"pharmapos/internal/seed"
)

const (
	MsgAdded   = "Medicine added successfully"
	MsgUpdated = "Medicine updated"
	MsgDeleted = "Medicine deleted"

	// DeletePrompt is asked before any delete.
	DeletePrompt = "Delete this medicine?"
)

type Store interface {
	AddMedicine(ctx context.Context, in domain.MedicineInput) (int64, error)
	UpdateMedicine(ctx context.Context, m domain.Medicine) error
	DeleteMedicine(ctx context.Context, id int64) error
}

// Refresher reloads a view's data after a change.
type Refresher func(ctx context.Context) error

// OpError is a failed catalog edit. Its text is what the operator sees.
type OpError struct {
	Prefix string
	Err    error
}

func (e *OpError) Error() string {
	return e.Prefix + apiclient.Message(e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// Manager applies catalog edits and refetches what they change.
type Manager struct {
	store   Store
	catalog Refresher
	summary Refresher
	logger  *log.Logger
}

func NewManager(store Store, catalog, summary Refresher, logger *log.Logger) *Manager {
	return &Manager{store: store, catalog: catalog, summary: summary, logger: logger}
}

// Add creates a medicine, then refetches the catalog and the KPIs.
func (m *Manager) Add(ctx context.Context, in domain.MedicineInput) (int64, error) {
	id, err := m.store.AddMedicine(ctx, in)
	if err != nil {
		return 0, &OpError{Prefix: "Error adding medicine: ", Err: err}
	}
	m.refresh(ctx, m.catalog, m.summary)
	return id, nil
}

func (m *Manager) Update(ctx context.Context, med domain.Medicine) error {
	if err := m.store.UpdateMedicine(ctx, med); err != nil {
		return &OpError{Prefix: "Error updating: ", Err: err}
	}
	m.refresh(ctx, m.catalog)
	return nil
}

// Delete removes a medicine once confirm agrees. It reports whether the
// delete was attempted and succeeded.
func (m *Manager) Delete(ctx context.Context, id int64, confirm func(prompt string) bool) (bool, error) {
	if confirm != nil && !confirm(DeletePrompt) {
		return false, nil
	}
	if err := m.store.DeleteMedicine(ctx, id); err != nil {
		return false, &OpError{Prefix: "Error deleting: ", Err: err}
	}
	m.refresh(ctx, m.catalog)
	return true, nil
}

// ImportResult counts the outcome of a CSV import.
type ImportResult struct {
	Added   int
	Failed  int
	Skipped int
}

func (r ImportResult) String() string {
	return fmt.Sprintf("Imported %d medicines (%d failed, %d skipped)", r.Added, r.Failed, r.Skipped)
}

// Import adds every medicine row read from r, one request per row, and
// refetches once at the end if anything was added.
func (m *Manager) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	var res ImportResult
	rows, skipped, err := seed.ReadMedicines(r)
	res.Skipped = skipped
	if err != nil {
		return res, fmt.Errorf("read medicines: %w", err)
	}
	for _, in := range rows {
		if _, err := m.store.AddMedicine(ctx, in); err != nil {
			m.logger.Printf("import %q failed: %v", in.Name, err)
			res.Failed++
			continue
		}
		res.Added++
	}
	if res.Added > 0 {
		m.refresh(ctx, m.catalog, m.summary)
	}
	return res, nil
}

func (m *Manager) refresh(ctx context.Context, fns ...Refresher) {
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		if err := fn(ctx); err != nil {
			m.logger.Printf("refresh after inventory change failed: %v", err)
		}
	}
}
