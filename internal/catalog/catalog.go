// Package catalog keeps the local copy of the medicine catalog.
package catalog

import (
	"context"
	"strings"

	"golang.org/x/text/cases"

	"pharmapos/domain"
)

// Source fetches the full catalog.
type Source interface {
	Medicines(ctx context.Context) ([]domain.Medicine, error)
}

// Cache holds the last successfully fetched catalog. It is replaced wholesale
// on every refresh and is not safe for concurrent use.
type Cache struct {
	src   Source
	items []domain.Medicine
}

func New(src Source) *Cache {
	return &Cache{src: src}
}

// Refresh refetches the catalog. On error the previous copy is kept.
func (c *Cache) Refresh(ctx context.Context) error {
	items, err := c.src.Medicines(ctx)
	if err != nil {
		return err
	}
	c.items = items
	return nil
}

// All returns the cached records.
func (c *Cache) All() []domain.Medicine {
	out := make([]domain.Medicine, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cache) Len() int {
	return len(c.items)
}

// Find looks a record up by id.
func (c *Cache) Find(id int64) (domain.Medicine, bool) {
	for _, m := range c.items {
		if m.ID == id {
			return m, true
		}
	}
	return domain.Medicine{}, false
}

// Filter returns the records whose name contains query, ignoring case. An
// empty query matches everything.
func (c *Cache) Filter(query string) []domain.Medicine {
	if query == "" {
		return c.All()
	}
	fold := cases.Fold()
	needle := fold.String(query)
	var out []domain.Medicine
	for _, m := range c.items {
		if strings.Contains(fold.String(m.Name), needle) {
			out = append(out, m)
		}
	}
	return out
}
