package billing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmapos/domain"
	"pharmapos/internal/catalog"
)

type listSource []domain.Medicine

func (l listSource) Medicines(context.Context) ([]domain.Medicine, error) { return l, nil }

func newSuggestions(t *testing.T) (*Suggestions, *Bill) {
	t.Helper()
	c := catalog.New(listSource{paracetamol, ibuprofen})
	require.NoError(t, c.Refresh(context.Background()))
	b := New()
	return NewSuggestions(c, b), b
}

func TestShowFiltersByName(t *testing.T) {
	s, _ := newSuggestions(t)
	rows := s.Show("par")
	require.Len(t, rows, 1)
	assert.Equal(t, "Paracetamol 500mg", rows[0].Medicine.Name)
	assert.Equal(t, int64(1), rows[0].Quantity)
}

func TestShowEmptyQueryListsAll(t *testing.T) {
	s, _ := newSuggestions(t)
	assert.Len(t, s.Show(""), 2)
}

func TestAddUsesStepperAndClears(t *testing.T) {
	s, b := newSuggestions(t)
	s.Show("ibu")
	require.True(t, s.SetQuantity(0, "3"))
	require.True(t, s.Add(0))

	lines := b.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(3), lines[0].Quantity)
	assert.Empty(t, s.Rows())
	assert.Empty(t, s.Query())
}

func TestStepperFallsBackToOne(t *testing.T) {
	s, b := newSuggestions(t)
	s.Show("par")
	s.SetQuantity(0, "zero")
	s.Add(0)
	assert.Equal(t, int64(1), b.Lines()[0].Quantity)
}

func TestAddOutOfRange(t *testing.T) {
	s, b := newSuggestions(t)
	s.Show("par")
	assert.False(t, s.Add(3))
	assert.False(t, s.SetQuantity(-1, "2"))
	assert.True(t, b.Empty())
	assert.Len(t, s.Rows(), 1)
}
