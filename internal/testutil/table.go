package testutil

import (
	"context"
	"slices"
	"sync"

	"github.com/zjrosen/signup/internal/registry/domain"
)

// FakeTable is an in-memory domain.Table. Like the hosted table it accepts duplicate
// names. SelectErr and InsertErr, when set, are returned instead of touching the rows.
type FakeTable struct {
	mu      sync.Mutex
	rows    []domain.Registrant
	selects int
	inserts int

	SelectErr error
	InsertErr error
}

var _ domain.Table = (*FakeTable)(nil)

// NewFakeTable returns a table seeded with rows.
func NewFakeTable(rows ...domain.Registrant) *FakeTable {
	return &FakeTable{rows: slices.Clone(rows)}
}

func (f *FakeTable) SelectAll(ctx context.Context) ([]domain.Registrant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selects++
	if f.SelectErr != nil {
		return nil, f.SelectErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// the hosted API answers an empty table with no data at all
	if len(f.rows) == 0 {
		return nil, nil
	}
	return slices.Clone(f.rows), nil
}

func (f *FakeTable) Insert(ctx context.Context, r domain.Registrant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	if f.InsertErr != nil {
		return f.InsertErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	f.rows = append(f.rows, r)
	return nil
}

// Rows returns a copy of the stored rows.
func (f *FakeTable) Rows() []domain.Registrant {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.rows)
}

// Count returns the number of rows with name.
func (f *FakeTable) Count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.rows {
		if r.Name == name {
			n++
		}
	}
	return n
}

// Selects returns how many times SelectAll was called.
func (f *FakeTable) Selects() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selects
}

// Inserts returns how many times Insert was called.
func (f *FakeTable) Inserts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inserts
}
