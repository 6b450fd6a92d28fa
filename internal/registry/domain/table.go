package domain

import "context"

// Table is the storage port for registrants.
//
// SelectAll performs a full scan with no ordering guarantee and returns an empty
// slice for an empty table. Insert appends one row; implementations must not add a
// uniqueness constraint on Name, duplicates are the caller's concern.
type Table interface {
	SelectAll(ctx context.Context) ([]Registrant, error)
	Insert(ctx context.Context, r Registrant) error
}
