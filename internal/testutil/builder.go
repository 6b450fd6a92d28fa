package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type rowData struct {
	id        string
	name      string
	data      string
	createdAt time.Time
}

// RowOption customizes a seeded row.
type RowOption func(*rowData)

// Data sets the row payload.
func Data(data string) RowOption {
	return func(r *rowData) { r.data = data }
}

// ID overrides the generated row id.
func ID(id string) RowOption {
	return func(r *rowData) { r.id = id }
}

// CreatedAt sets the row timestamp.
func CreatedAt(ts time.Time) RowOption {
	return func(r *rowData) { r.createdAt = ts }
}

// Builder accumulates rows and inserts them into a test database.
type Builder struct {
	t     *testing.T
	db    *sql.DB
	table string
	rows  []rowData
}

// NewBuilder creates a builder seeding my_first_table in db.
func NewBuilder(t *testing.T, db *sql.DB) *Builder {
	t.Helper()
	return &Builder{t: t, db: db, table: "my_first_table"}
}

// WithRow adds a row for name.
func (b *Builder) WithRow(name string, opts ...RowOption) *Builder {
	row := rowData{
		id:        uuid.NewString(),
		name:      name,
		data:      "hieiiierl",
		createdAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(&row)
	}
	b.rows = append(b.rows, row)
	return b
}

// WithBob seeds the single-row table used by the registration scenarios.
func (b *Builder) WithBob() *Builder {
	return b.WithRow("bob", Data("x"))
}

// Build inserts all accumulated rows.
func (b *Builder) Build() {
	b.t.Helper()
	for _, row := range b.rows {
		_, err := b.db.Exec(
			`INSERT INTO "`+b.table+`" (id, created_at, name, data) VALUES (?, ?, ?, ?)`,
			row.id, row.createdAt.Format(time.RFC3339Nano), row.name, row.data,
		)
		require.NoError(b.t, err)
	}
}
