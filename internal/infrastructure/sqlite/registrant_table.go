package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"github.com/zjrosen/signup/internal/log"
	"github.com/zjrosen/signup/internal/registry/domain"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// RegistrantTable implements domain.Table over one sqlite table.
type RegistrantTable struct {
	db    *sql.DB
	name  string
	quote string
}

var _ domain.Table = (*RegistrantTable)(nil)

// NewRegistrantTable binds to table in db. The name is interpolated into SQL, so only
// plain identifiers are accepted.
func NewRegistrantTable(db *sql.DB, table string) (*RegistrantTable, error) {
	if !identifierPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &RegistrantTable{db: db, name: table, quote: `"` + table + `"`}, nil
}

func scanRegistrant(scanner interface{ Scan(...any) error }) (*RegistrantModel, error) {
	var model RegistrantModel
	err := scanner.Scan(&model.ID, &model.CreatedAt, &model.Name, &model.Data)
	return &model, err
}

// SelectAll returns every row. The order is whatever sqlite scans in.
func (t *RegistrantTable) SelectAll(ctx context.Context) ([]domain.Registrant, error) {
	rows, err := t.db.QueryContext(ctx, `SELECT id, created_at, name, data FROM `+t.quote)
	if err != nil {
		return nil, fmt.Errorf("failed to select from %s: %w", t.name, err)
	}
	defer rows.Close()

	result := []domain.Registrant{}
	for rows.Next() {
		model, err := scanRegistrant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", t.name, err)
		}
		result = append(result, model.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", t.name, err)
	}

	log.Debug(log.CatDB, "selected rows", "table", t.name, "rows", len(result))
	return result, nil
}

// Insert adds one row with a fresh id.
func (t *RegistrantTable) Insert(ctx context.Context, r domain.Registrant) error {
	model := toRegistrantModel(uuid.NewString(), r)
	_, err := t.db.ExecContext(ctx,
		`INSERT INTO `+t.quote+` (id, name, data) VALUES (?, ?, ?)`,
		model.ID, model.Name, model.Data,
	)
	if err != nil {
		return fmt.Errorf("failed to insert into %s: %w", t.name, err)
	}
	log.Debug(log.CatDB, "inserted row", "table", t.name, "id", model.ID)
	return nil
}
