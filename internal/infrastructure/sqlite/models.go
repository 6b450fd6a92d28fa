package sqlite

import (
	"database/sql"

	"github.com/zjrosen/signup/internal/registry/domain"
)

// RegistrantModel is one row of the registry table. Name and data are nullable in the
// schema, as they are on the hosted table.
type RegistrantModel struct {
	ID        string
	CreatedAt string
	Name      sql.NullString
	Data      sql.NullString
}

func (m *RegistrantModel) toDomain() domain.Registrant {
	return domain.Registrant{Name: m.Name.String, Data: m.Data.String}
}

func toRegistrantModel(id string, r domain.Registrant) *RegistrantModel {
	return &RegistrantModel{
		ID:   id,
		Name: sql.NullString{String: r.Name, Valid: true},
		Data: sql.NullString{String: r.Data, Valid: true},
	}
}
