package application

import (
	"context"
	"fmt"

	"github.com/zjrosen/signup/internal/log"
	"github.com/zjrosen/signup/internal/registry/domain"
)

// DefaultPlaceholderData is stored as the payload of every inserted row.
const DefaultPlaceholderData = "hieiiierl"

// Writer inserts names that are missing from a previously fetched name set.
//
// The membership check and the insert are not atomic. Two writers that both observe
// a name as absent will both insert it, leaving duplicate rows. Nothing here (and
// nothing in the table) prevents that.
type Writer struct {
	table       domain.Table
	placeholder string
}

// NewWriter wires a Writer to table. Inserted rows carry placeholder as their data.
func NewWriter(table domain.Table, placeholder string) (*Writer, error) {
	if table == nil {
		return nil, domain.ErrNilTable
	}
	return &Writer{table: table, placeholder: placeholder}, nil
}

// RegisterIfAbsent inserts name unless known already contains it.
// known must come from the most recent Reader result. On OutcomeInserted the caller
// owns invalidating the Reader.
func (w *Writer) RegisterIfAbsent(ctx context.Context, name string, known domain.NameSet) (domain.Outcome, error) {
	row, err := domain.NewRegistrant(name, w.placeholder)
	if err != nil {
		return 0, err
	}

	if known.Contains(name) {
		log.Debug(log.CatRegistry, "name already registered", "name", name)
		return domain.OutcomeAlreadyPresent, nil
	}

	if err := w.table.Insert(ctx, row); err != nil {
		log.ErrorErr(log.CatRegistry, "insert failed", err, "name", name)
		return 0, fmt.Errorf("registering %q: %w", name, err)
	}

	log.Info(log.CatRegistry, "name registered", "name", name)
	return domain.OutcomeInserted, nil
}
