package application

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/signup/internal/cachemanager"
	"github.com/zjrosen/signup/internal/registry/domain"
	"github.com/zjrosen/signup/internal/testutil"
)

func newCache() *cachemanager.InMemoryCacheManager[string, []domain.Registrant] {
	return cachemanager.NewInMemoryCacheManager[string, []domain.Registrant]("registry", cachemanager.NoExpiration, cachemanager.DefaultCleanupInterval)
}

// setupWorkflow wires a Reader, Writer and Workflow over a fake table.
func setupWorkflow(t *testing.T, table *testutil.FakeTable, opts ...WorkflowOption) (*Workflow, *Reader) {
	t.Helper()
	reader, err := NewReader(table, newCache(), ReaderConfig{Table: "my_first_table", TTL: cachemanager.NoExpiration})
	require.NoError(t, err)
	writer, err := NewWriter(table, DefaultPlaceholderData)
	require.NoError(t, err)
	return NewWorkflow(reader, writer, opts...), reader
}
