package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/signup/internal/registry/domain"
	"github.com/zjrosen/signup/internal/testutil"
)

func TestNewRegistrantTable_RejectsBadIdentifiers(t *testing.T) {
	db := testutil.NewTestDB(t)
	for _, name := range []string{"", "1abc", `t"; DROP TABLE x; --`, "a-b", "a.b"} {
		_, err := NewRegistrantTable(db, name)
		require.Error(t, err, "name %q", name)
	}
}

func TestRegistrantTable_SelectAll_Empty(t *testing.T) {
	table, err := NewRegistrantTable(testutil.NewTestDB(t), "my_first_table")
	require.NoError(t, err)

	rows, err := table.SelectAll(context.Background())
	require.NoError(t, err)
	require.NotNil(t, rows)
	require.Empty(t, rows)
}

func TestRegistrantTable_SelectAll_SeededRows(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.NewBuilder(t, db).WithBob().WithRow("carol", testutil.Data("y")).Build()

	table, err := NewRegistrantTable(db, "my_first_table")
	require.NoError(t, err)

	rows, err := table.SelectAll(context.Background())
	require.NoError(t, err)
	require.ElementsMatch(t, []domain.Registrant{{Name: "bob", Data: "x"}, {Name: "carol", Data: "y"}}, rows)
}

func TestRegistrantTable_NullColumns(t *testing.T) {
	db := testutil.NewTestDB(t)
	_, err := db.Exec(`INSERT INTO my_first_table (id) VALUES ('only-id')`)
	require.NoError(t, err)

	table, err := NewRegistrantTable(db, "my_first_table")
	require.NoError(t, err)

	rows, err := table.SelectAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, []domain.Registrant{{}}, rows)
}

func TestRegistrantTable_Insert(t *testing.T) {
	db := testutil.NewTestDB(t)
	table, err := NewRegistrantTable(db, "my_first_table")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, table.Insert(ctx, domain.Registrant{Name: "carol", Data: "hieiiierl"}))

	var id, createdAt string
	require.NoError(t, db.QueryRow(`SELECT id, created_at FROM my_first_table WHERE name = 'carol'`).Scan(&id, &createdAt))
	require.Len(t, id, 36)
	require.NotEmpty(t, createdAt)
}

func TestRegistrantTable_InsertDuplicates(t *testing.T) {
	db := testutil.NewTestDB(t)
	table, err := NewRegistrantTable(db, "my_first_table")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, table.Insert(ctx, domain.Registrant{Name: "dave"}))
	require.NoError(t, table.Insert(ctx, domain.Registrant{Name: "dave"}))
	require.Equal(t, 2, testutil.CountRows(t, db, "my_first_table"))
}

func TestRegistrantTable_MissingTable(t *testing.T) {
	table, err := NewRegistrantTable(testutil.NewTestDB(t), "nope")
	require.NoError(t, err)

	_, err = table.SelectAll(context.Background())
	require.ErrorContains(t, err, "failed to select from nope")
	require.Error(t, table.Insert(context.Background(), domain.Registrant{Name: "x"}))
}

func TestRegistrantTable_CancelledContext(t *testing.T) {
	table, err := NewRegistrantTable(testutil.NewTestDB(t), "my_first_table")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = table.SelectAll(ctx)
	require.Error(t, err)
}

func TestDB_Registrants(t *testing.T) {
	db := openTestDB(t)
	table, err := db.Registrants("my_first_table")
	require.NoError(t, err)

	require.NoError(t, table.Insert(context.Background(), domain.Registrant{Name: "alice", Data: "d"}))
	rows, err := table.SelectAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, []domain.Registrant{{Name: "alice", Data: "d"}}, rows)
}

// TestRegistrantTable_RoundTrip is a property-based test: every inserted row comes
// back, duplicates included.
func TestRegistrantTable_RoundTrip(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		db := testutil.NewTestDB(t)
		table, err := NewRegistrantTable(db, "my_first_table")
		if err != nil {
			r.Fatalf("NewRegistrantTable: %v", err)
		}

		names := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,5}`), 0, 12).Draw(r, "names")
		want := make([]domain.Registrant, 0, len(names))
		for _, n := range names {
			row := domain.Registrant{Name: n, Data: "p"}
			if err := table.Insert(context.Background(), row); err != nil {
				r.Fatalf("Insert: %v", err)
			}
			want = append(want, row)
		}

		got, err := table.SelectAll(context.Background())
		if err != nil {
			r.Fatalf("SelectAll: %v", err)
		}
		if len(got) != len(want) {
			r.Fatalf("expected %d rows, got %d", len(want), len(got))
		}
		if domain.NamesOf(got).Len() != domain.NamesOf(want).Len() {
			r.Fatalf("name sets differ")
		}
	})
}
