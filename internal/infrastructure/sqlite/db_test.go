package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// TestNewDB_CreatesDirectory verifies that NewDB creates the parent directory if missing.
func TestNewDB_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "nested", "registry.db")

	db, err := NewDB(dbPath)
	require.NoError(t, err)
	defer db.Close()

	info, err := os.Stat(filepath.Dir(dbPath))
	require.NoError(t, err)
	require.True(t, info.IsDir())

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0700), info.Mode().Perm())
	}
}

// TestNewDB_RunsMigrations verifies the registry table and migration bookkeeping exist.
func TestNewDB_RunsMigrations(t *testing.T) {
	db := openTestDB(t)

	var tableName string
	err := db.conn.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='my_first_table'",
	).Scan(&tableName)
	require.NoError(t, err)
	require.Equal(t, "my_first_table", tableName)

	var version int
	err = db.conn.QueryRow("SELECT version FROM schema_migrations").Scan(&version)
	require.NoError(t, err)
	require.Equal(t, 1, version)
}

// TestNewDB_NameIsNotUnique guards against a uniqueness constraint sneaking into the schema.
func TestNewDB_NameIsNotUnique(t *testing.T) {
	db := openTestDB(t)

	for _, id := range []string{"a", "b"} {
		_, err := db.conn.Exec(`INSERT INTO my_first_table (id, name, data) VALUES (?, 'dave', 'x')`, id)
		require.NoError(t, err)
	}
}

// TestNewDB_PreMigrationBackup verifies that a .bak file is created when reopening.
func TestNewDB_PreMigrationBackup(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "registry.db")

	db1, err := NewDB(dbPath)
	require.NoError(t, err)
	_, err = db1.conn.Exec(`INSERT INTO my_first_table (id, name, data) VALUES ('1', 'bob', 'x')`)
	require.NoError(t, err)
	require.NoError(t, db1.Close())

	_, err = os.Stat(dbPath + ".bak")
	require.True(t, os.IsNotExist(err), "first open has nothing to back up")

	db2, err := NewDB(dbPath)
	require.NoError(t, err)
	defer db2.Close()

	info, err := os.Stat(dbPath + ".bak")
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

// TestNewDB_Pragmas verifies WAL, foreign keys and busy timeout are applied.
func TestNewDB_Pragmas(t *testing.T) {
	db := openTestDB(t)

	var journalMode string
	require.NoError(t, db.conn.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	require.Equal(t, "wal", journalMode)

	var foreignKeys int
	require.NoError(t, db.conn.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys))
	require.Equal(t, 1, foreignKeys)

	var busyTimeout int
	require.NoError(t, db.conn.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout))
	require.Equal(t, 5000, busyTimeout)
}

// TestNewDB_MultipleCalls verifies that reopening an already migrated database is a no-op.
func TestNewDB_MultipleCalls(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "registry.db")

	db1, err := NewDB(dbPath)
	require.NoError(t, err)
	defer db1.Close()

	db2, err := NewDB(dbPath)
	require.NoError(t, err)
	defer db2.Close()

	var count1, count2 int
	require.NoError(t, db1.conn.QueryRow("SELECT COUNT(*) FROM my_first_table").Scan(&count1))
	require.NoError(t, db2.conn.QueryRow("SELECT COUNT(*) FROM my_first_table").Scan(&count2))
}

func TestDB_Close(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)

	require.NoError(t, db.Close())
	require.Error(t, db.conn.Ping())
}

func TestDB_Accessors(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "registry.db")
	db, err := NewDB(dbPath)
	require.NoError(t, err)
	defer db.Close()

	require.Equal(t, dbPath, db.Path())
	require.IsType(t, (*sql.DB)(nil), db.Connection())
	require.NoError(t, db.Connection().Ping())
}

func TestNewDB_InvalidPath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	// parent "directory" is a regular file
	_, err := NewDB(filepath.Join(blocker, "registry.db"))
	require.Error(t, err)
}

func TestDB_SchemaVersion(t *testing.T) {
	db := openTestDB(t)

	version, dirty, err := db.SchemaVersion(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint(1), version)
	require.False(t, dirty)
}
