package db

import (
	"io/fs"
	"path/filepath"
	"testing"
	"testing/fstest"

	embeddedmigrations "github.com/terraincognita07/nestwell/migrations"
)

func TestOpenSQLiteAppliesEmbeddedMigrationsOnCleanDatabase(t *testing.T) {
	database := openKeyValueTestDatabase(t)

	entries, err := fs.ReadDir(embeddedmigrations.Files, ".")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}

	var applied int64
	if err := database.Raw(`SELECT COUNT(*) FROM schema_migrations`).Scan(&applied).Error; err != nil {
		t.Fatalf("count applied migrations: %v", err)
	}
	if applied != int64(len(entries)-countNonSQL(entries)) {
		t.Fatalf("expected every embedded migration to be applied, got %d of %d", applied, len(entries))
	}

	for _, table := range []string{"users", "kv_entries"} {
		if !database.Migrator().HasTable(table) {
			t.Fatalf("expected table %s to exist", table)
		}
	}
}

func TestOpenSQLiteIsIdempotentAcrossRestarts(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "nestwell-restart.db")

	first, err := OpenSQLite(databasePath, nil)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	firstSQL, _ := first.DB()
	_ = firstSQL.Close()

	second, err := OpenSQLite(databasePath, nil)
	if err != nil {
		t.Fatalf("second open should skip applied migrations, got %v", err)
	}
	secondSQL, _ := second.DB()
	_ = secondSQL.Close()
}

func TestLoadMigrationsRejectsDuplicateVersions(t *testing.T) {
	files := fstest.MapFS{
		"0001_a.sql": {Data: []byte("SELECT 1;")},
		"0001_b.sql": {Data: []byte("SELECT 2;")},
	}
	if _, err := loadMigrations(files); err == nil {
		t.Fatal("expected duplicate migration version error")
	}
}

func TestLoadMigrationsOrdersByVersionAndIgnoresOtherFiles(t *testing.T) {
	files := fstest.MapFS{
		"0010_later.sql": {Data: []byte("SELECT 10;")},
		"0002_early.sql": {Data: []byte("SELECT 2;")},
		"README.md":      {Data: []byte("docs")},
		"notes_0003.sql": {Data: []byte("SELECT 3;")},
	}

	migrations, err := loadMigrations(files)
	if err != nil {
		t.Fatalf("load migrations: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migrations))
	}
	if migrations[0].Version != "0002" || migrations[1].Version != "0010" {
		t.Fatalf("unexpected migration order: %s, %s", migrations[0].Version, migrations[1].Version)
	}
}

func TestSplitSQLStatementsDropsBlankParts(t *testing.T) {
	statements := splitSQLStatements("CREATE TABLE a (id INTEGER);\n\n ;CREATE INDEX b ON a (id);")
	if len(statements) != 2 {
		t.Fatalf("expected 2 statements, got %d: %#v", len(statements), statements)
	}
}

func countNonSQL(entries []fs.DirEntry) int {
	count := 0
	for _, entry := range entries {
		if !migrationFilePattern.MatchString(entry.Name()) {
			count++
		}
	}
	return count
}
