package database

import (
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func TestInitializeFreshDatabase(t *testing.T) {
	db := newTestDB(t)

	if err := db.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	for _, table := range []string{"facts", "history"} {
		exists, err := db.tableExists(table)
		if err != nil {
			t.Fatalf("tableExists(%s) failed: %v", table, err)
		}
		if !exists {
			t.Errorf("Expected table %s to exist", table)
		}
	}
}

// TestMigrateLegacyFactsTable verifies the rename/copy/drop upgrade collapses
// duplicate (user_id, fact_key) rows down to a single arbitrary survivor
func TestMigrateLegacyFactsTable(t *testing.T) {
	db := newTestDB(t)

	// Old shape: same columns, no uniqueness constraint
	if _, err := db.Exec(`
		CREATE TABLE facts (
			user_id TEXT NOT NULL,
			fact_key TEXT NOT NULL,
			fact_value TEXT NOT NULL,
			updated_at_ms INTEGER NOT NULL
		)
	`); err != nil {
		t.Fatalf("Failed to create legacy table: %v", err)
	}
	for _, row := range [][3]string{
		{"u1", "name", "Alex"},
		{"u1", "name", "Sam"},
		{"u1", "city", "Paris"},
		{"u2", "name", "Kim"},
	} {
		if _, err := db.Exec(
			`INSERT INTO facts (user_id, fact_key, fact_value, updated_at_ms) VALUES (?, ?, ?, 0)`,
			row[0], row[1], row[2],
		); err != nil {
			t.Fatalf("Failed to seed legacy row: %v", err)
		}
	}

	if err := db.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM facts WHERE user_id = 'u1' AND fact_key = 'name'`).Scan(&count); err != nil {
		t.Fatalf("Count query failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected duplicates collapsed to one row, got %d", count)
	}

	var value string
	if err := db.QueryRow(`SELECT fact_value FROM facts WHERE user_id = 'u1' AND fact_key = 'name'`).Scan(&value); err != nil {
		t.Fatalf("Value query failed: %v", err)
	}
	if value != "Alex" && value != "Sam" {
		t.Errorf("Expected an arbitrary survivor among the duplicates, got %q", value)
	}

	if err := db.QueryRow(`SELECT COUNT(*) FROM facts`).Scan(&count); err != nil {
		t.Fatalf("Count query failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 rows after dedup, got %d", count)
	}

	// The scratch table must be gone
	exists, err := db.tableExists("facts_migrating")
	if err != nil {
		t.Fatalf("tableExists failed: %v", err)
	}
	if exists {
		t.Error("Expected facts_migrating to be dropped")
	}
}

// TestMigrationIdempotent runs the migration twice and expects identical content
func TestMigrationIdempotent(t *testing.T) {
	db := newTestDB(t)

	if err := db.Initialize(); err != nil {
		t.Fatalf("First Initialize failed: %v", err)
	}

	if _, err := db.Exec(
		`INSERT INTO facts (user_id, fact_key, fact_value, updated_at_ms) VALUES ('u1', 'name', 'Alex', 0)`,
	); err != nil {
		t.Fatalf("Failed to insert fact: %v", err)
	}

	if err := db.Initialize(); err != nil {
		t.Fatalf("Second Initialize failed: %v", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM facts`).Scan(&count); err != nil {
		t.Fatalf("Count query failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected row count unchanged after re-migration, got %d", count)
	}

	var value string
	if err := db.QueryRow(`SELECT fact_value FROM facts WHERE user_id = 'u1'`).Scan(&value); err != nil {
		t.Fatalf("Value query failed: %v", err)
	}
	if value != "Alex" {
		t.Errorf("Expected content unchanged after re-migration, got %q", value)
	}
}

// TestUniquenessEnforced confirms the constraint actually rejects blind duplicates
func TestUniquenessEnforced(t *testing.T) {
	db := newTestDB(t)

	if err := db.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if _, err := db.Exec(
		`INSERT INTO facts (user_id, fact_key, fact_value, updated_at_ms) VALUES ('u1', 'name', 'Alex', 0)`,
	); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	if _, err := db.Exec(
		`INSERT INTO facts (user_id, fact_key, fact_value, updated_at_ms) VALUES ('u1', 'name', 'Sam', 0)`,
	); err == nil {
		t.Error("Expected a uniqueness violation on duplicate (user_id, fact_key)")
	}
}
