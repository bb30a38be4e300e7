package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// CreateInMemoryDB creates an in-memory state database with the ItemTable
// and cursorDiskKV tables.
func CreateInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}
	// The pool must not open a second connection: every :memory: connection
	// is its own empty database.
	db.SetMaxOpenConns(1)

	schema := []string{
		`CREATE TABLE IF NOT EXISTS ItemTable (
			key TEXT PRIMARY KEY,
			value TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS cursorDiskKV (
			key TEXT PRIMARY KEY,
			value TEXT
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			t.Fatalf("Failed to create table: %v", err)
		}
	}

	return db
}

// InsertItem inserts a row into ItemTable.
func InsertItem(t *testing.T, db *sql.DB, key, value string) {
	t.Helper()
	if _, err := db.Exec("INSERT INTO ItemTable (key, value) VALUES (?, ?)", key, value); err != nil {
		t.Fatalf("Failed to insert ItemTable row: %v", err)
	}
}

// InsertDiskKV inserts a row into cursorDiskKV.
func InsertDiskKV(t *testing.T, db *sql.DB, key, value string) {
	t.Helper()
	if _, err := db.Exec("INSERT INTO cursorDiskKV (key, value) VALUES (?, ?)", key, value); err != nil {
		t.Fatalf("Failed to insert cursorDiskKV row: %v", err)
	}
}

// CreateChatDB creates an in-memory database populated with a tab chat, a
// composer collection and the matching prompt, generation and response rows.
func CreateChatDB(t *testing.T) *sql.DB {
	t.Helper()
	db := CreateInMemoryDB(t)

	InsertItem(t, db, "workbench.panel.aichat.view.aichat.chatdata",
		`{"tabs":[{"chatTitle":"Test Chat","bubbles":[`+
			`{"type":"user","text":"hello"},`+
			`{"type":"ai","modelType":"gpt-4","rawText":"hi there"}]}]}`)
	InsertItem(t, db, "composer.composerData",
		`{"allComposers":[{"composerId":"comp-1","name":"Refactor","createdAt":1700000000000,"lastUpdatedAt":1700000100000,"unifiedMode":"agent"}]}`)
	InsertItem(t, db, "aiService.prompts",
		`[{"text":"do the refactor","generationUUID":"gen-1","unixMs":1700000000000}]`)
	InsertItem(t, db, "aiService.generations",
		`[{"generationUUID":"gen-1","textDescription":"refactored the module"}]`)
	InsertDiskKV(t, db, "response:gen-1",
		`{"generationUUID":"gen-1","response":"done, see the diff"}`)

	return db
}
