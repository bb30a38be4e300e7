package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// CreateStateDBFixture writes a state database file with one tab chat.
func CreateStateDBFixture(t *testing.T, dbPath string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	schema := []string{
		`CREATE TABLE IF NOT EXISTS ItemTable (key TEXT PRIMARY KEY, value TEXT)`,
		`CREATE TABLE IF NOT EXISTS cursorDiskKV (key TEXT PRIMARY KEY, value TEXT)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("Failed to create table: %v", err)
		}
	}

	chatData := `{"tabs":[{"chatTitle":"Fixture Chat","bubbles":[` +
		`{"type":"user","text":"fixture question"},` +
		`{"type":"ai","modelType":"gpt-4","rawText":"fixture answer"}]}]}`
	if _, err := db.Exec(
		"INSERT INTO ItemTable (key, value) VALUES (?, ?)",
		"workbench.panel.aichat.view.aichat.chatdata", chatData,
	); err != nil {
		t.Fatalf("Failed to insert chat data: %v", err)
	}
}

// CreateWorkspaceFixture creates a workspace storage folder containing a
// state database and returns the database path.
func CreateWorkspaceFixture(t *testing.T, storageDir, workspaceHash string) string {
	t.Helper()
	dbPath := filepath.Join(storageDir, workspaceHash, "state.vscdb")
	CreateStateDBFixture(t, dbPath)
	return dbPath
}
