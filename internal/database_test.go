package internal

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/iksnae/cursor-export/testutil"
)

func TestFetchChatRecords(t *testing.T) {
	db := testutil.CreateChatDB(t)
	defer func() { _ = db.Close() }()

	records, err := FetchChatRecords(db, DefaultChatQuery, zap.NewNop())
	if err != nil {
		t.Fatalf("FetchChatRecords() error = %v", err)
	}

	// Four ItemTable chat rows plus one namespaced cursorDiskKV row.
	if len(records) != 5 {
		t.Fatalf("FetchChatRecords() = %d records, want 5", len(records))
	}

	byKey := map[string]string{}
	for _, rec := range records {
		byKey[rec.Key] = rec.Value
	}
	for _, key := range []string{
		"workbench.panel.aichat.view.aichat.chatdata",
		KeyComposerData,
		KeyPrompts,
		KeyGenerations,
		ResponseKeyPrefix + "response:gen-1",
	} {
		if _, ok := byKey[key]; !ok {
			t.Errorf("FetchChatRecords() missing key %q", key)
		}
	}
	if !strings.Contains(byKey[ResponseKeyPrefix+"response:gen-1"], "done, see the diff") {
		t.Errorf("response row value = %q", byKey[ResponseKeyPrefix+"response:gen-1"])
	}
}

func TestFetchChatRecords_NullValuesSkipped(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(
		"INSERT INTO ItemTable (key, value) VALUES (?, NULL)",
		KeyPrompts,
	); err != nil {
		t.Fatalf("failed to insert NULL row: %v", err)
	}
	testutil.InsertItem(t, db, KeyGenerations, `[]`)

	records, err := FetchChatRecords(db, DefaultChatQuery, zap.NewNop())
	if err != nil {
		t.Fatalf("FetchChatRecords() error = %v", err)
	}
	if len(records) != 1 || records[0].Key != KeyGenerations {
		t.Errorf("FetchChatRecords() = %+v, want the non-NULL row only", records)
	}
}

func TestFetchChatRecords_MissingDiskKVTable(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	defer func() { _ = db.Close() }()

	if _, err := db.Exec("DROP TABLE cursorDiskKV"); err != nil {
		t.Fatalf("failed to drop table: %v", err)
	}
	testutil.InsertItem(t, db, KeyPrompts, `[{"text":"q"}]`)

	records, err := FetchChatRecords(db, DefaultChatQuery, zap.NewNop())
	if err != nil {
		t.Fatalf("FetchChatRecords() error = %v, want missing table tolerated", err)
	}
	if len(records) != 1 {
		t.Errorf("FetchChatRecords() = %d records, want 1", len(records))
	}
}

func TestOpenDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.vscdb")
	testutil.CreateStateDBFixture(t, dbPath)

	db, err := OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("OpenDatabase() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	records, err := FetchChatRecords(db, DefaultChatQuery, zap.NewNop())
	if err != nil {
		t.Fatalf("FetchChatRecords() error = %v", err)
	}
	if len(records) == 0 {
		t.Error("FetchChatRecords() returned no records from fixture")
	}
}

func TestOpenDatabase_Missing(t *testing.T) {
	_, err := OpenDatabase(filepath.Join(t.TempDir(), "absent.vscdb"))
	if err == nil {
		t.Fatal("OpenDatabase() = nil error, want open failure")
	}
	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Errorf("OpenDatabase() error = %T, want *StorageError", err)
	}
}
