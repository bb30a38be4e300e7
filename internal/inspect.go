package internal

import (
	"database/sql"
	"fmt"
)

// ListTables returns the names of all tables in the database.
func ListTables(db *sql.DB) ([]string, error) {
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='table' ORDER BY name")
	if err != nil {
		return nil, &StorageError{Path: "sqlite_master", Op: "query", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, &StorageError{Path: "sqlite_master", Op: "query", Err: err}
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// ListItemTableKeys returns every key in ItemTable, sorted.
func ListItemTableKeys(db *sql.DB) ([]string, error) {
	rows, err := db.Query("SELECT [key] FROM ItemTable ORDER BY [key]")
	if err != nil {
		return nil, &StorageError{Path: "ItemTable", Op: "query", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, &StorageError{Path: "ItemTable", Op: "query", Err: err}
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// KeyPreview is a key with a short prefix of its value.
type KeyPreview struct {
	Key     string
	Preview string
}

// PreviewChatKeys returns chat-adjacent ItemTable entries with a value
// preview, matching on the key name.
func PreviewChatKeys(db *sql.DB) ([]KeyPreview, error) {
	query := `SELECT [key], substr(value, 1, 100) FROM ItemTable
		WHERE [key] LIKE '%chat%'
		   OR [key] LIKE '%composer%'
		   OR [key] LIKE '%conversation%'
		   OR [key] LIKE '%message%'
		   OR [key] LIKE '%history%'
		   OR [key] LIKE '%ai%'
		   OR [key] LIKE '%assistant%'`
	rows, err := db.Query(query)
	if err != nil {
		return nil, &StorageError{Path: "ItemTable", Op: "query", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var previews []KeyPreview
	for rows.Next() {
		var p KeyPreview
		var preview sql.NullString
		if err := rows.Scan(&p.Key, &preview); err != nil {
			return nil, &StorageError{Path: "ItemTable", Op: "query", Err: err}
		}
		p.Preview = preview.String
		previews = append(previews, p)
	}
	return previews, rows.Err()
}

// InspectKey returns the full value stored under one ItemTable key.
func InspectKey(db *sql.DB, key string) (string, error) {
	var value sql.NullString
	err := db.QueryRow("SELECT value FROM ItemTable WHERE [key] = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("key not found: %s", key)
	}
	if err != nil {
		return "", &StorageError{Path: "ItemTable", Op: "query", Err: err}
	}
	return value.String, nil
}
