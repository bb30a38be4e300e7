package internal

import (
	"database/sql"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// OpenDatabase opens a state database in read-only mode. No transaction
// spans multiple queries; the store is treated as a static export.
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}

	return db, nil
}

// FetchChatRecords runs the configured ItemTable chat query and appends every
// cursorDiskKV row, namespacing the latter under the response-cache key
// prefix so the classifier can route them. A missing cursorDiskKV table is
// expected on older databases and only debug-logged.
func FetchChatRecords(db *sql.DB, query string, log *zap.Logger) ([]RawRecord, error) {
	log.Debug("executing chat query", zap.String("query", query))
	records, err := queryRecords(db, query)
	if err != nil {
		return nil, err
	}

	kvRecords, err := queryRecords(db, "SELECT key, value FROM cursorDiskKV")
	if err != nil {
		log.Debug("cursorDiskKV table not found or not accessible", zap.Error(err))
	} else {
		for _, rec := range kvRecords {
			records = append(records, RawRecord{
				Key:   ResponseKeyPrefix + rec.Key,
				Value: rec.Value,
			})
		}
	}

	log.Debug("fetched chat records", zap.Int("rows", len(records)))
	return records, nil
}

// queryRecords runs a two-column (key, value) query, skipping NULL values.
func queryRecords(db *sql.DB, query string, args ...any) ([]RawRecord, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, &StorageError{Path: query, Op: "query", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var records []RawRecord
	for rows.Next() {
		var rec RawRecord
		var value sql.NullString
		if err := rows.Scan(&rec.Key, &value); err != nil {
			return nil, &StorageError{Path: query, Op: "query", Err: err}
		}
		if !value.Valid {
			continue
		}
		rec.Value = value.String
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, &StorageError{Path: query, Op: "query", Err: err}
	}
	return records, nil
}
