package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// StateDBName is the file name of the state database inside each workspace
// storage folder.
const StateDBName = "state.vscdb"

// LatestWorkspaceDB returns the state database of the most recently modified
// workspace folder under storageDir.
func LatestWorkspaceDB(storageDir string) (string, error) {
	entries, err := os.ReadDir(storageDir)
	if err != nil {
		return "", &StorageError{Path: storageDir, Op: "open", Err: err}
	}

	var newest string
	var newestMod time.Time
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = entry.Name()
			newestMod = info.ModTime()
		}
	}
	if newest == "" {
		return "", fmt.Errorf("no workspace folders found in %s", storageDir)
	}

	dbPath := filepath.Join(storageDir, newest, StateDBName)
	if _, err := os.Stat(dbPath); err != nil {
		return "", fmt.Errorf("%s not found in %s", StateDBName, filepath.Dir(dbPath))
	}
	return dbPath, nil
}

// DiscoverStateDBs walks root for state databases and returns their paths,
// newest first. limit < 0 returns all matches.
func DiscoverStateDBs(root string, limit int) ([]string, error) {
	type found struct {
		path    string
		modTime time.Time
	}
	var matches []found

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.IsDir() && info.Name() == StateDBName {
			matches = append(matches, found{path: path, modTime: info.ModTime()})
		}
		return nil
	})
	if err != nil {
		return nil, &StorageError{Path: root, Op: "open", Err: err}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].modTime.After(matches[j].modTime)
	})
	if limit >= 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, m.path)
	}
	return paths, nil
}
