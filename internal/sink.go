package internal

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Saver persists one named document. The destination directory is guaranteed
// to exist before the first call.
type Saver interface {
	Save(name, body string) error
}

// MarkdownSaver writes documents as <dir>/<name>.md.
type MarkdownSaver struct {
	Dir string
	log *zap.Logger
}

// NewMarkdownSaver creates a MarkdownSaver writing into dir.
func NewMarkdownSaver(dir string, log *zap.Logger) *MarkdownSaver {
	return &MarkdownSaver{Dir: dir, log: log}
}

// Save writes one document.
func (s *MarkdownSaver) Save(name, body string) error {
	path := filepath.Join(s.Dir, name+".md")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		return &ExportError{Format: "md", Path: path, Err: err}
	}
	s.log.Info("saved chat document", zap.String("path", path))
	return nil
}

// SaveAll writes every document, logging per-document failures without
// aborting the rest. Returns the number saved.
func SaveAll(saver Saver, docs []Document, log *zap.Logger) int {
	saved := 0
	for _, doc := range docs {
		if err := saver.Save(doc.Name, doc.Body); err != nil {
			log.Error("failed to save document", zap.String("name", doc.Name), zap.Error(err))
			continue
		}
		saved++
	}
	return saved
}
