package internal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestMarkdownSaver_Save(t *testing.T) {
	dir := t.TempDir()
	saver := NewMarkdownSaver(dir, zap.NewNop())

	if err := saver.Save("chat_1", "# Chat Transcript - T\n"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "chat_1.md"))
	if err != nil {
		t.Fatalf("saved file not readable: %v", err)
	}
	if string(data) != "# Chat Transcript - T\n" {
		t.Errorf("saved content = %q", data)
	}
}

func TestMarkdownSaver_BadDirectory(t *testing.T) {
	saver := NewMarkdownSaver(filepath.Join(t.TempDir(), "does", "not", "exist"), zap.NewNop())

	err := saver.Save("chat_1", "body")
	if err == nil {
		t.Fatal("Save() = nil error, want write failure")
	}
	var exportErr *ExportError
	if !errors.As(err, &exportErr) {
		t.Errorf("Save() error = %T, want *ExportError", err)
	}
}

type flakySaver struct {
	failOn string
	saved  []string
}

func (f *flakySaver) Save(name, body string) error {
	if name == f.failOn {
		return errors.New("disk full")
	}
	f.saved = append(f.saved, name)
	return nil
}

func TestSaveAll_ContinuesPastFailures(t *testing.T) {
	docs := []Document{
		{Name: "chat_1", Body: "a"},
		{Name: "chat_2", Body: "b"},
		{Name: "chat_3", Body: "c"},
	}
	saver := &flakySaver{failOn: "chat_2"}

	saved := SaveAll(saver, docs, zap.NewNop())
	if saved != 2 {
		t.Errorf("SaveAll() = %d, want 2", saved)
	}
	if len(saver.saved) != 2 || saver.saved[0] != "chat_1" || saver.saved[1] != "chat_3" {
		t.Errorf("saved documents = %v", saver.saved)
	}
}
