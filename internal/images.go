package internal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// ImageExporter copies bubble images into per-tab subdirectories under the
// configured image root. A single exporter instance must own the output
// directory; concurrent runs against the same root are not coordinated.
type ImageExporter struct {
	log *zap.Logger
}

// NewImageExporter creates an ImageExporter.
func NewImageExporter(log *zap.Logger) *ImageExporter {
	return &ImageExporter{log: log}
}

// Export copies the image at srcPath to <imageRoot>/tab_<tabIndex>/<name> and
// returns the new path. A missing source file is reported as an error; the
// caller degrades to an empty image reference.
func (ie *ImageExporter) Export(srcPath, imageRoot string, tabIndex int) (string, error) {
	if _, err := os.Stat(srcPath); err != nil {
		return "", &StorageError{Path: srcPath, Op: "stat", Err: err}
	}

	destDir := filepath.Join(imageRoot, fmt.Sprintf("tab_%d", tabIndex))
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", &StorageError{Path: destDir, Op: "mkdir", Err: err}
	}

	destPath := filepath.Join(destDir, filepath.Base(srcPath))
	if err := copyFile(srcPath, destPath); err != nil {
		return "", &StorageError{Path: destPath, Op: "copy", Err: err}
	}

	ie.log.Debug("copied bubble image",
		zap.String("from", srcPath),
		zap.String("to", destPath))
	return destPath, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
