package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultChatQuery selects the chat-bearing rows of ItemTable.
const DefaultChatQuery = "SELECT [key], value FROM ItemTable WHERE [key] IN (" +
	"'workbench.panel.aichat.view.aichat.chatdata', " +
	"'composer.composerData', " +
	"'aiService.prompts', " +
	"'aiService.generations')"

// Config holds the optional YAML configuration. Every field has a built-in
// default; a missing config file is not an error.
type Config struct {
	// AIChatQuery overrides the ItemTable query.
	AIChatQuery string `yaml:"aichat_query"`
	// WorkspaceStorageDirs maps GOOS names to the workspace storage
	// directory. Values may use ~ and environment variables.
	WorkspaceStorageDirs map[string]string `yaml:"default_vscdb_dir_paths"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		AIChatQuery: DefaultChatQuery,
		WorkspaceStorageDirs: map[string]string{
			"darwin":  "~/Library/Application Support/Cursor/User/workspaceStorage",
			"linux":   "~/.config/Cursor/User/workspaceStorage",
			"windows": "$APPDATA/Cursor/User/workspaceStorage",
		},
	}
}

// LoadConfig reads the YAML config at path, falling back to defaults for the
// file itself and for any field the file leaves empty. path == "" skips the
// file entirely.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, &ParseError{Key: path, Err: err}
	}

	if fileCfg.AIChatQuery != "" {
		cfg.AIChatQuery = fileCfg.AIChatQuery
	}
	if len(fileCfg.WorkspaceStorageDirs) > 0 {
		cfg.WorkspaceStorageDirs = fileCfg.WorkspaceStorageDirs
	}
	return cfg, nil
}

// WorkspaceStorageDir resolves the workspace storage directory for the
// current operating system.
func (c *Config) WorkspaceStorageDir() (string, error) {
	return c.workspaceStorageDirFor(runtime.GOOS)
}

func (c *Config) workspaceStorageDirFor(goos string) (string, error) {
	dir, ok := c.WorkspaceStorageDirs[goos]
	if !ok {
		return "", fmt.Errorf("unsupported operating system: %s", goos)
	}
	return expandPath(dir)
}

// expandPath expands a leading ~ and any environment variables.
func expandPath(path string) (string, error) {
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path, nil
}
