package main

import (
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// writeFile replaces file content atomically, creating parent directories as needed.
func writeFile(path string, content []byte) error {
	if e := os.MkdirAll(filepath.Dir(path), 0o755); e != nil {
		return e
	}

	return renameio.WriteFile(path, content, 0o644, renameio.WithStaticPermissions(0o644))
}
