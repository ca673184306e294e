// Package files manages the working directories for request-scoped
// artifacts: uploaded videos, extracted audio, subtitle files and
// exported videos.
package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Workspace holds the three working directories. There is no database;
// everything under these directories is transient request state, except
// outputs which live until an operator prunes them.
type Workspace struct {
	UploadsDir string
	OutputsDir string
	TempDir    string
}

// NewWorkspace creates the working directories if absent.
func NewWorkspace(uploadsDir, outputsDir, tempDir string) (*Workspace, error) {
	ws := &Workspace{
		UploadsDir: uploadsDir,
		OutputsDir: outputsDir,
		TempDir:    tempDir,
	}
	for _, dir := range []string{uploadsDir, outputsDir, tempDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return ws, nil
}

// SaveUpload writes uploaded bytes into the uploads directory under a
// unique name derived from the client filename.
func (ws *Workspace) SaveUpload(filename string, data []byte) (string, error) {
	path := filepath.Join(ws.UploadsDir, uniqueName(filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}
	return path, nil
}

// Cleanup removes a transient file. Deletion is best-effort: failures are
// logged and never escalate to the caller.
func Cleanup(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to clean up file", "path", path, "error", err)
	}
}

// uniqueName prefixes the sanitized client filename with a UUID so
// concurrent uploads of the same name cannot collide.
func uniqueName(filename string) string {
	base := filepath.Base(filename)
	base = strings.ReplaceAll(base, "..", "_")
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "upload.mp4"
	}
	return uuid.NewString() + "_" + base
}
