// Package fetch acquires remote videos for the pipeline via yt-dlp.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// maxHeight caps downloaded resolution to bound processing cost.
const maxHeight = 720

// Downloader fetches remote videos into a local temp directory.
type Downloader struct {
	TempDir string
}

// NewDownloader creates a Downloader writing into tempDir.
func NewDownloader(tempDir string) *Downloader {
	return &Downloader{TempDir: tempDir}
}

// Fetch downloads the video at url and returns the local file path. The
// resolution cap is applied through the format selector; failures surface
// as a client-facing download error.
func (d *Downloader) Fetch(ctx context.Context, url string) (string, error) {
	outputTemplate := filepath.Join(d.TempDir, fmt.Sprintf("video_%s.%%(ext)s", uuid.NewString()))

	args := []string{
		"--no-playlist",
		"-f", fmt.Sprintf("best[height<=%d]", maxHeight),
		"-o", outputTemplate,
		"--print", "after_move:filepath",
		"--no-simulate",
		url,
	}

	cmd := exec.CommandContext(ctx, "yt-dlp", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to download video: %v: %s", err, strings.TrimSpace(stderr.String()))
	}

	path := strings.TrimSpace(stdout.String())
	if path == "" {
		return "", fmt.Errorf("failed to download video: downloader reported no output file")
	}

	return path, nil
}
