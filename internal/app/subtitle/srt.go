// Package subtitle emits SubRip subtitle files and holds the rendering
// style configuration for exports.
package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"subgen/internal/app/model"
)

// WriteSRT writes segments as a SubRip document: 1-based index line,
// `HH:MM:SS,mmm --> HH:MM:SS,mmm` timing line, text, blank separator.
// The renderer consumes this format verbatim, so it is not negotiable.
func WriteSRT(w io.Writer, segments []model.TranscriptSegment) error {
	bw := bufio.NewWriter(w)
	for i, seg := range segments {
		if _, err := fmt.Fprintf(bw, "%d\n%s --> %s\n%s\n\n",
			i+1, FormatTimestamp(seg.Start), FormatTimestamp(seg.End), seg.Text); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// CreateSRTFile writes segments into a uniquely named .srt file in dir and
// returns its path.
func CreateSRTFile(dir, language string, segments []model.TranscriptSegment) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("subtitles_%s_%d.srt", language, time.Now().UnixNano()))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create subtitle file: %w", err)
	}
	defer f.Close()

	if err := WriteSRT(f, segments); err != nil {
		return "", fmt.Errorf("failed to write subtitle file: %w", err)
	}

	return path, nil
}

// FormatTimestamp renders seconds as zero-padded HH:MM:SS,mmm, rounded to
// the nearest millisecond.
func FormatTimestamp(seconds float64) string {
	totalMillis := int64(math.Round(seconds * 1000))
	hours := totalMillis / 3_600_000
	minutes := (totalMillis / 60_000) % 60
	secs := (totalMillis / 1000) % 60
	millis := totalMillis % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}
