// Package media wraps the external ffmpeg/ffprobe tools behind the
// capabilities the pipeline needs: audio extraction, subtitle burn-in,
// probing and thumbnails.
package media

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"subgen/internal/app/subtitle"
)

// Transcoder shells out to ffmpeg. OutputDir receives exported videos and
// thumbnails; extracted audio lands next to its source video.
type Transcoder struct {
	OutputDir string
}

// NewTranscoder creates a Transcoder writing exports into outputDir.
func NewTranscoder(outputDir string) *Transcoder {
	return &Transcoder{OutputDir: outputDir}
}

// ExtractAudio produces a mono 16kHz signed 16-bit PCM WAV next to the
// video. If the strict profile fails it retries once with a permissive
// profile (default stream mapping, decode errors ignored) before giving up.
func (t *Transcoder) ExtractAudio(ctx context.Context, videoPath string) (string, error) {
	wavPath := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + "_audio.wav"

	strict := []string{
		"-i", videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", "16000",
		"-y", wavPath,
	}
	if err := runFFmpeg(ctx, strict); err != nil {
		slog.Warn("audio extraction failed, retrying with permissive profile", "video", videoPath, "error", err)

		permissive := []string{
			"-err_detect", "ignore_err",
			"-i", videoPath,
			"-vn",
			"-acodec", "pcm_s16le",
			"-ac", "1",
			"-ar", "16000",
			"-map", "0:a:0?",
			"-y", wavPath,
		}
		if retryErr := runFFmpeg(ctx, permissive); retryErr != nil {
			return "", fmt.Errorf("audio extraction failed: %w", retryErr)
		}
	}

	return wavPath, nil
}

// qualityOptions is the fixed mapping from the requested export quality to
// ffmpeg encode settings.
type qualityOptions struct {
	crf    string
	preset string
	scale  string
}

var qualityMap = map[subtitle.Quality]qualityOptions{
	subtitle.QualityLow:    {crf: "28", preset: "fast", scale: "1280:720"},
	subtitle.QualityMedium: {crf: "23", preset: "medium", scale: "1920:1080"},
	subtitle.QualityHigh:   {crf: "18", preset: "slow", scale: "2560:1440"},
}

var fontSizeMap = map[subtitle.FontSize]int{
	subtitle.FontSizeSmall:  20,
	subtitle.FontSizeMedium: 28,
	subtitle.FontSizeLarge:  36,
}

// Legacy SSA alignment codes: 2 bottom-center, 6 top-center, 10 middle-center.
var alignmentMap = map[subtitle.Position]string{
	subtitle.PositionBottom: "Alignment=2",
	subtitle.PositionTop:    "Alignment=6",
	subtitle.PositionCenter: "Alignment=10",
}

// BurnSubtitles re-encodes the video with the subtitle file rendered into
// the pixels, returning the output path. Any ffmpeg failure is surfaced as
// a single wrapped error; there is no retry on this path.
func (t *Transcoder) BurnSubtitles(ctx context.Context, videoPath, subtitlePath string, style subtitle.Style) (string, error) {
	videoName := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	outputPath := filepath.Join(t.OutputDir, fmt.Sprintf("%s_with_subtitles_%d.mp4", videoName, time.Now().Unix()))

	quality := qualityMap[style.Quality]
	fontSize := fontSizeMap[style.FontSize]
	alignment := alignmentMap[style.Position]

	subtitleFilter := fmt.Sprintf(
		"subtitles=%s:force_style='FontSize=%d,PrimaryColour=&H%s&,OutlineColour=&H000000&,Outline=2,%s'",
		subtitlePath, fontSize, hexToASSColor(style.FontColor), alignment,
	)

	args := []string{
		"-i", videoPath,
		"-vcodec", "libx264",
		"-acodec", "aac",
		"-crf", quality.crf,
		"-preset", quality.preset,
		"-vf", fmt.Sprintf("scale=%s,%s", quality.scale, subtitleFilter),
		"-movflags", "faststart",
		"-y", outputPath,
	}

	if err := runFFmpeg(ctx, args); err != nil {
		return "", fmt.Errorf("subtitle burn-in failed: %w", err)
	}

	return outputPath, nil
}

// Thumbnail grabs a single frame at the given timestamp as a JPEG in the
// output directory.
func (t *Transcoder) Thumbnail(ctx context.Context, videoPath string, timestamp float64) (string, error) {
	thumbPath := filepath.Join(t.OutputDir, fmt.Sprintf("thumb_%d.jpg", time.Now().UnixNano()))

	args := []string{
		"-ss", fmt.Sprintf("%.3f", timestamp),
		"-i", videoPath,
		"-vframes", "1",
		"-q:v", "2",
		"-y", thumbPath,
	}
	if err := runFFmpeg(ctx, args); err != nil {
		return "", fmt.Errorf("thumbnail generation failed: %w", err)
	}

	return thumbPath, nil
}

// hexToASSColor converts a web hex triplet (with or without leading #) to
// the BGR hex order the ASS subtitle renderer expects. The conversion must
// be bit-exact since it feeds the filter string: #ff0000 becomes 0000FF.
func hexToASSColor(hexColor string) string {
	hexColor = strings.TrimPrefix(hexColor, "#")
	if len(hexColor) != 6 {
		return "FFFFFF"
	}
	r, g, b := hexColor[0:2], hexColor[2:4], hexColor[4:6]
	return strings.ToUpper(b + g + r)
}

// runFFmpeg executes ffmpeg with the given args, capturing stderr for the
// error message.
func runFFmpeg(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg error: %v, stderr: %s", err, truncate(stderr.String(), 500))
	}
	return nil
}

// ValidateAudioFile fails fast when the extracted WAV is missing or empty.
func ValidateAudioFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("extracted audio not found: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("extracted audio file is empty: %s", path)
	}
	return nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
