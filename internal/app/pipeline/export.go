package pipeline

import (
	"context"
	"fmt"

	"subgen/internal/app/model"
	"subgen/internal/app/subtitle"
	"subgen/internal/app/util/files"
)

// Exporter burns subtitles into a re-encoded copy of the source video.
type Exporter struct {
	workspace  *files.Workspace
	transcoder MediaTranscoder
	fetcher    VideoFetcher
}

// NewExporter wires an Exporter.
func NewExporter(ws *files.Workspace, transcoder MediaTranscoder, fetcher VideoFetcher) *Exporter {
	return &Exporter{workspace: ws, transcoder: transcoder, fetcher: fetcher}
}

// ExportInput is one export request: a video source, the subtitle
// segments to render, the style, and the subtitle language (used only for
// naming the intermediate file).
type ExportInput struct {
	Upload     []byte
	UploadName string
	URL        string
	Segments   []model.TranscriptSegment
	Style      subtitle.Style
	Language   string
}

// Run materializes the video, writes the SRT intermediate and delegates
// rendering to the transcoder. The source video and subtitle file are
// scheduled for best-effort deletion; the exported video is the product
// and stays in the outputs directory.
func (e *Exporter) Run(ctx context.Context, in ExportInput) (string, error) {
	if len(in.Segments) == 0 {
		return "", &ClientError{Message: "no subtitles provided"}
	}

	videoPath, err := e.materialize(ctx, in)
	if err != nil {
		return "", err
	}
	defer files.Cleanup(videoPath)

	language := in.Language
	if language == "" {
		language = "en"
	}

	srtPath, err := subtitle.CreateSRTFile(e.workspace.TempDir, language, in.Segments)
	if err != nil {
		return "", fmt.Errorf("failed to write subtitles: %w", err)
	}
	defer files.Cleanup(srtPath)

	outputPath, err := e.transcoder.BurnSubtitles(ctx, videoPath, srtPath, in.Style.Normalize())
	if err != nil {
		return "", fmt.Errorf("video export failed: %w", err)
	}

	return outputPath, nil
}

func (e *Exporter) materialize(ctx context.Context, in ExportInput) (string, error) {
	t := Transcriber{workspace: e.workspace, fetcher: e.fetcher}
	return t.materialize(ctx, TranscribeInput{
		Upload:     in.Upload,
		UploadName: in.UploadName,
		URL:        in.URL,
	})
}
