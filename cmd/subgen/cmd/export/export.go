package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"subgen/internal/app/fetch"
	"subgen/internal/app/media"
	"subgen/internal/app/model"
	"subgen/internal/app/pipeline"
	"subgen/internal/app/subtitle"
	"subgen/internal/app/util/files"
	"subgen/internal/config"
)

var (
	videoPath     string
	subtitlesPath string
	outputDir     string
	quality       string
	fontSize      string
	fontColor     string
	position      string
	language      string
)

func init() {
	Cmd.Flags().StringVarP(&videoPath, "video", "i", "", "source video file")
	Cmd.Flags().StringVarP(&subtitlesPath, "subtitles", "s", "",
		"JSON file with subtitle entries: [{\"startTime\":0,\"endTime\":5,\"text\":\"...\"}]")
	Cmd.Flags().StringVarP(&outputDir, "output", "o", "outputs", "directory the exported video is written to")
	Cmd.Flags().StringVar(&quality, "quality", string(subtitle.QualityMedium), "encode quality: low, medium or high")
	Cmd.Flags().StringVar(&fontSize, "font-size", string(subtitle.FontSizeMedium), "subtitle font size: small, medium or large")
	Cmd.Flags().StringVar(&fontColor, "font-color", "#ffffff", "subtitle color as #rrggbb")
	Cmd.Flags().StringVar(&position, "position", string(subtitle.PositionBottom), "subtitle position: bottom, center or top")
	Cmd.Flags().StringVarP(&language, "language", "l", "en", "subtitle language code")

	Cmd.MarkFlagRequired("video")
	Cmd.MarkFlagRequired("subtitles")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Burn subtitles into a video file",
	Long: `Burn subtitles into a video file

Reads subtitle entries from a JSON file and renders them into a
re-encoded copy of the video with ffmpeg.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Load()
		if err != nil {
			return err
		}

		workspace, err := files.NewWorkspace(settings.UploadsDir, outputDir, settings.TempDir)
		if err != nil {
			return err
		}

		segments, err := readSubtitles(subtitlesPath)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(videoPath)
		if err != nil {
			return err
		}

		transcoder := &media.Transcoder{OutputDir: workspace.OutputsDir}
		fetcher := &fetch.Downloader{TempDir: workspace.TempDir}
		exporter := pipeline.NewExporter(workspace, transcoder, fetcher)

		outputPath, err := exporter.Run(cmd.Context(), pipeline.ExportInput{
			Upload:     data,
			UploadName: filepath.Base(videoPath),
			Segments:   segments,
			Language:   language,
			Style: subtitle.Style{
				Quality:   subtitle.Quality(quality),
				FontSize:  subtitle.FontSize(fontSize),
				FontColor: fontColor,
				Position:  subtitle.Position(position),
			},
		})
		if err != nil {
			return err
		}

		fmt.Printf("export finished, exported file path: %v\n", outputPath)
		return nil
	},
}

type subtitleEntry struct {
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
	Text      string  `json:"text"`
}

func readSubtitles(path string) ([]model.TranscriptSegment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []subtitleEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("invalid subtitles file %s: %w", path, err)
	}

	return lo.Map(entries, func(e subtitleEntry, _ int) model.TranscriptSegment {
		return model.TranscriptSegment{Start: e.StartTime, End: e.EndTime, Text: e.Text}
	}), nil
}
