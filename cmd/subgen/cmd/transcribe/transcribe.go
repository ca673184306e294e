package transcribe

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"subgen/internal/app/fetch"
	"subgen/internal/app/media"
	"subgen/internal/app/pipeline"
	"subgen/internal/app/stt"
	"subgen/internal/app/subtitle"
	"subgen/internal/app/util/files"
	"subgen/internal/config"
)

var (
	language  string
	outputDir string
	parallel  int
	progress  bool
)

func init() {
	Cmd.Flags().StringVarP(&language, "language", "l", stt.LanguageAuto,
		"source language code, or 'auto' to detect")
	Cmd.Flags().StringVarP(&outputDir, "output", "o", "outputs",
		"directory the generated .srt files are written to")
	Cmd.Flags().IntVarP(&parallel, "parallel", "p", 1,
		"number of videos transcribed concurrently")
	Cmd.Flags().BoolVar(&progress, "progress", false,
		"force the progress bar even when stderr is not a terminal")
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe [video file or URL]...",
	Short: "Transcribe video files or URLs and write SRT subtitles",
	Long: `Transcribe video files or URLs and write SRT subtitles

- Extracts a mono 16 kHz audio track from each video with ffmpeg
- Transcribes it with the configured speech-to-text provider
- Writes one .srt file per input into the output directory`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Load()
		if err != nil {
			return err
		}

		workspace, err := files.NewWorkspace(settings.UploadsDir, outputDir, settings.TempDir)
		if err != nil {
			return err
		}

		transcoder := &media.Transcoder{OutputDir: workspace.OutputsDir}
		fetcher := &fetch.Downloader{TempDir: workspace.TempDir}
		transcriber := pipeline.NewTranscriber(settings, workspace, transcoder, fetcher)

		pm := pipeline.NewProgressManager(pipeline.ShouldShowProgress(progress), os.Stderr)
		bar := pm.CreateBar(len(args), "Transcribing")
		defer pm.Wait()

		var wg sync.WaitGroup
		sem := make(chan bool, parallel)
		var mu sync.Mutex
		var failed int

		for _, source := range args {
			wg.Add(1)
			go func(source string) {
				defer wg.Done()
				defer bar.Increment()

				sem <- true
				err := transcribeOne(cmd.Context(), transcriber, source)
				<-sem

				if err != nil {
					log.Printf("Error transcribing %s: %v\n", source, err)
					mu.Lock()
					failed++
					mu.Unlock()
				}
			}(source)
		}
		wg.Wait()

		if failed > 0 {
			return fmt.Errorf("%d of %d inputs failed", failed, len(args))
		}
		return nil
	},
}

func transcribeOne(ctx context.Context, transcriber *pipeline.Transcriber, source string) error {
	in := pipeline.TranscribeInput{Language: language}

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		in.URL = source
	} else {
		data, err := os.ReadFile(source)
		if err != nil {
			return err
		}
		in.Upload = data
		in.UploadName = filepath.Base(source)
	}

	result, err := transcriber.Run(ctx, in)
	if err != nil {
		return err
	}

	srtPath, err := subtitle.CreateSRTFile(outputDir, result.Language, result.Segments)
	if err != nil {
		return err
	}

	log.Printf("Transcribed %s (%d segments) -> %s\n", source, len(result.Segments), srtPath)
	return nil
}
