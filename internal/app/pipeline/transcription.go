// Package pipeline owns the request-level flows: video in, transcript or
// subtitled video out. One request is one pipeline execution; there is no
// queueing and no mid-pipeline cancellation once a provider is dispatched.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"subgen/internal/app/fetch"
	"subgen/internal/app/media"
	"subgen/internal/app/model"
	"subgen/internal/app/stt"
	"subgen/internal/app/stt/assemblyai"
	"subgen/internal/app/stt/freespeech"
	"subgen/internal/app/stt/googlespeech"
	"subgen/internal/app/stt/openaiwhisper"
	"subgen/internal/app/stt/placeholder"
	"subgen/internal/app/stt/whispercpp"
	"subgen/internal/app/subtitle"
	"subgen/internal/app/util/files"
	"subgen/internal/config"
)

// ClientError marks failures caused by the request itself rather than any
// backend, so the HTTP layer can answer with a 4xx.
type ClientError struct {
	Message string
	Err     error
}

func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ClientError) Unwrap() error { return e.Err }

// MediaTranscoder is the subset of the external transcoder the pipeline
// depends on.
type MediaTranscoder interface {
	ExtractAudio(ctx context.Context, videoPath string) (string, error)
	BurnSubtitles(ctx context.Context, videoPath, subtitlePath string, style subtitle.Style) (string, error)
}

// VideoFetcher acquires a remote video into a local file.
type VideoFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Providers holds one adapter per backend so dispatch stays exhaustive
// over the closed ProviderID set.
type Providers struct {
	LocalModel   stt.Provider
	OpenAI       stt.Provider
	AssemblyAI   stt.Provider
	GoogleSpeech stt.Provider
	FreeSpeech   stt.Provider
	Placeholder  stt.Provider
}

// DefaultProviders constructs the live adapter set from configuration.
func DefaultProviders(cfg *config.Settings) Providers {
	return Providers{
		LocalModel:   whispercpp.New(cfg.WhisperBinary, cfg.WhisperModel),
		OpenAI:       openaiwhisper.New(cfg.OpenAIKey),
		AssemblyAI:   assemblyai.New(cfg.AssemblyAIKey),
		GoogleSpeech: googlespeech.New(cfg.GoogleSpeechKey),
		FreeSpeech:   freespeech.New(),
		Placeholder:  placeholder.New(),
	}
}

// Transcriber runs the end-to-end transcription flow.
type Transcriber struct {
	cfg        *config.Settings
	workspace  *files.Workspace
	transcoder MediaTranscoder
	fetcher    VideoFetcher
	providers  Providers
}

// NewTranscriber wires a Transcriber with the live provider set.
func NewTranscriber(cfg *config.Settings, ws *files.Workspace, transcoder MediaTranscoder, fetcher VideoFetcher) *Transcriber {
	return &Transcriber{
		cfg:        cfg,
		workspace:  ws,
		transcoder: transcoder,
		fetcher:    fetcher,
		providers:  DefaultProviders(cfg),
	}
}

// NewTranscriberWithProviders wires explicit adapters, used by tests.
func NewTranscriberWithProviders(cfg *config.Settings, ws *files.Workspace, transcoder MediaTranscoder, fetcher VideoFetcher, providers Providers) *Transcriber {
	return &Transcriber{
		cfg:        cfg,
		workspace:  ws,
		transcoder: transcoder,
		fetcher:    fetcher,
		providers:  providers,
	}
}

// TranscribeInput is one transcription request: either uploaded bytes or
// a remote URL, plus the requested language ("auto" to detect).
type TranscribeInput struct {
	Upload     []byte
	UploadName string
	URL        string
	Language   string
}

// Run executes the full flow: materialize the video, extract audio,
// select a provider, transcribe, normalize. Both intermediates are
// scheduled for best-effort deletion on every path.
//
// A provider failure ends the request; there is no automatic
// cross-provider retry.
func (t *Transcriber) Run(ctx context.Context, in TranscribeInput) (*model.TranscriptionResult, error) {
	videoPath, err := t.materialize(ctx, in)
	if err != nil {
		return nil, err
	}
	defer files.Cleanup(videoPath)

	audioPath, err := t.transcoder.ExtractAudio(ctx, videoPath)
	if audioPath != "" {
		defer files.Cleanup(audioPath)
	}
	if err != nil {
		return nil, fmt.Errorf("audio extraction failed: %w", err)
	}

	if err := media.ValidateAudioFile(audioPath); err != nil {
		return nil, err
	}

	id := stt.Select(t.cfg)
	provider, err := t.dispatch(id)
	if err != nil {
		return nil, err
	}

	language := in.Language
	if language == "" {
		language = "en"
	}

	slog.Info("transcribing", "provider", id.String(), "language", language, "audio", audioPath)

	start := time.Now()
	result, err := provider.Transcribe(ctx, audioPath, language)
	if err != nil {
		stt.RecordFailure(id)
		return nil, fmt.Errorf("transcription failed: %w", err)
	}
	stt.RecordSuccess(id, time.Since(start))

	for i := range result.Segments {
		result.Segments[i].Text = strings.TrimSpace(result.Segments[i].Text)
	}

	return result, nil
}

// dispatch maps the selected identity to its adapter. The switch covers
// the whole closed set; an unknown identity is a programming error.
func (t *Transcriber) dispatch(id model.ProviderID) (stt.Provider, error) {
	switch id {
	case model.ProviderLocalModel:
		return t.providers.LocalModel, nil
	case model.ProviderOpenAI:
		return t.providers.OpenAI, nil
	case model.ProviderAssemblyAI:
		return t.providers.AssemblyAI, nil
	case model.ProviderGoogleSpeech:
		return t.providers.GoogleSpeech, nil
	case model.ProviderFreeSpeech:
		return t.providers.FreeSpeech, nil
	case model.ProviderPlaceholder:
		return t.providers.Placeholder, nil
	case model.ProviderUnknown:
		return nil, fmt.Errorf("no provider selected")
	default:
		return nil, fmt.Errorf("no adapter for provider %s", id)
	}
}

// materialize writes the request's video to local disk. When both an
// upload and a URL are supplied the upload wins; the URL is ignored.
func (t *Transcriber) materialize(ctx context.Context, in TranscribeInput) (string, error) {
	switch {
	case len(in.Upload) > 0:
		name := in.UploadName
		if name == "" {
			name = "upload.mp4"
		}
		path, err := t.workspace.SaveUpload(name, in.Upload)
		if err != nil {
			return "", fmt.Errorf("failed to store upload: %w", err)
		}
		return path, nil
	case in.URL != "":
		path, err := t.fetcher.Fetch(ctx, in.URL)
		if err != nil {
			return "", &ClientError{Message: "could not download video", Err: err}
		}
		return path, nil
	default:
		return "", &ClientError{Message: "either a video file or a video URL must be provided"}
	}
}

// Compile-time checks that the live implementations satisfy the pipeline
// capability interfaces.
var (
	_ MediaTranscoder = (*media.Transcoder)(nil)
	_ VideoFetcher    = (*fetch.Downloader)(nil)
)
