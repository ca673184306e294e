// Package openaiwhisper implements the hosted OpenAI Whisper API backend.
package openaiwhisper

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"subgen/internal/app/model"
	"subgen/internal/app/stt"
)

// Transcriber calls the OpenAI transcription endpoint in verbose mode so
// the response carries segment-level timestamps.
type Transcriber struct {
	client *openai.Client
}

// New creates an OpenAI transcriber with the given API key.
func New(apiKey string) *Transcriber {
	return &Transcriber{client: openai.NewClient(apiKey)}
}

// NewWithClient creates a transcriber around an existing client, mainly
// for tests running against a local server.
func NewWithClient(client *openai.Client) *Transcriber {
	return &Transcriber{client: client}
}

// Transcribe requests a verbose transcription and maps the native segment
// objects 1:1 into the canonical form. When the API returns no segments it
// synthesizes a single whole-file segment from the reported duration.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string, language string) (*model.TranscriptionResult, error) {
	req := openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	}
	if language != "" && language != stt.LanguageAuto {
		req.Language = language
	}

	resp, err := t.client.CreateTranscription(ctx, req)
	if err != nil {
		return nil, stt.NewProviderError(model.ProviderOpenAI, apiErrorMessage(err), err)
	}

	result := &model.TranscriptionResult{
		Language: resp.Language,
		Duration: resp.Duration,
	}
	if result.Language == "" {
		result.Language = language
	}

	for _, seg := range resp.Segments {
		result.Segments = append(result.Segments, model.TranscriptSegment{
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		})
	}

	// Some responses carry only the flat text; keep the contract of at
	// least one segment spanning the whole file.
	if len(result.Segments) == 0 {
		return stt.WholeFileResult(resp.Text, result.Language, resp.Duration), nil
	}

	return result, nil
}

// apiErrorMessage extracts a human-readable diagnostic from the OpenAI
// client error types.
func apiErrorMessage(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 401:
			return "OpenAI API key is invalid or missing"
		case 429:
			return "OpenAI API rate limit exceeded"
		case 413:
			return "audio file is too large for the OpenAI API"
		default:
			return fmt.Sprintf("OpenAI API error: %v", apiErr.Message)
		}
	}
	return strings.TrimSpace(fmt.Sprintf("transcription request failed: %v", err))
}
