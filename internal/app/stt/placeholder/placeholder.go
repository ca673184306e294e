// Package placeholder provides a deterministic stand-in transcription
// backend. It takes no network action and exists so the full pipeline can
// be exercised end-to-end without any live dependency.
package placeholder

import (
	"context"
	"fmt"
	"os"

	"subgen/internal/app/model"
	"subgen/internal/app/stt"
)

// Transcriber returns two fixed illustrative segments for any readable
// audio file.
type Transcriber struct{}

// New creates a placeholder transcriber.
func New() *Transcriber {
	return &Transcriber{}
}

// Transcribe returns the canned segments. The input file must exist; a
// missing file is the one failure mode this backend has.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string, language string) (*model.TranscriptionResult, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return nil, stt.NewProviderError(model.ProviderPlaceholder,
			fmt.Sprintf("audio file not found: %s", audioPath), err)
	}

	return &model.TranscriptionResult{
		Segments: []model.TranscriptSegment{
			{Start: 0, End: 5, Text: "This is a placeholder transcription."},
			{Start: 5, End: 10, Text: "Configure a speech-to-text provider for real results."},
		},
		Language: "en",
		Duration: 10,
	}, nil
}
