// Package stt defines the shared contract for speech-to-text backends and
// the selection logic that picks one backend per transcription request.
package stt

import (
	"context"
	"fmt"

	"subgen/internal/app/model"
)

// LanguageAuto is the sentinel language value meaning "let the backend
// detect the spoken language".
const LanguageAuto = "auto"

// Provider converts an audio file into a time-aligned transcript.
//
// The audio path must refer to an existing, non-empty, mono 16kHz
// pcm_s16le WAV file. language is a two-letter code or LanguageAuto.
// Implementations never retry internally; a backend failure surfaces as a
// *ProviderError and fallback policy belongs to the caller.
type Provider interface {
	Transcribe(ctx context.Context, audioPath string, language string) (*model.TranscriptionResult, error)
}

// ProviderError wraps a backend failure with the identity of the backend
// that produced it.
type ProviderError struct {
	Provider model.ProviderID
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError builds a ProviderError for the given backend.
func NewProviderError(p model.ProviderID, message string, err error) *ProviderError {
	return &ProviderError{Provider: p, Message: message, Err: err}
}

// WholeFileResult synthesizes a single-segment result for backends that
// return a transcript without any timing information. duration may be 0
// when the total length is unknown.
func WholeFileResult(text, language string, duration float64) *model.TranscriptionResult {
	return &model.TranscriptionResult{
		Segments: []model.TranscriptSegment{
			{Start: 0, End: duration, Text: text},
		},
		Language: language,
		Duration: duration,
	}
}
