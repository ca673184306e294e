// Package dto holds the request and response shapes of the v1 API.
package dto

import (
	"subgen/internal/app/model"
	"subgen/internal/app/subtitle"
)

// TranscriptionResponse is the body returned by POST /transcribe.
type TranscriptionResponse struct {
	Segments []model.TranscriptSegment `json:"segments"`
	Language string                    `json:"language"`
	Duration float64                   `json:"duration"`
}

// TranslationRequest is the body accepted by POST /translate.
type TranslationRequest struct {
	Subtitles      []string `json:"subtitles" binding:"required,min=1"`
	SourceLanguage string   `json:"source_language" binding:"required"`
	TargetLanguage string   `json:"target_language" binding:"required"`
}

// TranslationResponse is the body returned by POST /translate. The
// translations are index-aligned with the request's subtitles.
type TranslationResponse struct {
	Translations []string `json:"translations"`
}

// ExportSubtitle is one subtitle entry in an export request's JSON
// payload. The field names match what the upload UI produces.
type ExportSubtitle struct {
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
	Text      string  `json:"text"`
}

// Segment converts the wire shape to the canonical segment.
func (s ExportSubtitle) Segment() model.TranscriptSegment {
	return model.TranscriptSegment{Start: s.StartTime, End: s.EndTime, Text: s.Text}
}

// ExportSettings is the style portion of an export request.
type ExportSettings struct {
	Quality   string `json:"quality"`
	FontSize  string `json:"fontSize"`
	FontColor string `json:"fontColor"`
	Position  string `json:"position"`
}

// Style converts the wire settings to a subtitle style; unknown values
// are normalized to defaults downstream.
func (s ExportSettings) Style() subtitle.Style {
	return subtitle.Style{
		Quality:   subtitle.Quality(s.Quality),
		FontSize:  subtitle.FontSize(s.FontSize),
		FontColor: s.FontColor,
		Position:  subtitle.Position(s.Position),
	}
}

// ExportResponse is the body returned by POST /export.
type ExportResponse struct {
	DownloadURL string `json:"download_url"`
	Filename    string `json:"filename"`
}
