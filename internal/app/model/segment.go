package model

import "fmt"

// TranscriptSegment is a contiguous span of speech with its transcribed text.
// Start and End are offsets in seconds from the beginning of the audio.
// End is always >= Start; segments from one provider should arrive in
// non-decreasing Start order but are not guaranteed contiguous.
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Valid reports whether the segment timing is well-formed.
func (s TranscriptSegment) Valid() bool {
	return s.Start >= 0 && s.End >= s.Start
}

// TranscriptionResult is the canonical output of one transcription request,
// produced exactly once by whichever provider handled the request.
type TranscriptionResult struct {
	Segments []TranscriptSegment `json:"segments"`
	Language string              `json:"language"`
	Duration float64             `json:"duration"`
}

// ProviderID identifies which speech-to-text backend produced (or will
// produce) a transcription. It is a closed set; the pipeline dispatches
// exhaustively over it.
type ProviderID int

const (
	ProviderUnknown ProviderID = iota
	ProviderLocalModel
	ProviderOpenAI
	ProviderAssemblyAI
	ProviderGoogleSpeech
	ProviderFreeSpeech
	ProviderPlaceholder
)

var providerNames = map[ProviderID]string{
	ProviderLocalModel:   "whisper_cpp",
	ProviderOpenAI:       "openai",
	ProviderAssemblyAI:   "assemblyai",
	ProviderGoogleSpeech: "google_speech",
	ProviderFreeSpeech:   "free_speech",
	ProviderPlaceholder:  "placeholder",
}

// String returns the stable wire name of the provider.
func (p ProviderID) String() string {
	if name, ok := providerNames[p]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(p))
}

// Valid reports whether p names a known backend.
func (p ProviderID) Valid() bool {
	_, ok := providerNames[p]
	return ok
}

// MediaInfo holds the probe result for a video file.
type MediaInfo struct {
	Duration float64 `json:"duration"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	FPS      float64 `json:"fps"`
	Codec    string  `json:"codec"`
}
