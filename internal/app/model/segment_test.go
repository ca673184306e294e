package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranscriptSegmentValid(t *testing.T) {
	assert.True(t, TranscriptSegment{Start: 0, End: 5}.Valid())
	assert.True(t, TranscriptSegment{Start: 2, End: 2}.Valid())
	assert.False(t, TranscriptSegment{Start: 5, End: 2}.Valid())
	assert.False(t, TranscriptSegment{Start: -1, End: 2}.Valid())
}

func TestProviderIDString(t *testing.T) {
	assert.Equal(t, "whisper_cpp", ProviderLocalModel.String())
	assert.Equal(t, "openai", ProviderOpenAI.String())
	assert.Equal(t, "assemblyai", ProviderAssemblyAI.String())
	assert.Equal(t, "google_speech", ProviderGoogleSpeech.String())
	assert.Equal(t, "free_speech", ProviderFreeSpeech.String())
	assert.Equal(t, "placeholder", ProviderPlaceholder.String())
	assert.Equal(t, "unknown(0)", ProviderUnknown.String())
}

func TestProviderIDValid(t *testing.T) {
	for _, p := range []ProviderID{
		ProviderLocalModel, ProviderOpenAI, ProviderAssemblyAI,
		ProviderGoogleSpeech, ProviderFreeSpeech, ProviderPlaceholder,
	} {
		assert.True(t, p.Valid(), "%v", p)
	}
	assert.False(t, ProviderUnknown.Valid())
	assert.False(t, ProviderID(99).Valid())
}
