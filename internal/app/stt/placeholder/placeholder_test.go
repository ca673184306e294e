package placeholder

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subgen/internal/app/stt"
)

func TestTranscribeReturnsCannedSegments(t *testing.T) {
	audioPath := filepath.Join(t.TempDir(), "audio.wav")
	require.NoError(t, os.WriteFile(audioPath, []byte("not real audio"), 0o644))

	result, err := New().Transcribe(context.Background(), audioPath, "auto")
	require.NoError(t, err)

	require.Len(t, result.Segments, 2)
	assert.Equal(t, 0.0, result.Segments[0].Start)
	assert.Equal(t, 5.0, result.Segments[0].End)
	assert.Equal(t, "This is a placeholder transcription.", result.Segments[0].Text)
	assert.Equal(t, 5.0, result.Segments[1].Start)
	assert.Equal(t, 10.0, result.Segments[1].End)
	assert.Equal(t, "en", result.Language)
	assert.Equal(t, 10.0, result.Duration)
}

func TestTranscribeIsDeterministic(t *testing.T) {
	audioPath := filepath.Join(t.TempDir(), "audio.wav")
	require.NoError(t, os.WriteFile(audioPath, []byte("x"), 0o644))

	first, err := New().Transcribe(context.Background(), audioPath, "en")
	require.NoError(t, err)
	second, err := New().Transcribe(context.Background(), audioPath, "fr")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTranscribeMissingFile(t *testing.T) {
	_, err := New().Transcribe(context.Background(), filepath.Join(t.TempDir(), "missing.wav"), "en")
	require.Error(t, err)

	var provErr *stt.ProviderError
	assert.ErrorAs(t, err, &provErr)
}
