package assemblyai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subgen/internal/app/model"
	"subgen/internal/app/stt"
)

func secondWords(n int) []word {
	words := make([]word, n)
	for i := range words {
		words[i] = word{
			Text:  fmt.Sprintf("w%d", i),
			Start: int64(i) * 1000,
			End:   int64(i+1) * 1000,
		}
	}
	return words
}

func TestGroupWords(t *testing.T) {
	t.Run("25s of one-second words yields three segments", func(t *testing.T) {
		segments := groupWords(secondWords(25), segmentThreshold)
		require.Len(t, segments, 3)

		assert.Equal(t, 0.0, segments[0].Start)
		assert.Equal(t, 10.0, segments[0].End)
		assert.Equal(t, 10.0, segments[1].Start)
		assert.Equal(t, 20.0, segments[1].End)
		assert.Equal(t, 20.0, segments[2].Start)
		assert.Equal(t, 25.0, segments[2].End)
	})

	t.Run("words are space joined in order", func(t *testing.T) {
		segments := groupWords([]word{
			{Text: "hello", Start: 0, End: 400},
			{Text: "there", Start: 450, End: 900},
		}, segmentThreshold)
		require.Len(t, segments, 1)
		assert.Equal(t, "hello there", segments[0].Text)
	})

	t.Run("trailing partial segment is flushed", func(t *testing.T) {
		segments := groupWords(secondWords(3), segmentThreshold)
		require.Len(t, segments, 1)
		assert.Equal(t, 3.0, segments[0].End)
	})

	t.Run("empty input yields no segments", func(t *testing.T) {
		assert.Empty(t, groupWords(nil, segmentThreshold))
	})

	t.Run("single long word closes its own segment", func(t *testing.T) {
		segments := groupWords([]word{
			{Text: "long", Start: 0, End: 12_000},
			{Text: "next", Start: 12_000, End: 12_500},
		}, segmentThreshold)
		require.Len(t, segments, 2)
		assert.Equal(t, "long", segments[0].Text)
		assert.Equal(t, "next", segments[1].Text)
	})
}

// fakeAPI implements the three endpoints the adapter touches.
func fakeAPI(t *testing.T, job transcriptResponse, pollsUntilDone int) *httptest.Server {
	t.Helper()
	var polls int

	mux := http.NewServeMux()
	mux.HandleFunc("/v2/upload", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(uploadResponse{UploadURL: "https://cdn.example/upload/1"})
	})
	mux.HandleFunc("/v2/transcript", func(w http.ResponseWriter, r *http.Request) {
		var req transcriptRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://cdn.example/upload/1", req.AudioURL)
		json.NewEncoder(w).Encode(transcriptResponse{ID: "job-1", Status: "queued"})
	})
	mux.HandleFunc("/v2/transcript/job-1", func(w http.ResponseWriter, r *http.Request) {
		polls++
		if polls < pollsUntilDone {
			json.NewEncoder(w).Encode(transcriptResponse{ID: "job-1", Status: "processing"})
			return
		}
		json.NewEncoder(w).Encode(job)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF fake audio"), 0o644))
	return path
}

func TestTranscribe(t *testing.T) {
	job := transcriptResponse{
		ID:            "job-1",
		Status:        "completed",
		Text:          "hello there general",
		LanguageCode:  "en",
		AudioDuration: 3,
		Words: []word{
			{Text: "hello", Start: 0, End: 800},
			{Text: "there", Start: 900, End: 1500},
			{Text: "general", Start: 1600, End: 3000},
		},
	}
	server := fakeAPI(t, job, 1)

	tr := NewWithBaseURL("test-key", server.URL, server.Client())
	result, err := tr.Transcribe(context.Background(), writeAudio(t), "en")
	require.NoError(t, err)

	require.Len(t, result.Segments, 1)
	assert.Equal(t, "hello there general", result.Segments[0].Text)
	assert.Equal(t, "en", result.Language)
	assert.Equal(t, 3.0, result.Duration)
}

func TestTranscribeNoWordsFallsBackToWholeFile(t *testing.T) {
	job := transcriptResponse{
		ID:            "job-1",
		Status:        "completed",
		Text:          "untimed transcript",
		LanguageCode:  "de",
		AudioDuration: 42,
	}
	server := fakeAPI(t, job, 1)

	tr := NewWithBaseURL("test-key", server.URL, server.Client())
	result, err := tr.Transcribe(context.Background(), writeAudio(t), "auto")
	require.NoError(t, err)

	require.Len(t, result.Segments, 1)
	assert.Equal(t, "untimed transcript", result.Segments[0].Text)
	assert.Equal(t, 42.0, result.Segments[0].End)
	assert.Equal(t, "de", result.Language)
}

func TestTranscribeJobError(t *testing.T) {
	job := transcriptResponse{ID: "job-1", Status: "error", Error: "audio too noisy"}
	server := fakeAPI(t, job, 1)

	tr := NewWithBaseURL("test-key", server.URL, server.Client())
	_, err := tr.Transcribe(context.Background(), writeAudio(t), "en")
	require.Error(t, err)

	var provErr *stt.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, model.ProviderAssemblyAI, provErr.Provider)
	assert.Contains(t, err.Error(), "audio too noisy")
}

func TestTranscribeHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "bad api key"}`, http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	tr := NewWithBaseURL("bad-key", server.URL, server.Client())
	_, err := tr.Transcribe(context.Background(), writeAudio(t), "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestPollCancellation(t *testing.T) {
	// A job that never completes; cancellation is the only way out.
	job := transcriptResponse{ID: "job-1", Status: "processing"}
	server := fakeAPI(t, job, 1000)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	tr := NewWithBaseURL("test-key", server.URL, server.Client())
	_, err := tr.Transcribe(ctx, writeAudio(t), "en")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
