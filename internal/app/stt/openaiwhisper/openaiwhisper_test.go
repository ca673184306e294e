package openaiwhisper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subgen/internal/app/model"
	"subgen/internal/app/stt"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *openai.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = server.URL + "/v1"
	cfg.HTTPClient = server.Client()
	return openai.NewClientWithConfig(cfg)
}

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF fake audio"), 0o644))
	return path
}

func TestTranscribe(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		assert.Contains(t, r.Header.Get("Content-Type"), "multipart/form-data")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"task": "transcribe",
			"language": "english",
			"duration": 7.2,
			"text": "Hello. Second part.",
			"segments": [
				{"id": 0, "start": 0.0, "end": 3.1, "text": " Hello."},
				{"id": 1, "start": 3.1, "end": 7.2, "text": " Second part."}
			]
		}`))
	})

	tr := NewWithClient(client)
	result, err := tr.Transcribe(context.Background(), writeAudio(t), "en")
	require.NoError(t, err)

	require.Len(t, result.Segments, 2)
	assert.Equal(t, 0.0, result.Segments[0].Start)
	assert.Equal(t, 3.1, result.Segments[0].End)
	assert.Equal(t, " Hello.", result.Segments[0].Text)
	assert.Equal(t, "english", result.Language)
	assert.Equal(t, 7.2, result.Duration)
}

func TestTranscribeNoSegmentsFallsBackToWholeFile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"task": "transcribe", "language": "en", "duration": 4.5, "text": "flat text only"}`))
	})

	tr := NewWithClient(client)
	result, err := tr.Transcribe(context.Background(), writeAudio(t), "en")
	require.NoError(t, err)

	require.Len(t, result.Segments, 1)
	assert.Equal(t, "flat text only", result.Segments[0].Text)
	assert.Equal(t, 0.0, result.Segments[0].Start)
	assert.Equal(t, 4.5, result.Segments[0].End)
}

func TestTranscribeAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`))
	})

	tr := NewWithClient(client)
	_, err := tr.Transcribe(context.Background(), writeAudio(t), "en")
	require.Error(t, err)

	var provErr *stt.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, model.ProviderOpenAI, provErr.Provider)
	assert.Contains(t, err.Error(), "invalid or missing")
}

func TestAPIErrorMessage(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "unauthorized",
			err:  &openai.APIError{HTTPStatusCode: 401, Message: "bad key"},
			want: "OpenAI API key is invalid or missing",
		},
		{
			name: "rate limited",
			err:  &openai.APIError{HTTPStatusCode: 429, Message: "slow down"},
			want: "OpenAI API rate limit exceeded",
		},
		{
			name: "payload too large",
			err:  &openai.APIError{HTTPStatusCode: 413, Message: "too big"},
			want: "audio file is too large for the OpenAI API",
		},
		{
			name: "other API error keeps message",
			err:  &openai.APIError{HTTPStatusCode: 500, Message: "server exploded"},
			want: "OpenAI API error: server exploded",
		},
		{
			name: "non API error",
			err:  errors.New("dial tcp: connection refused"),
			want: "transcription request failed: dial tcp: connection refused",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, apiErrorMessage(tc.err))
		})
	}
}
