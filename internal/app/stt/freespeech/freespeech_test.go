package freespeech

import (
	"bytes"
	"context"
	"encoding/binary"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subgen/internal/app/stt"
)

// buildWAV writes a mono 16-bit PCM WAV with the given samples.
func buildWAV(t *testing.T, sampleRate int, samples []int16) string {
	t.Helper()

	var pcm bytes.Buffer
	for _, s := range samples {
		binary.Write(&pcm, binary.LittleEndian, s)
	}

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+pcm.Len()))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(pcm.Len()))
	buf.Write(pcm.Bytes())

	path := filepath.Join(t.TempDir(), "audio.wav")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

// speechWAV has a quiet leading second followed by loud audio.
func speechWAV(t *testing.T) string {
	const rate = 800
	samples := make([]int16, rate*3)
	for i := range samples {
		if i < rate {
			samples[i] = 10 // ambient noise
		} else if i%2 == 0 {
			samples[i] = 8000
		} else {
			samples[i] = -8000
		}
	}
	return buildWAV(t, rate, samples)
}

// silentWAV never rises above its own noise floor.
func silentWAV(t *testing.T) string {
	const rate = 800
	samples := make([]int16, rate*3)
	for i := range samples {
		samples[i] = 10
	}
	return buildWAV(t, rate, samples)
}

func TestReadWAV(t *testing.T) {
	path := speechWAV(t)
	wav, err := readWAV(path)
	require.NoError(t, err)

	assert.Equal(t, 800, wav.sampleRate)
	assert.Len(t, wav.samples, 2400)
	assert.Equal(t, 3.0, wav.duration().Seconds())
}

func TestReadWAVRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not.wav")
	require.NoError(t, os.WriteFile(path, []byte("definitely not audio data at all........................"), 0o644))

	_, err := readWAV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a WAV file")
}

func TestTranscribeSilenceSkipsNetwork(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("silent audio must not reach the recognition service")
	}))
	t.Cleanup(server.Close)

	tr := NewWithEndpoint(server.URL, server.Client())
	result, err := tr.Transcribe(context.Background(), silentWAV(t), "en")
	require.NoError(t, err)

	assert.Empty(t, result.Segments)
	assert.Equal(t, "en", result.Language)
	assert.Equal(t, 3.0, result.Duration)
}

func TestTranscribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "chromium", r.URL.Query().Get("client"))
		assert.Equal(t, "en", r.URL.Query().Get("lang"))
		assert.Contains(t, r.Header.Get("Content-Type"), "audio/l16")

		// The live service streams an empty result line first.
		w.Write([]byte("{\"result\":[]}\n"))
		w.Write([]byte(`{"result":[{"alternative":[{"transcript":"hello world"}],"final":true}],"result_index":0}`))
	}))
	t.Cleanup(server.Close)

	tr := NewWithEndpoint(server.URL, server.Client())
	result, err := tr.Transcribe(context.Background(), speechWAV(t), "en")
	require.NoError(t, err)

	require.Len(t, result.Segments, 1)
	assert.Equal(t, "hello world", result.Segments[0].Text)
	assert.Equal(t, 0.0, result.Segments[0].Start)
	assert.Equal(t, 3.0, result.Segments[0].End)
}

func TestTranscribeUnrecognizedAudioIsSoft(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{\"result\":[]}\n"))
	}))
	t.Cleanup(server.Close)

	tr := NewWithEndpoint(server.URL, server.Client())
	result, err := tr.Transcribe(context.Background(), speechWAV(t), "en")
	require.NoError(t, err)
	assert.Empty(t, result.Segments)
}

func TestTranscribeServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	tr := NewWithEndpoint(server.URL, server.Client())
	_, err := tr.Transcribe(context.Background(), speechWAV(t), "en")
	require.Error(t, err)

	var provErr *stt.ProviderError
	assert.ErrorAs(t, err, &provErr)
}
