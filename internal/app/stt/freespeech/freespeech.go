// Package freespeech implements the unauthenticated recognition backend
// on top of the public Chromium speech endpoint.
//
// The backend returns no timing information, so a successful recognition
// produces a single whole-file segment. Audio the service cannot
// understand is a soft outcome: an empty segment list, not an error.
package freespeech

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	"subgen/internal/app/model"
	"subgen/internal/app/stt"
)

const defaultEndpoint = "http://www.google.com/speech-api/v2/recognize"

// calibrationWindow is the fixed span of leading audio sampled to
// estimate the ambient noise floor before recognition.
const calibrationWindow = time.Second

// Transcriber performs free-tier speech recognition.
type Transcriber struct {
	endpoint string
	client   *http.Client
}

// New creates a free-tier transcriber.
func New() *Transcriber {
	return &Transcriber{
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: 120 * time.Second},
	}
}

// NewWithEndpoint creates a transcriber against a custom endpoint, used by
// tests running a local fake of the service.
func NewWithEndpoint(endpoint string, client *http.Client) *Transcriber {
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}
	return &Transcriber{endpoint: endpoint, client: client}
}

// Transcribe calibrates against the leading second of audio, then sends
// the whole file for recognition.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string, language string) (*model.TranscriptionResult, error) {
	wav, err := readWAV(audioPath)
	if err != nil {
		return nil, stt.NewProviderError(model.ProviderFreeSpeech, "failed to read audio file", err)
	}

	noiseFloor := wav.rmsWindow(0, calibrationWindow)
	speechEnergy := wav.rmsWindow(calibrationWindow, wav.duration())
	slog.Debug("ambient calibration", "noise_floor", noiseFloor, "speech_energy", speechEnergy)

	resultLanguage := language
	if resultLanguage == "" || resultLanguage == stt.LanguageAuto {
		resultLanguage = "en"
	}

	// Audio whose body does not rise meaningfully above the calibrated
	// noise floor is treated as silence; skip the network round-trip.
	if speechEnergy <= noiseFloor*1.5 {
		return &model.TranscriptionResult{
			Segments: nil,
			Language: resultLanguage,
			Duration: wav.duration().Seconds(),
		}, nil
	}

	text, err := t.recognize(ctx, audioPath, wav.sampleRate, resultLanguage)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(text) == "" {
		// The service could not understand the audio. Soft outcome.
		return &model.TranscriptionResult{
			Segments: nil,
			Language: resultLanguage,
			Duration: wav.duration().Seconds(),
		}, nil
	}

	return stt.WholeFileResult(text, resultLanguage, wav.duration().Seconds()), nil
}

type recognizeResult struct {
	Result []struct {
		Alternative []struct {
			Transcript string `json:"transcript"`
		} `json:"alternative"`
	} `json:"result"`
}

func (t *Transcriber) recognize(ctx context.Context, audioPath string, sampleRate int, language string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", stt.NewProviderError(model.ProviderFreeSpeech, "failed to open audio file", err)
	}
	defer f.Close()

	url := fmt.Sprintf("%s?client=chromium&lang=%s&key=", t.endpoint, language)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, f)
	if err != nil {
		return "", stt.NewProviderError(model.ProviderFreeSpeech, "failed to build request", err)
	}
	req.Header.Set("Content-Type", fmt.Sprintf("audio/l16; rate=%d", sampleRate))

	resp, err := t.client.Do(req)
	if err != nil {
		return "", stt.NewProviderError(model.ProviderFreeSpeech, "recognition request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", stt.NewProviderError(model.ProviderFreeSpeech, "failed to read response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", stt.NewProviderError(model.ProviderFreeSpeech,
			fmt.Sprintf("service returned %d", resp.StatusCode), nil)
	}

	// The service streams one JSON object per line; the first line with a
	// non-empty result carries the transcript.
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var parsed recognizeResult
		if err := json.Unmarshal([]byte(line), &parsed); err != nil {
			continue
		}
		for _, r := range parsed.Result {
			if len(r.Alternative) > 0 {
				return r.Alternative[0].Transcript, nil
			}
		}
	}

	return "", nil
}

// wavFile is a minimal view over a mono 16-bit PCM WAV file, enough for
// energy calibration and duration math.
type wavFile struct {
	sampleRate int
	samples    []int16
}

func (w *wavFile) duration() time.Duration {
	if w.sampleRate == 0 {
		return 0
	}
	return time.Duration(float64(len(w.samples)) / float64(w.sampleRate) * float64(time.Second))
}

// rmsWindow computes the root-mean-square energy of samples in
// [from, to), clamped to the available audio.
func (w *wavFile) rmsWindow(from, to time.Duration) float64 {
	if w.sampleRate == 0 || len(w.samples) == 0 {
		return 0
	}
	start := int(from.Seconds() * float64(w.sampleRate))
	end := int(to.Seconds() * float64(w.sampleRate))
	if start < 0 {
		start = 0
	}
	if end > len(w.samples) {
		end = len(w.samples)
	}
	if start >= end {
		return 0
	}

	var sum float64
	for _, s := range w.samples[start:end] {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(end-start))
}

func readWAV(path string) (*wavFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) < 44 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("not a WAV file: %s", path)
	}

	var (
		sampleRate    int
		bitsPerSample int
		channels      int
		pcm           []byte
	)

	// Walk the RIFF chunks; fmt describes the stream, data carries it.
	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		chunkStart := offset + 8
		if chunkStart+chunkSize > len(data) {
			chunkSize = len(data) - chunkStart
		}

		switch chunkID {
		case "fmt ":
			if chunkSize >= 16 {
				channels = int(binary.LittleEndian.Uint16(data[chunkStart+2 : chunkStart+4]))
				sampleRate = int(binary.LittleEndian.Uint32(data[chunkStart+4 : chunkStart+8]))
				bitsPerSample = int(binary.LittleEndian.Uint16(data[chunkStart+14 : chunkStart+16]))
			}
		case "data":
			pcm = data[chunkStart : chunkStart+chunkSize]
		}

		offset = chunkStart + chunkSize
		if chunkSize%2 == 1 {
			offset++
		}
	}

	if sampleRate == 0 || pcm == nil {
		return nil, fmt.Errorf("malformed WAV file: %s", path)
	}
	if bitsPerSample != 16 || channels != 1 {
		return nil, fmt.Errorf("expected mono 16-bit PCM, got %d-bit %d-channel", bitsPerSample, channels)
	}

	samples := make([]int16, len(pcm)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(pcm[i*2 : i*2+2]))
	}

	return &wavFile{sampleRate: sampleRate, samples: samples}, nil
}
