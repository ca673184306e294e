// Package googlespeech implements the Google Cloud Speech-to-Text backend
// using the synchronous REST recognize call.
package googlespeech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"subgen/internal/app/model"
	"subgen/internal/app/stt"
)

const defaultEndpoint = "https://speech.googleapis.com/v1/speech:recognize"

// Transcriber calls speech:recognize with word time offsets enabled and
// maps each returned phrase to one segment.
type Transcriber struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// New creates a Google Speech transcriber. The API key must be configured
// explicitly; there is no embedded development fallback.
func New(apiKey string) *Transcriber {
	return &Transcriber{
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: 120 * time.Second},
	}
}

// NewWithEndpoint creates a transcriber against a custom endpoint, used by
// tests running a local fake of the API.
func NewWithEndpoint(apiKey, endpoint string, client *http.Client) *Transcriber {
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}
	return &Transcriber{apiKey: apiKey, endpoint: endpoint, client: client}
}

type recognizeRequest struct {
	Config recognizeConfig `json:"config"`
	Audio  recognizeAudio  `json:"audio"`
}

type recognizeConfig struct {
	Encoding              string `json:"encoding"`
	SampleRateHertz       int    `json:"sampleRateHertz"`
	LanguageCode          string `json:"languageCode"`
	EnableWordTimeOffsets bool   `json:"enableWordTimeOffsets"`
}

type recognizeAudio struct {
	Content string `json:"content"`
}

type recognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
			Words      []struct {
				StartTime string `json:"startTime"` // e.g. "1.200s"
				EndTime   string `json:"endTime"`
				Word      string `json:"word"`
			} `json:"words"`
		} `json:"alternatives"`
	} `json:"results"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Transcribe performs a synchronous recognition call. Each phrase result
// becomes one segment spanning its first and last word offsets; a phrase
// without word alignment degrades to a zero-duration segment at time 0.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string, language string) (*model.TranscriptionResult, error) {
	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, stt.NewProviderError(model.ProviderGoogleSpeech, "failed to read audio file", err)
	}

	languageCode := language
	if languageCode == "" || languageCode == stt.LanguageAuto {
		// The sync recognize call requires a language code; English is
		// the documented default for auto-detect requests.
		languageCode = "en-US"
	}

	reqBody := recognizeRequest{
		Config: recognizeConfig{
			Encoding:              "LINEAR16",
			SampleRateHertz:       16000,
			LanguageCode:          languageCode,
			EnableWordTimeOffsets: true,
		},
		Audio: recognizeAudio{Content: base64.StdEncoding.EncodeToString(audio)},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, stt.NewProviderError(model.ProviderGoogleSpeech, "failed to encode request", err)
	}

	url := t.endpoint + "?key=" + t.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, stt.NewProviderError(model.ProviderGoogleSpeech, "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, stt.NewProviderError(model.ProviderGoogleSpeech, "recognition request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, stt.NewProviderError(model.ProviderGoogleSpeech, "failed to read response", err)
	}

	var parsed recognizeResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, stt.NewProviderError(model.ProviderGoogleSpeech, "malformed API response", err)
	}

	if parsed.Error != nil {
		return nil, stt.NewProviderError(model.ProviderGoogleSpeech,
			fmt.Sprintf("API error %d: %s", parsed.Error.Code, parsed.Error.Message), nil)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, stt.NewProviderError(model.ProviderGoogleSpeech,
			fmt.Sprintf("API returned %d: %s", resp.StatusCode, string(respBody)), nil)
	}

	result := &model.TranscriptionResult{Language: language}
	if result.Language == "" || result.Language == stt.LanguageAuto {
		result.Language = "en"
	}

	for _, phrase := range parsed.Results {
		if len(phrase.Alternatives) == 0 {
			continue
		}
		best := phrase.Alternatives[0]

		seg := model.TranscriptSegment{Text: strings.TrimSpace(best.Transcript)}
		if len(best.Words) > 0 {
			seg.Start = parseOffset(best.Words[0].StartTime)
			seg.End = parseOffset(best.Words[len(best.Words)-1].EndTime)
		}
		// Without word alignment both offsets stay 0: a zero-duration
		// segment at the start of the file. Known limitation, kept.
		result.Segments = append(result.Segments, seg)
	}

	if len(result.Segments) == 0 {
		return nil, stt.NewProviderError(model.ProviderGoogleSpeech, "no speech recognized", nil)
	}

	result.Duration = result.Segments[len(result.Segments)-1].End

	return result, nil
}

// parseOffset converts the API's "1.200s" duration strings to seconds.
func parseOffset(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "s"), 64)
	if err != nil {
		return 0
	}
	return v
}
