// Package assemblyai implements the AssemblyAI transcription backend.
//
// AssemblyAI is asynchronous: the audio is uploaded, a transcript job is
// submitted, and the job endpoint is polled until it completes. The API
// reports word-level timing only, so words are regrouped here into
// segments of bounded duration.
package assemblyai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"subgen/internal/app/model"
	"subgen/internal/app/stt"
)

const (
	defaultBaseURL = "https://api.assemblyai.com"

	// pollInterval is the fixed cadence of job-status polling. There is
	// no upper bound on total wait; callers must bound it externally.
	pollInterval = 2 * time.Second

	// segmentThreshold caps how much audio a single regrouped segment
	// may span before the next word opens a new one.
	segmentThreshold = 10 * time.Second
)

// Transcriber talks to the AssemblyAI REST API.
type Transcriber struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New creates an AssemblyAI transcriber with the given API key.
func New(apiKey string) *Transcriber {
	return &Transcriber{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

// NewWithBaseURL creates a transcriber against a custom endpoint, used by
// tests running a local fake of the API.
func NewWithBaseURL(apiKey, baseURL string, client *http.Client) *Transcriber {
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}
	return &Transcriber{apiKey: apiKey, baseURL: baseURL, client: client}
}

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

type transcriptRequest struct {
	AudioURL          string `json:"audio_url"`
	LanguageCode      string `json:"language_code,omitempty"`
	LanguageDetection bool   `json:"language_detection,omitempty"`
}

// word is a single timed word from the API. Timestamps are milliseconds.
type word struct {
	Text  string `json:"text"`
	Start int64  `json:"start"`
	End   int64  `json:"end"`
}

type transcriptResponse struct {
	ID            string  `json:"id"`
	Status        string  `json:"status"`
	Error         string  `json:"error,omitempty"`
	Text          string  `json:"text"`
	LanguageCode  string  `json:"language_code"`
	AudioDuration float64 `json:"audio_duration"`
	Words         []word  `json:"words"`
}

// Transcribe uploads the audio, submits a transcription job and polls it
// to completion, then regroups the flat word stream into segments.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string, language string) (*model.TranscriptionResult, error) {
	audioURL, err := t.upload(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	jobID, err := t.submit(ctx, audioURL, language)
	if err != nil {
		return nil, err
	}

	job, err := t.poll(ctx, jobID)
	if err != nil {
		return nil, err
	}

	resultLanguage := job.LanguageCode
	if resultLanguage == "" {
		resultLanguage = language
	}

	segments := groupWords(job.Words, segmentThreshold)
	if len(segments) == 0 {
		// The job completed but carried no word timing; fall back to a
		// single whole-file segment.
		return stt.WholeFileResult(job.Text, resultLanguage, job.AudioDuration), nil
	}

	return &model.TranscriptionResult{
		Segments: segments,
		Language: resultLanguage,
		Duration: job.AudioDuration,
	}, nil
}

// groupWords accumulates words into a running segment and starts a new
// one once the accumulated span since the segment's first word exceeds
// threshold. The trailing partial segment is flushed at end of stream.
func groupWords(words []word, threshold time.Duration) []model.TranscriptSegment {
	var segments []model.TranscriptSegment

	var (
		open     bool
		segStart int64
		segEnd   int64
		buf      bytes.Buffer
	)

	flush := func() {
		if !open {
			return
		}
		segments = append(segments, model.TranscriptSegment{
			Start: float64(segStart) / 1000.0,
			End:   float64(segEnd) / 1000.0,
			Text:  buf.String(),
		})
		buf.Reset()
		open = false
	}

	thresholdMs := threshold.Milliseconds()

	for _, w := range words {
		if !open {
			segStart = w.Start
			open = true
		} else {
			buf.WriteByte(' ')
		}
		buf.WriteString(w.Text)
		segEnd = w.End

		if segEnd-segStart >= thresholdMs {
			flush()
		}
	}
	flush()

	return segments
}

func (t *Transcriber) upload(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", stt.NewProviderError(model.ProviderAssemblyAI, "failed to open audio file", err)
	}
	defer f.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/v2/upload", f)
	if err != nil {
		return "", stt.NewProviderError(model.ProviderAssemblyAI, "failed to build upload request", err)
	}
	req.Header.Set("Authorization", t.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	var resp uploadResponse
	if err := t.do(req, &resp); err != nil {
		return "", err
	}
	if resp.UploadURL == "" {
		return "", stt.NewProviderError(model.ProviderAssemblyAI, "upload returned no URL", nil)
	}
	return resp.UploadURL, nil
}

func (t *Transcriber) submit(ctx context.Context, audioURL, language string) (string, error) {
	payload := transcriptRequest{AudioURL: audioURL}
	if language == "" || language == stt.LanguageAuto {
		payload.LanguageDetection = true
	} else {
		payload.LanguageCode = language
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", stt.NewProviderError(model.ProviderAssemblyAI, "failed to encode job request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/v2/transcript", bytes.NewReader(body))
	if err != nil {
		return "", stt.NewProviderError(model.ProviderAssemblyAI, "failed to build job request", err)
	}
	req.Header.Set("Authorization", t.apiKey)
	req.Header.Set("Content-Type", "application/json")

	var resp transcriptResponse
	if err := t.do(req, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", stt.NewProviderError(model.ProviderAssemblyAI, "job submission returned no ID", nil)
	}
	return resp.ID, nil
}

// poll blocks until the job reports completed or error. The cadence is
// fixed; ctx cancellation is the only way out of a stuck job.
func (t *Transcriber) poll(ctx context.Context, jobID string) (*transcriptResponse, error) {
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/v2/transcript/"+jobID, nil)
		if err != nil {
			return nil, stt.NewProviderError(model.ProviderAssemblyAI, "failed to build poll request", err)
		}
		req.Header.Set("Authorization", t.apiKey)

		var resp transcriptResponse
		if err := t.do(req, &resp); err != nil {
			return nil, err
		}

		switch resp.Status {
		case "completed":
			return &resp, nil
		case "error":
			return nil, stt.NewProviderError(model.ProviderAssemblyAI,
				fmt.Sprintf("transcription job failed: %s", resp.Error), nil)
		}

		select {
		case <-ctx.Done():
			return nil, stt.NewProviderError(model.ProviderAssemblyAI, "polling cancelled", ctx.Err())
		case <-time.After(pollInterval):
		}
	}
}

func (t *Transcriber) do(req *http.Request, out interface{}) error {
	resp, err := t.client.Do(req)
	if err != nil {
		return stt.NewProviderError(model.ProviderAssemblyAI, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return stt.NewProviderError(model.ProviderAssemblyAI, "failed to read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return stt.NewProviderError(model.ProviderAssemblyAI,
			fmt.Sprintf("API returned %d: %s", resp.StatusCode, string(body)), nil)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return stt.NewProviderError(model.ProviderAssemblyAI, "malformed API response", err)
	}
	return nil
}
