// Package whispercpp implements the fully offline transcription backend
// on top of a local whisper.cpp binary.
package whispercpp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"subgen/internal/app/model"
	"subgen/internal/app/stt"
)

// Transcriber runs whisper.cpp against the provided audio and keeps the
// native per-segment timings unmodified.
type Transcriber struct {
	binaryPath string
	modelPath  string

	initOnce sync.Once
	initErr  error
}

// New creates a whisper.cpp transcriber. Binary and model availability is
// checked lazily on first use, exactly once for the process lifetime.
func New(binaryPath, modelPath string) *Transcriber {
	return &Transcriber{
		binaryPath: binaryPath,
		modelPath:  modelPath,
	}
}

// init verifies the binary and model exist. Guarded by sync.Once so
// concurrent first requests cannot race the check.
func (t *Transcriber) init() error {
	t.initOnce.Do(func() {
		if t.binaryPath == "" || t.modelPath == "" {
			t.initErr = fmt.Errorf("whisper.cpp binary and model paths must be configured")
			return
		}
		if _, err := os.Stat(t.binaryPath); err != nil {
			t.initErr = fmt.Errorf("whisper.cpp binary not found at %s: %w", t.binaryPath, err)
			return
		}
		if _, err := os.Stat(t.modelPath); err != nil {
			t.initErr = fmt.Errorf("whisper model not found at %s: %w", t.modelPath, err)
			return
		}
		slog.Info("whisper.cpp model ready", "binary", t.binaryPath, "model", t.modelPath)
	})
	return t.initErr
}

// whisperOutput matches the JSON file whisper.cpp writes with -oj.
type whisperOutput struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"` // milliseconds
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// Transcribe runs the local model and converts its JSON output into the
// canonical segment list.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string, language string) (*model.TranscriptionResult, error) {
	if err := t.init(); err != nil {
		return nil, stt.NewProviderError(model.ProviderLocalModel, "local model unavailable", err)
	}

	outputBase := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))

	args := []string{
		"-m", t.modelPath,
		"-f", audioPath,
		"-oj",
		"-of", outputBase,
	}
	if language != "" && language != stt.LanguageAuto {
		args = append(args, "-l", language)
	} else {
		args = append(args, "-l", "auto")
	}

	cmd := exec.CommandContext(ctx, t.binaryPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	slog.Debug("running whisper.cpp", "args", strings.Join(args, " "))

	if err := cmd.Run(); err != nil {
		return nil, stt.NewProviderError(model.ProviderLocalModel,
			fmt.Sprintf("whisper.cpp execution failed: %s", strings.TrimSpace(stderr.String())), err)
	}

	jsonPath := outputBase + ".json"
	defer os.Remove(jsonPath)

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, stt.NewProviderError(model.ProviderLocalModel, "failed to read whisper.cpp output", err)
	}

	return parseOutput(data, language)
}

func parseOutput(data []byte, requestedLanguage string) (*model.TranscriptionResult, error) {
	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, stt.NewProviderError(model.ProviderLocalModel, "malformed whisper.cpp output", err)
	}

	result := &model.TranscriptionResult{
		Language: out.Result.Language,
	}
	// The model cannot always report a language; fall back to what the
	// caller asked for.
	if result.Language == "" || result.Language == stt.LanguageAuto {
		result.Language = requestedLanguage
	}

	for _, seg := range out.Transcription {
		result.Segments = append(result.Segments, model.TranscriptSegment{
			Start: float64(seg.Offsets.From) / 1000.0,
			End:   float64(seg.Offsets.To) / 1000.0,
			Text:  seg.Text,
		})
	}

	if len(result.Segments) == 0 {
		return nil, stt.NewProviderError(model.ProviderLocalModel, "whisper.cpp produced no segments", nil)
	}

	last := result.Segments[len(result.Segments)-1]
	result.Duration = last.End

	return result, nil
}
