package stt

import (
	"log/slog"

	"subgen/internal/app/model"
	"subgen/internal/config"
)

// Select picks the backend for a transcription request from the current
// configuration. It is a pure function of cfg: first match wins, it never
// fails, and it always returns a usable identity.
//
// Priority: OpenAI key > Google Speech key > AssemblyAI key > free-tier
// flag > placeholder. The fully offline whisper.cpp path is unreachable
// through this chain while the free-tier flag defaults to on; see
// DESIGN.md before reordering.
func Select(cfg *config.Settings) model.ProviderID {
	switch {
	case cfg.OpenAIKey != "":
		slog.Debug("provider selected", "provider", model.ProviderOpenAI.String(), "reason", "openai key configured")
		return model.ProviderOpenAI
	case cfg.GoogleSpeechKey != "":
		slog.Debug("provider selected", "provider", model.ProviderGoogleSpeech.String(), "reason", "google speech key configured")
		return model.ProviderGoogleSpeech
	case cfg.AssemblyAIKey != "":
		slog.Debug("provider selected", "provider", model.ProviderAssemblyAI.String(), "reason", "assemblyai key configured")
		return model.ProviderAssemblyAI
	case cfg.UseFreeTier:
		slog.Debug("provider selected", "provider", model.ProviderPlaceholder.String(), "reason", "free tier enabled")
		return model.ProviderPlaceholder
	default:
		slog.Debug("provider selected", "provider", model.ProviderPlaceholder.String(), "reason", "terminal fallback")
		return model.ProviderPlaceholder
	}
}
