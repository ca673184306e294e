package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Settings holds the process-wide configuration: provider credentials,
// feature flags and working directories. It is loaded once at startup and
// treated as read-only afterwards.
type Settings struct {
	// Provider credentials. Empty means "not configured".
	OpenAIKey       string
	GoogleSpeechKey string
	AssemblyAIKey   string
	DeepLKey        string

	// UseFreeTier enables the no-credential transcription path when no
	// paid provider key is configured. Defaults to true.
	UseFreeTier bool

	// Local whisper.cpp installation, used by the offline provider.
	WhisperBinary string
	WhisperModel  string

	// Working directories for request-scoped artifacts.
	UploadsDir string
	OutputsDir string
	TempDir    string

	// HTTP server settings.
	Host        string
	Port        string
	Environment string
}

// LoadEnv loads environment variables from a .env file if one exists.
// Missing files are not an error; system-wide environment variables are a
// valid configuration source on their own.
func LoadEnv() error {
	envPaths := []string{
		".env",
		".env.local",
		"../.env",
		"../../.env",
	}

	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			break
		}
	}

	return nil
}

// Load reads all configuration from the environment. The Google Speech key
// must be configured explicitly; there is deliberately no built-in
// development fallback value for it.
func Load() (*Settings, error) {
	if err := LoadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	s := &Settings{
		OpenAIKey:       strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		GoogleSpeechKey: strings.TrimSpace(os.Getenv("GOOGLE_SPEECH_API_KEY")),
		AssemblyAIKey:   strings.TrimSpace(os.Getenv("ASSEMBLYAI_API_KEY")),
		DeepLKey:        strings.TrimSpace(os.Getenv("DEEPL_API_KEY")),
		UseFreeTier:     envBoolOrDefault("USE_FREE_TIER", true),
		WhisperBinary:   strings.TrimSpace(os.Getenv("WHISPER_CPP_BINARY")),
		WhisperModel:    strings.TrimSpace(os.Getenv("WHISPER_CPP_MODEL")),
		UploadsDir:      envOrDefault("UPLOADS_DIR", "uploads"),
		OutputsDir:      envOrDefault("OUTPUTS_DIR", "outputs"),
		TempDir:         envOrDefault("TEMP_DIR", "temp"),
		Host:            envOrDefault("HOST", "0.0.0.0"),
		Port:            envOrDefault("PORT", "8000"),
		Environment:     envOrDefault("ENVIRONMENT", "development"),
	}

	if err := s.validate(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Settings) validate() error {
	if s.OpenAIKey != "" {
		if !strings.HasPrefix(s.OpenAIKey, "sk-") {
			return fmt.Errorf("invalid OPENAI_API_KEY format: must start with 'sk-'")
		}
		if len(s.OpenAIKey) < 20 {
			return fmt.Errorf("invalid OPENAI_API_KEY format: too short")
		}
	}

	if s.GoogleSpeechKey != "" && len(s.GoogleSpeechKey) < 20 {
		return fmt.Errorf("invalid GOOGLE_SPEECH_API_KEY format: too short")
	}

	return nil
}

// ConfiguredProviders lists the credentialed backends available under the
// current settings, for startup diagnostics.
func (s *Settings) ConfiguredProviders() []string {
	var available []string
	if s.OpenAIKey != "" {
		available = append(available, "OpenAI")
	}
	if s.GoogleSpeechKey != "" {
		available = append(available, "Google Speech")
	}
	if s.AssemblyAIKey != "" {
		available = append(available, "AssemblyAI")
	}
	if s.DeepLKey != "" {
		available = append(available, "DeepL")
	}
	return available
}

func envOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func envBoolOrDefault(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
