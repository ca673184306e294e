package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPENAI_API_KEY", "GOOGLE_SPEECH_API_KEY", "ASSEMBLYAI_API_KEY",
		"DEEPL_API_KEY", "USE_FREE_TIER", "WHISPER_CPP_BINARY", "WHISPER_CPP_MODEL",
		"UPLOADS_DIR", "OUTPUTS_DIR", "TEMP_DIR", "HOST", "PORT", "ENVIRONMENT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearProviderEnv(t)

	s, err := Load()
	require.NoError(t, err)

	assert.Empty(t, s.OpenAIKey)
	assert.Empty(t, s.GoogleSpeechKey)
	assert.Empty(t, s.AssemblyAIKey)
	assert.True(t, s.UseFreeTier, "free tier should default to on")
	assert.Equal(t, "uploads", s.UploadsDir)
	assert.Equal(t, "outputs", s.OutputsDir)
	assert.Equal(t, "temp", s.TempDir)
	assert.Equal(t, "0.0.0.0", s.Host)
	assert.Equal(t, "8000", s.Port)
	assert.Equal(t, "development", s.Environment)
}

func TestLoadKeyValidation(t *testing.T) {
	testCases := []struct {
		name          string
		key           string
		value         string
		expectError   bool
		errorContains string
	}{
		{
			name:        "valid OpenAI key",
			key:         "OPENAI_API_KEY",
			value:       "sk-1234567890abcdef1234567890abcdef",
			expectError: false,
		},
		{
			name:          "OpenAI key without prefix",
			key:           "OPENAI_API_KEY",
			value:         "1234567890abcdef1234567890abcdef",
			expectError:   true,
			errorContains: "must start with 'sk-'",
		},
		{
			name:          "OpenAI key too short",
			key:           "OPENAI_API_KEY",
			value:         "sk-short",
			expectError:   true,
			errorContains: "too short",
		},
		{
			name:        "valid Google Speech key",
			key:         "GOOGLE_SPEECH_API_KEY",
			value:       "AIzaTest-1234567890abcdef1234567890",
			expectError: false,
		},
		{
			name:          "Google Speech key too short",
			key:           "GOOGLE_SPEECH_API_KEY",
			value:         "AIza-short",
			expectError:   true,
			errorContains: "too short",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearProviderEnv(t)
			t.Setenv(tc.key, tc.value)

			s, err := Load()
			if tc.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errorContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.value, s.OpenAIKey+s.GoogleSpeechKey)
		})
	}
}

func TestLoadNoGoogleKeyFallback(t *testing.T) {
	// The Google Speech key must come from the environment; an unset key
	// stays unset instead of falling back to a baked-in value.
	clearProviderEnv(t)

	s, err := Load()
	require.NoError(t, err)
	assert.Empty(t, s.GoogleSpeechKey)
}

func TestLoadKeysAreTrimmed(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("ASSEMBLYAI_API_KEY", "  aai-key-value  ")

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "aai-key-value", s.AssemblyAIKey)
}

func TestLoadFreeTierFlag(t *testing.T) {
	testCases := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"false", false},
		{"1", true},
		{"0", false},
		{"", true},
		{"not-a-bool", true},
	}

	for _, tc := range testCases {
		t.Run("value="+tc.value, func(t *testing.T) {
			clearProviderEnv(t)
			t.Setenv("USE_FREE_TIER", tc.value)

			s, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tc.want, s.UseFreeTier)
		})
	}
}

func TestConfiguredProviders(t *testing.T) {
	s := &Settings{OpenAIKey: "sk-x", AssemblyAIKey: "a-key"}
	got := s.ConfiguredProviders()
	assert.Equal(t, []string{"OpenAI", "AssemblyAI"}, got)

	assert.Empty(t, (&Settings{}).ConfiguredProviders())
}
