package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"
)

const defaultDeepLEndpoint = "https://api-free.deepl.com/v2/translate"

// deeplLanguages remaps two-letter codes to DeepL's vocabulary. Unmapped
// codes pass through uppercased unchanged.
var deeplLanguages = map[string]string{
	"en": "EN",
	"es": "ES",
	"fr": "FR",
	"de": "DE",
	"it": "IT",
	"pt": "PT",
	"zh": "ZH",
	"ja": "JA",
	"ru": "RU",
	"ar": "AR",
	"hi": "HI",
}

// DeepLClient is the higher-quality primary translator. It supports
// translating a whole batch of lines in one API call.
type DeepLClient struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewDeepLClient creates a DeepL client with the given auth key.
func NewDeepLClient(apiKey string) *DeepLClient {
	return &DeepLClient{
		apiKey:   apiKey,
		endpoint: defaultDeepLEndpoint,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

// NewDeepLClientWithEndpoint points the client at a custom endpoint, used
// by tests running a local fake of the API.
func NewDeepLClientWithEndpoint(apiKey, endpoint string) *DeepLClient {
	c := NewDeepLClient(apiKey)
	c.endpoint = endpoint
	return c
}

type deeplRequest struct {
	Text       []string `json:"text"`
	SourceLang string   `json:"source_lang,omitempty"`
	TargetLang string   `json:"target_lang"`
}

type deeplTranslation struct {
	Text string `json:"text"`
}

type deeplResponse struct {
	Translations []deeplTranslation `json:"translations"`
}

// TranslateBatch sends all lines in a single request.
func (c *DeepLClient) TranslateBatch(ctx context.Context, lines []string, sourceLang, targetLang string) ([]string, error) {
	source := mapDeepLLanguage(sourceLang)
	target := mapDeepLLanguage(targetLang)

	payload := deeplRequest{
		Text:       lines,
		TargetLang: target,
	}
	// DeepL rejects identical source and target; omitting source lets it
	// detect the input language instead.
	if source != target {
		payload.SourceLang = source
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("DeepL returned %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed deeplResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("malformed DeepL response: %w", err)
	}

	return lo.Map(parsed.Translations, func(t deeplTranslation, _ int) string {
		return t.Text
	}), nil
}

func mapDeepLLanguage(code string) string {
	if mapped, ok := deeplLanguages[strings.ToLower(code)]; ok {
		return mapped
	}
	return strings.ToUpper(code)
}
