package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultGoogleWebEndpoint = "https://translate.googleapis.com/translate_a/single"

// GoogleWebClient is the fallback translator using the unauthenticated
// web endpoint. It has no batch call; each line is a separate request.
type GoogleWebClient struct {
	endpoint string
	client   *http.Client
}

// NewGoogleWebClient creates a fallback translation client.
func NewGoogleWebClient() *GoogleWebClient {
	return &GoogleWebClient{
		endpoint: defaultGoogleWebEndpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// NewGoogleWebClientWithEndpoint points the client at a custom endpoint,
// used by tests running a local fake of the service.
func NewGoogleWebClientWithEndpoint(endpoint string) *GoogleWebClient {
	c := NewGoogleWebClient()
	c.endpoint = endpoint
	return c
}

// Translate converts a single line of text. Language codes pass through
// lowercased; the endpoint accepts plain two-letter codes directly.
func (c *GoogleWebClient) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", strings.ToLower(sourceLang))
	params.Set("tl", strings.ToLower(targetLang))
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("translate endpoint returned %d", resp.StatusCode)
	}

	return parseWebResponse(body)
}

// parseWebResponse unwraps the endpoint's nested-array payload:
// [[["translated","original",...],...],...]. Multi-sentence inputs come
// back as multiple chunks that concatenate to the full translation.
func parseWebResponse(body []byte) (string, error) {
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("malformed translate response: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty translate response")
	}

	var chunks [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &chunks); err != nil {
		return "", fmt.Errorf("malformed translate chunks: %w", err)
	}

	var sb strings.Builder
	for _, chunk := range chunks {
		if len(chunk) == 0 {
			continue
		}
		var piece string
		if err := json.Unmarshal(chunk[0], &piece); err != nil {
			continue
		}
		sb.WriteString(piece)
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("translate response carried no text")
	}
	return sb.String(), nil
}
