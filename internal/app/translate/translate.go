// Package translate converts subtitle lines between languages, preferring
// DeepL and falling back to the free Google translate web endpoint.
package translate

import (
	"context"
	"fmt"
	"log/slog"
)

// Service tries the primary provider over the whole batch in one call and
// falls back to the secondary, which only supports line-by-line requests.
// Both failing fails the operation; there is no further fallback.
type Service struct {
	primary   *DeepLClient // nil when no key is configured
	secondary *GoogleWebClient
}

// NewService builds a translation service. deeplKey may be empty, in which
// case only the fallback provider is used.
func NewService(deeplKey string) *Service {
	s := &Service{secondary: NewGoogleWebClient()}
	if deeplKey != "" {
		s.primary = NewDeepLClient(deeplKey)
	}
	return s
}

// NewServiceWithClients wires explicit clients, used by tests.
func NewServiceWithClients(primary *DeepLClient, secondary *GoogleWebClient) *Service {
	return &Service{primary: primary, secondary: secondary}
}

// TranslateBatch returns exactly one translation per input line, in input
// order.
func (s *Service) TranslateBatch(ctx context.Context, lines []string, sourceLang, targetLang string) ([]string, error) {
	if len(lines) == 0 {
		return []string{}, nil
	}

	if s.primary != nil {
		translations, err := s.primary.TranslateBatch(ctx, lines, sourceLang, targetLang)
		if err == nil {
			if len(translations) != len(lines) {
				return nil, fmt.Errorf("primary translator returned %d translations for %d lines", len(translations), len(lines))
			}
			return translations, nil
		}
		slog.Warn("primary translation failed, falling back", "error", err)
	}

	translations := make([]string, 0, len(lines))
	for _, line := range lines {
		translated, err := s.secondary.Translate(ctx, line, sourceLang, targetLang)
		if err != nil {
			return nil, fmt.Errorf("translation failed: %w", err)
		}
		translations = append(translations, translated)
	}
	return translations, nil
}
