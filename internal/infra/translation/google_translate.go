package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"telegram-translation-gate/internal/config"
	"telegram-translation-gate/internal/domain/ports/adapter"
)

// Ensure implementation satisfies the port.
var _ adapter.TranslationAdapter = (*GoogleTranslator)(nil)

// GoogleTranslator renders group messages into the configured target
// languages with the Google Translate v2 REST API. One detect call
// establishes the source language, then one translate call per remaining
// target.
type GoogleTranslator struct {
	apiKey  string
	baseURL string
	targets []string
	client  *http.Client
}

func NewGoogleTranslator(cfg *config.TranslateConfig) (*GoogleTranslator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("translate: api key is required")
	}
	if len(cfg.TargetLangs) == 0 {
		return nil, fmt.Errorf("translate: no target languages configured")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://translation.googleapis.com"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GoogleTranslator{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		targets: cfg.TargetLangs,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

type detectResponse struct {
	Data struct {
		Detections [][]struct {
			Language   string  `json:"language"`
			Confidence float64 `json:"confidence"`
		} `json:"detections"`
	} `json:"data"`
}

type translateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

// Translate detects the source language and returns the text rendered in
// every configured target except the source itself.
func (g *GoogleTranslator) Translate(ctx context.Context, text string) (string, map[string]string, error) {
	source, err := g.detect(ctx, text)
	if err != nil {
		return "", nil, err
	}

	byLang := make(map[string]string, len(g.targets))
	for _, target := range g.targets {
		if sameLanguage(target, source) {
			continue
		}
		translated, err := g.translate(ctx, text, source, target)
		if err != nil {
			return "", nil, err
		}
		byLang[target] = translated
	}
	return source, byLang, nil
}

func (g *GoogleTranslator) detect(ctx context.Context, text string) (string, error) {
	form := url.Values{}
	form.Set("q", text)

	var out detectResponse
	if err := g.post(ctx, "/language/translate/v2/detect", form, &out); err != nil {
		return "", err
	}
	if len(out.Data.Detections) == 0 || len(out.Data.Detections[0]) == 0 {
		return "", fmt.Errorf("translate: empty detection result")
	}
	return out.Data.Detections[0][0].Language, nil
}

func (g *GoogleTranslator) translate(ctx context.Context, text, source, target string) (string, error) {
	form := url.Values{}
	form.Set("q", text)
	form.Set("source", source)
	form.Set("target", target)
	form.Set("format", "text")

	var out translateResponse
	if err := g.post(ctx, "/language/translate/v2", form, &out); err != nil {
		return "", err
	}
	if len(out.Data.Translations) == 0 {
		return "", fmt.Errorf("translate: empty translation result for %s", target)
	}
	return out.Data.Translations[0].TranslatedText, nil
}

func (g *GoogleTranslator) post(ctx context.Context, path string, form url.Values, out interface{}) error {
	endpoint := fmt.Sprintf("%s%s?key=%s", g.baseURL, path, url.QueryEscape(g.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call translate api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("translate api error: status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(body))
	}
	return nil
}

// sameLanguage compares codes ignoring the region suffix, so a detected
// "zh-CN" matches the "zh" target and vice versa.
func sameLanguage(a, b string) bool {
	trim := func(s string) string {
		if i := strings.IndexAny(s, "-_"); i > 0 {
			return s[:i]
		}
		return s
	}
	return strings.EqualFold(trim(a), trim(b))
}
