// Package aiprovider реализует REST-клиент Gemini generateContent.
package aiprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/magabrotheeeer/donation-gateway/internal/config"
)

// Client клиент генеративного провайдера.
type Client struct {
	apiKey     string
	model      string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент Gemini с таймаутом из конфига.
func NewClient(cfg config.Gemini) *Client {
	return &Client{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		apiURL:     cfg.APIURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// GenerateContent делает один вызов generateContent и возвращает текст
// первого кандидата. Ошибки провайдера не содержат деталей для клиента -
// их разворачивает только лог.
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	const op = "aiprovider.GenerateContent"

	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.apiURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if genResp.Error != nil {
		return "", fmt.Errorf("%s: provider error %d: %s", op, genResp.Error.Code, genResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: unexpected status %s", op, resp.Status)
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%s: empty response from provider", op)
	}
	return genResp.Candidates[0].Content.Parts[0].Text, nil
}
