// Package textgensvc provides the external text-generation client used for
// advanced career recommendations, plus a scripted stand-in for tests.
package textgensvc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/edusight/edusight/core"
)

const chatCompletionsPath = "/v1/chat/completions"

type openAIService struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

var _ core.TextGenerator = (*openAIService)(nil)

// NewOpenAIService returns nil when no API key is configured, which callers
// treat as "offline, use fallback tables".
func NewOpenAIService(conf *core.Config) core.TextGenerator {
	if conf.OpenAI.ApiKey == "" {
		return nil
	}
	return &openAIService{
		baseURL:    strings.TrimRight(conf.OpenAI.BaseURL, "/"),
		apiKey:     conf.OpenAI.ApiKey,
		model:      conf.OpenAI.Model,
		httpClient: &http.Client{Timeout: conf.OpenAI.Timeout},
	}
}

type (
	chatMessage struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	chatRequest struct {
		Model       string        `json:"model"`
		Messages    []chatMessage `json:"messages"`
		MaxTokens   int           `json:"max_tokens"`
		Temperature float64       `json:"temperature"`
	}
	chatResponse struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
	}
)

func (svc *openAIService) GenerateText(ctx context.Context, system, user string) (string, error) {
	reqBody := chatRequest{
		Model: svc.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   800,
		Temperature: 0.7,
	}
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(reqBody); err != nil {
		return "", errors.Wrap(err, "encoding request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, svc.baseURL+chatCompletionsPath, buf)
	if err != nil {
		return "", errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+svc.apiKey)

	res, err := svc.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "calling text generation service")
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(res.Body, 1<<20))
		return "", errors.Errorf("text generation service returned %d: %s", res.StatusCode, raw)
	}

	var out chatResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", errors.Wrap(err, "decoding response")
	}
	if len(out.Choices) == 0 {
		return "", errors.New("text generation service returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}
