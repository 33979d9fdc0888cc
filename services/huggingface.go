package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultHFModel   = "mistralai/Mistral-7B-Instruct-v0.3"
	defaultHFBaseURL = "https://api-inference.huggingface.co"
	hfMaxNewTokens   = 1200
)

// HuggingFaceGenerator calls the Inference API text-generation task.
type HuggingFaceGenerator struct {
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	httpClient  *http.Client
	logger      *zap.Logger
}

var _ Generator = (*HuggingFaceGenerator)(nil)

func NewHuggingFaceGenerator(apiKey, model, baseURL string, temperature float64, timeout time.Duration, logger *zap.Logger) (*HuggingFaceGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("missing the HuggingFace API key, set it in the HUGGINGFACE_API_KEY environment variable")
	}
	if model == "" {
		model = defaultHFModel
	}
	if baseURL == "" {
		baseURL = defaultHFBaseURL
	}

	return &HuggingFaceGenerator{
		apiKey:      apiKey,
		model:       model,
		baseURL:     strings.TrimRight(baseURL, "/"),
		temperature: temperature,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}, nil
}

func (g *HuggingFaceGenerator) Name() string { return "huggingface" }

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

type hfResponse []struct {
	GeneratedText string `json:"generated_text"`
}

// Generate wraps prompt in the instruct template and returns the generated text.
func (g *HuggingFaceGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := hfRequest{
		Inputs: "[INST] " + prompt + " [/INST]",
		Parameters: hfParameters{
			MaxNewTokens:   hfMaxNewTokens,
			Temperature:    g.temperature,
			ReturnFullText: false,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", g.fail(FailureUnknown, err)
	}

	url := fmt.Sprintf("%s/models/%s", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", g.fail(FailureUnknown, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", g.fail(FailureUnknown, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusServiceUnavailable {
		return "", g.fail(FailureUpstream, errors.New("model is loading"))
	}

	if resp.StatusCode != http.StatusOK {
		g.logger.Warn("huggingface error response",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", truncateBody(body)))
		return "", g.fail(failureFromStatus(resp.StatusCode), fmt.Errorf("HuggingFace API error (%d)", resp.StatusCode))
	}

	var hfResp hfResponse
	if err := json.Unmarshal(body, &hfResp); err != nil {
		return "", g.fail(FailureUpstream, fmt.Errorf("failed to parse AI response: %w", err))
	}

	if len(hfResp) == 0 || strings.TrimSpace(hfResp[0].GeneratedText) == "" {
		return "", g.fail(FailureUpstream, errors.New("empty response from AI"))
	}

	return strings.TrimSpace(hfResp[0].GeneratedText), nil
}

func (g *HuggingFaceGenerator) fail(kind FailureKind, err error) error {
	return &GenerationError{Kind: kind, Provider: g.Name(), Err: err}
}

func truncateBody(body []byte) []byte {
	const limit = 512
	if len(body) > limit {
		return body[:limit]
	}
	return body
}
