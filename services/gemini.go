package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-1.5-flash"

// GeminiGenerator calls Google's Generative Language API.
type GeminiGenerator struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
	logger    *zap.Logger
}

var _ Generator = (*GeminiGenerator)(nil)

func NewGeminiGenerator(ctx context.Context, apiKey, model string, temperature float64, logger *zap.Logger) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("missing the Gemini API key, set it in the GEMINI_API_KEY environment variable")
	}
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	m := client.GenerativeModel(model)
	m.SetTemperature(float32(temperature))

	return &GeminiGenerator{client: client, model: m, modelName: model, logger: logger}, nil
}

func (g *GeminiGenerator) Name() string { return "gemini" }

// Close releases the underlying client.
func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &GenerationError{Kind: classifyGeminiError(err), Provider: g.Name(), Err: err}
	}

	var sb strings.Builder
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", &GenerationError{Kind: FailureUpstream, Provider: g.Name(), Err: errors.New("empty response from Gemini")}
	}

	g.logger.Debug("gemini content received", zap.String("model", g.modelName), zap.Int("candidates", len(resp.Candidates)))
	return text, nil
}

func classifyGeminiError(err error) FailureKind {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return FailureUpstream
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Reason() == "API_KEY_INVALID" {
			return FailureAuth
		}
		if code := apiErr.HTTPCode(); code > 0 {
			return failureFromStatus(code)
		}
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return failureFromStatus(gErr.Code)
	}
	return FailureUnknown
}
