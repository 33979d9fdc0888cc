package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const defaultOpenAIModel = "gpt-3.5-turbo"

// OpenAIGenerator calls the chat completions endpoint with one user message.
type OpenAIGenerator struct {
	client      *goopenai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

var _ Generator = (*OpenAIGenerator)(nil)

// NewOpenAIGenerator creates the client. An empty baseURL uses api.openai.com.
func NewOpenAIGenerator(apiKey, model, baseURL string, temperature float64, timeout time.Duration, logger *zap.Logger) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("missing the OpenAI API key, set it in the OPENAI_API_KEY environment variable")
	}
	if model == "" {
		model = defaultOpenAIModel
	}

	config := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = strings.TrimRight(baseURL, "/")
	}
	config.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAIGenerator{
		client:      goopenai.NewClientWithConfig(config),
		model:       model,
		temperature: float32(temperature),
		logger:      logger,
	}, nil
}

func (g *OpenAIGenerator) Name() string { return "openai" }

// Generate sends prompt as a single user message.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: g.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: g.temperature,
	})
	if err != nil {
		return "", &GenerationError{Kind: classifyOpenAIError(err), Provider: g.Name(), Err: err}
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", &GenerationError{Kind: FailureUpstream, Provider: g.Name(), Err: errors.New("empty completion")}
	}

	g.logger.Debug("completion received",
		zap.String("model", resp.Model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens))

	return resp.Choices[0].Message.Content, nil
}

func classifyOpenAIError(err error) FailureKind {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		if code, ok := apiErr.Code.(string); ok && code == "insufficient_quota" {
			return FailureRateLimited
		}
		return failureFromStatus(apiErr.HTTPStatusCode)
	}

	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return failureFromStatus(reqErr.HTTPStatusCode)
	}
	return FailureUnknown
}
