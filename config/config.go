package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Generator backends accepted in LLM_PROVIDER.
const (
	ProviderOpenAI      = "openai"
	ProviderHuggingFace = "huggingface"
	ProviderGemini      = "gemini"
)

// DefaultOrigins are always allowed by CORS. FRONTEND_URL entries are appended.
var DefaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"https://ia-viajes-app.vercel.app",
}

// Config holds all configuration values. It is loaded once at startup and
// treated as read-only afterwards.
type Config struct {
	Port     string `mapstructure:"PORT"`
	GinMode  string `mapstructure:"GIN_MODE"`
	Env      string `mapstructure:"APP_ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	LLMProvider    string  `mapstructure:"LLM_PROVIDER"`
	LLMTemperature float64 `mapstructure:"LLM_TEMPERATURE"`

	OpenAIAPIKey  string `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel   string `mapstructure:"OPENAI_MODEL"`
	OpenAIBaseURL string `mapstructure:"OPENAI_BASE_URL"`

	HuggingFaceAPIKey  string `mapstructure:"HUGGINGFACE_API_KEY"`
	HuggingFaceModel   string `mapstructure:"HF_MODEL"`
	HuggingFaceBaseURL string `mapstructure:"HF_BASE_URL"`

	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel  string `mapstructure:"GEMINI_MODEL"`

	AmadeusClientID     string `mapstructure:"AMADEUS_CLIENT_ID"`
	AmadeusClientSecret string `mapstructure:"AMADEUS_CLIENT_SECRET"`
	AmadeusEnv          string `mapstructure:"AMADEUS_ENV"`

	FrontendURL       string `mapstructure:"FRONTEND_URL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	TrustedProxies    string `mapstructure:"TRUSTED_PROXIES"`
}

var defaults = map[string]any{
	"PORT":                  "8000",
	"GIN_MODE":              "",
	"APP_ENV":               "development",
	"LOG_LEVEL":             "info",
	"LLM_PROVIDER":          ProviderOpenAI,
	"LLM_TEMPERATURE":       0.6,
	"OPENAI_API_KEY":        "",
	"OPENAI_MODEL":          "gpt-3.5-turbo",
	"OPENAI_BASE_URL":       "",
	"HUGGINGFACE_API_KEY":   "",
	"HF_MODEL":              "mistralai/Mistral-7B-Instruct-v0.3",
	"HF_BASE_URL":           "https://api-inference.huggingface.co",
	"GEMINI_API_KEY":        "",
	"GEMINI_MODEL":          "gemini-1.5-flash",
	"AMADEUS_CLIENT_ID":     "",
	"AMADEUS_CLIENT_SECRET": "",
	"AMADEUS_ENV":           "test",
	"FRONTEND_URL":          "",
	"MAX_REQUESTS_PER_MIN":  30,
	"TRUSTED_PROXIES":       "",
}

// Load reads an optional .env file, then environment variables, and
// validates the result.
func Load(envFiles ...string) (*Config, error) {
	// A missing .env is normal in production where variables are set directly.
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate refuses configurations the service cannot run with: the selected
// text-generation backend must be known and have its API key.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=%s", c.LLMProvider)
		}
	case ProviderHuggingFace:
		if c.HuggingFaceAPIKey == "" {
			return fmt.Errorf("HUGGINGFACE_API_KEY is required when LLM_PROVIDER=%s", c.LLMProvider)
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when LLM_PROVIDER=%s", c.LLMProvider)
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q (use openai, huggingface or gemini)", c.LLMProvider)
	}

	if c.LLMTemperature < 0 || c.LLMTemperature > 2 {
		return fmt.Errorf("LLM_TEMPERATURE must be between 0 and 2, got %v", c.LLMTemperature)
	}
	if c.MaxRequestsPerMin <= 0 {
		return fmt.Errorf("MAX_REQUESTS_PER_MIN must be positive, got %d", c.MaxRequestsPerMin)
	}
	return nil
}

// HotelSearchEnabled reports whether both Amadeus credentials are present.
func (c *Config) HotelSearchEnabled() bool {
	return c.AmadeusClientID != "" && c.AmadeusClientSecret != ""
}

// AmadeusBaseURL picks the free test environment unless AMADEUS_ENV=production.
func (c *Config) AmadeusBaseURL() string {
	if c.AmadeusEnv == "production" || c.AmadeusEnv == "prod" {
		return "https://api.amadeus.com"
	}
	return "https://test.api.amadeus.com"
}

// IsProduction reports whether logging and gin should run in release mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.GinMode == "release"
}

// AllowedOrigins returns the CORS allow-list.
func (c *Config) AllowedOrigins() []string {
	return append(append([]string{}, DefaultOrigins...), splitList(c.FrontendURL)...)
}

// TrustedProxyList returns the IPs or CIDRs allowed to set X-Forwarded-For.
// It is nil when TRUSTED_PROXIES is empty.
func (c *Config) TrustedProxyList() []string {
	return splitList(c.TrustedProxies)
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
