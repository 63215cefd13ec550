package summarize

import (
	"fmt"
	"strings"
	"time"

	"github.com/Muqadas1234/compliance-policy-ai/internal/redact"
)

// Config holds parameters for the chat-completions summarizer.
// APIKey is never read from YAML; it only comes from the environment.
type Config struct {
	Enabled     bool          `yaml:"enabled"`
	APIURL      string        `yaml:"api_url"`
	APIKey      string        `yaml:"-"`
	Model       string        `yaml:"model"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
	Redact      redact.Config `yaml:"redact"`
}

// DefaultConfig returns a disabled summarizer pointed at the OpenAI API.
func DefaultConfig() Config {
	return Config{
		APIURL:      "https://api.openai.com/v1/chat/completions",
		Model:       "gpt-4o",
		MaxTokens:   600,
		Temperature: 0.2,
		Timeout:     15 * time.Second,
		Redact:      redact.Config{Mode: "auto"},
	}
}

// ApplyEnv overlays environment settings. getenv is usually os.Getenv.
//
//	USE_LLM            1, true or yes enables the summarizer
//	LLM_API_URL        chat-completions endpoint
//	LLM_API_KEY        bearer token (falls back to OPENAI_API_KEY)
//	LLM_MODEL          model name
//	COMPLIANCE_REDACT  always | never | auto
func (c *Config) ApplyEnv(getenv func(string) string) {
	switch strings.ToLower(strings.TrimSpace(getenv("USE_LLM"))) {
	case "1", "true", "yes":
		c.Enabled = true
	}
	if v := getenv("LLM_API_URL"); v != "" {
		c.APIURL = v
	}
	for _, key := range []string{"LLM_API_KEY", "OPENAI_API_KEY"} {
		if v := getenv(key); v != "" {
			c.APIKey = v
			break
		}
	}
	if v := getenv("LLM_MODEL"); v != "" {
		c.Model = v
	}
	if v := getenv("COMPLIANCE_REDACT"); v != "" {
		c.Redact.Mode = v
	}
}

// Validate checks limits and the redaction settings.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("summarizer.timeout must be positive (got %s)", c.Timeout)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("summarizer.max_tokens must not be negative (got %d)", c.MaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("summarizer.temperature must be within [0, 2] (got %v)", c.Temperature)
	}
	if c.Enabled && c.APIURL == "" {
		return fmt.Errorf("summarizer.api_url is required when enabled")
	}
	return c.Redact.Validate()
}
