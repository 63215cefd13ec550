package decision

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Muqadas1234/compliance-policy-ai/internal/alert"
	"github.com/Muqadas1234/compliance-policy-ai/internal/policy"
	"github.com/Muqadas1234/compliance-policy-ai/internal/risk"
	"github.com/Muqadas1234/compliance-policy-ai/internal/summarize"
	"github.com/Muqadas1234/compliance-policy-ai/internal/workflow"
)

// Config is the full pipeline configuration file.
type Config struct {
	Policy     policy.Config       `yaml:"policy"`
	Risk       risk.Config         `yaml:"risk"`
	Workflow   workflow.Thresholds `yaml:"workflow"`
	Summarizer summarize.Config    `yaml:"summarizer"`
	Alerts     []alert.Config      `yaml:"alerts"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Policy:     *policy.DefaultConfig(),
		Risk:       *risk.DefaultConfig(),
		Workflow:   workflow.DefaultThresholds(),
		Summarizer: summarize.DefaultConfig(),
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Policy.Validate(); err != nil {
		return fmt.Errorf("policy: %w", err)
	}
	if err := c.Risk.Validate(); err != nil {
		return err
	}
	if err := c.Workflow.Validate(); err != nil {
		return err
	}
	if err := c.Summarizer.Validate(); err != nil {
		return err
	}
	for _, a := range c.Alerts {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ParseConfig overlays YAML onto the defaults and validates the result.
// Sections and keys absent from data keep their default values; taxonomy
// entries are merged by policy id.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads a config file. An empty path or a missing file yields
// the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg, _, err := LoadConfigWithHash(path)
	return cfg, err
}

// LoadConfigWithHash loads the config and returns the SHA-256 of the raw
// bytes on disk. When no file exists the hash is that of empty input.
func LoadConfigWithHash(path string) (*Config, string, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, "", fmt.Errorf("failed to read config: %w", err)
		}
	}

	h := sha256.Sum256(data)
	hash := "sha256:" + hex.EncodeToString(h[:])

	if len(data) == 0 {
		return DefaultConfig(), hash, nil
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, "", err
	}
	return cfg, hash, nil
}

// DefaultConfigYAML returns a commented YAML rendition of DefaultConfig.
func DefaultConfigYAML() string {
	return `# compliance pipeline configuration
# Generated by: compliance init-config
#
# Stage order (cannot be changed):
#   1. Policy matching (taxonomy + rule families below)
#   2. Findings aggregation (+ optional summarizer)
#   3. Risk scoring (weights and high-risk terms below)
#   4. Workflow classification (thresholds below)

policy:
  # Keywords that make a candidate policy relevant to a document.
  # Matching is a case-insensitive substring test. Entries here are merged
  # with the built-in taxonomy by policy id.
  taxonomy:
    FIN-001: [expense, reimbursement, meal, hotel, flight, travel, receipt]
    SEC-002: [personal data, customer data, unencrypted, password, breach, third party]
    PROC-003: [vendor, supplier, contract, procurement, invoice, po number, w9, w8]
    FIN-004: [wire, transfer, check, payment, credit card, international, sanction]
    HR-005: [gift, harassment, discrimination, conflict of interest, insider]
    LEGAL-006: [retain, retention, destroy, records, audit, legal hold]
    COMP-007: [cash, money laundering, sar, sanction, high-risk country]
    IT-008: [vpn, software, download, credential, password, mfa, cloud storage]
    ETH-009: [conflict, disclose, family member, vendor, board position]
    SAFE-010: [injury, accident, ppe, safety, hazard]

  # Bind policy ids to built-in rule families:
  #   travel_expense | financial_crime | data_security
  # Ids without a binding produce relevance-only findings.
  rules:
    FIN-001: travel_expense
    COMP-007: financial_crime
    SEC-002: data_security

  limits:
    travel:
      class_phrases: [business class]
      # max amount > director_threshold -> violation
      # max amount > manager_threshold  -> warning
      director_threshold: 2000
      manager_threshold: 500
    financial_crime:
      cash_keyword: cash
      cash_reporting_threshold: 10000
      sanctions_keyword: sanction
    data_security:
      keywords: [unencrypted, plain text]

# score = base + violation*V + warning*W + high_risk_term*T, clamped to 0..100
risk:
  weights:
    base: 5
    violation: 20
    warning: 8
    high_risk_term: 10
  high_risk_terms: [sanction, money laundering, sar, breach, unencrypted, fraud, bribe, cash]

# score >= escalate_min -> Escalate
# score >= flag_min or any violation -> Flag
# otherwise -> Approve
workflow:
  escalate_min: 70
  flag_min: 40

# Optional model summary. The API key is read from LLM_API_KEY or
# OPENAI_API_KEY, never from this file. USE_LLM=1 also enables it.
summarizer:
  enabled: false
  api_url: https://api.openai.com/v1/chat/completions
  model: gpt-4o
  max_tokens: 600
  temperature: 0.2
  timeout: 15s
  redact:
    # always | never | auto (auto redacts for non-loopback endpoints)
    mode: auto

# Webhooks fired for selected decisions.
# alerts:
#   - url: https://hooks.slack.com/services/...
#     format: slack          # generic | slack | pagerduty
#     events: [Escalate]
`
}
