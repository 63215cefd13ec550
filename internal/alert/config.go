package alert

import "fmt"

// Config defines a webhook alert destination.
type Config struct {
	URL     string            `yaml:"url"     json:"url"`
	Format  string            `yaml:"format"  json:"format"` // "generic", "slack", "pagerduty"
	Events  []string          `yaml:"events"  json:"events"` // ["Flag", "Escalate"]
	Headers map[string]string `yaml:"headers" json:"headers"`
}

// Event is the payload sent to webhook endpoints for one decision.
type Event struct {
	Timestamp   string   `json:"timestamp"`
	RequestID   string   `json:"request_id"`
	Decision    string   `json:"decision"`
	Score       int      `json:"score"`
	Violations  []string `json:"violations"`
	Explanation string   `json:"explanation"`
	ConfigHash  string   `json:"config_hash,omitempty"`
}

var knownFormats = map[string]bool{"": true, "generic": true, "slack": true, "pagerduty": true}

// Validate checks a single destination. Events are decision names.
func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("alerts: url is required")
	}
	if !knownFormats[c.Format] {
		return fmt.Errorf("alerts %s: unknown format %q", c.URL, c.Format)
	}
	if len(c.Events) == 0 {
		return fmt.Errorf("alerts %s: at least one event is required", c.URL)
	}
	for _, e := range c.Events {
		switch e {
		case "Approve", "Flag", "Escalate":
		default:
			return fmt.Errorf("alerts %s: unknown event %q (want Approve, Flag or Escalate)", c.URL, e)
		}
	}
	return nil
}
