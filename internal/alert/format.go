package alert

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatPayload builds the webhook body for the given format.
func FormatPayload(format string, event Event) ([]byte, error) {
	switch format {
	case "slack":
		return formatSlack(event)
	case "pagerduty":
		return formatPagerDuty(event)
	default:
		return formatGeneric(event)
	}
}

func formatGeneric(event Event) ([]byte, error) {
	return json.Marshal(event)
}

func formatSlack(event Event) ([]byte, error) {
	violations := "none"
	if len(event.Violations) > 0 {
		violations = strings.Join(event.Violations, ", ")
	}

	payload := map[string]any{
		"blocks": []any{
			map[string]any{
				"type": "header",
				"text": map[string]any{
					"type": "plain_text",
					"text": fmt.Sprintf("compliance: %s", event.Decision),
				},
			},
			map[string]any{
				"type": "section",
				"fields": []any{
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Score:* %d", event.Score)},
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Severity:* %s", severityFor(event.Decision))},
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Violations:* %s", violations)},
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Request:* %s", event.RequestID)},
				},
			},
			map[string]any{
				"type": "section",
				"text": map[string]any{"type": "mrkdwn", "text": "```" + event.Explanation + "```"},
			},
		},
	}
	return json.Marshal(payload)
}

func formatPagerDuty(event Event) ([]byte, error) {
	payload := map[string]any{
		"event_action": "trigger",
		"payload": map[string]any{
			"summary":  fmt.Sprintf("compliance %s: risk score %d", event.Decision, event.Score),
			"severity": severityFor(event.Decision),
			"source":   "compliance",
			"custom_details": map[string]any{
				"violations":  event.Violations,
				"explanation": event.Explanation,
				"request_id":  event.RequestID,
				"config_hash": event.ConfigHash,
			},
		},
	}
	return json.Marshal(payload)
}

func severityFor(decision string) string {
	switch decision {
	case "Escalate":
		return "critical"
	case "Flag":
		return "warning"
	default:
		return "info"
	}
}
