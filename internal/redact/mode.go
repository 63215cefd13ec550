package redact

import "strings"

// Mode determines whether redaction is applied.
type Mode string

const (
	ModeLocal Mode = "local" // summarizer on this host, no redaction
	ModeCloud Mode = "cloud" // remote summarizer, mandatory redaction
)

// DetectMode infers the redaction mode from the API URL.
// Loopback hosts are local; everything else is cloud.
func DetectMode(apiURL string) Mode {
	lower := strings.ToLower(apiURL)
	for _, local := range []string{"localhost", "127.0.0.1", "[::1]"} {
		if strings.Contains(lower, local) {
			return ModeLocal
		}
	}
	return ModeCloud
}

// ResolveMode applies an override ("always", "never", or empty/"auto") on
// top of URL detection. The override takes precedence.
func ResolveMode(apiURL, override string) Mode {
	switch strings.ToLower(strings.TrimSpace(override)) {
	case "always":
		return ModeCloud
	case "never":
		return ModeLocal
	default:
		return DetectMode(apiURL)
	}
}
