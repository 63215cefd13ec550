package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Muqadas1234/compliance-policy-ai/internal/redact"
)

// newLogger builds the process logger. String attributes are scanned for
// sensitive values so documents never reach the log verbatim.
func newLogger(w io.Writer, level, format, defaultFormat string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}

	opts := &slog.HandlerOptions{Level: lvl, ReplaceAttr: redactAttr}

	if format == "" {
		format = defaultFormat
	}
	switch strings.ToLower(format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", format)
	}
}

func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindString {
		return a
	}
	s := a.Value.String()
	if len(redact.Scan(s)) == 0 {
		return a
	}
	return slog.String(a.Key, redact.Redact(s, redact.NewTokenMap("log")))
}
