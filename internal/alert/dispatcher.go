package alert

import (
	"context"
	"log/slog"
	"sync"
)

// Dispatcher fans out decision events to matching webhook configurations.
type Dispatcher struct {
	configs []Config
	logger  *slog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher from webhook configurations.
// Returns nil if configs is empty (callers should nil-check).
func NewDispatcher(configs []Config, logger *slog.Logger) *Dispatcher {
	if len(configs) == 0 {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{configs: configs, logger: logger}
}

// Dispatch sends the event to every webhook whose Events list names the
// decision. Sends run in goroutines and do not block the caller; the
// returned count is the number of webhooks targeted.
func (d *Dispatcher) Dispatch(ctx context.Context, event Event) int {
	n := 0
	for _, cfg := range d.configs {
		if !matches(cfg.Events, event) {
			continue
		}
		n++
		d.wg.Add(1)
		go func(cfg Config) {
			defer d.wg.Done()
			if err := Send(context.WithoutCancel(ctx), cfg, event); err != nil {
				d.logger.Warn("alert delivery failed",
					"url", cfg.URL, "decision", event.Decision, "request_id", event.RequestID, "error", err)
			}
		}(cfg)
	}
	return n
}

// Wait blocks until all in-flight sends have finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func matches(events []string, event Event) bool {
	for _, e := range events {
		if e == event.Decision {
			return true
		}
	}
	return false
}
