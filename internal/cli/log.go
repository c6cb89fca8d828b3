package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// logHooks reports pipeline phases and outgoing HTTP requests at debug
// level. It implements observability.PipelineHooks and HTTPHooks.
type logHooks struct {
	logger *log.Logger
}

func newLogHooks(l *log.Logger) *logHooks {
	return &logHooks{logger: l}
}

func (h *logHooks) OnPhaseStart(_ context.Context, phase string) {
	h.logger.Debug("phase started", "phase", phase)
}

func (h *logHooks) OnPhaseComplete(_ context.Context, phase string, count int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("phase failed", "phase", phase, "duration", d.Round(time.Millisecond), "err", err)
		return
	}
	h.logger.Debug("phase finished", "phase", phase, "count", count, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path,
		"status", status, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}
