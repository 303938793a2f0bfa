package notify

import "log/slog"

// LogReporter records user-facing failure messages in the server log. A UI
// embedding the chat core replaces this with its toast surface.
type LogReporter struct {
	logger *slog.Logger
}

// NewLogReporter creates a reporter backed by the given logger.
func NewLogReporter(logger *slog.Logger) *LogReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogReporter{logger: logger}
}

// Report surfaces one human-readable failure message.
func (r *LogReporter) Report(message string) {
	r.logger.Warn("assistant turn failed", "message", message)
}
