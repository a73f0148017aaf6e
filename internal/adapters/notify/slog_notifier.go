package notify

import (
	"context"
	"log/slog"

	"github.com/hobbyforge/storefront/internal/ports"
)

// SlogNotifier reports user-facing notices through the structured log. It is
// the default sink when no richer presentation channel is attached.
type SlogNotifier struct {
	logger *slog.Logger
}

func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogNotifier{logger: logger}
}

func (n *SlogNotifier) Notify(ctx context.Context, notice ports.Notice) {
	level := slog.LevelInfo
	if notice.Severity == ports.SeverityDestructive {
		level = slog.LevelWarn
	}
	n.logger.Log(ctx, level, "user notice",
		"module", "notify.slog",
		"severity", string(notice.Severity),
		"title", notice.Title,
		"description", notice.Description,
	)
}
