// AngelaMos | 2026
// notifier.go

package gate

import (
	"context"
	"log/slog"
)

// LogNotifier surfaces rejections through the operator log stream. Deployments
// with an alerting pipeline can swap in their own Notifier.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyAccessDenied(
	_ context.Context,
	userID, email string,
) error {
	n.logger.Warn("access denied to authenticated identity",
		"user_id", userID,
		"email", email,
	)
	return nil
}
