package services

import (
	"context"
	"log/slog"

	portssvc "github.com/fieldworks/crew_settlement_app/internal/core/ports/services"
	"github.com/fieldworks/crew_settlement_app/internal/middleware"
)

// LogNotifier writes notifications to the structured log. It stands in for a
// real delivery channel (telegram, SMS) behind the same interface.
type LogNotifier struct{}

var _ portssvc.Notifier = (*LogNotifier)(nil)

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(ctx context.Context, recipientID, message string) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	logger.Info("Notification",
		slog.String("recipient_id", recipientID),
		slog.String("message", message))
	return nil
}
