package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/model"
)

// Notifier delivers an incident notification to its recipient.
// Implementations must be safe for concurrent use; dispatch runs on a
// background goroutine after the incident write commits.
type Notifier interface {
	Send(ctx context.Context, notification *model.IncidentNotification, incident *model.Incident) error
}

// logNotifier records deliveries in the structured log. It stands in
// wherever no outbound transport is configured, so the notification
// pipeline stays exercised end to end.
type logNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a Notifier backed by the log.
func NewLogNotifier(logger *zap.Logger) Notifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Send(_ context.Context, notification *model.IncidentNotification, incident *model.Incident) error {
	n.logger.Info("incident notification dispatched",
		zap.String("incident_number", incident.IncidentNumber),
		zap.String("notification_type", notification.NotificationType),
		zap.String("recipient", notification.RecipientEmail),
		zap.String("subject", notification.Subject),
	)
	return nil
}
