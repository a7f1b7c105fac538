package audit

import (
	"context"
	"log/slog"
)

// Publisher delivers audit events to a sink. Emit must be safe for
// concurrent use.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
	Close() error
}

// Log records an audit action through both the structured logger and the
// publisher. Audit failures are logged but never fail the calling
// operation; attendance outcomes must not depend on sink availability.
func Log(ctx context.Context, logger *slog.Logger, publisher Publisher, event Event) {
	if logger != nil {
		logger.InfoContext(ctx, "audit",
			"action", event.Action,
			"category", event.Category,
			"event_id", event.EventID,
			"member_id", event.MemberID,
			"outcome", event.Outcome,
			"reason", event.Reason,
			"request_id", event.RequestID,
		)
	}
	if publisher == nil {
		return
	}
	if err := publisher.Emit(ctx, event); err != nil && logger != nil {
		logger.ErrorContext(ctx, "audit emit failed", "action", event.Action, "error", err)
	}
}
