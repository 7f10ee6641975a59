package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// CalendarEvent describes a follow-up appointment derived from a case.
type CalendarEvent struct {
	CaseID          int64
	Code            string
	Title           string
	StartsAt        time.Time
	DurationMinutes int
}

// CalendarNotifier pushes case appointments to an external calendar.
// Implementations must be safe for concurrent use, events are dispatched
// from background workers.
type CalendarNotifier interface {
	CreateEvent(ctx context.Context, event CalendarEvent) (string, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// NoopCalendar satisfies CalendarNotifier without an external provider.
// It is the default when calendar integration is disabled.
type NoopCalendar struct {
	logger *zap.Logger
}

// NewNoopCalendar builds a no-op notifier.
func NewNoopCalendar(logger *zap.Logger) *NoopCalendar {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoopCalendar{logger: logger}
}

// CreateEvent logs the event and returns an empty id.
func (n *NoopCalendar) CreateEvent(_ context.Context, event CalendarEvent) (string, error) {
	n.logger.Debug("calendar disabled, skipping event", zap.String("code", event.Code))
	return "", nil
}

// DeleteEvent is a no-op.
func (n *NoopCalendar) DeleteEvent(_ context.Context, eventID string) error {
	n.logger.Debug("calendar disabled, skipping delete", zap.String("event_id", eventID))
	return nil
}
