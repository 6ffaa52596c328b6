package service

import (
	"context"

	"healthaxis/internal/domain/entity"
)

// DispatcherService delivers fired reminders and handles the user's answer.
type DispatcherService interface {
	// Trigger dispatches one reminder occurrence: permission check, optional
	// alarm tone, notification with Taken / Snooze actions.
	Trigger(ctx context.Context, reminder *entity.Reminder) error
	// HandleAction processes the user's answer to a notification. Taken emits
	// a dose event; Snooze arms a one-shot re-fire. Unknown reminder ids are
	// dropped (the notification outlived its reminder).
	HandleAction(ctx context.Context, reminderID, action string) error
}
