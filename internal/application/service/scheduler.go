package service

import (
	"context"
	"time"

	"healthaxis/internal/domain/entity"
)

// SchedulerService defines the interface for scheduling operations.
type SchedulerService interface {
	// ScheduleReminder arms the daily job for an enabled reminder, replacing
	// any existing daily job and dropping any pending snooze for the same id.
	ScheduleReminder(ctx context.Context, reminder *entity.Reminder) error
	// ScheduleSnooze arms a one-shot re-fire after the reminder's snooze
	// interval, independent of the daily job.
	ScheduleSnooze(ctx context.Context, reminder *entity.Reminder) error
	// CancelReminderSchedule cancels the daily job for a reminder.
	CancelReminderSchedule(ctx context.Context, reminderID string) error
	// CancelSnoozeSchedule cancels the pending snooze job for a reminder.
	CancelSnoozeSchedule(ctx context.Context, reminderID string) error
	// InitializeSchedules loads persisted reminders and arms the enabled ones.
	InitializeSchedules(ctx context.Context) error
	// NextReminderTime returns the earliest upcoming occurrence across all
	// enabled reminders, or nil when none are enabled.
	NextReminderTime(ctx context.Context) (*time.Time, error)
	// HasDailyJob reports whether a daily job is armed for the reminder.
	HasDailyJob(reminderID string) bool
	// HasSnoozeJob reports whether a snooze job is armed for the reminder.
	HasSnoozeJob(reminderID string) bool
	// Stop stops the underlying scheduler.
	Stop()
}
