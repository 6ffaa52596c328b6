package service

import (
	"context"
	"time"

	"healthaxis/internal/application/dto"
	"healthaxis/internal/domain/entity"
)

// ReminderService defines the interface for reminder business logic.
type ReminderService interface {
	// SetReminder inserts or replaces a reminder by id, persists it and
	// reschedules it from scratch. Returns the stored definition.
	SetReminder(ctx context.Context, req dto.SetReminderRequest) (*entity.Reminder, error)
	// UpdateReminder applies a partial update to an existing reminder and
	// reschedules it from scratch.
	UpdateReminder(ctx context.Context, id string, req dto.UpdateReminderRequest) (*entity.Reminder, error)
	// ToggleReminder flips the enabled flag and reschedules or cancels
	// accordingly. Returns the new enabled state.
	ToggleReminder(ctx context.Context, id string) (bool, error)
	// RemoveReminder deletes a reminder and cancels any pending jobs.
	RemoveReminder(ctx context.Context, id string) error
	// GetReminder retrieves a reminder by id.
	GetReminder(ctx context.Context, id string) (*entity.Reminder, error)
	// ListReminders retrieves all reminders.
	ListReminders(ctx context.Context) ([]dto.ReminderResponse, error)
	// ListMedicineReminders retrieves the reminders for one medicine.
	ListMedicineReminders(ctx context.Context, medicineID string) ([]dto.ReminderResponse, error)
	// NextReminderTime returns the earliest upcoming occurrence across all
	// enabled reminders, nil when none are enabled.
	NextReminderTime(ctx context.Context) (*time.Time, error)
}
