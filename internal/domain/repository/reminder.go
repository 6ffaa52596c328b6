package repository

import (
	"context"

	"healthaxis/internal/domain/entity"
)

// ReminderRepository defines the interface for the durable reminder store.
// The store is authoritative in memory; implementations persist the whole
// collection on every mutation and swallow persistence failures after logging
// them, so a Set or Remove never fails the in-memory update.
type ReminderRepository interface {
	// Set inserts or replaces a reminder by ID.
	Set(ctx context.Context, reminder *entity.Reminder) error
	// Remove deletes a reminder by ID. Removing an absent ID is a no-op.
	Remove(ctx context.Context, id string) error
	// Get retrieves a reminder by ID.
	Get(ctx context.Context, id string) (*entity.Reminder, error)
	// GetAll retrieves the full collection, order unspecified.
	GetAll(ctx context.Context) ([]*entity.Reminder, error)
	// GetByMedicine retrieves all reminders for a specific medicine.
	GetByMedicine(ctx context.Context, medicineID string) ([]*entity.Reminder, error)
}
