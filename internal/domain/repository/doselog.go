package repository

import (
	"context"
	"time"

	"healthaxis/internal/domain/entity"
)

// DoseLogRepository defines the interface for dose-log data operations.
type DoseLogRepository interface {
	// Create records a dose log entry. Returns the ID of the created row.
	Create(ctx context.Context, log *entity.DoseLog) (uint, error)
	// FindByMedicineID retrieves dose logs for a medicine, newest first.
	FindByMedicineID(ctx context.Context, medicineID string) ([]*entity.DoseLog, error)
	// FindSince retrieves dose logs taken at or after the given time.
	FindSince(ctx context.Context, since time.Time) ([]*entity.DoseLog, error)
}
