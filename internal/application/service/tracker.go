package service

import (
	"context"
	"time"

	"healthaxis/internal/domain/entity"
	"healthaxis/internal/infrastructure/backend"
)

// TrackerService consumes dose acknowledgements: it records the dose locally
// and makes a best-effort report to the health backend.
type TrackerService interface {
	// ListDoseLogs retrieves the locally recorded doses for a medicine.
	ListDoseLogs(ctx context.Context, medicineID string) ([]*entity.DoseLog, error)
	// ListRecentDoses retrieves all doses taken at or after the given time,
	// across medicines.
	ListRecentDoses(ctx context.Context, since time.Time) ([]*entity.DoseLog, error)
}

// doseReporter is the slice of the backend client the tracker needs.
type doseReporter interface {
	LogDose(ctx context.Context, medicineID, status string) (*backend.LogResult, error)
}
