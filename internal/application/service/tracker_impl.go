package service

import (
	"context"
	"fmt"
	"time"

	"healthaxis/internal/domain/entity"
	"healthaxis/internal/domain/repository"
	appErrors "healthaxis/internal/pkg/errors"
	"healthaxis/internal/pkg/events"
	"healthaxis/internal/pkg/logger"
)

type trackerService struct {
	doseLogRepo repository.DoseLogRepository
	reporter    doseReporter
	log         logger.Logger
}

// NewTrackerService creates the tracker and subscribes it to dose events.
func NewTrackerService(
	doseLogRepo repository.DoseLogRepository,
	reporter doseReporter,
	bus *events.Bus,
	log logger.Logger,
) TrackerService {
	t := &trackerService{
		doseLogRepo: doseLogRepo,
		reporter:    reporter,
		log:         log,
	}
	bus.Subscribe(t.handleDoseEvent)
	return t
}

// handleDoseEvent records the dose locally, then reports it to the backend.
// The local record is kept even when the report fails.
func (t *trackerService) handleDoseEvent(ev events.DoseEvent) {
	ctx := context.Background()

	doseLog := &entity.DoseLog{
		MedicineID: ev.MedicineID,
		Daypart:    ev.Daypart.String(),
		Status:     entity.DoseStatusTaken,
		TakenAt:    time.Now(),
	}
	if _, err := t.doseLogRepo.Create(ctx, doseLog); err != nil {
		t.log.Error(fmt.Sprintf("Failed to record dose for medicine %s", ev.MedicineID), err)
		// Still attempt the backend report.
	} else {
		t.log.Info(fmt.Sprintf("Recorded %s dose for medicine %s (%s)", ev.Action, ev.MedicineID, ev.Daypart))
	}

	result, err := t.reporter.LogDose(ctx, ev.MedicineID, entity.DoseStatusTaken)
	if err != nil {
		// The backend client already degrades gracefully; an error here means
		// even the local fallback path failed. Tolerated, local record wins.
		t.log.Warn(fmt.Sprintf("Backend dose report for medicine %s failed: %v", ev.MedicineID, err))
		return
	}
	t.log.Debug(fmt.Sprintf("Backend dose report: %s (+%d points)", result.Message, result.PointsEarned))
}

// ListDoseLogs retrieves the locally recorded doses for a medicine.
func (t *trackerService) ListDoseLogs(ctx context.Context, medicineID string) ([]*entity.DoseLog, error) {
	logs, err := t.doseLogRepo.FindByMedicineID(ctx, medicineID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErrors.ErrStorageOperation, err)
	}
	return logs, nil
}

// ListRecentDoses retrieves all doses taken at or after the given time.
func (t *trackerService) ListRecentDoses(ctx context.Context, since time.Time) ([]*entity.DoseLog, error) {
	logs, err := t.doseLogRepo.FindSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErrors.ErrStorageOperation, err)
	}
	return logs, nil
}
