package sqlite

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"healthaxis/internal/domain/entity"
	"healthaxis/internal/domain/repository"
)

type doseLogRepository struct {
	db *gorm.DB
}

// NewDoseLogRepository creates a new instance of DoseLogRepository.
func NewDoseLogRepository(db *gorm.DB) repository.DoseLogRepository {
	return &doseLogRepository{db: db}
}

// Create records a dose log entry. Returns the ID of the created row.
func (r *doseLogRepository) Create(ctx context.Context, log *entity.DoseLog) (uint, error) {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return 0, fmt.Errorf("failed to create dose log for medicine %s: %w", log.MedicineID, err)
	}
	return log.ID, nil
}

// FindByMedicineID retrieves dose logs for a medicine, newest first.
func (r *doseLogRepository) FindByMedicineID(ctx context.Context, medicineID string) ([]*entity.DoseLog, error) {
	var logs []*entity.DoseLog
	if err := r.db.WithContext(ctx).Where("medicine_id = ?", medicineID).Order("taken_at desc").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to find dose logs for medicine %s: %w", medicineID, err)
	}
	return logs, nil
}

// FindSince retrieves dose logs taken at or after the given time.
func (r *doseLogRepository) FindSince(ctx context.Context, since time.Time) ([]*entity.DoseLog, error) {
	var logs []*entity.DoseLog
	if err := r.db.WithContext(ctx).Where("taken_at >= ?", since).Order("taken_at desc").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to find dose logs since %v: %w", since, err)
	}
	return logs, nil
}
