package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"healthaxis/internal/application/dto"
	"healthaxis/internal/domain/constant"
	"healthaxis/internal/domain/entity"
	"healthaxis/internal/domain/repository"
	appErrors "healthaxis/internal/pkg/errors"
	"healthaxis/internal/pkg/logger"
)

type reminderService struct {
	reminderRepo repository.ReminderRepository
	schedulerSvc SchedulerService
	log          logger.Logger
}

// NewReminderService creates a new ReminderService implementation.
func NewReminderService(
	reminderRepo repository.ReminderRepository,
	schedulerSvc SchedulerService,
	log logger.Logger,
) ReminderService {
	return &reminderService{
		reminderRepo: reminderRepo,
		schedulerSvc: schedulerSvc,
		log:          log,
	}
}

func validateReminder(r *entity.Reminder) error {
	if _, _, err := r.ClockTime(); err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrInvalidTimeOfDay, err)
	}
	if !r.Daypart.Valid() {
		return fmt.Errorf("%w: %q", appErrors.ErrInvalidDaypart, r.Daypart)
	}
	return nil
}

// applySchedule arms or cancels jobs to match the reminder's enabled state.
// Disabling also drops any pending snooze.
func (s *reminderService) applySchedule(ctx context.Context, reminder *entity.Reminder) error {
	if reminder.Enabled {
		return s.schedulerSvc.ScheduleReminder(ctx, reminder)
	}
	s.schedulerSvc.CancelReminderSchedule(ctx, reminder.ID)
	s.schedulerSvc.CancelSnoozeSchedule(ctx, reminder.ID)
	return nil
}

// SetReminder inserts or replaces a reminder by id.
func (s *reminderService) SetReminder(ctx context.Context, req dto.SetReminderRequest) (*entity.Reminder, error) {
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	sound := true
	if req.Sound != nil {
		sound = *req.Sound
	}
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	reminder := &entity.Reminder{
		ID:            id,
		MedicineID:    req.MedicineID,
		MedicineName:  req.MedicineName,
		Dosage:        req.Dosage,
		TimeOfDay:     req.TimeOfDay,
		Daypart:       constant.Daypart(req.Daypart),
		Enabled:       enabled,
		Sound:         sound,
		SnoozeMinutes: req.SnoozeMinutes,
	}
	if err := validateReminder(reminder); err != nil {
		return nil, err
	}

	if err := s.reminderRepo.Set(ctx, reminder); err != nil {
		s.log.Error(fmt.Sprintf("Failed to store reminder %s", reminder.ID), err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrStorageOperation, err)
	}
	if err := s.applySchedule(ctx, reminder); err != nil {
		return nil, err
	}

	s.log.Info(fmt.Sprintf("Set reminder %s for medicine %s at %s (enabled=%t)", reminder.ID, reminder.MedicineID, reminder.TimeOfDay, reminder.Enabled))
	return reminder, nil
}

// UpdateReminder applies a partial update and reschedules from scratch.
func (s *reminderService) UpdateReminder(ctx context.Context, id string, req dto.UpdateReminderRequest) (*entity.Reminder, error) {
	reminder, err := s.reminderRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.TimeOfDay != nil {
		reminder.TimeOfDay = *req.TimeOfDay
	}
	if req.Daypart != nil {
		reminder.Daypart = constant.Daypart(*req.Daypart)
	}
	if req.Enabled != nil {
		reminder.Enabled = *req.Enabled
	}
	if req.Sound != nil {
		reminder.Sound = *req.Sound
	}
	if req.SnoozeMinutes != nil {
		reminder.SnoozeMinutes = *req.SnoozeMinutes
	}
	if err := validateReminder(reminder); err != nil {
		return nil, err
	}

	if err := s.reminderRepo.Set(ctx, reminder); err != nil {
		s.log.Error(fmt.Sprintf("Failed to store reminder %s", id), err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrStorageOperation, err)
	}
	if err := s.applySchedule(ctx, reminder); err != nil {
		return nil, err
	}

	s.log.Info(fmt.Sprintf("Updated reminder %s", id))
	return reminder, nil
}

// ToggleReminder flips the enabled flag. Re-enabling reschedules from the
// current time, not from the original schedule.
func (s *reminderService) ToggleReminder(ctx context.Context, id string) (bool, error) {
	reminder, err := s.reminderRepo.Get(ctx, id)
	if err != nil {
		return false, err
	}

	reminder.Enabled = !reminder.Enabled
	if err := s.reminderRepo.Set(ctx, reminder); err != nil {
		s.log.Error(fmt.Sprintf("Failed to store reminder %s", id), err)
		return false, fmt.Errorf("%w: %v", appErrors.ErrStorageOperation, err)
	}
	if err := s.applySchedule(ctx, reminder); err != nil {
		return reminder.Enabled, err
	}

	s.log.Info(fmt.Sprintf("Toggled reminder %s to enabled=%t", id, reminder.Enabled))
	return reminder.Enabled, nil
}

// RemoveReminder deletes a reminder and cancels its daily and snooze jobs.
func (s *reminderService) RemoveReminder(ctx context.Context, id string) error {
	if err := s.reminderRepo.Remove(ctx, id); err != nil {
		s.log.Error(fmt.Sprintf("Failed to remove reminder %s", id), err)
		return fmt.Errorf("%w: %v", appErrors.ErrStorageOperation, err)
	}
	s.schedulerSvc.CancelReminderSchedule(ctx, id)
	s.schedulerSvc.CancelSnoozeSchedule(ctx, id)
	s.log.Info(fmt.Sprintf("Removed reminder %s", id))
	return nil
}

// GetReminder retrieves a reminder by id.
func (s *reminderService) GetReminder(ctx context.Context, id string) (*entity.Reminder, error) {
	return s.reminderRepo.Get(ctx, id)
}

// ListReminders retrieves all reminders.
func (s *reminderService) ListReminders(ctx context.Context) ([]dto.ReminderResponse, error) {
	reminders, err := s.reminderRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErrors.ErrStorageOperation, err)
	}
	return dto.ToReminderResponseList(reminders), nil
}

// ListMedicineReminders retrieves the reminders for one medicine.
func (s *reminderService) ListMedicineReminders(ctx context.Context, medicineID string) ([]dto.ReminderResponse, error) {
	reminders, err := s.reminderRepo.GetByMedicine(ctx, medicineID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErrors.ErrStorageOperation, err)
	}
	return dto.ToReminderResponseList(reminders), nil
}

// NextReminderTime returns the earliest upcoming enabled occurrence.
func (s *reminderService) NextReminderTime(ctx context.Context) (*time.Time, error) {
	return s.schedulerSvc.NextReminderTime(ctx)
}
