package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"healthaxis/internal/domain/entity"
	"healthaxis/internal/domain/repository"
	"healthaxis/internal/infrastructure/scheduler"
	appErrors "healthaxis/internal/pkg/errors"
	"healthaxis/internal/pkg/logger"
)

// Job types per reminder id. At most one job of each type is armed per id.
const (
	jobTypeDaily  = "daily"
	jobTypeSnooze = "snooze"
)

type schedulerService struct {
	cronScheduler *scheduler.Scheduler
	reminderRepo  repository.ReminderRepository
	// Set by the dispatcher during wiring to break the service cycle.
	triggerFunc func(ctx context.Context, reminderID string) error
	log         logger.Logger
	// map[reminderID]map[jobType]cron.EntryID
	jobStore map[string]map[string]cron.EntryID
	mu       sync.Mutex // Protect jobStore access
}

// NewSchedulerService creates a new SchedulerService implementation.
// The trigger handler is injected later via SetTriggerHandler.
func NewSchedulerService(
	cronScheduler *scheduler.Scheduler,
	reminderRepo repository.ReminderRepository,
	log logger.Logger,
) SchedulerService {
	return &schedulerService{
		cronScheduler: cronScheduler,
		reminderRepo:  reminderRepo,
		log:           log,
		jobStore:      make(map[string]map[string]cron.EntryID),
	}
}

// SetTriggerHandler sets the function invoked when a reminder fires. Called
// during dependency injection setup to avoid a dispatcher/scheduler cycle.
func (s *schedulerService) SetTriggerHandler(handler func(ctx context.Context, reminderID string) error) {
	s.triggerFunc = handler
}

// NextOccurrence computes the next wall-clock instant strictly after now that
// matches the given HH:MM time of day. An instant not strictly in the future
// advances to the same time on the following calendar day.
func NextOccurrence(timeOfDay string, now time.Time) (time.Time, error) {
	r := entity.Reminder{TimeOfDay: timeOfDay}
	hour, minute, err := r.ClockTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", appErrors.ErrInvalidTimeOfDay, err)
	}
	target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}
	return target, nil
}

// dailyCronSpec builds a seconds-precision cron spec firing every day at the
// given wall-clock time.
func dailyCronSpec(hour, minute int) string {
	return fmt.Sprintf("0 %d %d * * *", minute, hour)
}

// oneShotCronSpec builds a spec matching a single wall-clock instant; the job
// removes itself after firing.
func oneShotCronSpec(t time.Time) string {
	// Seconds Minutes Hours DayOfMonth Month DayOfWeek
	return fmt.Sprintf("%d %d %d %d %d *", t.Second(), t.Minute(), t.Hour(), t.Day(), int(t.Month()))
}

// storeJobID stores the cron EntryID for a specific reminder and job type.
func (s *schedulerService) storeJobID(reminderID, jobType string, entryID cron.EntryID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobStore[reminderID]; !ok {
		s.jobStore[reminderID] = make(map[string]cron.EntryID)
	}
	s.jobStore[reminderID][jobType] = entryID
	s.log.Debug(fmt.Sprintf("Stored job ID %d for reminder %s, type %s", entryID, reminderID, jobType))
}

// removeJobID removes and returns the cron EntryID for a specific reminder
// and job type.
func (s *schedulerService) removeJobID(reminderID, jobType string) (cron.EntryID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if jobs, ok := s.jobStore[reminderID]; ok {
		if entryID, exists := jobs[jobType]; exists {
			delete(s.jobStore[reminderID], jobType)
			if len(s.jobStore[reminderID]) == 0 {
				delete(s.jobStore, reminderID)
			}
			return entryID, true
		}
	}
	return 0, false
}

func (s *schedulerService) hasJob(reminderID, jobType string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	jobs, ok := s.jobStore[reminderID]
	if !ok {
		return false
	}
	_, exists := jobs[jobType]
	return exists
}

// ScheduleReminder arms the daily job for a reminder. Any existing daily job
// and any pending snooze for the same id are cancelled first: replacing a
// definition starts it from a clean slate.
func (s *schedulerService) ScheduleReminder(ctx context.Context, reminder *entity.Reminder) error {
	if s.triggerFunc == nil {
		s.log.Error("Trigger handler is not set in SchedulerService", nil)
		return fmt.Errorf("%w: trigger handler not set", appErrors.ErrInternalServer)
	}
	hour, minute, err := reminder.ClockTime()
	if err != nil {
		s.log.Warn(fmt.Sprintf("Refusing to schedule reminder %s: %v", reminder.ID, err))
		return fmt.Errorf("%w: %v", appErrors.ErrInvalidTimeOfDay, err)
	}

	s.CancelReminderSchedule(ctx, reminder.ID)
	s.CancelSnoozeSchedule(ctx, reminder.ID)

	reminderID := reminder.ID
	jobFunc := func() {
		s.log.Info(fmt.Sprintf("Reminder %s fired", reminderID))
		// Cron jobs run outside any request scope.
		if err := s.triggerFunc(context.Background(), reminderID); err != nil {
			s.log.Error(fmt.Sprintf("Error dispatching reminder %s", reminderID), err)
		}
	}

	entryID, err := s.cronScheduler.AddJob(dailyCronSpec(hour, minute), jobFunc)
	if err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrScheduling, err)
	}

	s.storeJobID(reminderID, jobTypeDaily, entryID)
	s.log.Info(fmt.Sprintf("Scheduled reminder %s daily at %s (Job ID: %d)", reminderID, reminder.TimeOfDay, entryID))
	return nil
}

// ScheduleSnooze arms a one-shot job re-firing the reminder after its snooze
// interval. The daily job is untouched.
func (s *schedulerService) ScheduleSnooze(ctx context.Context, reminder *entity.Reminder) error {
	if s.triggerFunc == nil {
		s.log.Error("Trigger handler is not set in SchedulerService", nil)
		return fmt.Errorf("%w: trigger handler not set", appErrors.ErrInternalServer)
	}

	s.CancelSnoozeSchedule(ctx, reminder.ID)

	fireAt := time.Now().Add(reminder.SnoozeInterval())
	reminderID := reminder.ID

	jobFunc := func() {
		s.log.Info(fmt.Sprintf("Snoozed reminder %s re-fired", reminderID))
		if err := s.triggerFunc(context.Background(), reminderID); err != nil {
			s.log.Error(fmt.Sprintf("Error dispatching snoozed reminder %s", reminderID), err)
		}
		// One-shot: drop the entry so the spec cannot match again next year.
		if entryID, ok := s.removeJobID(reminderID, jobTypeSnooze); ok {
			s.cronScheduler.RemoveJob(entryID)
		}
	}

	entryID, err := s.cronScheduler.AddJob(oneShotCronSpec(fireAt), jobFunc)
	if err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrScheduling, err)
	}

	s.storeJobID(reminderID, jobTypeSnooze, entryID)
	s.log.Info(fmt.Sprintf("Snoozed reminder %s until %v (Job ID: %d)", reminderID, fireAt.Format(time.Kitchen), entryID))
	return nil
}

// CancelReminderSchedule cancels the daily job for a reminder.
func (s *schedulerService) CancelReminderSchedule(ctx context.Context, reminderID string) error {
	if entryID, ok := s.removeJobID(reminderID, jobTypeDaily); ok {
		s.cronScheduler.RemoveJob(entryID)
		s.log.Info(fmt.Sprintf("Cancelled daily schedule for reminder %s (Job ID: %d)", reminderID, entryID))
	} else {
		s.log.Debug(fmt.Sprintf("No daily schedule for reminder %s to cancel.", reminderID))
	}
	return nil
}

// CancelSnoozeSchedule cancels the pending snooze job for a reminder.
func (s *schedulerService) CancelSnoozeSchedule(ctx context.Context, reminderID string) error {
	if entryID, ok := s.removeJobID(reminderID, jobTypeSnooze); ok {
		s.cronScheduler.RemoveJob(entryID)
		s.log.Info(fmt.Sprintf("Cancelled snooze schedule for reminder %s (Job ID: %d)", reminderID, entryID))
	} else {
		s.log.Debug(fmt.Sprintf("No snooze schedule for reminder %s to cancel.", reminderID))
	}
	return nil
}

// InitializeSchedules rehydrates the persisted store and arms every enabled
// reminder. Disabled reminders are retained but never scheduled.
func (s *schedulerService) InitializeSchedules(ctx context.Context) error {
	s.log.Info("Initializing schedules from the reminder store...")
	reminders, err := s.reminderRepo.GetAll(ctx)
	if err != nil {
		s.log.Error("Failed to load reminders for initialization", err)
		return fmt.Errorf("%w: %v", appErrors.ErrStorageOperation, err)
	}

	scheduledCount := 0
	skippedCount := 0
	for _, reminder := range reminders {
		if !reminder.Enabled {
			skippedCount++
			continue
		}
		if err := s.ScheduleReminder(ctx, reminder); err != nil {
			s.log.Error(fmt.Sprintf("Failed to schedule reminder %s during init", reminder.ID), err)
			continue
		}
		scheduledCount++
	}

	s.log.Info(fmt.Sprintf("Schedule initialization complete. Scheduled: %d, Disabled: %d", scheduledCount, skippedCount))
	return nil
}

// NextReminderTime returns the earliest upcoming occurrence across enabled
// reminders, nil when none are enabled.
func (s *schedulerService) NextReminderTime(ctx context.Context) (*time.Time, error) {
	reminders, err := s.reminderRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErrors.ErrStorageOperation, err)
	}

	now := time.Now()
	var next *time.Time
	for _, reminder := range reminders {
		if !reminder.Enabled {
			continue
		}
		occurrence, err := NextOccurrence(reminder.TimeOfDay, now)
		if err != nil {
			s.log.Warn(fmt.Sprintf("Skipping reminder %s with unparseable time: %v", reminder.ID, err))
			continue
		}
		if next == nil || occurrence.Before(*next) {
			next = &occurrence
		}
	}
	return next, nil
}

// HasDailyJob reports whether a daily job is armed for the reminder.
func (s *schedulerService) HasDailyJob(reminderID string) bool {
	return s.hasJob(reminderID, jobTypeDaily)
}

// HasSnoozeJob reports whether a snooze job is armed for the reminder.
func (s *schedulerService) HasSnoozeJob(reminderID string) bool {
	return s.hasJob(reminderID, jobTypeSnooze)
}

// Stop stops the underlying scheduler.
func (s *schedulerService) Stop() {
	s.cronScheduler.Stop()
}
