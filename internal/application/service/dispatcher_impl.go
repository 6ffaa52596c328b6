package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"healthaxis/internal/domain/entity"
	"healthaxis/internal/domain/repository"
	"healthaxis/internal/infrastructure/notify"
	appErrors "healthaxis/internal/pkg/errors"
	"healthaxis/internal/pkg/events"
	"healthaxis/internal/pkg/logger"
	"healthaxis/internal/pkg/tone"
)

type dispatcherService struct {
	reminderRepo repository.ReminderRepository
	schedulerSvc SchedulerService
	notifier     notify.Notifier
	player       tone.Player
	alarm        []byte
	bus          *events.Bus
	dismissAfter time.Duration
	log          logger.Logger
}

// NewDispatcherService creates the dispatcher and registers itself as the
// scheduler's trigger handler.
func NewDispatcherService(
	reminderRepo repository.ReminderRepository,
	schedulerSvc SchedulerService,
	notifier notify.Notifier,
	player tone.Player,
	bus *events.Bus,
	dismissAfter time.Duration,
	log logger.Logger,
) DispatcherService {
	d := &dispatcherService{
		reminderRepo: reminderRepo,
		schedulerSvc: schedulerSvc,
		notifier:     notifier,
		player:       player,
		alarm:        tone.AlarmTone(),
		bus:          bus,
		dismissAfter: dismissAfter,
		log:          log,
	}

	// Wiring workaround mirroring the scheduler/dispatcher cycle: the
	// scheduler fires with a reminder id, the dispatcher resolves the current
	// definition and triggers.
	if schedulerImpl, ok := schedulerSvc.(*schedulerService); ok {
		schedulerImpl.SetTriggerHandler(d.handleFire)
		log.Info("Trigger handler set for SchedulerService.")
	} else {
		log.Error("SchedulerService provided is not the expected implementation type (*schedulerService)", nil)
		return nil
	}

	return d
}

// handleFire resolves the reminder's current definition at fire time so a
// replaced definition is dispatched with fresh content.
func (d *dispatcherService) handleFire(ctx context.Context, reminderID string) error {
	reminder, err := d.reminderRepo.Get(ctx, reminderID)
	if err != nil {
		if errors.Is(err, appErrors.ErrReminderNotFound) {
			d.log.Warn(fmt.Sprintf("Reminder %s fired but is no longer in the store, dropping", reminderID))
			return nil
		}
		return err
	}
	return d.Trigger(ctx, reminder)
}

// Trigger dispatches one reminder occurrence.
func (d *dispatcherService) Trigger(ctx context.Context, reminder *entity.Reminder) error {
	if perm := d.notifier.Permission(); perm != notify.PermissionGranted {
		d.log.Warn(fmt.Sprintf("Notification permission not granted (%s), dropping reminder %s", perm, reminder.ID))
		return nil
	}

	if reminder.Sound {
		if err := d.player.Play(d.alarm); err != nil {
			d.log.Warn(fmt.Sprintf("Could not play alarm tone for reminder %s: %v", reminder.ID, err))
		}
	}

	notification := notify.Notification{
		ReminderID:   reminder.ID,
		Title:        "💊 Medicine Reminder",
		Body:         fmt.Sprintf("Time to take %s (%s)", reminder.MedicineName, reminder.Dosage),
		DismissAfter: d.dismissAfter,
	}
	if err := d.notifier.Notify(notification); err != nil {
		d.log.Error(fmt.Sprintf("Failed to deliver notification for reminder %s", reminder.ID), err)
		return fmt.Errorf("%w: %v", appErrors.ErrNotification, err)
	}

	d.log.Info(fmt.Sprintf("Dispatched reminder %s for medicine %s", reminder.ID, reminder.MedicineID))
	return nil
}

// HandleAction processes the user's Taken or Snooze answer.
func (d *dispatcherService) HandleAction(ctx context.Context, reminderID, action string) error {
	reminder, err := d.reminderRepo.Get(ctx, reminderID)
	if err != nil {
		if errors.Is(err, appErrors.ErrReminderNotFound) {
			d.log.Warn(fmt.Sprintf("Action %q for unknown reminder %s, dropping", action, reminderID))
			return nil
		}
		return err
	}

	switch action {
	case notify.ActionTaken:
		d.bus.Publish(events.DoseEvent{
			MedicineID: reminder.MedicineID,
			Daypart:    reminder.Daypart,
			Action:     events.ActionTaken,
		})
		d.log.Info(fmt.Sprintf("Reminder %s acknowledged as taken", reminderID))
		return nil
	case notify.ActionSnooze:
		if err := d.schedulerSvc.ScheduleSnooze(ctx, reminder); err != nil {
			d.log.Error(fmt.Sprintf("Failed to snooze reminder %s", reminderID), err)
			return err
		}
		return nil
	default:
		d.log.Warn(fmt.Sprintf("Unknown action %q for reminder %s, dropping", action, reminderID))
		return nil
	}
}
