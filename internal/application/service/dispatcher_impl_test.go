package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthaxis/internal/domain/constant"
	"healthaxis/internal/infrastructure/notify"
	appErrors "healthaxis/internal/pkg/errors"
	"healthaxis/internal/pkg/events"
)

func newTestDispatcher(t *testing.T, repo *memReminderRepo, notifier *fakeNotifier, player *fakePlayer) (DispatcherService, SchedulerService, *events.Bus) {
	t.Helper()
	svc, _ := newTestScheduler(t, repo)
	bus := events.NewBus()
	dispatcher := NewDispatcherService(repo, svc, notifier, player, bus, 30*time.Second, testLogger())
	require.NotNil(t, dispatcher)
	return dispatcher, svc, bus
}

func TestTrigger_DeliversNotification(t *testing.T) {
	repo := newMemReminderRepo()
	notifier := &fakeNotifier{permission: notify.PermissionGranted}
	player := &fakePlayer{}
	dispatcher, _, _ := newTestDispatcher(t, repo, notifier, player)

	rm := testReminder("m1", "09:00")
	require.NoError(t, dispatcher.Trigger(context.Background(), rm))

	delivered := notifier.delivered()
	require.Len(t, delivered, 1)
	assert.Equal(t, "m1", delivered[0].ReminderID)
	assert.Contains(t, delivered[0].Body, "Paracetamol")
	assert.Contains(t, delivered[0].Body, "500mg")
	assert.Equal(t, 30*time.Second, delivered[0].DismissAfter)
	assert.Equal(t, 1, player.playCount())
}

func TestTrigger_PermissionNotGranted(t *testing.T) {
	for _, perm := range []notify.Permission{notify.PermissionDenied, notify.PermissionUnprompted} {
		repo := newMemReminderRepo()
		notifier := &fakeNotifier{permission: perm}
		player := &fakePlayer{}
		dispatcher, _, _ := newTestDispatcher(t, repo, notifier, player)

		// Blocked dispatch is not an error: logged and dropped.
		require.NoError(t, dispatcher.Trigger(context.Background(), testReminder("m1", "09:00")))
		assert.Empty(t, notifier.delivered(), "permission %s", perm)
		assert.Zero(t, player.playCount(), "permission %s", perm)
	}
}

func TestTrigger_SoundDisabled(t *testing.T) {
	repo := newMemReminderRepo()
	notifier := &fakeNotifier{permission: notify.PermissionGranted}
	player := &fakePlayer{}
	dispatcher, _, _ := newTestDispatcher(t, repo, notifier, player)

	rm := testReminder("m1", "09:00")
	rm.Sound = false
	require.NoError(t, dispatcher.Trigger(context.Background(), rm))

	assert.Len(t, notifier.delivered(), 1)
	assert.Zero(t, player.playCount())
}

func TestTrigger_PlaybackFailureDoesNotBlockDelivery(t *testing.T) {
	repo := newMemReminderRepo()
	notifier := &fakeNotifier{permission: notify.PermissionGranted}
	player := &fakePlayer{playErr: errors.New("no audio device")}
	dispatcher, _, _ := newTestDispatcher(t, repo, notifier, player)

	require.NoError(t, dispatcher.Trigger(context.Background(), testReminder("m1", "09:00")))
	assert.Len(t, notifier.delivered(), 1)
}

func TestTrigger_DeliveryFailure(t *testing.T) {
	repo := newMemReminderRepo()
	notifier := &fakeNotifier{permission: notify.PermissionGranted, notifyErr: errors.New("push failed")}
	dispatcher, _, _ := newTestDispatcher(t, repo, notifier, &fakePlayer{})

	err := dispatcher.Trigger(context.Background(), testReminder("m1", "09:00"))
	assert.ErrorIs(t, err, appErrors.ErrNotification)
}

func TestHandleAction_TakenEmitsSingleDoseEvent(t *testing.T) {
	repo := newMemReminderRepo()
	notifier := &fakeNotifier{permission: notify.PermissionGranted}
	dispatcher, schedulerSvc, bus := newTestDispatcher(t, repo, notifier, &fakePlayer{})
	ctx := context.Background()

	var received []events.DoseEvent
	bus.Subscribe(func(ev events.DoseEvent) {
		received = append(received, ev)
	})

	rm := testReminder("m1", "09:00")
	rm.Daypart = constant.DaypartNight
	require.NoError(t, repo.Set(ctx, rm))

	require.NoError(t, dispatcher.HandleAction(ctx, "m1", notify.ActionTaken))

	require.Len(t, received, 1)
	assert.Equal(t, "med-1", received[0].MedicineID)
	assert.Equal(t, constant.DaypartNight, received[0].Daypart)
	assert.Equal(t, events.ActionTaken, received[0].Action)
	// Acknowledging does not arm a snooze.
	assert.False(t, schedulerSvc.HasSnoozeJob("m1"))
}

func TestHandleAction_SnoozeArmsReFireWithoutTouchingDailyJob(t *testing.T) {
	repo := newMemReminderRepo()
	notifier := &fakeNotifier{permission: notify.PermissionGranted}
	dispatcher, schedulerSvc, _ := newTestDispatcher(t, repo, notifier, &fakePlayer{})
	ctx := context.Background()

	rm := testReminder("m1", "09:00")
	rm.SnoozeMinutes = 10
	require.NoError(t, repo.Set(ctx, rm))
	require.NoError(t, schedulerSvc.ScheduleReminder(ctx, rm))

	require.NoError(t, dispatcher.HandleAction(ctx, "m1", notify.ActionSnooze))

	assert.True(t, schedulerSvc.HasSnoozeJob("m1"))
	assert.True(t, schedulerSvc.HasDailyJob("m1"))
}

func TestHandleAction_UnknownReminderDropped(t *testing.T) {
	repo := newMemReminderRepo()
	notifier := &fakeNotifier{permission: notify.PermissionGranted}
	dispatcher, schedulerSvc, bus := newTestDispatcher(t, repo, notifier, &fakePlayer{})

	fired := 0
	bus.Subscribe(func(events.DoseEvent) { fired++ })

	// The notification outlived its reminder: both actions are no-ops.
	require.NoError(t, dispatcher.HandleAction(context.Background(), "ghost", notify.ActionTaken))
	require.NoError(t, dispatcher.HandleAction(context.Background(), "ghost", notify.ActionSnooze))

	assert.Zero(t, fired)
	assert.False(t, schedulerSvc.HasSnoozeJob("ghost"))
}

func TestHandleFire_UsesCurrentDefinition(t *testing.T) {
	repo := newMemReminderRepo()
	notifier := &fakeNotifier{permission: notify.PermissionGranted}
	dispatcher, _, _ := newTestDispatcher(t, repo, notifier, &fakePlayer{})
	ctx := context.Background()

	rm := testReminder("m1", "09:00")
	rm.MedicineName = "Ibuprofen"
	require.NoError(t, repo.Set(ctx, rm))

	d := dispatcher.(*dispatcherService)
	require.NoError(t, d.handleFire(ctx, "m1"))

	delivered := notifier.delivered()
	require.Len(t, delivered, 1)
	assert.Contains(t, delivered[0].Body, "Ibuprofen")

	// A fire for a deleted reminder is dropped silently.
	require.NoError(t, repo.Remove(ctx, "m1"))
	require.NoError(t, d.handleFire(ctx, "m1"))
	assert.Len(t, notifier.delivered(), 1)
}
