package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"

	"healthaxis/internal/domain/entity"
	"healthaxis/internal/domain/repository"
	"healthaxis/internal/infrastructure/notify"
	"healthaxis/internal/infrastructure/scheduler"
	appErrors "healthaxis/internal/pkg/errors"
	"healthaxis/internal/pkg/logger"
)

func testLogger() logger.Logger {
	return logger.NewWithZap(zap.NewNop())
}

// memReminderRepo is an in-memory ReminderRepository for tests.
type memReminderRepo struct {
	mu        sync.Mutex
	reminders map[string]*entity.Reminder
}

func newMemReminderRepo() *memReminderRepo {
	return &memReminderRepo{reminders: make(map[string]*entity.Reminder)}
}

func (m *memReminderRepo) Set(ctx context.Context, r *entity.Reminder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *r
	m.reminders[clone.ID] = &clone
	return nil
}

func (m *memReminderRepo) Remove(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.reminders, id)
	return nil
}

func (m *memReminderRepo) Get(ctx context.Context, id string) (*entity.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reminders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", appErrors.ErrReminderNotFound, id)
	}
	clone := *r
	return &clone, nil
}

func (m *memReminderRepo) GetAll(ctx context.Context) ([]*entity.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := make([]*entity.Reminder, 0, len(m.reminders))
	for _, r := range m.reminders {
		clone := *r
		list = append(list, &clone)
	}
	return list, nil
}

func (m *memReminderRepo) GetByMedicine(ctx context.Context, medicineID string) ([]*entity.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []*entity.Reminder
	for _, r := range m.reminders {
		if r.MedicineID == medicineID {
			clone := *r
			list = append(list, &clone)
		}
	}
	return list, nil
}

var _ repository.ReminderRepository = (*memReminderRepo)(nil)

// fakeNotifier records deliveries and serves a configurable permission state.
type fakeNotifier struct {
	mu            sync.Mutex
	permission    notify.Permission
	notifications []notify.Notification
	notifyErr     error
}

func (f *fakeNotifier) Permission() notify.Permission {
	return f.permission
}

func (f *fakeNotifier) RequestPermission() (notify.Permission, error) {
	return f.permission, nil
}

func (f *fakeNotifier) Notify(n notify.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.notifyErr != nil {
		return f.notifyErr
	}
	f.notifications = append(f.notifications, n)
	return nil
}

func (f *fakeNotifier) delivered() []notify.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]notify.Notification, len(f.notifications))
	copy(out, f.notifications)
	return out
}

// fakePlayer records playback attempts.
type fakePlayer struct {
	mu      sync.Mutex
	plays   int
	playErr error
}

func (f *fakePlayer) Play(wav []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plays++
	return f.playErr
}

func (f *fakePlayer) playCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.plays
}

// newTestScheduler builds a SchedulerService over a real cron scheduler with
// a no-op trigger handler. The cron instance is returned for entry counting
// and is stopped on test cleanup.
func newTestScheduler(t *testing.T, repo repository.ReminderRepository) (SchedulerService, *scheduler.Scheduler) {
	t.Helper()
	log := testLogger()
	cronScheduler := scheduler.NewScheduler(log)
	t.Cleanup(cronScheduler.Stop)

	svc := NewSchedulerService(cronScheduler, repo, log)
	svc.(*schedulerService).SetTriggerHandler(func(ctx context.Context, reminderID string) error {
		return nil
	})
	return svc, cronScheduler
}
