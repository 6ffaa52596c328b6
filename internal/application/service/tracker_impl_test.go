package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"healthaxis/internal/domain/constant"
	"healthaxis/internal/domain/entity"
	"healthaxis/internal/domain/repository"
	"healthaxis/internal/infrastructure/backend"
	"healthaxis/internal/infrastructure/database/sqlite"
	"healthaxis/internal/pkg/events"
)

type fakeReporter struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeReporter) LogDose(ctx context.Context, medicineID, status string) (*backend.LogResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, medicineID+"/"+status)
	if f.err != nil {
		return nil, f.err
	}
	return &backend.LogResult{Message: "logged", PointsEarned: 10}, nil
}

func setupDoseLogRepo(t *testing.T) repository.DoseLogRepository {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, sqlite.AutoMigrate(db))
	return sqlite.NewDoseLogRepository(db)
}

func TestTracker_RecordsDoseAndReports(t *testing.T) {
	repo := setupDoseLogRepo(t)
	reporter := &fakeReporter{}
	bus := events.NewBus()
	tracker := NewTrackerService(repo, reporter, bus, testLogger())

	bus.Publish(events.DoseEvent{
		MedicineID: "med-1",
		Daypart:    constant.DaypartMorning,
		Action:     events.ActionTaken,
	})

	logs, err := tracker.ListDoseLogs(context.Background(), "med-1")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.DoseStatusTaken, logs[0].Status)
	assert.Equal(t, "morning", logs[0].Daypart)
	assert.Equal(t, []string{"med-1/taken"}, reporter.calls)
}

func TestTracker_ListRecentDoses(t *testing.T) {
	repo := setupDoseLogRepo(t)
	reporter := &fakeReporter{}
	bus := events.NewBus()
	tracker := NewTrackerService(repo, reporter, bus, testLogger())
	ctx := context.Background()

	old := &entity.DoseLog{
		MedicineID: "med-1",
		Daypart:    "morning",
		Status:     entity.DoseStatusTaken,
		TakenAt:    time.Now().AddDate(0, 0, -30),
	}
	_, err := repo.Create(ctx, old)
	require.NoError(t, err)

	bus.Publish(events.DoseEvent{
		MedicineID: "med-2",
		Daypart:    constant.DaypartMorning,
		Action:     events.ActionTaken,
	})

	recent, err := tracker.ListRecentDoses(ctx, time.Now().AddDate(0, 0, -7))
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "med-2", recent[0].MedicineID)
}

func TestTracker_KeepsLocalRecordWhenReportFails(t *testing.T) {
	repo := setupDoseLogRepo(t)
	reporter := &fakeReporter{err: assert.AnError}
	bus := events.NewBus()
	tracker := NewTrackerService(repo, reporter, bus, testLogger())

	bus.Publish(events.DoseEvent{
		MedicineID: "med-1",
		Daypart:    constant.DaypartNight,
		Action:     events.ActionTaken,
	})

	logs, err := tracker.ListDoseLogs(context.Background(), "med-1")
	require.NoError(t, err)
	assert.Len(t, logs, 1, "the local record survives a failed backend report")
}
