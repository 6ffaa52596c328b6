package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"healthaxis/internal/application/dto"
	"healthaxis/internal/domain/constant"
	"healthaxis/internal/domain/entity"
	"healthaxis/internal/infrastructure/notify"
	appErrors "healthaxis/internal/pkg/errors"
	"healthaxis/internal/pkg/logger"
)

func testLogger() logger.Logger {
	return logger.NewWithZap(zap.NewNop())
}

// fakeReminderService backs the handler tests with an in-memory map.
type fakeReminderService struct {
	reminders map[string]*entity.Reminder
	next      *time.Time
	err       error
}

func newFakeReminderService() *fakeReminderService {
	return &fakeReminderService{reminders: make(map[string]*entity.Reminder)}
}

func (f *fakeReminderService) SetReminder(ctx context.Context, req dto.SetReminderRequest) (*entity.Reminder, error) {
	if f.err != nil {
		return nil, f.err
	}
	id := req.ID
	if id == "" {
		id = "generated-id"
	}
	rm := &entity.Reminder{
		ID:           id,
		MedicineID:   req.MedicineID,
		MedicineName: req.MedicineName,
		Dosage:       req.Dosage,
		TimeOfDay:    req.TimeOfDay,
		Daypart:      constant.Daypart(req.Daypart),
		Enabled:      req.Enabled == nil || *req.Enabled,
		Sound:        req.Sound == nil || *req.Sound,
	}
	f.reminders[id] = rm
	return rm, nil
}

func (f *fakeReminderService) UpdateReminder(ctx context.Context, id string, req dto.UpdateReminderRequest) (*entity.Reminder, error) {
	rm, ok := f.reminders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", appErrors.ErrReminderNotFound, id)
	}
	if req.TimeOfDay != nil {
		rm.TimeOfDay = *req.TimeOfDay
	}
	return rm, nil
}

func (f *fakeReminderService) ToggleReminder(ctx context.Context, id string) (bool, error) {
	rm, ok := f.reminders[id]
	if !ok {
		return false, fmt.Errorf("%w: %s", appErrors.ErrReminderNotFound, id)
	}
	rm.Enabled = !rm.Enabled
	return rm.Enabled, nil
}

func (f *fakeReminderService) RemoveReminder(ctx context.Context, id string) error {
	delete(f.reminders, id)
	return nil
}

func (f *fakeReminderService) GetReminder(ctx context.Context, id string) (*entity.Reminder, error) {
	rm, ok := f.reminders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", appErrors.ErrReminderNotFound, id)
	}
	return rm, nil
}

func (f *fakeReminderService) ListReminders(ctx context.Context) ([]dto.ReminderResponse, error) {
	var list []dto.ReminderResponse
	for _, rm := range f.reminders {
		list = append(list, dto.ToReminderResponse(rm))
	}
	return list, nil
}

func (f *fakeReminderService) ListMedicineReminders(ctx context.Context, medicineID string) ([]dto.ReminderResponse, error) {
	var list []dto.ReminderResponse
	for _, rm := range f.reminders {
		if rm.MedicineID == medicineID {
			list = append(list, dto.ToReminderResponse(rm))
		}
	}
	return list, nil
}

func (f *fakeReminderService) NextReminderTime(ctx context.Context) (*time.Time, error) {
	return f.next, nil
}

type stubNotifier struct {
	permission notify.Permission
	requested  int
}

func (s *stubNotifier) Permission() notify.Permission { return s.permission }

func (s *stubNotifier) RequestPermission() (notify.Permission, error) {
	s.requested++
	s.permission = notify.PermissionGranted
	return s.permission, nil
}

func (s *stubNotifier) Notify(notify.Notification) error { return nil }

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCreate_ReturnsCreatedReminder(t *testing.T) {
	svc := newFakeReminderService()
	h := NewReminderHandler(svc, &stubNotifier{}, testLogger())

	body := `{"id":"m1","medicine_id":"med-1","medicine_name":"Paracetamol","dosage":"500mg","time":"09:00","frequency":"morning"}`
	c, rec := newContext(http.MethodPost, "/reminders/", body)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.ReminderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "m1", resp.ID)
	assert.True(t, resp.Enabled)
	assert.Equal(t, entity.DefaultSnoozeMinutes, resp.SnoozeMinutes)
}

func TestCreate_MalformedBody(t *testing.T) {
	h := NewReminderHandler(newFakeReminderService(), &stubNotifier{}, testLogger())
	c, rec := newContext(http.MethodPost, "/reminders/", `{"time":`)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreate_ValidationErrorMapsTo400(t *testing.T) {
	svc := newFakeReminderService()
	svc.err = fmt.Errorf("%w: %q", appErrors.ErrInvalidTimeOfDay, "9am")
	h := NewReminderHandler(svc, &stubNotifier{}, testLogger())

	c, rec := newContext(http.MethodPost, "/reminders/", `{"time":"9am"}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGet_NotFound(t *testing.T) {
	h := NewReminderHandler(newFakeReminderService(), &stubNotifier{}, testLogger())

	c, rec := newContext(http.MethodGet, "/reminders/ghost", "")
	c.SetParamNames("id")
	c.SetParamValues("ghost")

	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestList_FiltersByMedicine(t *testing.T) {
	svc := newFakeReminderService()
	_, err := svc.SetReminder(context.Background(), dto.SetReminderRequest{ID: "m1", MedicineID: "med-1", TimeOfDay: "09:00", Daypart: "morning"})
	require.NoError(t, err)
	_, err = svc.SetReminder(context.Background(), dto.SetReminderRequest{ID: "m2", MedicineID: "med-2", TimeOfDay: "14:00", Daypart: "afternoon"})
	require.NoError(t, err)
	h := NewReminderHandler(svc, &stubNotifier{}, testLogger())

	c, rec := newContext(http.MethodGet, "/reminders/?medicine_id=med-2", "")
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var list []dto.ReminderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "m2", list[0].ID)
}

func TestToggle_ReportsNewState(t *testing.T) {
	svc := newFakeReminderService()
	_, err := svc.SetReminder(context.Background(), dto.SetReminderRequest{ID: "m1", MedicineID: "med-1", TimeOfDay: "09:00", Daypart: "morning"})
	require.NoError(t, err)
	h := NewReminderHandler(svc, &stubNotifier{}, testLogger())

	c, rec := newContext(http.MethodPost, "/reminders/m1/toggle", "")
	c.SetParamNames("id")
	c.SetParamValues("m1")

	require.NoError(t, h.Toggle(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["enabled"])
	assert.Equal(t, "Reminder disabled", resp["message"])
}

func TestNextTime(t *testing.T) {
	svc := newFakeReminderService()
	h := NewReminderHandler(svc, &stubNotifier{}, testLogger())

	c, rec := newContext(http.MethodGet, "/reminders/next", "")
	require.NoError(t, h.NextTime(c))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp["next_fire"])

	next := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	svc.next = &next
	c, rec = newContext(http.MethodGet, "/reminders/next", "")
	require.NoError(t, h.NextTime(c))

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, next.Format(time.RFC3339), resp["next_fire"])
}

func TestPermission_ThreeStateSurface(t *testing.T) {
	cases := []struct {
		perm notify.Permission
		want dto.PermissionResponse
	}{
		{notify.PermissionGranted, dto.PermissionResponse{Granted: true}},
		{notify.PermissionDenied, dto.PermissionResponse{Denied: true}},
		{notify.PermissionUnprompted, dto.PermissionResponse{Default: true}},
	}
	for _, tc := range cases {
		h := NewReminderHandler(newFakeReminderService(), &stubNotifier{permission: tc.perm}, testLogger())
		c, rec := newContext(http.MethodGet, "/notifications/permission", "")

		require.NoError(t, h.Permission(c))
		var resp dto.PermissionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, tc.want, resp, "permission %s", tc.perm)
	}
}

func TestRequestPermission(t *testing.T) {
	notifier := &stubNotifier{permission: notify.PermissionUnprompted}
	h := NewReminderHandler(newFakeReminderService(), notifier, testLogger())

	c, rec := newContext(http.MethodPost, "/notifications/permission", "")
	require.NoError(t, h.RequestPermission(c))

	assert.Equal(t, 1, notifier.requested)
	var resp dto.PermissionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Granted)
}
