package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"healthaxis/internal/application/dto"
	"healthaxis/internal/application/service"
	"healthaxis/internal/infrastructure/notify"
	appErrors "healthaxis/internal/pkg/errors"
	"healthaxis/internal/pkg/logger"
)

// ReminderHandler exposes the reminder CRUD and notification permission
// endpoints.
type ReminderHandler struct {
	reminderService service.ReminderService
	notifier        notify.Notifier
	log             logger.Logger
}

// NewReminderHandler creates a new ReminderHandler.
func NewReminderHandler(
	reminderService service.ReminderService,
	notifier notify.Notifier,
	log logger.Logger,
) *ReminderHandler {
	return &ReminderHandler{
		reminderService: reminderService,
		notifier:        notifier,
		log:             log,
	}
}

func httpStatusFor(err error) int {
	switch {
	case errors.Is(err, appErrors.ErrReminderNotFound):
		return http.StatusNotFound
	case errors.Is(err, appErrors.ErrInvalidTimeOfDay), errors.Is(err, appErrors.ErrInvalidDaypart):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func errorJSON(c echo.Context, err error) error {
	return c.JSON(httpStatusFor(err), map[string]string{"detail": err.Error()})
}

// List handles GET /reminders/?medicine_id=...
func (h *ReminderHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	if medicineID := c.QueryParam("medicine_id"); medicineID != "" {
		reminders, err := h.reminderService.ListMedicineReminders(ctx, medicineID)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON(http.StatusOK, reminders)
	}
	reminders, err := h.reminderService.ListReminders(ctx)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, reminders)
}

// Get handles GET /reminders/:id
func (h *ReminderHandler) Get(c echo.Context) error {
	reminder, err := h.reminderService.GetReminder(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, dto.ToReminderResponse(reminder))
}

// Create handles POST /reminders/
func (h *ReminderHandler) Create(c echo.Context) error {
	var req dto.SetReminderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "malformed request body"})
	}
	reminder, err := h.reminderService.SetReminder(c.Request().Context(), req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusCreated, dto.ToReminderResponse(reminder))
}

// Update handles PUT /reminders/:id
func (h *ReminderHandler) Update(c echo.Context) error {
	var req dto.UpdateReminderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "malformed request body"})
	}
	reminder, err := h.reminderService.UpdateReminder(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, dto.ToReminderResponse(reminder))
}

// Delete handles DELETE /reminders/:id
func (h *ReminderHandler) Delete(c echo.Context) error {
	if err := h.reminderService.RemoveReminder(c.Request().Context(), c.Param("id")); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Reminder deleted successfully"})
}

// Toggle handles POST /reminders/:id/toggle
func (h *ReminderHandler) Toggle(c echo.Context) error {
	enabled, err := h.reminderService.ToggleReminder(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	message := "Reminder disabled"
	if enabled {
		message = "Reminder enabled"
	}
	return c.JSON(http.StatusOK, map[string]any{"message": message, "enabled": enabled})
}

// NextTime handles GET /reminders/next
func (h *ReminderHandler) NextTime(c echo.Context) error {
	next, err := h.reminderService.NextReminderTime(c.Request().Context())
	if err != nil {
		return errorJSON(c, err)
	}
	if next == nil {
		return c.JSON(http.StatusOK, map[string]any{"next_fire": nil})
	}
	return c.JSON(http.StatusOK, map[string]any{"next_fire": next.Format(time.RFC3339)})
}

func permissionResponse(p notify.Permission) dto.PermissionResponse {
	return dto.PermissionResponse{
		Granted: p == notify.PermissionGranted,
		Denied:  p == notify.PermissionDenied,
		Default: p == notify.PermissionUnprompted,
	}
}

// Permission handles GET /notifications/permission
func (h *ReminderHandler) Permission(c echo.Context) error {
	return c.JSON(http.StatusOK, permissionResponse(h.notifier.Permission()))
}

// RequestPermission handles POST /notifications/permission
func (h *ReminderHandler) RequestPermission(c echo.Context) error {
	perm, err := h.notifier.RequestPermission()
	if err != nil {
		h.log.Warn("Notification permission request failed: " + err.Error())
	}
	return c.JSON(http.StatusOK, permissionResponse(perm))
}
