package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"healthaxis/internal/application/service"
	"healthaxis/internal/infrastructure/backend"
	"healthaxis/internal/pkg/logger"
)

// CompanionHandler exposes the health-companion data the UI consumes:
// medicines, appointments, records and points proxied from the backend
// (degrading to canned payloads), and the locally recorded dose history.
type CompanionHandler struct {
	backendClient  *backend.Client
	trackerService service.TrackerService
	log            logger.Logger
}

// NewCompanionHandler creates a new CompanionHandler.
func NewCompanionHandler(
	backendClient *backend.Client,
	trackerService service.TrackerService,
	log logger.Logger,
) *CompanionHandler {
	return &CompanionHandler{
		backendClient:  backendClient,
		trackerService: trackerService,
		log:            log,
	}
}

// Medicines handles GET /medicines/
func (h *CompanionHandler) Medicines(c echo.Context) error {
	medicines, err := h.backendClient.GetMedicines(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"detail": err.Error()})
	}
	return c.JSON(http.StatusOK, medicines)
}

// Appointments handles GET /appointments/
func (h *CompanionHandler) Appointments(c echo.Context) error {
	appointments, err := h.backendClient.GetAppointments(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"detail": err.Error()})
	}
	return c.JSON(http.StatusOK, appointments)
}

// Records handles GET /records/
func (h *CompanionHandler) Records(c echo.Context) error {
	records, err := h.backendClient.GetHealthRecords(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"detail": err.Error()})
	}
	return c.JSON(http.StatusOK, records)
}

// UnlockRecord handles POST /records/:id/unlock
func (h *CompanionHandler) UnlockRecord(c echo.Context) error {
	recordID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "record id must be numeric"})
	}
	var body struct {
		QRKey string `json:"qr_key"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "malformed request body"})
	}
	result, err := h.backendClient.UnlockRecord(c.Request().Context(), recordID, body.QRKey)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"detail": err.Error()})
	}
	return c.JSON(http.StatusOK, result)
}

// Points handles GET /points/
func (h *CompanionHandler) Points(c echo.Context) error {
	points, err := h.backendClient.GetPoints(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"detail": err.Error()})
	}
	return c.JSON(http.StatusOK, points)
}

// DoseLogs handles GET /medicines/:id/doses
func (h *CompanionHandler) DoseLogs(c echo.Context) error {
	logs, err := h.trackerService.ListDoseLogs(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"detail": err.Error()})
	}
	return c.JSON(http.StatusOK, logs)
}

// RecentDoses handles GET /doses/?since=RFC3339, defaulting to the last week.
func (h *CompanionHandler) RecentDoses(c echo.Context) error {
	since := time.Now().AddDate(0, 0, -7)
	if raw := c.QueryParam("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"detail": "since must be RFC3339"})
		}
		since = parsed
	}
	logs, err := h.trackerService.ListRecentDoses(c.Request().Context(), since)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"detail": err.Error()})
	}
	return c.JSON(http.StatusOK, logs)
}
