// Package backend is the typed client for the external health backend. Read
// endpoints degrade to canned payloads when the backend is unreachable;
// the server-side reminder CRUD calls do not and return the error instead.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"healthaxis/internal/pkg/config"
	appErrors "healthaxis/internal/pkg/errors"
	"healthaxis/internal/pkg/logger"
)

// Medicine mirrors the backend medicine payload.
type Medicine struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Dosage        string `json:"dosage"`
	Frequency     string `json:"frequency"`
	Instructions  string `json:"instructions"`
	MorningTime   string `json:"morning_time,omitempty"`
	AfternoonTime string `json:"afternoon_time,omitempty"`
	NightTime     string `json:"night_time,omitempty"`
	PrescribedBy  string `json:"prescribed_by"`
	IsActive      bool   `json:"is_active"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date,omitempty"`
}

// Appointment mirrors the backend appointment payload.
type Appointment struct {
	ID              int    `json:"id"`
	DoctorName      string `json:"doctor_name"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentType string `json:"appointment_type"`
	Status          string `json:"status"`
	MeetLink        string `json:"meet_link,omitempty"`
	ClinicName      string `json:"clinic_name,omitempty"`
}

// HealthRecord mirrors the backend health record payload.
type HealthRecord struct {
	ID               int    `json:"id"`
	ConsultationDate string `json:"consultation_date"`
	DoctorName       string `json:"doctor_name"`
	ConsultationType string `json:"consultation_type"`
	IsLocked         bool   `json:"is_locked"`
	Summary          string `json:"summary,omitempty"`
}

// LeaderboardEntry is one row of the points leaderboard.
type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// PointsData mirrors the backend points payload.
type PointsData struct {
	TotalPoints int                `json:"total_points"`
	ThisWeek    int                `json:"this_week"`
	ThisMonth   int                `json:"this_month"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

// LogResult is the response of the dose-log endpoint.
type LogResult struct {
	Message      string `json:"message"`
	PointsEarned int    `json:"points_earned"`
}

// UnlockResult is the response of the record-unlock endpoint.
type UnlockResult struct {
	Message string `json:"message"`
}

// RemoteReminder mirrors the backend's server-side reminder payload.
type RemoteReminder struct {
	ID            int    `json:"id,omitempty"`
	MedicineID    int    `json:"medicine_id"`
	Time          string `json:"time"`
	Frequency     string `json:"frequency"`
	Enabled       bool   `json:"enabled"`
	Sound         bool   `json:"sound"`
	SnoozeMinutes int    `json:"snooze_minutes"`
}

// Client talks to the external health backend over HTTP. Dose-log writes run
// behind a circuit breaker so a flapping backend stops being hit; the caller
// tolerates an open breaker and keeps its local record.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*LogResult]
	log     logger.Logger
}

// NewClient creates a backend client from config.
func NewClient(cfg config.BackendConfig, log logger.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[*LogResult](gobreaker.Settings{
			Name: "backend-dose-log",
		}),
		log: log,
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrBackendAPI, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s %s returned %d", appErrors.ErrBackendAPI, method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode %s response: %v", appErrors.ErrBackendAPI, path, err)
	}
	return nil
}

// GetMedicines fetches the medicine list, falling back to canned data.
func (c *Client) GetMedicines(ctx context.Context) ([]Medicine, error) {
	var medicines []Medicine
	if err := c.doJSON(ctx, http.MethodGet, "/medicines/", nil, &medicines); err != nil {
		c.log.Warn(fmt.Sprintf("Falling back to mock medicines: %v", err))
		return mockMedicines(), nil
	}
	return medicines, nil
}

// LogDose reports a taken/missed dose. Runs behind the circuit breaker; any
// failure (including an open breaker) yields the local fallback result.
func (c *Client) LogDose(ctx context.Context, medicineID, status string) (*LogResult, error) {
	result, err := c.breaker.Execute(func() (*LogResult, error) {
		var out LogResult
		path := fmt.Sprintf("/medicines/log?medicine_id=%s&status=%s", medicineID, status)
		if err := c.doJSON(ctx, http.MethodPost, path, nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
	if err != nil {
		c.log.Warn(fmt.Sprintf("Dose log for medicine %s not delivered, keeping local record: %v", medicineID, err))
		return &LogResult{Message: "Medicine logged locally", PointsEarned: 10}, nil
	}
	return result, nil
}

// GetAppointments fetches appointments, falling back to canned data.
func (c *Client) GetAppointments(ctx context.Context) ([]Appointment, error) {
	var appointments []Appointment
	if err := c.doJSON(ctx, http.MethodGet, "/appointments/", nil, &appointments); err != nil {
		c.log.Warn(fmt.Sprintf("Falling back to mock appointments: %v", err))
		return mockAppointments(), nil
	}
	return appointments, nil
}

// GetHealthRecords fetches health records, falling back to canned data.
func (c *Client) GetHealthRecords(ctx context.Context) ([]HealthRecord, error) {
	var records []HealthRecord
	if err := c.doJSON(ctx, http.MethodGet, "/records/", nil, &records); err != nil {
		c.log.Warn(fmt.Sprintf("Falling back to mock health records: %v", err))
		return mockHealthRecords(), nil
	}
	return records, nil
}

// UnlockRecord unlocks a health record with a QR key, falling back to a
// local acknowledgement.
func (c *Client) UnlockRecord(ctx context.Context, recordID int, qrKey string) (*UnlockResult, error) {
	var out UnlockResult
	body := map[string]string{"qr_key": qrKey}
	path := fmt.Sprintf("/records/%d/unlock", recordID)
	if err := c.doJSON(ctx, http.MethodPost, path, body, &out); err != nil {
		c.log.Warn(fmt.Sprintf("Record %d unlock not delivered: %v", recordID, err))
		return &UnlockResult{Message: "Record unlocked locally"}, nil
	}
	return &out, nil
}

// GetPoints fetches the points summary, falling back to canned data.
func (c *Client) GetPoints(ctx context.Context) (*PointsData, error) {
	var points PointsData
	if err := c.doJSON(ctx, http.MethodGet, "/points/", nil, &points); err != nil {
		c.log.Warn(fmt.Sprintf("Falling back to mock points: %v", err))
		return mockPoints(), nil
	}
	return &points, nil
}

// The server-side reminder calls intentionally do NOT fall back to mock data.
// Unlike the read-only health endpoints, a swallowed failure here would leave
// the caller believing a remote mutation happened. Errors are logged and
// returned.

// ListRemoteReminders fetches the server-side reminder set.
func (c *Client) ListRemoteReminders(ctx context.Context) ([]RemoteReminder, error) {
	var reminders []RemoteReminder
	if err := c.doJSON(ctx, http.MethodGet, "/reminders/", nil, &reminders); err != nil {
		c.log.Error("Failed to list remote reminders", err)
		return nil, err
	}
	return reminders, nil
}

// CreateRemoteReminder creates a server-side reminder.
func (c *Client) CreateRemoteReminder(ctx context.Context, reminder RemoteReminder) (*RemoteReminder, error) {
	var out RemoteReminder
	if err := c.doJSON(ctx, http.MethodPost, "/reminders/", reminder, &out); err != nil {
		c.log.Error("Failed to create remote reminder", err)
		return nil, err
	}
	return &out, nil
}

// UpdateRemoteReminder updates a server-side reminder.
func (c *Client) UpdateRemoteReminder(ctx context.Context, id int, reminder RemoteReminder) (*RemoteReminder, error) {
	var out RemoteReminder
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/reminders/%d", id), reminder, &out); err != nil {
		c.log.Error(fmt.Sprintf("Failed to update remote reminder %d", id), err)
		return nil, err
	}
	return &out, nil
}

// DeleteRemoteReminder deletes a server-side reminder.
func (c *Client) DeleteRemoteReminder(ctx context.Context, id int) error {
	if err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/reminders/%d", id), nil, nil); err != nil {
		c.log.Error(fmt.Sprintf("Failed to delete remote reminder %d", id), err)
		return err
	}
	return nil
}

// ToggleRemoteReminder flips the enabled state of a server-side reminder.
func (c *Client) ToggleRemoteReminder(ctx context.Context, id int) error {
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/reminders/%d/toggle", id), nil, nil); err != nil {
		c.log.Error(fmt.Sprintf("Failed to toggle remote reminder %d", id), err)
		return err
	}
	return nil
}
