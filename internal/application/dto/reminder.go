package dto

import (
	"healthaxis/internal/domain/entity"
)

// ReminderResponse is the DTO for sending reminder information to the client.
type ReminderResponse struct {
	ID            string `json:"id"`
	MedicineID    string `json:"medicine_id"`
	MedicineName  string `json:"medicine_name"`
	Dosage        string `json:"dosage"`
	TimeOfDay     string `json:"time"`
	Daypart       string `json:"frequency"`
	Enabled       bool   `json:"enabled"`
	Sound         bool   `json:"sound"`
	SnoozeMinutes int    `json:"snooze_minutes"`
}

// ToReminderResponse converts an entity.Reminder to a ReminderResponse DTO.
func ToReminderResponse(r *entity.Reminder) ReminderResponse {
	snooze := r.SnoozeMinutes
	if snooze <= 0 {
		snooze = entity.DefaultSnoozeMinutes
	}
	return ReminderResponse{
		ID:            r.ID,
		MedicineID:    r.MedicineID,
		MedicineName:  r.MedicineName,
		Dosage:        r.Dosage,
		TimeOfDay:     r.TimeOfDay,
		Daypart:       r.Daypart.String(),
		Enabled:       r.Enabled,
		Sound:         r.Sound,
		SnoozeMinutes: snooze,
	}
}

// ToReminderResponseList converts a slice of entity.Reminder to DTOs.
func ToReminderResponseList(reminders []*entity.Reminder) []ReminderResponse {
	list := make([]ReminderResponse, len(reminders))
	for i, r := range reminders {
		list[i] = ToReminderResponse(r)
	}
	return list
}

// SetReminderRequest is the DTO for creating or replacing a reminder.
// Enabled and Sound default to true when omitted.
type SetReminderRequest struct {
	ID            string `json:"id,omitempty"`
	MedicineID    string `json:"medicine_id"`
	MedicineName  string `json:"medicine_name"`
	Dosage        string `json:"dosage"`
	TimeOfDay     string `json:"time"`
	Daypart       string `json:"frequency"`
	Enabled       *bool  `json:"enabled,omitempty"`
	Sound         *bool  `json:"sound,omitempty"`
	SnoozeMinutes int    `json:"snooze_minutes,omitempty"`
}

// UpdateReminderRequest is the DTO for partially updating a reminder.
// Nil fields keep their current value.
type UpdateReminderRequest struct {
	TimeOfDay     *string `json:"time,omitempty"`
	Daypart       *string `json:"frequency,omitempty"`
	Enabled       *bool   `json:"enabled,omitempty"`
	Sound         *bool   `json:"sound,omitempty"`
	SnoozeMinutes *int    `json:"snooze_minutes,omitempty"`
}

// PermissionResponse mirrors the three-state notification permission surface.
type PermissionResponse struct {
	Granted bool `json:"granted"`
	Denied  bool `json:"denied"`
	Default bool `json:"default"`
}
