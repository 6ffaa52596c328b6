package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"healthaxis/internal/domain/constant"
)

// DefaultSnoozeMinutes is applied when a reminder carries no snooze interval.
const DefaultSnoozeMinutes = 10

// Reminder is a daily medicine reminder definition. The ID is an opaque
// caller-supplied string; re-inserting an existing ID replaces the definition.
type Reminder struct {
	ID            string           `json:"id"`
	MedicineID    string           `json:"medicine_id"`
	MedicineName  string           `json:"medicine_name"`
	Dosage        string           `json:"dosage"`
	TimeOfDay     string           `json:"time"` // HH:MM, 24-hour
	Daypart       constant.Daypart `json:"frequency"`
	Enabled       bool             `json:"enabled"`
	Sound         bool             `json:"sound"`
	SnoozeMinutes int              `json:"snooze_minutes,omitempty"`
}

// ClockTime parses TimeOfDay into hour and minute.
func (r *Reminder) ClockTime() (hour, minute int, err error) {
	parts := strings.Split(r.TimeOfDay, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed time of day %q", r.TimeOfDay)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed hour in %q: %w", r.TimeOfDay, err)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed minute in %q: %w", r.TimeOfDay, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time of day %q out of range", r.TimeOfDay)
	}
	return hour, minute, nil
}

// SnoozeInterval returns the configured snooze duration, defaulting to
// DefaultSnoozeMinutes when unset or non-positive.
func (r *Reminder) SnoozeInterval() time.Duration {
	minutes := r.SnoozeMinutes
	if minutes <= 0 {
		minutes = DefaultSnoozeMinutes
	}
	return time.Duration(minutes) * time.Minute
}
