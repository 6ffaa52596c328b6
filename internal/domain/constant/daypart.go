package constant

// Daypart identifies which daily dose a reminder covers. Used for display and
// dose-log attribution, never for scheduling (the reminder's own HH:MM time
// drives that).
type Daypart string

const (
	DaypartMorning   Daypart = "morning"
	DaypartAfternoon Daypart = "afternoon"
	DaypartNight     Daypart = "night"
)

// Valid reports whether d is one of the known dayparts.
func (d Daypart) Valid() bool {
	switch d {
	case DaypartMorning, DaypartAfternoon, DaypartNight:
		return true
	}
	return false
}

func (d Daypart) String() string {
	return string(d)
}
