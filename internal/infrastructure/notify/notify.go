// Package notify abstracts the notification surface reminders are dispatched
// through: permission state, delivery, and the Taken / Snooze actions offered
// to the user.
package notify

import "time"

// Permission mirrors the three states of a platform notification surface.
type Permission int

const (
	// PermissionUnprompted means the surface has not been set up or asked yet.
	PermissionUnprompted Permission = iota
	// PermissionGranted means notifications can be delivered.
	PermissionGranted
	// PermissionDenied means delivery was explicitly refused.
	PermissionDenied
)

func (p Permission) String() string {
	switch p {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "default"
	}
}

// Action identifiers the user can answer a notification with.
const (
	ActionTaken  = "taken"
	ActionSnooze = "snooze"
)

// Notification is one reminder occurrence to deliver. DismissAfter is the
// window the surface should keep it visible before dropping it; an
// unacknowledged occurrence is simply lost.
type Notification struct {
	ReminderID   string
	Title        string
	Body         string
	DismissAfter time.Duration
}

// Notifier delivers reminder notifications. Implementations report their
// permission state before any delivery is attempted; the dispatcher never
// calls Notify when the state is not granted.
type Notifier interface {
	Permission() Permission
	RequestPermission() (Permission, error)
	Notify(n Notification) error
}
