package entity

import "time"

// Dose log status values.
const (
	DoseStatusTaken = "taken"
)

// DoseLog records a dose the user acknowledged from a reminder notification.
type DoseLog struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	MedicineID string    `gorm:"column:medicine_id;index"`
	Daypart    string    `gorm:"column:daypart"`
	Status     string    `gorm:"column:status"`
	TakenAt    time.Time `gorm:"column:taken_at"`
}

// TableName specifies the table name for the DoseLog entity.
func (DoseLog) TableName() string {
	return "dose_log"
}
