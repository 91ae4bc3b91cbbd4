package entity

import (
	"time"
)

// Reminder source types.
const (
	ReminderSourceContract    = "Contract"
	ReminderSourceCalibration = "Calibration"
)

// Reminder rules classify the days remaining until a due date into bands.
const (
	ReminderRuleOverdue  = "overdue"
	ReminderRuleDueSoon  = "due_soon"
	ReminderRuleUpcoming = "upcoming"
)

// ReminderRuleFor maps days_left onto its rule band. ok is false for
// days_left >= 16, which is excluded from the reminder view.
func ReminderRuleFor(daysLeft int) (rule string, ok bool) {
	switch {
	case daysLeft < 0:
		return ReminderRuleOverdue, true
	case daysLeft <= 7:
		return ReminderRuleDueSoon, true
	case daysLeft <= 15:
		return ReminderRuleUpcoming, true
	default:
		return "", false
	}
}

// ReminderSeverityRank orders rules most-urgent-first for sorting.
func ReminderSeverityRank(rule string) int {
	switch rule {
	case ReminderRuleOverdue:
		return 0
	case ReminderRuleDueSoon:
		return 1
	default:
		return 2
	}
}

// Reminder is one row of the derived reminder view. It is computed fresh on
// every request and never persisted.
type Reminder struct {
	SourceType string    `json:"source_type"`
	SourceID   string    `json:"source_id"`
	Rule       string    `json:"rule"`
	Severity   string    `json:"severity"`
	AssetID    string    `json:"asset_id"`
	AssetCode  string    `json:"asset_code"`
	AssetName  string    `json:"asset_name"`
	DueDate    time.Time `json:"due_date"`
	DaysLeft   int       `json:"days_left"`
}

// ReminderAck suppresses one (source, rule) pair from the reminder view.
// The tuple is unique; acknowledging the same pair again is a no-op.
type ReminderAck struct {
	ID             string    `json:"id" gorm:"primaryKey;size:32"`
	SourceType     string    `json:"source_type" gorm:"size:20;not null;uniqueIndex:idx_reminder_acks_tuple"`
	SourceID       string    `json:"source_id" gorm:"size:32;not null;uniqueIndex:idx_reminder_acks_tuple"`
	Rule           string    `json:"rule" gorm:"size:20;not null;uniqueIndex:idx_reminder_acks_tuple"`
	AssetID        string    `json:"asset_id" gorm:"size:32;not null;index"`
	AcknowledgedBy string    `json:"acknowledged_by" gorm:"size:32;not null"`
	CreatedAt      time.Time `json:"created_at"`
}

func (ReminderAck) TableName() string {
	return "reminder_acks"
}
