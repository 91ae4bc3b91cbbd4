package entity

import (
	"sort"
	"time"
)

// CalibrationRecord is a dated attestation that an asset was calibrated,
// carrying the due date for the next calibration. Records are append-only;
// which record is "current" for an asset is derived at read time, never
// stored.
type CalibrationRecord struct {
	ID                  string    `json:"id" gorm:"primaryKey;size:32"`
	AssetID             string    `json:"asset_id" gorm:"size:32;not null;index"`
	CalibrationDoneDate time.Time `json:"calibration_done_date" gorm:"type:date;not null"`
	NextDueDate         time.Time `json:"next_due_date" gorm:"type:date;not null"`
	Agency              string    `json:"agency" gorm:"size:150"`
	Cost                *float64  `json:"cost" gorm:"type:decimal(12,2)"`
	Remarks             string    `json:"remarks" gorm:"type:text"`
	CreatedBy           string    `json:"created_by" gorm:"size:32"`
	CreatedAt           time.Time `json:"created_at"`

	Asset     *Asset                `json:"asset,omitempty" gorm:"foreignKey:AssetID"`
	Events    []CalibrationEvent    `json:"events,omitempty" gorm:"foreignKey:CalibrationID"`
	Documents []CalibrationDocument `json:"documents,omitempty" gorm:"foreignKey:CalibrationID"`
}

func (CalibrationRecord) TableName() string {
	return "calibration_records"
}

// CalibrationEvent is a date-stamped remark/cost entry on one calibration
// record, constrained to [done_date, next_due_date] and not in the future.
type CalibrationEvent struct {
	ID            string    `json:"id" gorm:"primaryKey;size:32"`
	CalibrationID string    `json:"calibration_id" gorm:"size:32;not null;index"`
	EventDate     time.Time `json:"event_date" gorm:"type:date;not null"`
	Remarks       string    `json:"remarks" gorm:"type:text"`
	Cost          *float64  `json:"cost" gorm:"type:decimal(12,2)"`
	CreatedBy     string    `json:"created_by" gorm:"size:32"`
	CreatedAt     time.Time `json:"created_at"`
}

func (CalibrationEvent) TableName() string {
	return "calibration_events"
}

// CalibrationDocument is an append-only file attachment on a calibration
// record.
type CalibrationDocument struct {
	ID            string    `json:"id" gorm:"primaryKey;size:32"`
	CalibrationID string    `json:"calibration_id" gorm:"size:32;not null;index"`
	DocType       string    `json:"doc_type" gorm:"size:50;not null"`
	FileName      string    `json:"file_name" gorm:"size:256;not null"`
	StoredName    string    `json:"stored_name" gorm:"size:256;not null;uniqueIndex"`
	FilePath      string    `json:"file_path" gorm:"size:512;not null"`
	FileSize      int64     `json:"file_size" gorm:"not null"`
	UploadedBy    string    `json:"uploaded_by" gorm:"size:32"`
	CreatedAt     time.Time `json:"created_at"`
}

func (CalibrationDocument) TableName() string {
	return "calibration_documents"
}

// CalibrationStatus values derived by StatusOn. Never persisted.
const (
	CalibrationStatusValid      = "Valid"
	CalibrationStatusDueToday   = "DueToday"
	CalibrationStatusOverdue    = "Overdue"
	CalibrationStatusSuperseded = "Superseded"
)

// RankCalibrations orders an asset's records by the currency total order:
// (calibration_done_date, next_due_date, created_on) each descending,
// first difference wins. The first element of the result is the current
// record.
func RankCalibrations(records []CalibrationRecord) []CalibrationRecord {
	ranked := make([]CalibrationRecord, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if !sameDay(a.CalibrationDoneDate, b.CalibrationDoneDate) {
			return a.CalibrationDoneDate.After(b.CalibrationDoneDate)
		}
		if !sameDay(a.NextDueDate, b.NextDueDate) {
			return a.NextDueDate.After(b.NextDueDate)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return ranked
}

// CurrentCalibration resolves which of an asset's records is current, or nil
// when the asset has none.
func CurrentCalibration(records []CalibrationRecord) *CalibrationRecord {
	if len(records) == 0 {
		return nil
	}
	ranked := RankCalibrations(records)
	return &ranked[0]
}

// StatusOn classifies the record for the given day. `current` must be the
// result of currency resolution over all of the asset's records: a
// non-current record is Superseded regardless of its own due date.
func (r *CalibrationRecord) StatusOn(current bool, today time.Time) string {
	if !current {
		return CalibrationStatusSuperseded
	}
	switch {
	case daysBetween(today, r.NextDueDate) < 0:
		return CalibrationStatusOverdue
	case sameDay(r.NextDueDate, today):
		return CalibrationStatusDueToday
	default:
		return CalibrationStatusValid
	}
}

// TotalSpend is the record cost plus the sum of event costs, treating absent
// costs as zero.
func (r *CalibrationRecord) TotalSpend() float64 {
	total := 0.0
	if r.Cost != nil {
		total = *r.Cost
	}
	for _, e := range r.Events {
		if e.Cost != nil {
			total += *e.Cost
		}
	}
	return total
}
