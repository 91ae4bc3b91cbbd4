package entity

import (
	"time"
)

// Contract is one AMC (Annual Maintenance Contract) for one asset. A contract
// is created Open and moves one-way to Completed or Cancelled; at most one
// Open contract may exist per asset at any time.
type Contract struct {
	ID          string     `json:"id" gorm:"primaryKey;size:32"`
	AssetID     string     `json:"asset_id" gorm:"size:32;not null;index"`
	Vendor      string     `json:"vendor" gorm:"size:150"`
	StartDate   time.Time  `json:"start_date" gorm:"type:date;not null"`
	EndDate     time.Time  `json:"end_date" gorm:"type:date;not null"`
	YearlyCost  *float64   `json:"yearly_cost" gorm:"type:decimal(12,2)"`
	IsCompleted bool       `json:"is_completed" gorm:"not null;default:false"`
	IsCancelled bool       `json:"is_cancelled" gorm:"not null;default:false"`
	CompletedOn *time.Time `json:"completed_on" gorm:"type:date"`
	CreatedBy   string     `json:"created_by" gorm:"size:32"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Asset     *Asset             `json:"asset,omitempty" gorm:"foreignKey:AssetID"`
	Events    []ContractEvent    `json:"events,omitempty" gorm:"foreignKey:ContractID"`
	Documents []ContractDocument `json:"documents,omitempty" gorm:"foreignKey:ContractID"`
}

func (Contract) TableName() string {
	return "contracts"
}

// ContractEvent is a date-stamped remark/cost entry belonging to one
// contract. Event dates must fall within the contract period and may not be
// in the future.
type ContractEvent struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	ContractID string    `json:"contract_id" gorm:"size:32;not null;index"`
	EventDate  time.Time `json:"event_date" gorm:"type:date;not null"`
	Remarks    string    `json:"remarks" gorm:"type:text"`
	Cost       *float64  `json:"cost" gorm:"type:decimal(12,2)"`
	CreatedBy  string    `json:"created_by" gorm:"size:32"`
	CreatedAt  time.Time `json:"created_at"`
}

func (ContractEvent) TableName() string {
	return "contract_events"
}

// ContractDocument is an append-only file attachment on a contract.
type ContractDocument struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	ContractID   string    `json:"contract_id" gorm:"size:32;not null;index"`
	DocType      string    `json:"doc_type" gorm:"size:50;not null"`
	FileName     string    `json:"file_name" gorm:"size:256;not null"`
	StoredName   string    `json:"stored_name" gorm:"size:256;not null;uniqueIndex"`
	FilePath     string    `json:"file_path" gorm:"size:512;not null"`
	FileSize     int64     `json:"file_size" gorm:"not null"`
	UploadedBy   string    `json:"uploaded_by" gorm:"size:32"`
	CreatedAt    time.Time `json:"created_at"`
}

func (ContractDocument) TableName() string {
	return "contract_documents"
}

// ContractStatus values derived by StatusOn. Never persisted.
const (
	ContractStatusActive       = "Active"
	ContractStatusExpiringSoon = "ExpiringSoon"
	ContractStatusOverdue      = "Overdue"
	ContractStatusCompleted    = "Completed"
	ContractStatusCancelled    = "Cancelled"
)

// ExpiringSoonWindowDays is the width of the ExpiringSoon band before the
// contract end date.
const ExpiringSoonWindowDays = 30

// IsClosed reports whether the contract has left the Open state.
func (c *Contract) IsClosed() bool {
	return c.IsCompleted || c.IsCancelled
}

// StatusOn classifies the contract for the given day. Closed flags win;
// otherwise the end date against today decides the band.
func (c *Contract) StatusOn(today time.Time) string {
	if c.IsCompleted {
		return ContractStatusCompleted
	}
	if c.IsCancelled {
		return ContractStatusCancelled
	}
	left := daysBetween(today, c.EndDate)
	switch {
	case left < 0:
		return ContractStatusOverdue
	case left <= ExpiringSoonWindowDays:
		return ContractStatusExpiringSoon
	default:
		return ContractStatusActive
	}
}

// TotalSpend is the yearly cost plus the sum of event costs, treating absent
// costs as zero.
func (c *Contract) TotalSpend() float64 {
	total := 0.0
	if c.YearlyCost != nil {
		total = *c.YearlyCost
	}
	for _, e := range c.Events {
		if e.Cost != nil {
			total += *e.Cost
		}
	}
	return total
}
