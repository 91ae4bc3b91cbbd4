package entity

import (
	"time"
)

// ScrapRecord retires one asset. Creating it is the only mechanism that flips
// the asset status to Scrapped, and it cancels any open contract for the
// asset in the same transaction. One record per asset, ever.
type ScrapRecord struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	AssetID    string    `json:"asset_id" gorm:"size:32;not null;uniqueIndex"`
	ScrapDate  time.Time `json:"scrap_date" gorm:"type:date;not null"`
	ApprovedBy string    `json:"approved_by" gorm:"size:100;not null"`
	Reason     string    `json:"reason" gorm:"type:text"`
	FileName   string    `json:"file_name" gorm:"size:256;not null"`
	StoredName string    `json:"stored_name" gorm:"size:256;not null;uniqueIndex"`
	FilePath   string    `json:"file_path" gorm:"size:512;not null"`
	FileSize   int64     `json:"file_size" gorm:"not null"`
	CreatedBy  string    `json:"created_by" gorm:"size:32"`
	CreatedAt  time.Time `json:"created_at"`

	Asset *Asset `json:"asset,omitempty" gorm:"foreignKey:AssetID"`
}

func (ScrapRecord) TableName() string {
	return "scrap_records"
}
