package entity

import (
	"time"
)

// Asset is the canonical register entry for one physical asset.
type Asset struct {
	ID           string     `json:"id" gorm:"primaryKey;size:32"`
	AssetCode    string     `json:"asset_code" gorm:"size:100;not null;uniqueIndex"`
	AssetName    string     `json:"asset_name" gorm:"size:255;not null"`
	SerialNo     *string    `json:"serial_no" gorm:"size:100;uniqueIndex"`
	Plant        string     `json:"plant" gorm:"size:100;index"`
	Department   string     `json:"department" gorm:"size:100;index"`
	Location     string     `json:"location" gorm:"size:150"`
	PurchaseDate *time.Time `json:"purchase_date" gorm:"type:date"`
	Status       string     `json:"status" gorm:"size:20;not null;default:Active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Contracts    []Contract          `json:"contracts,omitempty" gorm:"foreignKey:AssetID"`
	Calibrations []CalibrationRecord `json:"calibrations,omitempty" gorm:"foreignKey:AssetID"`
	ScrapRecord  *ScrapRecord        `json:"scrap_record,omitempty" gorm:"foreignKey:AssetID"`
}

func (Asset) TableName() string {
	return "assets"
}

const (
	AssetStatusActive   = "Active"
	AssetStatusScrapped = "Scrapped"
)

// IsScrapped reports whether the asset has been retired. A scrapped asset is
// read-only and excluded from new contract and calibration creation.
func (a *Asset) IsScrapped() bool {
	return a.Status == AssetStatusScrapped
}
