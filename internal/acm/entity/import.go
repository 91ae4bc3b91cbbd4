package entity

import (
	"time"

	"gorm.io/datatypes"
)

// ImportBatch is the staged result of a validated asset import. The upload
// step parses and validates the spreadsheet, stores the surviving rows here,
// and hands the caller a token; the confirm step consumes the batch by token.
// Replaces the session-carried preview of the legacy system.
type ImportBatch struct {
	ID        string         `json:"id" gorm:"primaryKey;size:32"`
	Rows      datatypes.JSON `json:"rows" gorm:"not null"`
	RowCount  int            `json:"row_count" gorm:"not null"`
	CreatedBy string         `json:"created_by" gorm:"size:32;not null"`
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt time.Time      `json:"expires_at" gorm:"not null"`
}

func (ImportBatch) TableName() string {
	return "import_batches"
}

// ImportRow is one validated spreadsheet row, serialized into
// ImportBatch.Rows.
type ImportRow struct {
	RowNo        int     `json:"row_no"`
	AssetCode    string  `json:"asset_code"`
	AssetName    string  `json:"asset_name"`
	SerialNo     *string `json:"serial_no"`
	Plant        string  `json:"plant"`
	Department   string  `json:"department"`
	Location     string  `json:"location"`
	PurchaseDate string  `json:"purchase_date"` // ISO date or empty
}

// ImportRowError is one rejected spreadsheet row with its reasons.
type ImportRowError struct {
	RowNo  int      `json:"row_no"`
	Errors []string `json:"errors"`
}
