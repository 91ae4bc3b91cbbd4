package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// Repositories is the aggregate handed to the service layer.
type Repositories struct {
	Asset       *AssetRepository
	Contract    *ContractRepository
	Calibration *CalibrationRepository
	Scrap       *ScrapRepository
	Reminder    *ReminderRepository
	Import      *ImportRepository
	User        *UserRepository
}

// NewRepositories wires every repository onto one gorm handle.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Asset:       NewAssetRepository(db),
		Contract:    NewContractRepository(db),
		Calibration: NewCalibrationRepository(db),
		Scrap:       NewScrapRepository(db),
		Reminder:    NewReminderRepository(db),
		Import:      NewImportRepository(db),
		User:        NewUserRepository(db),
	}
}
