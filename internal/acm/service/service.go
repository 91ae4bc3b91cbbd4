package service

import (
	"path/filepath"
	"strings"

	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/repository"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/storage"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Services is the aggregate handed to the handler layer.
type Services struct {
	Auth        *AuthService
	Asset       *AssetService
	Contract    *ContractService
	Calibration *CalibrationService
	Scrap       *ScrapService
	Reminder    *ReminderService
	Import      *ImportService
}

// NewServices wires the service layer.
func NewServices(repos *repository.Repositories, rdb *redis.Client, store *storage.ObjectStore, cfg *config.Config) *Services {
	return &Services{
		Auth:        NewAuthService(repos.User, rdb, cfg),
		Asset:       NewAssetService(repos.Asset, repos.Contract, repos.Calibration, repos.Scrap),
		Contract:    NewContractService(repos.Contract, repos.Asset, store),
		Calibration: NewCalibrationService(repos.Calibration, repos.Asset, store),
		Scrap:       NewScrapService(repos.Scrap, repos.Asset, store),
		Reminder:    NewReminderService(repos.Reminder, repos.Contract, repos.Calibration),
		Import:      NewImportService(repos.Import, repos.Asset),
	}
}

// newID generates a 32-char row id.
func newID() string {
	return uuid.New().String()[:32]
}

// isPDF accepts a file by declared content type or extension. Attachments in
// this system are PDF only.
func isPDF(fileName, contentType string) bool {
	if strings.EqualFold(contentType, "application/pdf") {
		return true
	}
	return strings.EqualFold(filepath.Ext(fileName), ".pdf")
}
