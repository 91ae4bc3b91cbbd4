package repository

import (
	"context"
	"errors"

	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/entity"
	"gorm.io/gorm"
)

// CalibrationRepository persists calibration records and their
// events/documents.
type CalibrationRepository struct {
	db *gorm.DB
}

func NewCalibrationRepository(db *gorm.DB) *CalibrationRepository {
	return &CalibrationRepository{db: db}
}

// CreateWithChildren inserts a record with its events and documents in one
// transaction. A failure on any row rolls back the whole save; a partial
// calibration record is never persisted.
func (r *CalibrationRepository) CreateWithChildren(ctx context.Context, record *entity.CalibrationRecord, events []entity.CalibrationEvent, docs []entity.CalibrationDocument) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return err
		}
		for i := range events {
			events[i].CalibrationID = record.ID
			if err := tx.Create(&events[i]).Error; err != nil {
				return err
			}
		}
		for i := range docs {
			docs[i].CalibrationID = record.ID
			if err := tx.Create(&docs[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID loads one record with its asset, events and documents.
func (r *CalibrationRepository) FindByID(ctx context.Context, id string) (*entity.CalibrationRecord, error) {
	var record entity.CalibrationRecord
	err := r.db.WithContext(ctx).
		Preload("Asset").
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("event_date ASC, created_at ASC")
		}).
		Preload("Documents", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// ListByAsset returns an asset's calibration history with events loaded.
// Ordering is left to the caller: currency is a derived ranking, not a query.
func (r *CalibrationRepository) ListByAsset(ctx context.Context, assetID string) ([]entity.CalibrationRecord, error) {
	var records []entity.CalibrationRecord
	err := r.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Preload("Events").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ListForActiveAssets feeds the reminder engine: every calibration record
// belonging to an active asset, asset preloaded. Currency resolution happens
// in memory over the per-asset groups.
func (r *CalibrationRepository) ListForActiveAssets(ctx context.Context) ([]entity.CalibrationRecord, error) {
	var records []entity.CalibrationRecord
	err := r.db.WithContext(ctx).
		Joins("JOIN assets ON assets.id = calibration_records.asset_id").
		Where("assets.status = ?", entity.AssetStatusActive).
		Preload("Asset").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// FindDocument loads one calibration document.
func (r *CalibrationRepository) FindDocument(ctx context.Context, id string) (*entity.CalibrationDocument, error) {
	var doc entity.CalibrationDocument
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// CountByAsset counts an asset's calibration records.
func (r *CalibrationRepository) CountByAsset(ctx context.Context, assetID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.CalibrationRecord{}).
		Where("asset_id = ?", assetID).
		Count(&count).Error
	return count, err
}
