package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/entity"
	"gorm.io/gorm"
)

// ScrapRepository persists scrap records and performs the scrap cascade.
type ScrapRepository struct {
	db *gorm.DB
}

func NewScrapRepository(db *gorm.DB) *ScrapRepository {
	return &ScrapRepository{db: db}
}

// CreateWithCascade is the only cross-entity cascading write in the system:
// insert the scrap record, flip the asset to Scrapped, and cancel every open
// contract for the asset with completed_on = scrap_date, all in one
// transaction. An asset scrapped with a contract left open is a correctness
// violation, so partial application must be impossible.
func (r *ScrapRepository) CreateWithCascade(ctx context.Context, record *entity.ScrapRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return err
		}

		res := tx.Model(&entity.Asset{}).
			Where("id = ? AND status = ?", record.AssetID, entity.AssetStatusActive).
			Updates(map[string]interface{}{
				"status":     entity.AssetStatusScrapped,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}

		return tx.Model(&entity.Contract{}).
			Where("asset_id = ? AND is_completed = ? AND is_cancelled = ?", record.AssetID, false, false).
			Updates(map[string]interface{}{
				"is_cancelled": true,
				"completed_on": record.ScrapDate,
				"updated_at":   time.Now(),
			}).Error
	})
}

// FindByAsset loads the asset's scrap record, or ErrNotFound.
func (r *ScrapRepository) FindByAsset(ctx context.Context, assetID string) (*entity.ScrapRecord, error) {
	var record entity.ScrapRecord
	err := r.db.WithContext(ctx).Where("asset_id = ?", assetID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// List pages through scrap records, newest first.
func (r *ScrapRepository) List(ctx context.Context, page, pageSize int) ([]entity.ScrapRecord, int64, error) {
	var records []entity.ScrapRecord
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ScrapRecord{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Asset").
		Order("scrap_date DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
