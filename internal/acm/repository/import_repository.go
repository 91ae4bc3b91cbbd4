package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/entity"
	"gorm.io/gorm"
)

// ImportRepository persists staged import batches between the validate and
// confirm steps.
type ImportRepository struct {
	db *gorm.DB
}

func NewImportRepository(db *gorm.DB) *ImportRepository {
	return &ImportRepository{db: db}
}

// Create stages one batch.
func (r *ImportRepository) Create(ctx context.Context, batch *entity.ImportBatch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

// Consume loads an unexpired batch by token and deletes it, so a token can be
// confirmed at most once. Expired batches read as absent.
func (r *ImportRepository) Consume(ctx context.Context, token string) (*entity.ImportBatch, error) {
	var batch entity.ImportBatch
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND expires_at > ?", token, time.Now()).First(&batch).Error
		if err != nil {
			return err
		}
		return tx.Delete(&entity.ImportBatch{}, "id = ?", token).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// DeleteExpired clears out stale batches. Called opportunistically on upload;
// there is no background sweeper.
func (r *ImportRepository) DeleteExpired(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Delete(&entity.ImportBatch{}, "expires_at <= ?", time.Now()).Error
}
