package repository

import (
	"context"
	"errors"

	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/entity"
	"gorm.io/gorm"
)

// ReminderRepository persists reminder acknowledgements.
type ReminderRepository struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// FindAck loads the acknowledgement for one (source_type, source_id, rule)
// tuple, or ErrNotFound.
func (r *ReminderRepository) FindAck(ctx context.Context, sourceType, sourceID, rule string) (*entity.ReminderAck, error) {
	var ack entity.ReminderAck
	err := r.db.WithContext(ctx).
		Where("source_type = ? AND source_id = ? AND rule = ?", sourceType, sourceID, rule).
		First(&ack).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ack, nil
}

// CreateAck inserts one acknowledgement. The unique tuple index backs the
// idempotency check in the service.
func (r *ReminderRepository) CreateAck(ctx context.Context, ack *entity.ReminderAck) error {
	return r.db.WithContext(ctx).Create(ack).Error
}

// AckedTuples returns the acknowledged set keyed by
// source_type + "/" + source_id + "/" + rule for one-pass suppression.
func (r *ReminderRepository) AckedTuples(ctx context.Context) (map[string]bool, error) {
	var acks []entity.ReminderAck
	if err := r.db.WithContext(ctx).Find(&acks).Error; err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(acks))
	for _, a := range acks {
		set[a.SourceType+"/"+a.SourceID+"/"+a.Rule] = true
	}
	return set, nil
}

// ListAcksByAsset returns an asset's acknowledgements, newest first.
func (r *ReminderRepository) ListAcksByAsset(ctx context.Context, assetID string) ([]entity.ReminderAck, error) {
	var acks []entity.ReminderAck
	err := r.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("created_at DESC").
		Find(&acks).Error
	if err != nil {
		return nil, err
	}
	return acks, nil
}
