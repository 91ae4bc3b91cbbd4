package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/entity"
	"gorm.io/gorm"
)

// ContractRepository persists AMC contracts and their events/documents.
type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// FindByID loads one contract with its asset, events and documents.
func (r *ContractRepository) FindByID(ctx context.Context, id string) (*entity.Contract, error) {
	var contract entity.Contract
	err := r.db.WithContext(ctx).
		Preload("Asset").
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("event_date ASC, created_at ASC")
		}).
		Preload("Documents", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&contract).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &contract, nil
}

// FindOpenByAsset returns the asset's open contract, or ErrNotFound.
func (r *ContractRepository) FindOpenByAsset(ctx context.Context, assetID string) (*entity.Contract, error) {
	var contract entity.Contract
	err := r.db.WithContext(ctx).
		Where("asset_id = ? AND is_completed = ? AND is_cancelled = ?", assetID, false, false).
		First(&contract).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &contract, nil
}

// Create inserts one contract.
func (r *ContractRepository) Create(ctx context.Context, contract *entity.Contract) error {
	return r.db.WithContext(ctx).Create(contract).Error
}

// Update saves one contract.
func (r *ContractRepository) Update(ctx context.Context, contract *entity.Contract) error {
	return r.db.WithContext(ctx).Save(contract).Error
}

// Close sets the terminal flag atomically. The WHERE clause re-checks the
// open state so a concurrent close loses cleanly; zero rows affected means
// the contract was already closed (or absent).
func (r *ContractRepository) Close(ctx context.Context, id string, cancelled bool, completedOn time.Time) (bool, error) {
	updates := map[string]interface{}{
		"completed_on": completedOn,
		"updated_at":   time.Now(),
	}
	if cancelled {
		updates["is_cancelled"] = true
	} else {
		updates["is_completed"] = true
	}
	res := r.db.WithContext(ctx).
		Model(&entity.Contract{}).
		Where("id = ? AND is_completed = ? AND is_cancelled = ?", id, false, false).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// AddEvent appends one contract event.
func (r *ContractRepository) AddEvent(ctx context.Context, event *entity.ContractEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// AddDocument appends one contract document.
func (r *ContractRepository) AddDocument(ctx context.Context, doc *entity.ContractDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

// FindDocument loads one contract document.
func (r *ContractRepository) FindDocument(ctx context.Context, id string) (*entity.ContractDocument, error) {
	var doc entity.ContractDocument
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// CountDocumentsByType counts a contract's documents of one type. The stored
// filename sequence is this count plus one, scoped to the contract and type.
func (r *ContractRepository) CountDocumentsByType(ctx context.Context, contractID, docType string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.ContractDocument{}).
		Where("contract_id = ? AND doc_type = ?", contractID, docType).
		Count(&count).Error
	return count, err
}

// List pages through contracts, newest first, with optional asset filter.
func (r *ContractRepository) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]entity.Contract, int64, error) {
	var contracts []entity.Contract
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Contract{})

	if assetID, ok := filters["asset_id"].(string); ok && assetID != "" {
		query = query.Where("asset_id = ?", assetID)
	}
	if open, ok := filters["open"].(bool); ok && open {
		query = query.Where("is_completed = ? AND is_cancelled = ?", false, false)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Asset").
		Preload("Events").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&contracts).Error
	if err != nil {
		return nil, 0, err
	}

	return contracts, total, nil
}

// ListOpenOnActiveAssets feeds the reminder engine: every open contract whose
// asset is still active, asset preloaded.
func (r *ContractRepository) ListOpenOnActiveAssets(ctx context.Context) ([]entity.Contract, error) {
	var contracts []entity.Contract
	err := r.db.WithContext(ctx).
		Joins("JOIN assets ON assets.id = contracts.asset_id").
		Where("contracts.is_completed = ? AND contracts.is_cancelled = ?", false, false).
		Where("assets.status = ?", entity.AssetStatusActive).
		Preload("Asset").
		Find(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}

// ListByAsset returns an asset's contracts, newest first.
func (r *ContractRepository) ListByAsset(ctx context.Context, assetID string) ([]entity.Contract, error) {
	var contracts []entity.Contract
	err := r.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Preload("Events").
		Order("start_date DESC").
		Find(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}
