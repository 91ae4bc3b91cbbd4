package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/entity"
	"gorm.io/gorm"
)

// AssetRepository persists the asset register.
type AssetRepository struct {
	db *gorm.DB
}

func NewAssetRepository(db *gorm.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// FindByID loads one asset.
func (r *AssetRepository) FindByID(ctx context.Context, id string) (*entity.Asset, error) {
	var asset entity.Asset
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&asset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &asset, nil
}

// FindByCode loads one asset by its business code.
func (r *AssetRepository) FindByCode(ctx context.Context, code string) (*entity.Asset, error) {
	var asset entity.Asset
	err := r.db.WithContext(ctx).Where("asset_code = ?", code).First(&asset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &asset, nil
}

// CodeExists reports whether an asset code is taken, optionally excluding one
// asset id (for edits).
func (r *AssetRepository) CodeExists(ctx context.Context, code, excludeID string) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&entity.Asset{}).Where("asset_code = ?", code)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SerialExists reports whether a serial number is taken, optionally excluding
// one asset id.
func (r *AssetRepository) SerialExists(ctx context.Context, serial, excludeID string) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&entity.Asset{}).Where("serial_no = ?", serial)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts one asset.
func (r *AssetRepository) Create(ctx context.Context, asset *entity.Asset) error {
	return r.db.WithContext(ctx).Create(asset).Error
}

// CreateBatch inserts assets atomically; either every row commits or none do.
func (r *AssetRepository) CreateBatch(ctx context.Context, assets []entity.Asset) error {
	if len(assets) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range assets {
			if err := tx.Create(&assets[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Update saves one asset.
func (r *AssetRepository) Update(ctx context.Context, asset *entity.Asset) error {
	return r.db.WithContext(ctx).Save(asset).Error
}

// List pages through the register with the master-screen filters.
func (r *AssetRepository) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]entity.Asset, int64, error) {
	var assets []entity.Asset
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Asset{})

	if search, ok := filters["search"].(string); ok && search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"LOWER(asset_code) LIKE LOWER(?) OR LOWER(asset_name) LIKE LOWER(?) OR LOWER(serial_no) LIKE LOWER(?)",
			like, like, like,
		)
	}
	if plant, ok := filters["plant"].(string); ok && plant != "" {
		query = query.Where("plant = ?", plant)
	}
	if department, ok := filters["department"].(string); ok && department != "" {
		query = query.Where("department = ?", department)
	}
	if status, ok := filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("asset_code ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&assets).Error
	if err != nil {
		return nil, 0, err
	}

	return assets, total, nil
}

// ListAll returns the whole register, for export.
func (r *AssetRepository) ListAll(ctx context.Context) ([]entity.Asset, error) {
	var assets []entity.Asset
	err := r.db.WithContext(ctx).Order("asset_code ASC").Find(&assets).Error
	if err != nil {
		return nil, err
	}
	return assets, nil
}

// ExistingCodes returns the set of asset codes already in the register,
// keyed lowercase for case-insensitive lookups.
func (r *AssetRepository) ExistingCodes(ctx context.Context) (map[string]bool, error) {
	var codes []string
	if err := r.db.WithContext(ctx).Model(&entity.Asset{}).Pluck("asset_code", &codes).Error; err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		set[strings.ToLower(c)] = true
	}
	return set, nil
}

// ExistingSerials returns the set of serial numbers already in the register,
// keyed lowercase for case-insensitive lookups.
func (r *AssetRepository) ExistingSerials(ctx context.Context) (map[string]bool, error) {
	var serials []string
	err := r.db.WithContext(ctx).Model(&entity.Asset{}).
		Where("serial_no IS NOT NULL").
		Pluck("serial_no", &serials).Error
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(serials))
	for _, s := range serials {
		set[strings.ToLower(s)] = true
	}
	return set, nil
}

// DistinctValues returns the distinct non-empty values of a filter column.
// Only plant and department are accepted; the column name never comes from
// user input.
func (r *AssetRepository) DistinctValues(ctx context.Context, column string) ([]string, error) {
	if column != "plant" && column != "department" {
		return nil, errors.New("unsupported filter column: " + column)
	}
	var values []string
	err := r.db.WithContext(ctx).Model(&entity.Asset{}).
		Distinct(column).
		Where(column+" <> ''").
		Order(column + " ASC").
		Pluck(column, &values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}
