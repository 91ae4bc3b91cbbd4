package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/entity"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/repository"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/shared/dates"
)

// AssetService owns the asset register: registration, edits until scrapped,
// and the master-screen listing.
type AssetService struct {
	assetRepo *repository.AssetRepository
	conRepo   *repository.ContractRepository
	calRepo   *repository.CalibrationRepository
	scrapRepo *repository.ScrapRepository
}

func NewAssetService(assetRepo *repository.AssetRepository, conRepo *repository.ContractRepository, calRepo *repository.CalibrationRepository, scrapRepo *repository.ScrapRepository) *AssetService {
	return &AssetService{
		assetRepo: assetRepo,
		conRepo:   conRepo,
		calRepo:   calRepo,
		scrapRepo: scrapRepo,
	}
}

// CreateAssetRequest registers one asset. PurchaseDate is DD/MM/YYYY.
type CreateAssetRequest struct {
	AssetCode    string `json:"asset_code" binding:"required"`
	AssetName    string `json:"asset_name" binding:"required"`
	SerialNo     string `json:"serial_no"`
	Plant        string `json:"plant"`
	Department   string `json:"department"`
	Location     string `json:"location"`
	PurchaseDate string `json:"purchase_date"`
}

// UpdateAssetRequest edits one asset. Status is never editable here; only the
// scrap workflow changes it.
type UpdateAssetRequest struct {
	AssetCode    *string `json:"asset_code"`
	AssetName    *string `json:"asset_name"`
	SerialNo     *string `json:"serial_no"`
	Plant        *string `json:"plant"`
	Department   *string `json:"department"`
	Location     *string `json:"location"`
	PurchaseDate *string `json:"purchase_date"`
}

// AssetListResult is one page of the register.
type AssetListResult struct {
	Items      []entity.Asset `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// AssetDetail is one asset with its maintenance context.
type AssetDetail struct {
	Asset            entity.Asset        `json:"asset"`
	OpenContract     *entity.Contract    `json:"open_contract,omitempty"`
	CalibrationCount int64               `json:"calibration_count"`
	ScrapRecord      *entity.ScrapRecord `json:"scrap_record,omitempty"`
}

func (s *AssetService) parsePurchaseDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	d, err := dates.ParseDMY(raw)
	if err != nil {
		return nil, invalid("purchase_date", "invalid date, expected DD/MM/YYYY or DD-MM-YYYY")
	}
	if dates.AfterDay(d, time.Now()) {
		return nil, invalid("purchase_date", "purchase date cannot be in the future")
	}
	return &d, nil
}

// Create registers one asset, enforcing code and serial uniqueness.
func (s *AssetService) Create(ctx context.Context, userID string, req *CreateAssetRequest) (*entity.Asset, error) {
	code := strings.TrimSpace(req.AssetCode)
	name := strings.TrimSpace(req.AssetName)
	if code == "" {
		return nil, invalid("asset_code", "asset code is required")
	}
	if name == "" {
		return nil, invalid("asset_name", "asset name is required")
	}

	taken, err := s.assetRepo.CodeExists(ctx, code, "")
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}
	if taken {
		return nil, conflict("asset code already exists")
	}

	var serial *string
	if sn := strings.TrimSpace(req.SerialNo); sn != "" {
		taken, err := s.assetRepo.SerialExists(ctx, sn, "")
		if err != nil {
			return nil, &PersistenceError{Err: err}
		}
		if taken {
			return nil, conflict("serial number already exists")
		}
		serial = &sn
	}

	purchaseDate, err := s.parsePurchaseDate(req.PurchaseDate)
	if err != nil {
		return nil, err
	}

	asset := &entity.Asset{
		ID:           newID(),
		AssetCode:    code,
		AssetName:    name,
		SerialNo:     serial,
		Plant:        strings.TrimSpace(req.Plant),
		Department:   strings.TrimSpace(req.Department),
		Location:     strings.TrimSpace(req.Location),
		PurchaseDate: purchaseDate,
		Status:       entity.AssetStatusActive,
	}

	if err := s.assetRepo.Create(ctx, asset); err != nil {
		return nil, &PersistenceError{Err: err}
	}
	return asset, nil
}

// Update edits one asset. A scrapped asset is immutable.
func (s *AssetService) Update(ctx context.Context, id string, req *UpdateAssetRequest) (*entity.Asset, error) {
	asset, err := s.assetRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "asset")
	}
	if asset.IsScrapped() {
		return nil, conflict("asset is scrapped and can no longer be edited")
	}

	if req.AssetCode != nil {
		code := strings.TrimSpace(*req.AssetCode)
		if code == "" {
			return nil, invalid("asset_code", "asset code is required")
		}
		if code != asset.AssetCode {
			taken, err := s.assetRepo.CodeExists(ctx, code, asset.ID)
			if err != nil {
				return nil, &PersistenceError{Err: err}
			}
			if taken {
				return nil, conflict("asset code already exists")
			}
		}
		asset.AssetCode = code
	}
	if req.AssetName != nil {
		name := strings.TrimSpace(*req.AssetName)
		if name == "" {
			return nil, invalid("asset_name", "asset name is required")
		}
		asset.AssetName = name
	}
	if req.SerialNo != nil {
		if sn := strings.TrimSpace(*req.SerialNo); sn != "" {
			taken, err := s.assetRepo.SerialExists(ctx, sn, asset.ID)
			if err != nil {
				return nil, &PersistenceError{Err: err}
			}
			if taken {
				return nil, conflict("serial number already exists")
			}
			asset.SerialNo = &sn
		} else {
			asset.SerialNo = nil
		}
	}
	if req.Plant != nil {
		asset.Plant = strings.TrimSpace(*req.Plant)
	}
	if req.Department != nil {
		asset.Department = strings.TrimSpace(*req.Department)
	}
	if req.Location != nil {
		asset.Location = strings.TrimSpace(*req.Location)
	}
	if req.PurchaseDate != nil {
		purchaseDate, err := s.parsePurchaseDate(*req.PurchaseDate)
		if err != nil {
			return nil, err
		}
		asset.PurchaseDate = purchaseDate
	}

	if err := s.assetRepo.Update(ctx, asset); err != nil {
		return nil, &PersistenceError{Err: err}
	}
	return asset, nil
}

// Get loads one asset with its open contract, calibration count and scrap
// record.
func (s *AssetService) Get(ctx context.Context, id string) (*AssetDetail, error) {
	asset, err := s.assetRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "asset")
	}

	detail := &AssetDetail{Asset: *asset}

	open, err := s.conRepo.FindOpenByAsset(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, &PersistenceError{Err: err}
	}
	detail.OpenContract = open

	count, err := s.calRepo.CountByAsset(ctx, id)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}
	detail.CalibrationCount = count

	scrap, err := s.scrapRepo.FindByAsset(ctx, id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, &PersistenceError{Err: err}
	}
	detail.ScrapRecord = scrap

	return detail, nil
}

// List pages through the register with search/plant/department/status
// filters.
func (s *AssetService) List(ctx context.Context, page, pageSize int, filters map[string]interface{}) (*AssetListResult, error) {
	assets, total, err := s.assetRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &AssetListResult{
		Items:      assets,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// FilterOptions returns the distinct plants and departments for the master
// screen dropdowns.
func (s *AssetService) FilterOptions(ctx context.Context) (plants, departments []string, err error) {
	plants, err = s.assetRepo.DistinctValues(ctx, "plant")
	if err != nil {
		return nil, nil, &PersistenceError{Err: err}
	}
	departments, err = s.assetRepo.DistinctValues(ctx, "department")
	if err != nil {
		return nil, nil, &PersistenceError{Err: err}
	}
	return plants, departments, nil
}
