package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/entity"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/repository"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/storage"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/shared/dates"
)

// ScrapService retires assets. Scrapping is terminal and cascades
// cancellation to any open contract in the same transaction.
type ScrapService struct {
	scrapRepo *repository.ScrapRepository
	assetRepo *repository.AssetRepository
	store     *storage.ObjectStore
}

func NewScrapService(scrapRepo *repository.ScrapRepository, assetRepo *repository.AssetRepository, store *storage.ObjectStore) *ScrapService {
	return &ScrapService{
		scrapRepo: scrapRepo,
		assetRepo: assetRepo,
		store:     store,
	}
}

// ScrapRequest retires one asset. The approval note (PDF) is mandatory and
// arrives through the multipart path.
type ScrapRequest struct {
	ScrapDate  string
	ApprovedBy string
	Reason     string
}

// Scrap retires the asset in one transaction: the scrap record is inserted,
// the status flipped, and any open contract cancelled with completed_on set
// to the scrap date.
func (s *ScrapService) Scrap(ctx context.Context, assetID, userID string, req *ScrapRequest, fileName string, reader io.Reader, fileSize int64, contentType string) (*entity.ScrapRecord, error) {
	asset, err := s.assetRepo.FindByID(ctx, assetID)
	if err != nil {
		return nil, storeErr(err, "asset")
	}
	if asset.IsScrapped() {
		return nil, conflict("asset is already scrapped")
	}

	if strings.TrimSpace(req.ScrapDate) == "" {
		return nil, invalid("scrap_date", "scrap date is required")
	}
	if strings.TrimSpace(req.ApprovedBy) == "" {
		return nil, invalid("approved_by", "approver is required")
	}
	if fileName == "" || reader == nil {
		return nil, invalid("file", "approval note is required")
	}
	if !isPDF(fileName, contentType) {
		return nil, invalid("file", "only PDF files are accepted")
	}

	scrapDate, err := dates.ParseDMY(req.ScrapDate)
	if err != nil {
		return nil, invalid("scrap_date", "invalid date, expected DD/MM/YYYY or DD-MM-YYYY")
	}

	storedName := fmt.Sprintf("%s_%s_scrap_note.pdf", asset.AssetCode, time.Now().Format("Jan2006"))
	objectName := storage.ObjectName(storage.PrefixScrapNotes, storedName)
	if err := s.store.Put(ctx, objectName, reader, fileSize, "application/pdf"); err != nil {
		return nil, &PersistenceError{Err: err}
	}

	record := &entity.ScrapRecord{
		ID:         newID(),
		AssetID:    asset.ID,
		ScrapDate:  scrapDate,
		ApprovedBy: strings.TrimSpace(req.ApprovedBy),
		Reason:     req.Reason,
		FileName:   fileName,
		StoredName: storedName,
		FilePath:   objectName,
		FileSize:   fileSize,
		CreatedBy:  userID,
	}

	if err := s.scrapRepo.CreateWithCascade(ctx, record); err != nil {
		// Orphaned note in the store; remove it. Best effort.
		_ = s.store.Remove(ctx, objectName)
		if errors.Is(err, repository.ErrConflict) {
			return nil, conflict("asset is already scrapped")
		}
		return nil, &PersistenceError{Err: err}
	}
	return record, nil
}

// Get loads the asset's scrap record.
func (s *ScrapService) Get(ctx context.Context, assetID string) (*entity.ScrapRecord, error) {
	record, err := s.scrapRepo.FindByAsset(ctx, assetID)
	if err != nil {
		return nil, storeErr(err, "scrap record")
	}
	return record, nil
}

// List pages through scrap records.
func (s *ScrapService) List(ctx context.Context, page, pageSize int) ([]entity.ScrapRecord, int64, error) {
	records, total, err := s.scrapRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, 0, &PersistenceError{Err: err}
	}
	return records, total, nil
}

// DownloadNote streams the approval note.
func (s *ScrapService) DownloadNote(ctx context.Context, assetID string) (io.ReadCloser, *entity.ScrapRecord, error) {
	record, err := s.scrapRepo.FindByAsset(ctx, assetID)
	if err != nil {
		return nil, nil, storeErr(err, "scrap record")
	}
	reader, err := s.store.Get(ctx, record.FilePath)
	if err != nil {
		return nil, nil, &PersistenceError{Err: err}
	}
	return reader, record, nil
}
